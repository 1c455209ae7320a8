package videocache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"lessonlink/internal/logging"
)

// Entry records the outcome of one lesson's video search. A nil VideoID
// means the search ran and found no acceptable match.
type Entry struct {
	VideoID      *string `json:"videoId"`
	YouTubeTitle string  `json:"youtubeTitle,omitempty"`
	Channel      string  `json:"channel,omitempty"`
}

// Found reports whether the entry records an accepted match.
func (e Entry) Found() bool {
	return e.VideoID != nil && strings.TrimSpace(*e.VideoID) != ""
}

// FoundEntry builds an entry for an accepted match.
func FoundEntry(videoID, title, channel string) Entry {
	return Entry{VideoID: &videoID, YouTubeTitle: title, Channel: channel}
}

// AbsentEntry builds the searched-but-not-found sentinel.
func AbsentEntry() Entry {
	return Entry{}
}

// Cache provides durable per-lesson search outcomes keyed by lesson ID.
type Cache struct {
	path    string
	logger  *slog.Logger
	mu      sync.RWMutex
	entries map[string]Entry
}

// Open loads the cache at path, creating it lazily on first Store. A corrupt
// or unreadable file starts the cache empty with a warning; it never fails.
func Open(path string, logger *slog.Logger) *Cache {
	logger = logging.NewComponentLogger(logger, "videocache")

	c := &Cache{
		path:    path,
		logger:  logger,
		entries: make(map[string]Entry),
	}

	if err := c.load(); err != nil {
		logger.Warn("failed to load video cache",
			logging.Error(err),
			logging.String(logging.FieldImpact, "previously resolved lessons will be searched again"))
	}

	return c
}

// Lookup returns the cached outcome for the given lesson ID if present.
func (c *Cache) Lookup(lessonID string) (Entry, bool) {
	lessonID = strings.TrimSpace(lessonID)
	if lessonID == "" {
		return Entry{}, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, found := c.entries[lessonID]
	return entry, found
}

// Store records an outcome and persists it before returning, so a crash
// immediately after loses nothing.
func (c *Cache) Store(lessonID string, entry Entry) error {
	lessonID = strings.TrimSpace(lessonID)
	if lessonID == "" {
		return errors.New("lesson ID cannot be empty")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[lessonID] = entry

	if err := c.save(); err != nil {
		return fmt.Errorf("persist cache: %w", err)
	}

	c.logger.Debug("cached search outcome",
		logging.String(logging.FieldLessonID, lessonID),
		logging.Bool("found", entry.Found()))

	return nil
}

// Remove deletes an entry so the next run re-queries the lesson.
func (c *Cache) Remove(lessonID string) error {
	lessonID = strings.TrimSpace(lessonID)
	if lessonID == "" {
		return errors.New("lesson ID cannot be empty")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[lessonID]; !exists {
		return fmt.Errorf("lesson %q not found in cache", lessonID)
	}

	delete(c.entries, lessonID)

	if err := c.save(); err != nil {
		return fmt.Errorf("persist cache: %w", err)
	}

	c.logger.Debug("removed cache entry", logging.String(logging.FieldLessonID, lessonID))
	return nil
}

// ListedEntry pairs a lesson ID with its cached outcome for display.
type ListedEntry struct {
	LessonID string
	Entry    Entry
}

// List returns all entries sorted by lesson ID.
func (c *Cache) List() []ListedEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entries := make([]ListedEntry, 0, len(c.entries))
	for id, entry := range c.entries {
		entries = append(entries, ListedEntry{LessonID: id, Entry: entry})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].LessonID < entries[j].LessonID
	})
	return entries
}

// Clear removes all entries and persists the empty cache.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]Entry)

	if err := c.save(); err != nil {
		return fmt.Errorf("persist cache: %w", err)
	}

	c.logger.Debug("cleared video cache")
	return nil
}

// Len returns the number of cached outcomes.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) load() error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil // fresh start
		}
		return fmt.Errorf("read cache file: %w", err)
	}

	if len(data) == 0 {
		return nil
	}

	var entries map[string]Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parse cache file: %w", err)
	}

	c.entries = make(map[string]Entry, len(entries))
	for id, entry := range entries {
		if strings.TrimSpace(id) != "" {
			c.entries[id] = entry
		}
	}

	c.logger.Debug("loaded video cache",
		logging.Int("entry_count", len(c.entries)),
		logging.String("path", c.path))

	return nil
}

func (c *Cache) save() error {
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	tmpPath := c.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}
