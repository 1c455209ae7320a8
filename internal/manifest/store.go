package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store reads and writes the manifest file. Manifest I/O errors are fatal to
// a run: unlike the search cache there is no fallback, the manifest is the
// only authoritative output.
type Store struct {
	path string
}

// NewStore creates a store for the manifest at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the manifest file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads and validates the manifest.
func (s *Store) Load() (*Manifest, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", s.path, err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", s.path, err)
	}

	if err := Validate(&m); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", s.path, err)
	}

	return &m, nil
}

// Save writes the manifest atomically: pretty-printed UTF-8 with non-ASCII
// preserved, staged through a temp file and renamed into place so a crash
// mid-write never leaves a truncated manifest.
func (s *Store) Save(m *Manifest) error {
	if err := Validate(m); err != nil {
		return err
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(m); err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create manifest directory: %w", err)
		}
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write temp manifest: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp manifest: %w", err)
	}
	return nil
}

// Validate checks structural invariants: non-empty unique lesson IDs and no
// video fields on article lessons.
func Validate(m *Manifest) error {
	if m == nil {
		return fmt.Errorf("manifest is nil")
	}

	seen := make(map[string]string, m.LessonCount())
	for _, ref := range m.Lessons() {
		id := strings.TrimSpace(ref.Lesson.ID)
		if id == "" {
			return fmt.Errorf("lesson %q in unit %q has no id", ref.Lesson.Title, ref.Unit.Title)
		}
		if prev, dup := seen[id]; dup {
			return fmt.Errorf("duplicate lesson id %q (in courses %q and %q)", id, prev, ref.Course.ID)
		}
		seen[id] = ref.Course.ID

		if ref.Lesson.IsArticle() && (ref.Lesson.YouTubeVideoID != "" || ref.Lesson.YouTubeTitle != "") {
			return fmt.Errorf("article lesson %q carries video fields", id)
		}
	}
	return nil
}
