package ytsearch

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"

	"lessonlink/internal/logging"
)

var commandContext = exec.CommandContext

// Candidate is one media item returned by the search index.
type Candidate struct {
	VideoID   string
	Title     string
	Channel   string
	ChannelID string
	Duration  float64
}

// Provider yields ranked candidates for a text query.
type Provider interface {
	Search(ctx context.Context, query string) ([]Candidate, error)
}

// Option configures the CLI client.
type Option func(*CLI)

// WithBinary overrides the default yt-dlp binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// WithMaxResults sets how many results a search requests.
func WithMaxResults(n int) Option {
	return func(c *CLI) {
		if n > 0 {
			c.maxResults = n
		}
	}
}

// WithSocketTimeout sets yt-dlp's per-connection timeout in seconds.
func WithSocketTimeout(seconds int) Option {
	return func(c *CLI) {
		if seconds > 0 {
			c.socketTimeout = seconds
		}
	}
}

// WithLogger attaches a logger for dropped-record diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *CLI) {
		c.logger = logging.NewComponentLogger(logger, "ytsearch")
	}
}

// CLI invokes the yt-dlp command-line search.
type CLI struct {
	binary        string
	maxResults    int
	socketTimeout int
	logger        *slog.Logger
}

// NewCLI constructs a search client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{
		binary:        "yt-dlp",
		maxResults:    5,
		socketTimeout: 10,
		logger:        logging.NewNop(),
	}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// searchRecord is the subset of yt-dlp's flat-playlist JSON we consume.
// Channel and uploader fields vary by extractor, so both are read.
type searchRecord struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Channel    string   `json:"channel"`
	Uploader   string   `json:"uploader"`
	ChannelID  string   `json:"channel_id"`
	UploaderID string   `json:"uploader_id"`
	Duration   *float64 `json:"duration"`
}

// Search runs a text search and returns candidates in provider ranking
// order. Malformed result lines are dropped individually; a failed or
// timed-out invocation returns an error with whatever stderr reported.
func (c *CLI) Search(ctx context.Context, query string) ([]Candidate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query is required")
	}

	searchURL := "ytsearch" + strconv.Itoa(c.maxResults) + ":" + query
	args := []string{
		"--flat-playlist",
		"--dump-json",
		"--no-warnings",
		"--socket-timeout", strconv.Itoa(c.socketTimeout),
		searchURL,
	}

	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("search timed out: %w", ctx.Err())
		}
		return nil, fmt.Errorf("%s failed: %w: %s", c.binary, err, strings.TrimSpace(stderr.String()))
	}

	return c.parseResults(&stdout), nil
}

func (c *CLI) parseResults(r *bytes.Buffer) []Candidate {
	var candidates []Candidate
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var record searchRecord
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			c.logger.Debug("dropped malformed search record", logging.Error(err))
			continue
		}
		if record.ID == "" {
			continue
		}
		channel := record.Channel
		if channel == "" {
			channel = record.Uploader
		}
		channelID := record.ChannelID
		if channelID == "" {
			channelID = record.UploaderID
		}
		candidate := Candidate{
			VideoID:   record.ID,
			Title:     record.Title,
			Channel:   channel,
			ChannelID: channelID,
		}
		if record.Duration != nil {
			candidate.Duration = *record.Duration
		}
		candidates = append(candidates, candidate)
	}
	return candidates
}
