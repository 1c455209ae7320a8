package runledger

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump on schema changes; users
// clear the ledger by deleting the database file.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the
// expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Store manages run history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the ledger database.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// StartRun inserts a new run row and returns its identifier.
func (s *Store) StartRun(ctx context.Context, manifestPath string) (string, error) {
	runID := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339Nano)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (run_id, manifest_path, started_at) VALUES (?, ?, ?)`,
		runID, manifestPath, now,
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return runID, nil
}

// RecordLesson appends one lesson resolution event to a run.
func (s *Store) RecordLesson(ctx context.Context, runID, courseID, lessonID string, found bool, videoID string, score float64, fromCache bool) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO lesson_events (run_id, course_id, lesson_id, found, video_id, score, from_cache, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, courseID, lessonID, boolToInt(found), nullableString(videoID), score, boolToInt(fromCache), now,
	)
	if err != nil {
		return fmt.Errorf("insert lesson event: %w", err)
	}
	return nil
}

// FinishRun stamps the run complete with its final counters.
func (s *Store) FinishRun(ctx context.Context, runID string, found, missed, cacheHits int) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)

	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, found = ?, missed = ?, cache_hits = ? WHERE run_id = ?`,
		now, found, missed, cacheHits, runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("run %q not found", runID)
	}
	return nil
}

// Run is one recorded pipeline run.
type Run struct {
	RunID        string
	ManifestPath string
	StartedAt    time.Time
	FinishedAt   *time.Time
	Found        int
	Missed       int
	CacheHits    int
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, manifest_path, started_at, finished_at, found, missed, cache_hits
         FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var started string
		var finished sql.NullString
		if err := rows.Scan(&run.RunID, &run.ManifestPath, &started, &finished, &run.Found, &run.Missed, &run.CacheHits); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339Nano, started); err == nil {
			run.StartedAt = ts
		}
		if finished.Valid {
			if ts, err := time.Parse(time.RFC3339Nano, finished.String); err == nil {
				run.FinishedAt = &ts
			}
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// LessonEvent is one recorded lesson resolution.
type LessonEvent struct {
	RunID     string
	CourseID  string
	LessonID  string
	Found     bool
	VideoID   string
	Score     float64
	FromCache bool
	CreatedAt time.Time
}

// LessonHistory returns every recorded resolution for a lesson, newest first.
func (s *Store) LessonHistory(ctx context.Context, lessonID string) ([]LessonEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, course_id, lesson_id, found, video_id, score, from_cache, created_at
         FROM lesson_events WHERE lesson_id = ? ORDER BY id DESC`, lessonID)
	if err != nil {
		return nil, fmt.Errorf("query lesson events: %w", err)
	}
	defer rows.Close()

	var events []LessonEvent
	for rows.Next() {
		var event LessonEvent
		var found, fromCache int
		var videoID sql.NullString
		var created string
		if err := rows.Scan(&event.RunID, &event.CourseID, &event.LessonID, &found, &videoID, &event.Score, &fromCache, &created); err != nil {
			return nil, fmt.Errorf("scan lesson event: %w", err)
		}
		event.Found = found != 0
		event.FromCache = fromCache != 0
		event.VideoID = videoID.String
		if ts, err := time.Parse(time.RFC3339Nano, created); err == nil {
			event.CreatedAt = ts
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
