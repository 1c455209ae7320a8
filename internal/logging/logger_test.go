package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func newTestLogger(t *testing.T, format string, buf *bytes.Buffer) *slog.Logger {
	t.Helper()
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelDebug)
	switch format {
	case "json":
		return slog.New(newJSONHandler(buf, levelVar))
	default:
		return slog.New(newConsoleHandler(buf, levelVar))
	}
}

func TestConsoleHandlerRendersComponentPrefix(t *testing.T) {
	var buf bytes.Buffer
	logger := NewComponentLogger(newTestLogger(t, "console", &buf), "updater")

	logger.Info("lesson resolved", String(FieldLessonID, "dc_u1_01"), Float64("score", 0.91))

	line := strings.TrimSpace(buf.String())
	if !strings.Contains(line, " INF updater: lesson resolved") {
		t.Fatalf("unexpected line: %q", line)
	}
	if !strings.Contains(line, "lesson_id=dc_u1_01") {
		t.Fatalf("missing lesson id attr: %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("component should be a prefix, not an attr: %q", line)
	}
}

func TestConsoleHandlerQuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(t, "console", &buf)

	logger.Warn("search failed", String("query", "khan academy limits intro"))

	if !strings.Contains(buf.String(), `query="khan academy limits intro"`) {
		t.Fatalf("value not quoted: %q", buf.String())
	}
}

func TestJSONHandlerEmitsLowercaseLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(t, "json", &buf)

	logger.Error("boom", Int("count", 3))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("invalid json output: %v", err)
	}
	if record["level"] != "error" {
		t.Fatalf("unexpected level: %v", record["level"])
	}
	if record["msg"] != "boom" {
		t.Fatalf("unexpected msg: %v", record["msg"])
	}
	if _, ok := record["ts"]; !ok {
		t.Fatal("missing ts field")
	}
}

func TestParseLevelFallsBackToInfo(t *testing.T) {
	if got := parseLevel("verbose"); got != slog.LevelInfo {
		t.Fatalf("unexpected level for unknown value: %v", got)
	}
	if got := parseLevel("WARN"); got != slog.LevelWarn {
		t.Fatalf("case-insensitive parse failed: %v", got)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNop()
	// Must not panic and must report disabled at every level.
	logger.Info("ignored")
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("nop logger should be disabled")
	}
}
