package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable(
		[]column{{title: "Lesson"}, {title: "Count", rightAlign: true}},
		[][]string{
			{"l-limits", "3"},
			{"l-continuity"},
		},
	)

	requireContains(t, out, "Lesson")
	requireContains(t, out, "Count")
	requireContains(t, out, "l-limits")
	requireContains(t, out, "l-continuity")
	if strings.Contains(out, "<nil>") {
		t.Errorf("short row rendered a nil cell:\n%s", out)
	}
}

func TestRenderTableEmptyColumns(t *testing.T) {
	if out := renderTable(nil, [][]string{{"x"}}); out != "" {
		t.Errorf("expected empty output, got %q", out)
	}
}

func TestPaintOnlyWhenEnabled(t *testing.T) {
	if got := paint("50%", ansiYellow, false); got != "50%" {
		t.Errorf("disabled paint altered the text: %q", got)
	}
	got := paint("50%", ansiYellow, true)
	if !strings.HasPrefix(got, ansiYellow) || !strings.HasSuffix(got, ansiReset) {
		t.Errorf("enabled paint missing escapes: %q", got)
	}
}

func TestColorDisabledForNonTerminalWriter(t *testing.T) {
	if colorEnabled(&bytes.Buffer{}) {
		t.Error("buffer writer reported as a terminal")
	}
}
