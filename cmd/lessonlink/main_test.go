package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"lessonlink/internal/config"
	"lessonlink/internal/manifest"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.ManifestPath = filepath.Join(base, "manifest.json")
	cfgVal.Paths.CachePath = filepath.Join(base, "video_cache.json")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.HistoryDBPath = filepath.Join(base, "history.db")

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, &cfgVal)
	writeTestManifest(t, cfgVal.Paths.ManifestPath)

	return &cliTestEnv{cfg: &cfgVal, configPath: configPath, baseDir: base}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func writeTestManifest(t *testing.T, path string) {
	t.Helper()
	m := &manifest.Manifest{
		Courses: []manifest.Course{
			{
				ID:    "ap-calculus-ab",
				Title: "AP Calculus AB",
				Units: []manifest.Unit{
					{
						ID:    "unit-1",
						Title: "Unit 1: Limits and continuity",
						Lessons: []manifest.Lesson{
							{ID: "l-limits", Title: "Limits intro", YouTubeVideoID: "riXcZT2ICjA", YouTubeTitle: "Limits intro"},
							{ID: "l-continuity", Title: "Continuity at a point"},
							{ID: "l-summary", Title: "Unit 1 summary (articles)"},
						},
					},
				},
			},
		},
	}
	if err := manifest.NewStore(path).Save(m); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
