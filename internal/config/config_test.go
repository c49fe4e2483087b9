package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"readq/internal/config"
	"readq/internal/schedule"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("READQ_API_TOKEN", "from-env")
	t.Chdir(tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != filepath.Join(tempHome, ".config", "readq", "config.toml") {
		t.Fatalf("unexpected resolved path %q", resolved)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	if want := filepath.Join(tempHome, ".local", "share", "readq"); cfg.Paths.DataDir != want {
		t.Fatalf("data dir = %q, want %q", cfg.Paths.DataDir, want)
	}
	if cfg.DatabasePath() != filepath.Join(cfg.Paths.DataDir, "readq.db") {
		t.Fatalf("unexpected database path %q", cfg.DatabasePath())
	}
	if cfg.Paths.APIToken != "from-env" {
		t.Fatalf("expected API token from env, got %q", cfg.Paths.APIToken)
	}
	if cfg.Queue.DefaultPolicy != schedule.End {
		t.Fatalf("default policy = %s", cfg.Queue.DefaultPolicy)
	}
	if cfg.Queue.ConsumePolicy != schedule.RandomThirdThird {
		t.Fatalf("consume policy = %s", cfg.Queue.ConsumePolicy)
	}
	if len(cfg.Scoring.ReviewKinds) != 1 || cfg.Scoring.ReviewKinds[0] != "review" {
		t.Fatalf("unexpected review kinds %v", cfg.Scoring.ReviewKinds)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
	}
}

func TestLoadCustomConfig(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	configPath := filepath.Join(tempHome, "config.toml")
	content := `[paths]
data_dir = "~/notes"

[queue]
default_policy = "first_third"
consume_policy = "head"

[scoring]
review_kinds = [" Review ", "relearn", "review"]
lowest_limit = 5

[logging]
format = "JSON"
level = "Debug"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected to load %q, got %q (exists=%v)", configPath, resolved, exists)
	}
	if cfg.Paths.DataDir != filepath.Join(tempHome, "notes") {
		t.Fatalf("unexpected data dir %q", cfg.Paths.DataDir)
	}
	if cfg.Queue.DefaultPolicy != schedule.FirstThird || cfg.Queue.ConsumePolicy != schedule.Head {
		t.Fatalf("unexpected policies %s / %s", cfg.Queue.DefaultPolicy, cfg.Queue.ConsumePolicy)
	}
	if got := strings.Join(cfg.Scoring.ReviewKinds, ","); got != "review,relearn" {
		t.Fatalf("review kinds = %q", got)
	}
	if cfg.Scoring.LowestLimit != 5 {
		t.Fatalf("lowest limit = %d", cfg.Scoring.LowestLimit)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging %+v", cfg.Logging)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"unknown policy": "[queue]\ndefault_policy = \"middle\"\n",
		"review kind":    "[scoring]\nreview_kinds = [\"skim\"]\n",
		"lowest limit":   "[scoring]\nlowest_limit = 0\n",
		"log format":     "[logging]\nformat = \"xml\"\n",
		"server mode":    "[server]\nmode = \"turbo\"\n",
		"burst":          "[server]\nburst = -1\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("HOME", t.TempDir())
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			if _, _, _, err := config.Load(path); err == nil {
				t.Fatal("expected Load to fail")
			}
		})
	}
}

func TestSampleConfigIsValid(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		t.Fatalf("sample is not valid TOML: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if cfg.Queue.ConsumePolicy != schedule.RandomThirdThird {
		t.Fatalf("sample consume policy = %s", cfg.Queue.ConsumePolicy)
	}
}
