package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"readq/internal/config"
	"readq/internal/schedule"
	"readq/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, testsupport.WithPolicies(schedule.End, schedule.End))
	base := testsupport.BaseDir(cfg)
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	configPath := filepath.Join(homeDir, ".config", "readq", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
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

// mustRun runs the CLI and fails the test on error.
func (env *cliTestEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, stderr, err := runCLI(t, args, env.configPath)
	if err != nil {
		t.Fatalf("readq %s: %v (stderr %q)", strings.Join(args, " "), err, stderr)
	}
	return out
}

func (env *cliTestEnv) runJSON(t *testing.T, v any, args ...string) {
	t.Helper()
	out := env.mustRun(t, append([]string{"--json"}, args...)...)
	if err := json.Unmarshal([]byte(out), v); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
}

// addNote creates a note at the end of the queue and returns its ID.
func (env *cliTestEnv) addNote(t *testing.T, title string, extra ...string) int64 {
	t.Helper()
	var res noteResult
	env.runJSON(t, &res, append([]string{"note", "add", title}, extra...)...)
	if res.Note == nil || res.Note.ID == 0 {
		t.Fatalf("note add returned no note")
	}
	return res.Note.ID
}

func (env *cliTestEnv) queueIDs(t *testing.T) []int64 {
	t.Helper()
	var list []struct {
		ID int64 `json:"id"`
	}
	env.runJSON(t, &list, "queue", "list")
	ids := make([]int64, len(list))
	for i, n := range list {
		ids[i] = n.ID
	}
	return ids
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\ndata_dir = %q\nlog_dir = %q\napi_bind = %q\n\n[queue]\ndefault_policy = %q\nconsume_policy = %q\n",
		cfg.Paths.DataDir,
		cfg.Paths.LogDir,
		cfg.Paths.APIBind,
		cfg.Queue.DefaultPolicy.String(),
		cfg.Queue.ConsumePolicy.String(),
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
