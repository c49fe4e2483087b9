package main

import (
	"strconv"
	"testing"
)

func TestPagesProgress(t *testing.T) {
	env := setupCLITestEnv(t)
	id := strconv.FormatInt(env.addNote(t, "paper", "--source", "paper.pdf"), 10)

	out := env.mustRun(t, "pages", "read", id, "1", "2", "3", "--total", "10")
	requireContains(t, out, "3 of 10 pages read")

	out = env.mustRun(t, "pages", "unread", id, "2")
	requireContains(t, out, "2 of 10 pages read")

	var res pagesResult
	env.runJSON(t, &res, "pages", "list", id)
	if len(res.Pages) != 2 || res.Progress.Read != 2 || res.Progress.Total != 10 {
		t.Fatalf("pages = %+v", res)
	}

	if _, _, err := runCLI(t, []string{"pages", "read", id, "0"}, env.configPath); err == nil {
		t.Fatal("expected page 0 to be rejected")
	}
	if _, _, err := runCLI(t, []string{"pages", "read", "999", "1"}, env.configPath); err == nil {
		t.Fatal("expected unknown note to be rejected")
	}
}
