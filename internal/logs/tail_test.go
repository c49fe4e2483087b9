package logs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func writeLines(t *testing.T, path string, lines ...string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	for _, line := range lines {
		if _, err := f.WriteString(line + "\n"); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
}

func TestLastKeepsTrailingLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "readq.log")
	for i := 1; i <= 5; i++ {
		writeLines(t, path, fmt.Sprintf("line %d", i))
	}

	lines, offset, err := Last(path, 2, nil)
	if err != nil {
		t.Fatalf("Last: %v", err)
	}
	if strings.Join(lines, ",") != "line 4,line 5" {
		t.Fatalf("lines = %v", lines)
	}
	info, _ := os.Stat(path)
	if offset != info.Size() {
		t.Fatalf("offset = %d, want %d", offset, info.Size())
	}

	lines, _, err = Last(path, 10, nil)
	if err != nil || len(lines) != 5 || lines[0] != "line 1" {
		t.Fatalf("short file = %v, %v", lines, err)
	}
}

func TestLastMissingFile(t *testing.T) {
	lines, offset, err := Last(filepath.Join(t.TempDir(), "missing.log"), 10, nil)
	if err != nil || lines != nil || offset != 0 {
		t.Fatalf("missing file = %v, %d, %v", lines, offset, err)
	}
}

func TestFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "readq.log")
	writeLines(t, path,
		"2026-01-01T00:00:00Z INFO readinglist: note created note_id=7",
		"2026-01-01T00:00:00Z DEBUG readinglist: review logged note_id=7",
		"2026-01-01T00:00:00Z INFO readinglist: note created note_id=70",
		`{"level":"WARN","msg":"queue repaired","note_id":7}`,
	)

	lines, _, err := Last(path, 10, ForNote(7))
	if err != nil || len(lines) != 3 {
		t.Fatalf("note 7 lines = %v, %v", lines, err)
	}

	lines, _, err = Last(path, 10, All(ForNote(7), MinLevel("info")))
	if err != nil || len(lines) != 2 {
		t.Fatalf("note 7 info+ lines = %v, %v", lines, err)
	}
}

func TestFollowEmitsAppendedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "readq.log")
	writeLines(t, path, "old")
	_, offset, err := Last(path, 0, nil)
	if err != nil {
		t.Fatalf("Last: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu  sync.Mutex
		got []string
	)
	done := make(chan error, 1)
	go func() {
		done <- Follow(ctx, path, offset, 10*time.Millisecond, nil, func(line string) {
			mu.Lock()
			got = append(got, line)
			mu.Unlock()
		})
	}()

	writeLines(t, path, "new 1", "new 2")
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		n := len(got)
		mu.Unlock()
		if n == 2 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	<-done

	mu.Lock()
	defer mu.Unlock()
	if strings.Join(got, ",") != "new 1,new 2" {
		t.Fatalf("followed lines = %v", got)
	}
}
