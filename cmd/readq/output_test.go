package main

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"readq/internal/readinglist"
	"readq/internal/schedule"
)

func TestColorDelta(t *testing.T) {
	if got := colorDelta("+5.00", false, false); got != "+5.00" {
		t.Fatalf("uncolored delta = %q", got)
	}
	if got := colorDelta("+5.00", false, true); !strings.HasPrefix(got, ansiGreen) {
		t.Fatalf("higher retention should be green: %q", got)
	}
	if got := colorDelta("+5.00", true, true); !strings.HasPrefix(got, ansiRed) {
		t.Fatalf("slower time should be red: %q", got)
	}
	if got := colorDelta("-1.50", true, true); !strings.HasPrefix(got, ansiGreen) {
		t.Fatalf("faster time should be green: %q", got)
	}
	if got := colorDelta("+0.00", false, true); got != "+0.00" {
		t.Fatalf("zero delta should stay plain: %q", got)
	}
}

func TestShouldColorizeBuffer(t *testing.T) {
	if shouldColorize(&bytes.Buffer{}) {
		t.Fatal("buffers are never terminals")
	}
}

func TestFormatBytes(t *testing.T) {
	cases := map[uint64]string{
		512:             "512 B",
		2048:            "2.0 KiB",
		5 * 1024 * 1024: "5.0 MiB",
	}
	for in, want := range cases {
		if got := formatBytes(in); got != want {
			t.Fatalf("formatBytes(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestParseHelpers(t *testing.T) {
	ids, err := parseNoteIDs([]string{"3,1", "2"})
	if err != nil || fmt.Sprint(ids) != "[3 1 2]" {
		t.Fatalf("parseNoteIDs = %v, %v", ids, err)
	}
	if _, err := parseNoteIDs([]string{"1,x"}); err == nil {
		t.Fatal("expected bad id to fail")
	}
	if _, err := parsePages([]string{"0"}); err == nil {
		t.Fatal("expected page 0 to fail")
	}

	p, err := resolvePolicy("", schedule.SecondThird)
	if err != nil || p != schedule.SecondThird {
		t.Fatalf("empty flag = %v, %v", p, err)
	}
	p, err = resolvePolicy("Head", schedule.End)
	if err != nil || p != schedule.Head {
		t.Fatalf("head flag = %v, %v", p, err)
	}
}

func TestExplainErrorHints(t *testing.T) {
	err := fmt.Errorf("create note: %w", readinglist.ErrCorruptQueue)
	if msg := explainError(err); !strings.Contains(msg, "readq queue repair") {
		t.Fatalf("hint missing: %q", msg)
	}
	if msg := explainError(errors.New("boom")); msg != "boom" {
		t.Fatalf("plain error = %q", msg)
	}
}
