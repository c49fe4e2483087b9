package logs

import (
	"strconv"
	"strings"
)

// ForNote keeps lines tagged with the note ID in either the console
// (note_id=7) or JSON ("note_id":7) layout.
func ForNote(id int64) Filter {
	value := strconv.FormatInt(id, 10)
	console := "note_id=" + value
	jsonField := `"note_id":` + value
	return func(line string) bool {
		return hasField(line, console) || hasField(line, jsonField)
	}
}

// MinLevel keeps lines at or above level. Lines without a recognizable
// level pass through.
func MinLevel(level string) Filter {
	threshold := levelRank(level)
	return func(line string) bool {
		rank, ok := lineLevel(line)
		return !ok || rank >= threshold
	}
}

// All keeps a line only when every non-nil filter keeps it.
func All(filters ...Filter) Filter {
	return func(line string) bool {
		for _, f := range filters {
			if f != nil && !f(line) {
				return false
			}
		}
		return true
	}
}

// hasField matches needle only when it is not followed by another digit.
func hasField(line, needle string) bool {
	for start := 0; ; {
		idx := strings.Index(line[start:], needle)
		if idx < 0 {
			return false
		}
		end := start + idx + len(needle)
		if end == len(line) || line[end] < '0' || line[end] > '9' {
			return true
		}
		start = end
	}
}

var levels = []string{"DEBUG", "INFO", "WARN", "ERROR"}

func levelRank(level string) int {
	level = strings.ToUpper(strings.TrimSpace(level))
	if level == "WARNING" {
		level = "WARN"
	}
	for i, l := range levels {
		if l == level {
			return i
		}
	}
	return 0
}

func lineLevel(line string) (int, bool) {
	for i := len(levels) - 1; i >= 0; i-- {
		if strings.Contains(line, " "+levels[i]+" ") || strings.Contains(line, `"level":"`+levels[i]+`"`) {
			return i, true
		}
	}
	return 0, false
}
