package main

import (
	"fmt"
	"strconv"
	"strings"

	"readq/internal/schedule"
)

func parseNoteID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid note id %q", arg)
	}
	return id, nil
}

func parseNoteIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		for _, field := range strings.FieldsFunc(arg, func(r rune) bool { return r == ',' || r == ' ' }) {
			id, err := parseNoteID(field)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func parsePages(args []string) ([]int, error) {
	pages := make([]int, 0, len(args))
	for _, arg := range args {
		page, err := strconv.Atoi(strings.TrimSpace(arg))
		if err != nil || page < 1 {
			return nil, fmt.Errorf("invalid page %q", arg)
		}
		pages = append(pages, page)
	}
	return pages, nil
}

// resolvePolicy returns the parsed flag value or fallback when the flag is empty.
func resolvePolicy(flag string, fallback schedule.Policy) (schedule.Policy, error) {
	if strings.TrimSpace(flag) == "" {
		return fallback, nil
	}
	return schedule.ParsePolicy(flag)
}

func policyHelp() string {
	names := make([]string, 0, len(schedule.Policies()))
	for _, p := range schedule.Policies() {
		names = append(names, p.String())
	}
	return strings.Join(names, ", ")
}
