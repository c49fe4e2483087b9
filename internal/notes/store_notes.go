package notes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// GetNote fetches a note by identifier.
func (s *Store) GetNote(ctx context.Context, id int64) (*Note, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+noteColumns+` FROM notes WHERE id = ?`, id)
	note, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}
	return note, nil
}

// ListNotes returns every note ordered by ID.
func (s *Store) ListNotes(ctx context.Context) ([]*Note, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `SELECT `+noteColumns+` FROM notes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return collectNotes(rows)
}

// NewestNotes returns up to limit notes, most recently created first.
func (s *Store) NewestNotes(ctx context.Context, limit int) ([]*Note, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT `+noteColumns+` FROM notes ORDER BY created_at DESC, id DESC LIMIT ?`, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("newest notes: %w", err)
	}
	return collectNotes(rows)
}

// RandomNotes returns up to limit notes in random order.
func (s *Store) RandomNotes(ctx context.Context, limit int) ([]*Note, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT `+noteColumns+` FROM notes ORDER BY RANDOM() LIMIT ?`, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("random notes: %w", err)
	}
	return collectNotes(rows)
}

// PDFNotes returns notes whose source is a PDF file.
func (s *Store) PDFNotes(ctx context.Context) ([]*Note, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT `+noteColumns+` FROM notes WHERE lower(source) LIKE '%.pdf' ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("pdf notes: %w", err)
	}
	return collectNotes(rows)
}

// SearchNotes returns notes whose title, body, or source contain text.
func (s *Store) SearchNotes(ctx context.Context, text string) ([]*Note, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	pattern := "%" + escapeLike(text) + "%"
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT `+noteColumns+` FROM notes
         WHERE title LIKE ? ESCAPE '\' OR body LIKE ? ESCAPE '\' OR source LIKE ? ESCAPE '\'
         ORDER BY id`,
		pattern, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("search notes: %w", err)
	}
	return collectNotes(rows)
}

// Tags returns every distinct tag in use, sorted case-insensitively.
func (s *Store) Tags(ctx context.Context) ([]string, error) {
	tagLists, err := s.tagColumn(ctx, `SELECT tags FROM notes WHERE tags IS NOT NULL ORDER BY id`)
	if err != nil {
		return nil, err
	}
	all := NormalizeTags(tagLists)
	fold := cases.Fold()
	sort.Slice(all, func(i, j int) bool {
		return fold.String(all[i]) < fold.String(all[j])
	})
	return all, nil
}

// NotesByTag returns notes carrying any tag that matches one of the queries.
func (s *Store) NotesByTag(ctx context.Context, queries ...string) ([]*Note, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT `+noteColumns+` FROM notes WHERE tags IS NOT NULL ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("notes by tag: %w", err)
	}
	candidates, err := collectNotes(rows)
	if err != nil {
		return nil, err
	}

	var matched []*Note
	for _, note := range candidates {
		if noteMatches(note, queries) {
			matched = append(matched, note)
		}
	}
	return matched, nil
}

// RecentTags counts tag usage across the window most recently created notes
// and returns at most limit tags, most used first.
func (s *Store) RecentTags(ctx context.Context, window, limit int) ([]TagCount, error) {
	tagLists, err := s.tagColumn(ctx,
		`SELECT tags FROM notes WHERE tags IS NOT NULL ORDER BY id DESC LIMIT ?`, clampLimit(window))
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, list := range tagLists {
		for _, tag := range strings.Fields(list) {
			counts[tag]++
		}
	}
	out := make([]TagCount, 0, len(counts))
	for tag, count := range counts {
		out = append(out, TagCount{Tag: tag, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) tagColumn(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var tags string
		if err := rows.Scan(&tags); err != nil {
			return nil, fmt.Errorf("scan tags: %w", err)
		}
		out = append(out, tags)
	}
	return out, rows.Err()
}

func noteMatches(note *Note, queries []string) bool {
	for _, query := range queries {
		for _, q := range strings.Fields(query) {
			for _, tag := range note.Tags {
				if MatchTag(tag, q) {
					return true
				}
			}
		}
	}
	return false
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

func escapeLike(value string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(value)
}
