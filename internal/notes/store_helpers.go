package notes

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

const noteColumns = "id, title, body, source, tags, reminder, created_at, modified_at, last_scheduled, position"

func scanNote(scanner interface{ Scan(dest ...any) error }) (*Note, error) {
	var (
		note         Note
		source       sql.NullString
		tags         sql.NullString
		reminder     sql.NullString
		createdRaw   string
		modifiedRaw  string
		scheduledRaw sql.NullString
		position     sql.NullInt64
	)
	if err := scanner.Scan(
		&note.ID,
		&note.Title,
		&note.Body,
		&source,
		&tags,
		&reminder,
		&createdRaw,
		&modifiedRaw,
		&scheduledRaw,
		&position,
	); err != nil {
		return nil, err
	}

	note.Source = source.String
	note.Tags = splitTags(tags.String)
	note.Reminder = reminder.String
	if created, err := parseTimeString(createdRaw); err == nil {
		note.CreatedAt = created
	}
	if modified, err := parseTimeString(modifiedRaw); err == nil {
		note.ModifiedAt = modified
	}
	if scheduledRaw.Valid {
		if scheduled, err := parseTimeString(scheduledRaw.String); err == nil {
			note.LastScheduled = &scheduled
		}
	}
	if position.Valid {
		p := int(position.Int64)
		note.Position = &p
	}
	return &note, nil
}

func collectNotes(rows *sql.Rows) ([]*Note, error) {
	defer rows.Close()
	var out []*Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, note)
	}
	return out, rows.Err()
}

// NormalizeTags trims, de-duplicates (case-insensitively), and drops empty tags
// while keeping the first spelling seen.
func NormalizeTags(tags []string) []string {
	fold := cases.Fold()
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, raw := range tags {
		for _, tag := range strings.Fields(raw) {
			key := fold.String(tag)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, tag)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// MatchTag reports whether tag satisfies query. Hierarchical tags use "::"
// separators and a query matches any whole segment run, so "lang" matches
// "lang", "lang::go", and "cs::lang".
func MatchTag(tag, query string) bool {
	fold := cases.Fold()
	tag = fold.String(tag)
	query = fold.String(strings.TrimSpace(query))
	if query == "" {
		return false
	}
	return tag == query ||
		strings.HasPrefix(tag, query+"::") ||
		strings.HasSuffix(tag, "::"+query) ||
		strings.Contains(tag, "::"+query+"::")
}

func joinTags(tags []string) any {
	normalized := NormalizeTags(tags)
	if len(normalized) == 0 {
		return nil
	}
	return strings.Join(normalized, " ")
}

func splitTags(value string) []string {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

// timeLayout keeps a fixed-width fraction so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(value time.Time) string {
	return value.UTC().Format(timeLayout)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", count), ",")
}

func stringArgs(values []string) []any {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}
