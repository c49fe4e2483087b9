package notes

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"readq/internal/scoring"
)

// AddReview appends one review event to the log of noteID.
func (s *Store) AddReview(ctx context.Context, noteID int64, kind string, event scoring.ReviewEvent) (Review, error) {
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind == "" {
		kind = KindReview
	}
	if !IsValidKind(kind) {
		return Review{}, fmt.Errorf("add review: unknown kind %q", kind)
	}
	if !event.Outcome.IsValid() {
		return Review{}, fmt.Errorf("add review: %w", scoring.ErrInvalidOutcome)
	}
	at := event.Timestamp
	if at.IsZero() {
		at = time.Now()
	}
	at = at.UTC()

	res, err := s.execWithRetry(ctx,
		`INSERT INTO review_log (note_id, outcome, duration_ms, kind, reviewed_at) VALUES (?, ?, ?, ?, ?)`,
		noteID, int(event.Outcome), event.DurationMS, kind, formatTime(at),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return Review{}, fmt.Errorf("add review: %w", ErrNotFound)
		}
		return Review{}, fmt.Errorf("add review: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Review{}, fmt.Errorf("last insert id: %w", err)
	}
	return Review{
		ID:         id,
		NoteID:     noteID,
		Kind:       kind,
		Outcome:    event.Outcome,
		DurationMS: event.DurationMS,
		ReviewedAt: at,
	}, nil
}

// Reviews returns the review log of a note, oldest first. Empty kinds returns every kind.
func (s *Store) Reviews(ctx context.Context, noteID int64, kinds []string) ([]Review, error) {
	query := `SELECT id, note_id, kind, outcome, duration_ms, reviewed_at FROM review_log WHERE note_id = ?`
	args := []any{noteID}
	query, args = withKinds(query, args, kinds)
	query += ` ORDER BY reviewed_at ASC, id ASC`

	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return collectReviews(rows)
}

// ReviewEvents returns the chronological scorer input for one note.
func (s *Store) ReviewEvents(ctx context.Context, noteID int64, kinds []string) ([]scoring.ReviewEvent, error) {
	reviews, err := s.Reviews(ctx, noteID, kinds)
	if err != nil {
		return nil, err
	}
	events := make([]scoring.ReviewEvent, len(reviews))
	for i, r := range reviews {
		events[i] = r.Event()
	}
	return events, nil
}

// ReviewHistories groups the chronological review events of every note.
func (s *Store) ReviewHistories(ctx context.Context, kinds []string) (map[int64][]scoring.ReviewEvent, error) {
	query := `SELECT id, note_id, kind, outcome, duration_ms, reviewed_at FROM review_log WHERE 1 = 1`
	query, args := withKinds(query, nil, kinds)
	query += ` ORDER BY note_id ASC, reviewed_at ASC, id ASC`

	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("review histories: %w", err)
	}
	reviews, err := collectReviews(rows)
	if err != nil {
		return nil, err
	}
	histories := make(map[int64][]scoring.ReviewEvent)
	for _, r := range reviews {
		histories[r.NoteID] = append(histories[r.NoteID], r.Event())
	}
	return histories, nil
}

// AllReviewEvents returns every matching event across the collection, oldest first.
func (s *Store) AllReviewEvents(ctx context.Context, kinds []string) ([]scoring.ReviewEvent, error) {
	query := `SELECT id, note_id, kind, outcome, duration_ms, reviewed_at FROM review_log WHERE 1 = 1`
	query, args := withKinds(query, nil, kinds)
	query += ` ORDER BY reviewed_at ASC, id ASC`

	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("all review events: %w", err)
	}
	reviews, err := collectReviews(rows)
	if err != nil {
		return nil, err
	}
	events := make([]scoring.ReviewEvent, 0, len(reviews))
	for _, r := range reviews {
		events = append(events, r.Event())
	}
	return events, nil
}

func withKinds(query string, args []any, kinds []string) (string, []any) {
	if len(kinds) == 0 {
		return query, args
	}
	query += ` AND kind IN (` + makePlaceholders(len(kinds)) + `)`
	return query, append(args, stringArgs(kinds)...)
}

func collectReviews(rows *sql.Rows) ([]Review, error) {
	defer rows.Close()
	var out []Review
	for rows.Next() {
		var (
			r        Review
			outcome  int
			duration int64
			at       string
		)
		if err := rows.Scan(&r.ID, &r.NoteID, &r.Kind, &outcome, &duration, &at); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		r.Outcome = scoring.Outcome(outcome)
		r.DurationMS = uint32(duration)
		if parsed, err := parseTimeString(at); err == nil {
			r.ReviewedAt = parsed
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
