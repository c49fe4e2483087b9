package notes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"readq/internal/schedule"
)

// Queue returns queued notes in position order.
func (s *Store) Queue(ctx context.Context) ([]*Note, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT `+noteColumns+` FROM notes WHERE position IS NOT NULL ORDER BY position ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list queue: %w", err)
	}
	return collectNotes(rows)
}

// QueueEntries returns the (id, position) snapshot of the queue outside a transaction.
func (s *Store) QueueEntries(ctx context.Context) ([]schedule.Entry, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT id, position FROM notes WHERE position IS NOT NULL ORDER BY position ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("queue entries: %w", err)
	}
	return scanEntries(rows)
}

// Head returns the note at the front of the queue, or ErrNotFound when empty.
func (s *Store) Head(ctx context.Context) (*Note, error) {
	return s.queueNote(ctx, `SELECT `+noteColumns+` FROM notes WHERE position IS NOT NULL ORDER BY position ASC, id ASC LIMIT 1`)
}

// RandomQueued returns a random queued note, or ErrNotFound when the queue is empty.
func (s *Store) RandomQueued(ctx context.Context) (*Note, error) {
	return s.queueNote(ctx, `SELECT `+noteColumns+` FROM notes WHERE position IS NOT NULL ORDER BY RANDOM() LIMIT 1`)
}

// QueueCount returns the number of queued notes.
func (s *Store) QueueCount(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT COUNT(1) FROM notes WHERE position IS NOT NULL`).Scan(&count); err != nil {
		return 0, fmt.Errorf("queue count: %w", err)
	}
	return count, nil
}

func (s *Store) queueNote(ctx context.Context, query string) (*Note, error) {
	note, err := scanNote(s.db.QueryRowContext(ensureContext(ctx), query))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("queue note: %w", err)
	}
	return note, nil
}
