package notes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"readq/internal/schedule"
)

// Tx is a write transaction over the notes database. It is only valid inside
// the callback passed to Store.Update.
type Tx struct {
	ctx context.Context
	tx  *sql.Tx
}

// Update runs fn inside one IMMEDIATE transaction and commits when fn returns
// nil. A busy database retries the whole callback, so fn must not keep state
// from a previous attempt.
func (s *Store) Update(ctx context.Context, fn func(*Tx) error) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		sqlTx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer func() { _ = sqlTx.Rollback() }()

		if err := fn(&Tx{ctx: ctx, tx: sqlTx}); err != nil {
			return err
		}
		if err := sqlTx.Commit(); err != nil {
			return fmt.Errorf("commit tx: %w", err)
		}
		return nil
	})
}

// QueueSnapshot returns the queued notes ordered by position. A non-zero
// exclude drops that note from the snapshot.
func (t *Tx) QueueSnapshot(exclude int64) ([]schedule.Entry, error) {
	rows, err := t.tx.QueryContext(t.ctx,
		`SELECT id, position FROM notes WHERE position IS NOT NULL AND id != ? ORDER BY position ASC, id ASC`,
		exclude,
	)
	if err != nil {
		return nil, fmt.Errorf("queue snapshot: %w", err)
	}
	return scanEntries(rows)
}

// ApplyPositions writes every assignment. A missing note aborts with ErrNotFound.
func (t *Tx) ApplyPositions(assignments []schedule.Assignment) error {
	if len(assignments) == 0 {
		return nil
	}
	stmt, err := t.tx.PrepareContext(t.ctx, `UPDATE notes SET position = ? WHERE id = ?`)
	if err != nil {
		return fmt.Errorf("prepare position update: %w", err)
	}
	defer stmt.Close()

	for _, a := range assignments {
		res, err := stmt.ExecContext(t.ctx, a.Position, a.ID)
		if err != nil {
			return fmt.Errorf("set position of note %d: %w", a.ID, err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("set position of note %d: %w", a.ID, ErrNotFound)
		}
	}
	return nil
}

// ClearPosition removes a note from the queue without touching other rows.
func (t *Tx) ClearPosition(id int64) error {
	if _, err := t.tx.ExecContext(t.ctx, `UPDATE notes SET position = NULL WHERE id = ?`, id); err != nil {
		return fmt.Errorf("clear position: %w", err)
	}
	return nil
}

// TouchScheduled records when a note was last placed in the queue.
func (t *Tx) TouchScheduled(id int64, at time.Time) error {
	if _, err := t.tx.ExecContext(t.ctx, `UPDATE notes SET last_scheduled = ? WHERE id = ?`, formatTime(at), id); err != nil {
		return fmt.Errorf("touch scheduled: %w", err)
	}
	return nil
}

// InsertNote stores a new, unqueued note and returns its ID.
func (t *Tx) InsertNote(note *Note) (int64, error) {
	if note == nil {
		return 0, errors.New("note is nil")
	}
	now := time.Now().UTC()
	res, err := t.tx.ExecContext(t.ctx,
		`INSERT INTO notes (title, body, source, tags, reminder, created_at, modified_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		note.Title,
		note.Body,
		nullableString(note.Source),
		joinTags(note.Tags),
		nullableString(note.Reminder),
		formatTime(now),
		formatTime(now),
	)
	if err != nil {
		return 0, fmt.Errorf("insert note: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// UpdateNoteContent persists the editable fields of note. Position is left alone.
func (t *Tx) UpdateNoteContent(note *Note) error {
	if note == nil {
		return errors.New("note is nil")
	}
	res, err := t.tx.ExecContext(t.ctx,
		`UPDATE notes SET title = ?, body = ?, source = ?, tags = ?, reminder = ?, modified_at = ? WHERE id = ?`,
		note.Title,
		note.Body,
		nullableString(note.Source),
		joinTags(note.Tags),
		nullableString(note.Reminder),
		formatTime(time.Now().UTC()),
		note.ID,
	)
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteNote removes the note row. Read pages and reviews cascade.
func (t *Tx) DeleteNote(id int64) error {
	res, err := t.tx.ExecContext(t.ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetNote fetches a note inside the transaction.
func (t *Tx) GetNote(id int64) (*Note, error) {
	row := t.tx.QueryRowContext(t.ctx, `SELECT `+noteColumns+` FROM notes WHERE id = ?`, id)
	note, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}
	return note, nil
}

func scanEntries(rows *sql.Rows) ([]schedule.Entry, error) {
	defer rows.Close()
	var entries []schedule.Entry
	for rows.Next() {
		var e schedule.Entry
		if err := rows.Scan(&e.ID, &e.Position); err != nil {
			return nil, fmt.Errorf("scan queue entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
