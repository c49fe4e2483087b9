package notes

import (
	"context"
	"fmt"
	"time"
)

// MarkPageRead records page of a PDF note as read. Marking an already read
// page refreshes its timestamp and total page count.
func (s *Store) MarkPageRead(ctx context.Context, noteID int64, page, pagesTotal int) error {
	if page < 1 {
		return fmt.Errorf("mark page read: page %d out of range", page)
	}
	if pagesTotal < 0 {
		pagesTotal = 0
	}
	_, err := s.execWithRetry(ctx,
		`INSERT INTO read_pages (note_id, page, pages_total, read_at) VALUES (?, ?, ?, ?)
         ON CONFLICT(note_id, page) DO UPDATE SET pages_total = excluded.pages_total, read_at = excluded.read_at`,
		noteID, page, pagesTotal, formatTime(time.Now()),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("mark page read: %w", ErrNotFound)
		}
		return fmt.Errorf("mark page read: %w", err)
	}
	return nil
}

// MarkPageUnread forgets that page was read. Unknown pages are ignored.
func (s *Store) MarkPageUnread(ctx context.Context, noteID int64, page int) error {
	if _, err := s.execWithRetry(ctx, `DELETE FROM read_pages WHERE note_id = ? AND page = ?`, noteID, page); err != nil {
		return fmt.Errorf("mark page unread: %w", err)
	}
	return nil
}

// ReadPages lists the pages of a note in the order they were read.
func (s *Store) ReadPages(ctx context.Context, noteID int64) ([]int, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT page FROM read_pages WHERE note_id = ? ORDER BY read_at ASC, page ASC`, noteID)
	if err != nil {
		return nil, fmt.Errorf("read pages: %w", err)
	}
	defer rows.Close()
	var pages []int
	for rows.Next() {
		var page int
		if err := rows.Scan(&page); err != nil {
			return nil, fmt.Errorf("scan page: %w", err)
		}
		pages = append(pages, page)
	}
	return pages, rows.Err()
}

// Progress reports how many pages of a note were read and the largest total seen.
func (s *Store) Progress(ctx context.Context, noteID int64) (ReadProgress, error) {
	var progress ReadProgress
	err := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT COUNT(1), COALESCE(MAX(pages_total), 0) FROM read_pages WHERE note_id = ?`, noteID,
	).Scan(&progress.Read, &progress.Total)
	if err != nil {
		return ReadProgress{}, fmt.Errorf("read progress: %w", err)
	}
	return progress, nil
}

// ReadTodayCount counts pages read since the start of now's calendar day.
func (s *Store) ReadTodayCount(ctx context.Context, now time.Time) (int, error) {
	year, month, day := now.Date()
	start := time.Date(year, month, day, 0, 0, 0, 0, now.Location())
	var count int
	if err := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT COUNT(1) FROM read_pages WHERE read_at >= ?`, formatTime(start),
	).Scan(&count); err != nil {
		return 0, fmt.Errorf("read today count: %w", err)
	}
	return count, nil
}
