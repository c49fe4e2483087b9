package notes

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"readq/internal/schedule"
)

// Stats returns row counts across the database.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	err := s.db.QueryRowContext(ensureContext(ctx), `SELECT
            (SELECT COUNT(1) FROM notes),
            (SELECT COUNT(1) FROM notes WHERE position IS NOT NULL),
            (SELECT COUNT(1) FROM review_log),
            (SELECT COUNT(1) FROM read_pages)`,
	).Scan(&stats.Notes, &stats.Queued, &stats.Reviews, &stats.PagesRead)
	if err != nil {
		return Stats{}, fmt.Errorf("note stats: %w", err)
	}
	return stats, nil
}

// CheckHealth returns diagnostic information about the notes database and
// whether the stored queue is dense.
func (s *Store) CheckHealth(ctx context.Context) (DatabaseHealth, error) {
	health := DatabaseHealth{DBPath: s.path}
	if s.path == "" {
		return health, errors.New("notes database path is unknown")
	}

	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return health, nil
		}
		return health, fmt.Errorf("stat notes database: %w", err)
	}
	if info.IsDir() {
		return health, fmt.Errorf("notes database path %q is a directory", s.path)
	}
	health.DatabaseExists = true

	var fs unix.Statfs_t
	if err := unix.Statfs(filepath.Dir(s.path), &fs); err == nil {
		health.FreeBytes = uint64(fs.Bavail) * uint64(fs.Bsize)
	}

	connCtx, cancel := context.WithTimeout(ensureContext(ctx), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(connCtx); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("ping notes database: %w", err)
	}
	health.DatabaseReadable = true

	if err := s.db.QueryRowContext(connCtx, "SELECT version FROM schema_version LIMIT 1").Scan(&health.SchemaVersion); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("read schema version: %w", err)
	}

	entries, err := s.QueueEntries(connCtx)
	if err != nil {
		health.Error = err.Error()
		return health, err
	}
	health.QueueLength = len(entries)
	if err := schedule.CheckDense(entries); err != nil {
		health.Error = err.Error()
	} else {
		health.QueueDense = true
	}
	return health, nil
}

func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
