package notes

import "errors"

var (
	// ErrNotFound is returned when a note does not exist.
	ErrNotFound = errors.New("note not found")
	// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
	ErrSchemaMismatch = errors.New("schema version mismatch")
)
