package readinglist

import "errors"

var (
	// ErrEmptyNote rejects notes without a title or body.
	ErrEmptyNote = errors.New("note needs a title or body")
	// ErrReorderMismatch is returned when a requested order is not a
	// permutation of the current queue.
	ErrReorderMismatch = errors.New("order must list every queued note exactly once")
	// ErrCorruptQueue means stored positions are not 0..n-1. Repair fixes it.
	ErrCorruptQueue = errors.New("queue positions are corrupt; run repair")
)
