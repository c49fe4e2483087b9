// Package notes persists readq notes, their queue positions, PDF reading
// progress, and the review log in SQLite.
//
// Position changes never happen row by row from the outside: callers open a
// write transaction with Store.Update, read the queue snapshot through the
// Tx, let the schedule package compute assignments, and apply them before
// the transaction commits. Transactions start as IMMEDIATE so concurrent
// writers (the CLI and readqd) serialize on SQLite's write lock instead of
// interleaving position updates.
//
// The schema is versioned in schema.go. A database created by a different
// schema version is rejected with ErrSchemaMismatch.
package notes
