// Package schedule computes reading-queue positions.
//
// The queue is the set of notes carrying a position, ordered ascending. Every
// function here is pure: it receives an ordered snapshot of (id, position)
// entries and returns the position updates that keep the queue dense, meaning
// queued positions are exactly 0..k-1 with no duplicates. Callers apply the
// returned updates in a single transaction; applying only part of a plan
// breaks density.
//
// Policies pick the slot a note lands in when it is created, edited, or
// consumed. Random policies draw from a Source supplied to New so tests can
// pin the draw.
//
// Snapshots handed to the compute functions must already be dense. A
// non-dense snapshot, a negative index, or an unknown policy is a caller bug
// and panics; use CheckDense to validate data read from storage first.
//
// Repositioning a note that is already queued goes through
// Scheduler.Reschedule, not ComputeInsert. Leaving the note out of the
// snapshot leaves a gap, and shifting only the entries at or after the
// target slot cannot close it; Reschedule renumbers the whole order instead.
package schedule
