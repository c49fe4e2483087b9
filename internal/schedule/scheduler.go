package schedule

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// ErrNotDense reports a snapshot whose positions are not exactly 0..n-1.
var ErrNotDense = errors.New("schedule: queue positions are not dense")

// Entry is one queued note as read from storage.
type Entry struct {
	ID       int64
	Position int
}

// Assignment sets a note's position.
type Assignment struct {
	ID       int64 `json:"id"`
	Position int   `json:"position"`
}

// InsertionPlan describes where a new note lands and which queued notes move
// down one slot to make room.
type InsertionPlan struct {
	TargetIndex int
	Shifts      []Assignment
}

// Rescheduled is the outcome of placing a note back into an ordered queue.
type Rescheduled struct {
	// Assignments renumbers every queued note, the placed note included.
	Assignments []Assignment
	// Index is the placed note's final slot, or -1 when it left the queue.
	Index int
	// Total is the queue length after the operation.
	Total int
	// Queued is false when the policy removed the note from the queue.
	Queued bool
}

// Source draws uniform integers in [0, n). *rand.Rand from math/rand/v2
// satisfies it.
type Source interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// Scheduler computes insertion slots. The zero value is not usable; call New.
type Scheduler struct {
	rng Source
}

// New returns a Scheduler drawing random slots from rng. A nil rng uses the
// process-wide math/rand/v2 generator.
func New(rng Source) *Scheduler {
	if rng == nil {
		rng = globalSource{}
	}
	return &Scheduler{rng: rng}
}

// Bounds returns the inclusive slot range a policy may choose from in a queue
// of n notes. Deterministic policies return lo == hi. NotAdd reports ok=false.
func Bounds(n int, p Policy) (lo, hi int, ok bool) {
	if n < 0 {
		panic(fmt.Sprintf("schedule: negative queue length %d", n))
	}
	switch p {
	case NotAdd:
		return 0, 0, false
	case Head:
		return 0, 0, true
	case FirstThird:
		return n / 3, n / 3, true
	case SecondThird:
		return 2 * n / 3, 2 * n / 3, true
	case End:
		return n, n, true
	case Random:
		return 0, n, true
	case RandomFirstThird:
		return 0, n / 3, true
	case RandomSecondThird:
		return n / 3, 2 * n / 3, true
	case RandomThirdThird:
		// Upper bound equals End's slot.
		return 2 * n / 3, n, true
	}
	panic(fmt.Sprintf("schedule: unhandled policy %s", p))
}

// TargetIndex picks the slot for a note entering a queue of n other notes.
func (s *Scheduler) TargetIndex(n int, p Policy) (int, bool) {
	lo, hi, ok := Bounds(n, p)
	if !ok {
		return 0, false
	}
	if lo == hi {
		return lo, true
	}
	return lo + s.rng.IntN(hi-lo+1), true
}

// ComputeInsert plans the insertion of a new note into a dense snapshot
// sorted ascending by position. It reports false for NotAdd.
//
// When repositioning a note that is already queued, leave it out of existing;
// the resulting gap makes the snapshot non-dense, so use Reschedule instead.
func (s *Scheduler) ComputeInsert(existing []Entry, p Policy) (InsertionPlan, bool) {
	mustBeDense(existing)
	target, ok := s.TargetIndex(len(existing), p)
	if !ok {
		return InsertionPlan{}, false
	}
	plan := InsertionPlan{TargetIndex: target}
	for _, e := range existing[target:] {
		plan.Shifts = append(plan.Shifts, Assignment{ID: e.ID, Position: e.Position + 1})
	}
	return plan, true
}

// ComputeRemovalShift closes the gap left at removed: every entry after it
// moves up one slot. The removed entry itself may or may not be present.
func ComputeRemovalShift(existing []Entry, removed int) []Assignment {
	if removed < 0 {
		panic(fmt.Sprintf("schedule: negative removed position %d", removed))
	}
	var shifts []Assignment
	for _, e := range existing {
		if e.Position > removed {
			shifts = append(shifts, Assignment{ID: e.ID, Position: e.Position - 1})
		}
	}
	return shifts
}

// ApplyFullRenumber assigns position = index for every id in order.
func ApplyFullRenumber(ordered []int64) []Assignment {
	out := make([]Assignment, len(ordered))
	for i, id := range ordered {
		out[i] = Assignment{ID: id, Position: i}
	}
	return out
}

// Reschedule places id back into the queue given the other queued ids in
// order. The ordering may contain the gap left by id; everything is
// renumbered. Under NotAdd the note leaves the queue and Index is -1.
func (s *Scheduler) Reschedule(ordered []int64, id int64, p Policy) Rescheduled {
	target, ok := s.TargetIndex(len(ordered), p)
	if !ok {
		return Rescheduled{
			Assignments: ApplyFullRenumber(ordered),
			Index:       -1,
			Total:       len(ordered),
		}
	}
	next := make([]int64, 0, len(ordered)+1)
	next = append(next, ordered[:target]...)
	next = append(next, id)
	next = append(next, ordered[target:]...)
	return Rescheduled{
		Assignments: ApplyFullRenumber(next),
		Index:       target,
		Total:       len(next),
		Queued:      true,
	}
}

// CheckDense verifies entries are sorted with positions exactly 0..n-1.
func CheckDense(entries []Entry) error {
	for i, e := range entries {
		if e.Position != i {
			return fmt.Errorf("%w: note %d at position %d, want %d", ErrNotDense, e.ID, e.Position, i)
		}
	}
	return nil
}

func mustBeDense(entries []Entry) {
	if err := CheckDense(entries); err != nil {
		panic(err.Error())
	}
}

// IDs returns the entry ids in snapshot order.
func IDs(entries []Entry) []int64 {
	out := make([]int64, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}
