package readinglist

import (
	"context"
	"fmt"
	"log/slog"

	"readq/internal/logging"
	"readq/internal/notes"
	"readq/internal/schedule"
)

// MarkConsumed records that a note was read and places it back into the
// queue under policy, computed against the queue without the note. NotAdd
// takes the note out of the queue and reports Index -1.
func (s *Service) MarkConsumed(ctx context.Context, id int64, policy schedule.Policy) (Placement, error) {
	if !policy.IsValid() {
		return Placement{}, schedule.ErrUnknownPolicy
	}

	var placement Placement
	err := s.update(ctx, func(tx *notes.Tx) error {
		if _, err := tx.GetNote(id); err != nil {
			return err
		}
		others, err := tx.QueueSnapshot(id)
		if err != nil {
			return err
		}
		placement, err = s.reschedule(tx, others, id, policy)
		return err
	})
	if err != nil {
		return Placement{}, err
	}

	s.log(logging.WithNoteID(ctx, id)).Info("note consumed",
		slog.String(logging.FieldPolicy, policy.String()),
		slog.Int("index", placement.Index),
		slog.Int("total", placement.Total),
	)
	return placement, nil
}

// Dequeue takes a note out of the queue and shifts the notes behind it up.
// It reports false when the note was not queued.
func (s *Service) Dequeue(ctx context.Context, id int64) (bool, error) {
	var removed bool
	err := s.update(ctx, func(tx *notes.Tx) error {
		var err error
		removed, err = s.dequeue(tx, id)
		return err
	})
	if err != nil {
		return false, err
	}
	if removed {
		s.log(logging.WithNoteID(ctx, id)).Info("note dequeued")
	}
	return removed, nil
}

// Reorder applies an explicit total order. ids must be a permutation of the
// queued notes.
func (s *Service) Reorder(ctx context.Context, ids []int64) error {
	err := s.update(ctx, func(tx *notes.Tx) error {
		snapshot, err := tx.QueueSnapshot(0)
		if err != nil {
			return err
		}
		if !isPermutation(schedule.IDs(snapshot), ids) {
			return ErrReorderMismatch
		}
		return tx.ApplyPositions(schedule.ApplyFullRenumber(ids))
	})
	if err != nil {
		return err
	}
	s.log(ctx).Info("queue reordered", slog.Int("total", len(ids)))
	return nil
}

// Repair renumbers the stored queue densely, keeping its current order, and
// returns how many notes moved.
func (s *Service) Repair(ctx context.Context) (int, error) {
	var moved int
	err := s.update(ctx, func(tx *notes.Tx) error {
		snapshot, err := tx.QueueSnapshot(0)
		if err != nil {
			return err
		}
		var changes []schedule.Assignment
		for i, a := range schedule.ApplyFullRenumber(schedule.IDs(snapshot)) {
			if snapshot[i].Position != a.Position {
				changes = append(changes, a)
			}
		}
		moved = len(changes)
		return tx.ApplyPositions(changes)
	})
	if err != nil {
		return 0, err
	}
	if moved > 0 {
		s.log(ctx).Warn("queue repaired",
			slog.String(logging.FieldEventType, "queue_repair"),
			slog.Int("moved", moved),
		)
	}
	return moved, nil
}

// Queue returns queued notes in order.
func (s *Service) Queue(ctx context.Context) ([]*notes.Note, error) {
	return s.store.Queue(ctx)
}

// Head returns the note at the front of the queue.
func (s *Service) Head(ctx context.Context) (*notes.Note, error) {
	return s.store.Head(ctx)
}

// RandomQueued returns a random queued note.
func (s *Service) RandomQueued(ctx context.Context) (*notes.Note, error) {
	return s.store.RandomQueued(ctx)
}

// Status combines row counts with the database health check.
type Status struct {
	Stats     notes.Stats          `json:"stats"`
	Health    notes.DatabaseHealth `json:"health"`
	ReadToday int                  `json:"read_today"`
}

// Status reports database and queue health.
func (s *Service) Status(ctx context.Context) (Status, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return Status{}, err
	}
	health, err := s.store.CheckHealth(ctx)
	if err != nil {
		return Status{}, err
	}
	today, err := s.store.ReadTodayCount(ctx, s.now())
	if err != nil {
		return Status{}, err
	}
	return Status{Stats: stats, Health: health, ReadToday: today}, nil
}

func (s *Service) reschedule(tx *notes.Tx, others []schedule.Entry, id int64, policy schedule.Policy) (Placement, error) {
	result := s.sched.Reschedule(schedule.IDs(others), id, policy)
	if !result.Queued {
		if err := tx.ClearPosition(id); err != nil {
			return Placement{}, err
		}
	}
	if err := tx.ApplyPositions(result.Assignments); err != nil {
		return Placement{}, err
	}
	// Consuming stamps the note even when it leaves the queue.
	if err := tx.TouchScheduled(id, s.now()); err != nil {
		return Placement{}, err
	}
	return Placement{Index: result.Index, Total: result.Total}, nil
}

func (s *Service) dequeue(tx *notes.Tx, id int64) (bool, error) {
	note, err := tx.GetNote(id)
	if err != nil {
		return false, err
	}
	if note.Position == nil {
		return false, nil
	}
	snapshot, err := tx.QueueSnapshot(0)
	if err != nil {
		return false, err
	}
	if err := checkSnapshot(snapshot); err != nil {
		return false, err
	}
	if err := tx.ClearPosition(id); err != nil {
		return false, err
	}
	if err := tx.ApplyPositions(schedule.ComputeRemovalShift(snapshot, *note.Position)); err != nil {
		return false, fmt.Errorf("close queue gap: %w", err)
	}
	return true, nil
}

func isPermutation(current, proposed []int64) bool {
	if len(current) != len(proposed) {
		return false
	}
	seen := make(map[int64]int, len(current))
	for _, id := range current {
		seen[id]++
	}
	for _, id := range proposed {
		if seen[id] == 0 {
			return false
		}
		seen[id]--
	}
	return true
}
