package readinglist

import (
	"context"
	"errors"
	"log/slog"

	"readq/internal/logging"
	"readq/internal/notes"
	"readq/internal/schedule"
)

// CreateNote stores a new note and places it in the queue under policy.
func (s *Service) CreateNote(ctx context.Context, in NoteInput, policy schedule.Policy) (*notes.Note, Placement, error) {
	if err := in.validate(); err != nil {
		return nil, Placement{}, err
	}
	if !policy.IsValid() {
		return nil, Placement{}, schedule.ErrUnknownPolicy
	}

	var (
		note      *notes.Note
		placement Placement
	)
	err := s.update(ctx, func(tx *notes.Tx) error {
		snapshot, err := tx.QueueSnapshot(0)
		if err != nil {
			return err
		}
		if err := checkSnapshot(snapshot); err != nil {
			return err
		}

		var draft notes.Note
		in.apply(&draft)
		id, err := tx.InsertNote(&draft)
		if err != nil {
			return err
		}

		placement = Placement{Index: -1, Total: len(snapshot)}
		if plan, ok := s.sched.ComputeInsert(snapshot, policy); ok {
			assignments := append(plan.Shifts, schedule.Assignment{ID: id, Position: plan.TargetIndex})
			if err := tx.ApplyPositions(assignments); err != nil {
				return err
			}
			if err := tx.TouchScheduled(id, s.now()); err != nil {
				return err
			}
			placement = Placement{Index: plan.TargetIndex, Total: len(snapshot) + 1}
		}

		note, err = tx.GetNote(id)
		return err
	})
	if err != nil {
		return nil, Placement{}, err
	}

	s.log(logging.WithNoteID(ctx, note.ID)).Info("note created",
		slog.String(logging.FieldPolicy, policy.String()),
		slog.Int("index", placement.Index),
		slog.Int("total", placement.Total),
	)
	return note, placement, nil
}

// UpdateNote replaces the editable fields of a note and repositions it under
// policy using the queue without the note. NotAdd keeps the current position,
// so an unqueued note stays unqueued.
func (s *Service) UpdateNote(ctx context.Context, id int64, in NoteInput, policy schedule.Policy) (*notes.Note, Placement, error) {
	if err := in.validate(); err != nil {
		return nil, Placement{}, err
	}
	if !policy.IsValid() {
		return nil, Placement{}, schedule.ErrUnknownPolicy
	}

	var (
		note      *notes.Note
		placement Placement
	)
	err := s.update(ctx, func(tx *notes.Tx) error {
		current, err := tx.GetNote(id)
		if err != nil {
			return err
		}
		in.apply(current)
		if err := tx.UpdateNoteContent(current); err != nil {
			return err
		}

		others, err := tx.QueueSnapshot(id)
		if err != nil {
			return err
		}
		if policy == schedule.NotAdd {
			placement = Placement{Index: -1, Total: len(others)}
			if current.Position != nil {
				placement = Placement{Index: *current.Position, Total: len(others) + 1}
			}
		} else {
			placement, err = s.reschedule(tx, others, id, policy)
			if err != nil {
				return err
			}
		}

		note, err = tx.GetNote(id)
		return err
	})
	if err != nil {
		return nil, Placement{}, err
	}

	s.log(logging.WithNoteID(ctx, id)).Info("note updated",
		slog.String(logging.FieldPolicy, policy.String()),
		slog.Int("index", placement.Index),
		slog.Int("total", placement.Total),
	)
	return note, placement, nil
}

// DeleteNote removes a note from the queue, closing its gap, and then deletes
// it along with its read pages and review log.
func (s *Service) DeleteNote(ctx context.Context, id int64) error {
	err := s.update(ctx, func(tx *notes.Tx) error {
		if _, err := s.dequeue(tx, id); err != nil {
			return err
		}
		return tx.DeleteNote(id)
	})
	if err != nil {
		return err
	}
	s.log(logging.WithNoteID(ctx, id)).Info("note deleted")
	return nil
}

// GetNote fetches a single note.
func (s *Service) GetNote(ctx context.Context, id int64) (*notes.Note, error) {
	return s.store.GetNote(ctx, id)
}

// IsNotFound reports whether err means the note does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, notes.ErrNotFound)
}
