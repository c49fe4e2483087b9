package readinglist

import (
	"context"
	"errors"
	"log/slog"

	"readq/internal/logging"
	"readq/internal/notes"
	"readq/internal/scoring"
)

// LogReview appends a review event to a note's log.
func (s *Service) LogReview(ctx context.Context, id int64, kind string, event scoring.ReviewEvent) (notes.Review, error) {
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	review, err := s.store.AddReview(ctx, id, kind, event)
	if err != nil {
		return notes.Review{}, err
	}
	s.log(logging.WithNoteID(ctx, id)).Debug("review logged",
		slog.String("kind", review.Kind),
		slog.String("outcome", review.Outcome.String()),
	)
	return review, nil
}

// Reviews returns a note's full review log, every kind included.
func (s *Service) Reviews(ctx context.Context, id int64) ([]notes.Review, error) {
	if _, err := s.store.GetNote(ctx, id); err != nil {
		return nil, err
	}
	return s.store.Reviews(ctx, id, nil)
}

// NoteReport is a note's performance report.
type NoteReport struct {
	Note *notes.Note `json:"note"`
	scoring.Report
}

// ScoreNote builds the performance report of one note against the collection.
func (s *Service) ScoreNote(ctx context.Context, id int64) (NoteReport, error) {
	note, err := s.store.GetNote(ctx, id)
	if err != nil {
		return NoteReport{}, err
	}
	item, err := s.store.ReviewEvents(ctx, id, s.scoring.ReviewKinds)
	if err != nil {
		return NoteReport{}, err
	}
	collection, err := s.store.AllReviewEvents(ctx, s.scoring.ReviewKinds)
	if err != nil {
		return NoteReport{}, err
	}
	return NoteReport{Note: note, Report: scoring.NewReport(item, collection)}, nil
}

// Baseline returns the collection-wide retention and average time.
func (s *Service) Baseline(ctx context.Context) (scoring.Baseline, error) {
	events, err := s.store.AllReviewEvents(ctx, s.scoring.ReviewKinds)
	if err != nil {
		return scoring.Baseline{}, err
	}
	return scoring.CollectionBaseline(events), nil
}

// Performer is a ranked note with its title.
type Performer struct {
	scoring.Ranked
	Title string `json:"title"`
}

// LowestPerformers ranks notes from weakest to strongest. A limit <= 0 uses
// the configured default.
func (s *Service) LowestPerformers(ctx context.Context, metric scoring.Metric, limit int) ([]Performer, error) {
	if limit <= 0 {
		limit = s.scoring.LowestLimit
	}
	histories, err := s.store.ReviewHistories(ctx, s.scoring.ReviewKinds)
	if err != nil {
		return nil, err
	}
	ranked := scoring.Rank(histories, metric, limit)
	out := make([]Performer, 0, len(ranked))
	for _, r := range ranked {
		note, err := s.store.GetNote(ctx, r.ID)
		if errors.Is(err, notes.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, Performer{Ranked: r, Title: note.DisplayTitle()})
	}
	return out, nil
}
