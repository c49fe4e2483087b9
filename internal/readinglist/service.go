package readinglist

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"readq/internal/config"
	"readq/internal/logging"
	"readq/internal/notes"
	"readq/internal/schedule"
)

// Service coordinates note storage with the scheduler and the scorer.
type Service struct {
	store   *notes.Store
	sched   *schedule.Scheduler
	queue   config.Queue
	scoring config.Scoring
	logger  *slog.Logger
	now     func() time.Time

	lockPath string
}

// Option customizes a Service.
type Option func(*Service)

// WithSource draws random slots from src instead of the global generator.
func WithSource(src schedule.Source) Option {
	return func(s *Service) {
		s.sched = schedule.New(src)
	}
}

// WithLogger sets the base logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logging.NewComponentLogger(logger, "readinglist")
	}
}

// WithClock overrides the time source used for scheduling timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a Service around store using the queue and scoring settings of cfg.
func New(store *notes.Store, cfg *config.Config, opts ...Option) *Service {
	s := &Service{
		store:  store,
		sched:  schedule.New(nil),
		logger: logging.NewComponentLogger(nil, "readinglist"),
		now:    time.Now,
	}
	if cfg != nil {
		s.queue = cfg.Queue
		s.scoring = cfg.Scoring
	} else {
		def := config.Default()
		s.queue = def.Queue
		s.scoring = def.Scoring
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store exposes the underlying store for read-only listings.
func (s *Service) Store() *notes.Store {
	return s.store
}

// DefaultPolicy is the policy used when creating a note without an explicit one.
func (s *Service) DefaultPolicy() schedule.Policy {
	return s.queue.DefaultPolicy
}

// ConsumePolicy is the policy used when consuming a note without an explicit one.
func (s *Service) ConsumePolicy() schedule.Policy {
	return s.queue.ConsumePolicy
}

// NoteInput carries the editable fields of a note.
type NoteInput struct {
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	Source   string   `json:"source,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Reminder string   `json:"reminder,omitempty"`
}

func (in NoteInput) validate() error {
	if strings.TrimSpace(in.Title) == "" && strings.TrimSpace(in.Body) == "" {
		return ErrEmptyNote
	}
	return nil
}

func (in NoteInput) apply(note *notes.Note) {
	note.Title = strings.TrimSpace(in.Title)
	note.Body = in.Body
	note.Source = strings.TrimSpace(in.Source)
	note.Tags = notes.NormalizeTags(in.Tags)
	note.Reminder = strings.TrimSpace(in.Reminder)
}

// Placement reports where a note landed. Index is -1 when it is not queued.
type Placement struct {
	Index int `json:"index"`
	Total int `json:"total"`
}

// Queued reports whether the note holds a queue slot.
func (p Placement) Queued() bool {
	return p.Index >= 0
}

func (s *Service) log(ctx context.Context) *slog.Logger {
	return logging.WithContext(ctx, s.logger)
}

func checkSnapshot(entries []schedule.Entry) error {
	if err := schedule.CheckDense(entries); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptQueue, err)
	}
	return nil
}
