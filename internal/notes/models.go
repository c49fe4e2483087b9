package notes

import (
	"strings"
	"time"

	"readq/internal/scoring"
)

// Review kinds recorded in the review log.
const (
	KindLearn   = "learn"
	KindReview  = "review"
	KindRelearn = "relearn"
	KindCram    = "cram"
)

// IsValidKind reports whether kind is one of the recorded review kinds.
func IsValidKind(kind string) bool {
	switch kind {
	case KindLearn, KindReview, KindRelearn, KindCram:
		return true
	default:
		return false
	}
}

// Note is a stored reading item. Position is nil when the note is not queued.
type Note struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	Body          string     `json:"body"`
	Source        string     `json:"source,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
	Reminder      string     `json:"reminder,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	ModifiedAt    time.Time  `json:"modified_at"`
	LastScheduled *time.Time `json:"last_scheduled,omitempty"`
	Position      *int       `json:"position,omitempty"`
}

// Queued reports whether the note currently holds a queue position.
func (n *Note) Queued() bool {
	return n != nil && n.Position != nil
}

// IsPDF reports whether the note's source points at a PDF document.
func (n *Note) IsPDF() bool {
	return n != nil && strings.HasSuffix(strings.ToLower(strings.TrimSpace(n.Source)), ".pdf")
}

// DisplayTitle returns the title, falling back to the first line of the body.
func (n *Note) DisplayTitle() string {
	if n == nil {
		return ""
	}
	if title := strings.TrimSpace(n.Title); title != "" {
		return title
	}
	body := strings.TrimSpace(n.Body)
	if idx := strings.IndexByte(body, '\n'); idx >= 0 {
		body = body[:idx]
	}
	const maxLen = 60
	if runes := []rune(body); len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return body
}

// Review is one row of the review log.
type Review struct {
	ID         int64           `json:"id"`
	NoteID     int64           `json:"note_id"`
	Kind       string          `json:"kind"`
	Outcome    scoring.Outcome `json:"outcome"`
	DurationMS uint32          `json:"duration_ms"`
	ReviewedAt time.Time       `json:"reviewed_at"`
}

// Event converts the row into the scorer's input type.
func (r Review) Event() scoring.ReviewEvent {
	return scoring.ReviewEvent{Outcome: r.Outcome, DurationMS: r.DurationMS, Timestamp: r.ReviewedAt}
}

// TagCount pairs a tag with how often it was used.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// ReadProgress summarizes how far a PDF note has been read.
type ReadProgress struct {
	Read  int `json:"read"`
	Total int `json:"total"`
}

// Stats aggregates row counts for status output.
type Stats struct {
	Notes     int `json:"notes"`
	Queued    int `json:"queued"`
	Reviews   int `json:"reviews"`
	PagesRead int `json:"pages_read"`
}

// DatabaseHealth describes the database file and its queue invariants.
type DatabaseHealth struct {
	DBPath           string `json:"db_path"`
	DatabaseExists   bool   `json:"database_exists"`
	DatabaseReadable bool   `json:"database_readable"`
	SchemaVersion    int    `json:"schema_version"`
	QueueDense       bool   `json:"queue_dense"`
	QueueLength      int    `json:"queue_length"`
	FreeBytes        uint64 `json:"free_bytes"`
	Error            string `json:"error,omitempty"`
}
