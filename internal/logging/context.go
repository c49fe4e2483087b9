package logging

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

type contextKey int

const (
	correlationIDKey contextKey = iota
	noteIDKey
)

// WithCorrelationID stores id on ctx. An empty id generates a new UUID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = uuid.NewString()
	}
	return context.WithValue(ctx, correlationIDKey, id)
}

// CorrelationID returns the correlation ID stored on ctx, if any.
func CorrelationID(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(correlationIDKey).(string)
	return id, ok && id != ""
}

// WithNoteID records the note an operation works on.
func WithNoteID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, noteIDKey, id)
}

// NoteID returns the note ID stored on ctx, if any.
func NoteID(ctx context.Context) (int64, bool) {
	if ctx == nil {
		return 0, false
	}
	id, ok := ctx.Value(noteIDKey).(int64)
	return id, ok
}

// ContextFields extracts standardized attributes from ctx.
func ContextFields(ctx context.Context) []slog.Attr {
	var fields []slog.Attr
	if id, ok := NoteID(ctx); ok {
		fields = append(fields, slog.Int64(FieldNoteID, id))
	}
	if id, ok := CorrelationID(ctx); ok {
		fields = append(fields, slog.String(FieldCorrelationID, id))
	}
	return fields
}

// WithContext returns logger augmented with the fields carried by ctx.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
