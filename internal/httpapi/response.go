package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"readq/internal/notes"
	"readq/internal/readinglist"
	"readq/internal/schedule"
	"readq/internal/scoring"
)

// Error codes returned in the envelope.
const (
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeConflict     = "CONFLICT"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// Envelope wraps every response body.
type Envelope struct {
	Success bool         `json:"success"`
	Data    any          `json:"data,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail describes a failed request.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respond(c *gin.Context, status int, data any) {
	c.JSON(status, Envelope{Success: true, Data: data})
}

func abortWith(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, Envelope{
		Success: false,
		Error:   &ErrorDetail{Code: code, Message: message},
	})
}

// respondError maps service errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, notes.ErrNotFound):
		abortWith(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, readinglist.ErrEmptyNote),
		errors.Is(err, schedule.ErrUnknownPolicy),
		errors.Is(err, scoring.ErrInvalidOutcome):
		abortWith(c, http.StatusBadRequest, ErrCodeInvalidInput, err.Error())
	case errors.Is(err, readinglist.ErrReorderMismatch),
		errors.Is(err, readinglist.ErrCorruptQueue):
		abortWith(c, http.StatusConflict, ErrCodeConflict, err.Error())
	default:
		_ = c.Error(err)
		abortWith(c, http.StatusInternalServerError, ErrCodeInternal, "internal error")
	}
}
