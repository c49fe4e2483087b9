package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"readq/internal/config"
	"readq/internal/logging"
	"readq/internal/notes"
	"readq/internal/readinglist"
	"readq/internal/schedule"
	"readq/internal/scoring"
)

type handlers struct {
	svc     *readinglist.Service
	cfg     *config.Config
	started time.Time
}

// HealthResponse is returned by GET /api/v1/health.
type HealthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
	Queued int    `json:"queued"`
	Dense  bool   `json:"dense"`
}

// NoteRequest is the body of note create and update calls.
type NoteRequest struct {
	readinglist.NoteInput
	Policy *schedule.Policy `json:"policy,omitempty"`
}

// PlacementResponse pairs a note with where it landed in the queue.
type PlacementResponse struct {
	Note      *notes.Note           `json:"note"`
	Placement readinglist.Placement `json:"placement"`
}

// ConsumeRequest is the body of POST /notes/:id/consume.
type ConsumeRequest struct {
	Policy *schedule.Policy `json:"policy,omitempty"`
}

// OrderRequest is the body of PUT /queue/order.
type OrderRequest struct {
	IDs []int64 `json:"ids"`
}

// ReviewRequest is the body of POST /notes/:id/reviews.
type ReviewRequest struct {
	Outcome    scoring.Outcome `json:"outcome"`
	DurationMS uint32          `json:"duration_ms"`
	Kind       string          `json:"kind,omitempty"`
	ReviewedAt *time.Time      `json:"reviewed_at,omitempty"`
}

// PageRequest is the optional body of PUT /notes/:id/pages/:page.
type PageRequest struct {
	PagesTotal int `json:"pages_total"`
}

func (h *handlers) health(c *gin.Context) {
	status, err := h.svc.Status(c.Request.Context())
	if err != nil {
		abortWith(c, http.StatusServiceUnavailable, ErrCodeInternal, err.Error())
		return
	}
	state := "healthy"
	if !status.Health.QueueDense {
		state = "degraded"
	}
	respond(c, http.StatusOK, HealthResponse{
		Status: state,
		Uptime: time.Since(h.started).Round(time.Second).String(),
		Queued: status.Health.QueueLength,
		Dense:  status.Health.QueueDense,
	})
}

func (h *handlers) listQueue(c *gin.Context) {
	queue, err := h.svc.Queue(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, nonNil(queue))
}

func (h *handlers) queueHead(c *gin.Context) {
	note, err := h.svc.Head(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, note)
}

func (h *handlers) queueRandom(c *gin.Context) {
	note, err := h.svc.RandomQueued(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, note)
}

func (h *handlers) reorderQueue(c *gin.Context) {
	var req OrderRequest
	if !bind(c, &req) {
		return
	}
	if err := h.svc.Reorder(c.Request.Context(), req.IDs); err != nil {
		respondError(c, err)
		return
	}
	h.listQueue(c)
}

func (h *handlers) repairQueue(c *gin.Context) {
	moved, err := h.svc.Repair(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"moved": moved})
}

func (h *handlers) listNotes(c *gin.Context) {
	ctx := c.Request.Context()
	store := h.svc.Store()
	var (
		list []*notes.Note
		err  error
	)
	switch {
	case c.Query("tag") != "":
		list, err = store.NotesByTag(ctx, c.QueryArray("tag")...)
	case c.Query("q") != "":
		list, err = store.SearchNotes(ctx, c.Query("q"))
	default:
		list, err = store.ListNotes(ctx)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, nonNil(list))
}

func (h *handlers) createNote(c *gin.Context) {
	var req NoteRequest
	if !bind(c, &req) {
		return
	}
	policy := h.svc.DefaultPolicy()
	if req.Policy != nil {
		policy = *req.Policy
	}
	note, placement, err := h.svc.CreateNote(c.Request.Context(), req.NoteInput, policy)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, PlacementResponse{Note: note, Placement: placement})
}

func (h *handlers) getNote(c *gin.Context) {
	id, ok := noteID(c)
	if !ok {
		return
	}
	note, err := h.svc.GetNote(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, note)
}

func (h *handlers) updateNote(c *gin.Context) {
	id, ok := noteID(c)
	if !ok {
		return
	}
	var req NoteRequest
	if !bind(c, &req) {
		return
	}
	policy := schedule.NotAdd
	if req.Policy != nil {
		policy = *req.Policy
	}
	note, placement, err := h.svc.UpdateNote(c.Request.Context(), id, req.NoteInput, policy)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, PlacementResponse{Note: note, Placement: placement})
}

func (h *handlers) deleteNote(c *gin.Context) {
	id, ok := noteID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteNote(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"deleted": id})
}

func (h *handlers) consumeNote(c *gin.Context) {
	id, ok := noteID(c)
	if !ok {
		return
	}
	var req ConsumeRequest
	if c.Request.ContentLength != 0 && !bind(c, &req) {
		return
	}
	policy := h.svc.ConsumePolicy()
	if req.Policy != nil {
		policy = *req.Policy
	}
	placement, err := h.svc.MarkConsumed(c.Request.Context(), id, policy)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, placement)
}

func (h *handlers) dequeueNote(c *gin.Context) {
	id, ok := noteID(c)
	if !ok {
		return
	}
	removed, err := h.svc.Dequeue(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"removed": removed})
}

func (h *handlers) listReviews(c *gin.Context) {
	id, ok := noteID(c)
	if !ok {
		return
	}
	reviews, err := h.svc.Reviews(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, nonNil(reviews))
}

func (h *handlers) logReview(c *gin.Context) {
	id, ok := noteID(c)
	if !ok {
		return
	}
	var req ReviewRequest
	if !bind(c, &req) {
		return
	}
	event := scoring.ReviewEvent{Outcome: req.Outcome, DurationMS: req.DurationMS}
	if req.ReviewedAt != nil {
		event.Timestamp = *req.ReviewedAt
	}
	review, err := h.svc.LogReview(c.Request.Context(), id, req.Kind, event)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, review)
}

func (h *handlers) scoreNote(c *gin.Context) {
	id, ok := noteID(c)
	if !ok {
		return
	}
	report, err := h.svc.ScoreNote(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, report)
}

func (h *handlers) readPages(c *gin.Context) {
	id, ok := noteID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	store := h.svc.Store()
	if _, err := store.GetNote(ctx, id); err != nil {
		respondError(c, err)
		return
	}
	pages, err := store.ReadPages(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	progress, err := store.Progress(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"pages": nonNil(pages), "progress": progress})
}

func (h *handlers) markPageRead(c *gin.Context) {
	id, ok := noteID(c)
	if !ok {
		return
	}
	page, ok := pageParam(c)
	if !ok {
		return
	}
	var req PageRequest
	if c.Request.ContentLength != 0 && !bind(c, &req) {
		return
	}
	if err := h.svc.Store().MarkPageRead(c.Request.Context(), id, page, req.PagesTotal); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"note_id": id, "page": page, "read": true})
}

func (h *handlers) markPageUnread(c *gin.Context) {
	id, ok := noteID(c)
	if !ok {
		return
	}
	page, ok := pageParam(c)
	if !ok {
		return
	}
	if err := h.svc.Store().MarkPageUnread(c.Request.Context(), id, page); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"note_id": id, "page": page, "read": false})
}

func (h *handlers) lowestPerformers(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			abortWith(c, http.StatusBadRequest, ErrCodeInvalidInput, fmt.Sprintf("invalid limit %q", raw))
			return
		}
		limit = parsed
	}
	metric := scoring.ByComposite
	switch strings.ToLower(c.DefaultQuery("metric", "composite")) {
	case "composite":
	case "retention":
		metric = scoring.ByRetention
	default:
		abortWith(c, http.StatusBadRequest, ErrCodeInvalidInput, "metric must be composite or retention")
		return
	}
	ranked, err := h.svc.LowestPerformers(c.Request.Context(), metric, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, nonNil(ranked))
}

func (h *handlers) baseline(c *gin.Context) {
	baseline, err := h.svc.Baseline(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, baseline)
}

func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		abortWith(c, http.StatusBadRequest, ErrCodeInvalidInput, err.Error())
		return false
	}
	return true
}

func noteID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		abortWith(c, http.StatusBadRequest, ErrCodeInvalidInput, fmt.Sprintf("invalid note id %q", c.Param("id")))
		return 0, false
	}
	c.Request = c.Request.WithContext(logging.WithNoteID(c.Request.Context(), id))
	return id, true
}

func pageParam(c *gin.Context) (int, bool) {
	page, err := strconv.Atoi(c.Param("page"))
	if err != nil || page < 1 {
		abortWith(c, http.StatusBadRequest, ErrCodeInvalidInput, fmt.Sprintf("invalid page %q", c.Param("page")))
		return 0, false
	}
	return page, true
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
