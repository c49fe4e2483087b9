package httpapi

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"readq/internal/config"
	"readq/internal/logging"
	"readq/internal/readinglist"
)

// NewRouter creates the gin engine serving the reading list.
//
// Middleware chain:
//
//	Global:  Recovery → request logging
//	API:     bearer auth (when a token is configured) → rate limit
func NewRouter(cfg *config.Config, svc *readinglist.Service, logger *slog.Logger) *gin.Engine {
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	logger = logging.NewComponentLogger(logger, "httpapi")
	gin.SetMode(cfg.Server.Mode)

	h := &handlers{svc: svc, cfg: cfg, started: time.Now()}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(logger))

	v1 := r.Group("/api/v1")
	v1.GET("/health", h.health)

	protected := v1.Group("")
	protected.Use(bearerAuth(cfg.Paths.APIToken))
	protected.Use(rateLimit(cfg.Server.RequestsPerSecond, cfg.Server.Burst))

	protected.GET("/queue", h.listQueue)
	protected.GET("/queue/head", h.queueHead)
	protected.GET("/queue/random", h.queueRandom)
	protected.PUT("/queue/order", h.reorderQueue)
	protected.POST("/queue/repair", h.repairQueue)

	protected.GET("/notes", h.listNotes)
	protected.POST("/notes", h.createNote)
	protected.GET("/notes/:id", h.getNote)
	protected.PUT("/notes/:id", h.updateNote)
	protected.DELETE("/notes/:id", h.deleteNote)
	protected.POST("/notes/:id/consume", h.consumeNote)
	protected.DELETE("/notes/:id/queue", h.dequeueNote)
	protected.GET("/notes/:id/reviews", h.listReviews)
	protected.POST("/notes/:id/reviews", h.logReview)
	protected.GET("/notes/:id/score", h.scoreNote)
	protected.GET("/notes/:id/pages", h.readPages)
	protected.PUT("/notes/:id/pages/:page", h.markPageRead)
	protected.DELETE("/notes/:id/pages/:page", h.markPageUnread)

	protected.GET("/scores/lowest", h.lowestPerformers)
	protected.GET("/scores/baseline", h.baseline)

	return r
}
