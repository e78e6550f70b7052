package api

import (
	"net/http"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"museum-artifact-backend/internal/notification"
	"museum-artifact-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store   store.Store
	workers *notification.WorkerPool
	webpush *webpush.Options
	started time.Time
}

// NewHandler creates a new API handler. workers and webpushOptions may be nil
// when push notifications are not configured.
func NewHandler(s store.Store, workers *notification.WorkerPool, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		store:   s,
		workers: workers,
		webpush: webpushOptions,
		started: time.Now(),
	}
}

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Museum Artifact System API is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(h.started).Seconds(),
	})
}

// Banner handles GET / with a service overview.
func (h *Handler) Banner(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Welcome to Interactive Museum Artifact System API",
		"endpoints": gin.H{
			"health":       "/health",
			"artifacts":    "/api/artifacts",
			"interactions": "/api/interactions",
			"responses":    "/api/responses",
			"stats":        "/api/stats",
		},
	})
}
