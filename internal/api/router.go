package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"museum-artifact-backend/config"
	"museum-artifact-backend/internal/mw"
	"museum-artifact-backend/internal/notification"
	"museum-artifact-backend/internal/store"
)

// NewRouter creates and configures a new Gin router. workers and
// webpushOptions may be nil when push notifications are not configured.
func NewRouter(s store.Store, cfg *config.Config, workers *notification.WorkerPool, webpushOptions *webpush.Options) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(s, workers, webpushOptions)

	auth := mw.APIKeyAuth(cfg.Server.APIKey)
	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)

	// Public artifact reads are cached briefly; stats are always recomputed.
	// A zero TTL disables caching entirely.
	caching := gin.HandlerFunc(func(c *gin.Context) { c.Next() })
	if cfg.Server.CacheTTLSeconds > 0 {
		cacheTTL := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
		cacheStore := cache.New(cacheTTL, 2*cacheTTL)
		caching = mw.Cache(cacheStore, cacheTTL)
	}

	r.GET("/health", handler.Health)
	r.GET("/", handler.Banner)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		artifacts := api.Group("/artifacts")
		{
			artifacts.GET("", caching, handler.ListArtifacts)
			artifacts.GET("/:artifactId", caching, handler.GetArtifact)
			artifacts.POST("", auth, handler.CreateArtifact)
			artifacts.PUT("/:artifactId", auth, handler.ReplaceArtifact)
			artifacts.PATCH("/:artifactId/toggle", auth, handler.ToggleArtifact)
			artifacts.DELETE("/:artifactId", auth, handler.DeleteArtifact)
		}

		interactions := api.Group("/interactions", auth)
		{
			interactions.POST("", handler.RecordInteraction)
			interactions.GET("", handler.ListInteractions)
			interactions.GET("/:id", handler.GetInteraction)
			// The router cannot mix the static "artifact" segment with the
			// ":id" wildcard, so /interactions/artifact/:artifactId is
			// dispatched from a two-segment wildcard route.
			interactions.GET("/:id/:sub", handler.interactionSubRoute)
			interactions.PATCH("/:id/process", handler.ProcessInteraction)
			interactions.DELETE("/:id", handler.DeleteInteraction)
		}

		responses := api.Group("/responses", auth)
		{
			responses.POST("/trigger", handler.TriggerResponse)
			responses.POST("/test/:artifactId", handler.TestResponse)
			responses.GET("/history/:artifactId", handler.ResponseHistory)
		}

		stats := api.Group("/stats", auth)
		{
			stats.GET("/overview", handler.StatsOverview)
			stats.GET("/artifact/:artifactId", handler.StatsArtifact)
			stats.GET("/hourly", handler.StatsHourly)
		}

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", auth, handler.PutSubscription)
		api.DELETE("/subscriptions", auth, handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
