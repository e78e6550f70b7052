package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// maxWindowHours caps caller-supplied lookbacks at one year; beyond that the
// hour-to-duration conversion stops meaning anything useful.
const maxWindowHours = 24 * 365

// statsWindow resolves the caller-supplied lookback, defaulting to 24 hours.
func statsWindow(c *gin.Context) (int, time.Time, bool) {
	hours := 24
	if raw := c.Query("hours"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxWindowHours {
			abortError(c, http.StatusBadRequest, "Invalid hours")
			return 0, time.Time{}, false
		}
		hours = n
	}
	return hours, time.Now().Add(-time.Duration(hours) * time.Hour), true
}

// StatsOverview handles GET /api/stats/overview.
func (h *Handler) StatsOverview(c *gin.Context) {
	hours, since, ok := statsWindow(c)
	if !ok {
		return
	}

	stats, err := h.store.Overview(c.Request.Context(), since)
	if err != nil {
		abortStoreError(c, err, "Not found")
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"artifacts": gin.H{
			"total":    stats.TotalArtifacts,
			"active":   stats.ActiveArtifacts,
			"inactive": stats.TotalArtifacts - stats.ActiveArtifacts,
		},
		"interactions": gin.H{
			"total":     stats.TotalInteractions,
			"recent":    stats.RecentInteractions,
			"timeRange": fmt.Sprintf("Last %d hours", hours),
		},
		"popularArtifacts":   stats.PopularArtifacts,
		"interactionsByType": stats.InteractionsByType,
	})
}

// StatsArtifact handles GET /api/stats/artifact/:artifactId.
func (h *Handler) StatsArtifact(c *gin.Context) {
	hours, since, ok := statsWindow(c)
	if !ok {
		return
	}

	activity, err := h.store.ArtifactActivity(c.Request.Context(), c.Param("artifactId"), since)
	if err != nil {
		abortStoreError(c, err, "Artifact not found")
		return
	}

	artifact := activity.Artifact
	respondData(c, http.StatusOK, gin.H{
		"artifact": gin.H{
			"id":                artifact.ArtifactID,
			"name":              artifact.Name,
			"isActive":          artifact.IsActive,
			"totalInteractions": artifact.Statistics.TotalInteractions,
			"lastInteraction":   artifact.Statistics.LastInteraction,
		},
		"recentStats": gin.H{
			"interactions":       activity.Interactions,
			"responsesTriggered": activity.ResponsesTriggered,
			"averageSensorValue": activity.AverageSensorValue,
			"timeRange":          fmt.Sprintf("Last %d hours", hours),
		},
		"interactionsByHour": activity.InteractionsByHour,
	})
}

// StatsHourly handles GET /api/stats/hourly.
func (h *Handler) StatsHourly(c *gin.Context) {
	_, since, ok := statsWindow(c)
	if !ok {
		return
	}

	series, err := h.store.HourlySeries(c.Request.Context(), since)
	if err != nil {
		abortStoreError(c, err, "Not found")
		return
	}
	respondData(c, http.StatusOK, series)
}
