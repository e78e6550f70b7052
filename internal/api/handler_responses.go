package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"museum-artifact-backend/internal/model"
)

type triggerRequest struct {
	ArtifactID    string                 `json:"artifactId"`
	InteractionID string                 `json:"interactionId"`
	CustomPattern *model.ResponsePattern `json:"customPattern"`
}

// playbackSound carries the sound channel parameters of a fired response.
type playbackSound struct {
	File     string `json:"file"`
	Volume   int    `json:"volume"`
	Duration int    `json:"duration"`
}

// playbackLight carries the light channel parameters of a fired response.
type playbackLight struct {
	Color     string             `json:"color"`
	Pattern   model.LightPattern `json:"pattern"`
	Intensity int                `json:"intensity"`
	Duration  int                `json:"duration"`
}

// playbackResponse describes the cue a consumer should render. Disabled
// channels surface as null so the consumer knows not to render them.
type playbackResponse struct {
	Type  model.ResponseType `json:"type"`
	Sound *playbackSound     `json:"sound"`
	Light *playbackLight     `json:"light"`
}

func buildPlayback(pattern model.ResponsePattern) playbackResponse {
	playback := playbackResponse{Type: pattern.Type}
	if pattern.Sound.Enabled {
		playback.Sound = &playbackSound{
			File:     pattern.Sound.File,
			Volume:   pattern.Sound.Volume,
			Duration: pattern.Sound.Duration,
		}
	}
	if pattern.Light.Enabled {
		playback.Light = &playbackLight{
			Color:     pattern.Light.Color,
			Pattern:   pattern.Light.Pattern,
			Intensity: pattern.Light.Intensity,
			Duration:  pattern.Light.Duration,
		}
	}
	return playback
}

// TriggerResponse handles POST /api/responses/trigger.
func (h *Handler) TriggerResponse(c *gin.Context) {
	var req triggerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ArtifactID == "" {
		abortValidation(c, []fieldError{{Field: "artifactId", Message: "Artifact ID is required"}})
		return
	}
	if req.CustomPattern != nil {
		var failures []fieldError
		if !req.CustomPattern.Type.Valid() {
			failures = append(failures, fieldError{Field: "customPattern.type", Message: "Invalid response pattern type"})
		}
		if req.CustomPattern.Light.Pattern != "" && !req.CustomPattern.Light.Pattern.Valid() {
			failures = append(failures, fieldError{Field: "customPattern.light.pattern", Message: "Invalid light pattern"})
		}
		if len(failures) > 0 {
			abortValidation(c, failures)
			return
		}
	}

	result, err := h.store.TriggerResponse(c.Request.Context(), req.ArtifactID, req.InteractionID, req.CustomPattern)
	if err != nil {
		abortStoreError(c, err, "Artifact not found")
		return
	}

	if h.workers != nil {
		h.workers.Dispatch(result.Artifact.ID)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Response triggered successfully",
		"data": gin.H{
			"artifactId":   result.Artifact.ArtifactID,
			"artifactName": result.Artifact.Name,
			"response":     buildPlayback(result.Pattern),
			"triggeredAt":  result.Details.TriggeredAt,
		},
	})
}

// TestResponse handles POST /api/responses/test/:artifactId. It returns the
// stored pattern verbatim as a dry run; no interaction is touched and no
// side effects fire.
func (h *Handler) TestResponse(c *gin.Context) {
	artifact, err := h.store.GetArtifact(c.Request.Context(), c.Param("artifactId"))
	if err != nil {
		abortStoreError(c, err, "Artifact not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Test response triggered",
		"data": gin.H{
			"artifactId":   artifact.ArtifactID,
			"artifactName": artifact.Name,
			"testResponse": artifact.ResponsePattern,
			"note":         "This is a test trigger. In production, this would activate the physical lights and sound.",
		},
	})
}

// ResponseHistory handles GET /api/responses/history/:artifactId.
func (h *Handler) ResponseHistory(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			abortError(c, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	interactions, err := h.store.ResponseHistory(c.Request.Context(), c.Param("artifactId"), limit)
	if err != nil {
		abortStoreError(c, err, "Artifact not found")
		return
	}

	history := make([]gin.H, 0, len(interactions))
	for _, interaction := range interactions {
		history = append(history, gin.H{
			"id":              interaction.ID,
			"sensorData":      interaction.SensorData,
			"responseDetails": interaction.ResponseDetails,
			"createdAt":       interaction.CreatedAt,
		})
	}
	respondList(c, len(history), history)
}
