package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"museum-artifact-backend/internal/model"
	"museum-artifact-backend/internal/store"
)

type sensorDataRequest struct {
	Type  model.SensorType `json:"type"`
	Value *float64         `json:"value"`
	Unit  string           `json:"unit"`
	Raw   map[string]any   `json:"rawData"`
}

type interactionRequest struct {
	ArtifactID      string                    `json:"artifactId"`
	SensorData      sensorDataRequest         `json:"sensorData"`
	InteractionType model.InteractionType     `json:"interactionType"`
	Duration        int                       `json:"duration"`
	DeviceInfo      model.DeviceInfo          `json:"deviceInfo"`
	Metadata        model.InteractionMetadata `json:"metadata"`
}

func (r *interactionRequest) validate() []fieldError {
	var failures []fieldError
	if r.ArtifactID == "" {
		failures = append(failures, fieldError{Field: "artifactId", Message: "Artifact ID is required"})
	}
	if !r.SensorData.Type.Valid() {
		failures = append(failures, fieldError{Field: "sensorData.type", Message: "Invalid sensor type"})
	}
	if r.SensorData.Value == nil {
		failures = append(failures, fieldError{Field: "sensorData.value", Message: "Sensor value must be a number"})
	}
	if r.InteractionType != "" && !r.InteractionType.Valid() {
		failures = append(failures, fieldError{Field: "interactionType", Message: "Invalid interaction type"})
	}
	return failures
}

// RecordInteraction handles POST /api/interactions. The reply includes a
// minimal artifact projection so the caller can decide whether to trigger a
// response without a second round trip.
func (h *Handler) RecordInteraction(c *gin.Context) {
	var req interactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if failures := req.validate(); len(failures) > 0 {
		abortValidation(c, failures)
		return
	}

	interaction := &model.Interaction{
		ArtifactID: req.ArtifactID,
		SensorData: model.SensorData{
			Type:  req.SensorData.Type,
			Value: *req.SensorData.Value,
			Unit:  req.SensorData.Unit,
			Raw:   req.SensorData.Raw,
		},
		InteractionType: req.InteractionType,
		Duration:        req.Duration,
		DeviceInfo:      req.DeviceInfo,
		Metadata:        req.Metadata,
	}

	artifact, err := h.store.RecordInteraction(c.Request.Context(), interaction)
	if err != nil {
		abortStoreError(c, err, "Artifact not found")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Interaction recorded successfully",
		"data": gin.H{
			"interaction": interaction,
			"artifact":    artifact.Projection(),
		},
	})
}

// ListInteractions handles GET /api/interactions.
func (h *Handler) ListInteractions(c *gin.Context) {
	filter := store.InteractionFilter{ArtifactID: c.Query("artifactId"), Limit: 50}

	hours := 24
	if raw := c.Query("hours"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxWindowHours {
			abortError(c, http.StatusBadRequest, "Invalid hours")
			return
		}
		hours = n
	}
	filter.Since = time.Now().Add(-time.Duration(hours) * time.Hour)

	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			abortError(c, http.StatusBadRequest, "Invalid limit")
			return
		}
		filter.Limit = n
	}
	if raw := c.Query("processed"); raw != "" {
		processed := raw == "true"
		filter.Processed = &processed
	}

	interactions, err := h.store.ListInteractions(c.Request.Context(), filter)
	if err != nil {
		abortStoreError(c, err, "Interaction not found")
		return
	}
	respondList(c, len(interactions), interactions)
}

// GetInteraction handles GET /api/interactions/:id.
func (h *Handler) GetInteraction(c *gin.Context) {
	interaction, err := h.store.GetInteraction(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortStoreError(c, err, "Interaction not found")
		return
	}
	respondData(c, http.StatusOK, interaction)
}

// interactionSubRoute dispatches the two-segment interaction GETs; the only
// recognized form is /api/interactions/artifact/:artifactId.
func (h *Handler) interactionSubRoute(c *gin.Context) {
	if c.Param("id") != "artifact" {
		abortError(c, http.StatusNotFound, "Not found")
		return
	}
	h.interactionsByArtifact(c, c.Param("sub"))
}

// interactionsByArtifact serves an artifact's recent interaction history.
func (h *Handler) interactionsByArtifact(c *gin.Context, artifactID string) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			abortError(c, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	interactions, err := h.store.InteractionsByArtifact(c.Request.Context(), artifactID, limit)
	if err != nil {
		abortStoreError(c, err, "Interaction not found")
		return
	}
	respondList(c, len(interactions), interactions)
}

// ProcessInteraction handles PATCH /api/interactions/:id/process. The update
// is a conditional claim: a 409 tells the caller another worker already owns
// this interaction.
func (h *Handler) ProcessInteraction(c *gin.Context) {
	interaction, err := h.store.ClaimInteraction(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortStoreError(c, err, "Interaction not found")
		return
	}
	respondData(c, http.StatusOK, interaction)
}

// DeleteInteraction handles DELETE /api/interactions/:id.
func (h *Handler) DeleteInteraction(c *gin.Context) {
	if err := h.store.DeleteInteraction(c.Request.Context(), c.Param("id")); err != nil {
		abortStoreError(c, err, "Interaction not found")
		return
	}
	respondMessage(c, http.StatusOK, "Interaction deleted successfully", nil)
}
