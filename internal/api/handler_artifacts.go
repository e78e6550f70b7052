package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"museum-artifact-backend/internal/model"
	"museum-artifact-backend/internal/store"
)

// artifactRequest is the inbound shape for create and replace. Numeric
// config fields are pointers so an explicit zero (a muted speaker, a dark
// light) is distinguishable from an omitted field, which takes the schema
// default. Running statistics are never caller-supplied.
type artifactRequest struct {
	Name            string                 `json:"name"`
	ArtifactID      string                 `json:"artifactId"`
	Description     string                 `json:"description"`
	Location        model.Location         `json:"location"`
	SensorConfig    sensorConfigRequest    `json:"sensorConfig"`
	ResponsePattern responsePatternRequest `json:"responsePattern"`
	IsActive        *bool                  `json:"isActive"`
	Metadata        model.ArtifactMetadata `json:"metadata"`
}

type sensorConfigRequest struct {
	Type        model.SensorType `json:"type"`
	Sensitivity *int             `json:"sensitivity"`
	Threshold   *float64         `json:"threshold"`
}

type responsePatternRequest struct {
	Type  model.ResponseType `json:"type"`
	Sound soundConfigRequest `json:"sound"`
	Light lightConfigRequest `json:"light"`
}

type soundConfigRequest struct {
	Enabled  bool   `json:"enabled"`
	File     string `json:"file"`
	Volume   *int   `json:"volume"`
	Duration *int   `json:"duration"`
}

type lightConfigRequest struct {
	Enabled   bool               `json:"enabled"`
	Color     string             `json:"color"`
	Pattern   model.LightPattern `json:"pattern"`
	Intensity *int               `json:"intensity"`
	Duration  *int               `json:"duration"`
}

func (r *artifactRequest) validate() []fieldError {
	var failures []fieldError
	if r.Name == "" {
		failures = append(failures, fieldError{Field: "name", Message: "Name is required"})
	}
	if r.ArtifactID == "" {
		failures = append(failures, fieldError{Field: "artifactId", Message: "Artifact ID is required"})
	}
	if r.Description == "" {
		failures = append(failures, fieldError{Field: "description", Message: "Description is required"})
	}
	if r.Location.Room == "" {
		failures = append(failures, fieldError{Field: "location.room", Message: "Location room is required"})
	}
	if !r.SensorConfig.Type.Valid() {
		failures = append(failures, fieldError{Field: "sensorConfig.type", Message: "Invalid sensor type"})
	}
	if s := r.SensorConfig.Sensitivity; s != nil && (*s < 0 || *s > 100) {
		failures = append(failures, fieldError{Field: "sensorConfig.sensitivity", Message: "Sensitivity must be between 0 and 100"})
	}
	if !r.ResponsePattern.Type.Valid() {
		failures = append(failures, fieldError{Field: "responsePattern.type", Message: "Invalid response pattern type"})
	}
	if v := r.ResponsePattern.Sound.Volume; v != nil && (*v < 0 || *v > 100) {
		failures = append(failures, fieldError{Field: "responsePattern.sound.volume", Message: "Volume must be between 0 and 100"})
	}
	if i := r.ResponsePattern.Light.Intensity; i != nil && (*i < 0 || *i > 100) {
		failures = append(failures, fieldError{Field: "responsePattern.light.intensity", Message: "Intensity must be between 0 and 100"})
	}
	if r.ResponsePattern.Light.Pattern != "" && !r.ResponsePattern.Light.Pattern.Valid() {
		failures = append(failures, fieldError{Field: "responsePattern.light.pattern", Message: "Invalid light pattern"})
	}
	return failures
}

// toModel converts the request into a persistable artifact. Defaults fill
// in only for fields the caller left out; a supplied zero stays a zero.
func (r *artifactRequest) toModel() *model.Artifact {
	artifact := model.Artifact{
		Name:        r.Name,
		ArtifactID:  r.ArtifactID,
		Description: r.Description,
		Location:    r.Location,
		SensorConfig: model.SensorConfig{
			Type:        r.SensorConfig.Type,
			Sensitivity: intOr(r.SensorConfig.Sensitivity, 50),
			Threshold:   floatOr(r.SensorConfig.Threshold, 100),
		},
		ResponsePattern: model.ResponsePattern{
			Type: r.ResponsePattern.Type,
			Sound: model.SoundConfig{
				Enabled:  r.ResponsePattern.Sound.Enabled,
				File:     r.ResponsePattern.Sound.File,
				Volume:   intOr(r.ResponsePattern.Sound.Volume, 70),
				Duration: intOr(r.ResponsePattern.Sound.Duration, 5000),
			},
			Light: model.LightConfig{
				Enabled:   r.ResponsePattern.Light.Enabled,
				Color:     r.ResponsePattern.Light.Color,
				Pattern:   r.ResponsePattern.Light.Pattern,
				Intensity: intOr(r.ResponsePattern.Light.Intensity, 80),
				Duration:  intOr(r.ResponsePattern.Light.Duration, 5000),
			},
		},
		IsActive: true,
		Metadata: r.Metadata,
	}
	if r.IsActive != nil {
		artifact.IsActive = *r.IsActive
	}
	if artifact.ResponsePattern.Light.Color == "" {
		artifact.ResponsePattern.Light.Color = "#FFFFFF"
	}
	if artifact.ResponsePattern.Light.Pattern == "" {
		artifact.ResponsePattern.Light.Pattern = model.LightSolid
	}
	return &artifact
}

func intOr(v *int, fallback int) int {
	if v != nil {
		return *v
	}
	return fallback
}

func floatOr(v *float64, fallback float64) float64 {
	if v != nil {
		return *v
	}
	return fallback
}

// ListArtifacts handles GET /api/artifacts.
func (h *Handler) ListArtifacts(c *gin.Context) {
	filter := store.ArtifactFilter{Room: c.Query("room"), Limit: 50}

	if active := c.Query("active"); active != "" {
		isActive := active == "true"
		filter.Active = &isActive
	}
	if limit := c.Query("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n <= 0 {
			abortError(c, http.StatusBadRequest, "Invalid limit")
			return
		}
		filter.Limit = n
	}

	artifacts, err := h.store.ListArtifacts(c.Request.Context(), filter)
	if err != nil {
		abortStoreError(c, err, "Artifact not found")
		return
	}
	respondList(c, len(artifacts), artifacts)
}

// GetArtifact handles GET /api/artifacts/:artifactId.
func (h *Handler) GetArtifact(c *gin.Context) {
	artifact, err := h.store.GetArtifact(c.Request.Context(), c.Param("artifactId"))
	if err != nil {
		abortStoreError(c, err, "Artifact not found")
		return
	}
	respondData(c, http.StatusOK, artifact)
}

// CreateArtifact handles POST /api/artifacts.
func (h *Handler) CreateArtifact(c *gin.Context) {
	var req artifactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if failures := req.validate(); len(failures) > 0 {
		abortValidation(c, failures)
		return
	}

	artifact := req.toModel()
	if err := h.store.CreateArtifact(c.Request.Context(), artifact); err != nil {
		abortStoreError(c, err, "Artifact not found")
		return
	}
	respondData(c, http.StatusCreated, artifact)
}

// ReplaceArtifact handles PUT /api/artifacts/:artifactId.
func (h *Handler) ReplaceArtifact(c *gin.Context) {
	var req artifactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ArtifactID == "" {
		req.ArtifactID = c.Param("artifactId")
	}
	if failures := req.validate(); len(failures) > 0 {
		abortValidation(c, failures)
		return
	}

	artifact, err := h.store.ReplaceArtifact(c.Request.Context(), c.Param("artifactId"), req.toModel())
	if err != nil {
		abortStoreError(c, err, "Artifact not found")
		return
	}
	respondData(c, http.StatusOK, artifact)
}

// ToggleArtifact handles PATCH /api/artifacts/:artifactId/toggle.
func (h *Handler) ToggleArtifact(c *gin.Context) {
	artifact, err := h.store.ToggleArtifact(c.Request.Context(), c.Param("artifactId"))
	if err != nil {
		abortStoreError(c, err, "Artifact not found")
		return
	}
	respondData(c, http.StatusOK, artifact)
}

// DeleteArtifact handles DELETE /api/artifacts/:artifactId.
func (h *Handler) DeleteArtifact(c *gin.Context) {
	if err := h.store.DeleteArtifact(c.Request.Context(), c.Param("artifactId")); err != nil {
		abortStoreError(c, err, "Artifact not found")
		return
	}
	respondMessage(c, http.StatusOK, "Artifact deleted successfully", nil)
}
