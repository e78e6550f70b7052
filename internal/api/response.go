package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"museum-artifact-backend/internal/store"
)

// fieldError reports one violated validation rule. All violations of a
// request are reported together.
type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondList(c *gin.Context, count int, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "count": count, "data": data})
}

func respondMessage(c *gin.Context, status int, message string, data any) {
	body := gin.H{"success": true, "message": message}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

func abortError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "error": message})
}

func abortValidation(c *gin.Context, failures []fieldError) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "errors": failures})
}

// abortStoreError maps store sentinels onto HTTP status codes. notFound names
// the missing entity; anything unexpected funnels to a 500 with the error
// message surfaced.
func abortStoreError(c *gin.Context, err error, notFound string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		abortError(c, http.StatusNotFound, notFound)
	case errors.Is(err, store.ErrDuplicateArtifact):
		abortError(c, http.StatusBadRequest, "Artifact ID already exists")
	case errors.Is(err, store.ErrArtifactInactive):
		abortError(c, http.StatusBadRequest, "Artifact is not active")
	case errors.Is(err, store.ErrAlreadyProcessed):
		abortError(c, http.StatusConflict, "Interaction already processed")
	default:
		abortError(c, http.StatusInternalServerError, err.Error())
	}
}
