package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"museum-artifact-backend/internal/model"
	"museum-artifact-backend/internal/store"
)

type putSubscriptionRequest struct {
	Endpoint            string   `json:"endpoint" binding:"required"`
	P256DH              string   `json:"p256dh" binding:"required"`
	Auth                string   `json:"auth" binding:"required"`
	SubscribedArtifacts []string `json:"subscribed_artifacts"`
}

// PutSubscription creates or replaces a push subscription watching a set of
// artifacts.
func (h *Handler) PutSubscription(c *gin.Context) {
	var req putSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "invalid request")
		return
	}

	subscription := model.PushSubscription{
		Endpoint: req.Endpoint,
		P256DH:   req.P256DH,
		Auth:     req.Auth,
	}

	err := h.store.DB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "endpoint"}},
			DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth"}),
		}).Create(&subscription).Error; err != nil {
			return err
		}

		var artifacts []*model.Artifact
		if len(req.SubscribedArtifacts) > 0 {
			ids := make([]string, len(req.SubscribedArtifacts))
			for i, id := range req.SubscribedArtifacts {
				ids[i] = store.NormalizeID(id)
			}
			if err := tx.Where("artifact_id IN ?", ids).Find(&artifacts).Error; err != nil {
				return err
			}
		}

		return tx.Model(&subscription).Association("Artifacts").Replace(artifacts)
	})

	if err != nil {
		abortError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.Status(http.StatusCreated)
}

type deleteSubscriptionRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
}

// DeleteSubscription removes a push subscription.
func (h *Handler) DeleteSubscription(c *gin.Context) {
	var req deleteSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "invalid request")
		return
	}

	if err := h.store.DB().Delete(&model.PushSubscription{Endpoint: req.Endpoint}).Error; err != nil {
		abortError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}

// rawQueryParam extracts a parameter without URL decoding; push endpoints are
// compared byte-for-byte against the stored value.
func rawQueryParam(rawQuery, key string) (string, bool) {
	for _, kv := range strings.Split(rawQuery, "&") {
		if strings.HasPrefix(kv, key+"=") {
			return kv[len(key)+1:], true
		}
	}
	return "", false
}

// GetSubscription returns the artifact ids a subscription is watching.
func (h *Handler) GetSubscription(c *gin.Context) {
	raw, ok := rawQueryParam(c.Request.URL.RawQuery, "endpoint")
	if !ok || raw == "" {
		abortError(c, http.StatusBadRequest, "endpoint is required")
		return
	}

	var subscription model.PushSubscription
	if err := h.store.DB().Preload("Artifacts").First(&subscription, "endpoint = ?", raw).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			abortError(c, http.StatusNotFound, "subscription not found")
		} else {
			abortError(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	artifactIDs := make([]string, len(subscription.Artifacts))
	for i, artifact := range subscription.Artifacts {
		artifactIDs[i] = artifact.ArtifactID
	}
	c.JSON(http.StatusOK, gin.H{"subscribed_artifacts": artifactIDs})
}

// GetVAPIDPublicKey returns the VAPID public key to the client.
func (h *Handler) GetVAPIDPublicKey(c *gin.Context) {
	if h.webpush == nil || h.webpush.VAPIDPublicKey == "" {
		abortError(c, http.StatusServiceUnavailable, "vapid keys are not configured")
		return
	}
	c.JSON(http.StatusOK, gin.H{"public_key": h.webpush.VAPIDPublicKey})
}
