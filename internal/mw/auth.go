package mw

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIKeyAuth guards mutating and privileged routes with a shared secret.
// A missing X-API-Key header yields 401, a mismatched one 403.
func APIKeyAuth(validKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader("X-API-Key")

		if apiKey == "" {
			log.Printf("API request without API key: ip=%s path=%s", c.ClientIP(), c.Request.URL.Path)
			reject(c, http.StatusUnauthorized, "API key is required. Please include X-API-Key header.")
			return
		}

		if apiKey != validKey {
			log.Printf("Invalid API key attempt: ip=%s path=%s", c.ClientIP(), c.Request.URL.Path)
			reject(c, http.StatusForbidden, "Invalid API key")
			return
		}

		c.Next()
	}
}
