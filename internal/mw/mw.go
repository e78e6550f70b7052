// Package mw holds the HTTP middleware chain: shared-secret API key auth,
// per-client rate limiting and in-memory caching of GET responses.
package mw

import "github.com/gin-gonic/gin"

// reject writes the API's standard error envelope and stops the chain, so
// middleware failures look the same on the wire as handler failures.
func reject(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error":   message,
	})
}
