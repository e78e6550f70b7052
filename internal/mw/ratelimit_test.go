package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/limited", RateLimiter(1, 2), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	// The burst allows two immediate requests; the third is rejected.
	codes := make([]int, 0, 3)
	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/limited", nil)
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
		last = w
	}

	assert.Equal(t, http.StatusOK, codes[0])
	assert.Equal(t, http.StatusOK, codes[1])
	assert.Equal(t, http.StatusTooManyRequests, codes[2])
	assert.JSONEq(t, `{"success": false, "error": "Too many requests"}`, last.Body.String())
}

func TestRateLimiterPerAddress(t *testing.T) {
	limits := newVisitorLimits(1, 1)

	first := limits.bucket("10.0.0.1")
	second := limits.bucket("10.0.0.2")
	assert.NotSame(t, first, second, "each address gets its own bucket")
	assert.Same(t, first, limits.bucket("10.0.0.1"))
}
