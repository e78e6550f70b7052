package mw

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
)

func TestCacheServesRepeatGets(t *testing.T) {
	gin.SetMode(gin.TestMode)

	store := cache.New(time.Minute, time.Minute)
	hits := 0

	r := gin.New()
	r.GET("/cached", Cache(store, time.Minute), func(c *gin.Context) {
		hits++
		c.JSON(http.StatusOK, gin.H{"hits": hits})
	})
	r.POST("/cached", Cache(store, time.Minute), func(c *gin.Context) {
		hits++
		c.JSON(http.StatusOK, gin.H{"hits": hits})
	})

	get := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/cached", nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		return w
	}

	first := get()
	second := get()
	assert.Equal(t, first.Body.String(), second.Body.String(), "the second GET is served from cache")
	assert.Equal(t, 1, hits)
	assert.Empty(t, first.Header().Get("X-Cache"))
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))

	// Non-GET requests bypass the cache.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/cached", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, 2, hits)
}

func TestCacheSkipsErrorResponses(t *testing.T) {
	gin.SetMode(gin.TestMode)

	store := cache.New(time.Minute, time.Minute)
	status := http.StatusInternalServerError

	r := gin.New()
	r.GET("/flaky", Cache(store, time.Minute), func(c *gin.Context) {
		c.JSON(status, gin.H{"status": strconv.Itoa(status)})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/flaky", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	// The failure was not cached; a later success comes through.
	status = http.StatusOK
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/flaky", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
