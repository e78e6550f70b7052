package mw

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

// snapshot is a replayable copy of a successful GET response, keyed by
// request URI so query parameters produce distinct entries.
type snapshot struct {
	status  int
	headers http.Header
	body    []byte
}

func (s snapshot) replay(c *gin.Context) {
	header := c.Writer.Header()
	for k, v := range s.headers {
		header[k] = v
	}
	header.Set("X-Cache", "HIT")
	c.Writer.WriteHeader(s.status)
	c.Writer.Write(s.body)
	c.Abort()
}

// teeBodyWriter copies the response body as the handler writes it, leaving
// the wire output untouched.
type teeBodyWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w teeBodyWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w teeBodyWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Cache serves repeat GETs from memory for the configured TTL. Only 2xx
// responses are captured; errors always fall through to the handler.
func Cache(store *cache.Cache, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := c.Request.RequestURI
		if hit, found := store.Get(key); found {
			hit.(snapshot).replay(c)
			return
		}

		tee := &teeBodyWriter{body: bytes.NewBuffer(nil), ResponseWriter: c.Writer}
		c.Writer = tee

		c.Next()

		if tee.Status() >= 200 && tee.Status() < 300 {
			store.Set(key, snapshot{
				status:  tee.Status(),
				headers: tee.Header().Clone(),
				body:    tee.body.Bytes(),
			}, ttl)
		}
	}
}
