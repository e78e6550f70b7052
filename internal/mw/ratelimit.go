package mw

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// visitorLimits hands out one token bucket per client address. Buckets are
// created lazily on first sight of an address and kept for the life of the
// process.
type visitorLimits struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	rate    rate.Limit
	burst   int
}

func newVisitorLimits(r rate.Limit, burst int) *visitorLimits {
	return &visitorLimits{
		buckets: make(map[string]*rate.Limiter),
		rate:    r,
		burst:   burst,
	}
}

func (v *visitorLimits) bucket(addr string) *rate.Limiter {
	v.mu.Lock()
	defer v.mu.Unlock()

	limiter, ok := v.buckets[addr]
	if !ok {
		limiter = rate.NewLimiter(v.rate, v.burst)
		v.buckets[addr] = limiter
	}
	return limiter
}

// RateLimiter throttles each client address independently, so one runaway
// sensor gateway cannot starve the exhibit floor.
func RateLimiter(r rate.Limit, burst int) gin.HandlerFunc {
	limits := newVisitorLimits(r, burst)
	return func(c *gin.Context) {
		if !limits.bucket(c.ClientIP()).Allow() {
			reject(c, http.StatusTooManyRequests, "Too many requests")
			return
		}
		c.Next()
	}
}
