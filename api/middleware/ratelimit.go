package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/pcstats/api/handler"
	"github.com/use-agent/pcstats/config"
	"github.com/use-agent/pcstats/models"
	"golang.org/x/time/rate"
)

const (
	sweepEvery = 5 * time.Minute
	idleAfter  = time.Hour
)

var errRateLimited = models.NewScrapeError(models.ErrCodeRateLimited,
	"rate limit exceeded, please slow down", nil)

// buckets holds one token bucket per caller identity.
type buckets struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[string]*bucket
}

type bucket struct {
	*rate.Limiter
	lastSeen time.Time
}

func (b *buckets) get(identity string, now time.Time) *rate.Limiter {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.limiters[identity]
	if !ok {
		e = &bucket{Limiter: rate.NewLimiter(b.limit, b.burst)}
		b.limiters[identity] = e
	}
	e.lastSeen = now
	return e.Limiter
}

func (b *buckets) sweep(cutoff time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, e := range b.limiters {
		if e.lastSeen.Before(cutoff) {
			delete(b.limiters, id)
		}
	}
}

// RateLimit returns token-bucket rate limiting keyed by the API key stored by
// Auth, or by client IP when auth is off. Buckets idle for an hour are
// dropped.
func RateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	b := &buckets{
		limit:    rate.Limit(cfg.RequestsPerSecond),
		burst:    cfg.Burst,
		limiters: make(map[string]*bucket),
	}

	go func() {
		ticker := time.NewTicker(sweepEvery)
		defer ticker.Stop()
		for now := range ticker.C {
			b.sweep(now.Add(-idleAfter))
		}
	}()

	return func(c *gin.Context) {
		identity := c.GetString(identityKey)
		if identity == "" {
			identity = c.ClientIP()
		}
		if !b.get(identity, time.Now()).Allow() {
			handler.Abort(c, errRateLimited)
			return
		}
		c.Next()
	}
}
