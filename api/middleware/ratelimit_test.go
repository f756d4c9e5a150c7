package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestBucketsSweepDropsIdle(t *testing.T) {
	b := &buckets{limit: rate.Limit(1), burst: 1, limiters: make(map[string]*bucket)}
	start := time.Now()

	stale := b.get("stale", start)
	b.get("fresh", start.Add(2*idleAfter))
	assert.Same(t, stale, b.get("stale", start), "same identity reuses its bucket")

	b.sweep(start.Add(idleAfter))
	assert.NotContains(t, b.limiters, "stale")
	assert.Contains(t, b.limiters, "fresh")
}
