package engine

import (
	"context"

	"golang.org/x/time/rate"
)

// Throttle spaces out the requests sent through another engine with a token
// bucket. Waiting honours the request context.
type Throttle struct {
	next    Engine
	limiter *rate.Limiter
}

// NewThrottle allows rps requests per second with the given burst. A
// non-positive rps disables throttling.
func NewThrottle(next Engine, rps float64, burst int) *Throttle {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &Throttle{next: next, limiter: rate.NewLimiter(limit, burst)}
}

func (t *Throttle) Name() string { return t.next.Name() }

func (t *Throttle) Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, fetchError(req.URL, err)
	}
	return t.next.Fetch(ctx, req)
}
