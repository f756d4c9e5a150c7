package scraper

import (
	"context"
	"log/slog"
	"time"

	"github.com/use-agent/pcstats/engine"
)

// Fetch downloads the page identified by identifier through e and returns
// the matching scraper bound to it. The page kind is checked before any
// request is made.
func Fetch(ctx context.Context, e engine.Engine, identifier string) (Entity, error) {
	if _, err := KindOf(identifier); err != nil {
		return nil, err
	}
	start := time.Now()
	res, err := e.Fetch(ctx, &engine.FetchRequest{URL: identifier})
	if err != nil {
		return nil, err
	}
	slog.Debug("page fetched",
		"identifier", identifier,
		"engine", res.EngineName,
		"status", res.StatusCode,
		"elapsed", time.Since(start),
	)
	return New(identifier, res.HTML)
}
