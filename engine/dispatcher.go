package engine

import (
	"context"
	"fmt"
	"log/slog"
)

// Dispatcher tries its engines in order and returns the first success. A
// typical chain puts a fixture replay store in front of the live HTTP engine
// so recorded pages never hit the site.
type Dispatcher struct {
	engines []Engine
}

// NewDispatcher creates a Dispatcher over engines, tried in the given order.
func NewDispatcher(engines ...Engine) *Dispatcher {
	return &Dispatcher{engines: engines}
}

func (d *Dispatcher) Name() string { return "dispatcher" }

// Fetch escalates through the engines until one succeeds. If all engines
// fail, it returns the last error.
func (d *Dispatcher) Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error) {
	var lastErr error
	for _, e := range d.engines {
		if err := ctx.Err(); err != nil {
			return nil, fetchError(req.URL, err)
		}
		slog.Debug("engine starting", "engine", e.Name(), "url", req.URL)
		result, err := e.Fetch(ctx, req)
		if err == nil {
			slog.Debug("engine succeeded", "engine", result.EngineName, "url", req.URL)
			return result, nil
		}
		slog.Debug("engine failed", "engine", e.Name(), "url", req.URL, "error", err)
		lastErr = err
	}
	if lastErr == nil {
		lastErr = fetchError(req.URL, fmt.Errorf("dispatcher: no engines configured"))
	}
	return nil, lastErr
}
