package engine

import "github.com/use-agent/pcstats/config"

// FromConfig builds the network engine the binaries use: an HTTPEngine
// behind a Throttle. Replay sources, if any, go in front of it through a
// Dispatcher.
func FromConfig(cfg config.FetchConfig) Engine {
	return NewThrottle(NewHTTPEngine(HTTPOptions{
		BaseURL:   cfg.BaseURL,
		UserAgent: cfg.UserAgent,
		MaxBody:   cfg.MaxBody,
		Timeout:   cfg.Timeout,
	}), cfg.RequestsPerSecond, cfg.Burst)
}
