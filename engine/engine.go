// Package engine fetches procyclingstats pages. Engines are the only place
// that talks to the network; the scrapers work on markup they are handed.
package engine

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/use-agent/pcstats/models"
)

// Engine is the interface that all fetch engines must implement.
type Engine interface {
	// Name returns the engine identifier (e.g. "http", "static", "fixtures").
	Name() string

	// Fetch retrieves the page content for the given request.
	Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error)
}

// FetchRequest contains everything an engine needs to fetch a page.
type FetchRequest struct {
	// URL is absolute or relative to the engine's base URL.
	URL     string
	Headers map[string]string
	Cookies []http.Cookie
	Timeout time.Duration
}

// FetchResult is the output of a successful engine fetch.
type FetchResult struct {
	HTML       string
	Title      string
	StatusCode int
	FinalURL   string
	EngineName string
}

// fetchError wraps err as a FETCH_FAILED error, or FETCH_TIMEOUT when the
// context ran out.
func fetchError(url string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return models.NewScrapeError(models.ErrCodeTimeout, fmt.Sprintf("fetch %s timed out", url), err)
	}
	return models.NewScrapeError(models.ErrCodeFetch, fmt.Sprintf("fetch %s", url), err)
}
