package engine

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/use-agent/pcstats/document"
)

// Static serves pages from memory, keyed by relative URL. It is safe for
// concurrent use.
type Static struct {
	mu    sync.RWMutex
	pages map[string]string
}

// NewStatic creates a Static engine holding pages.
func NewStatic(pages map[string]string) *Static {
	s := &Static{pages: make(map[string]string, len(pages))}
	for id, markup := range pages {
		s.pages[document.RelativeURL(id)] = markup
	}
	return s
}

// Add stores markup for identifier, replacing any previous page.
func (s *Static) Add(identifier, markup string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages[document.RelativeURL(identifier)] = markup
}

func (s *Static) Name() string { return "static" }

func (s *Static) Fetch(_ context.Context, req *FetchRequest) (*FetchResult, error) {
	id := document.RelativeURL(req.URL)
	s.mu.RLock()
	markup, ok := s.pages[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fetchError(req.URL, fmt.Errorf("static: no page for %q", id))
	}
	return &FetchResult{
		HTML:       markup,
		Title:      extractTitle(markup),
		StatusCode: http.StatusOK,
		FinalURL:   document.AbsoluteURL(id),
		EngineName: s.Name(),
	}, nil
}
