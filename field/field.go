// Package field validates caller-requested field names against the closed,
// ordered set an entity or table supports.
package field

import (
	"fmt"

	"github.com/use-agent/pcstats/models"
)

// Set is an ordered, duplicate-free list of field names.
type Set struct {
	names []string
	index map[string]int
}

// NewSet builds a Set in the given order. A duplicate name is a programming
// error and panics.
func NewSet(names ...string) Set {
	s := Set{names: make([]string, 0, len(names)), index: make(map[string]int, len(names))}
	for _, n := range names {
		if _, dup := s.index[n]; dup {
			panic(fmt.Sprintf("field: duplicate name %q", n))
		}
		s.index[n] = len(s.names)
		s.names = append(s.names, n)
	}
	return s
}

// Names returns a copy of the names in declared order.
func (s Set) Names() []string {
	return append([]string(nil), s.names...)
}

// Has reports whether name belongs to the set.
func (s Set) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Len returns the number of names.
func (s Set) Len() int { return len(s.names) }

// Select resolves a request against available. An empty request selects
// every field. Unknown names fail with *models.InvalidFieldError. The result
// follows the order of available, not of the request, and repeated names
// appear once.
func Select(requested []string, available Set) ([]string, error) {
	if len(requested) == 0 {
		return available.Names(), nil
	}
	want := make(map[string]bool, len(requested))
	for _, name := range requested {
		if !available.Has(name) {
			return nil, &models.InvalidFieldError{Field: name, Valid: available.Names()}
		}
		want[name] = true
	}
	out := make([]string, 0, len(want))
	for _, name := range available.names {
		if want[name] {
			out = append(out, name)
		}
	}
	return out, nil
}
