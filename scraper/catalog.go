package scraper

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/use-agent/pcstats/document"
	"github.com/use-agent/pcstats/field"
	"github.com/use-agent/pcstats/models"
	"github.com/use-agent/pcstats/table"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Target is what a catalog runs its routines against.
type Target interface {
	Identifier() string
	Document() (*document.Document, error)
}

// Routine extracts one field from a target.
type Routine[T Target] func(T) (any, error)

// Entry binds a field name to its routine.
type Entry[T Target] struct {
	name string
	run  Routine[T]
}

// Scalar registers a single-value accessor such as (*Rider).Name.
func Scalar[T Target, V any](name string, fn func(T) (V, error)) Entry[T] {
	return Entry[T]{name: name, run: func(t T) (any, error) {
		v, err := fn(t)
		if err != nil {
			return nil, err
		}
		return v, nil
	}}
}

// Tabular registers a table accessor such as (*Rider).TeamsHistory. Parse
// always requests every column.
func Tabular[T Target](name string, fn func(T, ...string) (table.Table, error)) Entry[T] {
	return Entry[T]{name: name, run: func(t T) (any, error) {
		tbl, err := fn(t)
		if err != nil {
			return nil, err
		}
		return tbl, nil
	}}
}

// Catalog is the ordered registry of an entity's fields.
type Catalog[T Target] struct {
	fields   field.Set
	routines map[string]Routine[T]
}

// NewCatalog builds a catalog in entry order. A duplicate name panics.
func NewCatalog[T Target](entries ...Entry[T]) *Catalog[T] {
	names := make([]string, len(entries))
	routines := make(map[string]Routine[T], len(entries))
	for i, e := range entries {
		names[i] = e.name
		routines[e.name] = e.run
	}
	return &Catalog[T]{fields: field.NewSet(names...), routines: routines}
}

// Fields returns the field names in catalog order.
func (c *Catalog[T]) Fields() []string { return c.fields.Names() }

// Parse validates fields, then runs the selected routines in catalog order.
// A field whose structure is absent from the page resolves to nil; any
// other failure aborts the parse.
func (c *Catalog[T]) Parse(target T, fields []string) (*Result, error) {
	selected, err := field.Select(fields, c.fields)
	if err != nil {
		return nil, err
	}
	if _, err := target.Document(); err != nil {
		return nil, err
	}

	res := newResult()
	for _, name := range selected {
		v, err := c.routines[name](target)
		switch {
		case errors.Is(err, models.ErrStructuralMismatch):
			slog.Debug("field unavailable", "identifier", target.Identifier(), "field", name, "error", err)
			v = nil
		case err != nil:
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		res.m.Set(name, v)
	}
	return res, nil
}

// Result maps field names to parsed values in catalog order.
type Result struct {
	m *orderedmap.OrderedMap[string, any]
}

func newResult() *Result {
	return &Result{m: orderedmap.New[string, any]()}
}

// Get returns the value of name, or nil.
func (r *Result) Get(name string) any {
	v, _ := r.m.Get(name)
	return v
}

// Keys returns the parsed field names in order.
func (r *Result) Keys() []string {
	keys := make([]string, 0, r.m.Len())
	for p := r.m.Oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key)
	}
	return keys
}

// Len returns the number of fields.
func (r *Result) Len() int { return r.m.Len() }

// MarshalJSON encodes the result with keys in catalog order.
func (r *Result) MarshalJSON() ([]byte, error) {
	return r.m.MarshalJSON()
}
