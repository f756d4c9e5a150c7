package table

import (
	"errors"
	"fmt"
	"slices"

	"github.com/use-agent/pcstats/models"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ErrLength is returned when a column does not have one value per row.
var ErrLength = errors.New("table: value count does not match row count")

// Row is one record of a table. Keys keep insertion order, which is also the
// order they are marshalled in.
type Row struct {
	m *orderedmap.OrderedMap[string, any]
}

// NewRow returns an empty row.
func NewRow() *Row {
	return &Row{m: orderedmap.New[string, any]()}
}

// Set stores v under key. A new key is appended; an existing key keeps its
// position.
func (r *Row) Set(key string, v any) {
	r.m.Set(key, v)
}

// Get returns the value under key, or nil when absent.
func (r *Row) Get(key string) any {
	v, _ := r.m.Get(key)
	return v
}

// Lookup returns the value under key and whether it is present.
func (r *Row) Lookup(key string) (any, bool) {
	return r.m.Get(key)
}

// Delete removes key.
func (r *Row) Delete(key string) {
	r.m.Delete(key)
}

// Len returns the number of keys.
func (r *Row) Len() int { return r.m.Len() }

// Keys returns the keys in order.
func (r *Row) Keys() []string {
	keys := make([]string, 0, r.m.Len())
	for p := r.m.Oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key)
	}
	return keys
}

// Map copies the row into a plain map.
func (r *Row) Map() map[string]any {
	out := make(map[string]any, r.m.Len())
	for p := r.m.Oldest(); p != nil; p = p.Next() {
		out[p.Key] = p.Value
	}
	return out
}

// MarshalJSON encodes the row as an object with keys in row order.
func (r *Row) MarshalJSON() ([]byte, error) {
	return r.m.MarshalJSON()
}

// Table is an ordered list of rows. Every row of a table built by this
// package carries the same keys in the same order.
type Table []*Row

// Extend adds field to every row, taking the i-th value for the i-th row.
// Extending an empty table creates one row per value.
func Extend(t Table, field string, values []any) (Table, error) {
	if len(t) == 0 {
		out := make(Table, 0, len(values))
		for _, v := range values {
			r := NewRow()
			r.Set(field, v)
			out = append(out, r)
		}
		return out, nil
	}
	if len(values) != len(t) {
		return nil, fmt.Errorf("extend %q with %d values for %d rows: %w", field, len(values), len(t), ErrLength)
	}
	for i, r := range t {
		r.Set(field, values[i])
	}
	return t, nil
}

// KeepIf drops rows whose value under field is falsy (nil, "", zero or
// false). Surviving rows keep their relative order. Unless keepField is set,
// field is removed from them afterwards.
func (t Table) KeepIf(field string, keepField bool) Table {
	out := make(Table, 0, len(t))
	for _, r := range t {
		if truthy(r.Get(field)) {
			out = append(out, r)
		}
	}
	if !keepField {
		out.Drop(field)
	}
	return out
}

// Drop removes field from every row.
func (t Table) Drop(field string) {
	for _, r := range t {
		r.Delete(field)
	}
}

// Rename moves the values of old to name, keeping the column position.
func (t Table) Rename(old, name string) {
	for i, r := range t {
		if _, ok := r.Lookup(old); !ok {
			continue
		}
		nr := NewRow()
		for p := r.m.Oldest(); p != nil; p = p.Next() {
			if p.Key == old {
				nr.Set(name, p.Value)
			} else {
				nr.Set(p.Key, p.Value)
			}
		}
		t[i] = nr
	}
}

// Project rebuilds every row with exactly fields, in that order. Missing
// fields are set to nil.
func (t Table) Project(fields ...string) {
	for i, r := range t {
		nr := NewRow()
		for _, f := range fields {
			nr.Set(f, r.Get(f))
		}
		t[i] = nr
	}
}

// Column returns the values of field in row order.
func (t Table) Column(field string) []any {
	out := make([]any, len(t))
	for i, r := range t {
		out[i] = r.Get(field)
	}
	return out
}

// SortBy orders rows by key using cmp, keeping the relative order of equal
// rows.
func (t Table) SortBy(key string, cmp func(a, b any) int) {
	slices.SortStableFunc(t, func(a, b *Row) int {
		return cmp(a.Get(key), b.Get(key))
	})
}

// LeftJoin merges into every row of t the row of other with the same key
// value; nil keys never match. Fields from other come first and t's own values win on conflicts.
// Rows of t without a partner get other's fields as nil so the key set stays
// uniform. A non-comparable key value is a mismatch.
func LeftJoin(t, other Table, key string) (Table, error) {
	index := make(map[any]*Row, len(other))
	var otherKeys []string
	for _, r := range other {
		k := r.Get(key)
		if !joinable(k) {
			return nil, models.Mismatch("join on %q: value %v is not comparable", key, k)
		}
		if otherKeys == nil {
			otherKeys = r.Keys()
		}
		if _, dup := index[k]; !dup && k != nil {
			index[k] = r
		}
	}
	out := make(Table, 0, len(t))
	for _, r := range t {
		k := r.Get(key)
		if !joinable(k) {
			return nil, models.Mismatch("join on %q: value %v is not comparable", key, k)
		}
		partner := index[k]
		nr := NewRow()
		for _, f := range otherKeys {
			if partner != nil {
				nr.Set(f, partner.Get(f))
			} else {
				nr.Set(f, nil)
			}
		}
		for p := r.m.Oldest(); p != nil; p = p.Next() {
			nr.Set(p.Key, p.Value)
		}
		out = append(out, nr)
	}
	return out, nil
}

func joinable(v any) bool {
	switch v.(type) {
	case nil, string, int, int64, float64, bool:
		return true
	}
	return false
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case int:
		return x != 0
	case float64:
		return x != 0
	case bool:
		return x
	}
	return true
}
