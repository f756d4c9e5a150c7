package table

import "github.com/PuerkitoBio/goquery"

// RowFunc extracts a value from a whole row. It is used for values that are
// located by class or link rather than by column position.
type RowFunc func(row *goquery.Selection) any

// Column describes how one field is read from every row. Sources are tried
// in this order: header labels, then the fallback row function, then the
// missing default. Index and Func columns have a single source.
type Column struct {
	Name string

	labels    []string
	index     int
	hasIndex  bool
	fn        RowFunc
	fallback  RowFunc
	href      bool
	sep       string
	transform Transform

	missing    any
	hasMissing bool
}

// Header reads the cell under the first header whose text contains one of
// labels, ignoring case. Without labels the field name is used.
func Header(name string, labels ...string) Column {
	if len(labels) == 0 {
		labels = []string{name}
	}
	return Column{Name: name, labels: labels}
}

// Index reads the i-th cell of each row. Negative values count from the end
// of the row.
func Index(name string, i int) Column {
	return Column{Name: name, index: i, hasIndex: true}
}

// Func reads a value with fn.
func Func(name string, fn RowFunc) Column {
	return Column{Name: name, fn: fn}
}

// With sets the transform applied to the raw cell text. The default is Text.
func (c Column) With(t Transform) Column {
	c.transform = t
	return c
}

// Href reads the href of the first link in the cell instead of its text.
func (c Column) Href() Column {
	c.href = true
	return c
}

// Separator joins the text nodes of a cell with sep before transforming.
func (c Column) Separator(sep string) Column {
	c.sep = sep
	return c
}

// Fallback is used when no header label resolves.
func (c Column) Fallback(fn RowFunc) Column {
	c.fallback = fn
	return c
}

// Missing makes every row hold v when no source resolves, instead of
// failing the build.
func (c Column) Missing(v any) Column {
	c.missing = v
	c.hasMissing = true
	return c
}

// As returns the column under another field name.
func (c Column) As(name string) Column {
	c.Name = name
	return c
}
