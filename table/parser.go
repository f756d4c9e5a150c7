// Package table extracts ordered records from HTML tables and row-like
// lists. A Parser locates the data rows once, then builds any number of
// columns over them without touching the underlying tree.
package table

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/use-agent/pcstats/document"
	"github.com/use-agent/pcstats/models"
)

// DefaultSentinels are texts of spanning rows that carry no data.
var DefaultSentinels = []string{"no data", "relegated"}

// Option configures which rows a Parser keeps.
type Option func(*options)

type options struct {
	rows      string
	minCells  int
	skip      []func(cells *goquery.Selection) bool
	sentinels []string
}

// Rows keeps only rows matching selector.
func Rows(selector string) Option {
	return func(o *options) { o.rows = selector }
}

// MinCells drops rows with fewer than n cells. The default is 1.
func MinCells(n int) Option {
	return func(o *options) { o.minCells = n }
}

// SkipRow drops rows for which pred returns true. pred receives the row's
// cells.
func SkipRow(pred func(cells *goquery.Selection) bool) Option {
	return func(o *options) { o.skip = append(o.skip, pred) }
}

// Sentinels replaces DefaultSentinels.
func Sentinels(texts ...string) Option {
	return func(o *options) { o.sentinels = texts }
}

// Parser reads columns from a table (tbody rows of td cells) or a list (li
// rows of div cells). It is not safe for concurrent use.
type Parser struct {
	cellTag string
	header  []string
	rows    []*goquery.Selection

	resolved map[string]int
}

// NewParser locates the header and data rows below root. root may be a
// table, tbody, ul or ol element.
func NewParser(root *goquery.Selection, opts ...Option) (*Parser, error) {
	if root == nil || root.Length() == 0 {
		return nil, models.Mismatch("table: no root element")
	}
	o := options{minCells: 1, sentinels: DefaultSentinels}
	for _, opt := range opts {
		opt(&o)
	}

	root = root.First()
	body := root
	var thead *goquery.Selection
	switch goquery.NodeName(root) {
	case "table":
		if tb := root.ChildrenFiltered("tbody"); tb.Length() > 0 {
			body = tb.First()
		}
		thead = root.ChildrenFiltered("thead")
	case "tbody":
		thead = root.Parent().ChildrenFiltered("thead")
	}

	var rowTag string
	p := &Parser{resolved: make(map[string]int)}
	switch goquery.NodeName(body) {
	case "table", "tbody":
		rowTag, p.cellTag = "tr", "td"
	case "ul", "ol":
		rowTag, p.cellTag = "li", "div"
	default:
		return nil, models.Mismatch("table: unsupported root <%s>", goquery.NodeName(body))
	}
	if thead != nil && thead.Length() > 0 {
		document.Query(thead.First(), "th").Each(func(_ int, th *goquery.Selection) {
			p.header = append(p.header, strings.ToLower(strings.TrimSpace(th.Text())))
		})
	}

	body.ChildrenFiltered(rowTag).Each(func(_ int, row *goquery.Selection) {
		if o.rows != "" && !document.Is(row, o.rows) {
			return
		}
		cells := row.ChildrenFiltered(p.cellTag)
		if cells.Length() < o.minCells || isSentinel(cells, o.sentinels) {
			return
		}
		for _, skip := range o.skip {
			if skip(cells) {
				return
			}
		}
		p.rows = append(p.rows, row)
	})
	return p, nil
}

// Len returns the number of data rows.
func (p *Parser) Len() int { return len(p.rows) }

// HasHeader reports whether the table has a header row.
func (p *Parser) HasHeader() bool { return p.header != nil }

// Build returns one row per data row, with one field per column in column
// order.
func (p *Parser) Build(cols ...Column) (Table, error) {
	readers := make([]RowFunc, len(cols))
	for i, c := range cols {
		r, err := p.reader(c)
		if err != nil {
			return nil, err
		}
		readers[i] = r
	}
	t := make(Table, len(p.rows))
	for ri, row := range p.rows {
		r := NewRow()
		for ci, c := range cols {
			r.Set(c.Name, readers[ci](row))
		}
		t[ri] = r
	}
	return t, nil
}

// ExtraColumn returns the values of c for the same rows Build produces, in
// the same order.
func (p *Parser) ExtraColumn(c Column) ([]any, error) {
	read, err := p.reader(c)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(p.rows))
	for i, row := range p.rows {
		out[i] = read(row)
	}
	return out, nil
}

// Parse builds the standard columns named by fields. When "time" is among
// them the time gaps are made absolute.
func (p *Parser) Parse(fields ...string) (Table, error) {
	cols, err := StandardColumns(fields...)
	if err != nil {
		return nil, err
	}
	t, err := p.Build(cols...)
	if err != nil {
		return nil, err
	}
	for _, f := range fields {
		if f == "time" {
			t.AbsoluteTimes("time")
			break
		}
	}
	return t, nil
}

// ColumnIndex resolves a header label to a cell index. The first header
// containing label, ignoring case, wins.
func (p *Parser) ColumnIndex(label string) (int, error) {
	if i, ok := p.resolved[label]; ok {
		return i, nil
	}
	if p.header == nil {
		return 0, models.Mismatch("table: cannot resolve column %q without a header", label)
	}
	want := strings.ToLower(strings.TrimSpace(label))
	for i, h := range p.header {
		if strings.Contains(h, want) {
			p.resolved[label] = i
			return i, nil
		}
	}
	return 0, models.Mismatch("table: column %q not in header", label)
}

func (p *Parser) reader(c Column) (RowFunc, error) {
	transform := c.transform
	if transform == nil {
		transform = Text
	}
	switch {
	case len(c.labels) > 0:
		var lastErr error
		for _, label := range c.labels {
			i, err := p.ColumnIndex(label)
			if err == nil {
				return p.cellReader(i, c, transform), nil
			}
			lastErr = err
		}
		if c.fallback != nil {
			return c.fallback, nil
		}
		if c.hasMissing {
			v := c.missing
			return func(*goquery.Selection) any { return v }, nil
		}
		return nil, fmt.Errorf("column %q: %w", c.Name, lastErr)
	case c.hasIndex:
		return p.cellReader(c.index, c, transform), nil
	case c.fn != nil:
		return c.fn, nil
	}
	return nil, fmt.Errorf("column %q has no source", c.Name)
}

func (p *Parser) cellReader(i int, c Column, transform Transform) RowFunc {
	return func(row *goquery.Selection) any {
		cells := row.ChildrenFiltered(p.cellTag)
		j := i
		if j < 0 {
			j += cells.Length()
		}
		raw := ""
		if j >= 0 && j < cells.Length() {
			cell := cells.Eq(j)
			if c.href {
				raw = document.Attr(document.Query(cell, "a").First(), "href")
			} else {
				raw = document.Text(cell, c.sep)
			}
		}
		return transform(raw)
	}
}

func isSentinel(cells *goquery.Selection, sentinels []string) bool {
	if cells.Length() != 1 {
		return false
	}
	if _, spans := cells.Attr("colspan"); !spans {
		return false
	}
	text := strings.ToLower(cells.Text())
	for _, s := range sentinels {
		if strings.Contains(text, s) {
			return true
		}
	}
	return false
}
