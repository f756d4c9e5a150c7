package scraper

import (
	"fmt"
	"slices"

	"github.com/PuerkitoBio/goquery"
	"github.com/use-agent/pcstats/table"
)

// columnSet resolves names against custom columns first, then the standard
// catalogue.
func columnSet(names []string, custom ...table.Column) ([]table.Column, error) {
	byName := make(map[string]table.Column, len(custom))
	for _, c := range custom {
		byName[c.Name] = c
	}
	cols := make([]table.Column, 0, len(names))
	for _, n := range names {
		if c, ok := byName[n]; ok {
			cols = append(cols, c)
			continue
		}
		c, ok := table.StandardColumn(n)
		if !ok {
			return nil, fmt.Errorf("scraper: no column for field %q", n)
		}
		cols = append(cols, c)
	}
	return cols, nil
}

// extract builds the named columns over the rows below root. A standard
// time column is made absolute.
func extract(root *goquery.Selection, names []string, custom []table.Column, opts ...table.Option) (table.Table, error) {
	p, err := table.NewParser(root, opts...)
	if err != nil {
		return nil, err
	}
	cols, err := columnSet(names, custom...)
	if err != nil {
		return nil, err
	}
	t, err := p.Build(cols...)
	if err != nil {
		return nil, err
	}
	if slices.Contains(names, "time") && !hasColumn(custom, "time") {
		t.AbsoluteTimes("time")
	}
	return t, nil
}

func hasColumn(cols []table.Column, name string) bool {
	for _, c := range cols {
		if c.Name == name {
			return true
		}
	}
	return false
}

// withField returns names plus extra when it is missing. Join keys and
// validity flags are added this way and projected out afterwards.
func withField(names []string, extra string) []string {
	if slices.Contains(names, extra) {
		return names
	}
	return append(append([]string(nil), names...), extra)
}
