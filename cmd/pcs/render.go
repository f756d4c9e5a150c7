package main

import (
	"encoding/json"
	"fmt"
	"io"

	pretty "github.com/jedib0t/go-pretty/v6/table"
	"github.com/use-agent/pcstats/scraper"
	"github.com/use-agent/pcstats/table"
)

const (
	// shortenAbove is the row count above which tables are shortened.
	shortenAbove = 13
	// keepRows rows are kept at each end of a shortened table.
	keepRows = 5
)

// printResult writes scalars as "key: value" lines and tables as bordered
// grids, in result order.
func printResult(w io.Writer, res *scraper.Result, full bool) {
	for _, key := range res.Keys() {
		v := res.Get(key)
		t, ok := v.(table.Table)
		if !ok {
			fmt.Fprintf(w, "%s: %s\n", key, formatValue(v))
			continue
		}
		fmt.Fprintf(w, "%s: %d rows\n", key, len(t))
		if len(t) > 0 {
			renderTable(w, t, full)
		}
		fmt.Fprintln(w)
	}
}

func renderTable(w io.Writer, t table.Table, full bool) {
	pt := pretty.NewWriter()
	pt.SetOutputMirror(w)

	keys := t[0].Keys()
	header := make(pretty.Row, len(keys))
	for i, k := range keys {
		header[i] = k
	}
	pt.AppendHeader(header)

	head, tail := shorten(t, full)
	for _, r := range head {
		pt.AppendRow(cells(r, keys))
	}
	if tail != nil {
		gap := make(pretty.Row, len(keys))
		for i := range gap {
			gap[i] = "..."
		}
		pt.AppendRow(gap)
		for _, r := range tail {
			pt.AppendRow(cells(r, keys))
		}
	}
	pt.SetStyle(pretty.StyleRounded)
	pt.Render()
}

// shorten splits t into the rows to print before and after an ellipsis row.
// tail is nil when the table is printed whole.
func shorten(t table.Table, full bool) (head, tail table.Table) {
	if full || len(t) <= shortenAbove {
		return t, nil
	}
	return t[:keepRows], t[len(t)-keepRows:]
}

func cells(r *table.Row, keys []string) pretty.Row {
	out := make(pretty.Row, len(keys))
	for i, k := range keys {
		out[i] = formatValue(r.Get(k))
	}
	return out
}

// formatValue prints strings bare and everything else as JSON, so that
// absent values read as null.
func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case *string:
		if x != nil {
			return *x
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
