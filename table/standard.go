package table

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/use-agent/pcstats/document"
	"github.com/use-agent/pcstats/timeutil"
)

// standard holds the columns every listing page shares, keyed by field name.
var standard = map[string]Column{
	"rider_url":  Func("rider_url", Link(true, nil, "rider")),
	"rider_name": Func("rider_name", Link(false, nil, "rider")),
	"team_url": Header("team_url", "Team").Href().
		Fallback(Link(true, notView, "team")),
	"team_name": Header("team_name", "Team").
		Fallback(Link(false, notView, "team")),
	"stage_url":  Func("stage_url", Link(true, nil, "race", "national-race")),
	"stage_name": Func("stage_name", Link(false, nil, "race", "national-race")),
	"nation_url": Func("nation_url", Link(true, func(href, _ string) bool {
		return !strings.Contains(href, "pcs")
	}, "nation")),
	"nation_name": Func("nation_name", Link(false, func(_, text string) bool {
		return text != "-" && !isDigits(text)
	}, "nation")),
	"climb_url":    Func("climb_url", Link(true, nil, "location")),
	"climb_name":   Func("climb_name", Link(false, nil, "location")),
	"age":          Func("age", ByClass(".age", Int)),
	"nationality":  Func("nationality", Flag),
	"time":         Func("time", timeCell),
	"bonus":        Func("bonus", bonusCell),
	"profile_icon": Func("profile_icon", ClassPart(".icon.profile", 2)),
	"season":       Func("season", seasonCell),
	"rider_number": Func("rider_number", ByClass(".bibs", Int)),

	"rank":          Header("rank", "Rnk", "pos", "Result", "#").With(Int),
	"status":        Header("status", "Rnk").With(Status),
	"prev_rank":     Header("prev_rank", "Prev").With(Int).Missing(nil),
	"pcs_points":    Header("pcs_points", "Pnt", "PCS points").With(IntOr(0)).Missing(0),
	"uci_points":    Header("uci_points", "UCI").With(FloatOr(0)).Missing(float64(0)),
	"points":        Header("points", "Points", "Pnt", "PCS points").With(IntOr(0)).Missing(0),
	"class":         Header("class", "Class"),
	"first_places":  Header("first_places", "Wins").With(IntOr(0)),
	"second_places": Header("second_places", "2nd").With(IntOr(0)),
	"third_places":  Header("third_places", "3rd").With(IntOr(0)),
	"distance":      Header("distance", "KMs").With(Float),
	"date":          Header("date", "Date"),
}

// StandardColumn returns the shared column definition for name.
func StandardColumn(name string) (Column, bool) {
	c, ok := standard[name]
	return c, ok
}

// StandardColumns looks up every name. An unknown name is a programming
// error in the caller's catalog and is reported as such.
func StandardColumns(names ...string) ([]Column, error) {
	cols := make([]Column, 0, len(names))
	for _, n := range names {
		c, ok := standard[n]
		if !ok {
			return nil, fmt.Errorf("table: no standard column %q", n)
		}
		cols = append(cols, c)
	}
	return cols, nil
}

// Link returns the href (or text) of the first link in the row whose href
// has one of segments as a path part and that accept approves. accept may be
// nil.
func Link(href bool, accept func(href, text string) bool, segments ...string) RowFunc {
	return func(row *goquery.Selection) any {
		var out any
		document.Query(row, "a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
			h := document.Attr(a, "href")
			for _, seg := range segments {
				if !document.HasSegment(h, seg) {
					continue
				}
				text := strings.TrimSpace(a.Text())
				if accept != nil && !accept(h, text) {
					return true
				}
				if href {
					out = h
				} else {
					out = Text(text)
				}
				return false
			}
			return true
		})
		return out
	}
}

func notView(_, text string) bool { return text != "view" }

// ByClass applies t to the text of the first element matching selector in
// the row, or returns nil when there is none.
func ByClass(selector string, t Transform) RowFunc {
	return func(row *goquery.Selection) any {
		el := document.Query(row, selector)
		if el.Length() == 0 {
			return nil
		}
		return t(el.First().Text())
	}
}

// ClassPart returns the i-th class of the first element matching selector.
func ClassPart(selector string, i int) RowFunc {
	return func(row *goquery.Selection) any {
		classes := document.Classes(document.Query(row, selector).First())
		if i >= len(classes) {
			return nil
		}
		return classes[i]
	}
}

// Flag returns the upper-cased country code from the row's flag icon, whose
// second class is the code ("flag si").
func Flag(row *goquery.Selection) any {
	classes := document.Classes(document.Query(row, ".flag").First())
	if len(classes) < 2 {
		return nil
	}
	return strings.ToUpper(classes[1])
}

func timeCell(row *goquery.Selection) any {
	el := document.Query(row, ".time")
	if el.Length() == 0 {
		return nil
	}
	for _, line := range document.Lines(el.First()) {
		if strings.Contains(line, ",,") || strings.Contains(line, "″") {
			continue
		}
		return Time(line)
	}
	return nil
}

func bonusCell(row *goquery.Selection) any {
	el := document.Query(row, ".bonis")
	if el.Length() == 0 {
		return "0:00:00"
	}
	b := strings.NewReplacer("″", "", " ", "", "\u00a0", "").Replace(strings.TrimSpace(el.First().Text()))
	if b == "" {
		return "0:00:00"
	}
	sign := ""
	if strings.HasPrefix(b, "-") || strings.HasPrefix(b, "+") {
		if b[0] == '-' {
			sign = "-"
		}
		b = b[1:]
	}
	minutes, seconds := "00", b
	if m, s, ok := strings.Cut(b, ":"); ok {
		minutes, seconds = m, s
	}
	if !isDigits(minutes) || !isDigits(seconds) {
		return nil
	}
	return sign + "0:" + pad2(minutes) + ":" + pad2(seconds)
}

func seasonCell(row *goquery.Selection) any {
	el := document.Query(row, ".season")
	if el.Length() == 0 {
		el = document.Query(row, "td.fs11 > a")
	}
	if el.Length() == 0 {
		return nil
	}
	return Int(el.First().Text())
}

// AbsoluteTimes rewrites field so that it holds absolute times. The first
// row keeps its time; later rows hold a gap to it. Rows without a value
// repeat the previous row's time, matching the ",," notation for riders who
// finished in the same group.
func (t Table) AbsoluteTimes(field string) {
	if len(t) == 0 {
		return
	}
	first, _ := t[0].Get(field).(string)
	if first == "" {
		return
	}
	prev := any(first)
	for _, r := range t[1:] {
		gap, _ := r.Get(field).(string)
		if gap == "" {
			r.Set(field, prev)
			continue
		}
		abs, err := timeutil.AddTimes(first, gap)
		if err != nil {
			r.Set(field, nil)
			continue
		}
		r.Set(field, abs)
		prev = abs
	}
}

// FromSelect lists the options of a select menu as rows with text and value.
func FromSelect(menu *goquery.Selection) Table {
	t := Table{}
	document.Query(menu, "option").Each(func(_ int, o *goquery.Selection) {
		r := NewRow()
		r.Set("text", strings.TrimSpace(o.Text()))
		r.Set("value", document.Attr(o, "value"))
		t = append(t, r)
	})
	return t
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
