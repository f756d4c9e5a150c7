package scraper

import (
	"slices"

	"github.com/use-agent/pcstats/field"
	"github.com/use-agent/pcstats/table"
)

// RaceCombativeRiders parses the most combative rider of each stage, e.g.
// race/tour-de-france/2024/results/combative-riders.
type RaceCombativeRiders struct {
	Base
}

var combativeCatalog = NewCatalog(
	Tabular("combative_riders", (*RaceCombativeRiders).CombativeRiders),
)

var combativeFields = field.NewSet("stage_name", "stage_url", "rider_name", "rider_url", "nationality")

// NewRaceCombativeRiders creates the scraper. An empty markup leaves it
// unbound.
func NewRaceCombativeRiders(identifier, markup string) (*RaceCombativeRiders, error) {
	b, err := newBase(identifier, markup)
	if err != nil {
		return nil, err
	}
	return &RaceCombativeRiders{Base: b}, nil
}

func (c *RaceCombativeRiders) Kind() Kind       { return KindCombativeRiders }
func (c *RaceCombativeRiders) Fields() []string { return combativeCatalog.Fields() }

func (c *RaceCombativeRiders) Parse(fields ...string) (*Result, error) {
	return combativeCatalog.Parse(c, fields)
}

// CombativeRiders lists one row per stage. Stages without an award keep
// their row with a nil rider and an empty nationality.
func (c *RaceCombativeRiders) CombativeRiders(fields ...string) (table.Table, error) {
	selected, err := field.Select(fields, combativeFields)
	if err != nil {
		return nil, err
	}
	doc, err := c.Document()
	if err != nil {
		return nil, err
	}
	root := doc.First("table.basic")
	if root.Length() == 0 {
		return table.Table{}, nil
	}

	names := selected
	if slices.Contains(selected, "nationality") {
		names = withField(selected, "rider_name")
	}
	out, err := extract(root, names, nil)
	if err != nil {
		return nil, err
	}
	for _, row := range out {
		if _, ok := row.Lookup("nationality"); ok && row.Get("rider_name") == nil {
			row.Set("nationality", "")
		}
	}
	out.Project(selected...)
	return out, nil
}
