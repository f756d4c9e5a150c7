package scraper

import (
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/use-agent/pcstats/document"
	"github.com/use-agent/pcstats/field"
	"github.com/use-agent/pcstats/table"
)

// Team parses a team season page such as team/bora-hansgrohe-2022.
type Team struct {
	Base
}

var teamCatalog = NewCatalog(
	Scalar("name", (*Team).Name),
	Scalar("nationality", (*Team).Nationality),
	Scalar("status", (*Team).Status),
	Scalar("abbreviation", (*Team).Abbreviation),
	Scalar("bike", (*Team).Bike),
	Scalar("license_country", (*Team).LicenseCountry),
	Scalar("wins_count", (*Team).WinsCount),
	Scalar("pcs_points", (*Team).PCSPoints),
	Scalar("pcs_ranking_position", (*Team).PCSRankingPosition),
	Scalar("uci_ranking_position", (*Team).UCIRankingPosition),
	Scalar("history_select", (*Team).HistorySelect),
	Tabular("riders", (*Team).Riders),
)

var teamRiderFields = field.NewSet("nationality", "rider_name", "rider_url", "age",
	"since", "until", "career_points", "ranking_points", "ranking_position")

// NewTeam creates a Team scraper. An empty markup leaves it unbound.
func NewTeam(identifier, markup string) (*Team, error) {
	b, err := newBase(identifier, markup)
	if err != nil {
		return nil, err
	}
	return &Team{Base: b}, nil
}

func (t *Team) Kind() Kind       { return KindTeam }
func (t *Team) Fields() []string { return teamCatalog.Fields() }

func (t *Team) Parse(fields ...string) (*Result, error) {
	return teamCatalog.Parse(t, fields)
}

// Name returns the display name without the class suffix, e.g.
// "BORA - hansgrohe".
func (t *Team) Name() (string, error) {
	doc, err := t.Document()
	if err != nil {
		return "", err
	}
	name := document.Clean(doc.First(".page-title .title h1", ".page-title h1").Text())
	if before, _, found := strings.Cut(name, "("); found {
		name = strings.TrimSpace(before)
	}
	return name, nil
}

// Nationality returns the team's two-letter country code, or "".
func (t *Team) Nationality() (string, error) {
	doc, err := t.Document()
	if err != nil {
		return "", err
	}
	flag := doc.First(".page-title > .title > span.flag", ".page-title .title span.flag", ".page-title span.flag")
	for _, c := range document.Classes(flag) {
		if len(c) == 2 && isAlpha(c) {
			return strings.ToUpper(c), nil
		}
	}
	return "", nil
}

func isAlpha(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

// Status returns the team class, e.g. "WT".
func (t *Team) Status() (string, error) { return t.info("Status") }

// Abbreviation returns the three-letter team code.
func (t *Team) Abbreviation() (string, error) { return t.info("Abbreviation") }

// Bike returns the bike brand.
func (t *Team) Bike() (string, error) { return t.info("Bike") }

// LicenseCountry returns the country the team is licensed in.
func (t *Team) LicenseCountry() (string, error) { return t.info("License") }

// info finds the value next to label in the info list; "" when absent.
func (t *Team) info(label string) (string, error) {
	doc, err := t.Document()
	if err != nil {
		return "", err
	}
	want := strings.ToLower(label)
	var value string
	document.Query(doc.First("ul.infolist"), "li").EachWithBreak(func(_ int, li *goquery.Selection) bool {
		divs := document.Query(li, "div")
		if divs.Length() < 2 {
			return true
		}
		if strings.Contains(strings.ToLower(divs.Eq(0).Text()), want) {
			value = strings.TrimSpace(divs.Eq(1).Text())
			return false
		}
		return true
	})
	return value, nil
}

// WinsCount returns the number of wins in the season.
func (t *Team) WinsCount() (*int, error) { return t.stat("Victories") }

// PCSPoints returns the PCS points scored in the season.
func (t *Team) PCSPoints() (*int, error) { return t.stat("Points") }

// PCSRankingPosition returns the team's PCS ranking position.
func (t *Team) PCSRankingPosition() (*int, error) { return t.stat("PCS#") }

// UCIRankingPosition returns the team's UCI ranking position.
func (t *Team) UCIRankingPosition() (*int, error) { return t.stat("UCI#") }

// stat reads a key figure box. "-" means zero; a missing box is nil.
func (t *Team) stat(title string) (*int, error) {
	doc, err := t.Document()
	if err != nil {
		return nil, err
	}
	var out *int
	doc.Find("ul.teamkpi > li").EachWithBreak(func(_ int, li *goquery.Selection) bool {
		if strings.TrimSpace(document.Query(li, "div.title").Text()) != title {
			return true
		}
		a := document.Query(li, "div.value > a")
		if a.Length() == 0 {
			return true
		}
		value := strings.TrimSpace(a.First().Text())
		if n, ok := table.Int(value).(int); ok {
			out = &n
		} else if value == "-" {
			zero := 0
			out = &zero
		}
		return false
	})
	return out, nil
}

// HistorySelect lists the team's seasons from the season menu.
func (t *Team) HistorySelect() (table.Table, error) {
	doc, err := t.Document()
	if err != nil {
		return nil, err
	}
	var menu *goquery.Selection
	doc.Find("div.selectNav select").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		document.Query(sel, "option").EachWithBreak(func(_ int, o *goquery.Selection) bool {
			v := document.Attr(o, "value")
			if strings.Contains(v, "team/") && strings.Contains(v, "/overview") {
				menu = sel
				return false
			}
			return true
		})
		return menu == nil
	})
	if menu == nil {
		menu = doc.First("form > select")
	}
	return table.FromSelect(menu), nil
}

// Riders lists the season's roster. The page spreads rider data over
// several tabs; they are joined on rider_url.
func (t *Team) Riders(fields ...string) (table.Table, error) {
	selected, err := field.Select(fields, teamRiderFields)
	if err != nil {
		return nil, err
	}
	doc, err := t.Document()
	if err != nil {
		return nil, err
	}
	points := doc.First("div.points.riderlistcont table")
	if points.Length() == 0 {
		return table.Table{}, nil
	}

	var base []string
	for _, f := range selected {
		switch f {
		case "nationality", "rider_name", "rider_url", "career_points":
			base = append(base, f)
		}
	}
	riders, err := extract(points, withField(base, "rider_url"), []table.Column{
		table.Index("career_points", 2).With(table.IntOr(0)),
	})
	if err != nil {
		return nil, err
	}

	join := func(root *goquery.Selection, names []string, custom ...table.Column) error {
		if root.Length() == 0 {
			return nil
		}
		other, err := extract(root, append([]string{"rider_url"}, names...), custom)
		if err != nil {
			return err
		}
		riders, err = table.LeftJoin(riders, other, "rider_url")
		return err
	}

	if slices.Contains(selected, "age") {
		if err := join(doc.First("div.age.riderlistcont table"), []string{"age"},
			table.Index("age", 2).With(ageYears)); err != nil {
			return nil, err
		}
	}
	if ranking := pick(selected, "ranking_points", "ranking_position"); len(ranking) > 0 {
		if err := join(doc.First("div.ranking.riderlistcont table"), ranking,
			table.Index("ranking_points", 2).With(parenthesised(table.IntOr(0))),
			table.Index("ranking_position", 3).With(table.Int)); err != nil {
			return nil, err
		}
	}
	if tenure := pick(selected, "since", "until"); len(tenure) > 0 {
		if err := join(doc.First("div.name.riderlistcont ul"), tenure,
			table.Index("since", 2).With(table.DayMonthIf("as from", "01-01")),
			table.Index("until", 2).With(table.DayMonthIf("until", "12-31"))); err != nil {
			return nil, err
		}
	}
	riders.Project(selected...)
	return riders, nil
}

// ageYears reads the age from cells such as "26 (1998)".
func ageYears(s string) any {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return nil
	}
	return table.Int(s[:2])
}

func parenthesised(next table.Transform) table.Transform {
	return func(s string) any {
		return next(strings.NewReplacer("(", "", ")", "").Replace(s))
	}
}

// pick returns the names among candidates that appear in fields.
func pick(fields []string, candidates ...string) []string {
	var out []string
	for _, c := range candidates {
		if slices.Contains(fields, c) {
			out = append(out, c)
		}
	}
	return out
}
