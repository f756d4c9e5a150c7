package scraper

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/use-agent/pcstats/document"
	"github.com/use-agent/pcstats/field"
	"github.com/use-agent/pcstats/models"
	"github.com/use-agent/pcstats/table"
	"github.com/use-agent/pcstats/timeutil"
)

// Rider parses a rider profile page such as rider/tadej-pogacar.
type Rider struct {
	Base
}

var riderCatalog = NewCatalog(
	Scalar("name", (*Rider).Name),
	Scalar("birthdate", (*Rider).Birthdate),
	Scalar("place_of_birth", (*Rider).PlaceOfBirth),
	Scalar("nationality", (*Rider).Nationality),
	Scalar("weight", (*Rider).Weight),
	Scalar("height", (*Rider).Height),
	Scalar("image_url", (*Rider).ImageURL),
	Tabular("teams_history", (*Rider).TeamsHistory),
	Tabular("points_per_season_history", (*Rider).PointsPerSeasonHistory),
	Scalar("points_per_speciality", (*Rider).PointsPerSpeciality),
	Tabular("season_results", (*Rider).SeasonResults),
)

var (
	teamsHistoryFields = field.NewSet("season", "since", "until", "team_name", "team_url", "class")
	seasonPointsFields = field.NewSet("season", "points", "rank")
	seasonResultFields = field.NewSet("result", "gc_position", "stage_url", "stage_name",
		"distance", "date", "pcs_points", "uci_points")

	specialities = []string{"one_day_races", "gc", "time_trial", "sprint", "climber", "hills"}

	teamClassCode = regexp.MustCompile(`\(([^0-9][A-Z]+)\)`)
)

// NewRider creates a Rider scraper. An empty markup leaves it unbound.
func NewRider(identifier, markup string) (*Rider, error) {
	b, err := newBase(identifier, markup)
	if err != nil {
		return nil, err
	}
	return &Rider{Base: b}, nil
}

func (r *Rider) Kind() Kind       { return KindRider }
func (r *Rider) Fields() []string { return riderCatalog.Fields() }

func (r *Rider) Parse(fields ...string) (*Result, error) {
	return riderCatalog.Parse(r, fields)
}

// content is the box holding birth, nationality and body details.
func (r *Rider) content() (*goquery.Selection, error) {
	doc, err := r.Document()
	if err != nil {
		return nil, err
	}
	return doc.Nth("div.page-content > div > .borderbox > .borderbox", 2)
}

// Name returns the rider's display name with whitespace collapsed.
func (r *Rider) Name() (string, error) {
	doc, err := r.Document()
	if err != nil {
		return "", err
	}
	h1, err := doc.Require(".titleCont > .page-title > .title > h1", ".page-title h1")
	if err != nil {
		return "", err
	}
	return document.Clean(h1.Text()), nil
}

// Birthdate returns the date of birth as YYYY-MM-DD.
func (r *Rider) Birthdate() (string, error) {
	c, err := r.content()
	if err != nil {
		return "", err
	}
	parts := document.Query(document.Query(c, "div > ul > li").First(), ".mr3")
	if parts.Length() < 3 {
		return "", models.Mismatch("%s: birthdate not in page", r.Identifier())
	}
	d, err := timeutil.Birthdate(parts.Eq(0).Text(), parts.Eq(1).Text(), parts.Eq(2).Text())
	if err != nil {
		return "", models.Mismatch("%s: %v", r.Identifier(), err)
	}
	return d, nil
}

// PlaceOfBirth returns the town the rider was born in, or nil when the page
// does not publish it.
func (r *Rider) PlaceOfBirth() (*string, error) {
	c, err := r.content()
	if err != nil {
		return nil, err
	}
	links := document.Query(c, "div > a")
	if links.Length() <= 1 {
		return nil, nil
	}
	place := document.Clean(links.Eq(1).Text())
	return &place, nil
}

// Nationality returns the two-letter country code, upper-cased.
func (r *Rider) Nationality() (string, error) {
	c, err := r.content()
	if err != nil {
		return "", err
	}
	flag := document.Query(c, ".flag").First()
	if flag.Length() == 0 {
		flag = document.Query(c, "span > span").First()
	}
	classes := document.Classes(flag)
	if len(classes) == 0 {
		return "", models.Mismatch("%s: nationality flag not in page", r.Identifier())
	}
	return strings.ToUpper(classes[len(classes)-1]), nil
}

// Weight returns the weight in kilograms, or nil when unknown.
func (r *Rider) Weight() (*float64, error) {
	_, weight, err := r.body()
	return weight, err
}

// Height returns the height in metres, or nil when unknown.
func (r *Rider) Height() (*float64, error) {
	height, _, err := r.body()
	return height, err
}

// body reads the weight/height list. The list moves down one place on pages
// of riders who passed away.
func (r *Rider) body() (height, weight *float64, err error) {
	c, err := r.content()
	if err != nil {
		return nil, nil, err
	}
	i := 2
	if strings.Contains(c.Text(), "Passed") {
		i++
	}
	lists := document.Query(c, "div > ul.list")
	if i >= lists.Length() {
		return nil, nil, nil
	}
	list := lists.Eq(i)
	w := parseFloat(document.Query(list, "li .mr3").Eq(0).Text())
	h := parseFloat(document.Query(list, "li > .mr3").Eq(1).Text())
	height, weight = plausibleBody(h, w)
	return height, weight, nil
}

// plausibleBody sorts the two published numbers into height and weight:
// values under ten are heights in metres. Results outside human ranges are
// dropped.
func plausibleBody(h, w *float64) (height, weight *float64) {
	switch {
	case w != nil && *w >= 10:
		weight = w
	case h != nil && *h >= 10:
		weight = h
	}
	switch {
	case h != nil && *h < 10:
		height = h
	case w != nil && *w < 10:
		height = w
	}
	if weight != nil && (*weight < 30 || *weight > 120) {
		weight = nil
	}
	if height != nil && (*height < 1.5 || *height > 2.2) {
		height = nil
	}
	return height, weight
}

func parseFloat(s string) *float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &f
}

// ImageURL returns the relative URL of the rider's picture, or nil.
func (r *Rider) ImageURL() (*string, error) {
	doc, err := r.Document()
	if err != nil {
		return nil, err
	}
	img := doc.First("div > a > img")
	src, ok := img.Attr("src")
	if !ok {
		return nil, nil
	}
	return &src, nil
}

// TeamsHistory lists the rider's teams per season. Entries that are not a
// team membership, such as suspensions, carry no parsable class code and are
// left out.
func (r *Rider) TeamsHistory(fields ...string) (table.Table, error) {
	selected, err := field.Select(fields, teamsHistoryFields)
	if err != nil {
		return nil, err
	}
	doc, err := r.Document()
	if err != nil {
		return nil, err
	}
	root, err := doc.Require("ul.rdr-teams2")
	if err != nil {
		return nil, err
	}
	t, err := extract(root, withField(selected, "class"), []table.Column{
		table.Index("class", 1).With(table.Regex(teamClassCode)),
		table.Index("since", -2).With(table.DayMonthIf("as from", "01-01")),
		table.Index("until", -2).With(table.DayMonthIf("until", "12-31")),
	},
		table.Rows("li.main"),
		table.SkipRow(func(cells *goquery.Selection) bool {
			return !document.Is(cells, "div.season")
		}),
	)
	if err != nil {
		return nil, err
	}
	t = t.KeepIf("class", true)
	t.Project(selected...)
	return t, nil
}

// PointsPerSeasonHistory lists PCS points and ranking position per season.
func (r *Rider) PointsPerSeasonHistory(fields ...string) (table.Table, error) {
	selected, err := field.Select(fields, seasonPointsFields)
	if err != nil {
		return nil, err
	}
	doc, err := r.Document()
	if err != nil {
		return nil, err
	}
	root, err := doc.Require("div.mt20 > table")
	if err != nil {
		return nil, err
	}
	return extract(root, selected, nil)
}

// PointsPerSpeciality maps each speciality to the rider's points in it.
func (r *Rider) PointsPerSpeciality() (*table.Row, error) {
	doc, err := r.Document()
	if err != nil {
		return nil, err
	}
	values := doc.Find(".pps .xvalue")
	if values.Length() == 0 {
		return nil, models.Mismatch("%s: speciality points not in page", r.Identifier())
	}
	out := table.NewRow()
	values.EachWithBreak(func(i int, v *goquery.Selection) bool {
		if i >= len(specialities) {
			return false
		}
		out.Set(specialities[i], table.IntOr(0)(v.Text()))
		return true
	})
	return out, nil
}

// SeasonResults lists the results of the season shown on the page. Dates
// take their year from the season navigation; without it every date is nil.
func (r *Rider) SeasonResults(fields ...string) (table.Table, error) {
	selected, err := field.Select(fields, seasonResultFields)
	if err != nil {
		return nil, err
	}
	doc, err := r.Document()
	if err != nil {
		return nil, err
	}
	root, err := doc.Require("table.rdrResults")
	if err != nil {
		return nil, err
	}
	year := document.Clean(doc.First(".rdrSeasonNav > li.cur > a").Text())

	return extract(root, selected, []table.Column{
		table.Header("date", "Date").With(table.ComposeDate(year)).Missing(nil),
		table.Header("result", "Result").With(table.Int),
		table.Index("gc_position", 2).With(table.Int),
		table.Header("distance", "Distance").With(table.LastToken(table.Float)).Missing(nil),
		table.Header("pcs_points", "PCS").With(table.LastToken(table.FloatOr(0))).Missing(float64(0)),
		table.Header("uci_points", "UCI").With(table.LastToken(table.FloatOr(0))).Missing(float64(0)),
	},
		table.SkipRow(func(cells *goquery.Selection) bool {
			return strings.TrimSpace(cells.Eq(1).Text()) == ""
		}),
	)
}
