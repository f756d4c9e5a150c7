package scraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/use-agent/pcstats/document"
	"github.com/use-agent/pcstats/field"
	"github.com/use-agent/pcstats/models"
	"github.com/use-agent/pcstats/table"
	"github.com/use-agent/pcstats/timeutil"
)

// Stage parses a stage or one-day race result page such as
// race/tour-de-france/2022/stage-18.
type Stage struct {
	Base
}

var stageCatalog = NewCatalog(
	Scalar("is_one_day_race", (*Stage).IsOneDayRace),
	Scalar("distance", (*Stage).Distance),
	Scalar("profile_icon", (*Stage).ProfileIcon),
	Scalar("stage_type", (*Stage).StageType),
	Scalar("vertical_meters", (*Stage).VerticalMeters),
	Scalar("avg_temperature", (*Stage).AvgTemperature),
	Scalar("date", (*Stage).Date),
	Scalar("departure", (*Stage).Departure),
	Scalar("arrival", (*Stage).Arrival),
	Scalar("won_how", (*Stage).WonHow),
	Scalar("race_startlist_quality_score", (*Stage).RaceStartlistQualityScore),
	Scalar("profile_score", (*Stage).ProfileScore),
	Scalar("pcs_points_scale", (*Stage).PCSPointsScale),
	Scalar("uci_points_scale", (*Stage).UCIPointsScale),
	Scalar("avg_speed_winner", (*Stage).AvgSpeedWinner),
	Scalar("start_time", (*Stage).StartTime),
	Scalar("race_category", (*Stage).RaceCategory),
	Tabular("climbs", (*Stage).Climbs),
	Tabular("results", (*Stage).Results),
	Tabular("gc", (*Stage).GC),
	Tabular("points", (*Stage).Points),
	Tabular("kom", (*Stage).KOM),
	Tabular("youth", (*Stage).Youth),
	Tabular("teams", (*Stage).Teams),
)

var (
	climbFields  = field.NewSet("climb_name", "climb_url")
	resultFields = field.NewSet("rider_name", "rider_url", "rider_number", "team_name", "team_url",
		"rank", "status", "age", "nationality", "time", "bonus", "pcs_points", "uci_points")
	gcFields = field.NewSet("rider_name", "rider_url", "rider_number", "team_name", "team_url",
		"rank", "prev_rank", "age", "nationality", "time", "bonus", "pcs_points", "uci_points")
	classificationFields = field.NewSet("rider_name", "rider_url", "rider_number", "team_name", "team_url",
		"rank", "prev_rank", "points", "age", "nationality", "pcs_points", "uci_points")
	youthFields = field.NewSet("rider_name", "rider_url", "rider_number", "team_name", "team_url",
		"rank", "prev_rank", "time", "age", "nationality", "pcs_points", "uci_points")
	teamsClassificationFields = field.NewSet("team_name", "team_url", "rank", "prev_rank", "time", "nationality")
)

// tabKeywords maps a classification to the text of its result tab.
var tabKeywords = map[string]string{
	"stage":  "STAGE",
	"gc":     "GC",
	"points": "POINTS",
	"kom":    "KOM",
	"youth":  "YOUTH",
	"teams":  "TEAMS",
}

// NewStage creates a Stage scraper. An empty markup leaves it unbound.
func NewStage(identifier, markup string) (*Stage, error) {
	b, err := newBase(identifier, markup)
	if err != nil {
		return nil, err
	}
	return &Stage{Base: b}, nil
}

func (s *Stage) Kind() Kind       { return KindStage }
func (s *Stage) Fields() []string { return stageCatalog.Fields() }

func (s *Stage) Parse(fields ...string) (*Result, error) {
	return stageCatalog.Parse(s, fields)
}

// IsOneDayRace reports whether the race has no stage/GC tabs.
func (s *Stage) IsOneDayRace() (bool, error) {
	doc, err := s.Document()
	if err != nil {
		return false, err
	}
	return doc.Find(".restabs").Length() == 0, nil
}

// info returns the value next to label in the race information list, or ""
// when the label is absent.
func (s *Stage) info(label string) (string, error) {
	doc, err := s.Document()
	if err != nil {
		return "", err
	}
	var value string
	document.Query(doc.HeaderList("Race information"), "li").EachWithBreak(func(_ int, li *goquery.Selection) bool {
		lines := document.Lines(li)
		if len(lines) == 0 || !strings.Contains(lines[0], label) {
			return true
		}
		if len(lines) > 1 {
			value = lines[1]
		}
		return false
	})
	return value, nil
}

// infoNumber reads the first token of a labelled value. The first label
// with a value wins.
func (s *Stage) infoNumber(labels ...string) (string, error) {
	for _, label := range labels {
		v, err := s.info(label)
		if err != nil {
			return "", err
		}
		if fields := strings.Fields(v); len(fields) > 0 {
			return fields[0], nil
		}
	}
	return "", nil
}

func floatPtr(s string) *float64 {
	f, ok := table.Float(s).(float64)
	if !ok {
		return nil
	}
	return &f
}

func intPtr(s string) *int {
	n, ok := table.Int(s).(int)
	if !ok {
		return nil
	}
	return &n
}

// Distance returns the stage length in kilometres.
func (s *Stage) Distance() (*float64, error) {
	v, err := s.info("Distance")
	if err != nil {
		return nil, err
	}
	km, _, _ := strings.Cut(v, " km")
	return floatPtr(km), nil
}

// ProfileIcon returns the profile difficulty icon, p0 (flat) to p5.
func (s *Stage) ProfileIcon() (string, error) {
	doc, err := s.Document()
	if err != nil {
		return "", err
	}
	classes := document.Classes(doc.First("span.icon"))
	if len(classes) < 3 {
		return "", models.Mismatch("%s: profile icon not in page", s.Identifier())
	}
	return classes[2], nil
}

// StageType returns ITT, TTT or RR (road race).
func (s *Stage) StageType() (string, error) {
	doc, err := s.Document()
	if err != nil {
		return "", err
	}
	title, err := doc.Require(".page-title")
	if err != nil {
		return "", err
	}
	text := title.Text()
	switch {
	case strings.Contains(text, "ITT"):
		return "ITT", nil
	case strings.Contains(text, "TTT"):
		return "TTT", nil
	}
	return "RR", nil
}

// VerticalMeters returns the elevation gain, or nil when not published.
func (s *Stage) VerticalMeters() (*int, error) {
	v, err := s.infoNumber("Vert")
	return intPtr(v), err
}

// AvgTemperature returns the average temperature in °C, or nil.
func (s *Stage) AvgTemperature() (*float64, error) {
	v, err := s.infoNumber("Avg. temp", "Average temp")
	return floatPtr(v), err
}

// Date returns the stage date as YYYY-MM-DD, or nil when not published.
func (s *Stage) Date() (*string, error) {
	v, err := s.info("Date")
	if err != nil || v == "" {
		return nil, err
	}
	day, _, _ := strings.Cut(v, ", ")
	d, err := timeutil.ConvertDate(day)
	if err != nil {
		return nil, models.Mismatch("%s: %v", s.Identifier(), err)
	}
	return &d, nil
}

// Departure returns the start town.
func (s *Stage) Departure() (string, error) { return s.info("Departure") }

// Arrival returns the finish town.
func (s *Stage) Arrival() (string, error) { return s.info("Arrival") }

// WonHow describes the finish, e.g. "Sprint of small group".
func (s *Stage) WonHow() (string, error) { return s.info("Won how") }

// RaceStartlistQualityScore returns the startlist quality score.
func (s *Stage) RaceStartlistQualityScore() (*int, error) {
	v, err := s.infoNumber("Startlist quality score")
	return intPtr(v), err
}

// ProfileScore returns the profile score, or nil.
func (s *Stage) ProfileScore() (*int, error) {
	v, err := s.infoNumber("Profile")
	return intPtr(v), err
}

// PCSPointsScale returns the PCS points scale, e.g. "GT.A.Stage".
func (s *Stage) PCSPointsScale() (string, error) { return s.info("Points scale") }

// UCIPointsScale returns the UCI points scale name, or "".
func (s *Stage) UCIPointsScale() (string, error) { return s.infoNumber("UCI scale") }

// AvgSpeedWinner returns the winner's average speed in km/h, or nil.
func (s *Stage) AvgSpeedWinner() (*float64, error) {
	v, err := s.infoNumber("Avg. speed winner")
	return floatPtr(v), err
}

// StartTime returns the start time as published, e.g. "17:00 (17:00 CET)".
func (s *Stage) StartTime() (string, error) { return s.info("Start time") }

// RaceCategory returns the race category, e.g. "ME - Men Elite".
func (s *Stage) RaceCategory() (string, error) { return s.info("Race category") }

// Climbs lists the categorised climbs, empty when the page lists none.
func (s *Stage) Climbs(fields ...string) (table.Table, error) {
	selected, err := field.Select(fields, climbFields)
	if err != nil {
		return nil, err
	}
	doc, err := s.Document()
	if err != nil {
		return nil, err
	}
	list := doc.HeaderList("Climbs")
	if list.Length() == 0 {
		return table.Table{}, nil
	}
	return extract(list, selected, nil)
}

// tabTable finds the result table behind the tab of the given
// classification. The result is empty when the page has no such tab.
func (s *Stage) tabTable(doc *document.Document, name string) *goquery.Selection {
	tabs := doc.Find("ul.tabs.tabnav.resultTabs li")
	if tabs.Length() == 0 {
		tabs = doc.Find("ul.restabs li")
	}
	keyword := tabKeywords[name]
	var found *goquery.Selection
	tabs.EachWithBreak(func(_ int, tab *goquery.Selection) bool {
		a := document.Query(tab, "a").First()
		if a.Length() == 0 || !strings.Contains(strings.ToUpper(a.Text()), keyword) {
			return true
		}
		id := document.Attr(a, "data-id")
		if id == "" {
			return true
		}
		t := document.Query(doc.Find(fmt.Sprintf("div.resTab[data-id=%q]", id)).First(), "table.results").First()
		if t.Length() > 0 {
			found = t
			return false
		}
		return true
	})
	if found != nil {
		return found
	}
	if name == "stage" {
		return doc.First(".result-cont table", "div.resTab table.results")
	}
	return doc.Root().Slice(0, 0)
}

// mainTable is the stage result table; one-day races have no tabs.
func (s *Stage) mainTable(doc *document.Document) (*goquery.Selection, error) {
	t, err := doc.Require(".resultCont .resTab .general table.results", ".general > table.results")
	if err != nil {
		return nil, models.Mismatch("%s: results table not in page", s.Identifier())
	}
	if document.Query(t, "tbody > tr").Length() == 0 {
		return nil, models.Mismatch("%s: results table is empty", s.Identifier())
	}
	return t, nil
}

// Results parses the stage result. In a team time trial each rider gets
// the rank and time of the team plus the rider's own gap; nationality and
// age then come from the GC of stage races and are nil otherwise.
func (s *Stage) Results(fields ...string) (table.Table, error) {
	selected, err := field.Select(fields, resultFields)
	if err != nil {
		return nil, err
	}
	doc, err := s.Document()
	if err != nil {
		return nil, err
	}
	root, err := s.mainTable(doc)
	if err != nil {
		return nil, err
	}
	kind, err := s.StageType()
	if err != nil {
		return nil, err
	}
	if kind == "TTT" {
		return s.tttResults(doc, root, selected)
	}
	return extract(root, selected, nil, table.SkipRow(func(cells *goquery.Selection) bool {
		return cells.Length() <= 2 && strings.TrimSpace(cells.First().Text()) == ""
	}))
}

func (s *Stage) tttResults(doc *document.Document, root *goquery.Selection, selected []string) (table.Table, error) {
	teams, err := extract(root, []string{"rank", "team_name", "team_url", "time"}, []table.Column{
		table.Header("time", "Time").With(table.Time).Missing(nil),
	}, table.Rows("tr.team"))
	if err != nil {
		return nil, err
	}
	riders, err := extract(root, []string{"rank", "rider_name", "rider_url", "pcs_points", "uci_points", "bonus", "rider_gap"}, []table.Column{
		table.Func("rank", carriedRank),
		table.Index("rider_gap", 1).With(riderGap),
	}, table.Rows("tr:not(.team)"))
	if err != nil {
		return nil, err
	}

	out, err := table.LeftJoin(riders, teams, "rank")
	if err != nil {
		return nil, err
	}
	for _, row := range out {
		teamTime, _ := row.Get("time").(string)
		gap, _ := row.Get("rider_gap").(string)
		switch {
		case teamTime == "":
			row.Set("time", nil)
			continue
		case gap == "":
			continue
		}
		total, err := timeutil.AddTimes(teamTime, gap)
		if err != nil {
			row.Set("time", nil)
			continue
		}
		row.Set("time", total)
	}
	out.SortBy("rider_url", compareValues)
	out.SortBy("rank", compareValues)

	for _, row := range out {
		row.Set("status", "DF")
	}

	oneDay, err := s.IsOneDayRace()
	if err != nil {
		return nil, err
	}
	if extra := pick(selected, "nationality", "age"); len(extra) > 0 && !oneDay {
		if gc := s.tabTable(doc, "gc"); gc.Length() > 0 {
			gcRows, err := extract(gc, append([]string{"rider_url"}, extra...), nil)
			if err != nil {
				return nil, err
			}
			if out, err = table.LeftJoin(out, gcRows, "rider_url"); err != nil {
				return nil, err
			}
		}
	}
	out.Project(selected...)
	return out, nil
}

// carriedRank reads the rank of a TTT rider row, which only the first row
// of each team carries.
func carriedRank(row *goquery.Selection) any {
	for r := row; r.Length() > 0; r = r.Prev() {
		if text := strings.TrimSpace(r.ChildrenFiltered("td").First().Text()); text != "" {
			return table.Int(text)
		}
	}
	return nil
}

// riderGap reads the "+M:SS" gap behind the team time; no gap is zero.
func riderGap(s string) any {
	_, gap, found := strings.Cut(s, "+")
	if !found {
		return "0:00:00"
	}
	return table.Time(gap)
}

// compareValues orders nil first, then ints, then strings.
func compareValues(a, b any) int {
	switch x := a.(type) {
	case nil:
		if b == nil {
			return 0
		}
		return -1
	case int:
		y, ok := b.(int)
		if !ok {
			if b == nil {
				return 1
			}
			return -1
		}
		return x - y
	case string:
		y, ok := b.(string)
		if !ok {
			return 1
		}
		return strings.Compare(x, y)
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func (s *Stage) classification(name string, fields []string, available field.Set) (table.Table, error) {
	selected, err := field.Select(fields, available)
	if err != nil {
		return nil, err
	}
	doc, err := s.Document()
	if err != nil {
		return nil, err
	}
	root := s.tabTable(doc, name)
	if root.Length() == 0 {
		return table.Table{}, nil
	}
	return extract(root, selected, nil)
}

// GC parses the general classification after the stage; empty when absent.
func (s *Stage) GC(fields ...string) (table.Table, error) {
	return s.classification("gc", fields, gcFields)
}

// Points parses the points classification; empty when absent.
func (s *Stage) Points(fields ...string) (table.Table, error) {
	return s.classification("points", fields, classificationFields)
}

// KOM parses the mountains classification; empty when absent.
func (s *Stage) KOM(fields ...string) (table.Table, error) {
	return s.classification("kom", fields, classificationFields)
}

// Youth parses the youth classification; empty when absent.
func (s *Stage) Youth(fields ...string) (table.Table, error) {
	return s.classification("youth", fields, youthFields)
}

// Teams parses the teams classification; empty when absent.
func (s *Stage) Teams(fields ...string) (table.Table, error) {
	return s.classification("teams", fields, teamsClassificationFields)
}
