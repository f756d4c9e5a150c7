package scraper

import (
	"strings"

	"github.com/use-agent/pcstats/field"
	"github.com/use-agent/pcstats/models"
	"github.com/use-agent/pcstats/table"
)

// RankingType is the ranking a rankings page shows.
type RankingType string

const (
	RankingIndividual     RankingType = "individual"
	RankingTeams          RankingType = "teams"
	RankingNations        RankingType = "nations"
	RankingRaces          RankingType = "races"
	RankingDistance       RankingType = "distance"
	RankingRacedays       RankingType = "racedays"
	RankingIndividualWins RankingType = "individual_wins"
	RankingTeamWins       RankingType = "team_wins"
	RankingNationWins     RankingType = "nation_wins"
)

// Ranking parses a rankings page such as rankings/me/individual. Only the
// ranking matching the URL is available; the other ranking fields report a
// structural mismatch and parse to nil.
type Ranking struct {
	Base
}

var rankingCatalog = NewCatalog(
	Tabular("individual_ranking", (*Ranking).IndividualRanking),
	Tabular("team_ranking", (*Ranking).TeamRanking),
	Tabular("nations_ranking", (*Ranking).NationsRanking),
	Tabular("races_ranking", (*Ranking).RacesRanking),
	Tabular("individual_wins_ranking", (*Ranking).IndividualWinsRanking),
	Tabular("teams_wins_ranking", (*Ranking).TeamsWinsRanking),
	Tabular("nations_wins_ranking", (*Ranking).NationsWinsRanking),
	Tabular("distance_ranking", (*Ranking).DistanceRanking),
	Tabular("racedays_ranking", (*Ranking).RacedaysRanking),
	Scalar("dates_select", (*Ranking).DatesSelect),
	Scalar("nations_select", (*Ranking).NationsSelect),
	Scalar("teams_select", (*Ranking).TeamsSelect),
	Scalar("pages_select", (*Ranking).PagesSelect),
	Scalar("teamlevels_select", (*Ranking).TeamlevelsSelect),
)

var (
	individualRankingFields = field.NewSet("rank", "prev_rank", "rider_name", "rider_url",
		"team_name", "team_url", "nationality", "points")
	teamRankingFields = field.NewSet("rank", "prev_rank", "team_name", "team_url",
		"nationality", "class", "points")
	nationsRankingFields = field.NewSet("rank", "prev_rank", "nation_name", "nation_url",
		"nationality", "points")
	racesRankingFields = field.NewSet("rank", "prev_rank", "race_name", "race_url",
		"nationality", "class", "points")
	individualWinsFields = field.NewSet("rank", "prev_rank", "rider_name", "rider_url",
		"team_name", "team_url", "nationality", "first_places", "second_places", "third_places")
	teamWinsFields = field.NewSet("rank", "prev_rank", "team_name", "team_url",
		"nationality", "class", "first_places", "second_places", "third_places")
	nationWinsFields = field.NewSet("rank", "prev_rank", "nation_name", "nation_url",
		"nationality", "first_places", "second_places", "third_places")
	distanceRankingFields = field.NewSet("rider_name", "rider_url", "team_name", "team_url",
		"rank", "nationality", "distance")
	racedaysRankingFields = field.NewSet("rider_name", "rider_url", "team_name", "team_url",
		"rank", "nationality", "racedays")
)

// NewRanking creates a Ranking scraper. An empty markup leaves it unbound.
func NewRanking(identifier, markup string) (*Ranking, error) {
	b, err := newBase(identifier, markup)
	if err != nil {
		return nil, err
	}
	return &Ranking{Base: b}, nil
}

func (r *Ranking) Kind() Kind       { return KindRanking }
func (r *Ranking) Fields() []string { return rankingCatalog.Fields() }

func (r *Ranking) Parse(fields ...string) (*Result, error) {
	return rankingCatalog.Parse(r, fields)
}

// Type derives the ranking type from the page URL.
func (r *Ranking) Type() RankingType {
	rel := r.Identifier()
	if rel == "rankings" {
		return RankingIndividual
	}
	if i := strings.Index(rel, "races"); i >= 0 && (i == 0 || rel[i-1] != '-') {
		return RankingRaces
	}
	switch {
	case strings.Contains(rel, "distance"):
		return RankingDistance
	case strings.Contains(rel, "racedays"):
		return RankingRacedays
	case strings.Contains(rel, "wins-individual"):
		return RankingIndividualWins
	case strings.Contains(rel, "wins-teams"):
		return RankingTeamWins
	case strings.Contains(rel, "wins-nations"):
		return RankingNationWins
	case strings.Contains(rel, "nations"):
		return RankingNations
	case strings.Contains(rel, "teams"):
		return RankingTeams
	}
	return RankingIndividual
}

// rankingTable selects fields, checks that the page shows want and builds
// the first table of the page.
func (r *Ranking) rankingTable(want RankingType, fields []string, available field.Set,
	selector string, custom ...table.Column) (table.Table, error) {
	selected, err := field.Select(fields, available)
	if err != nil {
		return nil, err
	}
	doc, err := r.Document()
	if err != nil {
		return nil, err
	}
	if got := r.Type(); got != want {
		return nil, models.Mismatch("%s: page shows the %s ranking, not %s", r.Identifier(), got, want)
	}
	root, err := doc.Require(selector)
	if err != nil {
		return nil, err
	}
	return extract(root, selected, custom)
}

// IndividualRanking parses the riders' points ranking.
func (r *Ranking) IndividualRanking(fields ...string) (table.Table, error) {
	return r.rankingTable(RankingIndividual, fields, individualRankingFields, "table")
}

// TeamRanking parses the teams' points ranking.
func (r *Ranking) TeamRanking(fields ...string) (table.Table, error) {
	return r.rankingTable(RankingTeams, fields, teamRankingFields, "table")
}

// NationsRanking parses the nations' points ranking.
func (r *Ranking) NationsRanking(fields ...string) (table.Table, error) {
	return r.rankingTable(RankingNations, fields, nationsRankingFields, "table")
}

// RacesRanking parses the races ranking by startlist quality.
func (r *Ranking) RacesRanking(fields ...string) (table.Table, error) {
	name, _ := table.StandardColumn("stage_name")
	url, _ := table.StandardColumn("stage_url")
	return r.rankingTable(RankingRaces, fields, racesRankingFields, "table",
		name.As("race_name"), url.As("race_url"))
}

// IndividualWinsRanking parses the riders' wins ranking.
func (r *Ranking) IndividualWinsRanking(fields ...string) (table.Table, error) {
	return r.rankingTable(RankingIndividualWins, fields, individualWinsFields, "table")
}

// TeamsWinsRanking parses the teams' wins ranking.
func (r *Ranking) TeamsWinsRanking(fields ...string) (table.Table, error) {
	return r.rankingTable(RankingTeamWins, fields, teamWinsFields, "table")
}

// NationsWinsRanking parses the nations' wins ranking.
func (r *Ranking) NationsWinsRanking(fields ...string) (table.Table, error) {
	return r.rankingTable(RankingNationWins, fields, nationWinsFields, "table")
}

// DistanceRanking parses the season distance ranking in kilometres.
func (r *Ranking) DistanceRanking(fields ...string) (table.Table, error) {
	return r.rankingTable(RankingDistance, fields, distanceRankingFields,
		".page-content > div > div > table",
		table.Header("distance", "KMs").With(table.IntOr(0)))
}

// RacedaysRanking parses the season racedays ranking.
func (r *Ranking) RacedaysRanking(fields ...string) (table.Table, error) {
	return r.rankingTable(RankingRacedays, fields, racedaysRankingFields,
		".page-content > div > div > table",
		table.Header("racedays", "Racedays").With(table.IntOr(0)))
}

func (r *Ranking) menu(name string) (table.Table, error) {
	doc, err := r.Document()
	if err != nil {
		return nil, err
	}
	sel, err := doc.SelectMenu(name)
	if err != nil {
		return nil, err
	}
	return table.FromSelect(sel), nil
}

// DatesSelect lists the ranking dates menu.
func (r *Ranking) DatesSelect() (table.Table, error) { return r.menu("date") }

// NationsSelect lists the nations filter menu.
func (r *Ranking) NationsSelect() (table.Table, error) { return r.menu("nation") }

// TeamsSelect lists the teams filter menu.
func (r *Ranking) TeamsSelect() (table.Table, error) { return r.menu("team") }

// PagesSelect lists the pagination menu.
func (r *Ranking) PagesSelect() (table.Table, error) { return r.menu("offset") }

// TeamlevelsSelect lists the team level filter menu.
func (r *Ranking) TeamlevelsSelect() (table.Table, error) { return r.menu("teamlevel") }
