package scraper

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/pcstats/models"
)

func TestRankingType(t *testing.T) {
	tests := map[string]RankingType{
		"rankings":                     RankingIndividual,
		"rankings/me/individual":       RankingIndividual,
		"rankings/me/teams":            RankingTeams,
		"rankings/me/nations":          RankingNations,
		"rankings/me/races":            RankingRaces,
		"rankings/me/distance":         RankingDistance,
		"rankings/me/racedays":         RankingRacedays,
		"rankings/me/wins-individual":  RankingIndividualWins,
		"rankings/me/wins-teams":       RankingTeamWins,
		"rankings/me/wins-nations":     RankingNationWins,
		"rankings/me/individual-races": RankingIndividual,
	}
	for id, want := range tests {
		r, err := NewRanking(id, "")
		require.NoError(t, err)
		assert.Equal(t, want, r.Type(), id)
	}
}

func TestIndividualRanking(t *testing.T) {
	r := load(t, "rankings/me/individual").(*Ranking)

	got, err := r.IndividualRanking()
	require.NoError(t, err)
	require.Len(t, got, 2)

	want := map[string]any{
		"rank": 2, "prev_rank": 3, "rider_name": "EVENEPOEL Remco", "rider_url": "rider/remco-evenepoel",
		"team_name": "Soudal Quick-Step", "team_url": "team/soudal-quick-step-2024", "nationality": "BE", "points": 7125,
	}
	if diff := cmp.Diff(want, got[1].Map()); diff != "" {
		t.Errorf("row mismatch (-want +got):\n%s", diff)
	}
}

func TestRankingWrongType(t *testing.T) {
	r := load(t, "rankings/me/individual").(*Ranking)

	_, err := r.TeamRanking()
	assert.ErrorIs(t, err, models.ErrStructuralMismatch)

	res, err := r.Parse("individual_ranking", "team_ranking", "distance_ranking")
	require.NoError(t, err)
	assert.NotNil(t, res.Get("individual_ranking"))
	assert.Nil(t, res.Get("team_ranking"))
	assert.Nil(t, res.Get("distance_ranking"))

	_, err = r.TeamRanking("shoe_size")
	assert.ErrorIs(t, err, models.ErrInvalidField, "field names are checked before the page type")
}

func TestRankingSelects(t *testing.T) {
	r := load(t, "rankings/me/individual").(*Ranking)

	res, err := r.Parse("dates_select", "nations_select", "teams_select", "pages_select", "teamlevels_select")
	require.NoError(t, err)

	dates := tableOf(t, res.Get("dates_select"))
	require.Len(t, dates, 2)
	assert.Equal(t, "2024-10-08", dates[1].Get("value"))
	assert.Equal(t, "8 Oct 2024", dates[1].Get("text"))

	assert.Len(t, tableOf(t, res.Get("nations_select")), 2)
	assert.Len(t, tableOf(t, res.Get("pages_select")), 2)
	assert.Nil(t, res.Get("teams_select"))
	assert.Nil(t, res.Get("teamlevels_select"))
}
