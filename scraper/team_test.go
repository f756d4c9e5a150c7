package scraper

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeamInfo(t *testing.T) {
	e := load(t, "team/uae-team-emirates-2024")
	res, err := e.Parse("name", "nationality", "status", "abbreviation", "bike", "license_country",
		"wins_count", "pcs_points", "pcs_ranking_position", "uci_ranking_position")
	require.NoError(t, err)

	assert.Equal(t, "UAE Team Emirates", res.Get("name"))
	assert.Equal(t, "AE", res.Get("nationality"))
	assert.Equal(t, "WT", res.Get("status"))
	assert.Equal(t, "UAD", res.Get("abbreviation"))
	assert.Equal(t, "Colnago", res.Get("bike"))
	assert.Equal(t, "United Arab Emirates", res.Get("license_country"))

	ints := map[string]int{"wins_count": 81, "pcs_points": 17120, "pcs_ranking_position": 1, "uci_ranking_position": 0}
	for name, want := range ints {
		got, ok := res.Get(name).(*int)
		require.True(t, ok, name)
		require.NotNil(t, got, name)
		assert.Equal(t, want, *got, name)
	}
}

func TestTeamHistorySelect(t *testing.T) {
	team := load(t, "team/uae-team-emirates-2024").(*Team)
	got, err := team.HistorySelect()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2025", got[0].Get("text"))
	assert.Equal(t, "team/uae-team-emirates-2024/overview", got[1].Get("value"))
}

func TestTeamRiders(t *testing.T) {
	team := load(t, "team/uae-team-emirates-2024").(*Team)

	got, err := team.Riders()
	require.NoError(t, err)
	require.Len(t, got, 2)

	want := []map[string]any{
		{"nationality": "SI", "rider_name": "POGAČAR Tadej", "rider_url": "rider/tadej-pogacar", "age": 26,
			"since": "01-01", "until": "12-31", "career_points": 4500, "ranking_points": 11680, "ranking_position": 1},
		{"nationality": "ES", "rider_name": "AYUSO Juan", "rider_url": "rider/juan-ayuso", "age": 21,
			"since": "06-15", "until": "12-31", "career_points": 0, "ranking_points": nil, "ranking_position": nil},
	}
	for i := range want {
		if diff := cmp.Diff(want[i], got[i].Map()); diff != "" {
			t.Errorf("row %d mismatch (-want +got):\n%s", i, diff)
		}
		assert.Equal(t, teamRiderFields.Names(), got[i].Keys())
	}
}

func TestTeamRidersSubset(t *testing.T) {
	team := load(t, "team/uae-team-emirates-2024").(*Team)

	got, err := team.Riders("age", "rider_name")
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, row := range got {
		assert.Equal(t, []string{"rider_name", "age"}, row.Keys(), "join key is projected out")
	}
	assert.Equal(t, []any{26, 21}, got.Column("age"))
}

func TestTeamWithoutRoster(t *testing.T) {
	team, err := NewTeam("team/empty-2024", `<div class="page-title"><div class="title"><h1>Empty (CT)</h1></div></div>`)
	require.NoError(t, err)

	riders, err := team.Riders()
	require.NoError(t, err)
	assert.Empty(t, riders)

	wins, err := team.WinsCount()
	require.NoError(t, err)
	assert.Nil(t, wins)

	nat, err := team.Nationality()
	require.NoError(t, err)
	assert.Equal(t, "", nat)
}
