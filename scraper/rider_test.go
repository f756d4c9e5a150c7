package scraper

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadRider(t *testing.T) *Rider {
	t.Helper()
	return load(t, "rider/tadej-pogacar").(*Rider)
}

func TestRiderProfile(t *testing.T) {
	r := loadRider(t)

	res, err := r.Parse("name", "birthdate", "place_of_birth", "nationality", "weight", "height", "image_url")
	require.NoError(t, err)

	assert.Equal(t, "Tadej Pogačar", res.Get("name"))
	assert.Equal(t, "1998-09-21", res.Get("birthdate"))
	assert.Equal(t, "SI", res.Get("nationality"))

	place, ok := res.Get("place_of_birth").(*string)
	require.True(t, ok)
	require.NotNil(t, place)
	assert.Equal(t, "Komenda", *place)

	weight := res.Get("weight").(*float64)
	height := res.Get("height").(*float64)
	require.NotNil(t, weight)
	require.NotNil(t, height)
	assert.Equal(t, 66.0, *weight)
	assert.Equal(t, 1.76, *height)

	img := res.Get("image_url").(*string)
	require.NotNil(t, img)
	assert.Equal(t, "images/riders/bp/ab/tadej-pogacar-2024.jpg", *img)
}

func TestPlausibleBody(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	h, w := plausibleBody(f(1.8), f(70))
	assert.Equal(t, 1.8, *h)
	assert.Equal(t, 70.0, *w)

	h, w = plausibleBody(f(70), f(1.8))
	assert.Equal(t, 1.8, *h, "swapped values are sorted by magnitude")
	assert.Equal(t, 70.0, *w)

	h, w = plausibleBody(f(3.5), f(250))
	assert.Nil(t, h)
	assert.Nil(t, w)

	h, w = plausibleBody(nil, nil)
	assert.Nil(t, h)
	assert.Nil(t, w)
}

func TestRiderTeamsHistory(t *testing.T) {
	r := loadRider(t)

	got, err := r.TeamsHistory()
	require.NoError(t, err)
	require.Len(t, got, 3, "suspension, sub and season-less rows are dropped")

	want := []map[string]any{
		{"season": 2024, "since": "01-01", "until": "12-31", "team_name": "UAE Team Emirates", "team_url": "team/uae-team-emirates-2024", "class": "WT"},
		{"season": 2023, "since": "06-15", "until": "12-31", "team_name": "UAE Team Emirates", "team_url": "team/uae-team-emirates-2023", "class": "WT"},
		{"season": 2019, "since": "01-01", "until": "03-31", "team_name": "Rog-Ljubljana", "team_url": "team/rog-ljubljana-2019", "class": "CT"},
	}
	for i := range want {
		if diff := cmp.Diff(want[i], got[i].Map()); diff != "" {
			t.Errorf("row %d mismatch (-want +got):\n%s", i, diff)
		}
		assert.Equal(t, []string{"season", "since", "until", "team_name", "team_url", "class"}, got[i].Keys())
	}
}

func TestRiderTeamsHistoryWithoutClass(t *testing.T) {
	r := loadRider(t)

	got, err := r.TeamsHistory("season", "team_name")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []any{2024, 2023, 2019}, got.Column("season"))
	for _, row := range got {
		assert.Equal(t, []string{"season", "team_name"}, row.Keys())
	}
}

func TestRiderPoints(t *testing.T) {
	r := loadRider(t)

	seasons, err := r.PointsPerSeasonHistory()
	require.NoError(t, err)
	assert.Equal(t, []any{2024, 2023}, seasons.Column("season"))
	assert.Equal(t, []any{4500, 3800}, seasons.Column("points"))
	assert.Equal(t, []any{1, 2}, seasons.Column("rank"))

	pps, err := r.PointsPerSpeciality()
	require.NoError(t, err)
	assert.Equal(t, []string{"one_day_races", "gc", "time_trial", "sprint", "climber", "hills"}, pps.Keys())
	assert.Equal(t, 4210, pps.Get("gc"))
	assert.Equal(t, 0, pps.Get("hills"))
}

func TestRiderSeasonResults(t *testing.T) {
	r := loadRider(t)

	got, err := r.SeasonResults()
	require.NoError(t, err)
	require.Len(t, got, 3, "race header rows without a result are skipped")

	want := []map[string]any{
		{"result": 1, "gc_position": 1, "stage_url": "race/tour-de-france/2024/stage-21", "stage_name": "Stage 21 (ITT) - Monaco › Nice",
			"distance": 33.7, "date": "2024-07-21", "pcs_points": 120.0, "uci_points": 210.0},
		{"result": 1, "gc_position": 1, "stage_url": "race/tour-de-france/2024/stage-20", "stage_name": "Stage 20 - Nice › Col de la Couillole",
			"distance": 132.8, "date": "2024-07-20", "pcs_points": 80.0, "uci_points": 120.0},
		{"result": nil, "gc_position": nil, "stage_url": "race/tour-de-france/2024/stage-3", "stage_name": "Stage 3 - Plaisance › Turin",
			"distance": nil, "date": "2024-07-01", "pcs_points": 0.0, "uci_points": 0.0},
	}
	for i := range want {
		if diff := cmp.Diff(want[i], got[i].Map()); diff != "" {
			t.Errorf("row %d mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestRiderSeasonResultsWithoutYear(t *testing.T) {
	markup := `<table class="rdrResults">
<thead><tr><th>Date</th><th>Result</th><th>GC</th><th>Race</th><th>Distance</th></tr></thead>
<tbody><tr><td>05.07</td><td>3</td><td></td><td><a href="race/tour-de-france/2022/stage-5">Stage 5</a></td><td>157</td></tr></tbody>
</table>`
	r, err := NewRider("rider/someone", markup)
	require.NoError(t, err)

	got, err := r.SeasonResults("date", "pcs_points", "uci_points")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].Get("date"))
	assert.Equal(t, 0.0, got[0].Get("pcs_points"), "missing points column defaults to zero")
	assert.Equal(t, 0.0, got[0].Get("uci_points"))
}

func TestRiderMissingStructureParsesToNil(t *testing.T) {
	r, err := NewRider("rider/someone", `<div class="page-title"><h1>Some One</h1></div>`)
	require.NoError(t, err)

	res, err := r.Parse("name", "birthdate", "teams_history", "points_per_speciality")
	require.NoError(t, err)
	assert.Equal(t, "Some One", res.Get("name"))
	assert.Nil(t, res.Get("birthdate"))
	assert.Nil(t, res.Get("teams_history"))
	assert.Nil(t, res.Get("points_per_speciality"))

	_, err = r.Birthdate()
	assert.Error(t, err)
}
