package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombativeRiders(t *testing.T) {
	c := load(t, "race/tour-de-france/2024/results/combative-riders").(*RaceCombativeRiders)

	got, err := c.CombativeRiders()
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, []any{"Stage 1", "Stage 7 (ITT)", "Stage 8"}, got.Column("stage_name"))
	assert.Equal(t, []any{"VAN DEN BROEK Frank", nil, "TURGIS Anthony"}, got.Column("rider_name"))
	assert.Equal(t, []any{"NL", "", "FR"}, got.Column("nationality"))
	assert.Equal(t, "race/tour-de-france/2024/stage-7", got[1].Get("stage_url"))
}

func TestCombativeRidersNationalityOnly(t *testing.T) {
	c := load(t, "race/tour-de-france/2024/results/combative-riders").(*RaceCombativeRiders)

	got, err := c.CombativeRiders("nationality")
	require.NoError(t, err)
	for _, row := range got {
		assert.Equal(t, []string{"nationality"}, row.Keys())
	}
	assert.Equal(t, []any{"NL", "", "FR"}, got.Column("nationality"))
}

func TestCombativeRidersWithoutTable(t *testing.T) {
	c, err := NewRaceCombativeRiders("race/x/2024/results/combative-riders", "<p>nothing yet</p>")
	require.NoError(t, err)

	res, err := c.Parse()
	require.NoError(t, err)
	assert.Equal(t, []string{"combative_riders"}, res.Keys())
	assert.Empty(t, tableOf(t, res.Get("combative_riders")))
}
