package scraper

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/pcstats/engine"
	"github.com/use-agent/pcstats/models"
)

func TestFetchBindsScraper(t *testing.T) {
	e, err := Fetch(context.Background(), testdata, "https://www.procyclingstats.com/team/uae-team-emirates-2024")
	require.NoError(t, err)
	assert.Equal(t, KindTeam, e.Kind())
	assert.Equal(t, "team/uae-team-emirates-2024", e.Identifier())

	res, err := e.Parse("name")
	require.NoError(t, err)
	assert.Equal(t, "UAE Team Emirates", res.Get("name"))
}

func TestFetchUnknownPageSkipsNetwork(t *testing.T) {
	static := engine.NewStatic(nil)
	_, err := Fetch(context.Background(), static, "statistics/start")
	assert.ErrorIs(t, err, models.ErrUnknownPage)
}

func TestFetchMissingPage(t *testing.T) {
	static := engine.NewStatic(map[string]string{})
	_, err := Fetch(context.Background(), static, "rider/nobody")
	require.Error(t, err)
	assert.Equal(t, models.ErrCodeFetch, models.CodeOf(err))
}
