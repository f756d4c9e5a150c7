package table

import (
	"encoding/json"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/pcstats/document"
	"github.com/use-agent/pcstats/models"
)

const rankingMarkup = `<html><body>
<table class="basic">
<thead><tr><th>Rnk</th><th>Rider</th><th>Team</th><th>UCI</th></tr></thead>
<tbody>
<tr><td>1</td><td><span class="flag si"></span> <a href="rider/tadej-pogacar">POGAČAR Tadej</a></td><td><a href="team/uae-team-emirates-2022">UAE Team Emirates</a></td><td>500</td></tr>
<tr><td>2</td><td><span class="flag dk"></span> <a href="rider/jonas-vingegaard">VINGEGAARD Jonas</a></td><td><a href="team/jumbo-visma-2022">Jumbo-Visma</a></td><td>400.5</td></tr>
<tr><td colspan="4">No data</td></tr>
<tr><td>DNF</td><td><a href="rider/x-y">X Y</a></td><td></td><td>-</td></tr>
</tbody>
</table>
</body></html>`

func newParser(t *testing.T, markup, selector string, opts ...Option) *Parser {
	t.Helper()
	doc, err := document.New("test/page", markup)
	require.NoError(t, err)
	p, err := NewParser(doc.Find(selector), opts...)
	require.NoError(t, err)
	return p
}

func TestParseStandardColumns(t *testing.T) {
	p := newParser(t, rankingMarkup, "table")
	require.Equal(t, 3, p.Len(), "spanning no-data row is skipped")

	fields := []string{"rank", "status", "rider_name", "rider_url", "nationality", "team_name", "team_url", "uci_points", "pcs_points"}
	got, err := p.Parse(fields...)
	require.NoError(t, err)
	require.Len(t, got, 3)

	for i, row := range got {
		assert.Equal(t, fields, row.Keys(), "row %d key order", i)
	}

	want := []map[string]any{
		{"rank": 1, "status": "DF", "rider_name": "POGAČAR Tadej", "rider_url": "rider/tadej-pogacar", "nationality": "SI",
			"team_name": "UAE Team Emirates", "team_url": "team/uae-team-emirates-2022", "uci_points": 500.0, "pcs_points": 0},
		{"rank": 2, "status": "DF", "rider_name": "VINGEGAARD Jonas", "rider_url": "rider/jonas-vingegaard", "nationality": "DK",
			"team_name": "Jumbo-Visma", "team_url": "team/jumbo-visma-2022", "uci_points": 400.5, "pcs_points": 0},
		{"rank": nil, "status": "DNF", "rider_name": "X Y", "rider_url": "rider/x-y", "nationality": nil,
			"team_name": nil, "team_url": nil, "uci_points": 0.0, "pcs_points": 0},
	}
	for i := range want {
		if diff := cmp.Diff(want[i], got[i].Map()); diff != "" {
			t.Errorf("row %d mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestParseIsDeterministic(t *testing.T) {
	fields := []string{"rank", "rider_name", "uci_points"}
	a, err := newParser(t, rankingMarkup, "table").Parse(fields...)
	require.NoError(t, err)
	b, err := newParser(t, rankingMarkup, "table").Parse(fields...)
	require.NoError(t, err)

	ja, err := json.Marshal(a)
	require.NoError(t, err)
	jb, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Equal(t, string(ja), string(jb))
	assert.Contains(t, string(ja), `{"rank":1,"rider_name":"POGAČAR Tadej","uci_points":500}`)
}

func TestBuildMissingHeader(t *testing.T) {
	p := newParser(t, rankingMarkup, "table")

	_, err := p.Build(Header("class", "Class"))
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrStructuralMismatch)

	got, err := p.Build(Header("class", "Class").Missing("n/a"))
	require.NoError(t, err)
	assert.Equal(t, []any{"n/a", "n/a", "n/a"}, got.Column("class"))
}

func TestBuildWithoutHeader(t *testing.T) {
	p := newParser(t, `<table><tr><td>1</td><td>a</td></tr><tr><td>2</td><td>b</td></tr></table>`, "table")
	assert.False(t, p.HasHeader())

	_, err := p.Build(Header("rank", "Rnk"))
	assert.ErrorIs(t, err, models.ErrStructuralMismatch)

	got, err := p.Build(Index("rank", 0).With(Int), Index("name", -1))
	require.NoError(t, err)
	assert.Equal(t, []any{1, 2}, got.Column("rank"))
	assert.Equal(t, []any{"a", "b"}, got.Column("name"))
}

func TestExtraColumnMatchesRows(t *testing.T) {
	p := newParser(t, rankingMarkup, "table")
	base, err := p.Parse("rider_url")
	require.NoError(t, err)

	uci, err := p.ExtraColumn(Index("uci", -1).With(Raw))
	require.NoError(t, err)
	assert.Equal(t, []any{"500", "400.5", "-"}, uci)

	out, err := Extend(base, "uci", uci)
	require.NoError(t, err)
	for i, row := range out {
		assert.Equal(t, uci[i], row.Get("uci"))
		assert.Equal(t, []string{"rider_url", "uci"}, row.Keys())
	}
}

func TestExtendLengthMismatch(t *testing.T) {
	p := newParser(t, rankingMarkup, "table")
	base, err := p.Parse("rank")
	require.NoError(t, err)

	_, err = Extend(base, "x", []any{1, 2})
	assert.ErrorIs(t, err, ErrLength)
}

func TestExtendEmptyCreatesRows(t *testing.T) {
	out, err := Extend(nil, "season", []any{2021, 2022})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, 2022, out[1].Get("season"))
}

func TestSkipRowAndRowsOptions(t *testing.T) {
	markup := `<table><thead><tr><th>Rnk</th><th>Name</th></tr></thead><tbody>
<tr class="team"><td>1</td><td>Team A</td></tr>
<tr><td></td><td>rider a1</td></tr>
<tr><td></td><td></td></tr>
<tr class="team"><td>2</td><td>Team B</td></tr>
</tbody></table>`

	teams := newParser(t, markup, "table", Rows("tr.team"))
	assert.Equal(t, 2, teams.Len())

	nonEmpty := newParser(t, markup, "table", SkipRow(func(cells *goquery.Selection) bool {
		return cells.Eq(1).Text() == ""
	}))
	got, err := nonEmpty.Build(Header("name", "Name"))
	require.NoError(t, err)
	assert.Equal(t, []any{"Team A", "rider a1", "Team B"}, got.Column("name"))
}

func TestListRows(t *testing.T) {
	markup := `<ul class="list">
<li><div>1</div><div><a href="location/col-du-galibier">Col du Galibier</a></div><div>2642 m</div></li>
<li><div>2</div><div><a href="location/alpe-d-huez">Alpe d'Huez</a></div><div>1850 m</div></li>
</ul>`
	p := newParser(t, markup, "ul")

	got, err := p.Parse("climb_name", "climb_url")
	require.NoError(t, err)
	assert.Equal(t, []any{"Col du Galibier", "Alpe d'Huez"}, got.Column("climb_name"))
	assert.Equal(t, []any{"location/col-du-galibier", "location/alpe-d-huez"}, got.Column("climb_url"))

	alt, err := p.ExtraColumn(Index("altitude", -1))
	require.NoError(t, err)
	assert.Equal(t, []any{"2642 m", "1850 m"}, alt)
}

func TestUnsupportedRoot(t *testing.T) {
	doc, err := document.New("x", `<div><p>nothing</p></div>`)
	require.NoError(t, err)

	_, err = NewParser(doc.Find("div"))
	assert.ErrorIs(t, err, models.ErrStructuralMismatch)

	_, err = NewParser(doc.Find("table"))
	assert.ErrorIs(t, err, models.ErrStructuralMismatch)
}

func TestParseAbsoluteTimes(t *testing.T) {
	markup := `<table><thead><tr><th>Rnk</th><th>Rider</th><th>Time</th></tr></thead><tbody>
<tr><td>1</td><td><a href="rider/a">A</a></td><td class="time">4:10:12</td></tr>
<tr><td>2</td><td><a href="rider/b">B</a></td><td class="time">0:12</td></tr>
<tr><td>3</td><td><a href="rider/c">C</a></td><td class="time">,,</td></tr>
<tr><td>4</td><td><a href="rider/d">D</a></td><td class="time"><span>1:05</span><span class="hide">,,</span></td></tr>
</tbody></table>`

	got, err := newParser(t, markup, "table").Parse("rider_name", "time", "bonus")
	require.NoError(t, err)
	assert.Equal(t, []any{"4:10:12", "4:10:24", "4:10:24", "4:11:17"}, got.Column("time"))
	assert.Equal(t, []any{"0:00:00", "0:00:00", "0:00:00", "0:00:00"}, got.Column("bonus"))
}

func TestStandardColumnsUnknown(t *testing.T) {
	_, err := StandardColumns("rank", "shoe_size")
	assert.Error(t, err)
}
