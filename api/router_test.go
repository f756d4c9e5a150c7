package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/pcstats/config"
	"github.com/use-agent/pcstats/engine"
	"github.com/use-agent/pcstats/models"
)

const apiKey = "test-key"

const teamPage = `<html><body>
<div class="page-title"><div class="title"><span class="flag de"></span><h1>BORA - hansgrohe (WT)</h1></div></div>
<ul class="infolist"><li><div>Status:</div><div>WT</div></li></ul>
</body></html>`

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	return newLimitedRouter(t, config.RateLimitConfig{RequestsPerSecond: 100, Burst: 100})
}

func newLimitedRouter(t *testing.T, limit config.RateLimitConfig) http.Handler {
	t.Helper()
	cfg := &config.Config{
		Server:    config.ServerConfig{Mode: "test"},
		Fetch:     config.FetchConfig{Timeout: 5 * time.Second, MaxTimeout: 10 * time.Second},
		Auth:      config.AuthConfig{Enabled: true, APIKeys: []string{apiKey}},
		RateLimit: limit,
	}
	static := engine.NewStatic(map[string]string{"team/bora-hansgrohe-2022": teamPage})
	return NewRouter(static, cfg, time.Now())
}

type parseBody struct {
	Success    bool                `json:"success"`
	Identifier string              `json:"identifier"`
	Kind       string              `json:"kind"`
	Data       json.RawMessage     `json:"data"`
	EngineUsed string              `json:"engine_used"`
	Error      *models.ErrorDetail `json:"error"`
}

func do(t *testing.T, h http.Handler, method, path string, body any, key string) (*httptest.ResponseRecorder, parseBody) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set("X-API-Key", key)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out parseBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return rec, out
}

func TestHealthNeedsNoKey(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body models.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "static", body.Engine)
}

func TestParseRequiresKey(t *testing.T) {
	rec, body := do(t, newTestRouter(t), http.MethodPost, "/api/v1/parse",
		models.ParseRequest{URL: "team/bora-hansgrohe-2022"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, models.ErrCodeUnauthorized, body.Error.Code)
}

func TestParseWithMarkup(t *testing.T) {
	rec, body := do(t, newTestRouter(t), http.MethodPost, "/api/v1/parse", models.ParseRequest{
		URL:    "https://www.procyclingstats.com/team/some-team-2022",
		HTML:   teamPage,
		Fields: []string{"status", "name"},
	}, apiKey)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, body.Success)
	assert.Equal(t, "team/some-team-2022", body.Identifier)
	assert.Equal(t, "team", body.Kind)
	assert.Empty(t, body.EngineUsed)
	assert.Equal(t, `{"name":"BORA - hansgrohe","status":"WT"}`, string(body.Data))
}

func TestParseFetchesPage(t *testing.T) {
	rec, body := do(t, newTestRouter(t), http.MethodPost, "/api/v1/parse", models.ParseRequest{
		URL:    "team/bora-hansgrohe-2022",
		Fields: []string{"nationality"},
	}, apiKey)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "static", body.EngineUsed)
	assert.JSONEq(t, `{"nationality":"DE"}`, string(body.Data))
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		req    any
		status int
		code   string
	}{
		{"missing url", map[string]any{"fields": []string{"name"}}, http.StatusBadRequest, models.ErrCodeInvalidInput},
		{"invalid field", models.ParseRequest{URL: "team/bora-hansgrohe-2022", Fields: []string{"shoe_size"}}, http.StatusBadRequest, models.ErrCodeInvalidField},
		{"unknown page", models.ParseRequest{URL: "statistics/start"}, http.StatusUnprocessableEntity, models.ErrCodeUnknownPage},
		{"not found page", models.ParseRequest{URL: "team/x-2022", HTML: `<div class="page-title"><h1>Page not found</h1></div>`}, http.StatusUnprocessableEntity, models.ErrCodeInvalidDocument},
		{"fetch failure", models.ParseRequest{URL: "team/not-cached-2022"}, http.StatusBadGateway, models.ErrCodeFetch},
	}
	h := newTestRouter(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := do(t, h, http.MethodPost, "/api/v1/parse", tt.req, apiKey)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code, body.Error.Code)
		})
	}
}

func TestFields(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/fields?url=race/tour-de-france/2024/results/combative-riders", nil)
	req.Header.Set("Authorization", "Bearer "+apiKey)
	newTestRouter(t).ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body models.FieldsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "race_combative_riders", body.Kind)
	assert.Equal(t, []string{"combative_riders"}, body.Fields)
}

func TestParseRejectsUnknownKey(t *testing.T) {
	rec, body := do(t, newTestRouter(t), http.MethodPost, "/api/v1/parse",
		models.ParseRequest{URL: "team/bora-hansgrohe-2022"}, "wrong-key")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, body.Success)
	assert.Equal(t, &models.ErrorDetail{Code: models.ErrCodeUnauthorized, Message: "invalid API key"}, body.Error)
}

func TestRateLimitExhaustsBurst(t *testing.T) {
	h := newLimitedRouter(t, config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 2})
	req := models.ParseRequest{URL: "team/bora-hansgrohe-2022", Fields: []string{"name"}}

	for range 2 {
		rec, body := do(t, h, http.MethodPost, "/api/v1/parse", req, apiKey)
		require.Equal(t, http.StatusOK, rec.Code, body.Error)
	}

	rec, body := do(t, h, http.MethodPost, "/api/v1/parse", req, apiKey)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.False(t, body.Success)
	require.NotNil(t, body.Error)
	assert.Equal(t, models.ErrCodeRateLimited, body.Error.Code)

	// /fields sits behind the same limiter and reports the same envelope.
	rec, body = do(t, h, http.MethodGet, "/api/v1/fields?url=team/bora-hansgrohe-2022", nil, apiKey)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, models.ErrCodeRateLimited, body.Error.Code)
}
