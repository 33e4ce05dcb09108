package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chris-donut/donut-investor-pipe/internal/match"
	"github.com/chris-donut/donut-investor-pipe/internal/model"
	"github.com/chris-donut/donut-investor-pipe/internal/store"
)

var fixedNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) (*Server, store.Store) {
	t.Helper()

	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, st.Migrate(context.Background()))
	t.Cleanup(func() { st.Close() })

	engine := match.NewEngineWithClock(match.DefaultReferences(), func() time.Time { return fixedNow })
	profile := &model.Profile{
		Name:        "Donut Labs",
		Stage:       "pre-seed",
		Sectors:     []string{"AI", "DeFi", "Trading"},
		TargetRaise: "$2M-$3M",
		Location:    "Hong Kong",
	}

	return NewServer(st, engine, nil, profile), st
}

func seedInvestor(t *testing.T, st store.Store, name string) *model.Investor {
	t.Helper()
	inv := &model.Investor{
		Name:   name,
		Type:   model.TypeCryptoFund,
		Thesis: []string{"DeFi"},
		Stage:  []string{"pre-seed"},
		Geo:    []string{"Asia"},
	}
	require.NoError(t, st.CreateInvestor(context.Background(), inv))
	return inv
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestListInvestors(t *testing.T) {
	s, st := newTestServer(t)
	seedInvestor(t, st, "Alpha")
	seedInvestor(t, st, "Bravo")

	rec := doRequest(t, s, http.MethodGet, "/api/investors", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var investors []model.Investor
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &investors))
	require.Len(t, investors, 2)
	assert.Equal(t, "Alpha", investors[0].Name)
}

func TestListInvestorsEmptyIsArray(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/api/investors", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestListInvestorsBadMinScore(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/api/investors?min_score=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetInvestorWithMatch(t *testing.T) {
	s, st := newTestServer(t)
	inv := seedInvestor(t, st, "Alpha")

	rec := doRequest(t, s, http.MethodGet, "/api/investors/"+inv.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Investor model.Investor    `json:"investor"`
		Match    match.MatchResult `json:"match"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Alpha", resp.Investor.Name)
	assert.Equal(t, resp.Match.Breakdown.Total(), resp.Match.Score)
	assert.Positive(t, resp.Match.Score)
}

func TestGetInvestorNotFound(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/api/investors/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateStatus(t *testing.T) {
	s, st := newTestServer(t)
	inv := seedInvestor(t, st, "Alpha")

	rec := doRequest(t, s, http.MethodPost, "/api/investors/"+inv.ID+"/status", `{"status":"contacted"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	got, err := st.GetInvestor(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusContacted, got.Status)
}

func TestUpdateStatusValidation(t *testing.T) {
	s, st := newTestServer(t)
	inv := seedInvestor(t, st, "Alpha")

	rec := doRequest(t, s, http.MethodPost, "/api/investors/"+inv.ID+"/status", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, s, http.MethodPost, "/api/investors/missing/status", `{"status":"contacted"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGenerateWithoutGeneratorIsUnavailable(t *testing.T) {
	s, st := newTestServer(t)
	inv := seedInvestor(t, st, "Alpha")

	rec := doRequest(t, s, http.MethodPost, "/api/investors/"+inv.ID+"/generate/cold_email", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMatchPersistsScores(t *testing.T) {
	s, st := newTestServer(t)
	inv := seedInvestor(t, st, "Alpha")

	rec := doRequest(t, s, http.MethodPost, "/api/match", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Matched  int `json:"matched"`
		Failed   int `json:"failed"`
		TopScore int `json:"top_score"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Matched)
	assert.Equal(t, 0, resp.Failed)
	assert.Positive(t, resp.TopScore)

	got, err := st.GetInvestor(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.TopScore, got.Score)
}

func TestInteractionsEndpoint(t *testing.T) {
	s, st := newTestServer(t)
	inv := seedInvestor(t, st, "Alpha")

	require.NoError(t, st.CreateInteraction(context.Background(), &model.Interaction{
		InvestorID: inv.ID,
		Type:       model.InteractionColdEmail,
		Channel:    "email",
		Content:    "hello",
	}))

	rec := doRequest(t, s, http.MethodGet, "/api/investors/"+inv.ID+"/interactions", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var interactions []model.Interaction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &interactions))
	require.Len(t, interactions, 1)
	assert.Equal(t, model.InteractionColdEmail, interactions[0].Type)
}

func TestStatsEndpoint(t *testing.T) {
	s, st := newTestServer(t)
	inv := seedInvestor(t, st, "Alpha")
	require.NoError(t, st.UpdateStatus(context.Background(), inv.ID, model.StatusContacted))

	rec := doRequest(t, s, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		StatusCounts  map[string]int      `json:"status_counts"`
		OutreachStats model.OutreachStats `json:"outreach_stats"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.StatusCounts["contacted"])
	assert.Equal(t, 0, resp.OutreachStats.Total)
}

func TestExportEndpoint(t *testing.T) {
	s, st := newTestServer(t)
	seedInvestor(t, st, "Alpha")

	rec := doRequest(t, s, http.MethodGet, "/api/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "investors-export.json")

	var investors []model.Investor
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &investors))
	assert.Len(t, investors, 1)
}
