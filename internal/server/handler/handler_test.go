package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younglubz/Predictionarb/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeState struct {
	markets []domain.Market
	pairs   []domain.Pair
	opps    []domain.Opportunity
	run     domain.RunSummary
	hasRun  bool
}

func (f *fakeState) Markets() []domain.Market            { return f.markets }
func (f *fakeState) Pairs() []domain.Pair                { return f.pairs }
func (f *fakeState) Opportunities() []domain.Opportunity { return f.opps }
func (f *fakeState) LastRun() (domain.RunSummary, bool)  { return f.run, f.hasRun }

type fakeStore struct {
	opps    []domain.Opportunity
	runs    []domain.RunSummary
	listErr error
}

func (f *fakeStore) SaveOpportunities(context.Context, string, []domain.Opportunity) error {
	return nil
}

func (f *fakeStore) SaveRun(context.Context, domain.RunSummary) error { return nil }

func (f *fakeStore) ListRecent(_ context.Context, limit int) ([]domain.Opportunity, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if len(f.opps) > limit {
		return f.opps[:limit], nil
	}
	return f.opps, nil
}

func (f *fakeStore) ListRuns(_ context.Context, limit int) ([]domain.RunSummary, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if len(f.runs) > limit {
		return f.runs[:limit], nil
	}
	return f.runs, nil
}

func get(t *testing.T, h http.HandlerFunc, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h(rec, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestHealthCheck(t *testing.T) {
	state := &fakeState{run: domain.RunSummary{RunID: "r1", Opportunities: 2}, hasRun: true}
	h := NewHealthHandler(state)

	rec, body := get(t, h.HealthCheck, "/api/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])

	run, ok := body["last_run"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "r1", run["run_id"])
}

func TestHealthCheckWithoutScanner(t *testing.T) {
	h := NewHealthHandler(nil)
	rec, body := get(t, h.HealthCheck, "/api/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, body, "last_run")
}

func TestListMarketsFiltersVenue(t *testing.T) {
	state := &fakeState{markets: []domain.Market{
		{Venue: "polymarket", MarketID: "m1", Question: "q", Outcome: "Yes", Price: 0.4},
		{Venue: "kalshi", MarketID: "k1", Question: "q", Outcome: "Yes", Price: 0.5},
		{Venue: "kalshi", MarketID: "k2", Question: "q", Outcome: "No", Price: 0.5},
	}}
	h := NewMarketHandler(state)

	rec, body := get(t, h.ListMarkets, "/api/markets?venue=Kalshi")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, body["total"])
	assert.Len(t, body["markets"], 2)
}

func TestListMarketsAppliesLimit(t *testing.T) {
	state := &fakeState{markets: make([]domain.Market, 5)}
	h := NewMarketHandler(state)

	_, body := get(t, h.ListMarkets, "/api/markets?limit=2")
	assert.EqualValues(t, 5, body["total"])
	assert.Len(t, body["markets"], 2)
}

func TestListMarketsNoScanner(t *testing.T) {
	h := NewMarketHandler(nil)
	rec, _ := get(t, h.ListMarkets, "/api/markets")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestListMatches(t *testing.T) {
	state := &fakeState{pairs: []domain.Pair{
		{A: domain.Market{Venue: "polymarket"}, B: domain.Market{Venue: "kalshi"}, Confidence: 0.8},
	}}
	h := NewMarketHandler(state)

	rec, body := get(t, h.ListMatches, "/api/matches")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, body["total"])
}

func TestListCurrentFiltersStrategy(t *testing.T) {
	state := &fakeState{
		opps: []domain.Opportunity{
			{ID: "a", Strategy: domain.StrategyClassic},
			{ID: "b", Strategy: domain.StrategyRebalancing},
			{ID: "c", Strategy: domain.StrategyClassic},
		},
		run:    domain.RunSummary{RunID: "r7"},
		hasRun: true,
	}
	h := NewOpportunityHandler(state, nil, testLogger())

	rec, body := get(t, h.ListCurrent, "/api/opportunities?strategy=classic")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, body["total"])
	assert.Equal(t, "r7", body["run_id"])
}

func TestListHistoryWithoutStore(t *testing.T) {
	h := NewOpportunityHandler(&fakeState{}, nil, testLogger())
	rec, _ := get(t, h.ListHistory, "/api/opportunities/history")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestListHistoryStoreError(t *testing.T) {
	store := &fakeStore{listErr: errors.New("connection refused")}
	h := NewOpportunityHandler(&fakeState{}, store, testLogger())

	rec, body := get(t, h.ListHistory, "/api/opportunities/history")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, body["error"], "failed to list")
}

func TestListRuns(t *testing.T) {
	store := &fakeStore{runs: []domain.RunSummary{{RunID: "r1"}, {RunID: "r2"}}}
	h := NewOpportunityHandler(&fakeState{}, store, testLogger())

	rec, body := get(t, h.ListRuns, "/api/runs")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, body["total"])
}

func TestParseLimit(t *testing.T) {
	for target, want := range map[string]int{
		"/x":            50,
		"/x?limit=10":   10,
		"/x?limit=9999": 500,
		"/x?limit=zero": 50,
		"/x?limit=-3":   50,
	} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		assert.Equal(t, want, parseLimit(req), target)
	}
}
