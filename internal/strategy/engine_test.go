package strategy

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younglubz/Predictionarb/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubStrategy struct {
	name domain.StrategyTag
	opps []domain.Opportunity
}

func (s stubStrategy) Name() domain.StrategyTag { return s.name }
func (s stubStrategy) Detect(context.Context, *Run) []domain.Opportunity {
	return s.opps
}

type panicStrategy struct{}

func (panicStrategy) Name() domain.StrategyTag { return "panics" }
func (panicStrategy) Detect(context.Context, *Run) []domain.Opportunity {
	panic("boom")
}

func TestEngineDeduplicates(t *testing.T) {
	opp := domain.Opportunity{ID: "abc", Strategy: "stub", QualityScore: 50, RiskScore: 0.1}
	e := NewEngine(testParams(), testLogger(),
		stubStrategy{name: "one", opps: []domain.Opportunity{opp, opp}},
		stubStrategy{name: "two", opps: []domain.Opportunity{opp}},
	)

	got := e.Detect(context.Background(), testRun(nil, nil))
	assert.Len(t, got, 1)
}

func TestEngineRiskFilterAndOrdering(t *testing.T) {
	e := NewEngine(testParams(), testLogger(), stubStrategy{name: "stub", opps: []domain.Opportunity{
		{ID: "low-quality", QualityScore: 20, RiskScore: 0.2},
		{ID: "too-risky", QualityScore: 90, RiskScore: 0.9},
		{ID: "high-quality", QualityScore: 70, RiskScore: 0.3},
	}})

	got := e.Detect(context.Background(), testRun(nil, nil))
	require.Len(t, got, 2)
	assert.Equal(t, "high-quality", got[0].ID)
	assert.Equal(t, "low-quality", got[1].ID)
}

func TestEngineSurvivesPanickingStrategy(t *testing.T) {
	opp := domain.Opportunity{ID: "ok", QualityScore: 50, RiskScore: 0.1}
	e := NewEngine(testParams(), testLogger(),
		panicStrategy{},
		stubStrategy{name: "stub", opps: []domain.Opportunity{opp}},
	)

	got := e.Detect(context.Background(), testRun(nil, nil))
	require.Len(t, got, 1)
	assert.Equal(t, "ok", got[0].ID)
}

func TestDeduperClaim(t *testing.T) {
	d := NewDeduper()
	assert.True(t, d.Claim("a"))
	assert.False(t, d.Claim("a"))
	assert.True(t, d.Claim("b"))
}

// Full pipeline over a real snapshot: two venues quoting complementary sides
// of the same event, plus a single-venue Yes/No mispricing.
func TestEngineEndToEnd(t *testing.T) {
	run := testRun(nil, nil)

	polyYes := market("polymarket", "p1", "Will Trump win the 2028 presidential election?", "Yes", 0.40)
	kalshiNo := market("kalshi", "k1", "Trump to win 2028 presidential race", "No", 0.40)
	rebalYes := market("manifold", "m1", "Will it rain in Denver this week? Yes", "Yes", 0.42)
	rebalNo := market("manifold", "m1", "Will it rain in Denver this week? No", "No", 0.46)

	run.Markets = []domain.Market{polyYes, kalshiNo, rebalYes, rebalNo}
	pairs, _ := run.Matcher.FindPairs(run.Markets)
	require.Len(t, pairs, 1, "the cross-venue pair should match")
	run.Pairs = pairs

	e := NewEngine(testParams(), testLogger(), DefaultStrategies(testParams())...)
	got := e.Detect(context.Background(), run)

	byStrategy := map[domain.StrategyTag]int{}
	for _, opp := range got {
		byStrategy[opp.Strategy]++
	}
	assert.GreaterOrEqual(t, byStrategy[domain.StrategyClassic], 1)
	assert.GreaterOrEqual(t, byStrategy[domain.StrategyRebalancing], 1)

	// Quality ordering holds across strategies.
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].QualityScore, got[i].QualityScore)
	}
	// Every opportunity satisfies the risk ceiling and profit floor.
	for _, opp := range got {
		assert.LessOrEqual(t, opp.RiskScore, testParams().MaxRiskScore)
		assert.GreaterOrEqual(t, opp.NetProfitPct, testParams().MinProfitPct)
		assert.NotEmpty(t, opp.ID)
		assert.NotEmpty(t, opp.ExecutionSteps)
	}
}
