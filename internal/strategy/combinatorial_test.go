package strategy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younglubz/Predictionarb/internal/domain"
)

func nWayGroup(total3 [3]float64) []domain.Market {
	q := "2028 presidential election winner"
	return []domain.Market{
		market("polymarket", "w1", q, "Candidate A", total3[0]),
		market("polymarket", "w2", q, "Candidate B", total3[1]),
		market("polymarket", "w3", q, "Candidate C", total3[2]),
	}
}

func TestCombinatorialMutexBuy(t *testing.T) {
	s := NewCombinatorial(testParams())
	markets := nWayGroup([3]float64{0.30, 0.30, 0.25})

	opps := s.Detect(context.Background(), testRun(markets, nil))
	require.Len(t, opps, 1)

	opp := opps[0]
	assert.Equal(t, "mutex_buy", opp.Variant)
	assert.InDelta(t, 0.85, opp.TotalProbability, 1e-9)
	assert.InDelta(t, 0.15/0.85, opp.GrossProfitPct, 1e-9)
	// Three polymarket legs at 2% each.
	assert.InDelta(t, 0.15/0.85-0.06, opp.NetProfitPct, 1e-9)
	assert.Equal(t, 0.90, opp.Confidence)
	assert.Len(t, opp.Markets, 3)
}

func TestCombinatorialMutexSell(t *testing.T) {
	s := NewCombinatorial(testParams())
	markets := nWayGroup([3]float64{0.45, 0.45, 0.40})

	opps := s.Detect(context.Background(), testRun(markets, nil))
	require.Len(t, opps, 1)

	opp := opps[0]
	assert.Equal(t, "mutex_sell", opp.Variant)
	assert.InDelta(t, 1.30, opp.TotalProbability, 1e-9)
	assert.InDelta(t, 0.30/1.30, opp.GrossProfitPct, 1e-9)
	assert.Equal(t, 0.85, opp.Confidence)
	assert.Contains(t, opp.Warnings, "selling requires margin collateral")
}

func TestCombinatorialMutexBandTolerated(t *testing.T) {
	s := NewCombinatorial(testParams())
	// Sum 1.03 sits inside the tolerated band around 1.0.
	markets := nWayGroup([3]float64{0.35, 0.35, 0.33})

	opps := s.Detect(context.Background(), testRun(markets, nil))
	assert.Empty(t, opps)
}

func TestCombinatorialPairsLeftToRebalancing(t *testing.T) {
	s := NewCombinatorial(testParams())
	q := "will it happen"
	markets := []domain.Market{
		market("polymarket", "p1", q, "Yes", 0.30),
		market("polymarket", "p1", q, "No", 0.30),
	}

	opps := s.Detect(context.Background(), testRun(markets, nil))
	assert.Empty(t, opps)
}

func TestCombinatorialLogicalInconsistency(t *testing.T) {
	s := NewCombinatorial(testParams())
	cand := market("polymarket", "c1", "Will Trump win the 2028 presidential election?", "Yes", 0.60)
	party := market("polymarket", "g1", "Will the Republican candidate win the 2028 presidential election?", "Yes", 0.50)

	opps := s.Detect(context.Background(), testRun([]domain.Market{cand, party}, nil))
	require.Len(t, opps, 1)

	opp := opps[0]
	assert.Equal(t, "logical_inconsistency", opp.Variant)
	assert.InDelta(t, 0.10, opp.GrossProfitPct, 1e-9)
	// Both legs pay polymarket's 2%.
	assert.InDelta(t, 0.10-0.04, opp.NetProfitPct, 1e-9)
	assert.Equal(t, 0.75, opp.Confidence)
	assert.Contains(t, opp.Warnings, "requires manual judgment")
}

func TestCombinatorialLogicalConsistentPricesSkipped(t *testing.T) {
	s := NewCombinatorial(testParams())
	// Candidate priced below the party is coherent.
	cand := market("polymarket", "c1", "Will Trump win the 2028 presidential election?", "Yes", 0.45)
	party := market("polymarket", "g1", "Will the Republican candidate win the 2028 presidential election?", "Yes", 0.50)

	opps := s.Detect(context.Background(), testRun([]domain.Market{cand, party}, nil))
	assert.Empty(t, opps)
}

func TestCombinatorialLogicalDifferentElectionsSkipped(t *testing.T) {
	s := NewCombinatorial(testParams())
	// Senate candidate market against a presidential party market.
	cand := market("polymarket", "c1", "Will Trump win the 2028 senate race?", "Yes", 0.60)
	party := market("polymarket", "g1", "Will the Republican candidate win the 2028 presidential election?", "Yes", 0.50)

	opps := s.Detect(context.Background(), testRun([]domain.Market{cand, party}, nil))
	assert.Empty(t, opps)
}
