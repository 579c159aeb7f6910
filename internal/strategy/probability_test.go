package strategy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younglubz/Predictionarb/internal/domain"
)

func TestProbabilitySpreadSameOutcome(t *testing.T) {
	s := NewProbabilitySpread(testParams())
	a := market("polymarket", "p1", "Will Trump win the 2028 election?", "Yes", 0.50)
	b := market("kalshi", "k1", "Will Trump win the 2028 election?", "Yes", 0.60)

	opps := s.Detect(context.Background(), testRun(nil, []domain.Pair{{A: a, B: b, Confidence: 0.8}}))
	require.Len(t, opps, 1)

	opp := opps[0]
	assert.Equal(t, domain.StrategyProbability, opp.Strategy)
	assert.InDelta(t, 0.10, opp.SpreadPct, 1e-9)
	assert.Equal(t, "polymarket", opp.Markets[0].Venue)
	// shares 200, revenue 120, fees 2 + 8.40 + 3 gas
	assert.InDelta(t, 13.40, opp.Fees, 1e-9)
	assert.InDelta(t, 0.066, opp.NetProfitPct, 1e-9)
}

func TestProbabilitySpreadFlipsComplementaryOutcome(t *testing.T) {
	s := NewProbabilitySpread(testParams())
	// No at 0.30 is an implied Yes at 0.70, so kalshi is the dear leg.
	a := market("manifold", "m1", "Will Trump win the 2028 election?", "Yes", 0.55)
	b := market("kalshi", "k1", "Will Trump win the 2028 election?", "No", 0.30)

	opps := s.Detect(context.Background(), testRun(nil, []domain.Pair{{A: a, B: b, Confidence: 0.8}}))
	require.Len(t, opps, 1)

	opp := opps[0]
	assert.InDelta(t, 0.15, opp.SpreadPct, 1e-9)
	assert.Equal(t, "manifold", opp.Markets[0].Venue)
	assert.Equal(t, "kalshi", opp.Markets[1].Venue)
}

func TestProbabilitySpreadBelowMinimum(t *testing.T) {
	s := NewProbabilitySpread(testParams())
	a := market("polymarket", "p1", "Will Trump win the 2028 election?", "Yes", 0.50)
	b := market("kalshi", "k1", "Will Trump win the 2028 election?", "Yes", 0.51)

	opps := s.Detect(context.Background(), testRun(nil, []domain.Pair{{A: a, B: b, Confidence: 0.8}}))
	assert.Empty(t, opps)
}

func TestProbabilitySpreadIncomparableOutcomes(t *testing.T) {
	s := NewProbabilitySpread(testParams())
	a := market("polymarket", "p1", "2028 election winner", "Candidate A", 0.50)
	b := market("kalshi", "k1", "2028 election winner", "Candidate B", 0.70)

	opps := s.Detect(context.Background(), testRun(nil, []domain.Pair{{A: a, B: b, Confidence: 0.8}}))
	assert.Empty(t, opps)
}

func TestNormalizeSpreadSymmetric(t *testing.T) {
	a := market("polymarket", "p1", "q", "Yes", 0.40)
	b := market("kalshi", "k1", "q", "No", 0.45)

	l1, ok1 := normalizeSpread(domain.Pair{A: a, B: b})
	l2, ok2 := normalizeSpread(domain.Pair{A: b, B: a})
	require.True(t, ok1)
	require.True(t, ok2)
	assert.Equal(t, l1.Low.Venue, l2.Low.Venue)
	assert.InDelta(t, l1.Spread, l2.Spread, 1e-9)
	assert.InDelta(t, l1.ProbLow, l2.ProbLow, 1e-9)
}
