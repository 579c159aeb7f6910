package strategy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younglubz/Predictionarb/internal/domain"
)

func TestClassicSameOutcome(t *testing.T) {
	s := NewClassic(testParams())
	a := market("manifold", "m1", "Will Trump win the 2028 election?", "Yes", 0.50)
	b := market("kalshi", "k1", "Will Trump win the 2028 election?", "Yes", 0.65)

	opps := s.Detect(context.Background(), testRun(nil, []domain.Pair{{A: a, B: b, Confidence: 0.85}}))
	require.Len(t, opps, 1)

	opp := opps[0]
	assert.Equal(t, domain.StrategyClassic, opp.Strategy)
	assert.Equal(t, "cross_venue_same_outcome", opp.Variant)
	// Buy leg is always the cheaper market.
	assert.Equal(t, "manifold", opp.Markets[0].Venue)
	assert.Equal(t, "kalshi", opp.Markets[1].Venue)
	assert.InDelta(t, 0.30, opp.GrossProfitPct, 1e-9)
	// shares 200, revenue 130, fees 0 + 130*0.07 = 9.10
	assert.InDelta(t, 9.10, opp.Fees, 1e-9)
	assert.InDelta(t, 0.209, opp.NetProfitPct, 1e-3)
	assert.Less(t, opp.NetProfitPct, opp.GrossProfitPct)
	assert.Equal(t, 0.85, opp.Confidence)
}

func TestClassicBuySellAssignmentStable(t *testing.T) {
	s := NewClassic(testParams())
	a := market("manifold", "m1", "Will Trump win the 2028 election?", "Yes", 0.50)
	b := market("kalshi", "k1", "Will Trump win the 2028 election?", "Yes", 0.65)

	fwd := s.Detect(context.Background(), testRun(nil, []domain.Pair{{A: a, B: b, Confidence: 0.85}}))
	rev := s.Detect(context.Background(), testRun(nil, []domain.Pair{{A: b, B: a, Confidence: 0.85}}))
	require.Len(t, fwd, 1)
	require.Len(t, rev, 1)

	assert.Equal(t, fwd[0].ID, rev[0].ID)
	assert.Equal(t, fwd[0].Markets[0].Venue, rev[0].Markets[0].Venue)
	assert.Equal(t, fwd[0].NetProfitPct, rev[0].NetProfitPct)
	assert.Equal(t, fwd[0].Fees, rev[0].Fees)
}

func TestClassicComplementaryBuy(t *testing.T) {
	s := NewClassic(testParams())
	yes := market("polymarket", "p1", "Will Trump win the 2028 election?", "Yes", 0.45)
	no := market("kalshi", "k1", "Will Trump win the 2028 election?", "No", 0.40)

	opps := s.Detect(context.Background(), testRun(nil, []domain.Pair{{A: no, B: yes, Confidence: 0.9}}))
	require.Len(t, opps, 1)

	opp := opps[0]
	assert.Equal(t, "cross_venue_complementary", opp.Variant)
	// Yes leg is listed first regardless of input order.
	assert.Equal(t, "Yes", opp.Markets[0].Outcome)
	assert.InDelta(t, 0.15/0.85, opp.GrossProfitPct, 1e-9)
	assert.Greater(t, opp.NetProfitPct, testParams().MinProfitPct)
	assert.Less(t, opp.NetProfitPct, opp.GrossProfitPct)
}

func TestClassicComplementaryOverpricedSkipped(t *testing.T) {
	s := NewClassic(testParams())
	// Combined price above 1.00 leaves nothing to lock in by buying both.
	yes := market("polymarket", "p1", "Will Trump win the 2028 election?", "Yes", 0.60)
	no := market("kalshi", "k1", "Will Trump win the 2028 election?", "No", 0.65)

	opps := s.Detect(context.Background(), testRun(nil, []domain.Pair{{A: yes, B: no, Confidence: 0.9}}))
	assert.Empty(t, opps)
}

func TestClassicSimilarityFloor(t *testing.T) {
	s := NewClassic(testParams())
	a := market("manifold", "m1", "Will Trump win the 2028 election?", "Yes", 0.50)
	b := market("kalshi", "k1", "Will Trump win the 2028 election?", "Yes", 0.65)

	// Matched by the pairing threshold but below the classic floor.
	opps := s.Detect(context.Background(), testRun(nil, []domain.Pair{{A: a, B: b, Confidence: 0.60}}))
	assert.Empty(t, opps)
}

func TestClassicLiquidityGate(t *testing.T) {
	s := NewClassic(testParams())
	a := market("manifold", "m1", "Will Trump win the 2028 election?", "Yes", 0.50)
	b := market("kalshi", "k1", "Will Trump win the 2028 election?", "Yes", 0.65)
	b.Liquidity = 50

	opps := s.Detect(context.Background(), testRun(nil, []domain.Pair{{A: a, B: b, Confidence: 0.85}}))
	assert.Empty(t, opps)
}

func TestClassicUnprofitableAfterFees(t *testing.T) {
	s := NewClassic(testParams())
	// 2% gross spread cannot survive kalshi's 7% sell fee.
	a := market("manifold", "m1", "Will Trump win the 2028 election?", "Yes", 0.50)
	b := market("kalshi", "k1", "Will Trump win the 2028 election?", "Yes", 0.51)

	opps := s.Detect(context.Background(), testRun(nil, []domain.Pair{{A: a, B: b, Confidence: 0.85}}))
	assert.Empty(t, opps)
}
