package strategy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younglubz/Predictionarb/internal/domain"
)

func shortTermPair(hoursA, hoursB float64) domain.Pair {
	a := withExpiry(market("polymarket", "p1", "Will it rain in NYC tomorrow?", "Yes", 0.40), hoursA)
	b := withExpiry(market("kalshi", "k1", "Will it rain in NYC tomorrow?", "Yes", 0.55), hoursB)
	a.Liquidity, b.Liquidity = 12000, 9000
	a.Volume24h, b.Volume24h = 8000, 6000
	return domain.Pair{A: a, B: b, Confidence: 0.8}
}

func TestShortTermDetects(t *testing.T) {
	s := NewShortTerm(testParams())
	pair := shortTermPair(24, 30)

	opps := s.Detect(context.Background(), testRun(nil, []domain.Pair{pair}))
	require.Len(t, opps, 1)

	opp := opps[0]
	assert.Equal(t, domain.StrategyShortTerm, opp.Strategy)
	// The more urgent leg sets the horizon.
	assert.InDelta(t, 24, opp.TimeToExpiryHours, 1e-9)
	assert.InDelta(t, 0.15, opp.SpreadPct, 1e-9)
	assert.InDelta(t, 0.30, opp.VolatilityScore, 1e-9)
	// avg liquidity 10500 with a 15% spread executes fast.
	assert.Equal(t, SpeedFast, opp.ExecutionSpeed)
}

func TestShortTermWindow(t *testing.T) {
	s := NewShortTerm(testParams())

	// Outside the 1-48h window on the near side.
	opps := s.Detect(context.Background(), testRun(nil, []domain.Pair{shortTermPair(0.5, 24)}))
	assert.Empty(t, opps)

	// Both legs too far out.
	opps = s.Detect(context.Background(), testRun(nil, []domain.Pair{shortTermPair(72, 96)}))
	assert.Empty(t, opps)

	// Missing expiry on either leg disqualifies the pair.
	pair := shortTermPair(24, 30)
	pair.B.ExpiresAt = nil
	opps = s.Detect(context.Background(), testRun(nil, []domain.Pair{pair}))
	assert.Empty(t, opps)
}

func TestShortTermLiquidityBar(t *testing.T) {
	s := NewShortTerm(testParams())
	// Above the base minimum but below the doubled short-term bar.
	pair := shortTermPair(24, 30)
	pair.A.Liquidity = 150

	opps := s.Detect(context.Background(), testRun(nil, []domain.Pair{pair}))
	assert.Empty(t, opps)
}

func TestShortTermSpreadFloor(t *testing.T) {
	s := NewShortTerm(testParams())
	pair := shortTermPair(24, 30)
	// 2.5% clears the probability-spread floor but not the short-term one.
	pair.B.Price = pair.A.Price + 0.025

	opps := s.Detect(context.Background(), testRun(nil, []domain.Pair{pair}))
	assert.Empty(t, opps)
}

func TestShortTermExecutionSpeedTiers(t *testing.T) {
	s := NewShortTerm(testParams())

	pair := shortTermPair(24, 30)
	pair.A.Liquidity, pair.B.Liquidity = 7000, 6000
	opps := s.Detect(context.Background(), testRun(nil, []domain.Pair{pair}))
	require.Len(t, opps, 1)
	assert.Equal(t, SpeedMedium, opps[0].ExecutionSpeed)

	pair = shortTermPair(24, 30)
	pair.A.Liquidity, pair.B.Liquidity = 900, 800
	opps = s.Detect(context.Background(), testRun(nil, []domain.Pair{pair}))
	assert.Empty(t, opps, "sub-minimum liquidity never reaches speed grading")
}
