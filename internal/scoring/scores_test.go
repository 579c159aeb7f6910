package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/younglubz/Predictionarb/internal/domain"
)

func liqMarket(liquidity, volume float64) domain.Market {
	return domain.Market{
		Venue:     "polymarket",
		MarketID:  "m",
		Question:  "q",
		Price:     0.5,
		Liquidity: liquidity,
		Volume24h: volume,
	}
}

func TestLiquiditySteps(t *testing.T) {
	assert.Zero(t, Liquidity(nil))
	assert.Zero(t, Liquidity([]domain.Market{liqMarket(0, 0)}))

	// Deep markets max out all three components.
	deep := []domain.Market{liqMarket(200000, 80000), liqMarket(150000, 60000)}
	assert.InDelta(t, 1.0, Liquidity(deep), 1e-9)

	// Min liquidity is taken over the worst leg.
	mixed := []domain.Market{liqMarket(200000, 0), liqMarket(2000, 0)}
	// min 2000 -> 0.1, volume 0 -> 0, avg 101000 -> 0.2
	assert.InDelta(t, 0.3, Liquidity(mixed), 1e-9)

	thin := []domain.Market{liqMarket(500, 500), liqMarket(800, 200)}
	assert.Zero(t, Liquidity(thin))
}

func TestRiskFactors(t *testing.T) {
	base := RiskInputs{LiquidityScore: 1.0, Confidence: 0.9, ProfitPct: 0.05}
	assert.Zero(t, Risk(base))

	in := base
	in.MultiVenue = true
	assert.InDelta(t, 0.2, Risk(in), 1e-9)

	in = base
	in.RequiresSell = true
	assert.InDelta(t, 0.15, Risk(in), 1e-9)

	// Outsized profit is treated as a red flag.
	in = base
	in.ProfitPct = 1.5
	assert.InDelta(t, 0.15, Risk(in), 1e-9)
	in.ProfitPct = 0.6
	assert.InDelta(t, 0.1, Risk(in), 1e-9)
	in.ProfitPct = 0.35
	assert.InDelta(t, 0.05, Risk(in), 1e-9)

	in = base
	in.HasExpiry = true
	in.HoursToExpiry = 0.5
	assert.InDelta(t, 0.1, Risk(in), 1e-9)
	in.HoursToExpiry = 3
	assert.InDelta(t, 0.05, Risk(in), 1e-9)
	in.HoursToExpiry = 12
	assert.InDelta(t, 0.02, Risk(in), 1e-9)
	in.HoursToExpiry = 48
	assert.Zero(t, Risk(in))

	in = base
	in.Confidence = 0.4
	assert.InDelta(t, 0.1, Risk(in), 1e-9)
	in.Confidence = 0.65
	assert.InDelta(t, 0.05, Risk(in), 1e-9)
	in.Confidence = 0.75
	assert.InDelta(t, 0.02, Risk(in), 1e-9)
}

func TestRiskCapped(t *testing.T) {
	risk := Risk(RiskInputs{
		LiquidityScore: 0,
		MultiVenue:     true,
		RequiresSell:   true,
		ProfitPct:      2.0,
		Confidence:     0.1,
		HasExpiry:      true,
		HoursToExpiry:  0.2,
	})
	assert.InDelta(t, 1.0, risk, 1e-9)
}

func TestQuality(t *testing.T) {
	// Perfect inputs without bonuses hit 95.
	q := Quality(QualityInputs{
		ProfitPct:      0.50,
		Confidence:     1.0,
		LiquidityScore: 1.0,
		RiskScore:      0.0,
	})
	assert.InDelta(t, 95.0, q, 1e-9)

	// Profit contribution saturates at 50%.
	q2 := Quality(QualityInputs{ProfitPct: 3.0})
	assert.InDelta(t, 35.0+15.0, q2, 1e-9)

	// Spread bonus tiers.
	base := QualityInputs{ProfitPct: 0.05, Confidence: 0.8, LiquidityScore: 0.5, RiskScore: 0.3}
	plain := Quality(base)

	ideal := base
	ideal.HasSpread, ideal.SpreadPct = true, 0.08
	assert.InDelta(t, plain+5, Quality(ideal), 1e-9)

	wide := base
	wide.HasSpread, wide.SpreadPct = true, 0.25
	assert.InDelta(t, plain+3, Quality(wide), 1e-9)

	suspicious := base
	suspicious.HasSpread, suspicious.SpreadPct = true, 0.5
	assert.InDelta(t, plain+1, Quality(suspicious), 1e-9)

	// Moderate volatility bonus.
	vol := base
	vol.HasVolatility, vol.VolatilityScore = true, 0.5
	assert.InDelta(t, plain+2, Quality(vol), 1e-9)
}

func TestLevels(t *testing.T) {
	assert.Equal(t, domain.RiskLow, Level(0.29))
	assert.Equal(t, domain.RiskMedium, Level(0.3))
	assert.Equal(t, domain.RiskMedium, Level(0.59))
	assert.Equal(t, domain.RiskHigh, Level(0.6))

	assert.Equal(t, "excellent", Rating(80))
	assert.Equal(t, "good", Rating(65))
	assert.Equal(t, "fair", Rating(40))
	assert.Equal(t, "poor", Rating(10))
}
