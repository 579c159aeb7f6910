package strategy

import (
	"time"

	"github.com/younglubz/Predictionarb/internal/domain"
	"github.com/younglubz/Predictionarb/internal/match"
)

var testNow = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func testFees() FeeTable {
	return FeeTable{
		Trading: map[string]float64{
			"polymarket": 0.02,
			"kalshi":     0.07,
			"predictit":  0.10,
			"manifold":   0.0,
		},
		Gas:        map[string]float64{"polymarket": 0.001},
		Default:    0.05,
		AssetPrice: 3000,
	}
}

func testParams() Params {
	return Params{
		MinProfitPct:             0.02,
		MinLiquidity:             100,
		MaxRiskScore:             0.7,
		Notional:                 100,
		ClassicSimilarityFloor:   0.70,
		MinSpreadPct:             0.02,
		ShortTermMinSpreadPct:    0.03,
		ShortTermLiquidityFactor: 2,
		MinExpiryHours:           1,
		MaxExpiryHours:           48,
		MutexSellAbove:           1.05,
		MutexBuyBelow:            0.95,
		MinLogicalDiff:           0.05,
	}
}

func testRun(markets []domain.Market, pairs []domain.Pair) *Run {
	return &Run{
		Markets: markets,
		Pairs:   pairs,
		Matcher: match.New(match.Config{
			SimilarityThreshold:  0.55,
			MaxExpiryGapDays:     21,
			MaxCandidateListSize: 5,
		}),
		Fees: testFees(),
		Now:  testNow,
	}
}

func market(venue, id, question, outcome string, price float64) domain.Market {
	return domain.Market{
		Venue:     venue,
		MarketID:  id,
		Question:  question,
		Outcome:   outcome,
		Price:     price,
		Liquidity: 5000,
		Volume24h: 2000,
	}
}

func withExpiry(m domain.Market, hours float64) domain.Market {
	t := testNow.Add(time.Duration(hours * float64(time.Hour)))
	m.ExpiresAt = &t
	return m
}
