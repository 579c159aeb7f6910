package strategy

import (
	"context"
	"fmt"
	"math"

	"github.com/younglubz/Predictionarb/internal/domain"
	"github.com/younglubz/Predictionarb/internal/scoring"
)

// Execution speed labels for short-term trades.
const (
	SpeedFast   = "fast"
	SpeedMedium = "medium"
	SpeedSlow   = "slow"
)

// ShortTerm applies the probability-spread mechanics to markets resolving
// within a near-term window, where positions can be closed the same day. It
// demands deeper liquidity and a wider spread than the base engine because
// these windows punish slow fills.
type ShortTerm struct {
	params Params
}

func NewShortTerm(params Params) *ShortTerm {
	return &ShortTerm{params: params}
}

func (s *ShortTerm) Name() domain.StrategyTag { return domain.StrategyShortTerm }

func (s *ShortTerm) Detect(_ context.Context, run *Run) []domain.Opportunity {
	minLiq := s.params.MinLiquidity * s.params.ShortTermLiquidityFactor

	var opps []domain.Opportunity
	for _, pair := range run.Pairs {
		if minLiquidity(pair.A, pair.B) < minLiq {
			continue
		}

		ha, okA := pair.A.HoursToExpiry(run.Now)
		hb, okB := pair.B.HoursToExpiry(run.Now)
		if !okA || !okB {
			continue
		}
		hours := math.Min(ha, hb)
		if hours < s.params.MinExpiryHours || hours > s.params.MaxExpiryHours {
			continue
		}

		legs, ok := normalizeSpread(pair)
		if !ok || legs.Spread < s.params.ShortTermMinSpreadPct {
			continue
		}

		netPct, fees := spreadProfit(run.Fees, legs, s.params.Notional)
		if netPct < s.params.MinProfitPct {
			continue
		}
		opps = append(opps, s.build(run, pair, legs, hours, netPct, fees))
	}
	return opps
}

func (s *ShortTerm) build(run *Run, pair domain.Pair, legs spreadLegs, hours, netPct, fees float64) domain.Opportunity {
	markets := []domain.Market{legs.Low, legs.High}
	liq := scoring.Liquidity(markets)
	risk := scoring.Risk(scoring.RiskInputs{
		LiquidityScore: liq,
		MultiVenue:     true,
		RequiresSell:   true,
		ProfitPct:      netPct,
		Confidence:     pair.Confidence,
		HasExpiry:      true,
		HoursToExpiry:  hours,
	})

	// Wider spreads flip faster; a crude but useful volatility proxy.
	volatility := math.Min(legs.Spread*2, 1.0)

	quality := scoring.Quality(scoring.QualityInputs{
		ProfitPct:       netPct,
		Confidence:      pair.Confidence,
		LiquidityScore:  liq,
		RiskScore:       risk,
		HasSpread:       true,
		SpreadPct:       legs.Spread,
		HasVolatility:   true,
		VolatilityScore: volatility,
	})

	avgLiq := (legs.Low.Liquidity + legs.High.Liquidity) / 2
	speed := SpeedSlow
	switch {
	case avgLiq > 10000 && legs.Spread > 0.05:
		speed = SpeedFast
	case avgLiq > 5000:
		speed = SpeedMedium
	}

	return domain.Opportunity{
		ID:                domain.OpportunityID(domain.StrategyShortTerm, markets),
		Strategy:          domain.StrategyShortTerm,
		Variant:           "short_term_spread",
		Markets:           markets,
		GrossProfitPct:    legs.Spread / legs.ProbLow,
		NetProfitPct:      netPct,
		Fees:              fees,
		Investment:        s.params.Notional,
		ExpectedReturn:    s.params.Notional * (1 + netPct),
		Confidence:        pair.Confidence,
		RiskScore:         risk,
		LiquidityScore:    liq,
		QualityScore:      quality,
		RiskLevel:         scoring.Level(risk),
		SpreadPct:         legs.Spread,
		TimeToExpiryHours: hours,
		VolatilityScore:   volatility,
		ExecutionSpeed:    speed,
		Explanation: fmt.Sprintf("%.1f%% spread between %s (%.1f%%) and %s (%.1f%%), resolves in %.1fh, execution %s",
			legs.Spread*100, legs.Low.Venue, legs.ProbLow*100, legs.High.Venue, legs.ProbHigh*100, hours, speed),
		ExecutionSteps: []string{
			fmt.Sprintf("buy on %s at %.3f", legs.Low.Venue, legs.ProbLow),
			fmt.Sprintf("sell on %s at %.3f", legs.High.Venue, legs.ProbHigh),
			fmt.Sprintf("close both legs before resolution in %.1fh", hours),
		},
		Warnings:   standardWarnings(markets, run.Now),
		DetectedAt: run.Now,
	}
}
