package strategy

import (
	"context"
	"fmt"

	"github.com/younglubz/Predictionarb/internal/domain"
	"github.com/younglubz/Predictionarb/internal/scoring"
)

// ProbabilitySpread trades the raw probability gap between two venues
// quoting the same event. Unlike the classic engine it does not require a
// risk-free structure: any spread above the minimum is a buy-low/sell-high
// candidate, so it covers more venue pairs at the cost of matching noise.
type ProbabilitySpread struct {
	params Params
}

func NewProbabilitySpread(params Params) *ProbabilitySpread {
	return &ProbabilitySpread{params: params}
}

func (s *ProbabilitySpread) Name() domain.StrategyTag { return domain.StrategyProbability }

func (s *ProbabilitySpread) Detect(_ context.Context, run *Run) []domain.Opportunity {
	var opps []domain.Opportunity
	for _, pair := range run.Pairs {
		if minLiquidity(pair.A, pair.B) < s.params.MinLiquidity {
			continue
		}
		legs, ok := normalizeSpread(pair)
		if !ok || legs.Spread < s.params.MinSpreadPct {
			continue
		}

		netPct, fees := spreadProfit(run.Fees, legs, s.params.Notional)
		if netPct < s.params.MinProfitPct {
			continue
		}
		opps = append(opps, s.build(run, pair, legs, netPct, fees))
	}
	return opps
}

func (s *ProbabilitySpread) build(run *Run, pair domain.Pair, legs spreadLegs, netPct, fees float64) domain.Opportunity {
	markets := []domain.Market{legs.Low, legs.High}
	liq := scoring.Liquidity(markets)
	hours, hasExpiry := earliestExpiryHours(markets, run.Now)
	risk := scoring.Risk(scoring.RiskInputs{
		LiquidityScore: liq,
		MultiVenue:     true,
		RequiresSell:   true,
		ProfitPct:      netPct,
		Confidence:     pair.Confidence,
		HasExpiry:      hasExpiry,
		HoursToExpiry:  hours,
	})
	quality := scoring.Quality(scoring.QualityInputs{
		ProfitPct:      netPct,
		Confidence:     pair.Confidence,
		LiquidityScore: liq,
		RiskScore:      risk,
		HasSpread:      true,
		SpreadPct:      legs.Spread,
	})

	return domain.Opportunity{
		ID:             domain.OpportunityID(domain.StrategyProbability, markets),
		Strategy:       domain.StrategyProbability,
		Variant:        "probability_spread",
		Markets:        markets,
		GrossProfitPct: legs.Spread / legs.ProbLow,
		NetProfitPct:   netPct,
		Fees:           fees,
		Investment:     s.params.Notional,
		ExpectedReturn: s.params.Notional * (1 + netPct),
		Confidence:     pair.Confidence,
		RiskScore:      risk,
		LiquidityScore: liq,
		QualityScore:   quality,
		RiskLevel:      scoring.Level(risk),
		SpreadPct:      legs.Spread,
		Explanation: fmt.Sprintf("%.1f%% spread: buy on %s at %.1f%%, sell on %s at %.1f%%",
			legs.Spread*100, legs.Low.Venue, legs.ProbLow*100, legs.High.Venue, legs.ProbHigh*100),
		ExecutionSteps: []string{
			fmt.Sprintf("buy on %s at %.3f", legs.Low.Venue, legs.ProbLow),
			fmt.Sprintf("sell on %s at %.3f", legs.High.Venue, legs.ProbHigh),
			"close both positions when the spread converges",
		},
		Warnings:   standardWarnings(markets, run.Now),
		DetectedAt: run.Now,
	}
}
