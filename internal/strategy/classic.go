package strategy

import (
	"context"
	"fmt"

	"github.com/younglubz/Predictionarb/internal/domain"
	"github.com/younglubz/Predictionarb/internal/scoring"
)

// Classic detects cross-venue arbitrage on matched pairs: buy the cheap leg
// and sell the dear one when both carry the same outcome, or buy both legs of
// a complementary pair whose prices sum below 1.
type Classic struct {
	params Params
}

func NewClassic(params Params) *Classic {
	return &Classic{params: params}
}

func (s *Classic) Name() domain.StrategyTag { return domain.StrategyClassic }

func (s *Classic) Detect(_ context.Context, run *Run) []domain.Opportunity {
	var opps []domain.Opportunity
	for _, pair := range run.Pairs {
		if pair.Confidence < s.params.ClassicSimilarityFloor {
			continue
		}
		if minLiquidity(pair.A, pair.B) < s.params.MinLiquidity {
			continue
		}

		var (
			opp domain.Opportunity
			ok  bool
		)
		switch {
		case domain.SameOutcome(pair.A.Outcome, pair.B.Outcome):
			opp, ok = s.sameOutcome(run, pair)
		case domain.ComplementaryOutcomes(pair.A.Outcome, pair.B.Outcome):
			opp, ok = s.complementary(run, pair)
		}
		if ok {
			opps = append(opps, opp)
		}
	}
	return opps
}

// sameOutcome buys the lower-priced leg and sells the higher one. The buy
// leg is always the cheaper market regardless of input order.
func (s *Classic) sameOutcome(run *Run, pair domain.Pair) (domain.Opportunity, bool) {
	buy, sell := pair.A, pair.B
	if sell.Price < buy.Price {
		buy, sell = sell, buy
	}

	notional := s.params.Notional
	shares := notional / buy.Price
	revenue := shares * sell.Price
	fees := notional*run.Fees.TradingFee(buy.Venue) +
		revenue*run.Fees.TradingFee(sell.Venue) +
		run.Fees.GasCost(buy.Venue) + run.Fees.GasCost(sell.Venue)

	grossPct := (sell.Price - buy.Price) / buy.Price
	netProfit := revenue - notional - fees
	netPct := netProfit / notional
	if netPct < s.params.MinProfitPct {
		return domain.Opportunity{}, false
	}

	markets := []domain.Market{buy, sell}
	return s.build(run, pair, markets, buildArgs{
		variant:      "cross_venue_same_outcome",
		grossPct:     grossPct,
		netPct:       netPct,
		fees:         fees,
		investment:   notional,
		expected:     revenue,
		requiresSell: true,
		explanation: fmt.Sprintf("buy %s on %s at %.3f, sell on %s at %.3f",
			buy.Outcome, buy.Venue, buy.Price, sell.Venue, sell.Price),
		steps: []string{
			fmt.Sprintf("buy %s on %s at %.3f", buy.Outcome, buy.Venue, buy.Price),
			fmt.Sprintf("sell %s on %s at %.3f", sell.Outcome, sell.Venue, sell.Price),
			"hold until prices converge or the market resolves",
		},
	}), true
}

// complementary buys both sides of a Yes/No pair priced below 1 combined:
// exactly one side pays out, so the basket locks in the shortfall.
func (s *Classic) complementary(run *Run, pair domain.Pair) (domain.Opportunity, bool) {
	yes, no := pair.A, pair.B
	if domain.IsNoOutcome(yes.Outcome) {
		yes, no = no, yes
	}

	total := yes.Price + no.Price
	if total <= 0 || total >= 1 {
		return domain.Opportunity{}, false
	}

	notional := s.params.Notional
	shares := notional / total
	payout := shares * 1.0
	fees := shares*yes.Price*run.Fees.TradingFee(yes.Venue) +
		shares*no.Price*run.Fees.TradingFee(no.Venue) +
		run.Fees.GasCost(yes.Venue) + run.Fees.GasCost(no.Venue)

	grossPct := (1.0 - total) / total
	netProfit := payout - notional - fees
	netPct := netProfit / notional
	if netPct < s.params.MinProfitPct {
		return domain.Opportunity{}, false
	}

	markets := []domain.Market{yes, no}
	return s.build(run, pair, markets, buildArgs{
		variant:    "cross_venue_complementary",
		grossPct:   grossPct,
		netPct:     netPct,
		fees:       fees,
		investment: notional,
		expected:   payout,
		explanation: fmt.Sprintf("buy YES on %s at %.3f and NO on %s at %.3f, combined %.3f < 1.00",
			yes.Venue, yes.Price, no.Venue, no.Price, total),
		steps: []string{
			fmt.Sprintf("buy %s on %s at %.3f", yes.Outcome, yes.Venue, yes.Price),
			fmt.Sprintf("buy %s on %s at %.3f", no.Outcome, no.Venue, no.Price),
			"hold to resolution, exactly one leg pays 1.00",
		},
	}), true
}

type buildArgs struct {
	variant      string
	grossPct     float64
	netPct       float64
	fees         float64
	investment   float64
	expected     float64
	requiresSell bool
	explanation  string
	steps        []string
}

func (s *Classic) build(run *Run, pair domain.Pair, markets []domain.Market, a buildArgs) domain.Opportunity {
	liq := scoring.Liquidity(markets)
	hours, hasExpiry := earliestExpiryHours(markets, run.Now)
	risk := scoring.Risk(scoring.RiskInputs{
		LiquidityScore: liq,
		MultiVenue:     true,
		RequiresSell:   a.requiresSell,
		ProfitPct:      a.netPct,
		Confidence:     pair.Confidence,
		HasExpiry:      hasExpiry,
		HoursToExpiry:  hours,
	})
	quality := scoring.Quality(scoring.QualityInputs{
		ProfitPct:      a.netPct,
		Confidence:     pair.Confidence,
		LiquidityScore: liq,
		RiskScore:      risk,
	})

	return domain.Opportunity{
		ID:             domain.OpportunityID(domain.StrategyClassic, markets),
		Strategy:       domain.StrategyClassic,
		Variant:        a.variant,
		Markets:        markets,
		GrossProfitPct: a.grossPct,
		NetProfitPct:   a.netPct,
		Fees:           a.fees,
		Investment:     a.investment,
		ExpectedReturn: a.expected,
		Confidence:     pair.Confidence,
		RiskScore:      risk,
		LiquidityScore: liq,
		QualityScore:   quality,
		RiskLevel:      scoring.Level(risk),
		Explanation:    a.explanation,
		ExecutionSteps: a.steps,
		Warnings:       standardWarnings(markets, run.Now),
		DetectedAt:     run.Now,
	}
}
