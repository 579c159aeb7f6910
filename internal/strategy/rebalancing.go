package strategy

import (
	"context"
	"fmt"
	"strings"

	"github.com/younglubz/Predictionarb/internal/domain"
	"github.com/younglubz/Predictionarb/internal/scoring"
)

// Rebalancing detects Yes/No mispricing within a single venue: the two sides
// of one binary question should price to 1.0, so a sum below 1 is a
// risk-free buy of both legs and a sum above 1 is a margin-backed sell.
type Rebalancing struct {
	params Params
}

func NewRebalancing(params Params) *Rebalancing {
	return &Rebalancing{params: params}
}

func (s *Rebalancing) Name() domain.StrategyTag { return domain.StrategyRebalancing }

func (s *Rebalancing) Detect(_ context.Context, run *Run) []domain.Opportunity {
	var opps []domain.Opportunity
	for _, group := range groupByBaseQuestion(run.Markets) {
		if len(group) < 2 {
			continue
		}
		var yesSide, noSide []domain.Market
		for _, m := range group {
			switch {
			case domain.IsYesOutcome(m.Outcome):
				yesSide = append(yesSide, m)
			case domain.IsNoOutcome(m.Outcome):
				noSide = append(noSide, m)
			}
		}
		for _, yes := range yesSide {
			for _, no := range noSide {
				if opp, ok := s.check(run, yes, no); ok {
					opps = append(opps, opp)
				}
			}
		}
	}
	return opps
}

func (s *Rebalancing) check(run *Run, yes, no domain.Market) (domain.Opportunity, bool) {
	if minLiquidity(yes, no) < s.params.MinLiquidity {
		return domain.Opportunity{}, false
	}

	total := yes.Price + no.Price
	fee := run.Fees.TradingFee(yes.Venue)
	// Per-leg fees are proportional to each leg's price per unit payout.
	legFees := yes.Price*fee + no.Price*fee

	switch {
	case total < 1.0:
		gross := 1.0 - total
		net := gross - legFees
		if net < s.params.MinProfitPct {
			return domain.Opportunity{}, false
		}
		return s.build(run, yes, no, rebalArgs{
			variant:    "rebalancing_buy",
			gross:      gross,
			net:        net,
			fees:       legFees,
			investment: total,
			expected:   1.0,
			confidence: 0.95,
			explanation: fmt.Sprintf("YES %.3f + NO %.3f = %.3f on %s, buying both locks in 1.00",
				yes.Price, no.Price, total, yes.Venue),
			steps: []string{
				fmt.Sprintf("buy %s at %.3f", yes.Outcome, yes.Price),
				fmt.Sprintf("buy %s at %.3f", no.Outcome, no.Price),
				"hold to resolution, one side always pays 1.00",
			},
		}), true

	case total > 1.0:
		gross := total - 1.0
		net := gross - legFees
		if net < s.params.MinProfitPct {
			return domain.Opportunity{}, false
		}
		return s.build(run, yes, no, rebalArgs{
			variant:      "rebalancing_sell",
			gross:        gross,
			net:          net,
			fees:         legFees,
			investment:   1.0,
			expected:     total,
			confidence:   0.80,
			requiresSell: true,
			explanation: fmt.Sprintf("YES %.3f + NO %.3f = %.3f on %s, selling both collects the premium",
				yes.Price, no.Price, total, yes.Venue),
			steps: []string{
				fmt.Sprintf("sell %s at %.3f", yes.Outcome, yes.Price),
				fmt.Sprintf("sell %s at %.3f", no.Outcome, no.Price),
				"post 1.00 collateral per pair sold",
				fmt.Sprintf("pay the winning side, keep %.3f", total-1.0),
			},
			extraWarnings: []string{
				"selling requires margin collateral",
				"margin call risk if prices move before resolution",
			},
		}), true
	}
	return domain.Opportunity{}, false
}

type rebalArgs struct {
	variant       string
	gross         float64
	net           float64
	fees          float64
	investment    float64
	expected      float64
	confidence    float64
	requiresSell  bool
	explanation   string
	steps         []string
	extraWarnings []string
}

func (s *Rebalancing) build(run *Run, yes, no domain.Market, a rebalArgs) domain.Opportunity {
	markets := []domain.Market{yes, no}
	liq := scoring.Liquidity(markets)
	hours, hasExpiry := earliestExpiryHours(markets, run.Now)
	risk := scoring.Risk(scoring.RiskInputs{
		LiquidityScore: liq,
		RequiresSell:   a.requiresSell,
		ProfitPct:      a.net,
		Confidence:     a.confidence,
		HasExpiry:      hasExpiry,
		HoursToExpiry:  hours,
	})
	quality := scoring.Quality(scoring.QualityInputs{
		ProfitPct:      a.net,
		Confidence:     a.confidence,
		LiquidityScore: liq,
		RiskScore:      risk,
	})

	return domain.Opportunity{
		ID:             domain.OpportunityID(domain.StrategyRebalancing, markets),
		Strategy:       domain.StrategyRebalancing,
		Variant:        a.variant,
		Markets:        markets,
		GrossProfitPct: a.gross,
		NetProfitPct:   a.net,
		Fees:           a.fees,
		Investment:     a.investment,
		ExpectedReturn: a.expected,
		Confidence:     a.confidence,
		RiskScore:      risk,
		LiquidityScore: liq,
		QualityScore:   quality,
		RiskLevel:      scoring.Level(risk),
		Explanation:    a.explanation,
		ExecutionSteps: a.steps,
		Warnings:       append(standardWarnings(markets, run.Now), a.extraWarnings...),
		DetectedAt:     run.Now,
	}
}

// groupByBaseQuestion buckets markets by venue plus the question text with
// the outcome label stripped, so the Yes and No rows of one binary market
// land in the same group.
func groupByBaseQuestion(markets []domain.Market) map[string][]domain.Market {
	groups := map[string][]domain.Market{}
	for _, m := range markets {
		key := strings.ToLower(m.Venue) + ":" + cleanQuestion(m.Question, m.Outcome)
		groups[key] = append(groups[key], m)
	}
	return groups
}

// cleanQuestion lowercases the question, removes the outcome token and all
// punctuation, and collapses whitespace.
func cleanQuestion(question, outcome string) string {
	q := strings.ToLower(question)
	if o := strings.ToLower(strings.TrimSpace(outcome)); o != "" {
		q = strings.ReplaceAll(q, o, "")
	}
	var b strings.Builder
	for _, r := range q {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == ' ' {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
