package strategy

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/younglubz/Predictionarb/internal/domain"
	"github.com/younglubz/Predictionarb/internal/match"
	"github.com/younglubz/Predictionarb/internal/scoring"
)

// Combinatorial detects two kinds of structural mispricing: N-way mutually
// exclusive outcome sets whose probabilities sum away from 1.0, and logical
// inconsistencies where a candidate's win probability exceeds their party's
// in the same election.
type Combinatorial struct {
	params Params
}

func NewCombinatorial(params Params) *Combinatorial {
	return &Combinatorial{params: params}
}

func (s *Combinatorial) Name() domain.StrategyTag { return domain.StrategyCombinatorial }

func (s *Combinatorial) Detect(_ context.Context, run *Run) []domain.Opportunity {
	opps := s.detectMutex(run)
	opps = append(opps, s.detectLogical(run)...)
	return opps
}

// detectMutex groups outcome rows of one underlying event on one venue and
// checks the probability sum. Groups need at least three outcomes: a binary
// pair is the rebalancing engine's territory.
func (s *Combinatorial) detectMutex(run *Run) []domain.Opportunity {
	groups := map[string][]domain.Market{}
	for _, m := range run.Markets {
		key := strings.ToLower(m.Venue) + ":" + baseEventKey(m.Question)
		groups[key] = append(groups[key], m)
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var opps []domain.Opportunity
	for _, key := range keys {
		group := groups[key]
		if len(group) < 3 {
			continue
		}

		total, fees := 0.0, 0.0
		for _, m := range group {
			total += m.Price
			fees += run.Fees.TradingFee(m.Venue)
		}

		switch {
		case total > s.params.MutexSellAbove:
			gross := (total - 1.0) / total
			net := gross - fees
			if net <= s.params.MinProfitPct {
				continue
			}
			opps = append(opps, s.buildMutex(run, group, mutexArgs{
				variant:      "mutex_sell",
				gross:        gross,
				net:          net,
				fees:         fees,
				total:        total,
				investment:   1.0,
				expected:     total,
				confidence:   0.85,
				requiresSell: true,
				explanation: fmt.Sprintf("sell all %d outcomes, probabilities sum to %.3f > 1.00",
					len(group), total),
				extraWarnings: []string{"selling requires margin collateral"},
			}))

		case total < s.params.MutexBuyBelow && total > 0:
			gross := (1.0 - total) / total
			net := gross - fees
			if net <= s.params.MinProfitPct {
				continue
			}
			opps = append(opps, s.buildMutex(run, group, mutexArgs{
				variant:    "mutex_buy",
				gross:      gross,
				net:        net,
				fees:       fees,
				total:      total,
				investment: total,
				expected:   1.0,
				confidence: 0.90,
				explanation: fmt.Sprintf("buy all %d outcomes, probabilities sum to %.3f < 1.00",
					len(group), total),
			}))
		}
	}
	return opps
}

type mutexArgs struct {
	variant       string
	gross         float64
	net           float64
	fees          float64
	total         float64
	investment    float64
	expected      float64
	confidence    float64
	requiresSell  bool
	explanation   string
	extraWarnings []string
}

func (s *Combinatorial) buildMutex(run *Run, markets []domain.Market, a mutexArgs) domain.Opportunity {
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

	verb := "buy"
	if a.requiresSell {
		verb = "sell"
	}
	steps := make([]string, 0, len(markets)+1)
	for _, m := range markets {
		steps = append(steps, fmt.Sprintf("%s %s at %.3f", verb, m.Outcome, m.Price))
	}
	steps = append(steps, "hold to resolution, exactly one outcome pays 1.00")

	return domain.Opportunity{
		ID:               domain.OpportunityID(domain.StrategyCombinatorial, markets),
		Strategy:         domain.StrategyCombinatorial,
		Variant:          a.variant,
		Markets:          markets,
		GrossProfitPct:   a.gross,
		NetProfitPct:     a.net,
		Fees:             a.fees,
		Investment:       a.investment,
		ExpectedReturn:   a.expected,
		Confidence:       a.confidence,
		RiskScore:        risk,
		LiquidityScore:   liq,
		QualityScore:     quality,
		RiskLevel:        scoring.Level(risk),
		TotalProbability: a.total,
		Explanation:      a.explanation,
		ExecutionSteps:   steps,
		Warnings:         append(standardWarnings(markets, run.Now), a.extraWarnings...),
		DetectedAt:       run.Now,
	}
}

// detectLogical reports candidate markets priced above their party's market
// in the same election. The candidate winning implies the party winning, so
// P(candidate) > P(party) cannot be coherent.
func (s *Combinatorial) detectLogical(run *Run) []domain.Opportunity {
	type leg struct {
		market domain.Market
		ents   match.EntitySet
	}
	elections := map[string][]leg{}
	for _, m := range run.Markets {
		ents := run.Matcher.Entities(m.Question)
		if len(ents.Positions) == 0 && len(ents.Years) == 0 {
			continue
		}
		elections[electionKey(ents)] = append(elections[electionKey(ents)], leg{m, ents})
	}

	keys := make([]string, 0, len(elections))
	for k := range elections {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var opps []domain.Opportunity
	for _, key := range keys {
		group := elections[key]
		for _, cand := range group {
			if len(cand.ents.Candidates) != 1 {
				continue
			}
			name := cand.ents.Candidates[0]
			party, ok := match.CandidateParty(name)
			if !ok {
				continue
			}
			for _, pm := range group {
				if len(pm.ents.Candidates) > 0 || !containsValue(pm.ents.Parties, party) {
					continue
				}
				diff := cand.market.Price - pm.market.Price
				if diff < s.params.MinLogicalDiff {
					continue
				}
				fees := run.Fees.TradingFee(cand.market.Venue) + run.Fees.TradingFee(pm.market.Venue)
				net := diff - fees
				if net < s.params.MinProfitPct {
					continue
				}
				opps = append(opps, s.buildLogical(run, cand.market, pm.market, name, party, diff, net, fees))
			}
		}
	}
	return opps
}

func (s *Combinatorial) buildLogical(run *Run, candM, partyM domain.Market, name, party string, diff, net, fees float64) domain.Opportunity {
	markets := []domain.Market{candM, partyM}
	liq := scoring.Liquidity(markets)
	const confidence = 0.75
	risk := scoring.Risk(scoring.RiskInputs{
		LiquidityScore: liq,
		MultiVenue:     !strings.EqualFold(candM.Venue, partyM.Venue),
		ProfitPct:      net,
		Confidence:     confidence,
	})
	quality := scoring.Quality(scoring.QualityInputs{
		ProfitPct:      net,
		Confidence:     confidence,
		LiquidityScore: liq,
		RiskScore:      risk,
	})

	return domain.Opportunity{
		ID:             domain.OpportunityID(domain.StrategyCombinatorial, markets),
		Strategy:       domain.StrategyCombinatorial,
		Variant:        "logical_inconsistency",
		Markets:        markets,
		GrossProfitPct: diff,
		NetProfitPct:   net,
		Fees:           fees,
		Investment:     partyM.Price,
		ExpectedReturn: candM.Price,
		Confidence:     confidence,
		RiskScore:      risk,
		LiquidityScore: liq,
		QualityScore:   quality,
		RiskLevel:      scoring.Level(risk),
		Explanation: fmt.Sprintf("P(%s wins)=%.3f exceeds P(%s wins)=%.3f", name,
			candM.Price, party, partyM.Price),
		ExecutionSteps: []string{
			fmt.Sprintf("buy the party market at %.3f", partyM.Price),
			fmt.Sprintf("sell the candidate market at %.3f", candM.Price),
			"wait for the prices to reconcile",
		},
		Warnings: append(standardWarnings(markets, run.Now),
			"requires manual judgment", "prices may stay inconsistent until resolution"),
		DetectedAt: run.Now,
	}
}

// baseEventKey strips common outcome tokens from the question and keeps a
// 50-character prefix, enough to cluster outcome rows of one event.
func baseEventKey(question string) string {
	q := strings.ToLower(question)
	for _, outcome := range []string{"yes", "no", "above", "below", "over", "under"} {
		q = strings.ReplaceAll(q, outcome, "")
	}
	q = strings.TrimSpace(q)
	if len(q) > 50 {
		q = q[:50]
	}
	return q
}

func electionKey(ents match.EntitySet) string {
	year := "unknown"
	if len(ents.Years) > 0 {
		year = ents.Years[0]
	}
	position := "president"
	for _, p := range []string{"senate", "house", "governor"} {
		if containsValue(ents.Positions, p) {
			position = p
			break
		}
	}
	return year + "_" + position
}

func containsValue(xs []string, v string) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}
