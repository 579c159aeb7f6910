package strategy

import (
	"math"

	"github.com/younglubz/Predictionarb/internal/domain"
)

// spreadLegs is a matched pair normalized onto the same outcome polarity.
// Low is the leg to buy, High the leg to sell, with their normalized
// affirmative-side probabilities.
type spreadLegs struct {
	Low, High         domain.Market
	ProbLow, ProbHigh float64
	Spread            float64
}

// normalizeSpread flips complementary outcomes onto the affirmative side and
// orders the legs by normalized probability. Pairs whose outcomes are
// neither identical nor complementary are not comparable.
func normalizeSpread(pair domain.Pair) (spreadLegs, bool) {
	pa, pb := pair.A.Price, pair.B.Price
	switch {
	case domain.SameOutcome(pair.A.Outcome, pair.B.Outcome):
	case domain.ComplementaryOutcomes(pair.A.Outcome, pair.B.Outcome):
		if domain.IsNoOutcome(pair.A.Outcome) {
			pa = 1.0 - pa
		} else {
			pb = 1.0 - pb
		}
	default:
		return spreadLegs{}, false
	}

	legs := spreadLegs{Low: pair.A, High: pair.B, ProbLow: pa, ProbHigh: pb}
	if pa > pb {
		legs.Low, legs.High = pair.B, pair.A
		legs.ProbLow, legs.ProbHigh = pb, pa
	}
	legs.Spread = math.Abs(pa - pb)
	return legs, true
}

// spreadProfit computes the fee-adjusted return of buying the low leg and
// selling the high leg with a fixed notional.
func spreadProfit(fees FeeTable, legs spreadLegs, notional float64) (netPct, feeCost float64) {
	shares := notional / legs.ProbLow
	revenue := shares * legs.ProbHigh

	feeCost = notional*fees.TradingFee(legs.Low.Venue) +
		revenue*fees.TradingFee(legs.High.Venue) +
		fees.GasCost(legs.Low.Venue) + fees.GasCost(legs.High.Venue)

	net := revenue - notional - feeCost
	return net / notional, feeCost
}
