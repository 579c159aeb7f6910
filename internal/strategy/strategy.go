// Package strategy implements the arbitrage detection engines. Every engine
// consumes one immutable market snapshot (plus the matched cross-venue pairs)
// and emits opportunities sharing the domain.Opportunity contract.
package strategy

import (
	"context"
	"strings"
	"time"

	"github.com/younglubz/Predictionarb/internal/domain"
	"github.com/younglubz/Predictionarb/internal/match"
)

// FeeTable resolves per-venue trading fees and fixed on-chain gas costs.
// Venues missing from the table fall back to Default rather than erroring.
type FeeTable struct {
	// Trading maps venue name to a flat fee fraction per transaction.
	Trading map[string]float64
	// Gas maps venue name to a fixed on-chain cost in native asset units.
	Gas map[string]float64
	// Default is the trading fee assumed for unknown venues.
	Default float64
	// AssetPrice converts gas units to USD.
	AssetPrice float64
}

// TradingFee returns the flat fee fraction for a venue.
func (f FeeTable) TradingFee(venue string) float64 {
	if fee, ok := f.Trading[strings.ToLower(venue)]; ok {
		return fee
	}
	return f.Default
}

// GasCost returns the USD cost of one on-chain transaction on a venue, zero
// for off-chain venues.
func (f FeeTable) GasCost(venue string) float64 {
	return f.Gas[strings.ToLower(venue)] * f.AssetPrice
}

// Params are the thresholds shared by the strategy engines. Zero values are
// not usable; build them from config.
type Params struct {
	MinProfitPct float64
	MinLiquidity float64
	MaxRiskScore float64
	// Notional is the assumed investment in USD for profit calculations.
	Notional float64

	// ClassicSimilarityFloor is the stricter match confidence the classic
	// engine demands on top of the pairing threshold.
	ClassicSimilarityFloor float64

	// MinSpreadPct is the probability-spread engine's minimum spread.
	MinSpreadPct float64

	// Short-term window and bars.
	ShortTermMinSpreadPct    float64
	ShortTermLiquidityFactor float64
	MinExpiryHours           float64
	MaxExpiryHours           float64

	// Combinatorial thresholds. Mutex groups only trigger when the summed
	// probability leaves the [MutexBuyBelow, MutexSellAbove] band.
	MutexSellAbove float64
	MutexBuyBelow  float64
	// MinLogicalDiff is the smallest candidate-over-party probability excess
	// worth reporting.
	MinLogicalDiff float64
}

// Run is the immutable input of one detection cycle. Strategies read from it
// concurrently and never mutate it; cycle-scoped caches live inside Matcher.
type Run struct {
	Markets []domain.Market
	Pairs   []domain.Pair
	Matcher *match.Matcher
	Fees    FeeTable
	Now     time.Time
}

// Strategy is one detection engine. Detect never fails the cycle: scoring
// problems on individual pairs are skipped, not propagated.
type Strategy interface {
	Name() domain.StrategyTag
	Detect(ctx context.Context, run *Run) []domain.Opportunity
}

// Deduper suppresses duplicate opportunity identities within one run. It is
// recreated per cycle and not safe for concurrent use.
type Deduper struct {
	seen map[string]bool
}

func NewDeduper() *Deduper {
	return &Deduper{seen: make(map[string]bool)}
}

// Claim marks an identity as emitted and reports whether it was new.
func (d *Deduper) Claim(id string) bool {
	if d.seen[id] {
		return false
	}
	d.seen[id] = true
	return true
}

// earliestExpiryHours returns the hours to the nearest expiry among markets,
// ok=false when none carry one.
func earliestExpiryHours(markets []domain.Market, now time.Time) (float64, bool) {
	best, found := 0.0, false
	for _, m := range markets {
		h, ok := m.HoursToExpiry(now)
		if !ok {
			continue
		}
		if !found || h < best {
			best = h
			found = true
		}
	}
	return best, found
}

func minLiquidity(markets ...domain.Market) float64 {
	min := markets[0].Liquidity
	for _, m := range markets[1:] {
		if m.Liquidity < min {
			min = m.Liquidity
		}
	}
	return min
}

// standardWarnings flags thin legs, multi-venue execution and near expiry.
func standardWarnings(markets []domain.Market, now time.Time) []string {
	var warnings []string
	for _, m := range markets {
		if m.Liquidity < 100 {
			warnings = append(warnings, "low liquidity on "+m.Venue)
		}
	}
	venues := map[string]bool{}
	for _, m := range markets {
		venues[strings.ToLower(m.Venue)] = true
	}
	if len(venues) > 1 {
		warnings = append(warnings, "execution spans multiple venues")
	}
	if h, ok := earliestExpiryHours(markets, now); ok && h < 7*24 {
		warnings = append(warnings, "market resolves within a week")
	}
	return warnings
}
