package domain

import (
	"fmt"
	"strings"
	"time"
)

// Price sanity band. Prices at or beyond these bounds mean the market has
// effectively resolved and is not tradable.
const (
	MinTradablePrice = 0.01
	MaxTradablePrice = 0.99
)

// Market is an immutable snapshot of one tradable outcome on one venue,
// produced by a venue fetcher on every refresh cycle. Price is the implied
// probability of the outcome, strictly inside (0,1).
type Market struct {
	Venue     string     `json:"venue"`
	MarketID  string     `json:"market_id"`
	Question  string     `json:"question"`
	Outcome   string     `json:"outcome"`
	Price     float64    `json:"price"`
	Volume24h float64    `json:"volume_24h"`
	Liquidity float64    `json:"liquidity"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	URL       string     `json:"url,omitempty"`
}

// Key returns the market's identity tuple as a string. Two snapshots with the
// same key refer to the same tradable outcome across refresh cycles.
func (m Market) Key() string {
	return fmt.Sprintf("%s:%s:%s", strings.ToLower(m.Venue), m.MarketID, strings.ToLower(m.Outcome))
}

// Tradable reports whether the market can participate in detection: the price
// must be inside the sanity band and the question non-empty. Markets outside
// the band are treated as already resolved, not as errors.
func (m Market) Tradable() bool {
	if m.Question == "" || m.MarketID == "" {
		return false
	}
	return m.Price > MinTradablePrice && m.Price < MaxTradablePrice
}

// HoursToExpiry returns the time remaining until the market's expiry in
// hours, or ok=false when no expiry is known.
func (m Market) HoursToExpiry(now time.Time) (float64, bool) {
	if m.ExpiresAt == nil {
		return 0, false
	}
	return m.ExpiresAt.Sub(now).Hours(), true
}

// IsYesOutcome reports whether the outcome label is an affirmative side.
func IsYesOutcome(outcome string) bool {
	switch strings.ToLower(strings.TrimSpace(outcome)) {
	case "yes", "true", "will", "above", "over":
		return true
	}
	return false
}

// IsNoOutcome reports whether the outcome label is a negative side.
func IsNoOutcome(outcome string) bool {
	switch strings.ToLower(strings.TrimSpace(outcome)) {
	case "no", "false", "won't", "wont", "below", "under":
		return true
	}
	return false
}

// ComplementaryOutcomes reports whether two outcome labels are opposite sides
// of the same binary bet (Yes/No, True/False, ...).
func ComplementaryOutcomes(a, b string) bool {
	return (IsYesOutcome(a) && IsNoOutcome(b)) || (IsNoOutcome(a) && IsYesOutcome(b))
}

// SameOutcome reports whether two outcome labels refer to the same side,
// ignoring case and surrounding whitespace.
func SameOutcome(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
