package domain

// RejectReason names the cascade rule that disqualified a market pair.
type RejectReason string

const (
	RejectSameVenue        RejectReason = "same_exchange"
	RejectExpiryGap        RejectReason = "different_expiration_dates"
	RejectCountries        RejectReason = "different_countries"
	RejectYears            RejectReason = "different_years"
	RejectStates           RejectReason = "different_states"
	RejectParties          RejectReason = "different_parties"
	RejectPositions        RejectReason = "different_positions"
	RejectQuestionTypes    RejectReason = "different_question_types"
	RejectCandidates       RejectReason = "different_candidates"
	RejectBelowThreshold   RejectReason = "below_similarity_threshold"
	RejectUntradableMarket RejectReason = "untradable_market"
)

// MatchResult is the tagged outcome of an equivalence check between two
// markets from different venues. When Matched is true, Confidence carries the
// similarity score and Reason is empty; when false, Reason names the rule
// that rejected the pair. Results are transient and never persisted.
type MatchResult struct {
	MarketA    Market       `json:"market_a"`
	MarketB    Market       `json:"market_b"`
	Matched    bool         `json:"matched"`
	Confidence float64      `json:"confidence"`
	Reason     RejectReason `json:"reason,omitempty"`
}

// Pair is a confirmed equivalent market pair produced by the pairing search.
type Pair struct {
	A          Market  `json:"a"`
	B          Market  `json:"b"`
	Confidence float64 `json:"confidence"`
}
