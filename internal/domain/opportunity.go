package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"time"
)

// StrategyTag identifies which detection strategy produced an opportunity.
type StrategyTag string

const (
	StrategyClassic       StrategyTag = "classic"
	StrategyRebalancing   StrategyTag = "rebalancing"
	StrategyCombinatorial StrategyTag = "combinatorial"
	StrategyProbability   StrategyTag = "probability_spread"
	StrategyShortTerm     StrategyTag = "short_term"
)

// RiskLevel buckets a numeric risk score into a coarse label.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Opportunity is the shared contract every strategy engine emits. A subset of
// the optional fields is populated depending on the strategy; the common
// fields are always set. Opportunities are created once per detection cycle
// and never mutated afterwards.
type Opportunity struct {
	ID       string      `json:"id"`
	Strategy StrategyTag `json:"strategy"`
	// Variant is the strategy-specific flavour, e.g. "rebalancing_buy",
	// "mutex_sell", "logical_inconsistency".
	Variant string `json:"variant"`

	Markets []Market `json:"markets"`

	GrossProfitPct float64 `json:"gross_profit_pct"`
	NetProfitPct   float64 `json:"net_profit_pct"`
	Fees           float64 `json:"fees"`
	// Investment and ExpectedReturn are in the strategy's own unit: USD for
	// notional-based strategies, summed probability for basket strategies.
	Investment     float64 `json:"investment"`
	ExpectedReturn float64 `json:"expected_return"`

	Confidence     float64   `json:"confidence"`
	RiskScore      float64   `json:"risk_score"`
	LiquidityScore float64   `json:"liquidity_score"`
	QualityScore   float64   `json:"quality_score"`
	RiskLevel      RiskLevel `json:"risk_level"`

	Explanation    string   `json:"explanation"`
	ExecutionSteps []string `json:"execution_steps"`
	Warnings       []string `json:"warnings,omitempty"`

	// Strategy-specific extras.
	SpreadPct         float64 `json:"spread_pct,omitempty"`
	TotalProbability  float64 `json:"total_probability,omitempty"`
	TimeToExpiryHours float64 `json:"time_to_expiry_hours,omitempty"`
	VolatilityScore   float64 `json:"volatility_score,omitempty"`
	ExecutionSpeed    string  `json:"execution_speed,omitempty"`

	DetectedAt time.Time `json:"detected_at"`
}

// OpportunityID derives the stable identity hash for a strategy + market set.
// Market order does not matter: identities are sorted before hashing, so the
// same grouping always yields the same ID within and across runs.
func OpportunityID(strategy StrategyTag, markets []Market) string {
	keys := make([]string, 0, len(markets))
	for _, m := range markets {
		keys = append(keys, m.Key())
	}
	sort.Strings(keys)
	sum := sha256.Sum256([]byte(string(strategy) + ":" + strings.Join(keys, ":")))
	return hex.EncodeToString(sum[:])[:16]
}
