// Package scoring grades detected opportunities on liquidity, risk and
// overall quality so every strategy reports comparable numbers.
package scoring

import (
	"math"

	"github.com/younglubz/Predictionarb/internal/domain"
)

// Liquidity returns a score in [0, 1] from three step functions: the worst
// leg's liquidity carries half the weight, combined 24h volume 30%, average
// liquidity 20%. Thin markets score zero.
func Liquidity(markets []domain.Market) float64 {
	if len(markets) == 0 {
		return 0
	}

	minLiq := math.Inf(1)
	totalVolume, sumLiq := 0.0, 0.0
	for _, m := range markets {
		if m.Liquidity > 0 && m.Liquidity < minLiq {
			minLiq = m.Liquidity
		}
		sumLiq += m.Liquidity
		totalVolume += m.Volume24h
	}
	if math.IsInf(minLiq, 1) {
		minLiq = 0
	}
	avgLiq := sumLiq / float64(len(markets))

	score := 0.0
	switch {
	case minLiq > 100000:
		score += 0.5
	case minLiq > 50000:
		score += 0.4
	case minLiq > 10000:
		score += 0.3
	case minLiq > 5000:
		score += 0.2
	case minLiq > 1000:
		score += 0.1
	}
	switch {
	case totalVolume > 100000:
		score += 0.3
	case totalVolume > 50000:
		score += 0.25
	case totalVolume > 10000:
		score += 0.2
	case totalVolume > 5000:
		score += 0.15
	case totalVolume > 1000:
		score += 0.1
	}
	switch {
	case avgLiq > 50000:
		score += 0.2
	case avgLiq > 20000:
		score += 0.15
	case avgLiq > 10000:
		score += 0.1
	case avgLiq > 5000:
		score += 0.05
	}
	return math.Min(score, 1.0)
}

// RiskInputs carries the risk factors a strategy knows about its own
// opportunity. HoursToExpiry is only read when HasExpiry is set.
type RiskInputs struct {
	LiquidityScore float64
	MultiVenue     bool
	RequiresSell   bool
	ProfitPct      float64
	Confidence     float64
	HasExpiry      bool
	HoursToExpiry  float64
}

// Risk combines the weighted risk factors into a score in [0, 1], higher
// meaning riskier. Suspiciously large profits raise risk rather than
// quality: across venues they are usually stale quotes, not free money.
func Risk(in RiskInputs) float64 {
	risk := (1 - in.LiquidityScore) * 0.3

	if in.MultiVenue {
		risk += 0.2
	}
	if in.RequiresSell {
		risk += 0.15
	}

	switch {
	case in.ProfitPct > 1.0:
		risk += 0.15
	case in.ProfitPct > 0.5:
		risk += 0.1
	case in.ProfitPct > 0.3:
		risk += 0.05
	}

	if in.HasExpiry {
		switch {
		case in.HoursToExpiry < 1:
			risk += 0.1
		case in.HoursToExpiry < 6:
			risk += 0.05
		case in.HoursToExpiry < 24:
			risk += 0.02
		}
	}

	switch {
	case in.Confidence < 0.5:
		risk += 0.1
	case in.Confidence < 0.7:
		risk += 0.05
	case in.Confidence < 0.8:
		risk += 0.02
	}

	return math.Min(risk, 1.0)
}

// QualityInputs carries the grading factors for Quality. SpreadPct and
// VolatilityScore are bonuses that only apply when their Has flag is set.
type QualityInputs struct {
	ProfitPct      float64
	Confidence     float64
	LiquidityScore float64
	RiskScore      float64

	HasSpread bool
	SpreadPct float64

	HasVolatility   bool
	VolatilityScore float64
}

// Quality grades an opportunity 0-100: profit 35 points, match confidence
// 25, liquidity 20, safety 15, plus small spread and volatility bonuses.
// Profit saturates at 50% so one absurd quote cannot dominate the grade.
func Quality(in QualityInputs) float64 {
	profitScore := math.Min(in.ProfitPct*100, 50)
	score := profitScore / 50 * 35

	score += in.Confidence * 25
	score += in.LiquidityScore * 20
	score += (1 - in.RiskScore) * 15

	if in.HasSpread {
		switch {
		case in.SpreadPct >= 0.02 && in.SpreadPct <= 0.15:
			score += 5
		case in.SpreadPct > 0.15 && in.SpreadPct <= 0.30:
			score += 3
		case in.SpreadPct > 0.30:
			score += 1
		}
	}
	if in.HasVolatility && in.VolatilityScore >= 0.3 && in.VolatilityScore <= 0.7 {
		score += 2
	}

	return math.Min(score, 100.0)
}

// Level buckets a risk score into a coarse label.
func Level(risk float64) domain.RiskLevel {
	switch {
	case risk < 0.3:
		return domain.RiskLow
	case risk < 0.6:
		return domain.RiskMedium
	default:
		return domain.RiskHigh
	}
}

// Rating buckets a quality score into a coarse label.
func Rating(quality float64) string {
	switch {
	case quality >= 80:
		return "excellent"
	case quality >= 60:
		return "good"
	case quality >= 40:
		return "fair"
	default:
		return "poor"
	}
}
