package pipeline

import (
	"github.com/younglubz/Predictionarb/internal/config"
	"github.com/younglubz/Predictionarb/internal/match"
	"github.com/younglubz/Predictionarb/internal/strategy"
)

// FeeTableFromConfig builds the fee table the strategy engines use from the
// per-venue settings. Venue names are keyed lowercase.
func FeeTableFromConfig(cfg config.VenuesConfig) strategy.FeeTable {
	table := strategy.FeeTable{
		Trading:    make(map[string]float64),
		Gas:        make(map[string]float64),
		Default:    cfg.DefaultFee,
		AssetPrice: cfg.GasAssetPrice,
	}
	for name, vc := range cfg.EnabledVenues() {
		table.Trading[name] = vc.Fee
		if vc.GasFee > 0 {
			table.Gas[name] = vc.GasFee
		}
	}
	return table
}

// ParamsFromConfig maps the strategy configuration onto engine parameters.
func ParamsFromConfig(cfg config.StrategyConfig) strategy.Params {
	return strategy.Params{
		MinProfitPct: cfg.MinProfitPct,
		MinLiquidity: cfg.MinLiquidity,
		MaxRiskScore: cfg.MaxRiskScore,
		Notional:     cfg.Notional,

		ClassicSimilarityFloor: cfg.Classic.SimilarityFloor,
		MinSpreadPct:           cfg.Probability.MinSpreadPct,

		ShortTermMinSpreadPct:    cfg.ShortTerm.MinSpreadPct,
		ShortTermLiquidityFactor: cfg.ShortTerm.LiquidityFactor,
		MinExpiryHours:           cfg.ShortTerm.MinExpiryHours,
		MaxExpiryHours:           cfg.ShortTerm.MaxExpiryHours,

		MutexSellAbove: cfg.Combinatorial.MutexSellAbove,
		MutexBuyBelow:  cfg.Combinatorial.MutexBuyBelow,
		MinLogicalDiff: cfg.Combinatorial.MinLogicalDiff,
	}
}

// StrategiesFromConfig assembles the enabled engines in the standard order:
// rebalancing first so within-run dedup prefers the single-venue variant.
func StrategiesFromConfig(cfg config.StrategyConfig, params strategy.Params) []strategy.Strategy {
	var out []strategy.Strategy
	if cfg.Rebalancing.Enabled {
		out = append(out, strategy.NewRebalancing(params))
	}
	if cfg.Classic.Enabled {
		out = append(out, strategy.NewClassic(params))
	}
	if cfg.Combinatorial.Enabled {
		out = append(out, strategy.NewCombinatorial(params))
	}
	if cfg.Probability.Enabled {
		out = append(out, strategy.NewProbabilitySpread(params))
	}
	if cfg.ShortTerm.Enabled {
		out = append(out, strategy.NewShortTerm(params))
	}
	return out
}

// MatchConfigFromConfig maps matcher settings onto the cascade configuration.
func MatchConfigFromConfig(cfg config.MatcherConfig) match.Config {
	return match.Config{
		SimilarityThreshold:  cfg.SimilarityThreshold,
		MaxExpiryGapDays:     cfg.MaxExpiryGapDays,
		MaxCandidateListSize: cfg.MaxCandidateListSize,
	}
}
