package strategy

import (
	"context"
	"log/slog"
	"sort"

	"github.com/younglubz/Predictionarb/internal/domain"
)

// Engine runs every registered strategy over one detection cycle, then
// deduplicates, risk-filters and ranks the combined result.
type Engine struct {
	strategies []Strategy
	params     Params
	logger     *slog.Logger
}

func NewEngine(params Params, logger *slog.Logger, strategies ...Strategy) *Engine {
	return &Engine{
		strategies: strategies,
		params:     params,
		logger:     logger.With(slog.String("component", "strategy-engine")),
	}
}

// DefaultStrategies builds the standard five-engine set.
func DefaultStrategies(params Params) []Strategy {
	return []Strategy{
		NewRebalancing(params),
		NewClassic(params),
		NewCombinatorial(params),
		NewProbabilitySpread(params),
		NewShortTerm(params),
	}
}

// Detect runs all strategies over the run input. A panic inside one strategy
// is logged and skips only that strategy's output; remaining engines still
// run. The returned slice is deduplicated, filtered to the acceptable risk
// band and sorted by quality descending.
func (e *Engine) Detect(ctx context.Context, run *Run) []domain.Opportunity {
	dedup := NewDeduper()

	var all []domain.Opportunity
	for _, strat := range e.strategies {
		if ctx.Err() != nil {
			break
		}
		for _, opp := range e.detectOne(ctx, strat, run) {
			if dedup.Claim(opp.ID) {
				all = append(all, opp)
			}
		}
	}

	filtered := all[:0]
	for _, opp := range all {
		if opp.RiskScore <= e.params.MaxRiskScore {
			filtered = append(filtered, opp)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].QualityScore > filtered[j].QualityScore
	})

	e.logger.Info("detection cycle complete",
		slog.Int("markets", len(run.Markets)),
		slog.Int("pairs", len(run.Pairs)),
		slog.Int("found", len(all)),
		slog.Int("kept", len(filtered)))
	return filtered
}

func (e *Engine) detectOne(ctx context.Context, strat Strategy, run *Run) (opps []domain.Opportunity) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("strategy panicked",
				slog.String("strategy", string(strat.Name())),
				slog.Any("panic", r))
			opps = nil
		}
	}()

	opps = strat.Detect(ctx, run)
	e.logger.Debug("strategy finished",
		slog.String("strategy", string(strat.Name())),
		slog.Int("opportunities", len(opps)))
	return opps
}
