// Package pipeline runs the periodic detection cycle: fetch every enabled
// venue in parallel, match equivalent markets across venues, run the strategy
// engines, then fan the results out to the store, the signal bus, the
// notifier and the run archive.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/younglubz/Predictionarb/internal/cache/redis"
	"github.com/younglubz/Predictionarb/internal/domain"
	"github.com/younglubz/Predictionarb/internal/match"
	"github.com/younglubz/Predictionarb/internal/strategy"
	"github.com/younglubz/Predictionarb/internal/venue"
)

// Archiver writes one completed run to object storage.
type Archiver interface {
	Archive(ctx context.Context, run domain.RunSummary, opps []domain.Opportunity) error
}

// Announcer delivers opportunity alerts.
type Announcer interface {
	OpportunitiesDetected(ctx context.Context, opps []domain.Opportunity) error
}

// Signal is the JSON envelope published on the opportunities channel after
// every cycle, consumed by the WebSocket hub and any external subscriber.
type Signal struct {
	Type          string               `json:"type"`
	Run           domain.RunSummary    `json:"run"`
	Opportunities []domain.Opportunity `json:"opportunities"`
}

// SignalTypeOpportunities tags the per-cycle detection envelope.
const SignalTypeOpportunities = "opportunities"

// Deps bundles everything a Scanner needs. Fetchers, MatchConfig, Engine and
// Fees are required; the rest are optional and skipped when nil.
type Deps struct {
	Fetchers    []venue.Fetcher
	MatchConfig match.Config
	Engine      *strategy.Engine
	Fees        strategy.FeeTable

	Cache    domain.MarketCache
	Store    domain.OpportunityStore
	Bus      domain.SignalBus
	Archiver Archiver
	Notifier Announcer

	PersistRuns bool
	ArchiveRuns bool
}

// Scanner executes detection cycles. One Scanner instance runs at most one
// cycle at a time; the shared State snapshot is what concurrent readers use.
type Scanner struct {
	deps   Deps
	state  *State
	logger *slog.Logger
	now    func() time.Time
}

func NewScanner(deps Deps, state *State, logger *slog.Logger) *Scanner {
	return &Scanner{
		deps:   deps,
		state:  state,
		logger: logger.With(slog.String("component", "scanner")),
		now:    time.Now,
	}
}

// Scan runs one full detection cycle. A venue failure degrades that venue to
// its cached snapshot (or to zero markets) instead of failing the cycle; the
// cycle errors only when no venue produced any market. Persistence, signal
// and notification failures are logged, never fatal.
func (s *Scanner) Scan(ctx context.Context) (domain.RunSummary, []domain.Opportunity, error) {
	started := s.now().UTC()
	runID := uuid.NewString()
	log := s.logger.With(slog.String("run_id", runID))

	markets, venueErrors := s.fetchAll(ctx, log)
	if len(markets) == 0 {
		return domain.RunSummary{RunID: runID, StartedAt: started, VenueErrors: venueErrors},
			nil, fmt.Errorf("pipeline: no markets available from any venue")
	}

	matcher := match.New(s.deps.MatchConfig)
	pairs, results := matcher.FindPairs(markets)
	log.Debug("pairing complete",
		slog.Int("markets", len(markets)),
		slog.Int("evaluated", len(results)),
		slog.Int("pairs", len(pairs)))

	opps := s.deps.Engine.Detect(ctx, &strategy.Run{
		Markets: markets,
		Pairs:   pairs,
		Matcher: matcher,
		Fees:    s.deps.Fees,
		Now:     started,
	})

	run := domain.RunSummary{
		RunID:         runID,
		StartedAt:     started,
		FinishedAt:    s.now().UTC(),
		MarketCount:   len(markets),
		PairCount:     len(pairs),
		Opportunities: len(opps),
		VenueErrors:   venueErrors,
	}

	s.state.Update(run, markets, pairs, opps)
	s.fanout(ctx, run, opps, log)

	log.Info("detection run finished",
		slog.Int("markets", run.MarketCount),
		slog.Int("pairs", run.PairCount),
		slog.Int("opportunities", run.Opportunities),
		slog.Duration("took", run.FinishedAt.Sub(run.StartedAt)))
	return run, opps, nil
}

// Run executes cycles on a fixed interval until the context is cancelled.
// The first cycle starts immediately.
func (s *Scanner) Run(ctx context.Context, interval time.Duration) error {
	s.scanLogged(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.scanLogged(ctx)
		}
	}
}

func (s *Scanner) scanLogged(ctx context.Context) {
	if _, _, err := s.Scan(ctx); err != nil && ctx.Err() == nil {
		s.logger.ErrorContext(ctx, "detection run failed", slog.String("error", err.Error()))
	}
}

// fetchAll queries every venue concurrently. Results keep the fetcher order
// so cycles are deterministic regardless of which venue answered first.
func (s *Scanner) fetchAll(ctx context.Context, log *slog.Logger) ([]domain.Market, []string) {
	type result struct {
		markets []domain.Market
		err     error
	}
	results := make([]result, len(s.deps.Fetchers))

	g, gctx := errgroup.WithContext(ctx)
	for i, f := range s.deps.Fetchers {
		i, f := i, f
		g.Go(func() error {
			markets, err := f.FetchMarkets(gctx)
			results[i] = result{markets: markets, err: err}
			return nil
		})
	}
	_ = g.Wait()

	var (
		all    []domain.Market
		errors []string
	)
	for i, f := range s.deps.Fetchers {
		name := f.Venue()
		res := results[i]
		if res.err != nil {
			if cached := s.cachedMarkets(ctx, name); len(cached) > 0 {
				log.Warn("venue fetch failed, using cached snapshot",
					slog.String("venue", name),
					slog.Int("markets", len(cached)),
					slog.String("error", res.err.Error()))
				all = append(all, cached...)
				errors = append(errors, fmt.Sprintf("%s: %v (stale snapshot used)", name, res.err))
				continue
			}
			log.Error("venue fetch failed, no snapshot available",
				slog.String("venue", name),
				slog.String("error", res.err.Error()))
			errors = append(errors, fmt.Sprintf("%s: %v", name, res.err))
			continue
		}

		log.Debug("venue fetched",
			slog.String("venue", name),
			slog.Int("markets", len(res.markets)))
		if s.deps.Cache != nil && len(res.markets) > 0 {
			if err := s.deps.Cache.SetVenueMarkets(ctx, name, res.markets); err != nil {
				log.Warn("snapshot cache write failed",
					slog.String("venue", name),
					slog.String("error", err.Error()))
			}
		}
		all = append(all, res.markets...)
	}
	return all, errors
}

func (s *Scanner) cachedMarkets(ctx context.Context, venueName string) []domain.Market {
	if s.deps.Cache == nil {
		return nil
	}
	markets, err := s.deps.Cache.GetVenueMarkets(ctx, venueName)
	if err != nil {
		return nil
	}
	return markets
}

// fanout pushes one finished cycle to every configured sink. Sinks are
// independent: a failing one is logged and the rest still run.
func (s *Scanner) fanout(ctx context.Context, run domain.RunSummary, opps []domain.Opportunity, log *slog.Logger) {
	if s.deps.Store != nil && s.deps.PersistRuns {
		if err := s.deps.Store.SaveRun(ctx, run); err != nil {
			log.Error("save run failed", slog.String("error", err.Error()))
		}
		if len(opps) > 0 {
			if err := s.deps.Store.SaveOpportunities(ctx, run.RunID, opps); err != nil {
				log.Error("save opportunities failed", slog.String("error", err.Error()))
			}
		}
	}

	if s.deps.Bus != nil {
		payload, err := json.Marshal(Signal{Type: SignalTypeOpportunities, Run: run, Opportunities: opps})
		if err == nil {
			err = s.deps.Bus.Publish(ctx, redis.ChannelOpportunities, payload)
		}
		if err != nil {
			log.Error("publish signal failed", slog.String("error", err.Error()))
		}
	}

	if s.deps.Notifier != nil && len(opps) > 0 {
		if err := s.deps.Notifier.OpportunitiesDetected(ctx, opps); err != nil {
			log.Error("notify failed", slog.String("error", err.Error()))
		}
	}

	if s.deps.Archiver != nil && s.deps.ArchiveRuns {
		if err := s.deps.Archiver.Archive(ctx, run, opps); err != nil {
			log.Error("archive run failed", slog.String("error", err.Error()))
		}
	}
}
