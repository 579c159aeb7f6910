package app

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/younglubz/Predictionarb/internal/cache/redis"
	"github.com/younglubz/Predictionarb/internal/pipeline"
	"github.com/younglubz/Predictionarb/internal/server"
	"github.com/younglubz/Predictionarb/internal/server/handler"
	"github.com/younglubz/Predictionarb/internal/server/ws"
	"github.com/younglubz/Predictionarb/internal/strategy"
	"github.com/younglubz/Predictionarb/internal/venue"
)

// buildScanner assembles the detection pipeline from configuration. The
// returned State is shared with the API layer in server-bearing modes.
func (a *App) buildScanner(deps *Dependencies) (*pipeline.Scanner, *pipeline.State) {
	params := pipeline.ParamsFromConfig(a.cfg.Strategy)
	engine := strategy.NewEngine(params, a.logger,
		pipeline.StrategiesFromConfig(a.cfg.Strategy, params)...)

	state := pipeline.NewState()
	scanner := pipeline.NewScanner(pipeline.Deps{
		Fetchers:    venue.All(a.cfg.Venues),
		MatchConfig: pipeline.MatchConfigFromConfig(a.cfg.Matcher),
		Engine:      engine,
		Fees:        pipeline.FeeTableFromConfig(a.cfg.Venues),
		Cache:       deps.Cache,
		Store:       deps.Store,
		Bus:         deps.Bus,
		Archiver:    deps.Archiver,
		Notifier:    deps.Notifier,
		PersistRuns: a.cfg.Pipeline.PersistRuns,
		ArchiveRuns: a.cfg.Pipeline.ArchiveRuns,
	}, state, a.logger)
	return scanner, state
}

// ScanMode runs exactly one detection cycle and exits.
func (a *App) ScanMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting scan mode")

	scanner, _ := a.buildScanner(deps)
	run, opps, err := scanner.Scan(ctx)
	if err != nil {
		return err
	}

	a.logger.InfoContext(ctx, "scan complete",
		slog.String("run_id", run.RunID),
		slog.Int("markets", run.MarketCount),
		slog.Int("pairs", run.PairCount),
		slog.Int("opportunities", len(opps)),
	)
	return nil
}

// MonitorMode runs detection cycles on the configured interval until the
// context is cancelled.
func (a *App) MonitorMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting monitor mode",
		slog.Duration("refresh_interval", a.cfg.Pipeline.RefreshInterval.Duration),
	)

	scanner, _ := a.buildScanner(deps)
	return scanner.Run(ctx, a.cfg.Pipeline.RefreshInterval.Duration)
}

// ServerMode serves the API and WebSocket feed without scanning. Live state
// endpoints answer 503; history comes from the store and signals arrive from
// scanners running elsewhere.
func (a *App) ServerMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting server mode", slog.Int("port", a.cfg.Server.Port))

	g, ctx := errgroup.WithContext(ctx)
	a.startServer(ctx, g, deps, nil)
	return g.Wait()
}

// FullMode runs the scanner loop and the API server together, sharing one
// cycle snapshot.
func (a *App) FullMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting full mode",
		slog.Duration("refresh_interval", a.cfg.Pipeline.RefreshInterval.Duration),
		slog.Bool("server_enabled", a.cfg.Server.Enabled),
	)

	scanner, state := a.buildScanner(deps)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return scanner.Run(ctx, a.cfg.Pipeline.RefreshInterval.Duration)
	})
	if a.cfg.Server.Enabled {
		a.startServer(ctx, g, deps, state)
	}
	return g.Wait()
}

// startServer registers the API server and WebSocket hub goroutines on g,
// including the shutdown watcher that drains in-flight requests on cancel.
func (a *App) startServer(ctx context.Context, g *errgroup.Group, deps *Dependencies, state *pipeline.State) {
	// A nil *State must become a nil interface, otherwise handlers would
	// dereference it.
	var reader handler.StateReader
	var hubState ws.StateReader
	if state != nil {
		reader = state
		hubState = state
	}

	hub := ws.NewHub(deps.Bus, hubState, a.logger, ws.Config{
		Mode:      a.cfg.Mode,
		StartedAt: time.Now().UTC(),
		Channels:  []string{redis.ChannelOpportunities},
	})
	g.Go(func() error {
		return hub.Run(ctx)
	})

	srv := server.NewServer(
		server.Config{Port: a.cfg.Server.Port, CORSOrigins: a.cfg.Server.CORSOrigins},
		server.Handlers{
			Health:        handler.NewHealthHandler(reader),
			Markets:       handler.NewMarketHandler(reader),
			Opportunities: handler.NewOpportunityHandler(reader, deps.Store, a.logger),
		},
		hub,
		a.logger,
	)
	g.Go(func() error {
		return srv.Start()
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}
