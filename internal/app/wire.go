package app

import (
	"context"
	"fmt"
	"log/slog"

	s3blob "github.com/younglubz/Predictionarb/internal/blob/s3"
	"github.com/younglubz/Predictionarb/internal/cache/redis"
	"github.com/younglubz/Predictionarb/internal/config"
	"github.com/younglubz/Predictionarb/internal/domain"
	"github.com/younglubz/Predictionarb/internal/notify"
	"github.com/younglubz/Predictionarb/internal/pipeline"
	"github.com/younglubz/Predictionarb/internal/store/postgres"
)

// Dependencies bundles the infrastructure the application modes need. It is
// constructed by Wire and torn down by the returned cleanup function. Store
// and Archiver are nil when the mode or configuration does not require them.
type Dependencies struct {
	Store    domain.OpportunityStore
	Cache    domain.MarketCache
	Bus      domain.SignalBus
	Archiver pipeline.Archiver
	Notifier *notify.Notifier
}

// needsPostgres reports whether the mode requires a database connection.
// Server modes always serve history; scanning modes only persist when asked.
func needsPostgres(cfg *config.Config) bool {
	switch cfg.Mode {
	case "server", "full":
		return true
	default:
		return cfg.Pipeline.PersistRuns
	}
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that
// should be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	// --- PostgreSQL ---
	if needsPostgres(cfg) {
		pgClient, err := postgres.New(ctx, postgres.ClientConfig{
			DSN:      cfg.Postgres.DSN,
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			Database: cfg.Postgres.Database,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			SSLMode:  cfg.Postgres.SSLMode,
			MaxConns: cfg.Postgres.PoolMaxConns,
			MinConns: cfg.Postgres.PoolMinConns,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres: %w", err)
		}
		closers = append(closers, pgClient.Close)

		if cfg.Postgres.RunMigrations {
			if err := pgClient.RunMigrations(ctx); err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("wire: postgres migrations: %w", err)
			}
		}

		deps.Store = postgres.NewOpportunityStore(pgClient.Pool())
	}

	// --- Redis ---
	redisClient, err := redis.New(ctx, redis.ClientConfig{
		Addr:        cfg.Redis.Addr,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		PoolSize:    cfg.Redis.PoolSize,
		MaxRetries:  cfg.Redis.MaxRetries,
		TLSEnabled:  cfg.Redis.TLSEnabled,
		SnapshotTTL: cfg.Redis.SnapshotTTL.Duration,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: redis: %w", err)
	}
	closers = append(closers, func() { _ = redisClient.Close() })

	deps.Cache = redis.NewMarketCache(redisClient)
	deps.Bus = redis.NewSignalBus(redisClient)

	// --- S3 run archive ---
	if cfg.Pipeline.ArchiveRuns {
		s3Client, err := s3blob.New(ctx, s3blob.ClientConfig{
			Endpoint:       cfg.S3.Endpoint,
			Region:         cfg.S3.Region,
			Bucket:         cfg.S3.Bucket,
			AccessKey:      cfg.S3.AccessKey,
			SecretKey:      cfg.S3.SecretKey,
			UseSSL:         cfg.S3.UseSSL,
			ForcePathStyle: cfg.S3.ForcePathStyle,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: s3: %w", err)
		}
		deps.Archiver = s3blob.NewRunArchiver(s3blob.NewWriter(s3Client))
	}

	// --- Notifications ---
	var senders []notify.Sender
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}
	if cfg.Notify.SMTPHost != "" {
		senders = append(senders, notify.NewEmailSender(notify.EmailConfig{
			Host:     cfg.Notify.SMTPHost,
			Port:     cfg.Notify.SMTPPort,
			User:     cfg.Notify.SMTPUser,
			Password: cfg.Notify.SMTPPassword,
			From:     cfg.Notify.EmailFrom,
			To:       cfg.Notify.EmailTo,
		}))
	}
	deps.Notifier = notify.NewNotifier(senders, cfg.Notify.MinQualityScore, logger)

	return deps, cleanup, nil
}
