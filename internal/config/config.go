// Package config defines the top-level configuration for the arbitrage
// scanner and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a TOML
// file and then optionally overridden by PREDARB_* environment variables.
type Config struct {
	Venues   VenuesConfig   `toml:"venues"`
	Matcher  MatcherConfig  `toml:"matcher"`
	Strategy StrategyConfig `toml:"strategy"`
	Pipeline PipelineConfig `toml:"pipeline"`
	Postgres PostgresConfig `toml:"postgres"`
	Redis    RedisConfig    `toml:"redis"`
	S3       S3Config       `toml:"s3"`
	Server   ServerConfig   `toml:"server"`
	Notify   NotifyConfig   `toml:"notify"`
	Mode     string         `toml:"mode"`
	LogLevel string         `toml:"log_level"`
}

// VenuesConfig enumerates the supported venues plus shared fee fallbacks.
type VenuesConfig struct {
	Polymarket VenueConfig `toml:"polymarket"`
	Kalshi     VenueConfig `toml:"kalshi"`
	PredictIt  VenueConfig `toml:"predictit"`
	Manifold   VenueConfig `toml:"manifold"`

	// DefaultFee applies to any venue without an explicit trading fee.
	DefaultFee float64 `toml:"default_fee"`
	// GasAssetPrice converts on-chain gas units to USD.
	GasAssetPrice float64 `toml:"gas_asset_price"`
	// FetchTimeout bounds each venue's market fetch.
	FetchTimeout duration `toml:"fetch_timeout"`
	// MaxMarkets caps the markets requested per venue per cycle.
	MaxMarkets int `toml:"max_markets"`
}

// VenueConfig holds one venue's endpoint and fee schedule.
type VenueConfig struct {
	Enabled bool   `toml:"enabled"`
	BaseURL string `toml:"base_url"`
	// Fee is the flat trading fee fraction per transaction.
	Fee float64 `toml:"fee"`
	// GasFee is the fixed on-chain cost per transaction in asset units,
	// zero for off-chain venues.
	GasFee float64 `toml:"gas_fee"`
}

// EnabledVenues returns the name->config map of venues switched on.
func (v VenuesConfig) EnabledVenues() map[string]VenueConfig {
	out := map[string]VenueConfig{}
	for name, vc := range map[string]VenueConfig{
		"polymarket": v.Polymarket,
		"kalshi":     v.Kalshi,
		"predictit":  v.PredictIt,
		"manifold":   v.Manifold,
	} {
		if vc.Enabled {
			out[name] = vc
		}
	}
	return out
}

// MatcherConfig tunes the market-equivalence cascade.
type MatcherConfig struct {
	SimilarityThreshold  float64 `toml:"similarity_threshold"`
	MaxExpiryGapDays     int     `toml:"max_expiry_gap_days"`
	MaxCandidateListSize int     `toml:"max_candidate_list_size"`
}

// StrategyConfig holds detection thresholds shared by the strategy engines
// plus per-engine knobs.
type StrategyConfig struct {
	MinProfitPct float64 `toml:"min_profit_pct"`
	MinLiquidity float64 `toml:"min_liquidity"`
	MaxRiskScore float64 `toml:"max_risk_score"`
	Notional     float64 `toml:"notional"`

	Classic       ClassicConfig       `toml:"classic"`
	Rebalancing   RebalancingConfig   `toml:"rebalancing"`
	Probability   ProbabilityConfig   `toml:"probability"`
	ShortTerm     ShortTermConfig     `toml:"short_term"`
	Combinatorial CombinatorialConfig `toml:"combinatorial"`
}

// RebalancingConfig toggles the single-venue Yes/No engine. Its thresholds
// all come from the shared strategy settings.
type RebalancingConfig struct {
	Enabled bool `toml:"enabled"`
}

// ClassicConfig tunes the cross-venue engine.
type ClassicConfig struct {
	Enabled bool `toml:"enabled"`
	// SimilarityFloor is the stricter match confidence the classic engine
	// demands on top of the pairing threshold.
	SimilarityFloor float64 `toml:"similarity_floor"`
}

// ProbabilityConfig tunes the probability-spread engine.
type ProbabilityConfig struct {
	Enabled      bool    `toml:"enabled"`
	MinSpreadPct float64 `toml:"min_spread_pct"`
}

// ShortTermConfig tunes the near-expiry engine.
type ShortTermConfig struct {
	Enabled         bool    `toml:"enabled"`
	MinSpreadPct    float64 `toml:"min_spread_pct"`
	LiquidityFactor float64 `toml:"liquidity_factor"`
	MinExpiryHours  float64 `toml:"min_expiry_hours"`
	MaxExpiryHours  float64 `toml:"max_expiry_hours"`
}

// CombinatorialConfig tunes the N-way and logical-consistency engine.
type CombinatorialConfig struct {
	Enabled        bool    `toml:"enabled"`
	MutexSellAbove float64 `toml:"mutex_sell_above"`
	MutexBuyBelow  float64 `toml:"mutex_buy_below"`
	MinLogicalDiff float64 `toml:"min_logical_diff"`
}

// PipelineConfig drives the periodic detection loop.
type PipelineConfig struct {
	RefreshInterval duration `toml:"refresh_interval"`
	// ArchiveRuns writes each run's opportunity set to object storage.
	ArchiveRuns bool `toml:"archive_runs"`
	// PersistRuns saves opportunities and run summaries to Postgres.
	PersistRuns bool `toml:"persist_runs"`
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	DSN           string `toml:"dsn"`
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	Database      string `toml:"database"`
	User          string `toml:"user"`
	Password      string `toml:"password"`
	SSLMode       string `toml:"ssl_mode"`
	PoolMaxConns  int    `toml:"pool_max_conns"`
	PoolMinConns  int    `toml:"pool_min_conns"`
	RunMigrations bool   `toml:"run_migrations"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
	// SnapshotTTL bounds how long a stale venue snapshot may substitute for
	// a failed fetch.
	SnapshotTTL duration `toml:"snapshot_ttl"`
}

// S3Config holds S3-compatible object storage parameters.
type S3Config struct {
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	Bucket         string `toml:"bucket"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	UseSSL         bool   `toml:"use_ssl"`
	ForcePathStyle bool   `toml:"force_path_style"`
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Enabled     bool     `toml:"enabled"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

// NotifyConfig holds notification channel settings.
type NotifyConfig struct {
	DiscordWebhookURL string   `toml:"discord_webhook_url"`
	SMTPHost          string   `toml:"smtp_host"`
	SMTPPort          int      `toml:"smtp_port"`
	SMTPUser          string   `toml:"smtp_user"`
	SMTPPassword      string   `toml:"smtp_password"`
	EmailFrom         string   `toml:"email_from"`
	EmailTo           []string `toml:"email_to"`
	// MinQualityScore suppresses notifications for weak opportunities.
	MinQualityScore float64 `toml:"min_quality_score"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding (e.g. "5m", "30s").
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with reasonable default values.
// These match the values in config.example.toml.
func Defaults() Config {
	return Config{
		Venues: VenuesConfig{
			Polymarket: VenueConfig{
				Enabled: true,
				BaseURL: "https://gamma-api.polymarket.com",
				Fee:     0.02,
				GasFee:  0.001,
			},
			Kalshi: VenueConfig{
				Enabled: true,
				BaseURL: "https://api.elections.kalshi.com/trade-api/v2",
				Fee:     0.07,
			},
			PredictIt: VenueConfig{
				Enabled: true,
				BaseURL: "https://www.predictit.org/api/marketdata",
				Fee:     0.10,
			},
			Manifold: VenueConfig{
				Enabled: true,
				BaseURL: "https://api.manifold.markets/v0",
				Fee:     0.0,
			},
			DefaultFee:    0.05,
			GasAssetPrice: 3000,
			FetchTimeout:  duration{30 * time.Second},
			MaxMarkets:    500,
		},
		Matcher: MatcherConfig{
			SimilarityThreshold:  0.55,
			MaxExpiryGapDays:     21,
			MaxCandidateListSize: 5,
		},
		Strategy: StrategyConfig{
			MinProfitPct: 0.02,
			MinLiquidity: 100,
			MaxRiskScore: 0.7,
			Notional:     100,
			Classic: ClassicConfig{
				Enabled:         true,
				SimilarityFloor: 0.70,
			},
			Rebalancing: RebalancingConfig{Enabled: true},
			Probability: ProbabilityConfig{
				Enabled:      true,
				MinSpreadPct: 0.02,
			},
			ShortTerm: ShortTermConfig{
				Enabled:         true,
				MinSpreadPct:    0.03,
				LiquidityFactor: 2,
				MinExpiryHours:  1,
				MaxExpiryHours:  48,
			},
			Combinatorial: CombinatorialConfig{
				Enabled:        true,
				MutexSellAbove: 1.05,
				MutexBuyBelow:  0.95,
				MinLogicalDiff: 0.05,
			},
		},
		Pipeline: PipelineConfig{
			RefreshInterval: duration{5 * time.Minute},
			ArchiveRuns:     false,
			PersistRuns:     true,
		},
		Postgres: PostgresConfig{
			Host:          "localhost",
			Port:          5432,
			Database:      "predarb",
			User:          "postgres",
			SSLMode:       "disable",
			PoolMaxConns:  10,
			PoolMinConns:  2,
			RunMigrations: true,
		},
		Redis: RedisConfig{
			Addr:        "localhost:6379",
			DB:          0,
			PoolSize:    20,
			MaxRetries:  3,
			SnapshotTTL: duration{30 * time.Minute},
		},
		S3: S3Config{
			Endpoint:       "http://localhost:9000",
			Region:         "us-east-1",
			Bucket:         "predarb-runs",
			UseSSL:         false,
			ForcePathStyle: true,
		},
		Server: ServerConfig{
			Enabled:     true,
			Port:        8000,
			CORSOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Notify: NotifyConfig{
			SMTPPort:        587,
			MinQualityScore: 60,
		},
		Mode:     "full",
		LogLevel: "info",
	}
}

// validModes enumerates the accepted values for Config.Mode.
var validModes = map[string]bool{
	"scan":    true,
	"monitor": true,
	"server":  true,
	"full":    true,
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for obviously invalid or missing values and returns
// a combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validModes[strings.ToLower(c.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: scan, monitor, server, full)", c.Mode))
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	if len(c.Venues.EnabledVenues()) < 1 {
		errs = append(errs, "venues: at least one venue must be enabled")
	}
	for name, v := range c.Venues.EnabledVenues() {
		if v.BaseURL == "" {
			errs = append(errs, fmt.Sprintf("venues: %s base_url must not be empty", name))
		}
		if v.Fee < 0 || v.Fee >= 1 {
			errs = append(errs, fmt.Sprintf("venues: %s fee must be in [0,1), got %g", name, v.Fee))
		}
	}
	if c.Venues.DefaultFee < 0 || c.Venues.DefaultFee >= 1 {
		errs = append(errs, "venues: default_fee must be in [0,1)")
	}
	if c.Venues.FetchTimeout.Duration <= 0 {
		errs = append(errs, "venues: fetch_timeout must be positive")
	}

	if c.Matcher.SimilarityThreshold <= 0 || c.Matcher.SimilarityThreshold > 1 {
		errs = append(errs, fmt.Sprintf("matcher: similarity_threshold must be in (0,1], got %g", c.Matcher.SimilarityThreshold))
	}
	if c.Matcher.MaxExpiryGapDays < 1 {
		errs = append(errs, "matcher: max_expiry_gap_days must be >= 1")
	}
	if c.Matcher.MaxCandidateListSize < 2 {
		errs = append(errs, "matcher: max_candidate_list_size must be >= 2")
	}

	if c.Strategy.MinProfitPct < 0 {
		errs = append(errs, "strategy: min_profit_pct must be >= 0")
	}
	if c.Strategy.MinLiquidity < 0 {
		errs = append(errs, "strategy: min_liquidity must be >= 0")
	}
	if c.Strategy.MaxRiskScore <= 0 || c.Strategy.MaxRiskScore > 1 {
		errs = append(errs, "strategy: max_risk_score must be in (0,1]")
	}
	if c.Strategy.Notional <= 0 {
		errs = append(errs, "strategy: notional must be > 0")
	}
	if c.Strategy.Classic.Enabled && (c.Strategy.Classic.SimilarityFloor <= 0 || c.Strategy.Classic.SimilarityFloor > 1) {
		errs = append(errs, "strategy: classic.similarity_floor must be in (0,1]")
	}
	if st := c.Strategy.ShortTerm; st.Enabled {
		if st.MinExpiryHours < 0 || st.MaxExpiryHours <= st.MinExpiryHours {
			errs = append(errs, "strategy: short_term expiry window must satisfy 0 <= min < max")
		}
		if st.LiquidityFactor < 1 {
			errs = append(errs, "strategy: short_term.liquidity_factor must be >= 1")
		}
	}
	if cb := c.Strategy.Combinatorial; cb.Enabled {
		if cb.MutexSellAbove <= 1 {
			errs = append(errs, "strategy: combinatorial.mutex_sell_above must be > 1")
		}
		if cb.MutexBuyBelow <= 0 || cb.MutexBuyBelow >= 1 {
			errs = append(errs, "strategy: combinatorial.mutex_buy_below must be in (0,1)")
		}
	}

	if c.Pipeline.RefreshInterval.Duration <= 0 {
		errs = append(errs, "pipeline: refresh_interval must be positive")
	}

	if c.Pipeline.PersistRuns && strings.TrimSpace(c.Postgres.DSN) == "" {
		if c.Postgres.Host == "" {
			errs = append(errs, "postgres: host must not be empty (or set postgres.dsn)")
		}
		if c.Postgres.Port <= 0 || c.Postgres.Port > 65535 {
			errs = append(errs, fmt.Sprintf("postgres: port must be 1-65535, got %d", c.Postgres.Port))
		}
		if c.Postgres.Database == "" {
			errs = append(errs, "postgres: database must not be empty")
		}
	}
	if c.Postgres.PoolMaxConns < 1 {
		errs = append(errs, "postgres: pool_max_conns must be >= 1")
	}
	if c.Postgres.PoolMinConns < 0 {
		errs = append(errs, "postgres: pool_min_conns must be >= 0")
	}
	if c.Postgres.PoolMinConns > c.Postgres.PoolMaxConns {
		errs = append(errs, "postgres: pool_min_conns must not exceed pool_max_conns")
	}

	if c.Redis.Addr == "" {
		errs = append(errs, "redis: addr must not be empty")
	}
	if c.Redis.PoolSize < 1 {
		errs = append(errs, "redis: pool_size must be >= 1")
	}

	if c.Pipeline.ArchiveRuns {
		if c.S3.Endpoint == "" {
			errs = append(errs, "s3: endpoint must not be empty when pipeline.archive_runs is set")
		}
		if c.S3.Bucket == "" {
			errs = append(errs, "s3: bucket must not be empty when pipeline.archive_runs is set")
		}
	}

	if c.Server.Enabled {
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, fmt.Sprintf("server: port must be 1-65535, got %d", c.Server.Port))
		}
	}

	if c.Notify.SMTPHost != "" {
		if c.Notify.EmailFrom == "" {
			errs = append(errs, "notify: email_from is required when smtp_host is set")
		}
		if len(c.Notify.EmailTo) == 0 {
			errs = append(errs, "notify: email_to is required when smtp_host is set")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
