package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies PREDARB_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known PREDARB_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e. not
// empty). This lets operators inject secrets at deploy time without touching
// the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── Venues ──
	setBool(&cfg.Venues.Polymarket.Enabled, "PREDARB_VENUES_POLYMARKET_ENABLED")
	setStr(&cfg.Venues.Polymarket.BaseURL, "PREDARB_VENUES_POLYMARKET_BASE_URL")
	setFloat64(&cfg.Venues.Polymarket.Fee, "PREDARB_VENUES_POLYMARKET_FEE")
	setBool(&cfg.Venues.Kalshi.Enabled, "PREDARB_VENUES_KALSHI_ENABLED")
	setStr(&cfg.Venues.Kalshi.BaseURL, "PREDARB_VENUES_KALSHI_BASE_URL")
	setFloat64(&cfg.Venues.Kalshi.Fee, "PREDARB_VENUES_KALSHI_FEE")
	setBool(&cfg.Venues.PredictIt.Enabled, "PREDARB_VENUES_PREDICTIT_ENABLED")
	setStr(&cfg.Venues.PredictIt.BaseURL, "PREDARB_VENUES_PREDICTIT_BASE_URL")
	setFloat64(&cfg.Venues.PredictIt.Fee, "PREDARB_VENUES_PREDICTIT_FEE")
	setBool(&cfg.Venues.Manifold.Enabled, "PREDARB_VENUES_MANIFOLD_ENABLED")
	setStr(&cfg.Venues.Manifold.BaseURL, "PREDARB_VENUES_MANIFOLD_BASE_URL")
	setFloat64(&cfg.Venues.Manifold.Fee, "PREDARB_VENUES_MANIFOLD_FEE")
	setFloat64(&cfg.Venues.DefaultFee, "PREDARB_VENUES_DEFAULT_FEE")
	setFloat64(&cfg.Venues.GasAssetPrice, "PREDARB_VENUES_GAS_ASSET_PRICE")
	setDuration(&cfg.Venues.FetchTimeout, "PREDARB_VENUES_FETCH_TIMEOUT")
	setInt(&cfg.Venues.MaxMarkets, "PREDARB_VENUES_MAX_MARKETS")

	// ── Matcher ──
	setFloat64(&cfg.Matcher.SimilarityThreshold, "PREDARB_MATCHER_SIMILARITY_THRESHOLD")
	setInt(&cfg.Matcher.MaxExpiryGapDays, "PREDARB_MATCHER_MAX_EXPIRY_GAP_DAYS")
	setInt(&cfg.Matcher.MaxCandidateListSize, "PREDARB_MATCHER_MAX_CANDIDATE_LIST_SIZE")

	// ── Strategy ──
	setFloat64(&cfg.Strategy.MinProfitPct, "PREDARB_STRATEGY_MIN_PROFIT_PCT")
	setFloat64(&cfg.Strategy.MinLiquidity, "PREDARB_STRATEGY_MIN_LIQUIDITY")
	setFloat64(&cfg.Strategy.MaxRiskScore, "PREDARB_STRATEGY_MAX_RISK_SCORE")
	setFloat64(&cfg.Strategy.Notional, "PREDARB_STRATEGY_NOTIONAL")
	setBool(&cfg.Strategy.Classic.Enabled, "PREDARB_STRATEGY_CLASSIC_ENABLED")
	setFloat64(&cfg.Strategy.Classic.SimilarityFloor, "PREDARB_STRATEGY_CLASSIC_SIMILARITY_FLOOR")
	setBool(&cfg.Strategy.Rebalancing.Enabled, "PREDARB_STRATEGY_REBALANCING_ENABLED")
	setBool(&cfg.Strategy.Probability.Enabled, "PREDARB_STRATEGY_PROBABILITY_ENABLED")
	setFloat64(&cfg.Strategy.Probability.MinSpreadPct, "PREDARB_STRATEGY_PROBABILITY_MIN_SPREAD_PCT")
	setBool(&cfg.Strategy.ShortTerm.Enabled, "PREDARB_STRATEGY_SHORT_TERM_ENABLED")
	setFloat64(&cfg.Strategy.ShortTerm.MinSpreadPct, "PREDARB_STRATEGY_SHORT_TERM_MIN_SPREAD_PCT")
	setFloat64(&cfg.Strategy.ShortTerm.MinExpiryHours, "PREDARB_STRATEGY_SHORT_TERM_MIN_EXPIRY_HOURS")
	setFloat64(&cfg.Strategy.ShortTerm.MaxExpiryHours, "PREDARB_STRATEGY_SHORT_TERM_MAX_EXPIRY_HOURS")
	setBool(&cfg.Strategy.Combinatorial.Enabled, "PREDARB_STRATEGY_COMBINATORIAL_ENABLED")
	setFloat64(&cfg.Strategy.Combinatorial.MutexSellAbove, "PREDARB_STRATEGY_COMBINATORIAL_MUTEX_SELL_ABOVE")
	setFloat64(&cfg.Strategy.Combinatorial.MutexBuyBelow, "PREDARB_STRATEGY_COMBINATORIAL_MUTEX_BUY_BELOW")
	setFloat64(&cfg.Strategy.Combinatorial.MinLogicalDiff, "PREDARB_STRATEGY_COMBINATORIAL_MIN_LOGICAL_DIFF")

	// ── Pipeline ──
	setDuration(&cfg.Pipeline.RefreshInterval, "PREDARB_PIPELINE_REFRESH_INTERVAL")
	setBool(&cfg.Pipeline.ArchiveRuns, "PREDARB_PIPELINE_ARCHIVE_RUNS")
	setBool(&cfg.Pipeline.PersistRuns, "PREDARB_PIPELINE_PERSIST_RUNS")

	// ── Postgres ──
	setStr(&cfg.Postgres.DSN, "PREDARB_POSTGRES_DSN")
	setStr(&cfg.Postgres.DSN, "DATABASE_URL") // compatibility alias
	setStr(&cfg.Postgres.Host, "PREDARB_POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "PREDARB_POSTGRES_PORT")
	setStr(&cfg.Postgres.Database, "PREDARB_POSTGRES_DATABASE")
	setStr(&cfg.Postgres.User, "PREDARB_POSTGRES_USER")
	setStr(&cfg.Postgres.Password, "PREDARB_POSTGRES_PASSWORD")
	setStr(&cfg.Postgres.SSLMode, "PREDARB_POSTGRES_SSL_MODE")
	setInt(&cfg.Postgres.PoolMaxConns, "PREDARB_POSTGRES_POOL_MAX_CONNS")
	setInt(&cfg.Postgres.PoolMinConns, "PREDARB_POSTGRES_POOL_MIN_CONNS")
	setBool(&cfg.Postgres.RunMigrations, "PREDARB_POSTGRES_RUN_MIGRATIONS")

	// ── Redis ──
	setStr(&cfg.Redis.Addr, "PREDARB_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "PREDARB_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "PREDARB_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "PREDARB_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "PREDARB_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "PREDARB_REDIS_TLS_ENABLED")
	setDuration(&cfg.Redis.SnapshotTTL, "PREDARB_REDIS_SNAPSHOT_TTL")

	// ── S3 ──
	setStr(&cfg.S3.Endpoint, "PREDARB_S3_ENDPOINT")
	setStr(&cfg.S3.Region, "PREDARB_S3_REGION")
	setStr(&cfg.S3.Bucket, "PREDARB_S3_BUCKET")
	setStr(&cfg.S3.AccessKey, "PREDARB_S3_ACCESS_KEY")
	setStr(&cfg.S3.SecretKey, "PREDARB_S3_SECRET_KEY")
	setBool(&cfg.S3.UseSSL, "PREDARB_S3_USE_SSL")
	setBool(&cfg.S3.ForcePathStyle, "PREDARB_S3_FORCE_PATH_STYLE")

	// ── Server ──
	setBool(&cfg.Server.Enabled, "PREDARB_SERVER_ENABLED")
	setInt(&cfg.Server.Port, "PREDARB_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "PREDARB_SERVER_CORS_ORIGINS")

	// ── Notify ──
	setStr(&cfg.Notify.DiscordWebhookURL, "PREDARB_NOTIFY_DISCORD_WEBHOOK_URL")
	setStr(&cfg.Notify.SMTPHost, "PREDARB_NOTIFY_SMTP_HOST")
	setInt(&cfg.Notify.SMTPPort, "PREDARB_NOTIFY_SMTP_PORT")
	setStr(&cfg.Notify.SMTPUser, "PREDARB_NOTIFY_SMTP_USER")
	setStr(&cfg.Notify.SMTPPassword, "PREDARB_NOTIFY_SMTP_PASSWORD")
	setStr(&cfg.Notify.EmailFrom, "PREDARB_NOTIFY_EMAIL_FROM")
	setStringSlice(&cfg.Notify.EmailTo, "PREDARB_NOTIFY_EMAIL_TO")
	setFloat64(&cfg.Notify.MinQualityScore, "PREDARB_NOTIFY_MIN_QUALITY_SCORE")

	// ── Top-level ──
	setStr(&cfg.Mode, "PREDARB_MODE")
	setStr(&cfg.LogLevel, "PREDARB_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
