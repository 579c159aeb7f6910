package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/younglubz/Predictionarb/internal/domain"
)

// OpportunityStore implements domain.OpportunityStore using PostgreSQL.
// Market legs, execution steps, and warnings are stored as JSONB documents;
// the queryable scalar fields get their own columns.
type OpportunityStore struct {
	pool *pgxpool.Pool
}

// NewOpportunityStore creates an OpportunityStore backed by the given pool.
func NewOpportunityStore(pool *pgxpool.Pool) *OpportunityStore {
	return &OpportunityStore{pool: pool}
}

const oppSelectCols = `id, strategy, variant, markets,
	gross_profit_pct, net_profit_pct, fees, investment, expected_return,
	confidence, risk_score, liquidity_score, quality_score, risk_level,
	explanation, execution_steps, warnings,
	spread_pct, total_probability, time_to_expiry_hours, volatility_score,
	execution_speed, detected_at`

// SaveOpportunities inserts one run's opportunities in a single batch. The
// run summary must already exist; opportunities reference it by run_id.
func (s *OpportunityStore) SaveOpportunities(ctx context.Context, runID string, opps []domain.Opportunity) error {
	if len(opps) == 0 {
		return nil
	}

	const query = `
		INSERT INTO opportunities (
			run_id, id, strategy, variant, markets,
			gross_profit_pct, net_profit_pct, fees, investment, expected_return,
			confidence, risk_score, liquidity_score, quality_score, risk_level,
			explanation, execution_steps, warnings,
			spread_pct, total_probability, time_to_expiry_hours, volatility_score,
			execution_speed, detected_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15,
			$16, $17, $18,
			$19, $20, $21, $22,
			$23, $24
		)
		ON CONFLICT (run_id, id) DO NOTHING`

	batch := &pgx.Batch{}
	for i := range opps {
		opp := &opps[i]

		markets, err := json.Marshal(opp.Markets)
		if err != nil {
			return fmt.Errorf("postgres: marshal markets for %s: %w", opp.ID, err)
		}
		steps, err := json.Marshal(opp.ExecutionSteps)
		if err != nil {
			return fmt.Errorf("postgres: marshal steps for %s: %w", opp.ID, err)
		}
		warnings, err := json.Marshal(opp.Warnings)
		if err != nil {
			return fmt.Errorf("postgres: marshal warnings for %s: %w", opp.ID, err)
		}

		batch.Queue(query,
			runID, opp.ID, opp.Strategy, opp.Variant, markets,
			opp.GrossProfitPct, opp.NetProfitPct, opp.Fees, opp.Investment, opp.ExpectedReturn,
			opp.Confidence, opp.RiskScore, opp.LiquidityScore, opp.QualityScore, opp.RiskLevel,
			opp.Explanation, steps, warnings,
			opp.SpreadPct, opp.TotalProbability, opp.TimeToExpiryHours, opp.VolatilityScore,
			opp.ExecutionSpeed, opp.DetectedAt,
		)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range opps {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("postgres: insert opportunities for run %s: %w", runID, err)
		}
	}
	return nil
}

// SaveRun upserts one detection-run summary.
func (s *OpportunityStore) SaveRun(ctx context.Context, run domain.RunSummary) error {
	const query = `
		INSERT INTO detection_runs (
			run_id, started_at, finished_at, market_count, pair_count,
			opportunities, venue_errors
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (run_id) DO UPDATE SET
			finished_at   = EXCLUDED.finished_at,
			market_count  = EXCLUDED.market_count,
			pair_count    = EXCLUDED.pair_count,
			opportunities = EXCLUDED.opportunities,
			venue_errors  = EXCLUDED.venue_errors`

	venueErrors, err := json.Marshal(run.VenueErrors)
	if err != nil {
		return fmt.Errorf("postgres: marshal venue errors for %s: %w", run.RunID, err)
	}

	_, err = s.pool.Exec(ctx, query,
		run.RunID, run.StartedAt, run.FinishedAt, run.MarketCount, run.PairCount,
		run.Opportunities, venueErrors,
	)
	if err != nil {
		return fmt.Errorf("postgres: save run %s: %w", run.RunID, err)
	}
	return nil
}

// ListRecent returns the most recently detected opportunities, newest first.
func (s *OpportunityStore) ListRecent(ctx context.Context, limit int) ([]domain.Opportunity, error) {
	query := `SELECT ` + oppSelectCols + ` FROM opportunities ORDER BY detected_at DESC, quality_score DESC`
	args := []any{}

	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list recent opportunities: %w", err)
	}
	defer rows.Close()

	var opps []domain.Opportunity
	for rows.Next() {
		opp, err := scanOpportunity(rows)
		if err != nil {
			return nil, err
		}
		opps = append(opps, opp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list recent opportunities rows: %w", err)
	}
	return opps, nil
}

// ListRuns returns the most recent detection-run summaries, newest first.
func (s *OpportunityStore) ListRuns(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	query := `
		SELECT run_id, started_at, finished_at, market_count, pair_count,
		       opportunities, venue_errors
		FROM detection_runs ORDER BY started_at DESC`
	args := []any{}

	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.RunSummary
	for rows.Next() {
		var run domain.RunSummary
		var venueErrors []byte

		if err := rows.Scan(
			&run.RunID, &run.StartedAt, &run.FinishedAt, &run.MarketCount,
			&run.PairCount, &run.Opportunities, &venueErrors,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan run: %w", err)
		}
		if len(venueErrors) > 0 {
			if err := json.Unmarshal(venueErrors, &run.VenueErrors); err != nil {
				return nil, fmt.Errorf("postgres: unmarshal venue errors: %w", err)
			}
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list runs rows: %w", err)
	}
	return runs, nil
}

func scanOpportunity(rows pgx.Rows) (domain.Opportunity, error) {
	var opp domain.Opportunity
	var markets, steps, warnings []byte

	if err := rows.Scan(
		&opp.ID, &opp.Strategy, &opp.Variant, &markets,
		&opp.GrossProfitPct, &opp.NetProfitPct, &opp.Fees, &opp.Investment, &opp.ExpectedReturn,
		&opp.Confidence, &opp.RiskScore, &opp.LiquidityScore, &opp.QualityScore, &opp.RiskLevel,
		&opp.Explanation, &steps, &warnings,
		&opp.SpreadPct, &opp.TotalProbability, &opp.TimeToExpiryHours, &opp.VolatilityScore,
		&opp.ExecutionSpeed, &opp.DetectedAt,
	); err != nil {
		return domain.Opportunity{}, fmt.Errorf("postgres: scan opportunity: %w", err)
	}

	if err := json.Unmarshal(markets, &opp.Markets); err != nil {
		return domain.Opportunity{}, fmt.Errorf("postgres: unmarshal markets for %s: %w", opp.ID, err)
	}
	if len(steps) > 0 {
		if err := json.Unmarshal(steps, &opp.ExecutionSteps); err != nil {
			return domain.Opportunity{}, fmt.Errorf("postgres: unmarshal steps for %s: %w", opp.ID, err)
		}
	}
	if len(warnings) > 0 {
		if err := json.Unmarshal(warnings, &opp.Warnings); err != nil {
			return domain.Opportunity{}, fmt.Errorf("postgres: unmarshal warnings for %s: %w", opp.ID, err)
		}
	}
	return opp, nil
}

// Compile-time interface check.
var _ domain.OpportunityStore = (*OpportunityStore)(nil)
