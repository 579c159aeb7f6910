package domain

import (
	"context"
	"time"
)

// RunSummary records one detection cycle for diagnostics and the API layer.
type RunSummary struct {
	RunID         string    `json:"run_id"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
	MarketCount   int       `json:"market_count"`
	PairCount     int       `json:"pair_count"`
	Opportunities int       `json:"opportunities"`
	VenueErrors   []string  `json:"venue_errors,omitempty"`
}

// OpportunityStore persists detected opportunities and run summaries.
type OpportunityStore interface {
	SaveOpportunities(ctx context.Context, runID string, opps []Opportunity) error
	SaveRun(ctx context.Context, run RunSummary) error
	ListRecent(ctx context.Context, limit int) ([]Opportunity, error)
	ListRuns(ctx context.Context, limit int) ([]RunSummary, error)
}

// MarketCache stores the last good market snapshot per venue so a failed
// venue fetch can degrade to slightly stale data instead of zero markets.
type MarketCache interface {
	SetVenueMarkets(ctx context.Context, venue string, markets []Market) error
	GetVenueMarkets(ctx context.Context, venue string) ([]Market, error)
}

// SignalBus is a lightweight pub/sub channel used to broadcast detection
// events to the WebSocket hub and any other interested consumer.
type SignalBus interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
}

// BlobWriter writes a blob to object storage under the given key.
type BlobWriter interface {
	Write(ctx context.Context, key string, data []byte, contentType string) error
}
