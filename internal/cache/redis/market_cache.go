package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/younglubz/Predictionarb/internal/domain"
)

// MarketCache implements domain.MarketCache using one Redis key per venue
// holding the venue's full last-good snapshot as a JSON array. The TTL bounds
// how stale a snapshot may get before a failed fetch degrades to zero markets
// instead of old data.
//
// Key schema:
//
//	markets:venue:{venue}         - JSON array of Market records
//	markets:venue:{venue}:fetched - RFC 3339 fetch timestamp
type MarketCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewMarketCache creates a MarketCache backed by the given Client.
func NewMarketCache(c *Client) *MarketCache {
	return &MarketCache{rdb: c.Underlying(), ttl: c.snapshotTTL}
}

func venueKey(venue string) string {
	return "markets:venue:" + strings.ToLower(venue)
}

func venueFetchedKey(venue string) string {
	return venueKey(venue) + ":fetched"
}

// SetVenueMarkets replaces the venue's snapshot and refreshes its TTL.
func (mc *MarketCache) SetVenueMarkets(ctx context.Context, venue string, markets []domain.Market) error {
	data, err := json.Marshal(markets)
	if err != nil {
		return fmt.Errorf("redis: marshal %s snapshot: %w", venue, err)
	}

	now := time.Now().UTC().Format(time.RFC3339)

	pipe := mc.rdb.TxPipeline()
	pipe.Set(ctx, venueKey(venue), data, mc.ttl)
	pipe.Set(ctx, venueFetchedKey(venue), now, mc.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: set %s snapshot: %w", venue, err)
	}
	return nil
}

// GetVenueMarkets returns the venue's last-good snapshot. It returns
// domain.ErrNotFound when no snapshot exists or it has expired.
func (mc *MarketCache) GetVenueMarkets(ctx context.Context, venue string) ([]domain.Market, error) {
	data, err := mc.rdb.Get(ctx, venueKey(venue)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("redis: get %s snapshot: %w", venue, err)
	}

	var markets []domain.Market
	if err := json.Unmarshal(data, &markets); err != nil {
		return nil, fmt.Errorf("redis: unmarshal %s snapshot: %w", venue, err)
	}
	return markets, nil
}

// FetchedAt returns when the venue's snapshot was last written. It returns
// domain.ErrNotFound when no snapshot exists.
func (mc *MarketCache) FetchedAt(ctx context.Context, venue string) (time.Time, error) {
	raw, err := mc.rdb.Get(ctx, venueFetchedKey(venue)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return time.Time{}, domain.ErrNotFound
		}
		return time.Time{}, fmt.Errorf("redis: get %s fetch time: %w", venue, err)
	}

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("redis: parse %s fetch time: %w", venue, err)
	}
	return t, nil
}

// Compile-time interface check.
var _ domain.MarketCache = (*MarketCache)(nil)
