// Package venue contains the REST adapters that pull market snapshots from
// each supported prediction-market venue and normalize them into
// domain.Market records.
package venue

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/younglubz/Predictionarb/internal/config"
	"github.com/younglubz/Predictionarb/internal/domain"
)

// Fetcher pulls the current tradable market snapshot from one venue.
type Fetcher interface {
	// Venue returns the canonical lowercase venue name.
	Venue() string
	// FetchMarkets returns one Market per tradable outcome. Markets outside
	// the price sanity band are dropped here, not treated as errors.
	FetchMarkets(ctx context.Context) ([]domain.Market, error)
}

// All constructs a Fetcher for every venue enabled in cfg.
func All(cfg config.VenuesConfig) []Fetcher {
	var out []Fetcher
	if cfg.Polymarket.Enabled {
		out = append(out, NewPolymarket(cfg.Polymarket.BaseURL, cfg.FetchTimeout.Duration, cfg.MaxMarkets))
	}
	if cfg.Kalshi.Enabled {
		out = append(out, NewKalshi(cfg.Kalshi.BaseURL, cfg.FetchTimeout.Duration, cfg.MaxMarkets))
	}
	if cfg.PredictIt.Enabled {
		out = append(out, NewPredictIt(cfg.PredictIt.BaseURL, cfg.FetchTimeout.Duration))
	}
	if cfg.Manifold.Enabled {
		out = append(out, NewManifold(cfg.Manifold.BaseURL, cfg.FetchTimeout.Duration, cfg.MaxMarkets))
	}
	return out
}

// newHTTPClient builds the client shared by all venue adapters.
func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// doGet sends an unauthenticated GET request and returns the response body.
func doGet(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if err := checkHTTPStatus(resp.StatusCode, body); err != nil {
		return nil, err
	}

	return body, nil
}

// checkHTTPStatus maps non-2xx HTTP status codes to errors.
func checkHTTPStatus(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}

	bodyStr := string(body)
	if len(bodyStr) > 256 {
		bodyStr = bodyStr[:256]
	}
	switch statusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, bodyStr)
	case http.StatusTooManyRequests:
		return fmt.Errorf("rate limited: %s", bodyStr)
	default:
		return fmt.Errorf("HTTP %d: %s", statusCode, bodyStr)
	}
}

// parseExpiry parses an RFC 3339 timestamp, tolerating a bare "Z" suffix.
// Returns nil when the value is empty or unparseable; a missing expiry is
// not an error.
func parseExpiry(value string) *time.Time {
	if value == "" || value == "NA" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}

// epochMillis converts a millisecond Unix timestamp to *time.Time, nil for
// zero values.
func epochMillis(ms int64) *time.Time {
	if ms <= 0 {
		return nil
	}
	t := time.UnixMilli(ms).UTC()
	return &t
}
