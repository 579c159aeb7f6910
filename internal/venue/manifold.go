package venue

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/younglubz/Predictionarb/internal/domain"
)

// Manifold is the REST adapter for the Manifold Markets public API.
type Manifold struct {
	baseURL    string
	maxMarkets int
	httpClient *http.Client
}

// NewManifold creates a Manifold adapter.
//
// baseURL is the API root, e.g. "https://api.manifold.markets/v0".
func NewManifold(baseURL string, timeout time.Duration, maxMarkets int) *Manifold {
	if maxMarkets <= 0 {
		maxMarkets = 100
	}
	return &Manifold{
		baseURL:    baseURL,
		maxMarkets: maxMarkets,
		httpClient: newHTTPClient(timeout),
	}
}

func (m *Manifold) Venue() string { return "manifold" }

type manifoldMarket struct {
	ID              string   `json:"id"`
	Question        string   `json:"question"`
	Slug            string   `json:"slug"`
	CreatorUsername string   `json:"creatorUsername"`
	OutcomeType     string   `json:"outcomeType"`
	Probability     *float64 `json:"probability"`
	Volume24Hours   float64  `json:"volume24Hours"`
	TotalLiquidity  float64  `json:"totalLiquidity"`
	CloseTime       int64    `json:"closeTime"`
	URL             string   `json:"url"`
	IsResolved      bool     `json:"isResolved"`
}

// FetchMarkets returns a Yes and a synthetic No record per open binary
// Manifold market. The No price is 1 - probability; Manifold only quotes the
// Yes side.
func (m *Manifold) FetchMarkets(ctx context.Context) ([]domain.Market, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(m.maxMarkets))

	body, err := doGet(ctx, m.httpClient, m.baseURL+"/markets?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("venue/manifold: get markets: %w", err)
	}

	var apiMarkets []manifoldMarket
	if err := json.Unmarshal(body, &apiMarkets); err != nil {
		return nil, fmt.Errorf("venue/manifold: decode markets: %w", err)
	}

	var markets []domain.Market
	for i := range apiMarkets {
		markets = append(markets, m.normalize(&apiMarkets[i])...)
	}
	return markets, nil
}

func (m *Manifold) normalize(api *manifoldMarket) []domain.Market {
	if api.IsResolved || api.ID == "" || api.Question == "" {
		return nil
	}
	// Only binary markets carry a single probability; free-response and
	// multiple-choice markets have no comparable price.
	if api.OutcomeType != "BINARY" || api.Probability == nil {
		return nil
	}

	prob := *api.Probability
	liquidity := api.TotalLiquidity
	if liquidity <= 0 {
		liquidity = max(api.Volume24Hours*0.1, 100)
	}

	marketURL := api.URL
	if marketURL == "" {
		marketURL = "https://manifold.markets/" + api.CreatorUsername + "/" + api.Slug
	}
	expiresAt := epochMillis(api.CloseTime)

	var out []domain.Market
	for _, leg := range []struct {
		outcome string
		price   float64
	}{
		{"Yes", prob},
		{"No", 1 - prob},
	} {
		mkt := domain.Market{
			Venue:     m.Venue(),
			MarketID:  api.ID,
			Question:  api.Question,
			Outcome:   leg.outcome,
			Price:     leg.price,
			Volume24h: api.Volume24Hours,
			Liquidity: liquidity,
			ExpiresAt: expiresAt,
			URL:       marketURL,
		}
		if mkt.Tradable() {
			out = append(out, mkt)
		}
	}
	return out
}
