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

// Polymarket is the REST adapter for the Polymarket Gamma API.
type Polymarket struct {
	baseURL    string
	maxMarkets int
	httpClient *http.Client
}

// NewPolymarket creates a Gamma API adapter.
//
// baseURL is the Gamma root, e.g. "https://gamma-api.polymarket.com".
func NewPolymarket(baseURL string, timeout time.Duration, maxMarkets int) *Polymarket {
	if maxMarkets <= 0 {
		maxMarkets = 100
	}
	return &Polymarket{
		baseURL:    baseURL,
		maxMarkets: maxMarkets,
		httpClient: newHTTPClient(timeout),
	}
}

func (p *Polymarket) Venue() string { return "polymarket" }

// gammaMarket mirrors the Gamma /markets response shape. Outcomes and their
// prices arrive as JSON-encoded string arrays inside string fields.
type gammaMarket struct {
	ID            string `json:"id"`
	Question      string `json:"question"`
	Slug          string `json:"slug"`
	Outcomes      string `json:"outcomes"`
	OutcomePrices string `json:"outcomePrices"`
	Volume24hr    string `json:"volume24hr"`
	Liquidity     string `json:"liquidity"`
	EndDate       string `json:"endDate"`
	Active        bool   `json:"active"`
	Closed        bool   `json:"closed"`
}

// FetchMarkets returns one Market per outcome of each active Gamma market.
func (p *Polymarket) FetchMarkets(ctx context.Context) ([]domain.Market, error) {
	params := url.Values{}
	params.Set("active", "true")
	params.Set("closed", "false")
	params.Set("limit", strconv.Itoa(p.maxMarkets))
	params.Set("order", "volume24hr")
	params.Set("ascending", "false")

	body, err := doGet(ctx, p.httpClient, p.baseURL+"/markets?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("venue/polymarket: get markets: %w", err)
	}

	var apiMarkets []gammaMarket
	if err := json.Unmarshal(body, &apiMarkets); err != nil {
		return nil, fmt.Errorf("venue/polymarket: decode markets: %w", err)
	}

	var markets []domain.Market
	for i := range apiMarkets {
		markets = append(markets, p.normalize(&apiMarkets[i])...)
	}
	return markets, nil
}

// normalize expands one Gamma market into per-outcome records, dropping
// outcomes outside the tradable band.
func (p *Polymarket) normalize(m *gammaMarket) []domain.Market {
	if m.Closed || m.Question == "" || m.ID == "" {
		return nil
	}

	var outcomes []string
	var prices []string
	// Both fields are doubly encoded; a decode failure means the market has
	// an unexpected shape and is skipped rather than guessed at.
	if err := json.Unmarshal([]byte(m.Outcomes), &outcomes); err != nil {
		return nil
	}
	if err := json.Unmarshal([]byte(m.OutcomePrices), &prices); err != nil {
		return nil
	}
	if len(outcomes) != len(prices) {
		return nil
	}

	volume, _ := strconv.ParseFloat(m.Volume24hr, 64)
	liquidity, _ := strconv.ParseFloat(m.Liquidity, 64)
	expiresAt := parseExpiry(m.EndDate)

	marketURL := "https://polymarket.com/event/" + m.Slug
	if m.Slug == "" {
		marketURL = "https://polymarket.com/markets/" + m.ID
	}

	var out []domain.Market
	for i, outcome := range outcomes {
		price, err := strconv.ParseFloat(prices[i], 64)
		if err != nil {
			continue
		}
		mkt := domain.Market{
			Venue:     p.Venue(),
			MarketID:  m.ID,
			Question:  m.Question,
			Outcome:   outcome,
			Price:     price,
			Volume24h: volume,
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
