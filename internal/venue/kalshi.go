package venue

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/younglubz/Predictionarb/internal/domain"
)

// Kalshi is the REST adapter for the public Kalshi markets API. Market data
// endpoints need no authentication.
type Kalshi struct {
	baseURL    string
	maxMarkets int
	httpClient *http.Client
}

// NewKalshi creates a Kalshi adapter.
//
// baseURL is the API root, e.g. "https://api.elections.kalshi.com/trade-api/v2".
func NewKalshi(baseURL string, timeout time.Duration, maxMarkets int) *Kalshi {
	if maxMarkets <= 0 {
		maxMarkets = 200
	}
	return &Kalshi{
		baseURL:    baseURL,
		maxMarkets: maxMarkets,
		httpClient: newHTTPClient(timeout),
	}
}

func (k *Kalshi) Venue() string { return "kalshi" }

type kalshiMarket struct {
	Ticker       string  `json:"ticker"`
	Title        string  `json:"title"`
	Subtitle     string  `json:"subtitle"`
	Status       string  `json:"status"`
	YesBid       float64 `json:"yes_bid"`
	YesAsk       float64 `json:"yes_ask"`
	NoBid        float64 `json:"no_bid"`
	NoAsk        float64 `json:"no_ask"`
	Volume24h    float64 `json:"volume_24h"`
	Liquidity    float64 `json:"liquidity"`
	OpenInterest float64 `json:"open_interest"`
	CloseTime    string  `json:"close_time"`
}

// FetchMarkets returns a Yes and a No record per open Kalshi market, priced
// at the bid/ask midpoint.
func (k *Kalshi) FetchMarkets(ctx context.Context) ([]domain.Market, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(k.maxMarkets))
	params.Set("status", "open")

	body, err := doGet(ctx, k.httpClient, k.baseURL+"/markets?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("venue/kalshi: get markets: %w", err)
	}

	var resp struct {
		Markets []kalshiMarket `json:"markets"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("venue/kalshi: decode markets: %w", err)
	}

	var markets []domain.Market
	for i := range resp.Markets {
		markets = append(markets, k.normalize(&resp.Markets[i])...)
	}
	return markets, nil
}

func (k *Kalshi) normalize(m *kalshiMarket) []domain.Market {
	if m.Ticker == "" || m.Title == "" {
		return nil
	}
	if m.Status != "open" && m.Status != "active" {
		return nil
	}

	question := m.Title
	if m.Subtitle != "" {
		question += " - " + m.Subtitle
	}

	// Prices arrive in cents.
	yesPrice := midPrice(m.YesBid, m.YesAsk) / 100
	noPrice := midPrice(m.NoBid, m.NoAsk) / 100

	liquidity := m.Liquidity / 100
	if liquidity <= 0 {
		// Open interest is the only depth signal on some markets.
		liquidity = m.OpenInterest * 10
	}

	expiresAt := parseExpiry(m.CloseTime)
	marketURL := kalshiURL(m.Ticker)

	var out []domain.Market
	for _, leg := range []struct {
		outcome string
		price   float64
	}{
		{"Yes", yesPrice},
		{"No", noPrice},
	} {
		mkt := domain.Market{
			Venue:     k.Venue(),
			MarketID:  m.Ticker,
			Question:  question,
			Outcome:   leg.outcome,
			Price:     leg.price,
			Volume24h: m.Volume24h,
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

// midPrice returns the bid/ask midpoint, or the bid when the ask side is
// empty.
func midPrice(bid, ask float64) float64 {
	if ask > 0 {
		return (bid + ask) / 2
	}
	return bid
}

// kalshiURL builds the public market page URL. The event ticker is the part
// of the market ticker before the first dash.
func kalshiURL(ticker string) string {
	event := ticker
	if i := strings.Index(ticker, "-"); i > 0 {
		event = ticker[:i]
	}
	return "https://kalshi.com/markets/" + strings.ToLower(event) + "/" + strings.ToLower(ticker)
}
