package venue

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/younglubz/Predictionarb/internal/domain"
)

// PredictIt estimates: the marketdata API exposes no volume or depth, so
// conservative placeholders keep its markets comparable in scoring.
const (
	predictItVolumeEstimate    = 100
	predictItLiquidityEstimate = 200
)

// PredictIt is the REST adapter for the public PredictIt marketdata API.
type PredictIt struct {
	baseURL    string
	httpClient *http.Client
}

// NewPredictIt creates a PredictIt adapter.
//
// baseURL is the API root, e.g. "https://www.predictit.org/api/marketdata".
func NewPredictIt(baseURL string, timeout time.Duration) *PredictIt {
	return &PredictIt{
		baseURL:    baseURL,
		httpClient: newHTTPClient(timeout),
	}
}

func (p *PredictIt) Venue() string { return "predictit" }

type predictItContract struct {
	ID              json.Number `json:"id"`
	Name            string      `json:"name"`
	ShortName       string      `json:"shortName"`
	Status          string      `json:"status"`
	LastTradePrice  float64     `json:"lastTradePrice"`
	BestBuyYesCost  float64     `json:"bestBuyYesCost"`
	BestSellYesCost float64     `json:"bestSellYesCost"`
	BestBuyNoCost   float64     `json:"bestBuyNoCost"`
	BestSellNoCost  float64     `json:"bestSellNoCost"`
	DateEnd         string      `json:"dateEnd"`
}

type predictItMarket struct {
	ID        json.Number         `json:"id"`
	Name      string              `json:"name"`
	ShortName string              `json:"shortName"`
	Status    string              `json:"status"`
	URL       string              `json:"url"`
	Contracts []predictItContract `json:"contracts"`
}

// FetchMarkets returns a Yes and a No record per open PredictIt contract.
// Multi-contract markets yield one question per contract ("<market> - <contract>").
func (p *PredictIt) FetchMarkets(ctx context.Context) ([]domain.Market, error) {
	body, err := doGet(ctx, p.httpClient, p.baseURL+"/all/")
	if err != nil {
		return nil, fmt.Errorf("venue/predictit: get markets: %w", err)
	}

	var resp struct {
		Markets []predictItMarket `json:"markets"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("venue/predictit: decode markets: %w", err)
	}

	var markets []domain.Market
	for i := range resp.Markets {
		markets = append(markets, p.normalize(&resp.Markets[i])...)
	}
	return markets, nil
}

func (p *PredictIt) normalize(m *predictItMarket) []domain.Market {
	marketID := m.ID.String()
	question := m.ShortName
	if question == "" {
		question = m.Name
	}
	if marketID == "" || question == "" || m.Status != "Open" {
		return nil
	}

	marketURL := m.URL
	if marketURL == "" {
		marketURL = "https://www.predictit.org/markets/detail/" + marketID
	}

	var out []domain.Market
	for i := range m.Contracts {
		c := &m.Contracts[i]
		if c.Status != "Open" {
			continue
		}

		contractName := c.ShortName
		if contractName == "" {
			contractName = c.Name
		}
		fullQuestion := question
		if contractName != "" {
			fullQuestion = question + " - " + contractName
		}

		yesPrice := contractMid(c.BestBuyYesCost, c.BestSellYesCost, c.LastTradePrice)
		noPrice := contractMid(c.BestBuyNoCost, c.BestSellNoCost, 1-yesPrice)
		expiresAt := parseExpiry(c.DateEnd)
		contractID := marketID + "-" + c.ID.String()

		for _, leg := range []struct {
			outcome string
			price   float64
		}{
			{"Yes", yesPrice},
			{"No", noPrice},
		} {
			mkt := domain.Market{
				Venue:     p.Venue(),
				MarketID:  contractID,
				Question:  fullQuestion,
				Outcome:   leg.outcome,
				Price:     leg.price,
				Volume24h: predictItVolumeEstimate,
				Liquidity: predictItLiquidityEstimate,
				ExpiresAt: expiresAt,
				URL:       marketURL,
			}
			if mkt.Tradable() {
				out = append(out, mkt)
			}
		}
	}
	return out
}

// contractMid returns the buy/sell midpoint, one available side, or the
// fallback when the book is empty.
func contractMid(buy, sell, fallback float64) float64 {
	switch {
	case buy > 0 && sell > 0:
		return (buy + sell) / 2
	case buy > 0:
		return buy
	case sell > 0:
		return sell
	default:
		return fallback
	}
}
