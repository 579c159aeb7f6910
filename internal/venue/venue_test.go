package venue

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younglubz/Predictionarb/internal/config"
	"github.com/younglubz/Predictionarb/internal/domain"
)

func jsonServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestPolymarketFetchMarkets(t *testing.T) {
	srv := jsonServer(t, `[
		{
			"id": "123",
			"question": "Will Trump win the 2028 election?",
			"slug": "trump-2028",
			"outcomes": "[\"Yes\", \"No\"]",
			"outcomePrices": "[\"0.40\", \"0.60\"]",
			"volume24hr": "50000",
			"liquidity": "120000",
			"endDate": "2028-11-07T12:00:00Z",
			"active": true,
			"closed": false
		},
		{
			"id": "456",
			"question": "Resolved market",
			"outcomes": "[\"Yes\", \"No\"]",
			"outcomePrices": "[\"0.999\", \"0.001\"]",
			"active": true,
			"closed": false
		}
	]`)

	p := NewPolymarket(srv.URL, 5*time.Second, 100)
	markets, err := p.FetchMarkets(context.Background())
	require.NoError(t, err)
	require.Len(t, markets, 2, "the resolved market's outcomes are outside the band")

	yes := markets[0]
	assert.Equal(t, "polymarket", yes.Venue)
	assert.Equal(t, "123", yes.MarketID)
	assert.Equal(t, "Yes", yes.Outcome)
	assert.InDelta(t, 0.40, yes.Price, 1e-9)
	assert.InDelta(t, 50000, yes.Volume24h, 1e-9)
	assert.InDelta(t, 120000, yes.Liquidity, 1e-9)
	require.NotNil(t, yes.ExpiresAt)
	assert.Equal(t, 2028, yes.ExpiresAt.Year())
	assert.Equal(t, "https://polymarket.com/event/trump-2028", yes.URL)

	no := markets[1]
	assert.Equal(t, "No", no.Outcome)
	assert.InDelta(t, 0.60, no.Price, 1e-9)
}

func TestPolymarketSkipsMalformedOutcomeArrays(t *testing.T) {
	srv := jsonServer(t, `[
		{
			"id": "1",
			"question": "q",
			"outcomes": "not json",
			"outcomePrices": "[\"0.5\"]"
		}
	]`)

	p := NewPolymarket(srv.URL, 5*time.Second, 100)
	markets, err := p.FetchMarkets(context.Background())
	require.NoError(t, err)
	assert.Empty(t, markets)
}

func TestKalshiFetchMarkets(t *testing.T) {
	srv := jsonServer(t, `{
		"markets": [
			{
				"ticker": "PRES-2028-R",
				"title": "Republican wins the presidency",
				"subtitle": "2028",
				"status": "open",
				"yes_bid": 38,
				"yes_ask": 42,
				"no_bid": 58,
				"no_ask": 62,
				"volume_24h": 15000,
				"liquidity": 900000,
				"close_time": "2028-11-07T12:00:00Z"
			},
			{
				"ticker": "CLOSED-1",
				"title": "Already settled",
				"status": "settled",
				"yes_bid": 99,
				"yes_ask": 100
			}
		]
	}`)

	k := NewKalshi(srv.URL, 5*time.Second, 200)
	markets, err := k.FetchMarkets(context.Background())
	require.NoError(t, err)
	require.Len(t, markets, 2)

	yes := markets[0]
	assert.Equal(t, "kalshi", yes.Venue)
	assert.Equal(t, "PRES-2028-R", yes.MarketID)
	assert.Equal(t, "Republican wins the presidency - 2028", yes.Question)
	// Cent mids: (38+42)/2 = 40c, (58+62)/2 = 60c.
	assert.InDelta(t, 0.40, yes.Price, 1e-9)
	assert.InDelta(t, 0.60, markets[1].Price, 1e-9)
	assert.InDelta(t, 9000, yes.Liquidity, 1e-9)
	assert.Equal(t, "https://kalshi.com/markets/pres/pres-2028-r", yes.URL)
}

func TestKalshiOpenInterestFallback(t *testing.T) {
	srv := jsonServer(t, `{
		"markets": [
			{
				"ticker": "T-1",
				"title": "q",
				"status": "open",
				"yes_bid": 40,
				"yes_ask": 0,
				"no_bid": 55,
				"no_ask": 0,
				"open_interest": 500
			}
		]
	}`)

	k := NewKalshi(srv.URL, 5*time.Second, 200)
	markets, err := k.FetchMarkets(context.Background())
	require.NoError(t, err)
	require.Len(t, markets, 2)
	// No ask side: the bid stands alone. Depth falls back to open interest.
	assert.InDelta(t, 0.40, markets[0].Price, 1e-9)
	assert.InDelta(t, 5000, markets[0].Liquidity, 1e-9)
}

func TestPredictItFetchMarkets(t *testing.T) {
	srv := jsonServer(t, `{
		"markets": [
			{
				"id": 7057,
				"name": "Who will win the 2028 presidential election?",
				"shortName": "2028 presidential winner",
				"status": "Open",
				"url": "https://www.predictit.org/markets/detail/7057",
				"contracts": [
					{
						"id": 24812,
						"shortName": "Trump",
						"status": "Open",
						"lastTradePrice": 0.45,
						"bestBuyYesCost": 0.46,
						"bestSellYesCost": 0.44,
						"bestBuyNoCost": 0.57,
						"bestSellNoCost": 0.55,
						"dateEnd": "2028-11-07T12:00:00Z"
					},
					{
						"id": 24813,
						"shortName": "Closed contract",
						"status": "Closed"
					}
				]
			}
		]
	}`)

	p := NewPredictIt(srv.URL, 5*time.Second)
	markets, err := p.FetchMarkets(context.Background())
	require.NoError(t, err)
	require.Len(t, markets, 2)

	yes := markets[0]
	assert.Equal(t, "predictit", yes.Venue)
	assert.Equal(t, "7057-24812", yes.MarketID)
	assert.Equal(t, "2028 presidential winner - Trump", yes.Question)
	assert.InDelta(t, 0.45, yes.Price, 1e-9)
	assert.InDelta(t, 0.56, markets[1].Price, 1e-9)
	assert.InDelta(t, predictItLiquidityEstimate, yes.Liquidity, 1e-9)
	require.NotNil(t, yes.ExpiresAt)
}

func TestPredictItEmptyBookUsesLastTrade(t *testing.T) {
	assert.InDelta(t, 0.45, contractMid(0, 0, 0.45), 1e-9)
	assert.InDelta(t, 0.46, contractMid(0.46, 0, 0.45), 1e-9)
	assert.InDelta(t, 0.44, contractMid(0, 0.44, 0.45), 1e-9)
}

func TestManifoldFetchMarkets(t *testing.T) {
	srv := jsonServer(t, `[
		{
			"id": "abc",
			"question": "Will it rain in Denver this week?",
			"slug": "rain-denver",
			"creatorUsername": "alice",
			"outcomeType": "BINARY",
			"probability": 0.42,
			"volume24Hours": 800,
			"totalLiquidity": 1500,
			"closeTime": 1861920000000
		},
		{
			"id": "mc",
			"question": "Who wins?",
			"outcomeType": "MULTIPLE_CHOICE"
		},
		{
			"id": "done",
			"question": "Resolved",
			"outcomeType": "BINARY",
			"probability": 0.42,
			"isResolved": true
		}
	]`)

	m := NewManifold(srv.URL, 5*time.Second, 100)
	markets, err := m.FetchMarkets(context.Background())
	require.NoError(t, err)
	require.Len(t, markets, 2, "only the open binary market survives")

	yes, no := markets[0], markets[1]
	assert.Equal(t, "manifold", yes.Venue)
	assert.InDelta(t, 0.42, yes.Price, 1e-9)
	assert.InDelta(t, 0.58, no.Price, 1e-9)
	assert.Equal(t, "https://manifold.markets/alice/rain-denver", yes.URL)
	require.NotNil(t, yes.ExpiresAt)
}

func TestFetchErrorOnServerFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	p := NewPolymarket(srv.URL, 5*time.Second, 100)
	_, err := p.FetchMarkets(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAllRespectsEnabledFlags(t *testing.T) {
	cfg := config.Defaults().Venues
	cfg.Kalshi.Enabled = false
	cfg.PredictIt.Enabled = false

	fetchers := All(cfg)
	require.Len(t, fetchers, 2)
	assert.Equal(t, "polymarket", fetchers[0].Venue())
	assert.Equal(t, "manifold", fetchers[1].Venue())
}
