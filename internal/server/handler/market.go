package handler

import (
	"net/http"
	"strings"

	"github.com/younglubz/Predictionarb/internal/domain"
)

// MarketHandler serves the market and match endpoints from the latest
// detection cycle snapshot.
type MarketHandler struct {
	state StateReader
}

// NewMarketHandler creates a MarketHandler reading from the given state.
func NewMarketHandler(state StateReader) *MarketHandler {
	return &MarketHandler{state: state}
}

// listMarketsResponse wraps the list endpoint output with metadata.
type listMarketsResponse struct {
	Markets []domain.Market `json:"markets"`
	Total   int             `json:"total"`
	Limit   int             `json:"limit"`
}

// ListMarkets returns the markets of the latest cycle, optionally filtered to
// one venue.
// GET /api/markets?venue=kalshi&limit=50
func (h *MarketHandler) ListMarkets(w http.ResponseWriter, r *http.Request) {
	if h.state == nil {
		writeError(w, http.StatusServiceUnavailable, "no scanner attached")
		return
	}

	limit := parseLimit(r)
	venue := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("venue")))

	markets := h.state.Markets()
	if venue != "" {
		filtered := markets[:0]
		for _, m := range markets {
			if strings.ToLower(m.Venue) == venue {
				filtered = append(filtered, m)
			}
		}
		markets = filtered
	}

	total := len(markets)
	if len(markets) > limit {
		markets = markets[:limit]
	}

	writeJSON(w, http.StatusOK, listMarketsResponse{
		Markets: markets,
		Total:   total,
		Limit:   limit,
	})
}

// listMatchesResponse wraps the match endpoint output.
type listMatchesResponse struct {
	Matches []domain.Pair `json:"matches"`
	Total   int           `json:"total"`
	Limit   int           `json:"limit"`
}

// ListMatches returns the equivalent cross-venue pairs confirmed in the
// latest cycle.
// GET /api/matches?limit=50
func (h *MarketHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	if h.state == nil {
		writeError(w, http.StatusServiceUnavailable, "no scanner attached")
		return
	}

	limit := parseLimit(r)
	pairs := h.state.Pairs()
	total := len(pairs)
	if len(pairs) > limit {
		pairs = pairs[:limit]
	}

	writeJSON(w, http.StatusOK, listMatchesResponse{
		Matches: pairs,
		Total:   total,
		Limit:   limit,
	})
}
