package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/younglubz/Predictionarb/internal/domain"
)

// OpportunityHandler serves the opportunity and run endpoints. Live results
// come from the in-memory cycle snapshot, history from the persistent store.
type OpportunityHandler struct {
	state  StateReader
	store  domain.OpportunityStore
	logger *slog.Logger
}

// NewOpportunityHandler creates an OpportunityHandler. Either dependency may
// be nil; the matching endpoints then answer 503.
func NewOpportunityHandler(state StateReader, store domain.OpportunityStore, logger *slog.Logger) *OpportunityHandler {
	return &OpportunityHandler{
		state:  state,
		store:  store,
		logger: logger,
	}
}

// listOpportunitiesResponse wraps a set of opportunities with metadata.
type listOpportunitiesResponse struct {
	Opportunities []domain.Opportunity `json:"opportunities"`
	Total         int                  `json:"total"`
	Limit         int                  `json:"limit"`
	RunID         string               `json:"run_id,omitempty"`
}

// ListCurrent returns the latest cycle's opportunities, quality-sorted,
// optionally filtered to one strategy.
// GET /api/opportunities?strategy=classic&limit=50
func (h *OpportunityHandler) ListCurrent(w http.ResponseWriter, r *http.Request) {
	if h.state == nil {
		writeError(w, http.StatusServiceUnavailable, "no scanner attached")
		return
	}

	limit := parseLimit(r)
	strat := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("strategy")))

	opps := h.state.Opportunities()
	if strat != "" {
		filtered := opps[:0]
		for _, o := range opps {
			if string(o.Strategy) == strat {
				filtered = append(filtered, o)
			}
		}
		opps = filtered
	}

	total := len(opps)
	if len(opps) > limit {
		opps = opps[:limit]
	}

	resp := listOpportunitiesResponse{Opportunities: opps, Total: total, Limit: limit}
	if run, ok := h.state.LastRun(); ok {
		resp.RunID = run.RunID
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListHistory returns persisted opportunities across runs, most recent first.
// GET /api/opportunities/history?limit=50
func (h *OpportunityHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusServiceUnavailable, "persistence disabled")
		return
	}

	limit := parseLimit(r)
	opps, err := h.store.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: list opportunity history failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to list opportunities")
		return
	}

	writeJSON(w, http.StatusOK, listOpportunitiesResponse{
		Opportunities: opps,
		Total:         len(opps),
		Limit:         limit,
	})
}

// listRunsResponse wraps the run history output.
type listRunsResponse struct {
	Runs  []domain.RunSummary `json:"runs"`
	Total int                 `json:"total"`
	Limit int                 `json:"limit"`
}

// ListRuns returns persisted run summaries, most recent first.
// GET /api/runs?limit=50
func (h *OpportunityHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusServiceUnavailable, "persistence disabled")
		return
	}

	limit := parseLimit(r)
	runs, err := h.store.ListRuns(r.Context(), limit)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: list runs failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}

	writeJSON(w, http.StatusOK, listRunsResponse{
		Runs:  runs,
		Total: len(runs),
		Limit: limit,
	})
}
