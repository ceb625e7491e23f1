// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/gainline/gainline/internal/domain/types"
)

// ReportDependencies defines the interface for report dependencies.
type ReportDependencies interface {
	Totals(ctx context.Context) ([]types.TotalRow, error)
	Per80(ctx context.Context) ([]types.RateRow, error)
	Leaderboard(ctx context.Context, limit int) ([]Entry, error)
}

// ReportsHandler handles aggregation report requests.
type ReportsHandler struct {
	deps ReportDependencies
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(deps ReportDependencies) *ReportsHandler {
	return &ReportsHandler{deps: deps}
}

// HandleTotals handles GET /reports/totals requests.
func (h *ReportsHandler) HandleTotals(w http.ResponseWriter, r *http.Request) {
	const op = "api.report_totals"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	rows, err := h.deps.Totals(r.Context())
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// HandlePer80 handles GET /reports/per80 requests.
func (h *ReportsHandler) HandlePer80(w http.ResponseWriter, r *http.Request) {
	const op = "api.report_per80"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	rows, err := h.deps.Per80(r.Context())
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// HandleLeaderboard handles GET /reports/leaderboard?limit=N requests.
// The limit is clamped to the configured maximum; omitting it returns
// the full board up to that maximum.
func (h *ReportsHandler) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.report_leaderboard"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil || limit < 0 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	entries, err := h.deps.Leaderboard(r.Context(), limit)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
