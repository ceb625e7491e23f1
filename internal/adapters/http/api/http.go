// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gainline/gainline/internal/adapters/store"
	appsvc "github.com/gainline/gainline/internal/app"
	"github.com/gainline/gainline/internal/domain/auth"
	"github.com/gainline/gainline/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	CatalogDependencies
	EventDependencies
	ReportDependencies
	MomentDependencies
	HotkeyDependencies
}

// Entry mirrors the read shape returned by leaderboard queries.
type Entry = types.Entry

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	catalogHandler *CatalogHandler
	eventsHandler  *EventsHandler
	reportsHandler *ReportsHandler
	momentsHandler *MomentsHandler
	hotkeysHandler *HotkeysHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		catalogHandler: NewCatalogHandler(deps),
		eventsHandler:  NewEventsHandler(deps),
		reportsHandler: NewReportsHandler(deps),
		momentsHandler: NewMomentsHandler(deps),
		hotkeysHandler: NewHotkeysHandler(deps),
	}
}

// Register attaches all HTTP routes to mux. Every route passes through the
// role middleware so the capability the fronting auth layer supplies rides
// the request context.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	route := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, RequestIDMiddleware(RoleMiddleware(MetricsMiddleware(h, endpoint))))
	}

	route("/healthz", "healthz", s.healthHandler.HandleHealth)
	route("/stats", "stats", s.statsHandler.HandleStats)

	route("/players", "players", s.catalogHandler.HandlePlayers)
	route("/players/", "players", s.catalogHandler.HandlePlayerByID)
	route("/metrics-catalog", "metrics_catalog", s.catalogHandler.HandleMetrics)
	route("/metrics-catalog/", "metrics_catalog", s.catalogHandler.HandleMetricByID)
	route("/matches", "matches", s.catalogHandler.HandleMatches)
	route("/matches/", "matches", s.catalogHandler.HandleMatchByID)
	route("/teams", "teams", s.catalogHandler.HandleTeams)
	route("/teams/", "teams", s.catalogHandler.HandleTeamRoster)
	route("/videos", "videos", s.catalogHandler.HandleVideos)
	route("/videos/", "videos", s.catalogHandler.HandleVideoByID)

	route("/events", "events", s.eventsHandler.HandleEvents)
	route("/events/", "events", s.eventsHandler.HandleEventByID)

	route("/reports/totals", "report_totals", s.reportsHandler.HandleTotals)
	route("/reports/per80", "report_per80", s.reportsHandler.HandlePer80)
	route("/reports/leaderboard", "report_leaderboard", s.reportsHandler.HandleLeaderboard)

	route("/moments", "moments", s.momentsHandler.HandleMoments)
	route("/moments/export", "moments_export", s.momentsHandler.HandleExport)
	route("/moments/", "moments", s.momentsHandler.HandleMomentByID)

	route("/hotkeys", "hotkeys", s.hotkeysHandler.HandleHotkeys)
	route("/hotkeys/preset", "hotkeys_preset", s.hotkeysHandler.HandlePreset)
	route("/hotkeys/", "hotkeys", s.hotkeysHandler.HandleHotkeyBySymbol)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError translates the store/auth error taxonomy into HTTP
// statuses: validation 400, missing reference 422, duplicate 409, not found
// 404, permission 403, anything else 500.
func writeDomainError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, store.ErrValidation):
		writeError(w, http.StatusBadRequest, "validation_error", Wrap(op, err))
	case errors.Is(err, store.ErrDuplicateKey):
		writeError(w, http.StatusConflict, "duplicate_key", Wrap(op, err))
	case errors.Is(err, store.ErrReference):
		writeError(w, http.StatusUnprocessableEntity, "reference_error", Wrap(op, err))
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
	case errors.Is(err, auth.ErrPermissionDenied):
		writeError(w, http.StatusForbidden, "permission_denied", Wrap(op, err))
	case errors.Is(err, appsvc.ErrUnknownPreset):
		writeError(w, http.StatusNotFound, "unknown_preset", Wrap(op, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}

// pathID extracts the trailing numeric identifier from paths like /players/42.
func pathID(path, prefix string) (uint, error) {
	rest := strings.Trim(strings.TrimPrefix(path, prefix), "/")
	if rest == "" {
		return 0, ErrBadRequest
	}
	n, err := strconv.ParseUint(rest, 10, 32)
	if err != nil {
		return 0, ErrBadRequest
	}
	return uint(n), nil
}

// queryUint parses an unsigned query parameter, returning 0 when absent.
func queryUint(r *http.Request, name string) (uint, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, ErrBadRequest
	}
	return uint(n), nil
}

// queryInt parses a signed query parameter, returning def when absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, ErrBadRequest
	}
	return n, nil
}
