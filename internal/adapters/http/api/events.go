// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gainline/gainline/internal/domain/model"
)

// EventDependencies defines the interface for ledger dependencies.
type EventDependencies interface {
	LogEvent(ctx context.Context, matchID, playerID, metricID uint, value float64) (model.Event, error)
	ListRecent(ctx context.Context, matchID uint, limit int) ([]model.RecentEvent, error)
	DeleteEvent(ctx context.Context, id uint) error
	ResolveHotkey(ctx context.Context, symbol string) (uint, bool)
}

// EventsHandler handles tagging requests.
type EventsHandler struct {
	deps EventDependencies
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps EventDependencies) *EventsHandler {
	return &EventsHandler{deps: deps}
}

// ackResponse acknowledges a mutation with no payload to return.
type ackResponse struct {
	Status string `json:"status"`
}

type eventRequest struct {
	MatchID  uint    `json:"match_id"`
	PlayerID uint    `json:"player_id"`
	MetricID uint    `json:"metric_id"`
	Hotkey   string  `json:"hotkey"`
	Value    float64 `json:"value"`
}

// HandleEvents handles POST (log) and GET (recent feed) /events requests.
// A POST may name the metric either by metric_id or by a bound hotkey
// symbol; metric_id wins when both are present.
func (h *EventsHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	const op = "api.events"
	switch r.Method {
	case http.MethodPost:
		var req eventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		metricID := req.MetricID
		if metricID == 0 && req.Hotkey != "" {
			id, ok := h.deps.ResolveHotkey(r.Context(), req.Hotkey)
			if !ok {
				writeError(w, http.StatusBadRequest, "unbound_hotkey", NewKind(op, ErrBadRequest))
				return
			}
			metricID = id
		}
		event, err := h.deps.LogEvent(r.Context(), req.MatchID, req.PlayerID, metricID, req.Value)
		if err != nil {
			writeDomainError(w, op, err)
			return
		}
		writeJSON(w, http.StatusCreated, event)
	case http.MethodGet:
		matchID, err := queryUint(r, "match_id")
		if err != nil || matchID == 0 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		limit, err := queryInt(r, "limit", 0)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		recent, err := h.deps.ListRecent(r.Context(), matchID, limit)
		if err != nil {
			writeDomainError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, recent)
	default:
		http.NotFound(w, r)
	}
}

// HandleEventByID handles DELETE /events/{id} requests.
func (h *EventsHandler) HandleEventByID(w http.ResponseWriter, r *http.Request) {
	const op = "api.event_by_id"
	if r.Method != http.MethodDelete {
		http.NotFound(w, r)
		return
	}
	id, err := pathID(r.URL.Path, "/events/")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if err := h.deps.DeleteEvent(r.Context(), id); err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "deleted"})
}
