// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// HotkeyDependencies defines the interface for input-mapping dependencies.
type HotkeyDependencies interface {
	BindHotkey(ctx context.Context, symbol string, metricID uint) error
	UnbindHotkey(ctx context.Context, symbol string) error
	ClearHotkeys(ctx context.Context) error
	HotkeyBindings(ctx context.Context) map[string]uint
	LoadHotkeyPreset(ctx context.Context, name string) (int, error)
}

// HotkeysHandler handles input-mapping requests.
type HotkeysHandler struct {
	deps HotkeyDependencies
}

// NewHotkeysHandler creates a new hotkeys handler.
func NewHotkeysHandler(deps HotkeyDependencies) *HotkeysHandler {
	return &HotkeysHandler{deps: deps}
}

type bindRequest struct {
	Symbol   string `json:"symbol"`
	MetricID uint   `json:"metric_id"`
}

type presetRequest struct {
	Name string `json:"name"`
}

type presetResponse struct {
	Status string `json:"status"`
	Bound  int    `json:"bound"`
}

// HandleHotkeys handles GET (list bindings), POST (bind) and DELETE
// (clear all) /hotkeys requests.
func (h *HotkeysHandler) HandleHotkeys(w http.ResponseWriter, r *http.Request) {
	const op = "api.hotkeys"
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.deps.HotkeyBindings(r.Context()))
	case http.MethodPost:
		var req bindRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		if err := h.deps.BindHotkey(r.Context(), req.Symbol, req.MetricID); err != nil {
			writeDomainError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, ackResponse{Status: "bound"})
	case http.MethodDelete:
		if err := h.deps.ClearHotkeys(r.Context()); err != nil {
			writeDomainError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, ackResponse{Status: "cleared"})
	default:
		http.NotFound(w, r)
	}
}

// HandlePreset handles POST /hotkeys/preset requests, replacing the
// current key map with a named preset.
func (h *HotkeysHandler) HandlePreset(w http.ResponseWriter, r *http.Request) {
	const op = "api.hotkeys_preset"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req presetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	bound, err := h.deps.LoadHotkeyPreset(r.Context(), req.Name)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, presetResponse{Status: "loaded", Bound: bound})
}

// HandleHotkeyBySymbol handles DELETE /hotkeys/{symbol} requests.
func (h *HotkeysHandler) HandleHotkeyBySymbol(w http.ResponseWriter, r *http.Request) {
	const op = "api.hotkey_by_symbol"
	if r.Method != http.MethodDelete {
		http.NotFound(w, r)
		return
	}
	symbol := strings.Trim(strings.TrimPrefix(r.URL.Path, "/hotkeys/"), "/")
	if symbol == "" || symbol == "preset" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if err := h.deps.UnbindHotkey(r.Context(), symbol); err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "unbound"})
}
