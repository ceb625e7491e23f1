// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gainline/gainline/internal/domain/model"
)

// CatalogDependencies defines the interface for catalog dependencies.
type CatalogDependencies interface {
	CreatePlayer(ctx context.Context, name, position string) (model.Player, error)
	UpdatePlayer(ctx context.Context, p model.Player) (model.Player, error)
	SetPlayerActive(ctx context.Context, id uint, active bool) error
	DeletePlayer(ctx context.Context, id uint) error
	ListPlayers(ctx context.Context) ([]model.Player, error)

	CreateMetric(ctx context.Context, m model.Metric) (model.Metric, error)
	UpdateMetric(ctx context.Context, m model.Metric) (model.Metric, error)
	SetMetricActive(ctx context.Context, id uint, active bool) error
	DeleteMetric(ctx context.Context, id uint) error
	ListMetrics(ctx context.Context, onlyActive bool) ([]model.Metric, error)

	CreateMatch(ctx context.Context, opponent, date string) (model.Match, error)
	FindOrCreateMatch(ctx context.Context, opponent, date string) (model.Match, error)
	DeleteMatch(ctx context.Context, id uint) error
	ListMatches(ctx context.Context) ([]model.Match, error)

	CreateTeam(ctx context.Context, name string) (model.Team, error)
	ListTeams(ctx context.Context) ([]model.Team, error)
	AddToRoster(ctx context.Context, teamID, playerID uint) error
	RemoveFromRoster(ctx context.Context, teamID, playerID uint) error
	ListRoster(ctx context.Context, teamID uint) ([]model.Player, error)

	AddVideo(ctx context.Context, v model.Video) (model.Video, error)
	ListVideos(ctx context.Context, matchID uint) ([]model.Video, error)
	DeleteVideo(ctx context.Context, id uint) error
}

// CatalogHandler handles roster and reference-data requests.
type CatalogHandler struct {
	deps CatalogDependencies
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(deps CatalogDependencies) *CatalogHandler {
	return &CatalogHandler{deps: deps}
}

type playerRequest struct {
	Name     string `json:"name"`
	Position string `json:"position"`
}

type activeRequest struct {
	Active bool `json:"active"`
}

// HandlePlayers handles GET and POST /players requests.
func (h *CatalogHandler) HandlePlayers(w http.ResponseWriter, r *http.Request) {
	const op = "api.players"
	switch r.Method {
	case http.MethodGet:
		players, err := h.deps.ListPlayers(r.Context())
		if err != nil {
			writeDomainError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, players)
	case http.MethodPost:
		var req playerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		player, err := h.deps.CreatePlayer(r.Context(), req.Name, req.Position)
		if err != nil {
			writeDomainError(w, op, err)
			return
		}
		writeJSON(w, http.StatusCreated, player)
	default:
		http.NotFound(w, r)
	}
}

// HandlePlayerByID handles PUT, PATCH and DELETE /players/{id} requests.
func (h *CatalogHandler) HandlePlayerByID(w http.ResponseWriter, r *http.Request) {
	const op = "api.player_by_id"
	id, err := pathID(r.URL.Path, "/players/")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	switch r.Method {
	case http.MethodPut:
		var req playerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		player, err := h.deps.UpdatePlayer(r.Context(), model.Player{ID: id, Name: req.Name, Position: req.Position})
		if err != nil {
			writeDomainError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, player)
	case http.MethodPatch:
		var req activeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		if err := h.deps.SetPlayerActive(r.Context(), id, req.Active); err != nil {
			writeDomainError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, ackResponse{Status: "updated"})
	case http.MethodDelete:
		if err := h.deps.DeletePlayer(r.Context(), id); err != nil {
			writeDomainError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, ackResponse{Status: "deleted"})
	default:
		http.NotFound(w, r)
	}
}

type metricRequest struct {
	Key          string  `json:"key"`
	Label        string  `json:"label"`
	Group        string  `json:"group"`
	Kind         string  `json:"kind"`
	IncludePer80 bool    `json:"include_per80"`
	Weight       float64 `json:"weight"`
}

func (m metricRequest) toModel(id uint) model.Metric {
	return model.Metric{
		ID:           id,
		Key:          m.Key,
		Label:        m.Label,
		Group:        model.MetricGroup(m.Group),
		Kind:         model.MetricKind(m.Kind),
		IncludePer80: m.IncludePer80,
		Weight:       m.Weight,
		Active:       true,
	}
}

// HandleMetrics handles GET and POST /metrics-catalog requests.
func (h *CatalogHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	const op = "api.metrics_catalog"
	switch r.Method {
	case http.MethodGet:
		onlyActive := r.URL.Query().Get("active") == "true"
		defs, err := h.deps.ListMetrics(r.Context(), onlyActive)
		if err != nil {
			writeDomainError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, defs)
	case http.MethodPost:
		var req metricRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		def, err := h.deps.CreateMetric(r.Context(), req.toModel(0))
		if err != nil {
			writeDomainError(w, op, err)
			return
		}
		writeJSON(w, http.StatusCreated, def)
	default:
		http.NotFound(w, r)
	}
}

// HandleMetricByID handles PUT, PATCH and DELETE /metrics-catalog/{id} requests.
func (h *CatalogHandler) HandleMetricByID(w http.ResponseWriter, r *http.Request) {
	const op = "api.metric_by_id"
	id, err := pathID(r.URL.Path, "/metrics-catalog/")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	switch r.Method {
	case http.MethodPut:
		var req metricRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		def, err := h.deps.UpdateMetric(r.Context(), req.toModel(id))
		if err != nil {
			writeDomainError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, def)
	case http.MethodPatch:
		var req activeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		if err := h.deps.SetMetricActive(r.Context(), id, req.Active); err != nil {
			writeDomainError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, ackResponse{Status: "updated"})
	case http.MethodDelete:
		if err := h.deps.DeleteMetric(r.Context(), id); err != nil {
			writeDomainError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, ackResponse{Status: "deleted"})
	default:
		http.NotFound(w, r)
	}
}

type matchRequest struct {
	Opponent string `json:"opponent"`
	Date     string `json:"date"`
	Reuse    bool   `json:"reuse"`
}

// HandleMatches handles GET and POST /matches requests. A POST with
// reuse=true returns an existing match on the same opponent and date
// instead of inserting a second row.
func (h *CatalogHandler) HandleMatches(w http.ResponseWriter, r *http.Request) {
	const op = "api.matches"
	switch r.Method {
	case http.MethodGet:
		matches, err := h.deps.ListMatches(r.Context())
		if err != nil {
			writeDomainError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, matches)
	case http.MethodPost:
		var req matchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		var (
			match model.Match
			err   error
		)
		if req.Reuse {
			match, err = h.deps.FindOrCreateMatch(r.Context(), req.Opponent, req.Date)
		} else {
			match, err = h.deps.CreateMatch(r.Context(), req.Opponent, req.Date)
		}
		if err != nil {
			writeDomainError(w, op, err)
			return
		}
		writeJSON(w, http.StatusCreated, match)
	default:
		http.NotFound(w, r)
	}
}

// HandleMatchByID handles DELETE /matches/{id} requests.
func (h *CatalogHandler) HandleMatchByID(w http.ResponseWriter, r *http.Request) {
	const op = "api.match_by_id"
	if r.Method != http.MethodDelete {
		http.NotFound(w, r)
		return
	}
	id, err := pathID(r.URL.Path, "/matches/")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if err := h.deps.DeleteMatch(r.Context(), id); err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "deleted"})
}

type teamRequest struct {
	Name string `json:"name"`
}

// HandleTeams handles GET and POST /teams requests.
func (h *CatalogHandler) HandleTeams(w http.ResponseWriter, r *http.Request) {
	const op = "api.teams"
	switch r.Method {
	case http.MethodGet:
		teams, err := h.deps.ListTeams(r.Context())
		if err != nil {
			writeDomainError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, teams)
	case http.MethodPost:
		var req teamRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		team, err := h.deps.CreateTeam(r.Context(), req.Name)
		if err != nil {
			writeDomainError(w, op, err)
			return
		}
		writeJSON(w, http.StatusCreated, team)
	default:
		http.NotFound(w, r)
	}
}

type rosterRequest struct {
	PlayerID uint `json:"player_id"`
}

// HandleTeamRoster handles /teams/{id}/roster requests: GET lists the
// squad, POST adds a player, DELETE removes one.
func (h *CatalogHandler) HandleTeamRoster(w http.ResponseWriter, r *http.Request) {
	const op = "api.team_roster"
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/teams/"), "/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[1] != "roster" {
		http.NotFound(w, r)
		return
	}
	teamID, err := pathID("/"+parts[0], "/")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	switch r.Method {
	case http.MethodGet:
		players, err := h.deps.ListRoster(r.Context(), teamID)
		if err != nil {
			writeDomainError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, players)
	case http.MethodPost:
		var req rosterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		if err := h.deps.AddToRoster(r.Context(), teamID, req.PlayerID); err != nil {
			writeDomainError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, ackResponse{Status: "added"})
	case http.MethodDelete:
		playerID, err := queryUint(r, "player_id")
		if err != nil || playerID == 0 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		if err := h.deps.RemoveFromRoster(r.Context(), teamID, playerID); err != nil {
			writeDomainError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, ackResponse{Status: "removed"})
	default:
		http.NotFound(w, r)
	}
}

type videoRequest struct {
	MatchID uint    `json:"match_id"`
	Kind    string  `json:"kind"`
	URL     string  `json:"url"`
	Label   string  `json:"label"`
	Offset  float64 `json:"offset"`
}

// HandleVideos handles GET and POST /videos requests. GET requires a
// match_id query parameter.
func (h *CatalogHandler) HandleVideos(w http.ResponseWriter, r *http.Request) {
	const op = "api.videos"
	switch r.Method {
	case http.MethodGet:
		matchID, err := queryUint(r, "match_id")
		if err != nil || matchID == 0 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		videos, err := h.deps.ListVideos(r.Context(), matchID)
		if err != nil {
			writeDomainError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, videos)
	case http.MethodPost:
		var req videoRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		video, err := h.deps.AddVideo(r.Context(), model.Video{
			MatchID: req.MatchID,
			Kind:    req.Kind,
			URL:     req.URL,
			Label:   req.Label,
			Offset:  req.Offset,
		})
		if err != nil {
			writeDomainError(w, op, err)
			return
		}
		writeJSON(w, http.StatusCreated, video)
	default:
		http.NotFound(w, r)
	}
}

// HandleVideoByID handles DELETE /videos/{id} requests.
func (h *CatalogHandler) HandleVideoByID(w http.ResponseWriter, r *http.Request) {
	const op = "api.video_by_id"
	if r.Method != http.MethodDelete {
		http.NotFound(w, r)
		return
	}
	id, err := pathID(r.URL.Path, "/videos/")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if err := h.deps.DeleteVideo(r.Context(), id); err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "deleted"})
}
