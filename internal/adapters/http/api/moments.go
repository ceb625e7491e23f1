// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gainline/gainline/internal/domain/model"
)

// MomentDependencies defines the interface for bookmark dependencies.
type MomentDependencies interface {
	AddMoment(ctx context.Context, m model.Moment) (model.Moment, error)
	UpdateMomentNote(ctx context.Context, id uint, note string) error
	DeleteMoment(ctx context.Context, id uint) error
	ListMoments(ctx context.Context, matchID, videoID uint) ([]model.Moment, error)
	ExportMomentsCSV(ctx context.Context, matchID, videoID uint) ([]byte, error)
}

// MomentsHandler handles video bookmark requests.
type MomentsHandler struct {
	deps MomentDependencies
}

// NewMomentsHandler creates a new moments handler.
func NewMomentsHandler(deps MomentDependencies) *MomentsHandler {
	return &MomentsHandler{deps: deps}
}

type momentRequest struct {
	MatchID uint    `json:"match_id"`
	VideoID uint    `json:"video_id"`
	VideoTS float64 `json:"video_ts"`
	Note    string  `json:"note"`
}

type noteRequest struct {
	Note string `json:"note"`
}

func momentFilter(r *http.Request) (matchID, videoID uint, err error) {
	matchID, err = queryUint(r, "match_id")
	if err == nil {
		videoID, err = queryUint(r, "video_id")
	}
	if err == nil && (matchID == 0 || videoID == 0) {
		err = ErrBadRequest
	}
	return matchID, videoID, err
}

// HandleMoments handles GET and POST /moments requests. GET requires
// match_id and video_id query parameters and returns bookmarks in
// video timestamp order.
func (h *MomentsHandler) HandleMoments(w http.ResponseWriter, r *http.Request) {
	const op = "api.moments"
	switch r.Method {
	case http.MethodGet:
		matchID, videoID, err := momentFilter(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		moments, err := h.deps.ListMoments(r.Context(), matchID, videoID)
		if err != nil {
			writeDomainError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, moments)
	case http.MethodPost:
		var req momentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		moment, err := h.deps.AddMoment(r.Context(), model.Moment{
			MatchID: req.MatchID,
			VideoID: req.VideoID,
			VideoTS: req.VideoTS,
			Note:    req.Note,
		})
		if err != nil {
			writeDomainError(w, op, err)
			return
		}
		writeJSON(w, http.StatusCreated, moment)
	default:
		http.NotFound(w, r)
	}
}

// HandleMomentByID handles PATCH (note edit) and DELETE /moments/{id}
// requests.
func (h *MomentsHandler) HandleMomentByID(w http.ResponseWriter, r *http.Request) {
	const op = "api.moment_by_id"
	id, err := pathID(r.URL.Path, "/moments/")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	switch r.Method {
	case http.MethodPatch:
		var req noteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		if err := h.deps.UpdateMomentNote(r.Context(), id, req.Note); err != nil {
			writeDomainError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, ackResponse{Status: "updated"})
	case http.MethodDelete:
		if err := h.deps.DeleteMoment(r.Context(), id); err != nil {
			writeDomainError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, ackResponse{Status: "deleted"})
	default:
		http.NotFound(w, r)
	}
}

// HandleExport handles GET /moments/export requests and returns the
// filtered bookmarks as a downloadable CSV table.
func (h *MomentsHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	const op = "api.moments_export"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	matchID, videoID, err := momentFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	data, err := h.deps.ExportMomentsCSV(r.Context(), matchID, videoID)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="moments.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
