package api

import (
	"net/http"

	roundservice "github.com/Black-And-White-Club/golf-bot/app/modules/round/application"
	scoredomain "github.com/Black-And-White-Club/golf-bot/app/modules/score/domain"
	"github.com/go-chi/chi/v5"
)

// AdjustRequest presses one stepper on a hole.
type AdjustRequest struct {
	Field roundservice.AdjustField `json:"field"`
	Delta int                      `json:"delta"`
}

// CurrentHoleRequest moves the participant's hole cursor.
type CurrentHoleRequest struct {
	Hole int `json:"hole"`
}

// RenameRequest renames a player everywhere.
type RenameRequest struct {
	OldName string `json:"oldName"`
	NewName string `json:"newName"`
}

func (h *Handlers) HandleGetScorecard(w http.ResponseWriter, r *http.Request) {
	loc, err := h.rounds.GetScorecard(r.Context(), chi.URLParam(r, "scorecardID"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, loc)
}

// HandleRecordHole replaces one hole's record.
func (h *Handlers) HandleRecordHole(w http.ResponseWriter, r *http.Request) {
	hole, err := parseInt(chi.URLParam(r, "hole"), "hole")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	var rec scoredomain.HoleRecord
	if err := decodeJSON(r, &rec); err != nil {
		h.respondError(w, r, err)
		return
	}

	snap, err := h.rounds.RecordHole(r.Context(), chi.URLParam(r, "scorecardID"), hole, rec, adminOverride(r))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

func (h *Handlers) HandleAdjustHole(w http.ResponseWriter, r *http.Request) {
	hole, err := parseInt(chi.URLParam(r, "hole"), "hole")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	var req AdjustRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	snap, err := h.rounds.AdjustHole(r.Context(), chi.URLParam(r, "scorecardID"), hole, req.Field, req.Delta, adminOverride(r))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

func (h *Handlers) HandleSetCurrentHole(w http.ResponseWriter, r *http.Request) {
	var req CurrentHoleRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	snap, err := h.rounds.SetCurrentHole(r.Context(), chi.URLParam(r, "scorecardID"), req.Hole)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

func (h *Handlers) HandleSubmitRound(w http.ResponseWriter, r *http.Request) {
	snap, err := h.rounds.SubmitRound(r.Context(), chi.URLParam(r, "scorecardID"), adminOverride(r))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

func (h *Handlers) HandleArchiveRound(w http.ResponseWriter, r *http.Request) {
	snap, err := h.rounds.ArchiveRound(r.Context(), chi.URLParam(r, "scorecardID"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

func (h *Handlers) HandleRestoreRound(w http.ResponseWriter, r *http.Request) {
	loc, err := h.rounds.RestoreRound(r.Context(), chi.URLParam(r, "scorecardID"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, loc)
}

// HandleDeletePermanently deletes an archived record. Deleting a record that
// is already gone succeeds with deleted=false.
func (h *Handlers) HandleDeletePermanently(w http.ResponseWriter, r *http.Request) {
	res, err := h.rounds.DeletePermanently(r.Context(), chi.URLParam(r, "scorecardID"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (h *Handlers) HandleDeleteAllArchived(w http.ResponseWriter, r *http.Request) {
	res, err := h.rounds.DeleteAllArchived(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (h *Handlers) HandleRenamePlayer(w http.ResponseWriter, r *http.Request) {
	var req RenameRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	res, err := h.rounds.RenamePlayer(r.Context(), req.OldName, req.NewName)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.rounds.Stats(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
