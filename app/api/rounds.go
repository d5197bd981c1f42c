package api

import (
	"fmt"
	"net/http"

	leaderboarddomain "github.com/Black-And-White-Club/golf-bot/app/modules/leaderboard/domain"
	roundservice "github.com/Black-And-White-Club/golf-bot/app/modules/round/application"
	roundutil "github.com/Black-And-White-Club/golf-bot/app/modules/round/utils"
	"github.com/go-chi/chi/v5"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// HandleCreateRound creates a round and returns it with its join code.
func (h *Handlers) HandleCreateRound(w http.ResponseWriter, r *http.Request) {
	var input roundutil.CreateRoundInput
	if err := decodeJSON(r, &input); err != nil {
		h.respondError(w, r, err)
		return
	}

	round, err := h.rounds.CreateRound(r.Context(), input)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, round)
}

func (h *Handlers) HandleGetRound(w http.ResponseWriter, r *http.Request) {
	round, err := h.rounds.GetRound(r.Context(), chi.URLParam(r, "roundID"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, round)
}

// HandleLookupRound finds a round by its join code.
func (h *Handlers) HandleLookupRound(w http.ResponseWriter, r *http.Request) {
	round, err := h.rounds.LookupRound(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, round)
}

func (h *Handlers) HandleJoinRound(w http.ResponseWriter, r *http.Request) {
	var input roundservice.JoinRoundInput
	if err := decodeJSON(r, &input); err != nil {
		h.respondError(w, r, err)
		return
	}

	snap, err := h.rounds.JoinRound(r.Context(), chi.URLParam(r, "roundID"), input)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, snap)
}

// HandleGetLeaderboard returns the current board. playerId and playerName
// mark the viewer's row.
func (h *Handlers) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	board, err := h.leaderboard.GetLeaderboard(r.Context(), chi.URLParam(r, "roundID"), viewerFrom(r))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, board)
}

// HandleExportRound streams the round's scorecard workbook.
func (h *Handlers) HandleExportRound(w http.ResponseWriter, r *http.Request) {
	export, err := h.rounds.ExportRound(r.Context(), chi.URLParam(r, "roundID"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(export.Data)
}

// HandleCourseTees lists the tee options for a course name. Unknown courses
// get the generic tees.
func (h *Handlers) HandleCourseTees(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	respondJSON(w, http.StatusOK, map[string]any{
		"course": name,
		"known":  h.catalog.CourseData(name) != nil,
		"tees":   h.catalog.Tees(name),
	})
}

func viewerFrom(r *http.Request) leaderboarddomain.Viewer {
	q := r.URL.Query()
	return leaderboarddomain.Viewer{
		PlayerID:   q.Get("playerId"),
		PlayerName: q.Get("playerName"),
	}
}
