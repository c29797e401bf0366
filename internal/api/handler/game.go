package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/flipmatch/flipmatch-go/internal/api/response"
	"github.com/flipmatch/flipmatch-go/internal/model"
	"github.com/flipmatch/flipmatch-go/internal/services/session"
	"github.com/flipmatch/flipmatch-go/internal/storage"
)

// GameHandler handles game-related endpoints
type GameHandler struct {
	controller *session.Controller
	storage    storage.Storage
}

// NewGameHandler creates a new game handler
func NewGameHandler(controller *session.Controller, store storage.Storage) *GameHandler {
	return &GameHandler{
		controller: controller,
		storage:    store,
	}
}

// Get handles GET /api/v1/games/{code}
// Returns the live snapshot of the session, in the same shape the
// WebSocket gameState messages use.
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := model.GameCode(mux.Vars(r)["code"])

	snap, err := h.controller.Snapshot(code)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, snap)
}

// Recent handles GET /api/v1/games/recent
func (h *GameHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r, 20)
	if err != nil {
		WriteError(w, err)
		return
	}

	summaries, err := h.storage.RecentGameSummaries(r.Context(), limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := response.RecentGamesResponse{Games: make([]response.GameSummary, 0, len(summaries))}
	for _, s := range summaries {
		resp.Games = append(resp.Games, response.GameSummaryFromModel(s))
	}
	response.JSON(w, http.StatusOK, resp)
}

// parseLimit reads the optional limit query parameter, capped at 100
func parseLimit(r *http.Request, fallback int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, NewInvalidRequestError("limit must be a positive integer")
	}
	if limit > 100 {
		limit = 100
	}
	return limit, nil
}
