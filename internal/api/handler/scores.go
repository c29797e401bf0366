package handler

import (
	"net/http"

	"github.com/flipmatch/flipmatch-go/internal/api/response"
	"github.com/flipmatch/flipmatch-go/internal/storage"
)

// ScoresHandler handles the high-score endpoints
type ScoresHandler struct {
	storage storage.Storage
}

// NewScoresHandler creates a new scores handler
func NewScoresHandler(store storage.Storage) *ScoresHandler {
	return &ScoresHandler{storage: store}
}

// Top handles GET /api/v1/scores
func (h *ScoresHandler) Top(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r, 10)
	if err != nil {
		WriteError(w, err)
		return
	}

	scores, err := h.storage.TopHighScores(r.Context(), limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := response.ScoresResponse{Scores: make([]response.HighScore, 0, len(scores))}
	for _, s := range scores {
		resp.Scores = append(resp.Scores, response.HighScoreFromModel(s))
	}
	response.JSON(w, http.StatusOK, resp)
}
