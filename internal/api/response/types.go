package response

import (
	"time"

	"github.com/flipmatch/flipmatch-go/internal/model"
)

// HealthResponse is the body of the health endpoint
type HealthResponse struct {
	Status string `json:"status"`
}

// HighScore represents one high-score entry in API responses
type HighScore struct {
	Name       string    `json:"name"`
	Score      int       `json:"score"`
	GameCode   string    `json:"game_code"`
	RecordedAt time.Time `json:"recorded_at"`
}

// HighScoreFromModel converts a model.HighScore
func HighScoreFromModel(h model.HighScore) HighScore {
	return HighScore{
		Name:       h.Name,
		Score:      h.Score,
		GameCode:   h.GameCode,
		RecordedAt: h.RecordedAt,
	}
}

// ScoresResponse is the body of the high-scores endpoint
type ScoresResponse struct {
	Scores []HighScore `json:"scores"`
}

// GameSummary represents an archived round in API responses
type GameSummary struct {
	GameCode    string         `json:"game_code"`
	FinalScores map[string]int `json:"final_scores"`
	Winner      string         `json:"winner,omitempty"`
	CompletedAt time.Time      `json:"completed_at"`
}

// GameSummaryFromModel converts a model.GameSummary
func GameSummaryFromModel(s model.GameSummary) GameSummary {
	return GameSummary{
		GameCode:    s.GameCode,
		FinalScores: s.FinalScores,
		Winner:      s.Winner,
		CompletedAt: s.CompletedAt,
	}
}

// RecentGamesResponse is the body of the recent-games endpoint
type RecentGamesResponse struct {
	Games []GameSummary `json:"games"`
}
