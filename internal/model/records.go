package model

import "time"

// HighScore is one participant's result from a completed round
type HighScore struct {
	Name       string    `json:"name"`
	Score      int       `json:"score"`
	GameCode   string    `json:"game_code"`
	RecordedAt time.Time `json:"recorded_at"`
}

// GameSummary is a lightweight record of a completed round
type GameSummary struct {
	GameCode    string         `json:"game_code"`
	FinalScores map[string]int `json:"final_scores"`
	Winner      string         `json:"winner"` // Empty on a tie
	CompletedAt time.Time      `json:"completed_at"`
}

// WinnerName returns the display name with the highest score, or empty
// when the top score is shared
func WinnerName(scores map[string]int) string {
	winner := ""
	best := -1
	tie := false
	for name, score := range scores {
		switch {
		case score > best:
			winner, best, tie = name, score, false
		case score == best:
			tie = true
		}
	}
	if tie {
		return ""
	}
	return winner
}
