package storage

import (
	"context"

	"github.com/flipmatch/flipmatch-go/internal/model"
)

// Storage defines the interface for result persistence.
//
// Live session state is never stored here: sessions exist only in the
// in-process registry and die with their last participant. Storage
// holds what outlives a round, the high-score table and the archive of
// completed games.
type Storage interface {
	// High score operations
	SaveHighScore(ctx context.Context, score *model.HighScore) error
	TopHighScores(ctx context.Context, limit int) ([]model.HighScore, error)

	// Game summary operations
	SaveGameSummary(ctx context.Context, summary *model.GameSummary) error
	RecentGameSummaries(ctx context.Context, limit int) ([]model.GameSummary, error)
}
