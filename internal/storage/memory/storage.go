package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/flipmatch/flipmatch-go/internal/model"
	"github.com/flipmatch/flipmatch-go/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	scores    []model.HighScore
	summaries []model.GameSummary
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// High score operations

func (s *Storage) SaveHighScore(ctx context.Context, score *model.HighScore) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scores = append(s.scores, *score)
	return nil
}

func (s *Storage) TopHighScores(ctx context.Context, limit int) ([]model.HighScore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]model.HighScore, len(s.scores))
	copy(result, s.scores)

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Score != result[j].Score {
			return result[i].Score > result[j].Score
		}
		return result[i].RecordedAt.Before(result[j].RecordedAt)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// Game summary operations

func (s *Storage) SaveGameSummary(ctx context.Context, summary *model.GameSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries = append(s.summaries, *summary)
	return nil
}

func (s *Storage) RecentGameSummaries(ctx context.Context, limit int) ([]model.GameSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Newest first
	result := make([]model.GameSummary, 0, len(s.summaries))
	for i := len(s.summaries) - 1; i >= 0; i-- {
		result = append(result, s.summaries[i])
		if limit > 0 && len(result) == limit {
			break
		}
	}
	return result, nil
}
