package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/flipmatch/flipmatch-go/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.MaxSummaries = 3

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) TestSaveAndTopHighScores() {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, entry := range []model.HighScore{
		{Name: "Alice", Score: 2, GameCode: "AAAAA"},
		{Name: "Bob", Score: 6, GameCode: "AAAAA"},
		{Name: "Carol", Score: 4, GameCode: "BBBBB"},
	} {
		entry.RecordedAt = base.Add(time.Duration(i) * time.Minute)
		s.Require().NoError(s.storage.SaveHighScore(s.ctx, &entry))
	}

	top, err := s.storage.TopHighScores(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(top, 3)
	s.Equal("Bob", top[0].Name)
	s.Equal(6, top[0].Score)
	s.Equal("Carol", top[1].Name)
	s.Equal("Alice", top[2].Name)
}

func (s *StorageSuite) TestTopHighScoresRespectsLimit() {
	for i := 0; i < 5; i++ {
		entry := model.HighScore{Name: "P", Score: i, GameCode: "AAAAA"}
		entry.RecordedAt = time.Date(2024, 1, 1, 12, i, 0, 0, time.UTC)
		s.Require().NoError(s.storage.SaveHighScore(s.ctx, &entry))
	}

	top, err := s.storage.TopHighScores(s.ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(top, 2)
	s.Equal(4, top[0].Score)
	s.Equal(3, top[1].Score)
}

func (s *StorageSuite) TestTopHighScoresEmpty() {
	top, err := s.storage.TopHighScores(s.ctx, 10)
	s.Require().NoError(err)
	s.Empty(top)
}

func (s *StorageSuite) TestRecentGameSummariesNewestFirst() {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, code := range []string{"AAAAA", "BBBBB"} {
		summary := model.GameSummary{
			GameCode:    code,
			FinalScores: map[string]int{"Alice": 1, "Bob": 2},
			Winner:      "Bob",
			CompletedAt: base.Add(time.Duration(i) * time.Minute),
		}
		s.Require().NoError(s.storage.SaveGameSummary(s.ctx, &summary))
	}

	recent, err := s.storage.RecentGameSummaries(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(recent, 2)
	s.Equal("BBBBB", recent[0].GameCode)
	s.Equal("Bob", recent[0].Winner)
	s.Equal("AAAAA", recent[1].GameCode)
}

func (s *StorageSuite) TestSummariesTrimmedToConfiguredMax() {
	for _, code := range []string{"AAAAA", "BBBBB", "CCCCC", "DDDDD"} {
		summary := model.GameSummary{GameCode: code, FinalScores: map[string]int{}}
		s.Require().NoError(s.storage.SaveGameSummary(s.ctx, &summary))
	}

	recent, err := s.storage.RecentGameSummaries(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(recent, 3)
	s.Equal("DDDDD", recent[0].GameCode)
	s.Equal("BBBBB", recent[2].GameCode)
}
