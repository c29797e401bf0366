package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/flipmatch/flipmatch-go/internal/model"
	"github.com/flipmatch/flipmatch-go/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// High scores live in a sorted set ranked by score; game summaries in
// a capped list, newest first.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// High score operations

func (s *Storage) SaveHighScore(ctx context.Context, score *model.HighScore) error {
	data, err := json.Marshal(score)
	if err != nil {
		return err
	}

	return s.client.ZAdd(ctx, scoresKey(), redis.Z{
		Score:  float64(score.Score),
		Member: string(data),
	}).Err()
}

func (s *Storage) TopHighScores(ctx context.Context, limit int) ([]model.HighScore, error) {
	if limit <= 0 {
		limit = 10
	}

	members, err := s.client.ZRevRange(ctx, scoresKey(), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	scores := make([]model.HighScore, 0, len(members))
	for _, m := range members {
		var hs model.HighScore
		if err := json.Unmarshal([]byte(m), &hs); err != nil {
			return nil, err
		}
		scores = append(scores, hs)
	}
	return scores, nil
}

// Game summary operations

func (s *Storage) SaveGameSummary(ctx context.Context, summary *model.GameSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, summariesKey(), string(data))
	if s.cfg.MaxSummaries > 0 {
		pipe.LTrim(ctx, summariesKey(), 0, int64(s.cfg.MaxSummaries-1))
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) RecentGameSummaries(ctx context.Context, limit int) ([]model.GameSummary, error) {
	if limit <= 0 {
		limit = 10
	}

	entries, err := s.client.LRange(ctx, summariesKey(), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	summaries := make([]model.GameSummary, 0, len(entries))
	for _, e := range entries {
		var gs model.GameSummary
		if err := json.Unmarshal([]byte(e), &gs); err != nil {
			return nil, err
		}
		summaries = append(summaries, gs)
	}
	return summaries, nil
}
