package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"

	"lastchamber/internal/common/clock"
	"lastchamber/internal/models"
)

const entriesKey = "leaderboard:entries"

// Config holds configuration for the Redis leaderboard repository
type Config struct {
	// Redis client
	RedisClient *redis.Client

	// Clock for entry timestamps, defaults to the wall clock
	Clock clock.Clock
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
	clock  clock.Clock
}

// NewRedis creates a new Redis-backed leaderboard repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	// Validate config
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	clk := cfg.Clock
	if clk == nil {
		clk = &clock.DefaultClock{}
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
		clock:  clk,
	}, nil
}

// AddEntry appends a run to the board, re-sorts best first, trims to
// the cap, and reports the entry's rank
func (r *redisRepository) AddEntry(ctx context.Context, input *AddEntryInput) (*AddEntryOutput, error) {
	if input == nil || input.Name == "" {
		return nil, errors.New("input and name cannot be empty")
	}
	if input.Rounds < 0 {
		return nil, errors.New("rounds cannot be negative")
	}

	entries, err := r.loadEntries(ctx)
	if err != nil {
		return nil, err
	}

	now := r.clock.Now()
	entry := &models.LeaderboardEntry{
		ID:     strconv.FormatInt(now.UnixMilli(), 10),
		Name:   input.Name,
		Rounds: input.Rounds,
		Date:   now.UTC().Format("2006-01-02T15:04:05.000Z"),
	}

	entries = append(entries, entry)

	// Best first; ties keep insertion order so earlier runs outrank
	// later ones with the same score.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Rounds > entries[j].Rounds
	})

	if len(entries) > models.MaxLeaderboardEntries {
		entries = entries[:models.MaxLeaderboardEntries]
	}

	if err := r.saveEntries(ctx, entries); err != nil {
		return nil, err
	}

	// Rank 0 means the run scored below the cap and was trimmed away.
	rank := 0
	for i, e := range entries {
		if e.ID == entry.ID && e.Name == entry.Name {
			rank = i + 1
			break
		}
	}

	return &AddEntryOutput{
		Entry:   entry,
		Rank:    rank,
		Entries: entries,
	}, nil
}

// GetEntries retrieves the full board, best first
func (r *redisRepository) GetEntries(ctx context.Context, input *GetEntriesInput) (*GetEntriesOutput, error) {
	entries, err := r.loadEntries(ctx)
	if err != nil {
		return nil, err
	}

	return &GetEntriesOutput{Entries: entries}, nil
}

func (r *redisRepository) loadEntries(ctx context.Context) ([]*models.LeaderboardEntry, error) {
	raw, err := r.client.Get(ctx, entriesKey).Result()
	if err != nil {
		if err == redis.Nil {
			return []*models.LeaderboardEntry{}, nil
		}
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}

	var entries []*models.LeaderboardEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal leaderboard: %w", err)
	}

	return entries, nil
}

func (r *redisRepository) saveEntries(ctx context.Context, entries []*models.LeaderboardEntry) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal leaderboard: %w", err)
	}

	if err := r.client.Set(ctx, entriesKey, raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to save leaderboard: %w", err)
	}

	return nil
}
