package leaderboard

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"lastchamber/internal/common/clock"
	"lastchamber/internal/models"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	mr     *miniredis.Miniredis
	client *redis.Client
	repo   Repository
	clock  *clock.FakeClock
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	// Create a new miniredis server for each test
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	// Create a Redis client connected to the miniredis server
	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	s.clock = clock.NewFake(time.Date(2025, 4, 5, 10, 0, 0, 0, time.UTC))

	// Create the repository
	repo, err := NewRedis(&Config{
		RedisClient: s.client,
		Clock:       s.clock,
	})
	s.Require().NoError(err)
	s.repo = repo
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

// add inserts an entry and ticks the clock so every entry gets a
// distinct ID
func (s *RedisRepositoryTestSuite) add(name string, rounds int) *AddEntryOutput {
	out, err := s.repo.AddEntry(context.Background(), &AddEntryInput{
		Name:   name,
		Rounds: rounds,
	})
	s.Require().NoError(err)
	s.clock.Advance(time.Second)
	return out
}

func (s *RedisRepositoryTestSuite) TestAddAndGetEntry() {
	out := s.add("Vera", 7)

	s.Require().NotNil(out.Entry)
	s.Equal("Vera", out.Entry.Name)
	s.Equal(7, out.Entry.Rounds)
	s.Equal("2025-04-05T10:00:00.000Z", out.Entry.Date)
	s.NotEmpty(out.Entry.ID)
	s.Equal(1, out.Rank)

	result, err := s.repo.GetEntries(context.Background(), &GetEntriesInput{})
	s.Require().NoError(err)
	s.Require().Len(result.Entries, 1)
	s.Equal("Vera", result.Entries[0].Name)
}

func (s *RedisRepositoryTestSuite) TestGetEntriesEmptyBoard() {
	result, err := s.repo.GetEntries(context.Background(), &GetEntriesInput{})
	s.Require().NoError(err)
	s.NotNil(result.Entries)
	s.Len(result.Entries, 0)
}

func (s *RedisRepositoryTestSuite) TestEntriesSortedBestFirst() {
	s.add("Low", 2)
	s.add("High", 9)
	s.add("Mid", 5)

	result, err := s.repo.GetEntries(context.Background(), &GetEntriesInput{})
	s.Require().NoError(err)
	s.Require().Len(result.Entries, 3)
	s.Equal("High", result.Entries[0].Name)
	s.Equal("Mid", result.Entries[1].Name)
	s.Equal("Low", result.Entries[2].Name)
}

func (s *RedisRepositoryTestSuite) TestRankReflectsPosition() {
	s.add("First", 10)
	s.add("Second", 8)

	out := s.add("Middle", 9)
	s.Equal(2, out.Rank)
	s.Require().Len(out.Entries, 3)
	s.Equal("Middle", out.Entries[1].Name)
}

func (s *RedisRepositoryTestSuite) TestTiesKeepEarlierEntryAhead() {
	s.add("Earlier", 5)
	out := s.add("Later", 5)

	s.Equal(2, out.Rank)
	s.Equal("Earlier", out.Entries[0].Name)
	s.Equal("Later", out.Entries[1].Name)
}

func (s *RedisRepositoryTestSuite) TestBoardTrimmedToCap() {
	for i := 0; i < models.MaxLeaderboardEntries; i++ {
		s.add(fmt.Sprintf("Player%d", i), i+10)
	}

	// A run worse than everything on a full board is trimmed away and
	// comes back unranked.
	out, err := s.repo.AddEntry(context.Background(), &AddEntryInput{
		Name:   "Straggler",
		Rounds: 1,
	})
	s.Require().NoError(err)
	s.Equal(0, out.Rank)

	result, err := s.repo.GetEntries(context.Background(), &GetEntriesInput{})
	s.Require().NoError(err)
	s.Len(result.Entries, models.MaxLeaderboardEntries)

	for _, e := range result.Entries {
		s.NotEqual("Straggler", e.Name)
	}
}

func (s *RedisRepositoryTestSuite) TestAddEntryValidation() {
	_, err := s.repo.AddEntry(context.Background(), nil)
	s.Require().Error(err)

	_, err = s.repo.AddEntry(context.Background(), &AddEntryInput{Name: "", Rounds: 3})
	s.Require().Error(err)

	_, err = s.repo.AddEntry(context.Background(), &AddEntryInput{Name: "Neg", Rounds: -1})
	s.Require().Error(err)
}
