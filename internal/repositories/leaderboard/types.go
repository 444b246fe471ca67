package leaderboard

import "lastchamber/internal/models"

type AddEntryInput struct {
	Name   string
	Rounds int
}

type AddEntryOutput struct {
	// Entry is the stored record
	Entry *models.LeaderboardEntry

	// Rank is the entry's 1-based position, best first
	Rank int

	// Entries is the full board after the insert
	Entries []*models.LeaderboardEntry
}

type GetEntriesInput struct {
}

type GetEntriesOutput struct {
	Entries []*models.LeaderboardEntry
}
