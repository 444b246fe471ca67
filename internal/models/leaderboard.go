package models

// MaxLeaderboardEntries caps the stored leaderboard size
const MaxLeaderboardEntries = 100

// LeaderboardTopN is how many entries a submission response echoes back
const LeaderboardTopN = 10

// LeaderboardEntry is one persisted score
type LeaderboardEntry struct {
	// ID is the entry's unique identifier
	ID string `json:"id"`

	// Name is the sanitized player name
	Name string `json:"name"`

	// Rounds is the number of rounds survived
	Rounds int `json:"rounds"`

	// Date is the submission time in ISO 8601
	Date string `json:"date"`
}
