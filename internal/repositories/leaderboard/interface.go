package leaderboard

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go lastchamber/internal/repositories/leaderboard Repository

import (
	"context"
)

// Repository defines the interface for leaderboard persistence
type Repository interface {
	// AddEntry records a finished run and returns its rank
	AddEntry(ctx context.Context, input *AddEntryInput) (*AddEntryOutput, error)

	// GetEntries retrieves the leaderboard, best first
	GetEntries(ctx context.Context, input *GetEntriesInput) (*GetEntriesOutput, error)
}
