package dice

import (
	"math/rand"
	"time"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_roller.go lastchamber/internal/dice Roller

// Roller provides the randomness the game consumes: chamber draws, deck
// shuffles, and the AI's coin flips
type Roller interface {
	// Roll generates a roll from 1 to sides inclusive
	Roll(sides int) int

	// Shuffle randomizes the order of n elements via swap
	Shuffle(n int, swap func(i, j int))

	// CoinFlip returns true roughly half the time
	CoinFlip() bool
}

// Config for the default roller
type Config struct {
	// Optional seed for testing
	Seed int64
}

// defaultRoller implements Roller using math/rand
type defaultRoller struct {
	random *rand.Rand
}

// New creates a new roller, seeded from the clock unless a seed is provided
func New(cfg *Config) Roller {
	var seed int64
	if cfg != nil && cfg.Seed != 0 {
		seed = cfg.Seed
	} else {
		seed = time.Now().UnixNano()
	}

	source := rand.NewSource(seed)

	return &defaultRoller{
		random: rand.New(source),
	}
}

// Roll generates a random roll with the specified number of sides
func (r *defaultRoller) Roll(sides int) int {
	if sides < 1 {
		sides = 6 // Default to 6-sided die
	}
	return r.random.Intn(sides) + 1
}

// Shuffle randomizes n elements using a uniform permutation
func (r *defaultRoller) Shuffle(n int, swap func(i, j int)) {
	r.random.Shuffle(n, swap)
}

// CoinFlip returns a fair coin flip
func (r *defaultRoller) CoinFlip() bool {
	return r.random.Intn(2) == 0
}
