package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lastchamber/internal/dice"
	"lastchamber/internal/models"
)

// identityRoller leaves the deck in construction order and scripts coin
// flips for the AI heuristic
type identityRoller struct {
	flips []bool
}

func (r *identityRoller) Roll(sides int) int                 { return 1 }
func (r *identityRoller) Shuffle(n int, swap func(i, j int)) {}
func (r *identityRoller) CoinFlip() bool {
	if len(r.flips) == 0 {
		return true
	}
	flip := r.flips[0]
	r.flips = r.flips[1:]
	return flip
}

func TestNewDeckHasAllFiftyTwoCards(t *testing.T) {
	d := New(dice.New(&dice.Config{Seed: 42}))
	require.Equal(t, 52, d.Remaining())

	seen := make(map[models.Card]bool)
	for d.Remaining() > 0 {
		card, err := d.Draw()
		require.NoError(t, err)
		assert.False(t, seen[card], "duplicate card %v", card)
		seen[card] = true
	}
	assert.Len(t, seen, 52)
}

func TestDrawFromEmptyDeck(t *testing.T) {
	d := New(&identityRoller{})
	for i := 0; i < 52; i++ {
		_, err := d.Draw()
		require.NoError(t, err)
	}

	_, err := d.Draw()
	assert.Equal(t, ErrDeckEmpty, err)
}

func TestCompare(t *testing.T) {
	two := models.Card{Suit: models.SuitHearts, Rank: models.RankTwo}
	ace := models.Card{Suit: models.SuitSpades, Rank: models.RankAce}
	otherTwo := models.Card{Suit: models.SuitClubs, Rank: models.RankTwo}

	assert.Equal(t, models.ComparisonHigher, Compare(two, ace))
	assert.Equal(t, models.ComparisonLower, Compare(ace, two))

	// Suits never break ties; equal ranks are their own outcome.
	assert.Equal(t, models.ComparisonEqual, Compare(two, otherTwo))
}

func TestJudge(t *testing.T) {
	assert.Equal(t, models.GuessResultCorrect, Judge(models.GuessHigher, models.ComparisonHigher))
	assert.Equal(t, models.GuessResultCorrect, Judge(models.GuessLower, models.ComparisonLower))
	assert.Equal(t, models.GuessResultWrong, Judge(models.GuessHigher, models.ComparisonLower))
	assert.Equal(t, models.GuessResultWrong, Judge(models.GuessLower, models.ComparisonHigher))

	// A tie resolves against the guesser regardless of direction.
	assert.Equal(t, models.GuessResultWrong, Judge(models.GuessHigher, models.ComparisonEqual))
	assert.Equal(t, models.GuessResultWrong, Judge(models.GuessLower, models.ComparisonEqual))
}

func TestAIGuessLowCardsGoHigher(t *testing.T) {
	roller := &identityRoller{}

	for _, rank := range []models.Rank{models.RankTwo, models.RankFive, models.RankSeven} {
		card := models.Card{Suit: models.SuitHearts, Rank: rank}
		assert.Equal(t, models.GuessHigher, AIGuess(card, roller))
	}
}

func TestAIGuessHighCardsGoLower(t *testing.T) {
	roller := &identityRoller{}

	for _, rank := range []models.Rank{models.RankNine, models.RankQueen, models.RankAce} {
		card := models.Card{Suit: models.SuitHearts, Rank: rank}
		assert.Equal(t, models.GuessLower, AIGuess(card, roller))
	}
}

func TestAIGuessMiddleCardFlipsCoin(t *testing.T) {
	eight := models.Card{Suit: models.SuitHearts, Rank: models.RankEight}

	roller := &identityRoller{flips: []bool{true, false}}
	assert.Equal(t, models.GuessHigher, AIGuess(eight, roller))
	assert.Equal(t, models.GuessLower, AIGuess(eight, roller))
}
