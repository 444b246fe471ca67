// Package deck implements the Hi-Lo card engine: a shuffled 52-card deck,
// rank comparison, and the AI's guess heuristic.
package deck

import (
	"errors"

	"lastchamber/internal/dice"
	"lastchamber/internal/models"
)

// ErrDeckEmpty indicates a draw from an exhausted deck. A fresh deck is
// created every card round and at most two cards are drawn per exchange,
// so hitting this is an invariant violation, not a game state.
var ErrDeckEmpty = errors.New("deck is empty")

// Deck is an ordered sequence of cards, drawn from the end
type Deck struct {
	cards []models.Card
}

// New builds the 52-card deck and shuffles it with the provided roller
func New(roller dice.Roller) *Deck {
	cards := make([]models.Card, 0, len(models.Suits)*len(models.Ranks))
	for _, suit := range models.Suits {
		for _, rank := range models.Ranks {
			cards = append(cards, models.Card{Suit: suit, Rank: rank})
		}
	}

	roller.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})

	return &Deck{cards: cards}
}

// Remaining reports how many cards are left
func (d *Deck) Remaining() int {
	return len(d.cards)
}

// Draw removes and returns the last card
func (d *Deck) Draw() (models.Card, error) {
	if len(d.cards) == 0 {
		return models.Card{}, ErrDeckEmpty
	}

	card := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return card, nil
}

// Compare classifies next relative to current by rank. Equal ranks are a
// distinct outcome that matches neither guess direction, so a tie always
// resolves against the guesser.
func Compare(current, next models.Card) models.Comparison {
	currentValue := current.Value()
	nextValue := next.Value()

	switch {
	case nextValue > currentValue:
		return models.ComparisonHigher
	case nextValue < currentValue:
		return models.ComparisonLower
	default:
		return models.ComparisonEqual
	}
}

// Judge resolves a guess against a comparison outcome
func Judge(guess models.GuessDirection, comparison models.Comparison) models.GuessResult {
	if models.Comparison(guess) == comparison {
		return models.GuessResultCorrect
	}
	return models.GuessResultWrong
}

// AIGuess is the opponent's heuristic: guess higher on a low card, lower
// on a high card, and flip a coin in the middle. Middle cards draw their
// coin from the roller so the policy stays reproducible under test.
func AIGuess(current models.Card, roller dice.Roller) models.GuessDirection {
	value := current.Value()

	switch {
	case value <= 7:
		return models.GuessHigher
	case value >= 9:
		return models.GuessLower
	case roller.CoinFlip():
		return models.GuessHigher
	default:
		return models.GuessLower
	}
}
