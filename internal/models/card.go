package models

// Suit represents a card suit
type Suit string

const (
	SuitHearts   Suit = "hearts"
	SuitDiamonds Suit = "diamonds"
	SuitClubs    Suit = "clubs"
	SuitSpades   Suit = "spades"
)

// Suits lists every suit in deck-building order
var Suits = []Suit{SuitHearts, SuitDiamonds, SuitClubs, SuitSpades}

// Rank represents a card rank, two low, ace high
type Rank string

const (
	RankTwo   Rank = "2"
	RankThree Rank = "3"
	RankFour  Rank = "4"
	RankFive  Rank = "5"
	RankSix   Rank = "6"
	RankSeven Rank = "7"
	RankEight Rank = "8"
	RankNine  Rank = "9"
	RankTen   Rank = "10"
	RankJack  Rank = "J"
	RankQueen Rank = "Q"
	RankKing  Rank = "K"
	RankAce   Rank = "A"
)

// Ranks lists every rank in ascending order
var Ranks = []Rank{
	RankTwo, RankThree, RankFour, RankFive, RankSix, RankSeven, RankEight,
	RankNine, RankTen, RankJack, RankQueen, RankKing, RankAce,
}

// Card is an immutable playing card
type Card struct {
	// Suit is the card's suit
	Suit Suit `json:"suit"`

	// Rank is the card's rank
	Rank Rank `json:"rank"`
}

// Value returns the numeric rank value, 2 through 14 with ace high.
// Unknown ranks return 0.
func (c Card) Value() int {
	for i, r := range Ranks {
		if r == c.Rank {
			return i + 2
		}
	}
	return 0
}

// GuessDirection is a Hi-Lo guess
type GuessDirection string

const (
	// GuessHigher predicts the next card outranks the current one
	GuessHigher GuessDirection = "higher"

	// GuessLower predicts the next card ranks below the current one
	GuessLower GuessDirection = "lower"
)

// Comparison is the outcome of comparing two cards by rank
type Comparison string

const (
	ComparisonHigher Comparison = "higher"
	ComparisonLower  Comparison = "lower"
	ComparisonEqual  Comparison = "equal"
)

// GuessResult classifies a resolved guess
type GuessResult string

const (
	GuessResultCorrect GuessResult = "correct"
	GuessResultWrong   GuessResult = "wrong"
)

// CardRoundPhase represents the sub-state of a single Hi-Lo exchange
type CardRoundPhase string

const (
	// CardRoundWaiting indicates no card round is in progress
	CardRoundWaiting CardRoundPhase = "waiting"

	// CardRoundDealing indicates the opening card is being dealt
	CardRoundDealing CardRoundPhase = "dealing"

	// CardRoundGuessing indicates the current turn may submit a guess
	CardRoundGuessing CardRoundPhase = "guessing"

	// CardRoundRevealing indicates a guess is mid-resolution
	CardRoundRevealing CardRoundPhase = "revealing"

	// CardRoundResult indicates the reveal outcome is on display
	CardRoundResult CardRoundPhase = "result"
)

// CardRound holds the state of one Hi-Lo guess-and-reveal exchange.
// It is created fresh at every round start and replaced wholesale.
type CardRound struct {
	// CurrentCard is the face-up card being guessed against
	CurrentCard *Card `json:"currentCard"`

	// NextCard is the drawn card, nil until the reveal
	NextCard *Card `json:"nextCard"`

	// Phase is the round's sub-state
	Phase CardRoundPhase `json:"phase"`

	// LastGuess is the direction of the most recent guess, empty before one is made
	LastGuess GuessDirection `json:"lastGuess,omitempty"`

	// LastGuessResult is how the most recent guess resolved
	LastGuessResult GuessResult `json:"lastGuessResult,omitempty"`

	// Guesser is the side that submitted the pending or resolved guess
	Guesser Side `json:"guesser,omitempty"`
}
