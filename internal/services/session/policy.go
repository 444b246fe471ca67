package session

import "lastchamber/internal/models"

// ShooterPolicy decides, after a resolved guess, whether a trigger pull is
// owed and by whom. Returning false means no shooter: the card round
// continues with the turn flipped to the other side.
//
// Two rule variants exist in the wild; the session takes the policy as a
// single named function so swapping rules never touches the state machine.
type ShooterPolicy func(guesser models.Side, result models.GuessResult) (models.Side, bool)

// StandardShooterPolicy is the default rule: a wrong guess (ties included)
// puts the gun in the guesser's hand, a correct guess passes the deck and
// nobody shoots.
func StandardShooterPolicy(guesser models.Side, result models.GuessResult) (models.Side, bool) {
	if result == models.GuessResultWrong {
		return guesser, true
	}
	return "", false
}

// PassTheGunShooterPolicy makes every resolved guess produce a shooter:
// a correct guess hands the gun to the opponent, a wrong guess keeps it
// with the guesser.
func PassTheGunShooterPolicy(guesser models.Side, result models.GuessResult) (models.Side, bool) {
	if result == models.GuessResultCorrect {
		return guesser.Opponent(), true
	}
	return guesser, true
}
