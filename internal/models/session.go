package models

// Side identifies a participant in a session. In solo mode the opponent is
// the AI; in peer mode the guest plays the opponent side on the host's
// session.
type Side string

const (
	// SidePlayer is the local/primary participant
	SidePlayer Side = "player"

	// SideAI is the opposing participant
	SideAI Side = "ai"
)

// Opponent returns the other side
func (s Side) Opponent() Side {
	if s == SidePlayer {
		return SideAI
	}
	return SidePlayer
}

// GamePhase represents the top-level state of a session
type GamePhase string

const (
	// PhaseStart indicates no game has begun
	PhaseStart GamePhase = "start"

	// PhaseLobby indicates a peer room is open but the match has not started
	PhaseLobby GamePhase = "lobby"

	// PhaseCardGame indicates a Hi-Lo card round is in progress
	PhaseCardGame GamePhase = "cardGame"

	// PhasePlaying is the transitional phase between a decided card round
	// and the trigger sequence it produced
	PhasePlaying GamePhase = "playing"

	// PhaseTriggerSequence indicates a trigger pull is being staged
	PhaseTriggerSequence GamePhase = "triggerSequence"

	// PhasePlayerDead indicates the player was shot but has lives remaining
	PhasePlayerDead GamePhase = "playerDead"

	// PhaseAIDead indicates the opponent was shot; the player survived the round
	PhaseAIDead GamePhase = "aiDead"

	// PhaseGameOver indicates the session has ended
	PhaseGameOver GamePhase = "gameOver"
)

// GameMode selects the session's scoring rules
type GameMode string

const (
	// ModeSolo is single-player against the AI: a life counter and a
	// cumulative rounds-survived score
	ModeSolo GameMode = "solo"

	// ModePvP is two-player best-of-three: per-side win counts, first to
	// two round wins takes the match
	ModePvP GameMode = "pvp"
)

// SoloStartingLives is the fixed life count at the start of a solo session
const SoloStartingLives = 3

// PvPWinsToTakeMatch ends a best-of-three match
const PvPWinsToTakeMatch = 2
