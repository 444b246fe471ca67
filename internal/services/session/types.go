package session

import (
	"time"

	"lastchamber/internal/common/clock"
	"lastchamber/internal/dice"
	"lastchamber/internal/models"
	"lastchamber/internal/trigger"
)

// Config holds configuration for the session service
type Config struct {
	// Mode selects solo or peer scoring rules; defaults to solo
	Mode models.GameMode

	// Roller is the randomness source; defaults to a time-seeded roller
	Roller dice.Roller

	// Clock drives every delayed transition; defaults to the system clock
	Clock clock.Clock

	// Timing overrides the card-game delays, nil for the default
	Timing *Timing

	// TriggerTiming overrides the trigger sequence schedule, nil for the
	// default
	TriggerTiming *trigger.Timing

	// ShooterPolicy decides who shoots after a resolved guess; defaults to
	// StandardShooterPolicy
	ShooterPolicy ShooterPolicy

	// OnSnapshot is invoked with a full state snapshot after every
	// state-affecting transition. The peer host uses it to broadcast;
	// render layers use it to observe.
	OnSnapshot func(*Snapshot)

	// OnTriggerPhase is invoked at each trigger sequence phase change,
	// independent of OnSnapshot. Audio layers hang off this.
	OnTriggerPhase func(trigger.Phase)
}

// Timing holds the card-game delays that gate transitions
type Timing struct {
	// Deal is the pause between dealing the opening card and accepting
	// guesses
	Deal time.Duration

	// Reveal is the pause between a submitted guess and the drawn card
	// being shown
	Reveal time.Duration

	// Hold is how long a reveal result stays on display before the round
	// proceeds
	Hold time.Duration

	// AIThink is the delay before the AI submits its guess, so an
	// observable guessing window exists
	AIThink time.Duration

	// TriggerStart is the dramatic pause between a decided card round and
	// the trigger sequence starting
	TriggerStart time.Duration
}

// DefaultTiming mirrors the original pacing
func DefaultTiming() *Timing {
	return &Timing{
		Deal:         800 * time.Millisecond,
		Reveal:       600 * time.Millisecond,
		Hold:         1500 * time.Millisecond,
		AIThink:      1200 * time.Millisecond,
		TriggerStart: 400 * time.Millisecond,
	}
}

// Snapshot is the full session-relevant state, serialized wholesale for
// peer sync and read by render layers. Guests overwrite their copy with
// every incoming snapshot; nothing in it is diffed.
type Snapshot struct {
	// FullSync marks the message as a complete state replacement
	FullSync bool `json:"fullSync"`

	// Seq is stamped under the session lock, strictly increasing per
	// snapshot. Replicas drop anything older than the last applied seq,
	// since transport delivery order is not guaranteed.
	Seq uint64 `json:"seq"`

	// Mode is the session's scoring mode
	Mode models.GameMode `json:"mode"`

	// GamePhase is the top-level phase
	GamePhase models.GamePhase `json:"gamePhase"`

	// CurrentTurn is the side expected to act
	CurrentTurn models.Side `json:"currentTurn"`

	// Lives is the remaining life count (solo)
	Lives int `json:"lives"`

	// RoundsSurvived is the cumulative score (solo)
	RoundsSurvived int `json:"roundsSurvived"`

	// HighestRounds is the best score seen this session (solo)
	HighestRounds int `json:"highestRounds"`

	// PlayerWins and AIWins are the best-of-three counters (pvp)
	PlayerWins int `json:"playerWins"`
	AIWins     int `json:"aiWins"`

	// ShotHistory is the audit trail of resolved pulls this round
	ShotHistory []models.ShotRecord `json:"shotHistory"`

	// CardRound is the embedded Hi-Lo state, nil outside a round
	CardRound *models.CardRound `json:"cardRound"`

	// Cycle is the revolver state
	Cycle *models.RevolverCycle `json:"cycle"`

	// DeathOdds is the chance the next pull fires, as a percentage
	DeathOdds float64 `json:"deathOdds"`

	// TriggerPhase is the active trigger sequence phase, empty when none
	TriggerPhase trigger.Phase `json:"triggerPhase,omitempty"`

	// TriggerShooter is the side staged to pull, empty when none
	TriggerShooter models.Side `json:"triggerShooter,omitempty"`

	// LeaderboardEligible reports whether the finished session's score
	// qualifies for submission
	LeaderboardEligible bool `json:"leaderboardEligible"`
}
