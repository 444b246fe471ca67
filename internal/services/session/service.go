// Package session implements the game state machine: a Hi-Lo card round
// interleaved with revolver trigger pulls, solo against the AI or
// host-authoritative in peer mode. All state is owned here and mutated
// only through the action methods; UI and render layers observe through
// snapshots.
package session

import (
	"fmt"
	"sync"
	"time"

	"lastchamber/internal/common/clock"
	"lastchamber/internal/deck"
	"lastchamber/internal/dice"
	"lastchamber/internal/models"
	"lastchamber/internal/revolver"
	"lastchamber/internal/trigger"
)

// Service is the game session state machine
type Service struct {
	mode   models.GameMode
	roller dice.Roller
	clk    clock.Clock
	timing *Timing
	policy ShooterPolicy
	trig   *trigger.Controller

	onSnapshot     func(*Snapshot)
	onTriggerPhase func(trigger.Phase)

	mu sync.Mutex

	gamePhase      models.GamePhase
	currentTurn    models.Side
	lives          int
	roundsSurvived int
	highestRounds  int
	wins           map[models.Side]int
	shotHistory    []models.ShotRecord
	cardRound      *models.CardRound
	cycle          *models.RevolverCycle
	triggerPhase   trigger.Phase
	triggerShooter models.Side
	eligible       bool

	deck        *deck.Deck
	pendingNext models.Card
	lastGuesser models.Side
	inFlight    bool

	// timerGen invalidates pending timers wholesale; every scheduled
	// callback captures the generation it was created under and no-ops if
	// the session has since been reset.
	timerGen uint64
	timers   []clock.Timer

	// seq stamps snapshots in production order
	seq uint64
}

// New creates a session service
func New(cfg *Config) (*Service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	mode := cfg.Mode
	if mode == "" {
		mode = models.ModeSolo
	}

	roller := cfg.Roller
	if roller == nil {
		roller = dice.New(nil)
	}

	clk := cfg.Clock
	if clk == nil {
		clk = &clock.DefaultClock{}
	}

	timing := cfg.Timing
	if timing == nil {
		timing = DefaultTiming()
	}

	policy := cfg.ShooterPolicy
	if policy == nil {
		policy = StandardShooterPolicy
	}

	trig, err := trigger.New(&trigger.Config{
		Clock:  clk,
		Timing: cfg.TriggerTiming,
	})
	if err != nil {
		return nil, err
	}

	return &Service{
		mode:           mode,
		roller:         roller,
		clk:            clk,
		timing:         timing,
		policy:         policy,
		trig:           trig,
		onSnapshot:     cfg.OnSnapshot,
		onTriggerPhase: cfg.OnTriggerPhase,
		gamePhase:      models.PhaseStart,
		currentTurn:    models.SidePlayer,
		lives:          models.SoloStartingLives,
		wins:           map[models.Side]int{},
		cycle:          revolver.NewCycle(roller),
	}, nil
}

// Snapshot returns the full current state
func (s *Service) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// EnterLobby moves a fresh peer session into the lobby while the room
// waits for its guest. No-op outside the start phase.
func (s *Service) EnterLobby() {
	s.act(func() bool {
		if s.gamePhase != models.PhaseStart {
			return false
		}
		s.gamePhase = models.PhaseLobby
		return true
	})
}

// StartGame resets the session to round one and deals the opening card
func (s *Service) StartGame() {
	s.act(func() bool {
		s.cancelPendingLocked()

		s.lives = models.SoloStartingLives
		s.roundsSurvived = 0
		s.wins = map[models.Side]int{}
		s.shotHistory = nil
		s.currentTurn = models.SidePlayer
		s.cycle = revolver.NewCycle(s.roller)
		s.triggerPhase = ""
		s.triggerShooter = ""
		s.eligible = false
		s.inFlight = false

		s.beginCardRoundLocked()
		return true
	})
}

// MakeGuess submits a Hi-Lo guess for the given side. Invalid attempts
// (out of turn, wrong phase, or while a previous guess is still
// resolving) are silently ignored.
func (s *Service) MakeGuess(side models.Side, direction models.GuessDirection) {
	s.act(func() bool {
		return s.makeGuessLocked(side, direction)
	})
}

// StartTriggerSequence stages a trigger pull for the shooter. Normally
// auto-invoked once a card round decides its loser; exposed for callers
// that drive the revolver directly. No-op while a sequence is already
// resolving.
func (s *Service) StartTriggerSequence(shooter models.Side) {
	s.act(func() bool {
		if s.gamePhase == models.PhaseTriggerSequence || s.gamePhase == models.PhaseGameOver || s.inFlight {
			return false
		}
		s.startTriggerSequenceLocked(shooter)
		return true
	})
}

// NextRound advances past a won round: fresh cycle, fresh card round.
// Valid only after the opponent was shot.
func (s *Service) NextRound() {
	s.act(func() bool {
		if s.gamePhase != models.PhaseAIDead {
			return false
		}
		s.advanceRoundLocked()
		return true
	})
}

// ContinueAfterDeath resumes play after losing a life. Valid only from
// the player-dead phase.
func (s *Service) ContinueAfterDeath() {
	s.act(func() bool {
		if s.gamePhase != models.PhasePlayerDead {
			return false
		}
		s.advanceRoundLocked()
		return true
	})
}

// ResetGame cancels anything in flight and returns to the start screen
func (s *Service) ResetGame() {
	s.act(func() bool {
		s.cancelPendingLocked()

		s.gamePhase = models.PhaseStart
		s.currentTurn = models.SidePlayer
		s.lives = models.SoloStartingLives
		s.roundsSurvived = 0
		s.wins = map[models.Side]int{}
		s.shotHistory = nil
		s.cardRound = nil
		s.deck = nil
		s.cycle = revolver.NewCycle(s.roller)
		s.triggerPhase = ""
		s.triggerShooter = ""
		s.eligible = false
		s.inFlight = false
		return true
	})
}

// SetPhase forces the top-level phase. Dev tooling only; it performs no
// cleanup beyond cancelling pending timers.
func (s *Service) SetPhase(phase models.GamePhase) {
	s.act(func() bool {
		s.cancelPendingLocked()
		s.gamePhase = phase
		s.inFlight = false
		return true
	})
}

// act runs fn under the lock and emits a snapshot if it reports a change
func (s *Service) act(fn func() bool) {
	s.mu.Lock()
	changed := fn()

	var snap *Snapshot
	cb := s.onSnapshot
	if changed && cb != nil {
		snap = s.snapshotLocked()
	}
	s.mu.Unlock()

	if snap != nil {
		cb(snap)
	}
}

// schedule registers a cancellable timer bound to the current generation.
// The callback runs under the lock and reports whether state changed.
func (s *Service) scheduleLocked(d time.Duration, fn func() bool) {
	gen := s.timerGen

	t := s.clk.AfterFunc(d, func() {
		s.mu.Lock()
		if s.timerGen != gen {
			s.mu.Unlock()
			return
		}
		changed := fn()

		var snap *Snapshot
		cb := s.onSnapshot
		if changed && cb != nil {
			snap = s.snapshotLocked()
		}
		s.mu.Unlock()

		if snap != nil {
			cb(snap)
		}
	})

	s.timers = append(s.timers, t)
}

// cancelPendingLocked stops every scheduled timer and any active trigger
// sequence so stale callbacks cannot fire into a session that has moved on
func (s *Service) cancelPendingLocked() {
	s.timerGen++
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = nil
	s.trig.Cancel()
}

func (s *Service) beginCardRoundLocked() {
	s.deck = deck.New(s.roller)
	current := s.mustDrawLocked()

	s.gamePhase = models.PhaseCardGame
	s.cardRound = &models.CardRound{
		CurrentCard: &current,
		Phase:       models.CardRoundDealing,
	}

	s.scheduleLocked(s.timing.Deal, func() bool {
		if s.cardRound == nil || s.cardRound.Phase != models.CardRoundDealing {
			return false
		}
		s.cardRound.Phase = models.CardRoundGuessing
		s.maybeScheduleAILocked()
		return true
	})
}

func (s *Service) makeGuessLocked(side models.Side, direction models.GuessDirection) bool {
	if s.gamePhase != models.PhaseCardGame || s.inFlight {
		return false
	}
	if s.cardRound == nil || s.cardRound.Phase != models.CardRoundGuessing {
		return false
	}
	if side != s.currentTurn {
		return false
	}

	next := s.mustDrawLocked()

	s.inFlight = true
	s.pendingNext = next
	s.lastGuesser = side
	s.cardRound.Phase = models.CardRoundRevealing
	s.cardRound.LastGuess = direction
	s.cardRound.LastGuessResult = ""
	s.cardRound.Guesser = side

	s.scheduleLocked(s.timing.Reveal, func() bool {
		s.revealLocked(direction)
		return true
	})

	return true
}

func (s *Service) revealLocked(direction models.GuessDirection) {
	next := s.pendingNext
	comparison := deck.Compare(*s.cardRound.CurrentCard, next)
	result := deck.Judge(direction, comparison)

	s.cardRound.NextCard = &next
	s.cardRound.LastGuessResult = result
	s.cardRound.Phase = models.CardRoundResult

	s.scheduleLocked(s.timing.Hold, func() bool {
		s.resolveGuessLocked(result)
		return true
	})
}

func (s *Service) resolveGuessLocked(result models.GuessResult) {
	guesser := s.cardRound.Guesser

	shooter, owed := s.policy(guesser, result)
	if !owed {
		// Round continues: the drawn card becomes current and the other
		// side guesses against it.
		s.cardRound.CurrentCard = s.cardRound.NextCard
		s.cardRound.NextCard = nil
		s.cardRound.Phase = models.CardRoundGuessing
		s.cardRound.LastGuess = ""
		s.cardRound.LastGuessResult = ""
		s.cardRound.Guesser = ""
		s.currentTurn = guesser.Opponent()
		s.inFlight = false
		s.maybeScheduleAILocked()
		return
	}

	s.gamePhase = models.PhasePlaying
	s.cardRound.Phase = models.CardRoundWaiting
	s.inFlight = false

	s.scheduleLocked(s.timing.TriggerStart, func() bool {
		if s.gamePhase != models.PhasePlaying {
			return false
		}
		s.startTriggerSequenceLocked(shooter)
		return true
	})
}

func (s *Service) startTriggerSequenceLocked(shooter models.Side) {
	willFire := revolver.WillFire(s.cycle)

	s.gamePhase = models.PhaseTriggerSequence
	s.triggerShooter = shooter
	s.triggerPhase = ""
	s.inFlight = true

	s.trig.Start(trigger.RunInput{
		Shooter:       shooter,
		WillFire:      willFire,
		OnPhaseChange: s.handleTriggerPhase,
		OnComplete:    s.handleTriggerComplete,
	})
}

func (s *Service) handleTriggerPhase(phase trigger.Phase) {
	s.mu.Lock()
	if s.gamePhase != models.PhaseTriggerSequence {
		s.mu.Unlock()
		return
	}
	s.triggerPhase = phase

	var snap *Snapshot
	snapCB := s.onSnapshot
	if snapCB != nil {
		snap = s.snapshotLocked()
	}
	phaseCB := s.onTriggerPhase
	s.mu.Unlock()

	if snap != nil {
		snapCB(snap)
	}
	if phaseCB != nil {
		phaseCB(phase)
	}
}

func (s *Service) handleTriggerComplete(result trigger.Result) {
	s.mu.Lock()
	if s.gamePhase != models.PhaseTriggerSequence {
		s.mu.Unlock()
		return
	}
	s.processTriggerResultLocked(result == trigger.ResultShot)

	var snap *Snapshot
	cb := s.onSnapshot
	if cb != nil {
		snap = s.snapshotLocked()
	}
	s.mu.Unlock()

	if snap != nil {
		cb(snap)
	}
}

// processTriggerResultLocked applies a resolved pull to the session
func (s *Service) processTriggerResultLocked(fired bool) {
	shooter := s.triggerShooter

	revolver.ResolveShot(s.cycle)
	s.shotHistory = append(s.shotHistory, models.ShotRecord{
		Turn:       shooter,
		ShotNumber: s.cycle.ShotsFired,
		Hit:        fired,
	})

	s.triggerPhase = ""
	s.triggerShooter = ""
	s.inFlight = false

	if !fired {
		// Empty chamber: same cycle, new card round, and the side that
		// did not just guess opens it.
		s.currentTurn = s.lastGuesser.Opponent()
		s.beginCardRoundLocked()
		return
	}

	if shooter == models.SidePlayer {
		s.playerShotLocked()
	} else {
		s.opponentShotLocked()
	}
}

func (s *Service) playerShotLocked() {
	if s.mode == models.ModePvP {
		s.wins[models.SideAI]++
		if s.wins[models.SideAI] >= models.PvPWinsToTakeMatch {
			s.gamePhase = models.PhaseGameOver
			return
		}
		s.gamePhase = models.PhasePlayerDead
		return
	}

	s.lives--
	if s.lives <= 0 {
		s.gamePhase = models.PhaseGameOver
		s.eligible = s.roundsSurvived > 0
		return
	}
	s.gamePhase = models.PhasePlayerDead
}

func (s *Service) opponentShotLocked() {
	s.roundsSurvived++
	if s.roundsSurvived > s.highestRounds {
		s.highestRounds = s.roundsSurvived
	}

	if s.mode == models.ModePvP {
		s.wins[models.SidePlayer]++
		if s.wins[models.SidePlayer] >= models.PvPWinsToTakeMatch {
			s.gamePhase = models.PhaseGameOver
			return
		}
	}
	s.gamePhase = models.PhaseAIDead
}

// advanceRoundLocked starts the next round: new cycle, new history, new
// card round, player guesses first
func (s *Service) advanceRoundLocked() {
	s.cancelPendingLocked()

	s.cycle = revolver.NewCycle(s.roller)
	s.shotHistory = nil
	s.currentTurn = models.SidePlayer
	s.inFlight = false

	s.beginCardRoundLocked()
}

// maybeScheduleAILocked arms the AI's delayed guess when it is the AI's
// turn in a solo game
func (s *Service) maybeScheduleAILocked() {
	if s.mode != models.ModeSolo || s.currentTurn != models.SideAI {
		return
	}

	s.scheduleLocked(s.timing.AIThink, func() bool {
		if s.currentTurn != models.SideAI || s.cardRound == nil {
			return false
		}
		direction := deck.AIGuess(*s.cardRound.CurrentCard, s.roller)
		return s.makeGuessLocked(models.SideAI, direction)
	})
}

// mustDrawLocked draws a card, treating exhaustion as the invariant
// violation it is: a fresh deck exists per round and at most two cards
// are ever drawn from it.
func (s *Service) mustDrawLocked() models.Card {
	card, err := s.deck.Draw()
	if err != nil {
		panic(fmt.Sprintf("session: %v", err))
	}
	return card
}

func (s *Service) snapshotLocked() *Snapshot {
	s.seq++
	snap := &Snapshot{
		FullSync:            true,
		Seq:                 s.seq,
		Mode:                s.mode,
		GamePhase:           s.gamePhase,
		CurrentTurn:         s.currentTurn,
		Lives:               s.lives,
		RoundsSurvived:      s.roundsSurvived,
		HighestRounds:       s.highestRounds,
		PlayerWins:          s.wins[models.SidePlayer],
		AIWins:              s.wins[models.SideAI],
		TriggerPhase:        s.triggerPhase,
		TriggerShooter:      s.triggerShooter,
		LeaderboardEligible: s.eligible,
	}

	if s.shotHistory != nil {
		snap.ShotHistory = append([]models.ShotRecord(nil), s.shotHistory...)
	}
	if s.cardRound != nil {
		round := *s.cardRound
		snap.CardRound = &round
	}
	if s.cycle != nil {
		cycle := *s.cycle
		snap.Cycle = &cycle
		snap.DeathOdds = revolver.DeathOdds(s.cycle)
	}

	return snap
}
