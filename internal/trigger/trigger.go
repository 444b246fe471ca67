// Package trigger stages the suspense sequence for a single trigger pull:
// a fixed schedule of phases ending in exactly one completion callback.
// It holds no game truth; whether the gun fires is decided by the revolver
// before a run starts.
package trigger

import (
	"sync"
	"time"

	"lastchamber/internal/common/clock"
	"lastchamber/internal/models"
)

// Phase is one beat of the staged reveal
type Phase string

const (
	// PhaseDrop is the sudden drop when the shooter learns they lost
	PhaseDrop Phase = "drop"

	// PhaseHeartbeat is the building heartbeat
	PhaseHeartbeat Phase = "heartbeat"

	// PhaseSpin is the cylinder spin
	PhaseSpin Phase = "spin"

	// PhasePull is the hammer falling
	PhasePull Phase = "pull"

	// PhaseResult is the bang or the click
	PhaseResult Phase = "result"

	// PhaseSigh is the relief beat, only after an empty chamber
	PhaseSigh Phase = "sigh"
)

// Result is the sequence outcome delivered to OnComplete
type Result string

const (
	ResultShot  Result = "shot"
	ResultEmpty Result = "empty"
)

// Timing holds the offsets of each phase from sequence start. The zero
// value is not usable; call DefaultTiming.
type Timing struct {
	Heartbeat     time.Duration
	Spin          time.Duration
	Pull          time.Duration
	Result        time.Duration
	CompleteShot  time.Duration
	Sigh          time.Duration
	CompleteEmpty time.Duration
}

// DefaultTiming mirrors the tuned schedule: a shot ends the sequence
// quickly after impact, an empty chamber lets the relief beat play out.
func DefaultTiming() *Timing {
	return &Timing{
		Heartbeat:     1500 * time.Millisecond,
		Spin:          4000 * time.Millisecond,
		Pull:          5500 * time.Millisecond,
		Result:        6200 * time.Millisecond,
		CompleteShot:  6600 * time.Millisecond,
		Sigh:          6800 * time.Millisecond,
		CompleteEmpty: 7500 * time.Millisecond,
	}
}

// Config holds dependencies for the controller
type Config struct {
	// Clock drives the phase timers
	Clock clock.Clock

	// Timing overrides the phase schedule, nil for the default
	Timing *Timing
}

// RunInput describes one trigger pull to stage
type RunInput struct {
	// Shooter is the side pulling the trigger
	Shooter models.Side

	// WillFire is the precomputed outcome from the revolver
	WillFire bool

	// OnPhaseChange is invoked at every phase transition, drop included
	OnPhaseChange func(Phase)

	// OnComplete is invoked exactly once, after all phase callbacks
	OnComplete func(Result)
}

// Controller runs at most one sequence at a time. Starting a new run
// cancels every pending timer of the previous one first.
type Controller struct {
	clk    clock.Clock
	timing *Timing

	mu     sync.Mutex
	active *run
}

type run struct {
	input  RunInput
	timers []clock.Timer
	done   bool
}

// New creates a trigger sequence controller
func New(cfg *Config) (*Controller, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	timing := cfg.Timing
	if timing == nil {
		timing = DefaultTiming()
	}

	return &Controller{
		clk:    cfg.Clock,
		timing: timing,
	}, nil
}

// Start begins a sequence. Every phase, drop included, is scheduled on
// the clock.
func (c *Controller) Start(input RunInput) {
	c.mu.Lock()
	c.cancelLocked()

	r := &run{input: input}
	c.active = r

	// Drop is scheduled at offset zero rather than fired inline so the
	// caller may hold its own lock across Start.
	schedule := []struct {
		at    time.Duration
		phase Phase
	}{
		{0, PhaseDrop},
		{c.timing.Heartbeat, PhaseHeartbeat},
		{c.timing.Spin, PhaseSpin},
		{c.timing.Pull, PhasePull},
		{c.timing.Result, PhaseResult},
	}

	complete := c.timing.CompleteShot
	if !input.WillFire {
		schedule = append(schedule, struct {
			at    time.Duration
			phase Phase
		}{c.timing.Sigh, PhaseSigh})
		complete = c.timing.CompleteEmpty
	}

	for _, step := range schedule {
		phase := step.phase
		r.timers = append(r.timers, c.clk.AfterFunc(step.at, func() {
			c.firePhase(r, phase)
		}))
	}
	r.timers = append(r.timers, c.clk.AfterFunc(complete, func() {
		c.fireComplete(r)
	}))
	c.mu.Unlock()
}

// Cancel synchronously stops all pending timers of the active run, if any.
// A cancelled run never invokes OnComplete.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelLocked()
}

// Active reports whether a sequence has outstanding callbacks
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active != nil
}

func (c *Controller) cancelLocked() {
	if c.active == nil {
		return
	}
	for _, t := range c.active.timers {
		t.Stop()
	}
	c.active.done = true
	c.active = nil
}

func (c *Controller) firePhase(r *run, phase Phase) {
	c.mu.Lock()
	if r.done {
		c.mu.Unlock()
		return
	}
	cb := r.input.OnPhaseChange
	c.mu.Unlock()

	if cb != nil {
		cb(phase)
	}
}

func (c *Controller) fireComplete(r *run) {
	c.mu.Lock()
	if r.done {
		c.mu.Unlock()
		return
	}
	r.done = true
	if c.active == r {
		c.active = nil
	}
	cb := r.input.OnComplete
	c.mu.Unlock()

	result := ResultEmpty
	if r.input.WillFire {
		result = ResultShot
	}

	if cb != nil {
		cb(result)
	}
}
