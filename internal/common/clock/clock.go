// Package clock abstracts time so that every delayed transition in the
// game (card dealing, reveal pauses, AI think time, trigger sequence
// phases) can be driven by a virtual clock in tests instead of wall-clock
// timers.
package clock

import "time"

//go:generate mockgen -package=mocks -destination=mocks/mock_clock.go lastchamber/internal/common/clock Clock

// Timer is a cancellable pending callback
type Timer interface {
	// Stop cancels the timer. It reports whether the call prevented the
	// callback from firing.
	Stop() bool
}

// Clock provides the current time and cancellable scheduled callbacks
type Clock interface {
	Now() time.Time

	// AfterFunc schedules f to run after d and returns a handle that can
	// cancel it
	AfterFunc(d time.Duration, f func()) Timer
}

// DefaultClock implements the Clock interface using the system clock
type DefaultClock struct{}

// Now returns the current time
func (c *DefaultClock) Now() time.Time {
	return time.Now()
}

// AfterFunc schedules f on a real timer
func (c *DefaultClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
