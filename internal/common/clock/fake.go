package clock

import (
	"sync"
	"time"
)

// FakeClock is a Clock whose time only moves when Advance is called.
// Pending callbacks fire synchronously, in deadline order, as the virtual
// time passes them. Callbacks may schedule further timers; those fire too
// if they come due within the same Advance window.
type FakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
	seq    int
}

// NewFake creates a FakeClock starting at the given time
func NewFake(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

// Now returns the current virtual time
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc schedules f at now+d on the virtual timeline
func (c *FakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := &fakeTimer{
		clock:    c,
		deadline: c.now.Add(d),
		seq:      c.seq,
		f:        f,
	}
	c.seq++
	c.timers = append(c.timers, t)

	return t
}

// Advance moves the virtual time forward by d, firing every due callback
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)

	for {
		t := c.popDueLocked(target)
		if t == nil {
			break
		}

		// Time observed by the callback is the timer's own deadline.
		if t.deadline.After(c.now) {
			c.now = t.deadline
		}

		// Release the lock while running the callback so it can call
		// AfterFunc or Stop on this clock.
		c.mu.Unlock()
		t.f()
		c.mu.Lock()
	}

	c.now = target
	c.mu.Unlock()
}

// popDueLocked removes and returns the earliest timer due at or before
// target, breaking ties by scheduling order
func (c *FakeClock) popDueLocked(target time.Time) *fakeTimer {
	best := -1
	for i, t := range c.timers {
		if t.deadline.After(target) {
			continue
		}
		if best == -1 {
			best = i
			continue
		}
		b := c.timers[best]
		if t.deadline.Before(b.deadline) || (t.deadline.Equal(b.deadline) && t.seq < b.seq) {
			best = i
		}
	}
	if best == -1 {
		return nil
	}

	t := c.timers[best]
	c.timers = append(c.timers[:best], c.timers[best+1:]...)
	return t
}

// PendingTimers reports how many callbacks are still scheduled
func (c *FakeClock) PendingTimers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

type fakeTimer struct {
	clock    *FakeClock
	deadline time.Time
	seq      int
	f        func()
}

// Stop cancels the timer if it has not fired yet
func (t *fakeTimer) Stop() bool {
	c := t.clock
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, pending := range c.timers {
		if pending == t {
			c.timers = append(c.timers[:i], c.timers[i+1:]...)
			return true
		}
	}
	return false
}
