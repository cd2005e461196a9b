// Package timer implements the game countdown.
//
// The server clock is authoritative: browsers render the remaining seconds
// they are sent and never decide on their own that time is up.
package timer

import (
	"sync"
	"time"
)

// Countdown counts a fixed duration down to zero and calls onDone once.
type Countdown struct {
	mu        sync.Mutex
	duration  time.Duration
	remaining time.Duration // as of startedAt, or frozen while paused
	startedAt time.Time
	running   bool
	fired     bool
	stopped   bool
	t         *time.Timer
	gen       int
	onDone    func()
	done      chan struct{}
}

// New prepares a countdown. It does not run until Start.
func New(d time.Duration, onDone func()) *Countdown {
	return &Countdown{
		duration:  d,
		remaining: d,
		onDone:    onDone,
		done:      make(chan struct{}),
	}
}

// Start begins the countdown. A non-positive duration fires immediately.
// Calling Start twice is a no-op.
func (c *Countdown) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running || c.fired || c.stopped || !c.startedAt.IsZero() {
		return
	}
	c.runLocked()
}

// Pause freezes the remaining time.
func (c *Countdown) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}
	if c.t != nil {
		c.t.Stop()
	}
	c.remaining = c.remainingLocked()
	c.running = false
}

// Resume continues a paused countdown from where it stopped.
func (c *Countdown) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running || c.fired || c.stopped || c.startedAt.IsZero() {
		return
	}
	c.runLocked()
}

// Stop cancels the countdown without firing onDone.
func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped || c.fired {
		return
	}
	if c.t != nil {
		c.t.Stop()
	}
	c.remaining = c.remainingLocked()
	c.running = false
	c.stopped = true
	close(c.done)
}

// Remaining reports the time left.
func (c *Countdown) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remainingLocked()
}

// Paused reports whether the countdown was started and is currently frozen.
func (c *Countdown) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.running && !c.fired && !c.stopped && !c.startedAt.IsZero()
}

// Done is closed when the countdown fires or is stopped.
func (c *Countdown) Done() <-chan struct{} { return c.done }

func (c *Countdown) runLocked() {
	c.startedAt = time.Now()
	c.running = true
	c.gen++
	gen := c.gen
	if c.remaining <= 0 {
		c.remaining = 0
		c.t = nil
		go c.expire(gen)
		return
	}
	c.t = time.AfterFunc(c.remaining, func() { c.expire(gen) })
}

func (c *Countdown) remainingLocked() time.Duration {
	if !c.running {
		return c.remaining
	}
	left := c.remaining - time.Since(c.startedAt)
	if left < 0 {
		return 0
	}
	return left
}

// expire runs on the timer goroutine. A Pause or Stop that won the race
// against the timer leaves running false or bumps gen, and nothing fires.
func (c *Countdown) expire(gen int) {
	c.mu.Lock()
	if gen != c.gen || !c.running || c.fired || c.stopped {
		c.mu.Unlock()
		return
	}
	c.running = false
	c.fired = true
	c.remaining = 0
	close(c.done)
	cb := c.onDone
	c.mu.Unlock()

	if cb != nil {
		cb()
	}
}
