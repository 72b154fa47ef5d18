package game

import (
	"sync"
	"time"
)

// Clock supplies the engine's notion of now. Event windows, shop
// purchase stamps, and telemetry all read through it so tests can pin
// time without sleeping.
type Clock interface {
	Now() time.Time
}

// RealClock reads the wall clock in UTC, matching how timestamps are
// persisted.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now().UTC() }

// FakeClock holds a fixed instant that tests move by hand.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set jumps the clock to t, forwards or backwards.
func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
