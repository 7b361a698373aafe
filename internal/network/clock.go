package network

import (
	"sync"
	"time"
)

// TickClock is a clock that only moves when the simulator steps it.
type TickClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

// NewTickClock starts a clock at start that advances by step per tick.
func NewTickClock(start time.Time, step time.Duration) *TickClock {
	return &TickClock{now: start, step: step}
}

// Now returns the current tick time.
func (c *TickClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Step advances the clock by one tick and returns the new time.
func (c *TickClock) Step() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(c.step)
	return c.now
}
