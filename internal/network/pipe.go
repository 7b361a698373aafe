package network

import (
	"time"

	"routenet/pkg/routing"
)

// Pipe is one link of the network. It owns the link's rate limiter and
// fairness ledger and resets the limiter when its window elapses.
type Pipe struct {
	key      string
	pos      routing.Position
	rate     routing.Rate
	valid    bool
	blocked  map[routing.Facing]bool
	adapters map[routing.Facing]routing.Adapter
	limiter  *routing.RateLimiter
	ledger   *routing.Ledger

	window      time.Duration
	windowStart time.Time
	started     bool
}

// NewPipe creates a valid, unblocked pipe.
func NewPipe(key string, pos routing.Position, rate routing.Rate, window time.Duration) *Pipe {
	return &Pipe{
		key:      key,
		pos:      pos,
		rate:     rate,
		valid:    true,
		blocked:  map[routing.Facing]bool{},
		adapters: map[routing.Facing]routing.Adapter{},
		limiter:  routing.NewRateLimiter(),
		ledger:   routing.NewLedger(),
		window:   window,
	}
}

func (p *Pipe) Key() string                                 { return p.key }
func (p *Pipe) Position() routing.Position                  { return p.pos }
func (p *Pipe) Valid() bool                                 { return p.valid }
func (p *Pipe) Blocked(side routing.Facing) bool            { return p.blocked[side] }
func (p *Pipe) Rate() routing.Rate                          { return p.rate }
func (p *Pipe) Adapter(side routing.Facing) routing.Adapter { return p.adapters[side] }
func (p *Pipe) Limiter() *routing.RateLimiter               { return p.limiter }
func (p *Pipe) Ledger() *routing.Ledger                     { return p.ledger }

// Block closes or opens one side of the pipe.
func (p *Pipe) Block(side routing.Facing, blocked bool) {
	if blocked {
		p.blocked[side] = true
		return
	}
	delete(p.blocked, side)
}

// Attach puts an adapter on one side, replacing any previous one.
func (p *Pipe) Attach(side routing.Facing, adapter routing.Adapter) {
	if adapter == nil {
		delete(p.adapters, side)
		return
	}
	p.adapters[side] = adapter
}

// Invalidate marks the pipe as removed; distribution through it is refused.
func (p *Pipe) Invalidate() {
	p.valid = false
}

// Tick resets the limiter when the current window has elapsed and reports
// whether it did.
func (p *Pipe) Tick(now time.Time) bool {
	if !p.started {
		p.started = true
		p.windowStart = now
		return false
	}
	if now.Sub(p.windowStart) < p.window {
		return false
	}
	p.windowStart = now
	p.ResetWindow()
	return true
}

// ResetWindow zeroes the limiter counters.
func (p *Pipe) ResetWindow() {
	p.limiter.ResetWindow()
}

// ResetLedger drops all fairness history, as after a topology change.
func (p *Pipe) ResetLedger() {
	p.ledger.Reset()
}
