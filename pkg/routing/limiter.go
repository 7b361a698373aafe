package routing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// BatchSize is the number of units one rate unit allows per window.
const BatchSize = 64

var (
	batchSizeDecimal = decimal.NewFromInt(BatchSize)
	half             = decimal.NewFromFloat(0.5)
)

// Rate is a fractional transfer rate in batches per window.
type Rate struct {
	d decimal.Decimal
}

// RateFromFloat converts a float rate.
func RateFromFloat(v float64) Rate {
	return Rate{d: decimal.NewFromFloat(v)}
}

// ParseRate parses a decimal rate such as "0.5".
func ParseRate(value string) (Rate, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Rate{}, fmt.Errorf("parse rate %q: %w", value, err)
	}
	if d.IsNegative() {
		return Rate{}, fmt.Errorf("parse rate %q: must be >= 0", value)
	}
	return Rate{d: d}, nil
}

// Cap returns the number of units the rate allows per window.
func (r Rate) Cap() int {
	return int(r.d.Mul(batchSizeDecimal).Add(half).Floor().IntPart())
}

// IsZero reports whether the rate allows nothing.
func (r Rate) IsZero() bool {
	return r.d.IsZero()
}

// Min returns the smaller of two rates.
func (r Rate) Min(o Rate) Rate {
	if o.d.LessThan(r.d) {
		return o
	}
	return r
}

// String renders the rate in decimal notation.
func (r Rate) String() string {
	return r.d.String()
}

// RateLimiter counts units moved over one physical link within the current
// window. The committed counter tracks real transfers; the simulated counter
// is a shadow reseeded from committed at the start of each call.
type RateLimiter struct {
	committed int
	simulated int
}

// NewRateLimiter returns a limiter with both counters at zero.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{}
}

// Available returns how many more units may move at rate under mode.
func (l *RateLimiter) Available(rate Rate, mode Mode) int {
	left := rate.Cap() - l.used(mode)
	if left < 0 {
		return 0
	}
	return left
}

// Commit records amount units against the counter selected by mode.
func (l *RateLimiter) Commit(amount int, mode Mode) {
	if amount < 0 {
		panic(invariantf("limiter.commit", "negative amount %d", amount))
	}
	if mode == Simulate {
		l.simulated += amount
		return
	}
	l.committed += amount
}

// BeginCall reseeds the simulated shadow from the committed counter.
func (l *RateLimiter) BeginCall() {
	l.simulated = l.committed
}

// ResetWindow clears both counters at a window boundary.
func (l *RateLimiter) ResetWindow() {
	l.committed = 0
	l.simulated = 0
}

// Committed returns units committed in the current window.
func (l *RateLimiter) Committed() int {
	return l.committed
}

// Simulated returns units counted by the simulated shadow.
func (l *RateLimiter) Simulated() int {
	return l.simulated
}

func (l *RateLimiter) used(mode Mode) int {
	if mode == Simulate {
		return l.simulated
	}
	return l.committed
}
