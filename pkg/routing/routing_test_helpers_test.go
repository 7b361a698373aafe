package routing

import (
	"testing"
)

// testLink is an in-memory Link for engine tests.
type testLink struct {
	pos      Position
	invalid  bool
	blocked  map[Facing]bool
	rate     Rate
	adapters map[Facing]Adapter
	limiter  *RateLimiter
	ledger   *Ledger
}

func newTestLink(rate float64) *testLink {
	return &testLink{
		blocked:  map[Facing]bool{},
		rate:     RateFromFloat(rate),
		adapters: map[Facing]Adapter{},
		limiter:  NewRateLimiter(),
		ledger:   NewLedger(),
	}
}

func (l *testLink) Position() Position          { return l.pos }
func (l *testLink) Valid() bool                 { return !l.invalid }
func (l *testLink) Blocked(side Facing) bool    { return l.blocked[side] }
func (l *testLink) Rate() Rate                  { return l.rate }
func (l *testLink) Adapter(side Facing) Adapter { return l.adapters[side] }
func (l *testLink) Limiter() *RateLimiter       { return l.limiter }
func (l *testLink) Ledger() *Ledger             { return l.ledger }

// testTopology returns the same routes for every endpoint.
type testTopology struct {
	routes   []RoutePath
	neighbor Adapter
	calls    int
}

func (t *testTopology) Routes(Position, Facing) []RoutePath {
	t.calls++
	return append([]RoutePath(nil), t.routes...)
}

func (t *testTopology) NeighborAdapter(Position, Facing) Adapter { return t.neighbor }

// testSink accepts up to capacity units and remembers what it holds.
type testSink struct {
	capacity int
	held     []Stack
	accepts  int
}

func newTestSink(capacity int) *testSink {
	return &testSink{capacity: capacity}
}

func (s *testSink) Accept(stack Stack, mode Mode) int {
	n := min(stack.Count, s.capacity-s.total())
	if n <= 0 {
		return 0
	}
	if mode == Execute {
		s.accepts++
		s.held = append(s.held, stack.WithCount(n))
	}
	return n
}

func (s *testSink) Slots() []Stack {
	return append([]Stack(nil), s.held...)
}

func (s *testSink) total() int {
	total := 0
	for _, st := range s.held {
		total += st.Count
	}
	return total
}

// brokenSink reports more than it was offered.
type brokenSink struct{}

func (brokenSink) Accept(stack Stack, _ Mode) int { return stack.Count + 1 }

type testConveyor struct {
	role Role
	dist DistributionMode
}

func (c *testConveyor) AdapterName() string            { return "conveyor" }
func (c *testConveyor) Role() Role                     { return c.role }
func (c *testConveyor) Distribution() DistributionMode { return c.dist }

type testArm struct {
	testConveyor
	strategy *TransferStrategy
}

func (a *testArm) AdapterName() string         { return "arm" }
func (a *testArm) Strategy() *TransferStrategy { return a.strategy }

type testFilterCover struct {
	mode  FilterMode
	allow string
}

func (f *testFilterCover) AdapterName() string    { return "filter" }
func (f *testFilterCover) FilterMode() FilterMode { return f.mode }
func (f *testFilterCover) Test(stack Stack) bool  { return stack.Type.ID == f.allow }

// testProbe lets at most limit units through and records whether it saw
// a staged stack.
type testProbe struct {
	limit  int
	staged []Stack
}

func (p *testProbe) AdapterName() string { return "probe" }

func (p *testProbe) Probe(staged Stack, amount int) int {
	p.staged = append(p.staged, staged)
	return min(p.limit, amount)
}

func facingKey(x int) FacingKey {
	return FacingKey{Pos: Position{X: x}, Facing: West}
}

func routeTo(x int, sink Sink) RoutePath {
	return RoutePath{Target: facingKey(x), Sink: sink, Rate: RateFromFloat(100)}
}

func newEngine(t *testing.T, link *testLink, topo *testTopology, opts ...Option) *Distributor {
	t.Helper()
	return NewDistributor(link, East, topo, opts...)
}

func roundRobinLink(dist DistributionMode) *testLink {
	link := newTestLink(100)
	link.adapters[East] = &testConveyor{role: Import, dist: dist}
	return link
}

func expectPanic(t *testing.T, fn func()) *InvariantError {
	t.Helper()
	var got *InvariantError
	func() {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			err, ok := r.(*InvariantError)
			if !ok {
				panic(r)
			}
			got = err
		}()
		fn()
	}()
	if got == nil {
		t.Fatalf("expected invariant panic")
	}
	return got
}

func ore(count int) Stack {
	return NewStack("ore", count)
}
