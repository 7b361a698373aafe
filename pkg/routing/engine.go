package routing

import "github.com/go-logr/logr"

// Verbosity levels the engine logs at through logr.Logger.V.
const (
	LogDebug = 2
	LogTrace = 3
)

// Distributor routes stacks arriving at one side of a link to the sinks the
// topology offers for it. A distributor is not safe for concurrent use and
// must be the only writer of its link's counters while a call runs.
type Distributor struct {
	link     Link
	side     Facing
	topo     Topology
	logger   logr.Logger
	equal    Equality
	observer Observer

	shadow *Ledger
	probe  probeSlot
}

// Option configures a Distributor.
type Option func(*Distributor)

// WithLogger sets the logger used for policy decisions.
func WithLogger(logger logr.Logger) Option {
	return func(d *Distributor) { d.logger = logger }
}

// WithEquality sets the stack equality used when counting sink contents.
func WithEquality(equal Equality) Option {
	return func(d *Distributor) { d.equal = equal }
}

// WithObserver registers a receiver for committed deliveries.
func WithObserver(observer Observer) Option {
	return func(d *Distributor) { d.observer = observer }
}

// NewDistributor binds a distributor to side of link.
func NewDistributor(link Link, side Facing, topo Topology, opts ...Option) *Distributor {
	d := &Distributor{
		link:   link,
		side:   side,
		topo:   topo,
		logger: logr.Discard(),
		equal:  SameType,
		shadow: NewLedger(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.WithValues("pos", link.Position().String(), "side", side.String())
	return d
}

// Distribute offers stack to the candidate sinks and returns what was not
// delivered. Under Simulate nothing is committed, and the result equals what
// an Execute call would return given no intervening changes.
func (d *Distributor) Distribute(stack Stack, mode Mode) Stack {
	if stack.IsEmpty() {
		return stack
	}
	if !d.link.Valid() || d.link.Blocked(d.side) {
		return stack
	}
	d.beginCall()

	pipeAdapter := d.link.Adapter(d.side)
	tileAdapter := d.topo.NeighborAdapter(d.link.Position(), d.side)
	pipeConveyor, pipeIsConveyor := pipeAdapter.(Conveyor)
	tileConveyor, tileIsConveyor := tileAdapter.(Conveyor)
	if pipeIsConveyor && tileIsConveyor {
		d.logger.V(LogDebug).Info("refusing stack, conveyors on both ends", "stack", stack.String())
		return stack
	}
	if !checkAdmission(pipeAdapter, true, stack) {
		d.logger.V(LogDebug).Info("refusing stack, link filter rejected it", "stack", stack.String())
		return stack
	}
	if !checkAdmission(tileAdapter, false, stack) {
		d.logger.V(LogDebug).Info("refusing stack, neighbour filter rejected it", "stack", stack.String())
		return stack
	}

	policy := DistributeFirst
	switch {
	case pipeIsConveyor && pipeConveyor.Role() == Import:
		policy = pipeConveyor.Distribution()
	case tileIsConveyor && tileConveyor.Role() == Export:
		policy = tileConveyor.Distribution()
	}

	routes := d.topo.Routes(d.link.Position(), d.side)
	d.logger.V(LogDebug).Info("distributing", "stack", stack.String(), "mode", mode.String(),
		"policy", policy.String(), "candidates", len(routes))

	var remainder Stack
	switch policy {
	case DistributeRoundRobinLocal:
		remainder = d.insertRoundRobin(routes, stack, mode, false)
	case DistributeRoundRobinGlobal:
		remainder = d.insertRoundRobin(routes, stack, mode, true)
	default:
		remainder = d.insertFirst(routes, stack, mode)
	}
	if remainder.Count > stack.Count {
		panic(invariantf("distribute", "remainder %d exceeds offered %d", remainder.Count, stack.Count))
	}
	return remainder
}

// AvailableThroughput returns how many units the link may still move in the
// current window under mode.
func (d *Distributor) AvailableThroughput(mode Mode) int {
	return d.link.Limiter().Available(d.link.Rate(), mode)
}

// beginCall reseeds the simulated shadows from the committed state.
func (d *Distributor) beginCall() {
	d.link.Limiter().BeginCall()
	d.shadow.CopyFrom(d.link.Ledger())
}

// ledger returns the ledger mode reads and writes.
func (d *Distributor) ledger(mode Mode) *Ledger {
	if mode == Simulate {
		return d.shadow
	}
	return d.link.Ledger()
}

// insertFirst fills candidates in topology order.
func (d *Distributor) insertFirst(routes []RoutePath, stack Stack, mode Mode) Stack {
	for _, route := range routes {
		stack = d.insert(route, stack, mode, false)
		if stack.IsEmpty() {
			return stack
		}
	}
	return stack
}

// insertRoundRobin spreads stack across routes, either per offer or against
// the cumulative ledger.
func (d *Distributor) insertRoundRobin(routes []RoutePath, stack Stack, mode Mode, global bool) Stack {
	switch len(routes) {
	case 0:
		return stack
	case 1:
		return d.insert(routes[0], stack, mode, false)
	}
	if global {
		return d.insertEnhanced(routes, stack, mode)
	}
	stack, survivors := d.insertEvenly(routes, stack, mode)
	if !stack.IsEmpty() && len(survivors) > 0 {
		stack, _ = d.insertEvenly(survivors, stack, mode)
	}
	return stack
}
