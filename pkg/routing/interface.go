package routing

// Sink is any destination that can take resources.
type Sink interface {
	// Accept offers stack and returns how many units were taken. Under
	// Simulate it must not change state and must give the same answer on
	// repeated calls.
	Accept(stack Stack, mode Mode) int
}

// SlotReader is implemented by sinks whose contents can be inspected.
type SlotReader interface {
	Slots() []Stack
}

// Filter is an admission predicate.
type Filter interface {
	Test(stack Stack) bool
}

// FilterFunc adapts a function to Filter.
type FilterFunc func(stack Stack) bool

// Test calls f.
func (f FilterFunc) Test(stack Stack) bool { return f(stack) }

// Adapter is something attached to one end of a hop. Its behaviour is found by
// asserting the capability interfaces below.
type Adapter interface {
	AdapterName() string
}

// FilterMode says which transfer direction an admission filter applies to.
type FilterMode uint8

const (
	FilterInsert FilterMode = iota
	FilterExtract
	FilterBoth
)

// AdmissionFilter is an adapter that can reject stacks.
type AdmissionFilter interface {
	Adapter
	FilterMode() FilterMode
	Filter
}

// Role is the direction a conveyor moves resources relative to the block it
// is attached to.
type Role uint8

const (
	Import Role = iota
	Export
)

// String returns the role name.
func (r Role) String() string {
	if r == Export {
		return "export"
	}
	return "import"
}

// DistributionMode selects the distribution policy.
type DistributionMode uint8

const (
	// DistributeFirst fills candidates in topology order.
	DistributeFirst DistributionMode = iota
	// DistributeRoundRobinLocal splits each offer evenly.
	DistributeRoundRobinLocal
	// DistributeRoundRobinGlobal equalizes cumulative delivered totals.
	DistributeRoundRobinGlobal
)

var distributionNames = [...]string{"first", "round_robin_local", "round_robin_global"}

// String returns the configuration name of the mode.
func (d DistributionMode) String() string {
	if int(d) < len(distributionNames) {
		return distributionNames[d]
	}
	return "unknown"
}

// ParseDistributionMode converts a configuration name to a mode.
func ParseDistributionMode(name string) (DistributionMode, bool) {
	for i, n := range distributionNames {
		if n == name {
			return DistributionMode(i), true
		}
	}
	return DistributeFirst, false
}

// Conveyor is a batching modifier. Two conveyors on the same hop are never
// allowed.
type Conveyor interface {
	Adapter
	Role() Role
	Distribution() DistributionMode
}

// StrategyCarrier is a conveyor that also sizes transfers.
type StrategyCarrier interface {
	Conveyor
	Strategy() *TransferStrategy
}

// Probeable adapters can cap how much of a staged stack may pass. Probe must
// be read only; it returns the acceptable amount, at most amount.
type Probeable interface {
	Adapter
	Probe(staged Stack, amount int) int
}

// Link is the pipe segment that owns the rate limiter and ledger used by a
// distributor.
type Link interface {
	Position() Position
	Valid() bool
	Blocked(side Facing) bool
	Rate() Rate
	Adapter(side Facing) Adapter
	Limiter() *RateLimiter
	Ledger() *Ledger
}

// Topology produces candidate routes for an endpoint.
type Topology interface {
	// Routes returns candidates in priority order, fresh for every call.
	Routes(pos Position, side Facing) []RoutePath
	// NeighborAdapter returns the adapter on the block facing pos across side.
	NeighborAdapter(pos Position, side Facing) Adapter
}

// Observer receives committed deliveries.
type Observer interface {
	OnDelivered(route RoutePath, delivered Stack)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(route RoutePath, delivered Stack)

// OnDelivered calls f.
func (f ObserverFunc) OnDelivered(route RoutePath, delivered Stack) { f(route, delivered) }

// checkAdmission applies a filter adapter the way the hop end sees it: an
// extract-only filter on a pipe, or an insert-only filter on a block, does
// not apply.
func checkAdmission(adapter Adapter, onPipe bool, stack Stack) bool {
	filter, ok := adapter.(AdmissionFilter)
	if !ok {
		return true
	}
	switch filter.FilterMode() {
	case FilterInsert:
		if !onPipe {
			return true
		}
	case FilterExtract:
		if onPipe {
			return true
		}
	}
	return filter.Test(stack)
}
