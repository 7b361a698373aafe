package routing

// StrategyMode selects how a strategy carrier sizes transfers.
type StrategyMode uint8

const (
	// Unrestricted moves whatever the rate allows.
	Unrestricted StrategyMode = iota
	// MaintainExact tops the sink up to the configured quantity.
	MaintainExact
	// TransferExact moves only whole batches of the configured quantity.
	TransferExact
)

var strategyNames = [...]string{"unrestricted", "maintain_exact", "transfer_exact"}

// String returns the configuration name of the mode.
func (m StrategyMode) String() string {
	if int(m) < len(strategyNames) {
		return strategyNames[m]
	}
	return "unknown"
}

// ParseStrategyMode converts a configuration name to a mode.
func ParseStrategyMode(name string) (StrategyMode, bool) {
	for i, n := range strategyNames {
		if n == name {
			return StrategyMode(i), true
		}
	}
	return Unrestricted, false
}

// QuantityRule overrides the configured quantity for particular stacks. A
// specific match also makes MaintainExact count only type-equal stacks.
type QuantityRule interface {
	Match(stack Stack) (quantity int, specific bool, ok bool)
}

// TransferStrategy is the per-sink sizing configuration carried by a
// strategy carrier.
type TransferStrategy struct {
	mode     StrategyMode
	quantity int
	buffered int

	// Filter decides which sink contents count towards MaintainExact when no
	// specific rule matched. Nil counts everything.
	Filter Filter
	// Rule optionally overrides the quantity per stack.
	Rule QuantityRule
}

// NewTransferStrategy builds a strategy with the given mode and quantity.
func NewTransferStrategy(mode StrategyMode, quantity int) *TransferStrategy {
	if quantity < 0 {
		panic(invariantf("strategy.new", "negative quantity %d", quantity))
	}
	return &TransferStrategy{mode: mode, quantity: quantity}
}

// Mode returns the current mode.
func (s *TransferStrategy) Mode() StrategyMode { return s.mode }

// Quantity returns the configured target or batch size.
func (s *TransferStrategy) Quantity() int { return s.quantity }

// Buffered returns the shortfall remembered from earlier TransferExact
// attempts.
func (s *TransferStrategy) Buffered() int { return s.buffered }

// SetMode switches modes and drops any buffered shortfall.
func (s *TransferStrategy) SetMode(mode StrategyMode) {
	s.mode = mode
	s.buffered = 0
}

// SetQuantity changes the target or batch size.
func (s *TransferStrategy) SetQuantity(quantity int) {
	if quantity < 0 {
		panic(invariantf("strategy.set_quantity", "negative quantity %d", quantity))
	}
	s.quantity = quantity
}

// SizeRequest carries the inputs for one sizing decision.
type SizeRequest struct {
	Stack   Stack
	Allowed int
	Sink    Sink
	Equal   Equality
	// DryRun simulates inserting count units of Stack and returns the
	// remainder of the whole stack.
	DryRun func(count int) int
}

// Size returns how many units to attempt. Zero means refuse.
func (s *TransferStrategy) Size(req SizeRequest) int {
	quantity, specific := s.resolve(req.Stack)
	switch s.mode {
	case MaintainExact:
		missing := quantity - s.countAtSink(req, specific)
		if missing <= 0 {
			return 0
		}
		return min(req.Allowed, req.Stack.Count, missing)
	case TransferExact:
		count := min(req.Allowed+s.buffered, quantity, req.Stack.Count)
		if count < quantity {
			s.buffered = req.Allowed
			return 0
		}
		s.buffered = 0
		if req.DryRun != nil && req.DryRun(count) != req.Stack.Count-count {
			return 0
		}
		return count
	default:
		return min(req.Allowed, req.Stack.Count)
	}
}

func (s *TransferStrategy) resolve(stack Stack) (int, bool) {
	if s.Rule != nil {
		if quantity, specific, ok := s.Rule.Match(stack); ok {
			return quantity, specific
		}
	}
	return s.quantity, false
}

// countAtSink sums sink contents matching the incoming stack.
func (s *TransferStrategy) countAtSink(req SizeRequest, specific bool) int {
	reader, ok := req.Sink.(SlotReader)
	if !ok {
		return 0
	}
	equal := req.Equal
	if equal == nil {
		equal = SameType
	}
	total := 0
	for _, slot := range reader.Slots() {
		if slot.IsEmpty() {
			continue
		}
		var match bool
		if specific {
			match = equal(req.Stack, slot)
		} else {
			match = s.Filter == nil || s.Filter.Test(slot)
		}
		if match {
			total += slot.Count
		}
	}
	return total
}
