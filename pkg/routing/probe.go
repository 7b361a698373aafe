package routing

// probeSlot is the single staging slot a distributor lends to probeable
// adapters. It must be released before it can be acquired again.
type probeSlot struct {
	held  bool
	stack Stack
}

// acquire stages stack and returns the release func.
func (p *probeSlot) acquire(stack Stack) func() {
	if p.held {
		panic(invariantf("probe.acquire", "slot already holds %s", p.stack))
	}
	p.held = true
	p.stack = stack
	return p.release
}

func (p *probeSlot) release() {
	p.held = false
	p.stack = Stack{}
}

// probe asks adapter how much of allowed may pass. Adapters that cannot
// probe let everything through.
func (p *probeSlot) probe(adapter Adapter, stack Stack, allowed int) int {
	prober, ok := adapter.(Probeable)
	if !ok {
		return allowed
	}
	release := p.acquire(stack)
	defer release()
	acceptable := prober.Probe(p.stack, allowed)
	if acceptable > allowed {
		return allowed
	}
	return acceptable
}
