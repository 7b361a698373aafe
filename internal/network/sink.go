package network

import "routenet/pkg/routing"

// Sink is a named destination the simulator can inspect and drain.
type Sink interface {
	routing.Sink
	Key() string
	// Held returns the units currently stored, or voided for a void sink.
	Held() int
	// Drain removes up to n stored units and returns how many were removed.
	Drain(n int) int
}

// Inventory is a slotted container. Incoming units top up type-equal slots
// before opening empty ones.
type Inventory struct {
	key       string
	slots     []routing.Stack
	slotLimit int
	equal     routing.Equality
}

// NewInventory creates an empty inventory with the given geometry.
func NewInventory(key string, slots, slotLimit int) *Inventory {
	return &Inventory{
		key:       key,
		slots:     make([]routing.Stack, slots),
		slotLimit: slotLimit,
		equal:     routing.SameType,
	}
}

// Key returns the inventory's config key.
func (inv *Inventory) Key() string { return inv.key }

// Accept stores as much of stack as fits. Simulate leaves the slots untouched.
func (inv *Inventory) Accept(stack routing.Stack, mode routing.Mode) int {
	if stack.IsEmpty() {
		return 0
	}
	slots := inv.slots
	if mode == routing.Simulate {
		slots = append([]routing.Stack(nil), inv.slots...)
	}
	remaining := stack.Count
	for i := range slots {
		if remaining == 0 {
			break
		}
		if slots[i].IsEmpty() || !inv.equal(slots[i], stack) {
			continue
		}
		room := min(inv.slotLimit-slots[i].Count, remaining)
		if room > 0 {
			slots[i] = slots[i].WithCount(slots[i].Count + room)
			remaining -= room
		}
	}
	for i := range slots {
		if remaining == 0 {
			break
		}
		if !slots[i].IsEmpty() {
			continue
		}
		room := min(inv.slotLimit, remaining)
		slots[i] = stack.WithCount(room)
		remaining -= room
	}
	return stack.Count - remaining
}

// Slots returns a copy of the slot contents.
func (inv *Inventory) Slots() []routing.Stack {
	return append([]routing.Stack(nil), inv.slots...)
}

// Held returns the total units stored.
func (inv *Inventory) Held() int {
	total := 0
	for _, slot := range inv.slots {
		total += slot.Count
	}
	return total
}

// Drain removes units from the first occupied slots.
func (inv *Inventory) Drain(n int) int {
	removed := 0
	for i := range inv.slots {
		if removed == n {
			break
		}
		if inv.slots[i].IsEmpty() {
			continue
		}
		take := min(n-removed, inv.slots[i].Count)
		inv.slots[i] = inv.slots[i].Shrink(take)
		if inv.slots[i].Count == 0 {
			inv.slots[i] = routing.Stack{}
		}
		removed += take
	}
	return removed
}

// VoidSink destroys everything it is offered.
type VoidSink struct {
	key    string
	voided int
}

// NewVoidSink creates a void sink.
func NewVoidSink(key string) *VoidSink {
	return &VoidSink{key: key}
}

func (v *VoidSink) Key() string   { return v.key }
func (v *VoidSink) Held() int     { return v.voided }
func (v *VoidSink) Drain(int) int { return 0 }

// Accept takes the whole stack.
func (v *VoidSink) Accept(stack routing.Stack, mode routing.Mode) int {
	if mode == routing.Execute {
		v.voided += stack.Count
	}
	return stack.Count
}

// guardedSink applies a sink-side admission filter before the sink sees a
// stack.
type guardedSink struct {
	Sink
	filter routing.Filter
}

func (g guardedSink) Accept(stack routing.Stack, mode routing.Mode) int {
	if !g.filter.Test(stack) {
		return 0
	}
	return g.Sink.Accept(stack, mode)
}

// Slots exposes the wrapped sink's contents when it has any.
func (g guardedSink) Slots() []routing.Stack {
	if reader, ok := g.Sink.(routing.SlotReader); ok {
		return reader.Slots()
	}
	return nil
}
