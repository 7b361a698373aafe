package journal

import (
	"context"
	"sync"
)

// Memory keeps deliveries in process.
type Memory struct {
	mu         sync.Mutex
	deliveries []Delivery
	totals     map[string]int
}

// NewMemory returns an empty in-memory journal.
func NewMemory() *Memory {
	return &Memory{totals: map[string]int{}}
}

func (m *Memory) Record(ctx context.Context, deliveries []Delivery) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateBatch(deliveries); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deliveries = append(m.deliveries, deliveries...)
	for _, d := range deliveries {
		m.totals[d.Sink] += d.Units
	}
	return nil
}

func (m *Memory) Totals(ctx context.Context) (map[string]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int, len(m.totals))
	for sink, units := range m.totals {
		out[sink] = units
	}
	return out, nil
}

// Deliveries returns a copy of everything recorded.
func (m *Memory) Deliveries() []Delivery {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Delivery(nil), m.deliveries...)
}

func (m *Memory) Close() error { return nil }
