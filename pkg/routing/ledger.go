package routing

import "sort"

// Ledger records cumulative delivered quantity per sink face. It persists
// across calls and windows; entries appear on first delivery.
type Ledger struct {
	totals map[FacingKey]int
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{totals: map[FacingKey]int{}}
}

// Get returns the total for key, zero when absent.
func (l *Ledger) Get(key FacingKey) int {
	return l.totals[key]
}

// Has reports whether key has an entry.
func (l *Ledger) Has(key FacingKey) bool {
	_, ok := l.totals[key]
	return ok
}

// Add credits amount to key.
func (l *Ledger) Add(key FacingKey, amount int) {
	if amount < 0 {
		panic(invariantf("ledger.add", "negative amount %d for %s", amount, key))
	}
	l.totals[key] += amount
}

// DecrementAll subtracts amount from every entry, clamping at zero.
func (l *Ledger) DecrementAll(amount int) {
	if amount <= 0 {
		return
	}
	for key, total := range l.totals {
		total -= amount
		if total < 0 {
			total = 0
		}
		l.totals[key] = total
	}
}

// CopyFrom replaces the receiver's entries with a copy of src.
func (l *Ledger) CopyFrom(src *Ledger) {
	clear(l.totals)
	for key, total := range src.totals {
		l.totals[key] = total
	}
}

// Reset drops every entry.
func (l *Ledger) Reset() {
	clear(l.totals)
}

// Len returns the number of entries.
func (l *Ledger) Len() int {
	return len(l.totals)
}

// LedgerEntry is one row of a ledger snapshot.
type LedgerEntry struct {
	Key   FacingKey `json:"key"`
	Total int       `json:"total"`
}

// Snapshot returns the entries sorted by key string.
func (l *Ledger) Snapshot() []LedgerEntry {
	out := make([]LedgerEntry, 0, len(l.totals))
	for key, total := range l.totals {
		out = append(out, LedgerEntry{Key: key, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Key.String() < out[j].Key.String()
	})
	return out
}
