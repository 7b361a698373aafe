package routing

import "sort"

// fairShare tracks one eligible route during a global round robin.
type fairShare struct {
	route         RoutePath
	maxInsertable int
	total         int
	alloc         int
}

// grant adds up to n units to the allocation without passing the cap and
// returns how many were added.
func (s *fairShare) grant(n int) int {
	given := min(n, s.maxInsertable-s.alloc)
	s.alloc += given
	s.total += given
	return given
}

func (s *fairShare) capped() bool {
	return s.alloc >= s.maxInsertable
}

// insertEnhanced distributes stack so that cumulative delivered totals per
// sink converge: sinks behind in the ledger are raised first, then the rest is
// split evenly.
func (d *Distributor) insertEnhanced(routes []RoutePath, stack Stack, mode Mode) Stack {
	ledger := d.ledger(mode)
	shares := make([]*fairShare, 0, len(routes))
	for _, route := range routes {
		accepted := stack.Count - d.insert(route, stack, Simulate, true).Count
		if accepted <= 0 {
			continue
		}
		shares = append(shares, &fairShare{
			route:         route,
			maxInsertable: accepted,
			total:         ledger.Get(route.Target),
		})
	}
	if len(shares) == 0 {
		return stack
	}

	steps := distinctTotals(shares)
	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].total < shares[j].total
	})
	if shares[0].total != steps[0] {
		d.logger.Error(nil, "inconsistent ledger, refusing stack", "lowest", shares[0].total, "firstStep", steps[0])
		return stack
	}
	lowest := steps[0]

	allocateFair(shares, steps[1:], stack.Count)

	// Normalization subtracts the lowest ledger total among the eligible
	// candidates, not the smallest amount delivered this round. Every entry
	// is clamped at zero.
	if mode == Execute {
		d.link.Ledger().DecrementAll(lowest)
	}

	inserted := 0
	for _, share := range shares {
		if share.alloc == 0 {
			continue
		}
		accepted := share.alloc - d.insert(share.route, stack.WithCount(share.alloc), mode, false).Count
		if accepted > 0 {
			ledger.Add(share.route.Target, accepted)
			inserted += accepted
		}
	}
	d.logger.V(LogDebug).Info("global round robin", "mode", mode.String(), "eligible", len(shares),
		"normalizedBy", lowest, "inserted", inserted)
	return stack.Shrink(inserted)
}

// distinctTotals returns the distinct ledger totals of shares, ascending.
func distinctTotals(shares []*fairShare) []int {
	seen := make(map[int]struct{}, len(shares))
	steps := make([]int, 0, len(shares))
	for _, share := range shares {
		if _, ok := seen[share.total]; ok {
			continue
		}
		seen[share.total] = struct{}{}
		steps = append(steps, share.total)
	}
	sort.Ints(steps)
	return steps
}

// allocateFair assigns amount across shares. Shares must be sorted by total
// and every total must be at least the lowest step already reached. Each
// step raises the shares below it; what is left is split evenly across the
// shares still under their cap, one unit at a time once fewer units than
// shares remain. Units a capped share could not take are split again among
// the rest.
func allocateFair(shares []*fairShare, steps []int, amount int) {
	active := append([]*fairShare(nil), shares...)

	for _, step := range steps {
		if amount == 0 || len(active) == 0 {
			return
		}
		next := active[:0]
		for _, share := range active {
			if amount > 0 && share.total < step {
				amount -= share.grant(min(amount, step-share.total))
				if share.capped() {
					continue
				}
			}
			next = append(next, share)
		}
		active = next
	}

	for amount > 0 && len(active) > 0 {
		base := amount / len(active)
		extra := amount % len(active)
		next := active[:0]
		for _, share := range active {
			if amount > 0 {
				give := min(base, amount)
				if amount <= extra {
					give = 1
				}
				amount -= share.grant(give)
				if share.capped() {
					continue
				}
			}
			next = append(next, share)
		}
		active = next
	}
}
