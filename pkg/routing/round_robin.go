package routing

// insertEvenly gives every route an equal share of stack in one pass, the
// first count mod n routes one extra unit. It returns the remainder and the
// routes that took their whole share.
func (d *Distributor) insertEvenly(routes []RoutePath, stack Stack, mode Mode) (Stack, []RoutePath) {
	count := stack.Count
	base := count / len(routes)
	extra := count % len(routes)
	inserted := 0
	survivors := make([]RoutePath, 0, len(routes))

	for i, route := range routes {
		share := base
		if extra > 0 {
			share++
			extra--
		}
		share = min(share, count-inserted)
		if share == 0 {
			survivors = append(survivors, routes[i:]...)
			break
		}
		refused := d.insert(route, stack.WithCount(share), mode, false).Count
		inserted += share - refused
		if refused == 1 && base == 0 && share == 1 {
			// a single refused unit moves on to the next route
			extra++
		}
		if refused == 0 {
			survivors = append(survivors, route)
		}
	}
	return stack.WithCount(count - inserted), survivors
}
