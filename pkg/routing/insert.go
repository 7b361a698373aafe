package routing

// insert offers stack to one route and returns the remainder. With
// ignoreLimit the rate limit neither caps nor records the transfer.
func (d *Distributor) insert(route RoutePath, stack Stack, mode Mode, ignoreLimit bool) Stack {
	allowed := stack.Count
	if !ignoreLimit {
		allowed = min(allowed, d.link.Limiter().Available(route.Rate, mode))
	}
	if allowed == 0 || !route.MatchesFilters(stack) {
		return stack
	}

	if route.Ends.PipeSide != nil {
		allowed = d.probe.probe(route.Ends.PipeSide, stack, allowed)
		if allowed <= 0 {
			return stack
		}
	}

	if carrier := route.strategyCarrier(); carrier != nil {
		count := carrier.Strategy().Size(SizeRequest{
			Stack:   stack,
			Allowed: allowed,
			Sink:    route.Sink,
			Equal:   d.equal,
			DryRun: func(count int) int {
				return d.insertSized(route, stack, Simulate, count, true).Count
			},
		})
		if count == 0 {
			d.logger.V(LogTrace).Info("strategy refused", "target", route.Target.String(),
				"strategy", carrier.Strategy().Mode().String(), "allowed", allowed)
			return stack
		}
		allowed = count
	}

	return d.insertSized(route, stack, mode, allowed, ignoreLimit)
}

// insertSized moves at most allowed units of stack into the route's sink,
// records only what the sink accepted, and returns the rest of stack.
func (d *Distributor) insertSized(route RoutePath, stack Stack, mode Mode, allowed int, ignoreLimit bool) Stack {
	offer := stack.WithCount(min(allowed, stack.Count))
	accepted := route.Sink.Accept(offer, mode)
	if accepted < 0 || accepted > offer.Count {
		panic(invariantf("insert", "sink at %s accepted %d of %d", route.Target, accepted, offer.Count))
	}
	if !ignoreLimit {
		d.link.Limiter().Commit(accepted, mode)
	}
	if accepted > 0 && mode == Execute && d.observer != nil {
		d.observer.OnDelivered(route, stack.WithCount(accepted))
	}
	d.logger.V(LogTrace).Info("inserted", "target", route.Target.String(), "mode", mode.String(),
		"offered", offer.Count, "accepted", accepted)
	return stack.Shrink(accepted)
}
