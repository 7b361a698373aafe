package routing

// HopEnds holds the adapters at the final hop of a route: the one on the
// target pipe's face and the one on the sink's opposing face.
type HopEnds struct {
	PipeSide Adapter
	SinkSide Adapter
}

// RoutePath is one resolved candidate sink reachable from an endpoint.
type RoutePath struct {
	Target  FacingKey
	Sink    Sink
	Filters []Filter
	Rate    Rate
	Ends    HopEnds
}

// MatchesFilters reports whether every filter on the path admits stack.
func (r RoutePath) MatchesFilters(stack Stack) bool {
	for _, f := range r.Filters {
		if !f.Test(stack) {
			return false
		}
	}
	return true
}

// strategyCarrier returns the carrier that sizes transfers on this path:
// a pipe-side carrier exporting into the sink, or a sink-side carrier
// importing from the pipe.
func (r RoutePath) strategyCarrier() StrategyCarrier {
	if c, ok := r.Ends.PipeSide.(StrategyCarrier); ok && c.Role() == Export {
		return c
	}
	if c, ok := r.Ends.SinkSide.(StrategyCarrier); ok && c.Role() == Import {
		return c
	}
	return nil
}
