package network

import "routenet/pkg/routing"

type endpoint struct {
	pos  routing.Position
	side routing.Facing
}

// StaticTopology serves routes declared up front, in declaration order.
type StaticTopology struct {
	routes    map[endpoint][]routing.RoutePath
	neighbors map[endpoint]routing.Adapter
}

// NewStaticTopology creates an empty topology.
func NewStaticTopology() *StaticTopology {
	return &StaticTopology{
		routes:    map[endpoint][]routing.RoutePath{},
		neighbors: map[endpoint]routing.Adapter{},
	}
}

// AddRoute appends a candidate for the endpoint at pos/side.
func (t *StaticTopology) AddRoute(pos routing.Position, side routing.Facing, route routing.RoutePath) {
	key := endpoint{pos: pos, side: side}
	t.routes[key] = append(t.routes[key], route)
}

// SetNeighbor records the adapter on the block across side of pos.
func (t *StaticTopology) SetNeighbor(pos routing.Position, side routing.Facing, adapter routing.Adapter) {
	key := endpoint{pos: pos, side: side}
	if adapter == nil {
		delete(t.neighbors, key)
		return
	}
	t.neighbors[key] = adapter
}

// Routes returns a fresh copy of the candidates for pos/side.
func (t *StaticTopology) Routes(pos routing.Position, side routing.Facing) []routing.RoutePath {
	routes := t.routes[endpoint{pos: pos, side: side}]
	return append([]routing.RoutePath(nil), routes...)
}

func (t *StaticTopology) NeighborAdapter(pos routing.Position, side routing.Facing) routing.Adapter {
	return t.neighbors[endpoint{pos: pos, side: side}]
}

// Clear drops every route, as when the network is rebuilt.
func (t *StaticTopology) Clear() {
	t.routes = map[endpoint][]routing.RoutePath{}
}
