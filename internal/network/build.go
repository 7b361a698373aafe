package network

import (
	"fmt"
	"time"

	"routenet/internal/config"
	"routenet/internal/registry"
	"routenet/pkg/routing"
)

// Source offers the same stack into one side of a pipe every tick.
type Source struct {
	Key   string
	Pipe  *Pipe
	Side  routing.Facing
	Stack routing.Stack
}

// SinkDrain is how many units a sink loses per tick.
type SinkDrain struct {
	Sink  Sink
	Units int
}

// Network is an assembled, runnable description of pipes, sinks and routes.
type Network struct {
	Pipes    *registry.Registry[*Pipe]
	Sinks    *registry.Registry[Sink]
	Topology *StaticTopology
	Sources  []Source
	Drains   []SinkDrain
	Window   time.Duration
	TickStep time.Duration
}

type builder struct {
	net        *Network
	sinkCovers map[string]map[routing.Facing]routing.Adapter
}

// Build assembles a network from a validated config.
func Build(cfg config.Config) (*Network, error) {
	step := time.Duration(cfg.TickMillis) * time.Millisecond
	b := &builder{
		net: &Network{
			Pipes:    registry.New[*Pipe](),
			Sinks:    registry.New[Sink](),
			Topology: NewStaticTopology(),
			Window:   time.Duration(cfg.WindowTicks) * step,
			TickStep: step,
		},
		sinkCovers: map[string]map[routing.Facing]routing.Adapter{},
	}
	for i, link := range cfg.Links {
		if err := b.addPipe(link); err != nil {
			return nil, fmt.Errorf("links[%d]: %w", i, err)
		}
	}
	for i, sink := range cfg.Sinks {
		if err := b.addSink(sink); err != nil {
			return nil, fmt.Errorf("sinks[%d]: %w", i, err)
		}
	}
	for i, route := range cfg.Routes {
		if err := b.addRoute(route); err != nil {
			return nil, fmt.Errorf("routes[%d]: %w", i, err)
		}
	}
	for i, source := range cfg.Sources {
		if err := b.addSource(source); err != nil {
			return nil, fmt.Errorf("sources[%d]: %w", i, err)
		}
	}
	return b.net, nil
}

func (b *builder) addPipe(link config.LinkConfig) error {
	rate, err := routing.ParseRate(link.Rate)
	if err != nil {
		return err
	}
	pipe := NewPipe(link.Key, position(link.Position), rate, b.net.Window)
	for _, name := range link.Blocked {
		side, err := routing.ParseFacing(name)
		if err != nil {
			return err
		}
		pipe.Block(side, true)
	}
	for _, cover := range link.Covers {
		side, adapter, err := buildCover(cover)
		if err != nil {
			return err
		}
		pipe.Attach(side, adapter)
	}
	if !b.net.Pipes.Put(link.Key, pipe) {
		return fmt.Errorf("duplicate link %q", link.Key)
	}
	return nil
}

func (b *builder) addSink(cfg config.SinkConfig) error {
	var sink Sink
	switch cfg.Kind {
	case "void":
		sink = NewVoidSink(cfg.Key)
	case "inventory", "":
		sink = NewInventory(cfg.Key, cfg.Slots, cfg.SlotLimit)
	default:
		return fmt.Errorf("unknown sink kind %q", cfg.Kind)
	}
	covers := map[routing.Facing]routing.Adapter{}
	for _, cover := range cfg.Covers {
		side, adapter, err := buildCover(cover)
		if err != nil {
			return err
		}
		covers[side] = adapter
	}
	b.sinkCovers[cfg.Key] = covers
	if !b.net.Sinks.Put(cfg.Key, sink) {
		return fmt.Errorf("duplicate sink %q", cfg.Key)
	}
	if cfg.Drain > 0 {
		b.net.Drains = append(b.net.Drains, SinkDrain{Sink: sink, Units: cfg.Drain})
	}
	return nil
}

func (b *builder) addRoute(cfg config.RouteConfig) error {
	from, fromSide, err := b.endpoint(cfg.From)
	if err != nil {
		return fmt.Errorf("from: %w", err)
	}
	via, viaSide, err := b.endpoint(cfg.Via)
	if err != nil {
		return fmt.Errorf("via: %w", err)
	}
	sink, ok := b.net.Sinks.Get(cfg.Sink)
	if !ok {
		return fmt.Errorf("unknown sink %q", cfg.Sink)
	}

	rate := from.Rate().Min(via.Rate())
	if cfg.Rate != "" {
		if rate, err = routing.ParseRate(cfg.Rate); err != nil {
			return err
		}
	}

	filters := make([]routing.Filter, 0, len(cfg.Filters)+1)
	for _, f := range cfg.Filters {
		mode, err := parseFilterMode(f.Mode)
		if err != nil {
			return err
		}
		filters = append(filters, NewFilterCover(f.Resources, f.Blacklist, mode))
	}
	pipeSide := via.Adapter(viaSide)
	if filter, ok := pipeSide.(routing.AdmissionFilter); ok && filter.FilterMode() != routing.FilterInsert {
		filters = append(filters, filter)
	}

	sinkSide := b.sinkCovers[cfg.Sink][viaSide.Opposite()]
	var target routing.Sink = sink
	if filter, ok := sinkSide.(routing.AdmissionFilter); ok && filter.FilterMode() != routing.FilterExtract {
		target = guardedSink{Sink: sink, filter: filter}
	}

	b.net.Topology.AddRoute(from.Position(), fromSide, routing.RoutePath{
		Target:  routing.FacingKey{Pos: via.Position(), Facing: viaSide},
		Sink:    target,
		Filters: filters,
		Rate:    rate,
		Ends:    routing.HopEnds{PipeSide: pipeSide, SinkSide: sinkSide},
	})
	return nil
}

func (b *builder) addSource(cfg config.SourceConfig) error {
	pipe, side, err := b.endpoint(cfg.From)
	if err != nil {
		return err
	}
	if cfg.Cover != nil {
		_, adapter, err := buildCover(*cfg.Cover)
		if err != nil {
			return err
		}
		b.net.Topology.SetNeighbor(pipe.Position(), side, adapter)
	}
	stack := routing.Stack{Type: routing.ResourceType{ID: cfg.Resource, Tag: cfg.Tag}, Count: cfg.Count}
	b.net.Sources = append(b.net.Sources, Source{Key: cfg.Key, Pipe: pipe, Side: side, Stack: stack})
	return nil
}

func (b *builder) endpoint(cfg config.EndpointConfig) (*Pipe, routing.Facing, error) {
	pipe, ok := b.net.Pipes.Get(cfg.Link)
	if !ok {
		return nil, 0, fmt.Errorf("unknown link %q", cfg.Link)
	}
	side, err := routing.ParseFacing(cfg.Side)
	if err != nil {
		return nil, 0, err
	}
	return pipe, side, nil
}

// buildCover turns a cover declaration into an adapter. The side is zero
// when the cover has none.
func buildCover(cover config.CoverConfig) (routing.Facing, routing.Adapter, error) {
	var side routing.Facing
	if cover.Side != "" {
		parsed, err := routing.ParseFacing(cover.Side)
		if err != nil {
			return 0, nil, err
		}
		side = parsed
	}
	switch cover.Kind {
	case "conveyor", "robotic_arm":
		role, err := parseRole(cover.Role)
		if err != nil {
			return 0, nil, err
		}
		dist, ok := routing.ParseDistributionMode(cover.Distribution)
		if !ok {
			return 0, nil, fmt.Errorf("unknown distribution %q", cover.Distribution)
		}
		if cover.Kind == "conveyor" {
			return side, NewConveyor(role, dist), nil
		}
		mode, ok := routing.ParseStrategyMode(cover.Strategy)
		if !ok {
			return 0, nil, fmt.Errorf("unknown strategy %q", cover.Strategy)
		}
		strategy := routing.NewTransferStrategy(mode, cover.Quantity)
		if cover.Filter != nil {
			filterMode, err := parseFilterMode(cover.Filter.Mode)
			if err != nil {
				return 0, nil, err
			}
			strategy.Filter = NewFilterCover(cover.Filter.Resources, cover.Filter.Blacklist, filterMode)
		}
		return side, NewRoboticArm(role, dist, strategy), nil
	case "filter":
		if cover.Filter == nil {
			return 0, nil, fmt.Errorf("filter cover without filter")
		}
		mode, err := parseFilterMode(cover.Filter.Mode)
		if err != nil {
			return 0, nil, err
		}
		return side, NewFilterCover(cover.Filter.Resources, cover.Filter.Blacklist, mode), nil
	case "limit":
		return side, NewLimitCover(cover.Limit), nil
	}
	return 0, nil, fmt.Errorf("unknown cover kind %q", cover.Kind)
}

func position(p config.PositionConfig) routing.Position {
	return routing.Position{X: p.X, Y: p.Y, Z: p.Z}
}
