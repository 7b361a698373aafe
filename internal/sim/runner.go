package sim

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"routenet/internal/journal"
	"routenet/internal/logging"
	"routenet/internal/network"
	"routenet/pkg/routing"
)

var deliveryNamespace = uuid.MustParse("8f0c5a52-3d0e-4f7a-9f55-1c2b9e0d7a41")

type feed struct {
	source      network.Source
	distributor *routing.Distributor
	offered     int
	delivered   int
	refused     int
}

// Runner steps a network tick by tick. It is not safe for concurrent use.
type Runner struct {
	net     *network.Network
	clock   *network.TickClock
	logger  logr.Logger
	journal journal.Journal
	runID   string
	dryRun  bool

	feeds      []*feed
	tick       int
	seq        int
	mismatches int
	delivered  map[string]int
	drained    map[string]int
	pending    []journal.Delivery
}

// RunnerOptions configures a Runner.
type RunnerOptions struct {
	RunID   string
	Clock   *network.TickClock
	Logger  logr.Logger
	Journal journal.Journal
	DryRun  bool
}

// NewRunner binds one distributor to every source of net.
func NewRunner(net *network.Network, opts RunnerOptions) *Runner {
	logger := opts.Logger
	if logger.GetSink() == nil {
		logger = logr.Discard()
	}
	r := &Runner{
		net:       net,
		clock:     opts.Clock,
		logger:    logger.WithValues("run", opts.RunID),
		journal:   opts.Journal,
		runID:     opts.RunID,
		dryRun:    opts.DryRun,
		delivered: map[string]int{},
		drained:   map[string]int{},
	}
	for _, source := range net.Sources {
		f := &feed{source: source}
		f.distributor = routing.NewDistributor(source.Pipe, source.Side, net.Topology,
			routing.WithLogger(r.logger.WithValues("source", source.Key)),
			routing.WithObserver(r.observer(source)),
		)
		r.feeds = append(r.feeds, f)
	}
	return r
}

// Tick returns how many ticks have run.
func (r *Runner) Tick() int {
	return r.tick
}

// Step runs one tick: window bookkeeping, every source's offer, sink drains
// and the journal flush.
func (r *Runner) Step(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	now := r.clock.Now()
	for _, pipe := range r.net.Pipes.List() {
		if pipe.Tick(now) {
			r.logger.V(logging.TRACE).Info("window reset", "link", pipe.Key(), "tick", r.tick)
		}
	}

	for _, f := range r.feeds {
		r.offer(f)
	}

	for _, drain := range r.net.Drains {
		if removed := drain.Sink.Drain(drain.Units); removed > 0 {
			r.drained[drain.Sink.Key()] += removed
		}
	}

	if err := r.flush(ctx); err != nil {
		return fmt.Errorf("tick %d: %w", r.tick, err)
	}
	r.clock.Step()
	r.tick++
	return nil
}

func (r *Runner) offer(f *feed) {
	stack := f.source.Stack
	if stack.IsEmpty() {
		return
	}
	f.offered += stack.Count
	simulated := f.distributor.Distribute(stack, routing.Simulate)
	if r.dryRun {
		f.delivered += stack.Count - simulated.Count
		f.refused += simulated.Count
		return
	}
	remainder := f.distributor.Distribute(stack, routing.Execute)
	if remainder.Count != simulated.Count {
		r.mismatches++
		r.logger.Error(nil, "simulate and execute disagree", "source", f.source.Key, "tick", r.tick,
			"simulated", simulated.Count, "executed", remainder.Count)
	}
	f.delivered += stack.Count - remainder.Count
	f.refused += remainder.Count
	if remainder.Count > 0 {
		r.logger.V(logging.VERBOSE).Info("units refused", "source", f.source.Key, "tick", r.tick,
			"stack", remainder.String())
	}
}

// observer turns committed deliveries of one source into journal entries.
func (r *Runner) observer(source network.Source) routing.Observer {
	return routing.ObserverFunc(func(route routing.RoutePath, delivered routing.Stack) {
		sink := sinkKey(route.Sink)
		r.delivered[sink] += delivered.Count
		r.seq++
		r.pending = append(r.pending, journal.Delivery{
			ID:       uuid.NewSHA1(deliveryNamespace, []byte(fmt.Sprintf("%s-%d", r.runID, r.seq))).String(),
			RunID:    r.runID,
			Tick:     r.tick,
			Source:   source.Key,
			Link:     source.Pipe.Key(),
			Sink:     sink,
			Target:   route.Target.String(),
			Resource: delivered.Type.String(),
			Units:    delivered.Count,
		})
	})
}

func (r *Runner) flush(ctx context.Context) error {
	if len(r.pending) == 0 {
		return nil
	}
	batch := r.pending
	r.pending = nil
	if r.journal == nil {
		return nil
	}
	if err := r.journal.Record(ctx, batch); err != nil {
		return fmt.Errorf("record deliveries: %w", err)
	}
	r.logger.V(logging.DEBUG).Info("journaled deliveries", "count", len(batch), "tick", r.tick)
	return nil
}

// Summary reports the state after the ticks run so far.
func (r *Runner) Summary() Summary {
	summary := Summary{
		RunID:      r.runID,
		Ticks:      r.tick,
		DryRun:     r.dryRun,
		Mismatches: r.mismatches,
	}
	for _, f := range r.feeds {
		summary.Sources = append(summary.Sources, SourceSummary{
			Key:       f.source.Key,
			Offered:   f.offered,
			Delivered: f.delivered,
			Refused:   f.refused,
		})
	}
	for _, sink := range r.net.Sinks.List() {
		summary.Sinks = append(summary.Sinks, SinkSummary{
			Key:       sink.Key(),
			Delivered: r.delivered[sink.Key()],
			Drained:   r.drained[sink.Key()],
			Held:      sink.Held(),
		})
	}
	for _, pipe := range r.net.Pipes.List() {
		summary.Links = append(summary.Links, LinkSummary{
			Key:       pipe.Key(),
			Committed: pipe.Limiter().Committed(),
			Ledger:    pipe.Ledger().Snapshot(),
		})
	}
	return summary
}

func sinkKey(sink routing.Sink) string {
	if keyed, ok := sink.(interface{ Key() string }); ok {
		return keyed.Key()
	}
	return fmt.Sprintf("%T", sink)
}
