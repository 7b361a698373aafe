package routing

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDistribute_FirstMatchFillsInOrder(t *testing.T) {
	a, b := newTestSink(5), newTestSink(100)
	topo := &testTopology{routes: []RoutePath{routeTo(1, a), routeTo(2, b)}}
	engine := newEngine(t, newTestLink(100), topo)

	rem := engine.Distribute(ore(10), Execute)

	if rem.Count != 0 {
		t.Fatalf("expected everything delivered, got remainder %d", rem.Count)
	}
	if a.total() != 5 || b.total() != 5 {
		t.Fatalf("expected 5/5, got %d/%d", a.total(), b.total())
	}
}

func TestDistribute_ConservesQuantityForEveryPolicy(t *testing.T) {
	for _, dist := range []DistributionMode{DistributeFirst, DistributeRoundRobinLocal, DistributeRoundRobinGlobal} {
		sinks := []*testSink{newTestSink(3), newTestSink(0), newTestSink(7), newTestSink(2)}
		routes := make([]RoutePath, 0, len(sinks))
		for i, s := range sinks {
			routes = append(routes, routeTo(i, s))
		}
		engine := newEngine(t, roundRobinLink(dist), &testTopology{routes: routes})

		rem := engine.Distribute(ore(25), Execute)

		delivered := 0
		for _, s := range sinks {
			delivered += s.total()
		}
		if delivered+rem.Count != 25 {
			t.Fatalf("%s: delivered %d + remainder %d != 25", dist, delivered, rem.Count)
		}
		if delivered != 12 {
			t.Fatalf("%s: expected every sink filled (12), got %d", dist, delivered)
		}
	}
}

func TestDistribute_SimulateCommitsNothing(t *testing.T) {
	for _, dist := range []DistributionMode{DistributeFirst, DistributeRoundRobinLocal, DistributeRoundRobinGlobal} {
		a, b := newTestSink(100), newTestSink(100)
		link := roundRobinLink(dist)
		link.rate = RateFromFloat(0.5)
		link.ledger.Add(facingKey(1), 4)
		topo := &testTopology{routes: []RoutePath{
			{Target: facingKey(1), Sink: a, Rate: RateFromFloat(0.5)},
			{Target: facingKey(2), Sink: b, Rate: RateFromFloat(0.5)},
		}}
		engine := newEngine(t, link, topo)

		simulated := engine.Distribute(ore(50), Simulate)

		if link.limiter.Committed() != 0 {
			t.Fatalf("%s: simulate changed committed counter to %d", dist, link.limiter.Committed())
		}
		want := []LedgerEntry{{Key: facingKey(1), Total: 4}}
		if diff := cmp.Diff(want, link.ledger.Snapshot()); diff != "" {
			t.Fatalf("%s: simulate changed ledger (-want +got):\n%s", dist, diff)
		}
		if a.accepts+b.accepts != 0 {
			t.Fatalf("%s: simulate reached the sinks", dist)
		}

		executed := engine.Distribute(ore(50), Execute)
		if simulated != executed {
			t.Fatalf("%s: simulate predicted %v, execute returned %v", dist, simulated, executed)
		}
		if executed.Count != 18 {
			t.Fatalf("%s: expected rate cap 32 to leave 18, got %d", dist, executed.Count)
		}
	}
}

func TestDistribute_LocalRoundRobinSplitsEvenly(t *testing.T) {
	sinks := []*testSink{newTestSink(100), newTestSink(100), newTestSink(100)}
	topo := &testTopology{routes: []RoutePath{routeTo(1, sinks[0]), routeTo(2, sinks[1]), routeTo(3, sinks[2])}}
	engine := newEngine(t, roundRobinLink(DistributeRoundRobinLocal), topo)

	rem := engine.Distribute(ore(10), Execute)

	if rem.Count != 0 {
		t.Fatalf("expected no remainder, got %d", rem.Count)
	}
	got := []int{sinks[0].total(), sinks[1].total(), sinks[2].total()}
	if diff := cmp.Diff([]int{4, 3, 3}, got); diff != "" {
		t.Fatalf("unexpected split (-want +got):\n%s", diff)
	}
}

func TestDistribute_LocalRoundRobinSecondPassSkipsFullSinks(t *testing.T) {
	full, x, y := newTestSink(1), newTestSink(100), newTestSink(100)
	topo := &testTopology{routes: []RoutePath{routeTo(1, full), routeTo(2, x), routeTo(3, y)}}
	engine := newEngine(t, roundRobinLink(DistributeRoundRobinLocal), topo)

	rem := engine.Distribute(ore(9), Execute)

	if rem.Count != 0 {
		t.Fatalf("expected second pass to place the rest, got remainder %d", rem.Count)
	}
	if full.total() != 1 || x.total() != 4 || y.total() != 4 {
		t.Fatalf("expected 1/4/4, got %d/%d/%d", full.total(), x.total(), y.total())
	}
}

func TestDistribute_LocalRoundRobinPassesRefusedUnitOn(t *testing.T) {
	full, x, y := newTestSink(0), newTestSink(100), newTestSink(100)
	topo := &testTopology{routes: []RoutePath{routeTo(1, full), routeTo(2, x), routeTo(3, y)}}
	engine := newEngine(t, roundRobinLink(DistributeRoundRobinLocal), topo)

	rem := engine.Distribute(ore(1), Execute)

	if rem.Count != 0 || x.total() != 1 || y.total() != 0 {
		t.Fatalf("expected the unit to land on the second sink, got rem=%d x=%d y=%d", rem.Count, x.total(), y.total())
	}
}

func TestDistribute_GlobalRoundRobinCatchesUpLaggingSink(t *testing.T) {
	a, b := newTestSink(100), newTestSink(100)
	link := roundRobinLink(DistributeRoundRobinGlobal)
	link.ledger.Add(facingKey(2), 5)
	topo := &testTopology{routes: []RoutePath{routeTo(1, a), routeTo(2, b)}}
	engine := newEngine(t, link, topo)

	rem := engine.Distribute(ore(8), Execute)

	if rem.Count != 0 {
		t.Fatalf("expected no remainder, got %d", rem.Count)
	}
	if a.total() != 7 || b.total() != 1 {
		t.Fatalf("expected A=5+2 and B=1, got A=%d B=%d", a.total(), b.total())
	}
	want := []LedgerEntry{{Key: facingKey(1), Total: 7}, {Key: facingKey(2), Total: 6}}
	if diff := cmp.Diff(want, link.ledger.Snapshot()); diff != "" {
		t.Fatalf("unexpected ledger (-want +got):\n%s", diff)
	}
}

func TestDistribute_GlobalRoundRobinTiesFollowTopologyOrder(t *testing.T) {
	a, b := newTestSink(100), newTestSink(100)
	topo := &testTopology{routes: []RoutePath{routeTo(2, a), routeTo(1, b)}}
	engine := newEngine(t, roundRobinLink(DistributeRoundRobinGlobal), topo)

	engine.Distribute(ore(3), Execute)

	if a.total() != 2 || b.total() != 1 {
		t.Fatalf("expected first route to get the odd unit, got %d/%d", a.total(), b.total())
	}
}

func TestDistribute_GlobalRoundRobinRespectsCaps(t *testing.T) {
	small, big := newTestSink(2), newTestSink(100)
	topo := &testTopology{routes: []RoutePath{routeTo(1, small), routeTo(2, big)}}
	engine := newEngine(t, roundRobinLink(DistributeRoundRobinGlobal), topo)

	rem := engine.Distribute(ore(10), Execute)

	if rem.Count != 0 || small.total() != 2 || big.total() != 8 {
		t.Fatalf("expected 2/8 with nothing left, got %d/%d rem %d", small.total(), big.total(), rem.Count)
	}
}

func TestDistribute_GlobalRoundRobinResplitsAfterCap(t *testing.T) {
	tiny, b, c := newTestSink(1), newTestSink(100), newTestSink(100)
	topo := &testTopology{routes: []RoutePath{routeTo(1, tiny), routeTo(2, b), routeTo(3, c)}}
	engine := newEngine(t, roundRobinLink(DistributeRoundRobinGlobal), topo)

	rem := engine.Distribute(ore(100), Execute)

	if rem.Count != 0 {
		t.Fatalf("expected no remainder, got %d", rem.Count)
	}
	if tiny.total() != 1 || b.total() != 50 || c.total() != 49 {
		t.Fatalf("expected 1/50/49, got %d/%d/%d", tiny.total(), b.total(), c.total())
	}
}

func TestAllocateFair_ResplitsAmongUncapped(t *testing.T) {
	shares := []*fairShare{
		{maxInsertable: 3},
		{maxInsertable: 100},
		{maxInsertable: 100},
		{maxInsertable: 100},
	}
	allocateFair(shares, nil, 40)

	got := []int{shares[0].alloc, shares[1].alloc, shares[2].alloc, shares[3].alloc}
	if diff := cmp.Diff([]int{3, 13, 12, 12}, got); diff != "" {
		t.Fatalf("unexpected allocation (-want +got):\n%s", diff)
	}
}

func TestDistribute_GlobalRoundRobinNormalizesLedger(t *testing.T) {
	a, b := newTestSink(100), newTestSink(100)
	link := roundRobinLink(DistributeRoundRobinGlobal)
	link.ledger.Add(facingKey(1), 10)
	link.ledger.Add(facingKey(2), 12)
	link.ledger.Add(facingKey(9), 3)
	topo := &testTopology{routes: []RoutePath{routeTo(1, a), routeTo(2, b)}}
	engine := newEngine(t, link, topo)

	engine.Distribute(ore(4), Execute)

	want := []LedgerEntry{
		{Key: facingKey(1), Total: 3},
		{Key: facingKey(2), Total: 3},
		{Key: facingKey(9), Total: 0},
	}
	if diff := cmp.Diff(want, link.ledger.Snapshot()); diff != "" {
		t.Fatalf("unexpected ledger (-want +got):\n%s", diff)
	}
}

func TestDistribute_GlobalRoundRobinLedgerNeverNegative(t *testing.T) {
	a, b, c := newTestSink(1000), newTestSink(1000), newTestSink(1000)
	link := roundRobinLink(DistributeRoundRobinGlobal)
	link.ledger.Add(facingKey(7), 1)
	topo := &testTopology{routes: []RoutePath{routeTo(1, a), routeTo(2, b), routeTo(3, c)}}
	engine := newEngine(t, link, topo)

	for round := 0; round < 50; round++ {
		if round%3 == 0 {
			topo.routes = []RoutePath{routeTo(1, a), routeTo(2, b)}
		} else {
			topo.routes = []RoutePath{routeTo(2, b), routeTo(3, c), routeTo(1, a)}
		}
		engine.Distribute(ore(1+round%5), Execute)
		for _, entry := range link.ledger.Snapshot() {
			if entry.Total < 0 {
				t.Fatalf("round %d: ledger entry %s went negative: %d", round, entry.Key, entry.Total)
			}
		}
	}
}

func TestDistribute_GlobalRoundRobinSkipsFullSinks(t *testing.T) {
	full := newTestSink(0)
	topo := &testTopology{routes: []RoutePath{routeTo(1, full), routeTo(2, newTestSink(0))}}
	engine := newEngine(t, roundRobinLink(DistributeRoundRobinGlobal), topo)

	if rem := engine.Distribute(ore(6), Execute); rem.Count != 6 {
		t.Fatalf("expected full refusal, got remainder %d", rem.Count)
	}
}

func TestDistribute_RefusalPaths(t *testing.T) {
	sink := newTestSink(100)
	cases := map[string]func(link *testLink, topo *testTopology){
		"invalid link": func(link *testLink, _ *testTopology) { link.invalid = true },
		"blocked side": func(link *testLink, _ *testTopology) { link.blocked[East] = true },
		"two conveyors": func(link *testLink, topo *testTopology) {
			link.adapters[East] = &testConveyor{role: Import}
			topo.neighbor = &testConveyor{role: Export}
		},
		"neighbour filter": func(_ *testLink, topo *testTopology) {
			topo.neighbor = &testFilterCover{mode: FilterBoth, allow: "dust"}
		},
		"link filter": func(link *testLink, _ *testTopology) {
			link.adapters[East] = &testFilterCover{mode: FilterBoth, allow: "dust"}
		},
		"link insert filter": func(link *testLink, _ *testTopology) {
			link.adapters[East] = &testFilterCover{mode: FilterInsert, allow: "dust"}
		},
		"route filter": func(_ *testLink, topo *testTopology) {
			topo.routes[0].Filters = []Filter{FilterFunc(func(Stack) bool { return false })}
		},
		"zero rate": func(_ *testLink, topo *testTopology) {
			topo.routes[0].Rate = RateFromFloat(0)
		},
	}
	for name, mutate := range cases {
		link := newTestLink(100)
		topo := &testTopology{routes: []RoutePath{routeTo(1, sink)}}
		mutate(link, topo)
		engine := newEngine(t, link, topo)

		if rem := engine.Distribute(ore(5), Execute); rem != ore(5) {
			t.Fatalf("%s: expected unchanged stack, got %v", name, rem)
		}
	}
	if sink.total() != 0 {
		t.Fatalf("refused stacks reached the sink")
	}
}

func TestDistribute_NeighbourInsertFilterDoesNotApply(t *testing.T) {
	sink := newTestSink(100)
	topo := &testTopology{
		routes:   []RoutePath{routeTo(1, sink)},
		neighbor: &testFilterCover{mode: FilterInsert, allow: "dust"},
	}
	engine := newEngine(t, newTestLink(100), topo)

	if rem := engine.Distribute(ore(5), Execute); rem.Count != 0 {
		t.Fatalf("insert-only filter on the neighbour should not block extraction, remainder %d", rem.Count)
	}
}

func TestDistribute_LinkExtractFilterDoesNotApply(t *testing.T) {
	sink := newTestSink(100)
	link := newTestLink(100)
	link.adapters[East] = &testFilterCover{mode: FilterExtract, allow: "dust"}
	engine := newEngine(t, link, &testTopology{routes: []RoutePath{routeTo(1, sink)}})

	if rem := engine.Distribute(ore(5), Execute); rem.Count != 0 || sink.total() != 5 {
		t.Fatalf("extract-only filter on the link should not block insertion, remainder %d sink %d", rem.Count, sink.total())
	}
}

func TestDistribute_RateLimitCommitsAcceptedOnly(t *testing.T) {
	sink := newTestSink(20)
	link := newTestLink(0.5)
	topo := &testTopology{routes: []RoutePath{{Target: facingKey(1), Sink: sink, Rate: RateFromFloat(0.5)}}}
	engine := newEngine(t, link, topo)

	rem := engine.Distribute(ore(100), Execute)

	if rem.Count != 80 {
		t.Fatalf("expected 80 left, got %d", rem.Count)
	}
	if link.limiter.Committed() != 20 {
		t.Fatalf("expected only accepted units counted, got %d", link.limiter.Committed())
	}
	if got := engine.AvailableThroughput(Execute); got != 12 {
		t.Fatalf("expected 12 throughput left, got %d", got)
	}
}

func TestDistribute_ProbeShrinksAllowedAndReleases(t *testing.T) {
	sink := newTestSink(100)
	probe := &testProbe{limit: 3}
	route := routeTo(1, sink)
	route.Ends.PipeSide = probe
	engine := newEngine(t, newTestLink(100), &testTopology{routes: []RoutePath{route}})

	rem := engine.Distribute(ore(10), Execute)

	if rem.Count != 7 || sink.total() != 3 {
		t.Fatalf("expected probe to cap at 3, got rem=%d sink=%d", rem.Count, sink.total())
	}
	if len(probe.staged) != 1 || probe.staged[0] != ore(10) {
		t.Fatalf("expected the stack to be staged once, got %v", probe.staged)
	}
	if engine.probe.held {
		t.Fatalf("probe slot not released")
	}
}

func TestDistribute_ProbeRefusalReleasesSlot(t *testing.T) {
	route := routeTo(1, newTestSink(100))
	route.Ends.PipeSide = &testProbe{limit: 0}
	engine := newEngine(t, newTestLink(100), &testTopology{routes: []RoutePath{route}})

	if rem := engine.Distribute(ore(4), Execute); rem.Count != 4 {
		t.Fatalf("expected refusal, got %d", rem.Count)
	}
	if engine.probe.held {
		t.Fatalf("probe slot not released after refusal")
	}
}

func TestProbeSlot_DoubleAcquirePanics(t *testing.T) {
	var slot probeSlot
	release := slot.acquire(ore(1))
	expectPanic(t, func() { slot.acquire(ore(2)) })
	release()
	slot.acquire(ore(3))()
}

func TestDistribute_MaintainExactRefusesFullSink(t *testing.T) {
	sink := newTestSink(100)
	sink.held = []Stack{ore(10)}
	route := routeTo(1, sink)
	route.Ends.PipeSide = &testArm{
		testConveyor: testConveyor{role: Export},
		strategy:     NewTransferStrategy(MaintainExact, 10),
	}
	engine := newEngine(t, newTestLink(100), &testTopology{routes: []RoutePath{route}})

	if rem := engine.Distribute(ore(5), Execute); rem != ore(5) {
		t.Fatalf("expected remainder equal to original, got %v", rem)
	}
}

func TestDistribute_SinkSideArmMustImport(t *testing.T) {
	sink := newTestSink(100)
	route := routeTo(1, sink)
	route.Ends.SinkSide = &testArm{
		testConveyor: testConveyor{role: Export},
		strategy:     NewTransferStrategy(MaintainExact, 2),
	}
	engine := newEngine(t, newTestLink(100), &testTopology{routes: []RoutePath{route}})

	if rem := engine.Distribute(ore(5), Execute); rem.Count != 0 {
		t.Fatalf("exporting arm on the sink side should not size transfers, remainder %d", rem.Count)
	}

	route.Ends.SinkSide.(*testArm).role = Import
	engine = newEngine(t, newTestLink(100), &testTopology{routes: []RoutePath{route}})
	if rem := engine.Distribute(ore(5), Execute); rem.Count != 5 {
		t.Fatalf("importing arm at target should refuse, remainder %d", rem.Count)
	}
}

func TestDistribute_TransferExactWaitsForFullBatch(t *testing.T) {
	sink := newTestSink(100)
	link := newTestLink(5.0 / 64)
	strategy := NewTransferStrategy(TransferExact, 8)
	route := RoutePath{Target: facingKey(1), Sink: sink, Rate: RateFromFloat(5.0 / 64)}
	route.Ends.PipeSide = &testArm{testConveyor: testConveyor{role: Export}, strategy: strategy}
	engine := newEngine(t, link, &testTopology{routes: []RoutePath{route}})

	if rem := engine.Distribute(ore(20), Execute); rem.Count != 20 {
		t.Fatalf("expected first attempt buffered, got remainder %d", rem.Count)
	}
	if strategy.Buffered() != 5 {
		t.Fatalf("expected buffered 5, got %d", strategy.Buffered())
	}

	link.limiter.ResetWindow()
	if rem := engine.Distribute(ore(20), Execute); rem.Count != 12 {
		t.Fatalf("expected batch of 8 to move, got remainder %d", rem.Count)
	}
	if strategy.Buffered() != 0 || sink.total() != 8 {
		t.Fatalf("expected buffer cleared and 8 delivered, got buffered=%d sink=%d", strategy.Buffered(), sink.total())
	}
}

func TestDistribute_ObserverSeesCommittedDeliveriesOnly(t *testing.T) {
	a, b := newTestSink(4), newTestSink(100)
	var seen []Stack
	observer := ObserverFunc(func(route RoutePath, delivered Stack) {
		seen = append(seen, delivered)
	})
	topo := &testTopology{routes: []RoutePath{routeTo(1, a), routeTo(2, b)}}
	engine := newEngine(t, newTestLink(100), topo, WithObserver(observer))

	engine.Distribute(ore(10), Simulate)
	if len(seen) != 0 {
		t.Fatalf("observer saw simulated deliveries: %v", seen)
	}
	engine.Distribute(ore(10), Execute)
	if diff := cmp.Diff([]Stack{ore(4), ore(6)}, seen); diff != "" {
		t.Fatalf("unexpected deliveries (-want +got):\n%s", diff)
	}
}

func TestDistribute_FreshRoutesEveryCall(t *testing.T) {
	topo := &testTopology{routes: []RoutePath{routeTo(1, newTestSink(100))}}
	engine := newEngine(t, newTestLink(100), topo)
	engine.Distribute(ore(1), Simulate)
	engine.Distribute(ore(1), Execute)
	if topo.calls != 2 {
		t.Fatalf("expected routes fetched per call, got %d fetches", topo.calls)
	}
}

func TestDistribute_SinkOverAcceptPanics(t *testing.T) {
	link := newTestLink(100)
	engine := newEngine(t, link, &testTopology{routes: []RoutePath{routeTo(1, brokenSink{})}})
	expectPanic(t, func() { engine.Distribute(ore(3), Execute) })
	if link.limiter.Committed() != 0 {
		t.Fatalf("counter changed after invariant failure")
	}
}

func TestDistribute_EmptyStackPassesThrough(t *testing.T) {
	topo := &testTopology{routes: []RoutePath{routeTo(1, newTestSink(100))}}
	engine := newEngine(t, newTestLink(100), topo)
	if rem := engine.Distribute(ore(0), Execute); rem.Count != 0 || topo.calls != 0 {
		t.Fatalf("expected empty stack to short circuit")
	}
}
