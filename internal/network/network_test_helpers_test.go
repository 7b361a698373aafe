package network

import (
	"testing"

	"routenet/internal/config"
	"routenet/pkg/routing"
)

const sampleNetwork = `version: 1
window_ticks: 4
tick_millis: 50
links:
  - key: trunk
    position: {x: 0, y: 0, z: 0}
    rate: "0.5"
    covers:
      - side: west
        kind: conveyor
        role: import
        distribution: round_robin_global
  - key: east
    position: {x: 1, y: 0, z: 0}
    rate: 1
  - key: north
    position: {x: 0, y: 0, z: -1}
    rate: 1
    covers:
      - side: up
        kind: robotic_arm
        role: export
        strategy: maintain_exact
        quantity: 48
sinks:
  - key: chest
  - key: furnace
    slots: 2
    drain: 1
  - key: trash
    kind: void
    covers:
      - side: south
        kind: filter
        filter: {resources: [cobble], mode: insert}
routes:
  - from: {link: trunk, side: west}
    via: {link: east, side: east}
    sink: chest
  - from: {link: trunk, side: west}
    via: {link: north, side: up}
    sink: furnace
  - from: {link: trunk, side: west}
    via: {link: north, side: north}
    sink: trash
sources:
  - key: miner
    from: {link: trunk, side: west}
    resource: ore
    count: 16
`

func buildSample(t *testing.T) *Network {
	t.Helper()
	return buildNetwork(t, sampleNetwork)
}

func buildNetwork(t *testing.T, body string) *Network {
	t.Helper()
	cfg, err := config.LoadBytes([]byte(body))
	if err != nil {
		t.Fatalf("load network: %v", err)
	}
	net, err := Build(cfg)
	if err != nil {
		t.Fatalf("build network: %v", err)
	}
	return net
}

func mustPipe(t *testing.T, net *Network, key string) *Pipe {
	t.Helper()
	pipe, ok := net.Pipes.Get(key)
	if !ok {
		t.Fatalf("missing pipe %q", key)
	}
	return pipe
}

func mustSink(t *testing.T, net *Network, key string) Sink {
	t.Helper()
	sink, ok := net.Sinks.Get(key)
	if !ok {
		t.Fatalf("missing sink %q", key)
	}
	return sink
}

func stackOf(id string, count int) routing.Stack {
	return routing.NewStack(id, count)
}
