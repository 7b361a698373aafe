package cli

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleNetwork = `version: 1
links:
  - key: a
    position: {x: 0, y: 0, z: 0}
sinks:
  - key: chest
    slots: 1
    slot_limit: 10
routes:
  - from: {link: a, side: west}
    via: {side: east}
    sink: chest
sources:
  - key: miner
    from: {link: a, side: west}
    resource: ore
    count: 4
`

// writeNetwork writes body to .routenet/network.yml under dir.
func writeNetwork(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ".routenet", "network.yml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create config dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
