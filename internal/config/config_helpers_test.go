package config

import (
	"os"
	"path/filepath"
	"testing"
)

// validConfig returns a minimal normalized config used by validation tests.
func validConfig() Config {
	cfg := Config{
		Version: 1,
		Links: []LinkConfig{
			{Key: "a", Rate: "0.5", Position: PositionConfig{X: 0}},
			{Key: "b", Rate: "1", Position: PositionConfig{X: 1}},
		},
		Sinks: []SinkConfig{{Key: "chest"}},
		Routes: []RouteConfig{
			{
				From: EndpointConfig{Link: "a", Side: "west"},
				Via:  EndpointConfig{Link: "b", Side: "east"},
				Sink: "chest",
			},
		},
		Sources: []SourceConfig{
			{From: EndpointConfig{Link: "a", Side: "west"}, Resource: "ore", Count: 8},
		},
	}
	Normalize(&cfg)
	return cfg
}

func writeConfig(t *testing.T, payload string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "network.yml")
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
