package config

import (
	"fmt"
	"os"
)

// Load reads, parses, checks, normalizes, and validates a config file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return LoadBytes(data)
}

// LoadBytes runs the Load pipeline on an in-memory document.
func LoadBytes(data []byte) (Config, error) {
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, err
	}
	if err := CheckSchema(data); err != nil {
		return Config{}, err
	}
	Normalize(&cfg)
	if err := Validate(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
