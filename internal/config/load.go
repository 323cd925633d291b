package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads, normalizes and validates the YAML file at path.
// An empty path returns the built-in defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	Normalize(&cfg)
	if err := Validate(&cfg); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}
