package engine

import (
	"fmt"
	"os"

	"dota-analyzer/internal/combat"
	"dota-analyzer/internal/rotation"

	"gopkg.in/yaml.v3"
)

// DefaultLaningPhaseEnd bounds the samples used to infer a hero's
// assigned lane.
const DefaultLaningPhaseEnd = 600.0

// Config holds every analysis threshold, loadable from a YAML file so
// thresholds are named configuration rather than literals in the logic.
type Config struct {
	Combat         combat.Config   `yaml:"combat"`
	Rotation       rotation.Config `yaml:"rotation"`
	LaningPhaseEnd float64         `yaml:"laning_phase_end_seconds"`
}

// DefaultConfig returns the documented default thresholds.
func DefaultConfig() Config {
	return Config{
		Combat:         combat.DefaultConfig(),
		Rotation:       rotation.DefaultConfig(),
		LaningPhaseEnd: DefaultLaningPhaseEnd,
	}
}

// LoadConfig reads thresholds from a YAML file, with defaults for any
// omitted value. An empty path falls back to the ANALYZER_CONFIG
// environment variable; if that is unset too, the defaults are returned
// as-is.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = os.Getenv("ANALYZER_CONFIG")
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}
