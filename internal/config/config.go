// Package config loads runner configuration for the controller and game
// binaries. Values come from a YAML file merged over built-in defaults;
// command-line flags override both.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the shared runner settings.
type Config struct {
	// Region is the shared memory region name. Both processes must use
	// the identical string.
	Region string `yaml:"region"`

	// TickRate is the loop frequency in Hz for both processes.
	TickRate int `yaml:"tick_rate"`

	// ConnectAttempts and ConnectInterval shape the controller's
	// attach-retry loop.
	ConnectAttempts int           `yaml:"connect_attempts"`
	ConnectInterval time.Duration `yaml:"connect_interval"`

	// TrialsPath points at a trials.jsonl schedule. Empty means the
	// default search order (./trials.jsonl, ../trials.jsonl).
	TrialsPath string `yaml:"trials_path"`

	// ResultsDB is the SQLite file for trial results. Empty disables
	// result recording.
	ResultsDB string `yaml:"results_db"`
}

// Default returns the built-in configuration, matching the reference
// processes: region "monkey_game", 60 Hz, 10 connect attempts at 1s.
func Default() Config {
	return Config{
		Region:          "monkey_game",
		TickRate:        60,
		ConnectAttempts: 10,
		ConnectInterval: time.Second,
		ResultsDB:       "~/.monkeyshm/results.db",
	}
}

// Load reads configuration. Search order: the explicit path if given,
// then ./monkeyshm.yaml, then defaults alone. A missing explicit path is
// an error; a missing conventional file is not.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: failed to read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: failed to parse %s: %w", path, err)
		}
		return cfg, cfg.validate()
	}

	if data, err := os.ReadFile("monkeyshm.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: failed to parse monkeyshm.yaml: %w", err)
		}
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.Region == "" {
		return fmt.Errorf("config: region name must not be empty")
	}
	if c.TickRate <= 0 || c.TickRate > 1000 {
		return fmt.Errorf("config: tick_rate %d out of range (1-1000)", c.TickRate)
	}
	return nil
}
