package sched

import (
	"fmt"
	"os"

	yaml "github.com/goccy/go-yaml"
)

// Config mirrors config.yml
type Config struct {
	TickMS    int    `yaml:"tick_ms"`    // wall-clock pacing per tick, 0 = unpaced
	Quantum   int64  `yaml:"rr_quantum"` // 2 (by default)
	Horizon   int64  `yaml:"horizon"`    // 0 = computed from the task set
	LogLevel  string `yaml:"log_level"`  // info (by default)
	LogFormat string `yaml:"log_format"` // text (by default)
}

func DefaultConfig() Config {
	return Config{
		TickMS:    0,
		Quantum:   DefaultQuantum,
		Horizon:   0,
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load reads YAML and overrides defaults; empty path = defaults only
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	// sanity clamps
	if cfg.TickMS < 0 {
		cfg.TickMS = 0
	}
	if cfg.Quantum <= 0 {
		cfg.Quantum = DefaultQuantum
	}
	if cfg.Horizon < 0 {
		cfg.Horizon = 0
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}

	return cfg, nil
}
