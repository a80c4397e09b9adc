package stringpool

import (
	"fmt"
	"time"
)

// Config controls a pool's collection behavior and logging. Intervals are
// carried as milliseconds so configuration files and environment overrides
// stay plain integers.
type Config struct {
	// GCThreshold is the table size a pool must exceed before the intern
	// path considers running a collection pass.
	GCThreshold int `json:"gcThreshold" yaml:"gcThreshold"`

	// GCIntervalMs is the minimum spacing in milliseconds between
	// collection passes triggered from the intern path. Both this and
	// GCThreshold must be satisfied for a pass to run.
	GCIntervalMs int `json:"gcIntervalMs" yaml:"gcIntervalMs"`

	// AutoCollect runs a background collector forcing a pass every
	// AutoCollectIntervalMs regardless of table size.
	AutoCollect bool `json:"autoCollect" yaml:"autoCollect"`

	// AutoCollectIntervalMs is the background collector period in
	// milliseconds. Only meaningful when AutoCollect is set.
	AutoCollectIntervalMs int `json:"autoCollectIntervalMs" yaml:"autoCollectIntervalMs"`

	// LogLevel is one of "debug", "info", "error" or "none". Empty means
	// "info".
	LogLevel string `json:"logLevel" yaml:"logLevel"`
}

// CreateConfig returns a Config populated with defaults: collection after
// 300 entries and 30 seconds, no background collector, info logging.
func CreateConfig() *Config {
	return &Config{
		GCThreshold:           300,
		GCIntervalMs:          30000,
		AutoCollect:           false,
		AutoCollectIntervalMs: 60000,
		LogLevel:              "info",
	}
}

// Validate checks the configuration for values a pool cannot run with.
func (c *Config) Validate() error {
	if c.GCThreshold < 0 {
		return fmt.Errorf("gcThreshold must not be negative, got %d", c.GCThreshold)
	}
	if c.GCIntervalMs <= 0 {
		return fmt.Errorf("gcIntervalMs must be positive, got %d", c.GCIntervalMs)
	}
	if c.AutoCollect && c.AutoCollectIntervalMs <= 0 {
		return fmt.Errorf("autoCollectIntervalMs must be positive when autoCollect is enabled, got %d", c.AutoCollectIntervalMs)
	}
	switch c.LogLevel {
	case "", "debug", "info", "error", "none":
	default:
		return fmt.Errorf("unsupported logLevel %q", c.LogLevel)
	}
	return nil
}

func (c *Config) gcInterval() time.Duration {
	return time.Duration(c.GCIntervalMs) * time.Millisecond
}

func (c *Config) autoCollectInterval() time.Duration {
	return time.Duration(c.AutoCollectIntervalMs) * time.Millisecond
}
