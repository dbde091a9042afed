package canopy

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml/v2"
)

const (
	defaultBudget   = 64
	defaultCapacity = 64
)

// Config configures a Scheduler.
type Config struct {
	// Budget is the maximum number of DirtyRecords applied per tick.
	// Records beyond it are left for later ticks. Zero means unlimited.
	Budget int `toml:"budget"`

	// Capacity pre-sizes the handle table and tracker for this many
	// entities. Both grow past it on demand.
	Capacity int `toml:"capacity"`

	// Debug logs per-tick statistics at debug level.
	Debug bool `toml:"debug"`

	// Logger receives reports and pass failures. Nil discards them.
	Logger *slog.Logger `toml:"-"`

	// OnReport, if set, is called for every recovered data problem in
	// addition to logging it.
	OnReport func(Report) `toml:"-"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Budget:   defaultBudget,
		Capacity: defaultCapacity,
	}
}

// LoadConfig parses TOML configuration on top of DefaultConfig.
//
//	budget = 32
//	capacity = 256
//	debug = true
func LoadConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigFile reads and parses a TOML configuration file.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return LoadConfig(data)
}

// Validate reports configuration values that cannot work.
func (c *Config) Validate() error {
	if c.Budget < 0 {
		return errors.New("config: budget must not be negative")
	}
	if c.Capacity < 0 {
		return errors.New("config: capacity must not be negative")
	}
	return nil
}

func (c *Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.DiscardHandler)
}
