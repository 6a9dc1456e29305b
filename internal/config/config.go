// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package config handles application configuration including reading and writing
// the configuration file, providing defaults for every simulation parameter and
// validating the values before a run starts.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned by Validate when a value is out of range.
var ErrInvalidConfig = errors.New("invalid configuration")

// Upper bounds for simulation parameters.
const (
	MaxDays       = 100_000
	MaxVolatility = 1.0  // daily standard deviation of 100%
	MaxDrift      = 1.0  // absolute daily expected return
	MaxAmount     = 1e12 // initial price and initial cash
)

// Simulation holds the parameters of a single simulated trading run.
type Simulation struct {
	// Days is the number of simulated trading days
	Days int `yaml:"days" json:"days"`

	// InitialPrice is the price on day zero
	InitialPrice float64 `yaml:"initial_price" json:"initialPrice"`

	// Volatility is the standard deviation of the daily shock
	Volatility float64 `yaml:"volatility" json:"volatility"`

	// Drift is the expected daily return (zero by default)
	Drift float64 `yaml:"drift" json:"drift"`

	// ShortWindow and LongWindow are the moving-average lengths in days
	ShortWindow int `yaml:"short_window" json:"shortWindow"`
	LongWindow  int `yaml:"long_window" json:"longWindow"`

	// InitialCash is the starting cash balance of the portfolio
	InitialCash float64 `yaml:"initial_cash" json:"initialCash"`

	// Seed drives the price generator; zero picks a random seed per run
	Seed uint64 `yaml:"seed,omitempty" json:"seed,omitempty"`
}

// Display controls how the ledger is rendered in the terminal.
type Display struct {
	// Every prints every n-th day in addition to trades and the first/last day
	Every int `yaml:"every" json:"every"`

	// Color enables ANSI colors when the output is a terminal
	Color bool `yaml:"color" json:"color"`

	// Emoji enables the trade markers and section glyphs
	Emoji bool `yaml:"emoji" json:"emoji"`

	// Tick is the delay between revealed days in the TUI
	Tick time.Duration `yaml:"tick" json:"tick"`
}

// Serve holds the HTTP server settings.
type Serve struct {
	Addr string `yaml:"addr" json:"addr"`

	// HistorySize bounds the number of runs kept in memory
	HistorySize int `yaml:"history_size" json:"historySize"`
}

// Config represents the top-level application configuration
type Config struct {
	Simulation Simulation `yaml:"simulation" json:"simulation"`
	Display    Display    `yaml:"display" json:"display"`
	Serve      Serve      `yaml:"serve" json:"serve"`

	// LogLevel is one of debug, info, warn, error
	LogLevel string `yaml:"log_level,omitempty" json:"logLevel,omitempty"`
}

// DefaultSimulation returns the parameters of the classic 60 day run.
func DefaultSimulation() Simulation {
	return Simulation{
		Days:         60,
		InitialPrice: 50000,
		Volatility:   0.02,
		Drift:        0,
		ShortWindow:  7,
		LongWindow:   30,
		InitialCash:  10000,
	}
}

// Default returns a configuration populated with every default value.
func Default() Config {
	return Config{
		Simulation: DefaultSimulation(),
		Display: Display{
			Every: 5,
			Color: true,
			Emoji: true,
			Tick:  120 * time.Millisecond,
		},
		Serve: Serve{
			Addr:        ":8080",
			HistorySize: 100,
		},
		LogLevel: "info",
	}
}

// Validate reports the first out-of-range simulation parameter.
func (s Simulation) Validate() error {
	switch {
	case s.Days < 1 || s.Days > MaxDays:
		return fmt.Errorf("%w: days must be between 1 and %d, got %d", ErrInvalidConfig, MaxDays, s.Days)
	case !inRange(s.InitialPrice, 0, MaxAmount) || s.InitialPrice == 0:
		return fmt.Errorf("%w: initial_price must be positive and at most %g, got %g", ErrInvalidConfig, MaxAmount, s.InitialPrice)
	case !inRange(s.Volatility, 0, MaxVolatility):
		return fmt.Errorf("%w: volatility must be between 0 and %g, got %g", ErrInvalidConfig, MaxVolatility, s.Volatility)
	case !inRange(s.Drift, -MaxDrift, MaxDrift):
		return fmt.Errorf("%w: drift must be between %g and %g, got %g", ErrInvalidConfig, -MaxDrift, MaxDrift, s.Drift)
	case s.ShortWindow < 1:
		return fmt.Errorf("%w: short_window must be at least 1, got %d", ErrInvalidConfig, s.ShortWindow)
	case s.LongWindow <= s.ShortWindow:
		return fmt.Errorf("%w: long_window (%d) must be greater than short_window (%d)", ErrInvalidConfig, s.LongWindow, s.ShortWindow)
	case !inRange(s.InitialCash, 0, MaxAmount) || s.InitialCash == 0:
		return fmt.Errorf("%w: initial_cash must be positive and at most %g, got %g", ErrInvalidConfig, MaxAmount, s.InitialCash)
	}
	return nil
}

// inRange reports whether v is a finite number within [lo, hi]. NaN fails
// every comparison, so it is rejected too.
func inRange(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}

// Validate checks the whole configuration.
func (c Config) Validate() error {
	if err := c.Simulation.Validate(); err != nil {
		return err
	}
	if c.Display.Tick < 0 {
		return fmt.Errorf("%w: display.tick must not be negative", ErrInvalidConfig)
	}
	if c.Serve.HistorySize < 0 {
		return fmt.Errorf("%w: serve.history_size must not be negative", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	return nil
}

// pathOverride is set by tests and the --config flag.
var pathOverride string

// SetPath makes Load and Save use the given file instead of the default location.
func SetPath(path string) {
	pathOverride = path
}

func DefaultConfigPath() (string, error) {
	if pathOverride != "" {
		return pathOverride, nil
	}
	if env := os.Getenv("BSIM_CONFIG"); env != "" {
		return env, nil
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "btc-sim", "config.yaml"), nil
}

// LoadConfig reads the configuration file on top of the defaults. A missing
// file is not an error.
func LoadConfig() (Config, error) {
	configPath, err := DefaultConfigPath()
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config file %s: %w", configPath, err)
	}

	return cfg, nil
}

func EnsureConfigDir() error {
	configPath, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	configDir := filepath.Dir(configPath)
	err = os.MkdirAll(configDir, 0750) // rwxr-x---
	if err != nil {
		return fmt.Errorf("failed to create config directory %s: %w", configDir, err)
	}
	return nil
}

func SaveConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	configPath, err := DefaultConfigPath()
	if err != nil {
		return err
	}

	err = EnsureConfigDir()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	// Write with permissions rw-r----- (0640)
	err = os.WriteFile(configPath, data, 0640)
	if err != nil {
		return fmt.Errorf("failed to write config file %s: %w", configPath, err)
	}

	return nil
}
