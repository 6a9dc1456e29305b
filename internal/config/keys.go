// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// setter parses a raw string value into one configuration field.
type setter func(cfg *Config, value string) error

var setters = map[string]setter{
	"simulation.days": func(cfg *Config, v string) error {
		return setInt(&cfg.Simulation.Days, v)
	},
	"simulation.initial_price": func(cfg *Config, v string) error {
		return setFloat(&cfg.Simulation.InitialPrice, v)
	},
	"simulation.volatility": func(cfg *Config, v string) error {
		return setFloat(&cfg.Simulation.Volatility, v)
	},
	"simulation.drift": func(cfg *Config, v string) error {
		return setFloat(&cfg.Simulation.Drift, v)
	},
	"simulation.short_window": func(cfg *Config, v string) error {
		return setInt(&cfg.Simulation.ShortWindow, v)
	},
	"simulation.long_window": func(cfg *Config, v string) error {
		return setInt(&cfg.Simulation.LongWindow, v)
	},
	"simulation.initial_cash": func(cfg *Config, v string) error {
		return setFloat(&cfg.Simulation.InitialCash, v)
	},
	"simulation.seed": func(cfg *Config, v string) error {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("expected an unsigned integer: %w", err)
		}
		cfg.Simulation.Seed = seed
		return nil
	},
	"display.every": func(cfg *Config, v string) error {
		return setInt(&cfg.Display.Every, v)
	},
	"display.color": func(cfg *Config, v string) error {
		return setBool(&cfg.Display.Color, v)
	},
	"display.emoji": func(cfg *Config, v string) error {
		return setBool(&cfg.Display.Emoji, v)
	},
	"display.tick": func(cfg *Config, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		cfg.Display.Tick = d
		return nil
	},
	"serve.addr": func(cfg *Config, v string) error {
		cfg.Serve.Addr = v
		return nil
	},
	"serve.history_size": func(cfg *Config, v string) error {
		return setInt(&cfg.Serve.HistorySize, v)
	},
	"log_level": func(cfg *Config, v string) error {
		cfg.LogLevel = strings.ToLower(v)
		return nil
	},
}

// Keys returns the settable configuration keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set assigns value to the dotted key and validates the result. cfg is left
// untouched when the value is rejected.
func Set(cfg *Config, key, value string) error {
	set, ok := setters[strings.ToLower(key)]
	if !ok {
		return fmt.Errorf("unknown configuration key %q", key)
	}

	updated := *cfg
	if err := set(&updated, value); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	if err := updated.Validate(); err != nil {
		return err
	}

	*cfg = updated
	return nil
}

func setInt(dst *int, v string) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("expected an integer: %w", err)
	}
	*dst = n
	return nil
}

func setFloat(dst *float64, v string) error {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("expected a number: %w", err)
	}
	*dst = f
	return nil
}

func setBool(dst *bool, v string) error {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("expected true or false: %w", err)
	}
	*dst = b
	return nil
}
