// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package ui

import (
	"fmt"
	"strconv"
	"strings"

	"btc-sim/internal/config"

	"github.com/charmbracelet/bubbles/textinput"
)

// formField describes one input of the parameter form.
type formField struct {
	label string
	value func(config.Simulation) string
	apply func(*config.Simulation, string) error
}

func intField(label string, get func(config.Simulation) int, set func(*config.Simulation, int)) formField {
	return formField{
		label: label,
		value: func(s config.Simulation) string { return strconv.Itoa(get(s)) },
		apply: func(s *config.Simulation, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s must be a whole number", strings.ToLower(label))
			}
			set(s, n)
			return nil
		},
	}
}

func floatField(label string, get func(config.Simulation) float64, set func(*config.Simulation, float64)) formField {
	return formField{
		label: label,
		value: func(s config.Simulation) string { return strconv.FormatFloat(get(s), 'f', -1, 64) },
		apply: func(s *config.Simulation, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("%s must be a number", strings.ToLower(label))
			}
			set(s, f)
			return nil
		},
	}
}

var formFields = []formField{
	intField("Days",
		func(s config.Simulation) int { return s.Days },
		func(s *config.Simulation, v int) { s.Days = v }),
	{
		label: "Seed",
		value: func(s config.Simulation) string {
			if s.Seed == 0 {
				return ""
			}
			return strconv.FormatUint(s.Seed, 10)
		},
		apply: func(s *config.Simulation, v string) error {
			if v == "" {
				s.Seed = 0
				return nil
			}
			seed, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("seed must be a positive whole number or empty")
			}
			s.Seed = seed
			return nil
		},
	},
	floatField("Initial Price",
		func(s config.Simulation) float64 { return s.InitialPrice },
		func(s *config.Simulation, v float64) { s.InitialPrice = v }),
	floatField("Volatility",
		func(s config.Simulation) float64 { return s.Volatility },
		func(s *config.Simulation, v float64) { s.Volatility = v }),
	floatField("Drift",
		func(s config.Simulation) float64 { return s.Drift },
		func(s *config.Simulation, v float64) { s.Drift = v }),
	intField("Short Window",
		func(s config.Simulation) int { return s.ShortWindow },
		func(s *config.Simulation, v int) { s.ShortWindow = v }),
	intField("Long Window",
		func(s config.Simulation) int { return s.LongWindow },
		func(s *config.Simulation, v int) { s.LongWindow = v }),
	floatField("Initial Cash",
		func(s config.Simulation) float64 { return s.InitialCash },
		func(s *config.Simulation, v float64) { s.InitialCash = v }),
}

// --- Form Creation ---

func createParamsForm(params config.Simulation) []textinput.Model {
	inputs := make([]textinput.Model, len(formFields))
	for i, f := range formFields {
		t := textinput.New()
		t.Prompt = fmt.Sprintf("%-14s", f.label+":")
		t.SetValue(f.value(params))
		t.CharLimit = 24
		t.Width = 24
		if f.label == "Seed" {
			t.Placeholder = "random"
		}
		inputs[i] = t
	}
	inputs[0].Focus()
	return inputs
}

// paramsFromForm parses every input on top of base and validates the result.
func paramsFromForm(inputs []textinput.Model, base config.Simulation) (config.Simulation, error) {
	params := base
	for i, f := range formFields {
		if err := f.apply(&params, strings.TrimSpace(inputs[i].Value())); err != nil {
			return base, err
		}
	}
	if err := params.Validate(); err != nil {
		return base, err
	}
	return params, nil
}
