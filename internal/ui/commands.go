// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package ui

import (
	"context"
	"time"

	"btc-sim/internal/config"
	"btc-sim/internal/logger"
	"btc-sim/internal/sim"

	tea "github.com/charmbracelet/bubbletea"
)

// runSimulationCmd computes a whole run in the background.
func runSimulationCmd(generation int, params config.Simulation) tea.Cmd {
	return func() tea.Msg {
		res, err := sim.Run(context.Background(), params)
		if err != nil {
			logger.Error("TUI simulation failed", "error", err)
		} else {
			logger.Info("TUI simulation ready", "id", res.ID, "seed", res.Seed)
		}
		return simulationDoneMsg{generation: generation, result: res, err: err}
	}
}

// tickCmd schedules the next row reveal.
func tickCmd(generation, seq int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return tickMsg{generation: generation, seq: seq}
	})
}
