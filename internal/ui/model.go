// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package ui implements the interactive terminal front end. It runs a
// simulation and reveals the ledger one day per tick, highlighting trades.
package ui

import (
	"time"

	"btc-sim/internal/config"
	"btc-sim/internal/sim"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// Model is the Bubble Tea model of the simulator.
type Model struct {
	cfg    config.Config
	params config.Simulation

	state      state
	generation int
	tickSeq    int
	result     *sim.Result
	revealed   int
	paused     bool
	tick       time.Duration
	err        error

	viewport viewport.Model
	help     help.Model
	keys     KeyMap
	ready    bool
	width    int
	height   int

	formInputs []textinput.Model
	formCursor int
	formError  error

	// pausedBeforeEdit is the pause state to restore when the form is dismissed.
	pausedBeforeEdit bool
}

// InitialModel builds the model from the loaded configuration.
func InitialModel(cfg config.Config) Model {
	tick := cfg.Display.Tick
	if tick <= 0 {
		tick = defaultTick
	}
	return Model{
		cfg:    cfg,
		params: cfg.Simulation,
		state:  stateLoading,
		tick:   clampTick(tick),
		help:   help.New(),
		keys:   DefaultKeyMap,
	}
}

func (m Model) Init() tea.Cmd {
	return runSimulationCmd(m.generation, m.params)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg), nil

	case tea.KeyMsg:
		if m.state == stateEditing {
			return m.handleFormKeys(msg)
		}
		return m.handleKeys(msg)

	case simulationDoneMsg:
		return m.handleSimulationDone(msg)

	case tickMsg:
		return m.handleTick(msg)
	}
	return m, nil
}

// startRun discards the current run and computes a new one with params.
func (m Model) startRun(params config.Simulation) (Model, tea.Cmd) {
	m.generation++
	m.params = params
	m.state = stateLoading
	m.result = nil
	m.revealed = 0
	m.paused = false
	m.err = nil
	m.refreshViewport()
	return m, runSimulationCmd(m.generation, params)
}

// scheduleTick starts a new timer chain. Any tick still in flight from an
// earlier chain no longer matches and is dropped.
func (m *Model) scheduleTick() tea.Cmd {
	m.tickSeq++
	return tickCmd(m.generation, m.tickSeq, m.tick)
}

func clampTick(d time.Duration) time.Duration {
	return min(max(d, minTick), maxTick)
}
