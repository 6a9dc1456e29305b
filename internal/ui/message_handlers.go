// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package ui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) handleSimulationDone(msg simulationDoneMsg) (tea.Model, tea.Cmd) {
	if msg.generation != m.generation {
		return m, nil
	}
	if msg.err != nil {
		m.err = msg.err
		m.state = stateError
		return m, nil
	}

	m.result = msg.result
	m.revealed = 0
	m.state = stateRevealing
	if len(m.result.Entries) == 0 {
		m.state = stateFinished
		return m, nil
	}
	cmd := m.scheduleTick()
	return m, cmd
}

func (m Model) handleTick(msg tickMsg) (tea.Model, tea.Cmd) {
	if msg.generation != m.generation || msg.seq != m.tickSeq || m.state != stateRevealing || m.paused {
		return m, nil
	}

	m.revealed++
	if m.revealed >= len(m.result.Entries) {
		m.revealed = len(m.result.Entries)
		m.state = stateFinished
		m.refreshViewport()
		return m, nil
	}
	m.refreshViewport()
	return m, tickCmd(m.generation, m.tickSeq, m.tick)
}

func (m Model) handleResize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height
	m.help.Width = msg.Width

	h := max(msg.Height-headerHeight-footerHeight-summaryHeight, 3)
	if !m.ready {
		m.viewport = viewport.New(msg.Width, h)
		m.ready = true
	} else {
		m.viewport.Width = msg.Width
		m.viewport.Height = h
	}
	m.refreshViewport()
	return m
}
