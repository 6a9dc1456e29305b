// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// handleKeys processes key presses outside the parameter form.
func (m Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Pause):
		if m.state == stateRevealing {
			m.paused = !m.paused
			if !m.paused {
				cmd = m.scheduleTick()
			}
		}

	case key.Matches(msg, m.keys.Skip):
		if m.state == stateRevealing {
			m.revealed = len(m.result.Entries)
			m.state = stateFinished
			m.paused = false
			m.refreshViewport()
		}

	case key.Matches(msg, m.keys.Faster):
		m.tick = clampTick(m.tick / 2)

	case key.Matches(msg, m.keys.Slower):
		m.tick = clampTick(m.tick * 2)

	case key.Matches(msg, m.keys.New):
		params := m.params
		params.Seed = nextSeed(m)
		return m.startRun(params)

	case key.Matches(msg, m.keys.Edit):
		if m.state != stateLoading {
			m.formInputs = createParamsForm(m.params)
			m.formCursor = 0
			m.formError = nil
			m.state = stateEditing
			m.pausedBeforeEdit = m.paused
			m.paused = true
		}

	case key.Matches(msg, m.keys.Home):
		m.viewport.GotoTop()

	case key.Matches(msg, m.keys.End):
		m.viewport.GotoBottom()

	case key.Matches(msg, m.keys.Up, m.keys.Down, m.keys.PgUp, m.keys.PgDown):
		m.viewport, cmd = m.viewport.Update(msg)
	}

	return m, cmd
}

// nextSeed picks the seed of the next run. A pinned seed advances by one,
// skipping zero; an unpinned run stays random.
func nextSeed(m Model) uint64 {
	if m.params.Seed == 0 {
		return 0
	}
	if m.result == nil {
		return m.params.Seed
	}
	next := m.result.Seed + 1
	if next == 0 {
		next = 1
	}
	return next
}

// handleFormKeys processes key presses while the parameter form is open.
func (m Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit

	case key.Matches(msg, m.keys.Esc):
		m.formInputs = nil
		m.formError = nil
		if m.result == nil {
			m.state = stateError
		} else if m.revealed >= len(m.result.Entries) {
			m.state = stateFinished
		} else {
			m.state = stateRevealing
			m.paused = m.pausedBeforeEdit
			if m.paused {
				return m, nil
			}
			cmd := m.scheduleTick()
			return m, cmd
		}
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		params, err := paramsFromForm(m.formInputs, m.params)
		if err != nil {
			m.formError = err
			return m, nil
		}
		m.formInputs = nil
		m.formError = nil
		return m.startRun(params)

	case key.Matches(msg, m.keys.Tab):
		return m.focusField(m.formCursor + 1), nil

	case key.Matches(msg, m.keys.ShiftTab):
		return m.focusField(m.formCursor - 1), nil
	}

	var cmd tea.Cmd
	m.formInputs[m.formCursor], cmd = m.formInputs[m.formCursor].Update(msg)
	return m, cmd
}

// focusField moves the form focus to index i, wrapping around.
func (m Model) focusField(i int) Model {
	n := len(m.formInputs)
	i = ((i % n) + n) % n
	// The slice is shared with the previous model value; copy before mutating.
	updated := append(m.formInputs[:0:0], m.formInputs...)
	for j := range updated {
		if j == i {
			updated[j].Focus()
		} else {
			updated[j].Blur()
		}
	}
	m.formInputs = updated
	m.formCursor = i
	return m
}
