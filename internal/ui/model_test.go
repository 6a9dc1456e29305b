// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package ui

import (
	"io"
	"math"
	"testing"
	"time"

	"btc-sim/internal/config"
	"btc-sim/internal/logger"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

// readyModel returns a model sized for a terminal with its first run loaded.
func readyModel(t *testing.T) Model {
	t.Helper()
	logger.SetLogger(logger.New(io.Discard))

	cfg := config.Default()
	cfg.Simulation.Seed = 42
	m := InitialModel(cfg)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	require.True(t, m.ready)

	done := m.Init()()
	m, cmd := update(t, m, done)
	require.NotNil(t, cmd)
	require.Equal(t, stateRevealing, m.state)
	return m
}

func TestInitialModelClampsTick(t *testing.T) {
	cfg := config.Default()
	cfg.Display.Tick = time.Hour
	assert.Equal(t, maxTick, InitialModel(cfg).tick)

	cfg.Display.Tick = 0
	assert.Equal(t, defaultTick, InitialModel(cfg).tick)
}

func TestTicksRevealRowsUntilFinished(t *testing.T) {
	m := readyModel(t)
	total := len(m.result.Entries)
	require.Equal(t, 60, total)
	assert.Equal(t, uint64(42), m.result.Seed)

	for i := 1; i < total; i++ {
		var cmd tea.Cmd
		m, cmd = update(t, m, tickMsg{generation: m.generation, seq: m.tickSeq})
		require.Equal(t, i, m.revealed)
		require.NotNil(t, cmd)
	}

	m, cmd := update(t, m, tickMsg{generation: m.generation, seq: m.tickSeq})
	assert.Nil(t, cmd)
	assert.Equal(t, stateFinished, m.state)
	assert.Equal(t, total, m.revealed)
	assert.Contains(t, m.View(), "Final Portfolio Performance")
}

func TestStaleTicksAreDropped(t *testing.T) {
	m := readyModel(t)

	m, cmd := update(t, m, tickMsg{generation: m.generation - 1, seq: m.tickSeq})
	assert.Nil(t, cmd)
	assert.Equal(t, 0, m.revealed)

	m, cmd = update(t, m, tickMsg{generation: m.generation, seq: m.tickSeq - 1})
	assert.Nil(t, cmd)
	assert.Equal(t, 0, m.revealed)
}

func TestPauseStopsAndRestartsTheTimer(t *testing.T) {
	m := readyModel(t)
	oldSeq := m.tickSeq

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	require.True(t, m.paused)

	m, cmd := update(t, m, tickMsg{generation: m.generation, seq: m.tickSeq})
	assert.Nil(t, cmd)
	assert.Equal(t, 0, m.revealed)

	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	require.False(t, m.paused)
	require.NotNil(t, cmd)
	assert.Greater(t, m.tickSeq, oldSeq)

	// The timer that was pending before the pause must not double the speed.
	m, cmd = update(t, m, tickMsg{generation: m.generation, seq: oldSeq})
	assert.Nil(t, cmd)
	assert.Equal(t, 0, m.revealed)
}

func TestSkipRevealsEverything(t *testing.T) {
	m := readyModel(t)

	m, _ = update(t, m, runes("s"))
	assert.Equal(t, stateFinished, m.state)
	assert.Equal(t, len(m.result.Entries), m.revealed)
	assert.Contains(t, m.View(), "finished")
}

func TestSpeedKeysStayWithinBounds(t *testing.T) {
	m := readyModel(t)

	for range 20 {
		m, _ = update(t, m, runes("+"))
	}
	assert.Equal(t, minTick, m.tick)

	for range 20 {
		m, _ = update(t, m, runes("-"))
	}
	assert.Equal(t, maxTick, m.tick)
}

func TestNewRunWithPinnedSeedAdvancesIt(t *testing.T) {
	m := readyModel(t)
	gen := m.generation

	m, cmd := update(t, m, runes("n"))
	require.NotNil(t, cmd)
	assert.Equal(t, gen+1, m.generation)
	assert.Equal(t, stateLoading, m.state)
	assert.Equal(t, uint64(43), m.params.Seed)

	// The previous run finishing late is ignored.
	m, _ = update(t, m, simulationDoneMsg{generation: gen})
	assert.Equal(t, stateLoading, m.state)
}

func TestNewRunFollowsTheSeedFromTheForm(t *testing.T) {
	m := readyModel(t)

	// Clearing the seed makes every following run random.
	m, _ = update(t, m, runes("e"))
	m.formInputs[1].SetValue("")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Zero(t, m.params.Seed)
	m, _ = update(t, m, cmd())
	require.NotNil(t, m.result)
	assert.NotZero(t, m.result.Seed)

	m, cmd = update(t, m, runes("n"))
	require.NotNil(t, cmd)
	assert.Zero(t, m.params.Seed)

	// Pinning one through the form makes "n" advance it.
	m, _ = update(t, m, cmd())
	m, _ = update(t, m, runes("e"))
	m.formInputs[1].SetValue("7")
	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	require.Equal(t, uint64(7), m.result.Seed)

	m, _ = update(t, m, runes("n"))
	assert.Equal(t, uint64(8), m.params.Seed)
}

func TestNextSeedSkipsZero(t *testing.T) {
	m := readyModel(t)
	m.params.Seed = math.MaxUint64
	m.result.Seed = math.MaxUint64
	assert.Equal(t, uint64(1), nextSeed(m))
}

func TestEditFormStartsRunWithNewParams(t *testing.T) {
	m := readyModel(t)

	m, _ = update(t, m, runes("e"))
	require.Equal(t, stateEditing, m.state)
	require.Len(t, m.formInputs, len(formFields))
	assert.Contains(t, m.View(), "Simulation Parameters")

	m.formInputs[0].SetValue("90")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, stateLoading, m.state)
	assert.Equal(t, 90, m.params.Days)
	assert.Nil(t, m.formInputs)
}

func TestEditFormRejectsInvalidInput(t *testing.T) {
	m := readyModel(t)
	m, _ = update(t, m, runes("e"))

	// Short window must stay below the long window.
	m.formInputs[5].SetValue("30")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, stateEditing, m.state)
	require.Error(t, m.formError)
	assert.Equal(t, 7, m.params.ShortWindow)

	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, stateRevealing, m.state)
	assert.False(t, m.paused)
	assert.NotNil(t, cmd)
}

func TestEditFormEscKeepsPlaybackPaused(t *testing.T) {
	m := readyModel(t)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	require.True(t, m.paused)
	seq := m.tickSeq

	m, _ = update(t, m, runes("e"))
	require.Equal(t, stateEditing, m.state)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, stateRevealing, m.state)
	assert.True(t, m.paused)
	assert.Nil(t, cmd)
	assert.Equal(t, seq, m.tickSeq)

	// Unpausing afterwards still restarts the timer.
	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	assert.False(t, m.paused)
	assert.NotNil(t, cmd)
}

func TestFormFocusWraps(t *testing.T) {
	m := readyModel(t)
	m, _ = update(t, m, runes("e"))

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, len(formFields)-1, m.formCursor)
	assert.True(t, m.formInputs[len(formFields)-1].Focused())
	assert.False(t, m.formInputs[0].Focused())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 0, m.formCursor)
}

func TestParamsFromFormEmptySeedMeansRandom(t *testing.T) {
	base := config.DefaultSimulation()
	base.Seed = 7
	inputs := createParamsForm(base)
	assert.Equal(t, "7", inputs[1].Value())

	inputs[1].SetValue("")
	params, err := paramsFromForm(inputs, base)
	require.NoError(t, err)
	assert.Zero(t, params.Seed)

	inputs[1].SetValue("-3")
	_, err = paramsFromForm(inputs, base)
	assert.Error(t, err)
}
