// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package ui's messages.go file defines the message types used in the Bubble Tea
// Model-View-Update architecture.

package ui

import "btc-sim/internal/sim"

// simulationDoneMsg carries a finished run (or its error) back to Update.
type simulationDoneMsg struct {
	generation int
	result     *sim.Result
	err        error
}

// tickMsg reveals the next ledger row. Ticks from an older generation or an
// abandoned timer chain are dropped.
type tickMsg struct {
	generation int
	seq        int
}
