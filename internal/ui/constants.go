// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package ui

import "time"

// state represents the different views or modes of the TUI.
type state int

const (
	stateLoading   state = iota // simulation is being computed
	stateRevealing              // ledger rows appear one tick at a time
	stateFinished               // every row shown, summary visible
	stateEditing                // parameter form is open
	stateError                  // simulation failed
)

const (
	headerHeight = 3 // title, column header and rule
	footerHeight = 2 // status line and help

	// summaryHeight is reserved below the ledger for the bordered summary box.
	summaryHeight = 10

	minTick     = 10 * time.Millisecond
	maxTick     = 2 * time.Second
	defaultTick = 120 * time.Millisecond
)
