// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package ui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	pausedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	buyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	sellStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	gainStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	lossStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	seedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	summaryStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)
)
