// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package watchui

import "github.com/charmbracelet/lipgloss"

// Theme is the viewer's palette, in ANSI 256-color codes.
type Theme struct {
	Title     lipgloss.Color
	Label     lipgloss.Color
	Value     lipgloss.Color
	Available lipgloss.Color
	Revoked   lipgloss.Color
	Complete  lipgloss.Color
	Error     lipgloss.Color
	Faint     lipgloss.Color

	// Gradient endpoints for the progress bar.
	BarStart string
	BarEnd   string
}

// DefaultTheme suits dark 256-color terminals.
var DefaultTheme = Theme{
	Title:     lipgloss.Color("255"),
	Label:     lipgloss.Color("245"),
	Value:     lipgloss.Color("252"),
	Available: lipgloss.Color("114"),
	Revoked:   lipgloss.Color("196"),
	Complete:  lipgloss.Color("75"),
	Error:     lipgloss.Color("208"),
	Faint:     lipgloss.Color("241"),

	BarStart: "#5A56E0",
	BarEnd:   "#4FD18B",
}
