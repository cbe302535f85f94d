// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/bureau-foundation/czbx/lib/problem"
)

// Theme defines the color palette for czbx. Colors are hex values;
// lipgloss degrades them to the terminal's color profile.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Severity badge backgrounds, indexed by problem.Severity.
	SeverityColors [6]lipgloss.Color
	SeverityText   lipgloss.Color

	// Status column.
	ProblemColor  lipgloss.Color
	ResolvedColor lipgloss.Color

	// Time columns.
	TimeColor lipgloss.Color

	// Header bar and stale marker.
	HeaderForeground lipgloss.Color
	HeaderBackground lipgloss.Color
	StaleColor       lipgloss.Color

	// Status line messages from the log handler.
	WarningText lipgloss.Color
	ErrorText   lipgloss.Color

	// Popups and scrollbar.
	BorderColor      lipgloss.Color
	PopupForeground  lipgloss.Color
	PopupBackground  lipgloss.Color
	ScrollThumbColor lipgloss.Color
}

// SeverityColor returns the badge color for a severity. Out-of-range
// values return FaintText.
func (theme Theme) SeverityColor(severity problem.Severity) lipgloss.Color {
	if !severity.Valid() {
		return theme.FaintText
	}
	return theme.SeverityColors[severity]
}

// DefaultTheme follows the Zabbix frontend's severity palette on a
// dark terminal.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("#D0D0D0"),
	FaintText:  lipgloss.Color("#8A8A8A"),

	SeverityColors: [6]lipgloss.Color{
		lipgloss.Color("#97AAB3"), // not classified
		lipgloss.Color("#7499FF"), // information
		lipgloss.Color("#FFC859"), // warning
		lipgloss.Color("#FFA059"), // average
		lipgloss.Color("#E97659"), // high
		lipgloss.Color("#E45959"), // disaster
	},
	SeverityText: lipgloss.Color("#000000"),

	ProblemColor:  lipgloss.Color("#C62828"),
	ResolvedColor: lipgloss.Color("#66BB6A"),
	TimeColor:     lipgloss.Color("#4796C4"),

	HeaderForeground: lipgloss.Color("#000000"),
	HeaderBackground: lipgloss.Color("#D0D0D0"),
	StaleColor:       lipgloss.Color("#E45959"),

	WarningText: lipgloss.Color("#FFC859"),
	ErrorText:   lipgloss.Color("#E45959"),

	BorderColor:      lipgloss.Color("#585858"),
	PopupForeground:  lipgloss.Color("#D0D0D0"),
	PopupBackground:  lipgloss.Color("#262626"),
	ScrollThumbColor: lipgloss.Color("#FFA059"),
}
