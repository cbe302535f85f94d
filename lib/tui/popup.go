// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Popup dimensions. The outer box is popupWidth x popupHeight when the
// screen allows; border and padding take popupChromeWidth columns and
// the title, footer, and border take popupChromeHeight rows.
const (
	popupWidth        = 60
	popupHeight       = 20
	popupChromeWidth  = 4
	popupChromeHeight = 4
)

// moreIndicator marks that the popup has more lines below.
const moreIndicator = "-- more --"

// Popup is a bordered, centered, read-only text panel that scrolls
// line by line. The zero offset shows the first line.
type Popup struct {
	Title  string
	Lines  []string
	Footer string

	offset int
	theme  Theme
}

// NewPopup creates a popup over the given lines.
func NewPopup(title string, lines []string, footer string, theme Theme) Popup {
	return Popup{Title: title, Lines: lines, Footer: footer, theme: theme}
}

// Offset returns the index of the first visible line.
func (popup Popup) Offset() int { return popup.offset }

// ScrollDown moves the view one line down, stopping when the last
// line is visible in a popup rendered on a screen of the given height.
func (popup *Popup) ScrollDown(screenHeight int) {
	maxOffset := max(0, len(popup.Lines)-popupInnerHeight(screenHeight))
	popup.offset = min(popup.offset+1, maxOffset)
}

// ScrollUp moves the view one line up.
func (popup *Popup) ScrollUp() {
	popup.offset = max(0, popup.offset-1)
}

func popupInnerHeight(screenHeight int) int {
	return max(1, min(popupHeight, screenHeight)-popupChromeHeight)
}

// Render produces the popup lines for splicing onto the view and the
// anchor position (top-left corner in screen coordinates) that
// centers it.
func (popup Popup) Render(screenWidth, screenHeight int) ([]string, int, int) {
	modalWidth := min(popupWidth, screenWidth)
	innerWidth := max(1, modalWidth-popupChromeWidth)
	innerHeight := popupInnerHeight(screenHeight)

	background := lipgloss.NewStyle().Background(popup.theme.PopupBackground)
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(popup.theme.PopupForeground).
		Background(popup.theme.PopupBackground)
	textStyle := lipgloss.NewStyle().
		Foreground(popup.theme.PopupForeground).
		Background(popup.theme.PopupBackground)
	footerStyle := lipgloss.NewStyle().
		Foreground(popup.theme.FaintText).
		Background(popup.theme.PopupBackground)

	pad := func(styled string) string {
		width := ansi.StringWidth(styled)
		if width > innerWidth {
			return ansi.Truncate(styled, innerWidth, "")
		}
		return styled + background.Render(strings.Repeat(" ", innerWidth-width))
	}

	rows := make([]string, 0, innerHeight+2)
	rows = append(rows, pad(titleStyle.Render(popup.Title)))

	end := min(popup.offset+innerHeight, len(popup.Lines))
	for index := popup.offset; index < popup.offset+innerHeight; index++ {
		var line string
		if index < end {
			line = textStyle.Render(popup.Lines[index])
		}
		rows = append(rows, pad(line))
	}

	footer := popup.Footer
	if end < len(popup.Lines) {
		footer = moreIndicator + "  " + footer
	}
	rows = append(rows, pad(footerStyle.Render(footer)))

	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(popup.theme.BorderColor).
		BorderBackground(popup.theme.PopupBackground).
		Background(popup.theme.PopupBackground).
		Padding(0, 1)

	rendered := borderStyle.Render(strings.Join(rows, "\n"))
	resultLines := strings.Split(rendered, "\n")
	renderedWidth := 0
	if len(resultLines) > 0 {
		renderedWidth = ansi.StringWidth(resultLines[0])
	}

	anchorX := max(0, (screenWidth-renderedWidth)/2)
	anchorY := max(0, (screenHeight-len(resultLines))/2)
	return resultLines, anchorX, anchorY
}
