// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package problemui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/czbx/lib/problem"
	"github.com/bureau-foundation/czbx/lib/tui"
)

// Header layout.
const (
	headerTitle          = "CZBX - Problems Overview"
	headerOperationalCol = 30
)

// loadingText is shown until the first window size arrives.
const loadingText = "Loading Zabbix data"

// Row glyphs.
const (
	taggedMark       = "*"
	acknowledgedMark = "✔"
)

// View implements tea.Model.
func (model Model) View() string {
	if !model.ready {
		return loadingText
	}

	pageSize := model.pageSize()
	lines := make([]string, 0, model.height)
	lines = append(lines, model.renderHeader())
	lines = append(lines, model.renderTable(pageSize)...)
	lines = append(lines, model.renderStatusLine(pageSize))

	view := strings.Join(lines, "\n")
	if model.help != nil {
		overlay, anchorX, anchorY := model.help.Render(model.width, model.height)
		view = tui.SpliceOverlay(view, overlay, anchorX, anchorY)
	}
	return view
}

// renderHeader draws the title bar: the title, the selected trigger's
// operational data from column 30, and a stale marker on the right
// when the last refresh failed.
func (model Model) renderHeader() string {
	style := lipgloss.NewStyle().
		Foreground(model.theme.HeaderForeground).
		Background(model.theme.HeaderBackground)

	left := tui.PadRight(headerTitle+" ", headerOperationalCol)
	if trigger, ok := model.session.CurrentTrigger(); ok {
		left += trigger.OperationalData()
	}

	var right string
	if model.session.Stale() {
		fetchedAt := model.session.Snapshot().FetchedAt().In(model.clock.Now().Location())
		right = lipgloss.NewStyle().
			Bold(true).
			Foreground(model.theme.StaleColor).
			Background(model.theme.HeaderBackground).
			Render(fmt.Sprintf(" STALE since %s ", fetchedAt.Format(time.TimeOnly)))
	}

	leftWidth := max(0, model.width-ansi.StringWidth(right))
	return style.Render(tui.PadRight(left, leftWidth)) + right
}

// renderTable draws pageSize rows starting at the scroll offset, each
// panned and cut to the screen width, with a scrollbar in the last
// column.
func (model Model) renderTable(pageSize int) []string {
	contentWidth := max(0, model.width-1)
	start, end := model.session.VisibleRange(pageSize)
	snapshot := model.session.Snapshot()
	hostWidth := snapshot.HostWidth()
	now := model.clock.Now()
	pan := model.session.PanOffset()

	scrollbar := strings.Split(
		tui.RenderScrollbar(model.theme, pageSize, snapshot.Len(), pageSize, start), "\n")

	lines := make([]string, pageSize)
	for row := range pageSize {
		index := start + row
		var line string
		if index < end {
			line = model.renderRow(index, hostWidth, now, pan, contentWidth)
		} else {
			line = strings.Repeat(" ", contentWidth)
		}
		if row < len(scrollbar) {
			line += scrollbar[row]
		}
		lines[row] = line
	}
	return lines
}

// renderRow formats one problem:
//
//	*✔ 2026-01-31 23:59:01 Disaster 00:01:12 RESOLVED web01 Disk full
//
// then pans it by pan columns and pads it to width. The selected row is
// reversed across the whole width; acknowledged rows are faint.
func (model Model) renderRow(index, hostWidth int, now time.Time, pan, width int) string {
	snapshot := model.session.Snapshot()
	item, _ := snapshot.At(index)
	trigger, _ := snapshot.Trigger(item.TriggerID)

	base := lipgloss.NewStyle().Foreground(model.theme.NormalText)
	if item.Acknowledged {
		base = base.Faint(true)
	}
	if index == model.session.Cursor() {
		base = base.Reverse(true)
	}
	timeStyle := base.Foreground(model.theme.TimeColor)

	tagged := " "
	if model.session.IsTagged(index) {
		tagged = taggedMark
	}
	acked := " "
	if item.Acknowledged {
		acked = acknowledgedMark
	}

	severityStyle := base
	statusStyle := base.Foreground(model.theme.ProblemColor)
	if item.IsResolved() {
		statusStyle = base.Foreground(model.theme.ResolvedColor)
	} else {
		severityStyle = base.
			Foreground(model.theme.SeverityText).
			Background(model.theme.SeverityColor(item.Severity))
	}

	var builder strings.Builder
	builder.WriteString(timeStyle.Render(fmt.Sprintf("%s%s %19s ", tagged, acked, problem.FormatRaised(item.Raised, now))))
	builder.WriteString(severityStyle.Render(fmt.Sprintf("%-8s", item.Severity)))
	builder.WriteString(timeStyle.Render(fmt.Sprintf(" %8s", problem.FormatResolved(item, now.Location()))))
	builder.WriteString(statusStyle.Render(fmt.Sprintf(" %-9s", item.StatusLabel())))
	builder.WriteString(base.Render(tui.PadRight(trigger.Host().Name, hostWidth) + " " + item.Name))

	line := tui.Window(builder.String(), pan, width)
	if gap := width - ansi.StringWidth(line); gap > 0 {
		line += base.Render(strings.Repeat(" ", gap))
	}
	return line
}

// renderStatusLine draws the bottom line: the prompt while a line edit
// is open, otherwise the session's status text, a recent log record,
// or the session fallback (debug counters or the selected row's tags).
func (model Model) renderStatusLine(pageSize int) string {
	width := max(0, model.width-1)

	if model.promptKind != 0 {
		return tui.PadRight(model.promptKind.Prompt()+model.input.View(), width)
	}

	if model.session.Status() == "" && model.logSummary != "" {
		color := model.theme.WarningText
		if model.logLevel >= slog.LevelError {
			color = model.theme.ErrorText
		}
		styled := lipgloss.NewStyle().Foreground(color).Render(model.logSummary)
		return tui.PadRight(styled, width)
	}

	return tui.PadRight(model.session.StatusLine(model.width, model.height, pageSize), width)
}
