// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/bureau-foundation/czbx/lib/problem"
)

// MaxPan is the largest horizontal pan offset, in columns. Rows wider
// than MaxPan+1 columns are never rendered past that point.
const MaxPan = 8095

// Session is the mutable view state over the current snapshot.
type Session struct {
	snapshot problem.Snapshot

	// cursor is the selected row. Meaningless when the snapshot is
	// empty; every cursor-relative method checks Empty first.
	cursor       int
	scrollOffset int
	pan          int

	// pageSize is the last page size passed to a vertical operation.
	// ReplaceSnapshot uses it to keep the cursor on screen.
	pageSize int

	// tagged holds event identifiers of tagged problems. Keyed by
	// identifier rather than row position so membership follows the
	// problem, not the row.
	tagged map[string]struct{}

	debug  bool
	status string
	stale  bool
}

// New returns a Session showing the given snapshot with the cursor on
// the first row.
func New(snapshot problem.Snapshot) *Session {
	return &Session{
		snapshot: snapshot,
		tagged:   make(map[string]struct{}),
	}
}

// ReplaceSnapshot installs a newly fetched snapshot. The cursor is
// clamped into the new list, the tag set is cleared, and the stale
// marker is reset. Always succeeds.
func (session *Session) ReplaceSnapshot(snapshot problem.Snapshot) {
	session.snapshot = snapshot
	clear(session.tagged)
	session.stale = false

	if snapshot.Len() == 0 {
		session.cursor = 0
		session.scrollOffset = 0
		return
	}
	session.cursor = clamp(session.cursor, 0, snapshot.Len()-1)
	if session.scrollOffset >= snapshot.Len() {
		session.scrollOffset = pageStart(session.cursor, normalizePageSize(session.pageSize))
	}
	if session.pageSize > 0 {
		session.ensureVisible(session.pageSize)
	}
}

// Snapshot returns the current snapshot.
func (session *Session) Snapshot() problem.Snapshot { return session.snapshot }

// Len returns the number of rows in the current snapshot.
func (session *Session) Len() int { return session.snapshot.Len() }

// Empty reports whether there are no rows. The cursor is undefined
// while the list is empty.
func (session *Session) Empty() bool { return session.snapshot.Len() == 0 }

// Cursor returns the selected row index.
func (session *Session) Cursor() int { return session.cursor }

// ScrollOffset returns the index of the first visible row.
func (session *Session) ScrollOffset() int { return session.scrollOffset }

// PanOffset returns the horizontal pan in columns.
func (session *Session) PanOffset() int { return session.pan }

// MoveCursor moves the cursor by delta rows, clamped to the list. When
// the move crosses a page boundary, the scroll offset jumps to the
// start of the cursor's new page instead of scrolling one row.
func (session *Session) MoveCursor(delta, pageSize int) {
	if session.Empty() {
		return
	}
	pageSize = normalizePageSize(pageSize)
	session.pageSize = pageSize

	before := session.cursor
	session.cursor = clamp(session.cursor+delta, 0, session.Len()-1)

	if before/pageSize != session.cursor/pageSize {
		session.scrollOffset = pageStart(session.cursor, pageSize)
	}
	session.ensureVisible(pageSize)
}

// PageDown moves the cursor and the scroll offset forward by one page
// less one row of overlap, keeping the last page full. At the end of
// the list the cursor lands on the last row.
func (session *Session) PageDown(pageSize int) {
	if session.Empty() {
		return
	}
	pageSize = normalizePageSize(pageSize)
	session.pageSize = pageSize

	step := pageStep(pageSize)
	maxOffset := max(0, session.Len()-pageSize)
	session.cursor = min(session.Len()-1, session.cursor+step)
	session.scrollOffset = min(maxOffset, session.scrollOffset+step)
	session.ensureVisible(pageSize)
}

// PageUp is the inverse of PageDown, clamped at the first row.
func (session *Session) PageUp(pageSize int) {
	if session.Empty() {
		return
	}
	pageSize = normalizePageSize(pageSize)
	session.pageSize = pageSize

	step := pageStep(pageSize)
	session.cursor = max(0, session.cursor-step)
	session.scrollOffset = max(0, session.scrollOffset-step)
	session.ensureVisible(pageSize)
}

// Realign records a new page size (terminal resize) and moves the
// scroll offset if the cursor would otherwise fall off screen.
func (session *Session) Realign(pageSize int) {
	session.pageSize = normalizePageSize(pageSize)
	if session.Empty() {
		session.scrollOffset = 0
		return
	}
	session.ensureVisible(session.pageSize)
}

// VisibleRange returns the half-open row range [start, end) shown on a
// page of the given size.
func (session *Session) VisibleRange(pageSize int) (start, end int) {
	pageSize = normalizePageSize(pageSize)
	start = min(session.scrollOffset, session.Len())
	end = min(start+pageSize, session.Len())
	return start, end
}

// Page returns the 1-based page number of the cursor.
func (session *Session) Page(pageSize int) int {
	return session.cursor/normalizePageSize(pageSize) + 1
}

// Pages returns the page count shown in the debug overlay.
func (session *Session) Pages(pageSize int) int {
	return session.Len()/normalizePageSize(pageSize) + 1
}

// Pan adjusts the horizontal offset by delta columns, clamped to
// [0, MaxPan].
func (session *Session) Pan(delta int) {
	session.pan = clamp(session.pan+delta, 0, MaxPan)
}

// ResetPan scrolls back to the first column.
func (session *Session) ResetPan() {
	session.pan = 0
}

// CurrentProblem returns the problem under the cursor. The second
// result is false when the list is empty; callers that would perform
// a side effect must check it.
func (session *Session) CurrentProblem() (problem.Problem, bool) {
	if session.Empty() {
		return problem.Problem{}, false
	}
	return session.snapshot.At(session.cursor)
}

// CurrentTrigger returns the trigger of the problem under the cursor.
func (session *Session) CurrentTrigger() (problem.Trigger, bool) {
	current, ok := session.CurrentProblem()
	if !ok {
		return problem.Trigger{}, false
	}
	return session.snapshot.Trigger(current.TriggerID)
}

// IsStale reports whether the snapshot is at least maxAge old.
func (session *Session) IsStale(now time.Time, maxAge time.Duration) bool {
	return now.Sub(session.snapshot.FetchedAt()) >= maxAge
}

// MarkStale flags the displayed snapshot as out of date after a failed
// refresh. Cleared by the next ReplaceSnapshot.
func (session *Session) MarkStale() { session.stale = true }

// Stale reports whether the last refresh attempt failed.
func (session *Session) Stale() bool { return session.stale }

// Debug reports whether the debug overlay is on.
func (session *Session) Debug() bool { return session.debug }

// ToggleDebug flips the debug overlay.
func (session *Session) ToggleDebug() { session.debug = !session.debug }

// SetStatus sets the transient status-line message.
func (session *Session) SetStatus(format string, args ...any) {
	session.status = fmt.Sprintf(format, args...)
}

// ClearStatus drops the transient message. The dispatcher calls this
// at the start of every cycle.
func (session *Session) ClearStatus() { session.status = "" }

// Status returns the transient status-line message, if any.
func (session *Session) Status() string { return session.status }

// StatusLine returns the text for the bottom line: the transient
// message when set, otherwise the pagination counters in debug mode,
// otherwise the tags of the selected problem.
func (session *Session) StatusLine(columns, lines, pageSize int) string {
	if session.status != "" {
		return session.status
	}
	if session.debug {
		return fmt.Sprintf("X: %d Y: %d CL: %d COLS: %d LINES: %d, LINE: %d, PAGE: %d/%d",
			session.pan, session.scrollOffset, session.Len(), columns, lines,
			session.cursor, session.Page(pageSize), session.Pages(pageSize))
	}
	current, ok := session.CurrentProblem()
	if !ok {
		return ""
	}
	return current.TagLine()
}

// ToggleTag flips the tag on the problem at index and returns the new
// state. Out-of-range indexes are ignored and report false.
func (session *Session) ToggleTag(index int) bool {
	target, ok := session.snapshot.At(index)
	if !ok {
		return false
	}
	if _, tagged := session.tagged[target.EventID]; tagged {
		delete(session.tagged, target.EventID)
		return false
	}
	session.tagged[target.EventID] = struct{}{}
	return true
}

// TagMatching tags every problem whose name contains substring
// (case-sensitive) and returns how many rows matched.
func (session *Session) TagMatching(substring string) int {
	matched := 0
	for _, candidate := range session.snapshot.Problems() {
		if strings.Contains(candidate.Name, substring) {
			session.tagged[candidate.EventID] = struct{}{}
			matched++
		}
	}
	return matched
}

// UntagMatching removes the tag from every problem whose name contains
// substring and returns how many rows matched.
func (session *Session) UntagMatching(substring string) int {
	matched := 0
	for _, candidate := range session.snapshot.Problems() {
		if strings.Contains(candidate.Name, substring) {
			delete(session.tagged, candidate.EventID)
			matched++
		}
	}
	return matched
}

// IsTagged reports whether the problem at index is tagged.
func (session *Session) IsTagged(index int) bool {
	target, ok := session.snapshot.At(index)
	if !ok {
		return false
	}
	_, tagged := session.tagged[target.EventID]
	return tagged
}

// TaggedCount returns the number of tagged problems.
func (session *Session) TaggedCount() int { return len(session.tagged) }

// ensureVisible moves the scroll offset to the start of the cursor's
// page when the cursor is outside the window.
func (session *Session) ensureVisible(pageSize int) {
	session.scrollOffset = max(0, session.scrollOffset)
	if session.cursor < session.scrollOffset || session.cursor >= session.scrollOffset+pageSize {
		session.scrollOffset = pageStart(session.cursor, pageSize)
	}
}

func pageStart(row, pageSize int) int {
	return row - row%pageSize
}

// pageStep is the distance of one PageDown: a page less one row of
// overlap, but always at least one row.
func pageStep(pageSize int) int {
	return max(1, pageSize-1)
}

func normalizePageSize(pageSize int) int {
	return max(1, pageSize)
}

func clamp(value, low, high int) int {
	return max(low, min(value, high))
}
