// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package problemui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/czbx/lib/clock"
	"github.com/bureau-foundation/czbx/lib/command"
	"github.com/bureau-foundation/czbx/lib/problem"
	"github.com/bureau-foundation/czbx/lib/refresh"
)

var fetchTime = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

const testBaseURL = "https://zabbix.example.com"

func makeSnapshot(names ...string) problem.Snapshot {
	problems := make([]problem.Problem, len(names))
	triggers := make([]problem.Trigger, len(names))
	for index, name := range names {
		triggerID := fmt.Sprintf("t%d", index)
		problems[index] = problem.Problem{
			EventID:   fmt.Sprintf("%d", len(names)-index),
			TriggerID: triggerID,
			Severity:  problem.SeverityHigh,
			Raised:    fetchTime.Add(-time.Duration(index) * time.Minute),
			Name:      name,
			Tags:      []problem.Tag{{Tag: "row", Value: fmt.Sprintf("%d", index)}},
		}
		triggers[index] = problem.Trigger{
			ID:     triggerID,
			Status: problem.StatusEnabled,
			Hosts:  []problem.Host{{Name: fmt.Sprintf("host%02d", index), Status: problem.StatusEnabled}},
			Items:  []problem.Item{{Status: problem.StatusEnabled, LastValue: fmt.Sprintf("%d", 90+index), Units: "%"}},
		}
	}
	return problem.NewSnapshot(problems, triggers, fetchTime)
}

type fakeFetcher struct {
	snapshot problem.Snapshot
	err      error
	calls    int
}

func (fetcher *fakeFetcher) Fetch(context.Context, problem.Filter) (problem.Snapshot, error) {
	fetcher.calls++
	if fetcher.err != nil {
		return problem.Snapshot{}, fetcher.err
	}
	return fetcher.snapshot, nil
}

type ackCall struct {
	eventID string
	action  problem.AckAction
	message string
}

type fakeAcknowledger struct {
	calls []ackCall
	err   error
}

func (acknowledger *fakeAcknowledger) Acknowledge(_ context.Context, eventID string, action problem.AckAction, message string) error {
	acknowledger.calls = append(acknowledger.calls, ackCall{eventID, action, message})
	return acknowledger.err
}

type fakeActions struct {
	sshHosts []string
	sshErr   error
	opened   []string
	copied   []string
	copyErr  error
}

func (actions *fakeActions) SSH(host string, done tea.ExecCallback) tea.Cmd {
	actions.sshHosts = append(actions.sshHosts, host)
	return func() tea.Msg { return done(actions.sshErr) }
}

func (actions *fakeActions) OpenURL(url string) error {
	actions.opened = append(actions.opened, url)
	return nil
}

func (actions *fakeActions) Copy(text string) error {
	if actions.copyErr != nil {
		return actions.copyErr
	}
	actions.copied = append(actions.copied, text)
	return nil
}

type harness struct {
	model        Model
	clock        *clock.FakeClock
	fetcher      *fakeFetcher
	acknowledger *fakeAcknowledger
	actions      *fakeActions
	quit         bool
}

// newHarness builds a sized model over the given problem names. The
// initial fetch has already happened, so nothing is due until a
// command marks the data dirty.
func newHarness(t *testing.T, names ...string) *harness {
	t.Helper()
	fakeClock := clock.Fake(fetchTime)
	fetcher := &fakeFetcher{snapshot: makeSnapshot(names...)}
	scheduler := refresh.New(refresh.Config{Clock: fakeClock, Logger: slog.New(slog.DiscardHandler)})
	current, err := scheduler.Initial(context.Background(), fetcher, problem.Filter{})
	if err != nil {
		t.Fatalf("Initial: %v", err)
	}

	h := &harness{
		clock:        fakeClock,
		fetcher:      fetcher,
		acknowledger: &fakeAcknowledger{},
		actions:      &fakeActions{},
	}
	h.model = NewModel(Config{
		Session:      current,
		Scheduler:    scheduler,
		Fetcher:      fetcher,
		Acknowledger: h.acknowledger,
		Actions:      h.actions,
		BaseURL:      testBaseURL,
		Clock:        fakeClock,
		Logger:       slog.New(slog.DiscardHandler),
	})
	h.model.tick = func(time.Duration, func(time.Time) tea.Msg) tea.Cmd { return nil }
	h.send(tea.WindowSizeMsg{Width: 100, Height: 12})
	return h
}

// update delivers one message and returns the command without running
// it.
func (h *harness) update(message tea.Msg) tea.Cmd {
	updated, cmd := h.model.Update(message)
	h.model = updated.(Model)
	return cmd
}

// send delivers one message and runs every resulting command to
// completion, feeding their messages back into the model.
func (h *harness) send(message tea.Msg) {
	h.run(h.update(message))
}

func (h *harness) run(cmd tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch message := next().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, message...)
		case tea.QuitMsg:
			h.quit = true
		default:
			queue = append(queue, h.update(message))
		}
	}
}

func (h *harness) press(keys ...string) {
	for _, name := range keys {
		h.send(keyMsg(name))
	}
}

func keyMsg(name string) tea.KeyMsg {
	switch name {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+t":
		return tea.KeyMsg{Type: tea.KeyCtrlT}
	case "ctrl+f":
		return tea.KeyMsg{Type: tea.KeyCtrlF}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(name)}
}

func (h *harness) viewLines() []string {
	return strings.Split(ansi.Strip(h.model.View()), "\n")
}

func (h *harness) statusLine() string {
	lines := h.viewLines()
	return strings.TrimRight(lines[len(lines)-1], " ")
}

func TestViewBeforeSize(t *testing.T) {
	model := NewModel(Config{Session: nil, Scheduler: refresh.New(refresh.Config{})})
	if got := model.View(); got != loadingText {
		t.Errorf("View() = %q, want %q", got, loadingText)
	}
}

func TestViewLayout(t *testing.T) {
	h := newHarness(t, "Disk full on /var", "CPU load high", "Memory low")

	lines := h.viewLines()
	if len(lines) != 12 {
		t.Fatalf("view has %d lines, want 12", len(lines))
	}
	if !strings.HasPrefix(lines[0], headerTitle) {
		t.Errorf("header = %q, want prefix %q", lines[0], headerTitle)
	}
	if got := lines[0][headerOperationalCol:]; !strings.HasPrefix(got, "90 %") {
		t.Errorf("operational data = %q, want prefix %q", got, "90 %")
	}
	if !strings.Contains(lines[1], "09:26:53 High") || !strings.Contains(lines[1], "PROBLEM") ||
		!strings.Contains(lines[1], "host00 Disk full on /var") {
		t.Errorf("first row = %q", lines[1])
	}
	if !strings.Contains(lines[3], "host02 Memory low") {
		t.Errorf("third row = %q", lines[3])
	}
	if got := h.statusLine(); got != "row:0" {
		t.Errorf("status line = %q, want the selected row's tags", got)
	}
}

func TestNavigationMovesSelection(t *testing.T) {
	h := newHarness(t, "a", "b", "c")

	h.press("j", "down")
	if got := h.model.session.Cursor(); got != 2 {
		t.Fatalf("cursor after two moves = %d, want 2", got)
	}
	if got := h.statusLine(); got != "row:2" {
		t.Errorf("status line = %q, want row:2", got)
	}
	if got := h.viewLines()[0][headerOperationalCol:]; !strings.HasPrefix(got, "92 %") {
		t.Errorf("operational data follows selection: got %q", got)
	}

	h.press("k")
	if got := h.model.session.Cursor(); got != 1 {
		t.Errorf("cursor after k = %d, want 1", got)
	}
}

func TestQuit(t *testing.T) {
	h := newHarness(t, "a")
	h.press("q")
	if !h.quit {
		t.Error("q did not quit")
	}
}

func TestPanShiftsRows(t *testing.T) {
	h := newHarness(t, "a")
	before := h.viewLines()[1]

	h.press("l", "l", "l")
	if got := h.model.session.PanOffset(); got != 3 {
		t.Fatalf("pan = %d, want 3", got)
	}
	after := h.viewLines()[1]
	if !strings.HasPrefix(before[3:], strings.TrimRight(after, " ")[:20]) {
		t.Errorf("panned row %q is not %q shifted by 3", after, before)
	}

	h.press("0")
	if got := h.model.session.PanOffset(); got != 0 {
		t.Errorf("pan after 0 = %d, want 0", got)
	}
}

func TestToggleTagMovesDown(t *testing.T) {
	h := newHarness(t, "a", "b")

	h.press("t")
	if !h.model.session.IsTagged(0) {
		t.Error("row 0 not tagged")
	}
	if got := h.model.session.Cursor(); got != 1 {
		t.Errorf("cursor after t = %d, want 1", got)
	}
	if row := h.viewLines()[1]; !strings.HasPrefix(row, taggedMark) {
		t.Errorf("tagged row %q does not start with %q", row, taggedMark)
	}
}

func TestTagByPatternPrompt(t *testing.T) {
	h := newHarness(t, "disk full", "cpu", "disk slow")

	h.press("T")
	if got := h.statusLine(); got != strings.TrimSpace(command.TagByPattern.Prompt()) {
		t.Fatalf("status line = %q, want prompt", got)
	}

	// Keys typed into the prompt are text, not commands.
	h.press("disk", "q")
	if h.quit {
		t.Fatal("q inside the prompt quit the program")
	}
	h.send(tea.KeyMsg{Type: tea.KeyBackspace})
	h.press("enter")

	if got := h.model.session.TaggedCount(); got != 2 {
		t.Errorf("tagged = %d, want 2", got)
	}

	h.press("ctrl+t", "full", "enter")
	if h.model.session.IsTagged(0) || !h.model.session.IsTagged(2) {
		t.Error("untag by pattern removed the wrong rows")
	}
}

func TestPromptCancel(t *testing.T) {
	h := newHarness(t, "disk")

	h.press("T", "disk", "esc")
	if got := h.model.session.TaggedCount(); got != 0 {
		t.Errorf("cancelled pattern tagged %d rows", got)
	}
	if h.model.promptKind != 0 {
		t.Error("prompt still open after esc")
	}
}

func TestAcknowledgeWithEmptyMessageAborts(t *testing.T) {
	h := newHarness(t, "a")

	h.press("a", "enter")
	if got := h.statusLine(); got != command.StatusAborted {
		t.Errorf("status = %q, want %q", got, command.StatusAborted)
	}
	if len(h.acknowledger.calls) != 0 {
		t.Errorf("acknowledge called %d times", len(h.acknowledger.calls))
	}
	if h.fetcher.calls != 1 {
		t.Errorf("fetches = %d, want only the initial one", h.fetcher.calls)
	}
}

func TestAcknowledgeWithMessage(t *testing.T) {
	h := newHarness(t, "a")

	h.press("a", "on it", "enter")
	want := []ackCall{{"1", problem.ActionAcknowledgeWithMessage, "on it"}}
	if fmt.Sprint(h.acknowledger.calls) != fmt.Sprint(want) {
		t.Errorf("acknowledge calls = %v, want %v", h.acknowledger.calls, want)
	}
	if h.fetcher.calls != 2 {
		t.Errorf("fetches = %d, want a refresh after acknowledging", h.fetcher.calls)
	}
	if got := h.statusLine(); got != "Acknowledge 1" {
		t.Errorf("status = %q", got)
	}
}

func TestToggleAcknowledgeRefreshes(t *testing.T) {
	h := newHarness(t, "a", "b")

	h.press("A")
	want := []ackCall{{"2", problem.ActionAcknowledge, ""}}
	if fmt.Sprint(h.acknowledger.calls) != fmt.Sprint(want) {
		t.Errorf("acknowledge calls = %v, want %v", h.acknowledger.calls, want)
	}
	if h.fetcher.calls != 2 {
		t.Errorf("fetches = %d, want 2", h.fetcher.calls)
	}
	if got := h.statusLine(); got != "Acknowledge 2" {
		t.Errorf("status = %q, want the acknowledge status restored after the fetch", got)
	}
	if h.model.busy {
		t.Error("model still busy")
	}
}

func TestAcknowledgeFailureShownOnStatusLine(t *testing.T) {
	h := newHarness(t, "a")
	h.acknowledger.err = errors.New("permission denied")

	h.press("A")
	if got := h.statusLine(); got != "Acknowledge 1 failed: permission denied" {
		t.Errorf("status = %q", got)
	}
}

func TestKeysQueuedDuringFetch(t *testing.T) {
	h := newHarness(t, "a", "b", "c", "d")

	fetch := h.update(keyMsg("r"))
	if !h.model.busy {
		t.Fatal("r did not start a fetch")
	}
	if got := h.statusLine(); got != refresh.StatusFetching {
		t.Errorf("status during fetch = %q, want %q", got, refresh.StatusFetching)
	}

	h.update(keyMsg("j"))
	h.update(keyMsg("j"))
	if got := h.model.session.Cursor(); got != 0 {
		t.Fatalf("cursor moved to %d while busy", got)
	}

	h.run(fetch)
	if got := h.model.session.Cursor(); got != 2 {
		t.Errorf("cursor after replay = %d, want 2", got)
	}
	if len(h.model.pending) != 0 {
		t.Errorf("%d keys still pending", len(h.model.pending))
	}
}

func TestPromptKeysQueuedDuringFetch(t *testing.T) {
	h := newHarness(t, "a", "b")

	fetch := h.update(keyMsg("r"))
	for _, name := range []string{"a", "m", "s", "g", "enter"} {
		h.update(keyMsg(name))
	}
	if h.model.promptKind != 0 || len(h.acknowledger.calls) != 0 {
		t.Fatalf("prompt opened or acknowledged while a fetch was outstanding: %v", h.acknowledger.calls)
	}

	h.run(fetch)
	want := []ackCall{{"2", problem.ActionAcknowledgeWithMessage, "msg"}}
	if fmt.Sprint(h.acknowledger.calls) != fmt.Sprint(want) {
		t.Errorf("acknowledge calls = %v, want %v", h.acknowledger.calls, want)
	}
	if h.model.busy || len(h.model.pending) != 0 {
		t.Errorf("busy=%v pending=%d after replay", h.model.busy, len(h.model.pending))
	}
}

func TestResizeWithPromptOpenDoesNotFetch(t *testing.T) {
	h := newHarness(t, "a", "b", "c")

	h.press("j", "a", "msg")
	h.clock.Advance(31 * time.Second)
	h.fetcher.snapshot = makeSnapshot("new", "a", "b", "c")
	h.send(tea.WindowSizeMsg{Width: 80, Height: 10})

	if h.fetcher.calls != 1 {
		t.Errorf("fetches = %d, want none while the prompt is open", h.fetcher.calls)
	}
	if h.model.promptKind != command.AcknowledgeWithMessage {
		t.Fatal("resize closed the prompt")
	}
	if h.model.width != 80 || h.model.height != 10 {
		t.Errorf("size = %dx%d, want 80x10", h.model.width, h.model.height)
	}

	h.press("enter")
	want := []ackCall{{"2", problem.ActionAcknowledgeWithMessage, "msg"}}
	if fmt.Sprint(h.acknowledger.calls) != fmt.Sprint(want) {
		t.Errorf("acknowledge calls = %v, want the row selected when the prompt opened: %v", h.acknowledger.calls, want)
	}
	if h.fetcher.calls != 2 {
		t.Errorf("fetches = %d, want a refresh after acknowledging", h.fetcher.calls)
	}
}

func TestResizeWithHelpOpenDoesNotFetch(t *testing.T) {
	h := newHarness(t, "a")

	h.press("?")
	h.clock.Advance(31 * time.Second)
	h.send(tea.WindowSizeMsg{Width: 80, Height: 10})
	if h.fetcher.calls != 1 {
		t.Errorf("fetches = %d, want none while help is open", h.fetcher.calls)
	}

	h.press("q")
	if h.fetcher.calls != 2 {
		t.Errorf("fetches = %d, want the overdue refresh once help closes", h.fetcher.calls)
	}
}

func TestQuitDuringFetch(t *testing.T) {
	for _, name := range []string{"q", "ctrl+c"} {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t, "a")

			h.update(keyMsg("r"))
			if !h.model.busy {
				t.Fatal("r did not start a fetch")
			}
			h.run(h.update(keyMsg(name)))
			if !h.quit {
				t.Errorf("%s did not quit while a fetch was outstanding", name)
			}
			if len(h.model.pending) != 0 {
				t.Errorf("%d keys queued", len(h.model.pending))
			}
		})
	}
}

func TestFetchFailureMarksStale(t *testing.T) {
	h := newHarness(t, "a", "b")
	h.fetcher.err = errors.New("backend down")

	h.press("r")
	if !h.model.session.Stale() {
		t.Error("session not stale after failed fetch")
	}
	if got := h.statusLine(); got != "Refresh failed: backend down" {
		t.Errorf("status = %q", got)
	}
	if header := h.viewLines()[0]; !strings.Contains(header, "STALE since 09:26:53") {
		t.Errorf("header %q lacks stale marker", header)
	}
	if got := h.model.session.Len(); got != 2 {
		t.Errorf("previous snapshot dropped: %d rows", got)
	}
}

func TestIdleTimeoutRefreshes(t *testing.T) {
	h := newHarness(t, "a")

	h.send(idleTickMsg{generation: h.model.idleGeneration - 1})
	if h.fetcher.calls != 1 {
		t.Fatalf("stale idle tick fetched")
	}

	h.send(idleTickMsg{generation: h.model.idleGeneration})
	if h.fetcher.calls != 2 {
		t.Errorf("fetches = %d, want idle timeout to refresh", h.fetcher.calls)
	}
}

func TestKeyPressRestartsIdleTimer(t *testing.T) {
	h := newHarness(t, "a", "b")
	generation := h.model.idleGeneration

	h.press("j")
	h.send(idleTickMsg{generation: generation})
	if h.fetcher.calls != 1 {
		t.Errorf("tick from before the key press refreshed")
	}
}

func TestCopyURL(t *testing.T) {
	h := newHarness(t, "a")

	h.press("c")
	want := testBaseURL + "/tr_events.php?triggerid=t0&eventid=1"
	if len(h.actions.copied) != 1 || h.actions.copied[0] != want {
		t.Fatalf("copied = %v, want %q", h.actions.copied, want)
	}
	if got := h.statusLine(); got != "Copied "+want {
		t.Errorf("status = %q", got)
	}
}

func TestCopyFailure(t *testing.T) {
	h := newHarness(t, "a")
	h.actions.copyErr = errors.New("no clipboard")

	h.press("c")
	if got := h.statusLine(); got != "Copy failed: no clipboard" {
		t.Errorf("status = %q", got)
	}
}

func TestOpenAndSSH(t *testing.T) {
	h := newHarness(t, "a", "b")

	h.press("j", "o", "s")
	if want := testBaseURL + "/tr_events.php?triggerid=t1&eventid=1"; len(h.actions.opened) != 1 || h.actions.opened[0] != want {
		t.Errorf("opened = %v, want %q", h.actions.opened, want)
	}
	if len(h.actions.sshHosts) != 1 || h.actions.sshHosts[0] != "host01" {
		t.Errorf("ssh hosts = %v, want [host01]", h.actions.sshHosts)
	}

	h.actions.sshErr = errors.New("exit status 255")
	h.press("s")
	if got := h.statusLine(); got != "ssh host01 failed: exit status 255" {
		t.Errorf("status = %q", got)
	}
}

func TestEmptyListCommands(t *testing.T) {
	h := newHarness(t)

	for _, name := range []string{"s", "o", "c", "A"} {
		h.press(name)
		if got := h.statusLine(); got != command.StatusNoSelection {
			t.Errorf("%s: status = %q, want %q", name, got, command.StatusNoSelection)
		}
	}
	h.press("t", "j", "ctrl+f")
	if got := h.model.session.Cursor(); got != 0 {
		t.Errorf("cursor = %d on empty list", got)
	}
	if len(h.actions.sshHosts)+len(h.actions.opened)+len(h.actions.copied)+len(h.acknowledger.calls) != 0 {
		t.Error("side effect performed on an empty list")
	}
}

func TestHelpPopup(t *testing.T) {
	h := newHarness(t, "a", "b")
	h.send(tea.WindowSizeMsg{Width: 100, Height: 30})

	h.press("?")
	view := ansi.Strip(h.model.View())
	for _, want := range []string{"CZBX help", helpFooter, "quit", "-- more --"} {
		if !strings.Contains(view, want) {
			t.Errorf("help view lacks %q", want)
		}
	}

	h.press("j")
	if got := h.model.session.Cursor(); got != 0 {
		t.Errorf("j inside help moved the cursor to %d", got)
	}
	if got := h.model.help.Offset(); got != 1 {
		t.Errorf("help offset = %d, want 1", got)
	}

	h.press("q")
	if h.quit {
		t.Fatal("q closed the program instead of the help popup")
	}
	if h.model.help != nil {
		t.Error("help still open")
	}
}

func TestHelpLinesCoverKeyMap(t *testing.T) {
	h := newHarness(t)
	lines := h.model.helpLines()
	if len(lines) != len(command.DefaultKeyMap.Bindings) {
		t.Fatalf("help has %d lines, want %d", len(lines), len(command.DefaultKeyMap.Bindings))
	}
	if !strings.HasSuffix(lines[0], "q  quit") {
		t.Errorf("first help line = %q", lines[0])
	}
}

func TestUnknownKeyClearsStatus(t *testing.T) {
	h := newHarness(t, "a")

	h.press("V")
	if got := h.statusLine(); got == "row:0" || got == "" {
		t.Fatalf("V did not set a status: %q", got)
	}
	h.press("x")
	if got := h.statusLine(); got != "row:0" {
		t.Errorf("status after unbound key = %q, want the tag fallback", got)
	}
}

func TestDebugStatusLine(t *testing.T) {
	h := newHarness(t, "a", "b")

	h.press("D", "j")
	want := "X: 0 Y: 0 CL: 2 COLS: 100 LINES: 12, LINE: 1, PAGE: 1/1"
	if got := h.statusLine(); got != want {
		t.Errorf("status = %q, want %q", got, want)
	}
}

func TestLogRecordOnStatusLine(t *testing.T) {
	h := newHarness(t, "a")

	h.send(logRecordMsg{Summary: "slow response (method=problem.get)", Level: slog.LevelWarn})
	if got := h.statusLine(); got != "slow response (method=problem.get)" {
		t.Fatalf("status = %q", got)
	}

	h.send(logRecordFadeMsg{Generation: h.model.logGeneration - 1})
	if h.model.logSummary == "" {
		t.Error("fade for an older record cleared the newer one")
	}
	h.send(logRecordFadeMsg{Generation: h.model.logGeneration})
	if got := h.statusLine(); got != "row:0" {
		t.Errorf("status after fade = %q", got)
	}
}
