// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package problemui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bureau-foundation/czbx/lib/clock"
	"github.com/bureau-foundation/czbx/lib/command"
	"github.com/bureau-foundation/czbx/lib/problem"
	"github.com/bureau-foundation/czbx/lib/refresh"
	"github.com/bureau-foundation/czbx/lib/session"
	"github.com/bureau-foundation/czbx/lib/tui"
)

// DefaultRequestTimeout bounds each backend call made from the
// dashboard.
const DefaultRequestTimeout = 20 * time.Second

// helpFooter is shown at the bottom of the help popup.
const helpFooter = "Press q or ? to close"

// Config wires a Model to its collaborators.
type Config struct {
	Session   *session.Session
	Scheduler *refresh.Scheduler

	Fetcher      problem.Fetcher
	Acknowledger problem.Acknowledger
	Actions      Actions
	Filter       problem.Filter

	// BaseURL is the backend web frontend root for event links.
	BaseURL string

	// RequestTimeout bounds each fetch and acknowledge call. Zero
	// means DefaultRequestTimeout.
	RequestTimeout time.Duration

	// KeyMap defaults to command.DefaultKeyMap when it has no
	// bindings.
	KeyMap command.KeyMap
	Theme  *tui.Theme
	Clock  clock.Clock
	Logger *slog.Logger
}

// Model is the bubbletea model for the dashboard.
type Model struct {
	session   *session.Session
	scheduler *refresh.Scheduler

	fetcher        problem.Fetcher
	acknowledger   problem.Acknowledger
	actions        Actions
	filter         problem.Filter
	baseURL        string
	requestTimeout time.Duration

	keys   command.KeyMap
	theme  tui.Theme
	clock  clock.Clock
	logger *slog.Logger

	width  int
	height int
	ready  bool

	// Line-edit sub-state. promptKind is zero when no prompt is open.
	promptKind command.Kind
	input      textinput.Model

	// help is non-nil while the help popup is shown.
	help *tui.Popup

	// busy is set while a fetch, acknowledge, or external program is
	// outstanding. Keys received meanwhile wait in pending.
	busy     bool
	pending  []tea.KeyMsg
	quitting bool

	// idleGeneration identifies the current idle timer. Every key
	// press starts a new generation; ticks from older ones are
	// ignored.
	idleGeneration int

	// Most recent record from TUILogHandler, shown when no status
	// message is set.
	logSummary    string
	logLevel      slog.Level
	logGeneration int

	// tick schedules timer messages; tea.Tick outside tests.
	tick func(time.Duration, func(time.Time) tea.Msg) tea.Cmd
}

// Messages produced by the model's own commands.
type (
	idleTickMsg struct{ generation int }

	fetchDoneMsg struct {
		snapshot problem.Snapshot
		err      error
	}

	// effectDoneMsg reports a finished side effect. status replaces
	// the status line when non-empty; err, when set, takes precedence.
	effectDoneMsg struct {
		label  string
		status string
		err    error
	}
)

// NewModel creates a Model over an already-populated session.
func NewModel(config Config) Model {
	if config.Scheduler == nil {
		config.Scheduler = refresh.New(refresh.Config{Clock: config.Clock, Logger: config.Logger})
	}
	if config.Clock == nil {
		config.Clock = clock.Real()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = DefaultRequestTimeout
	}
	if len(config.KeyMap.Bindings) == 0 {
		config.KeyMap = command.DefaultKeyMap
	}
	theme := tui.DefaultTheme
	if config.Theme != nil {
		theme = *config.Theme
	}

	input := textinput.New()
	input.Prompt = ""
	input.CharLimit = 1024
	input.Cursor.SetMode(cursor.CursorStatic)

	return Model{
		session:        config.Session,
		scheduler:      config.Scheduler,
		fetcher:        config.Fetcher,
		acknowledger:   config.Acknowledger,
		actions:        config.Actions,
		filter:         config.Filter,
		baseURL:        config.BaseURL,
		requestTimeout: config.RequestTimeout,
		keys:           config.KeyMap,
		theme:          theme,
		clock:          config.Clock,
		logger:         config.Logger,
		input:          input,
		tick:           tea.Tick,
	}
}

// Init starts the idle timer.
func (model Model) Init() tea.Cmd {
	return model.idleTick()
}

func (model Model) idleTick() tea.Cmd {
	generation := model.idleGeneration
	return model.tick(model.scheduler.IdleTimeout(), func(time.Time) tea.Msg {
		return idleTickMsg{generation: generation}
	})
}

// pageSize is the number of table rows: the screen less the header
// and status lines.
func (model Model) pageSize() int {
	return max(1, model.height-2)
}

func (model Model) environment() command.Environment {
	return command.Environment{PageSize: model.pageSize(), BaseURL: model.baseURL}
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		model.idleGeneration++
		var cmd tea.Cmd
		model, cmd = model.handleKey(message)
		return model, tea.Batch(cmd, model.idleTick())

	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.ready = true
		if model.busy || model.promptKind != 0 || model.help != nil {
			model.session.Realign(model.pageSize())
			return model, nil
		}
		return model.dispatch(command.Command{Kind: command.Resize})

	case idleTickMsg:
		if message.generation != model.idleGeneration {
			return model, nil
		}
		model.idleGeneration++
		if model.busy || model.promptKind != 0 || model.help != nil {
			return model, model.idleTick()
		}
		var cmd tea.Cmd
		model, cmd = model.dispatch(command.Command{Kind: command.IdleTimeout})
		return model, tea.Batch(cmd, model.idleTick())

	case fetchDoneMsg:
		model.scheduler.Finish(model.session, message.snapshot, message.err)
		model.busy = false
		return model.drainPending()

	case effectDoneMsg:
		model.busy = false
		switch {
		case message.err != nil:
			model.session.SetStatus("%s failed: %v", message.label, message.err)
			model.logger.Debug("action failed", "action", message.label, "error", message.err)
		case message.status != "":
			model.session.SetStatus("%s", message.status)
		}
		return model.afterEffects()

	case logRecordMsg:
		model.logSummary = message.Summary
		model.logLevel = message.Level
		model.logGeneration++
		generation := model.logGeneration
		return model, model.tick(logRecordFadeDelay, func(time.Time) tea.Msg {
			return logRecordFadeMsg{Generation: generation}
		})

	case logRecordFadeMsg:
		if message.Generation == model.logGeneration {
			model.logSummary = ""
		}
		return model, nil
	}

	if model.promptKind != 0 {
		var cmd tea.Cmd
		model.input, cmd = model.input.Update(message)
		return model, cmd
	}
	return model, nil
}

// handleKey routes one key press to the help popup, the pending queue,
// the prompt, or the dispatcher. Quit outside a prompt is honoured even
// while a call is outstanding.
func (model Model) handleKey(message tea.KeyMsg) (Model, tea.Cmd) {
	if model.quitting {
		return model, nil
	}
	if model.help != nil {
		model = model.handleHelpKey(message)
		if model.help == nil && !model.busy {
			return model.afterEffects()
		}
		return model, nil
	}
	if model.busy {
		if kind, ok := model.keys.Lookup(message); ok && kind == command.Quit && model.promptKind == 0 {
			model.quitting = true
			return model, tea.Quit
		}
		model.pending = append(model.pending, message)
		return model, nil
	}
	if model.promptKind != 0 {
		return model.handlePromptKey(message)
	}

	kind, ok := model.keys.Lookup(message)
	if !ok {
		model.session.ClearStatus()
		return model.afterEffects()
	}
	if kind.NeedsText() {
		model.session.ClearStatus()
		model.promptKind = kind
		model.input.Reset()
		return model, model.input.Focus()
	}
	return model.dispatch(command.Command{Kind: kind})
}

func (model Model) handleHelpKey(message tea.KeyMsg) Model {
	switch message.String() {
	case "q", "?", "esc":
		model.help = nil
	case "j", "down":
		popup := *model.help
		popup.ScrollDown(model.height)
		model.help = &popup
	case "k", "up":
		popup := *model.help
		popup.ScrollUp()
		model.help = &popup
	}
	return model
}

// handlePromptKey feeds the line editor. Enter submits the text, Esc
// and ctrl+c cancel; either way the pending command is dispatched.
func (model Model) handlePromptKey(message tea.KeyMsg) (Model, tea.Cmd) {
	switch message.Type {
	case tea.KeyEnter, tea.KeyEsc, tea.KeyCtrlC:
		cmd := command.Command{
			Kind:      model.promptKind,
			Text:      model.input.Value(),
			Cancelled: message.Type != tea.KeyEnter,
		}
		model.promptKind = 0
		model.input.Blur()
		model.input.Reset()
		return model.dispatch(cmd)
	}
	var cmd tea.Cmd
	model.input, cmd = model.input.Update(message)
	return model, cmd
}

// dispatch runs one command and its synthetic follow-ups, then starts
// the requested side effect or, when there is none, a due fetch.
func (model Model) dispatch(cmd command.Command) (Model, tea.Cmd) {
	outcome := command.Dispatch(cmd, model.session, model.environment())
	for outcome.FollowUp != 0 && !outcome.Quit {
		status := model.session.Status()
		followUp := command.Dispatch(command.Command{Kind: outcome.FollowUp}, model.session, model.environment())
		if model.session.Status() == "" {
			model.session.SetStatus("%s", status)
		}
		outcome = followUp
	}

	if outcome.Quit {
		model.quitting = true
		return model, tea.Quit
	}
	if outcome.Refresh {
		model.scheduler.MarkDirty()
	}
	if outcome.ShowHelp {
		popup := tui.NewPopup("CZBX help", model.helpLines(), helpFooter, model.theme)
		model.help = &popup
	}

	var cmds []tea.Cmd
	if outcome.ClearScreen {
		cmds = append(cmds, tea.ClearScreen)
	}
	if effect := model.startEffect(outcome.Effect); effect != nil {
		model.busy = true
		cmds = append(cmds, effect)
		return model, tea.Batch(cmds...)
	}

	var next tea.Cmd
	model, next = model.afterEffects()
	cmds = append(cmds, next)
	return model, tea.Batch(cmds...)
}

// startEffect returns the command that performs effect, or nil when
// there is nothing to do.
func (model Model) startEffect(effect command.Effect) tea.Cmd {
	switch effect.Kind {
	case command.EffectSSH:
		if model.actions == nil {
			return nil
		}
		host := effect.Host
		return model.actions.SSH(host, func(err error) tea.Msg {
			if err != nil {
				return effectDoneMsg{label: "ssh " + host, err: err}
			}
			return effectDoneMsg{}
		})

	case command.EffectOpenURL:
		if model.actions == nil {
			return nil
		}
		actions, url := model.actions, effect.URL
		return func() tea.Msg {
			return effectDoneMsg{label: "Open", err: actions.OpenURL(url)}
		}

	case command.EffectCopyURL:
		if model.actions == nil {
			return nil
		}
		actions, url := model.actions, effect.URL
		return func() tea.Msg {
			if err := actions.Copy(url); err != nil {
				return effectDoneMsg{label: "Copy", err: err}
			}
			return effectDoneMsg{status: "Copied " + url}
		}

	case command.EffectAcknowledge:
		if model.acknowledger == nil {
			return nil
		}
		acknowledger, timeout := model.acknowledger, model.requestTimeout
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			err := acknowledger.Acknowledge(ctx, effect.EventID, effect.Action, effect.Message)
			if err != nil {
				return effectDoneMsg{label: fmt.Sprintf("Acknowledge %s", effect.EventID), err: err}
			}
			return effectDoneMsg{}
		}
	}
	return nil
}

// afterEffects starts a fetch when one is due, otherwise replays
// queued keys.
func (model Model) afterEffects() (Model, tea.Cmd) {
	if model.fetcher != nil && model.scheduler.Begin(model.session) {
		model.busy = true
		fetcher, filter, timeout := model.fetcher, model.filter, model.requestTimeout
		return model, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			snapshot, err := fetcher.Fetch(ctx, filter)
			return fetchDoneMsg{snapshot: snapshot, err: err}
		}
	}
	return model.drainPending()
}

// drainPending replays queued keys in order until one makes the model
// busy again or the queue is empty.
func (model Model) drainPending() (Model, tea.Cmd) {
	var cmds []tea.Cmd
	for !model.busy && !model.quitting && len(model.pending) > 0 {
		next := model.pending[0]
		model.pending = model.pending[1:]
		var cmd tea.Cmd
		model, cmd = model.handleKey(next)
		cmds = append(cmds, cmd)
	}
	if len(model.pending) == 0 {
		model.pending = nil
	}
	return model, tea.Batch(cmds...)
}

// helpLines formats the key map for the help popup: keys right-aligned
// in a fixed column, then the description.
func (model Model) helpLines() []string {
	entries := model.keys.Help()
	width := 0
	for _, entry := range entries {
		width = max(width, len([]rune(entry.Key)))
	}
	lines := make([]string, len(entries))
	for index, entry := range entries {
		lines[index] = fmt.Sprintf("%*s  %s", width, entry.Key, entry.Desc)
	}
	return lines
}
