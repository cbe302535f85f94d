// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"github.com/bureau-foundation/czbx/lib/problem"
	"github.com/bureau-foundation/czbx/lib/session"
	"github.com/bureau-foundation/czbx/lib/version"
)

// Status texts set by Dispatch.
const (
	StatusNoSelection = "No problem selected"
	StatusAborted     = "Aborted…"
)

// EffectKind identifies a side effect Dispatch asks the caller to
// perform.
type EffectKind int

const (
	EffectNone EffectKind = iota
	EffectSSH
	EffectOpenURL
	EffectCopyURL
	EffectAcknowledge
)

// Effect describes one side effect. Only the fields relevant to Kind
// are set.
type Effect struct {
	Kind EffectKind

	// Host is the SSH target.
	Host string

	// URL is the event page to open or copy.
	URL string

	// EventID, Action, and Message describe an acknowledge call.
	EventID string
	Action  problem.AckAction
	Message string
}

// Outcome is what the caller must do after a dispatch.
type Outcome struct {
	Quit bool

	Effect Effect

	// Refresh marks the data dirty: the next scheduling check fetches
	// regardless of snapshot age.
	Refresh bool

	// FollowUp is a synthetic command to dispatch immediately, ahead
	// of any queued operator input. Zero when there is none.
	FollowUp Kind

	ClearScreen bool
	ShowHelp    bool
}

// Environment carries the per-dispatch facts the session does not
// own.
type Environment struct {
	// PageSize is the number of table rows visible on screen.
	PageSize int

	// BaseURL is the backend web frontend root, used to build event
	// links.
	BaseURL string
}

// Dispatch applies cmd to current and returns what the caller must do
// next. The status message is cleared first; commands that report
// something set it again. Commands that operate on the selected
// problem are inert, apart from a status message, when the list is
// empty.
func Dispatch(cmd Command, current *session.Session, environment Environment) Outcome {
	current.ClearStatus()

	switch cmd.Kind {
	case Quit:
		return Outcome{Quit: true}

	case Resize:
		current.Realign(environment.PageSize)

	case ToggleDebug:
		current.ToggleDebug()

	case MoveUp:
		current.MoveCursor(-1, environment.PageSize)
	case MoveDown:
		current.MoveCursor(1, environment.PageSize)
	case PageDown:
		current.PageDown(environment.PageSize)
	case PageUp:
		current.PageUp(environment.PageSize)

	case PanLeft:
		current.Pan(-1)
	case PanRight:
		current.Pan(1)
	case PanReset:
		current.ResetPan()

	case ClearScreen:
		return Outcome{ClearScreen: true}

	case ForceRefresh, IdleTimeout:
		return Outcome{Refresh: true}

	case SSH:
		trigger, ok := current.CurrentTrigger()
		if !ok {
			current.SetStatus(StatusNoSelection)
			return Outcome{}
		}
		return Outcome{Effect: Effect{Kind: EffectSSH, Host: trigger.Host().Name}}

	case OpenInBrowser, CopyURL:
		selected, ok := current.CurrentProblem()
		if !ok {
			current.SetStatus(StatusNoSelection)
			return Outcome{}
		}
		link := problem.EventURL(environment.BaseURL, selected)
		if cmd.Kind == OpenInBrowser {
			return Outcome{Effect: Effect{Kind: EffectOpenURL, URL: link}}
		}
		return Outcome{Effect: Effect{Kind: EffectCopyURL, URL: link}}

	case ToggleTag:
		if current.Empty() {
			return Outcome{}
		}
		current.ToggleTag(current.Cursor())
		return Outcome{FollowUp: MoveDown}

	case TagByPattern:
		if !cmd.Cancelled {
			current.TagMatching(cmd.Text)
		}
	case UntagByPattern:
		if !cmd.Cancelled {
			current.UntagMatching(cmd.Text)
		}

	case ToggleAcknowledge:
		selected, ok := current.CurrentProblem()
		if !ok {
			current.SetStatus(StatusNoSelection)
			return Outcome{}
		}
		action := problem.ActionAcknowledge
		if selected.Acknowledged {
			action = problem.ActionUnacknowledge
			current.SetStatus("Unacknowledge %s", selected.EventID)
		} else {
			current.SetStatus("Acknowledge %s", selected.EventID)
		}
		return Outcome{
			Effect:  Effect{Kind: EffectAcknowledge, EventID: selected.EventID, Action: action},
			Refresh: true,
		}

	case AcknowledgeWithMessage:
		if cmd.Cancelled || cmd.Text == "" {
			current.SetStatus(StatusAborted)
			return Outcome{}
		}
		selected, ok := current.CurrentProblem()
		if !ok {
			current.SetStatus(StatusNoSelection)
			return Outcome{}
		}
		current.SetStatus("Acknowledge %s", selected.EventID)
		return Outcome{
			Effect: Effect{
				Kind:    EffectAcknowledge,
				EventID: selected.EventID,
				Action:  problem.ActionAcknowledgeWithMessage,
				Message: cmd.Text,
			},
			Refresh: true,
		}

	case ShowVersion:
		current.SetStatus("%s", version.Short())

	case ShowHelp:
		return Outcome{ShowHelp: true}
	}
	return Outcome{}
}
