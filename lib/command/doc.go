// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package command turns operator input into state transitions on a
// [session.Session].
//
// Input decoding and transition logic are separate. [KeyMap.Lookup]
// maps a bubbletea key message to a closed [Kind]; [Dispatch] applies
// a [Command] of that kind to the session and returns an [Outcome]
// describing what the caller must do next: request a side effect,
// mark the data dirty, replay a synthetic follow-up command, clear the
// screen, open the help popup, or quit.
//
// Dispatch never performs I/O. Side effects (SSH, browser, clipboard,
// acknowledge) are described by an [Effect] value and executed by the
// caller, which makes every transition testable without a terminal.
//
// Kinds that need free text from the operator report
// [Kind.NeedsText]. The caller collects the text in its own line-edit
// mode and dispatches again with [Command.Text] set, or with
// [Command.Cancelled] if the operator backed out.
package command
