// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package problemui is the interactive problems dashboard: a
// bubbletea program that renders a [session.Session] as a header
// line, a pannable problem table and a status line, and drives it
// with the keybindings in [command.DefaultKeyMap].
//
// The model is strictly sequential. While a backend call or an
// external program is outstanding the model is busy: key presses are
// queued and replayed in arrival order once the call completes, so at
// most one backend call is ever in flight and input never reorders
// around a refresh.
//
// Side effects that leave the process (SSH, browser, clipboard) go
// through the [Actions] interface so tests can substitute fakes.
// [TUILogHandler] routes slog warnings into the status line while the
// program owns the terminal.
package problemui
