// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package problemui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// logRecordMsg delivers a slog record to the model for display on the
// status line.
type logRecordMsg struct {
	// Summary is the one-line rendering: "message (key=value, ...)".
	Summary string

	// Level selects the warning or error style.
	Level slog.Level
}

// logRecordFadeMsg clears the log line. Generation matches the
// logRecordMsg it was scheduled for; stale fades are ignored so a
// newer record stays its full delay.
type logRecordFadeMsg struct {
	Generation int
}

// logRecordFadeDelay is how long a log record stays on the status
// line.
const logRecordFadeDelay = 5 * time.Second

// TUILogHandler is a slog.Handler that delivers records into a running
// bubbletea program as messages. Records below the configured level
// are dropped, as are records that arrive before SetProgram.
//
// Handlers derived via WithAttrs and WithGroup share the program
// pointer, so a single SetProgram call reaches all of them.
type TUILogHandler struct {
	level   slog.Level
	program *atomic.Pointer[tea.Program]
	attrs   []slog.Attr
	prefix  string
}

// NewTUILogHandler creates a handler that delivers records at or above
// level. Call SetProgram once the tea.Program exists.
func NewTUILogHandler(level slog.Level) *TUILogHandler {
	return &TUILogHandler{
		level:   level,
		program: &atomic.Pointer[tea.Program]{},
	}
}

// SetProgram sets the program that receives records. Safe to call from
// any goroutine.
func (handler *TUILogHandler) SetProgram(program *tea.Program) {
	handler.program.Store(program)
}

func (handler *TUILogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= handler.level
}

func (handler *TUILogHandler) Handle(_ context.Context, record slog.Record) error {
	program := handler.program.Load()
	if program == nil {
		return nil
	}
	// Records logged from inside Update would block on Send, which
	// only the event loop drains.
	message := logRecordMsg{
		Summary: handler.summarize(record),
		Level:   record.Level,
	}
	go program.Send(message)
	return nil
}

func (handler *TUILogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	qualified := make([]slog.Attr, len(attrs))
	for index, attr := range attrs {
		qualified[index] = slog.Attr{Key: handler.prefix + attr.Key, Value: attr.Value}
	}
	return &TUILogHandler{
		level:   handler.level,
		program: handler.program,
		attrs:   append(sliceClone(handler.attrs), qualified...),
		prefix:  handler.prefix,
	}
}

func (handler *TUILogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return handler
	}
	return &TUILogHandler{
		level:   handler.level,
		program: handler.program,
		attrs:   sliceClone(handler.attrs),
		prefix:  handler.prefix + name + ".",
	}
}

// summarize renders the record as "message (key=value, ...)", handler
// attributes first.
func (handler *TUILogHandler) summarize(record slog.Record) string {
	parts := make([]string, 0, len(handler.attrs)+record.NumAttrs())
	for _, attr := range handler.attrs {
		parts = append(parts, fmt.Sprintf("%s=%s", attr.Key, attr.Value))
	}
	record.Attrs(func(attr slog.Attr) bool {
		parts = append(parts, fmt.Sprintf("%s%s=%s", handler.prefix, attr.Key, attr.Value))
		return true
	})
	if len(parts) == 0 {
		return record.Message
	}
	return record.Message + " (" + strings.Join(parts, ", ") + ")"
}

func sliceClone[T any](source []T) []T {
	if source == nil {
		return nil
	}
	result := make([]T, len(source))
	copy(result, source)
	return result
}
