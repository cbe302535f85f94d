// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package tui provides the terminal rendering pieces shared by czbx
// views: the color theme (severity palette and chrome), ANSI-aware
// horizontal panning and overlay splicing, the scrollbar, and the
// scrollable popup used for help text.
//
// Everything here is pure string rendering over lipgloss styles; the
// event loop and state live in the views that import this package.
package tui
