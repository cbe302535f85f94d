// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package session holds the single source of truth for what the
// operator is looking at: the current [problem.Snapshot] and the view
// state layered over it (cursor, vertical scroll offset, horizontal
// pan, tagged problems, debug overlay, transient status message).
//
// All arithmetic is clamped. Cursor-relative operations are no-ops on
// an empty list, and no operation can leave the cursor outside the
// visible page or the pan offset outside [0, MaxPan].
//
// A Session is owned by exactly one event loop and is not safe for
// concurrent use; the dashboard mutates it only from its bubbletea
// Update function.
package session
