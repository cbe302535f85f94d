// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package problem defines the data model shared by the dashboard's
// session engine, its dispatcher, and the backend client.
//
// A [Problem] is one open or resolved alert instance. A [Trigger] is
// the rule that raised it, carrying the owning host and monitored
// items. A [Snapshot] pairs the displayable problems with their
// trigger metadata and the time they were fetched; it is built once
// by [NewSnapshot] and never mutated afterwards.
//
// Displayability is decided here, at snapshot construction time: a
// problem is shown only when its trigger, the trigger's host, and
// every one of the trigger's items are enabled. Renderers and the
// session never re-check it.
//
// This package depends on no other czbx packages.
package problem
