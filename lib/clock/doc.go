// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable source of the current time.
//
// Staleness checks, idle detection, and snapshot timestamps all read
// time through a [Clock] instead of calling time.Now directly. In
// production, [Real] returns the standard library behavior. In tests,
// [Fake] returns a clock that stands still until Advance or Set is
// called, so "the snapshot is 31 seconds old" is a one-line setup
// instead of a sleep.
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	scheduler := refresh.New(refresh.Config{Clock: c})
//	c.Advance(31 * time.Second)
package clock
