// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package refresh

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bureau-foundation/czbx/lib/clock"
	"github.com/bureau-foundation/czbx/lib/problem"
	"github.com/bureau-foundation/czbx/lib/session"
)

// StatusFetching is shown while a fetch is in flight.
const StatusFetching = "Fetching data…"

const (
	DefaultMaxAge      = 30 * time.Second
	DefaultIdleTimeout = 30 * time.Second
)

// Config configures a Scheduler. Zero durations take the defaults.
type Config struct {
	Clock       clock.Clock
	MaxAge      time.Duration
	IdleTimeout time.Duration
	Logger      *slog.Logger
}

// Scheduler tracks refresh state for one session.
type Scheduler struct {
	clock       clock.Clock
	maxAge      time.Duration
	idleTimeout time.Duration
	logger      *slog.Logger

	dirty       bool
	inFlight    bool
	lastAttempt time.Time
	lastErr     error

	// heldStatus is the status message displaced by StatusFetching,
	// restored when the fetch succeeds.
	heldStatus string
}

// New creates a Scheduler. Missing clock and logger default to the
// real clock and slog.Default.
func New(config Config) *Scheduler {
	if config.Clock == nil {
		config.Clock = clock.Real()
	}
	if config.MaxAge <= 0 {
		config.MaxAge = DefaultMaxAge
	}
	if config.IdleTimeout <= 0 {
		config.IdleTimeout = DefaultIdleTimeout
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Scheduler{
		clock:       config.Clock,
		maxAge:      config.MaxAge,
		idleTimeout: config.IdleTimeout,
		logger:      config.Logger,
	}
}

// IdleTimeout returns how long the event loop waits for input before
// it forces a refresh.
func (scheduler *Scheduler) IdleTimeout() time.Duration { return scheduler.idleTimeout }

// MaxAge returns the age at which the data is refetched regardless of
// activity.
func (scheduler *Scheduler) MaxAge() time.Duration { return scheduler.maxAge }

// MarkDirty forces the next Due check to report true.
func (scheduler *Scheduler) MarkDirty() { scheduler.dirty = true }

// Dirty reports whether a forced refresh is pending.
func (scheduler *Scheduler) Dirty() bool { return scheduler.dirty }

// InFlight reports whether a fetch has begun and not yet finished.
func (scheduler *Scheduler) InFlight() bool { return scheduler.inFlight }

// LastError returns the error of the most recent attempt, or nil if
// it succeeded.
func (scheduler *Scheduler) LastError() error { return scheduler.lastErr }

// Due reports whether a fetch should start now: a refresh was
// requested, or current's snapshot has reached max age and so has the
// last attempt. A failed attempt therefore holds off the next one for
// a full max age even though the snapshot stays stale.
func (scheduler *Scheduler) Due(current *session.Session) bool {
	if scheduler.inFlight {
		return false
	}
	if scheduler.dirty || scheduler.lastAttempt.IsZero() {
		return true
	}
	now := scheduler.clock.Now()
	return current.IsStale(now, scheduler.maxAge) &&
		now.Sub(scheduler.lastAttempt) >= scheduler.maxAge
}

// Begin starts a fetch if one is due. It records the attempt, clears
// the dirty flag, and puts StatusFetching on the status line. The
// caller must call Finish exactly once for every Begin that returned
// true.
func (scheduler *Scheduler) Begin(current *session.Session) bool {
	if !scheduler.Due(current) {
		return false
	}
	scheduler.inFlight = true
	scheduler.dirty = false
	scheduler.lastAttempt = scheduler.clock.Now()
	scheduler.heldStatus = current.Status()
	current.SetStatus(StatusFetching)
	return true
}

// Finish applies a fetch result. On success the snapshot replaces the
// session's and the status displaced by Begin is restored. On failure
// the previous snapshot stays, is marked stale, and the error is shown
// on the status line.
func (scheduler *Scheduler) Finish(current *session.Session, snapshot problem.Snapshot, err error) {
	scheduler.inFlight = false
	held := scheduler.heldStatus
	scheduler.heldStatus = ""

	if err != nil {
		scheduler.lastErr = err
		current.MarkStale()
		current.SetStatus("Refresh failed: %v", err)
		scheduler.logger.Warn("refresh failed", "error", err)
		return
	}

	scheduler.lastErr = nil
	current.ReplaceSnapshot(snapshot)
	current.SetStatus("%s", held)
	scheduler.logger.Debug("refreshed",
		"problems", snapshot.Len(),
		"fetched_at", snapshot.FetchedAt(),
	)
}

// Initial performs the startup fetch and returns a session over the
// result. Any error is fatal to the caller.
func (scheduler *Scheduler) Initial(ctx context.Context, fetcher problem.Fetcher, filter problem.Filter) (*session.Session, error) {
	if fetcher == nil {
		return nil, errors.New("refresh: fetcher is required")
	}
	scheduler.lastAttempt = scheduler.clock.Now()
	snapshot, err := fetcher.Fetch(ctx, filter)
	if err != nil {
		scheduler.lastErr = err
		return nil, fmt.Errorf("initial fetch: %w", err)
	}
	scheduler.lastErr = nil
	return session.New(snapshot), nil
}
