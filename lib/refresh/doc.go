// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package refresh decides when the dashboard fetches a new snapshot
// and applies the result to the session.
//
// A fetch is due when the data has been marked dirty (an acknowledge,
// a forced refresh, an idle timeout) or when the last attempt is at
// least MaxAge old. Failed attempts count as attempts, so a backend
// outage produces one error per MaxAge interval rather than one per
// key press. At most one fetch is in flight.
//
// The first fetch at startup goes through [Scheduler.Initial], whose
// failure is fatal. Later failures keep the previous snapshot, mark it
// stale, and surface the error on the status line.
package refresh
