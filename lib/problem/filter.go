// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package problem

import (
	"context"
	"net/url"
	"strings"
	"time"
)

// TagFilter is one backend tag filter entry, in the shape the
// backend's problem query accepts and the tags.json file stores.
type TagFilter struct {
	Tag   string `json:"tag"`
	Value string `json:"value,omitempty"`

	// Operator is the backend's tag comparison operator: 0 like,
	// 1 equal, 2 not like, 3 not equal, 4 exists, 5 not exists.
	Operator int `json:"operator"`
}

// Filter is the read-only fetch criteria, loaded once at startup.
type Filter struct {
	Tags       []TagFilter
	Severities []Severity

	// Window limits problems to those raised within this duration
	// before the fetch. Zero means no lower bound.
	Window time.Duration
}

// DefaultSeverities is the severity set fetched when no configuration
// overrides it: Average, High, and Disaster.
var DefaultSeverities = []Severity{SeverityAverage, SeverityHigh, SeverityDisaster}

// Fetcher returns the current snapshot for the given criteria. The
// call is synchronous from the caller's perspective and may fail.
type Fetcher interface {
	Fetch(ctx context.Context, filter Filter) (Snapshot, error)
}

// AckAction is the backend's event acknowledge action bitmask.
type AckAction int

const (
	// ActionAcknowledge marks an event acknowledged.
	ActionAcknowledge AckAction = 2

	// ActionAcknowledgeWithMessage acknowledges and adds a message
	// (acknowledge | add message).
	ActionAcknowledgeWithMessage AckAction = 6

	// ActionUnacknowledge clears the acknowledged flag.
	ActionUnacknowledge AckAction = 16
)

// Acknowledger records acknowledgement changes on the backend. The
// message is ignored unless the action includes adding a message.
type Acknowledger interface {
	Acknowledge(ctx context.Context, eventID string, action AckAction, message string) error
}

// EventURL returns the backend web page for a problem event:
// <base>/tr_events.php?triggerid=<trigger>&eventid=<event>.
func EventURL(baseURL string, problem Problem) string {
	base := strings.TrimSuffix(strings.TrimRight(baseURL, "/"), "/api_jsonrpc.php")
	return base + "/tr_events.php?triggerid=" + url.QueryEscape(problem.TriggerID) +
		"&eventid=" + url.QueryEscape(problem.EventID)
}
