// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package problem

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Severity is the ordinal problem severity used by the backend.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityAverage
	SeverityHigh
	SeverityDisaster
)

var severityNames = [...]string{"None", "Info", "Warning", "Average", "High", "Disaster"}

// String returns the display name of the severity ("High",
// "Disaster"). Out-of-range values render as their number.
func (severity Severity) String() string {
	if !severity.Valid() {
		return strconv.Itoa(int(severity))
	}
	return severityNames[severity]
}

// Valid reports whether the severity is within [SeverityNone,
// SeverityDisaster].
func (severity Severity) Valid() bool {
	return severity >= SeverityNone && severity <= SeverityDisaster
}

// Tag is one (tag, value) pair attached to a problem.
type Tag struct {
	Tag   string `json:"tag"`
	Value string `json:"value"`
}

// String formats the tag the way the status line shows it: "tag:value".
func (tag Tag) String() string {
	return tag.Tag + ":" + tag.Value
}

// Problem is one open or resolved alert instance.
type Problem struct {
	// EventID identifies the problem event. Numeric in practice, but
	// kept as a string because that is how the backend transmits it.
	EventID string

	// TriggerID references the Trigger that raised the problem.
	TriggerID string

	Severity Severity

	// Raised is when the problem started.
	Raised time.Time

	// Resolved is when the problem recovered. The zero value means
	// the problem is still open.
	Resolved time.Time

	Acknowledged bool

	Name string
	Tags []Tag
}

// IsResolved reports whether the problem has a recovery time.
func (problem Problem) IsResolved() bool {
	return !problem.Resolved.IsZero()
}

// StatusLabel returns "RESOLVED" or "PROBLEM".
func (problem Problem) StatusLabel() string {
	if problem.IsResolved() {
		return "RESOLVED"
	}
	return "PROBLEM"
}

// TagLine joins the problem's tags as "tag:value | tag:value".
func (problem Problem) TagLine() string {
	parts := make([]string, len(problem.Tags))
	for index, tag := range problem.Tags {
		parts[index] = tag.String()
	}
	return strings.Join(parts, " | ")
}

// Validate checks the model invariants: severity in range and a
// resolved time, when present, not before the raised time.
func (problem Problem) Validate() error {
	if !problem.Severity.Valid() {
		return fmt.Errorf("problem %s: severity %d out of range [0,5]", problem.EventID, int(problem.Severity))
	}
	if problem.IsResolved() && problem.Resolved.Before(problem.Raised) {
		return fmt.Errorf("problem %s: resolved at %s before raised at %s",
			problem.EventID, problem.Resolved.Format(time.RFC3339), problem.Raised.Format(time.RFC3339))
	}
	return nil
}

// FormatRaised renders a problem timestamp for the table. Times on the
// same calendar day as now show only the clock ("14:03:22"); older
// times include the date ("2026-01-31 23:59:01").
func FormatRaised(raised, now time.Time) string {
	raised = raised.In(now.Location())
	if raised.Year() == now.Year() && raised.YearDay() == now.YearDay() {
		return raised.Format("15:04:05")
	}
	return raised.Format("2006-01-02 15:04:05")
}

// FormatResolved renders the recovery clock time, or "" for open
// problems.
func FormatResolved(problem Problem, location *time.Location) string {
	if !problem.IsResolved() {
		return ""
	}
	return problem.Resolved.In(location).Format("15:04:05")
}
