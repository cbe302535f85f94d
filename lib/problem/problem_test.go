// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package problem

import (
	"testing"
	"time"
)

var raisedAt = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func TestSeverityString(t *testing.T) {
	tests := []struct {
		severity Severity
		want     string
	}{
		{SeverityNone, "None"},
		{SeverityInfo, "Info"},
		{SeverityWarning, "Warning"},
		{SeverityAverage, "Average"},
		{SeverityHigh, "High"},
		{SeverityDisaster, "Disaster"},
		{Severity(9), "9"},
		{Severity(-1), "-1"},
	}
	for _, test := range tests {
		if got := test.severity.String(); got != test.want {
			t.Errorf("Severity(%d).String() = %q, want %q", int(test.severity), got, test.want)
		}
	}
}

func TestProblemValidate(t *testing.T) {
	tests := []struct {
		name    string
		problem Problem
		wantErr bool
	}{
		{
			name:    "open problem",
			problem: Problem{EventID: "1", Severity: SeverityHigh, Raised: raisedAt},
		},
		{
			name:    "resolved after raised",
			problem: Problem{EventID: "2", Severity: SeverityAverage, Raised: raisedAt, Resolved: raisedAt.Add(time.Minute)},
		},
		{
			name:    "resolved same instant",
			problem: Problem{EventID: "3", Severity: SeverityAverage, Raised: raisedAt, Resolved: raisedAt},
		},
		{
			name:    "severity too high",
			problem: Problem{EventID: "4", Severity: Severity(6), Raised: raisedAt},
			wantErr: true,
		},
		{
			name:    "resolved before raised",
			problem: Problem{EventID: "5", Severity: SeverityHigh, Raised: raisedAt, Resolved: raisedAt.Add(-time.Second)},
			wantErr: true,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.problem.Validate()
			if (err != nil) != test.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, test.wantErr)
			}
		})
	}
}

func TestProblemStatusAndTags(t *testing.T) {
	open := Problem{Tags: []Tag{{Tag: "scope", Value: "capacity"}, {Tag: "team", Value: "dba"}}}
	if open.StatusLabel() != "PROBLEM" {
		t.Errorf("open problem status = %q, want PROBLEM", open.StatusLabel())
	}
	if got := open.TagLine(); got != "scope:capacity | team:dba" {
		t.Errorf("TagLine() = %q", got)
	}

	resolved := Problem{Raised: raisedAt, Resolved: raisedAt.Add(time.Hour)}
	if resolved.StatusLabel() != "RESOLVED" {
		t.Errorf("resolved problem status = %q, want RESOLVED", resolved.StatusLabel())
	}
	if got := FormatResolved(resolved, time.UTC); got != "10:30:00" {
		t.Errorf("FormatResolved() = %q, want 10:30:00", got)
	}
	if got := FormatResolved(open, time.UTC); got != "" {
		t.Errorf("FormatResolved(open) = %q, want empty", got)
	}
}

func TestFormatRaised(t *testing.T) {
	now := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)

	if got := FormatRaised(raisedAt, now); got != "09:30:00" {
		t.Errorf("same-day FormatRaised = %q, want 09:30:00", got)
	}
	yesterday := raisedAt.Add(-24 * time.Hour)
	if got := FormatRaised(yesterday, now); got != "2026-03-13 09:30:00" {
		t.Errorf("previous-day FormatRaised = %q, want 2026-03-13 09:30:00", got)
	}
}

func TestEventURL(t *testing.T) {
	problem := Problem{EventID: "4711", TriggerID: "23"}
	tests := []struct {
		base string
		want string
	}{
		{"https://zabbix.example.com", "https://zabbix.example.com/tr_events.php?triggerid=23&eventid=4711"},
		{"https://zabbix.example.com/", "https://zabbix.example.com/tr_events.php?triggerid=23&eventid=4711"},
		{"https://zabbix.example.com/api_jsonrpc.php", "https://zabbix.example.com/tr_events.php?triggerid=23&eventid=4711"},
	}
	for _, test := range tests {
		if got := EventURL(test.base, problem); got != test.want {
			t.Errorf("EventURL(%q) = %q, want %q", test.base, got, test.want)
		}
	}
}
