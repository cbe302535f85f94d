// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package problem

import "strings"

// Status is the backend's enabled/disabled flag for triggers, hosts,
// and items. The backend encodes enabled as 0.
type Status int

const (
	StatusEnabled  Status = 0
	StatusDisabled Status = 1
)

// Host is the monitored host that owns a trigger.
type Host struct {
	Name   string
	Status Status
}

// Item is one monitored item referenced by a trigger expression.
type Item struct {
	Status    Status
	LastValue string
	Units     string
}

// Trigger is the rule definition that produced a problem.
type Trigger struct {
	ID     string
	Status Status

	// Hosts lists the hosts referenced by the trigger. The first one
	// is the owning host; the backend always returns at least one for
	// a host-level trigger.
	Hosts []Host

	Items []Item
}

// Host returns the owning host. A trigger without hosts returns the
// zero Host.
func (trigger Trigger) Host() Host {
	if len(trigger.Hosts) == 0 {
		return Host{}
	}
	return trigger.Hosts[0]
}

// Enabled reports whether the trigger, its owning host, and every one
// of its items are enabled. Only problems of enabled triggers are
// displayable.
func (trigger Trigger) Enabled() bool {
	if trigger.Status != StatusEnabled {
		return false
	}
	if len(trigger.Hosts) == 0 || trigger.Hosts[0].Status != StatusEnabled {
		return false
	}
	for _, item := range trigger.Items {
		if item.Status != StatusEnabled {
			return false
		}
	}
	return true
}

// OperationalData renders the trigger's item values for the header
// line: "93.2 %, 17 GB". Items without units show the bare value.
func (trigger Trigger) OperationalData() string {
	parts := make([]string, 0, len(trigger.Items))
	for _, item := range trigger.Items {
		value := item.LastValue
		if item.Units != "" {
			value += " " + item.Units
		}
		parts = append(parts, value)
	}
	return strings.Join(parts, ", ")
}
