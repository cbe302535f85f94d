// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package zabbix

import (
	"fmt"
	"strconv"
	"time"

	"github.com/bureau-foundation/czbx/lib/problem"
)

// Zabbix encodes every scalar as a JSON string, including numbers and
// flags. These types mirror the wire shape; decode* converts them to
// the model and validates.

type wireProblem struct {
	EventID      string        `json:"eventid"`
	ObjectID     string        `json:"objectid"`
	Severity     string        `json:"severity"`
	Clock        string        `json:"clock"`
	RClock       string        `json:"r_clock"`
	Acknowledged string        `json:"acknowledged"`
	Name         string        `json:"name"`
	Tags         []problem.Tag `json:"tags"`
}

type wireHost struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

type wireItem struct {
	Status    string `json:"status"`
	LastValue string `json:"lastvalue"`
	Units     string `json:"units"`
}

type wireTrigger struct {
	TriggerID string     `json:"triggerid"`
	Status    string     `json:"status"`
	Hosts     []wireHost `json:"hosts"`
	Items     []wireItem `json:"items"`
}

func decodeProblem(wire wireProblem) (problem.Problem, error) {
	if wire.EventID == "" {
		return problem.Problem{}, fmt.Errorf("problem without eventid")
	}
	severity, err := strconv.Atoi(wire.Severity)
	if err != nil {
		return problem.Problem{}, fmt.Errorf("problem %s: severity %q: %w", wire.EventID, wire.Severity, err)
	}
	raised, err := parseUnix(wire.Clock)
	if err != nil {
		return problem.Problem{}, fmt.Errorf("problem %s: clock: %w", wire.EventID, err)
	}
	resolved, err := parseUnix(wire.RClock)
	if err != nil {
		return problem.Problem{}, fmt.Errorf("problem %s: r_clock: %w", wire.EventID, err)
	}

	decoded := problem.Problem{
		EventID:      wire.EventID,
		TriggerID:    wire.ObjectID,
		Severity:     problem.Severity(severity),
		Raised:       raised,
		Resolved:     resolved,
		Acknowledged: wire.Acknowledged == "1",
		Name:         wire.Name,
		Tags:         wire.Tags,
	}
	if err := decoded.Validate(); err != nil {
		return problem.Problem{}, err
	}
	return decoded, nil
}

func decodeTrigger(wire wireTrigger) (problem.Trigger, error) {
	status, err := parseStatus(wire.Status)
	if err != nil {
		return problem.Trigger{}, fmt.Errorf("trigger %s: status: %w", wire.TriggerID, err)
	}
	decoded := problem.Trigger{
		ID:     wire.TriggerID,
		Status: status,
		Hosts:  make([]problem.Host, 0, len(wire.Hosts)),
		Items:  make([]problem.Item, 0, len(wire.Items)),
	}
	for _, host := range wire.Hosts {
		hostStatus, err := parseStatus(host.Status)
		if err != nil {
			return problem.Trigger{}, fmt.Errorf("trigger %s: host %q status: %w", wire.TriggerID, host.Name, err)
		}
		decoded.Hosts = append(decoded.Hosts, problem.Host{Name: host.Name, Status: hostStatus})
	}
	for _, item := range wire.Items {
		itemStatus, err := parseStatus(item.Status)
		if err != nil {
			return problem.Trigger{}, fmt.Errorf("trigger %s: item status: %w", wire.TriggerID, err)
		}
		decoded.Items = append(decoded.Items, problem.Item{
			Status:    itemStatus,
			LastValue: item.LastValue,
			Units:     item.Units,
		})
	}
	return decoded, nil
}

// parseUnix converts a decimal seconds string. "0" and "" decode to
// the zero time, which the model reads as "not set".
func parseUnix(value string) (time.Time, error) {
	if value == "" || value == "0" {
		return time.Time{}, nil
	}
	seconds, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(seconds, 0), nil
}

func parseStatus(value string) (problem.Status, error) {
	status, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return problem.Status(status), nil
}
