// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package zabbix

import (
	"context"
	"fmt"

	"github.com/bureau-foundation/czbx/lib/problem"
)

type problemGetParams struct {
	Recent     bool                `json:"recent"`
	Severities []int               `json:"severities"`
	SortField  string              `json:"sortfield"`
	SortOrder  string              `json:"sortorder"`
	Suppressed bool                `json:"suppressed"`
	Tags       []problem.TagFilter `json:"tags,omitempty"`
	SelectTags string              `json:"selectTags"`
	TimeFrom   int64               `json:"time_from,omitempty"`
}

type triggerGetParams struct {
	TriggerIDs  []string `json:"triggerids"`
	Output      []string `json:"output"`
	SelectHosts []string `json:"selectHosts"`
	SelectItems []string `json:"selectItems"`
}

type acknowledgeParams struct {
	EventIDs []string `json:"eventids"`
	Action   int      `json:"action"`
	Message  string   `json:"message,omitempty"`
}

// messageFlag is the acknowledge action bit that adds a message.
const messageFlag = 4

// Problems returns the problems matching filter, newest first.
// Records that fail validation are skipped with a warning.
func (client *Client) Problems(ctx context.Context, filter problem.Filter) ([]problem.Problem, error) {
	severities := filter.Severities
	if len(severities) == 0 {
		severities = problem.DefaultSeverities
	}
	params := problemGetParams{
		Recent:     true,
		Severities: make([]int, len(severities)),
		SortField:  "eventid",
		SortOrder:  "DESC",
		Suppressed: false,
		Tags:       filter.Tags,
		SelectTags: "extend",
	}
	for index, severity := range severities {
		params.Severities[index] = int(severity)
	}
	if filter.Window > 0 {
		params.TimeFrom = client.clock.Now().Add(-filter.Window).Unix()
	}

	var records []wireProblem
	if err := client.call(ctx, "problem.get", params, &records); err != nil {
		return nil, err
	}

	problems := make([]problem.Problem, 0, len(records))
	for _, record := range records {
		decoded, err := decodeProblem(record)
		if err != nil {
			client.logger.Warn("skipping malformed problem", "eventid", record.EventID, "error", err)
			continue
		}
		problems = append(problems, decoded)
	}
	return problems, nil
}

// Triggers returns trigger metadata (owning hosts and items) for the
// given identifiers. An empty list makes no request.
func (client *Client) Triggers(ctx context.Context, triggerIDs []string) ([]problem.Trigger, error) {
	if len(triggerIDs) == 0 {
		return nil, nil
	}
	params := triggerGetParams{
		TriggerIDs:  triggerIDs,
		Output:      []string{"triggerid", "status"},
		SelectHosts: []string{"name", "status"},
		SelectItems: []string{"status", "lastvalue", "units"},
	}

	var records []wireTrigger
	if err := client.call(ctx, "trigger.get", params, &records); err != nil {
		return nil, err
	}

	triggers := make([]problem.Trigger, 0, len(records))
	for _, record := range records {
		decoded, err := decodeTrigger(record)
		if err != nil {
			client.logger.Warn("skipping malformed trigger", "triggerid", record.TriggerID, "error", err)
			continue
		}
		triggers = append(triggers, decoded)
	}
	return triggers, nil
}

// Fetch queries problems and their triggers and builds a snapshot
// stamped with the time the fetch started.
func (client *Client) Fetch(ctx context.Context, filter problem.Filter) (problem.Snapshot, error) {
	fetchedAt := client.clock.Now()

	problems, err := client.Problems(ctx, filter)
	if err != nil {
		return problem.Snapshot{}, err
	}

	seen := make(map[string]struct{}, len(problems))
	triggerIDs := make([]string, 0, len(problems))
	for _, candidate := range problems {
		if _, duplicate := seen[candidate.TriggerID]; duplicate {
			continue
		}
		seen[candidate.TriggerID] = struct{}{}
		triggerIDs = append(triggerIDs, candidate.TriggerID)
	}

	triggers, err := client.Triggers(ctx, triggerIDs)
	if err != nil {
		return problem.Snapshot{}, err
	}

	snapshot := problem.NewSnapshot(problems, triggers, fetchedAt)
	if dropped := len(problems) - snapshot.Len(); dropped > 0 {
		client.logger.Debug("hid problems of disabled triggers", "count", dropped)
	}
	return snapshot, nil
}

// Acknowledge changes the acknowledgement of one event. The message
// is sent only when action includes the add-message flag.
func (client *Client) Acknowledge(ctx context.Context, eventID string, action problem.AckAction, message string) error {
	if eventID == "" {
		return fmt.Errorf("zabbix: acknowledge: event id is required")
	}
	params := acknowledgeParams{
		EventIDs: []string{eventID},
		Action:   int(action),
	}
	if int(action)&messageFlag != 0 {
		params.Message = message
	}
	return client.call(ctx, "event.acknowledge", params, nil)
}

var (
	_ problem.Fetcher      = (*Client)(nil)
	_ problem.Acknowledger = (*Client)(nil)
)
