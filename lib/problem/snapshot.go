// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package problem

import (
	"cmp"
	"slices"
	"strconv"
	"time"
	"unicode/utf8"
)

// Snapshot is an immutable fetched view of the displayable problems
// and their trigger metadata. Construct with NewSnapshot; the zero
// value is an empty snapshot fetched at the zero time.
type Snapshot struct {
	problems  []Problem
	triggers  map[string]Trigger
	fetchedAt time.Time
}

// NewSnapshot builds a snapshot from raw backend results. Problems
// whose trigger is missing or not fully enabled are dropped, and the
// remainder is ordered by event identifier, newest (largest) first.
// The input slices are not retained.
func NewSnapshot(problems []Problem, triggers []Trigger, fetchedAt time.Time) Snapshot {
	triggerMap := make(map[string]Trigger, len(triggers))
	for _, trigger := range triggers {
		triggerMap[trigger.ID] = trigger
	}

	displayable := make([]Problem, 0, len(problems))
	for _, problem := range problems {
		trigger, exists := triggerMap[problem.TriggerID]
		if !exists || !trigger.Enabled() {
			continue
		}
		displayable = append(displayable, problem)
	}

	slices.SortStableFunc(displayable, func(a, b Problem) int {
		return compareEventIDs(b.EventID, a.EventID)
	})

	return Snapshot{
		problems:  displayable,
		triggers:  triggerMap,
		fetchedAt: fetchedAt,
	}
}

// compareEventIDs orders event identifiers numerically when both
// parse as integers, falling back to length-then-lexical order so
// that "10" sorts after "9" even for non-numeric identifiers of mixed
// width.
func compareEventIDs(a, b string) int {
	numberA, errA := strconv.ParseUint(a, 10, 64)
	numberB, errB := strconv.ParseUint(b, 10, 64)
	if errA == nil && errB == nil {
		return cmp.Compare(numberA, numberB)
	}
	if len(a) != len(b) {
		return cmp.Compare(len(a), len(b))
	}
	return cmp.Compare(a, b)
}

// Len returns the number of displayable problems.
func (snapshot Snapshot) Len() int { return len(snapshot.problems) }

// Problems returns the displayable problems in display order. The
// returned slice is shared with the snapshot and must not be modified.
func (snapshot Snapshot) Problems() []Problem { return snapshot.problems }

// At returns the problem at a display position.
func (snapshot Snapshot) At(index int) (Problem, bool) {
	if index < 0 || index >= len(snapshot.problems) {
		return Problem{}, false
	}
	return snapshot.problems[index], true
}

// Trigger looks up trigger metadata by identifier.
func (snapshot Snapshot) Trigger(triggerID string) (Trigger, bool) {
	trigger, exists := snapshot.triggers[triggerID]
	return trigger, exists
}

// FetchedAt returns the wall-clock time the snapshot was fetched.
func (snapshot Snapshot) FetchedAt() time.Time { return snapshot.fetchedAt }

// HostWidth returns the widest owning-host name among the displayable
// problems, in runes. Used to align the host column.
func (snapshot Snapshot) HostWidth() int {
	width := 0
	for _, problem := range snapshot.problems {
		trigger := snapshot.triggers[problem.TriggerID]
		width = max(width, utf8.RuneCountInString(trigger.Host().Name))
	}
	return width
}
