// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/tidwall/jsonc"

	"github.com/bureau-foundation/czbx/lib/problem"
)

// maxTagOperator is the largest tag comparison operator the backend
// defines (5, "not exists").
const maxTagOperator = 5

// LoadTags reads the tag filter list from path. A missing file yields
// an empty list. Comments and trailing commas are accepted.
func LoadTags(path string) ([]problem.TagFilter, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var tags []problem.TagFilter
	if err := json.Unmarshal(jsonc.ToJSON(data), &tags); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	for index, tag := range tags {
		if tag.Tag == "" {
			return nil, fmt.Errorf("%s: entry %d has no tag name", path, index)
		}
		if tag.Operator < 0 || tag.Operator > maxTagOperator {
			return nil, fmt.Errorf("%s: entry %d (%s): operator %d not in [0,%d]",
				path, index, tag.Tag, tag.Operator, maxTagOperator)
		}
	}
	return tags, nil
}

// LoadEnvFile loads dotenv assignments from path into the process
// environment. Variables that are already set keep their values. A
// missing file is not an error.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}
