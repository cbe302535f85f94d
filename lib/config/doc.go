// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads czbx configuration and resolves it against
// command-line flags and the environment.
//
// Three optional files live in the per-user configuration directory
// (see [Dir]):
//
//   - config.yaml: tunables (URL, SSH command template, refresh
//     intervals, severities, time window). Overridden by CZBX_CONFIG
//     or --config; an explicitly named file must exist.
//   - tags.json: the problem tag filter list, JSON with comments and
//     trailing commas allowed. Absent means no tag filtering.
//   - env: dotenv-format variable assignments, loaded into the process
//     environment without overriding variables that are already set.
//     The natural home for ZABBIX_TOKEN.
//
// [Resolve] applies precedence environment > flag > file > default,
// parses durations, and validates the result into [Settings]. The API
// token is only ever read from the environment.
//
// Variable expansion (${HOME}, ${VAR:-default}) is applied to the
// tags_file path after loading.
package config
