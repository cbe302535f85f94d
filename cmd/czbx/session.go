// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/bureau-foundation/czbx/lib/config"
	"github.com/bureau-foundation/czbx/lib/problem"
	"github.com/bureau-foundation/czbx/lib/refresh"
	"github.com/bureau-foundation/czbx/lib/session"
	"github.com/bureau-foundation/czbx/lib/zabbix"
)

// startSession verifies the token, logs the server's API version, and
// performs the initial fetch. Each request gets its own timeout.
// Errors are startupErrors carrying the process exit code.
func startSession(client *zabbix.Client, scheduler *refresh.Scheduler, filter problem.Filter, timeout time.Duration, logger *slog.Logger) (*session.Session, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	err := client.CheckAuthentication(ctx)
	cancel()
	if err != nil {
		if zabbix.IsNotAuthorized(err) {
			return nil, unauthorizedError("Not Authorized. Check your %s and %s", config.EnvToken, config.EnvURL)
		}
		return nil, fatalError("cannot reach Zabbix at %s: %w", client.BaseURL(), err)
	}

	ctx, cancel = context.WithTimeout(context.Background(), timeout)
	apiVersion, err := client.APIVersion(ctx)
	cancel()
	if err == nil {
		logger.Info("connected", "url", client.BaseURL(), "api_version", apiVersion.String())
	}

	ctx, cancel = context.WithTimeout(context.Background(), timeout)
	defer cancel()
	current, err := scheduler.Initial(ctx, client, filter)
	if err != nil {
		return nil, fatalError("%w", err)
	}
	return current, nil
}
