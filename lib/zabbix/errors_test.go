// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package zabbix

import (
	"errors"
	"fmt"
	"testing"
)

func TestAPIErrorMessage(t *testing.T) {
	withData := &APIError{Method: "problem.get", Code: -32500, Message: "Application error.", Data: "No permissions."}
	if got := withData.Error(); got != "zabbix: problem.get: Application error. No permissions. (code -32500)" {
		t.Errorf("Error() = %q", got)
	}
	bare := &APIError{Method: "trigger.get", Code: -32600, Message: "Invalid request."}
	if got := bare.Error(); got != "zabbix: trigger.get: Invalid request. (code -32600)" {
		t.Errorf("Error() = %q", got)
	}
}

func TestIsNotAuthorized(t *testing.T) {
	rejected := &APIError{Method: "user.checkAuthentication", Code: CodeInvalidParams, Message: "Invalid params."}
	if !IsNotAuthorized(rejected) {
		t.Error("direct APIError not recognized")
	}
	if !IsNotAuthorized(fmt.Errorf("startup: %w", rejected)) {
		t.Error("wrapped APIError not recognized")
	}
	if IsNotAuthorized(&APIError{Code: -32500}) {
		t.Error("application error treated as not authorized")
	}
	if IsNotAuthorized(errors.New("dial tcp: connection refused")) {
		t.Error("transport error treated as not authorized")
	}
}

func TestHTTPErrorMessage(t *testing.T) {
	if got := (&HTTPError{StatusCode: 502, Body: "Bad Gateway"}).Error(); got != "zabbix: HTTP 502: Bad Gateway" {
		t.Errorf("Error() = %q", got)
	}
	if got := (&HTTPError{StatusCode: 500}).Error(); got != "zabbix: HTTP 500" {
		t.Errorf("Error() = %q", got)
	}
}
