// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package zabbix

import (
	"errors"
	"fmt"
)

// CodeInvalidParams is the JSON-RPC error code Zabbix returns for a
// rejected or expired API token, among other invalid parameters.
const CodeInvalidParams = -32602

// APIError is a JSON-RPC error object returned by the server.
type APIError struct {
	// Method is the API method that failed.
	Method string

	Code    int    `json:"code"`
	Message string `json:"message"`

	// Data carries Zabbix's human-readable detail, usually more
	// useful than Message.
	Data string `json:"data"`
}

func (err *APIError) Error() string {
	if err.Data != "" {
		return fmt.Sprintf("zabbix: %s: %s %s (code %d)", err.Method, err.Message, err.Data, err.Code)
	}
	return fmt.Sprintf("zabbix: %s: %s (code %d)", err.Method, err.Message, err.Code)
}

// IsNotAuthorized reports whether err is the server rejecting the API
// token.
func IsNotAuthorized(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.Code == CodeInvalidParams
}

// HTTPError is a non-2xx HTTP response from the API endpoint, usually
// a proxy or web server problem rather than a Zabbix one.
type HTTPError struct {
	StatusCode int

	// Body is a short excerpt of the response body.
	Body string
}

func (err *HTTPError) Error() string {
	if err.Body == "" {
		return fmt.Sprintf("zabbix: HTTP %d", err.StatusCode)
	}
	return fmt.Sprintf("zabbix: HTTP %d: %s", err.StatusCode, err.Body)
}
