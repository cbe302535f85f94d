// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import "fmt"

// Process exit codes.
const (
	exitFailure      = 1
	exitUsage        = 2
	exitUnauthorized = 3
)

// startupError is a fatal error raised before the dashboard starts.
// It carries the process exit code and an optional hint shown after
// the message.
type startupError struct {
	Code int
	Err  error
	Hint string
}

// Error returns the message, followed by the hint on its own paragraph
// when one is set.
func (e *startupError) Error() string {
	if e.Hint == "" {
		return e.Err.Error()
	}
	return e.Err.Error() + "\n\n" + e.Hint
}

func (e *startupError) Unwrap() error { return e.Err }

// ExitCode returns the process exit code. main checks for this method
// on returned errors.
func (e *startupError) ExitCode() int { return e.Code }

// WithHint sets the hint and returns the receiver for chaining.
func (e *startupError) WithHint(hint string) *startupError {
	e.Hint = hint
	return e
}

// usageError reports bad flags, configuration, or missing credentials.
func usageError(format string, args ...any) *startupError {
	return &startupError{Code: exitUsage, Err: fmt.Errorf(format, args...)}
}

// unauthorizedError reports a token the backend rejected.
func unauthorizedError(format string, args ...any) *startupError {
	return &startupError{Code: exitUnauthorized, Err: fmt.Errorf(format, args...)}
}

// fatalError reports any other startup failure.
func fatalError(format string, args ...any) *startupError {
	return &startupError{Code: exitFailure, Err: fmt.Errorf(format, args...)}
}
