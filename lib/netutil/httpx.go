// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil bounds reads of HTTP response bodies.
//
// The backend client reads whole JSON-RPC responses into memory before
// decoding them. ReadResponse caps that read at MaxResponseSize so a
// misbehaving proxy or server cannot exhaust memory, and ErrorBody
// produces a short single-line excerpt of a failed response for error
// messages that end up on a one-line status bar.
package netutil

import (
	"io"
	"strings"
)

// MaxResponseSize is the bound on response body reads: 64 MB. A full
// problem list with tags and trigger metadata for a large installation
// is a few megabytes.
const MaxResponseSize int64 = 64 << 20

// maxErrorExcerpt is the longest body excerpt ErrorBody returns.
const maxErrorExcerpt = 200

// ReadResponse reads a response body up to MaxResponseSize bytes.
func ReadResponse(body io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(body, MaxResponseSize))
}

// ErrorBody reads an error response body and returns a whitespace-
// collapsed excerpt of at most 200 bytes. Read errors are ignored; a
// partial body is still useful in an error message.
func ErrorBody(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, maxErrorExcerpt*4))
	excerpt := strings.Join(strings.Fields(string(data)), " ")
	if len(excerpt) > maxErrorExcerpt {
		excerpt = excerpt[:maxErrorExcerpt] + "..."
	}
	return excerpt
}
