// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"bytes"
	"strings"
	"testing"
)

func TestInfoMarksDirtyBuilds(t *testing.T) {
	originalDirty, originalCommit := GitDirty, GitCommit
	defer func() { GitDirty, GitCommit = originalDirty, originalCommit }()

	GitCommit = "abc1234"
	GitDirty = "true"
	if got := Info(); !strings.Contains(got, "abc1234-dirty") {
		t.Errorf("Info() = %q, want it to contain abc1234-dirty", got)
	}

	GitDirty = "false"
	if got := Info(); strings.Contains(got, "-dirty") {
		t.Errorf("Info() = %q, should not be marked dirty", got)
	}
}

func TestPrint(t *testing.T) {
	var buffer bytes.Buffer
	Print(&buffer, "czbx")
	output := buffer.String()
	if !strings.HasPrefix(output, "czbx "+Version) {
		t.Errorf("Print output %q should start with program and version", output)
	}
	if !strings.Contains(output, "Go: ") {
		t.Errorf("Print output %q should include the Go version", output)
	}
}
