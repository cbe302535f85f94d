// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package command

import "fmt"

// Kind identifies one operator command. The set is closed; the zero
// value is not a valid command.
type Kind int

const (
	Quit Kind = iota + 1
	Resize
	ToggleDebug
	MoveUp
	MoveDown
	PanLeft
	PanRight
	PanReset
	PageDown
	PageUp
	ClearScreen
	ForceRefresh
	SSH
	OpenInBrowser
	CopyURL
	ToggleTag
	TagByPattern
	UntagByPattern
	ToggleAcknowledge
	AcknowledgeWithMessage
	ShowVersion
	ShowHelp
	IdleTimeout
)

var kindNames = map[Kind]string{
	Quit:                   "quit",
	Resize:                 "resize",
	ToggleDebug:            "toggle-debug",
	MoveUp:                 "move-up",
	MoveDown:               "move-down",
	PanLeft:                "pan-left",
	PanRight:               "pan-right",
	PanReset:               "pan-reset",
	PageDown:               "page-down",
	PageUp:                 "page-up",
	ClearScreen:            "clear-screen",
	ForceRefresh:           "force-refresh",
	SSH:                    "ssh",
	OpenInBrowser:          "open-in-browser",
	CopyURL:                "copy-url",
	ToggleTag:              "toggle-tag",
	TagByPattern:           "tag-by-pattern",
	UntagByPattern:         "untag-by-pattern",
	ToggleAcknowledge:      "toggle-acknowledge",
	AcknowledgeWithMessage: "acknowledge-with-message",
	ShowVersion:            "show-version",
	ShowHelp:               "show-help",
	IdleTimeout:            "idle-timeout",
}

func (kind Kind) String() string {
	if name, ok := kindNames[kind]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(kind))
}

// NeedsText reports whether the command takes a line of operator
// input before it can be dispatched.
func (kind Kind) NeedsText() bool {
	return kind.Prompt() != ""
}

// Prompt is the label shown in front of the line editor for kinds
// that need text, or "" for kinds that do not.
func (kind Kind) Prompt() string {
	switch kind {
	case TagByPattern:
		return "Tag problems matching: "
	case UntagByPattern:
		return "Untag problems matching: "
	case AcknowledgeWithMessage:
		return "ACK Message: "
	default:
		return ""
	}
}

// Command is one decoded operator command. Text and Cancelled are
// meaningful only for kinds where NeedsText is true.
type Command struct {
	Kind Kind

	// Text is the line the operator entered.
	Text string

	// Cancelled is set when the operator left the line editor
	// without confirming.
	Cancelled bool
}
