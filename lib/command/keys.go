// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Binding pairs a key binding with the command it produces.
type Binding struct {
	Kind    Kind
	Binding key.Binding
}

// KeyMap is the key-to-command lookup table. Lookup walks the
// bindings in order and returns the first match.
type KeyMap struct {
	Bindings []Binding
}

// DefaultKeyMap is the built-in binding set: vim-style movement
// alongside arrow keys, plus single-letter actions.
var DefaultKeyMap = KeyMap{Bindings: []Binding{
	{Quit, key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	)},
	{ShowHelp, key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "show this help"),
	)},
	{MoveDown, key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "move down"),
	)},
	{MoveUp, key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "move up"),
	)},
	{PanLeft, key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "scroll left"),
	)},
	{PanRight, key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "scroll right"),
	)},
	{PanReset, key.NewBinding(
		key.WithKeys("0"),
		key.WithHelp("0", "scroll to first column"),
	)},
	{PageDown, key.NewBinding(
		key.WithKeys("ctrl+f", "pgdown"),
		key.WithHelp("^F/PgDn", "page down"),
	)},
	{PageUp, key.NewBinding(
		key.WithKeys("ctrl+b", "pgup"),
		key.WithHelp("^B/PgUp", "page up"),
	)},
	{ClearScreen, key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("^L", "redraw screen"),
	)},
	{ToggleDebug, key.NewBinding(
		key.WithKeys("D"),
		key.WithHelp("D", "toggle debug line"),
	)},
	{ForceRefresh, key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh now"),
	)},
	{SSH, key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "ssh to host"),
	)},
	{OpenInBrowser, key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "open problem in browser"),
	)},
	{CopyURL, key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy problem URL"),
	)},
	{ToggleTag, key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "tag/untag problem"),
	)},
	{TagByPattern, key.NewBinding(
		key.WithKeys("T"),
		key.WithHelp("T", "tag problems matching"),
	)},
	{UntagByPattern, key.NewBinding(
		key.WithKeys("ctrl+t"),
		key.WithHelp("^T", "untag problems matching"),
	)},
	{AcknowledgeWithMessage, key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "acknowledge with message"),
	)},
	{ToggleAcknowledge, key.NewBinding(
		key.WithKeys("A"),
		key.WithHelp("A", "acknowledge/unacknowledge"),
	)},
	{ShowVersion, key.NewBinding(
		key.WithKeys("V"),
		key.WithHelp("V", "show version"),
	)},
}}

// Lookup returns the command kind bound to msg.
func (keyMap KeyMap) Lookup(msg tea.KeyMsg) (Kind, bool) {
	for _, binding := range keyMap.Bindings {
		if key.Matches(msg, binding.Binding) {
			return binding.Kind, true
		}
	}
	return 0, false
}

// Help returns the help entries in table order, for the help popup.
func (keyMap KeyMap) Help() []key.Help {
	entries := make([]key.Help, 0, len(keyMap.Bindings))
	for _, binding := range keyMap.Bindings {
		entries = append(entries, binding.Binding.Help())
	}
	return entries
}
