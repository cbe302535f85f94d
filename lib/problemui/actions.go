// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package problemui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"
	tea "github.com/charmbracelet/bubbletea"
	"mvdan.cc/sh/v3/shell"
)

// HostPlaceholder is replaced by the host name in an SSH command
// template.
const HostPlaceholder = "{host}"

// DefaultSSHCommand is used when no template is configured.
const DefaultSSHCommand = "ssh"

// Actions performs the side effects that leave the process.
type Actions interface {
	// SSH returns a command that suspends the program, runs an
	// interactive session against host, and reports its exit through
	// done.
	SSH(host string, done tea.ExecCallback) tea.Cmd

	// OpenURL opens url in the desktop browser without waiting for it.
	OpenURL(url string) error

	// Copy places text on the clipboard.
	Copy(text string) error
}

// SystemActions implements Actions against the local machine.
type SystemActions struct {
	// SSHCommand is the shell-style command template. Empty means
	// DefaultSSHCommand.
	SSHCommand string

	// Terminal receives OSC 52 clipboard sequences when no system
	// clipboard is available. Nil opens /dev/tty per copy.
	Terminal io.Writer

	// Getenv resolves variables in the SSH template and the tmux
	// check. Nil means os.Getenv.
	Getenv func(string) string
}

var _ Actions = (*SystemActions)(nil)

func (actions *SystemActions) getenv(name string) string {
	if actions.Getenv == nil {
		return os.Getenv(name)
	}
	return actions.Getenv(name)
}

// SSHArgs expands the template into an argument vector for host.
// Every HostPlaceholder is replaced; without one, host is appended as
// the final argument.
func SSHArgs(template, host string, getenv func(string) string) ([]string, error) {
	if strings.TrimSpace(template) == "" {
		template = DefaultSSHCommand
	}
	fields, err := shell.Fields(template, getenv)
	if err != nil {
		return nil, fmt.Errorf("parsing ssh command %q: %w", template, err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("ssh command %q expands to nothing", template)
	}
	substituted := false
	for index, field := range fields {
		if strings.Contains(field, HostPlaceholder) {
			fields[index] = strings.ReplaceAll(field, HostPlaceholder, host)
			substituted = true
		}
	}
	if !substituted {
		fields = append(fields, host)
	}
	return fields, nil
}

func (actions *SystemActions) SSH(host string, done tea.ExecCallback) tea.Cmd {
	args, err := SSHArgs(actions.SSHCommand, host, actions.getenv)
	if err != nil {
		return func() tea.Msg { return done(err) }
	}
	return tea.ExecProcess(exec.Command(args[0], args[1:]...), done)
}

// browserCommand returns the platform's URL opener.
func browserCommand(goos, url string) *exec.Cmd {
	switch goos {
	case "darwin":
		return exec.Command("open", url)
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return exec.Command("xdg-open", url)
	}
}

func (actions *SystemActions) OpenURL(url string) error {
	opener := browserCommand(runtime.GOOS, url)
	if err := opener.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", opener.Path, err)
	}
	go func() { _ = opener.Wait() }()
	return nil
}

// Copy tries the system clipboard first. When that is unavailable
// (no display, no xclip or wl-copy) it falls back to an OSC 52
// sequence written to the terminal, doubled through tmux passthrough
// when running inside tmux.
func (actions *SystemActions) Copy(text string) error {
	if !clipboard.Unsupported {
		if err := clipboard.WriteAll(text); err == nil {
			return nil
		}
	}
	return actions.copyOSC52(text)
}

func (actions *SystemActions) copyOSC52(text string) error {
	terminal := actions.Terminal
	if terminal == nil {
		tty, err := os.OpenFile("/dev/tty", os.O_WRONLY, 0)
		if err != nil {
			return fmt.Errorf("no clipboard available: %w", err)
		}
		defer tty.Close()
		terminal = tty
	}

	sequence := osc52.New(text)
	var errs []error
	if actions.inTmux() {
		if _, err := sequence.Tmux().WriteTo(terminal); err != nil {
			errs = append(errs, err)
		}
	}
	if _, err := sequence.WriteTo(terminal); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (actions *SystemActions) inTmux() bool {
	term := actions.getenv("TERM")
	return actions.getenv("TMUX") != "" ||
		strings.HasPrefix(term, "tmux") ||
		strings.HasPrefix(term, "screen")
}
