// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// czbx is an interactive terminal dashboard for Zabbix problems. It
// polls the Zabbix JSON-RPC API for active problems, shows them as a
// scrollable, pannable table, and lets the operator triage them:
// tag, acknowledge, open in a browser, copy the event link, or SSH to
// the affected host.
//
// Credentials come from the environment (ZABBIX_URL, ZABBIX_TOKEN),
// optionally seeded from the dotenv file "env" in the czbx
// configuration directory. See --help for flags and files.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/bureau-foundation/czbx/lib/config"
	"github.com/bureau-foundation/czbx/lib/problemui"
	"github.com/bureau-foundation/czbx/lib/refresh"
	"github.com/bureau-foundation/czbx/lib/version"
	"github.com/bureau-foundation/czbx/lib/zabbix"
)

const programName = "czbx"

func main() {
	if err := run(os.Args[1:], os.Getenv); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		os.Exit(exitFailure)
	}
}

// options holds the parsed command line.
type options struct {
	URL        string
	SSHCommand string
	ConfigPath string
	LogOutput  string
	Color      string
	Help       bool
}

func newFlagSet(opts *options) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet(programName, pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVarP(&opts.URL, "url", "u", "", "Zabbix frontend URL (overridden by $"+config.EnvURL+")")
	flagSet.StringVarP(&opts.SSHCommand, "ssh-command", "s", "",
		"command run by the s key; {host} is replaced by the host name (overridden by $"+config.EnvSSHCommand+")")
	flagSet.StringVar(&opts.ConfigPath, "config", "", "configuration file (default: "+filepath.Join(config.Dir(), "config.yaml")+")")
	flagSet.StringVar(&opts.LogOutput, "log-output", "", "write JSON log records to this file")
	flagSet.StringVar(&opts.Color, "color", "", "color profile: auto, ansi256, ansi, or ascii")
	flagSet.BoolVarP(&opts.Help, "help", "h", false, "show help")
	return flagSet
}

// parseOptions parses args. Positional arguments are rejected.
func parseOptions(args []string) (options, *pflag.FlagSet, error) {
	var opts options
	flagSet := newFlagSet(&opts)
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			opts.Help = true
			return opts, flagSet, nil
		}
		return opts, flagSet, usageError("%w", err).WithHint("Run 'czbx --help' for usage.")
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return opts, flagSet, usageError("unexpected argument: %s", rest[0])
	}
	return opts, flagSet, nil
}

func run(args []string, getenv func(string) string) error {
	// Handle --version before flag parsing to match the usual
	// "program --version" contract even when other flags are bad.
	if len(args) > 0 && args[0] == "--version" {
		version.Print(os.Stdout, programName)
		return nil
	}

	opts, flagSet, err := parseOptions(args)
	if err != nil {
		return err
	}
	if opts.Help {
		printHelp(flagSet)
		return nil
	}

	envFile := filepath.Join(config.Dir(), "env")
	if err := config.LoadEnvFile(envFile); err != nil {
		return usageError("%w", err)
	}

	configPath, explicit := config.Path(opts.ConfigPath, getenv)
	fileConfig, err := config.Load(configPath, explicit)
	if err != nil {
		return usageError("loading configuration: %w", err)
	}
	settings, err := fileConfig.Resolve(config.Overrides{
		URL:        opts.URL,
		SSHCommand: opts.SSHCommand,
		Color:      opts.Color,
	}, getenv)
	if err != nil {
		return usageError("invalid configuration in %s: %w", configPath, err)
	}
	if err := settings.Validate(); err != nil {
		return usageError("%w", err).
			WithHint("Export " + config.EnvURL + " and " + config.EnvToken + ", or put them in " + envFile + ".")
	}

	tags, err := config.LoadTags(settings.TagsFile)
	if err != nil {
		return usageError("loading tag filters: %w", err)
	}
	settings.Filter.Tags = tags

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fatalError("standard input is not a terminal")
	}

	logger := newCommandLogger(os.Stderr, slog.LevelInfo)

	// Background logging goes to the status line while the dashboard
	// runs, and to --log-output when given. Writing to stderr would
	// corrupt the alternate screen.
	tuiHandler := problemui.NewTUILogHandler(slog.LevelWarn)
	var backgroundHandler slog.Handler = tuiHandler
	if opts.LogOutput != "" {
		fileHandler, fileCloser, err := openFileLogHandler(opts.LogOutput)
		if err != nil {
			return usageError("cannot open log file %s: %w", opts.LogOutput, err)
		}
		defer fileCloser.Close()
		backgroundHandler = fanoutHandler{tuiHandler, fileHandler}
	}
	backgroundLogger := slog.New(backgroundHandler)

	client, err := zabbix.NewClient(zabbix.Config{
		URL:        settings.URL,
		Token:      settings.Token,
		HTTPClient: &http.Client{Timeout: settings.RequestTimeout},
		Logger:     backgroundLogger.With("component", "zabbix"),
	})
	if err != nil {
		return usageError("%w", err)
	}

	scheduler := refresh.New(refresh.Config{
		MaxAge:      settings.MaxAge,
		IdleTimeout: settings.IdleTimeout,
		Logger:      backgroundLogger.With("component", "refresh"),
	})
	current, err := startSession(client, scheduler, settings.Filter, settings.RequestTimeout, logger)
	if err != nil {
		return err
	}

	applyColorProfile(settings.Color)

	model := problemui.NewModel(problemui.Config{
		Session:        current,
		Scheduler:      scheduler,
		Fetcher:        client,
		Acknowledger:   client,
		Actions:        &problemui.SystemActions{SSHCommand: settings.SSHCommand},
		Filter:         settings.Filter,
		BaseURL:        client.BaseURL(),
		RequestTimeout: settings.RequestTimeout,
		Logger:         backgroundLogger,
	})
	program := tea.NewProgram(model, tea.WithAltScreen())
	tuiHandler.SetProgram(program)

	_, err = program.Run()
	return err
}

// colorProfile maps the color setting to a termenv profile. The
// second result is false for "auto", which keeps lipgloss's own
// terminal detection.
func colorProfile(mode string) (termenv.Profile, bool) {
	switch mode {
	case "ansi256":
		return termenv.ANSI256, true
	case "ansi":
		return termenv.ANSI, true
	case "ascii":
		return termenv.Ascii, true
	}
	return termenv.TrueColor, false
}

func applyColorProfile(mode string) {
	if profile, ok := colorProfile(mode); ok {
		lipgloss.SetColorProfile(profile)
	}
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `czbx: terminal dashboard for Zabbix problems.

Shows problems of severity Average and above, newest first, and
refreshes them every 30 seconds or on demand. Press ? inside the
dashboard for the key bindings.

Usage:
  czbx [flags]

Environment:
  %-14s Zabbix frontend URL, e.g. https://zabbix.example.com
  %-14s Zabbix API token
  %-14s command run by the s key (default: ssh)
  %-14s configuration file

Files (in %s):
  config.yaml    optional settings: url, ssh_command, max_age,
                 idle_timeout, request_timeout, severities, time_window
  tags.json      optional tag filter list (JSON with comments)
  env            optional KEY=value file loaded into the environment

Examples:
  # Use credentials from the environment
  ZABBIX_URL=https://zabbix.example.com ZABBIX_TOKEN=... czbx

  # Log in as root and attach to tmux on the selected host
  czbx --ssh-command 'ssh -t root@{host} tmux new -A'

Flags:
`, config.EnvURL, config.EnvToken, config.EnvSSHCommand, config.EnvConfig, config.Dir())
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
