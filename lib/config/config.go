// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/czbx/lib/problem"
)

// Environment variable names.
const (
	EnvURL        = "ZABBIX_URL"
	EnvToken      = "ZABBIX_TOKEN"
	EnvSSHCommand = "CZBX_SSH_CMD"
	EnvConfig     = "CZBX_CONFIG"
)

// Color profile names accepted by the color setting.
var colorModes = []string{"auto", "ansi256", "ansi", "ascii"}

// Config is the on-disk configuration file. Durations are Go duration
// strings ("30s", "2m").
type Config struct {
	// URL is the Zabbix frontend root.
	URL string `yaml:"url"`

	// SSHCommand is the command template run by the SSH key. Every
	// {host} is replaced with the host name; without a placeholder
	// the host is appended.
	SSHCommand string `yaml:"ssh_command"`

	// MaxAge is how old the data may get before any input triggers a
	// refetch. Default: 30s.
	MaxAge string `yaml:"max_age"`

	// IdleTimeout is how long the dashboard waits without input
	// before it refetches. Default: 30s.
	IdleTimeout string `yaml:"idle_timeout"`

	// RequestTimeout bounds each backend request. Default: 20s.
	RequestTimeout string `yaml:"request_timeout"`

	// Severities lists the severities fetched (0-5). Default: 3, 4, 5.
	Severities []int `yaml:"severities"`

	// TimeWindow limits problems to those raised within this duration.
	// Empty means no limit.
	TimeWindow string `yaml:"time_window"`

	// TagsFile is the tag filter list. Default: tags.json in Dir().
	TagsFile string `yaml:"tags_file"`

	// Color forces a color profile: auto, ansi256, ansi, or ascii.
	Color string `yaml:"color"`
}

// Default returns the built-in configuration. The URL has no default.
func Default() *Config {
	return &Config{
		SSHCommand:     "ssh",
		MaxAge:         "30s",
		IdleTimeout:    "30s",
		RequestTimeout: "20s",
		Severities:     []int{3, 4, 5},
		TagsFile:       filepath.Join(Dir(), "tags.json"),
		Color:          "auto",
	}
}

// Dir returns the per-user configuration directory, for example
// ~/.config/czbx on Linux. Falls back to ~/.config/czbx when the
// platform directory cannot be determined.
func Dir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		homeDir, _ := os.UserHomeDir()
		base = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(base, "czbx")
}

// Path returns the configuration file to load and whether it was
// named explicitly (CZBX_CONFIG or flagPath). Explicit files must
// exist; the default file is optional.
func Path(flagPath string, getenv func(string) string) (string, bool) {
	if path := getenv(EnvConfig); path != "" {
		return path, true
	}
	if flagPath != "" {
		return flagPath, true
	}
	return filepath.Join(Dir(), "config.yaml"), false
}

// LoadFile loads configuration from path, merged over Default.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.expandVariables()
	return cfg, nil
}

// Load loads path, returning Default when the file does not exist and
// was not named explicitly.
func Load(path string, explicit bool) (*Config, error) {
	cfg, err := LoadFile(path)
	if err == nil {
		return cfg, nil
	}
	if !explicit && errors.Is(err, os.ErrNotExist) {
		cfg = Default()
		cfg.expandVariables()
		return cfg, nil
	}
	return nil, err
}

func (c *Config) expandVariables() {
	c.TagsFile = expandVars(c.TagsFile, map[string]string{
		"HOME":       os.Getenv("HOME"),
		"CZBX_DIR":   Dir(),
		"CONFIG_DIR": filepath.Dir(Dir()),
	})
}

// varPattern matches ${VAR} and ${VAR:-default}.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Overrides carries values given on the command line. Empty fields
// were not given.
type Overrides struct {
	URL        string
	SSHCommand string
	Color      string
}

// Settings is the fully resolved, validated configuration.
type Settings struct {
	URL            string
	Token          string
	SSHCommand     string
	MaxAge         time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration
	Filter         problem.Filter
	TagsFile       string
	Color          string
}

// Resolve applies precedence environment > flag > file > default and
// validates the result. Tag filters are not loaded here; see LoadTags.
func (c *Config) Resolve(flags Overrides, getenv func(string) string) (*Settings, error) {
	settings := &Settings{
		URL:        firstNonEmpty(getenv(EnvURL), flags.URL, c.URL),
		Token:      getenv(EnvToken),
		SSHCommand: firstNonEmpty(getenv(EnvSSHCommand), flags.SSHCommand, c.SSHCommand, "ssh"),
		TagsFile:   c.TagsFile,
		Color:      firstNonEmpty(flags.Color, c.Color, "auto"),
	}

	var errs []error
	settings.MaxAge = parsePositiveDuration("max_age", c.MaxAge, &errs)
	settings.IdleTimeout = parsePositiveDuration("idle_timeout", c.IdleTimeout, &errs)
	settings.RequestTimeout = parsePositiveDuration("request_timeout", c.RequestTimeout, &errs)
	if c.TimeWindow != "" {
		settings.Filter.Window = parsePositiveDuration("time_window", c.TimeWindow, &errs)
	}

	if len(c.Severities) == 0 {
		settings.Filter.Severities = append([]problem.Severity(nil), problem.DefaultSeverities...)
	}
	for _, value := range c.Severities {
		severity := problem.Severity(value)
		if !severity.Valid() {
			errs = append(errs, fmt.Errorf("severities: %d is not in [0,5]", value))
			continue
		}
		settings.Filter.Severities = append(settings.Filter.Severities, severity)
	}

	if !contains(colorModes, settings.Color) {
		errs = append(errs, fmt.Errorf("color must be one of: %v (got %q)", colorModes, settings.Color))
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return settings, nil
}

// ErrMissingURL and ErrMissingToken are returned by Settings.Validate
// when a required credential is absent.
var (
	ErrMissingURL   = errors.New("no Zabbix URL: set " + EnvURL + " or pass --url")
	ErrMissingToken = errors.New("no Zabbix API token: set " + EnvToken)
)

// Validate checks that the backend credentials are present.
func (s *Settings) Validate() error {
	if s.URL == "" {
		return ErrMissingURL
	}
	if s.Token == "" {
		return ErrMissingToken
	}
	return nil
}

func parsePositiveDuration(field, value string, errs *[]error) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", field, err))
		return 0
	}
	if duration <= 0 {
		*errs = append(*errs, fmt.Errorf("%s must be positive (got %s)", field, value))
		return 0
	}
	return duration
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

func contains(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}
