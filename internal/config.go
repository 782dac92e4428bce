package internal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigEnvVar names the environment variable that points at a config file
const ConfigEnvVar = "AGENT_TRANSCRIPT_CONFIG"

// Diff view modes
const (
	DiffViewAuto    = "auto"
	DiffViewSplit   = "split"
	DiffViewUnified = "unified"
)

// Config holds the user settings read from config.yaml
type Config struct {
	Width          int         `yaml:"width"`
	Markdown       bool        `yaml:"markdown"`
	MarkdownStyle  string      `yaml:"markdown_style"`
	HighlightStyle string      `yaml:"highlight_style"`
	Diff           DiffConfig  `yaml:"diff"`
	Watch          WatchConfig `yaml:"watch"`
	Log            LogConfig   `yaml:"log"`
}

// DiffConfig controls how diffs are rendered
type DiffConfig struct {
	View         string `yaml:"view"`
	ContextLines int    `yaml:"context_lines"`
}

// WatchConfig controls the live-follow command
type WatchConfig struct {
	Debounce string `yaml:"debounce"`
	// MaxWait caps how long a redraw can be put off by continuous writes
	MaxWait string `yaml:"max_wait"`
}

// LogConfig controls log level and destination
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// DefaultConfig returns the settings used when no config file exists
func DefaultConfig() *Config {
	return &Config{
		Width:          100,
		Markdown:       true,
		MarkdownStyle:  "auto",
		HighlightStyle: "monokai",
		Diff: DiffConfig{
			View:         DiffViewAuto,
			ContextLines: 100,
		},
		Watch: WatchConfig{Debounce: "100ms", MaxWait: "500ms"},
		Log:   LogConfig{Level: "info"},
	}
}

// ConfigDir returns ~/.agent-transcript
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".agent-transcript"), nil
}

// ResolveConfigPath picks the config file location: the explicit path if
// given, then $AGENT_TRANSCRIPT_CONFIG, then ~/.agent-transcript/config.yaml.
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if env := os.Getenv(ConfigEnvVar); env != "" {
		return env, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// LoadConfig resolves the config location and loads it. A missing file
// yields the defaults; a malformed or invalid one is an error.
func LoadConfig(explicit string) (*Config, error) {
	path, err := ResolveConfigPath(explicit)
	if err != nil {
		LogDebug("No config location available: %v", err)
		return DefaultConfig(), nil
	}
	cfg, err := LoadConfigFromPath(path)
	if errors.Is(err, os.ErrNotExist) {
		LogDebug("No config file at %s, using defaults", path)
		return DefaultConfig(), nil
	}
	return cfg, err
}

// LoadConfigFromPath reads one YAML file on top of the defaults
func LoadConfigFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &StorageError{Path: path, Op: "read", Err: err}
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, &ParseError{Source: "config", Key: path, Err: err}
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	LogDebug("Loaded config from %s", path)
	return cfg, nil
}

// SetDefaults fills blank string fields that YAML may have cleared
func (c *Config) SetDefaults() {
	def := DefaultConfig()
	if c.MarkdownStyle == "" {
		c.MarkdownStyle = def.MarkdownStyle
	}
	if c.HighlightStyle == "" {
		c.HighlightStyle = def.HighlightStyle
	}
	if c.Diff.View == "" {
		c.Diff.View = def.Diff.View
	}
	if c.Watch.Debounce == "" {
		c.Watch.Debounce = def.Watch.Debounce
	}
	if c.Watch.MaxWait == "" {
		c.Watch.MaxWait = def.Watch.MaxWait
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	c.Diff.View = strings.ToLower(c.Diff.View)
}

// ValidationError is one rejected config field
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every rejected field
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks field ranges and enumerations
func (c *Config) Validate() error {
	var errs ValidationErrors

	if c.Width < 0 {
		errs = append(errs, ValidationError{
			Field:   "width",
			Message: fmt.Sprintf("must not be negative, got %d", c.Width),
		})
	}

	switch strings.ToLower(c.Diff.View) {
	case DiffViewAuto, DiffViewSplit, DiffViewUnified:
	default:
		errs = append(errs, ValidationError{
			Field:   "diff.view",
			Message: fmt.Sprintf("invalid view '%s', must be one of: auto, split, unified", c.Diff.View),
		})
	}

	if c.Diff.ContextLines < 0 {
		errs = append(errs, ValidationError{
			Field:   "diff.context_lines",
			Message: fmt.Sprintf("must not be negative, got %d", c.Diff.ContextLines),
		})
	}

	if d, err := time.ParseDuration(c.Watch.Debounce); err != nil || d < 0 {
		errs = append(errs, ValidationError{
			Field:   "watch.debounce",
			Message: fmt.Sprintf("invalid duration '%s'", c.Watch.Debounce),
		})
	}
	if d, err := time.ParseDuration(c.Watch.MaxWait); err != nil || d < 0 {
		errs = append(errs, ValidationError{
			Field:   "watch.max_wait",
			Message: fmt.Sprintf("invalid duration '%s'", c.Watch.MaxWait),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// DebounceDuration returns the watch debounce, 100ms if unparseable
func (c *Config) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil || d < 0 {
		return 100 * time.Millisecond
	}
	return d
}

// MaxWaitDuration returns the longest a redraw is delayed while writes keep
// arriving, 500ms if unparseable. It is never shorter than the debounce.
func (c *Config) MaxWaitDuration() time.Duration {
	d, err := time.ParseDuration(c.Watch.MaxWait)
	if err != nil || d < 0 {
		d = 500 * time.Millisecond
	}
	return max(d, c.DebounceDuration())
}
