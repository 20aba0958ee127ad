// Package config holds the termdesk application settings.
//
// Settings come from, in increasing precedence: built-in defaults, a TOML
// file, and TERMDESK_* environment variables. Command-line flags are
// applied on top by the caller.
//
//	tick_interval = "25ms"
//	log_level = "info"
//	log_file = "/tmp/termdesk.log"
//	shortcut_dir = "~/.config/termdesk/shortcuts"
//	default_arrangement = "grid"
//
//	[keys]
//	next_window = "F6"
//	close_window = "Ctrl+F4"
//	cycle_arrangement = "F7"
//	open_menu = "F10"
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/termdesk/internal/input/key"
	"github.com/dshills/termdesk/internal/layout"
)

// DefaultTickInterval is the pane refresh period.
const DefaultTickInterval = 25 * time.Millisecond

// Tick interval bounds.
const (
	MinTickInterval = time.Millisecond
	MaxTickInterval = time.Second
)

// Duration is a time.Duration written as a Go duration string in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Keys are the desktop hotkeys, written as key specs ("Ctrl+F4", "<A-n>").
type Keys struct {
	NextWindow       string `toml:"next_window"`
	CloseWindow      string `toml:"close_window"`
	CycleArrangement string `toml:"cycle_arrangement"`
	OpenMenu         string `toml:"open_menu"`
}

// Config is the application configuration.
type Config struct {
	TickInterval       Duration `toml:"tick_interval"`
	LogLevel           string   `toml:"log_level"`
	LogFile            string   `toml:"log_file"`
	ShortcutDir        string   `toml:"shortcut_dir"`
	DefaultArrangement string   `toml:"default_arrangement"`
	Keys               Keys     `toml:"keys"`

	// Source is the file the configuration was read from, empty when only
	// defaults and environment were used.
	Source string `toml:"-"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		TickInterval:       Duration{DefaultTickInterval},
		LogLevel:           "info",
		ShortcutDir:        ".",
		DefaultArrangement: layout.None.String(),
		Keys: Keys{
			NextWindow:       "F6",
			CloseWindow:      "Ctrl+F4",
			CycleArrangement: "F7",
			OpenMenu:         "F10",
		},
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "termdesk", "config.toml")
}

// Load reads path over the defaults and applies environment overrides. A
// missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := cfg.decode(path, data); err != nil {
				return nil, err
			}
			cfg.Source = path
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes TOML data over the defaults without consulting the
// environment. source names the data in errors.
func Parse(source string, data []byte) (*Config, error) {
	cfg := Default()
	if err := cfg.decode(source, data); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(source string, data []byte) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		perr := &ParseError{Path: source, Message: err.Error(), Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		return perr
	}
	return nil
}

// Arrangement returns the parsed default arrangement.
func (c *Config) Arrangement() layout.Arrangement {
	a, _ := layout.ParseArrangement(c.DefaultArrangement)
	return a
}

// Validate checks every setting.
func (c *Config) Validate() error {
	var errs []error

	if d := c.TickInterval.Duration; d < MinTickInterval || d > MaxTickInterval {
		errs = append(errs, &ValidationError{
			Setting: "tick_interval",
			Value:   d,
			Message: fmt.Sprintf("must be between %v and %v", MinTickInterval, MaxTickInterval),
		})
	}

	if _, err := layout.ParseArrangement(c.DefaultArrangement); err != nil {
		errs = append(errs, &ValidationError{
			Setting: "default_arrangement",
			Value:   c.DefaultArrangement,
			Message: err.Error(),
		})
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error", "fatal":
	default:
		errs = append(errs, &ValidationError{Setting: "log_level", Value: c.LogLevel, Message: "unknown level"})
	}

	for _, k := range []struct {
		setting string
		spec    string
	}{
		{"keys.next_window", c.Keys.NextWindow},
		{"keys.close_window", c.Keys.CloseWindow},
		{"keys.cycle_arrangement", c.Keys.CycleArrangement},
		{"keys.open_menu", c.Keys.OpenMenu},
	} {
		if _, err := key.Parse(k.spec); err != nil {
			errs = append(errs, &ValidationError{Setting: k.setting, Value: k.spec, Message: err.Error()})
		}
	}

	return errors.Join(errs...)
}

// Bindings are the parsed hotkeys.
type Bindings struct {
	NextWindow       key.Event
	CloseWindow      key.Event
	CycleArrangement key.Event
	OpenMenu         key.Event
}

// Bindings parses the hotkey specs. Call after Validate.
func (c *Config) Bindings() (Bindings, error) {
	var b Bindings
	for _, k := range []struct {
		dst  *key.Event
		spec string
	}{
		{&b.NextWindow, c.Keys.NextWindow},
		{&b.CloseWindow, c.Keys.CloseWindow},
		{&b.CycleArrangement, c.Keys.CycleArrangement},
		{&b.OpenMenu, c.Keys.OpenMenu},
	} {
		ev, err := key.Parse(k.spec)
		if err != nil {
			return Bindings{}, fmt.Errorf("key %q: %w", k.spec, err)
		}
		*k.dst = ev
	}
	return b, nil
}
