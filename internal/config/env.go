package config

import (
	"fmt"
	"time"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "TERMDESK_"

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(string) (string, bool)

// envSetters maps environment variables to the settings they override.
var envSetters = map[string]func(c *Config, v string) error{
	EnvPrefix + "LOG_LEVEL": func(c *Config, v string) error {
		c.LogLevel = v
		return nil
	},
	EnvPrefix + "LOG_FILE": func(c *Config, v string) error {
		c.LogFile = v
		return nil
	},
	EnvPrefix + "SHORTCUT_DIR": func(c *Config, v string) error {
		c.ShortcutDir = v
		return nil
	},
	EnvPrefix + "ARRANGEMENT": func(c *Config, v string) error {
		c.DefaultArrangement = v
		return nil
	},
	EnvPrefix + "TICK_INTERVAL": func(c *Config, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		c.TickInterval = Duration{d}
		return nil
	},
}

// ApplyEnv overrides settings from the environment. Empty values are
// treated as set.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	for name, set := range envSetters {
		v, ok := lookup(name)
		if !ok {
			continue
		}
		if err := set(c, v); err != nil {
			return fmt.Errorf("environment %s: %w", name, err)
		}
	}
	return nil
}
