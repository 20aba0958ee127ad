// Package logging builds the structured loggers used across termdesk.
//
// The desktop owns the terminal, so logs normally go to a file. Loggers are
// charmbracelet/log loggers; subsystems derive their own with Component.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	clog "github.com/charmbracelet/log"
)

// Config configures a logger.
type Config struct {
	// Level is the minimum level: debug, info, warn or error.
	Level string
	// File is the log file path. Empty writes to Output.
	File string
	// Output is used when File is empty. Defaults to os.Stderr.
	Output io.Writer
	// Prefix is prepended to every message.
	Prefix string
}

// DefaultConfig returns the default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Output: os.Stderr,
		Prefix: "termdesk",
	}
}

// ParseLevel parses a level name, case-insensitive. "warning" is accepted
// for warn.
func ParseLevel(s string) (clog.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	lvl, err := clog.ParseLevel(s)
	if err != nil {
		return clog.InfoLevel, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return lvl, nil
}

// New creates a logger. The returned closer releases the log file, if any,
// and is never nil.
func New(cfg Config) (*clog.Logger, io.Closer, error) {
	lvl, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}

	var out io.Writer = cfg.Output
	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out, closer = f, f
	}
	if out == nil {
		out = os.Stderr
	}

	logger := clog.NewWithOptions(out, clog.Options{
		Level:           lvl,
		Prefix:          cfg.Prefix,
		ReportTimestamp: true,
	})
	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Component returns a logger tagged with the subsystem name.
func Component(l *clog.Logger, name string) *clog.Logger {
	if l == nil {
		l = Nop()
	}
	return l.With("component", name)
}

// Nop returns a logger that discards everything.
func Nop() *clog.Logger {
	return clog.NewWithOptions(io.Discard, clog.Options{Level: clog.FatalLevel})
}

// Application-wide logger.
var (
	defaultLogger *clog.Logger
	defaultMu     sync.RWMutex
)

// Default returns the application logger, or a discarding logger when none
// has been installed.
func Default() *clog.Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	if defaultLogger == nil {
		return Nop()
	}
	return defaultLogger
}

// SetDefault installs the application logger.
func SetDefault(l *clog.Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}
