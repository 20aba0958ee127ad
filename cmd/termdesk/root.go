package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	clog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dshills/termdesk/internal/config"
	"github.com/dshills/termdesk/internal/desktop"
	"github.com/dshills/termdesk/internal/logging"
	"github.com/dshills/termdesk/internal/shortcut"
)

// ErrNoTerminal is returned when termdesk is not attached to a terminal.
var ErrNoTerminal = errors.New("termdesk must run in a terminal")

// options are the command-line settings that override the config file.
type options struct {
	configPath  string
	logLevel    string
	logFile     string
	tick        time.Duration
	arrangement string
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "termdesk [shortcut-dir]",
		Short: "termdesk - a text-mode desktop for console programs",
		Long: "termdesk runs shells, editors and other console programs in windows on a\n" +
			"text-mode desktop. Programs are listed as shortcut files (TOML or YAML) in\n" +
			"the shortcut directory.",
		Args:          cobra.MaximumNArgs(1),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts, args)
			if err != nil {
				return err
			}
			return runDesktop(cmd.Context(), cfg)
		},
	}
	cmd.SetVersionTemplate(fmt.Sprintf("termdesk %s\nCommit: %s\nBuilt: %s\n", version, commit, date))

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "path to configuration file")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&opts.logFile, "log-file", "", "write logs to this file")
	cmd.Flags().DurationVar(&opts.tick, "tick", 0, "pane refresh interval (e.g. 25ms)")
	cmd.Flags().StringVar(&opts.arrangement, "arrangement", "", "initial window arrangement (none, cascade, vertical, horizontal, grid)")

	cmd.AddCommand(newCheckCmd(&opts))
	return cmd
}

// loadConfig reads the config file and applies flags and the shortcut
// directory argument on top.
func loadConfig(cmd *cobra.Command, opts options, args []string) (*config.Config, error) {
	path := opts.configPath
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
	} else {
		path = config.DefaultPath()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if flags.Changed("log-file") {
		cfg.LogFile = opts.logFile
	}
	if flags.Lookup("tick") != nil && flags.Changed("tick") {
		cfg.TickInterval = config.Duration{Duration: opts.tick}
	}
	if flags.Lookup("arrangement") != nil && flags.Changed("arrangement") {
		cfg.DefaultArrangement = opts.arrangement
	}
	if len(args) > 0 {
		cfg.ShortcutDir = args[0]
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the application logger. Without a log file nothing is
// logged, since the desktop owns the screen.
func newLogger(cfg *config.Config) (*clog.Logger, io.Closer, error) {
	lc := logging.DefaultConfig()
	lc.Level = cfg.LogLevel
	lc.File = cfg.LogFile
	if lc.File == "" {
		lc.Output = io.Discard
	}
	return logging.New(lc)
}

func runDesktop(ctx context.Context, cfg *config.Config) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return ErrNoTerminal
	}

	logger, closer, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()
	logging.SetDefault(logger)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	screen, err := desktop.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create terminal: %w", err)
	}
	defer screen.Fini()

	d, err := desktop.New(screen, cfg, desktop.WithLogger(logger))
	if err != nil {
		return err
	}

	go func() {
		shortcuts, err := shortcut.LoadDir(cfg.ShortcutDir, shortcut.Exclude(cfg.Source))
		if err != nil {
			d.ReportError(err)
		}
		d.UpdateShortcuts(shortcuts)
	}()

	w, err := shortcut.NewWatcher(cfg.ShortcutDir, d.UpdateShortcuts,
		shortcut.WithWatchLogger(logger),
		shortcut.WithExclude(cfg.Source),
		shortcut.WithErrorHandler(d.ReportError),
	)
	if err != nil {
		logger.Warn("shortcut watcher disabled", "dir", cfg.ShortcutDir, "err", err)
	} else {
		defer w.Close()
	}

	return d.Run(ctx)
}
