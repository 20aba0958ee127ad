package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/termdesk/internal/shortcut"
)

func newCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check [shortcut-dir]",
		Short: "Validate the configuration and shortcut files",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, *opts, args)
			if err != nil {
				return err
			}

			// Files that fail to load are reported after the ones that did.
			shortcuts, loadErr := shortcut.LoadDir(cfg.ShortcutDir, shortcut.Exclude(cfg.Source))
			if shortcuts == nil {
				return loadErr
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "config ok: tick %v, arrangement %s\n", cfg.TickInterval.Duration, cfg.Arrangement())
			for _, s := range shortcuts {
				inner := s.InnerSize(s.Window.Size)
				fmt.Fprintf(out, "%s\t%s %s\t%dx%d (pane %dx%d)\t%s\n",
					s.Name, s.Command, strings.Join(s.Args, " "),
					s.Window.Size.Width, s.Window.Size.Height, inner.Width, inner.Height,
					s.Source)
				for _, c := range s.AdditionalCommands {
					fmt.Fprintf(out, "  + %s\t%s %s\n", c.Name, c.Command, strings.Join(c.Args, " "))
				}
			}
			fmt.Fprintf(out, "%d shortcuts\n", len(shortcuts))
			return loadErr
		},
	}
}
