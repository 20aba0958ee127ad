// Package shortcut loads the catalogue of programs the desktop can launch.
//
// Each shortcut lives in its own TOML or YAML file:
//
//	name = "Editor"
//	logo = "E"
//	command = "vim"
//	args = ["<FILE_PATH>"]
//
//	[window]
//	size = { width = 100, height = 30 }
//	resizable = true
//
//	[terminal]
//	padding = [1, 0]
//
//	[[taskbar.additional_commands]]
//	name = "Scratch"
//	command = "vim"
//	args = []
package shortcut

import "fmt"

// Default window size when a shortcut does not set one.
const (
	DefaultWidth  = 100
	DefaultHeight = 25
)

// frameSize is the window border thickness per axis.
const frameSize = 2

// Size is a window size in cells.
type Size struct {
	Width  int `toml:"width" yaml:"width"`
	Height int `toml:"height" yaml:"height"`
}

// Window holds the window options of a shortcut.
type Window struct {
	Size          Size
	Resizable     bool
	CloseButton   bool
	FixedPosition bool
}

// Terminal holds the terminal options of a shortcut.
type Terminal struct {
	// PaddingX and PaddingY inset the pane inside the window frame.
	PaddingX int
	PaddingY int
}

// Command is a program invocation.
type Command struct {
	Name    string   `toml:"name" yaml:"name"`
	Command string   `toml:"command" yaml:"command"`
	Args    []string `toml:"args" yaml:"args"`
}

// Shortcut is a launchable program.
type Shortcut struct {
	Name     string
	Logo     string
	Command  string
	Args     []string
	Window   Window
	Terminal Terminal

	// AdditionalCommands are extra launch entries in the shortcut's menu.
	AdditionalCommands []Command

	// Source is the file the shortcut was loaded from.
	Source string
}

// Launch returns the shortcut's main invocation.
func (s Shortcut) Launch() Command {
	return Command{Name: s.Name, Command: s.Command, Args: s.Args}
}

// AdditionalCommand returns the additional command with the given name.
func (s Shortcut) AdditionalCommand(name string) (Command, error) {
	for _, c := range s.AdditionalCommands {
		if c.Name == name {
			return c, nil
		}
	}
	return Command{}, fmt.Errorf("%w: %s has no command %q", ErrUnknownCommand, s.Name, name)
}

// InnerSize returns the pane size for a window of the given outer size: the
// frame and the padding are subtracted, saturating at zero.
func (s Shortcut) InnerSize(outer Size) Size {
	return Size{
		Width:  max(outer.Width-(frameSize+s.Terminal.PaddingX), 0),
		Height: max(outer.Height-(frameSize+s.Terminal.PaddingY), 0),
	}
}

// Validate checks the required fields.
func (s Shortcut) Validate() error {
	switch {
	case s.Name == "":
		return fmt.Errorf("%w: missing name", ErrInvalidShortcut)
	case s.Command == "":
		return fmt.Errorf("%w: %s: missing command", ErrInvalidShortcut, s.Name)
	case s.Window.Size.Width < 0 || s.Window.Size.Height < 0:
		return fmt.Errorf("%w: %s: negative window size", ErrInvalidShortcut, s.Name)
	case s.Terminal.PaddingX < 0 || s.Terminal.PaddingY < 0:
		return fmt.Errorf("%w: %s: negative padding", ErrInvalidShortcut, s.Name)
	}
	for _, c := range s.AdditionalCommands {
		if c.Name == "" || c.Command == "" {
			return fmt.Errorf("%w: %s: additional command needs a name and a command", ErrInvalidShortcut, s.Name)
		}
	}
	return nil
}
