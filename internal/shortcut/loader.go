package shortcut

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// file is the on-disk layout. Pointers distinguish unset options from
// false.
type file struct {
	Name    string   `toml:"name" yaml:"name"`
	Logo    string   `toml:"logo" yaml:"logo"`
	Command string   `toml:"command" yaml:"command"`
	Args    []string `toml:"args" yaml:"args"`

	Window struct {
		Size          *Size `toml:"size" yaml:"size"`
		Resizable     *bool `toml:"resizable" yaml:"resizable"`
		CloseButton   *bool `toml:"close_button" yaml:"close_button"`
		FixedPosition bool  `toml:"fixed_position" yaml:"fixed_position"`
	} `toml:"window" yaml:"window"`

	Terminal struct {
		Padding []int `toml:"padding" yaml:"padding"`
	} `toml:"terminal" yaml:"terminal"`

	Taskbar struct {
		AdditionalCommands []Command `toml:"additional_commands" yaml:"additional_commands"`
	} `toml:"taskbar" yaml:"taskbar"`
}

func (f *file) shortcut(path string) (Shortcut, error) {
	s := Shortcut{
		Name:    f.Name,
		Logo:    f.Logo,
		Command: f.Command,
		Args:    f.Args,
		Window: Window{
			Size:          Size{Width: DefaultWidth, Height: DefaultHeight},
			Resizable:     true,
			CloseButton:   true,
			FixedPosition: f.Window.FixedPosition,
		},
		AdditionalCommands: f.Taskbar.AdditionalCommands,
		Source:             path,
	}
	if f.Window.Size != nil {
		s.Window.Size = *f.Window.Size
	}
	if f.Window.Resizable != nil {
		s.Window.Resizable = *f.Window.Resizable
	}
	if f.Window.CloseButton != nil {
		s.Window.CloseButton = *f.Window.CloseButton
	}

	switch len(f.Terminal.Padding) {
	case 0:
	case 2:
		s.Terminal.PaddingX = f.Terminal.Padding[0]
		s.Terminal.PaddingY = f.Terminal.Padding[1]
	default:
		return Shortcut{}, fmt.Errorf("%w: %s: padding must be [x, y]", ErrInvalidShortcut, path)
	}

	if err := s.Validate(); err != nil {
		return Shortcut{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Supported reports whether path has a shortcut file extension.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".yaml", ".yml":
		return true
	}
	return false
}

// LoadFile reads one shortcut file. The format follows the extension.
func LoadFile(path string) (Shortcut, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Shortcut{}, fmt.Errorf("reading shortcut file %s: %w", path, err)
	}
	return Parse(path, data)
}

// Parse decodes shortcut data; path selects the format and names the source.
func Parse(path string, data []byte) (Shortcut, error) {
	var f file
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return Shortcut{}, tomlError(path, err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return Shortcut{}, &ParseError{Path: path, Err: err}
		}
	default:
		return Shortcut{}, fmt.Errorf("%w: %s: unsupported file type", ErrInvalidShortcut, path)
	}
	return f.shortcut(path)
}

func tomlError(path string, err error) error {
	perr := &ParseError{Path: path, Err: err}
	var derr *toml.DecodeError
	if errors.As(err, &derr) {
		perr.Line, perr.Column = derr.Position()
	}
	return perr
}

// LoadOption configures LoadDir.
type LoadOption func(*loadOptions)

type loadOptions struct {
	exclude map[string]bool
}

// Exclude skips the given files, such as an application config kept in the
// shortcut directory. Paths are compared after resolving them to absolute
// form.
func Exclude(paths ...string) LoadOption {
	return func(o *loadOptions) {
		for _, p := range paths {
			if p == "" {
				continue
			}
			o.exclude[absPath(p)] = true
		}
	}
}

func newLoadOptions(opts []LoadOption) *loadOptions {
	o := &loadOptions{exclude: make(map[string]bool)}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *loadOptions) excluded(path string) bool {
	return o.exclude[absPath(path)]
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// LoadDir loads every shortcut file under dir, in lexical order. When two
// files declare the same name the first one wins.
//
// A file that fails to load is skipped. LoadDir then returns the shortcuts
// that did load together with an error joining every file failure. When dir
// itself cannot be walked the result is nil.
func LoadDir(dir string, opts ...LoadOption) ([]Shortcut, error) {
	shortcuts, skipped, err := loadDir(dir, newLoadOptions(opts))
	if err != nil {
		return nil, err
	}
	return shortcuts, skipped
}

// loadDir separates per-file failures (skipped) from a failed walk (err).
func loadDir(dir string, o *loadOptions) (shortcuts []Shortcut, skipped, err error) {
	shortcuts = []Shortcut{}
	seen := make(map[string]bool)
	var failures []error

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			failures = append(failures, err)
			return nil
		}
		if d.IsDir() || !Supported(path) || o.excluded(path) {
			return nil
		}

		s, err := LoadFile(path)
		if err != nil {
			failures = append(failures, err)
			return nil
		}
		if seen[s.Name] {
			return nil
		}
		seen[s.Name] = true
		shortcuts = append(shortcuts, s)
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("loading shortcuts from %s: %w", dir, err)
	}
	if len(failures) > 0 {
		skipped = fmt.Errorf("skipped shortcut files in %s: %w", dir, errors.Join(failures...))
	}
	return shortcuts, skipped, nil
}
