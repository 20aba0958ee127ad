package shortcut

import (
	"fmt"
	"strings"
)

// Placeholder is a token in a command line replaced at launch time.
type Placeholder string

const (
	FilePath   Placeholder = "<FILE_PATH>"
	FolderPath Placeholder = "<FOLDER_PATH>"
)

// Placeholders lists the placeholders in order of expansion.
var Placeholders = []Placeholder{FilePath, FolderPath}

// Prompt returns the question shown when asking for p.
func (p Placeholder) Prompt() string {
	switch p {
	case FilePath:
		return "Select file"
	case FolderPath:
		return "Select folder"
	default:
		return string(p)
	}
}

// Resolver supplies the value of a placeholder. It returns ErrNoSelection
// when the user declines.
type Resolver interface {
	Resolve(p Placeholder) (string, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(p Placeholder) (string, error)

// Resolve calls f.
func (f ResolverFunc) Resolve(p Placeholder) (string, error) {
	return f(p)
}

// Values is a Resolver backed by a map. Missing or empty values are
// ErrNoSelection.
type Values map[Placeholder]string

// Resolve implements Resolver.
func (v Values) Resolve(p Placeholder) (string, error) {
	if s := v[p]; s != "" {
		return s, nil
	}
	return "", fmt.Errorf("%w: %s", ErrNoSelection, p)
}

// Needs returns the placeholders used by c, in expansion order.
func (c Command) Needs() []Placeholder {
	var needs []Placeholder
	for _, p := range Placeholders {
		if strings.Contains(c.Command, string(p)) || containsAny(c.Args, string(p)) {
			needs = append(needs, p)
		}
	}
	return needs
}

func containsAny(args []string, token string) bool {
	for _, a := range args {
		if strings.Contains(a, token) {
			return true
		}
	}
	return false
}

// Expand replaces placeholders in the program and arguments of c. Each
// placeholder is resolved at most once. A resolver error aborts the launch.
func (c Command) Expand(r Resolver) (Command, error) {
	out := Command{Name: c.Name, Args: make([]string, 0, len(c.Args))}

	for _, p := range c.Needs() {
		value, err := r.Resolve(p)
		if err != nil {
			return Command{}, err
		}
		if value == "" {
			return Command{}, fmt.Errorf("%w: %s", ErrNoSelection, p)
		}
		c.Command = strings.ReplaceAll(c.Command, string(p), value)
		args := make([]string, len(c.Args))
		for i, a := range c.Args {
			args[i] = strings.ReplaceAll(a, string(p), value)
		}
		c.Args = args
	}

	out.Command = c.Command
	out.Args = append(out.Args, c.Args...)
	return out, nil
}
