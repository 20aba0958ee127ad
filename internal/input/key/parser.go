package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Parse errors
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// Parse parses a key specification into an Event.
//
// Supported formats:
//   - Single character: "a", "A" (Shift+a), "1", "@"
//   - Key names: "Enter", "Esc", "Tab", "F10", "PgUp", "Space", "Plus"
//   - Modifiers joined by '+': "Ctrl+W", "Alt+Right", "Ctrl+Shift+Tab"
//   - Bracketed, modifiers joined by '-': "<C-w>", "<A-Right>", "<S-F5>"
//
// A letter after a modifier is case-insensitive; Shift must be spelled out.
func Parse(spec string) (Event, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Event{}, ErrEmptySpec
	}

	if strings.HasPrefix(spec, "<") && strings.HasSuffix(spec, ">") && len(spec) > 2 {
		return parseParts(strings.Split(spec[1:len(spec)-1], "-"))
	}
	if len(spec) > 1 && strings.Contains(spec, "+") {
		return parseParts(strings.Split(spec, "+"))
	}
	return parseKey(spec, ModNone, true)
}

// parseParts parses modifiers followed by a key name.
func parseParts(parts []string) (Event, error) {
	var mods Modifier
	for _, p := range parts[:len(parts)-1] {
		mod := ModifierFromName(p)
		if mod == ModNone {
			return Event{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
		mods = mods.With(mod)
	}
	return parseKey(parts[len(parts)-1], mods, mods == ModNone)
}

// parseKey parses a key name or single character. When caseSensitive is set
// an uppercase letter implies Shift.
func parseKey(name string, mods Modifier, caseSensitive bool) (Event, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Event{}, fmt.Errorf("%w: missing key", ErrInvalidSpec)
	}

	if utf8.RuneCountInString(name) == 1 {
		r, _ := utf8.DecodeRuneInString(name)
		if !caseSensitive {
			r = toLowerASCII(r)
		}
		return NewRuneEvent(r, mods), nil
	}

	switch strings.ToLower(name) {
	case "plus":
		return NewRuneEvent('+', mods), nil
	case "minus":
		return NewRuneEvent('-', mods), nil
	case "lt":
		return NewRuneEvent('<', mods), nil
	case "gt":
		return NewRuneEvent('>', mods), nil
	}

	if k := KeyFromName(name); k != KeyNone {
		return NewSpecialEvent(k, mods), nil
	}

	return Event{}, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, name)
}

func toLowerASCII(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

// MustParse parses a key specification and panics on error.
// Use only for known-valid specs in initialization and tests.
func MustParse(spec string) Event {
	ev, err := Parse(spec)
	if err != nil {
		panic("invalid key specification: " + spec + ": " + err.Error())
	}
	return ev
}
