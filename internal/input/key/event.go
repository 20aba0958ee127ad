package key

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Event is a single key press.
type Event struct {
	// Key identifies the key pressed.
	Key Key

	// Rune is the character for KeyRune events. Letters are lowercase.
	Rune rune

	// Modifiers contains the active modifier keys.
	Modifiers Modifier

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// NewRuneEvent creates a normalized character event.
func NewRuneEvent(r rune, mods Modifier) Event {
	return Event{
		Key:       KeyRune,
		Rune:      r,
		Modifiers: mods,
		Timestamp: time.Now(),
	}.Normalize()
}

// NewSpecialEvent creates an event for a special key.
func NewSpecialEvent(k Key, mods Modifier) Event {
	return Event{
		Key:       k,
		Modifiers: mods,
		Timestamp: time.Now(),
	}
}

// Normalize folds an uppercase letter into its lowercase rune plus ModShift,
// and a space rune into KeySpace.
func (e Event) Normalize() Event {
	if e.Key != KeyRune {
		return e
	}
	switch {
	case e.Rune == ' ':
		e.Key = KeySpace
		e.Rune = 0
	case unicode.IsUpper(e.Rune):
		e.Rune = unicode.ToLower(e.Rune)
		e.Modifiers = e.Modifiers.With(ModShift)
	}
	return e
}

// IsRune returns true if this is a character event.
func (e Event) IsRune() bool {
	return e.Key == KeyRune && e.Rune != 0
}

// Text returns the character the event types: Shift restores an uppercase
// letter and Space gives ' '. Special keys and chords with Ctrl, Alt or Meta
// return 0.
func (e Event) Text() rune {
	if e.Modifiers.Has(ModCtrl) || e.Modifiers.Has(ModAlt) || e.Modifiers.Has(ModMeta) {
		return 0
	}
	switch {
	case e.Key == KeySpace:
		return ' '
	case !e.IsRune():
		return 0
	case e.Modifiers.Has(ModShift):
		return unicode.ToUpper(e.Rune)
	default:
		return e.Rune
	}
}

// IsAlphanumeric returns true for an ASCII letter or digit key.
func (e Event) IsAlphanumeric() bool {
	if !e.IsRune() {
		return false
	}
	r := unicode.ToLower(e.Rune)
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

// Equals returns true if two events are the same key press. Timestamps are
// not compared.
func (e Event) Equals(other Event) bool {
	a, b := e.Normalize(), other.Normalize()
	return a.Key == b.Key && a.Rune == b.Rune && a.Modifiers == b.Modifiers
}

// String returns the canonical form accepted by Parse, e.g. "Ctrl+Shift+Up"
// or "Alt+x".
func (e Event) String() string {
	name := e.Key.String()
	if e.Key == KeyRune {
		switch e.Rune {
		case '+':
			name = "Plus"
		default:
			name = string(e.Rune)
		}
	}

	if mods := e.Modifiers.String(); mods != "" {
		return mods + "+" + name
	}
	return name
}

// GoString implements fmt.GoStringer for debugging.
func (e Event) GoString() string {
	return fmt.Sprintf("Event{Key: %s, Rune: %q, Modifiers: %s}",
		e.Key, e.Rune, strings.ReplaceAll(e.Modifiers.String(), "+", "|"))
}
