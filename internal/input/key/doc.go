// Package key defines the keyboard event model shared by the desktop host,
// the hotkey configuration and the escape codec.
//
// An Event is either a special key (arrows, function keys, Enter, ...) or a
// KeyRune carrying a character. Letters are always stored lowercase; an
// uppercase letter is a lowercase rune with ModShift. Use Normalize on events
// coming from a host that reports uppercase runes.
//
// Key specifications for hotkeys can be written as:
//
//   - Simple keys: "a", "A", "1", "Enter", "F10"
//   - With modifiers: "Ctrl+W", "Alt+Right", "Ctrl+Shift+Tab"
//   - Bracketed: "<C-w>", "<A-Right>", "<S-F5>"
package key
