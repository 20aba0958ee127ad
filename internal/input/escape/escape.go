// Package escape translates key events into the byte sequences a VT-style
// terminal sends to the program running in it.
//
// Encode is pure and total: a key without a mapping yields no output and the
// event is swallowed. Ctrl+C is not the codec's concern; callers check
// IsInterrupt first and terminate the child instead of forwarding it.
package escape

import (
	"strconv"
	"unicode/utf8"

	"github.com/dshills/termdesk/internal/input/key"
)

const (
	esc = 0x1B
	del = 0x7F
)

// ModParam returns the xterm modifier parameter: 1 + Shift(1) + Alt(2) +
// Ctrl(4). Meta is not encoded.
func ModParam(mods key.Modifier) int {
	p := 1
	if mods.Has(key.ModShift) {
		p += 1
	}
	if mods.Has(key.ModAlt) {
		p += 2
	}
	if mods.Has(key.ModCtrl) {
		p += 4
	}
	return p
}

// modified reports whether any encodable modifier is held.
func modified(mods key.Modifier) bool {
	return ModParam(mods) > 1
}

// IsInterrupt reports whether ev is Ctrl+C with no other modifier.
func IsInterrupt(ev key.Event) bool {
	ev = ev.Normalize()
	return ev.Key == key.KeyRune && ev.Rune == 'c' && ev.Modifiers == key.ModCtrl
}

// cursorFinal holds the final byte of keys encoded as CSI <letter>.
var cursorFinal = map[key.Key]byte{
	key.KeyUp:    'A',
	key.KeyDown:  'B',
	key.KeyRight: 'C',
	key.KeyLeft:  'D',
	key.KeyHome:  'H',
	key.KeyEnd:   'F',
}

// tildeCode holds the parameter of keys encoded as CSI <code> ~. F-key codes
// skip 16 and 22 following the VT220 numbering.
var tildeCode = map[key.Key]int{
	key.KeyInsert:   2,
	key.KeyDelete:   3,
	key.KeyPageUp:   5,
	key.KeyPageDown: 6,
	key.KeyF1:       11,
	key.KeyF2:       12,
	key.KeyF3:       13,
	key.KeyF4:       14,
	key.KeyF5:       15,
	key.KeyF6:       17,
	key.KeyF7:       18,
	key.KeyF8:       19,
	key.KeyF9:       20,
	key.KeyF10:      21,
	key.KeyF11:      23,
	key.KeyF12:      24,
}

// ss3Final holds the SS3 final byte of unmodified F1-F4.
var ss3Final = map[key.Key]byte{
	key.KeyF1: 'P',
	key.KeyF2: 'Q',
	key.KeyF3: 'R',
	key.KeyF4: 'S',
}

// Encode returns the bytes for ev. The second result is false when the key
// has no mapping.
func Encode(ev key.Event) ([]byte, bool) {
	ev = ev.Normalize()
	mods := ev.Modifiers

	switch ev.Key {
	case key.KeySpace:
		return []byte{' '}, true
	case key.KeyEnter:
		return []byte{'\r'}, true
	case key.KeyEscape:
		return []byte{esc}, true
	case key.KeyBackspace:
		return []byte{del}, true
	case key.KeyTab:
		if mods.Has(key.ModShift) {
			return []byte{esc, '[', 'Z'}, true
		}
		return []byte{'\t'}, true
	case key.KeyRune:
		return encodeRune(ev.Rune, mods)
	}

	if final, ok := ss3Final[ev.Key]; ok && !modified(mods) {
		return []byte{esc, 'O', final}, true
	}
	if final, ok := cursorFinal[ev.Key]; ok {
		return cursorSequence(final, mods), true
	}
	if code, ok := tildeCode[ev.Key]; ok {
		return tildeSequence(code, mods), true
	}

	return nil, false
}

// cursorSequence builds CSI <final> or CSI 1 ; <mod> <final>.
func cursorSequence(final byte, mods key.Modifier) []byte {
	b := []byte{esc, '['}
	if modified(mods) {
		b = append(b, '1', ';')
		b = strconv.AppendInt(b, int64(ModParam(mods)), 10)
	}
	return append(b, final)
}

// tildeSequence builds CSI <code> ~ or CSI <code> ; <mod> ~.
func tildeSequence(code int, mods key.Modifier) []byte {
	b := []byte{esc, '['}
	b = strconv.AppendInt(b, int64(code), 10)
	if modified(mods) {
		b = append(b, ';')
		b = strconv.AppendInt(b, int64(ModParam(mods)), 10)
	}
	return append(b, '~')
}

// encodeRune encodes a character key. ASCII letters and digits honor Shift
// and Ctrl; every character is ESC-prefixed under Alt.
func encodeRune(r rune, mods key.Modifier) ([]byte, bool) {
	if r == 0 || r == utf8.RuneError || !utf8.ValidRune(r) {
		return nil, false
	}

	var b []byte
	switch {
	case r >= 'a' && r <= 'z':
		c := byte(r)
		if mods.Has(key.ModShift) {
			c -= 'a' - 'A'
		}
		if mods.Has(key.ModCtrl) {
			c &= 0x1F
		}
		b = []byte{c}
	case r >= '0' && r <= '9':
		c := byte(r)
		if mods.Has(key.ModCtrl) {
			c &= 0x1F
		}
		b = []byte{c}
	default:
		b = utf8.AppendRune(nil, r)
	}

	if mods.Has(key.ModAlt) {
		b = append([]byte{esc}, b...)
	}
	return b, true
}
