package emulator

import "unicode/utf8"

// MaxPending bounds how many trailing bytes SplitPending holds back. A
// sequence longer than this is passed through and degrades like any other
// malformed input.
const MaxPending = 256

// SplitPending splits a chunk of child output into the part that can be
// parsed now and a trailing part that must wait for more bytes: an
// unterminated CSI or OSC sequence, a lone trailing ESC, or a partial UTF-8
// encoding.
//
// Callers keep pending and prepend it to the next chunk.
func SplitPending(data []byte) (complete, pending []byte) {
	start := len(data) - MaxPending
	if start < 0 {
		start = 0
	}

	for k := start; k < len(data); k++ {
		if data[k] == esc && sequencePending(data[k:]) {
			return data[:k], data[k:]
		}
	}

	for j := len(data) - 1; j >= 0 && j >= len(data)-utf8.UTFMax; j-- {
		if utf8.RuneStart(data[j]) {
			if !utf8.FullRune(data[j:]) {
				return data[:j], data[j:]
			}
			break
		}
	}

	return data, nil
}

// sequencePending reports whether data, starting at ESC, is a prefix of a
// sequence that could still complete.
func sequencePending(data []byte) bool {
	if len(data) == 1 {
		return true
	}

	switch data[1] {
	case '[':
		for i := 2; i < len(data); i++ {
			b := data[i]
			if b == '?' && i == 2 {
				continue
			}
			if (b < '0' || b > '9') && b != ';' {
				return false
			}
		}
		return true

	case ']':
		for i := 2; i < len(data); i++ {
			switch data[i] {
			case bel:
				return false
			case esc:
				// Only the first byte of the ESC \ terminator may be missing.
				return i == len(data)-1
			}
		}
		return true
	}

	return false
}
