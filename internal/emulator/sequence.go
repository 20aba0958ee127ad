package emulator

import (
	"math"
	"strconv"
	"strings"
)

const (
	esc = 0x1B
	bel = 0x07
)

// Command identifies a recognized control sequence.
type Command int

const (
	CommandUnknown Command = iota
	CommandCursorPosition
	CommandCursorUp
	CommandCursorDown
	CommandCursorForward
	CommandCursorBack
	CommandSelectGraphicRendition
	CommandEraseInDisplay
	CommandEraseInLine

	// Private mode commands (CSI ? ...)
	CommandPrivateUnknown
	CommandHideCursor
	CommandShowCursor
)

// String returns the command mnemonic.
func (c Command) String() string {
	switch c {
	case CommandCursorPosition:
		return "CUP"
	case CommandCursorUp:
		return "CUU"
	case CommandCursorDown:
		return "CUD"
	case CommandCursorForward:
		return "CUF"
	case CommandCursorBack:
		return "CUB"
	case CommandSelectGraphicRendition:
		return "SGR"
	case CommandEraseInDisplay:
		return "ED"
	case CommandEraseInLine:
		return "EL"
	case CommandHideCursor:
		return "DECTCEM-reset"
	case CommandShowCursor:
		return "DECTCEM-set"
	case CommandPrivateUnknown:
		return "private-unknown"
	default:
		return "unknown"
	}
}

// EscapeSequence is a parsed CSI sequence: ESC [ [?] params final.
type EscapeSequence struct {
	Params  []uint32
	Private bool
	Final   byte
}

// Command resolves the sequence to its command.
func (s EscapeSequence) Command() Command {
	if s.Private {
		switch s.Final {
		case 'l':
			return CommandHideCursor
		case 'h':
			return CommandShowCursor
		default:
			return CommandPrivateUnknown
		}
	}

	switch s.Final {
	case 'H', 'f':
		return CommandCursorPosition
	case 'A':
		return CommandCursorUp
	case 'B':
		return CommandCursorDown
	case 'C':
		return CommandCursorForward
	case 'D':
		return CommandCursorBack
	case 'm':
		return CommandSelectGraphicRendition
	case 'J':
		return CommandEraseInDisplay
	case 'K':
		return CommandEraseInLine
	default:
		return CommandUnknown
	}
}

// Param returns parameter i, or def when the sequence has fewer parameters.
func (s EscapeSequence) Param(i int, def uint32) uint32 {
	if i < len(s.Params) {
		return s.Params[i]
	}
	return def
}

// String formats the sequence the way it appeared on the wire.
func (s EscapeSequence) String() string {
	var sb strings.Builder
	sb.WriteString("ESC[")
	if s.Private {
		sb.WriteByte('?')
	}
	for i, p := range s.Params {
		if i > 0 {
			sb.WriteByte(';')
		}
		sb.WriteString(strconv.FormatUint(uint64(p), 10))
	}
	sb.WriteByte(s.Final)
	return sb.String()
}

func isFinalByte(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

// scanCSI scans a CSI sequence at the start of data, which must begin with
// ESC [. It returns the sequence and the number of bytes consumed. When the
// sequence is too short, contains an unexpected byte, or runs off the end of
// data, ok is false and exactly one byte is consumed.
func scanCSI(data []byte) (seq EscapeSequence, consumed int, ok bool) {
	if len(data) < 3 {
		return EscapeSequence{}, 1, false
	}

	i := 2
	if data[i] == '?' {
		seq.Private = true
		i++
	}

	var current uint32
	digits := false
	for ; i < len(data); i++ {
		b := data[i]
		switch {
		case b >= '0' && b <= '9':
			current = appendDigit(current, b)
			digits = true
		case b == ';':
			seq.Params = append(seq.Params, current)
			current = 0
			digits = false
		case isFinalByte(b):
			if digits {
				seq.Params = append(seq.Params, current)
			}
			seq.Final = b
			return seq, i + 1, true
		default:
			return EscapeSequence{}, 1, false
		}
	}

	return EscapeSequence{}, 1, false
}

// appendDigit accumulates a decimal digit, saturating at MaxUint32.
func appendDigit(v uint32, b byte) uint32 {
	d := uint32(b - '0')
	if v > (math.MaxUint32-d)/10 {
		return math.MaxUint32
	}
	return v*10 + d
}

// scanOSC scans an OSC string at the start of data, which must begin with
// ESC ]. The string ends at BEL or ESC \. An unterminated string consumes one
// byte and reports ok false.
func scanOSC(data []byte) (payload string, consumed int, ok bool) {
	for i := 2; i < len(data); i++ {
		switch data[i] {
		case bel:
			return string(data[2:i]), i + 1, true
		case esc:
			if i+1 < len(data) && data[i+1] == '\\' {
				return string(data[2:i]), i + 2, true
			}
			return "", 1, false
		}
	}
	return "", 1, false
}
