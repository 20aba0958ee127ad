package emulator

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// tabWidth is the distance between tab stops.
const tabWidth = 8

// Parser interprets a byte stream of text and ANSI control sequences and
// applies it to a Grid.
//
// A Parser owns its TerminalState; the grid is borrowed for the duration of
// Parse and handed back. Parse never fails: malformed input is skipped one
// byte at a time and unsupported commands are ignored.
type Parser struct {
	width  int
	height int
	state  TerminalState
	title  string

	// Callbacks
	onTitle   func(string)
	onUnknown func(seq EscapeSequence)
}

// NewParser creates a parser for a width x height grid. Dimensions below 1
// are raised to 1 so the cursor always has a valid cell.
func NewParser(width, height int) *Parser {
	p := &Parser{state: DefaultState()}
	p.setSize(width, height)
	return p
}

// SetTitleCallback sets the callback for OSC title changes.
func (p *Parser) SetTitleCallback(fn func(string)) {
	p.onTitle = fn
}

// SetUnknownCallback sets the callback for unrecognized CSI sequences.
func (p *Parser) SetUnknownCallback(fn func(seq EscapeSequence)) {
	p.onUnknown = fn
}

// Size returns the parser geometry.
func (p *Parser) Size() (width, height int) {
	return p.width, p.height
}

// State returns a copy of the current terminal state.
func (p *Parser) State() TerminalState {
	return p.state
}

// Title returns the last title set through OSC 0 or 2.
func (p *Parser) Title() string {
	return p.title
}

// Reset restores the default state. The title is kept.
func (p *Parser) Reset() {
	p.state = DefaultState()
}

// Resize changes the parser geometry and re-clamps the cursor.
func (p *Parser) Resize(width, height int) {
	p.setSize(width, height)
	p.moveCursor(int64(p.state.CursorX), int64(p.state.CursorY))
}

func (p *Parser) setSize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	p.width = width
	p.height = height
}

// Parse applies data to grid and returns the grid. A nil grid is replaced by
// a blank grid of the parser's size.
func (p *Parser) Parse(data []byte, grid *Grid) *Grid {
	if grid == nil {
		grid = NewGrid(p.width, p.height)
	}

	for i := 0; i < len(data); {
		if data[i] == esc && i+1 < len(data) {
			switch data[i+1] {
			case '[':
				seq, n, ok := scanCSI(data[i:])
				if ok {
					p.apply(seq, grid)
				}
				i += n
				continue
			case ']':
				payload, n, ok := scanOSC(data[i:])
				if ok {
					p.handleOSC(payload)
				}
				i += n
				continue
			}
		}

		r, size := utf8.DecodeRune(data[i:])
		p.writeRune(r, grid)
		i += size
	}

	return grid
}

// ParseString is Parse for string input.
func (p *Parser) ParseString(s string, grid *Grid) *Grid {
	return p.Parse([]byte(s), grid)
}

func (p *Parser) writeRune(r rune, grid *Grid) {
	switch r {
	case '\r':
		p.state.CursorX = 0
	case '\n':
		p.state.CursorX = 0
		p.lineDown()
	case '\t':
		p.state.CursorX = (p.state.CursorX/tabWidth + 1) * tabWidth
		if p.state.CursorX >= p.width {
			p.state.CursorX = 0
			p.lineDown()
		}
	case '\b':
		if p.state.CursorX > 0 {
			p.state.CursorX--
		}
	default:
		if unicode.IsControl(r) {
			return
		}
		grid.SetCell(p.state.CursorX, p.state.CursorY, p.state.cell(r))
		p.advance()
	}
}

// advance moves the cursor one column, wrapping to the next row. The bottom
// row is overwritten in place; there is no scrolling.
func (p *Parser) advance() {
	p.state.CursorX++
	if p.state.CursorX >= p.width {
		p.state.CursorX = 0
		p.lineDown()
	}
}

func (p *Parser) lineDown() {
	if p.state.CursorY < p.height-1 {
		p.state.CursorY++
	}
}

// moveCursor places the cursor at (x, y) clamped to the grid.
func (p *Parser) moveCursor(x, y int64) {
	p.state.CursorX = int(clamp(x, 0, int64(p.width-1)))
	p.state.CursorY = int(clamp(y, 0, int64(p.height-1)))
}

func clamp(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (p *Parser) apply(seq EscapeSequence, grid *Grid) {
	x := int64(p.state.CursorX)
	y := int64(p.state.CursorY)

	switch seq.Command() {
	case CommandCursorPosition:
		row := int64(seq.Param(0, 1)) - 1
		col := int64(seq.Param(1, 1)) - 1
		p.moveCursor(col, row)

	case CommandCursorUp:
		p.moveCursor(x, y-int64(seq.Param(0, 1)))

	case CommandCursorDown:
		p.moveCursor(x, y+int64(seq.Param(0, 1)))

	case CommandCursorForward:
		p.moveCursor(x+int64(seq.Param(0, 1)), y)

	case CommandCursorBack:
		p.moveCursor(x-int64(seq.Param(0, 1)), y)

	case CommandSelectGraphicRendition:
		if len(seq.Params) == 0 {
			p.state.Pen = DefaultPen()
			return
		}
		p.applySGR(seq.Params)

	case CommandEraseInDisplay:
		p.eraseInDisplay(seq.Param(0, 0), grid)

	case CommandEraseInLine:
		p.eraseInLine(seq.Param(0, 0), grid)

	case CommandHideCursor:
		grid.HideCursor()

	case CommandShowCursor:
		grid.ShowCursor(p.state.CursorX, p.state.CursorY)

	default:
		if p.onUnknown != nil {
			p.onUnknown(seq)
		}
	}
}

func (p *Parser) handleOSC(payload string) {
	code, value, _ := strings.Cut(payload, ";")
	n, err := strconv.Atoi(code)
	if err != nil {
		return
	}

	switch n {
	case 0, 2: // icon name and title, title
		p.title = value
		if p.onTitle != nil {
			p.onTitle(value)
		}
	}
}
