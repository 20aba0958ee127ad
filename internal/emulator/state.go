package emulator

// Pen is the set of rendering attributes applied to newly written characters.
type Pen struct {
	Foreground Color
	Background Color
	Bold       bool
	Dim        bool // tracked, not rendered
	Italic     bool
	Underline  bool
}

// DefaultPen returns white on black with no attributes.
func DefaultPen() Pen {
	return Pen{
		Foreground: DefaultForeground,
		Background: DefaultBackground,
	}
}

// Flags returns the cell flags for the pen.
func (p Pen) Flags() CellFlags {
	flags := FlagNone
	if p.Bold {
		flags |= FlagBold
	}
	if p.Italic {
		flags |= FlagItalic
	}
	if p.Underline {
		flags |= FlagUnderline
	}
	return flags
}

// cell returns a cell holding r drawn with the pen.
func (p Pen) cell(r rune) Cell {
	return Cell{
		Rune:       r,
		Foreground: p.Foreground,
		Background: p.Background,
		Flags:      p.Flags(),
	}
}

// blank returns an erase cell: a space in the pen colors without flags.
func (p Pen) blank() Cell {
	return Cell{
		Rune:       ' ',
		Foreground: p.Foreground,
		Background: p.Background,
	}
}

// TerminalState is the persistent parser state: the pen and the cursor.
type TerminalState struct {
	Pen
	CursorX int
	CursorY int
}

// DefaultState returns the state of a freshly constructed parser.
func DefaultState() TerminalState {
	return TerminalState{Pen: DefaultPen()}
}
