package emulator

import "strings"

// CellFlags are the visual attributes stored in a cell.
type CellFlags uint8

const (
	FlagNone      CellFlags = 0
	FlagBold      CellFlags = 1 << 0
	FlagItalic    CellFlags = 1 << 1
	FlagUnderline CellFlags = 1 << 2
)

// Has returns true if the flag is set.
func (f CellFlags) Has(flag CellFlags) bool {
	return f&flag != 0
}

// Cell is a single character cell of the grid.
type Cell struct {
	Rune       rune
	Foreground Color
	Background Color
	Flags      CellFlags
}

// BlankCell returns a space in the default colors.
func BlankCell() Cell {
	return Cell{
		Rune:       ' ',
		Foreground: DefaultForeground,
		Background: DefaultBackground,
	}
}

// Cursor is the display cursor of a grid.
type Cursor struct {
	Visible bool
	X, Y    int
}

// Grid is a fixed-size array of cells that a Parser draws into.
//
// A Grid is not safe for concurrent use; the pane that owns it hands it to
// the parser and gets a grid back.
type Grid struct {
	width  int
	height int
	cells  []Cell
	cursor Cursor
}

// NewGrid creates a blank grid. Non-positive dimensions produce an empty grid.
func NewGrid(width, height int) *Grid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	g := &Grid{
		width:  width,
		height: height,
		cells:  make([]Cell, width*height),
	}
	g.Fill(BlankCell())
	return g
}

// Width returns the number of columns.
func (g *Grid) Width() int {
	return g.width
}

// Height returns the number of rows.
func (g *Grid) Height() int {
	return g.height
}

// Size returns the grid dimensions.
func (g *Grid) Size() (width, height int) {
	return g.width, g.height
}

func (g *Grid) inBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// Cell returns the cell at (x, y), or a blank cell when out of bounds.
func (g *Grid) Cell(x, y int) Cell {
	if !g.inBounds(x, y) {
		return BlankCell()
	}
	return g.cells[y*g.width+x]
}

// SetCell writes a cell. Writes outside the grid are ignored.
func (g *Grid) SetCell(x, y int, cell Cell) {
	if !g.inBounds(x, y) {
		return
	}
	g.cells[y*g.width+x] = cell
}

// Fill sets every cell to cell.
func (g *Grid) Fill(cell Cell) {
	for i := range g.cells {
		g.cells[i] = cell
	}
}

// fillRow sets cells [from, to] of row y, both inclusive and clipped.
func (g *Grid) fillRow(y, from, to int, cell Cell) {
	if y < 0 || y >= g.height {
		return
	}
	if from < 0 {
		from = 0
	}
	if to >= g.width {
		to = g.width - 1
	}
	row := g.cells[y*g.width : (y+1)*g.width]
	for x := from; x <= to; x++ {
		row[x] = cell
	}
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	c := &Grid{
		width:  g.width,
		height: g.height,
		cells:  make([]Cell, len(g.cells)),
		cursor: g.cursor,
	}
	copy(c.cells, g.cells)
	return c
}

// Resize reallocates the grid to the new size and blanks it. Content is not
// reflowed; the child redraws after its own resize notification.
func (g *Grid) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	g.width = width
	g.height = height
	g.cells = make([]Cell, width*height)
	g.Fill(BlankCell())
	g.cursor = Cursor{}
}

// Cursor returns the display cursor.
func (g *Grid) Cursor() Cursor {
	return g.cursor
}

// ShowCursor makes the display cursor visible at (x, y).
func (g *Grid) ShowCursor(x, y int) {
	g.cursor = Cursor{Visible: true, X: x, Y: y}
}

// HideCursor hides the display cursor.
func (g *Grid) HideCursor() {
	g.cursor.Visible = false
}

// Text returns the grid runes, one line per row, trailing spaces trimmed.
func (g *Grid) Text() string {
	var sb strings.Builder
	for y := 0; y < g.height; y++ {
		line := make([]rune, g.width)
		for x := 0; x < g.width; x++ {
			line[x] = g.cells[y*g.width+x].Rune
		}
		sb.WriteString(strings.TrimRight(string(line), " "))
		if y < g.height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
