package emulator

// Erase modes shared by ED and EL.
const (
	eraseToEnd   = 0
	eraseToStart = 1
	eraseAll     = 2
)

// eraseInDisplay implements ED. Cleared cells take the pen colors.
func (p *Parser) eraseInDisplay(mode uint32, grid *Grid) {
	blank := p.state.blank()
	x, y := p.state.CursorX, p.state.CursorY
	w, h := grid.Size()

	switch mode {
	case eraseToEnd:
		grid.fillRow(y, x, w-1, blank)
		for row := y + 1; row < h; row++ {
			grid.fillRow(row, 0, w-1, blank)
		}
	case eraseToStart:
		for row := 0; row < y; row++ {
			grid.fillRow(row, 0, w-1, blank)
		}
		grid.fillRow(y, 0, x, blank)
	case eraseAll:
		grid.Fill(blank)
	}
}

// eraseInLine implements EL on the cursor row.
func (p *Parser) eraseInLine(mode uint32, grid *Grid) {
	blank := p.state.blank()
	x, y := p.state.CursorX, p.state.CursorY
	w := grid.Width()

	switch mode {
	case eraseToEnd:
		grid.fillRow(y, x, w-1, blank)
	case eraseToStart:
		grid.fillRow(y, 0, x, blank)
	case eraseAll:
		grid.fillRow(y, 0, w-1, blank)
	}
}
