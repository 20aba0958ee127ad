package desktop

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/dshills/termdesk/internal/layout"
)

var (
	styleDesktop      = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorSilver)
	styleBar          = tcell.StyleDefault.Background(tcell.ColorSilver).Foreground(tcell.ColorBlack)
	styleBarOpen      = tcell.StyleDefault.Background(tcell.ColorTeal).Foreground(tcell.ColorWhite)
	styleMenu         = tcell.StyleDefault.Background(tcell.ColorSilver).Foreground(tcell.ColorBlack)
	styleMenuSelected = tcell.StyleDefault.Background(tcell.ColorTeal).Foreground(tcell.ColorWhite)
	styleMenuDisabled = tcell.StyleDefault.Background(tcell.ColorSilver).Foreground(tcell.ColorGray)
	styleFrame        = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorGray)
	styleFrameFocused = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite).Bold(true)
	styleClose        = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorRed)
	styleStatus       = tcell.StyleDefault.Background(tcell.ColorMaroon).Foreground(tcell.ColorWhite)
	stylePrompt       = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorYellow)
)

// draw repaints the whole screen.
func (d *Desktop) draw() {
	width, height := d.screen.Size()
	fill(d.screen, layout.Rect{Width: width, Height: height}, styleDesktop)

	front, hasFront := d.focused()
	for _, h := range d.order {
		w, _ := d.windows.Get(h)
		if !w.hidden {
			d.drawWindow(w, hasFront && h == front)
		}
	}

	menus := d.menus()
	d.drawBar(menus, width)
	if d.bar.isOpen() && d.bar.open < len(menus) {
		d.drawDropdown(menus[d.bar.open])
	}

	d.screen.HideCursor()
	switch {
	case d.prompt != nil:
		d.drawPrompt(width, height)
	case d.status != "":
		row := layout.Rect{Y: height - 1, Width: width, Height: 1}
		fill(d.screen, row, styleStatus)
		drawText(d.screen, 1, row.Y, width-2, d.status, styleStatus)
	case hasFront && !d.bar.isOpen():
		w, _ := d.windows.Get(front)
		d.placeCursor(w)
	}

	d.screen.Show()
}

func (d *Desktop) drawWindow(w *Window, focused bool) {
	frameStyle := styleFrame
	if focused {
		frameStyle = styleFrameFocused
	}

	r := w.rect
	if r.Empty() {
		return
	}
	fill(d.screen, r, styleFrame)
	box(d.screen, r, frameStyle)

	if x, ok := w.closeButton(); ok {
		drawText(d.screen, x, r.Y, closeButtonWidth, "[x]", styleClose)
	}

	titleRoom := r.Width - 4
	if _, ok := w.closeButton(); ok {
		titleRoom -= closeButtonWidth + 1
	}
	if titleRoom > 2 {
		title := " " + runewidth.Truncate(w.Title(), titleRoom-2, "…") + " "
		x := r.X + 1 + (titleRoom-runewidth.StringWidth(title))/2
		drawText(d.screen, x+1, r.Y, titleRoom, title, frameStyle)
	}

	d.drawGrid(w)
}

// drawGrid copies the pane grid into the window content area.
func (d *Desktop) drawGrid(w *Window) {
	c := w.content()
	grid := w.pane.Grid()
	for y := 0; y < min(c.Height, grid.Height()); y++ {
		for x := 0; x < min(c.Width, grid.Width()); x++ {
			cell := grid.Cell(x, y)
			d.screen.SetContent(c.X+x, c.Y+y, cell.Rune, nil, cellStyle(cell))
		}
	}
}

func (d *Desktop) placeCursor(w *Window) {
	cur := w.pane.Grid().Cursor()
	c := w.content()
	if cur.Visible && cur.X < c.Width && cur.Y < c.Height {
		d.screen.ShowCursor(c.X+cur.X, c.Y+cur.Y)
	}
}

func (d *Desktop) drawBar(menus []menu, width int) {
	fill(d.screen, layout.Rect{Width: width, Height: 1}, styleBar)

	for i, m := range menus {
		style := styleBar
		if i == d.bar.open {
			style = styleBarOpen
		}
		if m.divider {
			d.screen.SetContent(m.x-2, 0, tcell.RuneVLine, nil, styleBar)
		}
		drawText(d.screen, m.x, 0, m.width(), " "+m.title+" ", style)
	}

	if d.clock != "" {
		cw := runewidth.StringWidth(d.clock)
		drawText(d.screen, width-cw-1, 0, cw, d.clock, styleBar)
	}
}

func (d *Desktop) drawDropdown(m menu) {
	frame := m.dropdown()
	fill(d.screen, frame, styleMenu)
	box(d.screen, frame, styleMenu)

	for i, it := range m.items {
		y := frame.Y + 1 + i
		if it.separator {
			for x := frame.X + 1; x < frame.X+frame.Width-1; x++ {
				d.screen.SetContent(x, y, tcell.RuneHLine, nil, styleMenu)
			}
			continue
		}

		style := styleMenu
		switch {
		case it.disabled:
			style = styleMenuDisabled
		case i == d.bar.selected:
			style = styleMenuSelected
		}
		fill(d.screen, layout.Rect{X: frame.X + 1, Y: y, Width: frame.Width - 2, Height: 1}, style)
		drawText(d.screen, frame.X+2, y, frame.Width-4, it.label, style)
	}
}

func (d *Desktop) drawPrompt(width, height int) {
	row := layout.Rect{Y: height - 1, Width: width, Height: 1}
	fill(d.screen, row, stylePrompt)

	x := drawText(d.screen, 1, row.Y, width-2, d.prompt.label, stylePrompt)
	x += drawText(d.screen, 1+x, row.Y, width-2-x, d.prompt.text(), stylePrompt)
	if 1+x < width {
		d.screen.ShowCursor(1+x, row.Y)
	}
}

// fill paints r with blanks.
func fill(s tcell.Screen, r layout.Rect, style tcell.Style) {
	for y := r.Y; y < r.Y+r.Height; y++ {
		for x := r.X; x < r.X+r.Width; x++ {
			s.SetContent(x, y, ' ', nil, style)
		}
	}
}

// box draws a single-line border around r.
func box(s tcell.Screen, r layout.Rect, style tcell.Style) {
	if r.Width < 2 || r.Height < 2 {
		return
	}
	right, bottom := r.X+r.Width-1, r.Y+r.Height-1

	for x := r.X + 1; x < right; x++ {
		s.SetContent(x, r.Y, tcell.RuneHLine, nil, style)
		s.SetContent(x, bottom, tcell.RuneHLine, nil, style)
	}
	for y := r.Y + 1; y < bottom; y++ {
		s.SetContent(r.X, y, tcell.RuneVLine, nil, style)
		s.SetContent(right, y, tcell.RuneVLine, nil, style)
	}
	s.SetContent(r.X, r.Y, tcell.RuneULCorner, nil, style)
	s.SetContent(right, r.Y, tcell.RuneURCorner, nil, style)
	s.SetContent(r.X, bottom, tcell.RuneLLCorner, nil, style)
	s.SetContent(right, bottom, tcell.RuneLRCorner, nil, style)
}

// drawText writes text at (x, y) within limit columns and returns the
// columns used.
func drawText(s tcell.Screen, x, y, limit int, text string, style tcell.Style) int {
	used := 0
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if used+w > limit {
			break
		}
		s.SetContent(x+used, y, r, nil, style)
		used += w
	}
	return used
}
