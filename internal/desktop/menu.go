package desktop

import (
	"github.com/mattn/go-runewidth"

	"github.com/dshills/termdesk/internal/input/key"
	"github.com/dshills/termdesk/internal/layout"
)

// menuItem is one entry of a drop-down menu.
type menuItem struct {
	label     string
	action    func()
	separator bool
	disabled  bool
}

func (it menuItem) selectable() bool {
	return !it.separator && !it.disabled && it.action != nil
}

func separator() menuItem {
	return menuItem{separator: true}
}

// menu is a title on the app bar and its drop-down.
type menu struct {
	title string
	items []menuItem

	// divider draws a vertical bar before the title.
	divider bool

	// x is the column of the title, set by layoutMenus.
	x int
}

func (m menu) width() int {
	return runewidth.StringWidth(m.title) + 2
}

// dropdown returns the frame of the drop-down, items inside a border.
func (m menu) dropdown() layout.Rect {
	w := 0
	for _, it := range m.items {
		w = max(w, runewidth.StringWidth(it.label))
	}
	return layout.Rect{X: m.x, Y: 1, Width: w + 4, Height: len(m.items) + 2}
}

// layoutMenus assigns title columns from the left edge of the bar.
func layoutMenus(menus []menu) {
	x := 1
	for i := range menus {
		if menus[i].divider {
			x += 2
		}
		menus[i].x = x
		x += menus[i].width()
	}
}

// menuAt returns the index of the menu title at column x, or -1.
func menuAt(menus []menu, x int) int {
	for i, m := range menus {
		if x >= m.x && x < m.x+m.width() {
			return i
		}
	}
	return -1
}

// menuBar is the open/selected state of the app bar.
type menuBar struct {
	open     int
	selected int
}

func newMenuBar() menuBar {
	return menuBar{open: -1}
}

func (b *menuBar) isOpen() bool {
	return b.open >= 0
}

func (b *menuBar) close() {
	b.open = -1
	b.selected = 0
}

// openAt opens menu i with its first selectable item selected.
func (b *menuBar) openAt(menus []menu, i int) {
	if i < 0 || i >= len(menus) {
		b.close()
		return
	}
	b.open = i
	b.selected = -1
	b.move(menus, 1)
}

// move steps the selection by dir, skipping separators and disabled
// entries and wrapping around. It leaves -1 when nothing is selectable.
func (b *menuBar) move(menus []menu, dir int) {
	items := menus[b.open].items
	n := len(items)
	if n == 0 {
		b.selected = -1
		return
	}

	i := b.selected
	for k := 0; k < n; k++ {
		i = ((i+dir)%n + n) % n
		if items[i].selectable() {
			b.selected = i
			return
		}
	}
	b.selected = -1
}

// handleKey navigates the open menu. It returns the action to run, if the
// key chose one.
func (b *menuBar) handleKey(menus []menu, ev key.Event) func() {
	if !b.isOpen() || b.open >= len(menus) {
		b.close()
		return nil
	}

	switch ev.Key {
	case key.KeyEscape:
		b.close()
	case key.KeyLeft:
		b.openAt(menus, (b.open-1+len(menus))%len(menus))
	case key.KeyRight:
		b.openAt(menus, (b.open+1)%len(menus))
	case key.KeyUp:
		b.move(menus, -1)
	case key.KeyDown:
		b.move(menus, 1)
	case key.KeyEnter, key.KeySpace:
		return b.choose(menus, b.selected)
	}
	return nil
}

// choose closes the bar and returns item i's action if it is selectable.
func (b *menuBar) choose(menus []menu, i int) func() {
	items := menus[b.open].items
	b.close()
	if i < 0 || i >= len(items) || !items[i].selectable() {
		return nil
	}
	return items[i].action
}

// handleClick handles a press at (x, y) while the bar is open. It returns
// the action to run, if the click chose one.
func (b *menuBar) handleClick(menus []menu, x, y int) func() {
	if y == 0 {
		if i := menuAt(menus, x); i >= 0 && i != b.open {
			b.openAt(menus, i)
			return nil
		}
		b.close()
		return nil
	}

	if b.open < len(menus) {
		frame := menus[b.open].dropdown()
		if frame.Inset(1, 1).Contains(x, y) {
			return b.choose(menus, y-frame.Y-1)
		}
	}
	b.close()
	return nil
}
