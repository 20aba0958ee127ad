package desktop

import (
	"github.com/dshills/termdesk/internal/layout"
	"github.com/dshills/termdesk/internal/pane"
	"github.com/dshills/termdesk/internal/shortcut"
)

// closeButtonWidth is the width of the "[x]" on the title edge.
const closeButtonWidth = 3

// Window is a framed pane on the desktop.
type Window struct {
	shortcut shortcut.Shortcut
	name     string
	main     bool // started from the shortcut's own command
	pane     *pane.Pane
	rect     layout.Rect
	hidden   bool
}

// Title returns the title shown on the frame.
func (w *Window) Title() string {
	return w.pane.Title()
}

// Rect returns the outer frame.
func (w *Window) Rect() layout.Rect {
	return w.rect
}

// Pane returns the embedded pane.
func (w *Window) Pane() *pane.Pane {
	return w.pane
}

// content returns the area the pane grid is drawn into: inside the frame,
// inset by the shortcut padding.
func (w *Window) content() layout.Rect {
	size := w.shortcut.InnerSize(shortcut.Size{Width: w.rect.Width, Height: w.rect.Height})
	return layout.Rect{
		X:      w.rect.X + 1 + w.shortcut.Terminal.PaddingX/2,
		Y:      w.rect.Y + 1 + w.shortcut.Terminal.PaddingY/2,
		Width:  size.Width,
		Height: size.Height,
	}
}

func (w *Window) paneSize() pane.Size {
	c := w.content()
	return pane.Size{Width: c.Width, Height: c.Height}
}

// closeButton returns the column of the "[x]" and whether it is shown.
func (w *Window) closeButton() (x int, ok bool) {
	if !w.shortcut.Window.CloseButton || w.rect.Width < closeButtonWidth+4 {
		return 0, false
	}
	return w.rect.X + w.rect.Width - closeButtonWidth - 1, true
}

// tiled reports whether arrangements may move and resize the window.
func (w *Window) tiled() bool {
	return !w.hidden && !w.shortcut.Window.FixedPosition && w.shortcut.Window.Resizable
}
