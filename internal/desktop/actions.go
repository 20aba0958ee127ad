package desktop

import (
	"fmt"
	"slices"

	"github.com/dshills/termdesk/internal/layout"
	"github.com/dshills/termdesk/internal/pane"
	"github.com/dshills/termdesk/internal/shortcut"
	"github.com/dshills/termdesk/internal/transport"
)

// placementStep offsets each new window from the previous one.
const placementStep = 2

// menus builds the app bar for the current state.
func (d *Desktop) menus() []menu {
	menus := []menu{
		{title: "Desktop", items: []menuItem{{label: "Exit", action: d.exit}}},
		{title: "Tiling", items: d.tilingItems()},
	}

	if !d.loaded {
		menus = append(menus, menu{title: "Loading...", divider: true})
	}
	for i, s := range d.shortcuts {
		menus = append(menus, menu{
			title:   shortcutTitle(s),
			items:   d.shortcutItems(s),
			divider: i == 0,
		})
	}

	layoutMenus(menus)
	return menus
}

func shortcutTitle(s shortcut.Shortcut) string {
	if s.Logo != "" {
		return s.Logo + " " + s.Name
	}
	return s.Name
}

func (d *Desktop) tilingItems() []menuItem {
	items := make([]menuItem, 0, len(layout.Arrangements))
	for _, a := range layout.Arrangements {
		a := a // per-iteration copy for the closure (go 1.21 loop semantics)
		mark := "  "
		if a == d.arrangement {
			mark = "* "
		}
		items = append(items, menuItem{
			label:  mark + a.Label(),
			action: func() { d.setArrangement(a) },
		})
	}
	return items
}

func (d *Desktop) shortcutItems(s shortcut.Shortcut) []menuItem {
	open := d.windowsOf(s.Name)
	visible := false
	for _, h := range open {
		if w, _ := d.windows.Get(h); !w.hidden {
			visible = true
		}
	}

	toggle := "Show"
	if visible {
		toggle = "Hide"
	}

	items := []menuItem{
		{label: toggle, action: func() { d.toggleShortcut(s.Name) }, disabled: len(open) == 0},
		{label: "Start", action: func() { d.start(s, s.Launch(), true) }},
		{label: "Close", action: func() { d.closeShortcut(s.Name) }, disabled: len(open) == 0},
	}
	if len(s.AdditionalCommands) > 0 {
		items = append(items, separator())
		for _, c := range s.AdditionalCommands {
			c := c // per-iteration copy for the closure (go 1.21 loop semantics)
			items = append(items, menuItem{label: c.Name, action: func() { d.start(s, c, false) }})
		}
	}
	return items
}

// start opens a window for c. A shortcut whose own window is already open is
// brought to the front instead. Placeholders are asked for first.
func (d *Desktop) start(s shortcut.Shortcut, c shortcut.Command, main bool) {
	if main {
		for _, h := range d.windowsOf(s.Name) {
			if w, _ := d.windows.Get(h); w.main {
				w.hidden = false
				d.raise(h)
				d.arrange()
				return
			}
		}
	}

	needs := c.Needs()
	if len(needs) == 0 {
		d.spawn(s, c, main)
		return
	}

	d.ask(needs, func(values shortcut.Values) {
		expanded, err := c.Expand(values)
		if err != nil {
			d.notify(fmt.Errorf("%s: %w", c.Name, err))
			return
		}
		d.spawn(s, expanded, main)
	})
}

// ask prompts for each placeholder in turn and calls done with the answers.
// Cancelling any prompt abandons the launch.
func (d *Desktop) ask(needs []shortcut.Placeholder, done func(shortcut.Values)) {
	values := make(shortcut.Values, len(needs))

	var next func(i int)
	next = func(i int) {
		if i == len(needs) {
			d.prompt = nil
			done(values)
			return
		}
		p := needs[i]
		d.prompt = newPrompt(p.Prompt()+": ", func(v string, ok bool) {
			if !ok {
				d.prompt = nil
				d.notify(fmt.Errorf("%s: %w", p, shortcut.ErrNoSelection))
				return
			}
			values[p] = v
			next(i + 1)
		})
	}
	next(0)
}

func (d *Desktop) spawn(s shortcut.Shortcut, c shortcut.Command, main bool) {
	w := &Window{shortcut: s, name: c.Name, main: main, rect: d.placement(s)}
	size := w.paneSize()

	conn, err := d.launch(d.ctx, transport.Command{
		Name:    c.Name,
		Program: c.Command,
		Args:    c.Args,
		Cols:    size.Width,
		Rows:    size.Height,
	})
	if err != nil {
		d.notify(fmt.Errorf("start %s: %w", c.Name, err))
		return
	}

	w.pane = pane.New(c.Name, conn, size, pane.WithLogger(d.logger))
	h := d.windows.Insert(w)
	d.order = append(d.order, h)
	d.logger.Info("window opened", "name", c.Name, "window", h.String())
	d.arrange()
}

// placement centers a new window of the shortcut's size, offset by the
// number of open windows.
func (d *Desktop) placement(s shortcut.Shortcut) layout.Rect {
	area := d.area()
	width, height := s.Window.Size.Width, s.Window.Size.Height
	if width == 0 {
		width = shortcut.DefaultWidth
	}
	if height == 0 {
		height = shortcut.DefaultHeight
	}

	offset := (d.windows.Len() % 8) * placementStep
	r := layout.Rect{
		X:      area.X + (area.Width-width)/2 + offset,
		Y:      area.Y + (area.Height-height)/2 + offset,
		Width:  width,
		Height: height,
	}
	return r.Clip(area)
}

// arrange applies the current arrangement to the tiled windows and keeps
// every window on screen.
func (d *Desktop) arrange() {
	area := d.area()

	var tiled []*Window
	for _, h := range d.order {
		w, _ := d.windows.Get(h)
		if w.tiled() {
			tiled = append(tiled, w)
		}
	}
	for i, r := range layout.Arrange(d.arrangement, area, len(tiled)) {
		tiled[i].rect = r
	}

	d.windows.Each(func(_ pane.Handle, w *Window) bool {
		w.rect = w.rect.Clip(area)
		return true
	})
}

func (d *Desktop) setArrangement(a layout.Arrangement) {
	d.arrangement = a
	d.logger.Debug("arrangement", "name", a.String())
	d.arrange()
}

// focused returns the front-most visible window.
func (d *Desktop) focused() (pane.Handle, bool) {
	for i := len(d.order) - 1; i >= 0; i-- {
		if w, ok := d.windows.Get(d.order[i]); ok && !w.hidden {
			return d.order[i], true
		}
	}
	return pane.Handle{}, false
}

// focusNext sends the front window to the back.
func (d *Desktop) focusNext() {
	h, ok := d.focused()
	if !ok {
		return
	}
	i := slices.Index(d.order, h)
	d.order = slices.Delete(d.order, i, i+1)
	d.order = slices.Insert(d.order, 0, h)
}

// raise moves h to the front.
func (d *Desktop) raise(h pane.Handle) {
	i := slices.Index(d.order, h)
	if i < 0 || i == len(d.order)-1 {
		return
	}
	d.order = slices.Delete(d.order, i, i+1)
	d.order = append(d.order, h)
}

// windowAt returns the front-most visible window containing (x, y).
func (d *Desktop) windowAt(x, y int) (pane.Handle, *Window, bool) {
	for i := len(d.order) - 1; i >= 0; i-- {
		w, ok := d.windows.Get(d.order[i])
		if ok && !w.hidden && w.rect.Contains(x, y) {
			return d.order[i], w, true
		}
	}
	return pane.Handle{}, nil, false
}

// windowsOf returns the windows started from the named shortcut.
func (d *Desktop) windowsOf(name string) []pane.Handle {
	var hs []pane.Handle
	for _, h := range d.order {
		if w, _ := d.windows.Get(h); w.shortcut.Name == name {
			hs = append(hs, h)
		}
	}
	return hs
}

func (d *Desktop) toggleShortcut(name string) {
	hs := d.windowsOf(name)
	hide := false
	for _, h := range hs {
		if w, _ := d.windows.Get(h); !w.hidden {
			hide = true
		}
	}
	for _, h := range hs {
		w, _ := d.windows.Get(h)
		w.hidden = hide
	}
	d.arrange()
}

func (d *Desktop) closeShortcut(name string) {
	for _, h := range d.windowsOf(name) {
		d.closeWindow(h)
	}
}

// closeWindow asks the window's pane to shut down; the next tick removes it.
func (d *Desktop) closeWindow(h pane.Handle) {
	if w, ok := d.windows.Get(h); ok {
		w.pane.RequestClose()
	}
}

func (d *Desktop) removeWindow(h pane.Handle) {
	w, ok := d.windows.Remove(h)
	if !ok {
		return
	}
	if i := slices.Index(d.order, h); i >= 0 {
		d.order = slices.Delete(d.order, i, i+1)
	}
	if d.drag != nil && d.drag.handle == h {
		d.drag = nil
	}
	d.logger.Info("window closed", "name", w.name, "window", h.String(), "exit", w.pane.ExitCode())
	d.arrange()
}

// closeAll shuts down every pane.
func (d *Desktop) closeAll() {
	d.windows.Each(func(_ pane.Handle, w *Window) bool {
		w.pane.Shutdown()
		return true
	})
	for _, h := range d.windows.Handles() {
		d.windows.Remove(h)
	}
	d.order = nil
}

func (d *Desktop) exit() {
	d.quit = true
}
