// Package desktop hosts embedded programs in windows on a tcell screen.
//
// The desktop owns a single run loop. Terminal events, the pane tick, the
// clock and calls posted from other goroutines are all handled on it, so
// panes, windows and menus need no locking.
package desktop

import (
	"context"
	"strings"
	"time"

	clog "github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/termdesk/internal/config"
	"github.com/dshills/termdesk/internal/input/key"
	"github.com/dshills/termdesk/internal/layout"
	"github.com/dshills/termdesk/internal/logging"
	"github.com/dshills/termdesk/internal/pane"
	"github.com/dshills/termdesk/internal/shortcut"
	"github.com/dshills/termdesk/internal/transport"
)

const (
	clockInterval = 2 * time.Second
	clockFormat   = "15:04"
	statusTimeout = 5 * time.Second

	eventQueue = 64
	callQueue  = 16
)

// Launcher starts the transport for a window.
type Launcher func(ctx context.Context, c transport.Command) (pane.Transport, error)

// TransportLauncher starts programs on a PTY.
func TransportLauncher(logger *clog.Logger) Launcher {
	return func(ctx context.Context, c transport.Command) (pane.Transport, error) {
		s, err := transport.Start(ctx, c, transport.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

// Option configures a Desktop.
type Option func(*Desktop)

// WithLogger sets the desktop logger.
func WithLogger(l *clog.Logger) Option {
	return func(d *Desktop) {
		d.logger = l
	}
}

// WithLauncher replaces the PTY launcher.
func WithLauncher(fn Launcher) Option {
	return func(d *Desktop) {
		d.launch = fn
	}
}

// WithClock sets the time source for the app bar clock.
func WithClock(now func() time.Time) Option {
	return func(d *Desktop) {
		d.now = now
	}
}

// Desktop is the window manager.
type Desktop struct {
	screen   tcell.Screen
	bindings config.Bindings
	interval time.Duration
	launch   Launcher
	now      func() time.Time
	logger   *clog.Logger

	ctx   context.Context
	calls chan func()
	done  chan struct{}
	quit  bool

	shortcuts []shortcut.Shortcut
	loaded    bool

	windows     *pane.Arena[*Window]
	order       []pane.Handle // back to front; the last visible window has focus
	arrangement layout.Arrangement

	bar    menuBar
	prompt *prompt
	clock  string

	status      string
	statusUntil time.Time

	pasting bool
	paste   strings.Builder

	buttonDown bool
	drag       *drag
}

// drag is a window being moved by its title edge.
type drag struct {
	handle  pane.Handle
	offsetX int
}

// New creates a desktop drawing on screen. The screen must be initialized;
// the caller finalizes it after Run returns.
func New(screen tcell.Screen, cfg *config.Config, opts ...Option) (*Desktop, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	bindings, err := cfg.Bindings()
	if err != nil {
		return nil, err
	}

	d := &Desktop{
		screen:      screen,
		bindings:    bindings,
		interval:    cfg.TickInterval.Duration,
		now:         time.Now,
		ctx:         context.Background(),
		calls:       make(chan func(), callQueue),
		done:        make(chan struct{}),
		windows:     pane.NewArena[*Window](),
		arrangement: cfg.Arrangement(),
		bar:         newMenuBar(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = logging.Component(d.logger, "desktop")
	if d.launch == nil {
		d.launch = TransportLauncher(d.logger)
	}
	if d.interval <= 0 {
		d.interval = config.DefaultTickInterval
	}
	return d, nil
}

// UpdateShortcuts replaces the shortcut catalogue. It is safe to call from
// any goroutine.
func (d *Desktop) UpdateShortcuts(s []shortcut.Shortcut) {
	d.post(func() { d.setShortcuts(s) })
}

// ReportError shows err on the status line. It is safe to call from any
// goroutine.
func (d *Desktop) ReportError(err error) {
	d.post(func() { d.notify(err) })
}

// post runs fn on the run loop.
func (d *Desktop) post(fn func()) {
	select {
	case d.calls <- fn:
	case <-d.done:
	}
}

// Windows returns the number of open windows.
func (d *Desktop) Windows() int {
	return d.windows.Len()
}

// Run drives the desktop until Exit is chosen or ctx is cancelled. Every
// window is closed before it returns.
func (d *Desktop) Run(ctx context.Context) error {
	d.ctx = ctx
	defer close(d.done)
	defer d.closeAll()

	events := make(chan tcell.Event, eventQueue)
	go d.poll(events)

	tick := time.NewTicker(d.interval)
	defer tick.Stop()
	clock := time.NewTicker(clockInterval)
	defer clock.Stop()

	d.logger.Info("desktop started", "tick", d.interval, "arrangement", d.arrangement.String())
	d.updateClock()
	d.draw()

	for !d.quit {
		select {
		case <-ctx.Done():
			d.logger.Info("desktop cancelled")
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			d.handleEvent(ev)

		case <-tick.C:
			d.tick()

		case <-clock.C:
			d.updateClock()

		case fn := <-d.calls:
			fn()
		}
		d.draw()
	}

	d.logger.Info("desktop exited")
	return nil
}

// poll forwards screen events until the screen is finalized.
func (d *Desktop) poll(events chan<- tcell.Event) {
	for {
		ev := d.screen.PollEvent()
		if ev == nil {
			close(events)
			return
		}
		select {
		case events <- ev:
		case <-d.done:
			return
		}
	}
}

func (d *Desktop) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		d.screen.Sync()
		d.arrange()
	case *tcell.EventKey:
		d.handleKey(ev)
	case *tcell.EventMouse:
		d.handleMouse(ev)
	case *tcell.EventPaste:
		d.handlePaste(ev)
	}
}

func (d *Desktop) handleKey(tev *tcell.EventKey) {
	ev, ok := convertKey(tev)
	if !ok {
		return
	}

	if d.pasting {
		d.pasteKey(ev)
		return
	}
	if d.prompt != nil {
		d.prompt.handleKey(ev)
		return
	}
	if d.bar.isOpen() {
		if action := d.bar.handleKey(d.menus(), ev); action != nil {
			action()
		}
		return
	}

	switch {
	case ev.Equals(d.bindings.OpenMenu):
		d.bar.openAt(d.menus(), 0)
	case ev.Equals(d.bindings.NextWindow):
		d.focusNext()
	case ev.Equals(d.bindings.CloseWindow):
		if h, ok := d.focused(); ok {
			d.closeWindow(h)
		}
	case ev.Equals(d.bindings.CycleArrangement):
		d.setArrangement(d.arrangement.Next())
	default:
		if h, ok := d.focused(); ok {
			w, _ := d.windows.Get(h)
			w.pane.HandleKey(ev)
		}
	}
}

// pasteKey collects a key that arrived inside a bracketed paste.
func (d *Desktop) pasteKey(ev key.Event) {
	switch ev.Key {
	case key.KeyEnter:
		d.paste.WriteByte('\r')
	case key.KeyTab:
		d.paste.WriteByte('\t')
	default:
		if r := ev.Text(); r != 0 {
			d.paste.WriteRune(r)
		}
	}
}

func (d *Desktop) handlePaste(ev *tcell.EventPaste) {
	if ev.Start() {
		d.pasting = true
		d.paste.Reset()
		return
	}

	d.pasting = false
	text := d.paste.String()
	d.paste.Reset()

	switch {
	case d.prompt != nil:
		d.prompt.paste(text)
	case d.bar.isOpen():
	default:
		if h, ok := d.focused(); ok {
			w, _ := d.windows.Get(h)
			w.pane.Paste(text)
		}
	}
}

func (d *Desktop) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()

	if ev.Buttons()&tcell.Button1 == 0 {
		d.buttonDown = false
		d.drag = nil
		return
	}
	if d.buttonDown {
		d.dragTo(x, y)
		return
	}
	d.buttonDown = true

	if d.prompt != nil {
		return
	}

	menus := d.menus()
	if d.bar.isOpen() {
		if action := d.bar.handleClick(menus, x, y); action != nil {
			action()
		}
		return
	}
	if y == 0 {
		if i := menuAt(menus, x); i >= 0 && len(menus[i].items) > 0 {
			d.bar.openAt(menus, i)
		}
		return
	}

	h, w, ok := d.windowAt(x, y)
	if !ok {
		return
	}
	d.raise(h)

	if y != w.rect.Y {
		return
	}
	if bx, ok := w.closeButton(); ok && x >= bx && x < bx+closeButtonWidth {
		d.closeWindow(h)
		return
	}
	if !w.shortcut.Window.FixedPosition {
		d.drag = &drag{handle: h, offsetX: x - w.rect.X}
	}
}

func (d *Desktop) dragTo(x, y int) {
	if d.drag == nil {
		return
	}
	w, ok := d.windows.Get(d.drag.handle)
	if !ok {
		d.drag = nil
		return
	}
	w.rect.X = x - d.drag.offsetX
	w.rect.Y = y
	w.rect = w.rect.Clip(d.area())
}

// tick advances every pane and drops the ones that closed.
func (d *Desktop) tick() {
	var closed []pane.Handle
	d.windows.Each(func(h pane.Handle, w *Window) bool {
		if !w.pane.Tick(w.paneSize()) {
			closed = append(closed, h)
		}
		return true
	})
	for _, h := range closed {
		d.removeWindow(h)
	}

	if d.status != "" && d.now().After(d.statusUntil) {
		d.status = ""
	}
}

func (d *Desktop) updateClock() {
	d.clock = d.now().Format(clockFormat)
}

// notify shows err on the status line for a while. Multi-line errors are
// joined into one line.
func (d *Desktop) notify(err error) {
	d.logger.Warn("desktop", "err", err)
	d.status = strings.Join(strings.Fields(strings.ReplaceAll(err.Error(), "\n", " | ")), " ")
	d.statusUntil = d.now().Add(statusTimeout)
}

func (d *Desktop) setShortcuts(s []shortcut.Shortcut) {
	d.shortcuts = s
	d.loaded = true
	d.bar.close()
	d.logger.Info("shortcuts loaded", "count", len(s))
}

// area is the desktop below the app bar.
func (d *Desktop) area() layout.Rect {
	w, h := d.screen.Size()
	return layout.Rect{X: 0, Y: 1, Width: w, Height: max(h-1, 0)}
}
