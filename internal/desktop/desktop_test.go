package desktop

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/termdesk/internal/config"
	"github.com/dshills/termdesk/internal/layout"
	"github.com/dshills/termdesk/internal/pane"
	"github.com/dshills/termdesk/internal/shortcut"
	"github.com/dshills/termdesk/internal/transport"
)

type fakeConn struct {
	mu     sync.Mutex
	sent   []transport.Input
	out    chan transport.Output
	closed bool
}

func (c *fakeConn) Send(in transport.Input) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, in)
	return nil
}

func (c *fakeConn) Output() <-chan transport.Output {
	return c.out
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) data() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var sb strings.Builder
	for _, in := range c.sent {
		if in.Kind == transport.InputData {
			sb.Write(in.Data)
		}
	}
	return sb.String()
}

func (c *fakeConn) terminated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, in := range c.sent {
		if in.Kind == transport.InputTerminate {
			return true
		}
	}
	return false
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

type fakeLauncher struct {
	mu    sync.Mutex
	cmds  []transport.Command
	conns []*fakeConn
	err   error
}

func (l *fakeLauncher) launch(_ context.Context, c transport.Command) (pane.Transport, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	conn := &fakeConn{out: make(chan transport.Output, 16)}
	l.cmds = append(l.cmds, c)
	l.conns = append(l.conns, conn)
	return conn, nil
}

func (l *fakeLauncher) launched() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.cmds)
}

func testShortcut(name string, args ...string) shortcut.Shortcut {
	return shortcut.Shortcut{
		Name:    name,
		Command: "prog-" + strings.ToLower(name),
		Args:    args,
		Window: shortcut.Window{
			Size:        shortcut.Size{Width: 40, Height: 10},
			Resizable:   true,
			CloseButton: true,
		},
	}
}

func newTestDesktop(t *testing.T, cfg *config.Config) (*Desktop, *fakeLauncher, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(80, 24)

	l := &fakeLauncher{}
	clock := func() time.Time { return time.Date(2026, 1, 2, 9, 5, 0, 0, time.Local) }
	d, err := New(screen, cfg, WithLauncher(l.launch), WithClock(clock))
	require.NoError(t, err)
	return d, l, screen
}

func contentAt(s tcell.Screen, x, y int) rune {
	r, _, _, _ := s.GetContent(x, y) //nolint:staticcheck // GetContent is the correct API
	return r
}

func rowText(s tcell.Screen, y, from, to int) string {
	var sb strings.Builder
	for x := from; x < to; x++ {
		sb.WriteRune(contentAt(s, x, y))
	}
	return sb.String()
}

func keyEvent(k tcell.Key, r rune, mod tcell.ModMask) *tcell.EventKey {
	return tcell.NewEventKey(k, r, mod)
}

func TestStartSpawnsWindow(t *testing.T) {
	d, l, _ := newTestDesktop(t, nil)
	s := testShortcut("Shell", "-l")

	d.start(s, s.Launch(), true)

	require.Equal(t, 1, d.Windows())
	require.Len(t, l.cmds, 1)
	assert.Equal(t, "prog-shell", l.cmds[0].Program)
	assert.Equal(t, []string{"-l"}, l.cmds[0].Args)
	assert.Equal(t, 38, l.cmds[0].Cols)
	assert.Equal(t, 8, l.cmds[0].Rows)

	h, ok := d.focused()
	require.True(t, ok)
	w, _ := d.windows.Get(h)
	assert.Equal(t, layout.Rect{X: 20, Y: 7, Width: 40, Height: 10}, w.Rect())
}

func TestStartFocusesOpenWindow(t *testing.T) {
	d, l, _ := newTestDesktop(t, nil)
	a, b := testShortcut("A"), testShortcut("B")

	d.start(a, a.Launch(), true)
	d.start(b, b.Launch(), true)
	d.start(a, a.Launch(), true)

	assert.Equal(t, 2, d.Windows())
	assert.Equal(t, 2, l.launched())
	h, _ := d.focused()
	w, _ := d.windows.Get(h)
	assert.Equal(t, "A", w.shortcut.Name)
}

func TestAdditionalCommandsOpenNewWindows(t *testing.T) {
	d, l, _ := newTestDesktop(t, nil)
	s := testShortcut("Editor")
	s.AdditionalCommands = []shortcut.Command{{Name: "Scratch", Command: "scratch"}}

	c, err := s.AdditionalCommand("Scratch")
	require.NoError(t, err)
	d.start(s, c, false)
	d.start(s, c, false)

	assert.Equal(t, 2, d.Windows())
	assert.Equal(t, "scratch", l.cmds[1].Program)
}

func TestKeysForwardedToFocusedWindow(t *testing.T) {
	d, l, _ := newTestDesktop(t, nil)
	s := testShortcut("Shell")
	d.start(s, s.Launch(), true)

	d.handleKey(keyEvent(tcell.KeyRune, 'l', tcell.ModNone))
	d.handleKey(keyEvent(tcell.KeyRune, 'S', tcell.ModNone))
	d.handleKey(keyEvent(tcell.KeyUp, 0, tcell.ModShift))
	d.handleKey(keyEvent(tcell.KeyEnter, 0, tcell.ModNone))

	assert.Equal(t, "lS\x1b[1;2A\r", l.conns[0].data())
}

func TestCtrlCClosesWindow(t *testing.T) {
	d, l, _ := newTestDesktop(t, nil)
	s := testShortcut("Shell")
	d.start(s, s.Launch(), true)

	d.handleKey(keyEvent(tcell.KeyCtrlC, 0, tcell.ModCtrl))
	assert.True(t, l.conns[0].terminated())
	assert.Empty(t, l.conns[0].data())

	d.tick()
	assert.Zero(t, d.Windows())
	assert.True(t, l.conns[0].isClosed())
	_, ok := d.focused()
	assert.False(t, ok)
}

func TestChildExitRemovesWindow(t *testing.T) {
	d, l, _ := newTestDesktop(t, nil)
	s := testShortcut("Shell")
	d.start(s, s.Launch(), true)

	l.conns[0].out <- transport.Output{Kind: transport.OutputTerminated, ExitCode: 0}
	d.tick()

	assert.Zero(t, d.Windows())
}

func TestPaintsPaneGrid(t *testing.T) {
	d, l, screen := newTestDesktop(t, nil)
	s := testShortcut("Shell")
	d.start(s, s.Launch(), true)

	l.conns[0].out <- transport.Output{Kind: transport.OutputStdout, Data: []byte("hello\x1b]2;My Title\x07")}
	d.tick()
	d.draw()

	assert.Equal(t, "hello", rowText(screen, 8, 21, 26))
	assert.Equal(t, tcell.RuneULCorner, contentAt(screen, 20, 7))
	assert.Equal(t, tcell.RuneLRCorner, contentAt(screen, 59, 16))
	assert.Equal(t, "[x]", rowText(screen, 7, 56, 59))
	assert.Contains(t, rowText(screen, 7, 20, 60), "My Title")
}

func TestClockAndMenusDrawn(t *testing.T) {
	d, _, screen := newTestDesktop(t, nil)
	d.updateClock()
	d.draw()

	assert.Equal(t, "09:05", rowText(screen, 0, 74, 79))
	assert.Equal(t, " Desktop ", rowText(screen, 0, 1, 10))
	assert.Contains(t, rowText(screen, 0, 0, 60), "Loading...")

	d.setShortcuts([]shortcut.Shortcut{testShortcut("Shell")})
	d.draw()
	bar := rowText(screen, 0, 0, 60)
	assert.NotContains(t, bar, "Loading...")
	assert.Contains(t, bar, "Shell")
}

func TestPlaceholderPrompt(t *testing.T) {
	d, l, screen := newTestDesktop(t, nil)
	s := testShortcut("Editor", "<FILE_PATH>", "--dir=<FOLDER_PATH>")

	d.start(s, s.Launch(), true)
	require.NotNil(t, d.prompt)
	assert.Zero(t, l.launched())

	d.draw()
	assert.Equal(t, "Select file:", rowText(screen, 23, 1, 13))

	for _, r := range "a.txt" {
		d.handleKey(keyEvent(tcell.KeyRune, r, tcell.ModNone))
	}
	d.handleKey(keyEvent(tcell.KeyEnter, 0, tcell.ModNone))
	require.NotNil(t, d.prompt)
	assert.Equal(t, "Select folder: ", d.prompt.label)

	for _, r := range "/tmp" {
		d.handleKey(keyEvent(tcell.KeyRune, r, tcell.ModNone))
	}
	d.handleKey(keyEvent(tcell.KeyEnter, 0, tcell.ModNone))

	assert.Nil(t, d.prompt)
	require.Equal(t, 1, l.launched())
	assert.Equal(t, []string{"a.txt", "--dir=/tmp"}, l.cmds[0].Args)
}

func TestPlaceholderPromptCancelled(t *testing.T) {
	d, l, screen := newTestDesktop(t, nil)
	s := testShortcut("Editor", "<FILE_PATH>")

	d.start(s, s.Launch(), true)
	d.handleKey(keyEvent(tcell.KeyEscape, 0, tcell.ModNone))

	assert.Nil(t, d.prompt)
	assert.Zero(t, l.launched())
	assert.Contains(t, d.status, shortcut.ErrNoSelection.Error())

	d.draw()
	assert.Contains(t, rowText(screen, 23, 0, 80), "no selection")
}

func TestEmptyPlaceholderAbortsLaunch(t *testing.T) {
	d, l, _ := newTestDesktop(t, nil)
	s := testShortcut("Editor", "<FILE_PATH>")

	d.start(s, s.Launch(), true)
	d.handleKey(keyEvent(tcell.KeyEnter, 0, tcell.ModNone))

	assert.Zero(t, l.launched())
	assert.Contains(t, d.status, "no selection")
}

func TestLaunchErrorShowsStatus(t *testing.T) {
	d, l, _ := newTestDesktop(t, nil)
	l.err = errors.New("boom")
	s := testShortcut("Shell")

	d.start(s, s.Launch(), true)

	assert.Zero(t, d.Windows())
	assert.Equal(t, "start Shell: boom", d.status)
}

func TestStatusExpires(t *testing.T) {
	d, _, _ := newTestDesktop(t, nil)
	now := time.Date(2026, 1, 2, 9, 5, 0, 0, time.Local)
	d.now = func() time.Time { return now }

	d.notify(errors.New("oops"))
	d.tick()
	assert.Equal(t, "oops", d.status)

	now = now.Add(statusTimeout + time.Second)
	d.tick()
	assert.Empty(t, d.status)
}

func TestStatusFlattensJoinedErrors(t *testing.T) {
	d, _, _ := newTestDesktop(t, nil)

	d.notify(errors.Join(errors.New("a.toml: bad"), errors.New("b.toml: worse")))

	assert.Equal(t, "a.toml: bad | b.toml: worse", d.status)
	assert.NotContains(t, d.status, "\n")
}

func TestGridArrangement(t *testing.T) {
	cfg := config.Default()
	cfg.DefaultArrangement = "grid"
	d, _, _ := newTestDesktop(t, cfg)

	a, b := testShortcut("A"), testShortcut("B")
	d.start(a, a.Launch(), true)
	d.start(b, b.Launch(), true)

	want := layout.Arrange(layout.Grid, d.area(), 2)
	for i, h := range d.order {
		w, _ := d.windows.Get(h)
		assert.Equal(t, want[i], w.Rect(), "window %d", i)
	}

	// Pane sizes follow the new rectangles on the next tick.
	d.tick()
	w, _ := d.windows.Get(d.order[0])
	assert.Equal(t, pane.Size{Width: 38, Height: 21}, w.Pane().Size())
}

func TestFixedWindowsAreNotTiled(t *testing.T) {
	cfg := config.Default()
	cfg.DefaultArrangement = "vertical"
	d, _, _ := newTestDesktop(t, cfg)

	fixed := testShortcut("Fixed")
	fixed.Window.FixedPosition = true
	d.start(fixed, fixed.Launch(), true)

	w, _ := d.windows.Get(d.order[0])
	assert.Equal(t, layout.Rect{X: 20, Y: 7, Width: 40, Height: 10}, w.Rect())
}

func TestHotkeys(t *testing.T) {
	d, l, _ := newTestDesktop(t, nil)
	a, b := testShortcut("A"), testShortcut("B")
	d.start(a, a.Launch(), true)
	d.start(b, b.Launch(), true)

	front := func() string {
		h, _ := d.focused()
		w, _ := d.windows.Get(h)
		return w.shortcut.Name
	}
	assert.Equal(t, "B", front())

	d.handleKey(keyEvent(tcell.KeyF6, 0, tcell.ModNone))
	assert.Equal(t, "A", front())
	d.handleKey(keyEvent(tcell.KeyF6, 0, tcell.ModNone))
	assert.Equal(t, "B", front())

	d.handleKey(keyEvent(tcell.KeyF7, 0, tcell.ModNone))
	assert.Equal(t, layout.Cascade, d.arrangement)

	d.handleKey(keyEvent(tcell.KeyF4, 0, tcell.ModCtrl))
	w, _ := d.windows.Get(d.order[1])
	assert.True(t, w.Pane().Closing())
	d.tick()
	assert.Equal(t, 1, d.Windows())
	assert.Equal(t, "A", front())

	// Hotkeys are not forwarded to the pane.
	assert.Empty(t, l.conns[0].data())
}

func TestMenuExit(t *testing.T) {
	d, _, _ := newTestDesktop(t, nil)

	d.handleKey(keyEvent(tcell.KeyF10, 0, tcell.ModNone))
	require.True(t, d.bar.isOpen())
	assert.Equal(t, 0, d.bar.open)

	d.handleKey(keyEvent(tcell.KeyEnter, 0, tcell.ModNone))
	assert.True(t, d.quit)
	assert.False(t, d.bar.isOpen())
}

func TestTilingMenu(t *testing.T) {
	d, _, _ := newTestDesktop(t, nil)

	d.handleKey(keyEvent(tcell.KeyF10, 0, tcell.ModNone))
	d.handleKey(keyEvent(tcell.KeyRight, 0, tcell.ModNone))
	d.handleKey(keyEvent(tcell.KeyDown, 0, tcell.ModNone))
	d.handleKey(keyEvent(tcell.KeyDown, 0, tcell.ModNone))
	d.handleKey(keyEvent(tcell.KeyEnter, 0, tcell.ModNone))

	assert.Equal(t, layout.Vertical, d.arrangement)
	assert.Equal(t, "* Vertical", d.tilingItems()[2].label)
}

func TestShortcutMenuItems(t *testing.T) {
	d, l, _ := newTestDesktop(t, nil)
	s := testShortcut("Shell")
	s.AdditionalCommands = []shortcut.Command{{Name: "Login", Command: "login-shell"}}
	d.setShortcuts([]shortcut.Shortcut{s})

	menus := d.menus()
	require.Len(t, menus, 3)
	assert.True(t, menus[2].divider)

	items := menus[2].items
	require.Len(t, items, 5)
	assert.Equal(t, "Show", items[0].label)
	assert.True(t, items[0].disabled)
	assert.True(t, items[2].disabled)
	assert.True(t, items[3].separator)

	items[1].action()
	require.Equal(t, 1, d.Windows())

	items = d.menus()[2].items
	assert.Equal(t, "Hide", items[0].label)
	items[0].action()
	_, ok := d.focused()
	assert.False(t, ok, "hidden window has focus")

	items = d.menus()[2].items
	assert.Equal(t, "Show", items[0].label)
	items[0].action()
	_, ok = d.focused()
	assert.True(t, ok)

	items[4].action()
	assert.Equal(t, 2, d.Windows())
	assert.Equal(t, "login-shell", l.cmds[1].Program)

	d.menus()[2].items[2].action()
	d.tick()
	assert.Zero(t, d.Windows())
}

func TestMouseFocusDragAndClose(t *testing.T) {
	d, l, _ := newTestDesktop(t, nil)
	a, b := testShortcut("A"), testShortcut("B")
	d.start(a, a.Launch(), true) // (20,7)
	d.start(b, b.Launch(), true) // (22,9)

	release := tcell.NewEventMouse(0, 0, tcell.ButtonNone, tcell.ModNone)

	d.handleMouse(tcell.NewEventMouse(21, 8, tcell.Button1, tcell.ModNone))
	d.handleMouse(release)
	h, _ := d.focused()
	w, _ := d.windows.Get(h)
	require.Equal(t, "A", w.shortcut.Name)

	// Drag A by its title edge.
	d.handleMouse(tcell.NewEventMouse(30, 7, tcell.Button1, tcell.ModNone))
	d.handleMouse(tcell.NewEventMouse(35, 12, tcell.Button1, tcell.ModNone))
	d.handleMouse(release)
	assert.Equal(t, 25, w.rect.X)
	assert.Equal(t, 12, w.rect.Y)

	bx, ok := w.closeButton()
	require.True(t, ok)
	d.handleMouse(tcell.NewEventMouse(bx+1, w.rect.Y, tcell.Button1, tcell.ModNone))
	d.handleMouse(release)
	assert.True(t, w.pane.Closing())

	d.tick()
	assert.Equal(t, 1, d.Windows())
	assert.True(t, l.conns[0].isClosed())
}

func TestMouseOpensMenu(t *testing.T) {
	d, _, _ := newTestDesktop(t, nil)
	menus := d.menus()

	d.handleMouse(tcell.NewEventMouse(menus[1].x+1, 0, tcell.Button1, tcell.ModNone))
	assert.Equal(t, 1, d.bar.open)

	d.handleMouse(tcell.NewEventMouse(0, 0, tcell.ButtonNone, tcell.ModNone))
	d.handleMouse(tcell.NewEventMouse(70, 20, tcell.Button1, tcell.ModNone))
	assert.False(t, d.bar.isOpen())
}

func TestPasteForwarded(t *testing.T) {
	d, l, _ := newTestDesktop(t, nil)
	s := testShortcut("Shell")
	d.start(s, s.Launch(), true)

	d.handleEvent(tcell.NewEventPaste(true))
	for _, r := range "hi" {
		d.handleEvent(keyEvent(tcell.KeyRune, r, tcell.ModNone))
	}
	d.handleEvent(keyEvent(tcell.KeyEnter, 0, tcell.ModNone))
	d.handleEvent(tcell.NewEventPaste(false))

	assert.Equal(t, "hi\r", l.conns[0].data())
}

func TestRunClosesWindowsOnCancel(t *testing.T) {
	d, l, screen := newTestDesktop(t, nil)
	s := testShortcut("Shell")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	d.UpdateShortcuts([]shortcut.Shortcut{s})
	d.post(func() { d.start(s, s.Launch(), true) })
	require.Eventually(t, func() bool { return l.launched() == 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
	screen.Fini()

	assert.True(t, l.conns[0].isClosed())
	assert.True(t, l.conns[0].terminated())
	assert.Zero(t, d.Windows())

	// Posting after Run returns does not block.
	d.ReportError(errors.New("late"))
}

func TestRunExitsFromMenu(t *testing.T) {
	d, _, screen := newTestDesktop(t, nil)

	done := make(chan error, 1)
	go func() { done <- d.Run(context.Background()) }()

	d.post(d.exit)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
	screen.Fini()
}

func TestNewRejectsBadBindings(t *testing.T) {
	cfg := config.Default()
	cfg.Keys.OpenMenu = "Hyper+X"
	screen := tcell.NewSimulationScreen("UTF-8")
	_, err := New(screen, cfg)
	assert.Error(t, err)
}
