// Package pane drives one embedded program: it forwards keys to the child
// and, on every tick, applies the child's output to the pane's grid.
package pane

import (
	clog "github.com/charmbracelet/log"

	"github.com/dshills/termdesk/internal/emulator"
	"github.com/dshills/termdesk/internal/input/escape"
	"github.com/dshills/termdesk/internal/input/key"
	"github.com/dshills/termdesk/internal/logging"
	"github.com/dshills/termdesk/internal/transport"
)

// maxEventsPerTick bounds how many output events one tick drains.
const maxEventsPerTick = 64

// Transport is the pane's side of a child-process session.
type Transport interface {
	Send(in transport.Input) error
	Output() <-chan transport.Output
	Close() error
}

// Size is a pane size in cells.
type Size struct {
	Width  int
	Height int
}

// Pane is a child program rendered into a grid.
//
// A Pane is driven from a single goroutine: HandleKey and Tick must not be
// called concurrently.
type Pane struct {
	name   string
	conn   Transport
	parser *emulator.Parser
	grid   *emulator.Grid

	pending []byte
	pid     int
	exit    int
	err     error

	closing bool
	closed  bool

	logger *clog.Logger
}

// Option configures a Pane.
type Option func(*Pane)

// WithLogger sets the pane logger.
func WithLogger(l *clog.Logger) Option {
	return func(p *Pane) {
		p.logger = l
	}
}

// New creates a pane of the given size reading from conn.
func New(name string, conn Transport, size Size, opts ...Option) *Pane {
	p := &Pane{
		name:   name,
		conn:   conn,
		parser: emulator.NewParser(size.Width, size.Height),
		grid:   emulator.NewGrid(size.Width, size.Height),
		exit:   -1,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = logging.Component(p.logger, "pane").With("pane", name)
	p.parser.SetUnknownCallback(func(seq emulator.EscapeSequence) {
		p.logger.Debug("unsupported sequence", "seq", seq.String())
	})
	return p
}

// Name returns the pane name.
func (p *Pane) Name() string {
	return p.name
}

// Title returns the title set by the child, or the pane name.
func (p *Pane) Title() string {
	if t := p.parser.Title(); t != "" {
		return t
	}
	return p.name
}

// Grid returns the current grid. It is replaced, not mutated, by Tick.
func (p *Pane) Grid() *emulator.Grid {
	return p.grid
}

// Size returns the current grid size.
func (p *Pane) Size() Size {
	w, h := p.grid.Size()
	return Size{Width: w, Height: h}
}

// Pid returns the child's process id, or 0 before it is known.
func (p *Pane) Pid() int {
	return p.pid
}

// ExitCode returns the child's exit code, or -1 while it runs.
func (p *Pane) ExitCode() int {
	return p.exit
}

// Err returns the transport error that ended the pane, if any.
func (p *Pane) Err() error {
	return p.err
}

// Closing reports whether the pane is marked for shutdown.
func (p *Pane) Closing() bool {
	return p.closing
}

// Closed reports whether the pane has been shut down.
func (p *Pane) Closed() bool {
	return p.closed
}

// HandleKey forwards a key event to the child. Ctrl+C terminates the child
// and marks the pane for closing instead.
func (p *Pane) HandleKey(ev key.Event) {
	if p.closing || p.closed {
		return
	}

	if escape.IsInterrupt(ev) {
		p.logger.Debug("interrupt")
		p.send(transport.Terminate())
		p.closing = true
		return
	}

	if b, ok := escape.Encode(ev); ok {
		p.send(transport.Data(b))
	}
}

// Paste forwards text to the child unchanged.
func (p *Pane) Paste(text string) {
	if p.closing || p.closed || text == "" {
		return
	}
	p.send(transport.Data([]byte(text)))
}

// RequestClose marks the pane for shutdown on the next tick.
func (p *Pane) RequestClose() {
	p.closing = true
}

// send delivers an intent best-effort.
func (p *Pane) send(in transport.Input) {
	if err := p.conn.Send(in); err != nil {
		p.logger.Debug("send dropped", "input", in.String(), "err", err)
	}
}

// Tick runs one sync step with size as the pane's visible size. It returns
// false once the pane is closed.
func (p *Pane) Tick(size Size) bool {
	if p.closed {
		return false
	}
	if p.closing {
		p.Shutdown()
		return false
	}

	p.drain()
	if p.closing {
		p.Shutdown()
		return false
	}

	if size != p.Size() {
		p.resize(size)
	}
	return true
}

// drain applies whatever output has arrived without blocking.
func (p *Pane) drain() {
	var data []byte
	finished := false

loop:
	for i := 0; i < maxEventsPerTick; i++ {
		select {
		case out, ok := <-p.conn.Output():
			if !ok {
				finished = true
				break loop
			}
			switch out.Kind {
			case transport.OutputPid:
				p.pid = out.Pid
			case transport.OutputStdout:
				data = append(data, out.Data...)
			case transport.OutputError:
				p.err = out.Err
				p.logger.Warn("transport error", "err", out.Err)
				finished = true
			case transport.OutputTerminated:
				p.exit = out.ExitCode
				p.logger.Info("child exited", "code", out.ExitCode)
				finished = true
			}
		default:
			break loop
		}
	}

	if len(data) > 0 || (finished && len(p.pending) > 0) {
		p.apply(data, finished)
	}
	if finished {
		p.closing = true
	}
}

// apply parses data against a snapshot of the grid and installs the result.
// A trailing incomplete sequence is held back unless the child is gone.
func (p *Pane) apply(data []byte, flush bool) {
	buf := append(p.pending, data...)
	p.pending = nil

	if !flush {
		complete, pending := emulator.SplitPending(buf)
		if len(pending) > 0 {
			p.pending = append([]byte(nil), pending...)
		}
		buf = complete
	}
	if len(buf) == 0 {
		return
	}

	p.grid = p.parser.Parse(buf, p.grid.Clone())
}

// resize tells the child about the new size and replaces the grid with a
// blank one. The child is expected to redraw.
func (p *Pane) resize(size Size) {
	p.logger.Debug("resize", "width", size.Width, "height", size.Height)
	p.send(transport.Resize(size.Width, size.Height))
	p.parser.Resize(size.Width, size.Height)
	p.grid.Resize(size.Width, size.Height)
}

// Shutdown terminates the child, closes the transport and releases the
// pane. It is safe to call more than once.
func (p *Pane) Shutdown() {
	if p.closed {
		return
	}
	p.closing = true
	p.closed = true
	p.send(transport.Terminate())
	if err := p.conn.Close(); err != nil {
		p.logger.Debug("close failed", "err", err)
	}
	p.pending = nil
}
