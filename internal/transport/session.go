// Package transport runs a child program on a pseudo-terminal and connects
// it to a pane through two channels: outbound Input intents and inbound
// Output events.
package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	clog "github.com/charmbracelet/log"
	"github.com/creack/pty"
	"github.com/google/uuid"

	"github.com/dshills/termdesk/internal/logging"
)

const (
	defaultCols = 80
	defaultRows = 24

	readBufferSize = 4096
	inputQueueSize = 256
	outputQueue    = 64

	// DefaultGracePeriod is how long a terminated child has to exit before
	// it is killed.
	DefaultGracePeriod = 2 * time.Second

	// drainTimeout is how long output is read after the child exits before
	// the PTY is closed under any process still holding it.
	drainTimeout = 200 * time.Millisecond
)

// Command describes the program to run.
type Command struct {
	// Name is a display name used in logs.
	Name string

	// Program is the executable, resolved through PATH.
	Program string

	// Args are the program arguments.
	Args []string

	// Env are additional environment variables.
	Env []string

	// Dir is the working directory.
	Dir string

	// Cols and Rows are the initial PTY size (default 80x24).
	Cols int
	Rows int
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *clog.Logger) Option {
	return func(s *Session) {
		s.logger = l
	}
}

// WithGracePeriod sets the delay between SIGTERM and SIGKILL.
func WithGracePeriod(d time.Duration) Option {
	return func(s *Session) {
		s.grace = d
	}
}

// Session is a running child process attached to a PTY.
type Session struct {
	id   string
	name string

	cmd  *exec.Cmd
	ptmx *os.File

	input  chan Input
	output chan Output

	done      chan struct{} // closed by Close
	exited    chan struct{} // closed when the child has been reaped
	readDone  chan struct{} // closed when the read loop stops
	closeOnce sync.Once
	closed    atomic.Bool
	exitCode  int

	grace  time.Duration
	logger *clog.Logger
}

// Start spawns c on a new PTY. Cancelling ctx closes the session.
func Start(ctx context.Context, c Command, opts ...Option) (*Session, error) {
	if c.Program == "" {
		return nil, ErrNoProgram
	}
	path, err := exec.LookPath(c.Program)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProgramNotFound, c.Program)
	}
	if c.Cols <= 0 {
		c.Cols = defaultCols
	}
	if c.Rows <= 0 {
		c.Rows = defaultRows
	}
	if c.Name == "" {
		c.Name = c.Program
	}

	cmd := exec.Command(path, c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = append(os.Environ(), c.Env...)
	cmd.Env = append(cmd.Env, "TERM=xterm-256color")

	s := &Session{
		id:       uuid.New().String(),
		name:     c.Name,
		cmd:      cmd,
		input:    make(chan Input, inputQueueSize),
		output:   make(chan Output, outputQueue),
		done:     make(chan struct{}),
		exited:   make(chan struct{}),
		readDone: make(chan struct{}),
		grace:    DefaultGracePeriod,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.Component(s.logger, "transport").With("session", s.name, "id", s.id)

	ptmx, err := pty.StartWithSize(cmd, winsize(c.Cols, c.Rows))
	if err != nil {
		return nil, fmt.Errorf("start pty: %w", err)
	}
	s.ptmx = ptmx

	s.output <- Output{Kind: OutputPid, Pid: cmd.Process.Pid}
	s.logger.Debug("started", "program", path, "pid", cmd.Process.Pid)

	go s.waitLoop()
	go s.readLoop()
	go s.writeLoop()
	go func() {
		select {
		case <-ctx.Done():
			s.Close()
		case <-s.exited:
		}
	}()

	return s, nil
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// Name returns the display name.
func (s *Session) Name() string {
	return s.name
}

// Output returns the inbound event channel. It is closed after the
// Terminated event.
func (s *Session) Output() <-chan Output {
	return s.output
}

// Send queues an intent without blocking.
func (s *Session) Send(in Input) error {
	if s.closed.Load() {
		return ErrSessionClosed
	}
	select {
	case <-s.done:
		return ErrSessionClosed
	case s.input <- in:
		return nil
	default:
		return ErrInputFull
	}
}

// Close terminates the child and stops the session. It is safe to call more
// than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		close(s.done)
		s.terminate()
		s.logger.Debug("closed")
	})
	return nil
}

// readLoop copies PTY output into Stdout events, then reports the exit.
func (s *Session) readLoop() {
	defer close(s.output)

	buf := make([]byte, readBufferSize)
	for {
		n, err := s.ptmx.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			if !s.emit(Output{Kind: OutputStdout, Data: chunk}) {
				break
			}
		}
		if err != nil {
			if !isEndOfOutput(err) && !s.closed.Load() {
				s.logger.Warn("read failed", "err", err)
				s.emit(Output{Kind: OutputError, Err: err})
			}
			break
		}
	}
	close(s.readDone)

	<-s.exited
	s.emit(Output{Kind: OutputTerminated, ExitCode: s.exitCode})
}

// emit delivers an event unless the session has been closed.
func (s *Session) emit(out Output) bool {
	select {
	case s.output <- out:
		return true
	case <-s.done:
		return false
	}
}

// isEndOfOutput reports whether a read error means the child side of the PTY
// went away. Linux reports EIO rather than EOF.
func isEndOfOutput(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, syscall.EIO) || errors.Is(err, os.ErrClosed)
}

// writeLoop applies queued intents in order.
func (s *Session) writeLoop() {
	for {
		select {
		case <-s.done:
			return
		case <-s.exited:
			return
		case in := <-s.input:
			s.apply(in)
		}
	}
}

func (s *Session) apply(in Input) {
	switch in.Kind {
	case InputData:
		if _, err := s.ptmx.Write(in.Data); err != nil {
			s.logger.Debug("write failed", "err", err)
		}
	case InputResize:
		if err := pty.Setsize(s.ptmx, winsize(in.Cols, in.Rows)); err != nil {
			s.logger.Debug("resize failed", "err", err)
		}
	case InputTerminate:
		s.terminate()
	}
}

// terminate sends SIGTERM and escalates to SIGKILL after the grace period.
// Delivery failures are ignored.
func (s *Session) terminate() {
	select {
	case <-s.exited:
		return
	default:
	}

	proc := s.cmd.Process
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		s.logger.Debug("terminate failed", "err", err)
	}
	go func() {
		select {
		case <-s.exited:
		case <-time.After(s.grace):
			s.logger.Debug("grace period expired, killing")
			_ = proc.Kill()
		}
	}()
}

// waitLoop reaps the child, records its exit code and closes the PTY once
// output is drained.
func (s *Session) waitLoop() {
	err := s.cmd.Wait()
	s.exitCode = exitCode(err)
	close(s.exited)
	s.logger.Debug("exited", "code", s.exitCode)

	select {
	case <-s.readDone:
	case <-time.After(drainTimeout):
	}
	_ = s.ptmx.Close()
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

func winsize(cols, rows int) *pty.Winsize {
	return &pty.Winsize{Cols: clampUint16(cols), Rows: clampUint16(rows)}
}

func clampUint16(v int) uint16 {
	if v < 1 {
		return 1
	}
	if v > math.MaxUint16 {
		return math.MaxUint16
	}
	return uint16(v)
}
