package transport

import "fmt"

// InputKind identifies an outbound intent.
type InputKind uint8

const (
	// InputData carries bytes for the child's stdin.
	InputData InputKind = iota
	// InputResize changes the PTY window size.
	InputResize
	// InputTerminate asks the child to exit.
	InputTerminate
)

// Input is an intent sent from a pane to its child process.
type Input struct {
	Kind InputKind
	Data []byte
	Cols int
	Rows int
}

// Data returns an InputData intent.
func Data(b []byte) Input {
	return Input{Kind: InputData, Data: b}
}

// Resize returns an InputResize intent.
func Resize(cols, rows int) Input {
	return Input{Kind: InputResize, Cols: cols, Rows: rows}
}

// Terminate returns an InputTerminate intent.
func Terminate() Input {
	return Input{Kind: InputTerminate}
}

func (in Input) String() string {
	switch in.Kind {
	case InputData:
		return fmt.Sprintf("Data(%q)", in.Data)
	case InputResize:
		return fmt.Sprintf("Resize(%d, %d)", in.Cols, in.Rows)
	case InputTerminate:
		return "Terminate"
	default:
		return fmt.Sprintf("Input(%d)", in.Kind)
	}
}

// OutputKind identifies an inbound event.
type OutputKind uint8

const (
	// OutputPid reports the child's process id. It is always the first event.
	OutputPid OutputKind = iota
	// OutputStdout carries a chunk of the child's output.
	OutputStdout
	// OutputError reports a read failure. The session is finished.
	OutputError
	// OutputTerminated reports the child's exit. It is always the last event.
	OutputTerminated
)

// Output is an event delivered from a child process to its pane.
type Output struct {
	Kind     OutputKind
	Pid      int
	Data     []byte
	Err      error
	ExitCode int
}

func (out Output) String() string {
	switch out.Kind {
	case OutputPid:
		return fmt.Sprintf("Pid(%d)", out.Pid)
	case OutputStdout:
		return fmt.Sprintf("Stdout(%d bytes)", len(out.Data))
	case OutputError:
		return fmt.Sprintf("Error(%v)", out.Err)
	case OutputTerminated:
		return fmt.Sprintf("Terminated(%d)", out.ExitCode)
	default:
		return fmt.Sprintf("Output(%d)", out.Kind)
	}
}
