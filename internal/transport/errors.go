package transport

import "errors"

// Sentinel errors for the transport package.
var (
	// ErrSessionClosed is returned when input is sent to a closed session.
	ErrSessionClosed = errors.New("session is closed")

	// ErrInputFull is returned when the input queue cannot take another intent.
	ErrInputFull = errors.New("session input queue is full")

	// ErrNoProgram is returned when a command has no program to run.
	ErrNoProgram = errors.New("no program specified")

	// ErrProgramNotFound is returned when the program is not on PATH.
	ErrProgramNotFound = errors.New("program not found")
)
