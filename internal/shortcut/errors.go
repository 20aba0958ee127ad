package shortcut

import (
	"errors"
	"fmt"
)

// Errors returned by shortcut operations.
var (
	// ErrNoSelection indicates a placeholder was not resolved.
	ErrNoSelection = errors.New("no selection")

	// ErrInvalidShortcut indicates a shortcut file failed validation.
	ErrInvalidShortcut = errors.New("invalid shortcut")

	// ErrUnknownCommand indicates an additional command name is not defined.
	ErrUnknownCommand = errors.New("unknown command")
)

// ParseError is a failure to decode a shortcut file.
type ParseError struct {
	// Path is the file that failed to parse.
	Path string
	// Line and Column locate the error when the decoder reports it.
	Line   int
	Column int
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %v", e.Path, e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("parse error in %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
