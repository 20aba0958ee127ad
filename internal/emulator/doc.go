// Package emulator implements the terminal emulation engine of a pane: a
// streaming ANSI parser that draws a child process's output into a fixed-size
// character grid.
//
// Supported sequences:
//
//   - CSI H/f, A, B, C, D: cursor positioning, clamped to the grid
//   - CSI m: SGR attributes with 8-color, bright, 256-color and truecolor
//   - CSI J, K: erase in display and line
//   - CSI ? l / ? h: hide and show the cursor
//   - OSC 0 and OSC 2: window title
//
// Anything else is skipped. The parser never returns an error; malformed
// input degrades to a single-byte skip. There is no scrolling: output past
// the last row overwrites it in place.
package emulator
