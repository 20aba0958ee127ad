package desktop

import (
	"github.com/dshills/termdesk/internal/input/escape"
	"github.com/dshills/termdesk/internal/input/key"
)

// prompt is a one-line text input on the bottom row.
type prompt struct {
	label string
	buf   []rune
	done  func(value string, ok bool)
}

func newPrompt(label string, done func(value string, ok bool)) *prompt {
	return &prompt{label: label, done: done}
}

func (p *prompt) text() string {
	return string(p.buf)
}

// handleKey edits the input. Enter accepts, Escape and Ctrl+C cancel.
func (p *prompt) handleKey(ev key.Event) {
	switch {
	case ev.Key == key.KeyEnter:
		p.done(p.text(), true)
	case ev.Key == key.KeyEscape, escape.IsInterrupt(ev):
		p.done("", false)
	case ev.Key == key.KeyBackspace:
		if len(p.buf) > 0 {
			p.buf = p.buf[:len(p.buf)-1]
		}
	case ev.Rune == 'u' && ev.Modifiers == key.ModCtrl:
		p.buf = p.buf[:0]
	default:
		if r := ev.Text(); r != 0 {
			p.buf = append(p.buf, r)
		}
	}
}

// paste appends text, dropping control characters.
func (p *prompt) paste(text string) {
	for _, r := range text {
		if r >= ' ' && r != 0x7f {
			p.buf = append(p.buf, r)
		}
	}
}
