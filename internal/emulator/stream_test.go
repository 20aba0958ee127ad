package emulator

import (
	"strings"
	"testing"
)

func TestSplitPending(t *testing.T) {
	long := "\x1b[" + strings.Repeat("1", 300)

	tests := []struct {
		name     string
		input    string
		complete string
		pending  string
	}{
		{"plain", "abc", "abc", ""},
		{"complete csi", "abc\x1b[31m", "abc\x1b[31m", ""},
		{"partial csi", "abc\x1b[1", "abc", "\x1b[1"},
		{"partial private", "\x1b[?25", "", "\x1b[?25"},
		{"csi introducer", "ab\x1b[", "ab", "\x1b["},
		{"lone esc", "abc\x1b", "abc", "\x1b"},
		{"malformed csi", "\x1b[1$", "\x1b[1$", ""},
		{"partial osc", "x\x1b]0;ti", "x", "\x1b]0;ti"},
		{"osc awaiting backslash", "\x1b]0;ti\x1b", "", "\x1b]0;ti\x1b"},
		{"complete osc", "\x1b]0;ti\x07x", "\x1b]0;ti\x07x", ""},
		{"partial rune", "a\xe6\x97", "a", "\xe6\x97"},
		{"complete rune", "a\xe6\x97\xa5", "a\xe6\x97\xa5", ""},
		{"invalid byte", "a\xff", "a\xff", ""},
		{"complete then partial", "\x1b[31mhi\x1b[0", "\x1b[31mhi", "\x1b[0"},
		{"too long to hold", long, long, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			complete, pending := SplitPending([]byte(tt.input))
			if string(complete) != tt.complete {
				t.Errorf("complete = %q, want %q", complete, tt.complete)
			}
			if string(pending) != tt.pending {
				t.Errorf("pending = %q, want %q", pending, tt.pending)
			}
		})
	}
}

func TestSplitPendingReassembly(t *testing.T) {
	chunks := []string{"\x1b[3", "1mH", "\xe6", "\x97\xa5\x1b]2;ti", "tle\x07"}

	p := NewParser(10, 1)
	g := NewGrid(10, 1)
	var buf []byte
	for _, c := range chunks {
		buf = append(buf, c...)
		complete, pending := SplitPending(buf)
		g = p.Parse(complete, g)
		buf = append([]byte(nil), pending...)
	}

	if got := g.Text(); got != "H日" {
		t.Errorf("Text() = %q, want %q", got, "H日")
	}
	if g.Cell(0, 0).Foreground != ColorRed {
		t.Errorf("Foreground = %v, want red", g.Cell(0, 0).Foreground)
	}
	if p.Title() != "title" {
		t.Errorf("Title() = %q, want %q", p.Title(), "title")
	}
}
