// Package layout computes window rectangles for the desktop arrangements.
package layout

import (
	"fmt"
	"math"
	"strings"
)

// Rect is a screen rectangle in cells.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Empty reports whether r covers no cells.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Inset shrinks r by dx columns and dy rows on each side.
func (r Rect) Inset(dx, dy int) Rect {
	return Rect{
		X:      r.X + dx,
		Y:      r.Y + dy,
		Width:  max(r.Width-2*dx, 0),
		Height: max(r.Height-2*dy, 0),
	}
}

// Clip moves and shrinks r so it fits inside bounds.
func (r Rect) Clip(bounds Rect) Rect {
	r.Width = min(r.Width, bounds.Width)
	r.Height = min(r.Height, bounds.Height)
	r.X = max(min(r.X, bounds.X+bounds.Width-r.Width), bounds.X)
	r.Y = max(min(r.Y, bounds.Y+bounds.Height-r.Height), bounds.Y)
	return r
}

// Arrangement is a window placement strategy.
type Arrangement uint8

const (
	// None leaves windows where they are.
	None Arrangement = iota
	// Cascade stacks windows diagonally.
	Cascade
	// Vertical places windows side by side in columns.
	Vertical
	// Horizontal stacks windows in rows.
	Horizontal
	// Grid tiles windows in a near-square grid.
	Grid
)

var arrangementNames = [...]string{
	None:       "none",
	Cascade:    "cascade",
	Vertical:   "vertical",
	Horizontal: "horizontal",
	Grid:       "grid",
}

var arrangementLabels = [...]string{
	None:       "No arrangement",
	Cascade:    "Cascade",
	Vertical:   "Vertical",
	Horizontal: "Horizontal",
	Grid:       "Grid",
}

// Arrangements lists every arrangement in menu order.
var Arrangements = []Arrangement{None, Cascade, Vertical, Horizontal, Grid}

// String returns the config name of a.
func (a Arrangement) String() string {
	if int(a) < len(arrangementNames) {
		return arrangementNames[a]
	}
	return fmt.Sprintf("arrangement(%d)", a)
}

// Label returns the menu label of a.
func (a Arrangement) Label() string {
	if int(a) < len(arrangementLabels) {
		return arrangementLabels[a]
	}
	return a.String()
}

// Next returns the arrangement after a, wrapping around.
func (a Arrangement) Next() Arrangement {
	return Arrangement((int(a) + 1) % len(arrangementNames))
}

// ParseArrangement resolves a config name. The empty string is None.
func ParseArrangement(name string) (Arrangement, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return None, nil
	}
	for i, n := range arrangementNames {
		if n == name {
			return Arrangement(i), nil
		}
	}
	return None, fmt.Errorf("unknown arrangement %q", name)
}

// cascadeStep is the offset between cascaded windows.
const cascadeStep = 2

// Arrange returns the rectangles for n windows in area. None returns nil,
// meaning the caller keeps the current positions.
func Arrange(a Arrangement, area Rect, n int) []Rect {
	if n <= 0 || area.Empty() {
		return nil
	}

	switch a {
	case Cascade:
		return cascade(area, n)
	case Vertical:
		return columns(area, n)
	case Horizontal:
		return rows(area, n)
	case Grid:
		return grid(area, n)
	default:
		return nil
	}
}

func cascade(area Rect, n int) []Rect {
	// Shrink the step when the area cannot hold n full offsets.
	step := cascadeStep
	for step > 0 && (n-1)*step >= min(area.Width, area.Height) {
		step--
	}

	w := area.Width - (n-1)*step
	h := area.Height - (n-1)*step
	rects := make([]Rect, n)
	for i := range rects {
		rects[i] = Rect{X: area.X + i*step, Y: area.Y + i*step, Width: w, Height: h}
	}
	return rects
}

func columns(area Rect, n int) []Rect {
	xs := split(area.Width, n)
	rects := make([]Rect, n)
	for i := range rects {
		rects[i] = Rect{X: area.X + xs[i], Y: area.Y, Width: xs[i+1] - xs[i], Height: area.Height}
	}
	return rects
}

func rows(area Rect, n int) []Rect {
	ys := split(area.Height, n)
	rects := make([]Rect, n)
	for i := range rects {
		rects[i] = Rect{X: area.X, Y: area.Y + ys[i], Width: area.Width, Height: ys[i+1] - ys[i]}
	}
	return rects
}

// grid fills rows top to bottom. The last row may hold fewer windows; they
// share its full width.
func grid(area Rect, n int) []Rect {
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	nrows := (n + cols - 1) / cols
	ys := split(area.Height, nrows)

	rects := make([]Rect, 0, n)
	for r := 0; r < nrows; r++ {
		inRow := min(cols, n-r*cols)
		xs := split(area.Width, inRow)
		for c := 0; c < inRow; c++ {
			rects = append(rects, Rect{
				X:      area.X + xs[c],
				Y:      area.Y + ys[r],
				Width:  xs[c+1] - xs[c],
				Height: ys[r+1] - ys[r],
			})
		}
	}
	return rects
}

// split returns n+1 boundaries dividing total into n near-equal parts. The
// first total%n parts are one cell larger.
func split(total, n int) []int {
	bounds := make([]int, n+1)
	base, extra := total/n, total%n
	for i := 0; i < n; i++ {
		size := base
		if i < extra {
			size++
		}
		bounds[i+1] = bounds[i] + size
	}
	return bounds
}
