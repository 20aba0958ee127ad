package emulator

// SGR parameter codes.
const (
	sgrReset        = 0
	sgrBold         = 1
	sgrDim          = 2
	sgrItalic       = 3
	sgrUnderline    = 4
	sgrNormal       = 22
	sgrNotItalic    = 23
	sgrNotUnderline = 24
	sgrForeground   = 38
	sgrBackground   = 48

	extendedPalette   = 5
	extendedTruecolor = 2
)

// paramIter walks an SGR parameter list; some codes consume the parameters
// that follow them.
type paramIter struct {
	params []uint32
	pos    int
}

func (it *paramIter) next() (uint32, bool) {
	if it.pos >= len(it.params) {
		return 0, false
	}
	v := it.params[it.pos]
	it.pos++
	return v, true
}

func (it *paramIter) nextOr(def uint32) uint32 {
	if v, ok := it.next(); ok {
		return v
	}
	return def
}

// applySGR applies a non-empty SGR parameter list to the pen. Unknown codes
// are skipped.
func (p *Parser) applySGR(params []uint32) {
	pen := &p.state.Pen
	it := &paramIter{params: params}

	for {
		code, ok := it.next()
		if !ok {
			return
		}

		switch {
		case code == sgrReset:
			*pen = DefaultPen()
		case code == sgrBold:
			pen.Bold = true
		case code == sgrDim:
			pen.Dim = true
		case code == sgrItalic:
			pen.Italic = true
		case code == sgrUnderline:
			pen.Underline = true
		case code == sgrNormal:
			pen.Bold = false
			pen.Dim = false
		case code == sgrNotItalic:
			pen.Italic = false
		case code == sgrNotUnderline:
			pen.Underline = false
		case code >= 30 && code <= 37:
			pen.Foreground = PaletteColor(code-30, false)
		case code >= 40 && code <= 47:
			pen.Background = PaletteColor(code-40, false)
		case code >= 90 && code <= 97:
			pen.Foreground = PaletteColor(code-90, true)
		case code >= 100 && code <= 107:
			pen.Background = PaletteColor(code-100, true)
		case code == sgrForeground:
			if c, ok := extendedColor(it); ok {
				pen.Foreground = c
			}
		case code == sgrBackground:
			if c, ok := extendedColor(it); ok {
				pen.Background = c
			}
		}
	}
}

// extendedColor reads the tail of a 38 or 48 code: "5;index" or "2;r;g;b".
// Missing truecolor channels default to 0.
func extendedColor(it *paramIter) (Color, bool) {
	mode, ok := it.next()
	if !ok {
		return Color{}, false
	}

	switch mode {
	case extendedPalette:
		index, ok := it.next()
		if !ok {
			return Color{}, false
		}
		return ColorFromIndex(index), true
	case extendedTruecolor:
		r := clampChannel(it.nextOr(0))
		g := clampChannel(it.nextOr(0))
		b := clampChannel(it.nextOr(0))
		return Color{R: r, G: g, B: b}, true
	default:
		return Color{}, false
	}
}
