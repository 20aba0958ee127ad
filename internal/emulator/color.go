package emulator

// Color is a 24-bit terminal color.
type Color struct {
	R, G, B uint8
}

// RGB creates a color from its components.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// Default pen colors (white on black).
var (
	DefaultForeground = Color{R: 255, G: 255, B: 255}
	DefaultBackground = Color{R: 0, G: 0, B: 0}
)

// Standard-intensity ANSI colors, indexed by SGR code minus 30.
var (
	ColorBlack   = Color{R: 0, G: 0, B: 0}
	ColorRed     = Color{R: 128, G: 0, B: 0}
	ColorGreen   = Color{R: 0, G: 128, B: 0}
	ColorYellow  = Color{R: 128, G: 128, B: 0}
	ColorBlue    = Color{R: 0, G: 0, B: 128}
	ColorMagenta = Color{R: 128, G: 0, B: 128}
	ColorCyan    = Color{R: 0, G: 128, B: 128}
	ColorWhite   = Color{R: 192, G: 192, B: 192}
)

// ANSIColors is the 8-color table at standard intensity.
var ANSIColors = [8]Color{
	ColorBlack, ColorRed, ColorGreen, ColorYellow,
	ColorBlue, ColorMagenta, ColorCyan, ColorWhite,
}

// unmappedColor is returned for codes outside the 8-color table.
var unmappedColor = Color{R: 255, G: 255, B: 255}

// PaletteColor returns entry code of the 8-color table. Bright doubles each
// channel, saturating at 255. Codes outside 0-7 map to pure white.
func PaletteColor(code uint32, bright bool) Color {
	if code >= uint32(len(ANSIColors)) {
		return unmappedColor
	}
	c := ANSIColors[code]
	if bright {
		c = Color{R: brighten(c.R), G: brighten(c.G), B: brighten(c.B)}
	}
	return c
}

func brighten(v uint8) uint8 {
	if v >= 128 {
		return 255
	}
	return v * 2
}

// ColorFromIndex maps a 256-color palette index to RGB.
//
//   - 0-7: 8-color table, standard intensity
//   - 8-15: 8-color table, bright intensity
//   - 16-231: 6x6x6 cube, 51 per step
//   - 232-255: 24-step grayscale ramp starting at 8
//
// Anything larger maps to black.
func ColorFromIndex(index uint32) Color {
	switch {
	case index < 8:
		return PaletteColor(index, false)
	case index < 16:
		return PaletteColor(index-8, true)
	case index < 232:
		n := index - 16
		r := uint8((n / 36) % 6 * 51)
		g := uint8((n / 6) % 6 * 51)
		b := uint8(n % 6 * 51)
		return Color{R: r, G: g, B: b}
	case index < 256:
		level := uint8(8 + (index-232)*10)
		return Color{R: level, G: level, B: level}
	default:
		return ColorBlack
	}
}

// clampChannel clamps an SGR parameter to a color channel.
func clampChannel(v uint32) uint8 {
	if v > 255 {
		return 255
	}
	return uint8(v)
}
