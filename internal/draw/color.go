package draw

import (
	"strconv"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an xterm 256-colour palette entry. The zero value means "no
// pixel".
type Color uint16

// NoColor marks an unset pixel.
const NoColor Color = 0

// Palette entries used by the renderer.
var (
	White    = Palette(231)
	Gray     = Palette(245)
	DarkGray = Palette(238)
	Red      = Palette(196)
	Orange   = Palette(208)
	Yellow   = Palette(228)
	Cyan     = Palette(51)
	Navy     = Palette(24)
)

// Palette returns the colour for xterm palette index i.
func Palette(i uint8) Color {
	return Color(i) + 1
}

func (c Color) index() int {
	return int(c) - 1
}

// HSL maps a hue in degrees and saturation/lightness in percent to the
// nearest entry of the 6x6x6 colour cube.
func HSL(h, s, l float64) Color {
	r, g, b := colorful.Hsl(h, s/100, l/100).Clamped().RGB255()
	return Palette(16 + 36*cubeLevel(r) + 6*cubeLevel(g) + cubeLevel(b))
}

// cubeLevel picks the closest of the cube's six intensity steps
// (0, 95, 135, 175, 215, 255).
func cubeLevel(v uint8) uint8 {
	if v < 48 {
		return 0
	}
	if v < 115 {
		return 1
	}
	return (v - 35) / 40
}

// Reset restores the default terminal colours.
const Reset = "\033[0m"

// Foreground returns the escape sequence selecting c as text colour.
func (c Color) Foreground() string {
	if c == NoColor {
		return "\033[39m"
	}
	return "\033[38;5;" + strconv.Itoa(c.index()) + "m"
}
