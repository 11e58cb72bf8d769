// Package colormodel converts tint settings (hex strings or colour
// temperatures) into normalized RGB colours.
package colormodel

import (
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an RGB triple with every channel in [0,1].
type Color struct {
	R, G, B float64
}

var (
	// Fallback is returned by FromHex for input it cannot parse.
	Fallback = Color{R: 1, G: 1, B: 1}

	// White is the tint of layers drawn near-white regardless of the light colour.
	White = Color{R: 1, G: 1, B: 1}
)

// FromHex parses "#RRGGBB" (case-insensitive, '#' optional, surrounding
// whitespace ignored). Anything that is not exactly six hex digits yields
// Fallback.
func FromHex(s string) Color {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return Fallback
	}
	rgb, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Fallback
	}
	return Color{
		R: float64((rgb>>16)&0xFF) / 255,
		G: float64((rgb>>8)&0xFF) / 255,
		B: float64(rgb&0xFF) / 255,
	}
}

// ValidHex reports whether FromHex would parse s without falling back.
func ValidHex(s string) bool {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return false
	}
	_, err := strconv.ParseUint(s, 16, 32)
	return err == nil
}

// FromKelvin approximates the colour of a black body at k kelvin
// (Tanner Helland's fit). The fit is meant for 1000..40000 K; outside that
// range the channels are still clamped into [0,255] before normalising.
func FromKelvin(k float64) Color {
	t := k / 100

	var r, g, b float64
	if t <= 66 {
		r = 255
		g = 99.4708025861*math.Log(t) - 161.1195681661
	} else {
		r = 329.698727446 * math.Pow(t-60, -0.1332047592)
		g = 288.1221695283 * math.Pow(t-60, -0.0755148492)
	}

	switch {
	case t >= 66:
		b = 255
	case t <= 19:
		b = 0
	default:
		b = 138.5177312231*math.Log(t-10) - 305.0447927307
	}

	return Color{
		R: clamp255(r) / 255,
		G: clamp255(g) / 255,
		B: clamp255(b) / 255,
	}
}

// ToHex formats c as uppercase "#RRGGBB", rounding each channel to the
// nearest of 256 levels.
func ToHex(c Color) string {
	return strings.ToUpper(c.colorful().Clamped().Hex())
}

// Lerp blends a towards b in RGB space; t is clamped to [0,1].
func Lerp(a, b Color, t float64) Color {
	t = clamp01(t)
	switch t {
	case 0:
		return a.Clamped()
	case 1:
		return b.Clamped()
	}
	out := a.colorful().BlendRgb(b.colorful(), t)
	return Color{R: out.R, G: out.G, B: out.B}.Clamped()
}

// Clamped returns c with every channel forced into [0,1].
func (c Color) Clamped() Color {
	return Color{R: clamp01(c.R), G: clamp01(c.G), B: clamp01(c.B)}
}

// RGBA8 returns the opaque 8-bit version of c.
func (c Color) RGBA8() color.RGBA {
	r, g, b := c.Clamped().colorful().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{R: c.R, G: c.G, B: c.B}
}

func clamp255(v float64) float64 {
	// NaN fails both comparisons and lands on 0.
	if !(v > 0) {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

func clamp01(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
