package render

import "time"

// Tint selects which colour a layer is painted with.
type Tint int

const (
	// TintActive paints with the resolved light colour.
	TintActive Tint = iota
	// TintWhite paints near-white; the layer's Glow carries the colour.
	TintWhite
)

// Layer is one blurred rounded stroke of the glow. The stroke width is
// BorderWidth*WidthScale + WidthOffset.
type Layer struct {
	Name        string
	Opacity     float64
	WidthScale  float64
	WidthOffset float64
	Blur        float64 // gaussian sigma in surface pixels
	Tint        Tint
	Glow        float64 // coloured halo under the stroke, 0 for none
}

// DefaultLayers is the ambient/body/core stack, bottom first.
func DefaultLayers() []Layer {
	return []Layer{
		{Name: "ambient", Opacity: 0.3, WidthScale: 1, WidthOffset: 50, Blur: 60, Tint: TintActive},
		{Name: "body", Opacity: 0.8, WidthScale: 1, WidthOffset: 10, Blur: 20, Tint: TintActive},
		{Name: "core", Opacity: 0.9, WidthScale: 0.3, Blur: 4, Tint: TintWhite, Glow: 10},
	}
}

// Aperture is the soft hole around the cursor. Inside Inner the glow is
// fully erased, beyond Outer it is untouched, with a smoothstep between.
type Aperture struct {
	Inner float64
	Outer float64
}

func DefaultAperture() Aperture {
	return Aperture{Inner: 30, Outer: 200}
}

// Global render defaults.
var (
	// Margin insets the stroke centre line from the surface edges.
	Margin = 20.0

	// WorkScale is the resolution of the glow buffers relative to the
	// surface. The blur hides the lower resolution.
	WorkScale = 0.5

	// MinStrokeWidth keeps a degenerate layer visible.
	MinStrokeWidth = 1.0

	FadeDuration  = 600 * time.Millisecond
	ColorDuration = 250 * time.Millisecond

	SpringResponse = 0.4
	SpringDamping  = 0.7

	// maxFrameStep caps the animation step after a stall.
	maxFrameStep = 100 * time.Millisecond
)
