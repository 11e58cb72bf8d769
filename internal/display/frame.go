// Package display tracks the usable area of the target monitor and owns the
// overlay surface that covers it.
package display

import (
	"errors"
	"image"
	"math"
)

// ErrNoDisplay is returned by a Platform when no monitor is available.
var ErrNoDisplay = errors.New("no display available")

// Frame is a rectangle in platform screen coordinates. The origin is the
// bottom-left of the screen and Y grows upward.
type Frame struct {
	X, Y          float64
	Width, Height float64
}

// Empty reports whether the frame has no drawable area.
func (f Frame) Empty() bool {
	return !(f.Width >= 1) || !(f.Height >= 1)
}

// Size is the surface size in whole pixels.
func (f Frame) Size() image.Point {
	if f.Empty() {
		return image.Point{}
	}
	return image.Pt(int(math.Ceil(f.Width)), int(math.Ceil(f.Height)))
}

// ToLocal converts a global pointer position into surface-local
// coordinates: origin top-left, Y down.
func (f Frame) ToLocal(gx, gy float64) (x, y float64) {
	return gx - f.X, f.Height - (gy - f.Y)
}

// Surface is a transparent, click-through overlay covering one Frame.
type Surface interface {
	Frame() Frame
	// Present shows img, which is premultiplied RGBA of Frame().Size().
	// img is only valid for the duration of the call.
	Present(img *image.RGBA) error
	Close() error
}

// Platform is what the host windowing system provides.
type Platform interface {
	// UsableFrame returns the target display's area minus reserved system
	// chrome, or ErrNoDisplay.
	UsableFrame() (Frame, error)
	// NewSurface creates a borderless, transparent, always-on-top surface
	// that ignores all input.
	NewSurface(frame Frame) (Surface, error)
	// Changes fires after resolution, monitor or primary-display changes.
	// A nil channel means the configuration never changes.
	Changes() <-chan struct{}
}
