// Package cursor polls the global pointer and feeds a debounced,
// window-local position into the light state.
package cursor

import (
	"math"

	"github.com/rook-computer/tahoeglow/internal/display"
	"github.com/rook-computer/tahoeglow/internal/state"
)

// DefaultThreshold is the minimum movement, in pixels, before a new sample
// replaces the stored cursor position.
const DefaultThreshold = 2.0

// PointerSource reports the global pointer position in platform screen
// coordinates (bottom-left origin, Y up).
type PointerSource interface {
	Pointer() (x, y float64, ok bool)
}

// FrameSource reports the frame of the live overlay surface.
type FrameSource interface {
	Frame() (display.Frame, bool)
}

// Tracker converts pointer samples into state.Cursor updates. Tick is
// called once per frame from the render thread.
type Tracker struct {
	Pointer   PointerSource
	Frames    FrameSource
	State     *state.Store
	Threshold float64
}

func NewTracker(pointer PointerSource, frames FrameSource, store *state.Store) *Tracker {
	return &Tracker{Pointer: pointer, Frames: frames, State: store, Threshold: DefaultThreshold}
}

// Tick samples the pointer once and reports whether the stored position
// moved. It is a no-op while the surface or pointer is unavailable.
func (t *Tracker) Tick() bool {
	if t.Pointer == nil || t.Frames == nil || t.State == nil {
		return false
	}
	frame, ok := t.Frames.Frame()
	if !ok {
		return false
	}
	gx, gy, ok := t.Pointer.Pointer()
	if !ok || math.IsNaN(gx) || math.IsNaN(gy) {
		return false
	}

	x, y := frame.ToLocal(gx, gy)
	last := t.State.Snapshot().Cursor
	if math.Hypot(x-last.X, y-last.Y) <= t.Threshold {
		return false
	}
	t.State.SetCursor(state.Point{X: x, Y: y})
	return true
}
