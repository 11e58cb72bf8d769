package system

import "sync"

// Pointer integrates relative mouse motion into an absolute position kept
// inside a w×h screen, Y down. It starts in the middle of the screen.
type Pointer struct {
	mu   sync.Mutex
	x, y float64
	w, h float64
}

func NewPointer(w, h int) *Pointer {
	p := &Pointer{w: float64(w), h: float64(h)}
	p.x, p.y = p.w/2, p.h/2
	return p
}

// Move shifts the pointer by (dx, dy) and clamps it to the screen.
func (p *Pointer) Move(dx, dy float64) {
	p.mu.Lock()
	p.x = clampAxis(p.x+dx, p.w)
	p.y = clampAxis(p.y+dy, p.h)
	p.mu.Unlock()
}

// Position returns the current pointer location.
func (p *Pointer) Position() (x, y float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.x, p.y
}

func clampAxis(v, size float64) float64 {
	if v < 0 || size <= 0 {
		return 0
	}
	if limit := size - 1; v > limit {
		return limit
	}
	return v
}
