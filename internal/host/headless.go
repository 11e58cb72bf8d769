package host

import (
	"context"
	"image"
	"sync"
	"time"

	"github.com/rook-computer/tahoeglow/internal/display"
	"github.com/rook-computer/tahoeglow/internal/render"
)

// Headless is an in-memory display. It keeps a copy of the last presented
// frame and lets callers move the pointer and reconfigure the display.
type Headless struct {
	FPS    int
	Logger Logger

	mu        sync.Mutex
	frame     display.Frame
	connected bool
	px, py    float64
	pointerOK bool
	changes   chan struct{}
	surfaces  int
	presents  int
	last      *image.RGBA
}

func NewHeadless(frame display.Frame) *Headless {
	return &Headless{
		frame:     frame,
		connected: true,
		changes:   make(chan struct{}, 1),
	}
}

func (h *Headless) UsableFrame() (display.Frame, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.connected {
		return display.Frame{}, display.ErrNoDisplay
	}
	return h.frame, nil
}

func (h *Headless) NewSurface(frame display.Frame) (display.Surface, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.surfaces++
	return &headlessSurface{host: h, frame: frame}, nil
}

func (h *Headless) Changes() <-chan struct{} { return h.changes }

// SetFrame reconfigures the display and signals a change.
func (h *Headless) SetFrame(frame display.Frame) {
	h.mu.Lock()
	h.frame = frame
	h.connected = true
	h.mu.Unlock()
	h.signal()
}

// Disconnect removes the display and signals a change.
func (h *Headless) Disconnect() {
	h.mu.Lock()
	h.connected = false
	h.mu.Unlock()
	h.signal()
}

func (h *Headless) signal() {
	select {
	case h.changes <- struct{}{}:
	default:
	}
}

// SetPointer places the pointer at a global position, Y up.
func (h *Headless) SetPointer(x, y float64) {
	h.mu.Lock()
	h.px, h.py, h.pointerOK = x, y, true
	h.mu.Unlock()
}

func (h *Headless) Pointer() (x, y float64, ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.px, h.py, h.pointerOK
}

// LastFrame returns a copy of the most recently presented image, or nil.
func (h *Headless) LastFrame() *image.RGBA {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.last == nil {
		return nil
	}
	out := image.NewRGBA(h.last.Rect)
	copy(out.Pix, h.last.Pix)
	return out
}

// Stats reports how many surfaces were created and frames presented.
func (h *Headless) Stats() (surfaces, presents int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.surfaces, h.presents
}

func (h *Headless) Run(ctx context.Context, tick func(now time.Time)) error {
	render.RunLoop(ctx, h.FPS, h.Logger, tick)
	return nil
}

func (h *Headless) Close() error { return nil }

type headlessSurface struct {
	host   *Headless
	frame  display.Frame
	closed bool
}

func (s *headlessSurface) Frame() display.Frame { return s.frame }

func (s *headlessSurface) Present(img *image.RGBA) error {
	h := s.host
	h.mu.Lock()
	defer h.mu.Unlock()
	if s.closed {
		return nil
	}
	if h.last == nil || h.last.Rect != img.Rect {
		h.last = image.NewRGBA(img.Rect)
	}
	copy(h.last.Pix, img.Pix)
	h.presents++
	return nil
}

func (s *headlessSurface) Close() error {
	s.host.mu.Lock()
	s.closed = true
	s.host.mu.Unlock()
	return nil
}
