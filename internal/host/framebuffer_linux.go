//go:build linux

package host

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"sync"
	"time"

	fb "github.com/gonutz/framebuffer"
	"github.com/rook-computer/tahoeglow/internal/display"
	"github.com/rook-computer/tahoeglow/internal/render"
	"github.com/rook-computer/tahoeglow/internal/system"
)

const defaultFramebuffer = "/dev/fb0"

// Framebuffer draws the glow straight onto a Linux framebuffer console,
// composited over black, and follows an evdev mouse.
type Framebuffer struct {
	dev     *fb.Device
	bounds  image.Rectangle
	pointer *system.Pointer
	fps     int
	logger  Logger

	mu   sync.Mutex
	last []byte
}

func openFramebuffer(opts Options) (Host, error) {
	path := opts.Device
	if path == "" {
		path = defaultFramebuffer
	}
	dev, err := fb.Open(path)
	if err != nil {
		return nil, err
	}
	bounds := dev.Bounds()
	logInfof(opts.Logger, "framebuffer %s open, bounds=%dx%d", path, bounds.Dx(), bounds.Dy())
	return &Framebuffer{
		dev:     dev,
		bounds:  bounds,
		pointer: system.NewPointer(bounds.Dx(), bounds.Dy()),
		fps:     opts.FPS,
		logger:  opts.Logger,
	}, nil
}

// UsableFrame is the whole console; there is no system chrome to avoid.
func (f *Framebuffer) UsableFrame() (display.Frame, error) {
	if f.bounds.Empty() {
		return display.Frame{}, display.ErrNoDisplay
	}
	return display.Frame{Width: float64(f.bounds.Dx()), Height: float64(f.bounds.Dy())}, nil
}

func (f *Framebuffer) NewSurface(frame display.Frame) (display.Surface, error) {
	return &fbSurface{host: f, frame: frame}, nil
}

// Changes is nil: the console mode does not change under a running process.
func (f *Framebuffer) Changes() <-chan struct{} { return nil }

// Pointer converts the evdev pointer, which is Y down, to Y up.
func (f *Framebuffer) Pointer() (x, y float64, ok bool) {
	px, py := f.pointer.Position()
	return px, float64(f.bounds.Dy()) - py, true
}

func (f *Framebuffer) Run(ctx context.Context, tick func(now time.Time)) error {
	restore := system.EnterGraphicsMode(f.logger)
	defer restore()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	system.StartInput(ctx, f.logger, system.InputHandlers{
		Move: f.pointer.Move,
		Exit: cancel,
	})
	render.RunLoop(ctx, f.fps, f.logger, tick)
	return nil
}

func (f *Framebuffer) Close() error {
	f.dev.Close()
	return nil
}

// blit writes img over black at the top-left of the console. Frames equal
// to the previous one are skipped.
func (f *Framebuffer) blit(img *image.RGBA) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if bytes.Equal(img.Pix, f.last) {
		return
	}
	f.last = append(f.last[:0], img.Pix...)

	area := img.Rect.Intersect(image.Rect(0, 0, f.bounds.Dx(), f.bounds.Dy()))
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			// Premultiplied colour over black is the colour itself.
			p := img.RGBAAt(x, y)
			f.dev.Set(f.bounds.Min.X+x, f.bounds.Min.Y+y, color.RGBA{R: p.R, G: p.G, B: p.B, A: 0xFF})
		}
	}
}

type fbSurface struct {
	host  *Framebuffer
	frame display.Frame
}

func (s *fbSurface) Frame() display.Frame { return s.frame }

func (s *fbSurface) Present(img *image.RGBA) error {
	s.host.blit(img)
	return nil
}

// Close blanks the area the surface covered.
func (s *fbSurface) Close() error {
	s.host.blit(image.NewRGBA(image.Rectangle{Max: s.frame.Size()}))
	return nil
}
