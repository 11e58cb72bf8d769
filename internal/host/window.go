//go:build !headless

package host

import (
	"context"
	"fmt"
	"image"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rook-computer/tahoeglow/internal/display"
)

// monitorPollInterval is how often the window host looks for display
// configuration changes. Ebiten has no change notification of its own.
const monitorPollInterval = time.Second

// Window shows the glow in a borderless, transparent, always-on-top,
// mouse-passthrough window that covers one monitor.
//
// Ebiten exposes neither the desktop work area nor per-window workspace
// settings, so the usable frame is the full monitor and the window lives on
// the current workspace only.
type Window struct {
	monitorName string
	fps         int
	logger      Logger

	// Set on the ebiten goroutine, read from Draw and Layout.
	mu      sync.Mutex
	size    image.Point
	pix     []byte
	visible bool
	img     *ebiten.Image

	monitor   *ebiten.MonitorType
	signature string
	lastPoll  time.Time
	changes   chan struct{}

	ctx     context.Context
	tick    func(time.Time)
	closing atomic.Bool
}

func openWindow(opts Options) (Host, error) {
	return &Window{
		monitorName: opts.Monitor,
		fps:         opts.FPS,
		logger:      opts.Logger,
		changes:     make(chan struct{}, 1),
	}, nil
}

// Run blocks in the ebiten event loop and must be called from the main
// goroutine.
func (w *Window) Run(ctx context.Context, tick func(now time.Time)) error {
	w.ctx = ctx
	w.tick = tick

	ebiten.SetWindowTitle("TahoeGlow")
	ebiten.SetWindowDecorated(false)
	ebiten.SetWindowFloating(true)
	ebiten.SetWindowMousePassthrough(true)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetVsyncEnabled(true)
	if w.fps > 0 {
		ebiten.SetTPS(w.fps)
	}

	err := ebiten.RunGameWithOptions(&windowGame{w: w}, &ebiten.RunGameOptions{
		ScreenTransparent: true,
		InitUnfocused:     true,
		SkipTaskbar:       true,
	})
	if err != nil {
		return fmt.Errorf("window loop: %w", err)
	}
	return nil
}

func (w *Window) Close() error {
	w.closing.Store(true)
	return nil
}

func (w *Window) Changes() <-chan struct{} { return w.changes }

// selectMonitor returns the configured monitor, falling back to the
// primary one.
func (w *Window) selectMonitor() *ebiten.MonitorType {
	monitors := ebiten.AppendMonitors(nil)
	if len(monitors) == 0 {
		return nil
	}
	if w.monitorName != "" {
		for _, m := range monitors {
			if m.Name() == w.monitorName {
				return m
			}
		}
	}
	return monitors[0]
}

// UsableFrame is the monitor's area in monitor-relative coordinates.
func (w *Window) UsableFrame() (display.Frame, error) {
	m := w.selectMonitor()
	if m == nil {
		return display.Frame{}, display.ErrNoDisplay
	}
	mw, mh := m.Size()
	if mw <= 0 || mh <= 0 {
		return display.Frame{}, display.ErrNoDisplay
	}
	w.monitor = m
	return display.Frame{Width: float64(mw), Height: float64(mh)}, nil
}

// NewSurface moves and resizes the single window to cover frame. Only one
// surface is visible at a time; the previous one must be closed first.
func (w *Window) NewSurface(frame display.Frame) (display.Surface, error) {
	if w.monitor == nil {
		return nil, display.ErrNoDisplay
	}
	size := frame.Size()
	if size.X == 0 || size.Y == 0 {
		return nil, fmt.Errorf("surface frame %+v is empty", frame)
	}
	_, mh := w.monitor.Size()

	ebiten.SetMonitor(w.monitor)
	ebiten.SetWindowSize(size.X, size.Y)
	ebiten.SetWindowPosition(int(math.Round(frame.X)), int(math.Round(float64(mh)-frame.Y-frame.Height)))

	w.mu.Lock()
	w.size = size
	w.pix = make([]byte, 4*size.X*size.Y)
	w.visible = true
	w.mu.Unlock()
	logInfof(w.logger, "window surface %dx%d on %s", size.X, size.Y, w.monitor.Name())
	return &windowSurface{w: w, frame: frame}, nil
}

// Pointer reports the cursor in monitor coordinates, Y up.
func (w *Window) Pointer() (x, y float64, ok bool) {
	if w.monitor == nil {
		return 0, 0, false
	}
	cx, cy := ebiten.CursorPosition()
	wx, wy := ebiten.WindowPosition()
	_, mh := w.monitor.Size()
	return float64(wx + cx), float64(mh - (wy + cy)), true
}

// pollMonitors signals Changes when the monitor set or the selected
// monitor's size differs from the last poll.
func (w *Window) pollMonitors(now time.Time) {
	if now.Sub(w.lastPoll) < monitorPollInterval {
		return
	}
	w.lastPoll = now

	sig := ""
	for _, m := range ebiten.AppendMonitors(nil) {
		mw, mh := m.Size()
		sig += fmt.Sprintf("%s:%dx%d;", m.Name(), mw, mh)
	}
	if sig == w.signature {
		return
	}
	if w.signature != "" {
		logInfof(w.logger, "monitor configuration changed")
		select {
		case w.changes <- struct{}{}:
		default:
		}
	}
	w.signature = sig
}

type windowSurface struct {
	w      *Window
	frame  display.Frame
	closed bool
}

func (s *windowSurface) Frame() display.Frame { return s.frame }

func (s *windowSurface) Present(img *image.RGBA) error {
	w := s.w
	w.mu.Lock()
	defer w.mu.Unlock()
	if s.closed {
		return nil
	}
	if img.Rect.Size() != w.size || len(img.Pix) != len(w.pix) {
		return fmt.Errorf("present %v on a %v surface", img.Rect.Size(), w.size)
	}
	copy(w.pix, img.Pix)
	return nil
}

func (s *windowSurface) Close() error {
	w := s.w
	w.mu.Lock()
	defer w.mu.Unlock()
	if !s.closed {
		s.closed = true
		w.visible = false
	}
	return nil
}

// windowGame adapts Window to ebiten.Game.
type windowGame struct {
	w *Window
}

func (g *windowGame) Update() error {
	w := g.w
	if w.closing.Load() || ebiten.IsWindowBeingClosed() {
		return ebiten.Termination
	}
	if w.ctx != nil && w.ctx.Err() != nil {
		return ebiten.Termination
	}
	now := time.Now()
	w.pollMonitors(now)
	if w.tick != nil {
		w.tick(now)
	}
	return nil
}

func (g *windowGame) Draw(screen *ebiten.Image) {
	w := g.w
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.visible || w.size.X == 0 || w.size.Y == 0 {
		return
	}
	if w.img == nil || w.img.Bounds().Size() != w.size {
		if w.img != nil {
			w.img.Deallocate()
		}
		w.img = ebiten.NewImage(w.size.X, w.size.Y)
	}
	w.img.WritePixels(w.pix)
	screen.DrawImage(w.img, nil)
}

func (g *windowGame) Layout(_, _ int) (int, int) {
	w := g.w
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.size.X == 0 || w.size.Y == 0 {
		return 1, 1
	}
	return w.size.X, w.size.Y
}
