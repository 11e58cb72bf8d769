// Package host provides the platforms the overlay can run on: a desktop
// window, the Linux framebuffer console, and an in-memory headless display.
package host

import (
	"context"
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/rook-computer/tahoeglow/internal/cursor"
	"github.com/rook-computer/tahoeglow/internal/display"
)

// Host kinds accepted by Open.
const (
	KindWindow      = "window"
	KindFramebuffer = "framebuffer"
	KindHeadless    = "headless"
)

// Host is a display platform that can also report the pointer and drive
// the frame clock.
type Host interface {
	display.Platform
	cursor.PointerSource

	// Run calls tick once per frame until ctx is done or the host is shut
	// down from its own side (window closed, exit key). It may need to run
	// on the main goroutine.
	Run(ctx context.Context, tick func(now time.Time)) error
	Close() error
}

// Logger is the subset of the application logger hosts write to.
type Logger interface {
	Infof(component, format string, args ...interface{})
	Errorf(component, format string, args ...interface{})
}

// Options configures Open.
type Options struct {
	// Monitor selects a window-host monitor by name; empty means primary.
	Monitor string
	// Device is the framebuffer device path; empty means /dev/fb0.
	Device string
	// Size is the headless display size; zero means 1920×1080.
	Size image.Point
	// FPS is the frame rate of self-clocked hosts; zero means 60.
	FPS    int
	Logger Logger
}

// Open creates the host of the given kind.
func Open(kind string, opts Options) (Host, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", KindWindow:
		return openWindow(opts)
	case KindFramebuffer:
		return openFramebuffer(opts)
	case KindHeadless:
		size := opts.Size
		if size.X <= 0 || size.Y <= 0 {
			size = image.Pt(1920, 1080)
		}
		h := NewHeadless(display.Frame{Width: float64(size.X), Height: float64(size.Y)})
		h.FPS = opts.FPS
		h.Logger = opts.Logger
		return h, nil
	default:
		return nil, fmt.Errorf("unknown host %q (want %s, %s or %s)", kind, KindWindow, KindFramebuffer, KindHeadless)
	}
}

func logInfof(l Logger, format string, args ...interface{}) {
	if l != nil {
		l.Infof("host", format, args...)
	}
}

func logErrorf(l Logger, format string, args ...interface{}) {
	if l != nil {
		l.Errorf("host", format, args...)
	}
}
