package app

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/rook-computer/tahoeglow/internal/display"
	"github.com/rook-computer/tahoeglow/internal/host"
	"github.com/rook-computer/tahoeglow/internal/settings"
	"github.com/rook-computer/tahoeglow/internal/state"
)

func newTestApp(w, h float64) (*App, *host.Headless) {
	hl := host.NewHeadless(display.Frame{Width: w, Height: h})
	return New(state.NewStore(), hl, nil), hl
}

func TestTickPresentsGlow(t *testing.T) {
	a, hl := newTestApp(320, 240)
	a.Tick(time.Now())

	surfaces, presents := hl.Stats()
	if surfaces != 1 || presents != 1 {
		t.Fatalf("stats = %d surfaces, %d presents", surfaces, presents)
	}
	img := hl.LastFrame()
	if img == nil || img.Bounds().Size() != image.Pt(320, 240) {
		t.Fatalf("last frame = %v", img)
	}
	if img.RGBAAt(20, 120).A == 0 {
		t.Fatal("no glow on the left border")
	}
}

func TestTickTracksPointer(t *testing.T) {
	a, hl := newTestApp(1920, 1080)
	hl.SetPointer(960, 540)
	a.Tick(time.Now())
	if got := a.Store.Snapshot().Cursor; got != (state.Point{X: 960, Y: 540}) {
		t.Fatalf("cursor = %+v", got)
	}

	hl.SetPointer(961, 540)
	a.Tick(time.Now())
	if got := a.Store.Snapshot().Cursor; got.X != 960 {
		t.Fatalf("1 px move accepted: %+v", got)
	}

	hl.SetPointer(970, 540)
	a.Tick(time.Now())
	if got := a.Store.Snapshot().Cursor; got.X != 970 {
		t.Fatalf("10 px move ignored: %+v", got)
	}

	// Y up on the platform, Y down on the surface.
	hl.SetPointer(100, 1000)
	a.Tick(time.Now())
	if got := a.Store.Snapshot().Cursor; got != (state.Point{X: 100, Y: 80}) {
		t.Fatalf("cursor = %+v, want (100, 80)", got)
	}
}

func TestTickFollowsDisplayChanges(t *testing.T) {
	a, hl := newTestApp(320, 240)
	now := time.Now()
	a.Tick(now)

	hl.SetFrame(display.Frame{Width: 640, Height: 200})
	a.Tick(now.Add(time.Millisecond))
	if surfaces, _ := hl.Stats(); surfaces != 2 {
		t.Fatalf("surfaces = %d after a display change, want 2", surfaces)
	}
	if img := hl.LastFrame(); img.Bounds().Size() != image.Pt(640, 200) {
		t.Fatalf("frame size = %v", img.Bounds().Size())
	}

	hl.Disconnect()
	_, before := hl.Stats()
	a.Tick(now.Add(2 * time.Millisecond))
	a.Tick(now.Add(3 * time.Millisecond))
	if _, after := hl.Stats(); after != before {
		t.Fatalf("presented %d frames with no display", after-before)
	}
	if _, ok := a.Display.Surface(); ok {
		t.Fatal("surface kept after the display went away")
	}

	hl.SetFrame(display.Frame{Width: 100, Height: 100})
	a.Tick(now.Add(4 * time.Millisecond))
	if _, ok := a.Display.Surface(); !ok {
		t.Fatal("surface not recreated after the display came back")
	}
}

func TestSnapshotWritesSettledPNG(t *testing.T) {
	a, hl := newTestApp(200, 150)
	hl.SetPointer(-1000, -1000)

	var buf bytes.Buffer
	if err := a.Snapshot(&buf); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Size() != image.Pt(200, 150) {
		t.Fatalf("size = %v", img.Bounds().Size())
	}
	if !a.Compositor.Settled() {
		t.Fatal("snapshot taken before animations settled")
	}
}

func TestSnapshotWithoutDisplay(t *testing.T) {
	a, hl := newTestApp(200, 150)
	hl.Disconnect()
	if err := a.Snapshot(&bytes.Buffer{}); !errors.Is(err, ErrNoSurface) {
		t.Fatalf("err = %v, want ErrNoSurface", err)
	}
}

func TestRunLoadsSettingsAndStops(t *testing.T) {
	a, hl := newTestApp(100, 100)
	hl.FPS = 120
	mem := settings.NewMemoryStore()
	_ = mem.Set(settings.KeyBorderWidth, 88.0)
	a.Binder = settings.NewBinder(mem, a.Store, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	if err := a.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := a.Store.Snapshot().BorderWidth; got != 88 {
		t.Fatalf("border width = %v, want 88", got)
	}
	if _, presents := hl.Stats(); presents == 0 {
		t.Fatal("Run presented no frames")
	}
	if _, ok := a.Display.Surface(); ok {
		t.Fatal("surface left open after Run")
	}
}

func TestFileLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewFileLogger(&buf)
	l.Infof("display", "frame %dx%d", 10, 20)
	l.Errorf("web", "boom")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %q", lines)
	}
	if !strings.HasSuffix(lines[0], " [INFO] display: frame 10x20") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], " [ERROR] web: boom") {
		t.Errorf("line 1 = %q", lines[1])
	}
}
