package cursor

import (
	"testing"

	"github.com/rook-computer/tahoeglow/internal/display"
	"github.com/rook-computer/tahoeglow/internal/state"
)

type stubPointer struct {
	x, y float64
	ok   bool
}

func (p *stubPointer) Pointer() (float64, float64, bool) { return p.x, p.y, p.ok }

type stubFrames struct {
	frame display.Frame
	ok    bool
}

func (f *stubFrames) Frame() (display.Frame, bool) { return f.frame, f.ok }

func newFixture(frame display.Frame) (*Tracker, *stubPointer, *state.Store) {
	store := state.NewStore()
	pointer := &stubPointer{ok: true}
	return NewTracker(pointer, &stubFrames{frame: frame, ok: true}, store), pointer, store
}

// moveLocal positions the pointer so that it lands on local (x, y).
func moveLocal(p *stubPointer, frame display.Frame, x, y float64) {
	p.x = x + frame.X
	p.y = frame.Y + frame.Height - y
}

func TestTickConvertsCoordinates(t *testing.T) {
	frame := display.Frame{X: 100, Y: 40, Width: 1920, Height: 1080}
	tracker, pointer, store := newFixture(frame)

	pointer.x, pointer.y = 400, 140
	if !tracker.Tick() {
		t.Fatal("first sample not accepted")
	}
	want := state.Point{X: 300, Y: 980}
	if got := store.Snapshot().Cursor; got != want {
		t.Errorf("cursor = %+v, want %+v", got, want)
	}
}

func TestTickIgnoresJitter(t *testing.T) {
	frame := display.Frame{Width: 1920, Height: 1080}
	tracker, pointer, store := newFixture(frame)

	moveLocal(pointer, frame, 500, 500)
	tracker.Tick()
	accepted := store.Snapshot().Cursor
	version := store.Version()

	jitter := [][2]float64{{1, 0}, {0, 1}, {-1, -1}, {1.4, 1.4}, {-2, 0}, {0.5, -0.5}}
	for _, d := range jitter {
		moveLocal(pointer, frame, 500+d[0], 500+d[1])
		if tracker.Tick() {
			t.Fatalf("jitter %v accepted", d)
		}
	}
	if got := store.Snapshot().Cursor; got != accepted {
		t.Errorf("cursor drifted to %+v", got)
	}
	if store.Version() != version {
		t.Error("jitter produced state changes")
	}
}

func TestTickAcceptsLargeMoveOnce(t *testing.T) {
	frame := display.Frame{Width: 1920, Height: 1080}
	tracker, pointer, store := newFixture(frame)

	moveLocal(pointer, frame, 500, 500)
	tracker.Tick()
	sub := store.Subscribe(state.FieldCursor)
	defer sub.Close()

	moveLocal(pointer, frame, 510, 500)
	if !tracker.Tick() {
		t.Fatal("10px move ignored")
	}
	if tracker.Tick() {
		t.Fatal("stationary pointer accepted twice")
	}
	if got := store.Snapshot().Cursor; got != (state.Point{X: 510, Y: 500}) {
		t.Errorf("cursor = %+v", got)
	}

	<-sub.C()
	select {
	case <-sub.C():
		t.Error("more than one cursor notification")
	default:
	}
}

func TestTickCentreScenario(t *testing.T) {
	frame := display.Frame{Width: 1920, Height: 1080}
	tracker, pointer, store := newFixture(frame)

	moveLocal(pointer, frame, 960, 540)
	tracker.Tick()
	if got := store.Snapshot().Cursor; got != (state.Point{X: 960, Y: 540}) {
		t.Fatalf("cursor = %+v", got)
	}

	moveLocal(pointer, frame, 961, 540)
	tracker.Tick()
	if got := store.Snapshot().Cursor; got != (state.Point{X: 960, Y: 540}) {
		t.Errorf("1px move changed cursor to %+v", got)
	}

	moveLocal(pointer, frame, 970, 540)
	tracker.Tick()
	if got := store.Snapshot().Cursor; got != (state.Point{X: 970, Y: 540}) {
		t.Errorf("10px move gave %+v", got)
	}
}

func TestTickNoops(t *testing.T) {
	store := state.NewStore()
	pointer := &stubPointer{x: 900, y: 900, ok: true}

	missing := NewTracker(pointer, &stubFrames{ok: false}, store)
	if missing.Tick() {
		t.Error("tick without surface updated cursor")
	}

	pointer.ok = false
	noPointer := NewTracker(pointer, &stubFrames{frame: display.Frame{Width: 10, Height: 10}, ok: true}, store)
	if noPointer.Tick() {
		t.Error("tick without pointer updated cursor")
	}

	var zero Tracker
	if zero.Tick() {
		t.Error("zero tracker updated cursor")
	}
	if store.Snapshot().Cursor != (state.Point{}) {
		t.Error("cursor moved during no-op ticks")
	}
}
