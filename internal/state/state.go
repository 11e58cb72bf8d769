package state

import (
	"math"
	"strings"
	"sync"

	"github.com/rook-computer/tahoeglow/internal/colormodel"
)

// Ranges and defaults for the user-facing light settings.
const (
	DefaultTintHex = "#FFD28E"

	MinTemperatureK     = 2000.0
	MaxTemperatureK     = 9000.0
	DefaultTemperatureK = 4500.0

	MinBorderWidth     = 10.0
	MaxBorderWidth     = 300.0
	DefaultBorderWidth = 40.0

	MinCornerRadius     = 20.0
	MaxCornerRadius     = 120.0
	DefaultCornerRadius = 65.0
)

// Point is a window-local position, origin top-left, Y down.
type Point struct {
	X, Y float64
}

// Field identifies one LightState field in change notifications.
type Field uint16

const (
	FieldTint Field = 1 << iota
	FieldTemperatureMode
	FieldTemperature
	FieldBorderWidth
	FieldCornerRadius
	FieldLightOn
	FieldCursor

	// FieldsPersisted are the fields that survive restarts.
	FieldsPersisted = FieldTint | FieldTemperatureMode | FieldTemperature | FieldBorderWidth | FieldCornerRadius
	FieldsAll       = FieldsPersisted | FieldLightOn | FieldCursor
)

// State is a value copy of the light configuration plus runtime fields.
type State struct {
	TintHex           string
	UseTemperature    bool
	ColorTemperatureK float64
	BorderWidth       float64
	CornerRadius      float64
	LightOn           bool
	Cursor            Point
}

// ActiveColor resolves the colour the border is drawn with.
func (s State) ActiveColor() colormodel.Color {
	if s.UseTemperature {
		return colormodel.FromKelvin(s.ColorTemperatureK)
	}
	return colormodel.FromHex(s.TintHex)
}

// Default returns the state a fresh install starts with.
func Default() State {
	return State{
		TintHex:           DefaultTintHex,
		ColorTemperatureK: DefaultTemperatureK,
		BorderWidth:       DefaultBorderWidth,
		CornerRadius:      DefaultCornerRadius,
		LightOn:           true,
	}
}

// Store is the process-wide light state. Construct one with NewStore and
// pass it by pointer.
//
// Writers: the cursor tracker is the only caller of SetCursor; everything
// else is written by the settings side (binder, remote API).
type Store struct {
	mu      sync.RWMutex
	state   State
	version uint64
	subs    map[*Subscription]struct{}
}

func NewStore() *Store {
	return &Store{state: Default(), subs: make(map[*Subscription]struct{})}
}

func (store *Store) Snapshot() State {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.state
}

// Version increases by one with every accepted change.
func (store *Store) Version() uint64 {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.version
}

// SetTint stores a tint hex string, normalised to "#RRGGBB". Malformed
// input is ignored and reported as false.
func (store *Store) SetTint(hex string) bool {
	if !colormodel.ValidHex(hex) {
		return false
	}
	hex = "#" + strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(hex), "#"))
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.state.TintHex != hex {
		store.state.TintHex = hex
		store.changed(FieldTint)
	}
	return true
}

func (store *Store) SetUseTemperature(on bool) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.state.UseTemperature != on {
		store.state.UseTemperature = on
		store.changed(FieldTemperatureMode)
	}
}

func (store *Store) SetColorTemperature(k float64) {
	k = ClampTemperature(k)
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.state.ColorTemperatureK != k {
		store.state.ColorTemperatureK = k
		store.changed(FieldTemperature)
	}
}

func (store *Store) SetBorderWidth(w float64) {
	w = ClampBorderWidth(w)
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.state.BorderWidth != w {
		store.state.BorderWidth = w
		store.changed(FieldBorderWidth)
	}
}

func (store *Store) SetCornerRadius(r float64) {
	r = ClampCornerRadius(r)
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.state.CornerRadius != r {
		store.state.CornerRadius = r
		store.changed(FieldCornerRadius)
	}
}

func (store *Store) SetLightOn(on bool) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.state.LightOn != on {
		store.state.LightOn = on
		store.changed(FieldLightOn)
	}
}

// ToggleLight flips LightOn and returns the new value.
func (store *Store) ToggleLight() bool {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.state.LightOn = !store.state.LightOn
	store.changed(FieldLightOn)
	return store.state.LightOn
}

// SetCursor records the last accepted cursor position. Only the cursor
// tracker calls this.
func (store *Store) SetCursor(p Point) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.state.Cursor != p {
		store.state.Cursor = p
		store.changed(FieldCursor)
	}
}

// ApplyPreset selects a preset tint and leaves temperature mode.
func (store *Store) ApplyPreset(p Preset) {
	store.mu.Lock()
	defer store.mu.Unlock()
	var fields Field
	if store.state.TintHex != p.Hex {
		store.state.TintHex = p.Hex
		fields |= FieldTint
	}
	if store.state.UseTemperature {
		store.state.UseTemperature = false
		fields |= FieldTemperatureMode
	}
	if fields != 0 {
		store.changed(fields)
	}
}

// changed must be called with mu held.
func (store *Store) changed(fields Field) {
	store.version++
	for sub := range store.subs {
		sub.notify(fields)
	}
}

func ClampTemperature(k float64) float64 {
	return clampRange(k, MinTemperatureK, MaxTemperatureK, DefaultTemperatureK)
}

func ClampBorderWidth(w float64) float64 {
	return clampRange(w, MinBorderWidth, MaxBorderWidth, MinBorderWidth)
}

func ClampCornerRadius(r float64) float64 {
	return clampRange(r, MinCornerRadius, MaxCornerRadius, MinCornerRadius)
}

func clampRange(v, lo, hi, nan float64) float64 {
	if math.IsNaN(v) {
		return nan
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
