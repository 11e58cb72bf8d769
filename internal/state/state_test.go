package state

import (
	"math"
	"testing"
)

func TestDefaults(t *testing.T) {
	snap := NewStore().Snapshot()
	if snap.TintHex != "#FFD28E" {
		t.Errorf("TintHex = %q", snap.TintHex)
	}
	if snap.BorderWidth != 40 || snap.CornerRadius != 65 || snap.ColorTemperatureK != 4500 {
		t.Errorf("unexpected geometry defaults: %+v", snap)
	}
	if !snap.LightOn || snap.UseTemperature {
		t.Errorf("unexpected flag defaults: %+v", snap)
	}
	if snap.Cursor != (Point{}) {
		t.Errorf("Cursor = %+v, want origin", snap.Cursor)
	}
}

func TestSettersClamp(t *testing.T) {
	tests := []struct {
		name string
		set  func(*Store)
		get  func(State) float64
		want float64
	}{
		{"Negative width", func(s *Store) { s.SetBorderWidth(-5) }, func(st State) float64 { return st.BorderWidth }, MinBorderWidth},
		{"Huge width", func(s *Store) { s.SetBorderWidth(1e6) }, func(st State) float64 { return st.BorderWidth }, MaxBorderWidth},
		{"NaN width", func(s *Store) { s.SetBorderWidth(math.NaN()) }, func(st State) float64 { return st.BorderWidth }, MinBorderWidth},
		{"Small radius", func(s *Store) { s.SetCornerRadius(1) }, func(st State) float64 { return st.CornerRadius }, MinCornerRadius},
		{"Large radius", func(s *Store) { s.SetCornerRadius(500) }, func(st State) float64 { return st.CornerRadius }, MaxCornerRadius},
		{"Cold temperature", func(s *Store) { s.SetColorTemperature(100) }, func(st State) float64 { return st.ColorTemperatureK }, MinTemperatureK},
		{"Hot temperature", func(s *Store) { s.SetColorTemperature(40000) }, func(st State) float64 { return st.ColorTemperatureK }, MaxTemperatureK},
		{"NaN temperature", func(s *Store) { s.SetColorTemperature(math.NaN()) }, func(st State) float64 { return st.ColorTemperatureK }, DefaultTemperatureK},
		{"In range", func(s *Store) { s.SetBorderWidth(77) }, func(st State) float64 { return st.BorderWidth }, 77},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewStore()
			tt.set(store)
			if got := tt.get(store.Snapshot()); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSetTint(t *testing.T) {
	store := NewStore()
	if !store.SetTint(" e0f7fa ") {
		t.Fatal("valid tint rejected")
	}
	if got := store.Snapshot().TintHex; got != "#E0F7FA" {
		t.Errorf("TintHex = %q, want normalised #E0F7FA", got)
	}
	if store.SetTint("#12") {
		t.Fatal("malformed tint accepted")
	}
	if got := store.Snapshot().TintHex; got != "#E0F7FA" {
		t.Errorf("malformed tint overwrote value: %q", got)
	}
}

func TestSubscriptionCoalesces(t *testing.T) {
	store := NewStore()
	sub := store.Subscribe(FieldsAll)
	defer sub.Close()

	store.SetBorderWidth(50)
	store.SetCornerRadius(30)
	store.SetLightOn(false)

	select {
	case got := <-sub.C():
		want := FieldBorderWidth | FieldCornerRadius | FieldLightOn
		if got != want {
			t.Errorf("fields = %b, want %b", got, want)
		}
	default:
		t.Fatal("no notification delivered")
	}

	select {
	case got := <-sub.C():
		t.Fatalf("unexpected extra notification %b", got)
	default:
	}
}

func TestSubscriptionMaskAndNoops(t *testing.T) {
	store := NewStore()
	sub := store.Subscribe(FieldsPersisted)
	defer sub.Close()

	store.SetCursor(Point{X: 10, Y: 10})
	store.SetBorderWidth(DefaultBorderWidth)
	store.SetLightOn(true)

	select {
	case got := <-sub.C():
		t.Fatalf("unexpected notification %b", got)
	default:
	}

	v := store.Version()
	store.SetCursor(Point{X: 10, Y: 10})
	if store.Version() != v {
		t.Error("writing an equal cursor bumped the version")
	}
}

func TestSubscriptionClose(t *testing.T) {
	store := NewStore()
	sub := store.Subscribe(FieldsAll)
	sub.Close()
	sub.Close()

	store.SetLightOn(false)
	select {
	case <-sub.C():
		t.Fatal("closed subscription received a change")
	default:
	}
}

func TestApplyPreset(t *testing.T) {
	store := NewStore()
	store.SetUseTemperature(true)

	p, ok := PresetByName("toxic")
	if !ok {
		t.Fatal("preset not found")
	}
	store.ApplyPreset(p)

	snap := store.Snapshot()
	if snap.TintHex != "#00FF00" || snap.UseTemperature {
		t.Errorf("after preset: %+v", snap)
	}
}

func TestPresetsCopy(t *testing.T) {
	list := Presets()
	if len(list) != 4 {
		t.Fatalf("len = %d", len(list))
	}
	list[0].Hex = "#000000"
	if Presets()[0].Hex != "#FFD28E" {
		t.Error("Presets exposed the catalogue slice")
	}
	if _, ok := PresetByName("Neon"); ok {
		t.Error("unknown preset found")
	}
}

func TestToggleLight(t *testing.T) {
	store := NewStore()
	if store.ToggleLight() {
		t.Error("first toggle should switch off")
	}
	if !store.ToggleLight() {
		t.Error("second toggle should switch on")
	}
}

func TestActiveColor(t *testing.T) {
	st := Default()
	if got := st.ActiveColor().RGBA8(); got.R != 0xFF || got.G != 0xD2 || got.B != 0x8E {
		t.Errorf("hex colour = %+v", got)
	}
	st.UseTemperature = true
	st.ColorTemperatureK = 6600
	c := st.ActiveColor()
	if c.R < 0.99 || c.B < 0.99 {
		t.Errorf("6600K colour = %+v", c)
	}
}
