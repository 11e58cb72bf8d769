package settings

import (
	"context"

	"github.com/rook-computer/tahoeglow/internal/state"
)

// Logger is the subset of the application logger this package writes to.
type Logger interface {
	Infof(component, format string, args ...interface{})
	Errorf(component, format string, args ...interface{})
}

// Binder copies persisted fields between a Store and the light state.
type Binder struct {
	Store  Store
	State  *state.Store
	Logger Logger
}

func NewBinder(store Store, st *state.Store, l Logger) *Binder {
	return &Binder{Store: store, State: st, Logger: l}
}

// Load applies the stored values to the state. Missing keys keep the
// current values; out-of-range numbers are clamped by the state setters.
func (b *Binder) Load() {
	cur := b.State.Snapshot()

	hex := b.Store.String(KeyBorderColor, cur.TintHex)
	if !b.State.SetTint(hex) {
		b.errorf("ignoring malformed %s %q", KeyBorderColor, hex)
	}
	b.State.SetUseTemperature(b.Store.Bool(KeyUseTemperature, cur.UseTemperature))
	b.State.SetColorTemperature(b.Store.Float(KeyColorTemp, cur.ColorTemperatureK))
	b.State.SetBorderWidth(b.Store.Float(KeyBorderWidth, cur.BorderWidth))
	b.State.SetCornerRadius(b.Store.Float(KeyCornerRadius, cur.CornerRadius))
}

// Reload re-reads the backing file, when the store has one, and applies it.
func (b *Binder) Reload() error {
	if l, ok := b.Store.(interface{ Load() error }); ok {
		if err := l.Load(); err != nil {
			return err
		}
	}
	b.Load()
	b.infof("settings reloaded")
	return nil
}

// Run writes persisted fields back to the store whenever they change,
// until ctx is done.
func (b *Binder) Run(ctx context.Context) {
	sub := b.State.Subscribe(state.FieldsPersisted)
	defer sub.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case fields := <-sub.C():
			b.persist(fields)
		}
	}
}

func (b *Binder) persist(fields state.Field) {
	snap := b.State.Snapshot()
	writes := []struct {
		field state.Field
		key   string
		value interface{}
	}{
		{state.FieldTint, KeyBorderColor, snap.TintHex},
		{state.FieldTemperatureMode, KeyUseTemperature, snap.UseTemperature},
		{state.FieldTemperature, KeyColorTemp, snap.ColorTemperatureK},
		{state.FieldBorderWidth, KeyBorderWidth, snap.BorderWidth},
		{state.FieldCornerRadius, KeyCornerRadius, snap.CornerRadius},
	}
	for _, w := range writes {
		if fields&w.field == 0 {
			continue
		}
		if err := b.Store.Set(w.key, w.value); err != nil {
			b.errorf("save %s: %v", w.key, err)
		}
	}
}

func (b *Binder) infof(format string, args ...interface{}) {
	if b.Logger != nil {
		b.Logger.Infof("settings", format, args...)
	}
}

func (b *Binder) errorf(format string, args ...interface{}) {
	if b.Logger != nil {
		b.Logger.Errorf("settings", format, args...)
	}
}
