package main

import (
	"encoding/json"
	"fmt"
	"image/png"
	"net/http"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/rook-computer/tahoeglow/internal/display"
	"github.com/rook-computer/tahoeglow/internal/host"
	"github.com/rook-computer/tahoeglow/internal/state"
)

// scenarios are the simulated displays selectable at startup and through
// /sim/scenario/{name}. A zero frame means no display is attached.
var scenarios = map[string]display.Frame{
	"laptop": {Width: 1440, Height: 900},
	"fhd":    {Width: 1920, Height: 1080},
	"4k":     {Width: 3840, Height: 2160},
	"none":   {},
}

func scenarioNames() []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type SimControl struct {
	host            *host.Headless
	store           *state.Store
	currentScenario atomic.Value // string
}

func NewSimControl(h *host.Headless, store *state.Store) *SimControl {
	c := &SimControl{host: h, store: store}
	c.currentScenario.Store("")
	return c
}

func (c *SimControl) ApplyScenario(name string) error {
	name = strings.ToLower(strings.TrimSpace(name))
	frame, ok := scenarios[name]
	if !ok {
		return fmt.Errorf("unknown scenario %q", name)
	}
	if frame.Empty() {
		c.host.Disconnect()
	} else {
		c.host.SetFrame(frame)
	}
	c.currentScenario.Store(name)
	return nil
}

// Reset restores the default light and parks the pointer off screen.
func (c *SimControl) Reset() {
	def := state.Default()
	c.store.SetTint(def.TintHex)
	c.store.SetUseTemperature(def.UseTemperature)
	c.store.SetColorTemperature(def.ColorTemperatureK)
	c.store.SetBorderWidth(def.BorderWidth)
	c.store.SetCornerRadius(def.CornerRadius)
	c.store.SetLightOn(def.LightOn)
	c.host.SetPointer(-10000, -10000)
}

type simPointer struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func registerSimEndpoints(mux *http.ServeMux, control *SimControl) {
	mux.HandleFunc("/sim/reset", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		control.Reset()
		writeSimJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	mux.HandleFunc("/sim/scenario/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		name := strings.TrimPrefix(r.URL.Path, "/sim/scenario/")
		if err := control.ApplyScenario(name); err != nil {
			writeSimError(w, http.StatusNotFound, err.Error())
			return
		}
		writeSimJSON(w, http.StatusOK, map[string]any{"ok": true, "scenario": control.currentScenario.Load()})
	})

	// The pointer is in display coordinates with the origin at the
	// bottom-left, the same convention the real hosts report.
	mux.HandleFunc("/sim/pointer", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			x, y, ok := control.host.Pointer()
			if !ok {
				writeSimError(w, http.StatusNotFound, "pointer not set")
				return
			}
			writeSimJSON(w, http.StatusOK, simPointer{X: x, Y: y})
		case http.MethodPost:
			var p simPointer
			if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
				writeSimError(w, http.StatusBadRequest, "invalid JSON")
				return
			}
			control.host.SetPointer(p.X, p.Y)
			writeSimJSON(w, http.StatusOK, p)
		default:
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	})

	mux.HandleFunc("/sim/frame.png", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		img := control.host.LastFrame()
		if img == nil {
			writeSimError(w, http.StatusNotFound, "no frame presented yet")
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		_ = png.Encode(w, img)
	})
}

func writeSimJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSimError(w http.ResponseWriter, status int, message string) {
	writeSimJSON(w, status, map[string]string{"error": message})
}
