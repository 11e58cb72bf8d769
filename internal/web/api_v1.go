package web

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rook-computer/tahoeglow/internal/colormodel"
	"github.com/rook-computer/tahoeglow/internal/state"
)

const maxBodyBytes = 64 << 10

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type lightResponse struct {
	Tint              string  `json:"tint"`
	UseTemperature    bool    `json:"useTemperature"`
	ColorTemperatureK float64 `json:"colorTemp"`
	BorderWidth       float64 `json:"borderWidth"`
	CornerRadius      float64 `json:"cornerRadius"`
	On                bool    `json:"on"`
	// Color is the resolved colour the border is drawn with.
	Color string `json:"color"`
}

// lightPatch is a partial update; absent fields are left alone.
type lightPatch struct {
	Tint              *string  `json:"tint"`
	UseTemperature    *bool    `json:"useTemperature"`
	ColorTemperatureK *float64 `json:"colorTemp"`
	BorderWidth       *float64 `json:"borderWidth"`
	CornerRadius      *float64 `json:"cornerRadius"`
	On                *bool    `json:"on"`
}

type presetResponse struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

func newLightResponse(snap state.State) lightResponse {
	return lightResponse{
		Tint:              snap.TintHex,
		UseTemperature:    snap.UseTemperature,
		ColorTemperatureK: snap.ColorTemperatureK,
		BorderWidth:       snap.BorderWidth,
		CornerRadius:      snap.CornerRadius,
		On:                snap.LightOn,
		Color:             colormodel.ToHex(snap.ActiveColor()),
	}
}

func apiV1Router(cfg APIV1Config) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/light", func(w http.ResponseWriter, r *http.Request) { handleLight(w, r, cfg.Light) })
	mux.HandleFunc("/light/toggle", func(w http.ResponseWriter, r *http.Request) { handleToggle(w, r, cfg.Light) })
	mux.HandleFunc("/presets", func(w http.ResponseWriter, r *http.Request) { handlePresets(w, r) })
	mux.HandleFunc("/presets/", func(w http.ResponseWriter, r *http.Request) { handleApplyPreset(w, r, cfg.Light) })
	mux.Handle("/events", newEventsHandler(cfg))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusNotFound, "not_found", "not found")
	})
	return mux
}

func handleLight(w http.ResponseWriter, r *http.Request, light *state.Store) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, newLightResponse(light.Snapshot()))
	case http.MethodPatch:
		var patch lightPatch
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&patch); err != nil {
			writeAPIError(w, http.StatusBadRequest, "invalid_body", err.Error())
			return
		}
		// Validate everything before touching the state so a bad request
		// changes nothing.
		if patch.Tint != nil && !colormodel.ValidHex(*patch.Tint) {
			writeAPIError(w, http.StatusBadRequest, "invalid_tint", "tint must be a 6-digit hex colour like #FFD28E")
			return
		}
		applyPatch(light, patch)
		writeJSON(w, http.StatusOK, newLightResponse(light.Snapshot()))
	default:
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	}
}

func applyPatch(light *state.Store, patch lightPatch) {
	if patch.Tint != nil {
		light.SetTint(*patch.Tint)
	}
	if patch.UseTemperature != nil {
		light.SetUseTemperature(*patch.UseTemperature)
	}
	if patch.ColorTemperatureK != nil {
		light.SetColorTemperature(*patch.ColorTemperatureK)
	}
	if patch.BorderWidth != nil {
		light.SetBorderWidth(*patch.BorderWidth)
	}
	if patch.CornerRadius != nil {
		light.SetCornerRadius(*patch.CornerRadius)
	}
	if patch.On != nil {
		light.SetLightOn(*patch.On)
	}
}

func handleToggle(w http.ResponseWriter, r *http.Request, light *state.Store) {
	if r.Method != http.MethodPost {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	light.ToggleLight()
	writeJSON(w, http.StatusOK, newLightResponse(light.Snapshot()))
}

func handlePresets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	presets := state.Presets()
	out := make([]presetResponse, 0, len(presets))
	for _, p := range presets {
		out = append(out, presetResponse{Name: p.Name, Hex: p.Hex})
	}
	writeJSON(w, http.StatusOK, out)
}

func handleApplyPreset(w http.ResponseWriter, r *http.Request, light *state.Store) {
	name := strings.Trim(strings.TrimPrefix(r.URL.Path, "/presets/"), "/")
	if name == "" {
		handlePresets(w, r)
		return
	}
	if r.Method != http.MethodPost {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	preset, ok := state.PresetByName(name)
	if !ok {
		writeAPIError(w, http.StatusNotFound, "preset_not_found", "preset not found")
		return
	}
	light.ApplyPreset(preset)
	writeJSON(w, http.StatusOK, newLightResponse(light.Snapshot()))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, apiError{Error: code, Message: message})
}
