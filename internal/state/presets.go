package state

import "strings"

// Preset is a named tint from the fixed catalogue.
type Preset struct {
	Name string
	Hex  string
}

var presets = []Preset{
	{Name: "Warm", Hex: "#FFD28E"},
	{Name: "Cold", Hex: "#E0F7FA"},
	{Name: "Toxic", Hex: "#00FF00"},
	{Name: "White", Hex: "#FFFFFF"},
}

// Presets returns a copy of the catalogue.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// PresetByName looks a preset up case-insensitively.
func PresetByName(name string) (Preset, bool) {
	for _, p := range presets {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Preset{}, false
}
