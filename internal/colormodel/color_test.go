package colormodel

import (
	"math"
	"strings"
	"testing"
)

func TestFromHexRoundTrip(t *testing.T) {
	tests := []string{"#FFD28E", "#E0F7FA", "#00FF00", "#FFFFFF", "#000000", "#0a1B2c", "123456", "  #abcdef  "}

	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			want := "#" + strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(in), "#"))
			got := ToHex(FromHex(in))
			if got != want {
				t.Errorf("ToHex(FromHex(%q)) = %q, want %q", in, got, want)
			}
		})
	}
}

func TestFromHexExhaustiveChannel(t *testing.T) {
	for v := 0; v < 256; v++ {
		hex := "#" + strings.Repeat(strings.ToUpper(twoDigits(v)), 3)
		if got := ToHex(FromHex(hex)); got != hex {
			t.Fatalf("round trip of %s gave %s", hex, got)
		}
	}
}

func twoDigits(v int) string {
	const digits = "0123456789abcdef"
	return string([]byte{digits[v>>4], digits[v&0xF]})
}

func TestFromHexMalformed(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"Empty", ""},
		{"Hash only", "#"},
		{"Short", "#FFF"},
		{"Five digits", "#FFD28"},
		{"Seven digits", "#FFD28E0"},
		{"Alpha channel", "#FFD28E80"},
		{"Non hex", "#GGHHII"},
		{"Prefix", "0xFFFF"},
		{"Sign", "+FFFFF"},
		{"Inner space", "FF D28E"},
		{"Double hash", "##FFD28E"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromHex(tt.in); got != Fallback {
				t.Errorf("FromHex(%q) = %+v, want fallback", tt.in, got)
			}
			if ValidHex(tt.in) {
				t.Errorf("ValidHex(%q) = true", tt.in)
			}
		})
	}
}

func TestFromKelvinBranches(t *testing.T) {
	for k := 1000.0; k <= 40000; k += 250 {
		c := FromKelvin(k)
		if k <= 6600 && c.R != 1 {
			t.Errorf("k=%v: red = %v, want 1", k, c.R)
		}
		if k >= 6600 && c.B != 1 {
			t.Errorf("k=%v: blue = %v, want 1", k, c.B)
		}
		if k <= 1900 && c.B != 0 {
			t.Errorf("k=%v: blue = %v, want 0", k, c.B)
		}
	}
}

func TestFromKelvinAlwaysInRange(t *testing.T) {
	inputs := []float64{0, -1, -6600, 1, 99, 1900, 1901, 6599.9, 6600, 6600.1, 100000, 1e9, math.Inf(1), math.Inf(-1), math.NaN()}

	for _, k := range inputs {
		c := FromKelvin(k)
		for _, ch := range []float64{c.R, c.G, c.B} {
			if math.IsNaN(ch) || ch < 0 || ch > 1 {
				t.Errorf("FromKelvin(%v) = %+v, channel out of range", k, c)
			}
		}
	}
}

func TestFromKelvinContinuityAt6600(t *testing.T) {
	c := FromKelvin(6600)
	if c.R < 0.99 || c.B < 0.99 {
		t.Fatalf("6600K = %+v, want red and blue at 255", c)
	}

	below := FromKelvin(6599)
	above := FromKelvin(6601)
	if math.Abs(below.G-above.G) > 0.05 {
		t.Errorf("green jumps across 6600K: %v vs %v", below.G, above.G)
	}
}

func TestFromKelvinWarmIsWarm(t *testing.T) {
	warm := FromKelvin(2000)
	cold := FromKelvin(9000)
	if warm.B >= cold.B {
		t.Errorf("2000K blue %v should be below 9000K blue %v", warm.B, cold.B)
	}
	if warm.R < cold.R {
		t.Errorf("2000K red %v should be at least 9000K red %v", warm.R, cold.R)
	}
}

func TestLerp(t *testing.T) {
	a := Color{R: 0, G: 0, B: 0}
	b := Color{R: 1, G: 0.5, B: 0.25}

	if got := Lerp(a, b, 0); got != a {
		t.Errorf("Lerp(t=0) = %+v", got)
	}
	if got := Lerp(a, b, 1); got != b {
		t.Errorf("Lerp(t=1) = %+v", got)
	}
	mid := Lerp(a, b, 0.5)
	if math.Abs(mid.R-0.5) > 1e-9 || math.Abs(mid.G-0.25) > 1e-9 {
		t.Errorf("Lerp(t=0.5) = %+v", mid)
	}
	if got := Lerp(a, b, 7); got != b {
		t.Errorf("Lerp clamps t, got %+v", got)
	}
}

func TestRGBA8(t *testing.T) {
	c := FromHex("#FFD28E").RGBA8()
	if c.R != 0xFF || c.G != 0xD2 || c.B != 0x8E || c.A != 0xFF {
		t.Errorf("RGBA8 = %+v", c)
	}
}
