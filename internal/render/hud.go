package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/golang/freetype/truetype"
	"github.com/rook-computer/tahoeglow/internal/colormodel"
	"github.com/rook-computer/tahoeglow/internal/state"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// HUD draws a single debug status line centred on the overlay.
type HUD struct {
	face   font.Face
	Color  color.RGBA
	Shadow color.RGBA
}

// NewHUD parses the embedded Go Regular font at the given point size.
func NewHUD(sizePt float64) (*HUD, error) {
	if sizePt <= 0 {
		sizePt = 18
	}
	ttf, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse hud font: %w", err)
	}
	face := truetype.NewFace(ttf, &truetype.Options{Size: sizePt, DPI: 72, Hinting: font.HintingFull})
	return &HUD{
		face:   face,
		Color:  color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
		Shadow: color.RGBA{A: 0xC0},
	}, nil
}

// Draw renders text horizontally centred, just below the vertical middle.
func (h *HUD) Draw(dst *image.RGBA, text string) {
	if h == nil || h.face == nil || text == "" {
		return
	}
	bounds := dst.Bounds()
	drawer := &font.Drawer{Dst: dst, Face: h.face}
	width := drawer.MeasureString(text).Ceil()
	ascent := h.face.Metrics().Ascent.Ceil()
	x := bounds.Min.X + (bounds.Dx()-width)/2
	baseline := bounds.Min.Y + bounds.Dy()/2 + ascent/2

	drawer.Src = image.NewUniform(h.Shadow)
	drawer.Dot = fixed.P(x+1, baseline+1)
	drawer.DrawString(text)

	drawer.Src = image.NewUniform(h.Color)
	drawer.Dot = fixed.P(x, baseline)
	drawer.DrawString(text)
}

func statusLine(snap state.State, fps float64) string {
	source := "tint " + snap.TintHex
	if snap.UseTemperature {
		source = fmt.Sprintf("%.0fK (%s)", snap.ColorTemperatureK, colormodel.ToHex(snap.ActiveColor()))
	}
	power := "on"
	if !snap.LightOn {
		power = "off"
	}
	return fmt.Sprintf("%s  %s  width %.0f  radius %.0f  cursor %.0f,%.0f  %.0f fps",
		power, source, snap.BorderWidth, snap.CornerRadius, snap.Cursor.X, snap.Cursor.Y, fps)
}
