package render

import (
	"image"
	"image/draw"
	"math"

	"github.com/rook-computer/tahoeglow/internal/render/layout"
	"golang.org/x/image/vector"
)

// plane is a single-channel float buffer, row-major.
type plane struct {
	w, h int
	pix  []float32
}

func newPlane(w, h int) *plane {
	return &plane{w: w, h: h, pix: make([]float32, w*h)}
}

func (p *plane) clone() *plane {
	out := &plane{w: p.w, h: p.h, pix: make([]float32, len(p.pix))}
	copy(out.pix, p.pix)
	return out
}

// cornerSegments is the polyline resolution of one rounded corner.
const cornerSegments = 24

// strokeRing rasterises a rounded-rectangle stroke centred on path with the
// given width into a w×h coverage plane. The outer outline winds clockwise
// and the inner one counter-clockwise so the hole cancels out.
func strokeRing(w, h int, path layout.Rect, radius, width float64) *plane {
	half := width / 2
	outer := layout.Inset(path, -half)
	inner := layout.Inset(path, half)

	z := vector.NewRasterizer(w, h)
	z.DrawOp = draw.Src
	addOutline(z, layout.RoundedRect(outer, radius+half, cornerSegments), false)
	if !inner.Empty() {
		addOutline(z, layout.RoundedRect(inner, math.Max(radius-half, 0), cornerSegments), true)
	}

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	out := newPlane(w, h)
	for i, a := range mask.Pix {
		out.pix[i] = float32(a) / 255
	}
	return out
}

func addOutline(z *vector.Rasterizer, pts []layout.Point, reverse bool) {
	if len(pts) < 3 {
		return
	}
	at := func(i int) layout.Point {
		if reverse {
			return pts[len(pts)-1-i]
		}
		return pts[i]
	}
	first := at(0)
	z.MoveTo(float32(first.X), float32(first.Y))
	for i := 1; i < len(pts); i++ {
		p := at(i)
		z.LineTo(float32(p.X), float32(p.Y))
	}
	z.ClosePath()
}
