// Package layout holds the rectangle arithmetic the compositor needs to
// place rounded strokes.
package layout

import "math"

// Rect is an axis-aligned rectangle with float edges, Y down.
type Rect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// FromSize returns the rectangle (0,0)-(w,h).
func FromSize(w, h float64) Rect {
	return Normalize(Rect{MaxX: w, MaxY: h})
}

func (r Rect) Dx() float64 { return r.MaxX - r.MinX }
func (r Rect) Dy() float64 { return r.MaxY - r.MinY }

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return !(r.Dx() > 0) || !(r.Dy() > 0) }

// Inset shrinks r by d on all sides; a negative d grows it. A rectangle
// shrunk past its centre collapses to a zero-size rectangle at the centre.
func Inset(r Rect, d float64) Rect {
	r = Normalize(r)
	out := Rect{MinX: r.MinX + d, MinY: r.MinY + d, MaxX: r.MaxX - d, MaxY: r.MaxY - d}
	if out.MinX > out.MaxX {
		cx := (r.MinX + r.MaxX) / 2
		out.MinX, out.MaxX = cx, cx
	}
	if out.MinY > out.MaxY {
		cy := (r.MinY + r.MaxY) / 2
		out.MinY, out.MaxY = cy, cy
	}
	return out
}

// Normalize ensures Min is <= Max on both axes.
func Normalize(r Rect) Rect {
	if r.MinX > r.MaxX {
		r.MinX, r.MaxX = r.MaxX, r.MinX
	}
	if r.MinY > r.MaxY {
		r.MinY, r.MaxY = r.MaxY, r.MinY
	}
	return r
}

// Transform scales r by s and then moves it by (dx, dy).
func Transform(r Rect, s, dx, dy float64) Rect {
	return Normalize(Rect{
		MinX: r.MinX*s + dx,
		MinY: r.MinY*s + dy,
		MaxX: r.MaxX*s + dx,
		MaxY: r.MaxY*s + dy,
	})
}

// ClampRadius limits a corner radius to [0, half the shorter side].
func ClampRadius(r Rect, radius float64) float64 {
	limit := math.Min(r.Dx(), r.Dy()) / 2
	if !(radius > 0) || limit <= 0 {
		return 0
	}
	return math.Min(radius, limit)
}

// Point is a float coordinate.
type Point struct {
	X, Y float64
}

// RoundedRect outlines r with circular corners of the given radius,
// clockwise on screen, starting at the top edge. Each corner is split into
// segments pieces; the outline is open (first point not repeated).
func RoundedRect(r Rect, radius float64, segments int) []Point {
	r = Normalize(r)
	radius = ClampRadius(r, radius)
	if segments < 1 {
		segments = 1
	}
	if radius == 0 {
		return []Point{{r.MinX, r.MinY}, {r.MaxX, r.MinY}, {r.MaxX, r.MaxY}, {r.MinX, r.MaxY}}
	}

	corners := []struct {
		cx, cy float64
		start  float64
	}{
		{r.MaxX - radius, r.MinY + radius, -math.Pi / 2},
		{r.MaxX - radius, r.MaxY - radius, 0},
		{r.MinX + radius, r.MaxY - radius, math.Pi / 2},
		{r.MinX + radius, r.MinY + radius, math.Pi},
	}
	pts := make([]Point, 0, 4*(segments+1))
	for _, c := range corners {
		for i := 0; i <= segments; i++ {
			a := c.start + float64(i)/float64(segments)*math.Pi/2
			pts = append(pts, Point{X: c.cx + radius*math.Cos(a), Y: c.cy + radius*math.Sin(a)})
		}
	}
	return pts
}
