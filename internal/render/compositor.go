package render

import (
	"image"
	"image/draw"
	"math"
	"time"

	"github.com/rook-computer/tahoeglow/internal/colormodel"
	"github.com/rook-computer/tahoeglow/internal/render/layout"
	"github.com/rook-computer/tahoeglow/internal/state"
	xdraw "golang.org/x/image/draw"
)

// Compositor turns a light state snapshot into overlay frames.
//
// The glow layers are rendered once per geometry (size, width, radius) into
// blurred coverage planes at WorkScale and folded into a full-size mix image
// holding, per pixel, the weight of the active colour, the weight of white
// and the total coverage. Compositing is linear in the tint, so a colour or
// fade step is a single lookup-table pass over the mix, and every frame only
// the cursor aperture is applied on top of that base.
type Compositor struct {
	// Layers and the fields below must not change after the first Render.
	Layers   []Layer
	Aperture Aperture
	Margin   float64
	Scale    float64

	// AsyncRebuild moves width and radius rebuilds onto a background
	// goroutine. The previous glow keeps presenting until the new one is
	// ready. Size changes always rebuild before the frame is drawn.
	AsyncRebuild bool

	// HUD draws a status line when non-nil.
	HUD    *HUD
	Logger interface {
		Infof(string, string, ...interface{})
		Errorf(string, string, ...interface{})
	}

	out     *image.RGBA
	base    *image.RGBA
	cleared bool

	mix       *image.RGBA // R: active colour weight, G: white weight, A: coverage
	geom      geomKey
	builds    int
	building  bool
	finished  chan mixBuild
	baseColor colormodel.Color
	baseAlpha float64
	baseGen   uint64
	baseValid bool
	lastFrame frameKey

	started       bool
	lastNow       time.Time
	fade          tween
	colorProgress tween
	colorFrom     colormodel.Color
	colorTo       colormodel.Color
	color         colormodel.Color
	aperture      spring
	fps           float64
}

type geomKey struct {
	size          image.Point
	width, radius float64
}

type frameKey struct {
	aperture [2]float64
	baseGen  uint64
}

type mixBuild struct {
	key geomKey
	mix *image.RGBA
}

func NewCompositor() *Compositor {
	return &Compositor{
		Layers:   DefaultLayers(),
		Aperture: DefaultAperture(),
		Margin:   Margin,
		Scale:    WorkScale,
	}
}

// Render produces the frame for snap at time now. The returned image is
// owned by the compositor and is overwritten by the next call.
func (c *Compositor) Render(snap state.State, size image.Point, now time.Time) *image.RGBA {
	c.ensureOutput(size)
	if size.X <= 0 || size.Y <= 0 {
		return c.out
	}
	c.collectMix(size)
	snap = sanitize(snap)
	dt := c.advance(now)
	c.animate(snap, now, dt)

	opacity := c.fade.value
	if opacity <= 0 {
		c.clearOutput()
		return c.out
	}

	c.ensureMix(size, snap)
	c.ensureBase(opacity)

	key := frameKey{aperture: c.aperture.pos, baseGen: c.baseGen}
	if c.HUD == nil && !c.cleared && key == c.lastFrame {
		return c.out
	}
	c.lastFrame = key
	c.cleared = false

	copy(c.out.Pix, c.base.Pix)
	c.applyAperture()
	if c.HUD != nil {
		c.HUD.Draw(c.out, statusLine(snap, c.fps))
	}
	return c.out
}

// ApertureCenter is the current, animated centre of the cursor hole.
func (c *Compositor) ApertureCenter() (x, y float64) {
	return c.aperture.pos[0], c.aperture.pos[1]
}

// Opacity is the current fade level in [0,1].
func (c *Compositor) Opacity() float64 { return c.fade.value }

// Color is the colour the glow is currently tinted with.
func (c *Compositor) Color() colormodel.Color { return c.color }

// Settled reports whether every animation has reached its target and no
// glow rebuild is pending.
func (c *Compositor) Settled() bool {
	return c.started && !c.building && c.fade.done() && c.colorProgress.done() && c.aperture.settled()
}

// GlowBuilds counts how often the glow geometry has been rendered.
func (c *Compositor) GlowBuilds() int { return c.builds }

func sanitize(snap state.State) state.State {
	snap.BorderWidth = state.ClampBorderWidth(snap.BorderWidth)
	snap.CornerRadius = state.ClampCornerRadius(snap.CornerRadius)
	return snap
}

func (c *Compositor) ensureOutput(size image.Point) {
	if size.X < 0 || size.Y < 0 {
		size = image.Point{}
	}
	if c.out != nil && c.out.Rect.Size() == size {
		return
	}
	c.out = image.NewRGBA(image.Rectangle{Max: size})
	c.base = image.NewRGBA(image.Rectangle{Max: size})
	c.cleared = true
	c.mix = nil
	c.baseValid = false
	c.lastFrame = frameKey{}
}

func (c *Compositor) advance(now time.Time) float64 {
	var dt time.Duration
	if c.started {
		dt = now.Sub(c.lastNow)
		if dt < 0 {
			dt = 0
		}
		if dt > maxFrameStep {
			dt = maxFrameStep
		}
	}
	c.lastNow = now
	if dt > 0 {
		instant := float64(time.Second) / float64(dt)
		if c.fps == 0 {
			c.fps = instant
		} else {
			c.fps = 0.9*c.fps + 0.1*instant
		}
	}
	return dt.Seconds()
}

func (c *Compositor) animate(snap state.State, now time.Time, dt float64) {
	targetOpacity := 0.0
	if snap.LightOn {
		targetOpacity = 1
	}
	target := snap.ActiveColor()
	cursor := snap.Cursor

	if !c.started {
		c.started = true
		c.fade.duration = FadeDuration
		c.fade.snap(targetOpacity)
		c.colorProgress.duration = ColorDuration
		c.colorProgress.snap(1)
		c.colorFrom, c.colorTo, c.color = target, target, target
		c.aperture = spring{response: SpringResponse, damping: SpringDamping}
		if finite(cursor.X) && finite(cursor.Y) {
			c.aperture.snap(cursor.X, cursor.Y)
		} else {
			c.aperture.snap(math.Inf(-1), math.Inf(-1))
		}
		return
	}

	c.fade.retarget(targetOpacity, now)
	c.fade.step(now)

	if target != c.colorTo {
		c.colorFrom = c.color
		c.colorTo = target
		c.colorProgress.snap(0)
		c.colorProgress.retarget(1, now)
	}
	c.color = colormodel.Lerp(c.colorFrom, c.colorTo, c.colorProgress.step(now))

	if finite(cursor.X) && finite(cursor.Y) {
		if !finite(c.aperture.pos[0]) || !finite(c.aperture.pos[1]) {
			c.aperture.snap(cursor.X, cursor.Y)
		}
		c.aperture.target = [2]float64{cursor.X, cursor.Y}
	}
	c.aperture.step(dt)
}

func (c *Compositor) strokeWidth(l Layer, borderWidth float64) float64 {
	return math.Max(borderWidth*l.WidthScale+l.WidthOffset, MinStrokeWidth)
}

// ensureMix keeps the mix image in step with the surface size and the
// border geometry.
func (c *Compositor) ensureMix(size image.Point, snap state.State) {
	key := geomKey{size: size, width: snap.BorderWidth, radius: snap.CornerRadius}
	if c.mix != nil && key == c.geom {
		return
	}

	if c.mix == nil || !c.AsyncRebuild {
		started := time.Now()
		c.adoptMix(mixBuild{key: key, mix: c.buildMix(key)})
		c.logRebuild(key, time.Since(started))
		return
	}
	if c.building {
		// The result in flight is adopted first; the next tick starts
		// another build if the geometry moved on.
		return
	}
	if c.finished == nil {
		c.finished = make(chan mixBuild, 1)
	}
	c.building = true
	finished := c.finished
	go func() {
		started := time.Now()
		b := mixBuild{key: key, mix: c.buildMix(key)}
		c.logRebuild(key, time.Since(started))
		finished <- b
	}()
}

// collectMix adopts a finished background build without waiting for one.
func (c *Compositor) collectMix(size image.Point) {
	if !c.building {
		return
	}
	select {
	case b := <-c.finished:
		c.building = false
		// A result for a previous surface size is stale.
		if b.key.size == size {
			c.adoptMix(b)
		}
	default:
	}
}

func (c *Compositor) adoptMix(b mixBuild) {
	c.mix = b.mix
	c.geom = b.key
	c.baseValid = false
	c.builds++
}

func (c *Compositor) logRebuild(key geomKey, took time.Duration) {
	if c.Logger != nil {
		c.Logger.Infof("render", "glow rebuilt %dx%d width=%.0f radius=%.0f in %v", key.size.X, key.size.Y, key.width, key.radius, took)
	}
}

// buildMix renders and blurs every layer at the work scale, folds the
// layers into colour weights and scales the result to the surface size. It
// only reads the configuration fields, so it may run off the render
// goroutine.
func (c *Compositor) buildMix(key geomKey) *image.RGBA {
	size := key.size
	s := c.Scale
	if !(s > 0) || s > 1 {
		s = 1
	}
	ww := int(math.Ceil(float64(size.X) * s))
	wh := int(math.Ceil(float64(size.Y) * s))

	// The canvas is padded so strokes hanging past the surface edge still
	// bleed light back in when blurred.
	reach := 0.0
	for _, l := range c.Layers {
		overhang := math.Max(0, c.strokeWidth(l, key.width)/2-c.Margin)
		reach = math.Max(reach, overhang+3*(l.Blur+l.Glow))
	}
	pad := int(math.Ceil(reach*s)) + 1
	cw, ch := ww+2*pad, wh+2*pad

	surface := layout.Inset(layout.FromSize(float64(size.X), float64(size.Y)), c.Margin)
	radius := layout.ClampRadius(surface, key.radius) * s
	path := layout.Transform(surface, s, float64(pad), float64(pad))

	// Each layer is painted over the ones below it, the glow halo first.
	type pass struct {
		coverage *plane
		opacity  float64
		white    bool
	}
	passes := make([]pass, 0, 2*len(c.Layers))
	for _, l := range c.Layers {
		main := strokeRing(cw, ch, path, radius, c.strokeWidth(l, key.width)*s)
		gaussianBlur(main, l.Blur*s)
		if l.Glow > 0 {
			glow := main.clone()
			gaussianBlur(glow, l.Glow*s)
			passes = append(passes, pass{coverage: crop(glow, pad, ww, wh), opacity: l.Opacity})
		}
		passes = append(passes, pass{coverage: crop(main, pad, ww, wh), opacity: l.Opacity, white: l.Tint == TintWhite})
	}

	small := image.NewRGBA(image.Rect(0, 0, ww, wh))
	for i := 0; i < ww*wh; i++ {
		var active, white, alpha float64
		for _, p := range passes {
			a := float64(p.coverage.pix[i]) * p.opacity
			if !(a > 0) {
				continue
			}
			if a > 1 {
				a = 1
			}
			k := 1 - a
			active, white, alpha = active*k, white*k, alpha*k+a
			if p.white {
				white += a
			} else {
				active += a
			}
		}
		j := i * 4
		small.Pix[j] = unit8(active)
		small.Pix[j+1] = unit8(white)
		small.Pix[j+3] = unit8(alpha)
	}
	if ww == size.X && wh == size.Y {
		return small
	}

	mix := image.NewRGBA(image.Rectangle{Max: size})
	xdraw.ApproxBiLinear.Scale(mix, mix.Bounds(), small, small.Bounds(), draw.Src, nil)
	return mix
}

func crop(p *plane, off, w, h int) *plane {
	out := newPlane(w, h)
	for y := 0; y < h; y++ {
		src := (y+off)*p.w + off
		copy(out.pix[y*w:(y+1)*w], p.pix[src:src+w])
	}
	return out
}

// ensureBase tints the mix with the current colour at the given opacity.
func (c *Compositor) ensureBase(opacity float64) {
	if c.baseValid && c.color == c.baseColor && opacity == c.baseAlpha {
		return
	}
	active := c.color.Clamped()
	white := colormodel.White

	// Per weight: the active colour, white and alpha at this opacity.
	var aR, aG, aB, wR, wG, wB, alpha [256]uint8
	for v := range 256 {
		f := float64(v) / 255 * opacity
		aR[v], aG[v], aB[v] = unit8(active.R*f), unit8(active.G*f), unit8(active.B*f)
		wR[v], wG[v], wB[v] = unit8(white.R*f), unit8(white.G*f), unit8(white.B*f)
		alpha[v] = unit8(f)
	}

	src, dst := c.mix.Pix, c.base.Pix
	for i := 0; i+3 < len(src); i += 4 {
		if src[i+3] == 0 {
			dst[i], dst[i+1], dst[i+2], dst[i+3] = 0, 0, 0, 0
			continue
		}
		ca, cw := src[i], src[i+1]
		a := alpha[src[i+3]]
		dst[i] = addClamp(aR[ca], wR[cw], a)
		dst[i+1] = addClamp(aG[ca], wG[cw], a)
		dst[i+2] = addClamp(aB[ca], wB[cw], a)
		dst[i+3] = a
	}

	c.baseColor = c.color
	c.baseAlpha = opacity
	c.baseValid = true
	c.baseGen++
}

// addClamp keeps premultiplied channels at or below alpha.
func addClamp(x, y, alpha uint8) uint8 {
	sum := uint16(x) + uint16(y)
	if sum > uint16(alpha) {
		return alpha
	}
	return uint8(sum)
}

func unit8(v float64) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 0xFF
	}
	return uint8(v*255 + 0.5)
}

// applyAperture erases the glow around the animated cursor position. Only
// the part of the aperture inside the surface is touched.
func (c *Compositor) applyAperture() {
	inner, outer := c.Aperture.Inner, c.Aperture.Outer
	if !(outer > 0) {
		return
	}
	if inner > outer {
		inner = outer
	}
	if inner < 0 {
		inner = 0
	}
	cx, cy := c.aperture.pos[0], c.aperture.pos[1]
	bounds := c.out.Rect
	if !finite(cx) || !finite(cy) ||
		cx+outer < 0 || cy+outer < 0 ||
		cx-outer > float64(bounds.Max.X) || cy-outer > float64(bounds.Max.Y) {
		return
	}

	area := image.Rect(
		int(math.Floor(cx-outer)), int(math.Floor(cy-outer)),
		int(math.Ceil(cx+outer))+1, int(math.Ceil(cy+outer))+1,
	).Intersect(bounds)
	ramp := outer - inner

	for y := area.Min.Y; y < area.Max.Y; y++ {
		dy := float64(y) + 0.5 - cy
		row := c.out.Pix[y*c.out.Stride:]
		for x := area.Min.X; x < area.Max.X; x++ {
			d := math.Hypot(float64(x)+0.5-cx, dy)
			if d >= outer {
				continue
			}
			m := 0.0
			if d > inner && ramp > 0 {
				m = smoothstep((d - inner) / ramp)
			}
			j := x * 4
			row[j] = uint8(float64(row[j])*m + 0.5)
			row[j+1] = uint8(float64(row[j+1])*m + 0.5)
			row[j+2] = uint8(float64(row[j+2])*m + 0.5)
			row[j+3] = uint8(float64(row[j+3])*m + 0.5)
		}
	}
}

func (c *Compositor) clearOutput() {
	if c.cleared {
		return
	}
	clear(c.out.Pix)
	c.cleared = true
	c.lastFrame = frameKey{}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
