package render

import (
	"math"
	"time"
)

// tween eases a scalar from one value to another over a fixed duration.
type tween struct {
	from, to, value float64
	start           time.Time
	duration        time.Duration
}

func (tw *tween) snap(v float64) {
	tw.from, tw.to, tw.value = v, v, v
}

// retarget starts a new transition from the current value. Repeating the
// current target does not restart it.
func (tw *tween) retarget(to float64, now time.Time) {
	if to == tw.to {
		return
	}
	tw.from = tw.value
	tw.to = to
	tw.start = now
}

func (tw *tween) step(now time.Time) float64 {
	if tw.value == tw.to {
		return tw.value
	}
	if tw.duration <= 0 {
		tw.value = tw.to
		return tw.value
	}
	p := float64(now.Sub(tw.start)) / float64(tw.duration)
	if p >= 1 {
		tw.value = tw.to
	} else if p > 0 {
		tw.value = tw.from + (tw.to-tw.from)*easeInOut(p)
	}
	return tw.value
}

func (tw *tween) done() bool { return tw.value == tw.to }

func easeInOut(p float64) float64 {
	return p * p * (3 - 2*p)
}

func smoothstep(p float64) float64 {
	if p <= 0 {
		return 0
	}
	if p >= 1 {
		return 1
	}
	return p * p * (3 - 2*p)
}

// spring follows a 2D target like a damped mass on a spring. response is
// the undamped period in seconds; damping is the fraction of critical
// damping.
type spring struct {
	response, damping float64
	pos, vel, target  [2]float64
}

const (
	springSubstep = 1.0 / 240
	springEpsilon = 0.01
)

func (s *spring) snap(x, y float64) {
	s.pos = [2]float64{x, y}
	s.target = s.pos
	s.vel = [2]float64{}
}

func (s *spring) step(dt float64) {
	if s.settled() {
		return
	}
	if s.response <= 0 || !(dt > 0) {
		if s.response <= 0 {
			s.snap(s.target[0], s.target[1])
		}
		return
	}
	omega := 2 * math.Pi / s.response
	stiffness := omega * omega
	friction := 2 * s.damping * omega

	n := int(math.Ceil(dt / springSubstep))
	h := dt / float64(n)
	for i := 0; i < n; i++ {
		for a := 0; a < 2; a++ {
			acc := -stiffness*(s.pos[a]-s.target[a]) - friction*s.vel[a]
			s.vel[a] += acc * h
			s.pos[a] += s.vel[a] * h
		}
	}

	if math.Hypot(s.pos[0]-s.target[0], s.pos[1]-s.target[1]) < springEpsilon &&
		math.Hypot(s.vel[0], s.vel[1]) < springEpsilon {
		s.snap(s.target[0], s.target[1])
	}
}

func (s *spring) settled() bool {
	return s.pos == s.target && s.vel == [2]float64{}
}
