package render

import "math"

// gaussianBlur approximates a gaussian of the given sigma with three box
// passes per axis. Pixels outside the plane count as zero.
func gaussianBlur(p *plane, sigma float64) {
	if !(sigma >= 0.5) || p.w == 0 || p.h == 0 {
		return
	}
	tmp := make([]float32, len(p.pix))
	for _, size := range boxSizes(sigma, 3) {
		r := (size - 1) / 2
		boxBlurH(p.pix, tmp, p.w, p.h, r)
		boxBlurV(tmp, p.pix, p.w, p.h, r)
	}
}

// boxSizes returns n odd box widths whose successive application matches a
// gaussian of the given sigma.
func boxSizes(sigma float64, n int) []int {
	ideal := math.Sqrt(12*sigma*sigma/float64(n) + 1)
	wl := int(math.Floor(ideal))
	if wl%2 == 0 {
		wl--
	}
	wu := wl + 2
	mIdeal := (12*sigma*sigma - float64(n*wl*wl) - float64(4*n*wl) - float64(3*n)) / float64(-4*wl-4)
	m := int(math.Round(mIdeal))

	sizes := make([]int, n)
	for i := range sizes {
		if i < m {
			sizes[i] = wl
		} else {
			sizes[i] = wu
		}
	}
	return sizes
}

func boxBlurH(src, dst []float32, w, h, r int) {
	if r <= 0 {
		copy(dst, src)
		return
	}
	inv := 1 / float32(2*r+1)
	for y := 0; y < h; y++ {
		row := src[y*w : (y+1)*w]
		out := dst[y*w : (y+1)*w]
		var sum float32
		for x := 0; x <= r && x < w; x++ {
			sum += row[x]
		}
		for x := 0; x < w; x++ {
			out[x] = sum * inv
			if add := x + r + 1; add < w {
				sum += row[add]
			}
			if sub := x - r; sub >= 0 {
				sum -= row[sub]
			}
		}
	}
}

func boxBlurV(src, dst []float32, w, h, r int) {
	if r <= 0 {
		copy(dst, src)
		return
	}
	inv := 1 / float32(2*r+1)
	for x := 0; x < w; x++ {
		var sum float32
		for y := 0; y <= r && y < h; y++ {
			sum += src[y*w+x]
		}
		for y := 0; y < h; y++ {
			dst[y*w+x] = sum * inv
			if add := y + r + 1; add < h {
				sum += src[add*w+x]
			}
			if sub := y - r; sub >= 0 {
				sum -= src[sub*w+x]
			}
		}
	}
}
