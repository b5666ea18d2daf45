// Package imgmatch finds a reference image (template) on another image.
// It is a multi-scale normalized cross-correlation search over grayscale copies of both images,
// tolerant to scale and brightness/contrast changes, not to rotation.
package imgmatch

import (
	"fmt"
	"image"
	_ "image/gif" // register decoders
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Matcher is a template matcher, zero value is not usable, use New
type Matcher struct {
	WorkSize  int     // longest side of the target image used for the search, in pixels
	Threshold float64 // minimal correlation for a hit, 0..1
	MinScale  float64 // smallest template width relative to the target width
	MaxScale  float64 // largest template width relative to the target width
	Steps     int     // number of scales tried between MinScale and MaxScale
	MinSide   int     // scaled templates smaller than this are skipped
}

// New makes a Matcher with default parameters
func New() *Matcher {
	return &Matcher{WorkSize: 160, Threshold: 0.8, MinScale: 0.1, MaxScale: 1.0, Steps: 24, MinSide: 8}
}

// Load decodes an image file, png, jpeg, gif, bmp and webp are supported
func Load(path string) (image.Image, error) {
	fh, err := os.Open(path) //nolint:gosec // path is controlled by the caller
	if err != nil {
		return nil, fmt.Errorf("failed to open image %s: %w", path, err)
	}
	defer fh.Close()
	img, _, err := image.Decode(fh)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}

// Match looks for the template on the target and returns the bounding rectangle
// in target coordinates with the best correlation, if it is above the threshold.
func (m *Matcher) Match(template, target image.Image) (image.Rectangle, bool) {
	tb, sb := target.Bounds(), template.Bounds()
	if tb.Empty() || sb.Empty() {
		return image.Rectangle{}, false
	}

	factor := 1.0
	if side := max(tb.Dx(), tb.Dy()); side > m.WorkSize {
		factor = float64(side) / float64(m.WorkSize)
	}
	tw := max(1, int(math.Round(float64(tb.Dx())/factor)))
	th := max(1, int(math.Round(float64(tb.Dy())/factor)))
	tg := resize(target, tw, th)
	integ := newIntegral(tg)
	aspect := float64(sb.Dx()) / float64(sb.Dy())

	best := hit{score: -1}
	for _, s := range m.scales() {
		w := int(math.Round(s * float64(tw)))
		h := int(math.Round(float64(w) / aspect))
		if w < m.MinSide || h < m.MinSide || w > tw || h > th {
			continue
		}
		if r := search(tg, integ, resize(template, w, h)); r.score > best.score {
			best = r
		}
	}
	if best.score < m.Threshold {
		return image.Rectangle{}, false
	}

	rect := image.Rect(
		int(math.Round(float64(best.x)*factor)), int(math.Round(float64(best.y)*factor)),
		int(math.Round(float64(best.x+best.w)*factor)), int(math.Round(float64(best.y+best.h)*factor)),
	)
	return rect.Add(tb.Min).Intersect(tb), true
}

// scales returns template scales from the largest to the smallest, geometric progression
func (m *Matcher) scales() []float64 {
	if m.Steps < 2 || m.MinScale >= m.MaxScale {
		return []float64{m.MaxScale}
	}
	res := make([]float64, 0, m.Steps)
	ratio := math.Pow(m.MinScale/m.MaxScale, 1/float64(m.Steps-1))
	s := m.MaxScale
	for range m.Steps {
		res = append(res, s)
		s *= ratio
	}
	return res
}

type hit struct {
	x, y, w, h int
	score      float64
}

// grayImg is a grayscale image as a dense float matrix
type grayImg struct {
	w, h int
	pix  []float64
}

func (g grayImg) at(x, y int) float64 { return g.pix[y*g.w+x] }

func resize(src image.Image, w, h int) grayImg {
	dst := image.NewGray(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	res := grayImg{w: w, h: h, pix: make([]float64, w*h)}
	for y := range h {
		for x := range w {
			res.pix[y*w+x] = float64(dst.Pix[y*dst.Stride+x])
		}
	}
	return res
}

// integral keeps summed-area tables of values and squared values
type integral struct {
	w   int
	sum []float64
	sq  []float64
}

func newIntegral(g grayImg) integral {
	w := g.w + 1
	res := integral{w: w, sum: make([]float64, w*(g.h+1)), sq: make([]float64, w*(g.h+1))}
	for y := 1; y <= g.h; y++ {
		var rs, rq float64
		for x := 1; x <= g.w; x++ {
			v := g.at(x-1, y-1)
			rs += v
			rq += v * v
			res.sum[y*w+x] = res.sum[(y-1)*w+x] + rs
			res.sq[y*w+x] = res.sq[(y-1)*w+x] + rq
		}
	}
	return res
}

// window returns sum and sum of squares of the w*h window at x,y
func (in integral) window(x, y, w, h int) (sum, sq float64) {
	a, b, c, d := y*in.w+x, y*in.w+x+w, (y+h)*in.w+x, (y+h)*in.w+x+w
	return in.sum[d] - in.sum[b] - in.sum[c] + in.sum[a], in.sq[d] - in.sq[b] - in.sq[c] + in.sq[a]
}

// search finds the best correlation position of the template, coarse grid first, then refined
func search(target grayImg, integ integral, tmpl grayImg) hit {
	n := float64(tmpl.w * tmpl.h)
	var mean float64
	for _, v := range tmpl.pix {
		mean += v
	}
	mean /= n
	zm := make([]float64, len(tmpl.pix))
	var norm float64
	for i, v := range tmpl.pix {
		zm[i] = v - mean
		norm += zm[i] * zm[i]
	}
	if norm == 0 {
		return hit{score: -1} // flat template can't be located
	}
	norm = math.Sqrt(norm)

	ncc := func(x, y int) float64 {
		sum, sq := integ.window(x, y, tmpl.w, tmpl.h)
		variance := sq - sum*sum/n
		if variance <= 1e-9 {
			return 0
		}
		var cross float64
		for j := range tmpl.h {
			row := target.pix[(y+j)*target.w+x:]
			zrow := zm[j*tmpl.w : (j+1)*tmpl.w]
			for i, z := range zrow {
				cross += z * row[i]
			}
		}
		return cross / (norm * math.Sqrt(variance))
	}

	const step = 2
	best := hit{w: tmpl.w, h: tmpl.h, score: -1}
	maxX, maxY := target.w-tmpl.w, target.h-tmpl.h
	for y := 0; y <= maxY; y += step {
		for x := 0; x <= maxX; x += step {
			if s := ncc(x, y); s > best.score {
				best.x, best.y, best.score = x, y, s
			}
		}
	}
	cx, cy := best.x, best.y
	for y := max(0, cy-step+1); y <= min(maxY, cy+step-1); y++ {
		for x := max(0, cx-step+1); x <= min(maxX, cx+step-1); x++ {
			if s := ncc(x, y); s > best.score {
				best.x, best.y, best.score = x, y, s
			}
		}
	}
	return best
}
