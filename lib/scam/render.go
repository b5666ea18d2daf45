package scam

import (
	"errors"
	"image"
	"image/color"
	"image/draw"

	"github.com/umputun/scam-spotter/lib/imgmatch"
)

// RenderMode defines what is highlighted on the rendered image
type RenderMode int

// enum of render modes
const (
	RenderMatches    RenderMode = iota // consecutive words red, seen words blue, template hits green
	RenderConfidence                   // every word colored by recognition confidence
)

var (
	colorRed    = color.RGBA{R: 0xE0, A: 0xFF}
	colorBlue   = color.RGBA{B: 0xE0, A: 0xFF}
	colorGreen  = color.RGBA{G: 0xC0, A: 0xFF}
	colorOrange = color.RGBA{R: 0xFF, G: 0xA5, A: 0xFF}
)

// Render draws word boxes of the image group over its original image.
func Render(g *Group, mode RenderMode) (*image.RGBA, error) {
	if g == nil || g.Kind != KindImage || g.Path == "" {
		return nil, errors.New("not an image group")
	}
	src, err := imgmatch.Load(g.Path)
	if err != nil {
		return nil, err
	}
	return renderOn(src, g, mode), nil
}

// renderOn draws on a copy of src moved to the origin, word boxes and template rectangles
// are both in src coordinates and shifted by the same offset
func renderOn(src image.Image, g *Group, mode RenderMode) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)

	for _, w := range g.Words {
		if w.Box == nil {
			continue
		}
		r := image.Rect(w.Box.Left, w.Box.Top, w.Box.Left+w.Box.Width, w.Box.Top+w.Box.Height).Sub(b.Min)
		switch mode {
		case RenderConfidence:
			outline(dst, r, confidenceColor(w.Confidence), 1)
		default:
			switch {
			case w.Consecutive():
				outline(dst, r, colorRed, 2)
			case w.Seen():
				outline(dst, r, colorBlue, 1)
			}
		}
	}
	if mode == RenderMatches {
		for _, r := range g.Rectangles {
			outline(dst, r.Sub(b.Min), colorGreen, 3)
		}
	}
	return dst
}

func confidenceColor(conf int) color.Color {
	switch {
	case conf < 25:
		return colorRed
	case conf < 50:
		return colorOrange
	case conf < 80:
		return colorBlue
	default:
		return colorGreen
	}
}

// outline draws rectangle border of the given thickness, clipped to the image
func outline(dst *image.RGBA, r image.Rectangle, c color.Color, thickness int) {
	u := image.NewUniform(c)
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+thickness),
		image.Rect(r.Min.X, r.Max.Y-thickness, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+thickness, r.Max.Y),
		image.Rect(r.Max.X-thickness, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(dst, e.Intersect(dst.Bounds()), u, image.Point{}, draw.Src)
	}
}
