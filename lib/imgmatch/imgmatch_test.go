package imgmatch

import (
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/draw"
)

func noise(w, h int, seed int64) *image.RGBA {
	rnd := rand.New(rand.NewSource(seed)) //nolint:gosec // test data
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			v := uint8(rnd.Intn(256))
			img.Set(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

// blocks makes a template with large contrast blocks, survives downscaling
func blocks(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			c := color.RGBA{R: 20, G: 20, B: 20, A: 255}
			if (x/10+y/10)%2 == 0 {
				c = color.RGBA{R: 240, G: 240, B: 240, A: 255}
			}
			if x < w/3 && y < h/2 {
				c = color.RGBA{R: 0x58, G: 0x65, B: 0xF2, A: 255}
			}
			img.Set(x, y, c)
		}
	}
	return img
}

func TestMatcher_Found(t *testing.T) {
	tmpl := blocks(60, 40)
	target := noise(200, 150, 1)
	draw.Draw(target, image.Rect(100, 80, 160, 120), tmpl, image.Point{}, draw.Src)

	rect, ok := New().Match(tmpl, target)
	require.True(t, ok)
	assert.InDelta(t, 100, rect.Min.X, 10)
	assert.InDelta(t, 80, rect.Min.Y, 10)
	assert.InDelta(t, 60, rect.Dx(), 12)
	assert.InDelta(t, 40, rect.Dy(), 12)
}

func TestMatcher_FoundScaled(t *testing.T) {
	tmpl := blocks(60, 40)
	big := image.NewRGBA(image.Rect(0, 0, 120, 80))
	draw.ApproxBiLinear.Scale(big, big.Bounds(), tmpl, tmpl.Bounds(), draw.Src, nil)

	target := noise(400, 300, 2)
	draw.Draw(target, image.Rect(40, 200, 160, 280), big, image.Point{}, draw.Src)

	rect, ok := New().Match(tmpl, target)
	require.True(t, ok)
	assert.InDelta(t, 40, rect.Min.X, 15)
	assert.InDelta(t, 200, rect.Min.Y, 15)
}

func TestMatcher_NotFound(t *testing.T) {
	_, ok := New().Match(blocks(60, 40), noise(200, 150, 3))
	assert.False(t, ok)
}

func TestMatcher_Degenerate(t *testing.T) {
	m := New()
	_, ok := m.Match(image.NewRGBA(image.Rect(0, 0, 0, 0)), noise(10, 10, 4))
	assert.False(t, ok, "empty template")

	_, ok = m.Match(image.NewRGBA(image.Rect(0, 0, 20, 20)), noise(100, 100, 5))
	assert.False(t, ok, "flat template")

	_, ok = m.Match(blocks(60, 40), image.NewRGBA(image.Rect(0, 0, 30, 30)))
	assert.False(t, ok, "flat target")
}

func TestMatcher_Scales(t *testing.T) {
	m := New()
	s := m.scales()
	require.Len(t, s, m.Steps)
	assert.InDelta(t, m.MaxScale, s[0], 1e-9)
	assert.InDelta(t, m.MinScale, s[len(s)-1], 1e-9)

	m.Steps = 1
	assert.Equal(t, []float64{m.MaxScale}, m.scales())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "a.png")
	fh, err := os.Create(p)
	require.NoError(t, err)
	require.NoError(t, png.Encode(fh, blocks(30, 20)))
	require.NoError(t, fh.Close())

	img, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 30, 20), img.Bounds())

	_, err = Load(filepath.Join(dir, "missing.png"))
	require.Error(t, err)

	bad := filepath.Join(dir, "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("not an image"), 0o600))
	_, err = Load(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode image")
}
