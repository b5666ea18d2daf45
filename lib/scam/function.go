package scam

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sort"
	"sync"
)

// Function is a heuristic over image pixels, returns true on hit
type Function func(img image.Image) (bool, error)

// FunctionLookup resolves function names used by function checkers
type FunctionLookup interface {
	Function(name string) (Function, bool)
}

// Registry is a process-wide set of named heuristic functions.
// Functions are registered at startup, Freeze makes the registry read-only.
type Registry struct {
	funcs  map[string]Function
	frozen bool
	lock   sync.RWMutex
}

// NewRegistry makes a registry with built-in functions
func NewRegistry() *Registry {
	res := &Registry{funcs: map[string]Function{}}
	res.funcs["dark_image"] = DarkImage
	res.funcs["discord_blurple"] = DiscordBlurple
	return res
}

// Register adds a named function, fails on duplicates and after Freeze
func (r *Registry) Register(name string, fn Function) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.frozen {
		return errors.New("registry is frozen")
	}
	if name == "" || fn == nil {
		return errors.New("empty function name or nil function")
	}
	if _, ok := r.funcs[name]; ok {
		return fmt.Errorf("function %q already registered", name)
	}
	r.funcs[name] = fn
	return nil
}

// Freeze makes the registry read-only
func (r *Registry) Freeze() {
	r.lock.Lock()
	r.frozen = true
	r.lock.Unlock()
}

// Function returns a function by name
func (r *Registry) Function(name string) (Function, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	fn, ok := r.funcs[name]
	return fn, ok
}

// Names returns sorted names of all registered functions
func (r *Registry) Names() []string {
	r.lock.RLock()
	defer r.lock.RUnlock()
	res := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		res = append(res, name)
	}
	sort.Strings(res)
	return res
}

// Lightness returns the average HLS lightness of the image, 0 (dark) to 255 (light)
func Lightness(img image.Image) float64 {
	b := img.Bounds()
	if b.Empty() {
		return 0
	}
	var sr, sg, sb float64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			sr += float64(c.R)
			sg += float64(c.G)
			sb += float64(c.B)
		}
	}
	n := float64(b.Dx() * b.Dy())
	r, g, bl := sr/n, sg/n, sb/n
	return (max(r, g, bl) + min(r, g, bl)) / 2
}

// DarkImage reports images with average lightness below 80, dark themed screenshots
func DarkImage(img image.Image) (bool, error) {
	return Lightness(img) < 80, nil
}

// DiscordBlurple reports images where more than 8% of pixels are close to the discord brand color,
// typical for fake nitro gift screenshots
func DiscordBlurple(img image.Image) (bool, error) {
	b := img.Bounds()
	if b.Empty() {
		return false, nil
	}
	const tolerance = 40
	ref := color.NRGBA{R: 0x58, G: 0x65, B: 0xF2, A: 0xFF}
	near := func(a, b uint8) bool { return int(a)-int(b) <= tolerance && int(b)-int(a) <= tolerance }

	count := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if near(c.R, ref.R) && near(c.G, ref.G) && near(c.B, ref.B) {
				count++
			}
		}
	}
	return float64(count)/float64(b.Dx()*b.Dy()) > 0.08, nil
}
