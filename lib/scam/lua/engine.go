// Package lua provides Lua heuristic functions for function checkers.
// Each script defines a global "check" function that takes an image table and returns
// a boolean (hit) and a string (details). The script name, without extension, is the function name.
//
// The image table has fields width, height and lightness (0..255), and methods
// pixel(x, y) returning r, g, b and share(r, g, b, tolerance) returning the share
// of pixels close to the given color, 0..1.
package lua

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/umputun/scam-spotter/lib/scam"
)

// Engine runs Lua functions, calls are serialized as the Lua VM is single-threaded
type Engine struct {
	vm    *lua.LState
	funcs map[string]*lua.LFunction
	lock  sync.Mutex
}

// NewEngine creates a new Engine with helpers registered
func NewEngine() *Engine {
	res := &Engine{vm: lua.NewState(), funcs: make(map[string]*lua.LFunction)}
	res.RegisterHelpers()
	return res
}

// LoadScript loads a Lua script and registers its check function under the file name
func (e *Engine) LoadScript(path string) error {
	e.lock.Lock()
	defer e.lock.Unlock()

	if err := e.vm.DoFile(path); err != nil {
		return fmt.Errorf("failed to load Lua script: %w", err)
	}

	checkFunc := e.vm.GetGlobal("check")
	if checkFunc.Type() != lua.LTFunction {
		return fmt.Errorf("script %s must define a 'check' function", path)
	}
	e.vm.SetGlobal("check", lua.LNil) // next script must define its own

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	e.funcs[name] = checkFunc.(*lua.LFunction)
	return nil
}

// LoadDirectory loads all Lua scripts from a directory
func (e *Engine) LoadDirectory(dir string) error {
	files, err := filepath.Glob(filepath.Join(dir, "*.lua"))
	if err != nil {
		return fmt.Errorf("failed to list Lua scripts in %s: %w", dir, err)
	}

	for _, file := range files {
		if err := e.LoadScript(file); err != nil {
			return fmt.Errorf("failed to load script %s: %w", file, err)
		}
	}
	return nil
}

// Names returns sorted names of loaded functions
func (e *Engine) Names() []string {
	e.lock.Lock()
	defer e.lock.Unlock()
	res := make([]string, 0, len(e.funcs))
	for name := range e.funcs {
		res = append(res, name)
	}
	sort.Strings(res)
	return res
}

// Function returns a loaded function by name
func (e *Engine) Function(name string) (scam.Function, bool) {
	e.lock.Lock()
	fn, ok := e.funcs[name]
	e.lock.Unlock()
	if !ok {
		return nil, false
	}
	return e.makeFunction(name, fn), true
}

// RegisterAll adds all loaded functions to the registry
func (e *Engine) RegisterAll(reg *scam.Registry) error {
	for _, name := range e.Names() {
		fn, _ := e.Function(name)
		if err := reg.Register(name, fn); err != nil {
			return fmt.Errorf("failed to register lua function %s: %w", name, err)
		}
	}
	return nil
}

func (e *Engine) makeFunction(name string, fn *lua.LFunction) scam.Function {
	return func(img image.Image) (bool, error) {
		e.lock.Lock()
		defer e.lock.Unlock()

		if err := e.vm.CallByParam(lua.P{
			Fn:      fn,
			NRet:    2,
			Protect: true,
		}, e.imageTable(img)); err != nil {
			return false, fmt.Errorf("error executing lua function %s: %w", name, err)
		}

		hit := e.vm.ToBool(-2)
		details := e.vm.ToString(-1)
		e.vm.Pop(2)
		if details != "" {
			log.Printf("[DEBUG] lua function %s: %v, %s", name, hit, details)
		}
		return hit, nil
	}
}

// imageTable exposes the image to Lua
func (e *Engine) imageTable(img image.Image) *lua.LTable {
	b := img.Bounds()
	tbl := e.vm.NewTable()
	tbl.RawSetString("width", lua.LNumber(b.Dx()))
	tbl.RawSetString("height", lua.LNumber(b.Dy()))
	tbl.RawSetString("lightness", lua.LNumber(scam.Lightness(img)))

	// pixel(x, y) with coordinates relative to the image origin, returns r, g, b 0..255
	tbl.RawSetString("pixel", e.vm.NewFunction(func(l *lua.LState) int {
		x, y := l.CheckInt(2), l.CheckInt(3)
		if x < 0 || y < 0 || x >= b.Dx() || y >= b.Dy() {
			l.ArgError(2, "pixel out of image bounds")
			return 0
		}
		c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
		l.Push(lua.LNumber(c.R))
		l.Push(lua.LNumber(c.G))
		l.Push(lua.LNumber(c.B))
		return 3
	}))

	// share(r, g, b, tolerance) returns share of pixels with every channel within tolerance
	tbl.RawSetString("share", e.vm.NewFunction(func(l *lua.LState) int {
		ref := [3]int{l.CheckInt(2), l.CheckInt(3), l.CheckInt(4)}
		tol := l.OptInt(5, 0)
		l.Push(lua.LNumber(colorShare(img, ref, tol)))
		return 1
	}))
	return tbl
}

func colorShare(img image.Image, ref [3]int, tol int) float64 {
	b := img.Bounds()
	if b.Empty() {
		return 0
	}
	near := func(v uint8, r int) bool { d := int(v) - r; return d <= tol && -d <= tol }
	count := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if near(c.R, ref[0]) && near(c.G, ref[1]) && near(c.B, ref[2]) {
				count++
			}
		}
	}
	return float64(count) / float64(b.Dx()*b.Dy())
}

// Close cleans up resources used by the Engine
func (e *Engine) Close() {
	e.lock.Lock()
	defer e.lock.Unlock()
	e.vm.Close()
}
