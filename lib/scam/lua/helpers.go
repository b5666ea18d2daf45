package lua

import (
	"math"

	lua "github.com/yuin/gopher-lua"
)

// RegisterHelpers registers common helper functions for Lua scripts
func (e *Engine) RegisterHelpers() {
	e.vm.SetGlobal("color_distance", e.vm.NewFunction(colorDistance))
	e.vm.SetGlobal("clamp", e.vm.NewFunction(clamp))
	e.vm.SetGlobal("luma", e.vm.NewFunction(luma))
}

// colorDistance returns euclidean distance between two rgb colors
func colorDistance(l *lua.LState) int {
	r1, g1, b1 := float64(l.CheckNumber(1)), float64(l.CheckNumber(2)), float64(l.CheckNumber(3))
	r2, g2, b2 := float64(l.CheckNumber(4)), float64(l.CheckNumber(5)), float64(l.CheckNumber(6))
	l.Push(lua.LNumber(math.Sqrt((r1-r2)*(r1-r2) + (g1-g2)*(g1-g2) + (b1-b2)*(b1-b2))))
	return 1
}

// clamp limits value to [lo, hi]
func clamp(l *lua.LState) int {
	v, lo, hi := l.CheckNumber(1), l.CheckNumber(2), l.CheckNumber(3)
	l.Push(lua.LNumber(math.Min(math.Max(float64(v), float64(lo)), float64(hi))))
	return 1
}

// luma returns perceived brightness of rgb color, 0..255
func luma(l *lua.LState) int {
	r, g, b := float64(l.CheckNumber(1)), float64(l.CheckNumber(2)), float64(l.CheckNumber(3))
	l.Push(lua.LNumber(0.299*r + 0.587*g + 0.114*b))
	return 1
}
