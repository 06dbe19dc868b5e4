package math

import "github.com/chewxy/math32"

// Rect is an axis-aligned rectangle in the engine's virtual coordinate
// space: resolution independent, origin at the bottom left. Clip regions
// are stored and composed in this space so nested regions intersect
// correctly no matter which physical target they end up rendered to.
type Rect struct {
	L, B, R, T float32
}

func NewRect(l, b, r, t float32) Rect {
	return Rect{L: l, B: b, R: r, T: t}
}

// Intersect returns the overlap of r and o. A fully disjoint pair yields
// an empty (zero width or height) rect, never a negative one.
func (r Rect) Intersect(o Rect) Rect {
	out := Rect{
		L: math32.Max(r.L, o.L),
		B: math32.Max(r.B, o.B),
		R: math32.Min(r.R, o.R),
		T: math32.Min(r.T, o.T),
	}
	if out.R < out.L {
		out.R = out.L
	}
	if out.T < out.B {
		out.T = out.B
	}
	return out
}

func (r Rect) Width() float32 {
	return r.R - r.L
}

func (r Rect) Height() float32 {
	return r.T - r.B
}

func (r Rect) Empty() bool {
	return r.Width() <= 0 || r.Height() <= 0
}
