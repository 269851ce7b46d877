// Package clip builds Gio clip operations from the floating-point rectangles of traceview.
package clip

import (
	"image"
	"math"

	"honnef.co/go/profview/traceview"

	"gioui.org/f32"
	"gioui.org/op"
	"gioui.org/op/clip"
)

type FRect struct {
	Min f32.Point
	Max f32.Point
}

func FromRect(r traceview.Rect) FRect {
	return FRect{
		Min: f32.Pt(r.Min.X, r.Min.Y),
		Max: f32.Pt(r.Max.X, r.Max.Y),
	}
}

func (r FRect) Path(ops *op.Ops) clip.PathSpec {
	var p clip.Path
	p.Begin(ops)
	r.IntoPath(&p)
	return p.End()
}

// IntoPath adds the rectangle to p as a closed subpath.
func (r FRect) IntoPath(p *clip.Path) {
	p.MoveTo(r.Min)
	p.LineTo(f32.Pt(r.Max.X, r.Min.Y))
	p.LineTo(r.Max)
	p.LineTo(f32.Pt(r.Min.X, r.Max.Y))
	p.Close()
}

func (r FRect) Op(ops *op.Ops) clip.Op {
	return clip.Outline{Path: r.Path(ops)}.Op()
}

// Round returns the rectangle with its corners rounded to whole pixels.
func (r FRect) Round() image.Rectangle {
	round := func(f float32) int { return int(math.Round(float64(f))) }
	return image.Rect(round(r.Min.X), round(r.Min.Y), round(r.Max.X), round(r.Max.Y))
}
