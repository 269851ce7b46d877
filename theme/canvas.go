package theme

import (
	"context"
	"image"
	rtrace "runtime/trace"

	ourclip "honnef.co/go/profview/clip"
	ourfont "honnef.co/go/profview/font"
	"honnef.co/go/profview/mem"
	"honnef.co/go/profview/traceview"

	"gioui.org/f32"
	"gioui.org/font"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/x/styledtext"
)

// Canvas executes traceview draw lists. A Canvas keeps allocations between frames and must not be shared between
// windows.
type Canvas struct {
	Theme *Theme

	paths   mem.BucketSlice[clip.Path]
	pathOps mem.BucketSlice[op.Ops]
	clips   []clip.Stack
	spans   []styledtext.SpanStyle
}

func NewCanvas(th *Theme) *Canvas {
	return &Canvas{Theme: th}
}

// Draw executes dl. Coordinates in dl are in pixels, relative to the current origin.
func (cv *Canvas) Draw(gtx layout.Context, dl traceview.DrawList) {
	defer rtrace.StartRegion(context.Background(), "theme.Canvas.Draw").End()

	// Recorded paths are referenced by gtx.Ops until the frame is submitted, so they live for the whole draw list.
	cv.paths.Reset()
	cv.pathOps.Reset()

	for _, cmd := range dl.Commands {
		switch cmd := cmd.(type) {
		case traceview.Fill:
			paint.FillShape(gtx.Ops, cmd.Color, ourclip.FromRect(cmd.Rect).Op(gtx.Ops))
		case traceview.PushClip:
			cv.clips = append(cv.clips, clip.Rect(ourclip.FromRect(cmd.Rect).Round()).Push(gtx.Ops))
		case traceview.PopClip:
			if n := len(cv.clips); n > 0 {
				cv.clips[n-1].Pop()
				cv.clips = cv.clips[:n-1]
			}
		case traceview.QuadBatch:
			cv.quads(gtx, cmd)
		case traceview.Text:
			cv.text(gtx, cmd)
		}
	}
	// Unbalanced clips must not leak into the rest of the frame.
	for i := len(cv.clips) - 1; i >= 0; i-- {
		cv.clips[i].Pop()
	}
	cv.clips = cv.clips[:0]
}

func (cv *Canvas) quads(gtx layout.Context, batch traceview.QuadBatch) {
	tr := f32.Affine2D{}.
		Scale(f32.Point{}, f32.Pt(batch.Transform.ScaleX, 1)).
		Offset(f32.Pt(batch.Transform.Offset.X, batch.Transform.Offset.Y))
	defer op.Affine(tr).Push(gtx.Ops).Pop()

	for _, g := range batch.Groups() {
		p := cv.paths.Append(clip.Path{})
		ops := cv.pathOps.Grow()
		ops.Reset()
		p.Begin(ops)
		for _, q := range g.Quads {
			vs := batch.Vertices[4*q : 4*q+4]
			p.MoveTo(f32.Pt(vs[0].Pos.X, vs[0].Pos.Y))
			for _, v := range vs[1:] {
				p.LineTo(f32.Pt(v.Pos.X, v.Pos.Y))
			}
			p.Close()
		}
		paint.FillShape(gtx.Ops, g.Color, clip.Outline{Path: p.End()}.Op())
	}
}

func (cv *Canvas) text(gtx layout.Context, txt traceview.Text) {
	cv.spans = cv.spans[:0]
	for _, s := range txt.Spans {
		style := styledtext.SpanStyle{
			Content: s.Text,
			Size:    cv.Theme.TextSize,
			Color:   txt.Color,
			Font:    ourfont.Collection()[0].Font,
		}
		if s.Bold {
			style.Font.Weight = font.Bold
		}
		cv.spans = append(cv.spans, style)
	}

	at := ourclip.FromRect(traceview.Rect{Min: txt.At, Max: txt.At}).Round().Min
	defer op.Offset(at).Push(gtx.Ops).Pop()
	gtx.Constraints.Min = image.Point{}
	gtx.Constraints.Max.X = 1e6
	styledtext.Text(cv.Theme.Shaper, cv.spans...).Layout(gtx, func(layout.Context, int, layout.Dimensions) {})
}
