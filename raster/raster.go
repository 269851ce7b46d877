// Package raster renders traceview draw lists to images without a window, for snapshots and tests.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"honnef.co/go/profview/font"
	"honnef.co/go/profview/traceview"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
)

type Renderer struct {
	Width, Height int
	// Color the image is cleared to before drawing.
	Background color.NRGBA
	// Text size in pixels.
	TextSize float64

	regular *text.FontSource
	bold    *text.FontSource
}

func New(width, height int) (*Renderer, error) {
	regular, err := text.NewFontSource(font.RegularTTF())
	if err != nil {
		return nil, fmt.Errorf("couldn't load regular font: %w", err)
	}
	bold, err := text.NewFontSource(font.BoldTTF())
	if err != nil {
		return nil, fmt.Errorf("couldn't load bold font: %w", err)
	}
	return &Renderer{
		Width:      width,
		Height:     height,
		Background: color.NRGBA{0x20, 0x20, 0x20, 0xFF},
		TextSize:   12,
		regular:    regular,
		bold:       bold,
	}, nil
}

// Render executes dl and returns the resulting image.
func (r *Renderer) Render(dl traceview.DrawList) (image.Image, error) {
	dc, err := r.render(dl)
	if err != nil {
		return nil, err
	}
	defer dc.Close()
	return dc.Image(), nil
}

// WritePNG executes dl and writes the result to w as a PNG.
func (r *Renderer) WritePNG(w io.Writer, dl traceview.DrawList) error {
	dc, err := r.render(dl)
	if err != nil {
		return err
	}
	defer dc.Close()
	return dc.EncodePNG(w)
}

func (r *Renderer) render(dl traceview.DrawList) (*gg.Context, error) {
	if r.Width <= 0 || r.Height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", r.Width, r.Height)
	}
	dc := gg.NewContext(r.Width, r.Height)
	dc.ClearWithColor(rgba(r.Background))

	regular := r.regular.Face(r.TextSize)
	bold := r.bold.Face(r.TextSize)

	var clips int
	for i, cmd := range dl.Commands {
		var err error
		switch cmd := cmd.(type) {
		case traceview.Fill:
			setColor(dc, cmd.Color)
			dc.DrawRectangle(float64(cmd.Rect.Min.X), float64(cmd.Rect.Min.Y), float64(cmd.Rect.Dx()), float64(cmd.Rect.Dy()))
			err = dc.Fill()
		case traceview.PushClip:
			dc.Push()
			dc.ClipRect(float64(cmd.Rect.Min.X), float64(cmd.Rect.Min.Y), float64(cmd.Rect.Dx()), float64(cmd.Rect.Dy()))
			clips++
		case traceview.PopClip:
			if clips > 0 {
				dc.Pop()
				clips--
			}
		case traceview.QuadBatch:
			err = drawQuads(dc, cmd)
		case traceview.Text:
			x := float64(cmd.At.X)
			y := float64(cmd.At.Y) + regular.Metrics().Ascent
			setColor(dc, cmd.Color)
			for _, s := range cmd.Spans {
				face := regular
				if s.Bold {
					face = bold
				}
				dc.SetFont(face)
				dc.DrawString(s.Text, x, y)
				w, _ := dc.MeasureString(s.Text)
				x += w
			}
		}
		if err != nil {
			dc.Close()
			return nil, fmt.Errorf("command %d (%T): %w", i, cmd, err)
		}
	}
	for ; clips > 0; clips-- {
		dc.Pop()
	}
	return dc, nil
}

func drawQuads(dc *gg.Context, batch traceview.QuadBatch) error {
	dc.Push()
	defer dc.Pop()
	dc.Translate(float64(batch.Transform.Offset.X), float64(batch.Transform.Offset.Y))
	dc.Scale(float64(batch.Transform.ScaleX), 1)

	for _, g := range batch.Groups() {
		setColor(dc, g.Color)
		for _, q := range g.Quads {
			vs := batch.Vertices[4*q : 4*q+4]
			dc.MoveTo(float64(vs[0].Pos.X), float64(vs[0].Pos.Y))
			for _, v := range vs[1:] {
				dc.LineTo(float64(v.Pos.X), float64(v.Pos.Y))
			}
			dc.ClosePath()
		}
		if err := dc.Fill(); err != nil {
			return err
		}
	}
	return nil
}

// rgba converts c without going through color.Color, whose RGBA method premultiplies.
func rgba(c color.NRGBA) gg.RGBA {
	return gg.RGBA2(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, float64(c.A)/255)
}

func setColor(dc *gg.Context, c color.NRGBA) {
	v := rgba(c)
	dc.SetRGBA(v.R, v.G, v.B, v.A)
}
