package traceview

import (
	"fmt"
	stdcolor "image/color"
	"strings"
)

// Command is one of Fill, PushClip, PopClip, QuadBatch, and Text.
type Command interface {
	command()
}

// Fill fills Rect with Color.
type Fill struct {
	Rect  Rect
	Color stdcolor.NRGBA
}

// PushClip intersects the current clip with Rect until the matching PopClip.
type PushClip struct {
	Rect Rect
}

type PopClip struct{}

// QuadBatch draws consecutive groups of four vertices as filled quadrilaterals, after applying Transform.
type QuadBatch struct {
	Transform Transform
	Vertices  []Vertex
}

// ColorGroup lists the quads of a batch that share a color.
type ColorGroup struct {
	Color stdcolor.NRGBA
	// Indices of quads, in the order they appear in.
	Quads []int
}

// Groups groups the batch's quads by the color of their first vertex, in order of first appearance. There are far
// fewer colors than bars, so renderers draw one path per group. A trailing incomplete quad is ignored.
func (b QuadBatch) Groups() []ColorGroup {
	var groups []ColorGroup
	byColor := map[stdcolor.NRGBA]int{}
	for q := 0; q+4 <= len(b.Vertices); q += 4 {
		c := b.Vertices[q].Color
		idx, ok := byColor[c]
		if !ok {
			idx = len(groups)
			byColor[c] = idx
			groups = append(groups, ColorGroup{Color: c})
		}
		groups[idx].Quads = append(groups[idx].Quads, q/4)
	}
	return groups
}

type Span struct {
	Text string
	Bold bool
}

// Text draws a single line of text. At is the top-left corner of the line.
type Text struct {
	At    Point
	Color stdcolor.NRGBA
	Spans []Span
}

func (t Text) String() string {
	var sb strings.Builder
	for _, s := range t.Spans {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

func (Fill) command()      {}
func (PushClip) command()  {}
func (PopClip) command()   {}
func (QuadBatch) command() {}
func (Text) command()      {}

// DrawList is an ordered list of drawing commands, independent of any renderer.
type DrawList struct {
	Commands []Command
}

func (dl *DrawList) add(cmd Command) {
	dl.Commands = append(dl.Commands, cmd)
}

var (
	backgroundColor = rgba(0.1, 0.1, 0.1, 0.93)
	labelColor      = stdcolor.NRGBA{0xFF, 0xFF, 0xFF, 0xFF}
)

func rgba(r, g, b, a float32) stdcolor.NRGBA {
	c := func(f float32) uint8 {
		return uint8(f*255 + 0.5)
	}
	return stdcolor.NRGBA{c(r), c(g), c(b), c(a)}
}

// PanelRect returns the area the timeline is drawn in.
func (cfg *Config) PanelRect() Rect {
	return Rect{
		Min: Point{cfg.PanelInset, cfg.PanelInset},
		Max: Point{cfg.ViewportWidth - cfg.PanelInset, cfg.ViewportHeight - cfg.PanelInset},
	}
}

// Transform returns the mapping from timeline to screen coordinates for the given view state.
func (cfg *Config) Transform(state ViewState) Transform {
	return Transform{
		Offset: Point{cfg.PanelInset + state.PanX, cfg.PanelInset},
		ScaleX: state.Zoom,
	}
}

// Emit produces the draw commands for a timeline. It has no side effects. The returned list shares quads.
func Emit(cfg Config, intervals []Interval, quads []Vertex, state ViewState) DrawList {
	var dl DrawList
	panel := cfg.PanelRect()
	dl.add(Fill{Rect: panel, Color: backgroundColor})
	dl.add(PushClip{Rect: panel})
	dl.add(QuadBatch{Transform: cfg.Transform(state), Vertices: quads})
	dl.add(PopClip{})

	if sel, ok := state.Selected.Get(); ok && sel >= 0 && sel < len(intervals) {
		iv := intervals[sel]
		dl.add(Text{
			At:    cfg.NameLabelAt,
			Color: labelColor,
			Spans: []Span{
				{Text: "name     : ", Bold: true},
				{Text: iv.Label},
			},
		})
		dl.add(Text{
			At:    cfg.DurationLabelAt,
			Color: labelColor,
			Spans: []Span{
				{Text: "duration : ", Bold: true},
				{Text: fmt.Sprintf("%.2f", iv.DurationMillis())},
			},
		})
	}
	return dl
}
