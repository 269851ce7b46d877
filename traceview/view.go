// Package traceview turns a capture of nested Begin and End events into a timeline of bars, one row per nesting
// level, and implements panning, zooming, and selecting bars.
//
// A View doesn't draw anything itself. Emit describes a frame as a DrawList, which renderers such as
// theme.Canvas and the raster package execute.
//
// All events are treated as belonging to a single call stack. Captures recorded on several threads should be split
// with profiler.Capture.Thread first.
package traceview

import (
	"honnef.co/go/profview/container"
	"honnef.co/go/profview/profiler"
)

// ViewState is the interactive state of a View. It survives rebuilds.
type ViewState struct {
	// Horizontal pan in screen pixels.
	PanX float32
	// Horizontal zoom factor.
	Zoom     float32
	Dragging bool
	// Index of the selected interval.
	Selected container.Option[int]
}

func DefaultViewState() ViewState {
	return ViewState{Zoom: 1}
}

type View struct {
	Config Config
	State  ViewState

	res Result
	// The events of the last successful rebuild, for Resize.
	events []profiler.Event
}

func NewView(cfg Config) *View {
	return &View{
		Config: cfg,
		State:  DefaultViewState(),
		res:    Result{Scale: 1},
	}
}

func (v *View) Intervals() []Interval { return v.res.Intervals }
func (v *View) Quads() []Vertex       { return v.res.Quads }
func (v *View) Result() Result        { return v.res }

// Rebuild replaces the view's intervals with those reconstructed from events. If the events are malformed, the
// view is left unchanged.
func (v *View) Rebuild(events []profiler.Event) error {
	res, err := Rebuild(v.Config, events)
	if err != nil {
		return err
	}
	v.res = res
	v.events = events
	v.State.Selected = v.State.Selected.Filter(func(i int) bool {
		return i >= 0 && i < len(res.Intervals)
	})
	return nil
}

// Resize changes the viewport size and lays out the last successfully rebuilt capture again.
func (v *View) Resize(width, height float32) error {
	if width == v.Config.ViewportWidth && height == v.Config.ViewportHeight {
		return nil
	}
	old := v.Config
	v.Config.ViewportWidth = width
	v.Config.ViewportHeight = height
	if err := v.Rebuild(v.events); err != nil {
		// Unreachable for events that rebuilt fine before, unless the config changed in between.
		v.Config = old
		return err
	}
	return nil
}

// ResetView undoes all panning and zooming.
func (v *View) ResetView() {
	v.State.PanX = 0
	v.State.Zoom = 1
	v.State.Dragging = false
}

// Select selects interval i, or clears the selection if i is out of range.
func (v *View) Select(i int) {
	if i >= 0 && i < len(v.res.Intervals) {
		v.State.Selected = container.Some(i)
	} else {
		v.State.Selected = container.None[int]()
	}
}

// Selected returns the selected interval, if any.
func (v *View) Selected() (Interval, bool) {
	i, ok := v.State.Selected.Get()
	if !ok || i < 0 || i >= len(v.res.Intervals) {
		return Interval{}, false
	}
	return v.res.Intervals[i], true
}

// Emit describes the current frame.
func (v *View) Emit() DrawList {
	return Emit(v.Config, v.res.Intervals, v.res.Quads, v.State)
}

// Update processes one frame worth of input. It registers the on-screen area of every interval with hits; callers
// that reuse a HitTester across frames must clear it before calling Update.
func (v *View) Update(in Input, hits HitTester) {
	tr := v.Config.Transform(v.State)
	for i, iv := range v.res.Intervals {
		if i > int(intervalHitBits) {
			break
		}
		hits.AddHitArea(tr.ApplyRect(iv.Box), IntervalHitID(i))
	}

	pos := in.PointerPosition()
	if in.KeyReleased(KeyZoomIn) {
		v.zoom(v.Config.ZoomInFactor, pos)
	}
	if in.KeyReleased(KeyZoomOut) {
		v.zoom(v.Config.ZoomOutFactor, pos)
	}

	if v.State.Dragging {
		v.State.PanX += in.PointerDelta().X
	}
	if in.PointerPressed(ButtonPrimary) && v.Config.PanelRect().Contains(pos) {
		v.State.Dragging = true
	}
	if in.PointerReleased(ButtonPrimary) {
		v.State.Dragging = false
		if id, ok := hits.HitAt(pos); ok {
			if i, ok := IntervalFromHit(id); ok && i < len(v.res.Intervals) {
				v.State.Selected = container.Some(i)
			}
		}
	}
}

// zoom scales the timeline by f, keeping the point under the pointer in place.
func (v *View) zoom(f float32, pointer Point) {
	if f <= 0 {
		return
	}
	pivot := pointer.X - v.Config.PanelInset
	v.State.PanX = (1-f)*pivot + f*v.State.PanX
	v.State.Zoom *= f
}
