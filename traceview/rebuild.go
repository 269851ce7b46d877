package traceview

import (
	"fmt"
	stdcolor "image/color"
	"time"

	"honnef.co/go/profview/container"
	"honnef.co/go/profview/profiler"
)

// Vertex is one corner of an interval's bar, in timeline coordinates.
type Vertex struct {
	Pos   Point
	Color stdcolor.NRGBA
}

// Interval is one matched pair of Begin and End events.
type Interval struct {
	ID    uint64
	Label string
	// Nesting level, 0 for outermost intervals.
	Depth int
	// Timestamps of the Begin and End events, in ticks.
	Begin, End int64
	Duration   time.Duration
	// Bounding box of the bar, in timeline coordinates.
	Box Rect
}

func (iv Interval) DurationMillis() float64 {
	return float64(iv.Duration) / float64(time.Millisecond)
}

// Result is the outcome of reconstructing a capture. Interval i owns Quads[4*i:4*i+4].
type Result struct {
	Intervals []Interval
	Quads     []Vertex
	// Time range covered by the capture, in ticks.
	MinTime, MaxTime int64
	// Pixels per tick.
	Scale float32
	// Number of Begin events that had no End at the end of the capture.
	Unclosed int
}

// Quad returns the four vertices belonging to interval i.
func (res *Result) Quad(i int) []Vertex {
	return res.Quads[4*i : 4*i+4]
}

type frame struct {
	id    uint64
	name  string
	begin int64
}

func timeScale(cfg *Config, min, max int64) float32 {
	width := cfg.ViewportWidth - cfg.ScaleMargin
	if max == min || width <= 0 {
		return 1
	}
	return width / float32(max-min)
}

func label(id uint64, name string) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("%#x", id)
}

// Rebuild turns a capture into intervals and the vertices of their bars. Events are processed in the order given.
// Marker events only contribute to the time range.
//
// Intervals are produced in the order they end, so nested intervals precede their parents.
func Rebuild(cfg Config, events []profiler.Event) (Result, error) {
	if len(events) == 0 {
		return Result{Scale: 1}, nil
	}
	unit := cfg.TimeUnit
	if unit == 0 {
		unit = time.Nanosecond
	}

	res := Result{
		MinTime: events[0].Timestamp,
		MaxTime: events[0].Timestamp,
	}
	var begins int
	for _, ev := range events[1:] {
		res.MinTime = min(res.MinTime, ev.Timestamp)
		res.MaxTime = max(res.MaxTime, ev.Timestamp)
	}
	for _, ev := range events {
		if ev.Phase == profiler.PhaseBegin {
			begins++
		}
	}
	res.Scale = timeScale(&cfg, res.MinTime, res.MaxTime)
	res.Intervals = make([]Interval, 0, begins)
	res.Quads = make([]Vertex, 0, 4*begins)

	palette := NewPalette(nil)
	stack := container.NewStack[frame](cfg.MaxStackDepth)
	for i, ev := range events {
		switch ev.Phase {
		case profiler.PhaseBegin:
			if !stack.Push(frame{ev.ID, ev.Name, ev.Timestamp}) {
				return Result{}, &MalformedTraceError{Kind: StackOverflow, Index: i, ID: ev.ID, Depth: stack.Len()}
			}

		case profiler.PhaseEnd:
			top, ok := stack.Peek()
			if !ok {
				return Result{}, &MalformedTraceError{Kind: StackUnderflow, Index: i, ID: ev.ID}
			}
			if top.id != ev.ID {
				return Result{}, &MalformedTraceError{Kind: IDMismatch, Index: i, ID: ev.ID, Open: top.id, Depth: stack.Len()}
			}
			stack.Pop()
			depth := stack.Len()

			xs := float32(top.begin-res.MinTime)*res.Scale + cfg.LeftMargin
			xe := float32(ev.Timestamp-res.MinTime)*res.Scale + cfg.LeftMargin
			ys := cfg.BaselineY + float32(depth)*cfg.RowHeight
			ye := ys + cfg.BarHeight
			c := palette.Color(ev.ID)

			name := top.name
			if name == "" {
				name = ev.Name
			}
			res.Intervals = append(res.Intervals, Interval{
				ID:       ev.ID,
				Label:    label(ev.ID, name),
				Depth:    depth,
				Begin:    top.begin,
				End:      ev.Timestamp,
				Duration: time.Duration(ev.Timestamp-top.begin) * unit,
				Box:      Rect{Min: Point{xs, ys}, Max: Point{xe, ye}},
			})
			res.Quads = append(res.Quads,
				Vertex{Point{xs, ys}, c},
				Vertex{Point{xe, ys}, c},
				Vertex{Point{xe, ye}, c},
				Vertex{Point{xs, ye}, c},
			)

		case profiler.PhaseMarker:
			// Not drawn.
		}
	}
	res.Unclosed = stack.Len()
	return res, nil
}
