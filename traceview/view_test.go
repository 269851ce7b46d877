package traceview

import (
	stdcolor "image/color"
	"math"
	"testing"
	"time"

	"honnef.co/go/profview/container"
	"honnef.co/go/profview/profiler"

	"github.com/google/go-cmp/cmp"
)

type fakeInput struct {
	pressed, released bool
	delta, pos        Point
	keys              container.Set[Key]
}

func (in *fakeInput) PointerPressed(b Button) bool  { return b == ButtonPrimary && in.pressed }
func (in *fakeInput) PointerReleased(b Button) bool { return b == ButtonPrimary && in.released }
func (in *fakeInput) PointerDelta() Point           { return in.delta }
func (in *fakeInput) PointerPosition() Point        { return in.pos }
func (in *fakeInput) KeyReleased(k Key) bool        { return in.keys.Has(k) }

func newTestView(t *testing.T) *View {
	t.Helper()
	v := NewView(msConfig())
	err := v.Rebuild([]profiler.Event{
		named(begin(1, 0), "A"),
		named(begin(2, 10), "B"),
		named(end(2, 20), "B"),
		named(end(1, 30), "A"),
	})
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func TestZoomPivot(t *testing.T) {
	for _, key := range []Key{KeyZoomIn, KeyZoomOut} {
		v := newTestView(t)
		v.State.PanX = 7
		v.State.Zoom = 1.5
		p := Point{62, 50}

		world := v.Config.Transform(v.State).Invert(p)
		in := &fakeInput{pos: p, keys: container.Set[Key]{key: {}}}
		v.Update(in, &HitMap{})

		got := v.Config.Transform(v.State).Apply(world)
		if math.Abs(float64(got.X-p.X)) > 1e-3 {
			t.Errorf("key %d: point under pointer moved from %f to %f", key, p.X, got.X)
		}
	}
}

func TestZoomFactors(t *testing.T) {
	v := newTestView(t)
	in := &fakeInput{pos: Point{30, 50}, keys: container.Set[Key]{KeyZoomIn: {}}}
	v.Update(in, &HitMap{})
	if v.State.Zoom != 1.25 {
		t.Errorf("got zoom %f, want 1.25", v.State.Zoom)
	}
	in = &fakeInput{pos: Point{30, 50}, keys: container.Set[Key]{KeyZoomOut: {}}}
	v.Update(in, &HitMap{})
	if v.State.Zoom != 1 {
		t.Errorf("got zoom %f, want 1", v.State.Zoom)
	}
	// The pivot sat at the panel's left edge.
	if v.State.PanX != 0 {
		t.Errorf("got pan %f, want 0", v.State.PanX)
	}
}

func TestDrag(t *testing.T) {
	v := newTestView(t)
	frames := []fakeInput{
		{pressed: true, pos: Point{40, 50}},
		{delta: Point{5, 3}, pos: Point{45, 53}},
		{delta: Point{-2, 0}, pos: Point{43, 53}},
		{released: true, delta: Point{1, 0}, pos: Point{44, 53}},
		{delta: Point{100, 0}, pos: Point{144, 53}},
	}
	wantPan := []float32{0, 5, 3, 4, 4}
	wantDragging := []bool{true, true, true, false, false}
	for i := range frames {
		v.Update(&frames[i], &HitMap{})
		if v.State.PanX != wantPan[i] || v.State.Dragging != wantDragging[i] {
			t.Errorf("frame %d: got pan=%f dragging=%t, want pan=%f dragging=%t",
				i, v.State.PanX, v.State.Dragging, wantPan[i], wantDragging[i])
		}
	}
}

func TestPressOutsidePanel(t *testing.T) {
	v := newTestView(t)
	v.Update(&fakeInput{pressed: true, pos: Point{10, 10}}, &HitMap{})
	if v.State.Dragging {
		t.Error("press outside of the panel started dragging")
	}
}

func TestSelectOnRelease(t *testing.T) {
	v := newTestView(t)
	v.State.PanX = 20

	// B occupies [15, 25]x[40, 55] on the timeline, which is [65, 75]x[70, 85] on screen.
	var hits HitMap
	v.Update(&fakeInput{released: true, pos: Point{70, 80}}, &hits)
	if hits.Len() != 2 {
		t.Errorf("registered %d hit areas, want 2", hits.Len())
	}
	iv, ok := v.Selected()
	if !ok || iv.Label != "B" {
		t.Fatalf("selected %v, want B", v.State.Selected)
	}

	// Releasing over empty space keeps the selection.
	hits.Reset()
	v.Update(&fakeInput{released: true, pos: Point{200, 200}}, &hits)
	if iv, _ := v.Selected(); iv.Label != "B" {
		t.Errorf("selected %v after releasing over nothing, want B", v.State.Selected)
	}

	// The timeline coordinates of B aren't on it anymore after panning.
	hits.Reset()
	v.Update(&fakeInput{released: true, pos: Point{20, 45}}, &hits)
	if iv, _ := v.Selected(); iv.Label != "B" {
		t.Errorf("selected %v when releasing at untransformed coordinates", v.State.Selected)
	}

	// A is on row 0: [5, 35]x[20, 35] becomes [55, 85]x[50, 65].
	hits.Reset()
	v.Update(&fakeInput{released: true, pos: Point{80, 60}}, &hits)
	if iv, _ := v.Selected(); iv.Label != "A" {
		t.Errorf("selected %v, want A", v.State.Selected)
	}
}

// coveredHits reports a foreign area on top of everything.
type coveredHits struct {
	HitMap
}

func (coveredHits) HitAt(p Point) (HitID, bool) { return 1, true }

func TestSelectIgnoresForeignHits(t *testing.T) {
	v := newTestView(t)
	v.Update(&fakeInput{released: true, pos: Point{70, 80}}, &coveredHits{})
	if v.State.Selected.Set() {
		t.Errorf("selected %v through another hit area", v.State.Selected)
	}
}

func TestSelectedOutOfRange(t *testing.T) {
	v := newTestView(t)
	for _, i := range []int{-1, 2, 100} {
		v.State.Selected = container.Some(i)
		if iv, ok := v.Selected(); ok {
			t.Errorf("selection %d returned %v", i, iv)
		}
	}
	v.State.Selected = container.Some(1)
	if iv, ok := v.Selected(); !ok || iv.Label != "A" {
		t.Errorf("got %v, %t, want A", iv, ok)
	}
}

func TestResetView(t *testing.T) {
	v := newTestView(t)
	v.State = ViewState{PanX: 12, Zoom: 3, Dragging: true, Selected: container.Some(1)}
	v.ResetView()
	want := ViewState{Zoom: 1, Selected: container.Some(1)}
	if v.State != want {
		t.Errorf("got %+v, want %+v", v.State, want)
	}
}

func TestHitIDs(t *testing.T) {
	for _, i := range []int{0, 1, 0xFFFF} {
		id := IntervalHitID(i)
		if got, ok := IntervalFromHit(id); !ok || got != i {
			t.Errorf("IntervalFromHit(IntervalHitID(%d))=%d, %t", i, got, ok)
		}
	}
	if _, ok := IntervalFromHit(0x12340001); ok {
		t.Error("foreign ID decoded as interval")
	}

	var m HitMap
	m.AddHitArea(Rect{Max: Point{10, 10}}, 1)
	m.AddHitArea(Rect{Min: Point{5, 5}, Max: Point{15, 15}}, 2)
	for _, tt := range []struct {
		p  Point
		id HitID
		ok bool
	}{
		{Point{1, 1}, 1, true},
		{Point{7, 7}, 2, true},
		{Point{14, 14}, 2, true},
		{Point{15, 15}, 0, false},
	} {
		if id, ok := m.HitAt(tt.p); id != tt.id || ok != tt.ok {
			t.Errorf("HitAt(%v)=%d, %t, want %d, %t", tt.p, id, ok, tt.id, tt.ok)
		}
	}
}

func TestEmit(t *testing.T) {
	cfg := DefaultConfig(200, 100)
	cfg.TimeUnit = 1000 // µs
	res, err := Rebuild(cfg, []profiler.Event{named(begin(1, 0), "frame"), named(end(1, 1500), "frame")})
	if err != nil {
		t.Fatal(err)
	}
	state := ViewState{PanX: 10, Zoom: 2, Selected: container.Some(0)}
	got := Emit(cfg, res.Intervals, res.Quads, state)

	panel := Rect{Min: Point{30, 30}, Max: Point{170, 70}}
	white := stdcolor.NRGBA{0xFF, 0xFF, 0xFF, 0xFF}
	want := DrawList{Commands: []Command{
		Fill{Rect: panel, Color: stdcolor.NRGBA{26, 26, 26, 237}},
		PushClip{Rect: panel},
		QuadBatch{Transform: Transform{Offset: Point{40, 30}, ScaleX: 2}, Vertices: res.Quads},
		PopClip{},
		Text{At: Point{50, 150}, Color: white, Spans: []Span{{"name     : ", true}, {"frame", false}}},
		Text{At: Point{50, 165}, Color: white, Spans: []Span{{"duration : ", true}, {"1.50", false}}},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("draw list mismatch (-want +got):\n%s", diff)
	}
	if s := got.Commands[5].(Text).String(); s != "duration : 1.50" {
		t.Errorf("got label %q", s)
	}

	state.Selected = container.None[int]()
	if got := Emit(cfg, res.Intervals, res.Quads, state); len(got.Commands) != 4 {
		t.Errorf("got %d commands without a selection, want 4", len(got.Commands))
	}
	state.Selected = container.Some(5)
	if got := Emit(cfg, res.Intervals, res.Quads, state); len(got.Commands) != 4 {
		t.Errorf("got %d commands with a stale selection, want 4", len(got.Commands))
	}
}

func TestEmitLongDuration(t *testing.T) {
	cfg := DefaultConfig(200, 100)
	cfg.TimeUnit = time.Millisecond
	res, err := Rebuild(cfg, []profiler.Event{begin(1, 0), end(1, 1234)})
	if err != nil {
		t.Fatal(err)
	}
	dl := Emit(cfg, res.Intervals, res.Quads, ViewState{Zoom: 1, Selected: container.Some(0)})
	if s := dl.Commands[len(dl.Commands)-1].(Text).String(); s != "duration : 1234.00" {
		t.Errorf("got label %q, want no digit grouping", s)
	}
}

func TestQuadBatchGroups(t *testing.T) {
	red := stdcolor.NRGBA{0xFF, 0, 0, 0xFF}
	blue := stdcolor.NRGBA{0, 0, 0xFF, 0xFF}
	quad := func(c stdcolor.NRGBA) []Vertex {
		return []Vertex{{Color: c}, {Color: c}, {Color: c}, {Color: c}}
	}
	var vs []Vertex
	vs = append(vs, quad(blue)...)
	vs = append(vs, quad(red)...)
	vs = append(vs, quad(blue)...)
	// An incomplete quad is ignored.
	vs = append(vs, quad(red)[:2]...)

	want := []ColorGroup{
		{Color: blue, Quads: []int{0, 2}},
		{Color: red, Quads: []int{1}},
	}
	if diff := cmp.Diff(want, QuadBatch{Vertices: vs}.Groups()); diff != "" {
		t.Errorf("groups mismatch (-want +got):\n%s", diff)
	}
}
