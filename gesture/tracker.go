// Package gesture translates Gio pointer and key events into the per-frame input state consumed by traceview.
package gesture

import (
	"strings"

	"honnef.co/go/profview/container"
	"honnef.co/go/profview/traceview"

	"gioui.org/f32"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/op"
	"golang.org/x/exp/slices"
)

// DefaultBindings maps view actions to Gio key names. A key.Set can't contain "-", which separates modifiers.
var DefaultBindings = map[traceview.Key][]string{
	traceview.KeyZoomIn:  {"=", "+", key.NameUpArrow},
	traceview.KeyZoomOut: {"_", key.NameDownArrow},
}

const numButtons = 3

// Tracker collects the pointer and key events of a single frame. It implements traceview.Input.
//
// Call Add while laying out a frame and Update before using the tracker's state.
type Tracker struct {
	// Bindings maps view actions to key names. Nil means DefaultBindings.
	Bindings map[traceview.Key][]string

	pressed  [numButtons]bool
	released [numButtons]bool
	// Buttons held after the previous event.
	held pointer.Buttons

	pos     f32.Point
	havePos bool
	delta   f32.Point

	keys container.Set[string]
}

var _ traceview.Input = (*Tracker)(nil)

func (tr *Tracker) bindings() map[traceview.Key][]string {
	if tr.Bindings == nil {
		return DefaultBindings
	}
	return tr.Bindings
}

func (tr *Tracker) keySet() key.Set {
	var names []string
	for _, ks := range tr.bindings() {
		names = append(names, ks...)
	}
	slices.Sort(names)
	return key.Set(strings.Join(names, "|"))
}

// Add registers the tracker for pointer events in the current clip area and for the bound keys.
func (tr *Tracker) Add(ops *op.Ops) {
	pointer.InputOp{
		Tag:   tr,
		Kinds: pointer.Press | pointer.Release | pointer.Move | pointer.Drag | pointer.Cancel,
	}.Add(ops)
	key.InputOp{Tag: tr, Keys: tr.keySet()}.Add(ops)
}

// Focus requests keyboard focus for the tracker.
func (tr *Tracker) Focus(ops *op.Ops) {
	key.FocusOp{Tag: tr}.Add(ops)
}

// Update discards the previous frame's state and processes the events queued for the tracker.
func (tr *Tracker) Update(q event.Queue) {
	tr.pressed = [numButtons]bool{}
	tr.released = [numButtons]bool{}
	tr.delta = f32.Point{}
	if tr.keys == nil {
		tr.keys = container.Set[string]{}
	}
	tr.keys.Clear()

	for _, ev := range q.Events(tr) {
		switch ev := ev.(type) {
		case pointer.Event:
			tr.pointer(ev)
		case key.Event:
			if ev.State == key.Release {
				tr.keys.Add(string(ev.Name))
			}
		}
	}
}

func (tr *Tracker) pointer(ev pointer.Event) {
	if tr.havePos {
		tr.delta = tr.delta.Add(ev.Position.Sub(tr.pos))
	}
	tr.pos = ev.Position
	tr.havePos = true

	switch ev.Kind {
	case pointer.Press:
		// ev.Buttons contains all buttons currently held.
		down := ev.Buttons &^ tr.held
		for i := 0; i < numButtons; i++ {
			if down&(1<<i) != 0 {
				tr.pressed[i] = true
			}
		}
		tr.held = ev.Buttons
	case pointer.Release:
		// ev.Buttons contains the buttons that are still held.
		up := tr.held &^ ev.Buttons
		for i := 0; i < numButtons; i++ {
			if up&(1<<i) != 0 {
				tr.released[i] = true
			}
		}
		tr.held = ev.Buttons
	case pointer.Cancel:
		for i := 0; i < numButtons; i++ {
			if tr.held&(1<<i) != 0 {
				tr.released[i] = true
			}
		}
		tr.held = 0
		tr.havePos = false
	}
}

func (tr *Tracker) PointerPressed(b traceview.Button) bool {
	return int(b) < numButtons && tr.pressed[b]
}

func (tr *Tracker) PointerReleased(b traceview.Button) bool {
	return int(b) < numButtons && tr.released[b]
}

func (tr *Tracker) PointerDelta() traceview.Point {
	return traceview.Point{X: tr.delta.X, Y: tr.delta.Y}
}

func (tr *Tracker) PointerPosition() traceview.Point {
	return traceview.Point{X: tr.pos.X, Y: tr.pos.Y}
}

func (tr *Tracker) KeyReleased(k traceview.Key) bool {
	for _, name := range tr.bindings()[k] {
		if tr.keys.Has(name) {
			return true
		}
	}
	return false
}

// Held reports whether b is currently held down.
func (tr *Tracker) Held(b traceview.Button) bool {
	return tr.held&(1<<b) != 0
}
