// Package profiler records call-stack timing events for later inspection.
//
// Instrumented code brackets work with Begin and End events (usually via Recorder.Timeslice) and may emit Marker
// events for instantaneous occurrences. Events are only kept while a capture is in progress.
package profiler

import (
	"fmt"
	"time"

	"honnef.co/go/profview/mysync"

	"golang.org/x/exp/slices"
)

type Phase uint8

const (
	PhaseBegin Phase = iota
	PhaseEnd
	PhaseMarker

	phaseLast
)

func (p Phase) String() string {
	switch p {
	case PhaseBegin:
		return "Begin"
	case PhaseEnd:
		return "End"
	case PhaseMarker:
		return "Marker"
	default:
		return fmt.Sprintf("Phase(%d)", uint8(p))
	}
}

func (p Phase) Valid() bool { return p < phaseLast }

// Event is one entry in a capture.
type Event struct {
	// ID identifies the timed region. Begin and End events of the same region share an ID.
	ID uint64
	// Name is the display name of ID. It may be empty for events whose source did not provide one.
	Name      string
	Phase     Phase
	Timestamp int64
	ThreadID  int64
}

// Capture is the result of one capture session.
type Capture struct {
	Events []Event
	// Unit is the duration of one timestamp tick.
	Unit time.Duration
}

// Threads returns the IDs of all threads that have events in the capture, in ascending order.
func (c Capture) Threads() []int64 {
	var out []int64
	for _, ev := range c.Events {
		if !slices.Contains(out, ev.ThreadID) {
			out = append(out, ev.ThreadID)
		}
	}
	slices.Sort(out)
	return out
}

// Thread returns a copy of the capture containing only the events of thread tid. Interleaved threads must be split
// up this way before their call stacks can be reconstructed.
func (c Capture) Thread(tid int64) Capture {
	out := Capture{Unit: c.Unit}
	for _, ev := range c.Events {
		if ev.ThreadID == tid {
			out.Events = append(out.Events, ev)
		}
	}
	return out
}

// Sort sorts the events by timestamp, keeping the relative order of events with equal timestamps.
func (c Capture) Sort() {
	slices.SortStableFunc(c.Events, func(a, b Event) int {
		switch {
		case a.Timestamp < b.Timestamp:
			return -1
		case a.Timestamp > b.Timestamp:
			return 1
		default:
			return 0
		}
	})
}

type recorderState struct {
	capturing bool
	events    []Event
	ids       map[string]uint64
	names     []string
}

// Recorder collects events. It is safe for concurrent use.
type Recorder struct {
	state *mysync.Mutex[*recorderState]
	// now returns the current timestamp in nanoseconds. It defaults to a monotonic clock.
	now func() int64
}

// NewRecorder returns a recorder using a monotonic clock with nanosecond ticks. Events are attributed to thread 0
// unless the caller uses AddOnThread.
func NewRecorder() *Recorder {
	epoch := time.Now()
	return &Recorder{
		state: mysync.NewMutex(&recorderState{ids: map[string]uint64{}}),
		now:   func() int64 { return int64(time.Since(epoch)) },
	}
}

// SetClock replaces the recorder's time source. It must be called before any events are recorded.
func (r *Recorder) SetClock(now func() int64) {
	r.now = now
}

// BeginCapture discards previously captured events and starts recording.
func (r *Recorder) BeginCapture() {
	r.state.Do(func(s *recorderState) {
		s.capturing = true
		s.events = s.events[:0]
	})
}

// EndCapture stops recording. Captured events remain available via Capture.
func (r *Recorder) EndCapture() {
	r.state.Do(func(s *recorderState) {
		s.capturing = false
	})
}

func (r *Recorder) IsCapturing() bool {
	s, mu := r.state.RLock()
	defer mu.RUnlock()
	return s.capturing
}

// ID interns name and returns its stable identifier. IDs start at 1.
func (r *Recorder) ID(name string) uint64 {
	var id uint64
	r.state.Do(func(s *recorderState) {
		id = s.intern(name)
	})
	return id
}

func (s *recorderState) intern(name string) uint64 {
	if id, ok := s.ids[name]; ok {
		return id
	}
	s.names = append(s.names, name)
	id := uint64(len(s.names))
	s.ids[name] = id
	return id
}

// Add records an event for the region with the given ID on thread 0.
func (r *Recorder) Add(id uint64, phase Phase) {
	r.AddOnThread(id, phase, 0)
}

// AddOnThread records an event for the region with the given ID, attributing it to thread tid.
func (r *Recorder) AddOnThread(id uint64, phase Phase, tid int64) {
	ts := r.now()
	r.state.Do(func(s *recorderState) {
		if !s.capturing {
			return
		}
		ev := Event{
			ID:        id,
			Phase:     phase,
			Timestamp: ts,
			ThreadID:  tid,
		}
		if id > 0 && id <= uint64(len(s.names)) {
			ev.Name = s.names[id-1]
		}
		s.events = append(s.events, ev)
	})
}

// Mark records a marker event named name.
func (r *Recorder) Mark(name string) {
	r.Add(r.ID(name), PhaseMarker)
}

// Timeslice records a Begin event for name and returns a function that records the matching End event.
//
//	defer rec.Timeslice("update")()
func (r *Recorder) Timeslice(name string) func() {
	id := r.ID(name)
	r.Add(id, PhaseBegin)
	return func() { r.Add(id, PhaseEnd) }
}

// TimesliceOnThread is like Timeslice but attributes both events to thread tid.
func (r *Recorder) TimesliceOnThread(name string, tid int64) func() {
	id := r.ID(name)
	r.AddOnThread(id, PhaseBegin, tid)
	return func() { r.AddOnThread(id, PhaseEnd, tid) }
}

// Capture returns a copy of the captured events. Events of a capture that is still in progress are included.
func (r *Recorder) Capture() Capture {
	s, mu := r.state.RLock()
	defer mu.RUnlock()
	return Capture{
		Events: slices.Clone(s.events),
		Unit:   time.Nanosecond,
	}
}
