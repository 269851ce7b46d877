// Package chrome converts between profiler captures and the JSON Trace Event Format used by Chrome's about:tracing,
// Perfetto and many build tools.
//
// Duration events (phases B and E) map to Begin and End events, complete events (X) are split into a Begin/End
// pair, and instant and mark events (i, I, R) become markers. All other phases are ignored. Timestamps in the format
// are in microseconds; imported captures use nanosecond ticks.
package chrome

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"time"

	"honnef.co/go/profview/profiler"

	"golang.org/x/exp/slices"
)

type Phase string

const (
	PhaseDurationBegin     Phase = "B"
	PhaseDurationEnd       Phase = "E"
	PhaseComplete          Phase = "X"
	PhaseInstant           Phase = "i"
	PhaseInstantDeprecated Phase = "I"
	PhaseMark              Phase = "R"
)

type Event struct {
	Name      string  `json:"name"`
	Phase     Phase   `json:"ph"`
	Timestamp float64 `json:"ts"`
	Duration  float64 `json:"dur,omitempty"`
	ProcessID int64   `json:"pid"`
	ThreadID  int64   `json:"tid"`
	Category  string  `json:"cat,omitempty"`
	Scope     string  `json:"s,omitempty"`
}

type File struct {
	TraceEvents     []Event `json:"traceEvents"`
	DisplayTimeUnit string  `json:"displayTimeUnit,omitempty"`
}

// Sniff reports whether data looks like a JSON trace.
func Sniff(data []byte) bool {
	data = bytes.TrimLeft(data, " \t\r\n")
	return len(data) > 0 && (data[0] == '{' || data[0] == '[')
}

func threadID(pid, tid int64) int64 {
	return pid<<32 | int64(uint32(tid))
}

func splitThreadID(id int64) (pid, tid int64) {
	return id >> 32, int64(int32(id))
}

func usToNs(us float64) int64 {
	return int64(math.Round(us * 1000))
}

// Import reads a trace in either the object or the array form of the format.
func Import(r io.Reader) (profiler.Capture, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return profiler.Capture{}, err
	}
	var f File
	data = bytes.TrimLeft(data, " \t\r\n")
	if len(data) > 0 && data[0] == '[' {
		err = json.Unmarshal(data, &f.TraceEvents)
	} else {
		err = json.Unmarshal(data, &f)
	}
	if err != nil {
		return profiler.Capture{}, fmt.Errorf("couldn't parse JSON trace: %w", err)
	}
	return FromFile(f), nil
}

type complete struct {
	id         uint64
	name       string
	start, end int64
	thread     int64
}

// FromFile converts the events of f into a capture.
func FromFile(f File) profiler.Capture {
	ids := map[string]uint64{}
	intern := func(name string) uint64 {
		id, ok := ids[name]
		if !ok {
			id = uint64(len(ids) + 1)
			ids[name] = id
		}
		return id
	}

	var explicit []profiler.Event
	var completes []complete
	for _, ev := range f.TraceEvents {
		out := profiler.Event{
			ID:        intern(ev.Name),
			Name:      ev.Name,
			Timestamp: usToNs(ev.Timestamp),
			ThreadID:  threadID(ev.ProcessID, ev.ThreadID),
		}
		switch ev.Phase {
		case PhaseDurationBegin:
			out.Phase = profiler.PhaseBegin
		case PhaseDurationEnd:
			out.Phase = profiler.PhaseEnd
		case PhaseInstant, PhaseInstantDeprecated, PhaseMark:
			out.Phase = profiler.PhaseMarker
		case PhaseComplete:
			completes = append(completes, complete{
				id:     out.ID,
				name:   out.Name,
				start:  out.Timestamp,
				end:    out.Timestamp + usToNs(ev.Duration),
				thread: out.ThreadID,
			})
			continue
		default:
			continue
		}
		explicit = append(explicit, out)
	}

	c := profiler.Capture{Unit: time.Nanosecond, Events: explicit}
	c.Sort()
	return profiler.Capture{
		Unit:   time.Nanosecond,
		Events: merge(c.Events, splitCompletes(completes)),
	}
}

// splitCompletes turns complete events into well-nested Begin/End sequences. Parents start no later and end no
// earlier than their children, so sorting by start and then by descending end yields parents first.
func splitCompletes(completes []complete) []profiler.Event {
	slices.SortStableFunc(completes, func(a, b complete) int {
		switch {
		case a.start != b.start:
			return cmpInt(a.start, b.start)
		default:
			return cmpInt(b.end, a.end)
		}
	})

	var out []profiler.Event
	open := map[int64][]complete{}
	closeUntil := func(thread int64, ts int64, all bool) {
		stack := open[thread]
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			if !all && top.end > ts {
				break
			}
			out = append(out, profiler.Event{ID: top.id, Name: top.name, Phase: profiler.PhaseEnd, Timestamp: top.end, ThreadID: thread})
			stack = stack[:len(stack)-1]
		}
		open[thread] = stack
	}
	for _, cev := range completes {
		closeUntil(cev.thread, cev.start, false)
		out = append(out, profiler.Event{ID: cev.id, Name: cev.name, Phase: profiler.PhaseBegin, Timestamp: cev.start, ThreadID: cev.thread})
		open[cev.thread] = append(open[cev.thread], cev)
	}
	threads := make([]int64, 0, len(open))
	for thread := range open {
		threads = append(threads, thread)
	}
	slices.Sort(threads)
	for _, thread := range threads {
		closeUntil(thread, 0, true)
	}

	c := profiler.Capture{Events: out}
	c.Sort()
	return c.Events
}

// merge merges two timestamp-ordered event lists. On equal timestamps, events of a come first.
func merge(a, b []profiler.Event) []profiler.Event {
	if len(b) == 0 {
		return a
	}
	out := make([]profiler.Event, 0, len(a)+len(b))
	for len(a) > 0 && len(b) > 0 {
		if b[0].Timestamp < a[0].Timestamp {
			out = append(out, b[0])
			b = b[1:]
		} else {
			out = append(out, a[0])
			a = a[1:]
		}
	}
	out = append(out, a...)
	return append(out, b...)
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// ToFile converts a capture into the Trace Event Format.
func ToFile(c profiler.Capture) File {
	unit := c.Unit
	if unit == 0 {
		unit = time.Nanosecond
	}
	f := File{
		TraceEvents:     make([]Event, 0, len(c.Events)),
		DisplayTimeUnit: "ns",
	}
	for _, ev := range c.Events {
		pid, tid := splitThreadID(ev.ThreadID)
		name := ev.Name
		if name == "" {
			name = fmt.Sprintf("%#x", ev.ID)
		}
		out := Event{
			Name:      name,
			Timestamp: float64(ev.Timestamp) * float64(unit) / float64(time.Microsecond),
			ProcessID: pid,
			ThreadID:  tid,
		}
		switch ev.Phase {
		case profiler.PhaseBegin:
			out.Phase = PhaseDurationBegin
		case profiler.PhaseEnd:
			out.Phase = PhaseDurationEnd
		case profiler.PhaseMarker:
			out.Phase = PhaseInstant
			out.Scope = "t"
		default:
			continue
		}
		f.TraceEvents = append(f.TraceEvents, out)
	}
	return f
}

// Export writes c as a JSON trace.
func Export(w io.Writer, c profiler.Capture) error {
	enc := json.NewEncoder(w)
	return enc.Encode(ToFile(c))
}
