// Package gotrace converts user regions and logs of Go execution traces into profiler captures.
//
// Each region becomes a Begin/End pair whose ID is derived from the region type, attributed to the goroutine that
// ran it. Logs become markers named after their category and message.
package gotrace

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"honnef.co/go/profview/profiler"

	exptrace "golang.org/x/exp/trace"
)

// Sniff reports whether data looks like a Go execution trace.
func Sniff(data []byte) bool {
	return bytes.HasPrefix(data, []byte("go 1.")) && bytes.Contains(data[:min(len(data), 16)], []byte(" trace\x00"))
}

// Stats describes events that couldn't be represented in the capture.
type Stats struct {
	// Regions that ended without a matching begin, usually because they started before tracing did.
	UnmatchedEnds int
}

// Import reads a Go execution trace from r.
func Import(r io.Reader) (profiler.Capture, Stats, error) {
	var stats Stats
	tr, err := exptrace.NewReader(r)
	if err != nil {
		return profiler.Capture{}, stats, fmt.Errorf("couldn't read Go trace: %w", err)
	}

	ids := map[string]uint64{}
	intern := func(name string) uint64 {
		id, ok := ids[name]
		if !ok {
			id = uint64(len(ids) + 1)
			ids[name] = id
		}
		return id
	}
	// open region types per goroutine
	open := map[exptrace.GoID][]string{}

	c := profiler.Capture{Unit: time.Nanosecond}
	for {
		ev, err := tr.ReadEvent()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return profiler.Capture{}, stats, fmt.Errorf("couldn't read Go trace: %w", err)
		}

		g := ev.Goroutine()
		base := profiler.Event{
			Timestamp: int64(ev.Time()),
			ThreadID:  int64(g),
		}
		switch ev.Kind() {
		case exptrace.EventRegionBegin:
			typ := ev.Region().Type
			open[g] = append(open[g], typ)
			base.ID = intern(typ)
			base.Name = typ
			base.Phase = profiler.PhaseBegin
		case exptrace.EventRegionEnd:
			typ := ev.Region().Type
			stack := open[g]
			if len(stack) == 0 || stack[len(stack)-1] != typ {
				stats.UnmatchedEnds++
				continue
			}
			open[g] = stack[:len(stack)-1]
			base.ID = intern(typ)
			base.Name = typ
			base.Phase = profiler.PhaseEnd
		case exptrace.EventLog:
			l := ev.Log()
			name := l.Message
			if l.Category != "" {
				name = l.Category + ": " + l.Message
			}
			base.ID = intern(name)
			base.Name = name
			base.Phase = profiler.PhaseMarker
		default:
			continue
		}
		c.Events = append(c.Events, base)
	}
	c.Sort()
	return c, stats, nil
}
