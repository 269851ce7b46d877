package chrome

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"honnef.co/go/profview/profiler"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

type step struct {
	Phase profiler.Phase
	Name  string
	TS    int64
}

func steps(c profiler.Capture) []step {
	var out []step
	for _, ev := range c.Events {
		out = append(out, step{ev.Phase, ev.Name, ev.Timestamp})
	}
	return out
}

func TestImportDurationEvents(t *testing.T) {
	const in = `{"traceEvents": [
		{"name": "frame", "ph": "B", "ts": 0, "pid": 1, "tid": 2},
		{"name": "update", "ph": "B", "ts": 1.5, "pid": 1, "tid": 2},
		{"name": "vsync", "ph": "i", "ts": 2, "pid": 1, "tid": 2, "s": "t"},
		{"name": "update", "ph": "E", "ts": 3, "pid": 1, "tid": 2},
		{"name": "counter", "ph": "C", "ts": 3, "pid": 1, "tid": 2},
		{"name": "frame", "ph": "E", "ts": 10, "pid": 1, "tid": 2}
	]}`
	c, err := Import(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	want := []step{
		{profiler.PhaseBegin, "frame", 0},
		{profiler.PhaseBegin, "update", 1500},
		{profiler.PhaseMarker, "vsync", 2000},
		{profiler.PhaseEnd, "update", 3000},
		{profiler.PhaseEnd, "frame", 10000},
	}
	if diff := cmp.Diff(want, steps(c)); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
	if c.Unit != time.Nanosecond {
		t.Errorf("c.Unit=%s, want 1ns", c.Unit)
	}
	if c.Events[0].ID != c.Events[4].ID || c.Events[0].ID == c.Events[1].ID {
		t.Error("IDs aren't assigned per name")
	}
	if tid := c.Events[0].ThreadID; tid != 1<<32|2 {
		t.Errorf("thread ID=%#x, want %#x", tid, int64(1<<32|2))
	}
}

func TestImportCompleteEvents(t *testing.T) {
	// Array form; children share their parent's end and are listed before it.
	const in = `[
		{"name": "child2", "ph": "X", "ts": 20, "dur": 10, "pid": 1, "tid": 1},
		{"name": "child1", "ph": "X", "ts": 5, "dur": 5, "pid": 1, "tid": 1},
		{"name": "parent", "ph": "X", "ts": 0, "dur": 30, "pid": 1, "tid": 1},
		{"name": "other", "ph": "X", "ts": 10, "dur": 1, "pid": 1, "tid": 9}
	]`
	c, err := Import(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	want := []step{
		{profiler.PhaseBegin, "parent", 0},
		{profiler.PhaseBegin, "child1", 5000},
		// Begin of other was produced before End of child1; both are at 10µs on different threads.
		{profiler.PhaseBegin, "other", 10000},
		{profiler.PhaseEnd, "child1", 10000},
		{profiler.PhaseEnd, "other", 11000},
		{profiler.PhaseBegin, "child2", 20000},
		{profiler.PhaseEnd, "child2", 30000},
		{profiler.PhaseEnd, "parent", 30000},
	}
	if diff := cmp.Diff(want, steps(c)); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestImportInvalid(t *testing.T) {
	if _, err := Import(strings.NewReader(`{"traceEvents": 5}`)); err == nil {
		t.Error("importing malformed JSON succeeded")
	}
}

func TestExportImport(t *testing.T) {
	in := profiler.Capture{
		Unit: time.Microsecond,
		Events: []profiler.Event{
			{ID: 1, Name: "a", Phase: profiler.PhaseBegin, Timestamp: 1, ThreadID: 3<<32 | 4},
			{ID: 2, Name: "m", Phase: profiler.PhaseMarker, Timestamp: 2, ThreadID: 3<<32 | 4},
			{ID: 1, Name: "a", Phase: profiler.PhaseEnd, Timestamp: 5, ThreadID: 3<<32 | 4},
		},
	}
	var buf bytes.Buffer
	if err := Export(&buf, in); err != nil {
		t.Fatal(err)
	}
	if !Sniff(buf.Bytes()) {
		t.Fatal("exported trace doesn't sniff as JSON")
	}
	out, err := Import(&buf)
	if err != nil {
		t.Fatal(err)
	}

	// Import reassigns IDs and converts to nanoseconds.
	want := profiler.Capture{
		Unit: time.Nanosecond,
		Events: []profiler.Event{
			{Name: "a", Phase: profiler.PhaseBegin, Timestamp: 1000, ThreadID: 3<<32 | 4},
			{Name: "m", Phase: profiler.PhaseMarker, Timestamp: 2000, ThreadID: 3<<32 | 4},
			{Name: "a", Phase: profiler.PhaseEnd, Timestamp: 5000, ThreadID: 3<<32 | 4},
		},
	}
	if diff := cmp.Diff(want, out, cmpopts.IgnoreFields(profiler.Event{}, "ID")); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestExportUnnamed(t *testing.T) {
	f := ToFile(profiler.Capture{Events: []profiler.Event{{ID: 0x2a, Phase: profiler.PhaseBegin}}})
	if got := f.TraceEvents[0].Name; got != "0x2a" {
		t.Errorf("name=%q, want %q", got, "0x2a")
	}
}
