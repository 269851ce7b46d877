package gotrace

import (
	"bytes"
	"context"
	rtrace "runtime/trace"
	"strings"
	"testing"

	"honnef.co/go/profview/profiler"
)

func TestSniff(t *testing.T) {
	if !Sniff([]byte("go 1.22 trace\x00\x00\x00")) {
		t.Error("didn't recognize a Go trace header")
	}
	for _, s := range []string{"", "go 1.", "profview capture\x00", `{"traceEvents":[]}`} {
		if Sniff([]byte(s)) {
			t.Errorf("Sniff(%q)=true", s)
		}
	}
}

func TestImportRegions(t *testing.T) {
	var buf bytes.Buffer
	if err := rtrace.Start(&buf); err != nil {
		t.Skipf("couldn't start tracing: %s", err)
	}
	ctx := context.Background()
	rtrace.WithRegion(ctx, "outer", func() {
		rtrace.Log(ctx, "phase", "setup")
		rtrace.WithRegion(ctx, "inner", func() {})
	})
	rtrace.Stop()

	c, _, err := Import(&buf)
	if err != nil {
		if strings.Contains(err.Error(), "version") {
			t.Skipf("trace format of this toolchain isn't supported: %s", err)
		}
		t.Fatal(err)
	}

	var seq []string
	var tid int64 = -1
	for _, ev := range c.Events {
		if ev.Name != "outer" && ev.Name != "inner" && ev.Name != "phase: setup" {
			continue
		}
		if tid == -1 {
			tid = ev.ThreadID
		} else if ev.ThreadID != tid {
			t.Errorf("event %v isn't on goroutine %d", ev, tid)
		}
		seq = append(seq, ev.Phase.String()+" "+ev.Name)
	}
	want := []string{
		"Begin outer",
		"Marker phase: setup",
		"Begin inner",
		"End inner",
		"End outer",
	}
	if strings.Join(seq, "\n") != strings.Join(want, "\n") {
		t.Errorf("got events\n%s\nwant\n%s", strings.Join(seq, "\n"), strings.Join(want, "\n"))
	}

	for i := 1; i < len(c.Events); i++ {
		if c.Events[i].Timestamp < c.Events[i-1].Timestamp {
			t.Fatalf("events aren't sorted by time at index %d", i)
		}
	}
	if c.Unit == 0 {
		t.Error("capture has no tick unit")
	}
	var ids = map[string]uint64{}
	for _, ev := range c.Events {
		if ev.Phase == profiler.PhaseMarker {
			continue
		}
		if id, ok := ids[ev.Name]; ok && id != ev.ID {
			t.Errorf("region %q has IDs %d and %d", ev.Name, id, ev.ID)
		}
		ids[ev.Name] = ev.ID
	}
}

func TestImportGarbage(t *testing.T) {
	if _, _, err := Import(strings.NewReader("not a trace")); err == nil {
		t.Error("importing garbage succeeded")
	}
}
