package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	rtrace "runtime/trace"
	"sync"
	"time"

	"honnef.co/go/profview/profiler"

	"github.com/google/subcommands"
)

type cmdRecord struct {
	out     string
	format  string
	goTrace string
	frames  int
	workers int
}

func (*cmdRecord) Name() string     { return "record" }
func (*cmdRecord) Synopsis() string { return "Record a capture of a synthetic frame loop." }
func (*cmdRecord) Usage() string {
	return "record [flags]\n\nRun a simulated game loop under the profiler and write the capture.\n\n"
}

func (cmd *cmdRecord) SetFlags(f *flag.FlagSet) {
	f.StringVar(&cmd.out, "o", "capture.pvc", "Output file.")
	f.StringVar(&cmd.format, "format", "", "Output format, 'capture' or 'json'.")
	f.StringVar(&cmd.goTrace, "go-trace", "", "Also write a Go execution trace with one region per interval to this file.")
	f.IntVar(&cmd.frames, "frames", 3, "Number of frames to simulate.")
	f.IntVar(&cmd.workers, "workers", 2, "Number of worker threads per frame.")
}

func (cmd *cmdRecord) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if cmd.goTrace != "" {
		tf, err := os.Create(cmd.goTrace)
		if err != nil {
			log.Print(err)
			return subcommands.ExitFailure
		}
		defer tf.Close()
		if err := rtrace.Start(tf); err != nil {
			log.Printf("couldn't start Go execution trace: %s", err)
			return subcommands.ExitFailure
		}
	}

	rec := profiler.NewRecorder()
	rec.BeginCapture()
	start := time.Now()
	simulate(ctx, rec, cmd.frames, cmd.workers)
	rec.EndCapture()
	if cmd.goTrace != "" {
		rtrace.Stop()
	}
	log.Printf("simulated %d frames in %s", cmd.frames, time.Since(start).Round(time.Microsecond))

	if err := writeCapture(cmd.out, cmd.format, rec.Capture()); err != nil {
		log.Print(err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// spin burns CPU for d, so that recorded intervals have realistic, non-zero durations.
func spin(d time.Duration) {
	for t := time.Now(); time.Since(t) < d; {
	}
}

// simulate runs a frame loop. Thread 0 is the main thread; workers use threads 1 through workers.
func simulate(ctx context.Context, rec *profiler.Recorder, frames, workers int) {
	span := func(name string, tid int64, fn func()) {
		defer rec.TimesliceOnThread(name, tid)()
		rtrace.WithRegion(ctx, name, fn)
	}

	for i := 0; i < frames; i++ {
		span("frame", 0, func() {
			rec.Mark("vsync")
			span("input", 0, func() { spin(50 * time.Microsecond) })
			span("update", 0, func() {
				spin(100 * time.Microsecond)
				span("physics", 0, func() { spin(300 * time.Microsecond) })
				span("animation", 0, func() { spin(150 * time.Microsecond) })
			})

			var wg sync.WaitGroup
			for w := 1; w <= workers; w++ {
				wg.Add(1)
				go func(tid int64) {
					defer wg.Done()
					span(fmt.Sprintf("cull %d", tid), tid, func() { spin(200 * time.Microsecond) })
				}(int64(w))
			}
			wg.Wait()

			span("render", 0, func() {
				span("terrain", 0, func() { spin(400 * time.Microsecond) })
				span("overlay", 0, func() { spin(100 * time.Microsecond) })
			})
		})
	}
}
