package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"honnef.co/go/profview/profiler"
	"honnef.co/go/profview/profiler/capfile"
	"honnef.co/go/profview/profiler/chrome"
	"honnef.co/go/profview/profiler/gotrace"
	"honnef.co/go/profview/traceview"

	"github.com/dustin/go-humanize"
)

type format string

const (
	formatCapfile format = "capture"
	formatGoTrace format = "Go execution trace"
	formatChrome  format = "JSON trace"
)

var errUnknownFormat = errors.New("unrecognized file format")

// decodeCapture detects the format of data and decodes it.
func decodeCapture(data []byte) (profiler.Capture, format, error) {
	switch {
	case capfile.Sniff(data):
		c, err := capfile.Decode(bytes.NewReader(data))
		return c, formatCapfile, err
	case gotrace.Sniff(data):
		c, stats, err := gotrace.Import(bytes.NewReader(data))
		if err == nil && stats.UnmatchedEnds > 0 {
			log.Printf("ignored %d region ends without beginnings", stats.UnmatchedEnds)
		}
		return c, formatGoTrace, err
	case chrome.Sniff(data):
		c, err := chrome.Import(bytes.NewReader(data))
		return c, formatChrome, err
	default:
		return profiler.Capture{}, "", errUnknownFormat
	}
}

func loadCapture(path string) (profiler.Capture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return profiler.Capture{}, err
	}
	c, f, err := decodeCapture(data)
	if err != nil {
		return profiler.Capture{}, fmt.Errorf("couldn't load %s: %w", path, err)
	}
	log.Printf("loaded %s: %s, %s, %s events", path, f, humanize.Bytes(uint64(len(data))), local.Sprintf("%d", len(c.Events)))
	return c, nil
}

const autoThread = -1

// selectThread returns the events of a single thread. With autoThread, the thread with the lowest ID is used.
func selectThread(c profiler.Capture, tid int64) (profiler.Capture, int64, error) {
	threads := c.Threads()
	if tid == autoThread {
		if len(threads) == 0 {
			return c, 0, nil
		}
		tid = threads[0]
		if len(threads) > 1 {
			log.Printf("capture contains %d threads, showing thread %d", len(threads), tid)
		}
	}
	out := c.Thread(tid)
	if len(out.Events) == 0 && len(c.Events) > 0 {
		return profiler.Capture{}, 0, fmt.Errorf("capture has no events on thread %d", tid)
	}
	return out, tid, nil
}

// viewOptions are the flags shared by all commands that lay out a capture.
type viewOptions struct {
	width, height int
	maxDepth      int
	thread        int64
}

func (opts *viewOptions) register(f *flag.FlagSet) {
	f.IntVar(&opts.width, "width", 1280, "Width of the view, in pixels.")
	f.IntVar(&opts.height, "height", 400, "Height of the view, in pixels.")
	f.IntVar(&opts.maxDepth, "max-depth", 8, "Deepest nesting accepted in the capture.")
	f.Int64Var(&opts.thread, "thread", autoThread, "Thread to display; -1 picks the first one.")
}

func (opts *viewOptions) config(c profiler.Capture) traceview.Config {
	cfg := traceview.DefaultConfig(float32(opts.width), float32(opts.height))
	cfg.MaxStackDepth = opts.maxDepth
	if c.Unit != 0 {
		cfg.TimeUnit = c.Unit
	} else {
		cfg.TimeUnit = time.Nanosecond
	}
	return cfg
}

// openView loads the capture at path and lays it out.
func (opts *viewOptions) openView(path string) (*traceview.View, error) {
	c, err := loadCapture(path)
	if err != nil {
		return nil, err
	}
	c, _, err = selectThread(c, opts.thread)
	if err != nil {
		return nil, err
	}
	v := traceview.NewView(opts.config(c))
	if err := v.Rebuild(c.Events); err != nil {
		return nil, fmt.Errorf("couldn't display %s: %w", path, err)
	}
	if n := v.Result().Unclosed; n > 0 {
		log.Printf("%d intervals were still open at the end of the capture", n)
	}
	return v, nil
}
