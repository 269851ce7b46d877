package main

import (
	"context"
	"flag"
	"log"
	"os"

	"honnef.co/go/profview/raster"

	"github.com/dustin/go-humanize"
	"github.com/google/subcommands"
)

type cmdSnapshot struct {
	opts viewOptions
	out  string
	sel  int
	panX float64
	zoom float64
}

func (*cmdSnapshot) Name() string     { return "snapshot" }
func (*cmdSnapshot) Synopsis() string { return "Render a capture to a PNG image." }
func (*cmdSnapshot) Usage() string {
	return "snapshot [flags] <capture>\n\nRender the timeline of a capture to a PNG image.\n\n"
}

func (cmd *cmdSnapshot) SetFlags(f *flag.FlagSet) {
	cmd.opts.register(f)
	f.StringVar(&cmd.out, "o", "timeline.png", "Output file.")
	f.IntVar(&cmd.sel, "select", -1, "Index of the interval to describe.")
	f.Float64Var(&cmd.panX, "pan", 0, "Horizontal pan, in pixels.")
	f.Float64Var(&cmd.zoom, "zoom", 1, "Horizontal zoom factor.")
}

func (cmd *cmdSnapshot) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	v, err := cmd.opts.openView(f.Arg(0))
	if err != nil {
		log.Print(err)
		return subcommands.ExitFailure
	}
	v.State.PanX = float32(cmd.panX)
	v.State.Zoom = float32(cmd.zoom)
	if cmd.sel >= 0 {
		v.Select(cmd.sel)
		if !v.State.Selected.Set() {
			log.Printf("there is no interval %d; the capture has %d", cmd.sel, len(v.Intervals()))
		}
	}

	r, err := raster.New(cmd.opts.width, cmd.opts.height)
	if err != nil {
		log.Print(err)
		return subcommands.ExitFailure
	}
	out, err := os.Create(cmd.out)
	if err != nil {
		log.Print(err)
		return subcommands.ExitFailure
	}
	if err := r.WritePNG(out, v.Emit()); err != nil {
		out.Close()
		log.Printf("couldn't render %s: %s", cmd.out, err)
		return subcommands.ExitFailure
	}
	fi, statErr := out.Stat()
	if err := out.Close(); err != nil {
		log.Print(err)
		return subcommands.ExitFailure
	}
	if statErr == nil {
		log.Printf("wrote %s (%s)", cmd.out, humanize.Bytes(uint64(fi.Size())))
	}
	return subcommands.ExitSuccess
}
