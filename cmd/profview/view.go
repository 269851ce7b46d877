package main

import (
	"context"
	"flag"
	"image"
	"log"
	"os"

	ourfont "honnef.co/go/profview/font"
	"honnef.co/go/profview/gesture"
	"honnef.co/go/profview/mem"
	"honnef.co/go/profview/theme"
	"honnef.co/go/profview/traceview"

	"gioui.org/app"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"github.com/google/subcommands"
)

type cmdView struct {
	opts viewOptions
}

func (*cmdView) Name() string     { return "view" }
func (*cmdView) Synopsis() string { return "Display a capture in a window." }
func (*cmdView) Usage() string {
	return "view [flags] <capture>\n\nDisplay the timeline of a capture. Drag to pan, press = and _ or the arrow keys to zoom, click a bar to describe it.\n\n"
}

func (cmd *cmdView) SetFlags(f *flag.FlagSet) {
	cmd.opts.register(f)
}

func (cmd *cmdView) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	path := f.Arg(0)
	v, err := cmd.opts.openView(path)
	if err != nil {
		log.Print(err)
		return subcommands.ExitFailure
	}

	go func() {
		w := app.NewWindow(
			app.Title("profview - "+path),
			app.Size(unit.Dp(cmd.opts.width), unit.Dp(cmd.opts.height)),
		)
		if err := runView(w, v); err != nil {
			log.Fatal(err)
		}
		os.Exit(0)
	}()
	app.Main()
	return subcommands.ExitSuccess
}

func runView(win *app.Window, v *traceview.View) error {
	th := theme.NewTheme(ourfont.Collection())
	cv := theme.NewCanvas(th)
	var (
		tracker gesture.Tracker
		hits    traceview.HitMap
		ops     mem.ReusableOps
	)

	for e := range win.Events() {
		switch ev := e.(type) {
		case system.DestroyEvent:
			return ev.Err
		case system.FrameEvent:
			gtx := layout.NewContext(ops.Get(), ev)
			gtx.Constraints.Min = image.Point{}

			// The view lays out in physical pixels.
			if err := v.Resize(float32(ev.Size.X), float32(ev.Size.Y)); err != nil {
				return err
			}

			hits.Reset()
			tracker.Update(gtx.Queue)
			v.Update(&tracker, &hits)

			paint.Fill(gtx.Ops, th.Palette.Background)
			area := clip.Rect{Max: ev.Size}.Push(gtx.Ops)
			tracker.Add(gtx.Ops)
			tracker.Focus(gtx.Ops)
			area.Pop()
			cv.Draw(gtx, v.Emit())

			ev.Frame(gtx.Ops)
		}
	}
	return nil
}
