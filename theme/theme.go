// Package theme draws traceview draw lists with Gio.
package theme

import (
	"image/color"

	"gioui.org/font"
	"gioui.org/text"
	"gioui.org/unit"
)

type Theme struct {
	Shaper   *text.Shaper
	Palette  Palette
	TextSize unit.Sp
}

type Palette struct {
	// Color of the window behind the timeline panel.
	Background color.NRGBA
}

var DefaultPalette = Palette{
	Background: rgba(0x202020FF),
}

func NewTheme(fontCollection []font.FontFace) *Theme {
	return &Theme{
		Palette:  DefaultPalette,
		Shaper:   text.NewShaper(fontCollection),
		TextSize: 12,
	}
}

func rgba(c uint32) color.NRGBA {
	return color.NRGBA{
		A: uint8(c & 0xFF),
		B: uint8(c >> 8 & 0xFF),
		G: uint8(c >> 16 & 0xFF),
		R: uint8(c >> 24 & 0xFF),
	}
}
