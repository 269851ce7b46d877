package traceview

import (
	stdcolor "image/color"

	"honnef.co/go/profview/color"
)

// DefaultColors is the table Palette draws from when none is specified: 24 hues of equal lightness in Oklch, so no
// bar appears more prominent than another.
var DefaultColors = color.RainbowNRGBA(24, 0.72, 0.14, 0, 360)

// FallbackColor is used once all entries of a palette's table are in use.
var FallbackColor = stdcolor.NRGBA{0xFF, 0xFF, 0xFF, 0xFF}

// Palette assigns colors to IDs in the order they are first seen.
type Palette struct {
	table    []stdcolor.NRGBA
	assigned map[uint64]stdcolor.NRGBA
}

// NewPalette returns a palette drawing from table. A nil table means DefaultColors.
func NewPalette(table []stdcolor.NRGBA) *Palette {
	if table == nil {
		table = DefaultColors
	}
	return &Palette{
		table:    table,
		assigned: map[uint64]stdcolor.NRGBA{},
	}
}

// Color returns id's color, assigning the next unused one if id hasn't been seen since the last Reset.
func (p *Palette) Color(id uint64) stdcolor.NRGBA {
	if c, ok := p.assigned[id]; ok {
		return c
	}
	c := FallbackColor
	if n := len(p.assigned); n < len(p.table) {
		c = p.table[n]
	}
	p.assigned[id] = c
	return c
}

func (p *Palette) Len() int { return len(p.assigned) }

func (p *Palette) Reset() {
	clear(p.assigned)
}
