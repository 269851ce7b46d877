package color

import (
	"image/color"
	"testing"
)

func TestExtremes(t *testing.T) {
	if got := (Oklch{L: 1, A: 1}).NRGBA(); got != (color.NRGBA{255, 255, 255, 255}) {
		t.Errorf("white=%v, want opaque white", got)
	}
	if got := (Oklch{L: 0, A: 1}).NRGBA(); got != (color.NRGBA{0, 0, 0, 255}) {
		t.Errorf("black=%v, want opaque black", got)
	}
}

func TestRoundTrip(t *testing.T) {
	for _, c := range []color.NRGBA{
		{0x44, 0x88, 0x44, 0xFF},
		{0xBA, 0x41, 0x41, 0xFF},
		{0x4B, 0xAC, 0xB8, 0xFF},
		{0x10, 0x20, 0x30, 0x80},
	} {
		got := FromNRGBA(c).NRGBA()
		if diff(got.R, c.R) > 1 || diff(got.G, c.G) > 1 || diff(got.B, c.B) > 1 || diff(got.A, c.A) > 1 {
			t.Errorf("round trip of %v produced %v", c, got)
		}
	}
}

func TestGamutMapping(t *testing.T) {
	// Far outside of sRGB
	c := Oklch{L: 0.7, C: 0.5, H: 150, A: 1}
	s := c.MapToSRGBGamut()
	for _, v := range []float32{s.R, s.G, s.B} {
		if v < -0.001 || v > 1.001 {
			t.Fatalf("mapped color %v is out of gamut", s)
		}
	}
}

func TestRainbowDistinct(t *testing.T) {
	for _, n := range []int{1, 2, 7, 16} {
		pal := RainbowNRGBA(n, 0.75, 0.12, 0, 360)
		if len(pal) != n {
			t.Fatalf("len(Rainbow(%d))=%d", n, len(pal))
		}
		seen := map[color.NRGBA]int{}
		for i, c := range pal {
			if j, ok := seen[c]; ok {
				t.Errorf("n=%d: entries %d and %d are both %v", n, j, i, c)
			}
			seen[c] = i
			if c.A != 0xFF {
				t.Errorf("n=%d: entry %d is not opaque: %v", n, i, c)
			}
		}
	}
	if Rainbow(0, 0.5, 0.1, 0, 360) != nil {
		t.Error("Rainbow(0) returned colors")
	}
}

func diff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
