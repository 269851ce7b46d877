package color

import (
	"image/color"

	"honnef.co/go/stuff/math/mathutil"
)

// Rainbow returns n colors of constant lightness and chroma whose hues are spread evenly over [fromHue, toHue).
// Consecutive entries are far apart in hue so that neighboring bars stay distinguishable.
func Rainbow(n int, lightness, chroma, fromHue, toHue float32) []Oklch {
	if n <= 0 {
		return nil
	}
	out := make([]Oklch, n)
	// Walk the hue range with a stride that is coprime to n, so that entry i and i+1 are never adjacent hues.
	stride := n/2 + 1
	for stride > 1 && gcd(stride, n) != 1 {
		stride++
	}
	for i := range out {
		slot := (i * stride) % n
		h := mathutil.Lerp[float32](fromHue, toHue, float64(slot)/float64(n))
		out[i] = Oklch{L: lightness, C: chroma, H: h, A: 1}
	}
	return out
}

// RainbowNRGBA is Rainbow converted to 8-bit sRGB.
func RainbowNRGBA(n int, lightness, chroma, fromHue, toHue float32) []color.NRGBA {
	src := Rainbow(n, lightness, chroma, fromHue, toHue)
	out := make([]color.NRGBA, len(src))
	for i, c := range src {
		out[i] = c.NRGBA()
	}
	return out
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
