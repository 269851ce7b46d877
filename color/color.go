// Package color implements the Oklab color space and conversions to sRGB, which we use to build perceptually even
// palettes.
package color

import (
	"image/color"
	"math"
)

type Oklab struct {
	L     float32
	A     float32
	B     float32
	Alpha float32
}

// Oklch is the cylindrical form of Oklab. H is in degrees.
type Oklch struct {
	L float32
	C float32
	H float32
	A float32
}

type RGB struct {
	R float32
	G float32
	B float32
	A float32
}

type SRGB RGB
type LinearSRGB RGB

func (c Oklab) Oklch() Oklch {
	hue := float32(math.Atan2(float64(c.B), float64(c.A))) * (180 / math.Pi)
	if hue < 0 {
		hue += 360
	}
	return Oklch{
		L: c.L,
		C: float32(math.Hypot(float64(c.A), float64(c.B))),
		H: hue,
		A: c.Alpha,
	}
}

func (c Oklch) Oklab() Oklab {
	h := float64(c.H * (math.Pi / 180))
	return Oklab{
		L:     c.L,
		A:     c.C * float32(math.Cos(h)),
		B:     c.C * float32(math.Sin(h)),
		Alpha: c.A,
	}
}

// LinearSRGB converts from Oklab to linear sRGB without gamut mapping. Channels of out-of-gamut colors may fall
// outside [0, 1]; use Oklch.MapToSRGBGamut to avoid that.
func (c Oklab) LinearSRGB() LinearSRGB {
	l_ := c.L + 0.3963377774*c.A + 0.2158037573*c.B
	m_ := c.L - 0.1055613458*c.A - 0.0638541728*c.B
	s_ := c.L - 0.0894841775*c.A - 1.2914855480*c.B

	l := l_ * l_ * l_
	m := m_ * m_ * m_
	s := s_ * s_ * s_

	return LinearSRGB{
		R: +4.0767416621*l - 3.3077115913*m + 0.2309699292*s,
		G: -1.2684380046*l + 2.6097574011*m - 0.3413193965*s,
		B: -0.0041960863*l - 0.7034186147*m + 1.7076147010*s,
		A: c.Alpha,
	}
}

func (c LinearSRGB) Oklab() Oklab {
	r := float64(c.R)
	g := float64(c.G)
	b := float64(c.B)

	l := math.Cbrt(0.4122214708*r + 0.5363325363*g + 0.0514459929*b)
	m := math.Cbrt(0.2119034982*r + 0.6806995451*g + 0.1073969566*b)
	s := math.Cbrt(0.0883024619*r + 0.2817188376*g + 0.6299787005*b)

	return Oklab{
		L:     float32(0.2104542553*l + 0.7936177850*m - 0.0040720468*s),
		A:     float32(1.9779984951*l - 2.4285922050*m + 0.4505937099*s),
		B:     float32(0.0259040371*l + 0.7827717662*m - 0.8086757660*s),
		Alpha: c.A,
	}
}

// DeltaEOK returns the Euclidean distance between two colors in Oklab.
func DeltaEOK(reference, sample Oklab) float32 {
	dL := float64(reference.L - sample.L)
	da := float64(reference.A - sample.A)
	db := float64(reference.B - sample.B)
	return float32(math.Sqrt(dL*dL + da*da + db*db))
}

func (c LinearSRGB) inGamut() bool {
	return c.R >= 0 && c.R <= 1 &&
		c.G >= 0 && c.G <= 1 &&
		c.B >= 0 && c.B <= 1
}

func (c LinearSRGB) clamp() LinearSRGB {
	f := func(v float32) float32 { return min(max(v, 0), 1) }
	return LinearSRGB{f(c.R), f(c.G), f(c.B), c.A}
}

// MapToSRGBGamut maps c into the sRGB gamut by reducing chroma, following the CSS Color Module Level 4 algorithm.
// Colors already inside the gamut are returned unchanged.
func (c Oklch) MapToSRGBGamut() LinearSRGB {
	// just noticeable difference in Oklch
	const jnd = 0.02
	const epsilon = 0.0001

	switch {
	case c.L >= 1:
		return LinearSRGB{1, 1, 1, c.A}
	case c.L <= 0:
		return LinearSRGB{0, 0, 0, c.A}
	}

	if s := c.Oklab().LinearSRGB(); s.inGamut() {
		return s
	}

	current := c
	clipped := c.Oklab().LinearSRGB().clamp()
	if DeltaEOK(clipped.Oklab(), current.Oklab()) < jnd {
		return clipped
	}

	lo, hi := float32(0), c.C
	loInGamut := true
	for hi-lo > epsilon {
		current.C = (lo + hi) / 2
		if loInGamut && current.Oklab().LinearSRGB().inGamut() {
			lo = current.C
			continue
		}
		clipped = current.Oklab().LinearSRGB().clamp()
		e := DeltaEOK(clipped.Oklab(), current.Oklab())
		if e >= jnd {
			hi = current.C
			continue
		}
		if jnd-e < epsilon {
			return clipped
		}
		loInGamut = false
		lo = current.C
	}
	return current.Oklab().LinearSRGB()
}

func (c LinearSRGB) SRGB() SRGB {
	t := func(v float32) float32 {
		f := float64(v)
		if f >= 0.0031308 {
			return float32(1.055*math.Pow(f, 1.0/2.4) - 0.055)
		}
		return float32(12.92 * f)
	}
	return SRGB{t(c.R), t(c.G), t(c.B), c.A}
}

func (c SRGB) LinearSRGB() LinearSRGB {
	t := func(v float32) float32 {
		f := float64(v)
		if f >= 0.04045 {
			return float32(math.Pow((f+0.055)/1.055, 2.4))
		}
		return float32(f / 12.92)
	}
	return LinearSRGB{t(c.R), t(c.G), t(c.B), c.A}
}

func (c SRGB) NRGBA() color.NRGBA {
	b := func(v float32) uint8 {
		return uint8(math.Round(float64(min(max(v, 0), 1) * 255)))
	}
	return color.NRGBA{R: b(c.R), G: b(c.G), B: b(c.B), A: b(c.A)}
}

// NRGBA converts c to a non-premultiplied 8-bit sRGB color, mapping it into the sRGB gamut first.
func (c Oklch) NRGBA() color.NRGBA {
	return c.MapToSRGBGamut().SRGB().NRGBA()
}

// FromNRGBA converts an 8-bit sRGB color to Oklch.
func FromNRGBA(c color.NRGBA) Oklch {
	s := SRGB{
		R: float32(c.R) / 255,
		G: float32(c.G) / 255,
		B: float32(c.B) / 255,
		A: float32(c.A) / 255,
	}
	return s.LinearSRGB().Oklab().Oklch()
}
