package traceview

type Point struct {
	X, Y float32
}

func Pt(x, y float32) Point { return Point{x, y} }

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Rect is an axis-aligned rectangle. Min is inclusive, Max is exclusive.
type Rect struct {
	Min, Max Point
}

func (r Rect) Dx() float32 { return r.Max.X - r.Min.X }
func (r Rect) Dy() float32 { return r.Max.Y - r.Min.Y }

func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X < r.Max.X &&
		p.Y >= r.Min.Y && p.Y < r.Max.Y
}

// Transform maps timeline coordinates to screen coordinates. Only the X axis is scaled.
type Transform struct {
	Offset Point
	ScaleX float32
}

func (t Transform) Apply(p Point) Point {
	return Point{t.Offset.X + p.X*t.ScaleX, t.Offset.Y + p.Y}
}

func (t Transform) ApplyRect(r Rect) Rect {
	return Rect{Min: t.Apply(r.Min), Max: t.Apply(r.Max)}
}

// Invert maps a screen coordinate back to timeline coordinates. The transform must have a non-zero scale.
func (t Transform) Invert(p Point) Point {
	return Point{(p.X - t.Offset.X) / t.ScaleX, p.Y - t.Offset.Y}
}
