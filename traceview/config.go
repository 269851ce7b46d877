package traceview

import "time"

// Config controls the layout of the timeline. All lengths are in pixels.
type Config struct {
	// Size of the whole view.
	ViewportWidth  float32
	ViewportHeight float32

	// Horizontal space reserved when scaling the capture's time range to the viewport width.
	ScaleMargin float32
	// Offset of time zero from the left edge of the panel.
	LeftMargin float32
	// Offset of the first row from the top edge of the panel.
	BaselineY float32
	// Distance between the tops of two adjacent rows.
	RowHeight float32
	// Height of a single bar. Should be smaller than RowHeight to leave a gap between rows.
	BarHeight float32
	// Inset of the panel from the edges of the viewport.
	PanelInset float32

	// Deepest nesting accepted during reconstruction.
	MaxStackDepth int

	// Duration of one timestamp tick.
	TimeUnit time.Duration

	// Multiplicative zoom steps.
	ZoomInFactor  float32
	ZoomOutFactor float32

	// Positions of the two labels describing the selected interval.
	NameLabelAt     Point
	DurationLabelAt Point
}

func DefaultConfig(width, height float32) Config {
	return Config{
		ViewportWidth:   width,
		ViewportHeight:  height,
		ScaleMargin:     70,
		LeftMargin:      5,
		BaselineY:       20,
		RowHeight:       20,
		BarHeight:       15,
		PanelInset:      30,
		MaxStackDepth:   8,
		TimeUnit:        time.Nanosecond,
		ZoomInFactor:    1.25,
		ZoomOutFactor:   0.8,
		NameLabelAt:     Point{50, 150},
		DurationLabelAt: Point{50, 165},
	}
}
