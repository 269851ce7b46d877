package traceview

type Button uint8

const (
	ButtonPrimary Button = iota
	ButtonSecondary
	ButtonTertiary
)

type Key uint8

const (
	KeyZoomIn Key = iota + 1
	KeyZoomOut
)

// Input is the state of the pointer and keyboard for a single frame.
type Input interface {
	// PointerPressed reports whether b went down during the frame.
	PointerPressed(b Button) bool
	// PointerReleased reports whether b went up during the frame.
	PointerReleased(b Button) bool
	// PointerDelta returns how far the pointer moved during the frame.
	PointerDelta() Point
	PointerPosition() Point
	// KeyReleased reports whether k was released during the frame.
	KeyReleased(k Key) bool
}

type HitID uint32

// HitTester collects clickable areas and answers which one is on top at a given point.
type HitTester interface {
	AddHitArea(r Rect, id HitID)
	HitAt(p Point) (HitID, bool)
}

const (
	intervalHitMask HitID = 0xFEDC0000
	intervalHitBits HitID = 0xFFFF
)

// IntervalHitID returns the hit ID under which the bar of interval i is registered. Only the low 16 bits of i are
// representable.
func IntervalHitID(i int) HitID {
	return intervalHitMask | HitID(i)&intervalHitBits
}

// IntervalFromHit returns the interval index encoded in id, if id was produced by IntervalHitID.
func IntervalFromHit(id HitID) (int, bool) {
	if id&^intervalHitBits != intervalHitMask {
		return 0, false
	}
	return int(id & intervalHitBits), true
}

type hitArea struct {
	rect Rect
	id   HitID
}

// HitMap is a HitTester that considers the most recently added area to be on top.
type HitMap struct {
	areas []hitArea
}

func (m *HitMap) AddHitArea(r Rect, id HitID) {
	m.areas = append(m.areas, hitArea{r, id})
}

func (m *HitMap) HitAt(p Point) (HitID, bool) {
	for i := len(m.areas) - 1; i >= 0; i-- {
		if m.areas[i].rect.Contains(p) {
			return m.areas[i].id, true
		}
	}
	return 0, false
}

func (m *HitMap) Len() int { return len(m.areas) }

// Reset removes all areas. Call it once per frame, before areas are registered again.
func (m *HitMap) Reset() {
	m.areas = m.areas[:0]
}
