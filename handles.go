package flowsketch

import "math"

// HandleKind tags the role of an interaction control point.
type HandleKind int

const (
	// HandleScale is one of the eight resize handles on the bounding rect.
	HandleScale HandleKind = iota
	// HandleRotate sits above the shape and drives rotation.
	HandleRotate
	// HandleTrigger is a plus-glyph region that spawns a connector when
	// pressed. Offered only by connection targets.
	HandleTrigger
	// HandleAnchor is a logical connection point at an edge midpoint. It
	// is hit-tested during snapping but never drawn.
	HandleAnchor
)

// Scale handle position codes, also the handle's index in the list.
const (
	handleTopLeft = iota
	handleTopMiddle
	handleTopRight
	handleMiddleLeft
	handleMiddleRight
	handleBottomLeft
	handleBottomMiddle
	handleBottomRight
	handleRotateCode
	triggerTop
	triggerBottom
	triggerLeft
	triggerRight
)

// Handle is a transient, computed control point. Handles are derived
// from the shape's current geometry on every query, never stored.
type Handle struct {
	Rect      Rect
	Kind      HandleKind
	Direction int
}

// Center returns the handle's center point.
func (h Handle) Center() Point { return h.Rect.Center() }

// Handles computes the shape's interaction handles in a fixed order:
// eight scale handles (codes 0-7), the rotate handle (8), then four
// arrow-trigger handles (9-12) when the shape accepts connections.
// Every position is rotated about the rect center by the shape's
// rotation before placement.
func (s *Shape) Handles() []Handle {
	if s.kind == KindArrow {
		// Arrows expose only their two endpoints.
		return []Handle{
			{Rect: RectAround(s.p1, scaleHandleSize), Kind: HandleScale, Direction: 0},
			{Rect: RectAround(s.p2, scaleHandleSize), Kind: HandleScale, Direction: 1},
		}
	}

	r := s.rect
	center := r.Center()
	rot := func(p Point) Point { return p.RotateAround(center, s.rotation) }

	scalePoints := []Point{
		{X: r.Left(), Y: r.Top()},
		{X: r.X + r.Width/2, Y: r.Top()},
		{X: r.Right(), Y: r.Top()},
		{X: r.Left(), Y: r.Y + r.Height/2},
		{X: r.Right(), Y: r.Y + r.Height/2},
		{X: r.Left(), Y: r.Bottom()},
		{X: r.X + r.Width/2, Y: r.Bottom()},
		{X: r.Right(), Y: r.Bottom()},
	}

	handles := make([]Handle, 0, 13)
	for code, p := range scalePoints {
		handles = append(handles, Handle{
			Rect:      RectAround(rot(p), scaleHandleSize),
			Kind:      HandleScale,
			Direction: code,
		})
	}

	rotatePos := rot(Point{X: center.X, Y: r.Top() - rotateOffset})
	handles = append(handles, Handle{
		Rect:      RectAround(rotatePos, rotateHandleSize),
		Kind:      HandleRotate,
		Direction: handleRotateCode,
	})

	if s.ConnectionTarget() {
		// Trigger centers sit triggerOffset past the edge, pulled back by
		// half the hit region so the region's outer edge lands on the offset.
		d := triggerOffset - triggerSize/2
		triggerPoints := []Point{
			{X: center.X, Y: r.Top() - d},
			{X: center.X, Y: r.Bottom() + d},
			{X: r.Left() - d, Y: center.Y},
			{X: r.Right() + d, Y: center.Y},
		}
		for i, p := range triggerPoints {
			handles = append(handles, Handle{
				Rect:      RectAround(rot(p), triggerSize),
				Kind:      HandleTrigger,
				Direction: triggerTop + i,
			})
		}
	}
	return handles
}

// Anchors computes the connection anchors: four points exactly at the
// edge midpoints, rotated with the shape. Order: top, bottom, left,
// right — mirroring the trigger handles. Arrows have none.
func (s *Shape) Anchors() []Handle {
	if !s.ConnectionTarget() {
		return nil
	}
	r := s.rect
	center := r.Center()
	points := []Point{
		{X: center.X, Y: r.Top()},
		{X: center.X, Y: r.Bottom()},
		{X: r.Left(), Y: center.Y},
		{X: r.Right(), Y: center.Y},
	}
	anchors := make([]Handle, len(points))
	for i, p := range points {
		anchors[i] = Handle{
			Rect:      RectAround(p.RotateAround(center, s.rotation), anchorSize),
			Kind:      HandleAnchor,
			Direction: i,
		}
	}
	return anchors
}

// AnchorForTrigger maps a trigger handle's direction code to the index
// of the anchor on the same edge, or -1 for non-trigger codes.
func AnchorForTrigger(direction int) int {
	if direction < triggerTop || direction > triggerRight {
		return -1
	}
	return direction - triggerTop
}

// HandleAt returns the index of the first handle containing the point,
// or -1 when none does.
func (s *Shape) HandleAt(p Point) int {
	for i, h := range s.Handles() {
		if h.Rect.Contains(p) {
			return i
		}
	}
	return -1
}

// applyHandleDrag advances a rotate or scale gesture by the pointer's
// movement from last to pos. Returns false when nothing changed.
func (s *Shape) applyHandleDrag(pos, last Point) bool {
	if s.selectedHandle == -1 {
		return false
	}
	handles := s.Handles()
	if s.selectedHandle >= len(handles) {
		return false
	}
	h := handles[s.selectedHandle]

	if h.Kind == HandleRotate {
		center := s.rect.Center()
		lastAngle := math.Atan2(last.Y-center.Y, last.X-center.X)
		currentAngle := math.Atan2(pos.Y-center.Y, pos.X-center.X)
		s.Rotate(currentAngle - lastAngle)
		return true
	}
	if h.Kind != HandleScale {
		return false
	}

	newRect, ok := resizeRect(s.rect, h.Direction, pos.Sub(last))
	if !ok {
		return false
	}
	s.SetRect(newRect)
	return true
}

// resizeRect adjusts the edge(s) matching a scale handle code by delta.
// A result narrower or shorter than minShapeSize is rejected and the
// original rect reported back unchanged.
func resizeRect(r Rect, code int, delta Point) (Rect, bool) {
	left := r.Left()
	top := r.Top()
	right := r.Right()
	bottom := r.Bottom()

	switch code {
	case handleTopLeft:
		left += delta.X
		top += delta.Y
	case handleTopMiddle:
		top += delta.Y
	case handleTopRight:
		right += delta.X
		top += delta.Y
	case handleMiddleLeft:
		left += delta.X
	case handleMiddleRight:
		right += delta.X
	case handleBottomLeft:
		left += delta.X
		bottom += delta.Y
	case handleBottomMiddle:
		bottom += delta.Y
	case handleBottomRight:
		right += delta.X
		bottom += delta.Y
	default:
		return r, false
	}

	if right-left < minShapeSize || bottom-top < minShapeSize {
		return r, false
	}
	return Rect{X: left, Y: top, Width: right - left, Height: bottom - top}, true
}
