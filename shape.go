package flowsketch

import "math"

// Kind enumerates the closed set of shape variants.
type Kind int

const (
	KindRect Kind = iota
	KindRoundedRect
	KindEllipse
	KindTriangle
	KindPentagon
	KindDiamond
	KindArrow
)

var kindNames = map[Kind]string{
	KindRect:        "rect",
	KindRoundedRect: "roundedrect",
	KindEllipse:     "ellipse",
	KindTriangle:    "triangle",
	KindPentagon:    "pentagon",
	KindDiamond:     "diamond",
	KindArrow:       "arrow",
}

var kindsByName = map[string]Kind{}

func init() {
	for k, name := range kindNames {
		kindsByName[name] = k
	}
}

// String returns the document-format discriminator for the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ShapeID is an opaque identifier issued at creation time. Unlike list
// positions it never changes over a shape's lifetime, so connections,
// history records and selection all reference shapes by it.
type ShapeID int64

// NoShape is the zero ShapeID; no live shape ever carries it.
const NoShape ShapeID = 0

// arrowHitTolerance is how close a point must be to an arrow's segment
// to count as a hit.
const arrowHitTolerance = 5.0

// Shape is one geometric entity on the canvas. All variants share this
// struct; Kind selects the behavior, capability queries replace type tests.
type Shape struct {
	id       ShapeID
	kind     Kind
	rect     Rect  // bounding rect for non-arrows
	p1, p2   Point // arrow endpoints
	rotation float64
	style    Style

	selectedHandle int
	editing        bool
}

// NewShape creates a non-arrow shape covering the given rect.
// The zero ID is replaced when the shape is added to a canvas.
func NewShape(kind Kind, rect Rect) *Shape {
	return &Shape{
		kind:           kind,
		rect:           rect,
		style:          DefaultStyle(),
		selectedHandle: -1,
	}
}

// NewArrow creates an arrow from p1 to p2.
func NewArrow(p1, p2 Point) *Shape {
	return &Shape{
		kind:           KindArrow,
		p1:             p1,
		p2:             p2,
		style:          DefaultStyle(),
		selectedHandle: -1,
	}
}

// ID returns the shape's stable identifier.
func (s *Shape) ID() ShapeID { return s.id }

// Kind returns the shape's variant.
func (s *Shape) Kind() Kind { return s.kind }

// Rotation returns the accumulated rotation angle in radians.
func (s *Shape) Rotation() float64 { return s.rotation }

// Style returns the shape's visual attributes.
func (s *Shape) Style() Style { return s.style }

// SetStyle replaces the shape's visual attributes.
func (s *Shape) SetStyle(style Style) { s.style = style }

// Text returns the shape's label text.
func (s *Shape) Text() string { return s.style.Text }

// SetText replaces the shape's label text.
func (s *Shape) SetText(text string) { s.style.Text = text }

// ConnectionTarget reports whether arrows may anchor to this shape.
// Arrows are connection dependents, never targets.
func (s *Shape) ConnectionTarget() bool { return s.kind != KindArrow }

// Connector reports whether the shape is an arrow whose endpoints bind
// to other shapes' anchors.
func (s *Shape) Connector() bool { return s.kind == KindArrow }

// TextEditable reports whether a double-click opens text editing.
func (s *Shape) TextEditable() bool { return s.kind != KindArrow }

// Editing reports whether the shape is in text-edit state.
func (s *Shape) Editing() bool { return s.editing }

// SetEditing flips the text-edit state.
func (s *Shape) SetEditing(editing bool) { s.editing = editing }

// BoundingRect returns the shape's unrotated bounding rectangle. For
// arrows it is the box spanned by the two endpoints.
func (s *Shape) BoundingRect() Rect {
	if s.kind == KindArrow {
		x := math.Min(s.p1.X, s.p2.X)
		y := math.Min(s.p1.Y, s.p2.Y)
		return Rect{
			X:      x,
			Y:      y,
			Width:  math.Abs(s.p2.X - s.p1.X),
			Height: math.Abs(s.p2.Y - s.p1.Y),
		}
	}
	return s.rect
}

// Line returns the arrow endpoints. Meaningful only for KindArrow.
func (s *Shape) Line() (Point, Point) { return s.p1, s.p2 }

// Endpoint returns the start or end point of an arrow.
func (s *Shape) Endpoint(atStart bool) Point {
	if atStart {
		return s.p1
	}
	return s.p2
}

// SetEndpoint moves one endpoint of an arrow.
func (s *Shape) SetEndpoint(atStart bool, p Point) {
	if atStart {
		s.p1 = p
	} else {
		s.p2 = p
	}
}

// MoveBy translates the whole shape.
func (s *Shape) MoveBy(delta Point) {
	if s.kind == KindArrow {
		s.p1 = s.p1.Add(delta)
		s.p2 = s.p2.Add(delta)
		return
	}
	s.rect = s.rect.Translated(delta)
}

// SetRect places the shape's geometry into the given rect. Arrows span
// the rect corner to corner, everything else adopts it as bounding rect.
func (s *Shape) SetRect(rect Rect) {
	if s.kind == KindArrow {
		s.p1 = rect.TopLeft()
		s.p2 = Point{X: rect.Right(), Y: rect.Bottom()}
		return
	}
	s.rect = rect
}

// Rotate adds a delta to the accumulated rotation. The angle is
// unbounded; the trigonometry wraps it implicitly.
func (s *Shape) Rotate(delta float64) {
	s.rotation += delta
}

// Contains hit-tests a document-space point against the shape outline,
// honoring the shape's rotation.
func (s *Shape) Contains(p Point) bool {
	if s.kind == KindArrow {
		return distanceToSegment(p, s.p1, s.p2) <= arrowHitTolerance
	}
	// Undo the rotation instead of rotating the geometry.
	local := p.RotateAround(s.rect.Center(), -s.rotation)
	switch s.kind {
	case KindRect, KindRoundedRect:
		return s.rect.Contains(local)
	case KindEllipse:
		if s.rect.Width == 0 || s.rect.Height == 0 {
			return false
		}
		c := s.rect.Center()
		nx := (local.X - c.X) / (s.rect.Width / 2)
		ny := (local.Y - c.Y) / (s.rect.Height / 2)
		return nx*nx+ny*ny <= 1
	default:
		return pointInPolygon(local, s.polygon())
	}
}

// polygon derives the outline vertices for the polygonal kinds, in the
// shape's unrotated frame.
func (s *Shape) polygon() []Point {
	r := s.rect
	switch s.kind {
	case KindTriangle:
		return []Point{
			{X: r.X + r.Width/2, Y: r.Y},
			{X: r.Right(), Y: r.Bottom()},
			{X: r.X, Y: r.Bottom()},
		}
	case KindDiamond:
		return []Point{
			{X: r.X + r.Width/2, Y: r.Y},
			{X: r.Right(), Y: r.Y + r.Height/2},
			{X: r.X + r.Width/2, Y: r.Bottom()},
			{X: r.X, Y: r.Y + r.Height/2},
		}
	case KindPentagon:
		// Apex on top, inscribed in the bounding rect.
		c := r.Center()
		rx := r.Width / 2
		ry := r.Height / 2
		pts := make([]Point, 5)
		for i := 0; i < 5; i++ {
			angle := -math.Pi/2 + float64(i)*2*math.Pi/5
			pts[i] = Point{
				X: c.X + rx*math.Cos(angle),
				Y: c.Y + ry*math.Sin(angle),
			}
		}
		return pts
	default:
		return []Point{
			r.TopLeft(),
			{X: r.Right(), Y: r.Y},
			{X: r.Right(), Y: r.Bottom()},
			{X: r.X, Y: r.Bottom()},
		}
	}
}

// Clone returns a deep copy, ID included. History restores rely on the
// clone keeping its identity; paste issues a fresh ID afterwards.
func (s *Shape) Clone() *Shape {
	copy := *s
	copy.selectedHandle = -1
	copy.editing = false
	return &copy
}

// SelectedHandle returns the index of the active handle, -1 for none.
func (s *Shape) SelectedHandle() int { return s.selectedHandle }

// HandleSelected reports whether any handle is active.
func (s *Shape) HandleSelected() bool { return s.selectedHandle != -1 }

func (s *Shape) setSelectedHandle(index int) { s.selectedHandle = index }

func (s *Shape) clearHandleSelection() { s.selectedHandle = -1 }
