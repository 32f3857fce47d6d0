package flowsketch

import (
	"math"
	"testing"
)

func TestContainsByKind(t *testing.T) {
	r := NewRect(0, 0, 100, 100)
	tests := []struct {
		kind    Kind
		point   Point
		contain bool
	}{
		{KindRect, Pt(50, 50), true},
		{KindRect, Pt(101, 50), false},
		{KindEllipse, Pt(50, 50), true},
		{KindEllipse, Pt(3, 3), false}, // inside rect, outside ellipse
		{KindDiamond, Pt(50, 50), true},
		{KindDiamond, Pt(5, 5), false},
		{KindTriangle, Pt(50, 90), true},
		{KindTriangle, Pt(5, 5), false}, // above the left slope
		{KindPentagon, Pt(50, 50), true},
		{KindPentagon, Pt(2, 98), false},
	}
	for _, tt := range tests {
		s := NewShape(tt.kind, r)
		if got := s.Contains(tt.point); got != tt.contain {
			t.Errorf("%v.Contains(%v) = %v, want %v", tt.kind, tt.point, got, tt.contain)
		}
	}
}

func TestContainsRotated(t *testing.T) {
	s := NewShape(KindRect, NewRect(0, 0, 100, 20))
	s.Rotate(math.Pi / 2)

	// After a quarter turn about (50,10) the long axis is vertical.
	if !s.Contains(Pt(50, 55)) {
		t.Error("point on the rotated long axis should be inside")
	}
	if s.Contains(Pt(95, 10)) {
		t.Error("point on the unrotated long axis should now be outside")
	}
}

func TestArrowContains(t *testing.T) {
	a := NewArrow(Pt(0, 0), Pt(100, 0))
	if !a.Contains(Pt(50, 4)) {
		t.Error("point within tolerance of the line should hit")
	}
	if a.Contains(Pt(50, 8)) {
		t.Error("point beyond tolerance should miss")
	}
}

func TestArrowGeometry(t *testing.T) {
	a := NewArrow(Pt(10, 40), Pt(110, 20))

	br := a.BoundingRect()
	if br.X != 10 || br.Y != 20 || br.Width != 100 || br.Height != 20 {
		t.Errorf("bounding rect: got %+v", br)
	}

	a.MoveBy(Pt(5, 5))
	p1, p2 := a.Line()
	if !pointsClose(p1, Pt(15, 45)) || !pointsClose(p2, Pt(115, 25)) {
		t.Errorf("move: got %v %v", p1, p2)
	}

	a.SetRect(NewRect(0, 0, 50, 50))
	p1, p2 = a.Line()
	if !pointsClose(p1, Pt(0, 0)) || !pointsClose(p2, Pt(50, 50)) {
		t.Errorf("set rect: got %v %v", p1, p2)
	}
}

func TestCapabilities(t *testing.T) {
	box := NewShape(KindRect, NewRect(0, 0, 10, 10))
	arrow := NewArrow(Pt(0, 0), Pt(10, 10))

	if !box.ConnectionTarget() || box.Connector() || !box.TextEditable() {
		t.Error("rect capabilities wrong")
	}
	if arrow.ConnectionTarget() || !arrow.Connector() || arrow.TextEditable() {
		t.Error("arrow capabilities wrong")
	}
}

func TestCloneKeepsIDDropsTransients(t *testing.T) {
	s := NewShape(KindEllipse, NewRect(0, 0, 10, 10))
	s.id = 42
	s.setSelectedHandle(3)
	s.SetEditing(true)

	c := s.Clone()
	if c.ID() != 42 {
		t.Errorf("clone ID = %d, want 42", c.ID())
	}
	if c.HandleSelected() || c.Editing() {
		t.Error("clone should not carry interaction state")
	}

	// Clones are independent.
	c.MoveBy(Pt(100, 0))
	if s.BoundingRect().X != 0 {
		t.Error("moving the clone moved the original")
	}
}

func TestKindNames(t *testing.T) {
	for kind, name := range kindNames {
		if kindsByName[name] != kind {
			t.Errorf("name %q does not round-trip", name)
		}
	}
	if Kind(99).String() != "unknown" {
		t.Error("out-of-range kind should stringify as unknown")
	}
}
