package flowsketch

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func pointsClose(a, b Point) bool {
	return almostEqual(a.X, b.X) && almostEqual(a.Y, b.Y)
}

func TestRotateAround(t *testing.T) {
	center := Pt(10, 10)
	p := Pt(20, 10)

	got := p.RotateAround(center, math.Pi/2)
	if !pointsClose(got, Pt(10, 20)) {
		t.Errorf("quarter turn: got %v, want (10,20)", got)
	}

	got = p.RotateAround(center, math.Pi)
	if !pointsClose(got, Pt(0, 10)) {
		t.Errorf("half turn: got %v, want (0,10)", got)
	}

	// Rotating back recovers the original point.
	back := got.RotateAround(center, -math.Pi)
	if !pointsClose(back, p) {
		t.Errorf("round trip: got %v, want %v", back, p)
	}
}

func TestRectEdges(t *testing.T) {
	r := NewRect(10, 20, 30, 40)
	if r.Left() != 10 || r.Right() != 40 || r.Top() != 20 || r.Bottom() != 60 {
		t.Errorf("edges: got %g %g %g %g", r.Left(), r.Right(), r.Top(), r.Bottom())
	}
	if c := r.Center(); !pointsClose(c, Pt(25, 40)) {
		t.Errorf("center: got %v", c)
	}
	if !r.Contains(Pt(10, 20)) || !r.Contains(Pt(40, 60)) {
		t.Error("rect should contain its own corners")
	}
	if r.Contains(Pt(9.9, 20)) {
		t.Error("rect should not contain a point left of it")
	}
}

func TestRectAround(t *testing.T) {
	r := RectAround(Pt(50, 50), 8)
	if r.X != 46 || r.Y != 46 || r.Width != 8 || r.Height != 8 {
		t.Errorf("got %+v, want 8-square centered on (50,50)", r)
	}
}

func TestDistanceToSegment(t *testing.T) {
	a, b := Pt(0, 0), Pt(10, 0)

	if d := distanceToSegment(Pt(5, 3), a, b); !almostEqual(d, 3) {
		t.Errorf("perpendicular: got %g, want 3", d)
	}
	if d := distanceToSegment(Pt(-4, 0), a, b); !almostEqual(d, 4) {
		t.Errorf("beyond start: got %g, want 4", d)
	}
	if d := distanceToSegment(Pt(13, 4), a, b); !almostEqual(d, 5) {
		t.Errorf("beyond end: got %g, want 5", d)
	}
	// Degenerate segment collapses to point distance.
	if d := distanceToSegment(Pt(3, 4), a, a); !almostEqual(d, 5) {
		t.Errorf("degenerate: got %g, want 5", d)
	}
}

func TestPointInPolygon(t *testing.T) {
	diamond := []Point{{X: 5, Y: 0}, {X: 10, Y: 5}, {X: 5, Y: 10}, {X: 0, Y: 5}}

	if !pointInPolygon(Pt(5, 5), diamond) {
		t.Error("center should be inside")
	}
	if pointInPolygon(Pt(1, 1), diamond) {
		t.Error("corner of bounding box should be outside the diamond")
	}
	if pointInPolygon(Pt(11, 5), diamond) {
		t.Error("point right of the polygon should be outside")
	}
}
