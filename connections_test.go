package flowsketch

import (
	"math"
	"testing"
)

// buildConnectedPair runs the full trigger-to-anchor gesture between
// two rectangles, leaving an arrow bound at both ends.
func buildConnectedPair(t *testing.T) (*Canvas, *Shape, *Shape, *Shape) {
	t.Helper()
	c := NewCanvas()
	r1 := c.AddShape(KindRect, NewRect(0, 0, 80, 60))
	r2 := c.AddShape(KindRect, NewRect(200, 0, 80, 60))

	// Select R1, then drag from its right trigger handle to R2's left
	// anchor. 195 is within the snap radius of the anchor at (200,30).
	c.PressAt(Pt(40, 30))
	c.ReleaseAt(Pt(40, 30))
	c.PressAt(Pt(98, 30))
	c.MoveTo(Pt(150, 30))
	c.MoveTo(Pt(195, 30))
	c.ReleaseAt(Pt(195, 30))

	arrow := c.Selected()
	if arrow == nil || !arrow.Connector() {
		t.Fatal("trigger drag did not leave an arrow selected")
	}
	return c, r1, r2, arrow
}

func TestDragToConnectScenario(t *testing.T) {
	c, r1, r2, arrow := buildConnectedPair(t)

	if c.ShapeCount() != 3 {
		t.Fatalf("shape count = %d, want 3", c.ShapeCount())
	}
	p1, p2 := arrow.Line()
	if !pointsClose(p1, Pt(80, 30)) {
		t.Errorf("arrow start = %v, want R1's right anchor (80,30)", p1)
	}
	if !pointsClose(p2, Pt(200, 30)) {
		t.Errorf("arrow end = %v, want R2's left anchor (200,30)", p2)
	}

	conns := c.Connections()
	if len(conns) != 2 {
		t.Fatalf("connection count = %d, want 2", len(conns))
	}
	for _, conn := range conns {
		if conn.ArrowID != arrow.ID() {
			t.Errorf("connection references arrow %d, want %d", conn.ArrowID, arrow.ID())
		}
		if conn.AtStart && (conn.ShapeID != r1.ID() || conn.AnchorIndex != 3) {
			t.Errorf("start connection = %+v, want R1 anchor 3", conn)
		}
		if !conn.AtStart && (conn.ShapeID != r2.ID() || conn.AnchorIndex != 2) {
			t.Errorf("end connection = %+v, want R2 anchor 2", conn)
		}
	}

	// Delete R1: its connection goes, the arrow stays.
	c.DeleteShape(r1.ID())
	if c.ShapeCount() != 2 {
		t.Fatalf("after delete: %d shapes, want 2", c.ShapeCount())
	}
	conns = c.Connections()
	if len(conns) != 1 || conns[0].AtStart {
		t.Fatalf("after delete: connections %+v, want end connection only", conns)
	}

	// Undo restores R1 at its original index with its connection.
	c.Undo()
	if c.ShapeCount() != 3 {
		t.Fatalf("after undo: %d shapes", c.ShapeCount())
	}
	if c.Shapes()[0].ID() != r1.ID() {
		t.Errorf("restored shape at index %d", c.indexByID(r1.ID()))
	}
	if len(c.Connections()) != 2 {
		t.Errorf("after undo: %d connections, want 2", len(c.Connections()))
	}
}

func TestEndpointsFollowMovedShape(t *testing.T) {
	c, _, r2, arrow := buildConnectedPair(t)

	// Drag R2 by (50,40); the arrow end must land on the recomputed
	// anchor, not merely offset by the pointer delta.
	c.PressAt(Pt(240, 30))
	c.MoveTo(Pt(290, 70))
	c.ReleaseAt(Pt(290, 70))

	want := r2.Anchors()[2].Center()
	if !pointsClose(want, Pt(250, 70)) {
		t.Fatalf("anchor moved to %v, expected (250,70)", want)
	}
	_, p2 := arrow.Line()
	if !pointsClose(p2, want) {
		t.Errorf("arrow end = %v, want %v", p2, want)
	}
}

func TestEndpointsFollowRotatedShape(t *testing.T) {
	c, _, r2, arrow := buildConnectedPair(t)

	// Re-select R2 and swing its rotate handle a quarter turn.
	c.PressAt(Pt(240, 30))
	c.ReleaseAt(Pt(240, 30))
	c.PressAt(Pt(240, -30)) // rotate handle, 30 above the top edge
	c.MoveTo(Pt(300, 30))
	c.ReleaseAt(Pt(300, 30))

	if !almostEqual(r2.Rotation(), math.Pi/2) {
		t.Fatalf("rotation = %g, want pi/2", r2.Rotation())
	}
	want := r2.Anchors()[2].Center()
	_, p2 := arrow.Line()
	if !pointsClose(p2, want) {
		t.Errorf("arrow end = %v, want rotated anchor %v", p2, want)
	}
}

func TestSnapExcludesOtherEndpointAnchor(t *testing.T) {
	c := NewCanvas()
	r1 := c.AddShape(KindRect, NewRect(0, 0, 80, 60))

	arrow := NewArrow(Pt(80, 30), Pt(82, 32))
	arrow.id = c.allocID()
	c.shapes = append(c.shapes, arrow)

	// The end point hovers near R1's right anchor, but that anchor is
	// exactly where the start point already sits.
	res := c.findSnapAnchor(Pt(82, 32), arrow, false)
	if res.found {
		t.Errorf("snapped to the other endpoint's anchor: %+v", res)
	}

	// Any other anchor of R1 is fair game.
	res = c.findSnapAnchor(Pt(42, 2), arrow, false)
	if !res.found || res.shapeID != r1.ID() || res.anchorIndex != 0 {
		t.Errorf("top anchor snap: %+v", res)
	}
}

func TestSnapRadiusScalesWithZoom(t *testing.T) {
	c := NewCanvas()
	c.AddShape(KindRect, NewRect(0, 0, 80, 60))
	arrow := NewArrow(Pt(300, 300), Pt(310, 310))
	arrow.id = c.allocID()
	c.shapes = append(c.shapes, arrow)

	// 9 units from the top anchor (40,0): inside at zoom 1.
	if res := c.findSnapAnchor(Pt(44, 5), arrow, true); !res.found {
		t.Error("expected snap at zoom 1")
	}

	// At zoom 2 the effective radius halves to 5, so 9 units misses.
	c.SetZoomFactor(2)
	if res := c.findSnapAnchor(Pt(44, 5), arrow, true); res.found {
		t.Error("unexpected snap at zoom 2")
	}
}

func TestCommitReplacesExistingEndpointConnection(t *testing.T) {
	c, r1, _, arrow := buildConnectedPair(t)

	// Drag the arrow's end from R2 over to R1's bottom anchor.
	c.PressAt(Pt(200, 30)) // end point handle
	c.MoveTo(Pt(42, 62))
	c.ReleaseAt(Pt(42, 62))

	conns := c.Connections()
	if len(conns) != 2 {
		t.Fatalf("connection count = %d, want 2", len(conns))
	}
	var end *Connection
	for i := range conns {
		if !conns[i].AtStart {
			end = &conns[i]
		}
	}
	if end == nil || end.ShapeID != r1.ID() || end.AnchorIndex != 1 {
		t.Errorf("end connection = %+v, want R1 anchor 1", end)
	}
	_, p2 := arrow.Line()
	if !pointsClose(p2, Pt(40, 60)) {
		t.Errorf("arrow end = %v, want (40,60)", p2)
	}
}

func TestReleaseWithoutSnapLeavesEndpointFree(t *testing.T) {
	c, _, _, arrow := buildConnectedPair(t)

	// Drag the end far away from every anchor.
	c.PressAt(Pt(200, 30))
	c.MoveTo(Pt(400, 400))
	c.ReleaseAt(Pt(400, 400))

	_, p2 := arrow.Line()
	if !pointsClose(p2, Pt(400, 400)) {
		t.Errorf("arrow end = %v, want (400,400)", p2)
	}
	for _, conn := range c.Connections() {
		if !conn.AtStart {
			t.Errorf("stale end connection survived: %+v", conn)
		}
	}
}

func TestReconcileHealsCoincidentEndpoint(t *testing.T) {
	c := NewCanvas()
	target := c.AddShape(KindRect, NewRect(0, 0, 80, 60))

	// An arrow whose start happens to sit 3 units from the right anchor,
	// with no recorded connection at all.
	arrow := NewArrow(Pt(83, 30), Pt(300, 300)) // 3 units from (80,30)
	arrow.id = c.allocID()
	c.shapes = append(c.shapes, arrow)

	c.updateConnectedArrows(target.ID(), Point{})

	conns := c.Connections()
	if len(conns) != 1 {
		t.Fatalf("healed connections = %d, want 1", len(conns))
	}
	if conns[0].ArrowID != arrow.ID() || conns[0].ShapeID != target.ID() ||
		conns[0].AnchorIndex != 3 || !conns[0].AtStart {
		t.Errorf("healed connection = %+v", conns[0])
	}
	p1, _ := arrow.Line()
	if !pointsClose(p1, Pt(80, 30)) {
		t.Errorf("healed endpoint = %v, want (80,30)", p1)
	}
}

func TestReconcileSkipsConnectedEndpoints(t *testing.T) {
	c, r1, _, _ := buildConnectedPair(t)
	before := len(c.Connections())

	// Both endpoints already hold connections, so reconciliation must
	// not add more even though they sit exactly on anchors.
	c.updateConnectedArrows(r1.ID(), Point{})
	if got := len(c.Connections()); got != before {
		t.Errorf("reconcile changed connection count %d -> %d", before, got)
	}
}

func TestRedoRestoresDraggedArrowEndpoints(t *testing.T) {
	// The arrow's add is recorded at trigger press, before the endpoint
	// is dragged to its anchor. Redo must restore the endpoint where it
	// was committed, not where the gesture started, or the connection
	// would point at an anchor the endpoint no longer sits on.
	c, _, r2, arrow := buildConnectedPair(t)

	c.Undo()
	if c.ShapeCount() != 2 {
		t.Fatalf("after undo: %d shapes, want 2", c.ShapeCount())
	}
	if len(c.Connections()) != 0 {
		t.Fatalf("after undo: %d connections, want 0", len(c.Connections()))
	}

	c.Redo()
	restored := c.shapeByID(arrow.ID())
	if restored == nil {
		t.Fatal("redo did not restore the arrow")
	}
	p1, p2 := restored.Line()
	if !pointsClose(p1, Pt(80, 30)) {
		t.Errorf("arrow start = %v, want R1's right anchor (80,30)", p1)
	}
	if !pointsClose(p2, Pt(200, 30)) {
		t.Errorf("arrow end = %v, want R2's left anchor (200,30)", p2)
	}
	conns := c.Connections()
	if len(conns) != 2 {
		t.Fatalf("after redo: %d connections, want 2", len(conns))
	}
	for _, conn := range conns {
		if !conn.AtStart && (conn.ShapeID != r2.ID() || conn.AnchorIndex != 2) {
			t.Errorf("end connection = %+v, want R2 anchor 2", conn)
		}
	}
}
