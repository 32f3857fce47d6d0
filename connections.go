package flowsketch

// Connection binds one endpoint of one arrow to one anchor slot of a
// non-arrow shape. Connections are plain value records; validity is
// maintained procedurally as shapes mutate, not by owning references.
type Connection struct {
	ArrowID     ShapeID
	ShapeID     ShapeID
	AnchorIndex int
	AtStart     bool
}

// Connections returns a copy of the live connection records.
func (c *Canvas) Connections() []Connection {
	out := make([]Connection, len(c.connections))
	copy(out, c.connections)
	return out
}

// snapResult describes an anchor found within snapping distance of a
// dragged arrow endpoint.
type snapResult struct {
	shapeID     ShapeID
	anchorIndex int
	target      Point
	found       bool
}

// findSnapAnchor scans every connection target's anchors in enumeration
// order and returns the first whose center lies within the snap radius
// of the pointer. The anchor occupied by the arrow's other endpoint is
// excluded so an arrow cannot collapse onto a single point. There is no
// distance ranking: first within radius wins.
func (c *Canvas) findSnapAnchor(pointer Point, arrow *Shape, atStart bool) snapResult {
	radius := snapRadius / c.zoom
	other := arrow.Endpoint(!atStart)
	for _, s := range c.shapes {
		if s.id == arrow.id || !s.ConnectionTarget() {
			continue
		}
		for j, anchor := range s.Anchors() {
			target := anchor.Center()
			if target == other {
				continue
			}
			if pointer.Sub(target).ManhattanLength() <= radius {
				return snapResult{shapeID: s.id, anchorIndex: j, target: target, found: true}
			}
		}
	}
	return snapResult{}
}

// commitEndpoint finalizes an endpoint drag. The endpoint's previous
// connection is dropped either way; if an anchor is in range the
// endpoint locks to it and a new connection is recorded, otherwise the
// endpoint stays where the drag left it, unconnected.
func (c *Canvas) commitEndpoint(arrow *Shape, atStart bool, pointer Point) {
	c.removeEndpointConnection(arrow.id, atStart)
	snap := c.findSnapAnchor(pointer, arrow, atStart)
	if !snap.found {
		return
	}
	arrow.SetEndpoint(atStart, snap.target)
	c.connections = append(c.connections, Connection{
		ArrowID:     arrow.id,
		ShapeID:     snap.shapeID,
		AnchorIndex: snap.anchorIndex,
		AtStart:     atStart,
	})
	c.updateConnectedArrows(snap.shapeID, Point{})
}

// removeEndpointConnection drops the connection, if any, recorded for
// one specific arrow endpoint.
func (c *Canvas) removeEndpointConnection(arrowID ShapeID, atStart bool) {
	kept := c.connections[:0]
	for _, conn := range c.connections {
		if conn.ArrowID == arrowID && conn.AtStart == atStart {
			continue
		}
		kept = append(kept, conn)
	}
	c.connections = kept
}

// connectionsTouching returns every connection referencing the shape on
// either side. Used to stash connection state in history records.
func (c *Canvas) connectionsTouching(id ShapeID) []Connection {
	var touching []Connection
	for _, conn := range c.connections {
		if conn.ArrowID == id || conn.ShapeID == id {
			touching = append(touching, conn)
		}
	}
	return touching
}

// removeConnectionsFor drops and returns every connection referencing
// the shape as arrow or target.
func (c *Canvas) removeConnectionsFor(id ShapeID) []Connection {
	var removed []Connection
	kept := c.connections[:0]
	for _, conn := range c.connections {
		if conn.ArrowID == id || conn.ShapeID == id {
			removed = append(removed, conn)
			continue
		}
		kept = append(kept, conn)
	}
	c.connections = kept
	return removed
}

// restoreConnections re-adds previously stashed connection records.
func (c *Canvas) restoreConnections(conns []Connection) {
	c.connections = append(c.connections, conns...)
}

// hasEndpointConnection reports whether the arrow endpoint is bound to
// any shape.
func (c *Canvas) hasEndpointConnection(arrowID ShapeID, atStart bool) bool {
	for _, conn := range c.connections {
		if conn.ArrowID == arrowID && conn.AtStart == atStart {
			return true
		}
	}
	return false
}

// updateConnectedArrows re-glues every bound arrow endpoint after the
// given shape moved, resized or rotated. Endpoints are set to the
// anchor's current computed position, not nudged by the delta; the delta
// is only a fallback for connections whose anchor index no longer
// resolves. A second pass heals connections that were never recorded:
// any unbound arrow endpoint resting within reconcileRadius of one of
// the shape's anchors is adopted.
func (c *Canvas) updateConnectedArrows(shapeID ShapeID, delta Point) {
	shape := c.shapeByID(shapeID)
	if shape == nil || !shape.ConnectionTarget() {
		return
	}
	anchors := shape.Anchors()

	for _, conn := range c.connections {
		if conn.ShapeID != shapeID {
			continue
		}
		arrow := c.shapeByID(conn.ArrowID)
		if arrow == nil || !arrow.Connector() {
			continue
		}
		if conn.AnchorIndex >= 0 && conn.AnchorIndex < len(anchors) {
			arrow.SetEndpoint(conn.AtStart, anchors[conn.AnchorIndex].Center())
		} else {
			arrow.SetEndpoint(conn.AtStart, arrow.Endpoint(conn.AtStart).Add(delta))
		}
	}

	for _, arrow := range c.shapes {
		if !arrow.Connector() || arrow.id == shapeID {
			continue
		}
		for _, atStart := range [2]bool{true, false} {
			if c.hasEndpointConnection(arrow.id, atStart) {
				continue
			}
			p := arrow.Endpoint(atStart)
			for j, anchor := range anchors {
				target := anchor.Center()
				if p.Sub(target).ManhattanLength() <= reconcileRadius {
					c.connections = append(c.connections, Connection{
						ArrowID:     arrow.id,
						ShapeID:     shapeID,
						AnchorIndex: j,
						AtStart:     atStart,
					})
					arrow.SetEndpoint(atStart, target)
					break
				}
			}
		}
	}
}
