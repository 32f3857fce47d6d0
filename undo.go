package flowsketch

import "image/color"

// action is one reversible mutation. Each action knows how to apply and
// invert itself, so Undo and Redo drive these methods directly instead
// of routing replays back through the user-action recording path — no
// suppression flag is needed.
type action interface {
	apply(c *Canvas)
	revert(c *Canvas)
}

// addAction records the insertion of a shape, together with the
// connections it carried at record time (a drag-created arrow already
// owns its provisional start connection).
type addAction struct {
	shape       *Shape
	index       int
	connections []Connection
}

func (a *addAction) apply(c *Canvas) {
	c.insertShapeAt(a.shape.Clone(), a.index)
	c.restoreConnections(a.connections)
}

func (a *addAction) revert(c *Canvas) {
	// Unrecorded mutations (rotation, text edits, arrow endpoint drags)
	// may have happened since the add was recorded, so capture the live
	// shape here: redo must bring back the shape as it last existed, not
	// as it was created.
	if live := c.shapeByID(a.shape.id); live != nil {
		a.shape = live.Clone()
	}
	a.connections = c.removeConnectionsFor(a.shape.id)
	c.removeShapeInternal(a.shape.id)
}

// removeAction records a deletion: the clone to reinsert, its original
// z-order position, and every connection that touched it.
type removeAction struct {
	shape       *Shape
	index       int
	connections []Connection
}

func (a *removeAction) apply(c *Canvas) {
	c.removeConnectionsFor(a.shape.id)
	c.removeShapeInternal(a.shape.id)
}

func (a *removeAction) revert(c *Canvas) {
	index := a.index
	if index > len(c.shapes) {
		index = len(c.shapes)
	}
	c.insertShapeAt(a.shape.Clone(), index)
	c.restoreConnections(a.connections)
}

// moveAction records a translation as its delta vector.
type moveAction struct {
	id    ShapeID
	delta Point
}

func (a *moveAction) apply(c *Canvas) { a.translate(c, a.delta) }

func (a *moveAction) revert(c *Canvas) { a.translate(c, a.delta.Neg()) }

func (a *moveAction) translate(c *Canvas, delta Point) {
	s := c.shapeByID(a.id)
	if s == nil {
		return
	}
	s.MoveBy(delta)
	c.updateConnectedArrows(a.id, delta)
}

// resizeAction records the rect before and after a resize gesture.
type resizeAction struct {
	id      ShapeID
	oldRect Rect
	newRect Rect
}

func (a *resizeAction) apply(c *Canvas) { a.set(c, a.newRect) }

func (a *resizeAction) revert(c *Canvas) { a.set(c, a.oldRect) }

func (a *resizeAction) set(c *Canvas, r Rect) {
	s := c.shapeByID(a.id)
	if s == nil {
		return
	}
	s.SetRect(r)
	c.updateConnectedArrows(a.id, Point{})
}

// propertyAction records a line color/width change as old and new pairs.
type propertyAction struct {
	id       ShapeID
	oldColor color.RGBA
	newColor color.RGBA
	oldWidth float64
	newWidth float64
}

func (a *propertyAction) apply(c *Canvas) { a.set(c, a.newColor, a.newWidth) }

func (a *propertyAction) revert(c *Canvas) { a.set(c, a.oldColor, a.oldWidth) }

func (a *propertyAction) set(c *Canvas, col color.RGBA, width float64) {
	s := c.shapeByID(a.id)
	if s == nil {
		return
	}
	style := s.Style()
	style.LineColor = col
	style.LineWidth = width
	s.SetStyle(style)
}

// record pushes a completed mutation onto the undo stack. Any new
// recorded action invalidates the redo stack: history is linear.
func (c *Canvas) record(a action) {
	c.undoStack = append(c.undoStack, a)
	c.redoStack = c.redoStack[:0]
	c.notifyHistory()
}

// CanUndo reports whether an action is available to undo.
func (c *Canvas) CanUndo() bool { return len(c.undoStack) > 0 }

// CanRedo reports whether an action is available to redo.
func (c *Canvas) CanRedo() bool { return len(c.redoStack) > 0 }

// Undo reverses the most recent action and moves it to the redo stack.
func (c *Canvas) Undo() {
	if len(c.undoStack) == 0 {
		return
	}
	last := len(c.undoStack) - 1
	a := c.undoStack[last]
	c.undoStack = c.undoStack[:last]
	a.revert(c)
	c.redoStack = append(c.redoStack, a)
	c.notifyHistory()
}

// Redo replays the most recently undone action and moves it back to the
// undo stack.
func (c *Canvas) Redo() {
	if len(c.redoStack) == 0 {
		return
	}
	last := len(c.redoStack) - 1
	a := c.redoStack[last]
	c.redoStack = c.redoStack[:last]
	a.apply(c)
	c.undoStack = append(c.undoStack, a)
	c.notifyHistory()
}

func (c *Canvas) notifyHistory() {
	c.events.undoAvailable(c.CanUndo())
	c.events.redoAvailable(c.CanRedo())
}
