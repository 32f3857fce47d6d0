package flowsketch

import "image/color"

// Events is the set of callbacks the canvas fires on state transitions.
// Nil callbacks are skipped. Collaborators (property panels, toolbars)
// subscribe here instead of polling.
type Events struct {
	ShapeSelected      func(*Shape)
	SelectionCleared   func()
	ZoomChanged        func(float64)
	GridSizeChanged    func(int)
	PageSizeChanged    func(Size)
	GridVisibleChanged func(bool)
	UndoAvailable      func(bool)
	RedoAvailable      func(bool)
}

func (e Events) shapeSelected(s *Shape) {
	if e.ShapeSelected != nil {
		e.ShapeSelected(s)
	}
}

func (e Events) selectionCleared() {
	if e.SelectionCleared != nil {
		e.SelectionCleared()
	}
}

func (e Events) undoAvailable(ok bool) {
	if e.UndoAvailable != nil {
		e.UndoAvailable(ok)
	}
}

func (e Events) redoAvailable(ok bool) {
	if e.RedoAvailable != nil {
		e.RedoAvailable(ok)
	}
}

// snapState is the live "snapped" indicator while an arrow endpoint is
// being dragged near an anchor.
type snapState struct {
	shapeID     ShapeID
	anchorIndex int
	target      Point
	active      bool
}

// Canvas owns the ordered shape list (z-order is list order), the
// connection records, the selection, the clipboard slot and both history
// stacks. All mutation happens through it, single-threaded, one input
// event at a time.
type Canvas struct {
	shapes      []*Shape
	connections []Connection

	undoStack []action
	redoStack []action

	selectedID ShapeID
	clipboard  *Shape
	nextID     ShapeID

	zoom        float64
	pageSize    Size
	background  color.RGBA
	gridSize    int
	gridVisible bool

	events Events

	// gesture state
	dragging     bool
	resizing     bool
	originalRect Rect
	moveStart    Point
	lastPointer  Point
	snapped      snapState
}

// NewCanvas creates an empty canvas with default page settings.
func NewCanvas() *Canvas {
	return &Canvas{
		nextID:      1,
		zoom:        1.0,
		pageSize:    Size{Width: defaultPageWidth, Height: defaultPageHeight},
		background:  color.RGBA{R: 255, G: 255, B: 255, A: 255},
		gridSize:    defaultGridSize,
		gridVisible: true,
	}
}

// SetEvents installs the canvas's event callbacks.
func (c *Canvas) SetEvents(events Events) { c.events = events }

func (c *Canvas) allocID() ShapeID {
	id := c.nextID
	c.nextID++
	return id
}

// Shapes returns the shape list in z-order, bottom first.
func (c *Canvas) Shapes() []*Shape {
	out := make([]*Shape, len(c.shapes))
	copy(out, c.shapes)
	return out
}

// ShapeCount returns the number of shapes on the canvas.
func (c *Canvas) ShapeCount() int { return len(c.shapes) }

func (c *Canvas) shapeByID(id ShapeID) *Shape {
	if id == NoShape {
		return nil
	}
	for _, s := range c.shapes {
		if s.id == id {
			return s
		}
	}
	return nil
}

func (c *Canvas) indexByID(id ShapeID) int {
	for i, s := range c.shapes {
		if s.id == id {
			return i
		}
	}
	return -1
}

// Selected returns the selected shape, or nil.
func (c *Canvas) Selected() *Shape { return c.shapeByID(c.selectedID) }

// SelectedID returns the selected shape's ID, or NoShape.
func (c *Canvas) SelectedID() ShapeID { return c.selectedID }

// Select makes the shape with the given ID the selection and fires the
// selection events. Selecting NoShape clears the selection.
func (c *Canvas) Select(id ShapeID) {
	if id == c.selectedID {
		return
	}
	old := c.selectedID
	s := c.shapeByID(id)
	if s == nil {
		c.selectedID = NoShape
		if old != NoShape {
			c.events.selectionCleared()
		}
		return
	}
	c.selectedID = id
	c.events.shapeSelected(s)
}

// ClearSelection drops the selection, firing the cleared event if one
// was set.
func (c *Canvas) ClearSelection() { c.Select(NoShape) }

// SnapIndicator reports the anchor an endpoint drag is currently locked
// to, if any.
func (c *Canvas) SnapIndicator() (ShapeID, int, bool) {
	return c.snapped.shapeID, c.snapped.anchorIndex, c.snapped.active
}

// AddShape creates a non-arrow shape, selects it and records the add.
func (c *Canvas) AddShape(kind Kind, rect Rect) *Shape {
	return c.addNew(NewShape(kind, rect))
}

// AddArrow creates an arrow shape, selects it and records the add.
func (c *Canvas) AddArrow(p1, p2 Point) *Shape {
	return c.addNew(NewArrow(p1, p2))
}

func (c *Canvas) addNew(s *Shape) *Shape {
	s.id = c.allocID()
	c.shapes = append(c.shapes, s)
	c.Select(s.id)
	c.record(&addAction{shape: s.Clone(), index: len(c.shapes) - 1})
	return s
}

// insertShapeAt places a shape at a z-order position without recording.
func (c *Canvas) insertShapeAt(s *Shape, index int) {
	if index < 0 {
		index = 0
	}
	if index > len(c.shapes) {
		index = len(c.shapes)
	}
	c.shapes = append(c.shapes, nil)
	copy(c.shapes[index+1:], c.shapes[index:])
	c.shapes[index] = s
	if s.id >= c.nextID {
		c.nextID = s.id + 1
	}
}

// removeShapeInternal erases a shape from the list without recording,
// clearing the selection if it was the selected one.
func (c *Canvas) removeShapeInternal(id ShapeID) {
	i := c.indexByID(id)
	if i < 0 {
		return
	}
	c.shapes = append(c.shapes[:i], c.shapes[i+1:]...)
	if c.selectedID == id {
		c.selectedID = NoShape
		c.events.selectionCleared()
	}
}

// DeleteShape removes a shape and every connection touching it,
// recording the removal for undo.
func (c *Canvas) DeleteShape(id ShapeID) {
	i := c.indexByID(id)
	if i < 0 {
		return
	}
	s := c.shapes[i]
	c.record(&removeAction{
		shape:       s.Clone(),
		index:       i,
		connections: c.connectionsTouching(id),
	})
	c.removeConnectionsFor(id)
	c.removeShapeInternal(id)
}

// DeleteSelected removes the selected shape, if any.
func (c *Canvas) DeleteSelected() {
	if c.selectedID != NoShape {
		c.DeleteShape(c.selectedID)
	}
}

// TopShapeAt returns the topmost shape under a document-space point.
// Z-order is walked back to front so the visually top shape wins.
func (c *Canvas) TopShapeAt(doc Point) *Shape {
	for i := len(c.shapes) - 1; i >= 0; i-- {
		if c.shapes[i].Contains(doc) {
			return c.shapes[i]
		}
	}
	return nil
}

// RaiseSelected swaps the selected shape with its upper neighbor.
func (c *Canvas) RaiseSelected() {
	i := c.indexByID(c.selectedID)
	if i < 0 || i >= len(c.shapes)-1 {
		return
	}
	c.shapes[i], c.shapes[i+1] = c.shapes[i+1], c.shapes[i]
}

// LowerSelected swaps the selected shape with its lower neighbor.
func (c *Canvas) LowerSelected() {
	i := c.indexByID(c.selectedID)
	if i <= 0 {
		return
	}
	c.shapes[i], c.shapes[i-1] = c.shapes[i-1], c.shapes[i]
}

// SelectedToFront moves the selected shape to the top of the z-order.
func (c *Canvas) SelectedToFront() {
	i := c.indexByID(c.selectedID)
	if i < 0 || i == len(c.shapes)-1 {
		return
	}
	s := c.shapes[i]
	c.shapes = append(c.shapes[:i], c.shapes[i+1:]...)
	c.shapes = append(c.shapes, s)
}

// SelectedToBack moves the selected shape to the bottom of the z-order.
func (c *Canvas) SelectedToBack() {
	i := c.indexByID(c.selectedID)
	if i <= 0 {
		return
	}
	s := c.shapes[i]
	c.shapes = append(c.shapes[:i], c.shapes[i+1:]...)
	c.shapes = append([]*Shape{s}, c.shapes...)
}

// CopySelected places a clone of the selected shape in the clipboard slot.
func (c *Canvas) CopySelected() {
	if s := c.Selected(); s != nil {
		c.clipboard = s.Clone()
	}
}

// CutSelected copies the selected shape and deletes it.
func (c *Canvas) CutSelected() {
	if c.Selected() == nil {
		return
	}
	c.CopySelected()
	c.DeleteSelected()
}

// Paste inserts a clone of the clipboard shape with its top-left corner
// at the given document position. The clone gets a fresh ID.
func (c *Canvas) Paste(at Point) *Shape {
	if c.clipboard == nil {
		return nil
	}
	s := c.clipboard.Clone()
	r := s.BoundingRect()
	s.SetRect(Rect{X: at.X, Y: at.Y, Width: r.Width, Height: r.Height})
	s.id = NoShape
	return c.addNew(s)
}

// ClipboardShape returns the clipboard content, or nil.
func (c *Canvas) ClipboardShape() *Shape { return c.clipboard }

// SetSelectedLineColor changes the selected shape's line color. Setting
// the current value is a no-op and records nothing.
func (c *Canvas) SetSelectedLineColor(col color.RGBA) {
	s := c.Selected()
	if s == nil || s.style.LineColor == col {
		return
	}
	c.record(&propertyAction{
		id:       s.id,
		oldColor: s.style.LineColor,
		newColor: col,
		oldWidth: s.style.LineWidth,
		newWidth: s.style.LineWidth,
	})
	s.style.LineColor = col
}

// SetSelectedLineWidth changes the selected shape's line width. Setting
// the current value is a no-op and records nothing.
func (c *Canvas) SetSelectedLineWidth(width float64) {
	s := c.Selected()
	if s == nil || s.style.LineWidth == width {
		return
	}
	c.record(&propertyAction{
		id:       s.id,
		oldColor: s.style.LineColor,
		newColor: s.style.LineColor,
		oldWidth: s.style.LineWidth,
		newWidth: width,
	})
	s.style.LineWidth = width
}

// ZoomFactor returns the current zoom.
func (c *Canvas) ZoomFactor() float64 { return c.zoom }

// SetZoomFactor sets the zoom, clamped to [minZoom, maxZoom]. Zoom only
// affects the screen-to-document mapping, never stored geometry.
func (c *Canvas) SetZoomFactor(factor float64) {
	if factor < minZoom {
		factor = minZoom
	} else if factor > maxZoom {
		factor = maxZoom
	}
	if c.zoom == factor {
		return
	}
	c.zoom = factor
	if c.events.ZoomChanged != nil {
		c.events.ZoomChanged(factor)
	}
}

// ZoomIn increases the zoom by one step.
func (c *Canvas) ZoomIn() { c.SetZoomFactor(c.zoom * zoomStep) }

// ZoomOut decreases the zoom by one step.
func (c *Canvas) ZoomOut() { c.SetZoomFactor(c.zoom / zoomStep) }

// ResetZoom returns to 1:1.
func (c *Canvas) ResetZoom() { c.SetZoomFactor(1.0) }

// ScreenToDoc converts a pointer position to document coordinates.
func (c *Canvas) ScreenToDoc(p Point) Point { return p.Scale(1 / c.zoom) }

// DocToScreen converts a document position to screen coordinates.
func (c *Canvas) DocToScreen(p Point) Point { return p.Scale(c.zoom) }

// DocToScreenRect converts a document rect to screen coordinates.
func (c *Canvas) DocToScreenRect(r Rect) Rect { return r.Scaled(c.zoom) }

// PageSize returns the document page size.
func (c *Canvas) PageSize() Size { return c.pageSize }

// SetPageSize changes the page size; non-positive sizes are ignored.
func (c *Canvas) SetPageSize(size Size) {
	if size == c.pageSize || size.Width <= 0 || size.Height <= 0 {
		return
	}
	c.pageSize = size
	if c.events.PageSizeChanged != nil {
		c.events.PageSizeChanged(size)
	}
}

// Background returns the page background color.
func (c *Canvas) Background() color.RGBA { return c.background }

// SetBackground changes the page background color.
func (c *Canvas) SetBackground(col color.RGBA) { c.background = col }

// GridSize returns the grid spacing in document units.
func (c *Canvas) GridSize() int { return c.gridSize }

// SetGridSize changes the grid spacing; non-positive sizes are ignored.
func (c *Canvas) SetGridSize(size int) {
	if size == c.gridSize || size <= 0 {
		return
	}
	c.gridSize = size
	if c.events.GridSizeChanged != nil {
		c.events.GridSizeChanged(size)
	}
}

// GridVisible reports whether the grid is drawn.
func (c *Canvas) GridVisible() bool { return c.gridVisible }

// SetGridVisible toggles grid drawing.
func (c *Canvas) SetGridVisible(visible bool) {
	if visible == c.gridVisible {
		return
	}
	c.gridVisible = visible
	if c.events.GridVisibleChanged != nil {
		c.events.GridVisibleChanged(visible)
	}
}

// Clear empties the canvas: shapes, connections, selection, clipboard
// gesture state and both history stacks.
func (c *Canvas) Clear() {
	c.shapes = nil
	c.connections = nil
	c.undoStack = nil
	c.redoStack = nil
	if c.selectedID != NoShape {
		c.selectedID = NoShape
		c.events.selectionCleared()
	}
	c.snapped = snapState{}
	c.dragging = false
	c.resizing = false
	c.notifyHistory()
}

// PressAt begins a gesture at a screen position: a handle press starts a
// resize/rotate/endpoint drag (a trigger press spawns a new connector),
// otherwise the topmost shape under the pointer is selected and a move
// drag begins.
func (c *Canvas) PressAt(screen Point) {
	doc := c.ScreenToDoc(screen)

	if sel := c.Selected(); sel != nil {
		handles := sel.Handles()
		for i, h := range handles {
			if !h.Rect.Contains(doc) {
				continue
			}
			if h.Kind == HandleTrigger {
				c.beginConnectorDrag(sel, h.Direction, doc)
				return
			}
			sel.setSelectedHandle(i)
			if h.Kind == HandleScale && !sel.Connector() {
				c.resizing = true
				c.originalRect = sel.BoundingRect()
			}
			c.lastPointer = doc
			c.dragging = true
			return
		}
	}

	old := c.selectedID
	c.selectedID = NoShape
	for i := len(c.shapes) - 1; i >= 0; i-- {
		if c.shapes[i].Contains(doc) {
			c.selectedID = c.shapes[i].id
			c.lastPointer = doc
			c.moveStart = doc
			c.dragging = true
			if old != c.selectedID {
				c.events.shapeSelected(c.shapes[i])
			}
			return
		}
	}
	if old != NoShape {
		c.events.selectionCleared()
	}
}

// beginConnectorDrag spawns a new arrow out of a trigger handle: its
// start point is pinned to the source anchor and a provisional start
// connection is recorded immediately; the end point follows the pointer.
func (c *Canvas) beginConnectorDrag(source *Shape, direction int, doc Point) {
	anchorIndex := AnchorForTrigger(direction)
	anchors := source.Anchors()
	if anchorIndex < 0 || anchorIndex >= len(anchors) {
		return
	}
	anchorPos := anchors[anchorIndex].Center()

	arrow := NewArrow(anchorPos, doc)
	arrow.id = c.allocID()
	c.shapes = append(c.shapes, arrow)
	c.Select(arrow.id)
	c.record(&addAction{shape: arrow.Clone(), index: len(c.shapes) - 1})

	arrow.setSelectedHandle(1) // end point follows the pointer
	c.snapped = snapState{shapeID: source.id, anchorIndex: anchorIndex, target: anchorPos, active: true}
	c.connections = append(c.connections, Connection{
		ArrowID:     arrow.id,
		ShapeID:     source.id,
		AnchorIndex: anchorIndex,
		AtStart:     true,
	})
	arrow.SetEndpoint(true, anchorPos)
	c.updateConnectedArrows(source.id, Point{})

	c.dragging = true
	c.lastPointer = doc
}

// MoveTo advances the active gesture to a new screen position.
func (c *Canvas) MoveTo(screen Point) {
	doc := c.ScreenToDoc(screen)
	sel := c.Selected()
	if !c.dragging || sel == nil {
		return
	}

	if sel.HandleSelected() {
		if sel.Connector() {
			atStart := sel.SelectedHandle() == 0
			snap := c.findSnapAnchor(doc, sel, atStart)
			if snap.found {
				sel.SetEndpoint(atStart, snap.target)
				c.snapped = snapState{shapeID: snap.shapeID, anchorIndex: snap.anchorIndex, target: snap.target, active: true}
			} else {
				sel.SetEndpoint(atStart, doc)
				c.snapped = snapState{}
			}
			return
		}
		delta := doc.Sub(c.lastPointer)
		if sel.applyHandleDrag(doc, c.lastPointer) {
			// Rotation moves anchors too, so re-glue by anchor position,
			// with the delta only as a fallback.
			c.updateConnectedArrows(sel.id, delta)
		}
		c.lastPointer = doc
		return
	}

	delta := doc.Sub(c.lastPointer)
	if !sel.Connector() {
		sel.MoveBy(delta)
		c.updateConnectedArrows(sel.id, delta)
	}
	c.lastPointer = doc
}

// ReleaseAt ends the active gesture: arrow endpoints commit their
// connection, moves and resizes get recorded in history.
func (c *Canvas) ReleaseAt(screen Point) {
	doc := c.ScreenToDoc(screen)

	if sel := c.Selected(); sel != nil {
		if sel.Connector() {
			switch sel.SelectedHandle() {
			case 0:
				c.commitEndpoint(sel, true, doc)
			case 1:
				c.commitEndpoint(sel, false, doc)
			}
			sel.clearHandleSelection()
			c.events.shapeSelected(sel)
		} else {
			if c.dragging && !sel.HandleSelected() {
				total := doc.Sub(c.moveStart)
				if total.ManhattanLength() > 0 {
					c.record(&moveAction{id: sel.id, delta: total})
				}
			} else if c.resizing && sel.HandleSelected() {
				newRect := sel.BoundingRect()
				if newRect != c.originalRect {
					c.record(&resizeAction{id: sel.id, oldRect: c.originalRect, newRect: newRect})
				}
				c.resizing = false
			}
			sel.clearHandleSelection()
			c.events.shapeSelected(sel)
		}
	}

	c.snapped = snapState{}
	c.dragging = false
}

// BeginTextEditAt puts the topmost text-editable shape under the screen
// position into editing state and returns it, or nil.
func (c *Canvas) BeginTextEditAt(screen Point) *Shape {
	doc := c.ScreenToDoc(screen)
	for i := len(c.shapes) - 1; i >= 0; i-- {
		s := c.shapes[i]
		if s.Contains(doc) && s.TextEditable() {
			s.SetEditing(true)
			c.Select(s.id)
			return s
		}
	}
	return nil
}

// FinishTextEdit stores the edited text on the selected shape and leaves
// editing state.
func (c *Canvas) FinishTextEdit(text string) {
	s := c.Selected()
	if s == nil {
		return
	}
	s.SetText(text)
	s.SetEditing(false)
}
