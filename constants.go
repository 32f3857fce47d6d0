package flowsketch

const (
	scaleHandleSize  = 8.0  // side of the square scale handles
	rotateHandleSize = 12.0 // diameter of the rotate handle
	rotateOffset     = 30.0 // distance of the rotate handle above the top edge
	triggerSize      = 24.0 // side of the arrow-trigger hit regions
	triggerOffset    = 30.0 // distance of the trigger handles past the edge
	anchorSize       = 8.0  // logical size of a connection anchor

	snapRadius      = 10.0 // endpoint-to-anchor snap distance, document units at zoom 1
	reconcileRadius = 5.0  // proximity for healing unrecorded connections

	minShapeSize = 1.0 // resizes producing a smaller width or height are rejected

	minZoom  = 0.1
	maxZoom  = 5.0
	zoomStep = 1.2

	textInset = 5.0 // margin between a shape's rect and its text

	defaultPageWidth  = 800.0
	defaultPageHeight = 600.0
	defaultGridSize   = 10
	gridMajorStep     = 5 // every fifth grid line is drawn heavy
)
