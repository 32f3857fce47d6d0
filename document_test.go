package flowsketch

import (
	"bytes"
	"encoding/json"
	"image/color"
	"math"
	"path/filepath"
	"testing"
)

func TestDocumentRoundTrip(t *testing.T) {
	c, _, _, _ := buildConnectedPair(t)
	sel := c.Shapes()[0]
	c.Select(sel.ID())
	sel.SetText("source")
	sel.Rotate(math.Pi / 6)
	c.SetSelectedLineColor(color.RGBA{R: 200, G: 40, B: 40, A: 255})
	c.SetBackground(color.RGBA{R: 240, G: 240, B: 250, A: 255})
	c.SetGridSize(25)
	c.SetPageSize(Size{Width: 1200, Height: 900})

	first, err := c.MarshalDocument()
	if err != nil {
		t.Fatal(err)
	}

	loaded := NewCanvas()
	if err := loaded.UnmarshalDocument(first); err != nil {
		t.Fatal(err)
	}
	second, err := loaded.MarshalDocument()
	if err != nil {
		t.Fatal(err)
	}

	// save(load(save(c))) must match save(c) byte for byte: geometry,
	// style and connection indices all survive.
	if !bytes.Equal(first, second) {
		t.Errorf("round trip diverged:\n%s\n---\n%s", first, second)
	}

	if loaded.GridSize() != 25 {
		t.Errorf("grid size = %d", loaded.GridSize())
	}
	if loaded.PageSize() != (Size{Width: 1200, Height: 900}) {
		t.Errorf("page size = %+v", loaded.PageSize())
	}
	if loaded.Background() != (color.RGBA{R: 240, G: 240, B: 250, A: 255}) {
		t.Errorf("background = %+v", loaded.Background())
	}

	got := loaded.Shapes()[0]
	if got.Text() != "source" || !almostEqual(got.Rotation(), math.Pi/6) {
		t.Errorf("restored shape: text %q rotation %g", got.Text(), got.Rotation())
	}
	if got.Style().LineColor != (color.RGBA{R: 200, G: 40, B: 40, A: 255}) {
		t.Errorf("restored line color: %+v", got.Style().LineColor)
	}
}

func TestLoadSkipsUnknownTypes(t *testing.T) {
	doc := `{
		"shapes": [
			{"type": "rect", "x": 0, "y": 0, "width": 50, "height": 50,
			 "lineColor": "#000000", "lineWidth": 2, "fillColor": "#ffffff",
			 "opacity": 1, "textColor": "#000000", "fontName": "regular",
			 "fontSize": 13, "align": "center"},
			{"type": "hexagon", "x": 100, "y": 0, "width": 50, "height": 50,
			 "lineColor": "#000000", "lineWidth": 2, "fillColor": "#ffffff",
			 "opacity": 1, "textColor": "#000000", "fontName": "regular",
			 "fontSize": 13, "align": "center"},
			{"type": "arrow", "x1": 25, "y1": 25, "x2": 200, "y2": 25,
			 "lineColor": "#000000", "lineWidth": 2, "fillColor": "#ffffff",
			 "opacity": 1, "textColor": "#000000", "fontName": "regular",
			 "fontSize": 13, "align": "center"}
		],
		"backgroundColor": "#ffffff",
		"gridSize": 10,
		"size": {"width": 800, "height": 600},
		"connections": [
			{"arrowIndex": 2, "shapeIndex": 0, "handleIndex": 3, "isStartPoint": true},
			{"arrowIndex": 2, "shapeIndex": 1, "handleIndex": 2, "isStartPoint": false}
		]
	}`

	c := NewCanvas()
	if err := c.UnmarshalDocument([]byte(doc)); err != nil {
		t.Fatal(err)
	}

	if c.ShapeCount() != 2 {
		t.Fatalf("shape count = %d, want 2 (hexagon skipped)", c.ShapeCount())
	}

	// The connection to the skipped shape is dropped; the other one maps
	// through the compacted indices.
	conns := c.Connections()
	if len(conns) != 1 {
		t.Fatalf("connections = %d, want 1", len(conns))
	}
	if conns[0].ShapeID != c.Shapes()[0].ID() || conns[0].ArrowID != c.Shapes()[1].ID() {
		t.Errorf("connection mapped wrong: %+v", conns[0])
	}
}

func TestLoadRejectsMalformedWithoutClearing(t *testing.T) {
	c := NewCanvas()
	c.AddShape(KindRect, NewRect(0, 0, 50, 50))

	if err := c.UnmarshalDocument([]byte(`{"shapes": [`)); err == nil {
		t.Fatal("expected parse error")
	}
	if c.ShapeCount() != 1 {
		t.Errorf("malformed load mutated state: %d shapes", c.ShapeCount())
	}
}

func TestLoadGuardsConnectionBounds(t *testing.T) {
	doc := documentFile{
		Shapes: []shapeRecord{
			encodeShapeRecord(NewShape(KindRect, NewRect(0, 0, 50, 50))),
			encodeShapeRecord(NewArrow(Pt(0, 0), Pt(100, 0))),
		},
		BackgroundColor: "#ffffff",
		GridSize:        10,
		Size:            sizeRecord{Width: 800, Height: 600},
		Connections: []connectionRecord{
			{ArrowIndex: 9, ShapeIndex: 0, HandleIndex: 0, IsStartPoint: true},  // arrow out of range
			{ArrowIndex: 1, ShapeIndex: 0, HandleIndex: 7, IsStartPoint: true},  // anchor out of range
			{ArrowIndex: 0, ShapeIndex: 1, HandleIndex: 0, IsStartPoint: true},  // roles swapped
			{ArrowIndex: 1, ShapeIndex: 0, HandleIndex: 2, IsStartPoint: false}, // valid
		},
	}
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}

	c := NewCanvas()
	if err := c.UnmarshalDocument(data); err != nil {
		t.Fatal(err)
	}
	conns := c.Connections()
	if len(conns) != 1 || conns[0].AnchorIndex != 2 {
		t.Errorf("connections = %+v, want only the valid record", conns)
	}
}

func TestSaveLoadFile(t *testing.T) {
	c, _, _, _ := buildConnectedPair(t)
	path := filepath.Join(t.TempDir(), "diagram.json")

	if err := c.SaveToFile(path); err != nil {
		t.Fatal(err)
	}

	loaded := NewCanvas()
	if err := loaded.LoadFromFile(path); err != nil {
		t.Fatal(err)
	}
	if loaded.ShapeCount() != 3 || len(loaded.Connections()) != 2 {
		t.Errorf("loaded %d shapes, %d connections", loaded.ShapeCount(), len(loaded.Connections()))
	}

	if err := loaded.LoadFromFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadResetsHistoryAndSelection(t *testing.T) {
	c, _, _, _ := buildConnectedPair(t)
	data, err := c.MarshalDocument()
	if err != nil {
		t.Fatal(err)
	}

	if err := c.UnmarshalDocument(data); err != nil {
		t.Fatal(err)
	}
	if c.CanUndo() || c.CanRedo() {
		t.Error("load should drop history")
	}
	if c.SelectedID() != NoShape {
		t.Error("load should drop selection")
	}
}
