package flowsketch

import (
	"encoding/json"
	"fmt"
	"os"
)

// shapeRecord is the on-disk form of one shape. Non-arrow shapes use the
// rect fields, arrows use the endpoint fields; the type discriminator
// decides which on load.
type shapeRecord struct {
	Type     string  `json:"type"`
	X        float64 `json:"x,omitempty"`
	Y        float64 `json:"y,omitempty"`
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
	X1       float64 `json:"x1,omitempty"`
	Y1       float64 `json:"y1,omitempty"`
	X2       float64 `json:"x2,omitempty"`
	Y2       float64 `json:"y2,omitempty"`
	Rotation float64 `json:"rotation,omitempty"`

	LineColor string  `json:"lineColor"`
	LineWidth float64 `json:"lineWidth"`
	FillColor string  `json:"fillColor"`
	Opacity   float64 `json:"opacity"`
	Text      string  `json:"text,omitempty"`
	TextColor string  `json:"textColor"`
	FontName  string  `json:"fontName"`
	FontSize  float64 `json:"fontSize"`
	Align     string  `json:"align"`
}

// connectionRecord binds an arrow endpoint to a shape anchor by list
// position. IDs are internal only; the document speaks in indices.
type connectionRecord struct {
	ArrowIndex   int  `json:"arrowIndex"`
	ShapeIndex   int  `json:"shapeIndex"`
	HandleIndex  int  `json:"handleIndex"`
	IsStartPoint bool `json:"isStartPoint"`
}

type sizeRecord struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type documentFile struct {
	Shapes          []shapeRecord      `json:"shapes"`
	BackgroundColor string             `json:"backgroundColor"`
	GridSize        int                `json:"gridSize"`
	Size            sizeRecord         `json:"size"`
	Connections     []connectionRecord `json:"connections"`
}

var alignNames = map[TextAlign]string{
	AlignCenter: "center",
	AlignLeft:   "left",
	AlignRight:  "right",
}

func alignFromName(name string) TextAlign {
	for a, n := range alignNames {
		if n == name {
			return a
		}
	}
	return AlignCenter
}

func encodeShapeRecord(s *Shape) shapeRecord {
	rec := shapeRecord{
		Type:      s.kind.String(),
		Rotation:  s.rotation,
		LineColor: formatHexColor(s.style.LineColor),
		LineWidth: s.style.LineWidth,
		FillColor: formatHexColor(s.style.FillColor),
		Opacity:   s.style.Opacity,
		Text:      s.style.Text,
		TextColor: formatHexColor(s.style.TextColor),
		FontName:  s.style.FontName,
		FontSize:  s.style.FontSize,
		Align:     alignNames[s.style.Align],
	}
	if s.Connector() {
		rec.X1, rec.Y1 = s.p1.X, s.p1.Y
		rec.X2, rec.Y2 = s.p2.X, s.p2.Y
	} else {
		rec.X, rec.Y = s.rect.X, s.rect.Y
		rec.Width, rec.Height = s.rect.Width, s.rect.Height
	}
	return rec
}

// decodeShapeRecord rebuilds a shape from its record. Unknown type
// discriminators return nil; callers skip those entries.
func decodeShapeRecord(rec shapeRecord) *Shape {
	kind, ok := kindsByName[rec.Type]
	if !ok {
		return nil
	}
	var s *Shape
	if kind == KindArrow {
		s = NewArrow(Pt(rec.X1, rec.Y1), Pt(rec.X2, rec.Y2))
	} else {
		s = NewShape(kind, Rect{X: rec.X, Y: rec.Y, Width: rec.Width, Height: rec.Height})
	}
	s.rotation = rec.Rotation
	s.style = Style{
		LineColor: parseHexColor(rec.LineColor),
		LineWidth: rec.LineWidth,
		FillColor: parseHexColor(rec.FillColor),
		Opacity:   rec.Opacity,
		Text:      rec.Text,
		TextColor: parseHexColor(rec.TextColor),
		FontName:  rec.FontName,
		FontSize:  rec.FontSize,
		Align:     alignFromName(rec.Align),
	}
	if s.style.FontName == "" {
		s.style.FontName = "regular"
	}
	if s.style.FontSize == 0 {
		s.style.FontSize = 13
	}
	if s.style.Opacity == 0 {
		s.style.Opacity = 1.0
	}
	return s
}

// MarshalDocument serializes the canvas into the document format.
// Connection IDs are translated to shape-list indices here; the format
// never sees internal identifiers.
func (c *Canvas) MarshalDocument() ([]byte, error) {
	doc := documentFile{
		Shapes:          make([]shapeRecord, 0, len(c.shapes)),
		BackgroundColor: formatHexColor(c.background),
		GridSize:        c.gridSize,
		Size:            sizeRecord{Width: c.pageSize.Width, Height: c.pageSize.Height},
		Connections:     make([]connectionRecord, 0, len(c.connections)),
	}
	for _, s := range c.shapes {
		doc.Shapes = append(doc.Shapes, encodeShapeRecord(s))
	}
	for _, conn := range c.connections {
		ai := c.indexByID(conn.ArrowID)
		si := c.indexByID(conn.ShapeID)
		if ai < 0 || si < 0 {
			continue
		}
		doc.Connections = append(doc.Connections, connectionRecord{
			ArrowIndex:   ai,
			ShapeIndex:   si,
			HandleIndex:  conn.AnchorIndex,
			IsStartPoint: conn.AtStart,
		})
	}
	return json.MarshalIndent(doc, "", "  ")
}

// UnmarshalDocument replaces the canvas content with a parsed document.
// The input is parsed completely before any existing state is touched, so
// a malformed document leaves the canvas unchanged. Shapes with
// unrecognized type discriminators are skipped; connection records whose
// indices fall outside the restored list, or point at the wrong shape
// capability, are dropped.
func (c *Canvas) UnmarshalDocument(data []byte) error {
	var doc documentFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing document: %w", err)
	}

	shapes := make([]*Shape, 0, len(doc.Shapes))
	// Maps original record positions to restored list positions so
	// connection indices survive skipped entries.
	restored := make(map[int]int, len(doc.Shapes))
	for i, rec := range doc.Shapes {
		s := decodeShapeRecord(rec)
		if s == nil {
			continue
		}
		restored[i] = len(shapes)
		shapes = append(shapes, s)
	}

	c.Clear()
	for _, s := range shapes {
		s.id = c.allocID()
		c.shapes = append(c.shapes, s)
	}
	for _, rec := range doc.Connections {
		ai, okA := restored[rec.ArrowIndex]
		si, okS := restored[rec.ShapeIndex]
		if !okA || !okS {
			continue
		}
		arrow, target := c.shapes[ai], c.shapes[si]
		if !arrow.Connector() || !target.ConnectionTarget() {
			continue
		}
		if rec.HandleIndex < 0 || rec.HandleIndex >= len(target.Anchors()) {
			continue
		}
		c.connections = append(c.connections, Connection{
			ArrowID:     arrow.id,
			ShapeID:     target.id,
			AnchorIndex: rec.HandleIndex,
			AtStart:     rec.IsStartPoint,
		})
	}

	c.background = parseHexColor(doc.BackgroundColor)
	if doc.GridSize > 0 {
		c.gridSize = doc.GridSize
	}
	if doc.Size.Width > 0 && doc.Size.Height > 0 {
		c.pageSize = Size{Width: doc.Size.Width, Height: doc.Size.Height}
	}
	return nil
}

// SaveToFile writes the canvas document to a file.
func (c *Canvas) SaveToFile(filename string) error {
	data, err := c.MarshalDocument()
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", filename, err)
	}
	return nil
}

// LoadFromFile reads a canvas document from a file, replacing the
// current content on success.
func (c *Canvas) LoadFromFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("reading %s: %w", filename, err)
	}
	return c.UnmarshalDocument(data)
}
