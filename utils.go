package flowsketch

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

// CopySelectedToSystemClipboard writes the selected shape to the system
// clipboard as its document-format record, so shapes can travel between
// processes. The internal clipboard slot is filled as well.
func (c *Canvas) CopySelectedToSystemClipboard() error {
	s := c.Selected()
	if s == nil {
		return errors.New("no shape selected")
	}
	c.CopySelected()

	data, err := json.Marshal(encodeShapeRecord(s))
	if err != nil {
		return fmt.Errorf("encoding shape: %w", err)
	}
	if err := clipboard.WriteAll(string(data)); err != nil {
		return fmt.Errorf("writing clipboard: %w", err)
	}
	return nil
}

// PasteFromSystemClipboard reads a shape record from the system
// clipboard and pastes it at the given document position. Content that
// is not a shape record is reported as an error, not pasted.
func (c *Canvas) PasteFromSystemClipboard(at Point) (*Shape, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading clipboard: %w", err)
	}
	var rec shapeRecord
	if err := json.Unmarshal([]byte(text), &rec); err != nil {
		return nil, fmt.Errorf("clipboard does not hold a shape: %w", err)
	}
	s := decodeShapeRecord(rec)
	if s == nil {
		return nil, fmt.Errorf("clipboard holds unknown shape type %q", rec.Type)
	}
	r := s.BoundingRect()
	s.SetRect(Rect{X: at.X, Y: at.Y, Width: r.Width, Height: r.Height})
	return c.addNew(s), nil
}
