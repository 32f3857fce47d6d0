package flowsketch

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func exportCanvas(t *testing.T) *Canvas {
	t.Helper()
	c, _, _, _ := buildConnectedPair(t)
	sel := c.Shapes()[0]
	sel.SetText("start")
	c.AddShape(KindEllipse, NewRect(0, 100, 80, 60))
	c.AddShape(KindDiamond, NewRect(100, 100, 80, 60))
	c.AddShape(KindRoundedRect, NewRect(200, 100, 80, 60))
	return c
}

func TestWriteSVG(t *testing.T) {
	c := exportCanvas(t)

	var buf bytes.Buffer
	if err := c.WriteSVG(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	for _, want := range []string{"<svg", "</svg>", "<rect", "<ellipse", "<polygon", "<line", "start"} {
		if !strings.Contains(out, want) {
			t.Errorf("SVG output missing %q", want)
		}
	}
	// Background fills the whole page.
	if !strings.Contains(out, "fill:#ffffff") {
		t.Error("SVG output missing background fill")
	}
}

func TestWriteSVGRotation(t *testing.T) {
	c := NewCanvas()
	s := c.AddShape(KindRect, NewRect(100, 100, 80, 60))
	s.Rotate(0.5)

	var buf bytes.Buffer
	if err := c.WriteSVG(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "rotate(") {
		t.Error("rotated shape should emit a rotate transform")
	}
}

func TestExportPNG(t *testing.T) {
	c := exportCanvas(t)
	path := filepath.Join(t.TempDir(), "out.png")

	if err := c.ExportPNG(path); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Error("PNG export wrote an empty file")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("exported file is not a PNG")
	}
}

func TestExportRejectsBadPageSize(t *testing.T) {
	c := NewCanvas()
	c.pageSize = Size{Width: 0, Height: 0}
	if err := c.ExportPNG(filepath.Join(t.TempDir(), "x.png")); err == nil {
		t.Error("expected error for zero page size")
	}
	if err := c.WriteSVG(&bytes.Buffer{}); err == nil {
		t.Error("expected error for zero page size")
	}
}

func TestFontFace(t *testing.T) {
	for _, name := range FontNames() {
		if _, err := fontFace(name, 13); err != nil {
			t.Errorf("fontFace(%q): %v", name, err)
		}
	}
	// Unknown names fall back instead of failing.
	if _, err := fontFace("comic-sans", 13); err != nil {
		t.Errorf("fallback: %v", err)
	}
}
