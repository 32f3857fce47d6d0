package flowsketch

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	svg "github.com/ajstarks/svgo"
	"github.com/fogleman/gg"
)

// ExportPNG rasterizes the document at page size and writes it as PNG.
// Selection chrome is never included.
func (c *Canvas) ExportPNG(filename string) error {
	w := int(math.Ceil(c.pageSize.Width))
	h := int(math.Ceil(c.pageSize.Height))
	if w < 1 || h < 1 {
		return fmt.Errorf("invalid page size %gx%g", c.pageSize.Width, c.pageSize.Height)
	}
	dc := gg.NewContext(w, h)
	if err := c.PaintDocument(dc); err != nil {
		return fmt.Errorf("rendering document: %w", err)
	}
	if err := dc.SavePNG(filename); err != nil {
		return fmt.Errorf("writing %s: %w", filename, err)
	}
	return nil
}

// ExportSVG writes the document as a scalable vector image with the same
// visual content as the PNG export.
func (c *Canvas) ExportSVG(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filename, err)
	}
	if err := c.WriteSVG(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteSVG renders the document as SVG onto a writer.
func (c *Canvas) WriteSVG(w io.Writer) error {
	width := int(math.Ceil(c.pageSize.Width))
	height := int(math.Ceil(c.pageSize.Height))
	if width < 1 || height < 1 {
		return fmt.Errorf("invalid page size %gx%g", c.pageSize.Width, c.pageSize.Height)
	}

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:"+formatHexColor(c.background))

	if c.gridVisible {
		c.writeGridSVG(canvas)
	}
	for _, s := range c.shapes {
		writeShapeSVG(canvas, s)
	}
	canvas.End()
	return nil
}

func (c *Canvas) writeGridSVG(canvas *svg.SVG) {
	step := c.gridSize
	if step <= 0 {
		return
	}
	w := int(math.Ceil(c.pageSize.Width))
	h := int(math.Ceil(c.pageSize.Height))
	for i := 1; i*step < w; i++ {
		style := "stroke:#e5e5e5;stroke-width:1"
		if i%gridMajorStep == 0 {
			style = "stroke:#bfbfbf;stroke-width:1"
		}
		canvas.Line(i*step, 0, i*step, h, style)
	}
	for i := 1; i*step < h; i++ {
		style := "stroke:#e5e5e5;stroke-width:1"
		if i%gridMajorStep == 0 {
			style = "stroke:#bfbfbf;stroke-width:1"
		}
		canvas.Line(0, i*step, w, i*step, style)
	}
}

func shapeStyleSVG(s *Shape) string {
	st := s.style
	return fmt.Sprintf("fill:%s;stroke:%s;stroke-width:%g;fill-opacity:%g;stroke-opacity:%g",
		formatHexColor(st.FillColor), formatHexColor(st.LineColor),
		st.LineWidth, st.Opacity, st.Opacity)
}

func round(v float64) int { return int(math.Round(v)) }

func writeShapeSVG(canvas *svg.SVG, s *Shape) {
	if s.Connector() {
		writeArrowSVG(canvas, s)
		return
	}

	rotated := s.rotation != 0
	if rotated {
		center := s.rect.Center()
		canvas.Gtransform(fmt.Sprintf("rotate(%g,%g,%g)",
			s.rotation*180/math.Pi, center.X, center.Y))
	}

	r := s.rect
	style := shapeStyleSVG(s)
	switch s.kind {
	case KindRect:
		canvas.Rect(round(r.X), round(r.Y), round(r.Width), round(r.Height), style)
	case KindRoundedRect:
		radius := roundedRadius
		if m := math.Min(r.Width, r.Height) / 2; m < radius {
			radius = m
		}
		canvas.Roundrect(round(r.X), round(r.Y), round(r.Width), round(r.Height),
			round(radius), round(radius), style)
	case KindEllipse:
		center := r.Center()
		canvas.Ellipse(round(center.X), round(center.Y),
			round(r.Width/2), round(r.Height/2), style)
	default:
		pts := s.polygon()
		xs := make([]int, len(pts))
		ys := make([]int, len(pts))
		for i, p := range pts {
			xs[i] = round(p.X)
			ys[i] = round(p.Y)
		}
		canvas.Polygon(xs, ys, style)
	}

	writeTextSVG(canvas, s)
	if rotated {
		canvas.Gend()
	}
}

func writeArrowSVG(canvas *svg.SVG, s *Shape) {
	style := fmt.Sprintf("stroke:%s;stroke-width:%g;stroke-opacity:%g",
		formatHexColor(s.style.LineColor), s.style.LineWidth, s.style.Opacity)
	canvas.Line(round(s.p1.X), round(s.p1.Y), round(s.p2.X), round(s.p2.Y), style)

	angle := math.Atan2(s.p2.Y-s.p1.Y, s.p2.X-s.p1.X)
	for _, da := range []float64{arrowHeadAngle, -arrowHeadAngle} {
		bx := s.p2.X - arrowHeadLength*math.Cos(angle+da)
		by := s.p2.Y - arrowHeadLength*math.Sin(angle+da)
		canvas.Line(round(s.p2.X), round(s.p2.Y), round(bx), round(by), style)
	}
}

func writeTextSVG(canvas *svg.SVG, s *Shape) {
	if s.style.Text == "" {
		return
	}
	st := s.style
	family := "sans-serif"
	weight := ""
	switch st.FontName {
	case "mono":
		family = "monospace"
	case "bold":
		weight = ";font-weight:bold"
	}

	r := s.rect.Inset(textInset)
	var x int
	anchor := "middle"
	switch st.Align {
	case AlignLeft:
		x = round(r.X)
		anchor = "start"
	case AlignRight:
		x = round(r.Right())
		anchor = "end"
	default:
		x = round(r.Center().X)
	}

	style := fmt.Sprintf("fill:%s;fill-opacity:%g;font-family:%s;font-size:%gpx;text-anchor:%s%s",
		formatHexColor(st.TextColor), st.Opacity, family, st.FontSize, anchor, weight)

	lines := strings.Split(st.Text, "\n")
	lineHeight := st.FontSize * 1.2
	// Stack the block so its middle sits on the rect's vertical center.
	startY := r.Center().Y - lineHeight*float64(len(lines)-1)/2 + st.FontSize*0.35
	for i, line := range lines {
		canvas.Text(x, round(startY+float64(i)*lineHeight), line, style)
	}
}
