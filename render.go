package flowsketch

import (
	"image/color"
	"math"

	"github.com/fogleman/gg"
)

const (
	arrowHeadLength = 12.0
	arrowHeadAngle  = math.Pi / 7
	roundedRadius   = 10.0
)

func setColor(dc *gg.Context, col color.RGBA, opacity float64) {
	dc.SetRGBA(float64(col.R)/255, float64(col.G)/255, float64(col.B)/255, opacity)
}

// PaintDocument paints the page background, the grid when visible, and
// every shape in z-order onto a gg context working in document
// coordinates. No selection chrome is drawn; exports call this directly.
func (c *Canvas) PaintDocument(dc *gg.Context) error {
	setColor(dc, c.background, 1.0)
	dc.Clear()

	if c.gridVisible {
		c.paintGrid(dc)
	}
	for _, s := range c.shapes {
		if err := paintShape(dc, s); err != nil {
			return err
		}
	}
	return nil
}

func (c *Canvas) paintGrid(dc *gg.Context) {
	step := float64(c.gridSize)
	if step <= 0 {
		return
	}
	w, h := c.pageSize.Width, c.pageSize.Height

	line := func(x1, y1, x2, y2 float64, isMajor bool) {
		if isMajor {
			dc.SetRGBA(0.75, 0.75, 0.75, 1)
		} else {
			dc.SetRGBA(0.9, 0.9, 0.9, 1)
		}
		dc.SetLineWidth(1)
		dc.DrawLine(x1, y1, x2, y2)
		dc.Stroke()
	}
	for i := 1; float64(i)*step < w; i++ {
		x := float64(i) * step
		line(x, 0, x, h, i%gridMajorStep == 0)
	}
	for i := 1; float64(i)*step < h; i++ {
		y := float64(i) * step
		line(0, y, w, y, i%gridMajorStep == 0)
	}
}

func paintShape(dc *gg.Context, s *Shape) error {
	if s.Connector() {
		paintArrow(dc, s)
		return nil
	}

	center := s.rect.Center()
	dc.Push()
	dc.RotateAbout(s.rotation, center.X, center.Y)

	tracePath(dc, s)
	setColor(dc, s.style.FillColor, s.style.Opacity)
	dc.FillPreserve()
	setColor(dc, s.style.LineColor, s.style.Opacity)
	dc.SetLineWidth(s.style.LineWidth)
	dc.Stroke()

	if err := paintText(dc, s); err != nil {
		dc.Pop()
		return err
	}
	dc.Pop()
	return nil
}

// tracePath lays down the unrotated outline for a non-arrow shape; the
// caller has already applied the rotation transform.
func tracePath(dc *gg.Context, s *Shape) {
	r := s.rect
	switch s.kind {
	case KindRect:
		dc.DrawRectangle(r.X, r.Y, r.Width, r.Height)
	case KindRoundedRect:
		radius := roundedRadius
		if m := math.Min(r.Width, r.Height) / 2; m < radius {
			radius = m
		}
		dc.DrawRoundedRectangle(r.X, r.Y, r.Width, r.Height, radius)
	case KindEllipse:
		c := r.Center()
		dc.DrawEllipse(c.X, c.Y, r.Width/2, r.Height/2)
	default:
		pts := s.polygon()
		dc.NewSubPath()
		dc.MoveTo(pts[0].X, pts[0].Y)
		for _, p := range pts[1:] {
			dc.LineTo(p.X, p.Y)
		}
		dc.ClosePath()
	}
}

func paintArrow(dc *gg.Context, s *Shape) {
	setColor(dc, s.style.LineColor, s.style.Opacity)
	dc.SetLineWidth(s.style.LineWidth)
	dc.DrawLine(s.p1.X, s.p1.Y, s.p2.X, s.p2.Y)
	dc.Stroke()

	// Head at the end point, two barbs splayed off the line direction.
	angle := math.Atan2(s.p2.Y-s.p1.Y, s.p2.X-s.p1.X)
	for _, da := range []float64{arrowHeadAngle, -arrowHeadAngle} {
		bx := s.p2.X - arrowHeadLength*math.Cos(angle+da)
		by := s.p2.Y - arrowHeadLength*math.Sin(angle+da)
		dc.DrawLine(s.p2.X, s.p2.Y, bx, by)
		dc.Stroke()
	}
}

func paintText(dc *gg.Context, s *Shape) error {
	if s.style.Text == "" {
		return nil
	}
	face, err := fontFace(s.style.FontName, s.style.FontSize)
	if err != nil {
		return err
	}
	dc.SetFontFace(face)
	setColor(dc, s.style.TextColor, s.style.Opacity)

	r := s.rect.Inset(textInset)
	c := r.Center()
	width := r.Width
	if width < 1 {
		width = 1
	}
	switch s.style.Align {
	case AlignLeft:
		dc.DrawStringWrapped(s.style.Text, r.X, c.Y, 0, 0.5, width, 1.2, gg.AlignLeft)
	case AlignRight:
		dc.DrawStringWrapped(s.style.Text, r.Right(), c.Y, 1, 0.5, width, 1.2, gg.AlignRight)
	default:
		dc.DrawStringWrapped(s.style.Text, c.X, c.Y, 0.5, 0.5, width, 1.2, gg.AlignCenter)
	}
	return nil
}

// PaintChrome paints the selection outline, the selected shape's handles
// and the snap indicator's anchors. Interactive front-ends call this
// after PaintDocument; exports never do.
func (c *Canvas) PaintChrome(dc *gg.Context) {
	sel := c.Selected()
	if sel != nil {
		paintSelectionOutline(dc, sel)
		for _, h := range sel.Handles() {
			paintHandle(dc, sel, h)
		}
	}
	if c.snapped.active {
		if target := c.shapeByID(c.snapped.shapeID); target != nil {
			for _, a := range target.Anchors() {
				paintAnchor(dc, a)
			}
		}
	}
}

func paintSelectionOutline(dc *gg.Context, s *Shape) {
	dc.SetRGBA(0.2, 0.45, 0.9, 1)
	dc.SetLineWidth(1)
	dc.SetDash(4, 4)
	if s.Connector() {
		dc.DrawLine(s.p1.X, s.p1.Y, s.p2.X, s.p2.Y)
		dc.Stroke()
	} else {
		center := s.rect.Center()
		dc.Push()
		dc.RotateAbout(s.rotation, center.X, center.Y)
		r := s.rect
		dc.DrawRectangle(r.X, r.Y, r.Width, r.Height)
		dc.Stroke()
		dc.Pop()
	}
	dc.SetDash()
}

func paintHandle(dc *gg.Context, s *Shape, h Handle) {
	center := h.Center()
	switch h.Kind {
	case HandleRotate:
		// Tether from the top edge midpoint to the rotate knob.
		top := Pt(s.rect.X+s.rect.Width/2, s.rect.Y).RotateAround(s.rect.Center(), s.rotation)
		dc.SetRGBA(0.2, 0.45, 0.9, 1)
		dc.SetLineWidth(1)
		dc.DrawLine(top.X, top.Y, center.X, center.Y)
		dc.Stroke()
		dc.DrawCircle(center.X, center.Y, h.Rect.Width/2)
		dc.SetRGBA(1, 1, 1, 1)
		dc.FillPreserve()
		dc.SetRGBA(0.2, 0.45, 0.9, 1)
		dc.Stroke()
	case HandleTrigger:
		// Plus glyph, no box.
		arm := h.Rect.Width / 4
		dc.SetRGBA(0.2, 0.45, 0.9, 1)
		dc.SetLineWidth(1.5)
		dc.DrawLine(center.X-arm, center.Y, center.X+arm, center.Y)
		dc.Stroke()
		dc.DrawLine(center.X, center.Y-arm, center.X, center.Y+arm)
		dc.Stroke()
	default:
		dc.DrawRectangle(h.Rect.X, h.Rect.Y, h.Rect.Width, h.Rect.Height)
		dc.SetRGBA(1, 1, 1, 1)
		dc.FillPreserve()
		dc.SetRGBA(0.2, 0.45, 0.9, 1)
		dc.SetLineWidth(1)
		dc.Stroke()
	}
}

func paintAnchor(dc *gg.Context, a Handle) {
	center := a.Center()
	dc.DrawCircle(center.X, center.Y, a.Rect.Width/2)
	dc.SetRGBA(0.15, 0.7, 0.3, 1)
	dc.Fill()
}
