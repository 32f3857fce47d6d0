package flowsketch

import (
	"fmt"
	"image/color"
)

// TextAlign selects horizontal text placement inside a shape.
type TextAlign int

const (
	AlignCenter TextAlign = iota
	AlignLeft
	AlignRight
)

// Style carries the visual attributes shared by every shape kind.
type Style struct {
	LineColor color.RGBA
	LineWidth float64
	FillColor color.RGBA
	Opacity   float64
	Text      string
	TextColor color.RGBA // zero value falls back to the line color's black default
	FontName  string
	FontSize  float64
	Align     TextAlign
}

// DefaultStyle returns the style new shapes are created with.
func DefaultStyle() Style {
	return Style{
		LineColor: color.RGBA{A: 255},
		LineWidth: 2,
		FillColor: color.RGBA{R: 255, G: 255, B: 255, A: 255},
		Opacity:   1.0,
		TextColor: color.RGBA{A: 255},
		FontName:  "regular",
		FontSize:  13,
		Align:     AlignCenter,
	}
}

// formatHexColor renders a color as #RRGGBB, the document format's notation.
func formatHexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// parseHexColor reads #RGB or #RRGGBB. Unparseable strings return opaque black.
func parseHexColor(s string) color.RGBA {
	c := color.RGBA{A: 255}
	switch len(s) {
	case 7:
		fmt.Sscanf(s, "#%02x%02x%02x", &c.R, &c.G, &c.B)
	case 4:
		fmt.Sscanf(s, "#%1x%1x%1x", &c.R, &c.G, &c.B)
		c.R *= 17
		c.G *= 17
		c.B *= 17
	}
	return c
}
