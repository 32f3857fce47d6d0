package flowsketch

import (
	"fmt"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// fontSources maps the document format's font names to embedded TTF data.
var fontSources = map[string][]byte{
	"regular": goregular.TTF,
	"bold":    gobold.TTF,
	"mono":    gomono.TTF,
}

var (
	parsedFonts = map[string]*truetype.Font{}
	faceCache   = map[faceKey]font.Face{}
)

type faceKey struct {
	name string
	size float64
}

// fontFace returns a cached face for a font name and point size. Unknown
// names fall back to the regular face so rendering never fails on a
// document carrying a font this build does not bundle.
func fontFace(name string, size float64) (font.Face, error) {
	if _, ok := fontSources[name]; !ok {
		name = "regular"
	}
	key := faceKey{name: name, size: size}
	if face, ok := faceCache[key]; ok {
		return face, nil
	}
	f, ok := parsedFonts[name]
	if !ok {
		parsed, err := truetype.Parse(fontSources[name])
		if err != nil {
			return nil, fmt.Errorf("parsing font %s: %w", name, err)
		}
		parsedFonts[name] = parsed
		f = parsed
	}
	face := truetype.NewFace(f, &truetype.Options{Size: size})
	faceCache[key] = face
	return face, nil
}

// FontNames lists the font names shapes may reference.
func FontNames() []string {
	return []string{"regular", "bold", "mono"}
}
