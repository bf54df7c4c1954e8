package overlay

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
)

// Fonts holds the parsed typeface used for overlays. The parsed font is read-only and
// shared; faces are created per call because an opentype face is not safe for
// concurrent use.
type Fonts struct {
	font *opentype.Font
	name string
}

// DefaultFonts parses the bundled Go Bold typeface.
func DefaultFonts() (*Fonts, error) {
	f, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("overlay: parse bundled font: %w", err)
	}
	return &Fonts{font: f, name: "gobold"}, nil
}

// LoadFonts reads a TrueType/OpenType file. An empty path selects the bundled font.
// Player names in Hangul need a font with those glyphs, e.g. Noto Sans KR.
func LoadFonts(path string) (*Fonts, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return DefaultFonts()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("overlay: read font: %w", err)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("overlay: parse font %s: %w", path, err)
	}
	return &Fonts{font: f, name: path}, nil
}

// Name identifies the loaded typeface for logs.
func (f *Fonts) Name() string {
	if f == nil {
		return ""
	}
	return f.name
}

func (f *Fonts) face(size float64) (font.Face, error) {
	if size < 1 {
		size = 1
	}
	return opentype.NewFace(f.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}
