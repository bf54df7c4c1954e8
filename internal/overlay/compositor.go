// Package overlay burns player names and numbers into generated garment images.
package overlay

import (
	"fmt"
	stdimage "image"
	"image/color"
	"image/draw"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"uniformgen/internal/domain"
)

// Spec describes the text to draw. View must be the same value that compiled the
// prompt for the image.
type Spec struct {
	Name           string
	Number         string
	NamePosition   domain.Position
	NumberPosition domain.Position
	View           domain.View
}

type element uint8

const (
	elementName element = iota
	elementNumber

	elementCount
)

// Anchor is a point expressed as a fraction of the image width and height.
type Anchor struct {
	X, Y float64
}

var backAnchors = [elementCount]Anchor{
	elementName:   {0.5, 0.16},
	elementNumber: {0.5, 0.52},
}

// Zero entries mean the position has no front slot and use compromiseAnchors.
var frontAnchors = [elementCount][domain.PositionShoulder + 1]Anchor{
	elementName: {
		domain.PositionFrontLeft:   {0.36, 0.30},
		domain.PositionFrontCenter: {0.5, 0.28},
		domain.PositionShoulder:    {0.28, 0.20},
	},
	elementNumber: {
		domain.PositionFrontCenter: {0.5, 0.46},
		domain.PositionShoulder:    {0.72, 0.20},
	},
}

// compromiseAnchors place back-only positions requested on a front view.
var compromiseAnchors = [elementCount]Anchor{
	elementName:   {0.5, 0.24},
	elementNumber: {0.5, 0.42},
}

// Font size as a fraction of image height, indexed by view.
var sizeRatios = [elementCount][2]float64{
	elementName:   {domain.ViewFront: 0.04, domain.ViewBack: 0.055},
	elementNumber: {domain.ViewFront: 0.09, domain.ViewBack: 0.16},
}

var strokeWidths = [elementCount]int{
	elementName:   3,
	elementNumber: 4,
}

var (
	fillColor   = stdimage.NewUniform(color.White)
	strokeColor = stdimage.NewUniform(color.Black)
)

// AnchorFor returns the fractional anchor for a text element. A back view always
// uses the back panel slots regardless of the requested position.
func AnchorFor(view domain.View, number bool, pos domain.Position) Anchor {
	el := elementName
	if number {
		el = elementNumber
	}
	return anchorFor(view, el, pos)
}

func anchorFor(view domain.View, el element, pos domain.Position) Anchor {
	if view == domain.ViewBack {
		return backAnchors[el]
	}
	if int(pos) < len(frontAnchors[el]) {
		if a := frontAnchors[el][pos]; a != (Anchor{}) {
			return a
		}
	}
	return compromiseAnchors[el]
}

// Compositor draws overlays with a shared typeface.
type Compositor struct {
	fonts *Fonts
}

func NewCompositor(fonts *Fonts) *Compositor {
	return &Compositor{fonts: fonts}
}

// Apply returns a new image with the name and number drawn on it. The source image is
// never modified. A name position of none suppresses the name and an empty number
// suppresses the number.
func (c *Compositor) Apply(src stdimage.Image, spec Spec) (*stdimage.NRGBA, error) {
	if src == nil {
		return nil, fmt.Errorf("overlay: nil image")
	}
	if c == nil || c.fonts == nil {
		return nil, fmt.Errorf("overlay: no fonts loaded")
	}
	dst := imaging.Clone(src)

	name := strings.TrimSpace(spec.Name)
	if name != "" && spec.NamePosition != domain.PositionNone {
		if err := c.drawElement(dst, elementName, name, spec.View, spec.NamePosition); err != nil {
			return nil, err
		}
	}
	number := strings.TrimSpace(spec.Number)
	if number != "" {
		if err := c.drawElement(dst, elementNumber, number, spec.View, spec.NumberPosition); err != nil {
			return nil, err
		}
	}
	return dst, nil
}

func (c *Compositor) drawElement(dst draw.Image, el element, text string, view domain.View, pos domain.Position) error {
	b := dst.Bounds()
	w, h := b.Dx(), b.Dy()
	face, err := c.fonts.face(sizeRatios[el][view] * float64(h))
	if err != nil {
		return fmt.Errorf("overlay: face: %w", err)
	}
	defer face.Close()

	a := anchorFor(view, el, pos)
	cx := float64(b.Min.X) + a.X*float64(w)
	cy := float64(b.Min.Y) + a.Y*float64(h)
	origin := centeredOrigin(face, text, cx, cy)
	drawOutlined(dst, face, text, origin, strokeWidths[el])
	return nil
}

// centeredOrigin returns the dot position that puts the visual center of the rendered
// text on (cx, cy).
func centeredOrigin(face font.Face, text string, cx, cy float64) fixed.Point26_6 {
	bounds, _ := font.BoundString(face, text)
	midX := (bounds.Min.X + bounds.Max.X) / 2
	midY := (bounds.Min.Y + bounds.Max.Y) / 2
	return fixed.Point26_6{
		X: fixed.Int26_6(cx*64) - midX,
		Y: fixed.Int26_6(cy*64) - midY,
	}
}

// drawOutlined stamps the text in the stroke colour at every offset within the stroke
// radius, then draws the fill on top.
func drawOutlined(dst draw.Image, face font.Face, text string, origin fixed.Point26_6, stroke int) {
	d := &font.Drawer{Dst: dst, Src: strokeColor, Face: face}
	for dy := -stroke; dy <= stroke; dy++ {
		for dx := -stroke; dx <= stroke; dx++ {
			if dx == 0 && dy == 0 || dx*dx+dy*dy > stroke*stroke {
				continue
			}
			d.Dot = fixed.Point26_6{X: origin.X + fixed.I(dx), Y: origin.Y + fixed.I(dy)}
			d.DrawString(text)
		}
	}
	d.Src = fillColor
	d.Dot = origin
	d.DrawString(text)
}
