package image

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	stdimage "image"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"
)

// SyntheticModelRef identifies assets produced by the offline backend.
const SyntheticModelRef = "synthetic/flat-jersey"

// SyntheticGenerator paints a flat placeholder jersey without calling any remote
// backend. It is used for local development and dry runs.
type SyntheticGenerator struct{}

func NewSyntheticGenerator() *SyntheticGenerator {
	return &SyntheticGenerator{}
}

// Generate fulfils the Generator interface. Output depends only on the request, so
// the same prompt and seed always render the same image.
func (s *SyntheticGenerator) Generate(ctx context.Context, req GenerateRequest) (*Asset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w, h := req.Width, req.Height
	if w <= 0 {
		w = 768
	}
	if h <= 0 {
		h = 768
	}
	body := jerseyColor(req)
	canvas := imaging.New(w, h, color.NRGBA{R: 0xe6, G: 0xe6, B: 0xe6, A: 0xff})

	torso := imaging.New(w*44/100, h*62/100, body)
	canvas = imaging.Paste(canvas, torso, stdimage.Pt(w*28/100, h*24/100))
	sleeve := imaging.New(w*16/100, h*18/100, body)
	canvas = imaging.Paste(canvas, sleeve, stdimage.Pt(w*13/100, h*24/100))
	canvas = imaging.Paste(canvas, sleeve, stdimage.Pt(w*71/100, h*24/100))
	collar := imaging.New(w*12/100, h*3/100, color.NRGBA{R: 0xe6, G: 0xe6, B: 0xe6, A: 0xff})
	canvas = imaging.Paste(canvas, collar, stdimage.Pt(w*44/100, h*24/100))

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, canvas, imaging.PNG); err != nil {
		return nil, fmt.Errorf("synthetic: encode: %w", err)
	}
	return &Asset{
		URL:      fmt.Sprintf("synthetic://%s", req.RequestID),
		Format:   "image/png",
		Width:    w,
		Height:   h,
		Data:     buf.Bytes(),
		ModelRef: SyntheticModelRef,
	}, nil
}

func jerseyColor(req GenerateRequest) color.NRGBA {
	seed := 0
	if req.Seed != nil {
		seed = *req.Seed
	}
	n := deterministicSeed(strings.TrimSpace(req.Prompt), seed)
	return color.NRGBA{
		R: uint8(40 + n%160),
		G: uint8(40 + (n/160)%160),
		B: uint8(40 + (n/25600)%160),
		A: 0xff,
	}
}

func deterministicSeed(values ...any) int {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, fmt.Sprint(v))
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return int(binary.BigEndian.Uint32(sum[:4]) % 2147483647)
}

var _ Generator = (*SyntheticGenerator)(nil)
