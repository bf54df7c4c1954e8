package image

import (
	"context"
	"strings"
)

// GenerateRequest describes a normalized request passed to any image backend.
type GenerateRequest struct {
	Prompt         string
	NegativePrompt string
	Steps          int
	Guidance       float64
	Width          int
	Height         int
	Seed           *int
	RequestID      string
}

// Asset is the raw base image returned by a backend, before any overlay.
type Asset struct {
	URL      string
	Format   string
	Width    int
	Height   int
	Data     []byte
	ModelRef string
}

// Generator is the contract implemented by all image backends.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (*Asset, error)
}

func normalizeFormat(mime string) string {
	mime = strings.ToLower(strings.TrimSpace(mime))
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	switch mime {
	case "image/jpeg", "image/jpg":
		return "image/jpeg"
	case "image/png":
		return "image/png"
	default:
		if strings.HasPrefix(mime, "image/") {
			return mime
		}
		return "image/png"
	}
}
