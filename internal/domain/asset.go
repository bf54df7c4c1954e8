package domain

import (
	"image"
	"time"
)

// GeneratedArtifact is the composited uniform image produced for one request.
// Artifacts are written once under a unique key and never overwritten or deleted here.
type GeneratedArtifact struct {
	Image      image.Image
	StorageKey string
	ImageURL   string
	MIME       string
	Bytes      int
}

// DesignRecord is the persisted history entry for a generated design.
type DesignRecord struct {
	ID           string
	UserID       string
	Keyword      string
	Style        string
	Sport        string
	View         string
	PlayerName   string
	PlayerNumber string
	Prompt       string
	ModelRef     string
	StorageKey   string
	ImageURL     string
	Country      string
	Width        int
	Height       int
	CreatedAt    time.Time
}
