package image

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	stdimage "image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/rs/zerolog"

	"uniformgen/internal/domain"
)

type refResolver interface {
	Resolve(ctx context.Context) (ModelRef, error)
}

type predictor interface {
	Run(ctx context.Context, version string, input map[string]any) (json.RawMessage, error)
	Download(ctx context.Context, url string) ([]byte, string, error)
}

// ReplicateGenerator runs the resolved model on Replicate and downloads the result.
type ReplicateGenerator struct {
	resolver refResolver
	client   predictor
	logger   zerolog.Logger
}

// NewReplicateGenerator wires a model resolver with a prediction client.
func NewReplicateGenerator(resolver refResolver, client predictor, logger zerolog.Logger) *ReplicateGenerator {
	return &ReplicateGenerator{resolver: resolver, client: client, logger: logger}
}

// Generate fulfils the Generator interface. The inference call is not retried.
func (g *ReplicateGenerator) Generate(ctx context.Context, req GenerateRequest) (*Asset, error) {
	if g == nil || g.resolver == nil || g.client == nil {
		return nil, fmt.Errorf("%w: replicate generator not configured", domain.ErrInferenceFailure)
	}
	ref, err := g.resolver.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := g.client.Run(ctx, ref.Version, predictionInput(req))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrInferenceFailure, ref, err)
	}
	locator, err := ExtractImageURL(raw)
	if err != nil {
		g.logger.Error().RawJSON("output", rawOrNull(raw)).Str("model_ref", ref.String()).Msg("replicate: unrecognised output")
		return nil, err
	}
	data, mime, err := g.client.Download(ctx, locator)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInferenceFailure, err)
	}
	asset := &Asset{
		URL:      locator,
		Format:   normalizeFormat(mime),
		Data:     data,
		ModelRef: ref.String(),
		Width:    req.Width,
		Height:   req.Height,
	}
	if cfg, _, err := stdimage.DecodeConfig(bytes.NewReader(data)); err == nil {
		asset.Width, asset.Height = cfg.Width, cfg.Height
	}
	g.logger.Debug().
		Str("model_ref", asset.ModelRef).
		Str("request_id", req.RequestID).
		Int("width", asset.Width).
		Int("height", asset.Height).
		Msg("replicate: generated base image")
	return asset, nil
}

func predictionInput(req GenerateRequest) map[string]any {
	input := map[string]any{
		"prompt":              req.Prompt,
		"negative_prompt":     req.NegativePrompt,
		"num_inference_steps": req.Steps,
		"guidance_scale":      req.Guidance,
		"width":               req.Width,
		"height":              req.Height,
		"num_outputs":         1,
	}
	if req.Seed != nil {
		input["seed"] = *req.Seed
	}
	return input
}

func rawOrNull(raw json.RawMessage) []byte {
	if len(raw) == 0 || !json.Valid(raw) {
		return []byte("null")
	}
	return raw
}

var _ Generator = (*ReplicateGenerator)(nil)
