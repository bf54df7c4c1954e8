// Package pipeline runs one uniform design request end to end: plan, generate,
// overlay, store and record.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"uniformgen/internal/designer"
	"uniformgen/internal/domain"
	"uniformgen/internal/overlay"
	imageprov "uniformgen/internal/providers/image"
	"uniformgen/internal/storage"
)

// SuccessMessage is returned to clients with every generated design.
const SuccessMessage = "이미지 생성이 완료되었습니다."

// ArtifactStore writes finished images. Create must never overwrite an existing key.
type ArtifactStore interface {
	Create(ctx context.Context, key string, data []byte) (string, error)
	URL(key string) string
}

// Options wires the pipeline collaborators. Designs is optional.
type Options struct {
	Generator        imageprov.Generator
	Store            ArtifactStore
	Compositor       *overlay.Compositor
	Designs          domain.DesignRepository
	Defaults         domain.InferenceParams
	InferenceTimeout time.Duration
	Logger           zerolog.Logger
}

// Pipeline is safe for concurrent use; every call works on its own request.
type Pipeline struct {
	opts Options
}

// Result describes a generated design.
type Result struct {
	domain.GeneratedArtifact

	Message  string
	ModelRef string
	Prompt   domain.PromptBundle
	View     domain.View
	Width    int
	Height   int
	Record   *domain.DesignRecord
}

func New(opts Options) (*Pipeline, error) {
	if opts.Generator == nil {
		return nil, errors.New("pipeline: generator is required")
	}
	if opts.Store == nil {
		return nil, errors.New("pipeline: artifact store is required")
	}
	if opts.Compositor == nil {
		return nil, errors.New("pipeline: compositor is required")
	}
	return &Pipeline{opts: opts}, nil
}

// Prepare normalizes and validates the request and compiles its plan without calling
// any backend.
func (p *Pipeline) Prepare(req domain.DesignRequest) (domain.DesignRequest, designer.Plan, error) {
	req = req.WithDefaults(p.opts.Defaults)
	if err := req.Validate(); err != nil {
		return req, designer.Plan{}, err
	}
	return req, designer.NewPlan(req), nil
}

// Generate produces, stores and records one composited uniform image.
func (p *Pipeline) Generate(ctx context.Context, req domain.DesignRequest) (*Result, error) {
	req, plan, err := p.Prepare(req)
	if err != nil {
		return nil, err
	}
	logger := p.opts.Logger.With().
		Str("request_id", req.RequestID).
		Str("view", plan.View.String()).
		Str("style", req.Style.String()).
		Logger()

	asset, err := p.generate(ctx, req, plan)
	if err != nil {
		logger.Error().Err(err).Msg("pipeline: generation failed")
		return nil, err
	}
	base, err := imaging.Decode(bytes.NewReader(asset.Data))
	if err != nil {
		return nil, fmt.Errorf("%w: decode base image from %s: %w", domain.ErrInferenceFailure, asset.ModelRef, err)
	}

	composed, err := p.opts.Compositor.Apply(base, overlay.Spec{
		Name:           displayName(req.PlayerName, req.Uppercase),
		Number:         req.PlayerNumber,
		NamePosition:   req.NamePosition,
		NumberPosition: req.NumberPosition,
		View:           plan.View,
	})
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, composed, imaging.PNG); err != nil {
		return nil, fmt.Errorf("%w: encode png: %w", domain.ErrStorage, err)
	}
	key, err := p.opts.Store.Create(ctx, storage.NewArtifactKey("png"), buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStorage, err)
	}

	bounds := composed.Bounds()
	res := &Result{
		GeneratedArtifact: domain.GeneratedArtifact{
			Image:      composed,
			StorageKey: key,
			ImageURL:   p.opts.Store.URL(key),
			MIME:       "image/png",
			Bytes:      buf.Len(),
		},
		Message:  SuccessMessage,
		ModelRef: asset.ModelRef,
		Prompt:   plan.Prompt,
		View:     plan.View,
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
	}
	res.Record = p.record(ctx, logger, req, res)
	logger.Info().
		Str("model_ref", res.ModelRef).
		Str("storage_key", key).
		Int("bytes", buf.Len()).
		Msg("pipeline: design generated")
	return res, nil
}

func (p *Pipeline) generate(ctx context.Context, req domain.DesignRequest, plan designer.Plan) (*imageprov.Asset, error) {
	if p.opts.InferenceTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.InferenceTimeout)
		defer cancel()
	}
	return p.opts.Generator.Generate(ctx, imageprov.GenerateRequest{
		Prompt:         plan.Prompt.Positive,
		NegativePrompt: plan.Prompt.Negative,
		Steps:          req.Params.Steps,
		Guidance:       req.Params.Guidance,
		Width:          req.Params.Width,
		Height:         req.Params.Height,
		Seed:           req.Params.Seed,
		RequestID:      req.RequestID,
	})
}

// record persists the history entry. Failures are logged and do not fail the request
// because the artifact is already stored.
func (p *Pipeline) record(ctx context.Context, logger zerolog.Logger, req domain.DesignRequest, res *Result) *domain.DesignRecord {
	if p.opts.Designs == nil {
		return nil
	}
	rec := &domain.DesignRecord{
		UserID:       req.UserID,
		Keyword:      req.Keyword,
		Style:        req.Style.String(),
		Sport:        req.Sport,
		View:         res.View.String(),
		PlayerName:   req.PlayerName,
		PlayerNumber: req.PlayerNumber,
		Prompt:       res.Prompt.Positive,
		ModelRef:     res.ModelRef,
		StorageKey:   res.StorageKey,
		ImageURL:     res.ImageURL,
		Country:      req.Country,
		Width:        res.Width,
		Height:       res.Height,
	}
	if err := p.opts.Designs.Save(ctx, rec); err != nil {
		logger.Warn().Err(err).Str("storage_key", res.StorageKey).Msg("pipeline: design history not saved")
		return nil
	}
	return rec
}

func displayName(name string, uppercase bool) string {
	if !uppercase {
		return name
	}
	return cases.Upper(language.Und).String(name)
}
