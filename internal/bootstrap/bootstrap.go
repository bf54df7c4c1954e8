// Package bootstrap assembles the generation stack from configuration. It is shared by
// the API server and the uniformctl CLI.
package bootstrap

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"uniformgen/internal/infra"
	"uniformgen/internal/overlay"
	"uniformgen/internal/pipeline"
	imageprov "uniformgen/internal/providers/image"
	"uniformgen/internal/providers/replicate"
	"uniformgen/internal/storage"
)

// Backend is the configured inference backend. Resolver and Client are nil for the
// synthetic backend.
type Backend struct {
	Name        string
	Generator   imageprov.Generator
	Resolver    *imageprov.Resolver
	Client      *replicate.Client
	TokenLoaded bool
}

// Candidates returns the model candidate list, or nil for backends without one.
func (b *Backend) Candidates() []string {
	if b == nil || b.Resolver == nil {
		return nil
	}
	return b.Resolver.Candidates()
}

// NewBackend builds the generator selected by IMAGE_BACKEND. The candidate list is
// fixed here for the life of the process: REPLICATE_MODEL first, then the backend file
// candidates or the built-in defaults.
func NewBackend(cfg *infra.Config, backendCfg *infra.BackendConfig, logger infra.Logger) (*Backend, error) {
	switch cfg.ImageBackend {
	case infra.BackendSynthetic:
		return &Backend{
			Name:        infra.BackendSynthetic,
			Generator:   imageprov.NewSyntheticGenerator(),
			TokenLoaded: cfg.ReplicateAPIToken != "",
		}, nil
	case infra.BackendReplicate:
		client := replicate.NewClient(replicate.Options{
			APIToken:       cfg.ReplicateAPIToken,
			BaseURL:        cfg.ReplicateBaseURL,
			HTTPClient:     &http.Client{Timeout: 90 * time.Second},
			Logger:         &logger,
			RequestTimeout: 90 * time.Second,
		})
		defaults := imageprov.DefaultCandidates
		if backendCfg != nil && len(backendCfg.Candidates) > 0 {
			defaults = backendCfg.Candidates
		}
		resolver := imageprov.NewResolver(client, imageprov.CandidateList(cfg.ReplicateModel, defaults), logger)
		return &Backend{
			Name:        infra.BackendReplicate,
			Generator:   imageprov.NewReplicateGenerator(resolver, client, logger),
			Resolver:    resolver,
			Client:      client,
			TokenLoaded: client.HasCredentials(),
		}, nil
	default:
		return nil, fmt.Errorf("unsupported image backend %q", cfg.ImageBackend)
	}
}

// NewFileStore resolves the storage path to an absolute directory and opens it.
func NewFileStore(cfg *infra.Config) (*storage.FileStore, error) {
	storagePath := cfg.StoragePath
	if storagePath == "" {
		storagePath = "./data"
	}
	if !filepath.IsAbs(storagePath) {
		if abs, err := filepath.Abs(storagePath); err == nil {
			storagePath = abs
		}
	}
	return storage.NewFileStore(storagePath, cfg.StorageBaseURL)
}

// Stack is everything a generation run needs.
type Stack struct {
	Config   *infra.Config
	Backend  *Backend
	Store    *storage.FileStore
	Fonts    *overlay.Fonts
	Pipeline *pipeline.Pipeline
}

// NewStack wires config, backend, storage, fonts and the pipeline. History is attached
// by the caller through opts.Designs when a database is configured.
func NewStack(cfg *infra.Config, logger infra.Logger, opts pipeline.Options) (*Stack, error) {
	backendCfg, err := infra.LoadBackendConfig(cfg.BackendConfigPath)
	if err != nil {
		return nil, err
	}
	backend, err := NewBackend(cfg, backendCfg, logger)
	if err != nil {
		return nil, err
	}
	store, err := NewFileStore(cfg)
	if err != nil {
		return nil, err
	}
	fonts, err := overlay.LoadFonts(cfg.OverlayFontPath)
	if err != nil {
		return nil, err
	}

	opts.Generator = backend.Generator
	opts.Store = store
	opts.Compositor = overlay.NewCompositor(fonts)
	opts.Defaults = backendCfg.Params()
	opts.InferenceTimeout = cfg.InferenceTimeout
	opts.Logger = logger
	p, err := pipeline.New(opts)
	if err != nil {
		return nil, err
	}
	return &Stack{Config: cfg, Backend: backend, Store: store, Fonts: fonts, Pipeline: p}, nil
}
