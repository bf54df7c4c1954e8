package image

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"uniformgen/internal/domain"
	"uniformgen/internal/providers/replicate"
	"uniformgen/pkg/fallback"
)

// DefaultCandidates are tried in order when no override is configured.
var DefaultCandidates = []string{
	"stability-ai/stable-diffusion",
	"stability-ai/sdxl",
	"runwayml/stable-diffusion-v1-5",
}

// ModelCatalog lists the published versions of a model identifier.
type ModelCatalog interface {
	ListVersions(ctx context.Context, slug string) ([]replicate.Version, error)
}

// ModelRef is a fully versioned backend reference.
type ModelRef struct {
	Owner   string
	Name    string
	Version string
}

// Slug returns the owner/name identifier without the version.
func (r ModelRef) Slug() string {
	return r.Owner + "/" + r.Name
}

func (r ModelRef) String() string {
	if r.Version == "" {
		return r.Slug()
	}
	return r.Slug() + ":" + r.Version
}

// IsZero reports whether the reference is unset.
func (r ModelRef) IsZero() bool {
	return r.Owner == "" && r.Name == "" && r.Version == ""
}

// ParseModelRef parses "owner/name" or "owner/name:version".
func ParseModelRef(raw string) (ModelRef, error) {
	raw = strings.TrimSpace(raw)
	slug, version, _ := strings.Cut(raw, ":")
	owner, name, ok := strings.Cut(slug, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return ModelRef{}, fmt.Errorf("invalid model identifier %q", raw)
	}
	return ModelRef{Owner: owner, Name: name, Version: strings.TrimSpace(version)}, nil
}

// CandidateList builds the ordered candidate list: the override (if any) first, then
// the defaults, without duplicates.
func CandidateList(override string, defaults []string) []string {
	seen := make(map[string]struct{}, len(defaults)+1)
	out := make([]string, 0, len(defaults)+1)
	add := func(id string) {
		id = strings.TrimSpace(id)
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	add(override)
	for _, id := range defaults {
		add(id)
	}
	return out
}

// ResolveVersionedRef finds the newest version of modelID. Identifiers that already
// pin a version are returned as is. A backend that lists no versions (or refuses to
// list them) yields domain.ErrBackendUnavailable.
func ResolveVersionedRef(ctx context.Context, catalog ModelCatalog, modelID string) (ModelRef, error) {
	ref, err := ParseModelRef(modelID)
	if err != nil {
		return ModelRef{}, fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	if ref.Version != "" {
		return ref, nil
	}
	versions, err := catalog.ListVersions(ctx, ref.Slug())
	if err != nil {
		return ModelRef{}, fmt.Errorf("%w: list versions: %v", domain.ErrBackendUnavailable, err)
	}
	if len(versions) == 0 || strings.TrimSpace(versions[0].ID) == "" {
		return ModelRef{}, fmt.Errorf("%w: no versions listed", domain.ErrBackendUnavailable)
	}
	ref.Version = versions[0].ID
	return ref, nil
}

// FirstWorkingModelRef tries the candidates in order, once each, and returns the first
// reference that resolves along with the failures that preceded it. When all of them
// fail the error wraps domain.ErrNoUsableModel and lists every reason in attempt order.
func FirstWorkingModelRef(ctx context.Context, catalog ModelCatalog, candidates []string, logger zerolog.Logger) (ModelRef, []fallback.Failure, error) {
	attempts := make([]fallback.Attempt[ModelRef], len(candidates))
	for i, id := range candidates {
		id := id
		attempts[i] = fallback.Attempt[ModelRef]{
			Name: id,
			Run: func(ctx context.Context) (ModelRef, error) {
				return ResolveVersionedRef(ctx, catalog, id)
			},
		}
	}
	ref, failures, err := fallback.First(ctx, attempts, func(name string, err error) {
		if err != nil {
			logger.Warn().Err(err).Str("model", name).Msg("model: resolution failed")
			return
		}
		logger.Info().Str("model", name).Msg("model: resolved")
	})
	if err != nil {
		return ModelRef{}, failures, fmt.Errorf("%w: every candidate failed version resolution, set REPLICATE_MODEL to a model that lists its versions:\n%w", domain.ErrNoUsableModel, err)
	}
	logger.Info().Str("model_ref", ref.String()).Int("failed_candidates", len(failures)).Msg("model: using reference")
	return ref, failures, nil
}

// Resolver memoizes the first working model reference for the lifetime of the
// process. Failures are never cached, so a later call (or a restart) resolves again.
type Resolver struct {
	catalog    ModelCatalog
	candidates []string
	logger     zerolog.Logger

	// ResolveTimeout bounds one shared resolution pass.
	ResolveTimeout time.Duration

	group singleflight.Group
	mu    sync.RWMutex
	ref   ModelRef
}

// DefaultResolveTimeout bounds a shared resolution pass when ResolveTimeout is unset.
const DefaultResolveTimeout = 60 * time.Second

// NewResolver copies the candidate list; it is immutable afterwards.
func NewResolver(catalog ModelCatalog, candidates []string, logger zerolog.Logger) *Resolver {
	return &Resolver{
		catalog:    catalog,
		candidates: append([]string(nil), candidates...),
		logger:     logger,

		ResolveTimeout: DefaultResolveTimeout,
	}
}

// Candidates returns a copy of the ordered candidate list.
func (r *Resolver) Candidates() []string {
	return append([]string(nil), r.candidates...)
}

// Current returns the memoized reference, if any.
func (r *Resolver) Current() (ModelRef, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ref, !r.ref.IsZero()
}

// Resolve returns the memoized reference or resolves it. Concurrent callers share a
// single resolution pass that is detached from any one caller's cancellation; a caller
// whose ctx ends stops waiting and gets ctx.Err() while the pass continues for the rest.
func (r *Resolver) Resolve(ctx context.Context) (ModelRef, error) {
	if ref, ok := r.Current(); ok {
		return ref, nil
	}
	ch := r.group.DoChan("resolve", func() (any, error) {
		if ref, ok := r.Current(); ok {
			return ref, nil
		}
		timeout := r.ResolveTimeout
		if timeout <= 0 {
			timeout = DefaultResolveTimeout
		}
		passCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()
		ref, _, err := FirstWorkingModelRef(passCtx, r.catalog, r.candidates, r.logger)
		if err != nil {
			return ModelRef{}, err
		}
		r.mu.Lock()
		r.ref = ref
		r.mu.Unlock()
		return ref, nil
	})
	select {
	case <-ctx.Done():
		return ModelRef{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return ModelRef{}, res.Err
		}
		return res.Val.(ModelRef), nil
	}
}
