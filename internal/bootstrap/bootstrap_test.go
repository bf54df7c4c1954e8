package bootstrap

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uniformgen/internal/domain"
	"uniformgen/internal/infra"
	"uniformgen/internal/pipeline"
	imageprov "uniformgen/internal/providers/image"
)

func TestNewBackendReplicateCandidates(t *testing.T) {
	cfg := &infra.Config{ImageBackend: infra.BackendReplicate, ReplicateAPIToken: "r8_x", ReplicateModel: "me/custom"}
	b, err := NewBackend(cfg, &infra.BackendConfig{Candidates: []string{"a/one", "b/two"}}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, []string{"me/custom", "a/one", "b/two"}, b.Candidates())
	assert.True(t, b.TokenLoaded)
	assert.NotNil(t, b.Client)

	b, err = NewBackend(&infra.Config{ImageBackend: infra.BackendReplicate, ReplicateAPIToken: "r8_x"}, nil, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, imageprov.DefaultCandidates, b.Candidates())
}

func TestNewBackendSynthetic(t *testing.T) {
	b, err := NewBackend(&infra.Config{ImageBackend: infra.BackendSynthetic}, nil, zerolog.Nop())
	require.NoError(t, err)
	assert.Nil(t, b.Resolver)
	assert.Nil(t, b.Candidates())
	assert.False(t, b.TokenLoaded)

	_, err = NewBackend(&infra.Config{ImageBackend: "other"}, nil, zerolog.Nop())
	assert.Error(t, err)
}

func TestNewStackGeneratesSyntheticDesign(t *testing.T) {
	t.Setenv("INFERENCE_STEPS", "")
	t.Setenv("INFERENCE_GUIDANCE", "")
	cfg := &infra.Config{
		ImageBackend:   infra.BackendSynthetic,
		StoragePath:    t.TempDir(),
		StorageBaseURL: "http://localhost:8000",
	}
	stack, err := NewStack(cfg, zerolog.Nop(), pipeline.Options{})
	require.NoError(t, err)

	res, err := stack.Pipeline.Generate(context.Background(), domain.DesignRequest{
		Keyword:        "blue dragons",
		Style:          domain.StyleLongSleeve,
		PlayerName:     "park",
		PlayerNumber:   "10",
		NamePosition:   domain.PositionFrontLeft,
		NumberPosition: domain.PositionFrontCenter,
		Uppercase:      true,
		Params:         domain.InferenceParams{Width: 256, Height: 256},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ViewFront, res.View)
	assert.Equal(t, imageprov.SyntheticModelRef, res.ModelRef)
	assert.True(t, strings.HasPrefix(res.ImageURL, "http://localhost:8000/generated/"))

	data, err := stack.Store.Read(context.Background(), res.StorageKey)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
