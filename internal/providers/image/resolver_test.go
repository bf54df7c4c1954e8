package image

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"uniformgen/internal/domain"
	"uniformgen/internal/providers/replicate"
)

type stubCatalog struct {
	mu       sync.Mutex
	versions map[string][]replicate.Version
	errs     map[string]error
	calls    []string
}

func (s *stubCatalog) ListVersions(ctx context.Context, slug string) ([]replicate.Version, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, slug)
	if err := s.errs[slug]; err != nil {
		return nil, err
	}
	return s.versions[slug], nil
}

func (s *stubCatalog) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func TestResolveVersionedRefUsesNewestVersion(t *testing.T) {
	catalog := &stubCatalog{versions: map[string][]replicate.Version{
		"stability-ai/sdxl": {{ID: "new"}, {ID: "old"}},
	}}
	ref, err := ResolveVersionedRef(context.Background(), catalog, "stability-ai/sdxl")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.String() != "stability-ai/sdxl:new" {
		t.Fatalf("ref = %s, want stability-ai/sdxl:new", ref)
	}
}

func TestResolveVersionedRefWithoutVersions(t *testing.T) {
	catalog := &stubCatalog{versions: map[string][]replicate.Version{}}
	_, err := ResolveVersionedRef(context.Background(), catalog, "owner/private")
	if !errors.Is(err, domain.ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
}

func TestResolveVersionedRefPinnedSkipsLookup(t *testing.T) {
	catalog := &stubCatalog{}
	ref, err := ResolveVersionedRef(context.Background(), catalog, "owner/model:abc123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Version != "abc123" || catalog.callCount() != 0 {
		t.Fatalf("ref = %#v, calls = %d", ref, catalog.callCount())
	}
}

func TestFirstWorkingModelRefSkipsFailures(t *testing.T) {
	catalog := &stubCatalog{
		versions: map[string][]replicate.Version{"owner/b": {{ID: "vb"}}},
		errs: map[string]error{
			"owner/a": errors.New("status 404: Not found."),
			"owner/c": errors.New("should not be called"),
		},
	}
	var logs bytes.Buffer
	logger := zerolog.New(&logs)

	ref, failures, err := FirstWorkingModelRef(context.Background(), catalog, []string{"owner/a", "owner/b", "owner/c"}, logger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.String() != "owner/b:vb" {
		t.Fatalf("ref = %s, want owner/b:vb", ref)
	}
	if len(failures) != 1 || failures[0].Name != "owner/a" {
		t.Fatalf("failures = %#v, want exactly one for owner/a", failures)
	}
	if !errors.Is(failures[0].Err, domain.ErrBackendUnavailable) {
		t.Fatalf("failure should wrap ErrBackendUnavailable: %v", failures[0].Err)
	}
	if got := strings.Count(logs.String(), `"model":"owner/a"`); got != 1 {
		t.Fatalf("log entries for owner/a = %d, want 1\n%s", got, logs.String())
	}
	if strings.Contains(logs.String(), "owner/c") {
		t.Fatalf("owner/c must not be attempted after a success")
	}
	if len(catalog.calls) != 2 {
		t.Fatalf("catalog calls = %v", catalog.calls)
	}
}

func TestFirstWorkingModelRefAggregatesFailures(t *testing.T) {
	catalog := &stubCatalog{errs: map[string]error{
		"owner/a": errors.New("reason-a"),
		"owner/b": errors.New("reason-b"),
	}}
	_, failures, err := FirstWorkingModelRef(context.Background(), catalog, []string{"owner/a", "owner/b", "owner/c"}, zerolog.Nop())
	if !errors.Is(err, domain.ErrNoUsableModel) {
		t.Fatalf("expected ErrNoUsableModel, got %v", err)
	}
	if !errors.Is(err, domain.ErrBackendUnavailable) {
		t.Fatalf("aggregate should expose per-candidate causes: %v", err)
	}
	if len(failures) != 3 {
		t.Fatalf("failures = %d, want 3", len(failures))
	}
	msg := err.Error()
	ia, ib, ic := strings.Index(msg, "reason-a"), strings.Index(msg, "reason-b"), strings.Index(msg, "owner/c: ")
	if ia < 0 || ib < 0 || ic < 0 {
		t.Fatalf("message missing a failure reason: %s", msg)
	}
	if !(ia < ib && ib < ic) {
		t.Fatalf("failures out of attempt order: %s", msg)
	}
	if !strings.Contains(msg, "no versions listed") {
		t.Fatalf("owner/c reason missing: %s", msg)
	}
}

func TestResolverMemoizesSuccessOnly(t *testing.T) {
	catalog := &stubCatalog{errs: map[string]error{"owner/a": errors.New("temporarily down")}}
	resolver := NewResolver(catalog, []string{"owner/a"}, zerolog.Nop())

	if _, err := resolver.Resolve(context.Background()); err == nil {
		t.Fatalf("expected first resolution to fail")
	}
	if _, ok := resolver.Current(); ok {
		t.Fatalf("failure must not be cached")
	}

	catalog.mu.Lock()
	catalog.errs = nil
	catalog.versions = map[string][]replicate.Version{"owner/a": {{ID: "v1"}}}
	catalog.mu.Unlock()

	ref, err := resolver.Resolve(context.Background())
	if err != nil {
		t.Fatalf("second resolution: %v", err)
	}
	if ref.String() != "owner/a:v1" {
		t.Fatalf("ref = %s", ref)
	}
	before := catalog.callCount()
	if _, err := resolver.Resolve(context.Background()); err != nil {
		t.Fatalf("memoized resolution: %v", err)
	}
	if catalog.callCount() != before {
		t.Fatalf("memoized resolve should not hit the catalog again")
	}
}

func TestResolverConcurrentCallers(t *testing.T) {
	catalog := &stubCatalog{versions: map[string][]replicate.Version{"owner/a": {{ID: "v1"}}}}
	resolver := NewResolver(catalog, []string{"owner/a"}, zerolog.Nop())

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ref, err := resolver.Resolve(context.Background())
			if err == nil && ref.Version != "v1" {
				err = fmt.Errorf("unexpected ref %s", ref)
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
	}
	if got := resolver.Candidates(); len(got) != 1 || got[0] != "owner/a" {
		t.Fatalf("candidates = %v", got)
	}
}

func TestCandidateListPrependsOverride(t *testing.T) {
	got := CandidateList(" custom/model ", DefaultCandidates)
	want := append([]string{"custom/model"}, DefaultCandidates...)
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("candidates = %v, want %v", got, want)
	}
	dedup := CandidateList("stability-ai/sdxl", DefaultCandidates)
	if dedup[0] != "stability-ai/sdxl" || len(dedup) != len(DefaultCandidates) {
		t.Fatalf("override should move to front without duplicates: %v", dedup)
	}
	if got := CandidateList("", DefaultCandidates); len(got) != len(DefaultCandidates) {
		t.Fatalf("empty override changed list: %v", got)
	}
}

func TestParseModelRef(t *testing.T) {
	ref, err := ParseModelRef("owner/name:ver")
	if err != nil || ref.Owner != "owner" || ref.Name != "name" || ref.Version != "ver" {
		t.Fatalf("ParseModelRef = %#v, %v", ref, err)
	}
	if _, err := ParseModelRef("bad"); err == nil {
		t.Fatalf("expected error for identifier without owner")
	}
}

// gatedCatalog blocks ListVersions until release is closed and honours ctx while
// waiting, the way the HTTP client does.
type gatedCatalog struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
	calls   int32
	mu      sync.Mutex
}

func (g *gatedCatalog) ListVersions(ctx context.Context, slug string) ([]replicate.Version, error) {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()
	g.once.Do(func() { close(g.entered) })
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-g.release:
		return []replicate.Version{{ID: "v1"}}, nil
	}
}

func TestResolverCancelledCallerDoesNotFailOthers(t *testing.T) {
	catalog := &gatedCatalog{entered: make(chan struct{}), release: make(chan struct{})}
	resolver := NewResolver(catalog, []string{"owner/a"}, zerolog.Nop())

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := resolver.Resolve(ctxA)
		errA <- err
	}()
	<-catalog.entered

	type result struct {
		ref ModelRef
		err error
	}
	resB := make(chan result, 1)
	go func() {
		ref, err := resolver.Resolve(context.Background())
		resB <- result{ref, err}
	}()

	cancelA()
	if err := <-errA; !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled caller err = %v, want context.Canceled", err)
	}

	close(catalog.release)
	b := <-resB
	if b.err != nil {
		t.Fatalf("other caller failed: %v", b.err)
	}
	if b.ref.String() != "owner/a:v1" {
		t.Fatalf("ref = %s", b.ref)
	}
	if ref, ok := resolver.Current(); !ok || ref.Version != "v1" {
		t.Fatalf("resolution not memoized: %v %v", ref, ok)
	}
	catalog.mu.Lock()
	defer catalog.mu.Unlock()
	if catalog.calls != 1 {
		t.Fatalf("catalog calls = %d, want 1", catalog.calls)
	}
}

func TestResolverPassHonoursTimeout(t *testing.T) {
	catalog := &gatedCatalog{entered: make(chan struct{}), release: make(chan struct{})}
	defer close(catalog.release)
	resolver := NewResolver(catalog, []string{"owner/a"}, zerolog.Nop())
	resolver.ResolveTimeout = 20 * time.Millisecond

	_, err := resolver.Resolve(context.Background())
	if !errors.Is(err, domain.ErrNoUsableModel) {
		t.Fatalf("expected ErrNoUsableModel after timeout, got %v", err)
	}
	if _, ok := resolver.Current(); ok {
		t.Fatalf("timed out pass must not be cached")
	}
}
