package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"uniformgen/internal/domain"
	"uniformgen/internal/http/handlers"
	"uniformgen/internal/pipeline"
)

type okPipeline struct{}

func (okPipeline) Generate(ctx context.Context, req domain.DesignRequest) (*pipeline.Result, error) {
	return &pipeline.Result{
		Message:           pipeline.SuccessMessage,
		GeneratedArtifact: domain.GeneratedArtifact{ImageURL: "http://localhost:8000/generated/x.png"},
		View:              domain.ViewFront,
	}, nil
}

func newTestRouter(t *testing.T) (http.Handler, string) {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "generated"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "generated", "x.png"), []byte("png"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	app := &handlers.App{Pipeline: okPipeline{}, Backend: "synthetic", Logger: zerolog.Nop()}
	return NewRouter(app, RouterOptions{
		Logger:          zerolog.Nop(),
		AllowedOrigins:  []string{"http://localhost:8081"},
		RateLimitPerMin: 1,
		StaticDir:       dir,
	}), dir
}

func TestRouterRoutes(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		method, path, body string
		want               int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodPost, "/generate-uniform", `{"keyword":"red","style":"button_up"}`, http.StatusOK},
		{http.MethodPost, "/generate-uniform", `{"keyword":"red","style":"button_up"}`, http.StatusTooManyRequests},
		{http.MethodGet, "/designs?user_id=u1", "", http.StatusServiceUnavailable},
		{http.MethodGet, "/generated/x.png", "", http.StatusOK},
		{http.MethodGet, "/generated/", "", http.StatusNotFound},
		{http.MethodGet, "/generated/missing.png", "", http.StatusNotFound},
	}
	for _, tc := range tests {
		req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
		req.RemoteAddr = "203.0.113.5:1234"
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != tc.want {
			t.Fatalf("%s %s = %d, want %d (%s)", tc.method, tc.path, rr.Code, tc.want, rr.Body.String())
		}
		if rr.Header().Get("X-Request-ID") == "" {
			t.Fatalf("%s %s missing X-Request-ID", tc.method, tc.path)
		}
	}
}

func TestRouterPreflight(t *testing.T) {
	router, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodOptions, "/generate-uniform", nil)
	req.Header.Set("Origin", "http://localhost:8081")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("preflight = %d", rr.Code)
	}
}
