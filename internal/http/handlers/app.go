package handlers

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"uniformgen/internal/domain"
	"uniformgen/internal/infra/geoip"
	"uniformgen/internal/pipeline"
	imageprov "uniformgen/internal/providers/image"
)

// Generator runs a design request end to end.
type Generator interface {
	Generate(ctx context.Context, req domain.DesignRequest) (*pipeline.Result, error)
}

// ModelStatus reports the candidate list and the memoized model, if any.
type ModelStatus interface {
	Candidates() []string
	Current() (imageprov.ModelRef, bool)
}

// FileReader loads stored artifacts for archive downloads.
type FileReader interface {
	Read(ctx context.Context, key string) ([]byte, error)
}

// App carries the handler dependencies. Designs, Files, Models and GeoIP are optional.
type App struct {
	Pipeline    Generator
	Designs     domain.DesignRepository
	Files       FileReader
	Models      ModelStatus
	GeoIP       geoip.CountryResolver
	Backend     string
	TokenLoaded bool
	Logger      zerolog.Logger
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, msg string) {
	a.json(w, status, errorResponse{Error: msg, Code: code})
}

func (a *App) country(r *http.Request) string {
	if a.GeoIP == nil {
		return ""
	}
	return geoip.Lookup(a.GeoIP, remoteIP(r))
}

// remoteIP strips the port chi's RealIP middleware may leave on RemoteAddr.
func remoteIP(r *http.Request) string {
	addr := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
