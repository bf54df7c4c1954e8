package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"uniformgen/internal/http/handlers"
	"uniformgen/internal/middleware"
	"uniformgen/internal/storage"
)

// RouterOptions configures the HTTP surface.
type RouterOptions struct {
	Logger          zerolog.Logger
	AllowedOrigins  []string
	RateLimitPerMin int
	// StaticDir is the artifact root; files under it are served at /generated/.
	StaticDir string
}

func NewRouter(app *handlers.App, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(opts.Logger),
		middleware.CORS(opts.AllowedOrigins),
	)

	r.Get("/health", app.Health)

	r.With(middleware.RateLimit(opts.RateLimitPerMin, time.Minute)).
		Post("/generate-uniform", app.GenerateUniform)

	r.Route("/designs", func(r chi.Router) {
		r.Get("/", app.ListDesigns)
		r.Get("/archive", app.ArchiveDesigns)
	})

	if opts.StaticDir != "" {
		prefix := "/" + storage.ArtifactPrefix + "/"
		files := http.FileServer(http.Dir(opts.StaticDir + "/" + storage.ArtifactPrefix))
		r.Handle(prefix+"*", http.StripPrefix(prefix, noDirListing(files)))
	}

	return r
}

// noDirListing hides directory indexes of the artifact folder.
func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || r.URL.Path[len(r.URL.Path)-1] == '/' {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
