package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"uniformgen/internal/adapter/repo"
	"uniformgen/internal/bootstrap"
	"uniformgen/internal/http/handlers"
	httpapi "uniformgen/internal/http/httpapi"
	"uniformgen/internal/infra"
	"uniformgen/internal/infra/geoip"
	"uniformgen/internal/pipeline"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var designs *repo.DesignRepositoryPG
	if cfg.HasDatabase() {
		pool, err := infra.NewDBPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("api: database connection failed")
		}
		defer pool.Close()
		designs = repo.NewDesignRepository(infra.NewSQLRunner(pool, logger))
		if err := designs.EnsureSchema(ctx); err != nil {
			logger.Fatal().Err(err).Msg("api: schema setup failed")
		}
	} else {
		logger.Warn().Msg("api: DATABASE_URL not set, design history disabled")
	}

	opts := pipeline.Options{}
	if designs != nil {
		opts.Designs = designs
	}
	stack, err := bootstrap.NewStack(cfg, logger, opts)
	if err != nil {
		logger.Fatal().Err(err).Msg("api: failed to build generation stack")
	}

	countries, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("api: geoip disabled")
	}
	defer countries.Close()

	app := &handlers.App{
		Pipeline:    stack.Pipeline,
		Files:       stack.Store,
		Backend:     stack.Backend.Name,
		TokenLoaded: stack.Backend.TokenLoaded,
		Logger:      logger,
	}
	if designs != nil {
		app.Designs = designs
	}
	if stack.Backend.Resolver != nil {
		app.Models = stack.Backend.Resolver
	}
	if countries != nil {
		app.GeoIP = countries
	}

	router := httpapi.NewRouter(app, httpapi.RouterOptions{
		Logger:          logger,
		AllowedOrigins:  cfg.CORSAllowedOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
		StaticDir:       stack.Store.BasePath(),
	})
	server := infra.NewHTTPServer(cfg, router)

	logger.Info().
		Str("backend", stack.Backend.Name).
		Strs("candidates", stack.Backend.Candidates()).
		Str("font", stack.Fonts.Name()).
		Str("storage", stack.Store.BasePath()).
		Msgf("API listening on %s", server.Addr())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(gctx)
	})
	if stack.Backend.Resolver != nil {
		// Warm the model cache; a failure here is retried on the first request.
		g.Go(func() error {
			if _, err := stack.Backend.Resolver.Resolve(gctx); err != nil {
				logger.Warn().Err(err).Msg("api: model warm-up failed")
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("http server failed")
	}
	logger.Info().Msg("server stopped")
}
