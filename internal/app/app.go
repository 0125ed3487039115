package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/meadowmath/meadowmath-backend/internal/auth"
	"github.com/meadowmath/meadowmath-backend/internal/config"
	"github.com/meadowmath/meadowmath-backend/internal/content"
	"github.com/meadowmath/meadowmath-backend/internal/domain"
	"github.com/meadowmath/meadowmath-backend/internal/engine"
	"github.com/meadowmath/meadowmath-backend/internal/i18n"
	"github.com/meadowmath/meadowmath-backend/internal/render"
	"github.com/meadowmath/meadowmath-backend/internal/store"
	"github.com/meadowmath/meadowmath-backend/internal/transport/middleware"
	"github.com/meadowmath/meadowmath-backend/internal/transport/rest"
	"github.com/meadowmath/meadowmath-backend/migrations"
)

// Run is the application entry point. It loads configuration, builds every
// component, starts the HTTP server, and blocks until ctx is cancelled, then
// shuts down gracefully.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	st := newStore(ctx, cfg, logger)
	defer st.Close()
	if !st.Probe(ctx) {
		logger.Warn("storage unavailable, running degraded")
	}

	contentFS := os.DirFS(cfg.Content.Dir)
	defaultLang, ok := domain.ParseLanguage(cfg.Content.DefaultLanguage)
	if !ok {
		return fmt.Errorf("unsupported default language %q", cfg.Content.DefaultLanguage)
	}

	cat := i18n.New(i18n.NewFSSource(contentFS), logger, defaultLang)
	lib := content.NewLibrary(contentFS, logger)
	preloadBundles(ctx, cat, defaultLang)

	renderer, err := render.New(lib, cat, logger)
	if err != nil {
		return fmt.Errorf("build renderer: %w", err)
	}

	secret := cfg.Auth.TokenSecret
	if secret == "" {
		secret, err = auth.EphemeralSecret()
		if err != nil {
			return fmt.Errorf("generate token secret: %w", err)
		}
		logger.Warn("no token secret configured, profile tokens will not survive restart")
	}
	tokens := auth.NewTokenManager(secret, cfg.Auth.TokenIssuer, cfg.Auth.TokenTTL)

	mgr := engine.NewManager(logger, engine.Settings{
		DefaultTotalRounds: cfg.Engine.TotalRounds,
		AdvanceDelay:       cfg.Engine.AdvanceDelay,
		AutoAdvance:        true,
		SessionTTL:         cfg.Engine.SessionTTL,
		SweepInterval:      cfg.Engine.SweepInterval,
	}, st)
	go mgr.Run(ctx)

	limiter := middleware.NewRateLimiter(10 * time.Minute)
	defer limiter.Stop()

	handlers := rest.Handlers{
		Health:  rest.NewHealthHandler(st, cat, defaultLang, BuildVersion()),
		Content: rest.NewContentHandler(lib, i18n.NewFSSource(contentFS), logger),
		Pages:   rest.NewPagesHandler(renderer, cat, cfg.Content, logger),
		Sessions: rest.NewSessionsHandler(rest.SessionManagerDeps{
			Manager:          mgr,
			Finder:           lib,
			Catalog:          cat,
			FeedbackDuration: cfg.Engine.FeedbackDuration,
		}, logger),
		Profile:  rest.NewProfileHandler(tokens, st, logger),
		Progress: rest.NewProgressHandler(st, logger),
	}
	router := rest.NewRouter(handlers, logger, tokens, cfg.CORS, limiter, cfg.Server.RateLimitPerMinute)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}

// newStore selects the profile store backend. With a DSN configured it runs
// migrations and connects to PostgreSQL; an unreachable database falls back
// to the in-memory store instead of failing startup, matching the store's
// degrade-to-defaults contract.
func newStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) *store.Store {
	var kv store.KV = store.NewMemoryKV()

	if cfg.Database.DSN != "" {
		if err := migrations.Up(ctx, cfg.Database.DSN); err != nil {
			logger.Warn("migrations failed, using in-memory store",
				slog.String("error", err.Error()),
			)
		} else if pg, err := store.Connect(ctx, cfg.Database); err != nil {
			logger.Warn("database unreachable, using in-memory store",
				slog.String("error", err.Error()),
			)
		} else {
			kv = pg
			logger.Info("connected to postgres store")
		}
	}

	return store.New(kv, logger)
}

// preloadBundles warms the default language so first requests render
// translated. Failures degrade; the catalog retries on demand.
func preloadBundles(ctx context.Context, cat *i18n.Catalog, lang domain.Language) {
	_ = cat.Load(ctx, lang)
	for _, grade := range domain.Grades {
		_ = cat.LoadSection(ctx, lang, string(grade))
	}
}
