// Package rest wires the HTTP API: content delivery, server-rendered grade
// pages, activity sessions, anonymous profiles, and per-profile state.
package rest

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/meadowmath/meadowmath-backend/internal/config"
	"github.com/meadowmath/meadowmath-backend/internal/transport/middleware"
)

// tokenValidator is satisfied by auth.TokenManager.
type tokenValidator interface {
	Validate(token string) (uuid.UUID, error)
}

// Handlers bundles every handler the router mounts.
type Handlers struct {
	Health   *HealthHandler
	Content  *ContentHandler
	Pages    *PagesHandler
	Sessions *SessionsHandler
	Profile  *ProfileHandler
	Progress *ProgressHandler
}

// NewRouter builds the full HTTP handler: routes plus the middleware chain
// (request ID, logging, panic recovery, CORS, profile auth). Mutating
// endpoints that mint server-side state are additionally rate limited.
func NewRouter(
	h Handlers,
	logger *slog.Logger,
	validator tokenValidator,
	corsCfg config.CORSConfig,
	limiter *middleware.RateLimiter,
	limitPerMinute int,
) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", h.Health.Live)
	mux.HandleFunc("GET /ready", h.Health.Ready)
	mux.HandleFunc("GET /health", h.Health.Health)

	mux.HandleFunc("GET /api/v1/data/{grade}", h.Content.Manifest)
	mux.HandleFunc("GET /api/v1/lang/{lang}/{scope}", h.Content.Bundle)
	mux.HandleFunc("GET /api/v1/grades/{grade}/page", h.Pages.GradePage)

	limited := limiter.Limit(limitPerMinute)
	mux.Handle("POST /api/v1/sessions", limited(http.HandlerFunc(h.Sessions.Create)))
	mux.HandleFunc("GET /api/v1/sessions/{id}", h.Sessions.Get)
	mux.HandleFunc("POST /api/v1/sessions/{id}/answer", h.Sessions.Answer)
	mux.HandleFunc("POST /api/v1/sessions/{id}/advance", h.Sessions.Advance)
	mux.HandleFunc("POST /api/v1/sessions/{id}/reset", h.Sessions.Reset)

	mux.Handle("POST /api/v1/profile", limited(http.HandlerFunc(h.Profile.Create)))
	mux.HandleFunc("GET /api/v1/profile/language", h.Profile.GetLanguage)
	mux.HandleFunc("PUT /api/v1/profile/language", h.Profile.SetLanguage)

	mux.HandleFunc("GET /api/v1/progress", h.Progress.GetProgress)
	mux.HandleFunc("GET /api/v1/settings", h.Progress.GetSettings)
	mux.HandleFunc("PATCH /api/v1/settings", h.Progress.UpdateSettings)
	mux.HandleFunc("GET /api/v1/stats", h.Progress.GetStats)
	mux.HandleFunc("GET /api/v1/export", h.Progress.Export)
	mux.HandleFunc("POST /api/v1/import", h.Progress.Import)

	chain := middleware.Chain(
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(corsCfg),
		middleware.ProfileAuth(validator),
	)
	return chain(mux)
}
