package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/meadowmath/meadowmath-backend/internal/config"
	"github.com/meadowmath/meadowmath-backend/internal/domain"
	"github.com/meadowmath/meadowmath-backend/internal/i18n"
)

// pageRenderer is the slice of render.Renderer the handler needs.
type pageRenderer interface {
	Page(ctx context.Context, grade domain.GradeID, lang domain.Language) (string, error)
	ErrorBlock(lang domain.Language) string
}

// PagesHandler serves server-rendered grade pages.
type PagesHandler struct {
	renderer pageRenderer
	cat      *i18n.Catalog
	cfg      config.ContentConfig
	log      *slog.Logger
}

// NewPagesHandler creates a PagesHandler.
func NewPagesHandler(renderer pageRenderer, cat *i18n.Catalog, cfg config.ContentConfig, logger *slog.Logger) *PagesHandler {
	return &PagesHandler{
		renderer: renderer,
		cat:      cat,
		cfg:      cfg,
		log:      logger.With("handler", "pages"),
	}
}

// GradePage handles GET /api/v1/grades/{grade}/page?lang=xx. It waits for
// the grade's translation bundles within the configured budget, then renders
// regardless: an unready catalog degrades to manifest strings and key
// echoes, never an error. A manifest failure serves the static error block.
func (h *PagesHandler) GradePage(w http.ResponseWriter, r *http.Request) {
	grade, ok := domain.ParseGrade(r.PathValue("grade"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown grade")
		return
	}
	lang, _ := domain.ParseLanguage(r.URL.Query().Get("lang"))

	if !h.cat.WaitReady(r.Context(), lang, string(grade), h.cfg.ReadyPollInterval, h.cfg.ReadyTimeout) {
		h.log.WarnContext(r.Context(), "rendering without translations",
			slog.String("grade", string(grade)),
			slog.String("lang", string(lang)),
		)
	}

	page, err := h.renderer.Page(r.Context(), grade, lang)
	if err != nil {
		h.log.ErrorContext(r.Context(), "grade page failed",
			slog.String("grade", string(grade)),
			slog.String("error", err.Error()),
		)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(h.renderer.ErrorBlock(lang))) //nolint:errcheck
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(page)) //nolint:errcheck
}
