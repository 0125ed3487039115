package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/meadowmath/meadowmath-backend/internal/domain"
	"github.com/meadowmath/meadowmath-backend/internal/i18n"
)

// contentLibrary is the slice of content.Library the handler needs.
type contentLibrary interface {
	Manifest(ctx context.Context, grade domain.GradeID) (*domain.Manifest, error)
}

// bundleSource loads raw translation bundles; satisfied by i18n sources.
type bundleSource interface {
	LoadBundle(ctx context.Context, lang domain.Language, scope string) (i18n.Bundle, error)
}

// ContentHandler serves the static-content contract: grade manifests and
// translation bundles.
type ContentHandler struct {
	lib contentLibrary
	src bundleSource
	log *slog.Logger
}

// NewContentHandler creates a ContentHandler.
func NewContentHandler(lib contentLibrary, src bundleSource, logger *slog.Logger) *ContentHandler {
	return &ContentHandler{lib: lib, src: src, log: logger.With("handler", "content")}
}

// Manifest handles GET /api/v1/data/{grade}.
func (h *ContentHandler) Manifest(w http.ResponseWriter, r *http.Request) {
	grade, ok := domain.ParseGrade(r.PathValue("grade"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown grade")
		return
	}

	manifest, err := h.lib.Manifest(r.Context(), grade)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, manifest)
}

// Bundle handles GET /api/v1/lang/{lang}/{scope}. Scope is "common" or a
// grade section name. A missing bundle is a hard 404 for that fetch.
func (h *ContentHandler) Bundle(w http.ResponseWriter, r *http.Request) {
	lang, ok := domain.ParseLanguage(r.PathValue("lang"))
	if !ok {
		writeError(w, http.StatusNotFound, "unsupported language")
		return
	}

	scope := r.PathValue("scope")
	if scope != i18n.ScopeCommon {
		if _, ok := domain.ParseGrade(scope); !ok {
			writeError(w, http.StatusNotFound, "unknown scope")
			return
		}
	}

	bundle, err := h.src.LoadBundle(r.Context(), lang, scope)
	if err != nil {
		h.log.WarnContext(r.Context(), "bundle fetch failed",
			slog.String("lang", string(lang)),
			slog.String("scope", scope),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusNotFound, "bundle not found")
		return
	}
	writeJSON(w, http.StatusOK, bundle)
}
