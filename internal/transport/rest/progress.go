package rest

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/meadowmath/meadowmath-backend/internal/domain"
	"github.com/meadowmath/meadowmath-backend/internal/store"
	"github.com/meadowmath/meadowmath-backend/pkg/ctxutil"
)

// ProgressHandler serves the per-profile state API: progress, settings,
// stats, and the export/import envelope. Reads always succeed; with storage
// down they answer defaults.
type ProgressHandler struct {
	store *store.Store
	log   *slog.Logger
}

// NewProgressHandler creates a ProgressHandler.
func NewProgressHandler(st *store.Store, logger *slog.Logger) *ProgressHandler {
	return &ProgressHandler{store: st, log: logger.With("handler", "progress")}
}

func (h *ProgressHandler) profile(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	profileID, ok := ctxutil.ProfileIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "profile token required")
	}
	return profileID, ok
}

// GetProgress handles GET /api/v1/progress.
func (h *ProgressHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	profileID, ok := h.profile(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.store.Progress(r.Context(), profileID))
}

// GetSettings handles GET /api/v1/settings.
func (h *ProgressHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	profileID, ok := h.profile(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.store.Settings(r.Context(), profileID))
}

// UpdateSettings handles PATCH /api/v1/settings with a partial body.
func (h *ProgressHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	profileID, ok := h.profile(w, r)
	if !ok {
		return
	}

	var patch store.SettingsPatch
	if err := decodeJSON(r, &patch); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, h.store.UpdateSettings(r.Context(), profileID, patch))
}

// GetStats handles GET /api/v1/stats.
func (h *ProgressHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	profileID, ok := h.profile(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.store.Stats(r.Context(), profileID))
}

// Export handles GET /api/v1/export.
func (h *ProgressHandler) Export(w http.ResponseWriter, r *http.Request) {
	profileID, ok := h.profile(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.store.Export(r.Context(), profileID))
}

// Import handles POST /api/v1/import. Partial envelopes are valid: missing
// blobs are skipped, present ones applied independently.
func (h *ProgressHandler) Import(w http.ResponseWriter, r *http.Request) {
	profileID, ok := h.profile(w, r)
	if !ok {
		return
	}

	var env domain.ExportEnvelope
	if err := decodeJSON(r, &env); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	h.store.Import(r.Context(), profileID, env)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
