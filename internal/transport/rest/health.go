package rest

import (
	"net/http"
	"time"

	"github.com/meadowmath/meadowmath-backend/internal/domain"
	"github.com/meadowmath/meadowmath-backend/internal/i18n"
)

// storageStatus reports whether the profile store's backend is reachable.
type storageStatus interface {
	Available() bool
}

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	storage     storageStatus
	cat         *i18n.Catalog
	defaultLang domain.Language
	version     string
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(storage storageStatus, cat *i18n.Catalog, defaultLang domain.Language, version string) *HealthHandler {
	return &HealthHandler{storage: storage, cat: cat, defaultLang: defaultLang, version: version}
}

// HealthResponse is the JSON response for /health and /ready.
type HealthResponse struct {
	Status     string            `json:"status"`
	Version    string            `json:"version,omitempty"`
	Components map[string]string `json:"components,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
}

// Live is the liveness probe. Always returns 200.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	})
}

// Ready is the readiness probe. The service serves traffic even with storage
// down (reads answer defaults), so a degraded store still reports ready.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    h.overall(),
		Timestamp: time.Now(),
	})
}

// Health is the full health check with per-component detail and version.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	components := map[string]string{
		"storage": "ok",
		"content": "ok",
	}
	if !h.storage.Available() {
		components["storage"] = "degraded"
	}
	if !h.cat.Ready(h.defaultLang, string(domain.GradePreK)) {
		components["content"] = "loading"
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:     h.overall(),
		Version:    h.version,
		Components: components,
		Timestamp:  time.Now(),
	})
}

func (h *HealthHandler) overall() string {
	if !h.storage.Available() {
		return "degraded"
	}
	return "ok"
}
