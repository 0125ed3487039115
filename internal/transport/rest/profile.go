package rest

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/meadowmath/meadowmath-backend/internal/domain"
	"github.com/meadowmath/meadowmath-backend/internal/store"
	"github.com/meadowmath/meadowmath-backend/pkg/ctxutil"
)

// tokenMinter is satisfied by auth.TokenManager.
type tokenMinter interface {
	Mint(profileID uuid.UUID) (string, error)
}

// ProfileHandler mints anonymous profiles and manages the per-profile
// language preference.
type ProfileHandler struct {
	minter tokenMinter
	store  *store.Store
	log    *slog.Logger
}

// NewProfileHandler creates a ProfileHandler.
func NewProfileHandler(minter tokenMinter, st *store.Store, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{minter: minter, store: st, log: logger.With("handler", "profile")}
}

type profileResponse struct {
	ProfileID string `json:"profileId"`
	Token     string `json:"token"`
}

type languageResponse struct {
	Language domain.Language `json:"language"`
	Stored   bool            `json:"stored"`
}

type languageRequest struct {
	Language string `json:"language"`
}

// Create handles POST /api/v1/profile: mints a fresh profile ID and its
// bearer token. No name, email, or password is involved.
func (h *ProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	profileID := uuid.New()
	token, err := h.minter.Mint(profileID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	h.log.InfoContext(r.Context(), "profile created", slog.String("profile_id", profileID.String()))
	writeJSON(w, http.StatusCreated, profileResponse{
		ProfileID: profileID.String(),
		Token:     token,
	})
}

// GetLanguage handles GET /api/v1/profile/language. Without a stored
// preference it answers the default language with stored=false.
func (h *ProfileHandler) GetLanguage(w http.ResponseWriter, r *http.Request) {
	profileID, ok := ctxutil.ProfileIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "profile token required")
		return
	}

	lang, stored := h.store.Language(r.Context(), profileID)
	writeJSON(w, http.StatusOK, languageResponse{Language: lang, Stored: stored})
}

// SetLanguage handles PUT /api/v1/profile/language. Setting the already
// stored language is an idempotent no-op.
func (h *ProfileHandler) SetLanguage(w http.ResponseWriter, r *http.Request) {
	profileID, ok := ctxutil.ProfileIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "profile token required")
		return
	}

	var req languageRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	lang, supported := domain.ParseLanguage(req.Language)
	if !supported {
		handleError(w, r, h.log, domain.NewValidationError("language", "unsupported language"))
		return
	}

	if current, stored := h.store.Language(r.Context(), profileID); !stored || current != lang {
		h.store.SetLanguage(r.Context(), profileID, lang)
	}
	writeJSON(w, http.StatusOK, languageResponse{Language: lang, Stored: true})
}
