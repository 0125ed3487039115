package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/meadowmath/meadowmath-backend/internal/domain"
	"github.com/meadowmath/meadowmath-backend/internal/engine"
	"github.com/meadowmath/meadowmath-backend/internal/i18n"
	"github.com/meadowmath/meadowmath-backend/pkg/ctxutil"
)

// sessionManager is the slice of engine.Manager the handler needs.
type sessionManager interface {
	Create(ctx context.Context, profileID uuid.UUID, grade domain.GradeID, activityID string, totalRounds int) (*engine.Session, error)
	Get(ctx context.Context, id uuid.UUID) (*engine.Session, error)
	Answer(ctx context.Context, id uuid.UUID, correct bool) (domain.RoundState, bool, error)
	Advance(ctx context.Context, id uuid.UUID) (domain.RoundState, error)
	Reset(ctx context.Context, id uuid.UUID) (domain.RoundState, error)
}

// activityFinder validates that a session targets a real activity.
type activityFinder interface {
	FindActivity(ctx context.Context, grade domain.GradeID, activityID string) (*domain.Activity, error)
}

// SessionsHandler serves the activity round session API.
type SessionsHandler struct {
	mgr SessionManagerDeps
	log *slog.Logger
}

// SessionManagerDeps bundles the session handler's collaborators.
type SessionManagerDeps struct {
	Manager sessionManager
	Finder  activityFinder
	Catalog *i18n.Catalog

	// FeedbackDuration is how long answer banners stay up before the
	// engine hides them. Zero disables auto-hide.
	FeedbackDuration time.Duration
}

// NewSessionsHandler creates a SessionsHandler.
func NewSessionsHandler(deps SessionManagerDeps, logger *slog.Logger) *SessionsHandler {
	return &SessionsHandler{mgr: deps, log: logger.With("handler", "sessions")}
}

type createSessionRequest struct {
	Grade       string `json:"grade"`
	ActivityID  string `json:"activityId"`
	TotalRounds int    `json:"totalRounds,omitempty"`
}

type answerRequest struct {
	Correct bool `json:"correct"`
}

type sessionResponse struct {
	ID         string                    `json:"id"`
	Grade      domain.GradeID            `json:"grade"`
	ActivityID string                    `json:"activityId"`
	State      domain.RoundState         `json:"state"`
	Indicator  []domain.CellState        `json:"indicator"`
	Feedback   engine.Feedback           `json:"feedback"`
	Counted    *bool                     `json:"counted,omitempty"`
	Summary    *domain.CompletionSummary `json:"summary,omitempty"`
}

func (h *SessionsHandler) toResponse(s *engine.Session, lang domain.Language, counted *bool) sessionResponse {
	resp := sessionResponse{
		ID:         s.ID.String(),
		Grade:      s.Grade,
		ActivityID: s.ActivityID,
		State:      s.Engine.State(),
		Indicator:  s.Engine.Indicator(),
		Feedback:   s.Engine.Feedback(),
		Counted:    counted,
	}
	if resp.State.Phase == domain.PhaseComplete {
		summary := s.Engine.Summary(h.translator(lang, s.Grade))
		resp.Summary = &summary
	}
	return resp
}

// translator adapts a catalog localizer to the engine's lookup contract.
func (h *SessionsHandler) translator(lang domain.Language, grade domain.GradeID) engine.TranslateFunc {
	loc := h.mgr.Catalog.Localizer(lang, string(grade))
	return func(key string) (string, bool) {
		if !loc.Has(key) {
			return "", false
		}
		return loc.T(key), true
	}
}

// Create handles POST /api/v1/sessions.
func (h *SessionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	grade, ok := domain.ParseGrade(req.Grade)
	if !ok {
		handleError(w, r, h.log, domain.NewValidationError("grade", "unknown grade"))
		return
	}
	if _, err := h.mgr.Finder.FindActivity(r.Context(), grade, req.ActivityID); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	profileID, _ := ctxutil.ProfileIDFromCtx(r.Context())
	session, err := h.mgr.Manager.Create(r.Context(), profileID, grade, req.ActivityID, req.TotalRounds)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.toResponse(session, h.lang(r), nil))
}

// Get handles GET /api/v1/sessions/{id}.
func (h *SessionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, h.toResponse(session, h.lang(r), nil))
}

// Answer handles POST /api/v1/sessions/{id}/answer. Answering an already
// answered round is not an error; the response carries counted=false and the
// unchanged counters.
func (h *SessionsHandler) Answer(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	var req answerRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	_, counted, err := h.mgr.Manager.Answer(r.Context(), session.ID, req.Correct)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	lang := h.lang(r)
	if counted {
		h.showAnswerFeedback(session, lang, req.Correct)
	}
	writeJSON(w, http.StatusOK, h.toResponse(session, lang, &counted))
}

// showAnswerFeedback raises the transient banner on a counted answer. The
// message comes from the common bundle with a hardcoded fallback; incorrect
// answers render in the error style.
func (h *SessionsHandler) showAnswerFeedback(s *engine.Session, lang domain.Language, correct bool) {
	key, fallback := "feedback.correct", "Great job!"
	if !correct {
		key, fallback = "feedback.tryAgain", "Keep trying!"
	}

	msg, ok := h.translator(lang, s.Grade)(key)
	if !ok {
		msg = fallback
	}
	s.Engine.ShowFeedback(msg, !correct, h.mgr.FeedbackDuration)
}

// Advance handles POST /api/v1/sessions/{id}/advance.
func (h *SessionsHandler) Advance(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	if _, err := h.mgr.Manager.Advance(r.Context(), session.ID); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, h.toResponse(session, h.lang(r), nil))
}

// Reset handles POST /api/v1/sessions/{id}/reset.
func (h *SessionsHandler) Reset(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	if _, err := h.mgr.Manager.Reset(r.Context(), session.ID); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, h.toResponse(session, h.lang(r), nil))
}

func (h *SessionsHandler) session(r *http.Request) (*engine.Session, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return nil, domain.NewValidationError("id", "must be a UUID")
	}
	return h.mgr.Manager.Get(r.Context(), id)
}

func (h *SessionsHandler) lang(r *http.Request) domain.Language {
	lang, _ := domain.ParseLanguage(r.URL.Query().Get("lang"))
	return lang
}
