package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/meadowmath/meadowmath-backend/internal/domain"
)

// progressRecorder is the slice of the store the manager needs. Recording
// failures degrade silently (logged, never surfaced to the player).
type progressRecorder interface {
	SaveActivityProgress(ctx context.Context, profileID uuid.UUID, grade domain.GradeID, activityID string, completed bool, score int) error
	AddStats(ctx context.Context, profileID uuid.UUID, delta domain.Stats) error
}

// Settings are the manager-wide engine defaults, derived from configuration.
type Settings struct {
	DefaultTotalRounds int
	AdvanceDelay       time.Duration
	AutoAdvance        bool
	SessionTTL         time.Duration
	SweepInterval      time.Duration
}

// Session is one player's run through one activity.
type Session struct {
	ID         uuid.UUID
	ProfileID  uuid.UUID // uuid.Nil for anonymous play
	Grade      domain.GradeID
	ActivityID string
	Engine     *Engine

	lastActive time.Time
	startedAt  time.Time
	recorded   bool
}

// Manager owns live sessions: creation, lookup with TTL touch, periodic
// sweep of abandoned ones, and progress/stats recording on completion.
type Manager struct {
	log      *slog.Logger
	settings Settings
	recorder progressRecorder
	now      func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

// NewManager creates a session manager. recorder may be nil (no persistence).
func NewManager(log *slog.Logger, settings Settings, recorder progressRecorder) *Manager {
	if settings.DefaultTotalRounds <= 0 {
		settings.DefaultTotalRounds = DefaultTotalRounds
	}
	return &Manager{
		log:      log.With("service", "engine"),
		settings: settings,
		recorder: recorder,
		now:      time.Now,
		sessions: make(map[uuid.UUID]*Session),
	}
}

// Create starts a new session in the first round. totalRounds <= 0 takes
// the configured default.
func (m *Manager) Create(ctx context.Context, profileID uuid.UUID, grade domain.GradeID, activityID string, totalRounds int) (*Session, error) {
	if totalRounds <= 0 {
		totalRounds = m.settings.DefaultTotalRounds
	}

	eng, err := New(Config{
		Grade:        grade,
		ActivityID:   activityID,
		TotalRounds:  totalRounds,
		AdvanceDelay: m.settings.AdvanceDelay,
		AutoAdvance:  m.settings.AutoAdvance,
	}, nil)
	if err != nil {
		return nil, err
	}
	eng.Start()

	s := &Session{
		ID:         uuid.New(),
		ProfileID:  profileID,
		Grade:      grade,
		ActivityID: activityID,
		Engine:     eng,
		lastActive: m.now(),
		startedAt:  m.now(),
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.log.InfoContext(ctx, "session created",
		slog.String("session_id", s.ID.String()),
		slog.String("grade", string(grade)),
		slog.String("activity", activityID),
	)
	return s, nil
}

// Get returns a live session and refreshes its TTL.
func (m *Manager) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		s.lastActive = m.now()
	}
	m.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
	}
	m.maybeRecord(ctx, s)
	return s, nil
}

// Answer reports the current round's result. counted is false when the
// round was already answered (double reports never double count).
func (m *Manager) Answer(ctx context.Context, id uuid.UUID, correct bool) (state domain.RoundState, counted bool, err error) {
	s, err := m.Get(ctx, id)
	if err != nil {
		return domain.RoundState{}, false, err
	}
	counted = s.Engine.Answer(correct)
	m.maybeRecord(ctx, s)
	return s.Engine.State(), counted, nil
}

// Advance moves a session past an answered round.
func (m *Manager) Advance(ctx context.Context, id uuid.UUID) (domain.RoundState, error) {
	s, err := m.Get(ctx, id)
	if err != nil {
		return domain.RoundState{}, err
	}
	s.Engine.Advance()
	m.maybeRecord(ctx, s)
	return s.Engine.State(), nil
}

// Reset restarts a session for replay: counters cleared, completion will be
// recorded again.
func (m *Manager) Reset(ctx context.Context, id uuid.UUID) (domain.RoundState, error) {
	s, err := m.Get(ctx, id)
	if err != nil {
		return domain.RoundState{}, err
	}

	m.mu.Lock()
	s.recorded = false
	s.startedAt = m.now()
	m.mu.Unlock()

	s.Engine.Reset()
	return s.Engine.State(), nil
}

// maybeRecord persists progress and stats exactly once per completed run.
func (m *Manager) maybeRecord(ctx context.Context, s *Session) {
	state := s.Engine.State()
	if state.Phase != domain.PhaseComplete {
		return
	}

	m.mu.Lock()
	if s.recorded {
		m.mu.Unlock()
		return
	}
	s.recorded = true
	elapsed := m.now().Sub(s.startedAt)
	m.mu.Unlock()

	if m.recorder == nil || s.ProfileID == uuid.Nil {
		return
	}

	if err := m.recorder.SaveActivityProgress(ctx, s.ProfileID, s.Grade, s.ActivityID, true, state.CorrectCount); err != nil {
		m.log.WarnContext(ctx, "progress save failed",
			slog.String("session_id", s.ID.String()),
			slog.String("error", err.Error()),
		)
	}

	delta := domain.Stats{
		TotalPlays:    1,
		TotalSeconds:  int64(elapsed / time.Second),
		TotalCorrect:  state.CorrectCount,
		TotalAnswered: state.CorrectCount + state.IncorrectCount,
	}
	if err := m.recorder.AddStats(ctx, s.ProfileID, delta); err != nil {
		m.log.WarnContext(ctx, "stats update failed",
			slog.String("session_id", s.ID.String()),
			slog.String("error", err.Error()),
		)
	}
}

// Run sweeps abandoned sessions until ctx is cancelled.
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.settings.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

func (m *Manager) sweep() {
	cutoff := m.now().Add(-m.settings.SessionTTL)

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		if s.lastActive.Before(cutoff) {
			delete(m.sessions, id)
		}
	}
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
