package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/meadowmath/meadowmath-backend/internal/domain"
)

// SettingsPatch is a partial settings update; nil fields keep their stored
// value.
type SettingsPatch struct {
	SoundEnabled      *bool   `json:"soundEnabled,omitempty"`
	AnimationsEnabled *bool   `json:"animationsEnabled,omitempty"`
	Theme             *string `json:"theme,omitempty"`
}

// Store exposes the typed per-profile state operations over a KV backend.
//
// Every read returns a usable default when the backend is unavailable or the
// key is absent; every write may silently fail (logged). Callers never see a
// storage error.
type Store struct {
	kv  KV
	log *slog.Logger
	now func() time.Time

	available atomic.Bool
}

// New creates a Store. Call Probe before first use to establish
// availability; a store that was never probed treats the backend as up.
func New(kv KV, log *slog.Logger) *Store {
	s := &Store{
		kv:  kv,
		log: log.With("service", "store"),
		now: time.Now,
	}
	s.available.Store(true)
	return s
}

// Probe checks the backend with a trivial write and delete. On failure the
// store flips to degraded mode: all operations become no-ops.
func (s *Store) Probe(ctx context.Context) bool {
	probe := uuid.Nil
	if err := s.kv.Set(ctx, probe, probeKey, []byte("1")); err != nil {
		s.degrade(ctx, "probe write", err)
		return false
	}
	if err := s.kv.Delete(ctx, probe, probeKey); err != nil {
		s.degrade(ctx, "probe delete", err)
		return false
	}
	s.available.Store(true)
	return true
}

// Available reports whether the backend answered the last probe.
func (s *Store) Available() bool { return s.available.Load() }

// Close releases the backend.
func (s *Store) Close() { s.kv.Close() }

func (s *Store) degrade(ctx context.Context, op string, err error) {
	s.available.Store(false)
	s.log.WarnContext(ctx, "storage unavailable",
		slog.String("op", op),
		slog.String("error", errors.Join(domain.ErrUnavailable, err).Error()),
	)
}

// getJSON loads and decodes one blob. ok=false means absent, unavailable, or
// corrupt; the caller substitutes its default.
func (s *Store) getJSON(ctx context.Context, profileID uuid.UUID, key string, dst any) bool {
	if !s.available.Load() {
		return false
	}
	raw, err := s.kv.Get(ctx, profileID, key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.log.WarnContext(ctx, "storage read failed",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.log.WarnContext(ctx, "stored blob corrupt",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return false
	}
	return true
}

// setJSON encodes and stores one blob. Failures are logged, not returned.
func (s *Store) setJSON(ctx context.Context, profileID uuid.UUID, key string, v any) {
	if !s.available.Load() {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		s.log.ErrorContext(ctx, "blob encode failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return
	}
	if err := s.kv.Set(ctx, profileID, key, raw); err != nil {
		s.log.WarnContext(ctx, "storage write failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}

// Progress returns the profile's progress blob, empty when none is stored.
func (s *Store) Progress(ctx context.Context, profileID uuid.UUID) domain.Progress {
	p := domain.Progress{}
	s.getJSON(ctx, profileID, keyProgress, &p)
	return p
}

// SaveActivityProgress merges one activity result into the nested
// grade→activity structure and stamps the last-played time. Completed never
// regresses to false and the best score never decreases.
func (s *Store) SaveActivityProgress(ctx context.Context, profileID uuid.UUID, grade domain.GradeID, activityID string, completed bool, score int) error {
	p := s.Progress(ctx, profileID)
	if p[grade] == nil {
		p[grade] = make(map[string]domain.ActivityProgress)
	}

	entry := p[grade][activityID]
	entry.Plays++
	entry.LastPlayed = s.now().UTC()
	if completed {
		entry.Completed = true
	}
	if score > entry.BestScore {
		entry.BestScore = score
	}
	p[grade][activityID] = entry

	s.setJSON(ctx, profileID, keyProgress, p)
	return nil
}

// Settings returns the profile's settings, defaults when none are stored.
func (s *Store) Settings(ctx context.Context, profileID uuid.UUID) domain.Settings {
	settings := domain.DefaultSettings()
	s.getJSON(ctx, profileID, keySettings, &settings)
	return settings
}

// UpdateSettings applies a partial update and returns the result.
func (s *Store) UpdateSettings(ctx context.Context, profileID uuid.UUID, patch SettingsPatch) domain.Settings {
	settings := s.Settings(ctx, profileID)
	if patch.SoundEnabled != nil {
		settings.SoundEnabled = *patch.SoundEnabled
	}
	if patch.AnimationsEnabled != nil {
		settings.AnimationsEnabled = *patch.AnimationsEnabled
	}
	if patch.Theme != nil {
		settings.Theme = *patch.Theme
	}
	s.setJSON(ctx, profileID, keySettings, settings)
	return settings
}

// Stats returns the profile's running totals, zeros when none are stored.
func (s *Store) Stats(ctx context.Context, profileID uuid.UUID) domain.Stats {
	var stats domain.Stats
	s.getJSON(ctx, profileID, keyStats, &stats)
	return stats
}

// AddStats accumulates a delta into the stored totals.
func (s *Store) AddStats(ctx context.Context, profileID uuid.UUID, delta domain.Stats) error {
	stats := s.Stats(ctx, profileID)
	stats.Add(delta)
	s.setJSON(ctx, profileID, keyStats, stats)
	return nil
}

// Language returns the stored language preference. ok=false when none is
// stored or the stored value is unsupported.
func (s *Store) Language(ctx context.Context, profileID uuid.UUID) (domain.Language, bool) {
	if !s.available.Load() {
		return domain.DefaultLanguage, false
	}
	raw, err := s.kv.Get(ctx, profileID, keyLanguage)
	if err != nil {
		return domain.DefaultLanguage, false
	}
	return domain.ParseLanguage(string(raw))
}

// SetLanguage stores the language preference as a bare string.
func (s *Store) SetLanguage(ctx context.Context, profileID uuid.UUID, lang domain.Language) {
	if !s.available.Load() {
		return
	}
	if err := s.kv.Set(ctx, profileID, keyLanguage, []byte(lang)); err != nil {
		s.log.WarnContext(ctx, "storage write failed",
			slog.String("key", keyLanguage),
			slog.String("error", err.Error()),
		)
	}
}

// Export bundles all three blobs into a single envelope.
func (s *Store) Export(ctx context.Context, profileID uuid.UUID) domain.ExportEnvelope {
	settings := s.Settings(ctx, profileID)
	stats := s.Stats(ctx, profileID)
	return domain.ExportEnvelope{
		Progress:   s.Progress(ctx, profileID),
		Settings:   &settings,
		Stats:      &stats,
		ExportedAt: s.now().UTC(),
	}
}

// Import applies the envelope's blobs independently: missing blobs are
// skipped, present ones replace the stored state.
func (s *Store) Import(ctx context.Context, profileID uuid.UUID, env domain.ExportEnvelope) {
	if env.Progress != nil {
		s.setJSON(ctx, profileID, keyProgress, env.Progress)
	}
	if env.Settings != nil {
		s.setJSON(ctx, profileID, keySettings, env.Settings)
	}
	if env.Stats != nil {
		s.setJSON(ctx, profileID, keyStats, env.Stats)
	}
}
