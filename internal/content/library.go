// Package content loads and validates grade activity manifests.
package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/meadowmath/meadowmath-backend/internal/domain"
)

// Library loads data/<grade>.json manifests from a content tree, validates
// them, and caches them in memory. Manifests are immutable after load; a
// language change re-renders from the cached manifest, it never refetches.
type Library struct {
	fsys fs.FS
	log  *slog.Logger

	mu    sync.RWMutex
	cache map[domain.GradeID]*domain.Manifest
}

// NewLibrary creates a Library over the given content filesystem.
func NewLibrary(fsys fs.FS, log *slog.Logger) *Library {
	return &Library{
		fsys:  fsys,
		log:   log.With("service", "content"),
		cache: make(map[domain.GradeID]*domain.Manifest),
	}
}

// Manifest returns the manifest for a grade, loading it on first use.
// Each call makes at most one load attempt; failures are not retried here
// (callers render their error block and the next request tries again).
func (l *Library) Manifest(ctx context.Context, grade domain.GradeID) (*domain.Manifest, error) {
	l.mu.RLock()
	m, ok := l.cache[grade]
	l.mu.RUnlock()
	if ok {
		return m, nil
	}

	m, err := l.load(ctx, grade)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.cache[grade] = m
	l.mu.Unlock()
	return m, nil
}

func (l *Library) load(ctx context.Context, grade domain.GradeID) (*domain.Manifest, error) {
	path := fmt.Sprintf("data/%s.json", grade)
	data, err := fs.ReadFile(l.fsys, path)
	if err != nil {
		l.log.WarnContext(ctx, "manifest read failed",
			slog.String("grade", string(grade)),
			slog.String("error", err.Error()),
		)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("manifest %s: %w", path, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}

	var m domain.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		l.log.WarnContext(ctx, "manifest decode failed",
			slog.String("grade", string(grade)),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("decode manifest %s: %w", path, err)
	}
	if m.Grade == "" {
		m.Grade = grade
	}

	if err := Validate(&m); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}

	return &m, nil
}

// Validate checks manifest integrity: a known grade, at least one level,
// unique level and activity IDs, and activity entries that can render.
func Validate(m *domain.Manifest) error {
	var errs []domain.FieldError

	if _, ok := domain.ParseGrade(string(m.Grade)); !ok {
		errs = append(errs, domain.FieldError{Field: "grade", Message: fmt.Sprintf("unknown grade %q", m.Grade)})
	}
	if len(m.Levels) == 0 {
		errs = append(errs, domain.FieldError{Field: "levels", Message: "must not be empty"})
	}

	levelIDs := make(map[string]bool, len(m.Levels))
	for i, level := range m.Levels {
		where := fmt.Sprintf("levels[%d]", i)
		if level.ID == "" {
			errs = append(errs, domain.FieldError{Field: where + ".id", Message: "must not be empty"})
		} else if levelIDs[level.ID] {
			errs = append(errs, domain.FieldError{Field: where + ".id", Message: fmt.Sprintf("duplicate level id %q", level.ID)})
		}
		levelIDs[level.ID] = true

		activityIDs := make(map[string]bool, len(level.Activities))
		for j, act := range level.Activities {
			aw := fmt.Sprintf("%s.activities[%d]", where, j)
			if act.ID == "" {
				errs = append(errs, domain.FieldError{Field: aw + ".id", Message: "must not be empty"})
			} else if activityIDs[act.ID] {
				errs = append(errs, domain.FieldError{Field: aw + ".id", Message: fmt.Sprintf("duplicate activity id %q", act.ID)})
			}
			activityIDs[act.ID] = true
			if act.Title == "" {
				errs = append(errs, domain.FieldError{Field: aw + ".title", Message: "must not be empty"})
			}
			if act.Path == "" {
				errs = append(errs, domain.FieldError{Field: aw + ".path", Message: "must not be empty"})
			}
		}

		for j, res := range level.LearnMore.Resources {
			if res.Title == "" {
				errs = append(errs, domain.FieldError{
					Field:   fmt.Sprintf("%s.learnMore.resources[%d].title", where, j),
					Message: "must not be empty",
				})
			}
		}
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// FindActivity locates an activity by ID within a grade's manifest.
func (l *Library) FindActivity(ctx context.Context, grade domain.GradeID, activityID string) (*domain.Activity, error) {
	m, err := l.Manifest(ctx, grade)
	if err != nil {
		return nil, err
	}
	for _, level := range m.Levels {
		for i := range level.Activities {
			if level.Activities[i].ID == activityID {
				return &level.Activities[i], nil
			}
		}
	}
	return nil, fmt.Errorf("activity %q in %s: %w", activityID, grade, domain.ErrNotFound)
}
