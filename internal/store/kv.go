// Package store persists per-profile state (progress, settings, stats,
// language preference) as independent JSON blobs in a flat key namespace.
// Storage is best-effort: when the backend is unavailable every operation
// degrades to a no-op returning defaults, and the failure stays in the logs.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/meadowmath/meadowmath-backend/internal/domain"
)

// Fixed per-profile keys. Progress, settings and stats are JSON blobs; the
// language preference is a bare string.
const (
	keyProgress = "progress"
	keySettings = "settings"
	keyStats    = "stats"
	keyLanguage = "language"
)

// probeKey is written and deleted by the availability probe.
const probeKey = "availability_probe"

// KV is the raw per-profile key/value backend.
type KV interface {
	// Get returns the stored value or domain.ErrNotFound.
	Get(ctx context.Context, profileID uuid.UUID, key string) ([]byte, error)
	Set(ctx context.Context, profileID uuid.UUID, key string, value []byte) error
	Delete(ctx context.Context, profileID uuid.UUID, key string) error
	Close()
}

// MemoryKV is the in-process backend used for database-less deployments and
// tests. Safe for concurrent use.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[uuid.UUID]map[string][]byte
}

// NewMemoryKV creates an empty in-memory backend.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[uuid.UUID]map[string][]byte)}
}

// Get returns a copy of the stored value.
func (m *MemoryKV) Get(_ context.Context, profileID uuid.UUID, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.data[profileID][key]
	if !ok {
		return nil, fmt.Errorf("key %s: %w", key, domain.ErrNotFound)
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Set stores a copy of value.
func (m *MemoryKV) Set(_ context.Context, profileID uuid.UUID, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.data[profileID] == nil {
		m.data[profileID] = make(map[string][]byte)
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	m.data[profileID][key] = stored
	return nil
}

// Delete removes a key; deleting an absent key is not an error.
func (m *MemoryKV) Delete(_ context.Context, profileID uuid.UUID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data[profileID], key)
	return nil
}

// Close is a no-op.
func (m *MemoryKV) Close() {}
