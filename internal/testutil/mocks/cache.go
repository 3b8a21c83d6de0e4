package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/0xsj/overwatch-pkg/types"

	"github.com/0xsj/overwatch-profile/internal/domain/model"
)

// --- ProfileCache Mock ---

// ProfileCache is a mock implementation of cache.ProfileCache.
type ProfileCache struct {
	mu sync.Mutex

	profiles map[string]model.Profile

	// Call tracking
	Calls struct {
		Get    int
		Set    int
		Delete int
	}

	// Error injection
	Errors struct {
		Get    error
		Set    error
		Delete error
	}
}

// NewProfileCache creates a new mock ProfileCache.
func NewProfileCache() *ProfileCache {
	return &ProfileCache{
		profiles: make(map[string]model.Profile),
	}
}

func (m *ProfileCache) Get(ctx context.Context, accountID types.ID) (*model.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.Get++

	if m.Errors.Get != nil {
		return nil, m.Errors.Get
	}

	p, ok := m.profiles[accountID.String()]
	if !ok {
		return nil, nil // Cache miss
	}
	return &p, nil
}

func (m *ProfileCache) Set(ctx context.Context, profile model.Profile, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.Set++

	if m.Errors.Set != nil {
		return m.Errors.Set
	}

	m.profiles[profile.ID.String()] = profile
	return nil
}

func (m *ProfileCache) Delete(ctx context.Context, accountID types.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.Delete++

	if m.Errors.Delete != nil {
		return m.Errors.Delete
	}

	delete(m.profiles, accountID.String())
	return nil
}

// Seed stores a profile directly.
func (m *ProfileCache) Seed(profile model.Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[profile.ID.String()] = profile
}

// Has reports whether a profile is cached for accountID.
func (m *ProfileCache) Has(accountID types.ID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.profiles[accountID.String()]
	return ok
}
