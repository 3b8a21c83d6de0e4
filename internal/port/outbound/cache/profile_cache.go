package cache

import (
	"context"
	"time"

	"github.com/0xsj/overwatch-pkg/types"

	"github.com/0xsj/overwatch-profile/internal/domain/model"
)

// ProfileCache defines the interface for caching profile read models.
type ProfileCache interface {
	// Get retrieves a profile from the cache.
	// Returns nil if not found (cache miss).
	Get(ctx context.Context, accountID types.ID) (*model.Profile, error)

	// Set stores a profile. A zero ttl uses the cache default.
	Set(ctx context.Context, profile model.Profile, ttl time.Duration) error

	// Delete removes a profile from the cache.
	Delete(ctx context.Context, accountID types.ID) error
}
