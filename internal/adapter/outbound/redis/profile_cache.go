package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/0xsj/overwatch-pkg/types"

	"github.com/0xsj/overwatch-profile/internal/domain/model"
	"github.com/0xsj/overwatch-profile/internal/port/outbound/cache"
)

const (
	profileKeyPrefix  = "profile:account:"
	defaultProfileTTL = 15 * time.Minute
)

// profileCache implements cache.ProfileCache.
type profileCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProfileCache creates a new ProfileCache.
func NewProfileCache(client *redis.Client, ttl time.Duration) cache.ProfileCache {
	if ttl == 0 {
		ttl = defaultProfileTTL
	}
	return &profileCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *profileCache) Get(ctx context.Context, accountID types.ID) (*model.Profile, error) {
	data, err := c.client.Get(ctx, profileKey(accountID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("failed to get profile from cache: %w", err)
	}

	var cached cachedProfile
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}

	profile := cached.toModel()
	return &profile, nil
}

func (c *profileCache) Set(ctx context.Context, profile model.Profile, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.ttl
	}

	data, err := json.Marshal(newCachedProfile(profile))
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	if err := c.client.Set(ctx, profileKey(profile.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set profile in cache: %w", err)
	}
	return nil
}

func (c *profileCache) Delete(ctx context.Context, accountID types.ID) error {
	if err := c.client.Del(ctx, profileKey(accountID)).Err(); err != nil {
		return fmt.Errorf("failed to delete profile from cache: %w", err)
	}
	return nil
}

func profileKey(id types.ID) string {
	return profileKeyPrefix + id.String()
}

// Cached profile structure for JSON serialization

type cachedProfile struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	Initials  *string `json:"initials,omitempty"`
}

func newCachedProfile(p model.Profile) cachedProfile {
	cached := cachedProfile{
		ID:       p.ID.String(),
		Username: p.Username,
		Email:    p.Email,
	}

	if p.AvatarURL.IsPresent() {
		url := p.AvatarURL.MustGet()
		cached.AvatarURL = &url
	}

	if p.Initials.IsPresent() {
		initials := p.Initials.MustGet()
		cached.Initials = &initials
	}

	return cached
}

func (c cachedProfile) toModel() model.Profile {
	var avatarURL types.Optional[string]
	if c.AvatarURL != nil {
		avatarURL = types.Some(*c.AvatarURL)
	}

	var initials types.Optional[string]
	if c.Initials != nil {
		initials = types.Some(*c.Initials)
	}

	return model.Profile{
		ID:        types.ID(c.ID),
		Username:  c.Username,
		Email:     c.Email,
		AvatarURL: avatarURL,
		Initials:  initials,
	}
}
