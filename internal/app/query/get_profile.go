package query

import (
	"context"
	"errors"
	"fmt"

	domainerror "github.com/0xsj/overwatch-profile/internal/domain/error"
	"github.com/0xsj/overwatch-profile/internal/domain/model"
	"github.com/0xsj/overwatch-profile/internal/port/inbound/query"
	"github.com/0xsj/overwatch-profile/internal/port/outbound/cache"
	"github.com/0xsj/overwatch-profile/internal/port/outbound/repository"
)

// getProfileHandler implements query.GetProfileHandler.
type getProfileHandler struct {
	accounts     repository.AccountRepository
	profileCache cache.ProfileCache
}

// NewGetProfileHandler creates a new GetProfileHandler.
func NewGetProfileHandler(
	accounts repository.AccountRepository,
	profileCache cache.ProfileCache,
) query.GetProfileHandler {
	return &getProfileHandler{
		accounts:     accounts,
		profileCache: profileCache,
	}
}

func (h *getProfileHandler) Handle(ctx context.Context, qry query.GetProfile) (query.GetProfileResult, error) {
	if qry.AccountID.IsEmpty() {
		return query.GetProfileResult{}, domainerror.ErrAccountIDRequired
	}

	// Try cache first
	if h.profileCache != nil {
		profile, err := h.profileCache.Get(ctx, qry.AccountID)
		if err == nil && profile != nil {
			return query.GetProfileResult{Profile: *profile}, nil
		}
	}

	// Fallback to repository
	acc, err := h.accounts.FindByID(ctx, qry.AccountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return query.GetProfileResult{}, domainerror.ErrAccountNotFound
		}
		return query.GetProfileResult{}, fmt.Errorf("load account: %w", err)
	}

	projected := model.NewProfile(acc)
	if projected.IsEmpty() {
		return query.GetProfileResult{}, domainerror.ErrAccountNotFound
	}
	profile := projected.MustGet()

	// Populate cache
	if h.profileCache != nil {
		_ = h.profileCache.Set(ctx, profile, 0) // Use default TTL
	}

	return query.GetProfileResult{Profile: profile}, nil
}
