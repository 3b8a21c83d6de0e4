package query

import (
	"github.com/0xsj/overwatch-pkg/types"

	"github.com/0xsj/overwatch-profile/internal/domain/model"
)

// GetProfile retrieves the read model of an account.
type GetProfile struct {
	AccountID types.ID
}

func (q GetProfile) QueryName() string {
	return "profile.get_profile"
}

// GetProfileResult contains the profile.
type GetProfileResult struct {
	Profile model.Profile
}

// GetProfileHandler handles the GetProfile query.
type GetProfileHandler interface {
	Handler[GetProfile, GetProfileResult]
}
