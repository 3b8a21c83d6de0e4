package model

import (
	"github.com/0xsj/overwatch-pkg/types"
)

// Profile is the outward-facing read model of an Account.
type Profile struct {
	ID        types.ID
	Username  string
	Email     string
	AvatarURL types.Optional[string]
	Initials  types.Optional[string]
}

// NewProfile projects an account into its read model. A nil account projects to None.
func NewProfile(acc *Account) types.Optional[Profile] {
	if acc == nil {
		return types.None[Profile]()
	}
	return types.Some(Profile{
		ID:        acc.ID(),
		Username:  acc.Username(),
		Email:     acc.Email(),
		AvatarURL: acc.AvatarURL(),
		Initials:  acc.DisplayInitials(),
	})
}
