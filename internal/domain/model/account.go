package model

import (
	"strings"

	"github.com/0xsj/overwatch-pkg/types"

	domainerror "github.com/0xsj/overwatch-profile/internal/domain/error"
)

// Account is the root aggregate for a user's profile.
type Account struct {
	id              types.ID
	username        string
	email           string
	emailConfirmed  bool
	avatarURL       types.Optional[string]
	displayInitials types.Optional[string]
	createdAt       types.Timestamp
	updatedAt       types.Timestamp
}

// ReconstructAccount creates an Account from persisted data (bypasses validation).
// Used by repository and cache when loading stored state.
func ReconstructAccount(
	id types.ID,
	username string,
	email string,
	emailConfirmed bool,
	avatarURL types.Optional[string],
	displayInitials types.Optional[string],
	createdAt types.Timestamp,
	updatedAt types.Timestamp,
) *Account {
	return &Account{
		id:              id,
		username:        username,
		email:           email,
		emailConfirmed:  emailConfirmed,
		avatarURL:       avatarURL,
		displayInitials: displayInitials,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// Getters

func (a *Account) ID() types.ID                            { return a.id }
func (a *Account) Username() string                        { return a.username }
func (a *Account) Email() string                           { return a.email }
func (a *Account) EmailConfirmed() bool                    { return a.emailConfirmed }
func (a *Account) AvatarURL() types.Optional[string]       { return a.avatarURL }
func (a *Account) DisplayInitials() types.Optional[string] { return a.displayInitials }
func (a *Account) CreatedAt() types.Timestamp              { return a.createdAt }
func (a *Account) UpdatedAt() types.Timestamp              { return a.updatedAt }

// Commands

func (a *Account) SetUsername(username string) {
	a.username = username
	a.updatedAt = types.Now()
}

// SetEmail replaces the address and drops its confirmation.
func (a *Account) SetEmail(email string) {
	a.email = email
	a.emailConfirmed = false
	a.updatedAt = types.Now()
}

func (a *Account) SetAvatarURL(url string) {
	a.avatarURL = types.Some(url)
	a.updatedAt = types.Now()
}

func (a *Account) ClearAvatarURL() {
	a.avatarURL = types.None[string]()
	a.updatedAt = types.Now()
}

func (a *Account) ConfirmEmail() error {
	if a.emailConfirmed {
		return domainerror.ErrEmailAlreadyConfirmed
	}
	a.emailConfirmed = true
	a.updatedAt = types.Now()
	return nil
}

// Queries

// HasUsername reports whether username is the account's current one.
func (a *Account) HasUsername(username string) bool {
	return a.username == username
}

// HasEmail reports whether email is the account's current address, ignoring case.
func (a *Account) HasEmail(email string) bool {
	return strings.EqualFold(a.email, email)
}

// Clone returns an independent working copy.
func (a *Account) Clone() *Account {
	c := *a
	return &c
}
