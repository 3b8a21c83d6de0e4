package event

import (
	"github.com/0xsj/overwatch-pkg/types"
)

// AccountUpdated is emitted when a profile patch is committed.
type AccountUpdated struct {
	BaseEvent
	AccountID     types.ID `json:"account_id"`
	UpdatedFields []string `json:"updated_fields"`
}

func NewAccountUpdated(accountID types.ID, updatedFields []string) AccountUpdated {
	return AccountUpdated{
		BaseEvent:     newAccountEvent(EventTypeAccountUpdated, accountID),
		AccountID:     accountID,
		UpdatedFields: updatedFields,
	}
}

// EmailChangeRequested is emitted once a confirmation for a new address was queued.
type EmailChangeRequested struct {
	BaseEvent
	AccountID types.ID `json:"account_id"`
	NewEmail  string   `json:"new_email"`
}

func NewEmailChangeRequested(accountID types.ID, newEmail string) EmailChangeRequested {
	return EmailChangeRequested{
		BaseEvent: newAccountEvent(EventTypeEmailChangeRequested, accountID),
		AccountID: accountID,
		NewEmail:  newEmail,
	}
}

// EmailConfirmed is emitted when an address is confirmed.
type EmailConfirmed struct {
	BaseEvent
	AccountID types.ID `json:"account_id"`
	Email     string   `json:"email"`
}

func NewEmailConfirmed(accountID types.ID, email string) EmailConfirmed {
	return EmailConfirmed{
		BaseEvent: newAccountEvent(EventTypeEmailConfirmed, accountID),
		AccountID: accountID,
		Email:     email,
	}
}

// PasswordRotated is emitted after a verified password rotation. It never
// carries the password or its hash.
type PasswordRotated struct {
	BaseEvent
	AccountID types.ID `json:"account_id"`
}

func NewPasswordRotated(accountID types.ID) PasswordRotated {
	return PasswordRotated{
		BaseEvent: newAccountEvent(EventTypePasswordRotated, accountID),
		AccountID: accountID,
	}
}

// AvatarReplaced is emitted when a new profile image is stored.
type AvatarReplaced struct {
	BaseEvent
	AccountID types.ID `json:"account_id"`
	AvatarURL string   `json:"avatar_url"`
}

func NewAvatarReplaced(accountID types.ID, avatarURL string) AvatarReplaced {
	return AvatarReplaced{
		BaseEvent: newAccountEvent(EventTypeAvatarReplaced, accountID),
		AccountID: accountID,
		AvatarURL: avatarURL,
	}
}

// AccountDeleted is emitted when an account is removed.
type AccountDeleted struct {
	BaseEvent
	AccountID types.ID `json:"account_id"`
}

func NewAccountDeleted(accountID types.ID) AccountDeleted {
	return AccountDeleted{
		BaseEvent: newAccountEvent(EventTypeAccountDeleted, accountID),
		AccountID: accountID,
	}
}
