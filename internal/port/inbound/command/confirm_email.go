package command

import (
	"context"

	"github.com/0xsj/overwatch-pkg/types"
)

// ConfirmEmail marks the account owning Email as confirmed.
type ConfirmEmail struct {
	Email string

	// AccountID, when set, must own Email or the confirmation is rejected.
	AccountID types.ID
}

func (c ConfirmEmail) CommandName() string {
	return "profile.confirm_email"
}

// ConfirmEmailResult identifies the confirmed account.
type ConfirmEmailResult struct {
	AccountID types.ID
}

// ConfirmEmailHandler handles the ConfirmEmail command.
type ConfirmEmailHandler interface {
	Handle(ctx context.Context, cmd ConfirmEmail) (ConfirmEmailResult, error)
}
