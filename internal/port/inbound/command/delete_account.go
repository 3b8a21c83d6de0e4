package command

import (
	"context"

	"github.com/0xsj/overwatch-pkg/types"
)

// DeleteAccount removes the caller's account.
type DeleteAccount struct {
	AccountID types.ID
}

func (c DeleteAccount) CommandName() string {
	return "profile.delete_account"
}

// DeleteAccountResult is empty on success.
type DeleteAccountResult struct{}

// DeleteAccountHandler handles the DeleteAccount command.
type DeleteAccountHandler interface {
	Handle(ctx context.Context, cmd DeleteAccount) (DeleteAccountResult, error)
}
