package command

import (
	"context"

	"github.com/0xsj/overwatch-pkg/types"

	"github.com/0xsj/overwatch-profile/internal/domain/model"
)

// UpdateProfile applies a partial update to the caller's account.
// An absent field means "no change requested"; so does an empty or
// whitespace-only value.
type UpdateProfile struct {
	AccountID       types.ID
	Username        types.Optional[string]
	Email           types.Optional[string]
	CurrentPassword types.Optional[string]
	NewPassword     types.Optional[string]
	ConfirmPassword types.Optional[string]
	AvatarURL       types.Optional[string]
}

func (c UpdateProfile) CommandName() string {
	return "profile.update_profile"
}

// UpdateProfileResult reports the outcome field by field.
// Validation, uniqueness and collaborator failures are carried in Errors,
// never as a Go error.
type UpdateProfileResult struct {
	Success       bool
	Errors        model.FieldErrors
	UpdatedFields []string

	// Retryable is set when the store rejected the write on a uniqueness
	// constraint that passed the pre-check.
	Retryable bool

	// NotFound is set when the account does not exist.
	NotFound bool

	// Account is the persisted state on success.
	Account *model.Account
}

// UpdateProfileHandler handles the UpdateProfile command.
type UpdateProfileHandler interface {
	Handle(ctx context.Context, cmd UpdateProfile) (UpdateProfileResult, error)
}

// FailedFields returns the rejected field names in sorted order.
func (r UpdateProfileResult) FailedFields() []string {
	return r.Errors.Fields()
}
