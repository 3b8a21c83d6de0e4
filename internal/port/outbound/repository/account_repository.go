package repository

import (
	"context"

	"github.com/0xsj/overwatch-pkg/types"

	"github.com/0xsj/overwatch-profile/internal/domain/model"
)

// AccountRepository defines the interface for account persistence.
// Lookups return ErrNotFound when no account matches.
type AccountRepository interface {
	// FindByID retrieves an account by its ID.
	FindByID(ctx context.Context, id types.ID) (*model.Account, error)

	// FindByUsername retrieves an account by exact username.
	FindByUsername(ctx context.Context, username string) (*model.Account, error)

	// FindByEmail retrieves an account by email, ignoring case.
	FindByEmail(ctx context.Context, email string) (*model.Account, error)

	// CheckPassword reports whether password matches the stored hash.
	CheckPassword(ctx context.Context, id types.ID, password string) (bool, error)

	// RotatePassword replaces the stored hash after currentPassword is verified.
	// Returns ErrPasswordMismatch if verification fails.
	RotatePassword(ctx context.Context, id types.ID, currentPassword, newPassword string) error

	// Update persists username, email, confirmation and avatar state.
	// Returns ErrUsernameConflict or ErrEmailConflict on a uniqueness violation.
	Update(ctx context.Context, account *model.Account) error

	// Delete removes an account by ID.
	Delete(ctx context.Context, id types.ID) error
}
