package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/0xsj/overwatch-pkg/types"

	domainerror "github.com/0xsj/overwatch-profile/internal/domain/error"
	"github.com/0xsj/overwatch-profile/internal/domain/model"
	"github.com/0xsj/overwatch-profile/internal/port/outbound/repository"
)

// UniquenessChecker answers whether a username or email is free for an account.
// It is a read-then-decide check; the store's unique indexes are the final word.
type UniquenessChecker struct {
	accounts repository.AccountRepository
}

// NewUniquenessChecker creates a new UniquenessChecker.
func NewUniquenessChecker(accounts repository.AccountRepository) *UniquenessChecker {
	return &UniquenessChecker{accounts: accounts}
}

// CheckUsername returns ErrUsernameTaken if another account holds username.
func (c *UniquenessChecker) CheckUsername(ctx context.Context, username string, excluding types.ID) error {
	acc, err := c.accounts.FindByUsername(ctx, username)
	if err := decide(acc, err, excluding); err != nil {
		if err == errTaken {
			return domainerror.ErrUsernameTaken
		}
		return fmt.Errorf("lookup username: %w", err)
	}
	return nil
}

// CheckEmail returns ErrEmailTaken if another account holds email.
func (c *UniquenessChecker) CheckEmail(ctx context.Context, email string, excluding types.ID) error {
	acc, err := c.accounts.FindByEmail(ctx, email)
	if err := decide(acc, err, excluding); err != nil {
		if err == errTaken {
			return domainerror.ErrEmailTaken
		}
		return fmt.Errorf("lookup email: %w", err)
	}
	return nil
}

var errTaken = errors.New("taken")

func decide(acc *model.Account, err error, excluding types.ID) error {
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	if acc == nil || acc.ID() == excluding {
		return nil
	}
	return errTaken
}
