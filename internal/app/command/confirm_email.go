package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domainerror "github.com/0xsj/overwatch-profile/internal/domain/error"
	"github.com/0xsj/overwatch-profile/internal/domain/event"
	"github.com/0xsj/overwatch-profile/internal/port/inbound/command"
	"github.com/0xsj/overwatch-profile/internal/port/outbound/cache"
	"github.com/0xsj/overwatch-profile/internal/port/outbound/messaging"
	"github.com/0xsj/overwatch-profile/internal/port/outbound/repository"
)

// confirmEmailHandler implements command.ConfirmEmailHandler.
type confirmEmailHandler struct {
	accounts  repository.AccountRepository
	cache     cache.ProfileCache
	publisher messaging.EventPublisher
}

// NewConfirmEmailHandler creates a new ConfirmEmailHandler.
func NewConfirmEmailHandler(
	accounts repository.AccountRepository,
	profileCache cache.ProfileCache,
	publisher messaging.EventPublisher,
) command.ConfirmEmailHandler {
	return &confirmEmailHandler{
		accounts:  accounts,
		cache:     profileCache,
		publisher: publisher,
	}
}

func (h *confirmEmailHandler) Handle(ctx context.Context, cmd command.ConfirmEmail) (command.ConfirmEmailResult, error) {
	email := strings.TrimSpace(cmd.Email)
	if email == "" {
		return command.ConfirmEmailResult{}, domainerror.ErrEmailRequired
	}

	acc, err := h.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return command.ConfirmEmailResult{}, domainerror.ErrAccountNotFound
		}
		return command.ConfirmEmailResult{}, fmt.Errorf("load account: %w", err)
	}

	if !cmd.AccountID.IsEmpty() && acc.ID() != cmd.AccountID {
		return command.ConfirmEmailResult{}, domainerror.ErrConfirmationTokenInvalid
	}

	if err := acc.ConfirmEmail(); err != nil {
		return command.ConfirmEmailResult{}, err
	}

	if err := h.accounts.Update(ctx, acc); err != nil {
		return command.ConfirmEmailResult{}, fmt.Errorf("save account: %w", err)
	}

	if h.cache != nil {
		_ = h.cache.Delete(ctx, acc.ID())
	}
	if h.publisher != nil {
		_ = h.publisher.Publish(ctx, event.NewEmailConfirmed(acc.ID(), acc.Email()))
	}

	return command.ConfirmEmailResult{AccountID: acc.ID()}, nil
}
