package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/0xsj/overwatch-pkg/log"
	"github.com/0xsj/overwatch-pkg/types"

	"github.com/0xsj/overwatch-profile/internal/app/service"
	domainerror "github.com/0xsj/overwatch-profile/internal/domain/error"
	"github.com/0xsj/overwatch-profile/internal/domain/event"
	"github.com/0xsj/overwatch-profile/internal/port/inbound/command"
	"github.com/0xsj/overwatch-profile/internal/port/outbound/cache"
	"github.com/0xsj/overwatch-profile/internal/port/outbound/messaging"
	"github.com/0xsj/overwatch-profile/internal/port/outbound/repository"
	"github.com/0xsj/overwatch-profile/internal/port/outbound/storage"
)

// deleteAccountHandler implements command.DeleteAccountHandler.
type deleteAccountHandler struct {
	accounts  repository.AccountRepository
	objects   storage.ObjectStore
	container string
	cache     cache.ProfileCache
	publisher messaging.EventPublisher
	logger    log.Logger
}

// NewDeleteAccountHandler creates a new DeleteAccountHandler.
func NewDeleteAccountHandler(
	accounts repository.AccountRepository,
	objects storage.ObjectStore,
	container string,
	profileCache cache.ProfileCache,
	publisher messaging.EventPublisher,
	logger log.Logger,
) command.DeleteAccountHandler {
	return &deleteAccountHandler{
		accounts:  accounts,
		objects:   objects,
		container: container,
		cache:     profileCache,
		publisher: publisher,
		logger:    logger,
	}
}

func (h *deleteAccountHandler) Handle(ctx context.Context, cmd command.DeleteAccount) (command.DeleteAccountResult, error) {
	if cmd.AccountID.IsEmpty() {
		return command.DeleteAccountResult{}, domainerror.ErrAccountIDRequired
	}

	acc, err := h.accounts.FindByID(ctx, cmd.AccountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return command.DeleteAccountResult{}, domainerror.ErrAccountNotFound
		}
		return command.DeleteAccountResult{}, fmt.Errorf("load account: %w", err)
	}

	if err := h.accounts.Delete(ctx, acc.ID()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return command.DeleteAccountResult{}, domainerror.ErrAccountNotFound
		}
		return command.DeleteAccountResult{}, fmt.Errorf("delete account: %w", err)
	}

	if acc.AvatarURL().IsPresent() && h.objects != nil {
		h.removeAvatar(ctx, acc.ID(), acc.AvatarURL().MustGet())
	}

	if h.cache != nil {
		_ = h.cache.Delete(ctx, acc.ID())
	}
	if h.publisher != nil {
		_ = h.publisher.Publish(ctx, event.NewAccountDeleted(acc.ID()))
	}

	return command.DeleteAccountResult{}, nil
}

func (h *deleteAccountHandler) removeAvatar(ctx context.Context, owner types.ID, url string) {
	key, ok := h.objects.KeyFromURL(h.container, url)
	if !ok {
		return
	}
	if !service.AvatarKeyOwnedBy(owner, key) {
		h.logger.Warn("skipping avatar object owned by another account",
			log.String("account_id", owner.String()),
			log.String("key", key),
		)
		return
	}
	if err := h.objects.DeleteIfExists(ctx, h.container, key); err != nil {
		h.logger.Warn("failed to delete avatar of removed account",
			log.String("account_id", owner.String()),
			log.String("error", err.Error()),
		)
	}
}
