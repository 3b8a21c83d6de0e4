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

// replaceAvatarHandler implements command.ReplaceAvatarHandler.
type replaceAvatarHandler struct {
	accounts  repository.AccountRepository
	objects   storage.ObjectStore
	container string
	policy    service.AvatarPolicy
	cache     cache.ProfileCache
	publisher messaging.EventPublisher
	logger    log.Logger
}

// NewReplaceAvatarHandler creates a new ReplaceAvatarHandler storing images in container.
func NewReplaceAvatarHandler(
	accounts repository.AccountRepository,
	objects storage.ObjectStore,
	container string,
	policy service.AvatarPolicy,
	profileCache cache.ProfileCache,
	publisher messaging.EventPublisher,
	logger log.Logger,
) command.ReplaceAvatarHandler {
	return &replaceAvatarHandler{
		accounts:  accounts,
		objects:   objects,
		container: container,
		policy:    policy,
		cache:     profileCache,
		publisher: publisher,
		logger:    logger,
	}
}

func (h *replaceAvatarHandler) Handle(ctx context.Context, cmd command.ReplaceAvatar) (command.ReplaceAvatarResult, error) {
	if cmd.AccountID.IsEmpty() {
		return command.ReplaceAvatarResult{}, domainerror.ErrAccountIDRequired
	}

	ext, err := h.policy.Check(cmd.Data, cmd.FileName)
	if err != nil {
		return command.ReplaceAvatarResult{}, err
	}

	acc, err := h.accounts.FindByID(ctx, cmd.AccountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return command.ReplaceAvatarResult{}, domainerror.ErrAccountNotFound
		}
		return command.ReplaceAvatarResult{}, fmt.Errorf("load account: %w", err)
	}

	// Old image removal is best-effort and happens before the upload.
	if cmd.DeleteOld && acc.AvatarURL().IsPresent() {
		h.deleteObject(ctx, acc.ID(), acc.AvatarURL().MustGet())
	}

	key := h.policy.ObjectKey(acc.ID(), ext)
	url, err := h.objects.Put(ctx, h.container, key, cmd.Data, h.policy.ContentType(cmd.ContentType, ext))
	if err != nil {
		h.logger.Error("avatar upload failed",
			log.String("account_id", acc.ID().String()),
			log.String("key", key),
			log.String("error", err.Error()),
		)
		return command.ReplaceAvatarResult{}, fmt.Errorf("%w: %v", domainerror.ErrAvatarUploadFailed, err)
	}

	acc.SetAvatarURL(url)
	if err := h.accounts.Update(ctx, acc); err != nil {
		h.logger.Error("failed to persist avatar URL",
			log.String("account_id", acc.ID().String()),
			log.String("error", err.Error()),
		)
		h.deleteObject(ctx, acc.ID(), url)
		return command.ReplaceAvatarResult{}, fmt.Errorf("%w: %v", domainerror.ErrAvatarPersistFailed, err)
	}

	if h.cache != nil {
		_ = h.cache.Delete(ctx, acc.ID())
	}
	if h.publisher != nil {
		_ = h.publisher.Publish(ctx, event.NewAvatarReplaced(acc.ID(), url))
	}

	return command.ReplaceAvatarResult{URL: url}, nil
}

func (h *replaceAvatarHandler) deleteObject(ctx context.Context, owner types.ID, url string) {
	key, ok := h.objects.KeyFromURL(h.container, url)
	if !ok {
		h.logger.Warn("avatar URL is not in the avatar container", log.String("url", url))
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
		h.logger.Warn("failed to delete avatar object",
			log.String("key", key),
			log.String("error", err.Error()),
		)
	}
}
