package command

import (
	"context"
	"errors"
	"strings"

	"github.com/0xsj/overwatch-pkg/log"
	"github.com/0xsj/overwatch-pkg/types"

	"github.com/0xsj/overwatch-profile/internal/app/service"
	domainerror "github.com/0xsj/overwatch-profile/internal/domain/error"
	"github.com/0xsj/overwatch-profile/internal/domain/event"
	"github.com/0xsj/overwatch-profile/internal/domain/model"
	"github.com/0xsj/overwatch-profile/internal/domain/validation"
	"github.com/0xsj/overwatch-profile/internal/port/inbound/command"
	"github.com/0xsj/overwatch-profile/internal/port/outbound/cache"
	"github.com/0xsj/overwatch-profile/internal/port/outbound/messaging"
	"github.com/0xsj/overwatch-profile/internal/port/outbound/repository"
)

// Field error messages that are not produced by validation rules.
const (
	msgAccountLoadFailed    = "failed to load account"
	msgSaveFailed           = "failed to save profile"
	msgUsernameTaken        = "username is already taken"
	msgUsernameCheckFailed  = "failed to verify username availability"
	msgEmailTaken           = "email is already in use"
	msgEmailCheckFailed     = "failed to verify email availability"
	msgConfirmationFailed   = "failed to send confirmation"
	msgCurrentPwdRequired   = "current password is required"
	msgCurrentPwdIncorrect  = "current password is incorrect"
	msgCurrentPwdCheckFail  = "failed to verify current password"
	msgPasswordsMismatch    = "passwords do not match"
	msgPasswordUpdateFailed = "failed to update password"
)

// updateProfileHandler implements command.UpdateProfileHandler.
type updateProfileHandler struct {
	accounts  repository.AccountRepository
	checker   *service.UniquenessChecker
	notifier  *service.EmailChangeNotifier
	cache     cache.ProfileCache
	publisher messaging.EventPublisher
	logger    log.Logger
}

// NewUpdateProfileHandler creates a new UpdateProfileHandler.
func NewUpdateProfileHandler(
	accounts repository.AccountRepository,
	checker *service.UniquenessChecker,
	notifier *service.EmailChangeNotifier,
	profileCache cache.ProfileCache,
	publisher messaging.EventPublisher,
	logger log.Logger,
) command.UpdateProfileHandler {
	return &updateProfileHandler{
		accounts:  accounts,
		checker:   checker,
		notifier:  notifier,
		cache:     profileCache,
		publisher: publisher,
		logger:    logger,
	}
}

// patch tracks what one request has staged on its working copy.
type patch struct {
	account *model.Account
	errs    model.FieldErrors
	staged  []string
	rotated bool
	events  []event.Event
}

func (h *updateProfileHandler) Handle(ctx context.Context, cmd command.UpdateProfile) (command.UpdateProfileResult, error) {
	if cmd.AccountID.IsEmpty() {
		return command.UpdateProfileResult{}, domainerror.ErrAccountIDRequired
	}

	p := &patch{errs: model.FieldErrors{}}

	// Load a fresh working copy; nothing is carried across requests.
	acc, err := h.accounts.FindByID(ctx, cmd.AccountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			p.errs.Add(model.FieldGeneral, model.MsgAccountNotFound)
			res := p.result()
			res.NotFound = true
			return res, nil
		}
		h.logger.Error("failed to load account",
			log.String("account_id", cmd.AccountID.String()),
			log.String("error", err.Error()),
		)
		p.errs.Add(model.FieldGeneral, msgAccountLoadFailed)
		return p.result(), nil
	}
	p.account = acc

	if username, ok := presentValue(cmd.Username, true); ok {
		h.applyUsername(ctx, p, username)
	}

	if email, ok := presentValue(cmd.Email, true); ok {
		h.applyEmail(ctx, p, email)
	}

	if newPassword, ok := presentValue(cmd.NewPassword, false); ok {
		h.applyPassword(ctx, p, cmd, newPassword)
	}

	if avatarURL, ok := presentValue(cmd.AvatarURL, true); ok {
		h.applyAvatarURL(p, avatarURL)
	}

	// Any error discards staged mutations. A rotated password stays rotated.
	if !p.errs.Empty() {
		return p.result(), nil
	}

	if len(p.staged) > 0 {
		if err := h.accounts.Update(ctx, p.account); err != nil {
			return h.persistFailed(p, err), nil
		}

		if h.cache != nil {
			if err := h.cache.Delete(ctx, p.account.ID()); err != nil {
				h.logger.Warn("failed to invalidate profile cache",
					log.String("account_id", p.account.ID().String()),
					log.String("error", err.Error()),
				)
			}
		}

		p.events = append([]event.Event{event.NewAccountUpdated(p.account.ID(), p.staged)}, p.events...)
	}

	h.publish(ctx, p.events)

	res := p.result()
	res.Success = true
	res.Account = p.account
	return res, nil
}

func (h *updateProfileHandler) applyUsername(ctx context.Context, p *patch, username string) {
	if p.account.HasUsername(username) {
		return
	}

	if msg := validation.ValidateUsername(username); msg != "" {
		p.errs.Add(model.FieldUsername, msg)
		return
	}

	if err := h.checker.CheckUsername(ctx, username, p.account.ID()); err != nil {
		if errors.Is(err, domainerror.ErrUsernameTaken) {
			p.errs.Add(model.FieldUsername, msgUsernameTaken)
			return
		}
		h.logger.Error("username availability check failed", log.String("error", err.Error()))
		p.errs.Add(model.FieldUsername, msgUsernameCheckFailed)
		return
	}

	p.account.SetUsername(username)
	p.staged = append(p.staged, model.FieldUsername)
}

func (h *updateProfileHandler) applyEmail(ctx context.Context, p *patch, email string) {
	if p.account.HasEmail(email) {
		return
	}

	if msg := validation.ValidateEmail(email); msg != "" {
		p.errs.Add(model.FieldEmail, msg)
		return
	}

	if err := h.checker.CheckEmail(ctx, email, p.account.ID()); err != nil {
		if errors.Is(err, domainerror.ErrEmailTaken) {
			p.errs.Add(model.FieldEmail, msgEmailTaken)
			return
		}
		h.logger.Error("email availability check failed", log.String("error", err.Error()))
		p.errs.Add(model.FieldEmail, msgEmailCheckFailed)
		return
	}

	// The address is only staged once its confirmation is queued.
	if err := h.notifier.Notify(ctx, p.account.ID(), email); err != nil {
		h.logger.Error("failed to queue email confirmation",
			log.String("account_id", p.account.ID().String()),
			log.String("error", err.Error()),
		)
		p.errs.Add(model.FieldEmail, msgConfirmationFailed)
		return
	}

	p.account.SetEmail(email)
	p.staged = append(p.staged, model.FieldEmail)
	p.events = append(p.events, event.NewEmailChangeRequested(p.account.ID(), email))
}

func (h *updateProfileHandler) applyPassword(ctx context.Context, p *patch, cmd command.UpdateProfile, newPassword string) {
	failed := false
	fail := func(field, msg string) {
		p.errs.Add(field, msg)
		failed = true
	}

	current, hasCurrent := presentValue(cmd.CurrentPassword, false)
	if !hasCurrent {
		fail(model.FieldCurrentPassword, msgCurrentPwdRequired)
	} else {
		ok, err := h.accounts.CheckPassword(ctx, p.account.ID(), current)
		switch {
		case err != nil:
			h.logger.Error("current password check failed", log.String("error", err.Error()))
			fail(model.FieldCurrentPassword, msgCurrentPwdCheckFail)
		case !ok:
			fail(model.FieldCurrentPassword, msgCurrentPwdIncorrect)
		}
	}

	if msg := validation.ValidatePassword(newPassword); msg != "" {
		fail(model.FieldNewPassword, msg)
	}

	confirm, _ := presentValue(cmd.ConfirmPassword, false)
	if confirm != newPassword {
		fail(model.FieldConfirmPassword, msgPasswordsMismatch)
	}

	if failed {
		return
	}

	// Rotation is its own store operation and is not undone if a later step fails.
	if err := h.accounts.RotatePassword(ctx, p.account.ID(), current, newPassword); err != nil {
		if errors.Is(err, repository.ErrPasswordMismatch) {
			p.errs.Add(model.FieldCurrentPassword, msgCurrentPwdIncorrect)
			return
		}
		h.logger.Error("password rotation failed",
			log.String("account_id", p.account.ID().String()),
			log.String("error", err.Error()),
		)
		p.errs.Add(model.FieldNewPassword, msgPasswordUpdateFailed)
		return
	}

	p.rotated = true
	h.publish(ctx, []event.Event{event.NewPasswordRotated(p.account.ID())})
}

func (h *updateProfileHandler) applyAvatarURL(p *patch, avatarURL string) {
	if current := p.account.AvatarURL(); current.IsPresent() && current.MustGet() == avatarURL {
		return
	}

	if msg := validation.ValidateAvatarURL(avatarURL); msg != "" {
		p.errs.Add(model.FieldAvatarURL, msg)
		return
	}

	p.account.SetAvatarURL(avatarURL)
	p.staged = append(p.staged, model.FieldAvatarURL)
}

func (h *updateProfileHandler) persistFailed(p *patch, err error) command.UpdateProfileResult {
	retryable, notFound := false, false

	switch {
	case errors.Is(err, repository.ErrUsernameConflict):
		p.errs.Add(model.FieldUsername, msgUsernameTaken)
		retryable = true
	case errors.Is(err, repository.ErrEmailConflict):
		p.errs.Add(model.FieldEmail, msgEmailTaken)
		retryable = true
	case errors.Is(err, repository.ErrNotFound):
		p.errs.Add(model.FieldGeneral, model.MsgAccountNotFound)
		notFound = true
	default:
		h.logger.Error("failed to persist profile",
			log.String("account_id", p.account.ID().String()),
			log.String("error", err.Error()),
		)
		p.errs.Add(model.FieldGeneral, msgSaveFailed)
	}

	res := p.result()
	res.Retryable = retryable
	res.NotFound = notFound
	return res
}

func (h *updateProfileHandler) publish(ctx context.Context, events []event.Event) {
	if h.publisher == nil || len(events) == 0 {
		return
	}
	if err := h.publisher.PublishAll(ctx, events); err != nil {
		h.logger.Warn("failed to publish account events", log.String("error", err.Error()))
	}
}

// result reports what actually reached the store: staged fields only on
// success, plus a password rotation whenever one happened.
func (p *patch) result() command.UpdateProfileResult {
	var fields []string
	if p.errs.Empty() {
		fields = append(fields, p.staged...)
	}
	if p.rotated {
		fields = append(fields, "password")
	}
	return command.UpdateProfileResult{
		Success:       false,
		Errors:        p.errs,
		UpdatedFields: fields,
	}
}

// presentValue treats an absent, empty or whitespace-only value as "no change".
func presentValue(opt types.Optional[string], trim bool) (string, bool) {
	if opt.IsEmpty() {
		return "", false
	}
	v := opt.MustGet()
	if strings.TrimSpace(v) == "" {
		return "", false
	}
	if trim {
		v = strings.TrimSpace(v)
	}
	return v, true
}
