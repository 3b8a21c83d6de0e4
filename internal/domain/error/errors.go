package error

import (
	stderrors "errors"

	"github.com/0xsj/overwatch-pkg/errors"
)

// Domain error codes
const (
	// Account errors
	CodeAccountNotFound        errors.Code = "ACCOUNT_NOT_FOUND"
	CodeAccountIDRequired      errors.Code = "ACCOUNT_ID_REQUIRED"
	CodeUsernameTaken          errors.Code = "USERNAME_TAKEN"
	CodeEmailTaken             errors.Code = "EMAIL_TAKEN"
	CodeEmailRequired          errors.Code = "EMAIL_REQUIRED"
	CodeEmailAlreadyConfirmed  errors.Code = "EMAIL_ALREADY_CONFIRMED"
	CodeConfirmationTokenInval errors.Code = "CONFIRMATION_TOKEN_INVALID"

	// Avatar errors
	CodeAvatarEmpty           errors.Code = "AVATAR_EMPTY"
	CodeAvatarTooLarge        errors.Code = "AVATAR_TOO_LARGE"
	CodeAvatarUnsupportedType errors.Code = "AVATAR_UNSUPPORTED_TYPE"
	CodeAvatarUploadFailed    errors.Code = "AVATAR_UPLOAD_FAILED"
	CodeAvatarPersistFailed   errors.Code = "AVATAR_PERSIST_FAILED"
)

// Account errors
var (
	ErrAccountNotFound = errors.New(errors.KindNotFound, CodeAccountNotFound, "account not found")

	ErrAccountIDRequired = errors.New(errors.KindValidation, CodeAccountIDRequired, "account ID is required")

	ErrUsernameTaken = errors.New(errors.KindConflict, CodeUsernameTaken, "username is already taken")

	ErrEmailTaken = errors.New(errors.KindConflict, CodeEmailTaken, "email is already in use")

	ErrEmailRequired = errors.New(errors.KindValidation, CodeEmailRequired, "email is required")

	ErrEmailAlreadyConfirmed = errors.New(errors.KindConflict, CodeEmailAlreadyConfirmed, "email is already confirmed")

	ErrConfirmationTokenInvalid = errors.New(errors.KindUnauthorized, CodeConfirmationTokenInval, "confirmation token is invalid")
)

// Avatar errors
var (
	ErrAvatarEmpty = errors.New(errors.KindValidation, CodeAvatarEmpty, "avatar file is empty")

	ErrAvatarTooLarge = errors.New(errors.KindValidation, CodeAvatarTooLarge, "avatar file exceeds the size limit")

	ErrAvatarUnsupportedType = errors.New(errors.KindValidation, CodeAvatarUnsupportedType, "avatar must be a .jpg, .jpeg or .png file")

	ErrAvatarUploadFailed = errors.New(errors.KindDomain, CodeAvatarUploadFailed, "failed to upload avatar")

	ErrAvatarPersistFailed = errors.New(errors.KindDomain, CodeAvatarPersistFailed, "failed to save avatar")
)

// IsPayloadInvalid reports whether err rejects the uploaded avatar bytes themselves.
func IsPayloadInvalid(err error) bool {
	return stderrors.Is(err, ErrAvatarEmpty) ||
		stderrors.Is(err, ErrAvatarTooLarge) ||
		stderrors.Is(err, ErrAvatarUnsupportedType)
}

// IsUpstreamFailure reports whether err came from a collaborator rather than the caller.
func IsUpstreamFailure(err error) bool {
	return stderrors.Is(err, ErrAvatarUploadFailed) ||
		stderrors.Is(err, ErrAvatarPersistFailed)
}
