package command

import (
	"context"

	"github.com/0xsj/overwatch-pkg/types"
)

// ReplaceAvatar uploads a new profile image for the caller.
type ReplaceAvatar struct {
	AccountID   types.ID
	Data        []byte
	FileName    string
	ContentType string

	// DeleteOld removes the previous image, best-effort, before the upload.
	DeleteOld bool
}

func (c ReplaceAvatar) CommandName() string {
	return "profile.replace_avatar"
}

// ReplaceAvatarResult contains the public URL of the stored image.
type ReplaceAvatarResult struct {
	URL string
}

// ReplaceAvatarHandler handles the ReplaceAvatar command.
type ReplaceAvatarHandler interface {
	Handle(ctx context.Context, cmd ReplaceAvatar) (ReplaceAvatarResult, error)
}
