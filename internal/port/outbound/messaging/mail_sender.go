package messaging

import (
	"context"

	"github.com/0xsj/overwatch-profile/internal/domain/model"
)

// MailSender delivers a queued email.
type MailSender interface {
	Send(ctx context.Context, msg model.EmailNotification) error
}
