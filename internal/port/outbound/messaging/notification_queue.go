package messaging

import (
	"context"

	"github.com/0xsj/overwatch-profile/internal/domain/model"
)

// NotificationQueue hands outbound emails to a delivery worker.
// Enqueue returns once the message is accepted; delivery is not awaited.
type NotificationQueue interface {
	Enqueue(ctx context.Context, msg model.EmailNotification) error
}
