package service

import (
	"context"
	"fmt"
	"net/url"

	"github.com/0xsj/overwatch-pkg/types"

	"github.com/0xsj/overwatch-profile/internal/domain/model"
	"github.com/0xsj/overwatch-profile/internal/port/outbound/messaging"
)

const confirmationSubject = "Confirm your email address"

// EmailChangeNotifier queues the confirmation message for a new address.
type EmailChangeNotifier struct {
	queue      messaging.NotificationQueue
	tokens     ConfirmationTokens
	confirmURL string
}

// NewEmailChangeNotifier creates a new EmailChangeNotifier. confirmURL is the
// public endpoint the link points at.
func NewEmailChangeNotifier(
	queue messaging.NotificationQueue,
	tokens ConfirmationTokens,
	confirmURL string,
) *EmailChangeNotifier {
	return &EmailChangeNotifier{
		queue:      queue,
		tokens:     tokens,
		confirmURL: confirmURL,
	}
}

// Notify enqueues exactly one confirmation message addressed to newEmail.
func (n *EmailChangeNotifier) Notify(ctx context.Context, accountID types.ID, newEmail string) error {
	link, err := n.ConfirmationLink(accountID, newEmail)
	if err != nil {
		return err
	}

	msg := model.EmailNotification{
		To:         newEmail,
		Subject:    confirmationSubject,
		Body:       fmt.Sprintf("Please confirm your email address by following this link:\n\n%s\n", link),
		ConfirmURL: link,
	}

	if err := n.queue.Enqueue(ctx, msg); err != nil {
		return fmt.Errorf("enqueue confirmation: %w", err)
	}
	return nil
}

// ConfirmationLink builds the link for newEmail, carrying the address and a signed token.
func (n *EmailChangeNotifier) ConfirmationLink(accountID types.ID, newEmail string) (string, error) {
	u, err := url.Parse(n.confirmURL)
	if err != nil {
		return "", fmt.Errorf("parse confirm url: %w", err)
	}

	token, err := n.tokens.Issue(accountID, newEmail)
	if err != nil {
		return "", fmt.Errorf("issue confirmation token: %w", err)
	}

	q := u.Query()
	q.Set("email", newEmail)
	q.Set("token", token)
	u.RawQuery = q.Encode()

	return u.String(), nil
}
