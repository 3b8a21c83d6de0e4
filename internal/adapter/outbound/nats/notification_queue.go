package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/0xsj/overwatch-profile/internal/domain/model"
	"github.com/0xsj/overwatch-profile/internal/port/outbound/messaging"
)

const (
	// EmailStream is the JetStream stream holding outbound email.
	EmailStream = "PROFILE_EMAIL"

	emailSubjectSuffix = "email.outbound"
	emailMaxAge        = 7 * 24 * time.Hour
)

// EmailSubject returns the outbound email subject under prefix.
func EmailSubject(prefix string) string {
	if prefix == "" {
		prefix = "overwatch"
	}
	return prefix + "." + emailSubjectSuffix
}

// EnsureEmailStream creates the work-queue stream for outbound email if missing.
func EnsureEmailStream(js nats.JetStreamContext, prefix string) error {
	_, err := js.StreamInfo(EmailStream)
	if err == nil {
		return nil
	}
	if !errors.Is(err, nats.ErrStreamNotFound) {
		return fmt.Errorf("failed to look up stream %s: %w", EmailStream, err)
	}

	_, err = js.AddStream(&nats.StreamConfig{
		Name:      EmailStream,
		Subjects:  []string{EmailSubject(prefix)},
		Retention: nats.WorkQueuePolicy,
		Storage:   nats.FileStorage,
		MaxAge:    emailMaxAge,
	})
	if err != nil {
		return fmt.Errorf("failed to create stream %s: %w", EmailStream, err)
	}
	return nil
}

// notificationQueue implements messaging.NotificationQueue on JetStream.
type notificationQueue struct {
	js      nats.JetStreamContext
	subject string
}

// NewNotificationQueue creates a new NotificationQueue publishing under prefix.
func NewNotificationQueue(js nats.JetStreamContext, prefix string) messaging.NotificationQueue {
	return &notificationQueue{
		js:      js,
		subject: EmailSubject(prefix),
	}
}

func (q *notificationQueue) Enqueue(ctx context.Context, msg model.EmailNotification) error {
	data, err := EncodeEmailMessage(msg)
	if err != nil {
		return err
	}

	if _, err := q.js.Publish(q.subject, data, nats.Context(ctx)); err != nil {
		return fmt.Errorf("failed to enqueue email: %w", err)
	}
	return nil
}

// emailMessage is the queue wire format.
type emailMessage struct {
	To         string `json:"to"`
	Subject    string `json:"subject"`
	Body       string `json:"body"`
	ConfirmURL string `json:"confirm_url,omitempty"`
}

// EncodeEmailMessage serializes msg to the queue wire format.
func EncodeEmailMessage(msg model.EmailNotification) ([]byte, error) {
	data, err := json.Marshal(emailMessage{
		To:         msg.To,
		Subject:    msg.Subject,
		Body:       msg.Body,
		ConfirmURL: msg.ConfirmURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal email: %w", err)
	}
	return data, nil
}

// DecodeEmailMessage parses the queue wire format. A message without a
// recipient is rejected.
func DecodeEmailMessage(data []byte) (model.EmailNotification, error) {
	var m emailMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return model.EmailNotification{}, fmt.Errorf("failed to unmarshal email: %w", err)
	}
	if m.To == "" {
		return model.EmailNotification{}, errors.New("email message has no recipient")
	}
	return model.EmailNotification{
		To:         m.To,
		Subject:    m.Subject,
		Body:       m.Body,
		ConfirmURL: m.ConfirmURL,
	}, nil
}
