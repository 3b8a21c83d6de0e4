package nats

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/0xsj/overwatch-pkg/log"

	natsout "github.com/0xsj/overwatch-profile/internal/adapter/outbound/nats"
	"github.com/0xsj/overwatch-profile/internal/domain/model"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []model.EmailNotification
	err  error
}

func (f *fakeSender) Send(ctx context.Context, msg model.EmailNotification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func newTestConsumer(sender *fakeSender) *EmailConsumer {
	return NewEmailConsumer(nil, sender, log.NewPretty(log.DefaultConfig()), ConsumerConfig{})
}

func TestEmailConsumer_Process(t *testing.T) {
	ctx := context.Background()
	payload, err := natsout.EncodeEmailMessage(model.EmailNotification{
		To:      "new@example.com",
		Subject: "Confirm your email address",
		Body:    "link",
	})
	if err != nil {
		t.Fatalf("EncodeEmailMessage() error = %v", err)
	}

	t.Run("delivered message is acked", func(t *testing.T) {
		sender := &fakeSender{}
		if got := newTestConsumer(sender).process(ctx, payload); got != ack {
			t.Errorf("process() = %v, want ack", got)
		}
		if len(sender.sent) != 1 || sender.sent[0].To != "new@example.com" {
			t.Errorf("sent = %+v", sender.sent)
		}
	})

	t.Run("delivery failure is retried", func(t *testing.T) {
		sender := &fakeSender{err: errors.New("smtp unavailable")}
		if got := newTestConsumer(sender).process(ctx, payload); got != nak {
			t.Errorf("process() = %v, want nak", got)
		}
	})

	t.Run("malformed message is terminated", func(t *testing.T) {
		sender := &fakeSender{}
		if got := newTestConsumer(sender).process(ctx, []byte("not json")); got != term {
			t.Errorf("process() = %v, want term", got)
		}
		if len(sender.sent) != 0 {
			t.Error("nothing should be sent")
		}
	})
}

func TestNewEmailConsumer_Defaults(t *testing.T) {
	c := newTestConsumer(&fakeSender{})

	if c.config.Durable != "mailer" {
		t.Errorf("Durable = %s, want mailer", c.config.Durable)
	}
	if c.config.BatchSize != 10 || c.config.MaxDeliver != 5 {
		t.Errorf("config = %+v", c.config)
	}
}
