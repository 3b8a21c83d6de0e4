package nats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/0xsj/overwatch-pkg/log"

	natsout "github.com/0xsj/overwatch-profile/internal/adapter/outbound/nats"
	"github.com/0xsj/overwatch-profile/internal/port/outbound/messaging"
)

// ConsumerConfig holds configuration for the email consumer.
type ConsumerConfig struct {
	SubjectPrefix string
	Durable       string
	BatchSize     int
	MaxDeliver    int
	RetryDelay    time.Duration
	FetchWait     time.Duration
}

// disposition is what happens to a message after processing.
type disposition int

const (
	ack disposition = iota
	nak
	term
)

// EmailConsumer drains the outbound email stream into a MailSender.
type EmailConsumer struct {
	js     nats.JetStreamContext
	sender messaging.MailSender
	logger log.Logger
	config ConsumerConfig
}

// NewEmailConsumer creates a new EmailConsumer.
func NewEmailConsumer(js nats.JetStreamContext, sender messaging.MailSender, logger log.Logger, config ConsumerConfig) *EmailConsumer {
	if config.Durable == "" {
		config.Durable = "mailer"
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 10
	}
	if config.MaxDeliver <= 0 {
		config.MaxDeliver = 5
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = 30 * time.Second
	}
	if config.FetchWait <= 0 {
		config.FetchWait = 5 * time.Second
	}
	return &EmailConsumer{
		js:     js,
		sender: sender,
		logger: logger,
		config: config,
	}
}

// Run pulls and delivers messages until ctx is cancelled.
func (c *EmailConsumer) Run(ctx context.Context) error {
	subject := natsout.EmailSubject(c.config.SubjectPrefix)

	sub, err := c.js.PullSubscribe(subject, c.config.Durable,
		nats.ManualAck(),
		nats.MaxDeliver(c.config.MaxDeliver),
		nats.AckExplicit(),
	)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}

	c.logger.Info("email consumer started",
		log.String("subject", subject),
		log.String("durable", c.config.Durable),
	)

	for {
		if ctx.Err() != nil {
			return nil
		}

		fetchCtx, cancel := context.WithTimeout(ctx, c.config.FetchWait)
		msgs, err := sub.Fetch(c.config.BatchSize, nats.Context(fetchCtx))
		cancel()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, nats.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			c.logger.Warn("email fetch failed", log.String("error", err.Error()))
			continue
		}

		for _, msg := range msgs {
			c.settle(msg, c.process(ctx, msg.Data))
		}
	}
}

func (c *EmailConsumer) process(ctx context.Context, data []byte) disposition {
	n, err := natsout.DecodeEmailMessage(data)
	if err != nil {
		c.logger.Error("dropping malformed email message", log.String("error", err.Error()))
		return term
	}

	if err := c.sender.Send(ctx, n); err != nil {
		c.logger.Warn("email delivery failed",
			log.String("to", n.To),
			log.String("error", err.Error()),
		)
		return nak
	}

	c.logger.Info("email delivered", log.String("to", n.To))
	return ack
}

func (c *EmailConsumer) settle(msg *nats.Msg, d disposition) {
	var err error
	switch d {
	case ack:
		err = msg.Ack()
	case nak:
		err = msg.NakWithDelay(c.config.RetryDelay)
	case term:
		err = msg.Term()
	}
	if err != nil {
		c.logger.Warn("failed to settle email message", log.String("error", err.Error()))
	}
}
