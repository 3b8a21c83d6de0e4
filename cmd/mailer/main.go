package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	natsclient "github.com/nats-io/nats.go"

	"github.com/0xsj/overwatch-pkg/log"

	natsconsumer "github.com/0xsj/overwatch-profile/internal/adapter/inbound/nats"
	natsadapter "github.com/0xsj/overwatch-profile/internal/adapter/outbound/nats"
	"github.com/0xsj/overwatch-profile/internal/adapter/outbound/smtp"
	"github.com/0xsj/overwatch-profile/internal/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadMailer()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := log.NewPretty(log.DefaultConfig())

	logger.Info("starting profile mailer",
		log.String("smtp_host", cfg.SMTP.Host),
		log.String("nats_url", cfg.NATS.URL),
	)

	natsConn, err := natsclient.Connect(cfg.NATS.URL,
		natsclient.Name("overwatch-profile-mailer"),
		natsclient.MaxReconnects(cfg.NATS.MaxReconnects),
		natsclient.ReconnectWait(cfg.NATS.ReconnectWait),
		natsclient.DisconnectErrHandler(func(nc *natsclient.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", log.String("error", err.Error()))
			}
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to connect to nats: %w", err)
	}
	defer natsConn.Close()

	js, err := natsConn.JetStream()
	if err != nil {
		return fmt.Errorf("failed to open jetstream: %w", err)
	}
	if err := natsadapter.EnsureEmailStream(js, cfg.NATS.SubjectPrefix); err != nil {
		return fmt.Errorf("failed to ensure email stream: %w", err)
	}

	sender, err := smtp.NewSender(smtp.Config{
		Host:       cfg.SMTP.Host,
		Port:       cfg.SMTP.Port,
		Username:   cfg.SMTP.Username,
		Password:   cfg.SMTP.Password,
		From:       cfg.SMTP.From,
		RequireTLS: cfg.SMTP.RequireTLS,
		Timeout:    cfg.SMTP.Timeout,
	})
	if err != nil {
		return fmt.Errorf("failed to create smtp sender: %w", err)
	}

	consumer := natsconsumer.NewEmailConsumer(js, sender, logger, natsconsumer.ConsumerConfig{
		SubjectPrefix: cfg.NATS.SubjectPrefix,
		MaxDeliver:    cfg.SMTP.MaxDeliver,
		RetryDelay:    cfg.SMTP.RetryDelay,
	})

	if err := consumer.Run(ctx); err != nil {
		return fmt.Errorf("email consumer: %w", err)
	}

	logger.Info("profile mailer stopped")
	return nil
}
