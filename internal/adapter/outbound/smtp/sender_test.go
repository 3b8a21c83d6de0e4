package smtp

import (
	"testing"

	"github.com/0xsj/overwatch-profile/internal/domain/model"
)

func TestNewMessage(t *testing.T) {
	n := model.EmailNotification{
		To:      "new@example.com",
		Subject: "Confirm your email address",
		Body:    "follow the link",
	}

	t.Run("valid", func(t *testing.T) {
		msg, err := newMessage("no-reply@example.com", n)
		if err != nil {
			t.Fatalf("newMessage() error = %v", err)
		}
		rcpts, err := msg.GetRecipients()
		if err != nil {
			t.Fatalf("GetRecipients() error = %v", err)
		}
		if len(rcpts) != 1 || rcpts[0] != "new@example.com" {
			t.Errorf("recipients = %v", rcpts)
		}
	})

	t.Run("bad sender", func(t *testing.T) {
		if _, err := newMessage("not an address", n); err == nil {
			t.Error("expected error for invalid sender")
		}
	})

	t.Run("bad recipient", func(t *testing.T) {
		bad := n
		bad.To = "@@"
		if _, err := newMessage("no-reply@example.com", bad); err == nil {
			t.Error("expected error for invalid recipient")
		}
	})
}

func TestNewSender(t *testing.T) {
	s, err := NewSender(Config{
		Host:     "smtp.example.com",
		Port:     587,
		Username: "mailer",
		Password: "secret",
		From:     "no-reply@example.com",
	})
	if err != nil {
		t.Fatalf("NewSender() error = %v", err)
	}
	if s == nil {
		t.Fatal("NewSender() returned nil")
	}
}
