package command_test

import (
	"context"
	"testing"

	"github.com/0xsj/overwatch-pkg/types"

	appcommand "github.com/0xsj/overwatch-profile/internal/app/command"
	domainerror "github.com/0xsj/overwatch-profile/internal/domain/error"
	"github.com/0xsj/overwatch-profile/internal/domain/event"
	"github.com/0xsj/overwatch-profile/internal/domain/model"
	"github.com/0xsj/overwatch-profile/internal/port/inbound/command"
)

func TestConfirmEmail(t *testing.T) {
	t.Run("confirms pending address", func(t *testing.T) {
		h := newHarness(t)
		h.seed("acc-1", "alice", "alice@example.com", false)
		h.cache.Seed(model.Profile{ID: types.ID("acc-1"), Username: "alice"})
		handler := appcommand.NewConfirmEmailHandler(h.accounts, h.cache, h.publisher)

		res, err := handler.Handle(context.Background(), command.ConfirmEmail{Email: "Alice@Example.com"})
		if err != nil {
			t.Fatalf("Handle() error = %v", err)
		}
		if res.AccountID != types.ID("acc-1") {
			t.Errorf("AccountID = %s", res.AccountID)
		}
		if !h.accounts.Get(types.ID("acc-1")).EmailConfirmed() {
			t.Error("email should be confirmed")
		}
		if h.cache.Has(types.ID("acc-1")) {
			t.Error("cached profile should be invalidated")
		}
		if !h.publisher.HasEvent(event.EventTypeEmailConfirmed) {
			t.Error("expected email confirmed event")
		}
	})

	t.Run("already confirmed", func(t *testing.T) {
		h := newHarness(t)
		h.seed("acc-1", "alice", "alice@example.com", true)
		handler := appcommand.NewConfirmEmailHandler(h.accounts, h.cache, h.publisher)

		_, err := handler.Handle(context.Background(), command.ConfirmEmail{Email: "alice@example.com"})
		if err != domainerror.ErrEmailAlreadyConfirmed {
			t.Fatalf("Handle() error = %v, want ErrEmailAlreadyConfirmed", err)
		}
		if h.accounts.Calls.Update != 0 {
			t.Error("no write expected")
		}
	})

	t.Run("address owned by another account", func(t *testing.T) {
		h := newHarness(t)
		h.seed("acc-1", "alice", "alice@example.com", false)
		handler := appcommand.NewConfirmEmailHandler(h.accounts, h.cache, h.publisher)

		_, err := handler.Handle(context.Background(), command.ConfirmEmail{
			Email:     "alice@example.com",
			AccountID: types.ID("acc-2"),
		})
		if err != domainerror.ErrConfirmationTokenInvalid {
			t.Fatalf("Handle() error = %v, want ErrConfirmationTokenInvalid", err)
		}
		if h.accounts.Get(types.ID("acc-1")).EmailConfirmed() {
			t.Error("email should stay unconfirmed")
		}
	})

	t.Run("unknown address", func(t *testing.T) {
		h := newHarness(t)
		handler := appcommand.NewConfirmEmailHandler(h.accounts, h.cache, h.publisher)

		_, err := handler.Handle(context.Background(), command.ConfirmEmail{Email: "ghost@example.com"})
		if err != domainerror.ErrAccountNotFound {
			t.Fatalf("Handle() error = %v, want ErrAccountNotFound", err)
		}
	})

	t.Run("empty address", func(t *testing.T) {
		h := newHarness(t)
		handler := appcommand.NewConfirmEmailHandler(h.accounts, h.cache, h.publisher)

		_, err := handler.Handle(context.Background(), command.ConfirmEmail{Email: "  "})
		if err != domainerror.ErrEmailRequired {
			t.Fatalf("Handle() error = %v, want ErrEmailRequired", err)
		}
	})
}
