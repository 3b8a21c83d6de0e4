package service

import (
	"strings"
	"testing"
	"time"

	"github.com/0xsj/overwatch-pkg/types"

	domainerror "github.com/0xsj/overwatch-profile/internal/domain/error"
)

func testTokenConfig() ConfirmationTokenConfig {
	return ConfirmationTokenConfig{
		Issuer:     "overwatch-profile-test",
		Audience:   "overwatch-test",
		TTL:        time.Hour,
		SigningKey: []byte("test-signing-key-at-least-32-bytes-long"),
	}
}

func TestNewConfirmationTokens_RequiresKey(t *testing.T) {
	cfg := testTokenConfig()
	cfg.SigningKey = nil

	if _, err := NewConfirmationTokens(cfg); err == nil {
		t.Error("expected error for empty signing key")
	}
}

func TestConfirmationTokens_RoundTrip(t *testing.T) {
	tokens, err := NewConfirmationTokens(testTokenConfig())
	if err != nil {
		t.Fatalf("NewConfirmationTokens() error = %v", err)
	}

	token, err := tokens.Issue(types.ID("acc-1"), "New@Example.com")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Errorf("token %q is not a compact JWT", token)
	}

	t.Run("matching address", func(t *testing.T) {
		id, err := tokens.Verify(token, "new@example.com")
		if err != nil {
			t.Fatalf("Verify() error = %v", err)
		}
		if id != types.ID("acc-1") {
			t.Errorf("Verify() id = %s, want acc-1", id)
		}
	})

	t.Run("different address", func(t *testing.T) {
		if _, err := tokens.Verify(token, "other@example.com"); err != domainerror.ErrConfirmationTokenInvalid {
			t.Errorf("Verify() error = %v, want ErrConfirmationTokenInvalid", err)
		}
	})

	t.Run("tampered token", func(t *testing.T) {
		if _, err := tokens.Verify(token+"x", "new@example.com"); err != domainerror.ErrConfirmationTokenInvalid {
			t.Errorf("Verify() error = %v, want ErrConfirmationTokenInvalid", err)
		}
	})

	t.Run("other issuer", func(t *testing.T) {
		cfg := testTokenConfig()
		cfg.Issuer = "someone-else"
		other, err := NewConfirmationTokens(cfg)
		if err != nil {
			t.Fatalf("NewConfirmationTokens() error = %v", err)
		}
		if _, err := other.Verify(token, "new@example.com"); err != domainerror.ErrConfirmationTokenInvalid {
			t.Errorf("Verify() error = %v, want ErrConfirmationTokenInvalid", err)
		}
	})
}

func TestNewConfirmationTokens_DefaultTTL(t *testing.T) {
	cfg := testTokenConfig()
	cfg.TTL = 0

	tokens, err := NewConfirmationTokens(cfg)
	if err != nil {
		t.Fatalf("NewConfirmationTokens() error = %v", err)
	}
	if got := tokens.(*confirmationTokens).config.TTL; got != 48*time.Hour {
		t.Errorf("TTL = %v, want 48h", got)
	}
}
