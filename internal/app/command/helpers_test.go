package command_test

import (
	"testing"
	"time"

	"github.com/0xsj/overwatch-pkg/log"
	"github.com/0xsj/overwatch-pkg/types"

	"github.com/0xsj/overwatch-profile/internal/app/service"
	"github.com/0xsj/overwatch-profile/internal/domain/model"
	"github.com/0xsj/overwatch-profile/internal/testutil/mocks"
)

const (
	testPassword   = "Old-pass1"
	testConfirmURL = "https://profile.example.com/api/user/confirm-email"
	testContainer  = "avatars"
	testObjectBase = "https://cdn.example.com"
)

type harness struct {
	accounts  *mocks.AccountRepository
	cache     *mocks.ProfileCache
	publisher *mocks.EventPublisher
	queue     *mocks.NotificationQueue
	objects   *mocks.ObjectStore
	checker   *service.UniquenessChecker
	notifier  *service.EmailChangeNotifier
	tokens    service.ConfirmationTokens
	logger    log.Logger
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	tokens, err := service.NewConfirmationTokens(service.ConfirmationTokenConfig{
		Issuer:     "overwatch-profile-test",
		Audience:   "overwatch-test",
		TTL:        time.Hour,
		SigningKey: []byte("test-signing-key-at-least-32-bytes-long"),
	})
	if err != nil {
		t.Fatalf("failed to create confirmation tokens: %v", err)
	}

	h := &harness{
		accounts:  mocks.NewAccountRepository(),
		cache:     mocks.NewProfileCache(),
		publisher: mocks.NewEventPublisher(),
		queue:     mocks.NewNotificationQueue(),
		objects:   mocks.NewObjectStore(testObjectBase),
		tokens:    tokens,
		logger:    log.NewPretty(log.DefaultConfig()),
	}
	h.checker = service.NewUniquenessChecker(h.accounts)
	h.notifier = service.NewEmailChangeNotifier(h.queue, tokens, testConfirmURL)
	return h
}

// seed stores an account with testPassword and returns it.
func (h *harness) seed(id, username, email string, confirmed bool) *model.Account {
	now := types.Now()
	acc := model.ReconstructAccount(
		types.ID(id),
		username,
		email,
		confirmed,
		types.None[string](),
		types.None[string](),
		now,
		now,
	)
	h.accounts.Seed(acc, testPassword)
	return acc
}

func (h *harness) seedWithAvatar(id, username, email, avatarURL string) *model.Account {
	now := types.Now()
	acc := model.ReconstructAccount(
		types.ID(id),
		username,
		email,
		true,
		types.Some(avatarURL),
		types.None[string](),
		now,
		now,
	)
	h.accounts.Seed(acc, testPassword)
	return acc
}
