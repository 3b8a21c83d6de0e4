// Package mocks provides mock implementations of ports for testing.
package mocks

import (
	"context"
	"strings"
	"sync"

	"github.com/0xsj/overwatch-pkg/types"

	"github.com/0xsj/overwatch-profile/internal/domain/model"
	"github.com/0xsj/overwatch-profile/internal/port/outbound/repository"
)

// --- AccountRepository Mock ---

// AccountRepository is an in-memory mock of repository.AccountRepository.
// It stores copies, so callers only observe changes they Update, and it
// enforces username and email uniqueness on Update like the real store.
type AccountRepository struct {
	mu sync.Mutex

	// Storage
	accounts  map[string]*model.Account // by ID
	passwords map[string]string         // ID -> plaintext password

	// Call tracking
	Calls struct {
		FindByID       int
		FindByUsername int
		FindByEmail    int
		CheckPassword  int
		RotatePassword int
		Update         int
		Delete         int
	}

	// Error injection
	Errors struct {
		FindByID       error
		FindByUsername error
		FindByEmail    error
		CheckPassword  error
		RotatePassword error
		Update         error
		Delete         error
	}
}

// NewAccountRepository creates a new mock AccountRepository.
func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		accounts:  make(map[string]*model.Account),
		passwords: make(map[string]string),
	}
}

// Seed stores an account with its password.
func (m *AccountRepository) Seed(acc *model.Account, password string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[acc.ID().String()] = acc.Clone()
	m.passwords[acc.ID().String()] = password
}

// Get returns a copy of the stored account, or nil.
func (m *AccountRepository) Get(id types.ID) *model.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id.String()]
	if !ok {
		return nil
	}
	return acc.Clone()
}

// Password returns the stored password for id.
func (m *AccountRepository) Password(id types.ID) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.passwords[id.String()]
}

func (m *AccountRepository) FindByID(ctx context.Context, id types.ID) (*model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.FindByID++

	if m.Errors.FindByID != nil {
		return nil, m.Errors.FindByID
	}

	acc, ok := m.accounts[id.String()]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return acc.Clone(), nil
}

func (m *AccountRepository) FindByUsername(ctx context.Context, username string) (*model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.FindByUsername++

	if m.Errors.FindByUsername != nil {
		return nil, m.Errors.FindByUsername
	}

	for _, acc := range m.accounts {
		if acc.Username() == username {
			return acc.Clone(), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *AccountRepository) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.FindByEmail++

	if m.Errors.FindByEmail != nil {
		return nil, m.Errors.FindByEmail
	}

	for _, acc := range m.accounts {
		if strings.EqualFold(acc.Email(), email) {
			return acc.Clone(), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *AccountRepository) CheckPassword(ctx context.Context, id types.ID, password string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.CheckPassword++

	if m.Errors.CheckPassword != nil {
		return false, m.Errors.CheckPassword
	}

	stored, ok := m.passwords[id.String()]
	if !ok {
		return false, repository.ErrNotFound
	}
	return stored == password, nil
}

func (m *AccountRepository) RotatePassword(ctx context.Context, id types.ID, currentPassword, newPassword string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.RotatePassword++

	if m.Errors.RotatePassword != nil {
		return m.Errors.RotatePassword
	}

	stored, ok := m.passwords[id.String()]
	if !ok {
		return repository.ErrNotFound
	}
	if stored != currentPassword {
		return repository.ErrPasswordMismatch
	}
	m.passwords[id.String()] = newPassword
	return nil
}

func (m *AccountRepository) Update(ctx context.Context, account *model.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.Update++

	if m.Errors.Update != nil {
		return m.Errors.Update
	}

	id := account.ID().String()
	if _, ok := m.accounts[id]; !ok {
		return repository.ErrNotFound
	}

	for otherID, other := range m.accounts {
		if otherID == id {
			continue
		}
		if other.Username() == account.Username() {
			return repository.ErrUsernameConflict
		}
		if strings.EqualFold(other.Email(), account.Email()) {
			return repository.ErrEmailConflict
		}
	}

	m.accounts[id] = account.Clone()
	return nil
}

func (m *AccountRepository) Delete(ctx context.Context, id types.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.Delete++

	if m.Errors.Delete != nil {
		return m.Errors.Delete
	}

	if _, ok := m.accounts[id.String()]; !ok {
		return repository.ErrNotFound
	}
	delete(m.accounts, id.String())
	delete(m.passwords, id.String())
	return nil
}
