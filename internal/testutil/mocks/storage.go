package mocks

import (
	"context"
	"strings"
	"sync"
)

// --- ObjectStore Mock ---

// ObjectStore is an in-memory mock of storage.ObjectStore.
// Ops records calls in order as "put:<key>" and "delete:<key>".
type ObjectStore struct {
	mu sync.Mutex

	BaseURL string
	Objects map[string][]byte
	Ops     []string

	Calls struct {
		Put            int
		DeleteIfExists int
	}

	Errors struct {
		Put            error
		DeleteIfExists error
	}
}

// NewObjectStore creates a new mock ObjectStore serving from baseURL.
func NewObjectStore(baseURL string) *ObjectStore {
	return &ObjectStore{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Objects: make(map[string][]byte),
	}
}

func (m *ObjectStore) Put(ctx context.Context, container, key string, data []byte, contentType string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.Put++
	m.Ops = append(m.Ops, "put:"+key)

	if m.Errors.Put != nil {
		return "", m.Errors.Put
	}

	m.Objects[container+"/"+key] = data
	return m.BaseURL + "/" + container + "/" + key, nil
}

func (m *ObjectStore) DeleteIfExists(ctx context.Context, container, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.DeleteIfExists++
	m.Ops = append(m.Ops, "delete:"+key)

	if m.Errors.DeleteIfExists != nil {
		return m.Errors.DeleteIfExists
	}

	delete(m.Objects, container+"/"+key)
	return nil
}

func (m *ObjectStore) KeyFromURL(container, url string) (string, bool) {
	prefix := m.BaseURL + "/" + container + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, prefix), true
}
