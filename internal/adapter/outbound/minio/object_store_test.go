package minio

import (
	"testing"
)

func newTestStore(t *testing.T, cfg Config) *ObjectStore {
	t.Helper()
	if cfg.Endpoint == "" {
		cfg.Endpoint = "localhost:9000"
	}
	s, err := NewObjectStore(cfg)
	if err != nil {
		t.Fatalf("NewObjectStore() error = %v", err)
	}
	return s
}

func TestNewObjectStore_PublicURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"derived plain", Config{Endpoint: "localhost:9000"}, "http://localhost:9000"},
		{"derived tls", Config{Endpoint: "s3.example.com", UseSSL: true}, "https://s3.example.com"},
		{"explicit", Config{PublicURL: "https://cdn.example.com/"}, "https://cdn.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := newTestStore(t, tt.cfg).publicURL; got != tt.want {
				t.Errorf("publicURL = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestObjectStore_KeyFromURL(t *testing.T) {
	s := newTestStore(t, Config{PublicURL: "https://cdn.example.com"})

	tests := []struct {
		name    string
		url     string
		wantKey string
		wantOK  bool
	}{
		{"own object", "https://cdn.example.com/avatars/acc-1/a.png", "acc-1/a.png", true},
		{"other container", "https://cdn.example.com/docs/acc-1/a.png", "", false},
		{"other host", "https://gravatar.example.org/avatars/a.png", "", false},
		{"container root", "https://cdn.example.com/avatars/", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, ok := s.KeyFromURL("avatars", tt.url)
			if ok != tt.wantOK || key != tt.wantKey {
				t.Errorf("KeyFromURL() = %q, %v; want %q, %v", key, ok, tt.wantKey, tt.wantOK)
			}
		})
	}
}

func TestObjectStore_ObjectURLRoundTrip(t *testing.T) {
	s := newTestStore(t, Config{})

	url := s.objectURL("avatars", "acc-1/x.jpg")
	key, ok := s.KeyFromURL("avatars", url)
	if !ok || key != "acc-1/x.jpg" {
		t.Errorf("KeyFromURL(%s) = %q, %v", url, key, ok)
	}
}
