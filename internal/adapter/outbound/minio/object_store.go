package minio

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/0xsj/overwatch-profile/internal/port/outbound/storage"
)

const codeNoSuchKey = "NoSuchKey"

// Config holds connection settings for an S3-compatible store.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	UseSSL    bool

	// PublicURL is the base URL objects are served from. Defaults to the endpoint.
	PublicURL string
}

// ObjectStore implements storage.ObjectStore on MinIO or any S3-compatible service.
type ObjectStore struct {
	client    *minio.Client
	publicURL string
}

var _ storage.ObjectStore = (*ObjectStore)(nil)

// NewObjectStore creates a new ObjectStore. No request is made until first use.
func NewObjectStore(cfg Config) (*ObjectStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object store client: %w", err)
	}

	publicURL := cfg.PublicURL
	if publicURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicURL = scheme + "://" + cfg.Endpoint
	}

	return &ObjectStore{
		client:    client,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

// EnsureBucket creates bucket if it does not exist.
func (s *ObjectStore) EnsureBucket(ctx context.Context, bucket string) error {
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
	}
	return nil
}

func (s *ObjectStore) Put(ctx context.Context, container, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, container, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to put object %s/%s: %w", container, key, err)
	}
	return s.objectURL(container, key), nil
}

func (s *ObjectStore) DeleteIfExists(ctx context.Context, container, key string) error {
	err := s.client.RemoveObject(ctx, container, key, minio.RemoveObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == codeNoSuchKey {
			return nil
		}
		return fmt.Errorf("failed to delete object %s/%s: %w", container, key, err)
	}
	return nil
}

func (s *ObjectStore) KeyFromURL(container, url string) (string, bool) {
	prefix := s.objectURL(container, "")
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(url, prefix)
	if key == "" {
		return "", false
	}
	return key, true
}

func (s *ObjectStore) objectURL(container, key string) string {
	return s.publicURL + "/" + container + "/" + key
}
