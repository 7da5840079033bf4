// Package storage publishes generated files such as sitemap.xml to object storage.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/storefront/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ErrObjectNotFound is returned when a key does not exist
var ErrObjectNotFound = errors.New("object not found")

// ErrEmptyKey is returned for operations without a storage key
var ErrEmptyKey = errors.New("storage key is required")

// ObjectStore stores small generated objects
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body []byte) error
	Get(ctx context.Context, key string) ([]byte, string, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// New returns the store selected by cfg.Type
func New(cfg *config.StorageConfig, logger *zap.Logger) (ObjectStore, error) {
	switch cfg.Type {
	case "", "memory":
		return NewMemoryStore(cfg.Prefix), nil
	case "s3":
		return NewS3ObjectStorage(cfg, WithLogger(logger))
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

func objectKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "/" + key
}
