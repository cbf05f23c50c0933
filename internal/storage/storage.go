package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"filedrop/internal/config"
)

var (
	ErrNotFound    = errors.New("file not found")
	ErrInvalidPath = errors.New("invalid storage path")
)

// FileStore persists uploaded blobs under slash-separated relative keys.
type FileStore interface {
	Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// New selects the backend from config.
func New(cfg config.StorageConfig) (FileStore, error) {
	switch cfg.Backend {
	case "local", "":
		return NewLocalStore(cfg.BaseDir)
	case "s3":
		return NewObjectStore(cfg)
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
}
