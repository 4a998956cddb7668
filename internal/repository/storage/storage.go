package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

// Storage - string key-value store shared by the repositories.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}
