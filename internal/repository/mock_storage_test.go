package repository

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type mockStorage struct {
	mock.Mock
}

func (that *mockStorage) Get(ctx context.Context, key string) (string, error) {
	args := that.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (that *mockStorage) Set(ctx context.Context, key, value string) error {
	args := that.Called(ctx, key, value)
	return args.Error(0)
}

func (that *mockStorage) Delete(ctx context.Context, key string) error {
	args := that.Called(ctx, key)
	return args.Error(0)
}
