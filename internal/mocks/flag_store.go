package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// FlagStore is a testify mock for model.FlagStore.
type FlagStore struct {
	mock.Mock
}

func (m *FlagStore) Get(ctx context.Context, uid, key string) (bool, bool, error) {
	args := m.Called(ctx, uid, key)
	return args.Bool(0), args.Bool(1), args.Error(2)
}

func (m *FlagStore) Set(ctx context.Context, uid, key string, value bool) error {
	args := m.Called(ctx, uid, key, value)
	return args.Error(0)
}

func (m *FlagStore) Clear(ctx context.Context, uid string) error {
	args := m.Called(ctx, uid)
	return args.Error(0)
}
