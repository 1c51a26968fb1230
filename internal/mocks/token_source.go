package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// TokenSource is a testify mock for model.TokenSource.
type TokenSource struct {
	mock.Mock
}

func (m *TokenSource) Token(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}
