package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/skecho/skecho-client/internal/model"
)

// CommerceAPI is a testify mock for model.CommerceAPI.
type CommerceAPI struct {
	mock.Mock
}

func (m *CommerceAPI) FetchProfile(ctx context.Context) (model.Profile, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.Profile), args.Error(1)
}

func (m *CommerceAPI) FetchSellerStatus(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *CommerceAPI) FetchCart(ctx context.Context) (model.Cart, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.Cart), args.Error(1)
}

func (m *CommerceAPI) AddCartItem(ctx context.Context, productID string, quantity int) (model.CartItem, error) {
	args := m.Called(ctx, productID, quantity)
	return args.Get(0).(model.CartItem), args.Error(1)
}

func (m *CommerceAPI) UpdateCartItem(ctx context.Context, itemID string, quantity int) (model.CartItem, error) {
	args := m.Called(ctx, itemID, quantity)
	return args.Get(0).(model.CartItem), args.Error(1)
}

func (m *CommerceAPI) RemoveCartItem(ctx context.Context, itemID string) error {
	args := m.Called(ctx, itemID)
	return args.Error(0)
}

func (m *CommerceAPI) FetchProducts(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	products, _ := args.Get(0).([]model.Product)
	return products, args.Error(1)
}

func (m *CommerceAPI) FetchProduct(ctx context.Context, id string) (model.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Product), args.Error(1)
}

func (m *CommerceAPI) FetchSeller(ctx context.Context, id string) (model.Seller, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Seller), args.Error(1)
}
