package model

import "context"

// Profile is the commerce service's view of the current user.
type Profile struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	ProfileCompleted bool   `json:"profileCompleted"`
	IsSeller         bool   `json:"isSeller"`
}

// CommerceAPI defines the remote commerce operations this client
// consumes. Every call is authorized with a bearer token obtained from
// the identity provider; implementations own transport and timeouts.
type CommerceAPI interface {
	FetchProfile(ctx context.Context) (Profile, error)
	FetchSellerStatus(ctx context.Context) (bool, error)

	FetchCart(ctx context.Context) (Cart, error)
	AddCartItem(ctx context.Context, productID string, quantity int) (CartItem, error)
	UpdateCartItem(ctx context.Context, itemID string, quantity int) (CartItem, error)
	RemoveCartItem(ctx context.Context, itemID string) error

	FetchProducts(ctx context.Context) ([]Product, error)
	FetchProduct(ctx context.Context, id string) (Product, error)
	FetchSeller(ctx context.Context, id string) (Seller, error)
}

// Fixed keys for the persisted degraded-mode completion flags.
const (
	FlagProfileComplete       = "profile_complete"
	FlagSellerProfileComplete = "seller_profile_complete"
)

// FlagStore persists per-user completion flags used strictly as a
// degraded-mode fallback when a live completeness check fails. A stale
// value reads back as absent.
type FlagStore interface {
	Get(ctx context.Context, uid, key string) (value bool, ok bool, err error)
	Set(ctx context.Context, uid, key string, value bool) error
	Clear(ctx context.Context, uid string) error
}
