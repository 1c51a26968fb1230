// Package cart maintains a client mirror of the one server-owned cart
// per identity. Mutations never guess the outcome: every accepted
// mutation invalidates the mirror and refetches the authoritative
// cart, because the server assigns item ids and ordering.
package cart

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/skecho/skecho-client/internal/logger"
	"github.com/skecho/skecho-client/internal/model"
)

// Session is the slice of the session gate the synchronizer needs: the
// active identity and an epoch that moves on every identity change, so
// responses landing after a sign-out can be discarded.
type Session interface {
	Identity() model.Identity
	Epoch() uint64
}

// Synchronizer mirrors the server cart for the active identity.
type Synchronizer struct {
	api       model.CommerceAPI
	session   Session
	logger    *logger.Logger
	mirrorTTL time.Duration

	mu        sync.RWMutex
	mirror    model.Cart
	hasMirror bool
	ownerUID  string
	fetchedAt time.Time
	inFlight  map[string]struct{}
}

// NewSynchronizer creates a cart synchronizer. mirrorTTL bounds how
// long a fetched mirror is trusted by Load before it refetches.
func NewSynchronizer(api model.CommerceAPI, session Session, mirrorTTL time.Duration, l *logger.Logger) *Synchronizer {
	return &Synchronizer{
		api:       api,
		session:   session,
		logger:    l,
		mirrorTTL: mirrorTTL,
		inFlight:  make(map[string]struct{}),
	}
}

// Load fetches the authoritative cart for the active identity,
// replacing any existing mirror. It is a no-op for an anonymous caller
// and for a mirror that is still fresh for the same identity.
func (s *Synchronizer) Load(ctx context.Context) error {
	identity := s.session.Identity()
	if identity.IsZero() {
		s.mu.Lock()
		s.mirror = model.Cart{}
		s.hasMirror = false
		s.ownerUID = ""
		s.mu.Unlock()
		return nil
	}

	s.mu.RLock()
	fresh := s.hasMirror && s.ownerUID == identity.UID &&
		(s.mirrorTTL <= 0 || time.Since(s.fetchedAt) < s.mirrorTTL)
	s.mu.RUnlock()
	if fresh {
		return nil
	}

	return s.refetch(ctx, identity.UID, s.session.Epoch())
}

// Add issues a remote add-item call for the product and refetches the
// mirror on success. The server assigns the resulting item id; the
// mirror is never speculatively extended.
func (s *Synchronizer) Add(ctx context.Context, productID string, quantity int) error {
	if quantity < 1 {
		return &model.QuantityRangeError{Requested: quantity, Min: 1, Max: 0}
	}

	return s.mutate(ctx, "add:"+productID, func(ctx context.Context) error {
		if _, err := s.api.AddCartItem(ctx, productID, quantity); err != nil {
			return fmt.Errorf("failed to add item to cart: %w", err)
		}
		return nil
	})
}

// UpdateQuantity sets an item's quantity. Requests outside
// [1, remaining stock] are rejected before any network call; the stock
// bound is the product snapshot captured at mirror-fetch time.
func (s *Synchronizer) UpdateQuantity(ctx context.Context, itemID string, quantity int) error {
	s.mu.RLock()
	item, ok := s.mirror.Item(itemID)
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("cart item %s: %w", itemID, model.ErrNotFound)
	}

	if quantity < 1 || quantity > item.Product.Quantity {
		return &model.QuantityRangeError{Requested: quantity, Min: 1, Max: item.Product.Quantity}
	}

	return s.mutate(ctx, itemID, func(ctx context.Context) error {
		if _, err := s.api.UpdateCartItem(ctx, itemID, quantity); err != nil {
			return fmt.Errorf("failed to update cart item: %w", err)
		}
		return nil
	})
}

// Remove deletes an item and refetches the mirror.
func (s *Synchronizer) Remove(ctx context.Context, itemID string) error {
	return s.mutate(ctx, itemID, func(ctx context.Context) error {
		if err := s.api.RemoveCartItem(ctx, itemID); err != nil {
			return fmt.Errorf("failed to remove cart item: %w", err)
		}
		return nil
	})
}

// mutate serializes one mutation per key: acquire the in-flight key,
// issue the remote call, then refetch the mirror so the next read
// observes the mutation's effect. A mutation whose identity epoch
// moved while it was outstanding has its response discarded.
func (s *Synchronizer) mutate(ctx context.Context, key string, call func(context.Context) error) error {
	identity := s.session.Identity()
	if identity.IsZero() {
		return model.ErrNotAuthenticated
	}

	if !s.acquire(key) {
		s.logger.Debug("cart: rejecting duplicate mutation", "key", key)
		return model.ErrMutationInFlight
	}
	defer s.release(key)

	epoch := s.session.Epoch()

	if err := call(ctx); err != nil {
		return err
	}

	if s.session.Epoch() != epoch {
		s.logger.Debug("cart: discarding mutation for inactive identity", "key", key)
		return model.ErrStaleIdentity
	}

	return s.refetch(ctx, identity.UID, epoch)
}

// refetch replaces the mirror with a fresh authoritative cart. On
// failure the previous mirror is kept but marked stale so the next
// Load retries.
func (s *Synchronizer) refetch(ctx context.Context, uid string, epoch uint64) error {
	cart, err := s.api.FetchCart(ctx)
	if err != nil {
		s.mu.Lock()
		s.fetchedAt = time.Time{}
		s.mu.Unlock()
		return fmt.Errorf("failed to fetch cart: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session.Epoch() != epoch {
		s.logger.Debug("cart: discarding fetch for inactive identity", "uid", uid)
		return model.ErrStaleIdentity
	}

	s.mirror = cart
	s.hasMirror = true
	s.ownerUID = uid
	s.fetchedAt = time.Now()
	return nil
}

func (s *Synchronizer) acquire(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[key]; busy {
		return false
	}
	s.inFlight[key] = struct{}{}
	return true
}

func (s *Synchronizer) release(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, key)
}

// snapshot returns the mirror only when it belongs to the active
// identity, so a signed-out or switched identity never reads another
// user's cart.
func (s *Synchronizer) snapshot() (model.Cart, bool) {
	uid := s.session.Identity().UID

	s.mu.RLock()
	defer s.mu.RUnlock()

	if uid == "" || !s.hasMirror || s.ownerUID != uid {
		return model.Cart{}, false
	}
	return s.mirror, true
}

// IsInCart reports whether any mirrored item references the product.
func (s *Synchronizer) IsInCart(productID string) bool {
	cart, ok := s.snapshot()
	return ok && cart.Contains(productID)
}

// TotalItemCount returns the sum of mirrored item quantities, zero for
// an empty or absent cart.
func (s *Synchronizer) TotalItemCount() int {
	cart, _ := s.snapshot()
	return cart.TotalItemCount()
}

// Items returns a copy of the mirrored items.
func (s *Synchronizer) Items() []model.CartItem {
	cart, ok := s.snapshot()
	if !ok {
		return nil
	}
	items := make([]model.CartItem, len(cart.Items))
	copy(items, cart.Items)
	return items
}

// CartID returns the server-assigned cart id, empty when no mirror is
// held.
func (s *Synchronizer) CartID() string {
	cart, _ := s.snapshot()
	return cart.ID
}
