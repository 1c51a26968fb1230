package cart

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/skecho/skecho-client/internal/mocks"
	"github.com/skecho/skecho-client/internal/model"
	"github.com/skecho/skecho-client/internal/testutil"
)

// fakeSession is a minimal Session with a controllable identity.
type fakeSession struct {
	mu       sync.Mutex
	identity model.Identity
	epoch    uint64
}

func newFakeSession(uid string) *fakeSession {
	return &fakeSession{identity: model.Identity{UID: uid}, epoch: 1}
}

func (f *fakeSession) Identity() model.Identity {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.identity
}

func (f *fakeSession) Epoch() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.epoch
}

func (f *fakeSession) signOut() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.identity = model.Identity{}
	f.epoch++
}

func testCart() model.Cart {
	return model.Cart{
		ID: "cart-1",
		Items: []model.CartItem{
			{
				ID:        "item-1",
				ProductID: "prod-1",
				Quantity:  2,
				UnitPrice: 800,
				Product:   model.Product{ID: "prod-1", Name: "Koi Pond Study", Price: 800, Quantity: 5},
			},
			{
				ID:        "item-2",
				ProductID: "prod-2",
				Quantity:  1,
				UnitPrice: 1500,
				Product:   model.Product{ID: "prod-2", Name: "Monsoon Street", Price: 1500, Quantity: 1},
			},
		},
	}
}

func TestSynchronizer_Load_AnonymousIsNoop(t *testing.T) {
	api := &mocks.CommerceAPI{}
	s := NewSynchronizer(api, newFakeSession(""), time.Minute, testutil.MakeNoopLogger())

	require.NoError(t, s.Load(context.Background()))

	api.AssertNotCalled(t, "FetchCart", mock.Anything)
	assert.Equal(t, 0, s.TotalItemCount())
}

func TestSynchronizer_Load_FetchesMirror(t *testing.T) {
	api := &mocks.CommerceAPI{}
	api.On("FetchCart", mock.Anything).Return(testCart(), nil).Once()

	s := NewSynchronizer(api, newFakeSession("uid-a"), time.Minute, testutil.MakeNoopLogger())
	require.NoError(t, s.Load(context.Background()))

	assert.Equal(t, "cart-1", s.CartID())
	assert.Equal(t, 3, s.TotalItemCount())
	assert.True(t, s.IsInCart("prod-1"))
	assert.False(t, s.IsInCart("prod-9"))
	assert.Len(t, s.Items(), 2)

	// A second Load within the TTL reuses the fresh mirror.
	require.NoError(t, s.Load(context.Background()))
	api.AssertNumberOfCalls(t, "FetchCart", 1)
}

func TestSynchronizer_Load_RefetchesExpiredMirror(t *testing.T) {
	api := &mocks.CommerceAPI{}
	api.On("FetchCart", mock.Anything).Return(testCart(), nil)

	s := NewSynchronizer(api, newFakeSession("uid-a"), time.Nanosecond, testutil.MakeNoopLogger())
	require.NoError(t, s.Load(context.Background()))
	time.Sleep(time.Millisecond)
	require.NoError(t, s.Load(context.Background()))

	api.AssertNumberOfCalls(t, "FetchCart", 2)
}

func TestSynchronizer_Add_RefetchesAfterMutation(t *testing.T) {
	api := &mocks.CommerceAPI{}
	added := testCart()
	added.Items = append(added.Items, model.CartItem{ID: "item-3", ProductID: "prod-3", Quantity: 1})

	api.On("AddCartItem", mock.Anything, "prod-3", 1).Return(model.CartItem{ID: "item-3"}, nil).Once()
	api.On("FetchCart", mock.Anything).Return(added, nil).Once()

	s := NewSynchronizer(api, newFakeSession("uid-a"), time.Minute, testutil.MakeNoopLogger())
	require.NoError(t, s.Add(context.Background(), "prod-3", 1))

	// Mirror matches the freshly fetched authoritative cart exactly.
	assert.Equal(t, added.Items, s.Items())
	assert.True(t, s.IsInCart("prod-3"))
}

func TestSynchronizer_Add_FailureLeavesMirrorUntouched(t *testing.T) {
	api := &mocks.CommerceAPI{}
	api.On("FetchCart", mock.Anything).Return(testCart(), nil).Once()

	s := NewSynchronizer(api, newFakeSession("uid-a"), time.Minute, testutil.MakeNoopLogger())
	require.NoError(t, s.Load(context.Background()))

	api.On("AddCartItem", mock.Anything, "prod-3", 1).Return(model.CartItem{}, errors.New("boom")).Once()

	err := s.Add(context.Background(), "prod-3", 1)
	require.Error(t, err)

	assert.Equal(t, 3, s.TotalItemCount())
	assert.False(t, s.IsInCart("prod-3"))
	api.AssertNumberOfCalls(t, "FetchCart", 1)
}

func TestSynchronizer_Add_RejectsInvalidQuantityWithoutNetwork(t *testing.T) {
	api := &mocks.CommerceAPI{}
	s := NewSynchronizer(api, newFakeSession("uid-a"), time.Minute, testutil.MakeNoopLogger())

	var rangeErr *model.QuantityRangeError
	err := s.Add(context.Background(), "prod-1", 0)
	require.ErrorAs(t, err, &rangeErr)

	api.AssertNotCalled(t, "AddCartItem", mock.Anything, mock.Anything, mock.Anything)
}

func TestSynchronizer_Add_Anonymous(t *testing.T) {
	api := &mocks.CommerceAPI{}
	s := NewSynchronizer(api, newFakeSession(""), time.Minute, testutil.MakeNoopLogger())

	err := s.Add(context.Background(), "prod-1", 1)
	assert.ErrorIs(t, err, model.ErrNotAuthenticated)
}

func TestSynchronizer_UpdateQuantity_BoundsCheckedClientSide(t *testing.T) {
	api := &mocks.CommerceAPI{}
	api.On("FetchCart", mock.Anything).Return(testCart(), nil).Once()

	s := NewSynchronizer(api, newFakeSession("uid-a"), time.Minute, testutil.MakeNoopLogger())
	require.NoError(t, s.Load(context.Background()))

	var rangeErr *model.QuantityRangeError

	// Above the product's remaining stock (5): rejected, not clamped.
	err := s.UpdateQuantity(context.Background(), "item-1", 6)
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, 6, rangeErr.Requested)
	assert.Equal(t, 5, rangeErr.Max)

	err = s.UpdateQuantity(context.Background(), "item-1", 0)
	require.ErrorAs(t, err, &rangeErr)

	api.AssertNotCalled(t, "UpdateCartItem", mock.Anything, mock.Anything, mock.Anything)
}

func TestSynchronizer_UpdateQuantity_UnknownItem(t *testing.T) {
	api := &mocks.CommerceAPI{}
	api.On("FetchCart", mock.Anything).Return(testCart(), nil).Once()

	s := NewSynchronizer(api, newFakeSession("uid-a"), time.Minute, testutil.MakeNoopLogger())
	require.NoError(t, s.Load(context.Background()))

	err := s.UpdateQuantity(context.Background(), "item-9", 1)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestSynchronizer_UpdateQuantity_Success(t *testing.T) {
	api := &mocks.CommerceAPI{}
	api.On("FetchCart", mock.Anything).Return(testCart(), nil).Once()

	s := NewSynchronizer(api, newFakeSession("uid-a"), time.Minute, testutil.MakeNoopLogger())
	require.NoError(t, s.Load(context.Background()))

	updated := testCart()
	updated.Items[0].Quantity = 4
	api.On("UpdateCartItem", mock.Anything, "item-1", 4).Return(updated.Items[0], nil).Once()
	api.On("FetchCart", mock.Anything).Return(updated, nil).Once()

	require.NoError(t, s.UpdateQuantity(context.Background(), "item-1", 4))
	assert.Equal(t, 5, s.TotalItemCount())
}

func TestSynchronizer_Remove_Success(t *testing.T) {
	api := &mocks.CommerceAPI{}
	api.On("FetchCart", mock.Anything).Return(testCart(), nil).Once()

	s := NewSynchronizer(api, newFakeSession("uid-a"), time.Minute, testutil.MakeNoopLogger())
	require.NoError(t, s.Load(context.Background()))

	remaining := testCart()
	remaining.Items = remaining.Items[1:]
	api.On("RemoveCartItem", mock.Anything, "item-1").Return(nil).Once()
	api.On("FetchCart", mock.Anything).Return(remaining, nil).Once()

	require.NoError(t, s.Remove(context.Background(), "item-1"))
	assert.False(t, s.IsInCart("prod-1"))
	assert.Equal(t, 1, s.TotalItemCount())
}

func TestSynchronizer_DuplicateMutationRejected(t *testing.T) {
	api := &mocks.CommerceAPI{}
	api.On("FetchCart", mock.Anything).Return(testCart(), nil)

	s := NewSynchronizer(api, newFakeSession("uid-a"), time.Minute, testutil.MakeNoopLogger())
	require.NoError(t, s.Load(context.Background()))

	release := make(chan struct{})
	api.On("UpdateCartItem", mock.Anything, "item-1", 3).Run(func(mock.Arguments) {
		<-release
	}).Return(testCart().Items[0], nil)

	done := make(chan error, 1)
	go func() {
		done <- s.UpdateQuantity(context.Background(), "item-1", 3)
	}()

	require.Eventually(t, func() bool {
		s.mu.RLock()
		defer s.mu.RUnlock()
		_, busy := s.inFlight["item-1"]
		return busy
	}, time.Second, time.Millisecond)

	// A second mutation on the same item while one is outstanding is
	// rejected, never raced.
	err := s.UpdateQuantity(context.Background(), "item-1", 2)
	assert.ErrorIs(t, err, model.ErrMutationInFlight)

	close(release)
	require.NoError(t, <-done)
	api.AssertNumberOfCalls(t, "UpdateCartItem", 1)

	// Once the first completes, the key is free again.
	api.On("UpdateCartItem", mock.Anything, "item-1", 2).Return(testCart().Items[0], nil).Once()
	require.NoError(t, s.UpdateQuantity(context.Background(), "item-1", 2))
}

func TestSynchronizer_CrossItemMutationsAreIndependent(t *testing.T) {
	api := &mocks.CommerceAPI{}
	api.On("FetchCart", mock.Anything).Return(testCart(), nil)

	s := NewSynchronizer(api, newFakeSession("uid-a"), time.Minute, testutil.MakeNoopLogger())
	require.NoError(t, s.Load(context.Background()))

	release := make(chan struct{})
	api.On("RemoveCartItem", mock.Anything, "item-1").Run(func(mock.Arguments) {
		<-release
	}).Return(nil)
	api.On("RemoveCartItem", mock.Anything, "item-2").Return(nil)

	done := make(chan error, 1)
	go func() {
		done <- s.Remove(context.Background(), "item-1")
	}()

	require.Eventually(t, func() bool {
		s.mu.RLock()
		defer s.mu.RUnlock()
		_, busy := s.inFlight["item-1"]
		return busy
	}, time.Second, time.Millisecond)

	// A different item is not blocked by item-1's outstanding call.
	require.NoError(t, s.Remove(context.Background(), "item-2"))

	close(release)
	require.NoError(t, <-done)
}

func TestSynchronizer_SignOutDiscardsLateMutation(t *testing.T) {
	api := &mocks.CommerceAPI{}
	api.On("FetchCart", mock.Anything).Return(testCart(), nil).Once()

	sess := newFakeSession("uid-a")
	s := NewSynchronizer(api, sess, time.Minute, testutil.MakeNoopLogger())
	require.NoError(t, s.Load(context.Background()))

	// The identity signs out while the remote call is outstanding.
	api.On("RemoveCartItem", mock.Anything, "item-1").Run(func(mock.Arguments) {
		sess.signOut()
	}).Return(nil).Once()

	err := s.Remove(context.Background(), "item-1")
	assert.ErrorIs(t, err, model.ErrStaleIdentity)

	// No refetch for the dead identity, and reads expose nothing.
	api.AssertNumberOfCalls(t, "FetchCart", 1)
	assert.Equal(t, 0, s.TotalItemCount())
	assert.Empty(t, s.Items())
}

func TestSynchronizer_RefetchFailureMarksMirrorStale(t *testing.T) {
	api := &mocks.CommerceAPI{}
	api.On("FetchCart", mock.Anything).Return(testCart(), nil).Once()

	s := NewSynchronizer(api, newFakeSession("uid-a"), time.Minute, testutil.MakeNoopLogger())
	require.NoError(t, s.Load(context.Background()))

	api.On("RemoveCartItem", mock.Anything, "item-1").Return(nil).Once()
	api.On("FetchCart", mock.Anything).Return(model.Cart{}, errors.New("boom")).Once()

	err := s.Remove(context.Background(), "item-1")
	require.Error(t, err)

	// The last-known mirror is still readable, but the next Load
	// refetches instead of trusting it.
	assert.Equal(t, 3, s.TotalItemCount())

	api.On("FetchCart", mock.Anything).Return(model.Cart{ID: "cart-1"}, nil).Once()
	require.NoError(t, s.Load(context.Background()))
	assert.Equal(t, 0, s.TotalItemCount())
}

func TestSynchronizer_ReadsNeverLeakAcrossIdentities(t *testing.T) {
	api := &mocks.CommerceAPI{}
	api.On("FetchCart", mock.Anything).Return(testCart(), nil).Once()

	sess := newFakeSession("uid-a")
	s := NewSynchronizer(api, sess, time.Minute, testutil.MakeNoopLogger())
	require.NoError(t, s.Load(context.Background()))
	require.Equal(t, 3, s.TotalItemCount())

	sess.signOut()

	assert.Equal(t, 0, s.TotalItemCount())
	assert.False(t, s.IsInCart("prod-1"))
	assert.Empty(t, s.CartID())
}
