package cart

import (
	"context"
	"testing"

	"github.com/storefront/backend/internal/domain/commerce"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setup(t *testing.T) (*Service, *testutil.MockStorefront, *testutil.RecordingPublisher, *testutil.Fixtures) {
	t.Helper()
	storefront := new(testutil.MockStorefront)
	events := &testutil.RecordingPublisher{}
	t.Cleanup(func() { storefront.AssertExpectations(t) })
	return NewService(storefront, events, nil, zap.NewNop()), storefront, events, testutil.NewFixtures(3)
}

func qty(n int) *int { return &n }

func TestService_GetCart(t *testing.T) {
	ctx := context.Background()

	t.Run("no cart cookie", func(t *testing.T) {
		svc, _, _, _ := setup(t)
		cart, err := svc.GetCart(ctx, "")
		require.NoError(t, err)
		assert.Nil(t, cart)
	})

	t.Run("checked out cart", func(t *testing.T) {
		svc, storefront, _, _ := setup(t)
		storefront.On("GetCart", mock.Anything, "gone").Return(nil, nil).Once()

		cart, err := svc.GetCart(ctx, "gone")
		require.NoError(t, err)
		assert.Nil(t, cart)
	})

	t.Run("upstream error", func(t *testing.T) {
		svc, storefront, _, _ := setup(t)
		storefront.On("GetCart", mock.Anything, "c1").Return(nil, commerce.ErrPlatformRequestFailed).Once()

		_, err := svc.GetCart(ctx, "c1")
		assert.ErrorIs(t, err, shared.ErrUpstream)
	})
}

func TestService_AddItem(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a cart when none exists", func(t *testing.T) {
		svc, storefront, events, fx := setup(t)
		product := fx.Product()
		empty := fx.Cart()
		full := fx.Cart(product)
		full.ID = empty.ID
		variant := product.Variants[0].ID

		storefront.On("CreateCart", mock.Anything).Return(empty, nil).Once()
		storefront.On("AddToCart", mock.Anything, empty.ID, []commerce.CartLineInput{{MerchandiseID: variant, Quantity: 1}}).
			Return(full, nil).Once()

		res, err := svc.AddItem(event.WithSessionID(ctx, "sess-1"), AddItemInput{MerchandiseID: variant})
		require.NoError(t, err)
		assert.True(t, res.Created)
		assert.Equal(t, 1, res.Cart.TotalQuantity)

		require.Len(t, events.Events(), 1)
		e := events.Events()[0]
		assert.Equal(t, event.TypeCartAdd, e.Type)
		assert.Equal(t, empty.ID, e.Subject)
		assert.Equal(t, "sess-1", e.SessionID)
		assert.Equal(t, "1", e.Attributes["quantity"])
	})

	t.Run("replaces a cart that no longer exists", func(t *testing.T) {
		svc, storefront, _, fx := setup(t)
		fresh := fx.Cart()
		storefront.On("GetCart", mock.Anything, "stale").Return(nil, nil).Once()
		storefront.On("CreateCart", mock.Anything).Return(fresh, nil).Once()
		storefront.On("AddToCart", mock.Anything, fresh.ID, mock.Anything).Return(fresh, nil).Once()

		res, err := svc.AddItem(ctx, AddItemInput{CartID: "stale", MerchandiseID: "v1", Quantity: qty(2)})
		require.NoError(t, err)
		assert.True(t, res.Created)
	})

	t.Run("uses the existing cart", func(t *testing.T) {
		svc, storefront, _, fx := setup(t)
		existing := fx.Cart(fx.Product())
		storefront.On("GetCart", mock.Anything, existing.ID).Return(existing, nil).Once()
		storefront.On("AddToCart", mock.Anything, existing.ID, mock.Anything).Return(existing, nil).Once()

		res, err := svc.AddItem(ctx, AddItemInput{CartID: existing.ID, MerchandiseID: "v1", Quantity: qty(1)})
		require.NoError(t, err)
		assert.False(t, res.Created)
	})

	t.Run("validation", func(t *testing.T) {
		svc, _, events, _ := setup(t)
		_, err := svc.AddItem(ctx, AddItemInput{MerchandiseID: ""})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		_, err = svc.AddItem(ctx, AddItemInput{MerchandiseID: "v1", Quantity: qty(0)})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		_, err = svc.AddItem(ctx, AddItemInput{MerchandiseID: "v1", Quantity: qty(-1)})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		_, err = svc.AddItem(ctx, AddItemInput{MerchandiseID: "v1", Quantity: qty(MaxQuantity + 1)})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		assert.Empty(t, events.Events())
	})

	t.Run("platform rejects the line", func(t *testing.T) {
		svc, storefront, events, fx := setup(t)
		existing := fx.Cart()
		storefront.On("GetCart", mock.Anything, existing.ID).Return(existing, nil).Once()
		storefront.On("AddToCart", mock.Anything, existing.ID, mock.Anything).
			Return(nil, commerce.ErrPlatformUserError).Once()

		_, err := svc.AddItem(ctx, AddItemInput{CartID: existing.ID, MerchandiseID: "v1"})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		assert.Empty(t, events.Events())
	})
}

func TestService_UpdateItem(t *testing.T) {
	ctx := context.Background()

	t.Run("by merchandise ID", func(t *testing.T) {
		svc, storefront, events, fx := setup(t)
		cart := fx.Cart(fx.Product())
		line := cart.Lines[0]
		storefront.On("GetCart", mock.Anything, cart.ID).Return(cart, nil).Once()
		storefront.On("UpdateCart", mock.Anything, cart.ID, []commerce.CartLineUpdate{
			{ID: line.ID, MerchandiseID: line.Merchandise.ID, Quantity: 3},
		}).Return(cart, nil).Once()

		_, err := svc.UpdateItem(ctx, UpdateItemInput{CartID: cart.ID, MerchandiseID: line.Merchandise.ID, Quantity: qty(3)})
		require.NoError(t, err)
		assert.Equal(t, []string{event.TypeCartUpdate}, events.Types())
	})

	t.Run("zero quantity removes the line", func(t *testing.T) {
		svc, storefront, events, fx := setup(t)
		cart := fx.Cart(fx.Product())
		line := cart.Lines[0]
		emptied := fx.Cart()
		emptied.ID = cart.ID
		storefront.On("GetCart", mock.Anything, cart.ID).Return(cart, nil).Once()
		storefront.On("RemoveFromCart", mock.Anything, cart.ID, []string{line.ID}).Return(emptied, nil).Once()

		res, err := svc.UpdateItem(ctx, UpdateItemInput{CartID: cart.ID, LineID: line.ID, Quantity: qty(0)})
		require.NoError(t, err)
		assert.Empty(t, res.Cart.Lines)
		assert.Equal(t, []string{event.TypeCartRemove}, events.Types())
	})

	t.Run("unknown line", func(t *testing.T) {
		svc, storefront, _, fx := setup(t)
		cart := fx.Cart(fx.Product())
		storefront.On("GetCart", mock.Anything, cart.ID).Return(cart, nil).Once()

		_, err := svc.UpdateItem(ctx, UpdateItemInput{CartID: cart.ID, LineID: "nope", Quantity: qty(1)})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("missing cart", func(t *testing.T) {
		svc, storefront, _, _ := setup(t)
		storefront.On("GetCart", mock.Anything, "gone").Return(nil, nil).Once()

		_, err := svc.UpdateItem(ctx, UpdateItemInput{CartID: "gone", LineID: "l1", Quantity: qty(1)})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("validation", func(t *testing.T) {
		svc, _, _, _ := setup(t)
		_, err := svc.UpdateItem(ctx, UpdateItemInput{LineID: "l1", Quantity: qty(1)})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		_, err = svc.UpdateItem(ctx, UpdateItemInput{CartID: "c1", Quantity: qty(1)})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		_, err = svc.UpdateItem(ctx, UpdateItemInput{CartID: "c1", LineID: "l1", Quantity: qty(-2)})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("missing quantity leaves the line alone", func(t *testing.T) {
		svc, _, events, _ := setup(t)

		_, err := svc.UpdateItem(ctx, UpdateItemInput{CartID: "c1", LineID: "l1"})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		assert.Empty(t, events.Events())
	})
}

func TestService_RemoveItem(t *testing.T) {
	svc, storefront, _, fx := setup(t)
	cart := fx.Cart()
	storefront.On("RemoveFromCart", mock.Anything, cart.ID, []string{"l1"}).Return(cart, nil).Once()

	_, err := svc.RemoveItem(context.Background(), cart.ID, "l1")
	require.NoError(t, err)

	_, err = svc.RemoveItem(context.Background(), "", "l1")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}
