package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Geogebrd/scaond-hand-platform/internal/domain/cart"
	"github.com/Geogebrd/scaond-hand-platform/internal/domain/identity"
	"github.com/Geogebrd/scaond-hand-platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type observation struct {
	shape Shape
	code  string
	units int
}

type fakeRecorder struct {
	observed      []observation
	clearFailures int
}

func (r *fakeRecorder) ObserveCheckout(shape Shape, code string, units int, _ time.Duration) {
	r.observed = append(r.observed, observation{shape: shape, code: code, units: units})
}

func (r *fakeRecorder) ObserveCartClearFailure() {
	r.clearFailures++
}

func cartItem(userID, productID uuid.UUID, qty int) cart.Item {
	item, _ := cart.NewItem(userID, productID, qty)
	return *item
}

func TestService_CheckoutCart(t *testing.T) {
	ctx := context.Background()

	t.Run("orders every row and clears the cart", func(t *testing.T) {
		buyer := uuid.New()
		lamp := newListing(t, uuid.New(), 3, false)
		chair := newListing(t, uuid.New(), 1, false)
		locker := newMemoryStockLocker(lamp, chair)
		engine, _, _ := setupEngine(locker)
		carts := new(MockCartRepository)
		carts.On("Items", ctx, buyer).Return([]cart.Item{
			cartItem(buyer, lamp.ID, 2),
			cartItem(buyer, chair.ID, 1),
		}, nil)
		carts.On("Clear", ctx, buyer).Return(nil)
		recorder := &fakeRecorder{}
		svc := NewService(engine, carts, nil)
		svc.SetRecorder(recorder)

		result, err := svc.CheckoutCart(ctx, buyer, fullShipping)

		require.NoError(t, err)
		assert.Len(t, result.Orders, 2)
		assert.Equal(t, 2, locker.product(lamp.ID).SoldQuantity)
		assert.Equal(t, 1, locker.product(chair.ID).SoldQuantity)
		carts.AssertCalled(t, "Clear", ctx, buyer)
		assert.Equal(t, []observation{{shape: ShapeCart, units: 3}}, recorder.observed)
		assert.Zero(t, recorder.clearFailures)
	})

	t.Run("failed checkout leaves the cart untouched", func(t *testing.T) {
		buyer := uuid.New()
		lamp := newListing(t, uuid.New(), 1, false)
		locker := newMemoryStockLocker(lamp)
		engine, _, _ := setupEngine(locker)
		carts := new(MockCartRepository)
		carts.On("Items", ctx, buyer).Return([]cart.Item{cartItem(buyer, lamp.ID, 2)}, nil)
		recorder := &fakeRecorder{}
		svc := NewService(engine, carts, nil)
		svc.SetRecorder(recorder)

		_, err := svc.CheckoutCart(ctx, buyer, fullShipping)

		assert.True(t, shared.IsCode(err, shared.CodeInsufficientStock))
		carts.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything)
		assert.Equal(t, []observation{{shape: ShapeCart, code: shared.CodeInsufficientStock}}, recorder.observed)
	})

	t.Run("empty cart", func(t *testing.T) {
		buyer := uuid.New()
		engine, _, _ := setupEngine(newMemoryStockLocker())
		carts := new(MockCartRepository)
		carts.On("Items", ctx, buyer).Return([]cart.Item{}, nil)
		svc := NewService(engine, carts, nil)

		_, err := svc.CheckoutCart(ctx, buyer, fullShipping)

		require.Error(t, err)
		assert.True(t, shared.IsCode(err, shared.CodeValidation))
		assert.Equal(t, "Cart is empty", err.Error())
	})

	t.Run("missing address is reported before the cart is read", func(t *testing.T) {
		engine, users, _ := setupEngine(newMemoryStockLocker())
		buyer := newBuyer(identity.ShippingProfile{})
		users.On("FindByID", ctx, buyer.ID).Return(buyer, nil)
		carts := new(MockCartRepository)
		svc := NewService(engine, carts, nil)

		_, err := svc.CheckoutCart(ctx, buyer.ID, ShippingInput{})

		assert.True(t, shared.IsCode(err, shared.CodeMissingAddress))
		carts.AssertNotCalled(t, "Items", mock.Anything, mock.Anything)
	})

	t.Run("cart load failure", func(t *testing.T) {
		buyer := uuid.New()
		engine, _, _ := setupEngine(newMemoryStockLocker())
		carts := new(MockCartRepository)
		carts.On("Items", ctx, buyer).Return(nil, errors.New("db down"))
		svc := NewService(engine, carts, nil)

		_, err := svc.CheckoutCart(ctx, buyer, fullShipping)
		assert.True(t, shared.IsCode(err, shared.CodeStorageFailure))
	})

	t.Run("clear failure after commit keeps the result", func(t *testing.T) {
		buyer := uuid.New()
		lamp := newListing(t, uuid.New(), 1, false)
		engine, _, _ := setupEngine(newMemoryStockLocker(lamp))
		carts := new(MockCartRepository)
		carts.On("Items", ctx, buyer).Return([]cart.Item{cartItem(buyer, lamp.ID, 1)}, nil)
		carts.On("Clear", ctx, buyer).Return(errors.New("db down"))
		recorder := &fakeRecorder{}
		core, logs := observer.New(zap.WarnLevel)
		svc := NewService(engine, carts, zap.New(core))
		svc.SetRecorder(recorder)

		result, err := svc.CheckoutCart(ctx, buyer, fullShipping)
		require.NoError(t, err)
		assert.Len(t, result.Orders, 1)
		assert.Equal(t, 1, recorder.clearFailures)
		assert.Equal(t, []observation{{shape: ShapeCart, units: 1}}, recorder.observed)
		require.Equal(t, 1, logs.Len())
		assert.Equal(t, "Failed to clear cart after checkout", logs.All()[0].Message)
	})
}

func TestService_BuyNow(t *testing.T) {
	ctx := context.Background()

	t.Run("buys a single product and leaves the cart alone", func(t *testing.T) {
		lamp := newListing(t, uuid.New(), 2, false)
		locker := newMemoryStockLocker(lamp)
		engine, _, _ := setupEngine(locker)
		carts := new(MockCartRepository)
		svc := NewService(engine, carts, nil)

		result, err := svc.BuyNow(ctx, uuid.New(), lamp.ID, 2, fullShipping)

		require.NoError(t, err)
		require.Len(t, result.Orders, 1)
		assert.Equal(t, 2, result.Orders[0].Quantity)
		carts.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything)
		carts.AssertNotCalled(t, "Items", mock.Anything, mock.Anything)
	})

	t.Run("quantity below one buys one", func(t *testing.T) {
		lamp := newListing(t, uuid.New(), 2, false)
		locker := newMemoryStockLocker(lamp)
		engine, _, _ := setupEngine(locker)
		svc := NewService(engine, new(MockCartRepository), nil)

		result, err := svc.BuyNow(ctx, uuid.New(), lamp.ID, 0, fullShipping)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Orders[0].Quantity)
		assert.Equal(t, 1, locker.product(lamp.ID).SoldQuantity)
	})

	t.Run("missing product id", func(t *testing.T) {
		engine, _, _ := setupEngine(newMemoryStockLocker())
		svc := NewService(engine, new(MockCartRepository), nil)

		_, err := svc.BuyNow(ctx, uuid.New(), uuid.Nil, 1, fullShipping)
		assert.True(t, shared.IsCode(err, shared.CodeValidation))
	})
}
