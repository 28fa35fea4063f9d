package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Geogebrd/scaond-hand-platform/internal/domain/cart"
	"github.com/Geogebrd/scaond-hand-platform/internal/domain/catalog"
	"github.com/Geogebrd/scaond-hand-platform/internal/domain/identity"
	"github.com/Geogebrd/scaond-hand-platform/internal/domain/shared"
	"github.com/Geogebrd/scaond-hand-platform/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var fullShipping = ShippingInput{Name: "Alice Smith", Address: "1 Main St", Phone: "555-0100"}

func newListing(t *testing.T, sellerID uuid.UUID, quantity int, unlimited bool) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(sellerID, catalog.ListingInput{
		Title:     "Desk Lamp",
		Price:     decimal.RequireFromString("19.99"),
		Quantity:  quantity,
		Unlimited: unlimited,
	})
	require.NoError(t, err)
	p.ClearDomainEvents()
	return p
}

func newBuyer(profile identity.ShippingProfile) *identity.User {
	return &identity.User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Username:          "alice",
		Email:             "alice@example.com",
		Profile:           profile,
	}
}

func setupEngine(locker StockLocker) (*Engine, *MockUserRepository, *recordingPublisher) {
	users := new(MockUserRepository)
	users.On("UpdateProfile", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	publisher := &recordingPublisher{}
	engine := NewEngine(locker, users, nil)
	engine.SetEventPublisher(publisher)
	return engine, users, publisher
}

func TestEngine_Checkout_SingleUnitScenario(t *testing.T) {
	seller := uuid.New()
	buyer := uuid.New()
	product := newListing(t, seller, 1, false)
	locker := newMemoryStockLocker(product)
	engine, users, publisher := setupEngine(locker)

	result, err := engine.Checkout(context.Background(), buyer,
		[]LineItem{{ProductID: product.ID, Quantity: 1}}, fullShipping)
	require.NoError(t, err)
	require.Len(t, result.Orders, 1)

	order := result.Orders[0]
	assert.Equal(t, buyer, order.BuyerID)
	assert.Equal(t, seller, order.SellerID)
	assert.Equal(t, 1, order.Quantity)
	assert.True(t, decimal.RequireFromString("19.99").Equal(order.UnitPrice))
	assert.True(t, decimal.RequireFromString("19.99").Equal(order.TotalPrice))
	assert.Equal(t, trade.ShippingStatusPending, order.Status)
	assert.Equal(t, trade.ShippingSnapshot{Name: "Alice Smith", Address: "1 Main St", Phone: "555-0100"}, order.Shipping)

	stored := locker.product(product.ID)
	assert.Equal(t, 1, stored.SoldQuantity)
	assert.Equal(t, catalog.ProductStatusSold, stored.Status)

	assert.ElementsMatch(t, []string{trade.EventTypeOrderPlaced, catalog.EventTypeProductSoldOut}, publisher.types())
	users.AssertCalled(t, "UpdateProfile", mock.Anything, buyer, identity.ShippingProfile{
		RealName: "Alice Smith", Address: "1 Main St", Phone: "555-0100",
	})
}

func TestEngine_Checkout_StatusDerivation(t *testing.T) {
	buyer := uuid.New()

	t.Run("partial sale keeps the listing available", func(t *testing.T) {
		product := newListing(t, uuid.New(), 3, false)
		locker := newMemoryStockLocker(product)
		engine, _, publisher := setupEngine(locker)

		_, err := engine.Checkout(context.Background(), buyer,
			[]LineItem{{ProductID: product.ID, Quantity: 2}}, fullShipping)
		require.NoError(t, err)

		stored := locker.product(product.ID)
		assert.Equal(t, 2, stored.SoldQuantity)
		assert.Equal(t, catalog.ProductStatusAvailable, stored.Status)
		assert.Equal(t, []string{trade.EventTypeOrderPlaced}, publisher.types())
	})

	t.Run("selling the remaining stock marks it sold", func(t *testing.T) {
		product := newListing(t, uuid.New(), 3, false)
		locker := newMemoryStockLocker(product)
		engine, _, _ := setupEngine(locker)

		_, err := engine.Checkout(context.Background(), buyer,
			[]LineItem{{ProductID: product.ID, Quantity: 3}}, fullShipping)
		require.NoError(t, err)

		stored := locker.product(product.ID)
		assert.Equal(t, 3, stored.SoldQuantity)
		assert.Equal(t, catalog.ProductStatusSold, stored.Status)
	})

	t.Run("unlimited listing is never touched", func(t *testing.T) {
		product := newListing(t, uuid.New(), 1, true)
		locker := newMemoryStockLocker(product)
		engine, _, _ := setupEngine(locker)

		result, err := engine.Checkout(context.Background(), buyer,
			[]LineItem{{ProductID: product.ID, Quantity: 500}}, fullShipping)
		require.NoError(t, err)
		assert.Equal(t, 500, result.Units())

		stored := locker.product(product.ID)
		assert.Equal(t, 0, stored.SoldQuantity)
		assert.Equal(t, catalog.ProductStatusAvailable, stored.Status)
	})
}

func TestEngine_Checkout_ConcurrentBuyersNeverOversell(t *testing.T) {
	product := newListing(t, uuid.New(), 5, false)
	locker := newMemoryStockLocker(product)
	engine, _, _ := setupEngine(locker)

	const buyers = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := engine.Checkout(context.Background(), uuid.New(),
				[]LineItem{{ProductID: product.ID, Quantity: 2}}, fullShipping)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
				return
			}
			if shared.IsCode(err, shared.CodeInsufficientStock) {
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 2, succeeded)
	assert.Equal(t, buyers-2, rejected)

	stored := locker.product(product.ID)
	assert.Equal(t, 4, stored.SoldQuantity)
	assert.Equal(t, catalog.ProductStatusAvailable, stored.Status)
	assert.Len(t, locker.committedOrders(), 2)
}

func TestEngine_Checkout_IsAllOrNothing(t *testing.T) {
	buyer := uuid.New()
	other := newListing(t, uuid.New(), 2, false)
	own := newListing(t, buyer, 2, false)
	locker := newMemoryStockLocker(other, own)
	engine, users, publisher := setupEngine(locker)

	_, err := engine.Checkout(context.Background(), buyer, []LineItem{
		{ProductID: other.ID, Quantity: 1},
		{ProductID: own.ID, Quantity: 1},
	}, fullShipping)

	require.Error(t, err)
	assert.True(t, shared.IsCode(err, shared.CodeSelfPurchase))
	assert.Empty(t, locker.committedOrders())
	assert.Equal(t, 0, locker.product(other.ID).SoldQuantity)
	assert.Empty(t, publisher.types())
	users.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything, mock.Anything)
}

func TestEngine_Checkout_Rejections(t *testing.T) {
	buyer := uuid.New()

	tests := []struct {
		name    string
		setup   func(t *testing.T) (*catalog.Product, []LineItem)
		code    string
		message string
	}{
		{
			name: "self purchase",
			setup: func(t *testing.T) (*catalog.Product, []LineItem) {
				p := newListing(t, buyer, 3, false)
				return p, []LineItem{{ProductID: p.ID, Quantity: 1}}
			},
			code:    shared.CodeSelfPurchase,
			message: "Cannot buy your own product",
		},
		{
			name: "more than available",
			setup: func(t *testing.T) (*catalog.Product, []LineItem) {
				p := newListing(t, uuid.New(), 3, false)
				p.SoldQuantity = 2
				return p, []LineItem{{ProductID: p.ID, Quantity: 2}}
			},
			code:    shared.CodeInsufficientStock,
			message: "Not enough stock for Desk Lamp (Available: 1, Requested: 2)",
		},
		{
			name: "repeated product is validated cumulatively",
			setup: func(t *testing.T) (*catalog.Product, []LineItem) {
				p := newListing(t, uuid.New(), 3, false)
				return p, []LineItem{{ProductID: p.ID, Quantity: 2}, {ProductID: p.ID, Quantity: 2}}
			},
			code:    shared.CodeInsufficientStock,
			message: "Not enough stock for Desk Lamp (Available: 1, Requested: 2)",
		},
		{
			name: "marked sold",
			setup: func(t *testing.T) (*catalog.Product, []LineItem) {
				p := newListing(t, uuid.New(), 3, false)
				p.Status = catalog.ProductStatusSold
				return p, []LineItem{{ProductID: p.ID, Quantity: 1}}
			},
			code:    shared.CodeAlreadySold,
			message: "Product is marked as sold",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product, lines := tt.setup(t)
			locker := newMemoryStockLocker(product)
			engine, _, _ := setupEngine(locker)
			before := locker.product(product.ID)

			_, err := engine.Checkout(context.Background(), buyer, lines, fullShipping)

			require.Error(t, err)
			assert.Equal(t, tt.code, shared.CodeOf(err))
			assert.Equal(t, tt.message, err.Error())
			assert.Empty(t, locker.committedOrders())
			assert.Equal(t, before.SoldQuantity, locker.product(product.ID).SoldQuantity)
		})
	}
}

func TestEngine_Checkout_UnknownProduct(t *testing.T) {
	locker := newMemoryStockLocker()
	engine, _, _ := setupEngine(locker)
	missing := uuid.New()

	_, err := engine.Checkout(context.Background(), uuid.New(),
		[]LineItem{{ProductID: missing, Quantity: 1}}, fullShipping)

	require.Error(t, err)
	assert.True(t, shared.IsCode(err, shared.CodeNotFound))
	assert.Contains(t, err.Error(), missing.String())
}

func TestEngine_Checkout_InvalidLines(t *testing.T) {
	locker := newMemoryStockLocker()
	engine, _, _ := setupEngine(locker)

	_, err := engine.Checkout(context.Background(), uuid.New(), nil, fullShipping)
	assert.True(t, shared.IsCode(err, shared.CodeValidation))

	_, err = engine.Checkout(context.Background(), uuid.New(),
		[]LineItem{{ProductID: uuid.New(), Quantity: 0}}, fullShipping)
	assert.True(t, shared.IsCode(err, shared.CodeValidation))

	_, err = engine.Checkout(context.Background(), uuid.New(),
		[]LineItem{{ProductID: uuid.New(), Quantity: cart.MaxQuantity + 1}}, fullShipping)
	assert.True(t, shared.IsCode(err, shared.CodeValidation))

	_, err = engine.Checkout(context.Background(), uuid.Nil,
		[]LineItem{{ProductID: uuid.New(), Quantity: 1}}, fullShipping)
	assert.True(t, shared.IsCode(err, shared.CodeUnauthorized))

	assert.Equal(t, 0, locker.lockCalls())
}

func TestEngine_Checkout_StorageFailureRollsBack(t *testing.T) {
	product := newListing(t, uuid.New(), 2, false)
	locker := newMemoryStockLocker(product)
	locker.saveStockErr = errors.New("connection reset")
	core, logs := observer.New(zap.ErrorLevel)
	publisher := &recordingPublisher{}
	engine := NewEngine(locker, new(MockUserRepository), zap.New(core))
	engine.SetEventPublisher(publisher)

	_, err := engine.Checkout(context.Background(), uuid.New(),
		[]LineItem{{ProductID: product.ID, Quantity: 1}}, fullShipping)

	require.Error(t, err)
	assert.True(t, shared.IsCode(err, shared.CodeStorageFailure))
	assert.ErrorContains(t, errors.Unwrap(err), "connection reset")
	// the HTTP layer logs the failure once when it renders it
	assert.Zero(t, logs.Len())
	assert.Empty(t, locker.committedOrders())
	assert.Equal(t, 0, locker.product(product.ID).SoldQuantity)
	assert.Empty(t, publisher.types())
}

func TestEngine_Checkout_TransientLockTimeoutPassesThrough(t *testing.T) {
	product := newListing(t, uuid.New(), 2, false)
	locker := newMemoryStockLocker(product)
	locker.createOrderErr = shared.NewTransientStorageError("Product is busy, please retry", errors.New("lock timeout"))
	engine, _, _ := setupEngine(locker)

	_, err := engine.Checkout(context.Background(), uuid.New(),
		[]LineItem{{ProductID: product.ID, Quantity: 1}}, fullShipping)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeStorageFailure, domainErr.Code)
	assert.True(t, domainErr.Transient)
}

func TestEngine_ResolveShipping(t *testing.T) {
	ctx := context.Background()

	t.Run("supplied triple is used without loading the profile", func(t *testing.T) {
		engine, users, _ := setupEngine(newMemoryStockLocker())

		snapshot, err := engine.ResolveShipping(ctx, uuid.New(), ShippingInput{
			Name: "  Bob ", Address: "2 Side St", Phone: "555-0101",
		})
		require.NoError(t, err)
		assert.Equal(t, trade.ShippingSnapshot{Name: "Bob", Address: "2 Side St", Phone: "555-0101"}, snapshot)
		users.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("a complete profile fills the blank input fields", func(t *testing.T) {
		engine, users, _ := setupEngine(newMemoryStockLocker())
		buyer := newBuyer(identity.ShippingProfile{RealName: "Stored Name", Address: "Stored Addr", Phone: "Stored Phone"})
		users.On("FindByID", ctx, buyer.ID).Return(buyer, nil)

		snapshot, err := engine.ResolveShipping(ctx, buyer.ID, ShippingInput{Name: "Gift Recipient"})
		require.NoError(t, err)
		assert.Equal(t, trade.ShippingSnapshot{Name: "Gift Recipient", Address: "Stored Addr", Phone: "Stored Phone"}, snapshot)
	})

	t.Run("partial input and partial profile do not combine", func(t *testing.T) {
		engine, users, _ := setupEngine(newMemoryStockLocker())
		buyer := newBuyer(identity.ShippingProfile{Phone: "555-0199"})
		users.On("FindByID", ctx, buyer.ID).Return(buyer, nil)

		_, err := engine.ResolveShipping(ctx, buyer.ID, ShippingInput{Name: "Ann", Address: "3 Quay"})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeMissingAddress, domainErr.Code)
		// details describe the stored profile, not the request
		assert.Equal(t, []string{"Name", "Address"}, domainErr.Details)
	})

	t.Run("missing fields are named in order", func(t *testing.T) {
		engine, users, _ := setupEngine(newMemoryStockLocker())
		buyer := newBuyer(identity.ShippingProfile{RealName: "Stored Name"})
		users.On("FindByID", ctx, buyer.ID).Return(buyer, nil)

		_, err := engine.ResolveShipping(ctx, buyer.ID, ShippingInput{})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeMissingAddress, domainErr.Code)
		assert.Equal(t, []string{"Address", "Phone"}, domainErr.Details)
		assert.Equal(t, "Missing: Address, Phone", domainErr.Message)
	})

	t.Run("profile lookup failure is a storage failure", func(t *testing.T) {
		engine, users, _ := setupEngine(newMemoryStockLocker())
		buyerID := uuid.New()
		users.On("FindByID", ctx, buyerID).Return(nil, errors.New("db down"))

		_, err := engine.ResolveShipping(ctx, buyerID, ShippingInput{Name: "X"})
		assert.True(t, shared.IsCode(err, shared.CodeStorageFailure))
	})
}

func TestEngine_Checkout_MissingAddressTouchesNothing(t *testing.T) {
	ctx := context.Background()
	product := newListing(t, uuid.New(), 2, false)
	locker := newMemoryStockLocker(product)
	engine, users, _ := setupEngine(locker)
	buyer := newBuyer(identity.ShippingProfile{})
	users.On("FindByID", ctx, buyer.ID).Return(buyer, nil)

	_, err := engine.Checkout(ctx, buyer.ID, []LineItem{{ProductID: product.ID, Quantity: 1}}, ShippingInput{})

	assert.True(t, shared.IsCode(err, shared.CodeMissingAddress))
	assert.Equal(t, 0, locker.lockCalls())
	assert.Empty(t, locker.committedOrders())
}

func TestEngine_Checkout_SnapshotSurvivesProfileChanges(t *testing.T) {
	ctx := context.Background()
	product := newListing(t, uuid.New(), 2, false)
	locker := newMemoryStockLocker(product)
	engine, users, _ := setupEngine(locker)
	buyer := newBuyer(identity.ShippingProfile{RealName: "Old", Address: "Old Addr", Phone: "Old Phone"})
	users.On("FindByID", ctx, buyer.ID).Return(buyer, nil)

	result, err := engine.Checkout(ctx, buyer.ID, []LineItem{{ProductID: product.ID, Quantity: 1}}, ShippingInput{})
	require.NoError(t, err)

	buyer.Profile = identity.ShippingProfile{RealName: "New", Address: "New Addr", Phone: "New Phone"}

	order := locker.committedOrders()[0]
	assert.Equal(t, trade.ShippingSnapshot{Name: "Old", Address: "Old Addr", Phone: "Old Phone"}, order.Shipping)
	assert.Equal(t, order.Shipping, result.Shipping)
}

func TestEngine_Checkout_ProfileWriteBackFailureIsIgnored(t *testing.T) {
	product := newListing(t, uuid.New(), 2, false)
	locker := newMemoryStockLocker(product)
	users := new(MockUserRepository)
	users.On("UpdateProfile", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("db down"))
	engine := NewEngine(locker, users, nil)

	result, err := engine.Checkout(context.Background(), uuid.New(),
		[]LineItem{{ProductID: product.ID, Quantity: 1}}, fullShipping)

	require.NoError(t, err)
	assert.Len(t, result.Orders, 1)
	assert.Len(t, locker.committedOrders(), 1)
}
