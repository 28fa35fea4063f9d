package integration

import (
	"context"
	"testing"
	"time"

	"github.com/Geogebrd/scaond-hand-platform/internal/application/checkout"
	tradeapp "github.com/Geogebrd/scaond-hand-platform/internal/application/trade"
	"github.com/Geogebrd/scaond-hand-platform/internal/domain/catalog"
	"github.com/Geogebrd/scaond-hand-platform/internal/domain/trade"
	"github.com/Geogebrd/scaond-hand-platform/internal/infrastructure/event"
	"github.com/Geogebrd/scaond-hand-platform/internal/infrastructure/persistence"
	"github.com/Geogebrd/scaond-hand-platform/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEvents_CheckoutAndShippingArePublished(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	s := newCheckoutSetup(t)
	ctx := context.Background()

	bus := event.NewInMemoryEventBus(zap.NewNop())
	everything := testutil.NewEventRecorder()
	bus.Subscribe(everything)

	// a failing subscriber must not affect the publisher or other handlers
	broken := testutil.NewEventRecorder(trade.EventTypeOrderPlaced)
	broken.FailWith(assert.AnError)
	bus.Subscribe(broken)

	s.Engine.SetEventPublisher(bus)
	orders := tradeapp.NewOrderService(persistence.NewGormOrderRepository(s.DB.DB), zap.NewNop())
	orders.SetEventPublisher(bus)

	product := s.DB.CreateProduct(s.Seller.ID, "Camera bag", "35.00", 1)
	buyer := s.buyer(t, "photographer")

	result, err := s.Checkout.BuyNow(ctx, buyer.ID, product.ID, 1, checkout.ShippingInput{})
	require.NoError(t, err)
	orderID := result.Orders[0].ID

	require.True(t, testutil.AwaitEvents(t, everything, 2, time.Second), everything.Types())
	assert.ElementsMatch(t,
		[]string{trade.EventTypeOrderPlaced, catalog.EventTypeProductSoldOut},
		everything.Types())
	assert.Equal(t, 1, broken.Len())

	placed := everything.OfType(trade.EventTypeOrderPlaced)
	require.Len(t, placed, 1)
	assert.Equal(t, orderID, placed[0].AggregateID())
	soldOut := everything.OfType(catalog.EventTypeProductSoldOut)
	require.Len(t, soldOut, 1)
	assert.Equal(t, product.ID, soldOut[0].AggregateID())

	_, err = orders.UpdateShippingStatus(ctx, s.Seller.ID, orderID, "shipped")
	require.NoError(t, err)
	_, err = orders.ConfirmReceipt(ctx, buyer.ID, orderID)
	require.NoError(t, err)

	require.True(t, testutil.AwaitEvents(t, everything, 4, time.Second), everything.Types())
	assert.Len(t, everything.OfType(trade.EventTypeOrderShipped), 1)
	assert.Len(t, everything.OfType(trade.EventTypeOrderReceived), 1)
}
