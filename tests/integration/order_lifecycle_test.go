package integration

import (
	"context"
	"errors"
	"testing"

	"github.com/Geogebrd/scaond-hand-platform/internal/application/checkout"
	tradeapp "github.com/Geogebrd/scaond-hand-platform/internal/application/trade"
	"github.com/Geogebrd/scaond-hand-platform/internal/domain/shared"
	"github.com/Geogebrd/scaond-hand-platform/internal/domain/trade"
	"github.com/Geogebrd/scaond-hand-platform/internal/infrastructure/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOrderLifecycle_ShipThenConfirm(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	s := newCheckoutSetup(t)
	ctx := context.Background()
	orders := tradeapp.NewOrderService(persistence.NewGormOrderRepository(s.DB.DB), zap.NewNop())

	product := s.DB.CreateProduct(s.Seller.ID, "Road bike", "150.00", 1)
	buyer := s.buyer(t, "cyclist")
	result, err := s.Checkout.BuyNow(ctx, buyer.ID, product.ID, 1, checkout.ShippingInput{})
	require.NoError(t, err)
	orderID := result.Orders[0].ID

	purchases, err := orders.ListPurchases(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, purchases, 1)
	assert.Equal(t, "Road bike", purchases[0].Title)
	assert.Equal(t, "seller", purchases[0].SellerName)
	assert.Equal(t, string(trade.ShippingStatusPending), purchases[0].Status)

	// the buyer cannot confirm before the seller ships
	_, err = orders.ConfirmReceipt(ctx, buyer.ID, orderID)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, shared.CodeInvalidTransition, domainErr.Code)

	// only the seller of the order may ship it
	_, err = orders.UpdateShippingStatus(ctx, buyer.ID, orderID, "shipped")
	require.Error(t, err)

	shipped, err := orders.UpdateShippingStatus(ctx, s.Seller.ID, orderID, "shipped")
	require.NoError(t, err)
	assert.Equal(t, string(trade.ShippingStatusShipped), shipped.Status)
	assert.NotNil(t, shipped.ShippedAt)

	received, err := orders.ConfirmReceipt(ctx, buyer.ID, orderID)
	require.NoError(t, err)
	assert.Equal(t, string(trade.ShippingStatusReceived), received.Status)
	assert.NotNil(t, received.ReceivedAt)

	sales, err := orders.ListSales(ctx, s.Seller.ID)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, string(trade.ShippingStatusReceived), sales[0].Status)
}
