package handler

import (
	"net/http"
	"testing"
	"time"

	catalogapp "github.com/Geogebrd/scaond-hand-platform/internal/application/catalog"
	tradeapp "github.com/Geogebrd/scaond-hand-platform/internal/application/trade"
	"github.com/Geogebrd/scaond-hand-platform/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func orderRouter(orders OrderService, products ProductService, userID uuid.UUID) *gin.Engine {
	oh := NewOrderHandler(orders)
	dh := NewDashboardHandler(products, orders)
	r := newRouter(userID)
	r.GET("/orders", oh.Get)
	r.POST("/orders", oh.Post)
	r.GET("/dashboard", dh.Get)
	r.POST("/dashboard", dh.Post)
	return r
}

func TestOrderHandler_ListPurchases(t *testing.T) {
	buyerID := uuid.New()
	orders := new(MockOrderService)
	orders.On("ListPurchases", mock.Anything, buyerID).Return([]tradeapp.PurchaseResponse{
		{ID: uuid.New(), Title: "Lamp", SellerName: "bob", Quantity: 1},
	}, nil)
	r := orderRouter(orders, new(MockProductService), buyerID)

	for _, target := range []string{"/orders", "/orders?action=purchases"} {
		w := serve(r, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusOK, w.Code, target)
		assert.Len(t, decode(t, w).Data, 1, target)
	}

	w := serve(r, http.MethodGet, "/orders?action=sales", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderHandler_ConfirmReceipt(t *testing.T) {
	buyerID := uuid.New()
	orderID := uuid.New()
	now := time.Now()
	orders := new(MockOrderService)
	orders.On("ConfirmReceipt", mock.Anything, buyerID, orderID).
		Return(&tradeapp.OrderStatusResponse{ID: orderID, Status: "received", ReceivedAt: &now}, nil)

	w := serve(orderRouter(orders, new(MockProductService), buyerID), http.MethodPost,
		"/orders?action=confirm_receipt", tradeapp.ConfirmReceiptRequest{OrderID: orderID})

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "Receipt confirmed", resp.Message)
	assert.Equal(t, "received", resp.Data.(map[string]any)["shipping_status"])
}

func TestOrderHandler_ConfirmReceipt_Rejected(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not shipped yet", shared.ErrInvalidTransition, http.StatusUnprocessableEntity},
		{"someone else's order", shared.NewNotFoundError("Order not found"), http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buyerID := uuid.New()
			orders := new(MockOrderService)
			orders.On("ConfirmReceipt", mock.Anything, buyerID, mock.Anything).Return(nil, tt.err)

			w := serve(orderRouter(orders, new(MockProductService), buyerID), http.MethodPost,
				"/orders?action=confirm_receipt", tradeapp.ConfirmReceiptRequest{OrderID: uuid.New()})

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestDashboardHandler_Get(t *testing.T) {
	sellerID := uuid.New()
	products := new(MockProductService)
	orders := new(MockOrderService)
	products.On("ListBySeller", mock.Anything, sellerID).Return([]catalogapp.ProductResponse{
		{ID: uuid.New(), Title: "Lamp", Status: "available"},
		{ID: uuid.New(), Title: "Bike", Status: "sold"},
	}, nil)
	orders.On("ListSales", mock.Anything, sellerID).Return([]tradeapp.SaleResponse{
		{ID: uuid.New(), Title: "Bike", BuyerName: "alice", Quantity: 1},
	}, nil)

	w := serve(orderRouter(orders, products, sellerID), http.MethodGet, "/dashboard", nil)

	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w).Data.(map[string]any)
	assert.Len(t, data["listings"], 2)
	assert.Len(t, data["sales"], 1)
}

func TestDashboardHandler_Get_StorageFailure(t *testing.T) {
	sellerID := uuid.New()
	products := new(MockProductService)
	orders := new(MockOrderService)
	products.On("ListBySeller", mock.Anything, sellerID).Return(nil, shared.NewStorageError("Failed to load listings", assert.AnError))

	w := serve(orderRouter(orders, products, sellerID), http.MethodGet, "/dashboard", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	orders.AssertNotCalled(t, "ListSales")
}

func TestDashboardHandler_UpdateStatus(t *testing.T) {
	sellerID := uuid.New()
	orderID := uuid.New()
	orders := new(MockOrderService)
	orders.On("UpdateShippingStatus", mock.Anything, sellerID, orderID, "shipped").
		Return(&tradeapp.OrderStatusResponse{ID: orderID, Status: "shipped"}, nil)

	w := serve(orderRouter(orders, new(MockProductService), sellerID), http.MethodPost,
		"/dashboard?action=update_status", tradeapp.UpdateStatusRequest{OrderID: orderID, Status: "shipped"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Status updated", decode(t, w).Message)
	orders.AssertExpectations(t)
}

func TestDashboardHandler_UpdateStatus_SellerCannotMarkReceived(t *testing.T) {
	orders := new(MockOrderService)

	w := serve(orderRouter(orders, new(MockProductService), uuid.New()), http.MethodPost,
		"/dashboard?action=update_status", tradeapp.UpdateStatusRequest{OrderID: uuid.New(), Status: "received"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []any{"status: Must be one of: pending, shipped"}, decode(t, w).Details)
	orders.AssertNotCalled(t, "UpdateShippingStatus")
}

func TestDashboardHandler_UnknownAction(t *testing.T) {
	w := serve(orderRouter(new(MockOrderService), new(MockProductService), uuid.New()), http.MethodPost,
		"/dashboard?action=delete", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
