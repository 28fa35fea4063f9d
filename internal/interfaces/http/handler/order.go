package handler

import (
	"context"

	tradeapp "github.com/Geogebrd/scaond-hand-platform/internal/application/trade"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OrderService is the part of tradeapp.OrderService the handlers need
type OrderService interface {
	UpdateShippingStatus(ctx context.Context, sellerID, orderID uuid.UUID, status string) (*tradeapp.OrderStatusResponse, error)
	ConfirmReceipt(ctx context.Context, buyerID, orderID uuid.UUID) (*tradeapp.OrderStatusResponse, error)
	ListPurchases(ctx context.Context, buyerID uuid.UUID) ([]tradeapp.PurchaseResponse, error)
	ListSales(ctx context.Context, sellerID uuid.UUID) ([]tradeapp.SaleResponse, error)
}

// OrderHandler serves /orders, the buyer's side of the order lifecycle
type OrderHandler struct {
	BaseHandler
	orders OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// Get lists the buyer's purchases, newest first
func (h *OrderHandler) Get(c *gin.Context) {
	buyerID, ok := h.currentUser(c)
	if !ok {
		return
	}
	if action := c.Query("action"); action != "" && action != "purchases" {
		h.UnknownAction(c)
		return
	}

	purchases, err := h.orders.ListPurchases(c.Request.Context(), buyerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, purchases)
}

// Post dispatches POST /orders?action=confirm_receipt
func (h *OrderHandler) Post(c *gin.Context) {
	buyerID, ok := h.currentUser(c)
	if !ok {
		return
	}
	if c.Query("action") != "confirm_receipt" {
		h.UnknownAction(c)
		return
	}

	var req tradeapp.ConfirmReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	order, err := h.orders.ConfirmReceipt(c.Request.Context(), buyerID, req.OrderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessMessage(c, "Receipt confirmed", order)
}
