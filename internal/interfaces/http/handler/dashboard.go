package handler

import (
	catalogapp "github.com/Geogebrd/scaond-hand-platform/internal/application/catalog"
	tradeapp "github.com/Geogebrd/scaond-hand-platform/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// DashboardResponse is the seller's view: own listings and sales history
type DashboardResponse struct {
	Listings []catalogapp.ProductResponse `json:"listings"`
	Sales    []tradeapp.SaleResponse      `json:"sales"`
}

// DashboardHandler serves /dashboard, the seller's side of the order lifecycle
type DashboardHandler struct {
	BaseHandler
	products ProductService
	orders   OrderService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(products ProductService, orders OrderService) *DashboardHandler {
	return &DashboardHandler{products: products, orders: orders}
}

// Get returns every listing of the seller, sold ones included, and the sales
func (h *DashboardHandler) Get(c *gin.Context) {
	sellerID, ok := h.currentUser(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	listings, err := h.products.ListBySeller(ctx, sellerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	sales, err := h.orders.ListSales(ctx, sellerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, DashboardResponse{Listings: listings, Sales: sales})
}

// Post dispatches POST /dashboard?action=update_status. Sellers can move
// an order between pending and shipped until the buyer confirms receipt.
func (h *DashboardHandler) Post(c *gin.Context) {
	sellerID, ok := h.currentUser(c)
	if !ok {
		return
	}
	if c.Query("action") != "update_status" {
		h.UnknownAction(c)
		return
	}

	var req tradeapp.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	order, err := h.orders.UpdateShippingStatus(c.Request.Context(), sellerID, req.OrderID, req.Status)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessMessage(c, "Status updated", order)
}
