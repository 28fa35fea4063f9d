package handler

import (
	"context"

	cartapp "github.com/Geogebrd/scaond-hand-platform/internal/application/cart"
	"github.com/Geogebrd/scaond-hand-platform/internal/application/checkout"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CartService is the part of cartapp.Service the handler needs
type CartService interface {
	Add(ctx context.Context, userID uuid.UUID, req cartapp.AddItemRequest) error
	Remove(ctx context.Context, userID, itemID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID) ([]cartapp.LineResponse, error)
}

// CheckoutService is the part of checkout.Service the handler needs
type CheckoutService interface {
	CheckoutCart(ctx context.Context, buyerID uuid.UUID, input checkout.ShippingInput) (*checkout.Result, error)
	BuyNow(ctx context.Context, buyerID, productID uuid.UUID, quantity int, input checkout.ShippingInput) (*checkout.Result, error)
}

// BuyNowRequest is the body of POST /cart?action=buy_now. The shipping
// fields are optional overrides of the buyer's profile.
type BuyNowRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"max=9999"`
	checkout.ShippingInput
}

// CartHandler serves /cart and both checkout shapes
type CartHandler struct {
	BaseHandler
	cart     CartService
	checkout CheckoutService
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cart CartService, checkout CheckoutService) *CartHandler {
	return &CartHandler{cart: cart, checkout: checkout}
}

// Get lists the cart, including lines whose product has sold out since
func (h *CartHandler) Get(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	lines, err := h.cart.List(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lines)
}

// Post dispatches POST /cart?action=add|remove|checkout|buy_now
func (h *CartHandler) Post(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	switch c.Query("action") {
	case "add":
		h.add(c, userID)
	case "remove":
		h.remove(c, userID)
	case "checkout":
		h.checkoutCart(c, userID)
	case "buy_now":
		h.buyNow(c, userID)
	default:
		h.UnknownAction(c)
	}
}

func (h *CartHandler) add(c *gin.Context, userID uuid.UUID) {
	var req cartapp.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	if err := h.cart.Add(c.Request.Context(), userID, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessMessage(c, "Added to cart", nil)
}

func (h *CartHandler) remove(c *gin.Context, userID uuid.UUID) {
	var req cartapp.RemoveItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	if err := h.cart.Remove(c.Request.Context(), userID, req.CartID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessMessage(c, "Removed from cart", nil)
}

func (h *CartHandler) checkoutCart(c *gin.Context, userID uuid.UUID) {
	var input checkout.ShippingInput
	if err := bindOptionalJSON(c, &input); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.checkout.CheckoutCart(c.Request.Context(), userID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessMessage(c, "Checkout successful", checkout.ToResultResponse(result))
}

func (h *CartHandler) buyNow(c *gin.Context, userID uuid.UUID) {
	var req BuyNowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.checkout.BuyNow(c.Request.Context(), userID, req.ProductID, req.Quantity, req.ShippingInput)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessMessage(c, "Purchase successful", checkout.ToResultResponse(result))
}
