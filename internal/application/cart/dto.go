package cart

import (
	"github.com/Geogebrd/scaond-hand-platform/internal/domain/cart"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddItemRequest is the body of the cart add action
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"max=9999"`
}

// RemoveItemRequest is the body of the cart remove action
type RemoveItemRequest struct {
	CartID uuid.UUID `json:"cart_id" binding:"required"`
}

// LineResponse is one cart row with its product data
type LineResponse struct {
	CartID      uuid.UUID       `json:"cart_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	Quantity    int             `json:"quantity"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	ImagePath   string          `json:"image_path,omitempty"`
	Status      string          `json:"status"`
	IsUnlimited bool            `json:"is_unlimited"`
	Available   *int            `json:"available,omitempty"`
	SellerID    uuid.UUID       `json:"seller_id"`
	SellerName  string          `json:"seller_name"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// ToLineResponse converts a cart line to its API view. Available is omitted for unlimited listings.
func ToLineResponse(l cart.Line) LineResponse {
	resp := LineResponse{
		CartID:      l.ItemID,
		ProductID:   l.ProductID,
		Quantity:    l.Quantity,
		Title:       l.Title,
		Price:       l.Price,
		ImagePath:   l.ImagePath,
		Status:      string(l.Status),
		IsUnlimited: l.Unlimited,
		SellerID:    l.SellerID,
		SellerName:  l.SellerName,
		Subtotal:    l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))),
	}
	if !l.Unlimited {
		available := l.Available
		resp.Available = &available
	}
	return resp
}
