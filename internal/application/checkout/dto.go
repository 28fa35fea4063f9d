package checkout

import (
	"time"

	"github.com/Geogebrd/scaond-hand-platform/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Shape names the entry point a checkout came through
type Shape string

const (
	ShapeCart   Shape = "cart"
	ShapeBuyNow Shape = "buy_now"
)

// LineItem is one (product, quantity) pair of a checkout request
type LineItem struct {
	ProductID uuid.UUID
	Quantity  int
}

// ShippingInput is the recipient data supplied with a checkout request.
// Blank fields fall back to the buyer's stored profile.
type ShippingInput struct {
	Name    string `json:"shipping_name"`
	Address string `json:"shipping_address"`
	Phone   string `json:"shipping_phone"`
}

// Result is the outcome of a committed checkout
type Result struct {
	Orders   []*trade.Order
	Shipping trade.ShippingSnapshot
}

// OrderIDs returns the ids of the created orders in request order
func (r *Result) OrderIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(r.Orders))
	for _, o := range r.Orders {
		ids = append(ids, o.ID)
	}
	return ids
}

// Units returns the total quantity bought
func (r *Result) Units() int {
	total := 0
	for _, o := range r.Orders {
		total += o.Quantity
	}
	return total
}

// OrderResponse is the API view of an order created by a checkout
type OrderResponse struct {
	ID         uuid.UUID       `json:"id"`
	ProductID  uuid.UUID       `json:"product_id"`
	SellerID   uuid.UUID       `json:"seller_id"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Status     string          `json:"shipping_status"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ResultResponse is the API view of a checkout result
type ResultResponse struct {
	Orders          []OrderResponse `json:"orders"`
	ShippingName    string          `json:"shipping_name"`
	ShippingAddress string          `json:"shipping_address"`
	ShippingPhone   string          `json:"shipping_phone"`
}

// ToResultResponse converts a result to its API view
func ToResultResponse(r *Result) ResultResponse {
	orders := make([]OrderResponse, 0, len(r.Orders))
	for _, o := range r.Orders {
		orders = append(orders, OrderResponse{
			ID:         o.ID,
			ProductID:  o.ProductID,
			SellerID:   o.SellerID,
			Quantity:   o.Quantity,
			UnitPrice:  o.UnitPrice,
			TotalPrice: o.TotalPrice,
			Status:     string(o.Status),
			CreatedAt:  o.CreatedAt,
		})
	}
	return ResultResponse{
		Orders:          orders,
		ShippingName:    r.Shipping.Name,
		ShippingAddress: r.Shipping.Address,
		ShippingPhone:   r.Shipping.Phone,
	}
}
