package trade

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseView is an order as shown on the buyer's purchases page
type PurchaseView struct {
	Order
	ProductTitle string
	ImagePath    string
	SellerName   string
}

// SaleView is an order as shown on the seller's dashboard
type SaleView struct {
	OrderID      uuid.UUID
	ProductID    uuid.UUID
	ProductTitle string
	BuyerID      uuid.UUID
	BuyerName    string
	Quantity     int
	UnitPrice    decimal.Decimal
	TotalPrice   decimal.Decimal
	Shipping     ShippingSnapshot
	Status       ShippingStatus
	CreatedAt    time.Time
	ShippedAt    *time.Time
	ReceivedAt   *time.Time
}

// OrderRepository defines the interface for order persistence.
// Orders are created by the checkout unit of work, not through this interface.
type OrderRepository interface {
	// FindByID returns the order or shared.ErrNotFound
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// SaveWithLock writes lifecycle fields guarded by the version column
	SaveWithLock(ctx context.Context, order *Order) error

	// ListPurchases returns the buyer's orders, newest first
	ListPurchases(ctx context.Context, buyerID uuid.UUID) ([]PurchaseView, error)

	// ListSales returns the seller's orders, newest first
	ListSales(ctx context.Context, sellerID uuid.UUID) ([]SaleView, error)
}
