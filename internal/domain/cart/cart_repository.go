package cart

import (
	"context"

	"github.com/Geogebrd/scaond-hand-platform/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Line is a cart row joined with the product data needed to render it.
// Sold products stay in the list so the buyer can remove them.
type Line struct {
	ItemID     uuid.UUID
	ProductID  uuid.UUID
	Quantity   int
	Title      string
	Price      decimal.Decimal
	ImagePath  string
	Status     catalog.ProductStatus
	Unlimited  bool
	Available  int
	SellerID   uuid.UUID
	SellerName string
}

// Repository defines the interface for cart persistence
type Repository interface {
	// QuantityOf returns the quantity already in the cart for the product, 0 if absent
	QuantityOf(ctx context.Context, userID, productID uuid.UUID) (int, error)

	// Merge inserts the row or adds its quantity to the existing (user, product) row
	Merge(ctx context.Context, item *Item) error

	// Remove deletes the row when owned by the user; otherwise it does nothing
	Remove(ctx context.Context, userID, itemID uuid.UUID) error

	// Items returns the raw rows of the user's cart
	Items(ctx context.Context, userID uuid.UUID) ([]Item, error)

	// Lines returns the joined cart view, oldest first
	Lines(ctx context.Context, userID uuid.UUID) ([]Line, error)

	// Clear deletes every row of the user's cart
	Clear(ctx context.Context, userID uuid.UUID) error
}
