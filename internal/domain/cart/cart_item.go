package cart

import (
	"fmt"

	"github.com/Geogebrd/scaond-hand-platform/internal/domain/shared"
	"github.com/google/uuid"
)

// MaxQuantity bounds a single cart row or checkout line. Larger values would
// overflow the orders.total_price DECIMAL(12,2) column.
const MaxQuantity = 9999

// Item is one (user, product) row of a buyer's cart. Quantity is always >= 1.
type Item struct {
	shared.BaseEntity
	UserID    uuid.UUID
	ProductID uuid.UUID
	Quantity  int
}

// NewItem creates a cart row, clamping the quantity to at least 1
func NewItem(userID, productID uuid.UUID, quantity int) (*Item, error) {
	if userID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("Product ID required")
	}
	if err := CheckQuantityLimit(quantity); err != nil {
		return nil, err
	}
	return &Item{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		ProductID:  productID,
		Quantity:   ClampQuantity(quantity),
	}, nil
}

// ClampQuantity applies the "at least one" rule used by add-to-cart and buy-now
func ClampQuantity(quantity int) int {
	if quantity < 1 {
		return 1
	}
	return quantity
}

// CheckQuantityLimit rejects quantities above MaxQuantity
func CheckQuantityLimit(quantity int) error {
	if quantity > MaxQuantity {
		return shared.NewValidationError(fmt.Sprintf("Quantity cannot exceed %d", MaxQuantity))
	}
	return nil
}
