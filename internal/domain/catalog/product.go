package catalog

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/Geogebrd/scaond-hand-platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductStatus represents the sale status of a listing
type ProductStatus string

const (
	ProductStatusAvailable ProductStatus = "available"
	ProductStatusSold      ProductStatus = "sold"
)

const (
	maxTitleLength    = 200
	maxDurationLength = 100
)

// Product is a listing owned by a seller. It is the aggregate root for stock accounting.
//
// For finite-stock listings SoldQuantity never exceeds Quantity and Status is sold
// exactly when SoldQuantity has reached Quantity. Unlimited listings skip stock
// accounting entirely.
type Product struct {
	shared.BaseAggregateRoot
	SellerID      uuid.UUID
	Title         string
	Description   string
	Price         decimal.Decimal
	Quantity      int
	SoldQuantity  int
	Unlimited     bool
	Status        ProductStatus
	Condition     Condition
	UsageDuration string
	UsageDays     int
	ImagePath     string
}

// ListingInput carries the seller-supplied fields of a new listing.
type ListingInput struct {
	Title         string
	Description   string
	Price         decimal.Decimal
	Quantity      int
	Unlimited     bool
	Condition     Condition
	UsageDuration string
	UsageDays     int
	ImagePath     string
}

// NewProduct creates a new available listing for the seller
func NewProduct(sellerID uuid.UUID, in ListingInput) (*Product, error) {
	if sellerID == uuid.Nil {
		return nil, shared.NewValidationError("Seller is required")
	}
	title := shared.CleanText(in.Title)
	if title == "" {
		return nil, shared.NewValidationError("Title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return nil, shared.NewValidationError(fmt.Sprintf("Title cannot exceed %d characters", maxTitleLength))
	}
	if !in.Price.IsPositive() {
		return nil, shared.NewValidationError("Price must be greater than zero")
	}
	quantity := in.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 {
		return nil, shared.NewValidationError("Quantity must be at least 1")
	}
	condition := in.Condition
	if condition == "" {
		condition = ConditionNew
	}
	if !condition.IsValid() {
		return nil, shared.NewValidationError("Invalid item condition")
	}
	if in.UsageDays < 0 {
		return nil, shared.NewValidationError("Usage days cannot be negative")
	}
	duration := shared.CleanText(in.UsageDuration)
	if utf8.RuneCountInString(duration) > maxDurationLength {
		return nil, shared.NewValidationError(fmt.Sprintf("Usage duration cannot exceed %d characters", maxDurationLength))
	}

	p := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SellerID:          sellerID,
		Title:             title,
		Description:       shared.CleanText(in.Description),
		Price:             in.Price.Round(2),
		Quantity:          quantity,
		Unlimited:         in.Unlimited,
		Status:            ProductStatusAvailable,
		Condition:         condition,
		UsageDuration:     duration,
		UsageDays:         in.UsageDays,
		ImagePath:         in.ImagePath,
	}

	p.AddDomainEvent(NewProductListedEvent(p))

	return p, nil
}

// IsOwnedBy reports whether the user is the seller of this listing
func (p *Product) IsOwnedBy(userID uuid.UUID) bool {
	return p.SellerID == userID
}

// IsSold reports whether the listing is marked sold
func (p *Product) IsSold() bool {
	return p.Status == ProductStatusSold
}

// AvailableQuantity returns quantity - sold_quantity for finite-stock listings.
// It is meaningless for unlimited listings; use CanSupply instead.
func (p *Product) AvailableQuantity() int {
	if avail := p.Quantity - p.SoldQuantity; avail > 0 {
		return avail
	}
	return 0
}

// CanSupply reports whether qty more units fit into the remaining stock
func (p *Product) CanSupply(qty int) bool {
	return p.Unlimited || p.AvailableQuantity() >= qty
}

// CheckPurchasable validates a purchase of qty units by buyerID against this snapshot.
// Rules are evaluated in a fixed order: self-purchase, stock, sold status.
func (p *Product) CheckPurchasable(buyerID uuid.UUID, qty int) error {
	if qty < 1 {
		return shared.NewValidationError("Quantity must be at least 1")
	}
	if p.IsOwnedBy(buyerID) {
		return shared.ErrSelfPurchase
	}
	if p.Unlimited {
		return nil
	}
	if avail := p.AvailableQuantity(); avail < qty {
		return shared.NewDomainError(shared.CodeInsufficientStock,
			fmt.Sprintf("Not enough stock for %s (Available: %d, Requested: %d)", p.Title, avail, qty))
	}
	if p.IsSold() {
		return shared.ErrAlreadySold
	}
	return nil
}

// RecordSale books qty sold units against a finite-stock listing and re-derives
// its status. Unlimited listings are left untouched.
func (p *Product) RecordSale(qty int) error {
	if qty < 1 {
		return shared.NewValidationError("Quantity must be at least 1")
	}
	if p.Unlimited {
		return nil
	}
	if p.SoldQuantity+qty > p.Quantity {
		return shared.NewDomainError(shared.CodeInsufficientStock,
			fmt.Sprintf("Not enough stock for %s (Available: %d, Requested: %d)", p.Title, p.AvailableQuantity(), qty))
	}

	wasSold := p.IsSold()
	p.SoldQuantity += qty
	if p.SoldQuantity >= p.Quantity {
		p.Status = ProductStatusSold
	} else {
		p.Status = ProductStatusAvailable
	}
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	if !wasSold && p.IsSold() {
		p.AddDomainEvent(NewProductSoldOutEvent(p))
	}
	return nil
}
