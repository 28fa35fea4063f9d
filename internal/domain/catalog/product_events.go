package catalog

import (
	"github.com/Geogebrd/scaond-hand-platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeProduct = "Product"

// Event type constants
const (
	EventTypeProductListed  = "ProductListed"
	EventTypeProductSoldOut = "ProductSoldOut"
)

// ProductListedEvent is published when a seller creates a listing
type ProductListedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID       `json:"product_id"`
	SellerID  uuid.UUID       `json:"seller_id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Unlimited bool            `json:"is_unlimited"`
}

// NewProductListedEvent creates a new ProductListedEvent
func NewProductListedEvent(p *Product) *ProductListedEvent {
	return &ProductListedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductListed, AggregateTypeProduct, p.ID),
		ProductID:       p.ID,
		SellerID:        p.SellerID,
		Title:           p.Title,
		Price:           p.Price,
		Quantity:        p.Quantity,
		Unlimited:       p.Unlimited,
	}
}

// ProductSoldOutEvent is published when the last unit of a finite-stock listing is sold
type ProductSoldOutEvent struct {
	shared.BaseDomainEvent
	ProductID    uuid.UUID `json:"product_id"`
	SellerID     uuid.UUID `json:"seller_id"`
	SoldQuantity int       `json:"sold_quantity"`
}

// NewProductSoldOutEvent creates a new ProductSoldOutEvent
func NewProductSoldOutEvent(p *Product) *ProductSoldOutEvent {
	return &ProductSoldOutEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductSoldOut, AggregateTypeProduct, p.ID),
		ProductID:       p.ID,
		SellerID:        p.SellerID,
		SoldQuantity:    p.SoldQuantity,
	}
}
