package trade

import (
	"fmt"
	"time"

	"github.com/Geogebrd/scaond-hand-platform/internal/domain/catalog"
	"github.com/Geogebrd/scaond-hand-platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShippingStatus represents where an order is in its delivery lifecycle
type ShippingStatus string

const (
	ShippingStatusPending  ShippingStatus = "pending"
	ShippingStatusShipped  ShippingStatus = "shipped"
	ShippingStatusReceived ShippingStatus = "received"
)

// IsValid checks if the status is a known value
func (s ShippingStatus) IsValid() bool {
	switch s {
	case ShippingStatusPending, ShippingStatusShipped, ShippingStatusReceived:
		return true
	}
	return false
}

// Actor identifies which side of the order requests a transition
type Actor string

const (
	ActorSeller Actor = "seller"
	ActorBuyer  Actor = "buyer"
)

// CanTransitionTo checks whether actor may move the order from s to target.
//
//	pending  -> shipped   seller
//	shipped  -> pending   seller (revert)
//	shipped  -> received  buyer (terminal)
func (s ShippingStatus) CanTransitionTo(target ShippingStatus, actor Actor) bool {
	switch s {
	case ShippingStatusPending:
		return target == ShippingStatusShipped && actor == ActorSeller
	case ShippingStatusShipped:
		switch target {
		case ShippingStatusPending:
			return actor == ActorSeller
		case ShippingStatusReceived:
			return actor == ActorBuyer
		}
	}
	return false
}

// ShippingSnapshot is the recipient data copied onto an order at purchase time
type ShippingSnapshot struct {
	Name    string
	Address string
	Phone   string
}

// Order records one purchased product line. Price and shipping fields are
// written once at checkout; only the lifecycle fields change afterwards.
type Order struct {
	shared.BaseAggregateRoot
	BuyerID    uuid.UUID
	SellerID   uuid.UUID
	ProductID  uuid.UUID
	Quantity   int
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal
	Shipping   ShippingSnapshot
	Status     ShippingStatus
	ShippedAt  *time.Time
	ReceivedAt *time.Time
}

// NewOrder snapshots price and shipping data from the locked product row
func NewOrder(buyerID uuid.UUID, product *catalog.Product, quantity int, shipping ShippingSnapshot) (*Order, error) {
	if buyerID == uuid.Nil {
		return nil, shared.NewValidationError("Buyer is required")
	}
	if product == nil {
		return nil, shared.NewValidationError("Product is required")
	}
	if quantity < 1 {
		return nil, shared.NewValidationError("Quantity must be at least 1")
	}
	if shipping.Name == "" || shipping.Address == "" || shipping.Phone == "" {
		return nil, shared.NewValidationError("Shipping name, address and phone are required")
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BuyerID:           buyerID,
		SellerID:          product.SellerID,
		ProductID:         product.ID,
		Quantity:          quantity,
		UnitPrice:         product.Price,
		TotalPrice:        product.Price.Mul(decimal.NewFromInt(int64(quantity))),
		Shipping:          shipping,
		Status:            ShippingStatusPending,
	}

	order.AddDomainEvent(NewOrderPlacedEvent(order))

	return order, nil
}

// IsSeller reports whether the user sold this order
func (o *Order) IsSeller(userID uuid.UUID) bool {
	return o.SellerID == userID
}

// IsBuyer reports whether the user bought this order
func (o *Order) IsBuyer(userID uuid.UUID) bool {
	return o.BuyerID == userID
}

// UpdateShippingStatus applies a seller-initiated transition (ship or revert).
// A caller who is not the seller gets NOT_FOUND so order existence is not leaked.
func (o *Order) UpdateShippingStatus(sellerID uuid.UUID, target ShippingStatus) error {
	if !o.IsSeller(sellerID) {
		return shared.NewNotFoundError("Order not found")
	}
	if target != ShippingStatusPending && target != ShippingStatusShipped {
		return shared.ErrInvalidInput
	}
	if !o.Status.CanTransitionTo(target, ActorSeller) {
		return shared.NewDomainError(shared.CodeInvalidTransition,
			fmt.Sprintf("Cannot change order from %s to %s", o.Status, target))
	}

	now := time.Now()
	switch target {
	case ShippingStatusShipped:
		o.ShippedAt = &now
		o.ReceivedAt = nil
		o.AddDomainEvent(NewOrderShippedEvent(o))
	case ShippingStatusPending:
		o.ShippedAt = nil
		o.AddDomainEvent(NewOrderShipmentRevertedEvent(o))
	}
	o.Status = target
	o.UpdatedAt = now
	o.IncrementVersion()

	return nil
}

// ConfirmReceipt marks a shipped order as received by its buyer
func (o *Order) ConfirmReceipt(buyerID uuid.UUID) error {
	if !o.IsBuyer(buyerID) {
		return shared.NewNotFoundError("Order not found")
	}
	if !o.Status.CanTransitionTo(ShippingStatusReceived, ActorBuyer) {
		return shared.NewDomainError(shared.CodeInvalidTransition,
			fmt.Sprintf("Cannot confirm receipt of an order that is %s", o.Status))
	}

	now := time.Now()
	o.Status = ShippingStatusReceived
	o.ReceivedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderReceivedEvent(o))

	return nil
}
