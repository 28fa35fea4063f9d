package trade

import (
	"github.com/Geogebrd/scaond-hand-platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderPlaced           = "OrderPlaced"
	EventTypeOrderShipped          = "OrderShipped"
	EventTypeOrderShipmentReverted = "OrderShipmentReverted"
	EventTypeOrderReceived         = "OrderReceived"
)

// OrderPlacedEvent is published for every order row created by a checkout
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	OrderID    uuid.UUID       `json:"order_id"`
	BuyerID    uuid.UUID       `json:"buyer_id"`
	SellerID   uuid.UUID       `json:"seller_id"`
	ProductID  uuid.UUID       `json:"product_id"`
	Quantity   int             `json:"quantity"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// NewOrderPlacedEvent creates a new OrderPlacedEvent
func NewOrderPlacedEvent(o *Order) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		BuyerID:         o.BuyerID,
		SellerID:        o.SellerID,
		ProductID:       o.ProductID,
		Quantity:        o.Quantity,
		TotalPrice:      o.TotalPrice,
	}
}

// OrderStatusChangedEvent is the shared payload of lifecycle events
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID  uuid.UUID      `json:"order_id"`
	BuyerID  uuid.UUID      `json:"buyer_id"`
	SellerID uuid.UUID      `json:"seller_id"`
	Status   ShippingStatus `json:"status"`
}

func newStatusChangedEvent(eventType string, o *Order, status ShippingStatus) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		BuyerID:         o.BuyerID,
		SellerID:        o.SellerID,
		Status:          status,
	}
}

// NewOrderShippedEvent creates the event for pending -> shipped
func NewOrderShippedEvent(o *Order) *OrderStatusChangedEvent {
	return newStatusChangedEvent(EventTypeOrderShipped, o, ShippingStatusShipped)
}

// NewOrderShipmentRevertedEvent creates the event for shipped -> pending
func NewOrderShipmentRevertedEvent(o *Order) *OrderStatusChangedEvent {
	return newStatusChangedEvent(EventTypeOrderShipmentReverted, o, ShippingStatusPending)
}

// NewOrderReceivedEvent creates the event for shipped -> received
func NewOrderReceivedEvent(o *Order) *OrderStatusChangedEvent {
	return newStatusChangedEvent(EventTypeOrderReceived, o, ShippingStatusReceived)
}
