package models

import (
	"time"

	"github.com/Geogebrd/scaond-hand-platform/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the Order aggregate.
// Price and shipping columns are written once by checkout.
type OrderModel struct {
	AggregateModel
	BuyerID         uuid.UUID            `gorm:"type:uuid;not null;index"`
	SellerID        uuid.UUID            `gorm:"type:uuid;not null;index"`
	ProductID       uuid.UUID            `gorm:"type:uuid;not null;index"`
	Quantity        int                  `gorm:"not null"`
	UnitPrice       decimal.Decimal      `gorm:"type:decimal(12,2);not null"`
	TotalPrice      decimal.Decimal      `gorm:"type:decimal(12,2);not null"`
	ShippingName    string               `gorm:"type:varchar(100);not null"`
	ShippingAddress string               `gorm:"type:text;not null"`
	ShippingPhone   string               `gorm:"type:varchar(50);not null"`
	ShippingStatus  trade.ShippingStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	ShippedAt       *time.Time
	ReceivedAt      *time.Time
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order
func (m *OrderModel) ToDomain() *trade.Order {
	return &trade.Order{
		BaseAggregateRoot: m.ToAggregateRoot(),
		BuyerID:           m.BuyerID,
		SellerID:          m.SellerID,
		ProductID:         m.ProductID,
		Quantity:          m.Quantity,
		UnitPrice:         m.UnitPrice,
		TotalPrice:        m.TotalPrice,
		Shipping: trade.ShippingSnapshot{
			Name:    m.ShippingName,
			Address: m.ShippingAddress,
			Phone:   m.ShippingPhone,
		},
		Status:     m.ShippingStatus,
		ShippedAt:  m.ShippedAt,
		ReceivedAt: m.ReceivedAt,
	}
}

// FromDomain populates the persistence model from a domain Order
func (m *OrderModel) FromDomain(o *trade.Order) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.BuyerID = o.BuyerID
	m.SellerID = o.SellerID
	m.ProductID = o.ProductID
	m.Quantity = o.Quantity
	m.UnitPrice = o.UnitPrice
	m.TotalPrice = o.TotalPrice
	m.ShippingName = o.Shipping.Name
	m.ShippingAddress = o.Shipping.Address
	m.ShippingPhone = o.Shipping.Phone
	m.ShippingStatus = o.Status
	m.ShippedAt = o.ShippedAt
	m.ReceivedAt = o.ReceivedAt
}

// OrderModelFromDomain creates a new persistence model from a domain Order
func OrderModelFromDomain(o *trade.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}
