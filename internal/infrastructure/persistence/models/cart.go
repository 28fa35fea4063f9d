package models

import (
	"github.com/Geogebrd/scaond-hand-platform/internal/domain/cart"
	"github.com/google/uuid"
)

// CartItemModel is one (user, product) row of a cart; the pair is unique
type CartItemModel struct {
	BaseModel
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_user_product,priority:1"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_user_product,priority:2"`
	Quantity  int       `gorm:"not null;default:1"`
}

// TableName returns the table name for GORM
func (CartItemModel) TableName() string {
	return "cart_items"
}

// ToDomain converts the persistence model to a domain cart Item
func (m *CartItemModel) ToDomain() cart.Item {
	return cart.Item{
		BaseEntity: m.BaseModel.ToDomain(),
		UserID:     m.UserID,
		ProductID:  m.ProductID,
		Quantity:   m.Quantity,
	}
}

// CartItemModelFromDomain creates a new persistence model from a domain cart Item
func CartItemModelFromDomain(item *cart.Item) *CartItemModel {
	m := &CartItemModel{
		UserID:    item.UserID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
	}
	m.FromDomainBaseEntity(item.BaseEntity)
	return m
}
