package models

import (
	"github.com/Geogebrd/scaond-hand-platform/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product aggregate.
type ProductModel struct {
	AggregateModel
	SellerID      uuid.UUID             `gorm:"type:uuid;not null;index"`
	Title         string                `gorm:"type:varchar(200);not null"`
	Description   string                `gorm:"type:text;not null;default:''"`
	Price         decimal.Decimal       `gorm:"type:decimal(12,2);not null"`
	Quantity      int                   `gorm:"not null;default:1"`
	SoldQuantity  int                   `gorm:"not null;default:0"`
	IsUnlimited   bool                  `gorm:"not null;default:false"`
	Status        catalog.ProductStatus `gorm:"type:varchar(20);not null;default:'available';index"`
	ItemCondition catalog.Condition     `gorm:"type:varchar(20);not null;default:'New'"`
	UsageDuration string                `gorm:"type:varchar(100);not null;default:''"`
	UsageDays     int                   `gorm:"not null;default:0"`
	ImagePath     string                `gorm:"type:varchar(255);not null;default:''"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseAggregateRoot: m.ToAggregateRoot(),
		SellerID:          m.SellerID,
		Title:             m.Title,
		Description:       m.Description,
		Price:             m.Price,
		Quantity:          m.Quantity,
		SoldQuantity:      m.SoldQuantity,
		Unlimited:         m.IsUnlimited,
		Status:            m.Status,
		Condition:         m.ItemCondition,
		UsageDuration:     m.UsageDuration,
		UsageDays:         m.UsageDays,
		ImagePath:         m.ImagePath,
	}
}

// FromDomain populates the persistence model from a domain Product
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.SellerID = p.SellerID
	m.Title = p.Title
	m.Description = p.Description
	m.Price = p.Price
	m.Quantity = p.Quantity
	m.SoldQuantity = p.SoldQuantity
	m.IsUnlimited = p.Unlimited
	m.Status = p.Status
	m.ItemCondition = p.Condition
	m.UsageDuration = p.UsageDuration
	m.UsageDays = p.UsageDays
	m.ImagePath = p.ImagePath
}

// ProductModelFromDomain creates a new persistence model from a domain Product
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}
