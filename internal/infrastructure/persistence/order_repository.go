package persistence

import (
	"context"
	"time"

	"github.com/Geogebrd/scaond-hand-platform/internal/domain/shared"
	"github.com/Geogebrd/scaond-hand-platform/internal/domain/trade"
	"github.com/Geogebrd/scaond-hand-platform/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormOrderRepository implements trade.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// SaveWithLock writes the lifecycle columns with optimistic locking.
// The domain has already incremented Version, so the row must still hold Version-1.
func (r *GormOrderRepository) SaveWithLock(ctx context.Context, order *trade.Order) error {
	result := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("id = ? AND version = ?", order.ID, order.Version-1).
		Updates(map[string]any{
			"shipping_status": order.Status,
			"shipped_at":      order.ShippedAt,
			"received_at":     order.ReceivedAt,
			"version":         order.Version,
			"updated_at":      order.UpdatedAt,
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

type purchaseRow struct {
	models.OrderModel
	ProductTitle string
	ImagePath    string
	SellerName   string
}

// ListPurchases returns the buyer's orders with product and seller data, newest first
func (r *GormOrderRepository) ListPurchases(ctx context.Context, buyerID uuid.UUID) ([]trade.PurchaseView, error) {
	var rows []purchaseRow
	if err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Select("orders.*, products.title AS product_title, products.image_path, users.username AS seller_name").
		Joins("JOIN products ON products.id = orders.product_id").
		Joins("JOIN users ON users.id = orders.seller_id").
		Where("orders.buyer_id = ?", buyerID).
		Order("orders.created_at DESC, orders.id DESC").
		Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}

	views := make([]trade.PurchaseView, len(rows))
	for i := range rows {
		views[i] = trade.PurchaseView{
			Order:        *rows[i].OrderModel.ToDomain(),
			ProductTitle: rows[i].ProductTitle,
			ImagePath:    rows[i].ImagePath,
			SellerName:   rows[i].SellerName,
		}
	}
	return views, nil
}

type saleRow struct {
	ID              uuid.UUID
	ProductID       uuid.UUID
	ProductTitle    string
	BuyerID         uuid.UUID
	BuyerName       string
	Quantity        int
	UnitPrice       decimal.Decimal
	TotalPrice      decimal.Decimal
	ShippingName    string
	ShippingAddress string
	ShippingPhone   string
	ShippingStatus  trade.ShippingStatus
	CreatedAt       time.Time
	ShippedAt       *time.Time
	ReceivedAt      *time.Time
}

// ListSales returns the seller's orders with product title and buyer name, newest first
func (r *GormOrderRepository) ListSales(ctx context.Context, sellerID uuid.UUID) ([]trade.SaleView, error) {
	var rows []saleRow
	if err := r.db.WithContext(ctx).
		Table("orders").
		Select(`orders.id, orders.product_id, products.title AS product_title,
			orders.buyer_id, users.username AS buyer_name, orders.quantity,
			orders.unit_price, orders.total_price, orders.shipping_name,
			orders.shipping_address, orders.shipping_phone, orders.shipping_status,
			orders.created_at, orders.shipped_at, orders.received_at`).
		Joins("JOIN products ON products.id = orders.product_id").
		Joins("JOIN users ON users.id = orders.buyer_id").
		Where("orders.seller_id = ?", sellerID).
		Order("orders.created_at DESC, orders.id DESC").
		Scan(&rows).Error; err != nil {
		return nil, translateError(err)
	}

	views := make([]trade.SaleView, len(rows))
	for i, row := range rows {
		views[i] = trade.SaleView{
			OrderID:      row.ID,
			ProductID:    row.ProductID,
			ProductTitle: row.ProductTitle,
			BuyerID:      row.BuyerID,
			BuyerName:    row.BuyerName,
			Quantity:     row.Quantity,
			UnitPrice:    row.UnitPrice,
			TotalPrice:   row.TotalPrice,
			Shipping: trade.ShippingSnapshot{
				Name:    row.ShippingName,
				Address: row.ShippingAddress,
				Phone:   row.ShippingPhone,
			},
			Status:     row.ShippingStatus,
			CreatedAt:  row.CreatedAt,
			ShippedAt:  row.ShippedAt,
			ReceivedAt: row.ReceivedAt,
		}
	}
	return views, nil
}

var _ trade.OrderRepository = (*GormOrderRepository)(nil)
