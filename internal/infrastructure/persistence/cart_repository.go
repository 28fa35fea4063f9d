package persistence

import (
	"context"
	"time"

	"github.com/Geogebrd/scaond-hand-platform/internal/domain/cart"
	"github.com/Geogebrd/scaond-hand-platform/internal/domain/catalog"
	"github.com/Geogebrd/scaond-hand-platform/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCartRepository implements cart.Repository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// QuantityOf returns the quantity of the product already in the user's cart
func (r *GormCartRepository) QuantityOf(ctx context.Context, userID, productID uuid.UUID) (int, error) {
	var quantities []int
	if err := r.db.WithContext(ctx).
		Model(&models.CartItemModel{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Pluck("quantity", &quantities).Error; err != nil {
		return 0, translateError(err)
	}
	if len(quantities) == 0 {
		return 0, nil
	}
	return quantities[0], nil
}

// Merge inserts the row or, when the (user, product) pair exists, adds the
// quantity to it in the same statement
func (r *GormCartRepository) Merge(ctx context.Context, item *cart.Item) error {
	model := models.CartItemModelFromDomain(item)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity":   gorm.Expr("cart_items.quantity + excluded.quantity"),
				"updated_at": time.Now(),
			}),
		}).
		Create(model).Error
	return translateError(err)
}

// Remove deletes the row only when it belongs to the user
func (r *GormCartRepository) Remove(ctx context.Context, userID, itemID uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", itemID, userID).
		Delete(&models.CartItemModel{}).Error
	return translateError(err)
}

// Items returns the raw cart rows of the user, oldest first
func (r *GormCartRepository) Items(ctx context.Context, userID uuid.UUID) ([]cart.Item, error) {
	var rows []models.CartItemModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	items := make([]cart.Item, len(rows))
	for i := range rows {
		items[i] = rows[i].ToDomain()
	}
	return items, nil
}

type cartLineRow struct {
	ItemID       uuid.UUID
	ProductID    uuid.UUID
	Quantity     int
	Title        string
	Price        decimal.Decimal
	ImagePath    string
	Status       catalog.ProductStatus
	IsUnlimited  bool
	Stock        int
	SoldQuantity int
	SellerID     uuid.UUID
	SellerName   string
}

// Lines returns the cart rows joined with product and seller data, oldest first.
// Sold products are kept so the buyer can see and remove them.
func (r *GormCartRepository) Lines(ctx context.Context, userID uuid.UUID) ([]cart.Line, error) {
	var rows []cartLineRow
	if err := r.db.WithContext(ctx).
		Table("cart_items").
		Select(`cart_items.id AS item_id, cart_items.product_id, cart_items.quantity,
			products.title, products.price, products.image_path, products.status,
			products.is_unlimited, products.quantity AS stock, products.sold_quantity,
			products.seller_id, users.username AS seller_name`).
		Joins("JOIN products ON products.id = cart_items.product_id").
		Joins("JOIN users ON users.id = products.seller_id").
		Where("cart_items.user_id = ?", userID).
		Order("cart_items.created_at ASC, cart_items.id ASC").
		Scan(&rows).Error; err != nil {
		return nil, translateError(err)
	}

	lines := make([]cart.Line, len(rows))
	for i, row := range rows {
		available := row.Stock - row.SoldQuantity
		if available < 0 {
			available = 0
		}
		lines[i] = cart.Line{
			ItemID:     row.ItemID,
			ProductID:  row.ProductID,
			Quantity:   row.Quantity,
			Title:      row.Title,
			Price:      row.Price,
			ImagePath:  row.ImagePath,
			Status:     row.Status,
			Unlimited:  row.IsUnlimited,
			Available:  available,
			SellerID:   row.SellerID,
			SellerName: row.SellerName,
		}
	}
	return lines, nil
}

// Clear deletes every row of the user's cart
func (r *GormCartRepository) Clear(ctx context.Context, userID uuid.UUID) error {
	return translateError(r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartItemModel{}).Error)
}

var _ cart.Repository = (*GormCartRepository)(nil)
