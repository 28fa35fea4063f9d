package persistence

import (
	"context"

	"github.com/Geogebrd/scaond-hand-platform/internal/domain/catalog"
	"github.com/Geogebrd/scaond-hand-platform/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// productListingRow is a product joined with its seller's username
type productListingRow struct {
	models.ProductModel
	SellerName string
}

func (row *productListingRow) toDomain() catalog.ProductListing {
	return catalog.ProductListing{
		Product:    *row.ProductModel.ToDomain(),
		SellerName: row.SellerName,
	}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindListing finds a product with its seller's username
func (r *GormProductRepository) FindListing(ctx context.Context, id uuid.UUID) (*catalog.ProductListing, error) {
	var row productListingRow
	if err := r.listingQuery(ctx).
		Where("products.id = ?", id).
		Take(&row).Error; err != nil {
		return nil, translateError(err)
	}
	listing := row.toDomain()
	return &listing, nil
}

// ListAvailable returns available listings, optionally filtered by a
// case-insensitive substring of title or description
func (r *GormProductRepository) ListAvailable(ctx context.Context, filter catalog.ProductFilter) ([]catalog.ProductListing, error) {
	query := r.listingQuery(ctx).Where("products.status = ?", catalog.ProductStatusAvailable)

	if filter.Search != "" {
		pattern := "%" + escapeLike(filter.Search) + "%"
		// LOWER(...) LIKE works on both postgres and sqlite, unlike ILIKE
		query = query.Where(
			`(LOWER(products.title) LIKE LOWER(?) ESCAPE '\' OR LOWER(products.description) LIKE LOWER(?) ESCAPE '\')`,
			pattern, pattern,
		)
	}

	var rows []productListingRow
	if err := query.
		Order(productOrderClause(filter.SortBy)).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}

	listings := make([]catalog.ProductListing, len(rows))
	for i := range rows {
		listings[i] = rows[i].toDomain()
	}
	return listings, nil
}

// ListBySeller returns every listing of the seller, newest first
func (r *GormProductRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]catalog.Product, error) {
	var rows []models.ProductModel
	if err := r.db.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}

	products := make([]catalog.Product, len(rows))
	for i := range rows {
		products[i] = *rows[i].ToDomain()
	}
	return products, nil
}

// Create persists a new listing
func (r *GormProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	return translateError(r.db.WithContext(ctx).Create(models.ProductModelFromDomain(product)).Error)
}

func (r *GormProductRepository) listingQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Select("products.*, users.username AS seller_name").
		Joins("JOIN users ON users.id = products.seller_id")
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
