package catalog

import (
	"context"

	"github.com/Geogebrd/scaond-hand-platform/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductListing is the read model used by browse and detail pages
type ProductListing struct {
	Product
	SellerName string
}

// ProductFilter narrows the public product list
type ProductFilter struct {
	shared.Filter
	SortBy SortOption
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID returns the product or shared.ErrNotFound
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindListing returns the product with its seller's username
	FindListing(ctx context.Context, id uuid.UUID) (*ProductListing, error)

	// ListAvailable returns available listings matching the filter
	ListAvailable(ctx context.Context, filter ProductFilter) ([]ProductListing, error)

	// ListBySeller returns every listing of the seller, newest first
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]Product, error)

	// Create persists a new listing
	Create(ctx context.Context, product *Product) error
}
