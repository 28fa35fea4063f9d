package catalog

import (
	"context"

	"github.com/Geogebrd/scaond-hand-platform/internal/domain/catalog"
	"github.com/Geogebrd/scaond-hand-platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductService handles listing creation and browsing
type ProductService struct {
	productRepo    catalog.ProductRepository
	images         ImageStore
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, images ImageStore, logger *zap.Logger) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		productRepo: productRepo,
		images:      images,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for ProductListed events
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create lists a new product for the seller. The image, when given, is removed
// again if the listing cannot be saved.
func (s *ProductService) Create(ctx context.Context, sellerID uuid.UUID, req CreateProductRequest, image *ImageUpload) (*ProductResponse, error) {
	if sellerID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return nil, shared.NewValidationError("Invalid price")
	}

	input := catalog.ListingInput{
		Title:         req.Title,
		Description:   req.Description,
		Price:         price,
		Quantity:      req.Quantity,
		Unlimited:     req.IsUnlimited,
		Condition:     catalog.Condition(req.ItemCondition),
		UsageDuration: req.UsageDuration,
		UsageDays:     req.UsageDays,
	}
	product, err := catalog.NewProduct(sellerID, input)
	if err != nil {
		return nil, err
	}

	if image != nil && s.images != nil {
		path, err := s.images.Save(ctx, *image)
		if err != nil {
			return nil, err
		}
		product.ImagePath = path
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		s.logger.Error("Failed to create product",
			zap.String("seller_id", sellerID.String()),
			zap.Error(err))
		if product.ImagePath != "" {
			if delErr := s.images.Delete(ctx, product.ImagePath); delErr != nil {
				s.logger.Warn("Failed to remove orphaned image",
					zap.String("path", product.ImagePath),
					zap.Error(delErr))
			}
		}
		return nil, err
	}

	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(ctx, product.GetDomainEvents()...)
	}
	product.ClearDomainEvents()

	resp := ToProductResponse(product)
	return &resp, nil
}

// GetByID returns a single listing with its seller's name, sold or not
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	if id == uuid.Nil {
		return nil, shared.NewValidationError("Product ID required")
	}
	listing, err := s.productRepo.FindListing(ctx, id)
	if err != nil {
		if shared.IsCode(err, shared.CodeNotFound) {
			return nil, shared.NewNotFoundError("Product not found")
		}
		return nil, err
	}
	resp := ToListingResponse(listing)
	return &resp, nil
}

// List returns available listings matching the search text, in the requested order
func (s *ProductService) List(ctx context.Context, query ListProductsQuery) ([]ProductResponse, error) {
	filter := catalog.ProductFilter{
		Filter: shared.Filter{
			Page:     query.Page,
			PageSize: query.PageSize,
			Search:   shared.CleanText(query.Search),
		},
		SortBy: catalog.ParseSortOption(query.Sort),
	}

	listings, err := s.productRepo.ListAvailable(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := make([]ProductResponse, 0, len(listings))
	for i := range listings {
		resp = append(resp, ToListingResponse(&listings[i]))
	}
	return resp, nil
}

// ListBySeller returns every listing of the seller for the dashboard
func (s *ProductService) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]ProductResponse, error) {
	if sellerID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}
	products, err := s.productRepo.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	resp := make([]ProductResponse, 0, len(products))
	for i := range products {
		resp = append(resp, ToProductResponse(&products[i]))
	}
	return resp, nil
}
