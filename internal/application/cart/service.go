package cart

import (
	"context"

	"github.com/Geogebrd/scaond-hand-platform/internal/domain/cart"
	"github.com/Geogebrd/scaond-hand-platform/internal/domain/catalog"
	"github.com/Geogebrd/scaond-hand-platform/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service handles cart operations
type Service struct {
	carts    cart.Repository
	products catalog.ProductRepository
	logger   *zap.Logger
}

// NewService creates a new cart service
func NewService(carts cart.Repository, products catalog.ProductRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		carts:    carts,
		products: products,
		logger:   logger,
	}
}

// Add puts quantity units of the product into the user's cart, merging with an
// existing row. The stock check here is advisory; checkout validates again under lock.
func (s *Service) Add(ctx context.Context, userID uuid.UUID, req AddItemRequest) error {
	item, err := cart.NewItem(userID, req.ProductID, req.Quantity)
	if err != nil {
		return err
	}

	product, err := s.products.FindByID(ctx, item.ProductID)
	if err != nil {
		if shared.IsCode(err, shared.CodeNotFound) {
			return shared.NewNotFoundError("Product not found")
		}
		return err
	}
	if product.IsSold() {
		return shared.NewDomainError(shared.CodeAlreadySold, "Product is sold")
	}
	if product.IsOwnedBy(userID) {
		return shared.ErrSelfPurchase
	}

	inCart, err := s.carts.QuantityOf(ctx, userID, product.ID)
	if err != nil {
		return err
	}
	if err := cart.CheckQuantityLimit(inCart + item.Quantity); err != nil {
		return err
	}
	if !product.CanSupply(inCart + item.Quantity) {
		return shared.NewDomainError(shared.CodeInsufficientStock, "Not enough stock available")
	}

	if err := s.carts.Merge(ctx, item); err != nil {
		s.logger.Error("Failed to add cart item",
			zap.String("user_id", userID.String()),
			zap.String("product_id", product.ID.String()),
			zap.Error(err))
		return err
	}
	return nil
}

// Remove deletes a row from the user's cart. Rows of other users are left alone.
func (s *Service) Remove(ctx context.Context, userID, itemID uuid.UUID) error {
	if userID == uuid.Nil {
		return shared.ErrUnauthorized
	}
	if itemID == uuid.Nil {
		return shared.NewValidationError("Cart ID required")
	}
	return s.carts.Remove(ctx, userID, itemID)
}

// List returns the user's cart including rows whose product has sold out
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]LineResponse, error) {
	if userID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}
	lines, err := s.carts.Lines(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := make([]LineResponse, 0, len(lines))
	for _, l := range lines {
		resp = append(resp, ToLineResponse(l))
	}
	return resp, nil
}
