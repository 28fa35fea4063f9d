package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Geogebrd/scaond-hand-platform/internal/domain/cart"
	"github.com/Geogebrd/scaond-hand-platform/internal/domain/catalog"
	"github.com/Geogebrd/scaond-hand-platform/internal/domain/identity"
	"github.com/Geogebrd/scaond-hand-platform/internal/domain/shared"
	"github.com/Geogebrd/scaond-hand-platform/internal/domain/trade"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Recorder observes checkout outcomes. code is empty on success.
type Recorder interface {
	ObserveCheckout(shape Shape, code string, units int, elapsed time.Duration)
	// ObserveCartClearFailure counts committed cart checkouts whose cart rows survived
	ObserveCartClearFailure()
}

type noopRecorder struct{}

func (noopRecorder) ObserveCheckout(Shape, string, int, time.Duration) {}
func (noopRecorder) ObserveCartClearFailure() {}

// Engine turns line items into orders while holding exclusive product locks.
// It is shared by the cart and buy-now entry points.
type Engine struct {
	locker         StockLocker
	users          identity.UserRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewEngine creates a new checkout engine
func NewEngine(locker StockLocker, users identity.UserRepository, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		locker: locker,
		users:  users,
		logger: logger,
	}
}

// SetEventPublisher sets the publisher for OrderPlaced and ProductSoldOut events
func (e *Engine) SetEventPublisher(publisher shared.EventPublisher) {
	e.eventPublisher = publisher
}

// Checkout resolves shipping data and places one order per line item
func (e *Engine) Checkout(ctx context.Context, buyerID uuid.UUID, lines []LineItem, input ShippingInput) (*Result, error) {
	shipping, err := e.ResolveShipping(ctx, buyerID, input)
	if err != nil {
		return nil, err
	}
	return e.Place(ctx, buyerID, lines, shipping)
}

// ResolveShipping uses input when it is complete. Otherwise the buyer's stored
// profile must be complete and supplies every blank field; if it is not, the
// call fails with MISSING_ADDRESS naming the profile's blank fields.
func (e *Engine) ResolveShipping(ctx context.Context, buyerID uuid.UUID, input ShippingInput) (trade.ShippingSnapshot, error) {
	if buyerID == uuid.Nil {
		return trade.ShippingSnapshot{}, shared.ErrUnauthorized
	}

	supplied := identity.ShippingProfile{
		RealName: input.Name,
		Address:  input.Address,
		Phone:    input.Phone,
	}.Clean()

	resolved := supplied
	if !supplied.IsComplete() {
		buyer, err := e.users.FindByID(ctx, buyerID)
		switch {
		case err == nil:
		case shared.IsCode(err, shared.CodeNotFound):
			return trade.ShippingSnapshot{}, shared.ErrUnauthorized
		default:
			return trade.ShippingSnapshot{}, e.storageFailure("load buyer profile", err)
		}
		// a partial profile never completes a partial input
		if missing := buyer.Profile.Missing(); len(missing) > 0 {
			return trade.ShippingSnapshot{}, shared.NewMissingAddressError(missing...)
		}
		resolved = supplied.FillFrom(buyer.Profile)
	}

	if missing := resolved.Missing(); len(missing) > 0 {
		return trade.ShippingSnapshot{}, shared.NewMissingAddressError(missing...)
	}

	return trade.ShippingSnapshot{
		Name:    resolved.RealName,
		Address: resolved.Address,
		Phone:   resolved.Phone,
	}, nil
}

// Place validates every line against the locked product snapshot and writes the
// orders and stock changes in one atomic step. Nothing is written unless every
// line is valid.
func (e *Engine) Place(ctx context.Context, buyerID uuid.UUID, lines []LineItem, shipping trade.ShippingSnapshot) (*Result, error) {
	if buyerID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}
	if len(lines) == 0 {
		return nil, shared.NewValidationError("No items to checkout")
	}
	for _, line := range lines {
		if line.ProductID == uuid.Nil {
			return nil, shared.NewValidationError("Product ID required")
		}
		if line.Quantity < 1 {
			return nil, shared.NewValidationError("Quantity must be at least 1")
		}
		if err := cart.CheckQuantityLimit(line.Quantity); err != nil {
			return nil, err
		}
	}

	var (
		orders  []*trade.Order
		touched []*catalog.Product
	)
	err := e.locker.WithExclusiveProductLock(ctx, productIDs(lines), func(uow UnitOfWork) error {
		orders = make([]*trade.Order, 0, len(lines))
		touched = touched[:0]
		seen := make(map[uuid.UUID]bool, len(lines))

		for _, line := range lines {
			product, ok := uow.Product(line.ProductID)
			if !ok {
				return shared.NewNotFoundError(fmt.Sprintf("Product %s is no longer available", line.ProductID))
			}
			if err := product.CheckPurchasable(buyerID, line.Quantity); err != nil {
				return err
			}

			order, err := trade.NewOrder(buyerID, product, line.Quantity, shipping)
			if err != nil {
				return err
			}
			if err := uow.CreateOrder(ctx, order); err != nil {
				return fmt.Errorf("create order for product %s: %w", product.ID, err)
			}
			orders = append(orders, order)

			if product.Unlimited {
				continue
			}
			if err := product.RecordSale(line.Quantity); err != nil {
				return err
			}
			if err := uow.SaveStock(ctx, product); err != nil {
				return fmt.Errorf("update stock of product %s: %w", product.ID, err)
			}
			if !seen[product.ID] {
				seen[product.ID] = true
				touched = append(touched, product)
			}
		}
		return nil
	})
	if err != nil {
		return nil, e.storageFailure("checkout transaction", err)
	}

	e.writeBackProfile(ctx, buyerID, shipping)
	e.publish(ctx, orders, touched)

	return &Result{Orders: orders, Shipping: shipping}, nil
}

// writeBackProfile stores the shipping data used by the checkout as the buyer's
// default. The checkout has already committed, so failures are only logged.
func (e *Engine) writeBackProfile(ctx context.Context, buyerID uuid.UUID, shipping trade.ShippingSnapshot) {
	profile := identity.ShippingProfile{
		RealName: shipping.Name,
		Address:  shipping.Address,
		Phone:    shipping.Phone,
	}
	if err := e.users.UpdateProfile(ctx, buyerID, profile); err != nil {
		e.logger.Warn("Failed to save shipping profile after checkout",
			zap.String("buyer_id", buyerID.String()),
			zap.Error(err))
	}
}

func (e *Engine) publish(ctx context.Context, orders []*trade.Order, products []*catalog.Product) {
	if e.eventPublisher == nil {
		return
	}
	var events []shared.DomainEvent
	for _, o := range orders {
		events = append(events, o.GetDomainEvents()...)
		o.ClearDomainEvents()
	}
	for _, p := range products {
		events = append(events, p.GetDomainEvents()...)
		p.ClearDomainEvents()
	}
	if len(events) == 0 {
		return
	}
	// Publish errors don't undo a committed checkout
	_ = e.eventPublisher.Publish(ctx, events...)
}

// storageFailure passes domain errors through and turns anything else into
// STORAGE_FAILURE wrapping op. Logging is left to the caller that renders the error.
func (e *Engine) storageFailure(op string, err error) *shared.DomainError {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return shared.NewStorageError("Checkout failed, please try again", fmt.Errorf("%s: %w", op, err))
}

// productIDs returns the distinct product ids of lines in first-seen order
func productIDs(lines []LineItem) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(lines))
	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		if !seen[line.ProductID] {
			seen[line.ProductID] = true
			ids = append(ids, line.ProductID)
		}
	}
	return ids
}
