package checkout

import (
	"context"
	"time"

	"github.com/Geogebrd/scaond-hand-platform/internal/domain/cart"
	"github.com/Geogebrd/scaond-hand-platform/internal/domain/shared"
	"github.com/Geogebrd/scaond-hand-platform/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Service exposes the two checkout entry points: the whole cart and buy-now
type Service struct {
	engine   *Engine
	carts    cart.Repository
	recorder Recorder
	logger   *zap.Logger
}

// NewService creates a new checkout service
func NewService(engine *Engine, carts cart.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		engine:   engine,
		carts:    carts,
		recorder: noopRecorder{},
		logger:   logger,
	}
}

// SetRecorder sets the metrics recorder
func (s *Service) SetRecorder(recorder Recorder) {
	if recorder != nil {
		s.recorder = recorder
	}
}

// CheckoutCart buys every row of the buyer's cart. The cart is cleared only
// after the orders have been committed.
func (s *Service) CheckoutCart(ctx context.Context, buyerID uuid.UUID, input ShippingInput) (result *Result, err error) {
	start := time.Now()
	ctx, span := telemetry.StartServiceSpan(ctx, "checkout", string(ShapeCart), telemetry.AttrBuyerID, buyerID)
	defer func() { s.observe(span, ShapeCart, result, err, start) }()

	shipping, err := s.engine.ResolveShipping(ctx, buyerID, input)
	if err != nil {
		return nil, err
	}

	items, err := s.carts.Items(ctx, buyerID)
	if err != nil {
		return nil, s.engine.storageFailure("load cart", err)
	}
	if len(items) == 0 {
		return nil, shared.NewValidationError("Cart is empty")
	}

	lines := make([]LineItem, 0, len(items))
	for _, item := range items {
		lines = append(lines, LineItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	result, err = s.engine.Place(ctx, buyerID, lines, shipping)
	if err != nil {
		return nil, err
	}

	// The orders are committed, so the buyer still gets a success. The stale
	// rows can be bought again and stay until removed; operators alert on
	// market_checkout_cart_clear_failures_total.
	if err := s.carts.Clear(ctx, buyerID); err != nil {
		s.recorder.ObserveCartClearFailure()
		s.logger.Warn("Failed to clear cart after checkout",
			zap.String("buyer_id", buyerID.String()),
			zap.Int("orders", len(result.Orders)),
			zap.Error(err))
	}
	return result, nil
}

// BuyNow buys a single product without touching the cart.
// A quantity below one is treated as one.
func (s *Service) BuyNow(ctx context.Context, buyerID, productID uuid.UUID, quantity int, input ShippingInput) (result *Result, err error) {
	start := time.Now()
	ctx, span := telemetry.StartServiceSpan(ctx, "checkout", string(ShapeBuyNow),
		telemetry.AttrBuyerID, buyerID,
		telemetry.AttrProductID, productID,
	)
	defer func() { s.observe(span, ShapeBuyNow, result, err, start) }()

	if productID == uuid.Nil {
		return nil, shared.NewValidationError("Product ID required")
	}
	lines := []LineItem{{ProductID: productID, Quantity: cart.ClampQuantity(quantity)}}
	return s.engine.Checkout(ctx, buyerID, lines, input)
}

// observe ends the span and reports the outcome to the recorder
func (s *Service) observe(span trace.Span, shape Shape, result *Result, err error, start time.Time) {
	defer span.End()

	units := 0
	if result != nil {
		units = result.Units()
		telemetry.SetAttributes(span,
			telemetry.AttrLines, len(result.Orders),
			telemetry.AttrUnits, units,
		)
	}
	code := ""
	if err != nil {
		code = shared.CodeOf(err)
		if code == "" {
			code = shared.CodeStorageFailure
		}
		telemetry.RecordError(span, err, code)
	}
	s.recorder.ObserveCheckout(shape, code, units, time.Since(start))
}
