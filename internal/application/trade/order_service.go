package trade

import (
	"context"

	"github.com/Geogebrd/scaond-hand-platform/internal/domain/shared"
	"github.com/Geogebrd/scaond-hand-platform/internal/domain/trade"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderService tracks orders after checkout: shipping, receipt and the two order lists
type OrderService struct {
	orders         trade.OrderRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(orders trade.OrderRepository, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		orders: orders,
		logger: logger,
	}
}

// SetEventPublisher sets the event publisher for lifecycle events
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// UpdateShippingStatus lets the seller mark an order shipped or revert it to pending
func (s *OrderService) UpdateShippingStatus(ctx context.Context, sellerID, orderID uuid.UUID, status string) (*OrderStatusResponse, error) {
	target := trade.ShippingStatus(status)
	if target != trade.ShippingStatusPending && target != trade.ShippingStatusShipped {
		return nil, shared.ErrInvalidInput
	}

	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.UpdateShippingStatus(sellerID, target); err != nil {
		return nil, err
	}
	return s.save(ctx, order)
}

// ConfirmReceipt lets the buyer close a shipped order
func (s *OrderService) ConfirmReceipt(ctx context.Context, buyerID, orderID uuid.UUID) (*OrderStatusResponse, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.ConfirmReceipt(buyerID); err != nil {
		return nil, err
	}
	return s.save(ctx, order)
}

// ListPurchases returns the buyer's orders, newest first
func (s *OrderService) ListPurchases(ctx context.Context, buyerID uuid.UUID) ([]PurchaseResponse, error) {
	views, err := s.orders.ListPurchases(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	resp := make([]PurchaseResponse, 0, len(views))
	for _, v := range views {
		resp = append(resp, ToPurchaseResponse(v))
	}
	return resp, nil
}

// ListSales returns the seller's orders, newest first
func (s *OrderService) ListSales(ctx context.Context, sellerID uuid.UUID) ([]SaleResponse, error) {
	views, err := s.orders.ListSales(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	resp := make([]SaleResponse, 0, len(views))
	for _, v := range views {
		resp = append(resp, ToSaleResponse(v))
	}
	return resp, nil
}

func (s *OrderService) load(ctx context.Context, orderID uuid.UUID) (*trade.Order, error) {
	if orderID == uuid.Nil {
		return nil, shared.ErrInvalidInput
	}
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if shared.IsCode(err, shared.CodeNotFound) {
			return nil, shared.NewNotFoundError("Order not found")
		}
		return nil, err
	}
	return order, nil
}

func (s *OrderService) save(ctx context.Context, order *trade.Order) (*OrderStatusResponse, error) {
	if err := s.orders.SaveWithLock(ctx, order); err != nil {
		if shared.IsCode(err, shared.CodeConcurrencyConflict) {
			s.logger.Info("Order changed concurrently", zap.String("order_id", order.ID.String()))
		}
		return nil, err
	}

	if s.eventPublisher != nil {
		events := order.GetDomainEvents()
		if len(events) > 0 {
			// Publish errors are ignored, the transition is already stored
			_ = s.eventPublisher.Publish(ctx, events...)
		}
	}
	order.ClearDomainEvents()

	resp := ToOrderStatusResponse(order)
	return &resp, nil
}
