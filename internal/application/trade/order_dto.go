package trade

import (
	"time"

	"github.com/Geogebrd/scaond-hand-platform/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UpdateStatusRequest is the body of the dashboard update_status action
type UpdateStatusRequest struct {
	OrderID uuid.UUID `json:"order_id" binding:"required"`
	Status  string    `json:"status" binding:"required,shipping_status"`
}

// ConfirmReceiptRequest is the body of the orders confirm_receipt action
type ConfirmReceiptRequest struct {
	OrderID uuid.UUID `json:"order_id" binding:"required"`
}

// OrderStatusResponse reports the lifecycle state after a transition
type OrderStatusResponse struct {
	ID         uuid.UUID  `json:"id"`
	Status     string     `json:"shipping_status"`
	ShippedAt  *time.Time `json:"shipped_at,omitempty"`
	ReceivedAt *time.Time `json:"received_at,omitempty"`
}

// PurchaseResponse is one row of the buyer's purchases page
type PurchaseResponse struct {
	ID              uuid.UUID       `json:"id"`
	ProductID       uuid.UUID       `json:"product_id"`
	Title           string          `json:"title"`
	ImagePath       string          `json:"image_path,omitempty"`
	SellerID        uuid.UUID       `json:"seller_id"`
	SellerName      string          `json:"seller_name"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	TotalPrice      decimal.Decimal `json:"total_price"`
	ShippingName    string          `json:"shipping_name"`
	ShippingAddress string          `json:"shipping_address"`
	ShippingPhone   string          `json:"shipping_phone"`
	Status          string          `json:"shipping_status"`
	CreatedAt       time.Time       `json:"created_at"`
	ShippedAt       *time.Time      `json:"shipped_at,omitempty"`
	ReceivedAt      *time.Time      `json:"received_at,omitempty"`
}

// SaleResponse is one row of the seller's dashboard
type SaleResponse struct {
	ID              uuid.UUID       `json:"id"`
	ProductID       uuid.UUID       `json:"product_id"`
	Title           string          `json:"title"`
	BuyerID         uuid.UUID       `json:"buyer_id"`
	BuyerName       string          `json:"buyer_name"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	TotalPrice      decimal.Decimal `json:"total_price"`
	ShippingName    string          `json:"shipping_name"`
	ShippingAddress string          `json:"shipping_address"`
	ShippingPhone   string          `json:"shipping_phone"`
	Status          string          `json:"shipping_status"`
	CreatedAt       time.Time       `json:"created_at"`
	ShippedAt       *time.Time      `json:"shipped_at,omitempty"`
	ReceivedAt      *time.Time      `json:"received_at,omitempty"`
}

// ToOrderStatusResponse converts an order to its lifecycle view
func ToOrderStatusResponse(o *trade.Order) OrderStatusResponse {
	return OrderStatusResponse{
		ID:         o.ID,
		Status:     string(o.Status),
		ShippedAt:  o.ShippedAt,
		ReceivedAt: o.ReceivedAt,
	}
}

// ToPurchaseResponse converts a purchase view to its API form
func ToPurchaseResponse(v trade.PurchaseView) PurchaseResponse {
	return PurchaseResponse{
		ID:              v.ID,
		ProductID:       v.ProductID,
		Title:           v.ProductTitle,
		ImagePath:       v.ImagePath,
		SellerID:        v.SellerID,
		SellerName:      v.SellerName,
		Quantity:        v.Quantity,
		UnitPrice:       v.UnitPrice,
		TotalPrice:      v.TotalPrice,
		ShippingName:    v.Shipping.Name,
		ShippingAddress: v.Shipping.Address,
		ShippingPhone:   v.Shipping.Phone,
		Status:          string(v.Status),
		CreatedAt:       v.CreatedAt,
		ShippedAt:       v.ShippedAt,
		ReceivedAt:      v.ReceivedAt,
	}
}

// ToSaleResponse converts a sale view to its API form
func ToSaleResponse(v trade.SaleView) SaleResponse {
	return SaleResponse{
		ID:              v.OrderID,
		ProductID:       v.ProductID,
		Title:           v.ProductTitle,
		BuyerID:         v.BuyerID,
		BuyerName:       v.BuyerName,
		Quantity:        v.Quantity,
		UnitPrice:       v.UnitPrice,
		TotalPrice:      v.TotalPrice,
		ShippingName:    v.Shipping.Name,
		ShippingAddress: v.Shipping.Address,
		ShippingPhone:   v.Shipping.Phone,
		Status:          string(v.Status),
		CreatedAt:       v.CreatedAt,
		ShippedAt:       v.ShippedAt,
		ReceivedAt:      v.ReceivedAt,
	}
}
