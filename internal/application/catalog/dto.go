package catalog

import (
	"time"

	"github.com/Geogebrd/scaond-hand-platform/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest is the body of the product create action, as JSON or multipart form
type CreateProductRequest struct {
	Title         string `json:"title" form:"title" binding:"required,max=200"`
	Description   string `json:"description" form:"description"`
	Price         string `json:"price" form:"price" binding:"required"`
	Quantity      int    `json:"quantity" form:"quantity" binding:"omitempty,min=1"`
	IsUnlimited   bool   `json:"is_unlimited" form:"-"` // multipart posts send a checkbox; the handler reads it
	ItemCondition string `json:"item_condition" form:"item_condition" binding:"omitempty,item_condition"`
	UsageDuration string `json:"usage_duration" form:"usage_duration" binding:"max=100"`
	UsageDays     int    `json:"usage_days" form:"usage_days" binding:"min=0"`
}

// ListProductsQuery holds the public list filters
type ListProductsQuery struct {
	Search   string `form:"search"`
	Sort     string `form:"sort"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// ProductResponse is the API view of a listing
type ProductResponse struct {
	ID            uuid.UUID       `json:"id"`
	SellerID      uuid.UUID       `json:"seller_id"`
	SellerName    string          `json:"seller_name,omitempty"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	Quantity      int             `json:"quantity"`
	SoldQuantity  int             `json:"sold_quantity"`
	Available     *int            `json:"available,omitempty"`
	IsUnlimited   bool            `json:"is_unlimited"`
	Status        string          `json:"status"`
	ItemCondition string          `json:"item_condition"`
	UsageDuration string          `json:"usage_duration,omitempty"`
	UsageDays     int             `json:"usage_days"`
	ImagePath     string          `json:"image_path,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ToProductResponse converts a product to its API view. Available is omitted for unlimited listings.
func ToProductResponse(p *catalog.Product) ProductResponse {
	resp := ProductResponse{
		ID:            p.ID,
		SellerID:      p.SellerID,
		Title:         p.Title,
		Description:   p.Description,
		Price:         p.Price,
		Quantity:      p.Quantity,
		SoldQuantity:  p.SoldQuantity,
		IsUnlimited:   p.Unlimited,
		Status:        string(p.Status),
		ItemCondition: string(p.Condition),
		UsageDuration: p.UsageDuration,
		UsageDays:     p.UsageDays,
		ImagePath:     p.ImagePath,
		CreatedAt:     p.CreatedAt,
	}
	if !p.Unlimited {
		available := p.AvailableQuantity()
		resp.Available = &available
	}
	return resp
}

// ToListingResponse converts a listing read model, including the seller's name
func ToListingResponse(l *catalog.ProductListing) ProductResponse {
	resp := ToProductResponse(&l.Product)
	resp.SellerName = l.SellerName
	return resp
}
