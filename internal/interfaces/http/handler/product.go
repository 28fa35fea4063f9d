package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	catalogapp "github.com/Geogebrd/scaond-hand-platform/internal/application/catalog"
	"github.com/Geogebrd/scaond-hand-platform/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProductService is the part of catalogapp.ProductService the handlers need
type ProductService interface {
	Create(ctx context.Context, sellerID uuid.UUID, req catalogapp.CreateProductRequest, image *catalogapp.ImageUpload) (*catalogapp.ProductResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*catalogapp.ProductResponse, error)
	List(ctx context.Context, query catalogapp.ListProductsQuery) ([]catalogapp.ProductResponse, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]catalogapp.ProductResponse, error)
}

// ProductHandler serves /products
type ProductHandler struct {
	BaseHandler
	products ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(products ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// Get returns one product for ?id=, otherwise the public list filtered by
// ?search= and ordered by ?sort=
func (h *ProductHandler) Get(c *gin.Context) {
	if c.Query("id") != "" {
		id, err := parseUUIDQuery(c, "id")
		if err != nil {
			h.HandleError(c, err)
			return
		}
		product, err := h.products.GetByID(c.Request.Context(), id)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, product)
		return
	}

	var query catalogapp.ListProductsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindingError(c, err)
		return
	}
	products, err := h.products.List(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, products)
}

// Create lists a product. Browsers post multipart forms with an optional
// "image" file; API clients may post JSON without an image.
func (h *ProductHandler) Create(c *gin.Context) {
	sellerID, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req catalogapp.CreateProductRequest
	var image *catalogapp.ImageUpload

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		if err := c.ShouldBind(&req); err != nil {
			h.BindingError(c, err)
			return
		}
		req.IsUnlimited = formFlag(c.PostForm("is_unlimited"))

		upload, closeFn, err := formImage(c)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		defer closeFn()
		image = upload
	} else if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	product, err := h.products.Create(c.Request.Context(), sellerID, req, image)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "Product listed", product)
}

// formImage opens the optional "image" part. closeFn is always safe to call.
func formImage(c *gin.Context) (*catalogapp.ImageUpload, func(), error) {
	header, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, func() {}, shared.NewValidationError("Invalid image upload")
	}

	f, err := header.Open()
	if err != nil {
		return nil, func() {}, shared.NewStorageError("Failed to read image", err)
	}
	return &catalogapp.ImageUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Content:     f,
	}, func() { _ = f.Close() }, nil
}

// formFlag interprets an HTML checkbox: present means checked unless it
// explicitly says otherwise
func formFlag(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "0", "false", "off", "no":
		return false
	default:
		return true
	}
}
