package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Geogebrd/scaond-hand-platform/internal/domain/catalog"
	"github.com/Geogebrd/scaond-hand-platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductRepository is a mock implementation of ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindListing(ctx context.Context, id uuid.UUID) (*catalog.ProductListing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ProductListing), args.Error(1)
}

func (m *MockProductRepository) ListAvailable(ctx context.Context, filter catalog.ProductFilter) ([]catalog.ProductListing, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.ProductListing), args.Error(1)
}

func (m *MockProductRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

// MockImageStore is a mock implementation of ImageStore
type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Save(ctx context.Context, upload ImageUpload) (string, error) {
	args := m.Called(ctx, upload)
	return args.String(0), args.Error(1)
}

func (m *MockImageStore) Delete(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()
	sellerID := uuid.New()

	t.Run("creates listing with defaults", func(t *testing.T) {
		repo := new(MockProductRepository)
		repo.On("Create", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)
		svc := NewProductService(repo, nil, nil)

		resp, err := svc.Create(ctx, sellerID, CreateProductRequest{Title: "Kettle", Price: "12.5"}, nil)

		require.NoError(t, err)
		assert.Equal(t, "Kettle", resp.Title)
		assert.True(t, decimal.RequireFromString("12.5").Equal(resp.Price))
		assert.Equal(t, 1, resp.Quantity)
		assert.Equal(t, "available", resp.Status)
		assert.Equal(t, "New", resp.ItemCondition)
		require.NotNil(t, resp.Available)
		assert.Equal(t, 1, *resp.Available)
	})

	t.Run("stores the image path", func(t *testing.T) {
		repo := new(MockProductRepository)
		images := new(MockImageStore)
		upload := ImageUpload{Filename: "kettle.png", ContentType: "image/png", Size: 4, Content: strings.NewReader("data")}
		images.On("Save", ctx, upload).Return("uploads/abc.png", nil)
		repo.On("Create", ctx, mock.MatchedBy(func(p *catalog.Product) bool {
			return p.ImagePath == "uploads/abc.png"
		})).Return(nil)
		svc := NewProductService(repo, images, nil)

		resp, err := svc.Create(ctx, sellerID, CreateProductRequest{Title: "Kettle", Price: "10"}, &upload)

		require.NoError(t, err)
		assert.Equal(t, "uploads/abc.png", resp.ImagePath)
	})

	t.Run("removes the image when the listing is not saved", func(t *testing.T) {
		repo := new(MockProductRepository)
		images := new(MockImageStore)
		upload := ImageUpload{Filename: "kettle.png", Content: strings.NewReader("data")}
		images.On("Save", ctx, upload).Return("uploads/abc.png", nil)
		images.On("Delete", ctx, "uploads/abc.png").Return(nil)
		repo.On("Create", ctx, mock.Anything).Return(shared.NewStorageError("Storage failure", errors.New("db down")))
		svc := NewProductService(repo, images, nil)

		_, err := svc.Create(ctx, sellerID, CreateProductRequest{Title: "Kettle", Price: "10"}, &upload)

		assert.True(t, shared.IsCode(err, shared.CodeStorageFailure))
		images.AssertExpectations(t)
	})

	t.Run("rejects bad input before saving anything", func(t *testing.T) {
		cases := []CreateProductRequest{
			{Title: "Kettle", Price: "abc"},
			{Title: "Kettle", Price: "0"},
			{Title: "   ", Price: "5"},
			{Title: "Kettle", Price: "5", ItemCondition: "Broken"},
		}
		for _, req := range cases {
			repo := new(MockProductRepository)
			images := new(MockImageStore)
			svc := NewProductService(repo, images, nil)

			_, err := svc.Create(ctx, sellerID, req, &ImageUpload{Filename: "x.png"})

			assert.True(t, shared.IsCode(err, shared.CodeValidation), "request %+v", req)
			images.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		}
	})
}

func TestProductService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the listing with seller name", func(t *testing.T) {
		repo := new(MockProductRepository)
		p, err := catalog.NewProduct(uuid.New(), catalog.ListingInput{Title: "Ebook", Price: decimal.NewFromInt(3), Unlimited: true})
		require.NoError(t, err)
		repo.On("FindListing", ctx, p.ID).Return(&catalog.ProductListing{Product: *p, SellerName: "carol"}, nil)
		svc := NewProductService(repo, nil, nil)

		resp, err := svc.GetByID(ctx, p.ID)

		require.NoError(t, err)
		assert.Equal(t, "carol", resp.SellerName)
		assert.True(t, resp.IsUnlimited)
		assert.Nil(t, resp.Available)
	})

	t.Run("unknown id", func(t *testing.T) {
		repo := new(MockProductRepository)
		id := uuid.New()
		repo.On("FindListing", ctx, id).Return(nil, shared.ErrNotFound)
		svc := NewProductService(repo, nil, nil)

		_, err := svc.GetByID(ctx, id)

		require.Error(t, err)
		assert.Equal(t, "Product not found", err.Error())
	})
}

func TestProductService_List(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	repo.On("ListAvailable", ctx, mock.MatchedBy(func(f catalog.ProductFilter) bool {
		return f.Search == "lamp" && f.SortBy == catalog.SortPriceAsc
	})).Return([]catalog.ProductListing{}, nil)
	repo.On("ListAvailable", ctx, mock.MatchedBy(func(f catalog.ProductFilter) bool {
		return f.Search == "" && f.SortBy == catalog.SortNewest
	})).Return([]catalog.ProductListing{}, nil)
	svc := NewProductService(repo, nil, nil)

	_, err := svc.List(ctx, ListProductsQuery{Search: " lamp ", Sort: "price_asc"})
	require.NoError(t, err)

	_, err = svc.List(ctx, ListProductsQuery{Sort: "bogus"})
	require.NoError(t, err)

	repo.AssertNumberOfCalls(t, "ListAvailable", 2)
}
