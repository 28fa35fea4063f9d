package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	cartapp "github.com/Geogebrd/scaond-hand-platform/internal/application/cart"
	catalogapp "github.com/Geogebrd/scaond-hand-platform/internal/application/catalog"
	"github.com/Geogebrd/scaond-hand-platform/internal/application/checkout"
	identityapp "github.com/Geogebrd/scaond-hand-platform/internal/application/identity"
	messageapp "github.com/Geogebrd/scaond-hand-platform/internal/application/message"
	tradeapp "github.com/Geogebrd/scaond-hand-platform/internal/application/trade"
	"github.com/Geogebrd/scaond-hand-platform/internal/interfaces/http/dto"
	"github.com/Geogebrd/scaond-hand-platform/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := middleware.SetupValidator(); err != nil {
		panic(err)
	}
}

// withUser stands in for SessionAuth
func withUser(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID != uuid.Nil {
			c.Set(middleware.UserIDKey, userID)
		}
		c.Next()
	}
}

func newRouter(userID uuid.UUID) *gin.Engine {
	r := gin.New()
	r.Use(withUser(userID))
	return r
}

func serve(r *gin.Engine, method, target string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// MockAuthService is a mock implementation of AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req identityapp.RegisterRequest) (*identityapp.UserResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityapp.UserResponse), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req identityapp.LoginRequest) (*identityapp.LoginResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityapp.LoginResult), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockAuthService) Check(ctx context.Context, token string) (*identityapp.CheckResponse, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityapp.CheckResponse), args.Error(1)
}

// MockProductService is a mock implementation of ProductService
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) Create(ctx context.Context, sellerID uuid.UUID, req catalogapp.CreateProductRequest, image *catalogapp.ImageUpload) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, sellerID, req, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ProductResponse), args.Error(1)
}

func (m *MockProductService) GetByID(ctx context.Context, id uuid.UUID) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ProductResponse), args.Error(1)
}

func (m *MockProductService) List(ctx context.Context, query catalogapp.ListProductsQuery) ([]catalogapp.ProductResponse, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalogapp.ProductResponse), args.Error(1)
}

func (m *MockProductService) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]catalogapp.ProductResponse, error) {
	args := m.Called(ctx, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalogapp.ProductResponse), args.Error(1)
}

// MockCartService is a mock implementation of CartService
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) Add(ctx context.Context, userID uuid.UUID, req cartapp.AddItemRequest) error {
	return m.Called(ctx, userID, req).Error(0)
}

func (m *MockCartService) Remove(ctx context.Context, userID, itemID uuid.UUID) error {
	return m.Called(ctx, userID, itemID).Error(0)
}

func (m *MockCartService) List(ctx context.Context, userID uuid.UUID) ([]cartapp.LineResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cartapp.LineResponse), args.Error(1)
}

// MockCheckoutService is a mock implementation of CheckoutService
type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) CheckoutCart(ctx context.Context, buyerID uuid.UUID, input checkout.ShippingInput) (*checkout.Result, error) {
	args := m.Called(ctx, buyerID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.Result), args.Error(1)
}

func (m *MockCheckoutService) BuyNow(ctx context.Context, buyerID, productID uuid.UUID, quantity int, input checkout.ShippingInput) (*checkout.Result, error) {
	args := m.Called(ctx, buyerID, productID, quantity, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.Result), args.Error(1)
}

// MockOrderService is a mock implementation of OrderService
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) UpdateShippingStatus(ctx context.Context, sellerID, orderID uuid.UUID, status string) (*tradeapp.OrderStatusResponse, error) {
	args := m.Called(ctx, sellerID, orderID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tradeapp.OrderStatusResponse), args.Error(1)
}

func (m *MockOrderService) ConfirmReceipt(ctx context.Context, buyerID, orderID uuid.UUID) (*tradeapp.OrderStatusResponse, error) {
	args := m.Called(ctx, buyerID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tradeapp.OrderStatusResponse), args.Error(1)
}

func (m *MockOrderService) ListPurchases(ctx context.Context, buyerID uuid.UUID) ([]tradeapp.PurchaseResponse, error) {
	args := m.Called(ctx, buyerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]tradeapp.PurchaseResponse), args.Error(1)
}

func (m *MockOrderService) ListSales(ctx context.Context, sellerID uuid.UUID) ([]tradeapp.SaleResponse, error) {
	args := m.Called(ctx, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]tradeapp.SaleResponse), args.Error(1)
}

// MockMessageService is a mock implementation of MessageService
type MockMessageService struct {
	mock.Mock
}

func (m *MockMessageService) Send(ctx context.Context, senderID uuid.UUID, req messageapp.SendRequest) (*messageapp.MessageResponse, error) {
	args := m.Called(ctx, senderID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*messageapp.MessageResponse), args.Error(1)
}

func (m *MockMessageService) History(ctx context.Context, userID, otherID uuid.UUID) ([]messageapp.MessageResponse, error) {
	args := m.Called(ctx, userID, otherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]messageapp.MessageResponse), args.Error(1)
}

func (m *MockMessageService) Conversations(ctx context.Context, userID uuid.UUID) ([]messageapp.ConversationResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]messageapp.ConversationResponse), args.Error(1)
}

// MockSettingsService is a mock implementation of SettingsService
type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) Get(ctx context.Context, userID uuid.UUID) (*identityapp.SettingsResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityapp.SettingsResponse), args.Error(1)
}

func (m *MockSettingsService) Update(ctx context.Context, userID uuid.UUID, req identityapp.UpdateSettingsRequest) (*identityapp.SettingsResponse, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityapp.SettingsResponse), args.Error(1)
}

// MockPinger is a mock implementation of Pinger
type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) PingContext(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
