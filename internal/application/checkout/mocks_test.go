package checkout

import (
	"context"
	"sort"
	"sync"

	"github.com/Geogebrd/scaond-hand-platform/internal/domain/cart"
	"github.com/Geogebrd/scaond-hand-platform/internal/domain/catalog"
	"github.com/Geogebrd/scaond-hand-platform/internal/domain/identity"
	"github.com/Geogebrd/scaond-hand-platform/internal/domain/shared"
	"github.com/Geogebrd/scaond-hand-platform/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// memoryStockLocker keeps products and orders in memory. Each product has its
// own mutex, taken in sorted id order; writes are applied only when fn succeeds.
type memoryStockLocker struct {
	mu       sync.Mutex
	locks    map[uuid.UUID]*sync.Mutex
	products map[uuid.UUID]catalog.Product
	orders   []*trade.Order
	calls    int

	createOrderErr error
	saveStockErr   error
}

func newMemoryStockLocker(products ...*catalog.Product) *memoryStockLocker {
	l := &memoryStockLocker{
		locks:    make(map[uuid.UUID]*sync.Mutex),
		products: make(map[uuid.UUID]catalog.Product),
	}
	for _, p := range products {
		p.ClearDomainEvents()
		l.products[p.ID] = *p
	}
	return l
}

func (l *memoryStockLocker) lockFor(id uuid.UUID) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	return m
}

func (l *memoryStockLocker) WithExclusiveProductLock(ctx context.Context, productIDs []uuid.UUID, fn func(uow UnitOfWork) error) error {
	ids := append([]uuid.UUID(nil), productIDs...)
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	for _, id := range ids {
		m := l.lockFor(id)
		m.Lock()
		defer m.Unlock()
	}

	l.mu.Lock()
	l.calls++
	uow := &memoryUnitOfWork{locker: l, snapshot: make(map[uuid.UUID]*catalog.Product, len(ids))}
	for _, id := range ids {
		if p, ok := l.products[id]; ok {
			p := p
			uow.snapshot[id] = &p
		}
	}
	l.mu.Unlock()

	if err := fn(uow); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for id, p := range uow.saved {
		stored := *p
		stored.ClearDomainEvents()
		l.products[id] = stored
	}
	l.orders = append(l.orders, uow.orders...)
	return nil
}

func (l *memoryStockLocker) product(id uuid.UUID) catalog.Product {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.products[id]
}

func (l *memoryStockLocker) committedOrders() []*trade.Order {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*trade.Order(nil), l.orders...)
}

func (l *memoryStockLocker) lockCalls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

type memoryUnitOfWork struct {
	locker   *memoryStockLocker
	snapshot map[uuid.UUID]*catalog.Product
	saved    map[uuid.UUID]*catalog.Product
	orders   []*trade.Order
}

func (u *memoryUnitOfWork) Product(id uuid.UUID) (*catalog.Product, bool) {
	p, ok := u.snapshot[id]
	return p, ok
}

func (u *memoryUnitOfWork) SaveStock(ctx context.Context, product *catalog.Product) error {
	if u.locker.saveStockErr != nil {
		return u.locker.saveStockErr
	}
	if u.saved == nil {
		u.saved = make(map[uuid.UUID]*catalog.Product)
	}
	u.saved[product.ID] = product
	return nil
}

func (u *memoryUnitOfWork) CreateOrder(ctx context.Context, order *trade.Order) error {
	if u.locker.createOrderErr != nil {
		return u.locker.createOrderErr
	}
	u.orders = append(u.orders, order)
	return nil
}

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	args := m.Called(ctx, username, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, userID uuid.UUID, profile identity.ShippingProfile) error {
	args := m.Called(ctx, userID, profile)
	return args.Error(0)
}

// MockCartRepository is a mock implementation of cart.Repository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) QuantityOf(ctx context.Context, userID, productID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID, productID)
	return args.Int(0), args.Error(1)
}

func (m *MockCartRepository) Merge(ctx context.Context, item *cart.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockCartRepository) Remove(ctx context.Context, userID, itemID uuid.UUID) error {
	args := m.Called(ctx, userID, itemID)
	return args.Error(0)
}

func (m *MockCartRepository) Items(ctx context.Context, userID uuid.UUID) ([]cart.Item, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cart.Item), args.Error(1)
}

func (m *MockCartRepository) Lines(ctx context.Context, userID uuid.UUID) ([]cart.Line, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cart.Line), args.Error(1)
}

func (m *MockCartRepository) Clear(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// recordingPublisher collects published events
type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.EventType())
	}
	return types
}
