package checkout

import (
	"context"

	"github.com/Geogebrd/scaond-hand-platform/internal/domain/catalog"
	"github.com/Geogebrd/scaond-hand-platform/internal/domain/trade"
	"github.com/google/uuid"
)

// StockLocker gives a checkout exclusive access to a set of product rows.
//
// WithExclusiveProductLock must lock every named product before calling fn,
// keep the locks until fn returns, and then commit all writes made through the
// unit of work when fn returns nil or discard all of them when it returns an
// error. Products that do not exist are simply absent from the unit of work.
type StockLocker interface {
	WithExclusiveProductLock(ctx context.Context, productIDs []uuid.UUID, fn func(uow UnitOfWork) error) error
}

// UnitOfWork exposes the locked snapshot and the writes allowed while the lock is held.
type UnitOfWork interface {
	// Product returns the locked snapshot of the product. Mutations on the
	// returned value are visible to later lookups of the same id.
	Product(id uuid.UUID) (*catalog.Product, bool)

	// SaveStock persists sold_quantity, status and version of a locked product
	SaveStock(ctx context.Context, product *catalog.Product) error

	// CreateOrder inserts a new order row
	CreateOrder(ctx context.Context, order *trade.Order) error
}
