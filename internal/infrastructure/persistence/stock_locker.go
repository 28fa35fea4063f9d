package persistence

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Geogebrd/scaond-hand-platform/internal/application/checkout"
	"github.com/Geogebrd/scaond-hand-platform/internal/domain/catalog"
	"github.com/Geogebrd/scaond-hand-platform/internal/domain/shared"
	"github.com/Geogebrd/scaond-hand-platform/internal/domain/trade"
	"github.com/Geogebrd/scaond-hand-platform/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStockLocker runs checkout units of work inside one database transaction
// holding exclusive row locks on the involved products.
//
// On PostgreSQL the rows are locked with SELECT ... FOR UPDATE in id order, so
// two checkouts touching overlapping products always acquire locks in the same
// order, and the wait is capped by lock_timeout. sqlite has no row locks; there
// checkouts are serialized in-process instead.
type GormStockLocker struct {
	db          *gorm.DB
	lockTimeout time.Duration
	serialize   bool
	mu          sync.Mutex
}

// NewGormStockLocker creates a locker. lockTimeout <= 0 waits indefinitely.
func NewGormStockLocker(db *gorm.DB, lockTimeout time.Duration) *GormStockLocker {
	return &GormStockLocker{
		db:          db,
		lockTimeout: lockTimeout,
		serialize:   db.Dialector.Name() == "sqlite",
	}
}

// WithExclusiveProductLock locks the given products, hands their snapshots to fn
// and commits only when fn succeeds. Unknown ids are simply absent from the
// unit of work.
func (l *GormStockLocker) WithExclusiveProductLock(ctx context.Context, productIDs []uuid.UUID, fn func(uow checkout.UnitOfWork) error) error {
	if l.serialize {
		l.mu.Lock()
		defer l.mu.Unlock()
	}

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if !l.serialize && l.lockTimeout > 0 {
			// SET does not take bind parameters
			stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", l.lockTimeout.Milliseconds())
			if err := tx.Exec(stmt).Error; err != nil {
				return translateError(err)
			}
		}

		var rows []models.ProductModel
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id IN ?", productIDs).
			Order("id").
			Find(&rows).Error; err != nil {
			return translateError(err)
		}

		uow := &gormUnitOfWork{
			tx:       tx,
			products: make(map[uuid.UUID]*catalog.Product, len(rows)),
		}
		for i := range rows {
			uow.products[rows[i].ID] = rows[i].ToDomain()
		}

		return fn(uow)
	})
	if err != nil {
		return translateError(err)
	}
	return nil
}

// gormUnitOfWork exposes the locked rows of one checkout transaction
type gormUnitOfWork struct {
	tx       *gorm.DB
	products map[uuid.UUID]*catalog.Product
}

func (u *gormUnitOfWork) Product(id uuid.UUID) (*catalog.Product, bool) {
	p, ok := u.products[id]
	return p, ok
}

// SaveStock writes the stock columns of a locked product. The version check
// catches writers that bypassed the row lock.
func (u *gormUnitOfWork) SaveStock(ctx context.Context, product *catalog.Product) error {
	result := u.tx.WithContext(ctx).
		Model(&models.ProductModel{}).
		Where("id = ? AND version = ?", product.ID, product.Version-1).
		Updates(map[string]any{
			"sold_quantity": product.SoldQuantity,
			"status":        product.Status,
			"version":       product.Version,
			"updated_at":    product.UpdatedAt,
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

func (u *gormUnitOfWork) CreateOrder(ctx context.Context, order *trade.Order) error {
	if err := u.tx.WithContext(ctx).Create(models.OrderModelFromDomain(order)).Error; err != nil {
		return translateError(err)
	}
	return nil
}

var _ checkout.StockLocker = (*GormStockLocker)(nil)
