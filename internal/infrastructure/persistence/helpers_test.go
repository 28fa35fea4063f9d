package persistence

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Geogebrd/scaond-hand-platform/internal/domain/catalog"
	"github.com/Geogebrd/scaond-hand-platform/internal/domain/identity"
	"github.com/Geogebrd/scaond-hand-platform/internal/domain/shared"
	"github.com/Geogebrd/scaond-hand-platform/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupSQLiteDB opens a private in-memory database with the full schema.
// A single connection keeps every query on the same in-memory database.
func setupSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

// newMockDB creates a GORM postgres connection backed by sqlmock
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})
	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

// seedUser inserts a user without paying for bcrypt
func seedUser(t *testing.T, db *gorm.DB, username string) *identity.User {
	t.Helper()
	user := &identity.User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Username:          username,
		Email:             username + "@example.com",
		PasswordHash:      "hash",
	}
	require.NoError(t, db.Create(models.UserModelFromDomain(user)).Error)
	return user
}

type productSeed struct {
	title     string
	price     int64
	quantity  int
	sold      int
	unlimited bool
	condition catalog.Condition
	usageDays int
	age       time.Duration
}

// seedProduct inserts a product owned by seller, created age ago
func seedProduct(t *testing.T, db *gorm.DB, seller *identity.User, s productSeed) *catalog.Product {
	t.Helper()
	if s.quantity == 0 {
		s.quantity = 1
	}
	if s.condition == "" {
		s.condition = catalog.ConditionNew
	}
	status := catalog.ProductStatusAvailable
	if !s.unlimited && s.sold >= s.quantity {
		status = catalog.ProductStatusSold
	}
	created := time.Now().Add(-s.age)
	p := &catalog.Product{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{ID: uuid.New(), CreatedAt: created, UpdatedAt: created},
			Version:    1,
		},
		SellerID:     seller.ID,
		Title:        s.title,
		Price:        decimal.NewFromInt(s.price),
		Quantity:     s.quantity,
		SoldQuantity: s.sold,
		Unlimited:    s.unlimited,
		Status:       status,
		Condition:    s.condition,
		UsageDays:    s.usageDays,
	}
	require.NoError(t, db.Create(models.ProductModelFromDomain(p)).Error)
	return p
}
