// Package integration runs the marketplace against real PostgreSQL and Redis
// containers started with testcontainers. Every test skips under -short.
package integration

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/Geogebrd/scaond-hand-platform/internal/domain/catalog"
	"github.com/Geogebrd/scaond-hand-platform/internal/domain/identity"
	"github.com/Geogebrd/scaond-hand-platform/internal/infrastructure/migration"
	"github.com/Geogebrd/scaond-hand-platform/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB is a migrated PostgreSQL database owned by a single test
type TestDB struct {
	DB *gorm.DB
	t  *testing.T
}

// NewTestDB starts a dedicated postgres container, applies the SQL migrations
// and tears everything down when the test ends. Checkout tests rely on real
// row locks, so there is no sqlite fallback here.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("market_test"),
		tcpostgres.WithUsername("market"),
		tcpostgres.WithPassword("market"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: Failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	migrateSchema(t, dsn)

	db := openGorm(t, dsn)
	return &TestDB{DB: db, t: t}
}

func openGorm(t *testing.T, dsn string) *gorm.DB {
	t.Helper()

	level := logger.Silent
	if os.Getenv("TEST_DB_DEBUG") != "" {
		level = logger.Info
	}
	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(level)})
	require.NoError(t, err, "Failed to connect to database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// enough connections for the concurrent checkout tests to contend on row locks
	sqlDB.SetMaxOpenConns(10)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// migrateSchema uses its own connection because closing the migrator closes the pool
func migrateSchema(t *testing.T, dsn string) {
	t.Helper()

	db := openGorm(t, dsn)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	m, err := migration.New(sqlDB, migrationsDir(t), zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up(), "Failed to run migrations")
	_ = m.Close()
}

// migrationsDir walks up from this file to the module root
func migrationsDir(t *testing.T) string {
	t.Helper()

	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	for dir := filepath.Dir(file); dir != filepath.Dir(dir); dir = filepath.Dir(dir) {
		candidate := filepath.Join(dir, "migrations")
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
	}
	t.Fatal("migrations directory not found")
	return ""
}

// CreateUser inserts a user with the given shipping profile. The password is secret123.
func (tdb *TestDB) CreateUser(username string, profile identity.ShippingProfile) *identity.User {
	tdb.t.Helper()

	user, err := identity.NewUser(username, username+"@example.com", "secret123")
	require.NoError(tdb.t, err)
	user.Profile = profile
	require.NoError(tdb.t, persistence.NewGormUserRepository(tdb.DB).Create(context.Background(), user))
	return user
}

// CreateProduct lists a finite-stock product for the seller
func (tdb *TestDB) CreateProduct(sellerID uuid.UUID, title string, price string, quantity int) *catalog.Product {
	tdb.t.Helper()

	product, err := catalog.NewProduct(sellerID, catalog.ListingInput{
		Title:     title,
		Price:     decimal.RequireFromString(price),
		Quantity:  quantity,
		Condition: catalog.ConditionUsedGood,
	})
	require.NoError(tdb.t, err)
	require.NoError(tdb.t, persistence.NewGormProductRepository(tdb.DB).Create(context.Background(), product))
	return product
}
