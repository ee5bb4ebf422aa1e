package repo

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Lachitha/EAD-Ecommerce-Backend/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=busy_timeout(10000)&_txlock=immediate"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Product{},
		&models.User{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Notification{},
	))
	return &GormRepo{DB: db}
}

func createProduct(t *testing.T, r *GormRepo, stock, threshold int) *models.Product {
	t.Helper()

	p := models.Product{
		VendorID:          uuid.New(),
		Name:              "test product",
		Price:             10,
		Quantity:          stock,
		Stock:             stock,
		LowStockThreshold: threshold,
		IsActive:          true,
	}
	require.NoError(t, r.DB.Create(&p).Error)
	return &p
}

func TestAdjustStock_DecrementAndIncrement(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	p := createProduct(t, r, 10, 0)

	product, prev, err := r.AdjustStock(ctx, p.ID, -4)
	require.NoError(t, err)
	assert.Equal(t, 10, prev)
	assert.Equal(t, 6, product.Stock)

	product, prev, err = r.AdjustStock(ctx, p.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 6, prev)
	assert.Equal(t, 9, product.Stock)
}

func TestAdjustStock_InsufficientIsRejectedAtomically(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	p := createProduct(t, r, 3, 0)

	_, _, err := r.AdjustStock(ctx, p.ID, -4)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	var got models.Product
	require.NoError(t, r.DB.First(&got, "id = ?", p.ID).Error)
	assert.Equal(t, 3, got.Stock, "a rejected adjustment must not write anything")
}

func TestAdjustStock_UnknownProduct(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)

	_, _, err := r.AdjustStock(context.Background(), uuid.New(), -1)
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

// Concurrent decrements summing past the available stock must leave exactly
// the initial stock applied: stock never goes negative and the surplus
// requests are rejected.
func TestAdjustStock_ConcurrentDecrements(t *testing.T) {
	const (
		initialStock = 10
		workers      = 20
	)

	r := newTestRepo(t)
	ctx := context.Background()
	p := createProduct(t, r, initialStock, 0)

	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := r.AdjustStock(ctx, p.ID, -1)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded, rejected := 0, 0
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		default:
			require.ErrorIs(t, err, ErrInsufficientStock)
			rejected++
		}
	}

	assert.Equal(t, initialStock, succeeded)
	assert.Equal(t, workers-initialStock, rejected)

	var got models.Product
	require.NoError(t, r.DB.First(&got, "id = ?", p.ID).Error)
	assert.Equal(t, 0, got.Stock)
}
