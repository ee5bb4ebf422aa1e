package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Lachitha/EAD-Ecommerce-Backend/internal/models"
	"github.com/Lachitha/EAD-Ecommerce-Backend/internal/repo"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type notifyCall struct {
	UserID  uuid.UUID
	Message string
}

// fakeNotifier records notifications instead of delivering them.
type fakeNotifier struct {
	mu    sync.Mutex
	calls []notifyCall
}

func (f *fakeNotifier) Notify(_ context.Context, userID uuid.UUID, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, notifyCall{UserID: userID, Message: message})
	return nil
}

func (f *fakeNotifier) Calls() []notifyCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]notifyCall, len(f.calls))
	copy(out, f.calls)
	return out
}

type testEnv struct {
	Repo     *repo.GormRepo
	Notifier *fakeNotifier
	Stock    *StockService
	Cart     *CartService
	Order    *OrderService
	Product  *ProductService
}

func newTestEnv(t *testing.T) *testEnv {
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

	r := &repo.GormRepo{DB: db}
	notifier := &fakeNotifier{}
	stock := &StockService{Repo: r, Notifier: notifier}
	return &testEnv{
		Repo:     r,
		Notifier: notifier,
		Stock:    stock,
		Cart:     &CartService{Repo: r, Stock: stock},
		Order:    &OrderService{Repo: r, Stock: stock, Notifier: notifier},
		Product:  &ProductService{Repo: r, Stock: stock},
	}
}

func (e *testEnv) seedProduct(t *testing.T, stock int, opts ...func(*models.Product)) *models.Product {
	t.Helper()

	p := models.Product{
		VendorID: uuid.New(),
		Name:     "test product",
		Price:    25,
		Quantity: stock,
		Stock:    stock,
		IsActive: true,
	}
	for _, opt := range opts {
		opt(&p)
	}
	require.NoError(t, e.Repo.DB.Create(&p).Error)
	return &p
}

func withThreshold(threshold int) func(*models.Product) {
	return func(p *models.Product) { p.LowStockThreshold = threshold }
}

func withInactive() func(*models.Product) {
	return func(p *models.Product) { p.IsActive = false }
}

func withPrice(price float64) func(*models.Product) {
	return func(p *models.Product) { p.Price = price }
}

func (e *testEnv) productStock(t *testing.T, productID uuid.UUID) int {
	t.Helper()

	var p models.Product
	require.NoError(t, e.Repo.DB.First(&p, "id = ?", productID).Error)
	return p.Stock
}
