package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Lachitha/EAD-Ecommerce-Backend/internal/logging"
	"github.com/Lachitha/EAD-Ecommerce-Backend/internal/models"
	"github.com/Lachitha/EAD-Ecommerce-Backend/internal/repo"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notifier delivers a message to a user. Delivery failures never propagate
// back into stock or order results.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, message string) error
}

// StockService is the only mutation path for Product.Stock. It wraps the
// repo's row-locked adjustment and fires the low-stock vendor alert on the
// threshold edge.
type StockService struct {
	Repo     *repo.GormRepo
	Notifier Notifier
}

// Adjust applies delta (negative for reservation/consumption, positive for
// release/restock) and returns the product's new stock.
//
// The low-stock alert is edge-triggered: it fires only when stock crosses
// from at-or-above the threshold to below it, and re-arms once stock rises
// back. Repeated decrements while already below the threshold stay silent.
func (s *StockService) Adjust(ctx context.Context, productID uuid.UUID, delta int) (int, error) {
	product, prev, err := s.Repo.AdjustStock(ctx, productID, delta)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("%w: product %s", ErrNotFound, productID)
	}
	if errors.Is(err, repo.ErrInsufficientStock) {
		return 0, fmt.Errorf("%w: insufficient stock for product %s", ErrConflict, productID)
	}
	if err != nil {
		return 0, err
	}

	if product.Stock < product.LowStockThreshold && prev >= product.LowStockThreshold {
		s.notifyLowStock(ctx, product)
	}
	return product.Stock, nil
}

// NotifyIfLow fires the alert when the product is already below its
// threshold, regardless of edges. Used after product creation, where there is
// no previous value to edge against.
func (s *StockService) NotifyIfLow(ctx context.Context, product *models.Product) {
	if product.Stock < product.LowStockThreshold {
		s.notifyLowStock(ctx, product)
	}
}

func (s *StockService) notifyLowStock(ctx context.Context, product *models.Product) {
	if s.Notifier == nil {
		return
	}
	msg := fmt.Sprintf("Low stock alert: product %q is below its threshold. Current stock: %d",
		product.Name, product.Stock)
	if err := s.Notifier.Notify(ctx, product.VendorID, msg); err != nil {
		logging.FromContext(ctx).Error("low_stock_notify_failed",
			"product_id", product.ID, "error", err)
	}
}
