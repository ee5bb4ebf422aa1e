package repo

import (
	"context"

	"github.com/Lachitha/EAD-Ecommerce-Backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AdjustStock applies delta to the product's stock inside a row-locked
// transaction, so two concurrent adjustments to the same product cannot read
// the same base value. A negative delta that would take stock below zero is
// rejected with ErrInsufficientStock and nothing is written.
//
// The returned product carries the post-adjustment state (stock, threshold,
// vendor); prev is the stock value before the adjustment, which callers use
// for edge-triggered low-stock detection.
func (r *GormRepo) AdjustStock(ctx context.Context, productID uuid.UUID, delta int) (product *models.Product, prev int, err error) {
	var p models.Product
	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&p, "id = ?", productID).Error; err != nil {
			return err
		}
		prev = p.Stock
		next := prev + delta
		if next < 0 {
			return ErrInsufficientStock
		}
		if err := tx.Model(&models.Product{}).Where("id = ?", productID).
			Update("stock", next).Error; err != nil {
			return err
		}
		p.Stock = next
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return &p, prev, nil
}
