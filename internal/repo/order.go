package repo

import (
	"context"

	"github.com/Lachitha/EAD-Ecommerce-Backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.DB.WithContext(ctx).Create(order).Error
}

func (r *GormRepo) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Preload("Items").
		First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status string) error {
	res := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) UpdateOrderCancellation(ctx context.Context, id uuid.UUID, status, note string) error {
	res := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "cancellation_note": note})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) UpdateOrderItemStatus(ctx context.Context, itemID uuid.UUID, status string) error {
	return r.DB.WithContext(ctx).Model(&models.OrderItem{}).
		Where("id = ?", itemID).
		Update("status", status).Error
}

// MarkOrderItemRestocked records that a cancelled line's stock has been
// returned. Persisted per line, before the order flips to Canceled, so a
// retried cancellation skips lines that were already restored.
func (r *GormRepo) MarkOrderItemRestocked(ctx context.Context, itemID uuid.UUID) error {
	return r.DB.WithContext(ctx).Model(&models.OrderItem{}).
		Where("id = ?", itemID).
		Update("restocked", true).Error
}

func (r *GormRepo) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := r.DB.WithContext(ctx).Preload("Items").
		Order("order_date DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	if err := r.DB.WithContext(ctx).Preload("Items").
		Where("user_id = ?", userID).
		Order("order_date DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ListOrdersByVendor returns orders where at least one line belongs to the
// vendor.
func (r *GormRepo) ListOrdersByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.Order, error) {
	var ids []uuid.UUID
	if err := r.DB.WithContext(ctx).Model(&models.OrderItem{}).
		Where("vendor_id = ?", vendorID).
		Distinct("order_id").
		Pluck("order_id", &ids).Error; err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	var orders []models.Order
	if err := r.DB.WithContext(ctx).Preload("Items").
		Where("id IN ?", ids).
		Order("order_date DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) ListOrdersByStatus(ctx context.Context, status string) ([]models.Order, error) {
	var orders []models.Order
	if err := r.DB.WithContext(ctx).Preload("Items").
		Where("status = ?", status).
		Order("order_date DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
