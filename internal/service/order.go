package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Lachitha/EAD-Ecommerce-Backend/internal/logging"
	"github.com/Lachitha/EAD-Ecommerce-Backend/internal/models"
	"github.com/Lachitha/EAD-Ecommerce-Backend/internal/repo"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderLine is one requested line of a new order.
type OrderLine struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// OrderService drives the order and per-item state machines. Order status is
// derived from the item statuses after every item change, except for the
// caller-driven Cancellation Requested and Canceled states, which override
// derivation.
type OrderService struct {
	Repo     *repo.GormRepo
	Stock    *StockService
	Notifier Notifier
}

// CreateOrder validates every line, then commits the stock decrements and
// persists the order. Validation and commit are two phases so that a failing
// line is caught before any stock moves; the per-line ledger call still
// re-checks sufficiency, and lines decremented before a mid-commit failure
// are compensated with a matching release.
func (s *OrderService) CreateOrder(ctx context.Context, userID uuid.UUID, lines []OrderLine) (*models.Order, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: order must contain at least one item", ErrValidation)
	}

	items := make([]models.OrderItem, 0, len(lines))
	var total float64
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be greater than zero", ErrValidation)
		}

		product, err := s.Repo.GetProduct(ctx, line.ProductID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %s is not available", ErrUnavailable, line.ProductID)
		}
		if err != nil {
			return nil, err
		}
		if !product.IsActive {
			return nil, fmt.Errorf("%w: product %s is not available", ErrUnavailable, line.ProductID)
		}
		if product.Stock < line.Quantity {
			return nil, fmt.Errorf("%w: insufficient stock for product %s", ErrConflict, line.ProductID)
		}

		items = append(items, models.OrderItem{
			ProductID: product.ID,
			VendorID:  product.VendorID,
			Quantity:  line.Quantity,
			Price:     product.Price,
			Status:    models.OrderItemStatusPending,
		})
		total += float64(line.Quantity) * product.Price
	}

	committed := 0
	for i := range items {
		if _, err := s.Stock.Adjust(ctx, items[i].ProductID, -items[i].Quantity); err != nil {
			s.compensate(ctx, items[:committed])
			return nil, err
		}
		committed++
	}

	order := &models.Order{
		UserID:    userID,
		OrderDate: time.Now().UTC(),
		Status:    models.OrderStatusProcessing,
		Total:     total,
		Items:     items,
	}
	if err := s.Repo.CreateOrder(ctx, order); err != nil {
		s.compensate(ctx, items)
		return nil, err
	}
	return order, nil
}

// reserveLines re-takes cart reservations whose release did not end in an
// order. Failures are logged only; another actor may have claimed the freed
// units in the window.
func (s *OrderService) reserveLines(ctx context.Context, lines []OrderLine) {
	for _, line := range lines {
		if _, err := s.Stock.Adjust(ctx, line.ProductID, -line.Quantity); err != nil {
			logging.FromContext(ctx).Error("checkout_rereserve_failed",
				"product_id", line.ProductID, "quantity", line.Quantity, "error", err)
		}
	}
}

// compensate releases decrements taken for lines of an order that never came
// to exist. Failures are logged and retried by nobody; stock restoration is
// an independent ledger call per line.
func (s *OrderService) compensate(ctx context.Context, items []models.OrderItem) {
	for _, item := range items {
		if _, err := s.Stock.Adjust(ctx, item.ProductID, item.Quantity); err != nil {
			logging.FromContext(ctx).Error("order_compensation_failed",
				"product_id", item.ProductID, "quantity", item.Quantity, "error", err)
		}
	}
}

// CheckoutCart turns the caller's cart into an order. The cart's reservations
// are released first and CreateOrder re-validates and recommits against live
// stock, since the cart may be stale. A failed recommit re-reserves the
// released units: the cart lines survive the failure, so they must keep
// holding their stock. On success the cart is emptied.
func (s *OrderService) CheckoutCart(ctx context.Context, userID uuid.UUID) (*models.Order, error) {
	cartItems, err := s.Repo.GetCartItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cartItems) == 0 {
		return nil, fmt.Errorf("%w: cart for user %s is empty", ErrNotFound, userID)
	}

	lines := make([]OrderLine, 0, len(cartItems))
	for _, item := range cartItems {
		if _, err := s.Stock.Adjust(ctx, item.ProductID, item.Quantity); err != nil {
			s.reserveLines(ctx, lines)
			return nil, err
		}
		lines = append(lines, OrderLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	order, err := s.CreateOrder(ctx, userID, lines)
	if err != nil {
		s.reserveLines(ctx, lines)
		return nil, err
	}

	if err := s.Repo.DeleteAllCartItems(ctx, userID); err != nil {
		logging.FromContext(ctx).Error("checkout_cart_clear_failed",
			"user_id", userID, "error", err)
	}
	return order, nil
}

// RequestCancelOrder records a customer's cancellation request. Only orders
// still fully in Processing can be cancelled through this path.
func (s *OrderService) RequestCancelOrder(ctx context.Context, orderID uuid.UUID, note string) (*models.Order, error) {
	if note == "" {
		return nil, fmt.Errorf("%w: cancellation note is required", ErrValidation)
	}

	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusProcessing {
		return nil, fmt.Errorf("%w: only orders in processing can be requested for cancellation", ErrConflict)
	}

	if err := s.Repo.UpdateOrderCancellation(ctx, orderID, models.OrderStatusCancellationRequested, note); err != nil {
		return nil, err
	}
	order.Status = models.OrderStatusCancellationRequested
	order.CancellationNote = note
	return order, nil
}

// ApproveCancelOrder restores every line's stock and marks the order
// Canceled. Restoration is not transactional across lines: each line is
// flagged restocked as soon as its ledger call succeeds, so a retry after a
// mid-way failure restores only the remaining lines.
func (s *OrderService) ApproveCancelOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == models.OrderStatusCanceled {
		return order, nil
	}

	for i := range order.Items {
		item := &order.Items[i]
		if item.Restocked {
			continue
		}
		if _, err := s.Stock.Adjust(ctx, item.ProductID, item.Quantity); err != nil {
			return nil, fmt.Errorf("restore stock for product %s: %w", item.ProductID, err)
		}
		if err := s.Repo.MarkOrderItemRestocked(ctx, item.ID); err != nil {
			return nil, err
		}
		item.Restocked = true
	}

	if err := s.Repo.UpdateOrderStatus(ctx, orderID, models.OrderStatusCanceled); err != nil {
		return nil, err
	}
	order.Status = models.OrderStatusCanceled

	if s.Notifier != nil {
		msg := fmt.Sprintf("Your order %s has been canceled. Note: %s", order.ID, order.CancellationNote)
		if err := s.Notifier.Notify(ctx, order.UserID, msg); err != nil {
			logging.FromContext(ctx).Error("cancel_notify_failed",
				"order_id", order.ID, "error", err)
		}
	}
	return order, nil
}

// MarkOrderItemAsDelivered flips one line to Delivered. The line must match
// both productID and vendorID; the double match is what stops a vendor from
// marking another vendor's line.
func (s *OrderService) MarkOrderItemAsDelivered(ctx context.Context, orderID, vendorID, productID uuid.UUID) (*models.Order, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	var item *models.OrderItem
	for i := range order.Items {
		if order.Items[i].ProductID == productID && order.Items[i].VendorID == vendorID {
			item = &order.Items[i]
			break
		}
	}
	if item == nil {
		return nil, fmt.Errorf("%w: no order item for product %s and vendor %s", ErrNotFound, productID, vendorID)
	}

	if err := s.Repo.UpdateOrderItemStatus(ctx, item.ID, models.OrderItemStatusDelivered); err != nil {
		return nil, err
	}
	item.Status = models.OrderItemStatusDelivered

	// Cancellation branches are caller-driven and not overwritten by
	// derivation.
	if order.Status != models.OrderStatusCancellationRequested && order.Status != models.OrderStatusCanceled {
		derived := deriveOrderStatus(order.Items)
		if derived != order.Status {
			if err := s.Repo.UpdateOrderStatus(ctx, orderID, derived); err != nil {
				return nil, err
			}
			order.Status = derived
		}
	}
	return order, nil
}

// MarkOrderAsDeliveredByOperator promotes the order status once every item is
// already Delivered. It never flips item statuses itself.
func (s *OrderService) MarkOrderAsDeliveredByOperator(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.IsFullyDelivered() {
		return nil, fmt.Errorf("%w: order %s is not fully delivered", ErrConflict, orderID)
	}

	if err := s.Repo.UpdateOrderStatus(ctx, orderID, models.OrderStatusDelivered); err != nil {
		return nil, err
	}
	order.Status = models.OrderStatusDelivered
	return order, nil
}

func (s *OrderService) FindOrderByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	return s.findOrder(ctx, orderID)
}

func (s *OrderService) FindOrdersByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	return s.Repo.ListOrdersByUser(ctx, userID)
}

func (s *OrderService) FindOrdersByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.Order, error) {
	return s.Repo.ListOrdersByVendor(ctx, vendorID)
}

func (s *OrderService) GetAllOrders(ctx context.Context) ([]models.Order, error) {
	return s.Repo.ListOrders(ctx)
}

func (s *OrderService) GetCancellationRequestedOrders(ctx context.Context) ([]models.Order, error) {
	return s.Repo.ListOrdersByStatus(ctx, models.OrderStatusCancellationRequested)
}

func (s *OrderService) findOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: order %s", ErrNotFound, orderID)
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

// deriveOrderStatus recomputes the order status from the multiset of item
// statuses: Delivered when all items are delivered, Partially Delivered when
// at least one is, Processing otherwise.
func deriveOrderStatus(items []models.OrderItem) string {
	delivered := 0
	for _, item := range items {
		if item.Status == models.OrderItemStatusDelivered {
			delivered++
		}
	}
	switch {
	case delivered == len(items) && len(items) > 0:
		return models.OrderStatusDelivered
	case delivered > 0:
		return models.OrderStatusPartiallyDelivered
	default:
		return models.OrderStatusProcessing
	}
}
