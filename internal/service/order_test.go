package service

import (
	"context"
	"testing"

	"github.com/Lachitha/EAD-Ecommerce-Backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrder_CommitsStockAndStartsProcessing(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()
	p1 := env.seedProduct(t, 10, withPrice(3))
	p2 := env.seedProduct(t, 5, withPrice(7))

	order, err := env.Order.CreateOrder(ctx, userID, []OrderLine{
		{ProductID: p1.ID, Quantity: 4},
		{ProductID: p2.ID, Quantity: 2},
	})
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusProcessing, order.Status)
	assert.Equal(t, 26.0, order.Total)
	require.Len(t, order.Items, 2)
	for _, item := range order.Items {
		assert.Equal(t, models.OrderItemStatusPending, item.Status)
	}
	assert.Equal(t, p1.VendorID, order.Items[0].VendorID)

	assert.Equal(t, 6, env.productStock(t, p1.ID))
	assert.Equal(t, 3, env.productStock(t, p2.ID))

	got, err := env.Order.FindOrderByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 2)
}

func TestCreateOrder_Validation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()
	active := env.seedProduct(t, 5)
	inactive := env.seedProduct(t, 5, withInactive())

	tests := []struct {
		name    string
		lines   []OrderLine
		wantErr error
	}{
		{"no lines", nil, ErrValidation},
		{"zero quantity", []OrderLine{{ProductID: active.ID, Quantity: 0}}, ErrValidation},
		{"unknown product", []OrderLine{{ProductID: uuid.New(), Quantity: 1}}, ErrUnavailable},
		{"inactive product", []OrderLine{{ProductID: inactive.ID, Quantity: 1}}, ErrUnavailable},
		{"insufficient stock", []OrderLine{{ProductID: active.ID, Quantity: 6}}, ErrConflict},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.Order.CreateOrder(ctx, userID, tc.lines)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
	assert.Equal(t, 5, env.productStock(t, active.ID))
}

// A failing line is caught in the validation phase, before any stock moves:
// the valid first line must not be decremented.
func TestCreateOrder_FailingLineLeavesNoPartialDecrement(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	good := env.seedProduct(t, 10)
	short := env.seedProduct(t, 1)

	_, err := env.Order.CreateOrder(ctx, uuid.New(), []OrderLine{
		{ProductID: good.ID, Quantity: 2},
		{ProductID: short.ID, Quantity: 3},
	})
	require.ErrorIs(t, err, ErrConflict)

	assert.Equal(t, 10, env.productStock(t, good.ID))
	assert.Equal(t, 1, env.productStock(t, short.ID))
}

func TestRequestCancelOrder(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	p := env.seedProduct(t, 10)

	order, err := env.Order.CreateOrder(ctx, uuid.New(), []OrderLine{{ProductID: p.ID, Quantity: 2}})
	require.NoError(t, err)

	_, err = env.Order.RequestCancelOrder(ctx, order.ID, "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.Order.RequestCancelOrder(ctx, uuid.New(), "changed my mind")
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := env.Order.RequestCancelOrder(ctx, order.ID, "changed my mind")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancellationRequested, got.Status)
	assert.Equal(t, "changed my mind", got.CancellationNote)

	// Requesting cancellation is not allowed twice.
	_, err = env.Order.RequestCancelOrder(ctx, order.ID, "again")
	assert.ErrorIs(t, err, ErrConflict)

	// The request did not touch stock.
	assert.Equal(t, 8, env.productStock(t, p.ID))
}

func TestRequestCancelOrder_OnlyFromProcessing(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	p := env.seedProduct(t, 10)

	order, err := env.Order.CreateOrder(ctx, uuid.New(), []OrderLine{{ProductID: p.ID, Quantity: 1}})
	require.NoError(t, err)

	_, err = env.Order.MarkOrderItemAsDelivered(ctx, order.ID, p.VendorID, p.ID)
	require.NoError(t, err)

	_, err = env.Order.RequestCancelOrder(ctx, order.ID, "too late")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestApproveCancelOrder_RestoresStockAndNotifies(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()
	p1 := env.seedProduct(t, 10)
	p2 := env.seedProduct(t, 10)

	order, err := env.Order.CreateOrder(ctx, userID, []OrderLine{
		{ProductID: p1.ID, Quantity: 3},
		{ProductID: p2.ID, Quantity: 5},
	})
	require.NoError(t, err)

	_, err = env.Order.RequestCancelOrder(ctx, order.ID, "ordered by mistake")
	require.NoError(t, err)

	got, err := env.Order.ApproveCancelOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCanceled, got.Status)

	assert.Equal(t, 10, env.productStock(t, p1.ID))
	assert.Equal(t, 10, env.productStock(t, p2.ID))

	stored, err := env.Order.FindOrderByID(ctx, order.ID)
	require.NoError(t, err)
	for _, item := range stored.Items {
		assert.True(t, item.Restocked)
	}

	calls := env.Notifier.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, userID, calls[0].UserID)
	assert.Contains(t, calls[0].Message, "ordered by mistake")
}

// Approving an already-canceled order must not restore stock a second time.
func TestApproveCancelOrder_Idempotent(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	p := env.seedProduct(t, 10)

	order, err := env.Order.CreateOrder(ctx, uuid.New(), []OrderLine{{ProductID: p.ID, Quantity: 4}})
	require.NoError(t, err)
	_, err = env.Order.RequestCancelOrder(ctx, order.ID, "note")
	require.NoError(t, err)

	_, err = env.Order.ApproveCancelOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, 10, env.productStock(t, p.ID))

	got, err := env.Order.ApproveCancelOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCanceled, got.Status)
	assert.Equal(t, 10, env.productStock(t, p.ID))
	assert.Len(t, env.Notifier.Calls(), 1)
}

func TestMarkOrderItemAsDelivered_DerivesOrderStatus(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	p1 := env.seedProduct(t, 10)
	p2 := env.seedProduct(t, 10)

	order, err := env.Order.CreateOrder(ctx, uuid.New(), []OrderLine{
		{ProductID: p1.ID, Quantity: 1},
		{ProductID: p2.ID, Quantity: 1},
	})
	require.NoError(t, err)

	got, err := env.Order.MarkOrderItemAsDelivered(ctx, order.ID, p1.VendorID, p1.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPartiallyDelivered, got.Status)

	got, err = env.Order.MarkOrderItemAsDelivered(ctx, order.ID, p2.VendorID, p2.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, got.Status)
	for _, item := range got.Items {
		assert.Equal(t, models.OrderItemStatusDelivered, item.Status)
	}
}

func TestMarkOrderItemAsDelivered_RequiresMatchingVendor(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	p := env.seedProduct(t, 10)

	order, err := env.Order.CreateOrder(ctx, uuid.New(), []OrderLine{{ProductID: p.ID, Quantity: 1}})
	require.NoError(t, err)

	// Right product, wrong vendor.
	_, err = env.Order.MarkOrderItemAsDelivered(ctx, order.ID, uuid.New(), p.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// Right vendor, wrong product.
	_, err = env.Order.MarkOrderItemAsDelivered(ctx, order.ID, p.VendorID, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := env.Order.FindOrderByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusProcessing, got.Status)
}

// Item deliveries during a cancellation branch still record the item status
// but never overwrite the caller-driven order status.
func TestMarkOrderItemAsDelivered_DoesNotOverrideCancellation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	p := env.seedProduct(t, 10)

	order, err := env.Order.CreateOrder(ctx, uuid.New(), []OrderLine{{ProductID: p.ID, Quantity: 1}})
	require.NoError(t, err)
	_, err = env.Order.RequestCancelOrder(ctx, order.ID, "note")
	require.NoError(t, err)

	got, err := env.Order.MarkOrderItemAsDelivered(ctx, order.ID, p.VendorID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancellationRequested, got.Status)
	assert.Equal(t, models.OrderItemStatusDelivered, got.Items[0].Status)
}

func TestMarkOrderAsDeliveredByOperator(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	p1 := env.seedProduct(t, 10)
	p2 := env.seedProduct(t, 10)

	order, err := env.Order.CreateOrder(ctx, uuid.New(), []OrderLine{
		{ProductID: p1.ID, Quantity: 1},
		{ProductID: p2.ID, Quantity: 1},
	})
	require.NoError(t, err)

	// Not every item is delivered yet.
	_, err = env.Order.MarkOrderAsDeliveredByOperator(ctx, order.ID)
	assert.ErrorIs(t, err, ErrConflict)

	// Flip the item rows directly; the order status is still Processing.
	for _, item := range order.Items {
		require.NoError(t, env.Repo.UpdateOrderItemStatus(ctx, item.ID, models.OrderItemStatusDelivered))
	}

	got, err := env.Order.MarkOrderAsDeliveredByOperator(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, got.Status)
}

func TestCheckoutCart(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()
	p1 := env.seedProduct(t, 10, withPrice(2))
	p2 := env.seedProduct(t, 10, withPrice(3))

	_, err := env.Cart.AddToCart(ctx, userID, p1.ID, 2)
	require.NoError(t, err)
	_, err = env.Cart.AddToCart(ctx, userID, p2.ID, 4)
	require.NoError(t, err)

	order, err := env.Order.CheckoutCart(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusProcessing, order.Status)
	assert.Equal(t, 16.0, order.Total)
	require.Len(t, order.Items, 2)

	// Reservations became order decrements, the cart is gone.
	assert.Equal(t, 8, env.productStock(t, p1.ID))
	assert.Equal(t, 6, env.productStock(t, p2.ID))
	cart, err := env.Cart.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestCheckoutCart_EmptyCart(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	_, err := env.Order.CheckoutCart(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

// The cart may be stale: a product deactivated after it was added fails the
// checkout revalidation. The surviving cart line keeps holding its units, so
// a failed checkout must leave stock exactly where the cart left it — no
// matter how often it is retried — and only removing the line releases them.
func TestCheckoutCart_FailedCheckoutKeepsReservation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()
	p := env.seedProduct(t, 10)

	_, err := env.Cart.AddToCart(ctx, userID, p.ID, 3)
	require.NoError(t, err)
	require.Equal(t, 7, env.productStock(t, p.ID))
	require.NoError(t, env.Repo.SetProductActive(ctx, p.ID, false))

	_, err = env.Order.CheckoutCart(ctx, userID)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 7, env.productStock(t, p.ID))

	// Retrying must not release the same units again.
	_, err = env.Order.CheckoutCart(ctx, userID)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 7, env.productStock(t, p.ID))

	cart, err := env.Cart.GetCart(ctx, userID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)

	require.NoError(t, env.Cart.RemoveFromCart(ctx, userID, p.ID))
	assert.Equal(t, 10, env.productStock(t, p.ID))
}

func TestOrderQueries(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()
	p1 := env.seedProduct(t, 20)
	p2 := env.seedProduct(t, 20)

	o1, err := env.Order.CreateOrder(ctx, alice, []OrderLine{{ProductID: p1.ID, Quantity: 1}})
	require.NoError(t, err)
	_, err = env.Order.CreateOrder(ctx, bob, []OrderLine{{ProductID: p2.ID, Quantity: 1}})
	require.NoError(t, err)
	_, err = env.Order.RequestCancelOrder(ctx, o1.ID, "note")
	require.NoError(t, err)

	all, err := env.Order.GetAllOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := env.Order.FindOrdersByUser(ctx, alice)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, o1.ID, mine[0].ID)

	vendorOrders, err := env.Order.FindOrdersByVendor(ctx, p2.VendorID)
	require.NoError(t, err)
	require.Len(t, vendorOrders, 1)

	requested, err := env.Order.GetCancellationRequestedOrders(ctx)
	require.NoError(t, err)
	require.Len(t, requested, 1)
	assert.Equal(t, o1.ID, requested[0].ID)

	_, err = env.Order.FindOrderByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
