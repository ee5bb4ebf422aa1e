package httpserver

import (
	"net/http"

	"github.com/Lachitha/EAD-Ecommerce-Backend/internal/logging"
	"github.com/Lachitha/EAD-Ecommerce-Backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "create.order")

	userID, err := actorID(c)
	if err != nil {
		return err
	}

	var req struct {
		Items []service.OrderLine `json:"items"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	order, err := h.Svc.CreateOrder(ctx, userID, req.Items)
	if err != nil {
		l.Warn("create_order_rejected", "error", err)
		return writeError(c, err)
	}

	l.Info("order created", "order_id", order.ID, "total", order.Total)
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.order")

	userID, err := actorID(c)
	if err != nil {
		return err
	}

	order, err := h.Svc.CheckoutCart(ctx, userID)
	if err != nil {
		l.Warn("checkout_rejected", "error", err)
		return writeError(c, err)
	}

	l.Info("cart checked out", "order_id", order.ID)
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHTTP) RequestCancel(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		OrderID          uuid.UUID `json:"order_id"`
		CancellationNote string    `json:"cancellation_note"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	order, err := h.Svc.RequestCancelOrder(ctx, req.OrderID, req.CancellationNote)
	if err != nil {
		logging.FromContext(ctx).Warn("request_cancel_rejected", "order_id", req.OrderID, "error", err)
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) ApproveCancel(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "approve.cancel")

	var req struct {
		OrderID uuid.UUID `json:"order_id"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	order, err := h.Svc.ApproveCancelOrder(ctx, req.OrderID)
	if err != nil {
		l.Error("approve_cancel_failed", "order_id", req.OrderID, "error", err)
		return writeError(c, err)
	}

	l.Info("order canceled", "order_id", order.ID)
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) MarkItemDelivered(c echo.Context) error {
	ctx := c.Request().Context()

	vendorID, err := actorID(c)
	if err != nil {
		return err
	}

	var req struct {
		OrderID   uuid.UUID `json:"order_id"`
		ProductID uuid.UUID `json:"product_id"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	order, err := h.Svc.MarkOrderItemAsDelivered(ctx, req.OrderID, vendorID, req.ProductID)
	if err != nil {
		logging.FromContext(ctx).Warn("mark_item_delivered_rejected",
			"order_id", req.OrderID, "product_id", req.ProductID, "error", err)
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) MarkOrderDelivered(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		OrderID uuid.UUID `json:"order_id"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	order, err := h.Svc.MarkOrderAsDeliveredByOperator(ctx, req.OrderID)
	if err != nil {
		logging.FromContext(ctx).Warn("mark_order_delivered_rejected",
			"order_id", req.OrderID, "error", err)
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}

	order, err := h.Svc.FindOrderByID(ctx, orderID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) MyOrders(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := actorID(c)
	if err != nil {
		return err
	}

	orders, err := h.Svc.FindOrdersByUser(ctx, userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) VendorOrders(c echo.Context) error {
	ctx := c.Request().Context()

	vendorID, err := actorID(c)
	if err != nil {
		return err
	}

	orders, err := h.Svc.FindOrdersByVendor(ctx, vendorID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) AllOrders(c echo.Context) error {
	orders, err := h.Svc.GetAllOrders(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) CancellationRequested(c echo.Context) error {
	orders, err := h.Svc.GetCancellationRequestedOrders(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}
