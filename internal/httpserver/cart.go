package httpserver

import (
	"net/http"

	"github.com/Lachitha/EAD-Ecommerce-Backend/internal/logging"
	"github.com/Lachitha/EAD-Ecommerce-Backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := actorID(c)
	if err != nil {
		return err
	}

	cart, err := h.Svc.GetCart(ctx, userID)
	if err != nil {
		logging.FromContext(ctx).Error("get_cart_error", "error", err)
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "add.cart")

	userID, err := actorID(c)
	if err != nil {
		return err
	}

	var req struct {
		ProductID uuid.UUID `json:"product_id"`
		Quantity  int       `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ProductID == uuid.Nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "product_id required"})
	}

	item, err := h.Svc.AddToCart(ctx, userID, req.ProductID, req.Quantity)
	if err != nil {
		l.Warn("add_to_cart_rejected", "product_id", req.ProductID, "error", err)
		return writeError(c, err)
	}

	l.Info("item added to cart", "product_id", req.ProductID, "quantity", item.Quantity)
	return c.JSON(http.StatusOK, item)
}

func (h *CartHTTP) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "remove.cart")

	userID, err := actorID(c)
	if err != nil {
		return err
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	if err := h.Svc.RemoveFromCart(ctx, userID, productID); err != nil {
		l.Warn("remove_from_cart_rejected", "product_id", productID, "error", err)
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"removed": productID})
}

func (h *CartHTTP) UpdateQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "update.cart")

	userID, err := actorID(c)
	if err != nil {
		return err
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	item, err := h.Svc.UpdateQuantity(ctx, userID, productID, req.Quantity)
	if err != nil {
		l.Warn("update_quantity_rejected", "product_id", productID, "error", err)
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := actorID(c)
	if err != nil {
		return err
	}

	if err := h.Svc.ClearCart(ctx, userID); err != nil {
		logging.FromContext(ctx).Error("clear_cart_error", "error", err)
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "cart cleared"})
}
