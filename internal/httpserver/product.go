package httpserver

import (
	"net/http"
	"strconv"

	"github.com/Lachitha/EAD-Ecommerce-Backend/internal/logging"
	"github.com/Lachitha/EAD-Ecommerce-Backend/internal/models"
	"github.com/Lachitha/EAD-Ecommerce-Backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const defaultPageSize = 20

type ProductHTTP struct {
	Svc *service.ProductService
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil && v > 0 {
		return v
	}
	return def
}

func (h *ProductHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "create.product")

	vendorID, err := actorID(c)
	if err != nil {
		return err
	}

	var req struct {
		Name              string   `json:"name"`
		Description       string   `json:"description"`
		Price             float64  `json:"price"`
		Quantity          int      `json:"quantity"`
		LowStockThreshold int      `json:"low_stock_threshold"`
		CategoryIDs       []string `json:"category_ids"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	product := models.Product{
		Name:              req.Name,
		Description:       req.Description,
		Price:             req.Price,
		Quantity:          req.Quantity,
		LowStockThreshold: req.LowStockThreshold,
		CategoryIDs:       req.CategoryIDs,
	}
	created, err := h.Svc.CreateProduct(ctx, vendorID, &product)
	if err != nil {
		l.Warn("create_product_rejected", "error", err)
		return writeError(c, err)
	}

	l.Info("product created", "product_id", created.ID)
	return c.JSON(http.StatusCreated, created)
}

func (h *ProductHTTP) PatchProduct(c echo.Context) error {
	ctx := c.Request().Context()

	vendorID, err := actorID(c)
	if err != nil {
		return err
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	var req service.PatchProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	product, err := h.Svc.UpdateProduct(ctx, vendorID, productID, req)
	if err != nil {
		logging.FromContext(ctx).Warn("patch_product_rejected", "product_id", productID, "error", err)
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHTTP) ActivateProduct(c echo.Context) error {
	return h.setActive(c, true)
}

func (h *ProductHTTP) DeactivateProduct(c echo.Context) error {
	return h.setActive(c, false)
}

func (h *ProductHTTP) setActive(c echo.Context, active bool) error {
	ctx := c.Request().Context()

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	if active {
		err = h.Svc.ActivateProduct(ctx, productID)
	} else {
		err = h.Svc.DeactivateProduct(ctx, productID)
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": productID, "is_active": active})
}

func (h *ProductHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	if err := h.Svc.DeleteProduct(ctx, productID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": productID})
}

func (h *ProductHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	product, err := h.Svc.GetProduct(ctx, productID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), defaultPageSize)
	offset := (page - 1) * size

	total, items, err := h.Svc.GetProducts(ctx, offset, size)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data": items,
		"meta": echo.Map{
			"page":  page,
			"size":  size,
			"total": total,
		},
	})
}

func (h *ProductHTTP) GetActiveProducts(c echo.Context) error {
	items, err := h.Svc.GetActiveProducts(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ProductHTTP) GetInactiveProducts(c echo.Context) error {
	items, err := h.Svc.GetInactiveProducts(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ProductHTTP) GetVendorProducts(c echo.Context) error {
	vendorID, err := actorID(c)
	if err != nil {
		return err
	}

	items, err := h.Svc.GetVendorProducts(c.Request().Context(), vendorID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ProductHTTP) GetVendorProduct(c echo.Context) error {
	vendorID, err := actorID(c)
	if err != nil {
		return err
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	product, err := h.Svc.GetVendorProduct(c.Request().Context(), vendorID, productID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}
