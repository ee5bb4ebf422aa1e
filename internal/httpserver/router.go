package httpserver

import (
	"net/http"

	"github.com/Lachitha/EAD-Ecommerce-Backend/internal/models"
	"github.com/labstack/echo/v4"
)

type Deps struct {
	JWTSecret []byte

	AuthHandler         *AuthHTTP
	ProductHandler      *ProductHTTP
	CartHandler         *CartHTTP
	OrderHandler        *OrderHTTP
	NotificationHandler *NotificationHTTP
	SearchHandler       *SearchHTTP
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	v1 := e.Group("/api/v1")

	v1.POST("/register", d.AuthHandler.Register)
	v1.POST("/login", d.AuthHandler.Login)

	products := v1.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/active", d.ProductHandler.GetActiveProducts)
	products.GET("/:id", d.ProductHandler.GetProduct)

	if d.SearchHandler != nil {
		v1.GET("/search", d.SearchHandler.Search)
	}

	vendor := v1.Group("/vendor", RequireRoles(d.JWTSecret, models.RoleVendor))
	vendor.POST("/products", d.ProductHandler.CreateProduct)
	vendor.PATCH("/products/:id", d.ProductHandler.PatchProduct)
	vendor.GET("/products", d.ProductHandler.GetVendorProducts)
	vendor.GET("/products/:id", d.ProductHandler.GetVendorProduct)
	vendor.GET("/orders", d.OrderHandler.VendorOrders)
	vendor.POST("/orders/mark-product-delivered", d.OrderHandler.MarkItemDelivered)

	cart := v1.Group("/cart", RequireRoles(d.JWTSecret, models.RoleCustomer))
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("", d.CartHandler.AddToCart)
	cart.PATCH("/:productId", d.CartHandler.UpdateQuantity)
	cart.DELETE("/:productId", d.CartHandler.RemoveFromCart)
	cart.DELETE("", d.CartHandler.ClearCart)

	orders := v1.Group("/orders", RequireRoles(d.JWTSecret, models.RoleCustomer))
	orders.POST("", d.OrderHandler.CreateOrder)
	orders.POST("/checkout", d.OrderHandler.Checkout)
	orders.POST("/request-cancel", d.OrderHandler.RequestCancel)
	orders.GET("/my", d.OrderHandler.MyOrders)

	// Any authenticated role may look an order up by id.
	v1.GET("/orders/:id", d.OrderHandler.GetOrder, RequireRoles(d.JWTSecret))

	operator := v1.Group("/operator", RequireRoles(d.JWTSecret, models.RoleCSR, models.RoleAdministrator))
	operator.GET("/orders", d.OrderHandler.AllOrders)
	operator.GET("/orders/cancellation-requested", d.OrderHandler.CancellationRequested)
	operator.POST("/orders/approve-cancel", d.OrderHandler.ApproveCancel)
	operator.POST("/orders/mark-order-delivered", d.OrderHandler.MarkOrderDelivered)
	operator.GET("/products/inactive", d.ProductHandler.GetInactiveProducts)
	operator.POST("/products/:id/activate", d.ProductHandler.ActivateProduct)
	operator.POST("/products/:id/deactivate", d.ProductHandler.DeactivateProduct)
	operator.DELETE("/products/:id", d.ProductHandler.DeleteProduct)

	notifications := v1.Group("/notifications", RequireRoles(d.JWTSecret))
	notifications.GET("", d.NotificationHandler.MyNotifications)
	notifications.POST("/:id/read", d.NotificationHandler.MarkAsRead)
	notifications.DELETE("/:id", d.NotificationHandler.Delete)
}
