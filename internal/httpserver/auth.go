package httpserver

import (
	"net/http"

	"github.com/Lachitha/EAD-Ecommerce-Backend/internal/logging"
	"github.com/Lachitha/EAD-Ecommerce-Backend/internal/service"
	"github.com/labstack/echo/v4"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "register")

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	user, err := h.Svc.Register(ctx, req.Username, req.Password, req.Role)
	if err != nil {
		l.Warn("register_rejected", "username", req.Username, "error", err)
		return writeError(c, err)
	}

	l.Info("user registered", "user_id", user.ID, "role", user.Role)
	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		logging.FromContext(ctx).Warn("login_rejected", "username", req.Username, "error", err)
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
