package httpserver

import (
	"net/http"

	"github.com/Lachitha/EAD-Ecommerce-Backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type NotificationHTTP struct {
	Svc *service.NotificationService
}

func (h *NotificationHTTP) MyNotifications(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return err
	}

	items, err := h.Svc.GetNotificationsByUser(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *NotificationHTTP) MarkAsRead(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid notification id"})
	}

	if err := h.Svc.MarkAsRead(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "is_read": true})
}

func (h *NotificationHTTP) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid notification id"})
	}

	if err := h.Svc.DeleteNotification(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": id})
}
