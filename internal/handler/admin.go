package handler

// Admin dashboard endpoints.  Admins see every application and may move
// any application's status, but they do not inherit employer or seeker
// dashboards: the role middleware admits exactly one role per area.

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/talentbridge/staffing-platform/internal/service"
)

// AdminHandler serves the admin-only surfaces.
type AdminHandler struct {
    Applications *service.ApplicationService
}

func NewAdminHandler(applications *service.ApplicationService) *AdminHandler {
    if applications == nil {
        panic("nil service passed to NewAdminHandler")
    }
    return &AdminHandler{Applications: applications}
}

// ListAllApplications handles GET /v1/admin/applications.
func (h *AdminHandler) ListAllApplications(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    apps, err := h.Applications.ListAll(ctx, getRole(c))
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load applications"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": apps, "count": len(apps)})
}
