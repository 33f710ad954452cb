package router

import (
	"github.com/labstack/echo/v4"

	"github.com/talentbridge/staffing-platform/internal/handler"
	"github.com/talentbridge/staffing-platform/internal/middleware"
)

// RegisterAdmin registers admin-only endpoints under /v1/admin.  Admins
// moderate the whole board: they can inspect every application, move any
// application's status and pull any posting offline.  The status and
// deactivation handlers are the same ones employers use; the service
// layer recognises the ADMIN role and skips the ownership check.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, emp *handler.EmployerHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)
	g.GET("/applications", a.ListAllApplications)
	g.GET("/jobs/:id/applications", emp.ListJobApplications)
	g.PATCH("/applications/:id/status", emp.UpdateApplicationStatus)
	g.DELETE("/jobs/:id", emp.DeactivateJob)
}
