package router

import (
	"github.com/labstack/echo/v4"

	"github.com/talentbridge/staffing-platform/internal/handler"
	"github.com/talentbridge/staffing-platform/internal/middleware"
)

// RegisterEmployer registers employer-scoped endpoints under /v1.  All
// routes require a valid JWT and the EMPLOYER role.  Ownership of the
// targeted job is enforced again inside the repositories, so a valid
// employer token alone never grants access to another employer's data.
func RegisterEmployer(e *echo.Echo, h *handler.EmployerHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("EMPLOYER"),
	)
	g.POST("/jobs", h.CreateJob)
	g.PUT("/jobs/:id", h.UpdateJob)
	g.DELETE("/jobs/:id", h.DeactivateJob)
	g.GET("/employer/jobs", h.ListMyJobs)
	g.GET("/jobs/:id/applications", h.ListJobApplications)
	g.PATCH("/applications/:id/status", h.UpdateApplicationStatus)
}
