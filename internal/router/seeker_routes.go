package router

import (
	"github.com/labstack/echo/v4"

	"github.com/talentbridge/staffing-platform/internal/handler"
	"github.com/talentbridge/staffing-platform/internal/middleware"
)

// RegisterSeeker registers job-seeker-scoped endpoints under /v1.  All
// routes require a valid JWT and the JOB_SEEKER role.  Seekers can track
// their own applications and maintain a saved-jobs list.
func RegisterSeeker(e *echo.Echo, h *handler.SeekerHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("JOB_SEEKER"),
	)
	g.GET("/my-applications", h.ListMyApplications)
	g.GET("/jobs/:id/applied", h.HasApplied)
	g.POST("/jobs/:id/save", h.ToggleSave)
	g.GET("/saved-jobs", h.ListSavedJobs)
}
