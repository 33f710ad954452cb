package router

import (
	"github.com/labstack/echo/v4"

	"github.com/talentbridge/staffing-platform/internal/handler"
)

// RegisterPublic registers the guest-facing job board endpoints.  Browse
// routes carry no auth middleware at all; Apply parses a bearer token
// itself when one is present so guests and signed-in seekers share the
// same endpoint.  Extra middleware (response caching) may be passed in
// and is applied to the browse routes only -- cached application
// submissions would be a bug, not a feature.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, browseMW ...echo.MiddlewareFunc) {
	e.GET("/v1/jobs", p.ListJobs, browseMW...)
	e.GET("/v1/jobs/:id", p.GetJob, browseMW...)
	e.POST("/v1/jobs/:id/apply", p.Apply)
}
