package router

import (
	"github.com/labstack/echo/v4"

	"github.com/talentbridge/staffing-platform/internal/handler"
	"github.com/talentbridge/staffing-platform/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while session-scoped endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Rotates the refresh token and issues a fresh access token.
	g.POST("/refresh", a.Refresh)
	// Logout carries no middleware on purpose: the handler resolves the
	// caller from a bearer access token or, failing that, from a refresh
	// token in the body, so expired sessions can still sign out.
	g.POST("/logout", a.Logout)

	// Retry path for registrations whose role or profile write failed.
	// The account exists but carries no role yet, so only a bare JWT is
	// required here; RequireRole would lock the caller out of the very
	// endpoint that repairs the situation.
	repair := e.Group("/v1/auth", middleware.JWTAuth(jwtSecret))
	repair.POST("/complete-signup", a.CompleteSignup)

	// Session and profile endpoints accept any assigned role.
	auth := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
	)
	auth.GET("/me", a.Me)

	profile := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN", "EMPLOYER", "JOB_SEEKER"),
	)
	profile.GET("/profile", a.GetProfile)
	profile.PUT("/profile", a.UpdateProfile)
}
