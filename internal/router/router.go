package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/trailhead/vehicle-booking/internal/handler"    // import the handlers that implement business logic
	"github.com/trailhead/vehicle-booking/internal/middleware" // import middleware for JWT authentication and role enforcement
	"github.com/trailhead/vehicle-booking/internal/model"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Load balancers and monitoring systems use this endpoint to verify
	// that the service is up.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers authentication routes and the protected /v1/me
// endpoint.  Unauthenticated operations live under /v1/auth, while
// protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole(model.RoleOPO, model.RoleMember))
	auth.GET("/me", a.Me)
}
