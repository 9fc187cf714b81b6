package router

import (
	"github.com/labstack/echo/v4"

	"github.com/trailhead/vehicle-booking/internal/handler"
	"github.com/trailhead/vehicle-booking/internal/middleware"
	"github.com/trailhead/vehicle-booking/internal/model"
)

// RegisterBooking registers the vehicle request lifecycle endpoints
// under /v1.  Every route requires a valid JWT.  Creating, reading,
// updating and deleting requests is open to members and staff alike;
// the handlers enforce the ownership rules (members only touch their
// own pending requests).
func RegisterBooking(e *echo.Echo, r *handler.RequestHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleOPO, model.RoleMember),
	)
	g.POST("/vehicle-requests", r.Create)
	g.GET("/vehicle-requests/:id", r.Get)
	g.PUT("/vehicle-requests/:id", r.Update)
	g.DELETE("/vehicle-requests/:id", r.Delete)
	// Listing every request is a staff view; the engine rejects
	// non-staff callers.
	g.GET("/vehicle-requests", r.List)
}

// RegisterStaff registers the OPO-only decision endpoints: approvals,
// denials, assignment cancellation and the key desk check-out/check-in
// flow.  The role middleware rejects member tokens before the handler
// runs.
func RegisterStaff(e *echo.Echo, s *handler.StaffHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleOPO),
	)
	g.POST("/vehicle-requests/:id/approve", s.Approve)
	g.POST("/vehicle-requests/:id/deny", s.Deny)
	g.POST("/vehicle-requests/:id/cancel-assignments", s.CancelAssignments)
	g.POST("/assignments/:id/checkout", s.CheckOut)
	g.POST("/assignments/:id/checkin", s.CheckIn)
	g.GET("/assignments/active", s.ActiveAssignments)
}

// RegisterVehicles registers fleet endpoints.  Reading the fleet and
// its calendars is open to every authenticated user so members can
// plan around availability; mutations require the OPO role.
func RegisterVehicles(e *echo.Echo, v *handler.VehicleHandler, jwtSecret string) {
	read := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleOPO, model.RoleMember),
	)
	read.GET("/vehicles", v.List)
	read.GET("/vehicles/:id", v.Get)
	read.GET("/vehicles/:id/calendar", v.Calendar)

	write := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleOPO),
	)
	write.POST("/vehicles", v.Create)
	write.PUT("/vehicles/:id", v.Update)
	write.DELETE("/vehicles/:id", v.Deactivate)
}
