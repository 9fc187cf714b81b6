package handler // declare the package name; contains HTTP handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/trailhead/vehicle-booking/internal/booking"
	"github.com/trailhead/vehicle-booking/internal/model"
)

// actor builds the engine's caller identity from the claims the JWT
// middleware stored in the request context.  JWT numeric claims decode
// as float64; string subjects are parsed for tolerance.
func actor(c echo.Context) booking.Actor {
	var id uint64
	switch v := c.Get("user_id").(type) {
	case float64:
		id = uint64(v)
	case string:
		if parsed, err := strconv.ParseUint(v, 10, 64); err == nil {
			id = parsed
		}
	}
	role, _ := c.Get("role").(string)
	return booking.Actor{ID: id, Staff: role == model.RoleOPO}
}

// engineError translates the engine's error taxonomy into HTTP
// responses.  Conflicts carry the full list of blocking assignments so
// the client can show which bookings are in the way.
func engineError(c echo.Context, err error) error {
	var conflict *booking.ConflictError
	switch {
	case errors.As(err, &conflict):
		return c.JSON(http.StatusConflict, echo.Map{
			"error":     "assignment conflict",
			"conflicts": conflict.Conflicts,
		})
	case errors.Is(err, booking.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, booking.ErrUnauthorized):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, booking.ErrInvalidWindow), errors.Is(err, booking.ErrBadRequest):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}
