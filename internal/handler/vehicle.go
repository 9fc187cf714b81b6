package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/trailhead/vehicle-booking/internal/booking"
	"github.com/trailhead/vehicle-booking/internal/model"
	"github.com/trailhead/vehicle-booking/internal/repository"
)

// VehicleHandler serves fleet management and calendar endpoints.
// Reads are open to every authenticated user; writes are restricted to
// staff by the route middleware.
type VehicleHandler struct {
	Engine   *booking.Engine
	Vehicles *repository.VehicleRepo
}

func NewVehicleHandler(e *booking.Engine, v *repository.VehicleRepo) *VehicleHandler {
	return &VehicleHandler{Engine: e, Vehicles: v}
}

type vehicleReq struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Active      *bool  `json:"active"`
}

type vehicleResp struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Active      bool   `json:"active"`
}

func toVehicleResp(v *model.Vehicle) vehicleResp {
	return vehicleResp{ID: v.ID, Name: v.Name, Type: v.Type, Description: v.Description, Active: v.Active}
}

// Create handles POST /v1/vehicles.
func (h *VehicleHandler) Create(c echo.Context) error {
	var req vehicleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	name := strings.TrimSpace(req.Name)
	typ := strings.ToUpper(strings.TrimSpace(req.Type))
	if name == "" || typ == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and type required"})
	}
	v := &model.Vehicle{Name: name, Type: typ, Description: req.Description, Active: true}
	if req.Active != nil {
		v.Active = *req.Active
	}
	if err := h.Vehicles.Create(c.Request().Context(), v); err != nil {
		if err == repository.ErrVehicleExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "vehicle name already exists"})
		}
		return engineError(c, err)
	}
	return c.JSON(http.StatusCreated, toVehicleResp(v))
}

// List handles GET /v1/vehicles, with an optional ?active=true filter.
func (h *VehicleHandler) List(c echo.Context) error {
	activeOnly := strings.EqualFold(c.QueryParam("active"), "true")
	out, err := h.Vehicles.List(c.Request().Context(), activeOnly)
	if err != nil {
		return engineError(c, err)
	}
	resp := make([]vehicleResp, 0, len(out))
	for i := range out {
		resp = append(resp, toVehicleResp(&out[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

// Get handles GET /v1/vehicles/:id.
func (h *VehicleHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	v, err := h.Vehicles.Get(c.Request().Context(), id)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, toVehicleResp(v))
}

// Update handles PUT /v1/vehicles/:id.
func (h *VehicleHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	v, err := h.Vehicles.Get(c.Request().Context(), id)
	if err != nil {
		return engineError(c, err)
	}
	var req vehicleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		v.Name = name
	}
	if typ := strings.ToUpper(strings.TrimSpace(req.Type)); typ != "" {
		v.Type = typ
	}
	if req.Description != "" {
		v.Description = req.Description
	}
	if req.Active != nil {
		v.Active = *req.Active
	}
	if err := h.Vehicles.Update(c.Request().Context(), v); err != nil {
		if err == repository.ErrVehicleExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "vehicle name already exists"})
		}
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, toVehicleResp(v))
}

// Deactivate handles DELETE /v1/vehicles/:id.  The row survives so
// historical assignments keep their reference; only new bookings are
// refused.
func (h *VehicleHandler) Deactivate(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Vehicles.Deactivate(c.Request().Context(), id); err != nil {
		return engineError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Calendar handles GET /v1/vehicles/:id/calendar?from=...&to=...,
// returning the vehicle's assignments overlapping the half-open window
// [from, to).  Timestamps are RFC3339.
func (h *VehicleHandler) Calendar(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	from, err := time.Parse(time.RFC3339, c.QueryParam("from"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid from timestamp"})
	}
	to, err := time.Parse(time.RFC3339, c.QueryParam("to"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid to timestamp"})
	}
	// 404 for unknown vehicles rather than an empty calendar.
	if _, err := h.Vehicles.Get(c.Request().Context(), id); err != nil {
		return engineError(c, err)
	}
	out, err := h.Engine.VehicleCalendar(c.Request().Context(), id, from, to)
	if err != nil {
		return engineError(c, err)
	}
	resp := make([]assignmentResp, 0, len(out))
	for _, a := range out {
		resp = append(resp, toAssignmentResp(a))
	}
	return c.JSON(http.StatusOK, resp)
}
