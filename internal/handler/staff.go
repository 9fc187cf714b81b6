package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/trailhead/vehicle-booking/internal/booking"
)

// StaffHandler serves the OPO-only decision endpoints: approving and
// denying requests, cancelling individual assignments, and the vehicle
// check-out/check-in desk.
type StaffHandler struct {
	Engine *booking.Engine
}

func NewStaffHandler(e *booking.Engine) *StaffHandler { return &StaffHandler{Engine: e} }

type proposedAssignmentReq struct {
	VehicleID     uint64    `json:"vehicle_id"`
	VehicleKey    string    `json:"vehicle_key"`
	PickupTime    time.Time `json:"pickup_time"`
	ReturnTime    time.Time `json:"return_time"`
	ResponseIndex int       `json:"response_index"`
}

type approveReq struct {
	Assignments []proposedAssignmentReq `json:"assignments"`
}

type cancelAssignmentsReq struct {
	AssignmentIDs []uint64 `json:"assignment_ids"`
}

// Approve handles POST /v1/vehicle-requests/:id/approve.  The proposed
// assignment set replaces whatever was booked before; one conflict
// anywhere rejects the whole approval with a 409 listing the blocking
// bookings.
func (h *StaffHandler) Approve(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req approveReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	proposed := make([]booking.ProposedAssignment, 0, len(req.Assignments))
	for _, a := range req.Assignments {
		proposed = append(proposed, booking.ProposedAssignment{
			VehicleID:     a.VehicleID,
			VehicleKey:    a.VehicleKey,
			PickupTime:    a.PickupTime,
			ReturnTime:    a.ReturnTime,
			ResponseIndex: a.ResponseIndex,
		})
	}
	out, err := h.Engine.Approve(c.Request().Context(), actor(c), id, proposed)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, toRequestResp(out))
}

// Deny handles POST /v1/vehicle-requests/:id/deny, dropping any
// existing assignments.
func (h *StaffHandler) Deny(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Engine.Deny(c.Request().Context(), actor(c), id); err != nil {
		return engineError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// CancelAssignments handles POST /v1/vehicle-requests/:id/cancel-assignments.
// Removing the last assignment flips the request to denied.
func (h *StaffHandler) CancelAssignments(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req cancelAssignmentsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := h.Engine.CancelAssignments(c.Request().Context(), actor(c), id, req.AssignmentIDs); err != nil {
		return engineError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// CheckOut handles POST /v1/assignments/:id/checkout, marking the
// vehicle as picked up.
func (h *StaffHandler) CheckOut(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Engine.CheckOut(c.Request().Context(), actor(c), id); err != nil {
		return engineError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// CheckIn handles POST /v1/assignments/:id/checkin, marking the
// vehicle as returned.
func (h *StaffHandler) CheckIn(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Engine.CheckIn(c.Request().Context(), actor(c), id); err != nil {
		return engineError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ActiveAssignments handles GET /v1/assignments/active: every
// assignment whose pickup has passed and whose vehicle is still out.
func (h *StaffHandler) ActiveAssignments(c echo.Context) error {
	out, err := h.Engine.OverdueOrActive(c.Request().Context(), time.Now().UTC())
	if err != nil {
		return engineError(c, err)
	}
	resp := make([]assignmentResp, 0, len(out))
	for _, a := range out {
		resp = append(resp, toAssignmentResp(a))
	}
	return c.JSON(http.StatusOK, resp)
}
