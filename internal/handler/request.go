package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/trailhead/vehicle-booking/internal/booking"
	"github.com/trailhead/vehicle-booking/internal/model"
)

// RequestHandler serves the vehicle request lifecycle endpoints.  All
// business rules live in the booking engine; this layer only binds
// JSON, extracts the caller identity and maps errors to status codes.
type RequestHandler struct {
	Engine *booking.Engine
}

func NewRequestHandler(e *booking.Engine) *RequestHandler { return &RequestHandler{Engine: e} }

// ----- DTOs -----

type lineItemReq struct {
	Type          string    `json:"type"`
	Details       string    `json:"details"`
	PickupTime    time.Time `json:"pickup_time"`
	ReturnTime    time.Time `json:"return_time"`
	TrailerNeeded bool      `json:"trailer_needed"`
	PassNeeded    bool      `json:"pass_needed"`
}

type createRequestReq struct {
	RequestType     string        `json:"request_type"` // SOLO | TRIP
	TripID          *uint64       `json:"trip_id"`
	RequestDetails  string        `json:"request_details"`
	Mileage         uint32        `json:"mileage"`
	NumParticipants uint32        `json:"num_participants"`
	Vehicles        []lineItemReq `json:"requested_vehicles"`
}

type updateRequestReq struct {
	Vehicles []lineItemReq `json:"requested_vehicles"`
}

type lineItemResp struct {
	ID            uint64    `json:"id"`
	Type          string    `json:"type"`
	Details       string    `json:"details,omitempty"`
	PickupTime    time.Time `json:"pickup_time"`
	ReturnTime    time.Time `json:"return_time"`
	TrailerNeeded bool      `json:"trailer_needed"`
	PassNeeded    bool      `json:"pass_needed"`
}

type assignmentResp struct {
	ID            uint64    `json:"id"`
	RequestID     uint64    `json:"request_id"`
	VehicleID     uint64    `json:"vehicle_id"`
	VehicleKey    string    `json:"vehicle_key,omitempty"`
	PickupTime    time.Time `json:"pickup_time"`
	ReturnTime    time.Time `json:"return_time"`
	ResponseIndex int       `json:"response_index"`
	PickedUp      bool      `json:"picked_up"`
	Returned      bool      `json:"returned"`
}

type requestResp struct {
	ID              uint64           `json:"id"`
	Number          uint64           `json:"number"`
	RequesterID     uint64           `json:"requester_id"`
	RequestType     string           `json:"request_type"`
	TripID          *uint64          `json:"trip_id,omitempty"`
	Status          string           `json:"status"`
	RequestDetails  string           `json:"request_details,omitempty"`
	Mileage         uint32           `json:"mileage,omitempty"`
	NumParticipants uint32           `json:"num_participants,omitempty"`
	Vehicles        []lineItemResp   `json:"requested_vehicles"`
	Assignments     []assignmentResp `json:"assignments"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

func toRequestResp(req *model.VehicleRequest) requestResp {
	out := requestResp{
		ID:              req.ID,
		Number:          req.Number,
		RequesterID:     req.RequesterID,
		RequestType:     string(req.Kind),
		TripID:          req.TripID,
		Status:          string(req.Status),
		RequestDetails:  req.RequestDetails,
		Mileage:         req.Mileage,
		NumParticipants: req.NumParticipants,
		Vehicles:        make([]lineItemResp, 0, len(req.LineItems)),
		Assignments:     make([]assignmentResp, 0, len(req.Assignments)),
		CreatedAt:       req.CreatedAt,
		UpdatedAt:       req.UpdatedAt,
	}
	for _, li := range req.LineItems {
		out.Vehicles = append(out.Vehicles, lineItemResp{
			ID:            li.ID,
			Type:          li.Type,
			Details:       li.Details,
			PickupTime:    li.PickupTime,
			ReturnTime:    li.ReturnTime,
			TrailerNeeded: li.TrailerNeeded,
			PassNeeded:    li.PassNeeded,
		})
	}
	for _, a := range req.Assignments {
		out.Assignments = append(out.Assignments, toAssignmentResp(a))
	}
	return out
}

func toAssignmentResp(a model.Assignment) assignmentResp {
	return assignmentResp{
		ID:            a.ID,
		RequestID:     a.RequestID,
		VehicleID:     a.VehicleID,
		VehicleKey:    a.VehicleKey,
		PickupTime:    a.PickupTime,
		ReturnTime:    a.ReturnTime,
		ResponseIndex: a.ResponseIndex,
		PickedUp:      a.PickedUp,
		Returned:      a.Returned,
	}
}

func toLineItemInputs(in []lineItemReq) []booking.LineItemInput {
	items := make([]booking.LineItemInput, 0, len(in))
	for _, li := range in {
		items = append(items, booking.LineItemInput{
			Type:          strings.ToUpper(strings.TrimSpace(li.Type)),
			Details:       li.Details,
			PickupTime:    li.PickupTime,
			ReturnTime:    li.ReturnTime,
			TrailerNeeded: li.TrailerNeeded,
			PassNeeded:    li.PassNeeded,
		})
	}
	return items
}

// Create handles POST /v1/vehicle-requests.  The new request starts
// pending with a freshly assigned request number.
func (h *RequestHandler) Create(c echo.Context) error {
	var req createRequestReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	out, err := h.Engine.Create(c.Request().Context(), actor(c), booking.CreateInput{
		Kind:            model.RequestKind(strings.ToUpper(strings.TrimSpace(req.RequestType))),
		TripID:          req.TripID,
		RequestDetails:  req.RequestDetails,
		Mileage:         req.Mileage,
		NumParticipants: req.NumParticipants,
		LineItems:       toLineItemInputs(req.Vehicles),
	})
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusCreated, toRequestResp(out))
}

// Get handles GET /v1/vehicle-requests/:id.  Staff see every request;
// members only their own.
func (h *RequestHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	out, err := h.Engine.GetRequest(c.Request().Context(), actor(c), id)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, toRequestResp(out))
}

// Update handles PUT /v1/vehicle-requests/:id, replacing the requested
// vehicles wholesale.  Members may edit while the request is pending;
// staff at any time.
func (h *RequestHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updateRequestReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	out, err := h.Engine.Update(c.Request().Context(), actor(c), id, toLineItemInputs(req.Vehicles))
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, toRequestResp(out))
}

// Delete handles DELETE /v1/vehicle-requests/:id.  The optional reason
// query parameter is carried into the deletion notification.
func (h *RequestHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Engine.Delete(c.Request().Context(), actor(c), id, c.QueryParam("reason")); err != nil {
		return engineError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// List handles GET /v1/vehicle-requests (staff only), with an optional
// ?status=pending|approved|denied filter.
func (h *RequestHandler) List(c echo.Context) error {
	var status *model.RequestStatus
	if s := strings.ToLower(strings.TrimSpace(c.QueryParam("status"))); s != "" {
		switch model.RequestStatus(s) {
		case model.StatusPending, model.StatusApproved, model.StatusDenied:
			st := model.RequestStatus(s)
			status = &st
		default:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
		}
	}
	out, err := h.Engine.ListRequests(c.Request().Context(), actor(c), status)
	if err != nil {
		return engineError(c, err)
	}
	resp := make([]requestResp, 0, len(out))
	for i := range out {
		resp = append(resp, toRequestResp(&out[i]))
	}
	return c.JSON(http.StatusOK, resp)
}
