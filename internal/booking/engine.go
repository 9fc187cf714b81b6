package booking

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/trailhead/vehicle-booking/internal/model"
)

// Actor is the pre-authorized caller identity handed down from the
// authentication layer.  Staff is the OPO capability: approving,
// denying and cancelling bookings, and editing any request.
type Actor struct {
	ID    uint64
	Staff bool
}

// LineItemInput is one requested vehicle within a create/update call.
type LineItemInput struct {
	Type          string
	Details       string
	PickupTime    time.Time
	ReturnTime    time.Time
	TrailerNeeded bool
	PassNeeded    bool
}

// CreateInput carries everything needed to open a new vehicle request.
type CreateInput struct {
	Kind            model.RequestKind
	TripID          *uint64
	RequestDetails  string
	Mileage         uint32
	NumParticipants uint32
	LineItems       []LineItemInput
}

// ProposedAssignment is one concrete booking a staff member proposes
// while approving a request.
type ProposedAssignment struct {
	VehicleID     uint64
	VehicleKey    string
	PickupTime    time.Time
	ReturnTime    time.Time
	ResponseIndex int
}

// Engine owns the vehicle request lifecycle.  All mutations run inside
// one store transaction; the conflict check and the assignment write
// are never separate round-trips, so two staff members approving
// bookings for the same vehicle serialize on the vehicle row instead
// of double-booking it.  Trip mirroring and notifications run after
// commit and are best-effort.
type Engine struct {
	store Store
	xref  crossRefSync
	now   func() time.Time
}

// NewEngine builds an Engine.  trips and notifier may be nil (SOLO-only
// deployments, tests); the corresponding sync steps become no-ops.
func NewEngine(store Store, trips TripStore, notifier Notifier) *Engine {
	return &Engine{
		store: store,
		xref:  crossRefSync{trips: trips, notifier: notifier},
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Create validates and persists a new request with status pending,
// assigning the next global request number inside the same transaction.
func (e *Engine) Create(ctx context.Context, actor Actor, in CreateInput) (*model.VehicleRequest, error) {
	switch in.Kind {
	case model.KindTrip:
		if in.TripID == nil {
			return nil, fmt.Errorf("%w: TRIP request needs a trip reference", ErrBadRequest)
		}
	case model.KindSolo:
		if in.TripID != nil {
			return nil, fmt.Errorf("%w: SOLO request must not reference a trip", ErrBadRequest)
		}
	default:
		return nil, fmt.Errorf("%w: unknown request kind %q", ErrBadRequest, in.Kind)
	}

	items, err := validateLineItems(in.LineItems)
	if err != nil {
		return nil, err
	}

	req := &model.VehicleRequest{
		RequesterID:     actor.ID,
		RequestDetails:  in.RequestDetails,
		Mileage:         in.Mileage,
		NumParticipants: in.NumParticipants,
		TripID:          in.TripID,
		Kind:            in.Kind,
		Status:          model.StatusPending,
		LineItems:       items,
	}

	err = e.store.Atomic(ctx, func(tx Tx) error {
		number, err := tx.NextRequestNumber(ctx)
		if err != nil {
			return err
		}
		req.Number = number
		return tx.InsertRequest(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	e.xref.sync(ctx, req, EventRequested, "")
	return e.store.GetRequest(ctx, req.ID)
}

// Update replaces the request's line items wholesale.  Permitted for
// the requester while the request is pending, and for staff at any
// status.  Assignments are untouched: changing an approved booking
// goes through Approve again.
func (e *Engine) Update(ctx context.Context, actor Actor, requestID uint64, lineItems []LineItemInput) (*model.VehicleRequest, error) {
	items, err := validateLineItems(lineItems)
	if err != nil {
		return nil, err
	}

	err = e.store.Atomic(ctx, func(tx Tx) error {
		req, err := tx.GetRequestForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if !actor.Staff && !(req.Status == model.StatusPending && req.RequesterID == actor.ID) {
			return ErrUnauthorized
		}
		return tx.ReplaceLineItems(ctx, requestID, items)
	})
	if err != nil {
		return nil, err
	}
	return e.store.GetRequest(ctx, requestID)
}

// Approve replaces the request's assignment set with the proposed one
// and marks the request approved.  Every proposed booking is checked
// against the current state of the whole vehicle pool; one conflict
// rejects the entire approval and leaves the prior assignment set and
// status untouched.  Re-approving an approved request is the supported
// way to change its bookings: replace semantics, never accumulation.
func (e *Engine) Approve(ctx context.Context, actor Actor, requestID uint64, proposed []ProposedAssignment) (*model.VehicleRequest, error) {
	if !actor.Staff {
		return nil, ErrUnauthorized
	}
	if len(proposed) == 0 {
		return nil, fmt.Errorf("%w: approval needs at least one assignment", ErrBadRequest)
	}

	now := e.now()
	windows := make([]Window, len(proposed))
	for i, p := range proposed {
		w, err := NewApprovalWindow(p.PickupTime, p.ReturnTime, now)
		if err != nil {
			return nil, fmt.Errorf("assignment %d: %w", i, err)
		}
		windows[i] = w
	}

	var synced model.VehicleRequest
	err := e.store.Atomic(ctx, func(tx Tx) error {
		req, err := tx.GetRequestForUpdate(ctx, requestID)
		if err != nil {
			return err
		}

		// Drop the prior set first so the replacement is checked
		// against every other request's bookings, not our own.
		if _, err := tx.DeleteAssignmentsByRequest(ctx, requestID); err != nil {
			return err
		}

		// Lock vehicles in id order to keep concurrent approvals
		// deadlock-free.
		for _, vid := range distinctVehicleIDs(proposed) {
			v, err := tx.GetVehicleForUpdate(ctx, vid)
			if err != nil {
				return err
			}
			if !v.Active {
				return fmt.Errorf("%w: vehicle %q is deactivated", ErrBadRequest, v.Name)
			}
		}

		req.Assignments = req.Assignments[:0]
		for i, p := range proposed {
			existing, err := tx.ListVehicleAssignments(ctx, p.VehicleID)
			if err != nil {
				return err
			}
			if conflicts := findConflicts(windows[i], existing, nil); len(conflicts) > 0 {
				return &ConflictError{Conflicts: conflicts}
			}
			a := &model.Assignment{
				RequestID:     requestID,
				RequesterID:   req.RequesterID,
				VehicleID:     p.VehicleID,
				VehicleKey:    p.VehicleKey,
				PickupTime:    windows[i].Pickup,
				ReturnTime:    windows[i].Return,
				ResponseIndex: p.ResponseIndex,
			}
			if err := tx.InsertAssignment(ctx, a); err != nil {
				return err
			}
			req.Assignments = append(req.Assignments, *a)
		}

		if err := tx.SetRequestStatus(ctx, requestID, model.StatusApproved); err != nil {
			return err
		}
		req.Status = model.StatusApproved
		synced = *req
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.xref.sync(ctx, &synced, EventApproved, "")
	return e.store.GetRequest(ctx, requestID)
}

// Deny removes every assignment (if any) and marks the request denied.
func (e *Engine) Deny(ctx context.Context, actor Actor, requestID uint64) error {
	if !actor.Staff {
		return ErrUnauthorized
	}
	var synced model.VehicleRequest
	err := e.store.Atomic(ctx, func(tx Tx) error {
		req, err := tx.GetRequestForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if _, err := tx.DeleteAssignmentsByRequest(ctx, requestID); err != nil {
			return err
		}
		if err := tx.SetRequestStatus(ctx, requestID, model.StatusDenied); err != nil {
			return err
		}
		req.Status = model.StatusDenied
		req.Assignments = nil
		synced = *req
		return nil
	})
	if err != nil {
		return err
	}
	e.xref.sync(ctx, &synced, EventDenied, "")
	return nil
}

// CancelAssignments removes only the named assignments.  Partial
// cancellation is allowed, but a single id not belonging to the request
// fails the whole call rather than being skipped silently.  When the
// last assignment goes, the request (and its trip mirror) reverts to
// denied.
func (e *Engine) CancelAssignments(ctx context.Context, actor Actor, requestID uint64, ids []uint64) error {
	if !actor.Staff {
		return ErrUnauthorized
	}
	if len(ids) == 0 {
		return fmt.Errorf("%w: no assignment ids given", ErrBadRequest)
	}
	var synced model.VehicleRequest
	err := e.store.Atomic(ctx, func(tx Tx) error {
		req, err := tx.GetRequestForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		owned := make(map[uint64]bool, len(req.Assignments))
		for _, a := range req.Assignments {
			owned[a.ID] = true
		}
		// Dedupe before deleting: the stores treat a short row count as
		// an unknown id, and a repeated id is not an invalid one.
		cancel := make(map[uint64]bool, len(ids))
		unique := make([]uint64, 0, len(ids))
		for _, id := range ids {
			if !owned[id] {
				return fmt.Errorf("assignment %d: %w", id, ErrNotFound)
			}
			if !cancel[id] {
				cancel[id] = true
				unique = append(unique, id)
			}
		}
		if err := tx.DeleteAssignments(ctx, unique); err != nil {
			return err
		}
		remaining := req.Assignments[:0]
		for _, a := range req.Assignments {
			if !cancel[a.ID] {
				remaining = append(remaining, a)
			}
		}
		req.Assignments = remaining
		if len(remaining) == 0 {
			if err := tx.SetRequestStatus(ctx, requestID, model.StatusDenied); err != nil {
				return err
			}
			req.Status = model.StatusDenied
		}
		synced = *req
		return nil
	})
	if err != nil {
		return err
	}
	e.xref.sync(ctx, &synced, EventCancelled, "")
	return nil
}

// Delete removes the request, its line items and all its assignments.
// Staff may delete anything; a requester may delete their own request
// while it is still pending.  The reason is carried into the deletion
// notification only.
func (e *Engine) Delete(ctx context.Context, actor Actor, requestID uint64, reason string) error {
	var synced model.VehicleRequest
	err := e.store.Atomic(ctx, func(tx Tx) error {
		req, err := tx.GetRequestForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if !actor.Staff && !(req.Status == model.StatusPending && req.RequesterID == actor.ID) {
			return ErrUnauthorized
		}
		if _, err := tx.DeleteAssignmentsByRequest(ctx, requestID); err != nil {
			return err
		}
		if err := tx.DeleteRequest(ctx, requestID); err != nil {
			return err
		}
		synced = *req
		return nil
	})
	if err != nil {
		return err
	}
	e.xref.sync(ctx, &synced, EventDeleted, reason)
	return nil
}

// CheckOut marks an assignment's vehicle as picked up.
func (e *Engine) CheckOut(ctx context.Context, actor Actor, assignmentID uint64) error {
	return e.setFlags(ctx, actor, assignmentID, true)
}

// CheckIn marks an assignment's vehicle as returned.
func (e *Engine) CheckIn(ctx context.Context, actor Actor, assignmentID uint64) error {
	return e.setFlags(ctx, actor, assignmentID, false)
}

func (e *Engine) setFlags(ctx context.Context, actor Actor, assignmentID uint64, pickup bool) error {
	if !actor.Staff {
		return ErrUnauthorized
	}
	return e.store.Atomic(ctx, func(tx Tx) error {
		a, err := tx.GetAssignment(ctx, assignmentID)
		if err != nil {
			return err
		}
		if pickup {
			a.PickedUp = true
		} else {
			a.Returned = true
		}
		return tx.SetAssignmentFlags(ctx, assignmentID, a.PickedUp, a.Returned)
	})
}

// GetRequest returns a request with line items and assignments.  Staff
// see everything; members only their own requests.
func (e *Engine) GetRequest(ctx context.Context, actor Actor, id uint64) (*model.VehicleRequest, error) {
	req, err := e.store.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Staff && req.RequesterID != actor.ID {
		return nil, ErrUnauthorized
	}
	return req, nil
}

// ListRequests returns requests filtered by status (staff only).
func (e *Engine) ListRequests(ctx context.Context, actor Actor, status *model.RequestStatus) ([]model.VehicleRequest, error) {
	if !actor.Staff {
		return nil, ErrUnauthorized
	}
	return e.store.ListRequests(ctx, status)
}

// VehicleCalendar returns the vehicle's assignments overlapping
// [from, to), for calendar rendering.
func (e *Engine) VehicleCalendar(ctx context.Context, vehicleID uint64, from, to time.Time) ([]model.Assignment, error) {
	if _, err := NewWindow(from, to); err != nil {
		return nil, err
	}
	return e.store.ListAssignmentsInWindow(ctx, vehicleID, from.UTC(), to.UTC())
}

// OverdueOrActive returns every assignment whose pickup has passed and
// whose vehicle has not been checked back in.
func (e *Engine) OverdueOrActive(ctx context.Context, now time.Time) ([]model.Assignment, error) {
	return e.store.ListOverdueOrActive(ctx, now.UTC())
}

func validateLineItems(in []LineItemInput) ([]model.RequestedVehicle, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: request needs at least one vehicle", ErrBadRequest)
	}
	items := make([]model.RequestedVehicle, 0, len(in))
	for i, li := range in {
		w, err := NewWindow(li.PickupTime, li.ReturnTime)
		if err != nil {
			return nil, fmt.Errorf("line item %d: %w", i, err)
		}
		items = append(items, model.RequestedVehicle{
			Type:          li.Type,
			Details:       li.Details,
			PickupTime:    w.Pickup,
			ReturnTime:    w.Return,
			TrailerNeeded: li.TrailerNeeded,
			PassNeeded:    li.PassNeeded,
		})
	}
	return items, nil
}

func distinctVehicleIDs(proposed []ProposedAssignment) []uint64 {
	seen := make(map[uint64]struct{}, len(proposed))
	ids := make([]uint64, 0, len(proposed))
	for _, p := range proposed {
		if _, ok := seen[p.VehicleID]; !ok {
			seen[p.VehicleID] = struct{}{}
			ids = append(ids, p.VehicleID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
