package booking

import (
	"context"
	"time"

	"github.com/trailhead/vehicle-booking/internal/model"
)

// Store is the persistence boundary of the engine.  Mutations go
// through Atomic, which runs the given function inside one transaction:
// either every write in the function is applied or none is, and rows
// read "for update" inside it stay locked until it returns.  Reads that
// need no locking use the top-level methods.
//
// Two implementations exist: the MySQL store in internal/repository
// (production) and the in-memory store in booking/memstore (tests).
type Store interface {
	// Atomic runs fn inside a transaction.  A non-nil error from fn
	// rolls every write back and is returned unchanged.
	Atomic(ctx context.Context, fn func(tx Tx) error) error

	// GetRequest loads a request with its line items and assignments.
	// Returns ErrNotFound for an unknown id.
	GetRequest(ctx context.Context, id uint64) (*model.VehicleRequest, error)

	// ListRequests returns requests filtered by status; a nil status
	// returns everything.  Line items and assignments are included.
	ListRequests(ctx context.Context, status *model.RequestStatus) ([]model.VehicleRequest, error)

	// ListAssignmentsInWindow returns the vehicle's assignments whose
	// windows overlap [from, to), ordered by pickup time.  Used for
	// calendar rendering.
	ListAssignmentsInWindow(ctx context.Context, vehicleID uint64, from, to time.Time) ([]model.Assignment, error)

	// ListOverdueOrActive returns every assignment whose pickup is at
	// or before now and which has not been checked back in.
	ListOverdueOrActive(ctx context.Context, now time.Time) ([]model.Assignment, error)
}

// Tx is the transactional surface handed to Atomic callbacks.  Methods
// returning model pointers load the full record; ...ForUpdate methods
// additionally take a row lock so concurrent approvals of the same
// request or vehicle serialize instead of racing the conflict check.
type Tx interface {
	// NextRequestNumber atomically increments and returns the global
	// request counter.  Numbers are unique; gaps are acceptable.
	NextRequestNumber(ctx context.Context) (uint64, error)

	// InsertRequest persists a new request and its line items,
	// populating req.ID and the line item ids.
	InsertRequest(ctx context.Context, req *model.VehicleRequest) error

	// GetRequestForUpdate loads a request (line items and assignments
	// included) and locks its row for the rest of the transaction.
	GetRequestForUpdate(ctx context.Context, id uint64) (*model.VehicleRequest, error)

	// ReplaceLineItems deletes the request's line items and inserts
	// the given set in order.
	ReplaceLineItems(ctx context.Context, requestID uint64, items []model.RequestedVehicle) error

	// SetRequestStatus writes the tristate status column.
	SetRequestStatus(ctx context.Context, requestID uint64, status model.RequestStatus) error

	// DeleteRequest removes the request and its line items.  The
	// caller is responsible for deleting assignments first.
	DeleteRequest(ctx context.Context, requestID uint64) error

	// GetVehicleForUpdate loads a vehicle and locks its row,
	// serializing conflict checks per vehicle.  Returns ErrNotFound
	// for an unknown id.
	GetVehicleForUpdate(ctx context.Context, id uint64) (*model.Vehicle, error)

	// ListVehicleAssignments returns all assignments currently booked
	// on the vehicle.  Implementations must read committed rows, not a
	// snapshot taken before the vehicle lock was acquired, or the
	// conflict check can miss a booking that won the lock race.
	ListVehicleAssignments(ctx context.Context, vehicleID uint64) ([]model.Assignment, error)

	// InsertAssignment persists a new assignment, populating a.ID.
	InsertAssignment(ctx context.Context, a *model.Assignment) error

	// DeleteAssignmentsByRequest removes every assignment owned by the
	// request and returns how many were removed.
	DeleteAssignmentsByRequest(ctx context.Context, requestID uint64) (int, error)

	// DeleteAssignments removes the given assignments by id.
	DeleteAssignments(ctx context.Context, ids []uint64) error

	// GetAssignment loads one assignment.  Returns ErrNotFound for an
	// unknown id.
	GetAssignment(ctx context.Context, id uint64) (*model.Assignment, error)

	// SetAssignmentFlags writes the picked_up/returned flags.
	SetAssignmentFlags(ctx context.Context, id uint64, pickedUp, returned bool) error
}

// TripStore is the cross-reference into the trip subsystem: the engine
// only mirrors the request status onto the trip row and reads the
// leader for notifications.
type TripStore interface {
	Get(ctx context.Context, id uint64) (*model.Trip, error)
	SetVehicleStatus(ctx context.Context, id uint64, status string) error
}

// Notifier dispatches a notification event.  Implementations are
// fire-and-forget: the engine logs and swallows any error, and a
// failed send never unwinds a committed booking.
type Notifier interface {
	Send(ctx context.Context, template string, recipients []uint64, data map[string]interface{}) error
}
