// Package booking implements the vehicle request and assignment engine:
// the request lifecycle state machine, the conflict rule that keeps the
// vehicle pool free of double bookings, and the cross-reference sync
// that mirrors request status onto trips.  Persistence sits behind the
// Store interface so the engine itself stays plain Go.
package booking

import "errors"

// ErrNotFound is returned when a request, vehicle or assignment id does
// not resolve to a row.  Handlers should translate this into 404.
var ErrNotFound = errors.New("not found")

// ErrUnauthorized is returned when an actor without the staff
// capability attempts a staff-only transition, or a non-owner edits a
// request.  Handlers should translate this into 403.
var ErrUnauthorized = errors.New("unauthorized")

// ErrBadRequest is returned for malformed input: a TRIP request without
// a trip reference, a SOLO request with one, an assignment onto a
// deactivated vehicle, an empty cancellation set.  Handlers should
// translate this into 400.
var ErrBadRequest = errors.New("bad request")

// ErrInvalidWindow is returned when a window's return instant is not
// strictly after its pickup, or a new approval window is stale.
var ErrInvalidWindow = errors.New("invalid window: return must be after pickup")
