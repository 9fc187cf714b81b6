package booking

import "time"

// ApprovalGrace is how far in the past a pickup may lie when staff
// approve a new assignment.  Windows fully in the past were usually
// typos; the grace absorbs the gap between filling in the form and
// submitting it.  Historical rows are never re-validated against it.
const ApprovalGrace = time.Hour

// Window is a normalized, validated pickup/return pair.  Both instants
// are UTC and the interval is half-open: the vehicle is booked from
// Pickup inclusive to Return exclusive, so a return instant equal to
// the next booking's pickup does not collide.
type Window struct {
	Pickup time.Time
	Return time.Time
}

// NewWindow validates and normalizes a pickup/return pair.  It returns
// ErrInvalidWindow when the return instant is not strictly after the
// pickup instant.
func NewWindow(pickup, ret time.Time) (Window, error) {
	pickup = pickup.UTC()
	ret = ret.UTC()
	if !ret.After(pickup) {
		return Window{}, ErrInvalidWindow
	}
	return Window{Pickup: pickup, Return: ret}, nil
}

// NewApprovalWindow is NewWindow plus the staleness rule for new
// approvals: a pickup more than ApprovalGrace before now is rejected
// with ErrInvalidWindow.  Use NewWindow for line items and for data
// already persisted.
func NewApprovalWindow(pickup, ret, now time.Time) (Window, error) {
	w, err := NewWindow(pickup, ret)
	if err != nil {
		return Window{}, err
	}
	if w.Pickup.Before(now.UTC().Add(-ApprovalGrace)) {
		return Window{}, ErrInvalidWindow
	}
	return w, nil
}

// Overlaps reports whether two windows conflict under the half-open
// convention: A and B overlap iff A.Pickup < B.Return and
// B.Pickup < A.Return.  Back-to-back windows do not overlap.
func (w Window) Overlaps(o Window) bool {
	return w.Pickup.Before(o.Return) && o.Pickup.Before(w.Return)
}
