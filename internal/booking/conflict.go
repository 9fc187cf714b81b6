package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/trailhead/vehicle-booking/internal/model"
)

// Conflict describes one existing assignment that collides with a
// proposed window on the same vehicle.  It carries enough context for
// the caller to render a useful error without another query.
type Conflict struct {
	AssignmentID uint64    `json:"assignment_id"`
	RequestID    uint64    `json:"request_id"`
	VehicleID    uint64    `json:"vehicle_id"`
	PickupTime   time.Time `json:"pickup_time"`
	ReturnTime   time.Time `json:"return_time"`
}

// ConflictError reports that one or more proposed assignments overlap
// existing bookings.  The whole approval is rejected when this is
// returned; no partial booking state is ever persisted.
type ConflictError struct {
	Conflicts []Conflict
}

func (e *ConflictError) Error() string {
	if len(e.Conflicts) == 0 {
		return "assignment conflicts with an existing booking"
	}
	parts := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		parts = append(parts, fmt.Sprintf("assignment %d on vehicle %d [%s, %s)",
			c.AssignmentID, c.VehicleID,
			c.PickupTime.Format(time.RFC3339), c.ReturnTime.Format(time.RFC3339)))
	}
	return "conflicts with " + strings.Join(parts, "; ")
}

// findConflicts returns every assignment in existing whose window
// overlaps the candidate under the half-open rule, skipping ids in
// exclude (used when re-checking an update so the row being replaced
// does not collide with itself).  Order of the input is preserved.
func findConflicts(candidate Window, existing []model.Assignment, exclude map[uint64]bool) []Conflict {
	var out []Conflict
	for _, a := range existing {
		if exclude[a.ID] {
			continue
		}
		w := Window{Pickup: a.PickupTime, Return: a.ReturnTime}
		if candidate.Overlaps(w) {
			out = append(out, Conflict{
				AssignmentID: a.ID,
				RequestID:    a.RequestID,
				VehicleID:    a.VehicleID,
				PickupTime:   a.PickupTime,
				ReturnTime:   a.ReturnTime,
			})
		}
	}
	return out
}
