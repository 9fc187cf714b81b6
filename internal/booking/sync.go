package booking

import (
	"context"
	"log"

	"github.com/trailhead/vehicle-booking/internal/model"
)

// Event names the lifecycle transition being propagated to the trip
// mirror and the notification dispatcher.
type Event string

const (
	EventRequested Event = "requested"
	EventApproved  Event = "approved"
	EventDenied    Event = "denied"
	EventCancelled Event = "cancelled"
	EventDeleted   Event = "deleted"
)

// TripStatusNone is written to a trip's vehicle-status mirror when its
// request is deleted outright.
const TripStatusNone = "N/A"

// notification templates, resolved by the dispatcher
const (
	tmplRequested = "vehicle-request-submitted"
	tmplApproved  = "vehicle-request-approved"
	tmplChanged   = "vehicle-request-changed"
)

// crossRefSync keeps an associated trip's derived vehicle-status in
// lock-step with the request and enqueues notification events.  It
// runs after the owning transaction has committed and never fails the
// parent operation: every error here is logged and swallowed.
type crossRefSync struct {
	trips    TripStore
	notifier Notifier
}

// sync propagates one lifecycle event.  For SOLO requests only the
// notification is emitted.  For TRIP requests the trip's vehicle-status
// is written to exactly the request's status (or N/A on deletion), and
// the trip leader is added to the recipient set.
func (s *crossRefSync) sync(ctx context.Context, req *model.VehicleRequest, event Event, reason string) {
	recipients := []uint64{req.RequesterID}

	if req.Kind == model.KindTrip && req.TripID != nil {
		tripID := *req.TripID
		status := string(req.Status)
		if event == EventDeleted {
			status = TripStatusNone
		}
		if s.trips != nil {
			if err := s.trips.SetVehicleStatus(ctx, tripID, status); err != nil {
				log.Printf("crossref-sync: set trip %d vehicle status %q failed: %v", tripID, status, err)
			}
			if trip, err := s.trips.Get(ctx, tripID); err != nil {
				log.Printf("crossref-sync: load trip %d failed: %v", tripID, err)
			} else if trip.LeaderID != 0 && trip.LeaderID != req.RequesterID {
				recipients = append(recipients, trip.LeaderID)
			}
		}
	}

	if s.notifier == nil {
		return
	}
	tmpl := tmplChanged
	switch event {
	case EventRequested:
		tmpl = tmplRequested
	case EventApproved:
		tmpl = tmplApproved
	}
	data := map[string]interface{}{
		"request_id":     req.ID,
		"request_number": req.Number,
		"event":          string(event),
		"status":         string(req.Status),
	}
	if reason != "" {
		data["reason"] = reason
	}
	if req.TripID != nil {
		data["trip_id"] = *req.TripID
	}
	if err := s.notifier.Send(ctx, tmpl, recipients, data); err != nil {
		log.Printf("crossref-sync: notify %s for request %d failed: %v", tmpl, req.ID, err)
	}
}
