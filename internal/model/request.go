package model

import "time"

// RequestKind distinguishes a standalone vehicle request from one tied
// to a trip record whose derived vehicle-status mirrors the request.
type RequestKind string

const (
	KindSolo RequestKind = "SOLO"
	KindTrip RequestKind = "TRIP"
)

// RequestStatus is the lifecycle state of a vehicle request.  It is
// persisted as the tristate vehiclerequests.is_approved column:
// NULL = pending, 1 = approved, 0 = denied.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusDenied   RequestStatus = "denied"
)

// VehicleRequest is a request for zero or more vehicles over a set of
// desired windows.  The line items are the "asks"; the assignments,
// created only on staff approval, are the "answers".  A request holds
// assignments iff it is approved.
//
// Fields:
//  ID             – primary key identifier.
//  Number         – unique, monotonically increasing human-facing number,
//                   assigned at creation from the request counter.
//  RequesterID    – user who created the request.
//  RequestDetails – free-text justification.
//  Mileage        – estimated mileage (metadata, not enforced).
//  NumParticipants– requested headcount (metadata, not enforced).
//  TripID         – associated trip; set iff Kind is TRIP.
//  Kind           – SOLO or TRIP.
//  Status         – pending, approved or denied.
//  LineItems      – ordered requested vehicles.
//  Assignments    – ordered concrete bookings (empty unless approved).
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type VehicleRequest struct {
	ID              uint64        // vehiclerequests.id
	Number          uint64        // vehiclerequests.number
	RequesterID     uint64        // vehiclerequests.requester
	RequestDetails  string        // vehiclerequests.request_details
	Mileage         uint32        // vehiclerequests.mileage
	NumParticipants uint32        // vehiclerequests.num_participants
	TripID          *uint64       // vehiclerequests.trip (nullable)
	Kind            RequestKind   // vehiclerequests.request_type
	Status          RequestStatus // vehiclerequests.is_approved (tristate)
	LineItems       []RequestedVehicle
	Assignments     []Assignment
	CreatedAt       time.Time // vehiclerequests.created_at
	UpdatedAt       time.Time // vehiclerequests.updated_at
}

// RequestedVehicle is one line item within a vehicle request: a desired
// vehicle category plus a pickup/return window and equipment flags.
//
// Fields:
//  ID            – primary key identifier.
//  RequestID     – owning vehicle request.
//  Type          – desired vehicle category.
//  Details       – free-text notes for this ask.
//  PickupTime    – desired pickup instant (UTC).
//  ReturnTime    – desired return instant (UTC, strictly after pickup).
//  TrailerNeeded – whether a trailer hitch is required.
//  PassNeeded    – whether a gate/park pass is required.
type RequestedVehicle struct {
	ID            uint64    // requested_vehicles.id
	RequestID     uint64    // requested_vehicles.vehiclerequest
	Type          string    // requested_vehicles.type
	Details       string    // requested_vehicles.details
	PickupTime    time.Time // requested_vehicles.pickup_time
	ReturnTime    time.Time // requested_vehicles.return_time
	TrailerNeeded bool      // requested_vehicles.trailer_needed
	PassNeeded    bool      // requested_vehicles.pass_needed
}
