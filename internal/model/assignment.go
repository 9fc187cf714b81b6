package model

import "time"

// Assignment is a concrete, approved booking of one vehicle for one
// time window.  Assignments are created only by staff approval and are
// immutable afterwards except for the PickedUp/Returned flags and
// wholesale replacement during re-approval.  For a fixed vehicle no two
// assignments may overlap under the half-open [pickup, return) rule.
//
// Fields:
//  ID            – primary key identifier.
//  RequestID     – owning vehicle request.
//  RequesterID   – original requester, denormalized for queries.
//  VehicleID     – booked vehicle.
//  VehicleKey    – physical key identifier handed out at pickup.
//  PickupTime    – booking start (UTC, inclusive).
//  ReturnTime    – booking end (UTC, exclusive).
//  ResponseIndex – position of the line item this assignment answers.
//  PickedUp      – set at trip check-out.
//  Returned      – set at trip check-in.
type Assignment struct {
	ID            uint64    // assignments.id
	RequestID     uint64    // assignments.vehiclerequest
	RequesterID   uint64    // assignments.requester
	VehicleID     uint64    // assignments.vehicle
	VehicleKey    string    // assignments.vehicle_key
	PickupTime    time.Time // assignments.pickup_time
	ReturnTime    time.Time // assignments.return_time
	ResponseIndex int       // assignments.response_index
	PickedUp      bool      // assignments.picked_up
	Returned      bool      // assignments.returned
}
