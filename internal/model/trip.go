package model

import "time"

// Trip is the cross-reference slice of a trip record owned by the trip
// subsystem.  The engine only reads the row and writes the derived
// VehicleStatus mirror; membership, gear and people scheduling live
// elsewhere.
//
// Fields:
//  ID            – primary key identifier.
//  Title         – trip title, used in notification payloads.
//  LeaderID      – trip leader, notified on status changes.
//  VehicleStatus – mirror of the associated request's status
//                  (pending, approved, denied, or N/A when the trip
//                  has no vehicle request).
//  StartTime     – trip start (UTC).
//  EndTime       – trip end (UTC).
type Trip struct {
	ID            uint64    // trips.id
	Title         string    // trips.title
	LeaderID      uint64    // trips.leader
	VehicleStatus string    // trips.vehicle_status
	StartTime     time.Time // trips.start_time
	EndTime       time.Time // trips.end_time
}
