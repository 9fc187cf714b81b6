package model

import "time"

// Vehicle represents a physical vehicle in the shared pool.  Vehicles
// are never deleted; when one is retired the Active flag is cleared so
// that historical assignments keep pointing at a valid row.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – unique human-facing name (e.g. "Van G").
//  Type        – vehicle category (VAN, MINIVAN, TRUCK, CAR).
//  Description – free-text fleet notes (seats, hitch, quirks).
//  Active      – whether the vehicle may receive new assignments.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Vehicle struct {
	ID          uint64    // vehicles.id
	Name        string    // vehicles.name
	Type        string    // vehicles.type
	Description string    // vehicles.description
	Active      bool      // vehicles.active
	CreatedAt   time.Time // vehicles.created_at
	UpdatedAt   time.Time // vehicles.updated_at
}
