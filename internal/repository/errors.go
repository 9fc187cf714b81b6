// Package repository implements the MySQL persistence layer.  Each
// table gets its own repo with plain handwritten SQL; methods suffixed
// Tx run inside a caller-supplied transaction and never commit or roll
// back themselves.  The Store type in store.go assembles the repos into
// the transactional interface the booking engine consumes.
package repository

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/trailhead/vehicle-booking/internal/booking"
)

// ErrEmailExists is returned when registering a user whose email is
// already taken.
var ErrEmailExists = errors.New("email already exists")

// ErrVehicleExists is returned when creating or renaming a vehicle to
// a name already in the fleet.
var ErrVehicleExists = errors.New("vehicle name already exists")

// notFound converts sql.ErrNoRows into the engine's not-found sentinel
// and passes every other error through unchanged.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return booking.ErrNotFound
	}
	return err
}

// isDuplicate reports whether err is a MySQL duplicate-key violation.
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
