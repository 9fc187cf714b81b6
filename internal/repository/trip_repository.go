package repository

import (
	"context"
	"database/sql"

	"github.com/trailhead/vehicle-booking/internal/model"
)

// TripRepo is the cross-reference into the trips table, owned by the
// trip-planning subsystem.  The booking engine only reads trip rows
// for notification recipients and mirrors the request status into the
// vehicle_status column; everything else about trips is off limits
// here.
type TripRepo struct {
	db *sql.DB
}

// NewTripRepo returns a new TripRepo bound to the given database.
func NewTripRepo(db *sql.DB) *TripRepo { return &TripRepo{db: db} }

// Get loads a trip by id.  Returns booking.ErrNotFound when the id is
// unknown.
func (r *TripRepo) Get(ctx context.Context, id uint64) (*model.Trip, error) {
	const q = `SELECT id, title, leader, vehicle_status, start_time, end_time FROM trips WHERE id = ?`
	var t model.Trip
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&t.ID, &t.Title, &t.LeaderID, &t.VehicleStatus, &t.StartTime, &t.EndTime)
	if err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

// SetVehicleStatus writes the trip's derived vehicle-status mirror.
// Returns booking.ErrNotFound when the trip does not exist.
func (r *TripRepo) SetVehicleStatus(ctx context.Context, id uint64, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE trips SET vehicle_status = ? WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists int
		err := r.db.QueryRowContext(ctx, `SELECT 1 FROM trips WHERE id = ?`, id).Scan(&exists)
		return notFound(err)
	}
	return nil
}
