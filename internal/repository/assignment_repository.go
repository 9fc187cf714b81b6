package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/trailhead/vehicle-booking/internal/booking"
	"github.com/trailhead/vehicle-booking/internal/model"
)

// AssignmentRepo provides data access to the assignments table.  An
// assignment row is only ever written inside the same transaction that
// validated it against the vehicle's other bookings, so the table never
// holds an overlapping pair for one vehicle.
type AssignmentRepo struct {
	db *sql.DB
}

// NewAssignmentRepo returns a new AssignmentRepo bound to the given database.
func NewAssignmentRepo(db *sql.DB) *AssignmentRepo { return &AssignmentRepo{db: db} }

const assignmentColumns = `id, vehiclerequest, requester, vehicle, vehicle_key, pickup_time, return_time, response_index, picked_up, returned`

func scanAssignments(rows *sql.Rows) ([]model.Assignment, error) {
	var out []model.Assignment
	for rows.Next() {
		var a model.Assignment
		if err := rows.Scan(&a.ID, &a.RequestID, &a.RequesterID, &a.VehicleID,
			&a.VehicleKey, &a.PickupTime, &a.ReturnTime, &a.ResponseIndex,
			&a.PickedUp, &a.Returned); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// CreateTx inserts a new assignment within the provided transaction and
// populates a.ID.
func (r *AssignmentRepo) CreateTx(ctx context.Context, tx *sql.Tx, a *model.Assignment) error {
	const q = `INSERT INTO assignments
	           (vehiclerequest, requester, vehicle, vehicle_key, pickup_time, return_time, response_index, picked_up, returned)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q,
		a.RequestID, a.RequesterID, a.VehicleID, a.VehicleKey,
		a.PickupTime.UTC(), a.ReturnTime.UTC(), a.ResponseIndex,
		a.PickedUp, a.Returned)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}

// ListByVehicleTx returns every assignment currently booked on the
// vehicle.  Used by the conflict check; the vehicle row itself must
// already be locked by the caller.  The read locks too: under
// REPEATABLE READ a plain SELECT replays the transaction's snapshot,
// which may predate an assignment another transaction committed while
// we waited on the vehicle lock.  FOR UPDATE forces a current read so
// the conflict check sees those rows.
func (r *AssignmentRepo) ListByVehicleTx(ctx context.Context, tx *sql.Tx, vehicleID uint64) ([]model.Assignment, error) {
	const q = `SELECT ` + assignmentColumns + ` FROM assignments WHERE vehicle = ? ORDER BY id FOR UPDATE`
	rows, err := tx.QueryContext(ctx, q, vehicleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAssignments(rows)
}

// DeleteByRequestTx removes every assignment owned by the request and
// returns how many rows were deleted.
func (r *AssignmentRepo) DeleteByRequestTx(ctx context.Context, tx *sql.Tx, requestID uint64) (int, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM assignments WHERE vehiclerequest = ?`, requestID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// DeleteByIDsTx removes the given assignments by id.  Returns
// booking.ErrNotFound when any id does not exist, in which case the
// caller is expected to roll the transaction back.
func (r *AssignmentRepo) DeleteByIDsTx(ctx context.Context, tx *sql.Tx, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	q := `DELETE FROM assignments WHERE id IN (` + strings.Join(placeholders, ",") + `)`
	res, err := tx.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if int(n) != len(ids) {
		return booking.ErrNotFound
	}
	return nil
}

// GetTx loads one assignment within the provided transaction.  Returns
// booking.ErrNotFound when the id is unknown.
func (r *AssignmentRepo) GetTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Assignment, error) {
	const q = `SELECT ` + assignmentColumns + ` FROM assignments WHERE id = ?`
	var a model.Assignment
	err := tx.QueryRowContext(ctx, q, id).Scan(&a.ID, &a.RequestID, &a.RequesterID,
		&a.VehicleID, &a.VehicleKey, &a.PickupTime, &a.ReturnTime,
		&a.ResponseIndex, &a.PickedUp, &a.Returned)
	if err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

// SetFlagsTx writes the picked_up/returned check-out and check-in
// flags.
func (r *AssignmentRepo) SetFlagsTx(ctx context.Context, tx *sql.Tx, id uint64, pickedUp, returned bool) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE assignments SET picked_up = ?, returned = ? WHERE id = ?`,
		pickedUp, returned, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM assignments WHERE id = ?`, id).Scan(&exists)
		return notFound(err)
	}
	return nil
}

// ListInWindow returns the vehicle's assignments overlapping the
// half-open window [from, to), ordered by pickup time.  Used for
// calendar rendering.
func (r *AssignmentRepo) ListInWindow(ctx context.Context, vehicleID uint64, from, to time.Time) ([]model.Assignment, error) {
	const q = `SELECT ` + assignmentColumns + ` FROM assignments
	           WHERE vehicle = ? AND pickup_time < ? AND return_time > ?
	           ORDER BY pickup_time`
	rows, err := r.db.QueryContext(ctx, q, vehicleID, to.UTC(), from.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAssignments(rows)
}

// ListOverdueOrActive returns every assignment whose pickup is at or
// before now and whose vehicle has not been checked back in, ordered
// by pickup time.
func (r *AssignmentRepo) ListOverdueOrActive(ctx context.Context, now time.Time) ([]model.Assignment, error) {
	const q = `SELECT ` + assignmentColumns + ` FROM assignments
	           WHERE pickup_time <= ? AND returned = FALSE
	           ORDER BY pickup_time`
	rows, err := r.db.QueryContext(ctx, q, now.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAssignments(rows)
}
