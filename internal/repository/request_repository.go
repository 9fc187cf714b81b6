package repository

import (
	"context"
	"database/sql"

	"github.com/trailhead/vehicle-booking/internal/booking"
	"github.com/trailhead/vehicle-booking/internal/model"
)

// RequestRepo provides CRUD operations for vehicle requests and their
// line items.  The request status is persisted as the tristate
// is_approved column: NULL means pending, 1 approved, 0 denied.  All
// timestamp columns are stored in UTC; the connection must be opened
// with parseTime=true and loc=UTC.
type RequestRepo struct {
	db *sql.DB
}

// NewRequestRepo returns a new RequestRepo bound to the given database.
func NewRequestRepo(db *sql.DB) *RequestRepo { return &RequestRepo{db: db} }

// statusParam converts a lifecycle status into the tristate column
// value used by INSERT and UPDATE statements.
func statusParam(status model.RequestStatus) interface{} {
	switch status {
	case model.StatusApproved:
		return 1
	case model.StatusDenied:
		return 0
	default:
		return nil
	}
}

// scanStatus converts the tristate column back into a lifecycle status.
func scanStatus(v sql.NullBool) model.RequestStatus {
	switch {
	case !v.Valid:
		return model.StatusPending
	case v.Bool:
		return model.StatusApproved
	default:
		return model.StatusDenied
	}
}

const requestColumns = `id, number, requester, request_details, mileage, num_participants, trip, request_type, is_approved, created_at, updated_at`

func scanRequest(row interface {
	Scan(dest ...interface{}) error
}) (*model.VehicleRequest, error) {
	var req model.VehicleRequest
	var trip sql.NullInt64
	var approved sql.NullBool
	err := row.Scan(
		&req.ID, &req.Number, &req.RequesterID, &req.RequestDetails,
		&req.Mileage, &req.NumParticipants, &trip, &req.Kind,
		&approved, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if trip.Valid {
		id := uint64(trip.Int64)
		req.TripID = &id
	}
	req.Status = scanStatus(approved)
	return &req, nil
}

// CreateTx inserts a new request and its line items within the scope of
// an existing transaction, populating req.ID and the line item IDs.
// The caller must have assigned req.Number beforehand (see CounterRepo)
// and must commit or roll back the transaction.
func (r *RequestRepo) CreateTx(ctx context.Context, tx *sql.Tx, req *model.VehicleRequest) error {
	const q = `INSERT INTO vehiclerequests
	           (number, requester, request_details, mileage, num_participants, trip, request_type, is_approved)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	var trip interface{}
	if req.TripID != nil {
		trip = *req.TripID
	}
	res, err := tx.ExecContext(ctx, q,
		req.Number, req.RequesterID, req.RequestDetails, req.Mileage,
		req.NumParticipants, trip, string(req.Kind), statusParam(req.Status))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	req.ID = uint64(id)
	return r.insertLineItemsTx(ctx, tx, req.ID, req.LineItems)
}

func (r *RequestRepo) insertLineItemsTx(ctx context.Context, tx *sql.Tx, requestID uint64, items []model.RequestedVehicle) error {
	if len(items) == 0 {
		return nil
	}
	query := `INSERT INTO requested_vehicles
	          (vehiclerequest, type, details, pickup_time, return_time, trailer_needed, pass_needed) VALUES `
	args := make([]interface{}, 0, len(items)*7)
	for i, li := range items {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?, ?)"
		args = append(args, requestID, li.Type, li.Details,
			li.PickupTime.UTC(), li.ReturnTime.UTC(), li.TrailerNeeded, li.PassNeeded)
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	// MySQL returns the first id of a multi-row insert; ids are
	// allocated consecutively within one statement.
	first, err := res.LastInsertId()
	if err != nil {
		return err
	}
	for i := range items {
		items[i].ID = uint64(first) + uint64(i)
		items[i].RequestID = requestID
	}
	return nil
}

// GetForUpdateTx loads a request by id and locks its row for the rest
// of the transaction, serializing concurrent lifecycle operations on
// the same request.  Line items and assignments are included.  Returns
// booking.ErrNotFound when the id is unknown.
func (r *RequestRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.VehicleRequest, error) {
	const q = `SELECT ` + requestColumns + ` FROM vehiclerequests WHERE id = ? FOR UPDATE`
	req, err := scanRequest(tx.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, notFound(err)
	}
	if req.LineItems, err = r.lineItems(ctx, tx, id); err != nil {
		return nil, err
	}
	if req.Assignments, err = r.assignments(ctx, tx, id); err != nil {
		return nil, err
	}
	return req, nil
}

// Get loads a request with line items and assignments outside any
// transaction.  Returns booking.ErrNotFound when the id is unknown.
func (r *RequestRepo) Get(ctx context.Context, id uint64) (*model.VehicleRequest, error) {
	const q = `SELECT ` + requestColumns + ` FROM vehiclerequests WHERE id = ?`
	req, err := scanRequest(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, notFound(err)
	}
	if req.LineItems, err = r.lineItems(ctx, r.db, id); err != nil {
		return nil, err
	}
	if req.Assignments, err = r.assignments(ctx, r.db, id); err != nil {
		return nil, err
	}
	return req, nil
}

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx,
// letting the row loaders serve both transactional and plain reads.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

func (r *RequestRepo) lineItems(ctx context.Context, q querier, requestID uint64) ([]model.RequestedVehicle, error) {
	const query = `SELECT id, vehiclerequest, type, details, pickup_time, return_time, trailer_needed, pass_needed
	               FROM requested_vehicles WHERE vehiclerequest = ? ORDER BY id`
	rows, err := q.QueryContext(ctx, query, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []model.RequestedVehicle
	for rows.Next() {
		var li model.RequestedVehicle
		if err := rows.Scan(&li.ID, &li.RequestID, &li.Type, &li.Details,
			&li.PickupTime, &li.ReturnTime, &li.TrailerNeeded, &li.PassNeeded); err != nil {
			return nil, err
		}
		items = append(items, li)
	}
	return items, rows.Err()
}

func (r *RequestRepo) assignments(ctx context.Context, q querier, requestID uint64) ([]model.Assignment, error) {
	const query = `SELECT ` + assignmentColumns + ` FROM assignments WHERE vehiclerequest = ? ORDER BY id`
	rows, err := q.QueryContext(ctx, query, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAssignments(rows)
}

// ReplaceLineItemsTx deletes the request's line items and inserts the
// given set in order, all within the provided transaction.
func (r *RequestRepo) ReplaceLineItemsTx(ctx context.Context, tx *sql.Tx, requestID uint64, items []model.RequestedVehicle) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM requested_vehicles WHERE vehiclerequest = ?`, requestID); err != nil {
		return err
	}
	return r.insertLineItemsTx(ctx, tx, requestID, items)
}

// SetStatusTx writes the tristate is_approved column.  Returns
// booking.ErrNotFound when the request does not exist.
func (r *RequestRepo) SetStatusTx(ctx context.Context, tx *sql.Tx, requestID uint64, status model.RequestStatus) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE vehiclerequests SET is_approved = ? WHERE id = ?`,
		statusParam(status), requestID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Also hit when the status is already the target value;
		// re-check existence so idempotent writes do not 404.
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM vehiclerequests WHERE id = ?`, requestID).Scan(&exists)
		return notFound(err)
	}
	return nil
}

// DeleteTx removes the request and its line items.  Assignments must be
// deleted beforehand by the caller.  Returns booking.ErrNotFound when
// the request does not exist.
func (r *RequestRepo) DeleteTx(ctx context.Context, tx *sql.Tx, requestID uint64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM requested_vehicles WHERE vehiclerequest = ?`, requestID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM vehiclerequests WHERE id = ?`, requestID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return booking.ErrNotFound
	}
	return nil
}

// List returns requests filtered by status, ordered by request number,
// with line items and assignments populated.  A nil status returns
// every request.
func (r *RequestRepo) List(ctx context.Context, status *model.RequestStatus) ([]model.VehicleRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM vehiclerequests`
	var args []interface{}
	if status != nil {
		switch *status {
		case model.StatusPending:
			query += ` WHERE is_approved IS NULL`
		default:
			query += ` WHERE is_approved = ?`
			args = append(args, statusParam(*status))
		}
	}
	query += ` ORDER BY number`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.VehicleRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].LineItems, err = r.lineItems(ctx, r.db, out[i].ID); err != nil {
			return nil, err
		}
		if out[i].Assignments, err = r.assignments(ctx, r.db, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}
