package repository

import (
	"context"
	"database/sql"

	"github.com/trailhead/vehicle-booking/internal/model"
)

// VehicleRepo provides CRUD operations for the vehicle fleet.
// Vehicles are never hard-deleted; retiring one clears the active flag
// so historical assignments keep their foreign key.
type VehicleRepo struct {
	db *sql.DB
}

// NewVehicleRepo returns a new VehicleRepo bound to the given database.
func NewVehicleRepo(db *sql.DB) *VehicleRepo { return &VehicleRepo{db: db} }

const vehicleColumns = `id, name, type, description, active, created_at, updated_at`

func scanVehicle(row interface {
	Scan(dest ...interface{}) error
}) (*model.Vehicle, error) {
	var v model.Vehicle
	err := row.Scan(&v.ID, &v.Name, &v.Type, &v.Description, &v.Active, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Create inserts a vehicle and populates v.ID.  Returns
// ErrVehicleExists when the name collides with another vehicle.
func (r *VehicleRepo) Create(ctx context.Context, v *model.Vehicle) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO vehicles (name, type, description, active) VALUES (?, ?, ?, ?)`,
		v.Name, v.Type, v.Description, v.Active)
	if err != nil {
		if isDuplicate(err) {
			return ErrVehicleExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(id)
	return nil
}

// Get loads a vehicle by id.  Returns booking.ErrNotFound when the id
// is unknown.
func (r *VehicleRepo) Get(ctx context.Context, id uint64) (*model.Vehicle, error) {
	v, err := scanVehicle(r.db.QueryRowContext(ctx,
		`SELECT `+vehicleColumns+` FROM vehicles WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return v, nil
}

// GetForUpdateTx loads a vehicle and locks its row for the rest of the
// transaction.  Concurrent approvals touching the same vehicle
// serialize on this lock, which is what keeps the conflict check and
// the assignment insert atomic with respect to each other.
func (r *VehicleRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Vehicle, error) {
	v, err := scanVehicle(tx.QueryRowContext(ctx,
		`SELECT `+vehicleColumns+` FROM vehicles WHERE id = ? FOR UPDATE`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return v, nil
}

// List returns the fleet ordered by name.  When activeOnly is true,
// retired vehicles are omitted.
func (r *VehicleRepo) List(ctx context.Context, activeOnly bool) ([]model.Vehicle, error) {
	q := `SELECT ` + vehicleColumns + ` FROM vehicles`
	if activeOnly {
		q += ` WHERE active = TRUE`
	}
	q += ` ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}

// Update writes the vehicle's mutable columns.  Returns
// booking.ErrNotFound when the id is unknown and ErrVehicleExists when
// a rename collides with another vehicle.
func (r *VehicleRepo) Update(ctx context.Context, v *model.Vehicle) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE vehicles SET name = ?, type = ?, description = ?, active = ? WHERE id = ?`,
		v.Name, v.Type, v.Description, v.Active, v.ID)
	if err != nil {
		if isDuplicate(err) {
			return ErrVehicleExists
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists int
		err := r.db.QueryRowContext(ctx, `SELECT 1 FROM vehicles WHERE id = ?`, v.ID).Scan(&exists)
		return notFound(err)
	}
	return nil
}

// Deactivate retires a vehicle.  Existing assignments are untouched;
// the engine refuses new assignments on inactive vehicles.
func (r *VehicleRepo) Deactivate(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE vehicles SET active = FALSE WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists int
		err := r.db.QueryRowContext(ctx, `SELECT 1 FROM vehicles WHERE id = ?`, id).Scan(&exists)
		return notFound(err)
	}
	return nil
}
