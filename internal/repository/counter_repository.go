package repository

import (
	"context"
	"database/sql"
)

// CounterRepo manages the request_counters table, a single-row counter
// that hands out the human-facing request numbers.  The increment and
// the read happen in one UPDATE via LAST_INSERT_ID so that concurrent
// transactions never observe the same value.
type CounterRepo struct {
	db *sql.DB
}

// NewCounterRepo returns a new CounterRepo bound to the given database.
func NewCounterRepo(db *sql.DB) *CounterRepo { return &CounterRepo{db: db} }

// counterName identifies the vehicle-request counter row.  The table
// is keyed by name so other subsystems can add counters without schema
// changes.
const counterName = "vehiclerequest"

// NextTx atomically increments the counter and returns the new value
// within the provided transaction.  The UPDATE takes a row lock, so a
// rolled-back transaction may leave a gap in the sequence but never a
// duplicate.
func (r *CounterRepo) NextTx(ctx context.Context, tx *sql.Tx) (uint64, error) {
	res, err := tx.ExecContext(ctx,
		`UPDATE request_counters SET value = LAST_INSERT_ID(value + 1) WHERE name = ?`,
		counterName)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		// First request ever: seed the row and retry once.
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO request_counters (name, value) VALUES (?, 0)`, counterName); err != nil {
			return 0, err
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE request_counters SET value = LAST_INSERT_ID(value + 1) WHERE name = ?`,
			counterName); err != nil {
			return 0, err
		}
	}
	var value uint64
	if err := tx.QueryRowContext(ctx, `SELECT LAST_INSERT_ID()`).Scan(&value); err != nil {
		return 0, err
	}
	return value, nil
}
