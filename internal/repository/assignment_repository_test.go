package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The conflict check must be a locking read.  A plain SELECT inside a
// REPEATABLE READ transaction replays the snapshot taken before the
// vehicle lock was acquired and can miss an assignment another
// transaction committed in the meantime, letting two overlapping
// bookings through.
func TestListByVehicleTx_IssuesLockingRead(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	pickup := time.Date(2026, 9, 12, 8, 0, 0, 0, time.UTC)
	ret := pickup.Add(4 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM assignments WHERE vehicle = \? ORDER BY id FOR UPDATE`).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "vehiclerequest", "requester", "vehicle", "vehicle_key",
			"pickup_time", "return_time", "response_index", "picked_up", "returned",
		}).AddRow(uint64(11), uint64(3), uint64(7), uint64(5), "K-12", pickup, ret, 0, false, false))

	tx, err := db.Begin()
	require.NoError(t, err)

	repo := NewAssignmentRepo(db)
	out, err := repo.ListByVehicleTx(context.Background(), tx, 5)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, uint64(11), out[0].ID)
	assert.Equal(t, uint64(5), out[0].VehicleID)

	assert.NoError(t, mock.ExpectationsWereMet())
}
