package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trailhead/vehicle-booking/internal/model"
)

func duplicateKeyErr() error {
	return &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'Van G' for key 'vehicles.name'"}
}

func TestVehicleCreate_DuplicateNameMapsToSentinel(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO vehicles`).WillReturnError(duplicateKeyErr())

	repo := NewVehicleRepo(db)
	err = repo.Create(context.Background(), &model.Vehicle{Name: "Van G", Type: "VAN", Active: true})
	assert.ErrorIs(t, err, ErrVehicleExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVehicleUpdate_DuplicateRenameMapsToSentinel(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE vehicles SET`).WillReturnError(duplicateKeyErr())

	repo := NewVehicleRepo(db)
	err = repo.Update(context.Background(), &model.Vehicle{ID: 2, Name: "Van G", Type: "VAN", Active: true})
	assert.ErrorIs(t, err, ErrVehicleExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
