package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trailhead/vehicle-booking/internal/repository"
)

// A vehicle name collision is a client error, not a server fault, and
// must surface as 409 rather than falling through to 500.
func TestVehicleCreate_DuplicateNameIsConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO vehicles`).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'Van G' for key 'vehicles.name'"})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/vehicles",
		strings.NewReader(`{"name":"Van G","type":"VAN"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewVehicleHandler(nil, repository.NewVehicleRepo(db))
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "vehicle name already exists")
	assert.NoError(t, mock.ExpectationsWereMet())
}
