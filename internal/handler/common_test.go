package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trailhead/vehicle-booking/internal/booking"
	"github.com/trailhead/vehicle-booking/internal/model"
)

func newTestContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestActor_FromJWTClaims(t *testing.T) {
	c, _ := newTestContext(t)
	c.Set("user_id", float64(42)) // JWT numbers decode as float64
	c.Set("role", model.RoleOPO)
	a := actor(c)
	assert.Equal(t, uint64(42), a.ID)
	assert.True(t, a.Staff)

	c, _ = newTestContext(t)
	c.Set("user_id", "7")
	c.Set("role", model.RoleMember)
	a = actor(c)
	assert.Equal(t, uint64(7), a.ID)
	assert.False(t, a.Staff)

	// Missing claims yield a zero, non-staff actor.
	c, _ = newTestContext(t)
	a = actor(c)
	assert.Zero(t, a.ID)
	assert.False(t, a.Staff)
}

func TestEngineError_StatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"not found", booking.ErrNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("assignment 9: %w", booking.ErrNotFound), http.StatusNotFound},
		{"unauthorized", booking.ErrUnauthorized, http.StatusForbidden},
		{"bad request", booking.ErrBadRequest, http.StatusBadRequest},
		{"invalid window", booking.ErrInvalidWindow, http.StatusBadRequest},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newTestContext(t)
			require.NoError(t, engineError(c, tc.err))
			assert.Equal(t, tc.code, rec.Code)
		})
	}
}

func TestEngineError_ConflictCarriesList(t *testing.T) {
	c, rec := newTestContext(t)
	err := &booking.ConflictError{Conflicts: []booking.Conflict{{
		AssignmentID: 11,
		RequestID:    3,
		VehicleID:    2,
	}}}
	require.NoError(t, engineError(c, err))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"conflicts"`)
	assert.Contains(t, rec.Body.String(), `"assignment_id":11`)
}
