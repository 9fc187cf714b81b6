package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trailhead/vehicle-booking/internal/model"
)

func TestNewWindow_RejectsInvertedAndEmpty(t *testing.T) {
	at := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	_, err := NewWindow(at, at)
	assert.ErrorIs(t, err, ErrInvalidWindow, "zero-length window")

	_, err = NewWindow(at, at.Add(-time.Hour))
	assert.ErrorIs(t, err, ErrInvalidWindow, "return before pickup")

	w, err := NewWindow(at, at.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, at, w.Pickup)
	assert.Equal(t, at.Add(2*time.Hour), w.Return)
}

func TestNewWindow_NormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)
	pickup := time.Date(2026, 3, 10, 9, 0, 0, 0, loc)

	w, err := NewWindow(pickup, pickup.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, time.UTC, w.Pickup.Location())
	assert.True(t, w.Pickup.Equal(pickup))
}

func TestNewApprovalWindow_GracePeriod(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	// Inside the grace: allowed.
	_, err := NewApprovalWindow(now.Add(-30*time.Minute), now.Add(time.Hour), now)
	assert.NoError(t, err)

	// Beyond the grace: staff should not approve bookings in the past.
	_, err = NewApprovalWindow(now.Add(-2*time.Hour), now.Add(time.Hour), now)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestOverlaps_HalfOpen(t *testing.T) {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	win := func(startH, endH int) Window {
		return Window{Pickup: base.Add(time.Duration(startH) * time.Hour), Return: base.Add(time.Duration(endH) * time.Hour)}
	}

	cases := []struct {
		name string
		a, b Window
		want bool
	}{
		{"identical", win(0, 2), win(0, 2), true},
		{"contained", win(0, 8), win(2, 4), true},
		{"partial tail", win(0, 8), win(7, 11), true},
		{"partial head", win(7, 11), win(0, 8), true},
		{"back to back", win(0, 2), win(2, 4), false},
		{"disjoint", win(0, 2), win(3, 4), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.a.Overlaps(tc.b))
			assert.Equal(t, tc.want, tc.b.Overlaps(tc.a), "overlap must be symmetric")
		})
	}
}

func TestFindConflicts_ReportsAndExcludes(t *testing.T) {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	existing := []model.Assignment{
		{ID: 1, RequestID: 10, VehicleID: 3, PickupTime: base, ReturnTime: base.Add(8 * time.Hour)},
		{ID: 2, RequestID: 11, VehicleID: 3, PickupTime: base.Add(8 * time.Hour), ReturnTime: base.Add(10 * time.Hour)},
	}
	candidate := Window{Pickup: base.Add(7 * time.Hour), Return: base.Add(11 * time.Hour)}

	conflicts := findConflicts(candidate, existing, nil)
	require.Len(t, conflicts, 2)
	assert.Equal(t, uint64(1), conflicts[0].AssignmentID)
	assert.Equal(t, uint64(2), conflicts[1].AssignmentID)

	// Excluding the row being updated removes it from the comparison set.
	conflicts = findConflicts(candidate, existing, map[uint64]bool{1: true})
	require.Len(t, conflicts, 1)
	assert.Equal(t, uint64(2), conflicts[0].AssignmentID)
}
