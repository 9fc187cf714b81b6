package booking_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trailhead/vehicle-booking/internal/booking"
	"github.com/trailhead/vehicle-booking/internal/booking/memstore"
	"github.com/trailhead/vehicle-booking/internal/model"
)

// fakeTrips records every vehicle-status write so tests can assert the
// trip mirror follows the request.
type fakeTrips struct {
	mu       sync.Mutex
	statuses map[uint64][]string
	leaders  map[uint64]uint64
}

func newFakeTrips() *fakeTrips {
	return &fakeTrips{statuses: make(map[uint64][]string), leaders: make(map[uint64]uint64)}
}

func (f *fakeTrips) Get(_ context.Context, id uint64) (*model.Trip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &model.Trip{ID: id, LeaderID: f.leaders[id]}, nil
}

func (f *fakeTrips) SetVehicleStatus(_ context.Context, id uint64, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[id] = append(f.statuses[id], status)
	return nil
}

func (f *fakeTrips) last(id uint64) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	h := f.statuses[id]
	if len(h) == 0 {
		return ""
	}
	return h[len(h)-1]
}

type sentNotification struct {
	Template   string
	Recipients []uint64
	Data       map[string]interface{}
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
}

func (f *fakeNotifier) Send(_ context.Context, template string, recipients []uint64, data map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentNotification{Template: template, Recipients: recipients, Data: data})
	return nil
}

type fixture struct {
	engine   *booking.Engine
	store    *memstore.Store
	trips    *fakeTrips
	notifier *fakeNotifier
	vanG     uint64
	vanH     uint64
	member   booking.Actor
	staff    booking.Actor
	base     time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	trips := newFakeTrips()
	notifier := &fakeNotifier{}
	return &fixture{
		engine:   booking.NewEngine(store, trips, notifier),
		store:    store,
		trips:    trips,
		notifier: notifier,
		vanG:     store.AddVehicle("Van G", "VAN", true),
		vanH:     store.AddVehicle("Van H", "VAN", true),
		member:   booking.Actor{ID: 7},
		staff:    booking.Actor{ID: 1, Staff: true},
		// far enough ahead that the approval grace never interferes
		base: time.Now().UTC().Add(48 * time.Hour).Truncate(time.Hour),
	}
}

func (f *fixture) lineItem(startH, endH int) booking.LineItemInput {
	return booking.LineItemInput{
		Type:       "VAN",
		PickupTime: f.base.Add(time.Duration(startH) * time.Hour),
		ReturnTime: f.base.Add(time.Duration(endH) * time.Hour),
	}
}

func (f *fixture) propose(vehicle uint64, startH, endH, index int) booking.ProposedAssignment {
	return booking.ProposedAssignment{
		VehicleID:     vehicle,
		PickupTime:    f.base.Add(time.Duration(startH) * time.Hour),
		ReturnTime:    f.base.Add(time.Duration(endH) * time.Hour),
		ResponseIndex: index,
	}
}

func (f *fixture) createSolo(t *testing.T, items ...booking.LineItemInput) *model.VehicleRequest {
	t.Helper()
	req, err := f.engine.Create(context.Background(), f.member, booking.CreateInput{
		Kind:           model.KindSolo,
		RequestDetails: "gear shuttle",
		LineItems:      items,
	})
	require.NoError(t, err)
	return req
}

func (f *fixture) createTrip(t *testing.T, tripID uint64, items ...booking.LineItemInput) *model.VehicleRequest {
	t.Helper()
	req, err := f.engine.Create(context.Background(), f.member, booking.CreateInput{
		Kind:      model.KindTrip,
		TripID:    &tripID,
		LineItems: items,
	})
	require.NoError(t, err)
	return req
}

func TestCreate_KindAndTripReferenceMustAgree(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tripID := uint64(42)

	_, err := f.engine.Create(ctx, f.member, booking.CreateInput{Kind: model.KindTrip})
	assert.ErrorIs(t, err, booking.ErrBadRequest)

	_, err = f.engine.Create(ctx, f.member, booking.CreateInput{Kind: model.KindSolo, TripID: &tripID})
	assert.ErrorIs(t, err, booking.ErrBadRequest)
}

func TestCreate_RejectsInvalidLineItemWindow(t *testing.T) {
	f := newFixture(t)
	bad := booking.LineItemInput{Type: "VAN", PickupTime: f.base.Add(4 * time.Hour), ReturnTime: f.base}
	_, err := f.engine.Create(context.Background(), f.member, booking.CreateInput{
		Kind: model.KindSolo, LineItems: []booking.LineItemInput{bad},
	})
	assert.ErrorIs(t, err, booking.ErrInvalidWindow)
}

func TestCreate_StartsPendingAndMirrorsTrip(t *testing.T) {
	f := newFixture(t)
	req := f.createTrip(t, 42, f.lineItem(0, 8))

	assert.Equal(t, model.StatusPending, req.Status)
	assert.Empty(t, req.Assignments)
	assert.Len(t, req.LineItems, 1)
	assert.Equal(t, "pending", f.trips.last(42))
}

func TestApprove_BackToBackWindowsDoNotConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.createSolo(t, f.lineItem(0, 2))
	_, err := f.engine.Approve(ctx, f.staff, first.ID, []booking.ProposedAssignment{f.propose(f.vanG, 0, 2, 0)})
	require.NoError(t, err)

	second := f.createSolo(t, f.lineItem(2, 4))
	got, err := f.engine.Approve(ctx, f.staff, second.ID, []booking.ProposedAssignment{f.propose(f.vanG, 2, 4, 0)})
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, got.Status)
	assert.Len(t, got.Assignments, 1)
}

func TestApprove_OverlapRejectedWithConflictList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.createSolo(t, f.lineItem(9, 17))
	approved, err := f.engine.Approve(ctx, f.staff, first.ID, []booking.ProposedAssignment{f.propose(f.vanG, 9, 17, 0)})
	require.NoError(t, err)
	existingID := approved.Assignments[0].ID

	second := f.createSolo(t, f.lineItem(16, 20))
	_, err = f.engine.Approve(ctx, f.staff, second.ID, []booking.ProposedAssignment{f.propose(f.vanG, 16, 20, 0)})

	var conflictErr *booking.ConflictError
	require.ErrorAs(t, err, &conflictErr)
	require.Len(t, conflictErr.Conflicts, 1)
	assert.Equal(t, existingID, conflictErr.Conflicts[0].AssignmentID)
	assert.Equal(t, f.vanG, conflictErr.Conflicts[0].VehicleID)

	// The rejected request keeps its prior state.
	got, err := f.engine.GetRequest(ctx, f.staff, second.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, got.Status)
	assert.Empty(t, got.Assignments)
}

func TestApprove_AllOrNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	blocker := f.createSolo(t, f.lineItem(0, 8))
	_, err := f.engine.Approve(ctx, f.staff, blocker.ID, []booking.ProposedAssignment{f.propose(f.vanH, 0, 8, 0)})
	require.NoError(t, err)

	req := f.createSolo(t, f.lineItem(0, 4), f.lineItem(2, 6))
	_, err = f.engine.Approve(ctx, f.staff, req.ID, []booking.ProposedAssignment{
		f.propose(f.vanG, 0, 4, 0), // fine on its own
		f.propose(f.vanH, 2, 6, 1), // collides with blocker
	})
	var conflictErr *booking.ConflictError
	require.ErrorAs(t, err, &conflictErr)

	// Nothing from the failed approval may be visible: not even the
	// otherwise-valid first assignment.
	got, err := f.engine.GetRequest(ctx, f.staff, req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, got.Status)
	assert.Empty(t, got.Assignments)

	cal, err := f.engine.VehicleCalendar(ctx, f.vanG, f.base, f.base.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, cal, "no assignment on Van G may survive the rollback")
}

func TestApprove_SelfOverlapWithinOneProposalRejected(t *testing.T) {
	f := newFixture(t)
	req := f.createSolo(t, f.lineItem(0, 4), f.lineItem(2, 6))

	_, err := f.engine.Approve(context.Background(), f.staff, req.ID, []booking.ProposedAssignment{
		f.propose(f.vanG, 0, 4, 0),
		f.propose(f.vanG, 2, 6, 1),
	})
	var conflictErr *booking.ConflictError
	require.ErrorAs(t, err, &conflictErr)
}

func TestApprove_ReApprovalReplacesInsteadOfAccumulating(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.createSolo(t, f.lineItem(0, 2), f.lineItem(4, 6))
	proposed := []booking.ProposedAssignment{
		f.propose(f.vanG, 0, 2, 0),
		f.propose(f.vanG, 4, 6, 1),
	}

	first, err := f.engine.Approve(ctx, f.staff, req.ID, proposed)
	require.NoError(t, err)
	require.Len(t, first.Assignments, 2)
	firstIDs := map[uint64]bool{first.Assignments[0].ID: true, first.Assignments[1].ID: true}

	// Same windows again: the prior set is replaced, not doubled, and
	// the old rows do not conflict with their own replacements.
	second, err := f.engine.Approve(ctx, f.staff, req.ID, proposed)
	require.NoError(t, err)
	require.Len(t, second.Assignments, 2)
	for _, a := range second.Assignments {
		assert.False(t, firstIDs[a.ID], "replacement must mint new assignment ids")
	}
	assert.Equal(t, model.StatusApproved, second.Status)
}

func TestApprove_RequiresStaffAndAssignments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.createSolo(t, f.lineItem(0, 2))

	_, err := f.engine.Approve(ctx, f.member, req.ID, []booking.ProposedAssignment{f.propose(f.vanG, 0, 2, 0)})
	assert.ErrorIs(t, err, booking.ErrUnauthorized)

	_, err = f.engine.Approve(ctx, f.staff, req.ID, nil)
	assert.ErrorIs(t, err, booking.ErrBadRequest)
}

func TestApprove_DeactivatedVehicleRejected(t *testing.T) {
	f := newFixture(t)
	retired := f.store.AddVehicle("Old Truck", "TRUCK", false)
	req := f.createSolo(t, f.lineItem(0, 2))

	_, err := f.engine.Approve(context.Background(), f.staff, req.ID, []booking.ProposedAssignment{f.propose(retired, 0, 2, 0)})
	assert.ErrorIs(t, err, booking.ErrBadRequest)
}

func TestApprove_UnknownVehicleAndRequest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.createSolo(t, f.lineItem(0, 2))

	_, err := f.engine.Approve(ctx, f.staff, req.ID, []booking.ProposedAssignment{f.propose(9999, 0, 2, 0)})
	assert.ErrorIs(t, err, booking.ErrNotFound)

	_, err = f.engine.Approve(ctx, f.staff, 9999, []booking.ProposedAssignment{f.propose(f.vanG, 0, 2, 0)})
	assert.ErrorIs(t, err, booking.ErrNotFound)
}

func TestDeny_DropsAssignmentsAndMirrorsTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.createTrip(t, 42, f.lineItem(0, 8))
	_, err := f.engine.Approve(ctx, f.staff, req.ID, []booking.ProposedAssignment{f.propose(f.vanG, 0, 8, 0)})
	require.NoError(t, err)
	assert.Equal(t, "approved", f.trips.last(42))

	require.NoError(t, f.engine.Deny(ctx, f.staff, req.ID))

	got, err := f.engine.GetRequest(ctx, f.staff, req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDenied, got.Status)
	assert.Empty(t, got.Assignments)
	assert.Equal(t, "denied", f.trips.last(42))

	// The freed window is bookable again.
	other := f.createSolo(t, f.lineItem(0, 8))
	_, err = f.engine.Approve(ctx, f.staff, other.ID, []booking.ProposedAssignment{f.propose(f.vanG, 0, 8, 0)})
	assert.NoError(t, err)
}

func TestCancelAssignments_LastOneCascadesToDenied(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.createTrip(t, 42, f.lineItem(0, 8))
	approved, err := f.engine.Approve(ctx, f.staff, req.ID, []booking.ProposedAssignment{f.propose(f.vanG, 0, 8, 0)})
	require.NoError(t, err)

	err = f.engine.CancelAssignments(ctx, f.staff, req.ID, []uint64{approved.Assignments[0].ID})
	require.NoError(t, err)

	got, err := f.engine.GetRequest(ctx, f.staff, req.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Assignments)
	assert.Equal(t, model.StatusDenied, got.Status)
	assert.Equal(t, "denied", f.trips.last(42))
}

func TestCancelAssignments_PartialKeepsRequestAndTripApproved(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.createTrip(t, 42, f.lineItem(0, 2), f.lineItem(4, 6))
	approved, err := f.engine.Approve(ctx, f.staff, req.ID, []booking.ProposedAssignment{
		f.propose(f.vanG, 0, 2, 0),
		f.propose(f.vanH, 4, 6, 1),
	})
	require.NoError(t, err)
	require.Len(t, approved.Assignments, 2)

	err = f.engine.CancelAssignments(ctx, f.staff, req.ID, []uint64{approved.Assignments[0].ID})
	require.NoError(t, err)

	got, err := f.engine.GetRequest(ctx, f.staff, req.ID)
	require.NoError(t, err)
	assert.Len(t, got.Assignments, 1)
	assert.Equal(t, model.StatusApproved, got.Status)
	// Policy: the trip mirror tracks the request status, which is
	// still approved while any assignment remains.
	assert.Equal(t, "approved", f.trips.last(42))
}

func TestCancelAssignments_ForeignIDFailsWholeCall(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	victim := f.createSolo(t, f.lineItem(0, 2))
	approvedVictim, err := f.engine.Approve(ctx, f.staff, victim.ID, []booking.ProposedAssignment{f.propose(f.vanG, 0, 2, 0)})
	require.NoError(t, err)

	other := f.createSolo(t, f.lineItem(4, 6))
	approvedOther, err := f.engine.Approve(ctx, f.staff, other.ID, []booking.ProposedAssignment{f.propose(f.vanG, 4, 6, 0)})
	require.NoError(t, err)

	// One valid id plus one belonging to another request: nothing is
	// cancelled.
	err = f.engine.CancelAssignments(ctx, f.staff, victim.ID, []uint64{
		approvedVictim.Assignments[0].ID,
		approvedOther.Assignments[0].ID,
	})
	assert.ErrorIs(t, err, booking.ErrNotFound)

	got, err := f.engine.GetRequest(ctx, f.staff, victim.ID)
	require.NoError(t, err)
	assert.Len(t, got.Assignments, 1)
	assert.Equal(t, model.StatusApproved, got.Status)
}

func TestCancelAssignments_RepeatedIDCancelsOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.createSolo(t, f.lineItem(0, 2), f.lineItem(4, 6))
	approved, err := f.engine.Approve(ctx, f.staff, req.ID, []booking.ProposedAssignment{
		f.propose(f.vanG, 0, 2, 0),
		f.propose(f.vanH, 4, 6, 1),
	})
	require.NoError(t, err)
	require.Len(t, approved.Assignments, 2)

	// The same valid id twice in one call is not an unknown id and
	// must not fail the cancellation.
	target := approved.Assignments[0].ID
	err = f.engine.CancelAssignments(ctx, f.staff, req.ID, []uint64{target, target})
	require.NoError(t, err)

	got, err := f.engine.GetRequest(ctx, f.staff, req.ID)
	require.NoError(t, err)
	assert.Len(t, got.Assignments, 1)
	assert.Equal(t, model.StatusApproved, got.Status)
}

func TestUpdate_OwnerWhilePendingOrStaff(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.createSolo(t, f.lineItem(0, 2))

	// Owner may replace line items while pending.
	got, err := f.engine.Update(ctx, f.member, req.ID, []booking.LineItemInput{f.lineItem(0, 4), f.lineItem(6, 8)})
	require.NoError(t, err)
	assert.Len(t, got.LineItems, 2)

	// Another member may not.
	_, err = f.engine.Update(ctx, booking.Actor{ID: 99}, req.ID, []booking.LineItemInput{f.lineItem(0, 4)})
	assert.ErrorIs(t, err, booking.ErrUnauthorized)

	// Once approved, the owner is locked out but staff are not.
	_, err = f.engine.Approve(ctx, f.staff, req.ID, []booking.ProposedAssignment{f.propose(f.vanG, 0, 4, 0)})
	require.NoError(t, err)
	_, err = f.engine.Update(ctx, f.member, req.ID, []booking.LineItemInput{f.lineItem(0, 2)})
	assert.ErrorIs(t, err, booking.ErrUnauthorized)
	_, err = f.engine.Update(ctx, f.staff, req.ID, []booking.LineItemInput{f.lineItem(0, 2)})
	assert.NoError(t, err)
}

func TestDelete_AuthzAndCascade(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := f.createTrip(t, 42, f.lineItem(0, 8))
	_, err := f.engine.Approve(ctx, f.staff, req.ID, []booking.ProposedAssignment{f.propose(f.vanG, 0, 8, 0)})
	require.NoError(t, err)

	// Approved: the requester may no longer delete.
	err = f.engine.Delete(ctx, f.member, req.ID, "changed plans")
	assert.ErrorIs(t, err, booking.ErrUnauthorized)

	require.NoError(t, f.engine.Delete(ctx, f.staff, req.ID, "trip scrubbed"))
	_, err = f.engine.GetRequest(ctx, f.staff, req.ID)
	assert.ErrorIs(t, err, booking.ErrNotFound)
	assert.Equal(t, booking.TripStatusNone, f.trips.last(42))

	// The window is free again.
	other := f.createSolo(t, f.lineItem(0, 8))
	_, err = f.engine.Approve(ctx, f.staff, other.ID, []booking.ProposedAssignment{f.propose(f.vanG, 0, 8, 0)})
	assert.NoError(t, err)

	// Pending requests can be withdrawn by their owner.
	mine := f.createSolo(t, f.lineItem(10, 12))
	assert.NoError(t, f.engine.Delete(ctx, f.member, mine.ID, "no longer needed"))
}

func TestNonOverlapInvariant_AfterMixedOperations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// A spread of approvals, re-approvals, cancellations and denials.
	a := f.createSolo(t, f.lineItem(0, 4))
	aApproved, err := f.engine.Approve(ctx, f.staff, a.ID, []booking.ProposedAssignment{f.propose(f.vanG, 0, 4, 0)})
	require.NoError(t, err)

	b := f.createSolo(t, f.lineItem(4, 8))
	_, err = f.engine.Approve(ctx, f.staff, b.ID, []booking.ProposedAssignment{f.propose(f.vanG, 4, 8, 0)})
	require.NoError(t, err)

	require.NoError(t, f.engine.CancelAssignments(ctx, f.staff, a.ID, []uint64{aApproved.Assignments[0].ID}))

	c := f.createSolo(t, f.lineItem(1, 3))
	_, err = f.engine.Approve(ctx, f.staff, c.ID, []booking.ProposedAssignment{f.propose(f.vanG, 1, 3, 0)})
	require.NoError(t, err)

	_, err = f.engine.Approve(ctx, f.staff, b.ID, []booking.ProposedAssignment{f.propose(f.vanG, 3, 9, 0)})
	require.NoError(t, err)

	cal, err := f.engine.VehicleCalendar(ctx, f.vanG, f.base.Add(-24*time.Hour), f.base.Add(72*time.Hour))
	require.NoError(t, err)
	for i := 0; i < len(cal); i++ {
		for j := i + 1; j < len(cal); j++ {
			wi := booking.Window{Pickup: cal[i].PickupTime, Return: cal[i].ReturnTime}
			wj := booking.Window{Pickup: cal[j].PickupTime, Return: cal[j].ReturnTime}
			assert.False(t, wi.Overlaps(wj), "assignments %d and %d overlap", cal[i].ID, cal[j].ID)
		}
	}
}

func TestCreate_ConcurrentNumbersAreUnique(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	const n = 32

	numbers := make(chan uint64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req, err := f.engine.Create(ctx, f.member, booking.CreateInput{
				Kind:      model.KindSolo,
				LineItems: []booking.LineItemInput{f.lineItem(0, 2)},
			})
			if assert.NoError(t, err) {
				numbers <- req.Number
			}
		}()
	}
	wg.Wait()
	close(numbers)

	seen := make(map[uint64]bool)
	for num := range numbers {
		assert.False(t, seen[num], "duplicate request number %d", num)
		seen[num] = true
	}
	assert.Len(t, seen, n)
}

func TestCheckOutCheckIn_FlagsAndActiveListing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := f.createSolo(t, f.lineItem(0, 8))
	approved, err := f.engine.Approve(ctx, f.staff, req.ID, []booking.ProposedAssignment{f.propose(f.vanG, 0, 8, 0)})
	require.NoError(t, err)
	aid := approved.Assignments[0].ID

	assert.ErrorIs(t, f.engine.CheckOut(ctx, f.member, aid), booking.ErrUnauthorized)
	require.NoError(t, f.engine.CheckOut(ctx, f.staff, aid))

	// Mid-booking the assignment shows up as active...
	active, err := f.engine.OverdueOrActive(ctx, f.base.Add(4*time.Hour))
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.True(t, active[0].PickedUp)

	// ...and past its return window it is overdue until checked in.
	overdue, err := f.engine.OverdueOrActive(ctx, f.base.Add(20*time.Hour))
	require.NoError(t, err)
	assert.Len(t, overdue, 1)

	require.NoError(t, f.engine.CheckIn(ctx, f.staff, aid))
	after, err := f.engine.OverdueOrActive(ctx, f.base.Add(20*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, after)
}

func TestGetRequest_MemberSeesOnlyTheirOwn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.createSolo(t, f.lineItem(0, 2))

	_, err := f.engine.GetRequest(ctx, f.member, req.ID)
	assert.NoError(t, err)
	_, err = f.engine.GetRequest(ctx, booking.Actor{ID: 99}, req.ID)
	assert.ErrorIs(t, err, booking.ErrUnauthorized)
	_, err = f.engine.GetRequest(ctx, f.staff, req.ID)
	assert.NoError(t, err)
}

func TestListRequests_StatusFilterStaffOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pendingReq := f.createSolo(t, f.lineItem(0, 2))
	approvedReq := f.createSolo(t, f.lineItem(4, 6))
	_, err := f.engine.Approve(ctx, f.staff, approvedReq.ID, []booking.ProposedAssignment{f.propose(f.vanG, 4, 6, 0)})
	require.NoError(t, err)

	_, err = f.engine.ListRequests(ctx, f.member, nil)
	assert.ErrorIs(t, err, booking.ErrUnauthorized)

	pending := model.StatusPending
	got, err := f.engine.ListRequests(ctx, f.staff, &pending)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, pendingReq.ID, got[0].ID)

	all, err := f.engine.ListRequests(ctx, f.staff, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestApprovedNotificationsReachRequesterAndLeader(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.trips.leaders[42] = 55

	req := f.createTrip(t, 42, f.lineItem(0, 8))
	_, err := f.engine.Approve(ctx, f.staff, req.ID, []booking.ProposedAssignment{f.propose(f.vanG, 0, 8, 0)})
	require.NoError(t, err)

	f.notifier.mu.Lock()
	defer f.notifier.mu.Unlock()
	require.NotEmpty(t, f.notifier.sent)
	last := f.notifier.sent[len(f.notifier.sent)-1]
	assert.Equal(t, "vehicle-request-approved", last.Template)
	assert.ElementsMatch(t, []uint64{f.member.ID, 55}, last.Recipients)
}
