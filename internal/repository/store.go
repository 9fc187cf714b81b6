package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/trailhead/vehicle-booking/internal/booking"
	"github.com/trailhead/vehicle-booking/internal/model"
)

// Store assembles the per-table repos into the transactional interface
// the booking engine consumes.  Atomic opens one MySQL transaction and
// hands the engine a storeTx bound to it; the FOR UPDATE reads inside
// keep concurrent approvals from racing the conflict check.
type Store struct {
	db          *sql.DB
	requests    *RequestRepo
	assignments *AssignmentRepo
	vehicles    *VehicleRepo
	counters    *CounterRepo
}

// NewStore returns a Store bound to the given database.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:          db,
		requests:    NewRequestRepo(db),
		assignments: NewAssignmentRepo(db),
		vehicles:    NewVehicleRepo(db),
		counters:    NewCounterRepo(db),
	}
}

// Atomic runs fn inside one transaction.  A non-nil error from fn rolls
// every write back and is returned unchanged.
func (s *Store) Atomic(ctx context.Context, fn func(tx booking.Tx) error) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = dbTx.Rollback()
		}
	}()
	if err := fn(&storeTx{s: s, tx: dbTx}); err != nil {
		return err
	}
	if err := dbTx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func (s *Store) GetRequest(ctx context.Context, id uint64) (*model.VehicleRequest, error) {
	return s.requests.Get(ctx, id)
}

func (s *Store) ListRequests(ctx context.Context, status *model.RequestStatus) ([]model.VehicleRequest, error) {
	return s.requests.List(ctx, status)
}

func (s *Store) ListAssignmentsInWindow(ctx context.Context, vehicleID uint64, from, to time.Time) ([]model.Assignment, error) {
	return s.assignments.ListInWindow(ctx, vehicleID, from, to)
}

func (s *Store) ListOverdueOrActive(ctx context.Context, now time.Time) ([]model.Assignment, error) {
	return s.assignments.ListOverdueOrActive(ctx, now)
}

// storeTx adapts one *sql.Tx to the engine's transactional surface by
// delegating to the repos' Tx methods.
type storeTx struct {
	s  *Store
	tx *sql.Tx
}

func (t *storeTx) NextRequestNumber(ctx context.Context) (uint64, error) {
	return t.s.counters.NextTx(ctx, t.tx)
}

func (t *storeTx) InsertRequest(ctx context.Context, req *model.VehicleRequest) error {
	return t.s.requests.CreateTx(ctx, t.tx, req)
}

func (t *storeTx) GetRequestForUpdate(ctx context.Context, id uint64) (*model.VehicleRequest, error) {
	return t.s.requests.GetForUpdateTx(ctx, t.tx, id)
}

func (t *storeTx) ReplaceLineItems(ctx context.Context, requestID uint64, items []model.RequestedVehicle) error {
	return t.s.requests.ReplaceLineItemsTx(ctx, t.tx, requestID, items)
}

func (t *storeTx) SetRequestStatus(ctx context.Context, requestID uint64, status model.RequestStatus) error {
	return t.s.requests.SetStatusTx(ctx, t.tx, requestID, status)
}

func (t *storeTx) DeleteRequest(ctx context.Context, requestID uint64) error {
	return t.s.requests.DeleteTx(ctx, t.tx, requestID)
}

func (t *storeTx) GetVehicleForUpdate(ctx context.Context, id uint64) (*model.Vehicle, error) {
	return t.s.vehicles.GetForUpdateTx(ctx, t.tx, id)
}

func (t *storeTx) ListVehicleAssignments(ctx context.Context, vehicleID uint64) ([]model.Assignment, error) {
	return t.s.assignments.ListByVehicleTx(ctx, t.tx, vehicleID)
}

func (t *storeTx) InsertAssignment(ctx context.Context, a *model.Assignment) error {
	return t.s.assignments.CreateTx(ctx, t.tx, a)
}

func (t *storeTx) DeleteAssignmentsByRequest(ctx context.Context, requestID uint64) (int, error) {
	return t.s.assignments.DeleteByRequestTx(ctx, t.tx, requestID)
}

func (t *storeTx) DeleteAssignments(ctx context.Context, ids []uint64) error {
	return t.s.assignments.DeleteByIDsTx(ctx, t.tx, ids)
}

func (t *storeTx) GetAssignment(ctx context.Context, id uint64) (*model.Assignment, error) {
	return t.s.assignments.GetTx(ctx, t.tx, id)
}

func (t *storeTx) SetAssignmentFlags(ctx context.Context, id uint64, pickedUp, returned bool) error {
	return t.s.assignments.SetFlagsTx(ctx, t.tx, id, pickedUp, returned)
}
