// Package memstore provides an in-memory booking.Store used by the
// engine tests and local development.  Atomicity is simulated with a
// snapshot taken before the callback and restored on error; the single
// mutex makes every transaction fully serialized, which is the
// strongest isolation the engine can ask for.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/trailhead/vehicle-booking/internal/booking"
	"github.com/trailhead/vehicle-booking/internal/model"
)

type Store struct {
	mu          sync.Mutex
	counter     uint64
	nextID      uint64
	requests    map[uint64]model.VehicleRequest
	lineItems   map[uint64][]model.RequestedVehicle // by request id, ordered
	assignments map[uint64]model.Assignment
	vehicles    map[uint64]model.Vehicle
}

func New() *Store {
	return &Store{
		requests:    make(map[uint64]model.VehicleRequest),
		lineItems:   make(map[uint64][]model.RequestedVehicle),
		assignments: make(map[uint64]model.Assignment),
		vehicles:    make(map[uint64]model.Vehicle),
	}
}

// AddVehicle seeds a vehicle and returns its id.
func (s *Store) AddVehicle(name, typ string, active bool) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.allocID()
	s.vehicles[id] = model.Vehicle{ID: id, Name: name, Type: typ, Active: active}
	return id
}

func (s *Store) allocID() uint64 {
	s.nextID++
	return s.nextID
}

// Atomic runs fn under the store mutex, restoring a pre-call snapshot
// when fn returns an error.
func (s *Store) Atomic(ctx context.Context, fn func(tx booking.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(&memTx{s: s}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	counter     uint64
	nextID      uint64
	requests    map[uint64]model.VehicleRequest
	lineItems   map[uint64][]model.RequestedVehicle
	assignments map[uint64]model.Assignment
	vehicles    map[uint64]model.Vehicle
}

func (s *Store) snapshot() snapshot {
	reqs := make(map[uint64]model.VehicleRequest, len(s.requests))
	for k, v := range s.requests {
		reqs[k] = v
	}
	items := make(map[uint64][]model.RequestedVehicle, len(s.lineItems))
	for k, v := range s.lineItems {
		items[k] = append([]model.RequestedVehicle{}, v...)
	}
	asgs := make(map[uint64]model.Assignment, len(s.assignments))
	for k, v := range s.assignments {
		asgs[k] = v
	}
	vehs := make(map[uint64]model.Vehicle, len(s.vehicles))
	for k, v := range s.vehicles {
		vehs[k] = v
	}
	return snapshot{counter: s.counter, nextID: s.nextID, requests: reqs, lineItems: items, assignments: asgs, vehicles: vehs}
}

func (s *Store) restore(sn snapshot) {
	s.counter = sn.counter
	s.nextID = sn.nextID
	s.requests = sn.requests
	s.lineItems = sn.lineItems
	s.assignments = sn.assignments
	s.vehicles = sn.vehicles
}

func (s *Store) GetRequest(_ context.Context, id uint64) (*model.VehicleRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadRequest(id)
}

func (s *Store) loadRequest(id uint64) (*model.VehicleRequest, error) {
	req, ok := s.requests[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	req.LineItems = append([]model.RequestedVehicle{}, s.lineItems[id]...)
	req.Assignments = s.requestAssignments(id)
	return &req, nil
}

func (s *Store) requestAssignments(requestID uint64) []model.Assignment {
	var out []model.Assignment
	for _, a := range s.assignments {
		if a.RequestID == requestID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) ListRequests(_ context.Context, status *model.RequestStatus) ([]model.VehicleRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.VehicleRequest
	for id, req := range s.requests {
		if status != nil && req.Status != *status {
			continue
		}
		req.LineItems = append([]model.RequestedVehicle{}, s.lineItems[id]...)
		req.Assignments = s.requestAssignments(id)
		out = append(out, req)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (s *Store) ListAssignmentsInWindow(_ context.Context, vehicleID uint64, from, to time.Time) ([]model.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	win := booking.Window{Pickup: from, Return: to}
	var out []model.Assignment
	for _, a := range s.assignments {
		if a.VehicleID != vehicleID {
			continue
		}
		if win.Overlaps(booking.Window{Pickup: a.PickupTime, Return: a.ReturnTime}) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PickupTime.Before(out[j].PickupTime) })
	return out, nil
}

func (s *Store) ListOverdueOrActive(_ context.Context, now time.Time) ([]model.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Assignment
	for _, a := range s.assignments {
		if !a.PickupTime.After(now) && !a.Returned {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PickupTime.Before(out[j].PickupTime) })
	return out, nil
}

// memTx exposes the mutating surface.  The store mutex is already held
// by Atomic, so methods touch state directly.
type memTx struct {
	s *Store
}

func (t *memTx) NextRequestNumber(_ context.Context) (uint64, error) {
	t.s.counter++
	return t.s.counter, nil
}

func (t *memTx) InsertRequest(_ context.Context, req *model.VehicleRequest) error {
	req.ID = t.s.allocID()
	items := make([]model.RequestedVehicle, len(req.LineItems))
	for i, li := range req.LineItems {
		li.ID = t.s.allocID()
		li.RequestID = req.ID
		items[i] = li
	}
	req.LineItems = items
	stored := *req
	stored.LineItems = nil
	stored.Assignments = nil
	t.s.requests[req.ID] = stored
	t.s.lineItems[req.ID] = append([]model.RequestedVehicle{}, items...)
	return nil
}

func (t *memTx) GetRequestForUpdate(_ context.Context, id uint64) (*model.VehicleRequest, error) {
	return t.s.loadRequest(id)
}

func (t *memTx) ReplaceLineItems(_ context.Context, requestID uint64, items []model.RequestedVehicle) error {
	if _, ok := t.s.requests[requestID]; !ok {
		return booking.ErrNotFound
	}
	stored := make([]model.RequestedVehicle, len(items))
	for i, li := range items {
		li.ID = t.s.allocID()
		li.RequestID = requestID
		stored[i] = li
	}
	t.s.lineItems[requestID] = stored
	return nil
}

func (t *memTx) SetRequestStatus(_ context.Context, requestID uint64, status model.RequestStatus) error {
	req, ok := t.s.requests[requestID]
	if !ok {
		return booking.ErrNotFound
	}
	req.Status = status
	t.s.requests[requestID] = req
	return nil
}

func (t *memTx) DeleteRequest(_ context.Context, requestID uint64) error {
	if _, ok := t.s.requests[requestID]; !ok {
		return booking.ErrNotFound
	}
	delete(t.s.requests, requestID)
	delete(t.s.lineItems, requestID)
	return nil
}

func (t *memTx) GetVehicleForUpdate(_ context.Context, id uint64) (*model.Vehicle, error) {
	v, ok := t.s.vehicles[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	return &v, nil
}

func (t *memTx) ListVehicleAssignments(_ context.Context, vehicleID uint64) ([]model.Assignment, error) {
	var out []model.Assignment
	for _, a := range t.s.assignments {
		if a.VehicleID == vehicleID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (t *memTx) InsertAssignment(_ context.Context, a *model.Assignment) error {
	a.ID = t.s.allocID()
	t.s.assignments[a.ID] = *a
	return nil
}

func (t *memTx) DeleteAssignmentsByRequest(_ context.Context, requestID uint64) (int, error) {
	n := 0
	for id, a := range t.s.assignments {
		if a.RequestID == requestID {
			delete(t.s.assignments, id)
			n++
		}
	}
	return n, nil
}

func (t *memTx) DeleteAssignments(_ context.Context, ids []uint64) error {
	for _, id := range ids {
		if _, ok := t.s.assignments[id]; !ok {
			return booking.ErrNotFound
		}
		delete(t.s.assignments, id)
	}
	return nil
}

func (t *memTx) GetAssignment(_ context.Context, id uint64) (*model.Assignment, error) {
	a, ok := t.s.assignments[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	return &a, nil
}

func (t *memTx) SetAssignmentFlags(_ context.Context, id uint64, pickedUp, returned bool) error {
	a, ok := t.s.assignments[id]
	if !ok {
		return booking.ErrNotFound
	}
	a.PickedUp = pickedUp
	a.Returned = returned
	t.s.assignments[id] = a
	return nil
}
