package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"parkspot/internal/db"
	apperrors "parkspot/internal/errors"
)

// MemoryStore keeps spots, reservations, users and traces in process memory.
// It backs tests and single-instance demo runs.
//
// InsertReservation does not re-check overlaps; callers must serialize
// check-then-insert per spot.
type MemoryStore struct {
	mu           sync.RWMutex
	spots        []db.ParkingSpot
	reservations []db.Reservation
	users        map[string]db.User
	traces       []db.Trace
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]db.User)}
}

// AddSpot appends a spot to the catalog. Spots are listed in insertion order.
func (m *MemoryStore) AddSpot(spot db.ParkingSpot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.spots = append(m.spots, spot)
}

func (m *MemoryStore) GetSpotByID(ctx context.Context, id string) (*db.ParkingSpot, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Storage("get parking spot", err)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.spots {
		if s.ID == id {
			spot := s
			return &spot, nil
		}
	}
	return nil, apperrors.NotFound("ParkingSpot", id)
}

func (m *MemoryStore) ListAvailableSpots(ctx context.Context) ([]db.ParkingSpot, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Storage("list available parking spots", err)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	spots := []db.ParkingSpot{}
	for _, s := range m.spots {
		if s.IsAvailable {
			spots = append(spots, s)
		}
	}
	return spots, nil
}

func (m *MemoryStore) SearchSpots(ctx context.Context, limit, offset int) ([]db.ParkingSpot, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, apperrors.Storage("search parking spots", err)
	}
	m.mu.RLock()
	sorted := append([]db.ParkingSpot(nil), m.spots...)
	m.mu.RUnlock()

	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID > sorted[j].ID })
	return window(sorted, limit, offset), int64(len(sorted)), nil
}

func (m *MemoryStore) ListOverlapping(ctx context.Context, spotID string, start, end time.Time) ([]db.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Storage("list overlapping reservations", err)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	overlapping := []db.Reservation{}
	for _, r := range m.reservations {
		if r.ParkingSpotID == spotID && r.Overlaps(start, end) {
			overlapping = append(overlapping, r)
		}
	}
	return overlapping, nil
}

func (m *MemoryStore) InsertReservation(ctx context.Context, res *db.Reservation) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Storage("insert reservation", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reservations {
		if r.ID == res.ID {
			return apperrors.Storage("insert reservation", fmt.Errorf("duplicate id %s", res.ID))
		}
	}
	m.reservations = append(m.reservations, *res)
	return nil
}

func (m *MemoryStore) GetReservationByID(ctx context.Context, id string) (*db.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Storage("get reservation", err)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.reservations {
		if r.ID == id {
			res := r
			return &res, nil
		}
	}
	return nil, apperrors.NotFound("Reservation", id)
}

func (m *MemoryStore) CompareAndSetStatus(ctx context.Context, id string, from, to db.ReservationStatus, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Storage("update reservation status", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.reservations {
		if m.reservations[i].ID != id {
			continue
		}
		if m.reservations[i].Status != from {
			return ErrStatusChanged
		}
		m.reservations[i].Status = to
		m.reservations[i].UpdatedAt = at
		return nil
	}
	return apperrors.NotFound("Reservation", id)
}

func (m *MemoryStore) SearchReservations(ctx context.Context, limit, offset int) ([]db.Reservation, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, apperrors.Storage("search reservations", err)
	}
	m.mu.RLock()
	sorted := append([]db.Reservation(nil), m.reservations...)
	m.mu.RUnlock()

	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID > sorted[j].ID })
	return window(sorted, limit, offset), int64(len(sorted)), nil
}

func (m *MemoryStore) ListEndedReservationIDs(ctx context.Context, statuses []db.ReservationStatus, before time.Time) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var ended []db.Reservation
	for _, r := range m.reservations {
		if r.EndTime.Before(before) && hasStatus(statuses, r.Status) {
			ended = append(ended, r)
		}
	}
	sort.SliceStable(ended, func(i, j int) bool { return ended[i].EndTime.Before(ended[j].EndTime) })

	ids := make([]string, 0, len(ended))
	for _, r := range ended {
		ids = append(ids, r.ID)
	}
	return ids, nil
}

func (m *MemoryStore) GetByEmail(ctx context.Context, email string) (*db.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Storage("get user by email", err)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) GetUserByID(ctx context.Context, id string) (*db.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Storage("get user", err)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, apperrors.NotFound("User", id)
	}
	return &user, nil
}

// emailTaken reports whether another user already holds email. Callers hold mu.
func (m *MemoryStore) emailTaken(email, exceptID string) bool {
	for id, u := range m.users {
		if id != exceptID && u.Email == email {
			return true
		}
	}
	return false
}

func (m *MemoryStore) CreateUser(ctx context.Context, user *db.User, password string) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Storage("create user", err)
	}
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.emailTaken(user.Email, "") {
		return apperrors.Conflict(ErrEmailTaken)
	}
	user.ID = uuid.NewString()
	user.PasswordHash = hash
	m.users[user.ID] = *user
	return nil
}

func (m *MemoryStore) UpdateUser(ctx context.Context, user *db.User, password string) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Storage("update user", err)
	}
	if password != "" {
		hash, err := hashPassword(password)
		if err != nil {
			return err
		}
		user.PasswordHash = hash
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return apperrors.NotFound("User", user.ID)
	}
	if m.emailTaken(user.Email, user.ID) {
		return apperrors.Conflict(ErrEmailTaken)
	}
	m.users[user.ID] = *user
	return nil
}

func (m *MemoryStore) DeleteUser(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Storage("delete user", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return apperrors.NotFound("User", id)
	}
	delete(m.users, id)
	return nil
}

func (m *MemoryStore) SearchUsers(ctx context.Context, limit, offset int) ([]db.User, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, apperrors.Storage("search users", err)
	}
	m.mu.RLock()
	sorted := make([]db.User, 0, len(m.users))
	for _, u := range m.users {
		sorted = append(sorted, u)
	}
	m.mu.RUnlock()
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID > sorted[j].ID })
	return window(sorted, limit, offset), int64(len(sorted)), nil
}

func (m *MemoryStore) InsertTrace(ctx context.Context, trace *db.Trace) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Storage("insert trace", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.traces = append(m.traces, *trace)
	return nil
}

func (m *MemoryStore) SearchTraces(ctx context.Context, limit, offset int) ([]db.Trace, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, apperrors.Storage("search traces", err)
	}
	m.mu.RLock()
	sorted := append([]db.Trace(nil), m.traces...)
	m.mu.RUnlock()

	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].CreatedAt.After(sorted[j].CreatedAt) })
	return window(sorted, limit, offset), int64(len(sorted)), nil
}

func hasStatus(statuses []db.ReservationStatus, s db.ReservationStatus) bool {
	for _, st := range statuses {
		if st == s {
			return true
		}
	}
	return false
}

func window[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if limit <= 0 || end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
