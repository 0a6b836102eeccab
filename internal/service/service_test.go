package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"parkspot/internal/auth"
	"parkspot/internal/db"
	"parkspot/internal/entities"
	"parkspot/internal/repository"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

var (
	testNow  = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	client   = auth.Principal{ID: "client-1", Email: "client@parkspot.test", Role: db.RoleClient}
	adminPri = auth.Principal{ID: "admin-1", Email: "admin@parkspot.test", Role: db.RoleAdmin}
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 2, hour, minute, 0, 0, time.UTC)
}

type fixture struct {
	store   *repository.MemoryStore
	auditor *Auditor
	svc     *ReservationService
}

func newFixture(t *testing.T, strict bool) *fixture {
	t.Helper()
	store := repository.NewMemoryStore()
	store.AddSpot(db.ParkingSpot{ID: "spot-1", Number: "A-101", Floor: 1, Section: "A", IsAvailable: true})
	store.AddSpot(db.ParkingSpot{ID: "spot-2", Number: "A-102", Floor: 1, Section: "A", IsAvailable: true})
	store.AddSpot(db.ParkingSpot{ID: "spot-3", Number: "B-201", Floor: 2, Section: "B", IsAvailable: false})

	auditor := NewAuditor(fixedClock{testNow}, StoreSink(store))
	t.Cleanup(auditor.Wait)
	svc := NewReservationService(store, store, auditor, TransitionPolicy{Strict: strict}, fixedClock{testNow})
	return &fixture{store: store, auditor: auditor, svc: svc}
}

func request(spotID string, start, end time.Time) entities.CreateReservationRequest {
	return entities.CreateReservationRequest{
		ParkingSpotID: spotID,
		StartTime:     start,
		EndTime:       end,
		VehiclePlate:  "ab-123 cd",
		VehicleType:   "Car",
	}
}

func (f *fixture) book(t *testing.T, spotID string, start, end time.Time) *db.Reservation {
	t.Helper()
	res, err := f.svc.CreateReservation(context.Background(), client, request(spotID, start, end))
	require.NoError(t, err)
	return res
}
