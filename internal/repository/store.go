package repository

import (
	"context"
	"errors"
	"time"

	"parkspot/internal/db"
)

// ErrStatusChanged is returned by CompareAndSetStatus when the reservation's
// status no longer matches the expected one.
var ErrStatusChanged = errors.New("reservation status changed concurrently")

// SpotStore is the read-only view of parking spots the booking core needs.
type SpotStore interface {
	GetSpotByID(ctx context.Context, id string) (*db.ParkingSpot, error)
	ListAvailableSpots(ctx context.Context) ([]db.ParkingSpot, error)
	SearchSpots(ctx context.Context, limit, offset int) ([]db.ParkingSpot, int64, error)
}

type ReservationStore interface {
	// ListOverlapping returns every reservation on the spot, whatever its
	// status, whose window intersects [start, end].
	ListOverlapping(ctx context.Context, spotID string, start, end time.Time) ([]db.Reservation, error)
	InsertReservation(ctx context.Context, res *db.Reservation) error
	GetReservationByID(ctx context.Context, id string) (*db.Reservation, error)
	CompareAndSetStatus(ctx context.Context, id string, from, to db.ReservationStatus, at time.Time) error
	SearchReservations(ctx context.Context, limit, offset int) ([]db.Reservation, int64, error)
}

// UserStore persists staff and client accounts. Passwords are passed in
// clear and hashed by the store.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*db.User, error)
	GetUserByID(ctx context.Context, id string) (*db.User, error)
	CreateUser(ctx context.Context, user *db.User, password string) error
	UpdateUser(ctx context.Context, user *db.User, password string) error
	DeleteUser(ctx context.Context, id string) error
	SearchUsers(ctx context.Context, limit, offset int) ([]db.User, int64, error)
}

type TraceStore interface {
	InsertTrace(ctx context.Context, trace *db.Trace) error
	SearchTraces(ctx context.Context, limit, offset int) ([]db.Trace, int64, error)
}

// CompletionStore finds reservations whose window has already ended.
type CompletionStore interface {
	ListEndedReservationIDs(ctx context.Context, statuses []db.ReservationStatus, before time.Time) ([]string, error)
}
