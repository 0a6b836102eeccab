package db

import (
	"encoding/json"
	"time"
)

type ReservationStatus string

const (
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCompleted ReservationStatus = "completed"
	StatusCancelled ReservationStatus = "cancelled"
)

// Statuses lists every valid reservation status.
var Statuses = []ReservationStatus{StatusConfirmed, StatusCompleted, StatusCancelled}

func (s ReservationStatus) Valid() bool {
	for _, st := range Statuses {
		if s == st {
			return true
		}
	}
	return false
}

type Role string

const (
	RoleClient   Role = "client"
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	return r.Rank() > 0
}

// Rank orders roles for gating: client < employee < admin. Unknown roles rank below client.
func (r Role) Rank() int {
	switch r {
	case RoleClient:
		return 1
	case RoleEmployee:
		return 2
	case RoleAdmin:
		return 3
	default:
		return 0
	}
}

type ParkingSpot struct {
	ID          string `db:"id" json:"id"`
	Number      string `db:"number" json:"number"`
	Floor       int    `db:"floor" json:"floor"`
	Section     string `db:"section" json:"section"`
	IsAvailable bool   `db:"is_available" json:"isAvailable"`
}

type Reservation struct {
	ID            string            `db:"id" json:"id"`
	UserID        string            `db:"user_id" json:"userId"`
	ParkingSpotID string            `db:"parking_spot_id" json:"parkingSpotId"`
	StartTime     time.Time         `db:"start_time" json:"startTime"`
	EndTime       time.Time         `db:"end_time" json:"endTime"`
	VehiclePlate  string            `db:"vehicle_plate" json:"vehiclePlate"`
	VehicleType   string            `db:"vehicle_type" json:"vehicleType"`
	Status        ReservationStatus `db:"status" json:"status"`
	CreatedAt     time.Time         `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time         `db:"updated_at" json:"updatedAt"`
}

type User struct {
	ID           string `db:"id" json:"id"`
	Email        string `db:"email" json:"email"`
	PasswordHash string `db:"password_hash" json:"-"`
	FirstName    string `db:"first_name" json:"firstName"`
	LastName     string `db:"last_name" json:"lastName"`
	Role         Role   `db:"role" json:"role"`
}

// Trace is one audit-log entry.
type Trace struct {
	ID        string          `db:"id" json:"id"`
	Action    string          `db:"action" json:"action"`
	Module    string          `db:"module" json:"module"`
	Actor     string          `db:"actor" json:"actor"`
	Payload   json.RawMessage `db:"payload" json:"payload,omitempty"`
	CreatedAt time.Time       `db:"created_at" json:"createdAt"`
}

// Overlaps reports whether the reservation's window intersects [start, end].
// Touching endpoints count as overlapping.
func (r Reservation) Overlaps(start, end time.Time) bool {
	return Overlaps(r.StartTime, r.EndTime, start, end)
}

// Overlaps is the interval rule shared by every conflict check:
// [s1,e1] and [s2,e2] overlap when s1 <= e2 and e1 >= s2.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return !s1.After(e2) && !e1.Before(s2)
}
