package entities

import "parkspot/internal/db"

// AvailabilityGroup holds the available spots sharing one floor and section.
type AvailabilityGroup struct {
	Floor          int              `json:"floor"`
	Section        string           `json:"section"`
	AvailableSpots []db.ParkingSpot `json:"availableSpots"`
}
