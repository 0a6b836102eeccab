package entities

import "time"

type CreateReservationRequest struct {
	UserID        string    `json:"userId"`
	ParkingSpotID string    `json:"parkingSpotId" validate:"required"`
	StartTime     time.Time `json:"startTime" validate:"required"`
	EndTime       time.Time `json:"endTime" validate:"required"`
	VehiclePlate  string    `json:"vehiclePlate" validate:"required,max=16"`
	VehicleType   string    `json:"vehicleType" validate:"required,max=32"`
}

type UpdateReservationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed completed cancelled"`
}
