package service

import (
	"context"
	"log"

	"github.com/google/uuid"

	"parkspot/internal/auth"
	"parkspot/internal/db"
	"parkspot/internal/entities"
	apperrors "parkspot/internal/errors"
	"parkspot/internal/repository"
	"parkspot/internal/utils"
)

const statusChangeAttempts = 3

type ReservationService struct {
	Spots        repository.SpotStore
	Reservations repository.ReservationStore
	Checker      *OverlapChecker
	Locks        *SpotLocker
	Policy       TransitionPolicy
	Audit        *Auditor
	Clock        Clock
}

func NewReservationService(spots repository.SpotStore, reservations repository.ReservationStore, auditor *Auditor, policy TransitionPolicy, clock Clock) *ReservationService {
	return &ReservationService{
		Spots:        spots,
		Reservations: reservations,
		Checker:      NewOverlapChecker(reservations),
		Locks:        NewSpotLocker(),
		Policy:       policy,
		Audit:        auditor,
		Clock:        clock,
	}
}

// CreateReservation books a spot for the requested window. The overlap check
// and the insert run under the spot's lock, so of two overlapping concurrent
// requests at most one is stored.
func (s *ReservationService) CreateReservation(ctx context.Context, actor auth.Principal, req entities.CreateReservationRequest) (*db.Reservation, error) {
	if req.UserID == "" {
		req.UserID = actor.ID
	}
	if err := validateStruct(validate, req); err != nil {
		return nil, err
	}
	if !req.StartTime.Before(req.EndTime) {
		return nil, apperrors.Validation("startTime must be before endTime")
	}

	// The plate is stored as submitted; only its normalized form must be non-empty.
	vehicleType := utils.NormalizeVehicleType(req.VehicleType)
	if utils.NormalizePlate(req.VehiclePlate) == "" || vehicleType == "" {
		return nil, apperrors.Validation("vehiclePlate and vehicleType must not be blank")
	}
	start, end := req.StartTime.UTC(), req.EndTime.UTC()

	if _, err := s.Spots.GetSpotByID(ctx, req.ParkingSpotID); err != nil {
		return nil, err
	}

	unlock, err := s.Locks.Lock(ctx, req.ParkingSpotID)
	if err != nil {
		return nil, apperrors.Storage("acquire parking spot lock", err)
	}
	defer unlock()

	conflict, err := s.Checker.Conflicts(ctx, req.ParkingSpotID, start, end)
	if err != nil {
		return nil, err
	}
	if conflict {
		log.Printf("Rejected reservation on spot %s for %s - %s: window taken", req.ParkingSpotID, start, end)
		return nil, apperrors.Conflict(apperrors.ErrSpotUnavailable)
	}

	now := s.Clock.Now()
	reservation := &db.Reservation{
		ID:            uuid.NewString(),
		UserID:        req.UserID,
		ParkingSpotID: req.ParkingSpotID,
		StartTime:     start,
		EndTime:       end,
		VehiclePlate:  req.VehiclePlate,
		VehicleType:   vehicleType,
		Status:        db.StatusConfirmed,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.Reservations.InsertReservation(ctx, reservation); err != nil {
		return nil, err
	}
	unlock()

	s.Audit.Record(ctx, ActionCreate, ModuleReservations, actor.ID, req)
	return reservation, nil
}

func (s *ReservationService) GetReservation(ctx context.Context, id string) (*db.Reservation, error) {
	return s.Reservations.GetReservationByID(ctx, id)
}

// UpdateStatus validates a status change request and applies it.
func (s *ReservationService) UpdateStatus(ctx context.Context, actor auth.Principal, id string, req entities.UpdateReservationStatusRequest) (*db.Reservation, error) {
	if err := validateStruct(validate, req); err != nil {
		return nil, err
	}
	return s.ChangeStatus(ctx, actor, id, db.ReservationStatus(req.Status))
}

// ChangeStatus moves a reservation to status. Under a strict policy only
// confirmed reservations can change, and only to completed or cancelled.
// The window stays blocked whatever the new status is.
func (s *ReservationService) ChangeStatus(ctx context.Context, actor auth.Principal, id string, status db.ReservationStatus) (*db.Reservation, error) {
	if !status.Valid() {
		return nil, apperrors.Validation("invalid status %q", status)
	}

	for attempt := 0; attempt < statusChangeAttempts; attempt++ {
		reservation, err := s.Reservations.GetReservationByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if !s.Policy.Allows(reservation.Status, status) {
			return nil, &apperrors.InvalidTransitionError{From: string(reservation.Status), To: string(status)}
		}

		now := s.Clock.Now()
		err = s.Reservations.CompareAndSetStatus(ctx, id, reservation.Status, status, now)
		if repository.IsStatusChanged(err) {
			// Someone else changed it first; judge the request against the new state.
			continue
		}
		if err != nil {
			return nil, err
		}

		previous := reservation.Status
		reservation.Status = status
		reservation.UpdatedAt = now

		s.Audit.Record(ctx, ActionChangeStatus, ModuleReservations, actor.ID, map[string]string{
			"id":   id,
			"from": string(previous),
			"to":   string(status),
		})
		return reservation, nil
	}
	return nil, apperrors.Storage("change reservation status", repository.ErrStatusChanged)
}

func (s *ReservationService) SearchReservations(ctx context.Context, page, limit int) (entities.Page[db.Reservation], error) {
	page, limit = entities.NormalizePaging(page, limit)
	items, total, err := s.Reservations.SearchReservations(ctx, limit, entities.Offset(page, limit))
	if err != nil {
		return entities.Page[db.Reservation]{}, err
	}
	return entities.NewPage(items, total, page, limit), nil
}
