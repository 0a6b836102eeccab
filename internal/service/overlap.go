package service

import (
	"context"
	"time"

	"parkspot/internal/repository"
)

// OverlapChecker answers whether a window on a spot collides with any stored
// reservation. Reservations of every status count, cancelled ones included.
type OverlapChecker struct {
	Store repository.ReservationStore
}

func NewOverlapChecker(store repository.ReservationStore) *OverlapChecker {
	return &OverlapChecker{Store: store}
}

func (c *OverlapChecker) Conflicts(ctx context.Context, spotID string, start, end time.Time) (bool, error) {
	candidates, err := c.Store.ListOverlapping(ctx, spotID, start, end)
	if err != nil {
		return false, err
	}
	for _, r := range candidates {
		if r.ParkingSpotID == spotID && r.Overlaps(start, end) {
			return true, nil
		}
	}
	return false, nil
}
