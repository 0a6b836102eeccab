package service

import (
	"context"

	"parkspot/internal/db"
	"parkspot/internal/entities"
	"parkspot/internal/repository"
)

type ParkingService struct {
	Spots repository.SpotStore
}

func NewParkingService(spots repository.SpotStore) *ParkingService {
	return &ParkingService{Spots: spots}
}

// AvailableSpots groups the spots flagged available by (floor, section).
// Groups appear in the order their first spot was returned by the store, and
// spots keep store order inside a group.
func (s *ParkingService) AvailableSpots(ctx context.Context) ([]entities.AvailabilityGroup, error) {
	spots, err := retryRead(ctx, s.Spots.ListAvailableSpots)
	if err != nil {
		return nil, err
	}
	return groupByFloorSection(spots), nil
}

type floorSection struct {
	floor   int
	section string
}

func groupByFloorSection(spots []db.ParkingSpot) []entities.AvailabilityGroup {
	groups := []entities.AvailabilityGroup{}
	index := make(map[floorSection]int)
	for _, spot := range spots {
		key := floorSection{floor: spot.Floor, section: spot.Section}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, entities.AvailabilityGroup{Floor: spot.Floor, Section: spot.Section})
		}
		groups[i].AvailableSpots = append(groups[i].AvailableSpots, spot)
	}
	return groups
}

func (s *ParkingService) SearchSpots(ctx context.Context, page, limit int) (entities.Page[db.ParkingSpot], error) {
	page, limit = entities.NormalizePaging(page, limit)
	items, total, err := s.Spots.SearchSpots(ctx, limit, entities.Offset(page, limit))
	if err != nil {
		return entities.Page[db.ParkingSpot]{}, err
	}
	return entities.NewPage(items, total, page, limit), nil
}
