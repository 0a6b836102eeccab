package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"parkspot/internal/db"
	apperrors "parkspot/internal/errors"
)

const spotColumns = `id, number, floor, section, is_available`

type ParkingRepository struct {
	DB *sqlx.DB
}

func NewParkingRepository(conn *sqlx.DB) *ParkingRepository {
	return &ParkingRepository{DB: conn}
}

func (r *ParkingRepository) GetSpotByID(ctx context.Context, id string) (*db.ParkingSpot, error) {
	var spot db.ParkingSpot
	err := r.DB.GetContext(ctx, &spot, `SELECT `+spotColumns+` FROM parking_spots WHERE id = $1`, id)
	if err != nil {
		return nil, translateLookup("get parking spot", "ParkingSpot", id, err)
	}
	return &spot, nil
}

// ListAvailableSpots returns the spots flagged available, ordered by label.
func (r *ParkingRepository) ListAvailableSpots(ctx context.Context) ([]db.ParkingSpot, error) {
	spots := []db.ParkingSpot{}
	err := r.DB.SelectContext(ctx, &spots,
		`SELECT `+spotColumns+` FROM parking_spots WHERE is_available = TRUE ORDER BY number, id`)
	if err != nil {
		return nil, apperrors.Storage("list available parking spots", err)
	}
	return spots, nil
}

func (r *ParkingRepository) SearchSpots(ctx context.Context, limit, offset int) ([]db.ParkingSpot, int64, error) {
	var total int64
	if err := r.DB.GetContext(ctx, &total, `SELECT COUNT(*) FROM parking_spots`); err != nil {
		return nil, 0, apperrors.Storage("count parking spots", err)
	}

	spots := []db.ParkingSpot{}
	err := r.DB.SelectContext(ctx, &spots,
		`SELECT `+spotColumns+` FROM parking_spots ORDER BY id DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Storage("search parking spots", err)
	}
	return spots, total, nil
}
