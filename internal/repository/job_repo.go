package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"parkspot/internal/db"
)

type JobRepository struct {
	DB *sqlx.DB
}

func NewJobRepository(conn *sqlx.DB) *JobRepository {
	return &JobRepository{DB: conn}
}

// ListEndedReservationIDs returns the ids of reservations in one of statuses
// whose end time is before the given instant, oldest first.
func (r *JobRepository) ListEndedReservationIDs(ctx context.Context, statuses []db.ReservationStatus, before time.Time) ([]string, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}

	ids := []string{}
	err := r.DB.SelectContext(ctx, &ids,
		`SELECT id FROM reservations WHERE status = ANY($1) AND end_time < $2 ORDER BY end_time`,
		pq.Array(names), before,
	)
	if err != nil {
		return nil, fmt.Errorf("error querying reservations ended before %s: %w", before.Format(time.RFC3339), err)
	}
	return ids, nil
}
