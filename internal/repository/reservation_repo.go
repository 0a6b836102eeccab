package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"parkspot/internal/db"
	apperrors "parkspot/internal/errors"
)

const reservationColumns = `id, user_id, parking_spot_id, start_time, end_time, vehicle_plate, vehicle_type, status, created_at, updated_at`

// The insert re-checks the window inside the statement, so a row from
// another instance that committed after our own overlap scan still blocks it.
const insertReservationQuery = `
	INSERT INTO reservations (` + reservationColumns + `)
	SELECT $1::uuid, $2::text, $3::uuid, $4::timestamptz, $5::timestamptz, $6::text, $7::text, $8::text, $9::timestamptz, $10::timestamptz
	WHERE NOT EXISTS (
		SELECT 1 FROM reservations
		WHERE parking_spot_id = $3::uuid
		  AND start_time <= $5::timestamptz
		  AND end_time >= $4::timestamptz
	)`

type ReservationRepository struct {
	DB *sqlx.DB
}

func NewReservationRepository(conn *sqlx.DB) *ReservationRepository {
	return &ReservationRepository{DB: conn}
}

func (r *ReservationRepository) ListOverlapping(ctx context.Context, spotID string, start, end time.Time) ([]db.Reservation, error) {
	reservations := []db.Reservation{}
	err := r.DB.SelectContext(ctx, &reservations, `
		SELECT `+reservationColumns+`
		FROM reservations
		WHERE parking_spot_id = $1 AND start_time <= $3 AND end_time >= $2
		ORDER BY start_time`,
		spotID, start, end,
	)
	if err != nil {
		return nil, apperrors.Storage("list overlapping reservations", err)
	}
	return reservations, nil
}

// InsertReservation writes res inside a transaction that holds the spot's
// advisory lock. An overlapping row makes it fail with a ConflictError and
// nothing is written.
func (r *ReservationRepository) InsertReservation(ctx context.Context, res *db.Reservation) (err error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return apperrors.Storage("begin reservation insert", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, res.ParkingSpotID); err != nil {
		return apperrors.Storage("lock parking spot", err)
	}

	result, err := tx.ExecContext(ctx, insertReservationQuery,
		res.ID,
		res.UserID,
		res.ParkingSpotID,
		res.StartTime,
		res.EndTime,
		res.VehiclePlate,
		res.VehicleType,
		string(res.Status),
		res.CreatedAt,
		res.UpdatedAt,
	)
	if err != nil {
		if pqCode(err) == pqForeignKeyViolation {
			return apperrors.NotFound("ParkingSpot", res.ParkingSpotID)
		}
		return translateWrite("insert reservation", err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return apperrors.Storage("insert reservation", err)
	}
	if inserted == 0 {
		return apperrors.Conflict(apperrors.ErrSpotUnavailable)
	}

	if err = tx.Commit(); err != nil {
		return translateWrite("commit reservation insert", err)
	}
	return nil
}

func (r *ReservationRepository) GetReservationByID(ctx context.Context, id string) (*db.Reservation, error) {
	var res db.Reservation
	err := r.DB.GetContext(ctx, &res, `SELECT `+reservationColumns+` FROM reservations WHERE id = $1`, id)
	if err != nil {
		return nil, translateLookup("get reservation", "Reservation", id, err)
	}
	return &res, nil
}

// CompareAndSetStatus moves the reservation from one status to another. It
// returns ErrStatusChanged when the stored status is no longer from.
func (r *ReservationRepository) CompareAndSetStatus(ctx context.Context, id string, from, to db.ReservationStatus, at time.Time) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE reservations SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`,
		string(to), at, id, string(from),
	)
	if err != nil {
		return translateLookup("update reservation status", "Reservation", id, err)
	}

	updated, err := result.RowsAffected()
	if err != nil {
		return apperrors.Storage("update reservation status", err)
	}
	if updated > 0 {
		return nil
	}

	if _, err := r.GetReservationByID(ctx, id); err != nil {
		return err
	}
	return ErrStatusChanged
}

func (r *ReservationRepository) SearchReservations(ctx context.Context, limit, offset int) ([]db.Reservation, int64, error) {
	var total int64
	if err := r.DB.GetContext(ctx, &total, `SELECT COUNT(*) FROM reservations`); err != nil {
		return nil, 0, apperrors.Storage("count reservations", err)
	}

	reservations := []db.Reservation{}
	err := r.DB.SelectContext(ctx, &reservations,
		`SELECT `+reservationColumns+` FROM reservations ORDER BY id DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Storage("search reservations", err)
	}
	return reservations, total, nil
}

// IsStatusChanged reports whether err came from a lost compare-and-set.
func IsStatusChanged(err error) bool {
	return errors.Is(err, ErrStatusChanged)
}
