package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"parkspot/internal/db"
	apperrors "parkspot/internal/errors"
)

type TraceRepository struct {
	DB *sqlx.DB
}

func NewTraceRepository(conn *sqlx.DB) *TraceRepository {
	return &TraceRepository{DB: conn}
}

func (r *TraceRepository) InsertTrace(ctx context.Context, trace *db.Trace) error {
	payload := "null"
	if len(trace.Payload) > 0 {
		payload = string(trace.Payload)
	}
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO traces (id, action, module, actor, payload, created_at) VALUES ($1, $2, $3, $4, $5::jsonb, $6)`,
		trace.ID, trace.Action, trace.Module, trace.Actor, payload, trace.CreatedAt,
	)
	if err != nil {
		return apperrors.Storage("insert trace", err)
	}
	return nil
}

// SearchTraces lists traces newest first.
func (r *TraceRepository) SearchTraces(ctx context.Context, limit, offset int) ([]db.Trace, int64, error) {
	var total int64
	if err := r.DB.GetContext(ctx, &total, `SELECT COUNT(*) FROM traces`); err != nil {
		return nil, 0, apperrors.Storage("count traces", err)
	}

	traces := []db.Trace{}
	err := r.DB.SelectContext(ctx, &traces, `
		SELECT id, action, module, actor, COALESCE(payload, 'null'::jsonb) AS payload, created_at
		FROM traces
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, apperrors.Storage("search traces", err)
	}
	return traces, total, nil
}
