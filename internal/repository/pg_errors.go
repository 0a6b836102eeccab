package repository

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	apperrors "parkspot/internal/errors"
)

const (
	pqUniqueViolation     = "23505"
	pqExclusionViolation  = "23P01"
	pqInvalidTextRepr     = "22P02"
	pqForeignKeyViolation = "23503"
)

func pqCode(err error) pq.ErrorCode {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code
	}
	return ""
}

// translateLookup maps a failed single-row read to the error taxonomy.
// A malformed UUID can never match a row, so it is reported as not found.
func translateLookup(op, entity, id string, err error) error {
	if errors.Is(err, sql.ErrNoRows) || pqCode(err) == pqInvalidTextRepr {
		return apperrors.NotFound(entity, id)
	}
	return apperrors.Storage(op, err)
}

// translateWrite maps constraint violations raised by a write.
func translateWrite(op string, err error) error {
	switch pqCode(err) {
	case pqExclusionViolation, pqUniqueViolation:
		return apperrors.Conflict(apperrors.ErrSpotUnavailable)
	}
	return apperrors.Storage(op, err)
}
