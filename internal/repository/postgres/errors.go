package postgres

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
	ierr "github.com/waterdropvpn/starcore/internal/errors"
)

// pq error code for unique constraint violations.
const uniqueViolation = "23505"

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// wrapDBError maps driver failures that are not handled explicitly by the
// caller onto the generic database sentinel.
func wrapDBError(err error, op string) error {
	return ierr.WithError(err).
		WithHintf("Database operation failed: %s", op).
		Mark(ierr.ErrDatabase)
}

// requireRowAffected turns a zero-row UPDATE into a not found error so a
// stale ID surfaces instead of silently succeeding.
func requireRowAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return wrapDBError(err, "rows affected")
	}
	if n == 0 {
		return ierr.NewError(entity + " not found").
			WithHintf("%s with ID %s was not found", entity, id).
			Mark(ierr.ErrNotFound)
	}
	return nil
}
