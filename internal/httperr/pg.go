package httperr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres SQLSTATE codes surfaced by the bookings exclusion constraint and
// the various unique indexes.
const (
	pgUniqueViolation    = "23505"
	pgExclusionViolation = "23P01"
)

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// IsExclusionConflict reports whether err is the database rejecting an
// overlapping booking window. The constraint is the final backstop: it fires
// only when two writers raced past the in-transaction conflict check.
func IsExclusionConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgExclusionViolation
}

// FromStoreError translates driver-level constraint failures into business
// errors; unrelated errors pass through unchanged.
func FromStoreError(err error) error {
	switch {
	case err == nil:
		return nil
	case IsExclusionConflict(err):
		return ConflictErr("booking_conflict", "The resource is already booked for the given time range.")
	case IsUniqueViolation(err):
		return AlreadyExistsErr("already_exists", "A record with the same unique fields already exists.")
	default:
		return err
	}
}
